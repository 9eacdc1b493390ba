package stats

import (
	"context"
	"math"
	"runtime"
	"sync"

	"golang.org/x/sync/semaphore"
	"gonum.org/v1/gonum/stat"

	"govista/domain/indicator"
)

// Engine is the numeric backend for correlation matrices and trend fits.
// It delegates the coefficient math to gonum and maps every degenerate
// outcome to the NaN marker instead of letting infinities leak out.
type Engine struct {
	workers int64
}

// NewEngine creates an engine bounded to one worker per available CPU
func NewEngine() *Engine {
	return &Engine{workers: int64(runtime.GOMAXPROCS(0))}
}

// Correlate computes the symmetric pairwise-complete Pearson matrix over
// the given indicator order. Rows of the upper triangle are computed
// concurrently under a weighted semaphore; every (i, j) slot is written
// exactly once and mirrored afterwards, so the result is deterministic.
func (e *Engine) Correlate(ctx context.Context, pivot indicator.PivotMatrix, indicators []string) (indicator.CorrelationMatrix, error) {
	matrix := indicator.NewCorrelationMatrix(indicators)

	sem := semaphore.NewWeighted(e.workers)
	var wg sync.WaitGroup
	var acquireErr error
	var errOnce sync.Once

	for i := range indicators {
		if err := sem.Acquire(ctx, 1); err != nil {
			errOnce.Do(func() { acquireErr = err })
			break
		}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer sem.Release(1)
			for j := i; j < len(indicators); j++ {
				matrix.Values[i][j] = e.pairCorrelation(pivot, indicators[i], indicators[j], i == j)
			}
		}(i)
	}
	wg.Wait()
	if acquireErr != nil {
		return indicator.CorrelationMatrix{}, acquireErr
	}

	// Mirror the upper triangle; symmetry holds by construction
	for i := range indicators {
		for j := 0; j < i; j++ {
			matrix.Values[i][j] = matrix.Values[j][i]
		}
	}
	return matrix, nil
}

// pairCorrelation computes one entry over the years where both indicators
// are defined. Diagonal entries are 1.0 by definition whenever the
// indicator has at least one value; off-diagonal entries need at least 2
// overlapping years and non-zero variance on both sides.
func (e *Engine) pairCorrelation(pivot indicator.PivotMatrix, a, b string, diagonal bool) float64 {
	xs, ys := pivot.Overlap(a, b)

	if diagonal {
		if len(xs) == 0 {
			return math.NaN()
		}
		return 1.0
	}

	if len(xs) < 2 {
		return math.NaN()
	}
	if stat.Variance(xs, nil) == 0 || stat.Variance(ys, nil) == 0 {
		return math.NaN()
	}

	r := stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return math.NaN()
	}
	return r
}

// Fit computes an ordinary-least-squares line over merged pairs.
// Fewer than 2 points or zero x-variance means no trend, not an error.
func (e *Engine) Fit(points []indicator.MergedPoint) (indicator.TrendLine, bool) {
	if len(points) < 2 {
		return indicator.TrendLine{}, false
	}

	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i] = p.X
		ys[i] = p.Y
	}
	if stat.Variance(xs, nil) == 0 {
		return indicator.TrendLine{}, false
	}

	intercept, slope := stat.LinearRegression(xs, ys, nil, false)
	if math.IsNaN(slope) || math.IsInf(slope, 0) {
		return indicator.TrendLine{}, false
	}
	return indicator.TrendLine{Slope: slope, Intercept: intercept}, true
}
