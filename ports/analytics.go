package ports

import (
	"context"

	"govista/domain/indicator"
)

// DatasetSource loads the indicator table from an external tabular resource.
// It is read exactly once at process start; the returned dataset is the
// process-wide immutable snapshot every request computes over.
type DatasetSource interface {
	Load(ctx context.Context) (*indicator.Dataset, error)
}

// Correlator computes the pairwise-complete Pearson correlation matrix over
// an indicator subset of a pivot matrix. Entries that cannot be computed are
// carried as the NaN marker, never as a silent 0 or 1.
type Correlator interface {
	Correlate(ctx context.Context, pivot indicator.PivotMatrix, indicators []string) (indicator.CorrelationMatrix, error)
}

// TrendFitter fits an ordinary-least-squares line over merged pairs.
// ok is false when fewer than 2 points exist or the x values have zero
// variance; the caller omits the trend rather than reporting an error.
type TrendFitter interface {
	Fit(points []indicator.MergedPoint) (indicator.TrendLine, bool)
}
