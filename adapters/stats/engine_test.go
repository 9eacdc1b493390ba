package stats

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"govista/domain/indicator"
)

func pivotFrom(obs []indicator.Observation) indicator.PivotMatrix {
	return indicator.Pivot(indicator.FilteredView{Observations: obs})
}

func TestCorrelate_SymmetricWithUnitDiagonal(t *testing.T) {
	pivot := pivotFrom([]indicator.Observation{
		{Indicator: "GDP", Year: 2000, Value: 100},
		{Indicator: "GDP", Year: 2001, Value: 110},
		{Indicator: "GDP", Year: 2002, Value: 120},
		{Indicator: "Inflation", Year: 2000, Value: 5},
		{Indicator: "Inflation", Year: 2001, Value: 4},
		{Indicator: "Inflation", Year: 2002, Value: 3.5},
		{Indicator: "Exports", Year: 2000, Value: 25},
		{Indicator: "Exports", Year: 2001, Value: 28},
		{Indicator: "Exports", Year: 2002, Value: 26},
	})

	engine := NewEngine()
	matrix, err := engine.Correlate(context.Background(), pivot, pivot.Indicators())
	require.NoError(t, err)
	require.Len(t, matrix.Indicators, 3)

	for i := range matrix.Indicators {
		diag, ok := matrix.At(i, i)
		require.True(t, ok, "diagonal must be defined for indicator with data")
		assert.Equal(t, 1.0, diag)

		for j := range matrix.Indicators {
			vij, okij := matrix.At(i, j)
			vji, okji := matrix.At(j, i)
			require.Equal(t, okij, okji, "definedness must be symmetric")
			if okij {
				assert.Equal(t, vij, vji, "matrix must be symmetric")
			}
		}
	}
}

func TestCorrelate_PerfectlyLinearPair(t *testing.T) {
	// y = 2x + 1 exactly
	pivot := pivotFrom([]indicator.Observation{
		{Indicator: "X", Year: 2000, Value: 1},
		{Indicator: "X", Year: 2001, Value: 2},
		{Indicator: "X", Year: 2002, Value: 3},
		{Indicator: "Y", Year: 2000, Value: 3},
		{Indicator: "Y", Year: 2001, Value: 5},
		{Indicator: "Y", Year: 2002, Value: 7},
	})

	matrix, err := NewEngine().Correlate(context.Background(), pivot, pivot.Indicators())
	require.NoError(t, err)

	r, ok := matrix.Lookup("X", "Y")
	require.True(t, ok)
	assert.InDelta(t, 1.0, r, 1e-12)
}

func TestCorrelate_TwoOverlappingYearsIsDefined(t *testing.T) {
	// The end-to-end scenario: GDP covers 2000-2002, Inflation only
	// 2000-2001. The pair correlates over exactly 2 common years, which
	// satisfies the minimum and yields a degenerate but defined ±1.
	pivot := pivotFrom([]indicator.Observation{
		{Indicator: "GDP", Year: 2000, Value: 100},
		{Indicator: "GDP", Year: 2001, Value: 110},
		{Indicator: "GDP", Year: 2002, Value: 120},
		{Indicator: "Inflation", Year: 2000, Value: 5},
		{Indicator: "Inflation", Year: 2001, Value: 4},
	})

	matrix, err := NewEngine().Correlate(context.Background(), pivot, pivot.Indicators())
	require.NoError(t, err)

	r, ok := matrix.Lookup("GDP", "Inflation")
	require.True(t, ok, "2 overlapping points satisfy the minimum-points rule")
	assert.InDelta(t, 1.0, math.Abs(r), 1e-12)
	assert.Negative(t, r, "GDP rises while inflation falls")
}

func TestCorrelate_SingleOverlappingYearIsUndefined(t *testing.T) {
	pivot := pivotFrom([]indicator.Observation{
		{Indicator: "A", Year: 2000, Value: 1},
		{Indicator: "A", Year: 2001, Value: 2},
		{Indicator: "B", Year: 2001, Value: 10},
		{Indicator: "B", Year: 2002, Value: 20},
	})

	matrix, err := NewEngine().Correlate(context.Background(), pivot, pivot.Indicators())
	require.NoError(t, err)

	_, ok := matrix.Lookup("A", "B")
	assert.False(t, ok, "fewer than 2 overlapping years must be undefined, not a crash")
}

func TestCorrelate_ZeroVarianceIsUndefined(t *testing.T) {
	pivot := pivotFrom([]indicator.Observation{
		{Indicator: "Flat", Year: 2000, Value: 7},
		{Indicator: "Flat", Year: 2001, Value: 7},
		{Indicator: "Flat", Year: 2002, Value: 7},
		{Indicator: "Moving", Year: 2000, Value: 1},
		{Indicator: "Moving", Year: 2001, Value: 2},
		{Indicator: "Moving", Year: 2002, Value: 3},
	})

	matrix, err := NewEngine().Correlate(context.Background(), pivot, pivot.Indicators())
	require.NoError(t, err)

	_, ok := matrix.Lookup("Flat", "Moving")
	assert.False(t, ok, "zero variance must map to the undefined marker, not infinity")

	// The flat series still correlates perfectly with itself by definition
	diag, ok := matrix.Lookup("Flat", "Flat")
	require.True(t, ok)
	assert.Equal(t, 1.0, diag)
}

func TestCorrelate_EmptyIndicatorSet(t *testing.T) {
	matrix, err := NewEngine().Correlate(context.Background(), pivotFrom(nil), nil)
	require.NoError(t, err)
	assert.Empty(t, matrix.Indicators)
	assert.Empty(t, matrix.Values)
}

func TestFit_RecoversKnownLine(t *testing.T) {
	points := []indicator.MergedPoint{
		{Year: 2000, X: 1, Y: 3.5},
		{Year: 2001, X: 2, Y: 5.5},
		{Year: 2002, X: 3, Y: 7.5},
		{Year: 2003, X: 4, Y: 9.5},
	}

	trend, ok := NewEngine().Fit(points)
	require.True(t, ok)
	assert.InDelta(t, 2.0, trend.Slope, 1e-12)
	assert.InDelta(t, 1.5, trend.Intercept, 1e-12)
}

func TestFit_OmittedBelowTwoPoints(t *testing.T) {
	engine := NewEngine()

	_, ok := engine.Fit(nil)
	assert.False(t, ok)

	_, ok = engine.Fit([]indicator.MergedPoint{{Year: 2000, X: 1, Y: 2}})
	assert.False(t, ok, "a single point cannot carry a trend")
}

func TestFit_OmittedForDegenerateX(t *testing.T) {
	points := []indicator.MergedPoint{
		{Year: 2000, X: 5, Y: 1},
		{Year: 2001, X: 5, Y: 2},
	}
	_, ok := NewEngine().Fit(points)
	assert.False(t, ok, "zero x-variance has no least-squares slope")
}
