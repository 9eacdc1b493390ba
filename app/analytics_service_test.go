package app

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"govista/adapters/stats"
	"govista/domain/core"
	"govista/domain/indicator"
)

func newTestService() *AnalyticsService {
	ds := indicator.NewDataset("test://fixture", []indicator.Observation{
		{Indicator: "GDP", Year: 2000, Value: 100},
		{Indicator: "GDP", Year: 2001, Value: 110},
		{Indicator: "GDP", Year: 2002, Value: 120},
		{Indicator: "Inflation", Year: 2000, Value: 5},
		{Indicator: "Inflation", Year: 2001, Value: 4},
		{Indicator: "Exports", Year: 2001, Value: math.NaN()},
	})
	engine := stats.NewEngine()
	return NewAnalyticsService(ds, engine, engine, 10)
}

func TestCatalog(t *testing.T) {
	catalog := newTestService().Catalog(context.Background())

	assert.Equal(t, []string{"Exports", "GDP", "Inflation"}, catalog.Indicators)
	assert.Equal(t, 2000, catalog.MinYear)
	assert.Equal(t, 2002, catalog.MaxYear)
	assert.Equal(t, 6, catalog.Observations)
	assert.NotEmpty(t, catalog.DatasetID)
}

func TestObservations_StatusTransitions(t *testing.T) {
	service := newTestService()
	ctx := context.Background()

	ok, err := service.Observations(ctx, indicator.FilterCriteria{
		Indicators: []string{"GDP"}, MinYear: 2000, MaxYear: 2002,
	})
	require.NoError(t, err)
	assert.Equal(t, indicator.StatusOK, ok.Status)
	assert.Len(t, ok.Observations, 3)

	empty, err := service.Observations(ctx, indicator.FilterCriteria{MinYear: 2000, MaxYear: 2002})
	require.NoError(t, err)
	assert.Equal(t, indicator.StatusEmptySelection, empty.Status)

	noData, err := service.Observations(ctx, indicator.FilterCriteria{
		Indicators: []string{"Unemployment"}, MinYear: 2000, MaxYear: 2002,
	})
	require.NoError(t, err)
	assert.Equal(t, indicator.StatusNoData, noData.Status)
}

func TestSeries_UnknownIndicator(t *testing.T) {
	_, err := newTestService().Series(context.Background(), "Unemployment", 2000, 2002)
	require.Error(t, err)
	assert.True(t, core.IsNotFoundError(err))
}

func TestCorrelation_EndToEndScenario(t *testing.T) {
	// GDP covers 2000-2002, Inflation 2000-2001; the pair correlates over
	// the 2 common years and comes out exactly -1
	result, err := newTestService().Correlation(context.Background(), indicator.FilterCriteria{
		Indicators: []string{"GDP", "Inflation"}, MinYear: 2000, MaxYear: 2002,
	})
	require.NoError(t, err)
	assert.Equal(t, indicator.StatusOK, result.Status)

	r, ok := result.Matrix.Lookup("GDP", "Inflation")
	require.True(t, ok)
	assert.InDelta(t, -1.0, r, 1e-12)
}

func TestCorrelation_SingleIndicatorIsInsufficient(t *testing.T) {
	result, err := newTestService().Correlation(context.Background(), indicator.FilterCriteria{
		Indicators: []string{"GDP"}, MinYear: 2000, MaxYear: 2002,
	})
	require.NoError(t, err)
	assert.Equal(t, indicator.StatusInsufficientData, result.Status)

	diag, ok := result.Matrix.Lookup("GDP", "GDP")
	require.True(t, ok)
	assert.Equal(t, 1.0, diag)
}

func TestCompare_TrendAndStatuses(t *testing.T) {
	service := newTestService()
	ctx := context.Background()

	result, err := service.Compare(ctx, "GDP", "Inflation", 2000, 2002)
	require.NoError(t, err)
	assert.Equal(t, indicator.StatusOK, result.Status)
	require.Len(t, result.Points, 2)
	require.NotNil(t, result.Trend)
	assert.InDelta(t, -0.1, result.Trend.Slope, 1e-12)

	// Exports only has a missing value, so the join is empty and the
	// trend is omitted without an error
	noData, err := service.Compare(ctx, "GDP", "Exports", 2000, 2002)
	require.NoError(t, err)
	assert.Equal(t, indicator.StatusNoData, noData.Status)
	assert.Nil(t, noData.Trend)

	_, err = service.Compare(ctx, "GDP", "Unemployment", 2000, 2002)
	require.Error(t, err)
	assert.True(t, core.IsNotFoundError(err))
}

func TestSummary_KPIsAndStats(t *testing.T) {
	result, err := newTestService().Summary(context.Background(), indicator.FilterCriteria{
		Indicators: []string{"GDP", "Inflation"}, MinYear: 2000, MaxYear: 2002,
	})
	require.NoError(t, err)
	assert.Equal(t, indicator.StatusOK, result.Status)
	require.Len(t, result.Items, 2)

	gdp := result.Items[0]
	assert.Equal(t, "GDP", gdp.Indicator)
	assert.Equal(t, 3, gdp.Count)
	require.NotNil(t, gdp.Latest)
	assert.Equal(t, 2002, gdp.Latest.Year)
	assert.Equal(t, 120.0, gdp.Latest.Value)
	assert.InDelta(t, 110.0, gdp.Mean, 1e-12)
	assert.Equal(t, 100.0, gdp.Min)
	assert.Equal(t, 120.0, gdp.Max)
}

func TestDistribution(t *testing.T) {
	service := newTestService()
	ctx := context.Background()

	result, err := service.Distribution(ctx, "GDP", 2)
	require.NoError(t, err)
	assert.Equal(t, indicator.StatusOK, result.Status)
	require.Len(t, result.Bins, 2)

	total := 0
	for _, bin := range result.Bins {
		total += bin.Count
	}
	assert.Equal(t, 3, total, "every defined value lands in exactly one bin")
	assert.Equal(t, 100.0, result.Bins[0].Low)
	assert.Equal(t, 120.0, result.Bins[1].High)

	// An indicator with only missing values has nothing to bin
	noData, err := service.Distribution(ctx, "Exports", 5)
	require.NoError(t, err)
	assert.Equal(t, indicator.StatusNoData, noData.Status)

	_, err = service.Distribution(ctx, "Unemployment", 5)
	require.Error(t, err)
	assert.True(t, core.IsNotFoundError(err))
}

func TestValidationErrorsPropagate(t *testing.T) {
	service := newTestService()
	ctx := context.Background()
	bad := indicator.FilterCriteria{Indicators: []string{"GDP"}, MinYear: 2002, MaxYear: 2000}

	_, err := service.Observations(ctx, bad)
	assert.True(t, core.IsValidationError(err))

	_, err = service.Correlation(ctx, bad)
	assert.True(t, core.IsValidationError(err))

	_, err = service.Summary(ctx, bad)
	assert.True(t, core.IsValidationError(err))
}
