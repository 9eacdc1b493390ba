package app

import (
	"context"

	"github.com/montanaflynn/stats"

	"govista/domain/core"
	"govista/domain/indicator"
	"govista/internal"
	"govista/ports"
)

// AnalyticsService orchestrates the per-request computation pass:
// filter → pivot/merge → correlate. Every method is a pure function over
// the immutable dataset plus request-scoped criteria, so concurrent
// sessions share the service without locking.
type AnalyticsService struct {
	dataset    *indicator.Dataset
	correlator ports.Correlator
	trend      ports.TrendFitter
	bins       int
	log        *internal.Logger
}

// NewAnalyticsService wires the service over a loaded dataset
func NewAnalyticsService(ds *indicator.Dataset, correlator ports.Correlator, trend ports.TrendFitter, histogramBins int) *AnalyticsService {
	if histogramBins <= 0 {
		histogramBins = 30
	}
	return &AnalyticsService{
		dataset:    ds,
		correlator: correlator,
		trend:      trend,
		bins:       histogramBins,
		log:        internal.DefaultLogger,
	}
}

// Catalog describes the loaded dataset: distinct indicators and year bounds.
// The UI builds its indicator multiselect and year slider from this.
type Catalog struct {
	DatasetID    string   `json:"dataset_id"`
	Source       string   `json:"source"`
	Indicators   []string `json:"indicators"`
	MinYear      int      `json:"min_year"`
	MaxYear      int      `json:"max_year"`
	Observations int      `json:"observations"`
}

// Catalog returns the dataset description
func (s *AnalyticsService) Catalog(ctx context.Context) Catalog {
	minYear, maxYear, _ := s.dataset.YearBounds()
	return Catalog{
		DatasetID:    string(s.dataset.ID),
		Source:       s.dataset.Source,
		Indicators:   s.dataset.Indicators(),
		MinYear:      minYear,
		MaxYear:      maxYear,
		Observations: s.dataset.Len(),
	}
}

// ObservationsResult is a filtered view plus its result state
type ObservationsResult struct {
	Status       indicator.Status        `json:"status"`
	Observations []indicator.Observation `json:"observations"`
}

// Observations runs the filter engine and returns the matching rows sorted
// by (indicator, year) for display
func (s *AnalyticsService) Observations(ctx context.Context, c indicator.FilterCriteria) (ObservationsResult, error) {
	view, err := indicator.Filter(s.dataset, c)
	if err != nil {
		return ObservationsResult{}, err
	}
	return ObservationsResult{
		Status:       viewStatus(c, view),
		Observations: view.Sorted(),
	}, nil
}

// SeriesResult is a single indicator series plus its result state
type SeriesResult struct {
	Status indicator.Status `json:"status"`
	Series indicator.Series `json:"series"`
}

// Series extracts one indicator's (year, value) sequence over the year range
func (s *AnalyticsService) Series(ctx context.Context, name string, minYear, maxYear int) (SeriesResult, error) {
	if !s.dataset.HasIndicator(name) {
		return SeriesResult{}, core.NewIndicatorNotFoundError(name)
	}
	view, err := indicator.Filter(s.dataset, indicator.FilterCriteria{
		Indicators: []string{name},
		MinYear:    minYear,
		MaxYear:    maxYear,
	})
	if err != nil {
		return SeriesResult{}, err
	}

	series := indicator.SeriesOf(view, name)
	status := indicator.StatusOK
	if series.Len() == 0 {
		status = indicator.StatusNoData
	}
	return SeriesResult{Status: status, Series: series}, nil
}

// PivotResult is the wide year×indicator matrix plus its result state
type PivotResult struct {
	Status indicator.Status
	Matrix indicator.PivotMatrix
}

// Pivot reshapes the filtered view into the year-indexed matrix
func (s *AnalyticsService) Pivot(ctx context.Context, c indicator.FilterCriteria) (PivotResult, error) {
	view, err := indicator.Filter(s.dataset, c)
	if err != nil {
		return PivotResult{}, err
	}
	return PivotResult{
		Status: viewStatus(c, view),
		Matrix: indicator.Pivot(view),
	}, nil
}

// CorrelationResult is a pairwise-complete correlation matrix plus its
// result state
type CorrelationResult struct {
	Status indicator.Status
	Matrix indicator.CorrelationMatrix
}

// Correlation filters, pivots, and correlates the selected indicators.
// Fewer than two indicators with data is an informational state, not an
// error; individual undefined entries stay NaN inside an otherwise valid
// matrix.
func (s *AnalyticsService) Correlation(ctx context.Context, c indicator.FilterCriteria) (CorrelationResult, error) {
	pivotRes, err := s.Pivot(ctx, c)
	if err != nil {
		return CorrelationResult{}, err
	}

	present := pivotRes.Matrix.Indicators()
	s.log.Debug("correlating %d indicators over %d years", len(present), len(pivotRes.Matrix.Years()))
	matrix, err := s.correlator.Correlate(ctx, pivotRes.Matrix, present)
	if err != nil {
		return CorrelationResult{}, err
	}

	status := pivotRes.Status
	if status == indicator.StatusOK && len(present) < 2 {
		status = indicator.StatusInsufficientData
	}
	return CorrelationResult{Status: status, Matrix: matrix}, nil
}

// CompareResult is the bivariate comparison: inner-joined pairs plus an
// optional OLS trend
type CompareResult struct {
	Status indicator.Status        `json:"status"`
	X      string                  `json:"x"`
	Y      string                  `json:"y"`
	Points []indicator.MergedPoint `json:"points"`
	Trend  *indicator.TrendLine    `json:"trend,omitempty"`
}

// Compare inner-joins two indicator series on year and fits a trend when
// at least two joined points exist. A missing trend is an informational
// state; years unique to one side are dropped by the join.
func (s *AnalyticsService) Compare(ctx context.Context, x, y string, minYear, maxYear int) (CompareResult, error) {
	for _, name := range []string{x, y} {
		if !s.dataset.HasIndicator(name) {
			return CompareResult{}, core.NewIndicatorNotFoundError(name)
		}
	}

	view, err := indicator.Filter(s.dataset, indicator.FilterCriteria{
		Indicators: []string{x, y},
		MinYear:    minYear,
		MaxYear:    maxYear,
	})
	if err != nil {
		return CompareResult{}, err
	}

	points := indicator.Merge(indicator.SeriesOf(view, x), indicator.SeriesOf(view, y))
	result := CompareResult{X: x, Y: y, Points: points}

	switch {
	case len(points) == 0:
		result.Status = indicator.StatusNoData
	case len(points) < 2:
		result.Status = indicator.StatusInsufficientData
	default:
		result.Status = indicator.StatusOK
	}

	if trend, ok := s.trend.Fit(points); ok {
		result.Trend = &trend
	}
	return result, nil
}

// KPI is the most recent in-range observation of an indicator
type KPI struct {
	Year  int     `json:"year"`
	Value float64 `json:"value"`
}

// IndicatorSummary holds the per-indicator key metrics over the filtered range
type IndicatorSummary struct {
	Indicator string  `json:"indicator"`
	Count     int     `json:"count"`
	Latest    *KPI    `json:"latest,omitempty"`
	Mean      float64 `json:"mean"`
	Median    float64 `json:"median"`
	StdDev    float64 `json:"std_dev"`
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
}

// SummaryResult is the KPI block plus its result state
type SummaryResult struct {
	Status indicator.Status   `json:"status"`
	Items  []IndicatorSummary `json:"items"`
}

// Summary computes per-indicator key metrics: the latest in-range value and
// summary statistics over the filtered window
func (s *AnalyticsService) Summary(ctx context.Context, c indicator.FilterCriteria) (SummaryResult, error) {
	view, err := indicator.Filter(s.dataset, c)
	if err != nil {
		return SummaryResult{}, err
	}

	items := make([]IndicatorSummary, 0)
	for _, name := range view.Indicators() {
		series := indicator.SeriesOf(view, name)
		if series.Len() == 0 {
			items = append(items, IndicatorSummary{Indicator: name})
			continue
		}

		values := make([]float64, series.Len())
		for i, p := range series.Points {
			values[i] = p.Value
		}
		mean, _ := stats.Mean(values)
		median, _ := stats.Median(values)
		stdDev, _ := stats.StandardDeviation(values)
		minVal, _ := stats.Min(values)
		maxVal, _ := stats.Max(values)

		last := series.Points[series.Len()-1]
		items = append(items, IndicatorSummary{
			Indicator: name,
			Count:     series.Len(),
			Latest:    &KPI{Year: last.Year, Value: last.Value},
			Mean:      mean,
			Median:    median,
			StdDev:    stdDev,
			Min:       minVal,
			Max:       maxVal,
		})
	}
	return SummaryResult{Status: viewStatus(c, view), Items: items}, nil
}

// HistogramBin is one bucket of a distribution: [Low, High) except the last
// bin, which is inclusive of its upper edge
type HistogramBin struct {
	Low   float64 `json:"low"`
	High  float64 `json:"high"`
	Count int     `json:"count"`
}

// DistributionResult is a single indicator's histogram plus its result state
type DistributionResult struct {
	Status    indicator.Status `json:"status"`
	Indicator string           `json:"indicator"`
	Bins      []HistogramBin   `json:"bins"`
}

// Distribution bins one indicator's defined values into equal-width buckets
// over the full dataset range, matching the univariate view of the dashboard
func (s *AnalyticsService) Distribution(ctx context.Context, name string, bins int) (DistributionResult, error) {
	if !s.dataset.HasIndicator(name) {
		return DistributionResult{}, core.NewIndicatorNotFoundError(name)
	}
	if bins <= 0 {
		bins = s.bins
	}

	minYear, maxYear, _ := s.dataset.YearBounds()
	view, err := indicator.Filter(s.dataset, indicator.FilterCriteria{
		Indicators: []string{name},
		MinYear:    minYear,
		MaxYear:    maxYear,
	})
	if err != nil {
		return DistributionResult{}, err
	}

	series := indicator.SeriesOf(view, name)
	if series.Len() == 0 {
		return DistributionResult{Status: indicator.StatusNoData, Indicator: name, Bins: []HistogramBin{}}, nil
	}

	values := make([]float64, series.Len())
	for i, p := range series.Points {
		values[i] = p.Value
	}
	minVal, _ := stats.Min(values)
	maxVal, _ := stats.Max(values)

	// Degenerate spread collapses to a single bucket
	if minVal == maxVal {
		return DistributionResult{
			Status:    indicator.StatusOK,
			Indicator: name,
			Bins:      []HistogramBin{{Low: minVal, High: maxVal, Count: len(values)}},
		}, nil
	}

	width := (maxVal - minVal) / float64(bins)
	histogram := make([]HistogramBin, bins)
	for i := range histogram {
		histogram[i] = HistogramBin{
			Low:  minVal + float64(i)*width,
			High: minVal + float64(i+1)*width,
		}
	}
	for _, v := range values {
		idx := int((v - minVal) / width)
		if idx >= bins {
			idx = bins - 1
		}
		histogram[idx].Count++
	}

	return DistributionResult{Status: indicator.StatusOK, Indicator: name, Bins: histogram}, nil
}

// viewStatus classifies a filter result for the presentation layer
func viewStatus(c indicator.FilterCriteria, view indicator.FilteredView) indicator.Status {
	if len(c.Indicators) == 0 {
		return indicator.StatusEmptySelection
	}
	if view.Empty() {
		return indicator.StatusNoData
	}
	return indicator.StatusOK
}
