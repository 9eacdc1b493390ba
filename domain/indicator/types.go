package indicator

import (
	"math"
	"sort"

	"govista/domain/core"
)

// Observation is a single (indicator, year, value) row of the source table.
// A missing value is carried as NaN and excluded pairwise by downstream
// computations, never coerced to zero.
type Observation struct {
	Indicator string  `json:"indicator"`
	Year      int     `json:"year"`
	Value     float64 `json:"value"`
}

// HasValue reports whether the observation carries a defined value
func (o Observation) HasValue() bool {
	return !math.IsNaN(o.Value)
}

// Dataset is the immutable in-memory table loaded once at process start.
// It is safe to share across concurrent sessions because nothing writes
// to it after construction.
type Dataset struct {
	ID           core.DatasetID
	Source       string
	Observations []Observation
}

// NewDataset builds a dataset snapshot from loaded observations.
// The slice is copied so callers cannot mutate the snapshot afterwards.
func NewDataset(source string, obs []Observation) *Dataset {
	owned := make([]Observation, len(obs))
	copy(owned, obs)
	return &Dataset{
		ID:           core.DatasetID(core.NewID()),
		Source:       source,
		Observations: owned,
	}
}

// Len returns the number of observations in the dataset
func (d *Dataset) Len() int {
	return len(d.Observations)
}

// Indicators returns the sorted distinct indicator names present in the dataset
func (d *Dataset) Indicators() []string {
	seen := make(map[string]bool)
	names := make([]string, 0)
	for _, o := range d.Observations {
		if !seen[o.Indicator] {
			seen[o.Indicator] = true
			names = append(names, o.Indicator)
		}
	}
	sort.Strings(names)
	return names
}

// YearBounds returns the inclusive [min, max] year range of the dataset.
// ok is false for an empty dataset.
func (d *Dataset) YearBounds() (minYear, maxYear int, ok bool) {
	if len(d.Observations) == 0 {
		return 0, 0, false
	}
	minYear, maxYear = d.Observations[0].Year, d.Observations[0].Year
	for _, o := range d.Observations[1:] {
		if o.Year < minYear {
			minYear = o.Year
		}
		if o.Year > maxYear {
			maxYear = o.Year
		}
	}
	return minYear, maxYear, true
}

// HasIndicator reports whether the dataset contains any observation for name
func (d *Dataset) HasIndicator(name string) bool {
	for _, o := range d.Observations {
		if o.Indicator == name {
			return true
		}
	}
	return false
}

// FilterCriteria is the per-request selection: an indicator name set plus an
// inclusive year interval. It has no lifecycle beyond the request.
type FilterCriteria struct {
	Indicators []string `json:"indicators"`
	MinYear    int      `json:"min_year"`
	MaxYear    int      `json:"max_year"`
}

// Validate rejects malformed criteria. A reversed range as given by the user
// is a validation error; ranges that only become empty after clamping to the
// dataset bounds are handled by Filter and yield an empty view instead.
func (c FilterCriteria) Validate() error {
	if c.MinYear > c.MaxYear {
		return core.NewCriteriaError("min year is after max year")
	}
	return nil
}

// indicatorSet returns the selection as a membership set
func (c FilterCriteria) indicatorSet() map[string]bool {
	set := make(map[string]bool, len(c.Indicators))
	for _, name := range c.Indicators {
		set[name] = true
	}
	return set
}

// FilteredView is the derived subset of a dataset matching one FilterCriteria.
// It is recomputed per request and never cached.
type FilteredView struct {
	Observations []Observation `json:"observations"`
}

// Empty reports whether the view has no observations
func (v FilteredView) Empty() bool {
	return len(v.Observations) == 0
}

// Sorted returns a copy of the view ordered by (indicator, year) for display.
// Ordering is a presentation concern; computations do not depend on it.
func (v FilteredView) Sorted() []Observation {
	out := make([]Observation, len(v.Observations))
	copy(out, v.Observations)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Indicator != out[j].Indicator {
			return out[i].Indicator < out[j].Indicator
		}
		return out[i].Year < out[j].Year
	})
	return out
}

// Indicators returns the sorted distinct indicator names present in the view
func (v FilteredView) Indicators() []string {
	seen := make(map[string]bool)
	names := make([]string, 0)
	for _, o := range v.Observations {
		if !seen[o.Indicator] {
			seen[o.Indicator] = true
			names = append(names, o.Indicator)
		}
	}
	sort.Strings(names)
	return names
}

// SeriesPoint is one (year, value) sample of a single indicator series
type SeriesPoint struct {
	Year  int     `json:"year"`
	Value float64 `json:"value"`
}

// Series is a single indicator's samples in ascending year order.
// Missing values are dropped at extraction time.
type Series struct {
	Indicator string        `json:"indicator"`
	Points    []SeriesPoint `json:"points"`
}

// Len returns the number of defined points in the series
func (s Series) Len() int {
	return len(s.Points)
}

// MergedPoint is one row of an inner join of two series on year
type MergedPoint struct {
	Year int     `json:"year"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// TrendLine is an ordinary-least-squares linear fit over merged points
type TrendLine struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
}

// Status classifies a per-request result for the presentation layer.
// Degraded conditions are informational states, never errors (a request
// either validates or it doesn't; thin data just flags the result).
type Status string

const (
	StatusOK               Status = "ok"
	StatusEmptySelection   Status = "empty_selection"
	StatusNoData           Status = "no_data"
	StatusInsufficientData Status = "insufficient_data"
)
