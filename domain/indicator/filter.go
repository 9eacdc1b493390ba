package indicator

// Filter selects the observations matching the criteria: indicator set
// membership AND inclusive year range. The year range is clamped to the
// dataset bounds first; a range that is empty after clamping yields an
// empty view, not an error. An empty indicator selection likewise yields
// an empty view. Filter is a pure function over the immutable dataset,
// so identical criteria always produce identical results.
func Filter(ds *Dataset, c FilterCriteria) (FilteredView, error) {
	if err := c.Validate(); err != nil {
		return FilteredView{}, err
	}

	if len(c.Indicators) == 0 {
		return FilteredView{Observations: []Observation{}}, nil
	}

	minYear, maxYear := c.MinYear, c.MaxYear
	if dsMin, dsMax, ok := ds.YearBounds(); ok {
		if minYear < dsMin {
			minYear = dsMin
		}
		if maxYear > dsMax {
			maxYear = dsMax
		}
	}
	if minYear > maxYear {
		return FilteredView{Observations: []Observation{}}, nil
	}

	selected := c.indicatorSet()
	matched := make([]Observation, 0)
	for _, o := range ds.Observations {
		if !selected[o.Indicator] {
			continue
		}
		if o.Year < minYear || o.Year > maxYear {
			continue
		}
		matched = append(matched, o)
	}
	return FilteredView{Observations: matched}, nil
}

// SeriesOf extracts a single indicator's defined values from the view in
// ascending year order. Missing values are dropped here so chart and join
// consumers only ever see defined samples.
func SeriesOf(v FilteredView, name string) Series {
	points := make([]SeriesPoint, 0)
	for _, o := range v.Sorted() {
		if o.Indicator != name || !o.HasValue() {
			continue
		}
		points = append(points, SeriesPoint{Year: o.Year, Value: o.Value})
	}
	return Series{Indicator: name, Points: points}
}
