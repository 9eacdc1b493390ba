package indicator

// Merge inner-joins two series on year: only years present in both survive,
// in ascending year order. Years unique to either side are dropped, which
// mirrors the bivariate comparison the dashboard draws scatter plots from.
func Merge(x, y Series) []MergedPoint {
	byYear := make(map[int]float64, len(y.Points))
	for _, p := range y.Points {
		byYear[p.Year] = p.Value
	}

	merged := make([]MergedPoint, 0)
	for _, p := range x.Points {
		yv, ok := byYear[p.Year]
		if !ok {
			continue
		}
		merged = append(merged, MergedPoint{Year: p.Year, X: p.Value, Y: yv})
	}
	return merged
}
