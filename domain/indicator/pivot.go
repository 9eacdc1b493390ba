package indicator

import (
	"math"
	"sort"
)

// PivotMatrix is the wide reshaping of a filtered view: year → indicator →
// value. Only defined values enter the matrix; absent (indicator, year)
// cells are simply absent, never zero-filled.
type PivotMatrix struct {
	cells map[int]map[string]float64
}

// Pivot reshapes long-format observations into a year-indexed matrix.
// If the same (indicator, year) pair appears more than once the last
// observation wins, which keeps the operation deterministic.
func Pivot(v FilteredView) PivotMatrix {
	cells := make(map[int]map[string]float64)
	for _, o := range v.Observations {
		if !o.HasValue() {
			continue
		}
		row, ok := cells[o.Year]
		if !ok {
			row = make(map[string]float64)
			cells[o.Year] = row
		}
		row[o.Indicator] = o.Value
	}
	return PivotMatrix{cells: cells}
}

// Value returns the cell for (year, indicator) and whether it is defined
func (p PivotMatrix) Value(year int, name string) (float64, bool) {
	row, ok := p.cells[year]
	if !ok {
		return 0, false
	}
	val, ok := row[name]
	return val, ok
}

// Years returns the sorted years with at least one defined cell
func (p PivotMatrix) Years() []int {
	years := make([]int, 0, len(p.cells))
	for y := range p.cells {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// Indicators returns the sorted indicator names with at least one defined cell
func (p PivotMatrix) Indicators() []string {
	seen := make(map[string]bool)
	names := make([]string, 0)
	for _, row := range p.cells {
		for name := range row {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}

// Overlap returns the paired value slices of two indicators restricted to
// years where both are defined, in ascending year order. This is the
// pairwise-complete-observations restriction every correlation entry is
// computed over.
func (p PivotMatrix) Overlap(a, b string) (xs, ys []float64) {
	for _, year := range p.Years() {
		av, aok := p.Value(year, a)
		bv, bok := p.Value(year, b)
		if !aok || !bok {
			continue
		}
		xs = append(xs, av)
		ys = append(ys, bv)
	}
	return xs, ys
}

// CorrelationMatrix holds pairwise Pearson coefficients over an indicator
// set. Undefined entries (fewer than 2 overlapping years, or zero variance)
// are NaN; use Defined or the API layer's null serialization to distinguish
// them from real coefficients.
type CorrelationMatrix struct {
	Indicators []string    `json:"indicators"`
	Values     [][]float64 `json:"values"`
}

// NewCorrelationMatrix allocates an all-undefined matrix over the given
// indicator order
func NewCorrelationMatrix(indicators []string) CorrelationMatrix {
	values := make([][]float64, len(indicators))
	for i := range values {
		values[i] = make([]float64, len(indicators))
		for j := range values[i] {
			values[i][j] = math.NaN()
		}
	}
	return CorrelationMatrix{Indicators: indicators, Values: values}
}

// At returns the coefficient at (i, j) and whether it is defined
func (m CorrelationMatrix) At(i, j int) (float64, bool) {
	v := m.Values[i][j]
	return v, !math.IsNaN(v)
}

// Lookup returns the coefficient for two indicator names
func (m CorrelationMatrix) Lookup(a, b string) (float64, bool) {
	ai, bi := -1, -1
	for i, name := range m.Indicators {
		if name == a {
			ai = i
		}
		if name == b {
			bi = i
		}
	}
	if ai < 0 || bi < 0 {
		return 0, false
	}
	return m.At(ai, bi)
}

// Defined reports whether the entry at (i, j) holds a real coefficient
func (m CorrelationMatrix) Defined(i, j int) bool {
	return !math.IsNaN(m.Values[i][j])
}
