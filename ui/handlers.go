package ui

import (
	"encoding/json"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"govista/domain/core"
	"govista/domain/indicator"
	"govista/internal/errors"
)

// handleIndex renders the HTML landing page: the dataset catalog plus the
// about text
func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := struct {
		Catalog interface{}
		About   interface{}
	}{
		Catalog: a.service.Catalog(r.Context()),
		About:   a.aboutHTML,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := a.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		a.log.Error("failed to render index: %v", err)
	}
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *App) handleIndicators(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.service.Catalog(r.Context()))
}

// observationDTO carries a nullable value so missing observations survive
// JSON encoding (encoding/json rejects NaN)
type observationDTO struct {
	Indicator string   `json:"indicator"`
	Year      int      `json:"year"`
	Value     *float64 `json:"value"`
}

type observationsResponse struct {
	Status       indicator.Status `json:"status"`
	Observations []observationDTO `json:"observations"`
}

func (a *App) handleObservations(w http.ResponseWriter, r *http.Request) {
	criteria, err := a.parseCriteria(r)
	if err != nil {
		a.writeError(w, err)
		return
	}

	result, err := a.service.Observations(r.Context(), criteria)
	if err != nil {
		a.writeError(w, err)
		return
	}

	dtos := make([]observationDTO, len(result.Observations))
	for i, o := range result.Observations {
		dtos[i] = observationDTO{
			Indicator: o.Indicator,
			Year:      o.Year,
			Value:     nullable(o.Value),
		}
	}
	writeJSON(w, http.StatusOK, observationsResponse{Status: result.Status, Observations: dtos})
}

func (a *App) handleSeries(w http.ResponseWriter, r *http.Request) {
	name := pathParam(r, "indicator")
	minYear, maxYear, err := a.parseYearRange(r)
	if err != nil {
		a.writeError(w, err)
		return
	}

	result, err := a.service.Series(r.Context(), name, minYear, maxYear)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type pivotRow struct {
	Year   int                `json:"year"`
	Values map[string]float64 `json:"values"`
}

type pivotResponse struct {
	Status     indicator.Status `json:"status"`
	Indicators []string         `json:"indicators"`
	Rows       []pivotRow       `json:"rows"`
}

func (a *App) handlePivot(w http.ResponseWriter, r *http.Request) {
	criteria, err := a.parseCriteria(r)
	if err != nil {
		a.writeError(w, err)
		return
	}

	result, err := a.service.Pivot(r.Context(), criteria)
	if err != nil {
		a.writeError(w, err)
		return
	}

	names := result.Matrix.Indicators()
	rows := make([]pivotRow, 0)
	for _, year := range result.Matrix.Years() {
		values := make(map[string]float64)
		for _, name := range names {
			if v, ok := result.Matrix.Value(year, name); ok {
				values[name] = v
			}
		}
		rows = append(rows, pivotRow{Year: year, Values: values})
	}
	writeJSON(w, http.StatusOK, pivotResponse{
		Status:     result.Status,
		Indicators: names,
		Rows:       rows,
	})
}

type correlationResponse struct {
	Status     indicator.Status `json:"status"`
	Indicators []string         `json:"indicators"`
	Values     [][]*float64     `json:"values"`
}

func (a *App) handleCorrelation(w http.ResponseWriter, r *http.Request) {
	criteria, err := a.parseCriteria(r)
	if err != nil {
		a.writeError(w, err)
		return
	}

	result, err := a.service.Correlation(r.Context(), criteria)
	if err != nil {
		a.writeError(w, err)
		return
	}

	// Undefined entries serialize as null, never as a fake coefficient
	values := make([][]*float64, len(result.Matrix.Values))
	for i, row := range result.Matrix.Values {
		values[i] = make([]*float64, len(row))
		for j, v := range row {
			values[i][j] = nullable(v)
		}
	}
	writeJSON(w, http.StatusOK, correlationResponse{
		Status:     result.Status,
		Indicators: result.Matrix.Indicators,
		Values:     values,
	})
}

func (a *App) handleCompare(w http.ResponseWriter, r *http.Request) {
	x := r.URL.Query().Get("x")
	y := r.URL.Query().Get("y")
	if x == "" || y == "" {
		a.writeError(w, errors.ValidationError("both x and y indicators are required"))
		return
	}
	minYear, maxYear, err := a.parseYearRange(r)
	if err != nil {
		a.writeError(w, err)
		return
	}

	result, err := a.service.Compare(r.Context(), x, y, minYear, maxYear)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (a *App) handleSummary(w http.ResponseWriter, r *http.Request) {
	criteria, err := a.parseCriteria(r)
	if err != nil {
		a.writeError(w, err)
		return
	}

	result, err := a.service.Summary(r.Context(), criteria)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (a *App) handleDistribution(w http.ResponseWriter, r *http.Request) {
	name := pathParam(r, "indicator")

	bins := 0
	if binsStr := r.URL.Query().Get("bins"); binsStr != "" {
		parsed, err := strconv.Atoi(binsStr)
		if err != nil || parsed <= 0 {
			a.writeError(w, errors.ValidationError("bins must be a positive integer"))
			return
		}
		bins = parsed
	}

	result, err := a.service.Distribution(r.Context(), name, bins)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// parseCriteria builds FilterCriteria from query parameters. An absent
// indicators parameter selects everything (the dashboard's default view);
// a present-but-empty one is an explicit empty selection.
func (a *App) parseCriteria(r *http.Request) (indicator.FilterCriteria, error) {
	minYear, maxYear, err := a.parseYearRange(r)
	if err != nil {
		return indicator.FilterCriteria{}, err
	}

	catalog := a.service.Catalog(r.Context())
	names := catalog.Indicators
	if raw, present := r.URL.Query()["indicators"]; present {
		names = splitIndicators(raw)
	}

	criteria := indicator.FilterCriteria{
		Indicators: names,
		MinYear:    minYear,
		MaxYear:    maxYear,
	}
	if err := criteria.Validate(); err != nil {
		return indicator.FilterCriteria{}, err
	}
	return criteria, nil
}

// parseYearRange reads from/to query parameters, defaulting to the dataset
// bounds. Non-integer years are a validation error.
func (a *App) parseYearRange(r *http.Request) (minYear, maxYear int, err error) {
	catalog := a.service.Catalog(r.Context())
	minYear, maxYear = catalog.MinYear, catalog.MaxYear

	if fromStr := r.URL.Query().Get("from"); fromStr != "" {
		minYear, err = strconv.Atoi(fromStr)
		if err != nil {
			return 0, 0, errors.ValidationError("from must be an integer year")
		}
	}
	if toStr := r.URL.Query().Get("to"); toStr != "" {
		maxYear, err = strconv.Atoi(toStr)
		if err != nil {
			return 0, 0, errors.ValidationError("to must be an integer year")
		}
	}
	return minYear, maxYear, nil
}

// pathParam reads a chi URL parameter, unescaping it so indicator names
// with spaces and punctuation route correctly
func pathParam(r *http.Request, key string) string {
	raw := chi.URLParam(r, key)
	if decoded, err := url.PathUnescape(raw); err == nil {
		return decoded
	}
	return raw
}

// splitIndicators flattens repeated and comma-separated indicator params,
// dropping empty entries
func splitIndicators(raw []string) []string {
	names := make([]string, 0)
	for _, chunk := range raw {
		for _, name := range strings.Split(chunk, ",") {
			name = strings.TrimSpace(name)
			if name != "" {
				names = append(names, name)
			}
		}
	}
	return names
}

// nullable maps NaN onto a JSON null
func nullable(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

// writeError maps domain and application errors onto HTTP statuses
func (a *App) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case core.IsValidationError(err) || errors.GetCode(err) == errors.CodeValidationError:
		status = http.StatusBadRequest
	case core.IsNotFoundError(err) || errors.GetCode(err) == errors.CodeNotFound:
		status = http.StatusNotFound
	}
	if status == http.StatusInternalServerError {
		a.log.Error("request failed: %v", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
