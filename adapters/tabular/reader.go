package tabular

import (
	"context"
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"govista/domain/core"
	"govista/domain/indicator"
	"govista/internal"
	"govista/internal/errors"
)

// Header spellings accepted for the indicator column. The source exports
// drifted between revisions, so both are normalized at load time.
var indicatorHeaders = map[string]bool{
	"indicator":      true,
	"indicator name": true,
}

// Reader loads the indicator table from a CSV or Excel file
type Reader struct {
	filePath string
	fileType string // "csv" or "xlsx"
	log      *internal.Logger
}

// NewReader creates a reader for the given file, picking the format from
// the extension
func NewReader(filePath string) *Reader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "csv"
	if ext == ".xlsx" {
		fileType = "xlsx"
	}
	return &Reader{
		filePath: filePath,
		fileType: fileType,
		log:      internal.DefaultLogger,
	}
}

// Load reads the resource once and produces the immutable dataset snapshot.
// Any failure here is fatal to startup; the process must not continue with
// a partially loaded dataset.
func (r *Reader) Load(ctx context.Context) (*indicator.Dataset, error) {
	if _, err := os.Stat(r.filePath); err != nil {
		return nil, errors.LoadFailed("data file not readable: "+r.filePath, err)
	}

	var rows [][]string
	var err error
	switch r.fileType {
	case "xlsx":
		rows, err = r.readExcelRows()
	default:
		rows, err = r.readCSVRows()
	}
	if err != nil {
		return nil, err
	}

	if len(rows) < 2 {
		return nil, errors.LoadFailed("data file has no data rows", core.ErrEmptyResource)
	}

	obs, err := r.parseRows(rows)
	if err != nil {
		return nil, err
	}

	ds := indicator.NewDataset(r.filePath, obs)
	r.log.Info("loaded dataset %s: %d observations, %d indicators",
		ds.ID, ds.Len(), len(ds.Indicators()))
	return ds, nil
}

func (r *Reader) readCSVRows() ([][]string, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, errors.LoadFailed("failed to open CSV file", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.LoadFailed("failed to read CSV file", err)
	}
	return rows, nil
}

func (r *Reader) readExcelRows() ([][]string, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, errors.LoadFailed("failed to open Excel file", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.LoadFailed("Excel file has no sheets", core.ErrEmptyResource)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.LoadFailed("failed to read sheet "+sheets[0], err)
	}
	return rows, nil
}

// parseRows maps raw string rows onto observations using the normalized
// header positions. Rows with an unparseable year are skipped with a
// warning; unparseable or empty values pass through as missing.
func (r *Reader) parseRows(rows [][]string) ([]indicator.Observation, error) {
	indicatorCol, yearCol, valueCol, err := locateColumns(rows[0])
	if err != nil {
		return nil, errors.LoadFailed("data file is missing a required column", err)
	}

	obs := make([]indicator.Observation, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) <= indicatorCol || len(row) <= yearCol {
			continue
		}
		name := strings.TrimSpace(row[indicatorCol])
		if name == "" {
			continue
		}

		year, err := strconv.Atoi(strings.TrimSpace(row[yearCol]))
		if err != nil {
			r.log.Warn("row %d: skipping non-integer year %q", i+2, row[yearCol])
			continue
		}

		value := math.NaN()
		if valueCol < len(row) {
			raw := strings.TrimSpace(row[valueCol])
			if raw != "" {
				if parsed, err := strconv.ParseFloat(raw, 64); err == nil {
					value = parsed
				} else {
					r.log.Debug("row %d: treating value %q as missing", i+2, raw)
				}
			}
		}

		obs = append(obs, indicator.Observation{
			Indicator: name,
			Year:      year,
			Value:     value,
		})
	}
	return obs, nil
}

// locateColumns finds the indicator, year, and value column positions,
// tolerating the two accepted indicator header spellings
func locateColumns(header []string) (indicatorCol, yearCol, valueCol int, err error) {
	indicatorCol, yearCol, valueCol = -1, -1, -1
	for i, h := range header {
		switch normalized := strings.ToLower(strings.TrimSpace(h)); {
		case indicatorHeaders[normalized]:
			indicatorCol = i
		case normalized == "year":
			yearCol = i
		case normalized == "value":
			valueCol = i
		}
	}
	if indicatorCol < 0 {
		return 0, 0, 0, core.NewColumnMissingError("Indicator")
	}
	if yearCol < 0 {
		return 0, 0, 0, core.NewColumnMissingError("Year")
	}
	if valueCol < 0 {
		return 0, 0, 0, core.NewColumnMissingError("Value")
	}
	return indicatorCol, yearCol, valueCol, nil
}
