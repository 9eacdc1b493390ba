package tabular

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"govista/domain/core"
	"govista/internal/errors"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "indicators.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_CSVWithIndicatorHeader(t *testing.T) {
	path := writeTempCSV(t, "Indicator,Year,Value\nGDP,2000,100.5\nGDP,2001,110.25\nInflation,2000,5\n")

	ds, err := NewReader(path).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, ds.Len())
	assert.Equal(t, []string{"GDP", "Inflation"}, ds.Indicators())
	assert.False(t, ds.ID.IsEmpty())

	minYear, maxYear, ok := ds.YearBounds()
	require.True(t, ok)
	assert.Equal(t, 2000, minYear)
	assert.Equal(t, 2001, maxYear)
}

func TestLoad_NormalizesIndicatorNameHeader(t *testing.T) {
	// Some exports spell the column "Indicator Name"; both must load
	path := writeTempCSV(t, "Indicator Name,Year,Value\nGDP,2000,100\n")

	ds, err := NewReader(path).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"GDP"}, ds.Indicators())
}

func TestLoad_MissingRequiredColumnFails(t *testing.T) {
	cases := []struct {
		name   string
		header string
	}{
		{"no indicator column", "Country,Year,Value\nLKA,2000,1\n"},
		{"no year column", "Indicator,Period,Value\nGDP,2000,1\n"},
		{"no value column", "Indicator,Year,Amount\nGDP,2000,1\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeTempCSV(t, tc.header)
			_, err := NewReader(path).Load(context.Background())
			require.Error(t, err)
			assert.True(t, core.IsLoadError(err), "missing column must surface as a load error")
			assert.Equal(t, errors.CodeLoadFailed, errors.GetCode(err))
		})
	}
}

func TestLoad_UnreadableResourceFails(t *testing.T) {
	_, err := NewReader(filepath.Join(t.TempDir(), "missing.csv")).Load(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.CodeLoadFailed, errors.GetCode(err))
}

func TestLoad_EmptyResourceFails(t *testing.T) {
	path := writeTempCSV(t, "Indicator,Year,Value\n")
	_, err := NewReader(path).Load(context.Background())
	require.Error(t, err)
	assert.True(t, core.IsLoadError(err))
}

func TestLoad_MissingValuesPassThrough(t *testing.T) {
	path := writeTempCSV(t, "Indicator,Year,Value\nGDP,2000,\nGDP,2001,110\n")

	ds, err := NewReader(path).Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, ds.Len())

	assert.False(t, ds.Observations[0].HasValue(), "empty value must load as missing, not zero")
	assert.True(t, ds.Observations[1].HasValue())
	assert.Equal(t, 110.0, ds.Observations[1].Value)
}

func TestLoad_SkipsRowsWithNonIntegerYear(t *testing.T) {
	path := writeTempCSV(t, "Indicator,Year,Value\nGDP,not-a-year,100\nGDP,2001,110\n")

	ds, err := NewReader(path).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, ds.Len())
	assert.Equal(t, 2001, ds.Observations[0].Year)
}

func TestLoad_XLSXFirstSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "indicators.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"Indicator", "Year", "Value"},
		{"GDP", 2000, 100.5},
		{"Inflation", 2000, 5.0},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	ds, err := NewReader(path).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Len())
	assert.Equal(t, []string{"GDP", "Inflation"}, ds.Indicators())
}
