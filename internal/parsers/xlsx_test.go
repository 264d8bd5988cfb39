package parsers

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/sanketp/holdwatch/internal/common"
)

func writeWorkbook(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	path := filepath.Join(t.TempDir(), "holdings.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestParseXLSX(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"Instrument", "Qty.", "LTP", "Cur. val", "ISIN"},
		{"TCS", 10, 3500.50, 35005.00, "INE467B01029"},
		{"INFY", 25, 1450.00, 36250.00, "INE009A01021"},
	})

	snap, err := ParseFile(path, common.NewSilentLogger())
	require.NoError(t, err)

	require.Len(t, snap.Holdings, 2)
	assert.Equal(t, path, snap.SourceFile)
	assert.InDelta(t, 71255.00, snap.TotalValue, 0.001)

	tcs := snap.Holdings[0]
	assert.Equal(t, "TCS", tcs.Symbol)
	assert.Equal(t, "INE467B01029", tcs.ISIN)
	assert.InDelta(t, 10, tcs.QuantityOrZero(), 0.001)
	assert.InDelta(t, 3500.50, tcs.PriceOrZero(), 0.001)
}

func TestParseXLSXWithPreamble(t *testing.T) {
	// Broker workbooks lead with account metadata before the table.
	path := writeWorkbook(t, [][]interface{}{
		{"Holdings Statement"},
		{"Client ID", "AB1234"},
		{},
		{"Symbol", "Company Name", "Quantity", "Price", "Value"},
		{"RELIANCE", "Reliance Industries Ltd", 1000, 2850.75, 2850750.00},
	})

	snap, err := ParseFile(path, common.NewSilentLogger())
	require.NoError(t, err)

	require.Len(t, snap.Holdings, 1)
	h := snap.Holdings[0]
	assert.Equal(t, "RELIANCE", h.Symbol)
	assert.Equal(t, "Reliance Industries Ltd", h.CompanyName)
	assert.InDelta(t, 1000, h.QuantityOrZero(), 0.001)
	assert.InDelta(t, 2850750.00, h.ValueOrZero(), 0.001)
}

func TestParseXLSXErrors(t *testing.T) {
	t.Run("no symbol column", func(t *testing.T) {
		path := writeWorkbook(t, [][]interface{}{
			{"Foo", "Bar"},
			{1, 2},
		})
		_, err := ParseFile(path, common.NewSilentLogger())
		assert.ErrorContains(t, err, "no symbol column")
	})

	t.Run("header only", func(t *testing.T) {
		path := writeWorkbook(t, [][]interface{}{
			{"Symbol", "Qty"},
		})
		_, err := ParseFile(path, common.NewSilentLogger())
		assert.ErrorContains(t, err, "no data rows")
	})

	t.Run("not a workbook", func(t *testing.T) {
		path := writeStatement(t, "broken.xlsx", "not a zip archive")
		_, err := ParseFile(path, common.NewSilentLogger())
		assert.ErrorContains(t, err, "failed to open spreadsheet")
	})
}
