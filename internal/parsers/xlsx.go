package parsers

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/sanketp/holdwatch/internal/common"
	"github.com/sanketp/holdwatch/internal/models"
)

// XLSXParser reads spreadsheet holdings exports. Broker workbooks often carry
// preamble rows (account details, report title) above the table, so the
// header row is located by scanning for a row with a symbol column.
type XLSXParser struct {
	logger *common.Logger
}

func NewXLSXParser(logger *common.Logger) *XLSXParser {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &XLSXParser{logger: logger}
}

// maxPreambleRows bounds the header scan.
const maxPreambleRows = 20

func (p *XLSXParser) Parse(path string) (*models.Snapshot, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("spreadsheet %s has no sheets", path)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}

	headerIdx, fields := findHeaderRow(rows)
	if fields == nil {
		return nil, fmt.Errorf("statement %s has no symbol column", path)
	}
	if headerIdx+1 >= len(rows) {
		return nil, fmt.Errorf("statement %s has no data rows", path)
	}

	var holdings []models.Holding
	skipped := 0
	for _, row := range rows[headerIdx+1:] {
		h, ok := rowToHolding(row, fields)
		if !ok {
			skipped++
			continue
		}
		holdings = append(holdings, h)
	}
	if len(holdings) == 0 {
		return nil, fmt.Errorf("statement %s has no data rows", path)
	}

	p.logger.Info().
		Str("file", path).
		Str("sheet", sheet).
		Int("holdings", len(holdings)).
		Int("skipped", skipped).
		Msg("parsed spreadsheet statement")

	return models.NewSnapshot(holdings, path), nil
}

// findHeaderRow returns the first row within the preamble bound that maps to
// a symbol column, with its resolved field positions. fields is nil when no
// such row exists.
func findHeaderRow(rows [][]string) (int, map[string]int) {
	limit := len(rows)
	if limit > maxPreambleRows {
		limit = maxPreambleRows
	}
	for i := 0; i < limit; i++ {
		fields := mapColumns(rows[i])
		if _, ok := fields["symbol"]; ok {
			return i, fields
		}
	}
	return 0, nil
}
