package parsers

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sanketp/holdwatch/internal/common"
	"github.com/sanketp/holdwatch/internal/models"
)

// CSVParser reads broker CSV exports. Header names vary across brokers, so
// columns are matched against a set of known aliases and missing optional
// columns simply leave the field absent.
type CSVParser struct {
	logger *common.Logger
}

func NewCSVParser(logger *common.Logger) *CSVParser {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &CSVParser{logger: logger}
}

// Column aliases, lowercased with spaces and underscores stripped.
var csvColumns = map[string]string{
	"symbol":        "symbol",
	"tradingsymbol": "symbol",
	"instrument":    "symbol",
	"isin":          "isin",
	"isinnumber":    "isin",
	"quantity":      "quantity",
	"qty":           "quantity",
	"quantityheld":  "quantity",
	"price":         "price",
	"ltp":           "price",
	"lastprice":     "price",
	"closingprice":  "price",
	"value":         "value",
	"currentvalue":  "value",
	"marketvalue":   "value",
	"companyname":   "company",
	"nameofcompany": "company",
	"company":       "company",
	"name":          "company",
	"sector":        "sector",
	"industry":      "sector",
	"exchange":      "exchange",
	"currency":      "currency",
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.ReplaceAll(h, " ", "")
	h = strings.ReplaceAll(h, "_", "")
	h = strings.ReplaceAll(h, ".", "")
	return h
}

// mapColumns resolves a header row to field positions via the alias table.
// The first alias match wins for each field.
func mapColumns(header []string) map[string]int {
	fields := make(map[string]int)
	for i, h := range header {
		if field, ok := csvColumns[normalizeHeader(h)]; ok {
			if _, seen := fields[field]; !seen {
				fields[field] = i
			}
		}
	}
	return fields
}

// rowToHolding converts one data row. Returns false for rows that carry no
// identity and no numbers (separators, totals, blank padding).
func rowToHolding(row []string, fields map[string]int) (models.Holding, bool) {
	cell := func(field string) string {
		i, ok := fields[field]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	h := models.Holding{
		Symbol:      cell("symbol"),
		ISIN:        cell("isin"),
		CompanyName: cell("company"),
		Sector:      cell("sector"),
		Exchange:    cell("exchange"),
		Currency:    cell("currency"),
		Quantity:    parseNumber(cell("quantity")),
		Price:       parseNumber(cell("price")),
		Value:       parseNumber(cell("value")),
	}
	if h.IsMalformed() {
		return models.Holding{}, false
	}
	return h, true
}

func (p *CSVParser) Parse(path string) (*models.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open statement: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // broker exports pad trailing columns inconsistently

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("statement %s has no data rows", path)
	}

	fields := mapColumns(records[0])
	if _, ok := fields["symbol"]; !ok {
		return nil, fmt.Errorf("statement %s has no symbol column", path)
	}

	var holdings []models.Holding
	skipped := 0
	for _, row := range records[1:] {
		h, ok := rowToHolding(row, fields)
		if !ok {
			skipped++
			continue
		}
		holdings = append(holdings, h)
	}

	p.logger.Info().
		Str("file", path).
		Int("holdings", len(holdings)).
		Int("skipped", skipped).
		Msg("parsed CSV statement")

	return models.NewSnapshot(holdings, path), nil
}

// parseNumber returns nil for empty or unparseable cells. Thousands
// separators and currency prefixes appear in some broker exports.
func parseNumber(s string) *float64 {
	if s == "" {
		return nil
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimLeft(s, "₹$ ")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
