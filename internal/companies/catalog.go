// Package companies maps ISINs and trading symbols to company names using a
// local catalog file (an NSE equity list CSV). The catalog is loaded once and
// never mutated, so lookups need no locking.
package companies

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/sanketp/holdwatch/internal/models"
)

// Catalog is an immutable ISIN/symbol to company-name index.
type Catalog struct {
	byISIN   map[string]string
	bySymbol map[string]string
}

// Empty returns a catalog with no entries. Lookups fall through to the
// caller's fallback.
func Empty() *Catalog {
	return &Catalog{
		byISIN:   map[string]string{},
		bySymbol: map[string]string{},
	}
}

// Load reads an NSE-style equity list CSV. Required columns are matched by
// header name, case-insensitively: "ISIN NUMBER", "NAME OF COMPANY" and
// "SYMBOL".
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open company catalog: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read company catalog: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("company catalog %s is empty", path)
	}

	isinCol, nameCol, symbolCol := -1, -1, -1
	for i, h := range records[0] {
		switch strings.ToUpper(strings.TrimSpace(h)) {
		case "ISIN NUMBER", "ISIN":
			isinCol = i
		case "NAME OF COMPANY", "COMPANY NAME":
			nameCol = i
		case "SYMBOL":
			symbolCol = i
		}
	}
	if isinCol < 0 || nameCol < 0 {
		return nil, fmt.Errorf("company catalog %s missing ISIN or company name column", path)
	}

	c := Empty()
	for _, row := range records[1:] {
		if isinCol >= len(row) || nameCol >= len(row) {
			continue
		}
		isin := strings.TrimSpace(row[isinCol])
		name := strings.TrimSpace(row[nameCol])
		if isin == "" || name == "" {
			continue
		}
		c.byISIN[isin] = name
		if symbolCol >= 0 && symbolCol < len(row) {
			if sym := strings.TrimSpace(row[symbolCol]); sym != "" {
				c.bySymbol[strings.ToUpper(sym)] = name
			}
		}
	}

	return c, nil
}

// Size returns the number of ISIN entries.
func (c *Catalog) Size() int {
	return len(c.byISIN)
}

// Name looks up a company name by ISIN first, then symbol. Returns "" when
// neither is known.
func (c *Catalog) Name(isin, symbol string) string {
	if isin != "" {
		if name, ok := c.byISIN[isin]; ok {
			return name
		}
	}
	if symbol != "" {
		if name, ok := c.bySymbol[strings.ToUpper(symbol)]; ok {
			return name
		}
	}
	return ""
}

// Enrich fills in company names for holdings that lack one, or carry only the
// symbol as a placeholder. Returns the number of holdings updated.
func (c *Catalog) Enrich(holdings []models.Holding) int {
	updated := 0
	for i := range holdings {
		h := &holdings[i]
		if h.CompanyName != "" && h.CompanyName != h.Symbol && h.CompanyName != h.ISIN {
			continue
		}
		if name := c.Name(h.ISIN, h.Symbol); name != "" {
			h.CompanyName = name
			updated++
		}
	}
	return updated
}
