package parsers

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/sanketp/holdwatch/internal/common"
	"github.com/sanketp/holdwatch/internal/models"
)

// PDFParser extracts holdings from depository statement PDFs (CDSL/NSDL
// style). Text extraction loses table structure, so rows are recovered by
// pattern: an ISIN anchors each holding, followed by the company name and the
// numeric columns in order quantity, price, value.
type PDFParser struct {
	logger *common.Logger
}

func NewPDFParser(logger *common.Logger) *PDFParser {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &PDFParser{logger: logger}
}

var (
	isinPattern = regexp.MustCompile(`\b(IN[A-Z0-9]{10})\b`)
	// ISIN, company name (non-greedy, no digits at the start), then three
	// numbers: quantity, price, value.
	holdingRowPattern = regexp.MustCompile(
		`(IN[A-Z0-9]{10})\s+([A-Za-z][A-Za-z0-9 .&\-'()]*?)\s+([\d,]+(?:\.\d+)?)\s+([\d,]+\.\d+)\s+([\d,]+\.\d+)`)
)

func (p *PDFParser) Parse(path string) (*models.Snapshot, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	reader, err := r.GetPlainText()
	if err != nil {
		return nil, fmt.Errorf("failed to extract PDF text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(reader); err != nil {
		return nil, fmt.Errorf("failed to read PDF text: %w", err)
	}

	holdings := p.holdingsFromText(buf.String())
	if len(holdings) == 0 {
		return nil, fmt.Errorf("no holdings found in %s", path)
	}

	p.logger.Info().
		Str("file", path).
		Int("holdings", len(holdings)).
		Msg("parsed PDF statement")

	return models.NewSnapshot(holdings, path), nil
}

// holdingsFromText recovers full rows when the extracted text kept the table
// shape. When it did not (layout-heavy statements scramble column order), the
// ISINs still identify the instruments, so the fallback emits identity-only
// holdings for catalog enrichment and later price fill-in.
func (p *PDFParser) holdingsFromText(text string) []models.Holding {
	if holdings := p.extractHoldings(text); len(holdings) > 0 {
		return holdings
	}

	isins := ExtractISINs(text)
	if len(isins) == 0 {
		return nil
	}
	p.logger.Warn().
		Int("isins", len(isins)).
		Msg("no holdings rows recovered, falling back to ISIN list")

	holdings := make([]models.Holding, 0, len(isins))
	for _, isin := range isins {
		holdings = append(holdings, models.Holding{Symbol: isin, ISIN: isin})
	}
	return holdings
}

func (p *PDFParser) extractHoldings(text string) []models.Holding {
	var holdings []models.Holding
	seen := make(map[string]bool)

	for _, m := range holdingRowPattern.FindAllStringSubmatch(text, -1) {
		isin := m[1]
		if seen[isin] {
			continue
		}
		seen[isin] = true

		h := models.Holding{
			ISIN:        isin,
			CompanyName: strings.TrimSpace(m[2]),
			Quantity:    parseNumber(m[3]),
			Price:       parseNumber(m[4]),
			Value:       parseNumber(m[5]),
		}
		// Statements carry company names, not trading symbols. The ISIN
		// stands in so the row is addressable until catalog enrichment.
		h.Symbol = isin
		holdings = append(holdings, h)
	}

	return holdings
}

// ExtractISINs lists the distinct ISINs appearing anywhere in the text, in
// order of first appearance. Used when row recovery fails and only the
// instrument list is needed.
func ExtractISINs(text string) []string {
	var isins []string
	seen := make(map[string]bool)
	for _, m := range isinPattern.FindAllString(text, -1) {
		if !seen[m] {
			seen[m] = true
			isins = append(isins, m)
		}
	}
	return isins
}
