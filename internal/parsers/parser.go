// Package parsers reads brokerage holdings statements into snapshots.
// Supported formats are spreadsheet (XLSX) and CSV exports and PDF
// statements; the format is chosen by file extension.
package parsers

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sanketp/holdwatch/internal/common"
	"github.com/sanketp/holdwatch/internal/models"
)

// Parser reads one statement format.
type Parser interface {
	Parse(path string) (*models.Snapshot, error)
}

// ParseFile parses a statement file, dispatching on extension.
func ParseFile(path string, logger *common.Logger) (*models.Snapshot, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return NewXLSXParser(logger).Parse(path)
	case ".csv":
		return NewCSVParser(logger).Parse(path)
	case ".pdf":
		return NewPDFParser(logger).Parse(path)
	default:
		return nil, fmt.Errorf("unsupported statement format %q (expected .xlsx, .csv or .pdf)", filepath.Ext(path))
	}
}
