package interfaces

import (
	"context"

	"github.com/sanketp/holdwatch/internal/models"
)

// StorageManager coordinates the two storage areas: EOD snapshot files and
// the relational holdings database.
type StorageManager interface {
	SnapshotStore() SnapshotStore
	HoldingsDB() HoldingsDB

	Close() error
}

// SnapshotStore persists EOD snapshots as on-disk JSON, one file per date
// (eod_holdings_YYYYMMDD.json).
type SnapshotStore interface {
	// Save writes the snapshot for a YYYYMMDD date and returns the file path.
	Save(ctx context.Context, snap *models.Snapshot, date string) (string, error)

	// Load reads the snapshot for a YYYYMMDD date.
	Load(ctx context.Context, date string) (*models.Snapshot, error)

	// List returns the dates that have a stored snapshot, ascending.
	List(ctx context.Context) ([]string, error)
}

// HoldingsQuery filters relational holdings queries.
type HoldingsQuery struct {
	SourceFile string
	Symbol     string
	Sector     string
	Limit      int
}

// SectorSummary is one row of the sector breakdown query.
type SectorSummary struct {
	Sector     string  `json:"sector"`
	Count      int     `json:"count"`
	TotalValue float64 `json:"total_value"`
}

// HoldingsDB persists parsed statements to the relational store. Re-importing
// a source file replaces its previous holdings.
type HoldingsDB interface {
	EnsureSchema(ctx context.Context) error
	SaveImport(ctx context.Context, snap *models.Snapshot) (*models.ImportSession, error)
	ListImports(ctx context.Context) ([]*models.ImportSession, error)
	QueryHoldings(ctx context.Context, q HoldingsQuery) ([]models.Holding, error)
	SectorBreakdown(ctx context.Context, sourceFile string) ([]SectorSummary, error)
	Close() error
}
