// Package storage wires the snapshot file store and the relational holdings
// store behind one manager.
package storage

import (
	"context"
	"fmt"

	"github.com/sanketp/holdwatch/internal/common"
	"github.com/sanketp/holdwatch/internal/interfaces"
	"github.com/sanketp/holdwatch/internal/models"
	"github.com/sanketp/holdwatch/internal/storage/postgres"
	"github.com/sanketp/holdwatch/internal/storage/snapfs"
)

// Manager implements interfaces.StorageManager. The relational store is
// optional: without a database URL, snapshot operations work and database
// operations return a configuration error.
type Manager struct {
	snapshots interfaces.SnapshotStore
	db        interfaces.HoldingsDB
	logger    *common.Logger
}

// NewManager builds the storage areas from config. When cfg.Database.URL is
// set the connection is established and the schema applied up front.
func NewManager(ctx context.Context, cfg common.StorageConfig, logger *common.Logger) (*Manager, error) {
	if logger == nil {
		logger = common.NewSilentLogger()
	}

	snapshots, err := snapfs.NewStore(cfg.Snapshots.Path, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize snapshot store: %w", err)
	}

	m := &Manager{
		snapshots: snapshots,
		db:        &unconfiguredDB{},
		logger:    logger,
	}

	if cfg.Database.URL != "" {
		db, err := postgres.NewStore(ctx, cfg.Database.URL, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize holdings database: %w", err)
		}
		if err := db.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply database schema: %w", err)
		}
		m.db = db
		logger.Debug().Msg("holdings database connected")
	}

	return m, nil
}

func (m *Manager) SnapshotStore() interfaces.SnapshotStore { return m.snapshots }
func (m *Manager) HoldingsDB() interfaces.HoldingsDB       { return m.db }

func (m *Manager) Close() error {
	return m.db.Close()
}

var _ interfaces.StorageManager = (*Manager)(nil)

// unconfiguredDB stands in when no database URL is configured.
type unconfiguredDB struct{}

var errNoDatabase = fmt.Errorf("database not configured (set storage.database.url or HOLDWATCH_DATABASE_URL)")

func (u *unconfiguredDB) EnsureSchema(ctx context.Context) error { return errNoDatabase }

func (u *unconfiguredDB) SaveImport(ctx context.Context, snap *models.Snapshot) (*models.ImportSession, error) {
	return nil, errNoDatabase
}

func (u *unconfiguredDB) ListImports(ctx context.Context) ([]*models.ImportSession, error) {
	return nil, errNoDatabase
}

func (u *unconfiguredDB) QueryHoldings(ctx context.Context, q interfaces.HoldingsQuery) ([]models.Holding, error) {
	return nil, errNoDatabase
}

func (u *unconfiguredDB) SectorBreakdown(ctx context.Context, sourceFile string) ([]interfaces.SectorSummary, error) {
	return nil, errNoDatabase
}

func (u *unconfiguredDB) Close() error { return nil }
