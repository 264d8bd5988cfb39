// Package holdings provides the holdings gathering and persistence service.
package holdings

import (
	"context"
	"fmt"

	"github.com/sanketp/holdwatch/internal/common"
	"github.com/sanketp/holdwatch/internal/companies"
	"github.com/sanketp/holdwatch/internal/interfaces"
	"github.com/sanketp/holdwatch/internal/models"
	"github.com/sanketp/holdwatch/internal/parsers"
	"github.com/sanketp/holdwatch/internal/reconcile"
)

// Service fetches holdings from brokerage accounts, persists EOD snapshots,
// and imports statement files into the relational store.
type Service struct {
	clients []interfaces.BrokerClient
	catalog *companies.Catalog
	storage interfaces.StorageManager
	logger  *common.Logger
}

// NewService creates the holdings service. catalog may be nil when no company
// catalog is configured.
func NewService(clients []interfaces.BrokerClient, catalog *companies.Catalog, storage interfaces.StorageManager, logger *common.Logger) *Service {
	if catalog == nil {
		catalog = companies.Empty()
	}
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Service{
		clients: clients,
		catalog: catalog,
		storage: storage,
		logger:  logger,
	}
}

// FetchCurrent fetches holdings from every configured account and merges the
// lists. The same instrument held in several accounts collapses to one
// position with summed quantity and weighted average price.
func (s *Service) FetchCurrent(ctx context.Context) (*models.Snapshot, error) {
	if len(s.clients) == 0 {
		return nil, fmt.Errorf("no brokerage accounts configured")
	}

	var all []models.Holding
	for i, client := range s.clients {
		holdings, err := client.GetHoldings(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch holdings for account %d: %w", i+1, err)
		}
		s.logger.Debug().
			Int("account", i+1).
			Int("holdings", len(holdings)).
			Msg("fetched account holdings")
		all = append(all, holdings...)
	}

	merged, err := reconcile.Aggregate(all)
	if err != nil {
		return nil, fmt.Errorf("failed to merge account holdings: %w", err)
	}

	if enriched := s.catalog.Enrich(merged); enriched > 0 {
		s.logger.Debug().Int("enriched", enriched).Msg("filled company names from catalog")
	}

	snap := models.NewSnapshot(merged, fmt.Sprintf("Kite API (%d accounts)", len(s.clients)))

	s.logger.Info().
		Int("accounts", len(s.clients)).
		Int("holdings", snap.TotalHoldings).
		Float64("total_value", snap.TotalValue).
		Msg("fetched current holdings")

	return snap, nil
}

// SaveEOD persists a snapshot under a YYYYMMDD date label.
func (s *Service) SaveEOD(ctx context.Context, snap *models.Snapshot, date string) (string, error) {
	return s.storage.SnapshotStore().Save(ctx, snap, date)
}

// LoadEOD loads a previously saved snapshot.
func (s *Service) LoadEOD(ctx context.Context, date string) (*models.Snapshot, error) {
	return s.storage.SnapshotStore().Load(ctx, date)
}

// ImportStatement parses a CSV or PDF statement, enriches company names, and
// upserts it into the relational store.
func (s *Service) ImportStatement(ctx context.Context, path string) (*models.ImportSession, error) {
	snap, err := parsers.ParseFile(path, s.logger)
	if err != nil {
		return nil, err
	}

	s.catalog.Enrich(snap.Holdings)

	session, err := s.storage.HoldingsDB().SaveImport(ctx, snap)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("source_file", session.SourceFile).
		Int("holdings", session.TotalHoldings).
		Float64("total_value", session.TotalValue).
		Msg("imported statement")

	return session, nil
}

// Query reads holdings back from the relational store.
func (s *Service) Query(ctx context.Context, q interfaces.HoldingsQuery) ([]models.Holding, error) {
	return s.storage.HoldingsDB().QueryHoldings(ctx, q)
}

var _ interfaces.HoldingsService = (*Service)(nil)
