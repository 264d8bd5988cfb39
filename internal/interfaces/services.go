package interfaces

import (
	"context"
	"time"

	"github.com/sanketp/holdwatch/internal/models"
)

// HoldingsService gathers, persists, and queries holdings snapshots.
type HoldingsService interface {
	// FetchCurrent fetches holdings from every configured brokerage account,
	// aggregates duplicates, and enriches company names.
	FetchCurrent(ctx context.Context) (*models.Snapshot, error)

	// SaveEOD persists a snapshot under a YYYYMMDD date label.
	SaveEOD(ctx context.Context, snap *models.Snapshot, date string) (string, error)

	// LoadEOD loads a previously saved snapshot.
	LoadEOD(ctx context.Context, date string) (*models.Snapshot, error)

	// ImportStatement parses a CSV or PDF statement and upserts it into the
	// relational store as one import session.
	ImportStatement(ctx context.Context, path string) (*models.ImportSession, error)

	// Query reads holdings back from the relational store.
	Query(ctx context.Context, q HoldingsQuery) ([]models.Holding, error)
}

// CompareOptions configures one reconciliation run.
type CompareOptions struct {
	ReferenceDate string   // YYYYMMDD snapshot to compare against
	MinVariation  *float64 // overrides the configured default threshold when set
	Analyze       bool     // request LLM movement hypotheses
	Notify        bool     // send the summary to the configured recipient
	ChartPath     string   // when set, render the variation chart PNG here
}

// CompareResult is the outcome of one reconciliation run.
type CompareResult struct {
	Current      *models.Snapshot
	Reference    *models.Snapshot
	Report       *models.VariationReport
	Analysis     *models.MovementAnalysis
	NewPositions []string // instruments in current but not in reference
}

// WatchOptions configures the periodic compare loop.
type WatchOptions struct {
	Compare  CompareOptions
	Interval time.Duration
	MaxRuns  int // 0 means run until the context is canceled
}

// AnalysisService runs the reconcile → analyze → notify pipeline.
type AnalysisService interface {
	Compare(ctx context.Context, opts CompareOptions) (*CompareResult, error)
	Watch(ctx context.Context, opts WatchOptions) error
}
