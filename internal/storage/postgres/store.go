// Package postgres persists imported holdings statements to PostgreSQL.
package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sanketp/holdwatch/internal/common"
	"github.com/sanketp/holdwatch/internal/interfaces"
	"github.com/sanketp/holdwatch/internal/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS holdings_imports (
    id             TEXT PRIMARY KEY,
    source_file    TEXT NOT NULL UNIQUE,
    parse_date     TIMESTAMPTZ NOT NULL,
    total_value    DOUBLE PRECISION NOT NULL DEFAULT 0,
    total_holdings INTEGER NOT NULL DEFAULT 0,
    created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS holdings (
    id           BIGSERIAL PRIMARY KEY,
    import_id    TEXT NOT NULL REFERENCES holdings_imports(id) ON DELETE CASCADE,
    symbol       TEXT NOT NULL DEFAULT '',
    company_name TEXT NOT NULL DEFAULT '',
    sector       TEXT NOT NULL DEFAULT '',
    exchange     TEXT NOT NULL DEFAULT '',
    currency     TEXT NOT NULL DEFAULT '',
    isin         TEXT NOT NULL DEFAULT '',
    quantity     DOUBLE PRECISION,
    price        DOUBLE PRECISION,
    value        DOUBLE PRECISION,
    holding_date TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_holdings_import ON holdings(import_id);
CREATE INDEX IF NOT EXISTS idx_holdings_symbol ON holdings(symbol);
`

// Store implements HoldingsDB on a pgx connection pool.
type Store struct {
	pool   *pgxpool.Pool
	logger *common.Logger
}

// NewStore connects to url and pings the server.
func NewStore(ctx context.Context, url string, logger *common.Logger) (*Store, error) {
	if url == "" {
		return nil, fmt.Errorf("database URL is required")
	}
	if logger == nil {
		logger = common.NewSilentLogger()
	}

	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &Store{pool: pool, logger: logger}, nil
}

func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// SaveImport upserts the import session keyed by source file and replaces its
// holdings. The delete and inserts run in one transaction so a re-import
// never leaves a partial mix of old and new rows.
func (s *Store) SaveImport(ctx context.Context, snap *models.Snapshot) (*models.ImportSession, error) {
	if snap.SourceFile == "" {
		return nil, fmt.Errorf("snapshot has no source file")
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	session := &models.ImportSession{
		SourceFile:    snap.SourceFile,
		ParseDate:     snap.ParseDate,
		TotalValue:    snap.TotalValue,
		TotalHoldings: snap.TotalHoldings,
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO holdings_imports (id, source_file, parse_date, total_value, total_holdings)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (source_file) DO UPDATE SET
			parse_date = EXCLUDED.parse_date,
			total_value = EXCLUDED.total_value,
			total_holdings = EXCLUDED.total_holdings,
			updated_at = now()
		RETURNING id, created_at, updated_at`,
		uuid.NewString(), snap.SourceFile, snap.ParseDate, snap.TotalValue, snap.TotalHoldings,
	).Scan(&session.ID, &session.CreatedAt, &session.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert import session: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM holdings WHERE import_id = $1`, session.ID); err != nil {
		return nil, fmt.Errorf("failed to clear prior holdings: %w", err)
	}

	batch := &pgx.Batch{}
	for _, h := range snap.Holdings {
		var capturedAt *time.Time
		if !h.CapturedAt.IsZero() {
			capturedAt = &h.CapturedAt
		}
		batch.Queue(`
			INSERT INTO holdings
				(import_id, symbol, company_name, sector, exchange, currency, isin,
				 quantity, price, value, holding_date)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			session.ID, h.Symbol, h.CompanyName, h.Sector, h.Exchange, h.Currency, h.ISIN,
			h.Quantity, h.Price, h.Value, capturedAt)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return nil, fmt.Errorf("failed to insert holdings: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit import: %w", err)
	}

	s.logger.Info().
		Str("import_id", session.ID).
		Str("source_file", session.SourceFile).
		Int("holdings", session.TotalHoldings).
		Msg("saved holdings import")

	return session, nil
}

func (s *Store) ListImports(ctx context.Context) ([]*models.ImportSession, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, source_file, parse_date, total_value, total_holdings, created_at, updated_at
		FROM holdings_imports
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list imports: %w", err)
	}
	defer rows.Close()

	var sessions []*models.ImportSession
	for rows.Next() {
		var sess models.ImportSession
		if err := rows.Scan(&sess.ID, &sess.SourceFile, &sess.ParseDate,
			&sess.TotalValue, &sess.TotalHoldings, &sess.CreatedAt, &sess.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan import session: %w", err)
		}
		sessions = append(sessions, &sess)
	}
	return sessions, rows.Err()
}

func (s *Store) QueryHoldings(ctx context.Context, q interfaces.HoldingsQuery) ([]models.Holding, error) {
	query := strings.Builder{}
	query.WriteString(`
		SELECT h.symbol, h.company_name, h.sector, h.exchange, h.currency, h.isin,
		       h.quantity, h.price, h.value, h.holding_date
		FROM holdings h
		JOIN holdings_imports i ON i.id = h.import_id`)

	var conds []string
	var args []interface{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if q.SourceFile != "" {
		conds = append(conds, "i.source_file = "+arg(q.SourceFile))
	}
	if q.Symbol != "" {
		conds = append(conds, "upper(h.symbol) = "+arg(strings.ToUpper(q.Symbol)))
	}
	if q.Sector != "" {
		conds = append(conds, "h.sector = "+arg(q.Sector))
	}
	if len(conds) > 0 {
		query.WriteString(" WHERE " + strings.Join(conds, " AND "))
	}
	query.WriteString(" ORDER BY h.symbol")
	if q.Limit > 0 {
		query.WriteString(" LIMIT " + arg(q.Limit))
	}

	rows, err := s.pool.Query(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query holdings: %w", err)
	}
	defer rows.Close()

	var holdings []models.Holding
	for rows.Next() {
		var h models.Holding
		var capturedAt *time.Time
		if err := rows.Scan(&h.Symbol, &h.CompanyName, &h.Sector, &h.Exchange, &h.Currency, &h.ISIN,
			&h.Quantity, &h.Price, &h.Value, &capturedAt); err != nil {
			return nil, fmt.Errorf("failed to scan holding: %w", err)
		}
		if capturedAt != nil {
			h.CapturedAt = *capturedAt
		}
		holdings = append(holdings, h)
	}
	return holdings, rows.Err()
}

func (s *Store) SectorBreakdown(ctx context.Context, sourceFile string) ([]interfaces.SectorSummary, error) {
	query := `
		SELECT COALESCE(NULLIF(h.sector, ''), 'Unknown') AS sector,
		       count(*),
		       COALESCE(sum(h.value), 0)
		FROM holdings h
		JOIN holdings_imports i ON i.id = h.import_id`
	var args []interface{}
	if sourceFile != "" {
		query += " WHERE i.source_file = $1"
		args = append(args, sourceFile)
	}
	query += " GROUP BY 1 ORDER BY 3 DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sector breakdown: %w", err)
	}
	defer rows.Close()

	var summaries []interfaces.SectorSummary
	for rows.Next() {
		var sum interfaces.SectorSummary
		if err := rows.Scan(&sum.Sector, &sum.Count, &sum.TotalValue); err != nil {
			return nil, fmt.Errorf("failed to scan sector summary: %w", err)
		}
		summaries = append(summaries, sum)
	}
	return summaries, rows.Err()
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

var _ interfaces.HoldingsDB = (*Store)(nil)
