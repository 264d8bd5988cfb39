// Package snapfs stores EOD holdings snapshots as JSON files, one per date,
// named eod_holdings_YYYYMMDD.json.
package snapfs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/sanketp/holdwatch/internal/common"
	"github.com/sanketp/holdwatch/internal/interfaces"
	"github.com/sanketp/holdwatch/internal/models"
)

const filePattern = "eod_holdings_%s.json"

var fileRegexp = regexp.MustCompile(`^eod_holdings_(\d{8})\.json$`)

// Store keeps snapshots under one directory.
type Store struct {
	dir    string
	logger *common.Logger
}

func NewStore(dir string, logger *common.Logger) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("snapshot directory is required")
	}
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	return &Store{dir: dir, logger: logger}, nil
}

func (s *Store) path(date string) string {
	return filepath.Join(s.dir, fmt.Sprintf(filePattern, date))
}

func validDate(date string) error {
	if len(date) != 8 {
		return fmt.Errorf("invalid snapshot date %q (expected YYYYMMDD)", date)
	}
	for _, r := range date {
		if r < '0' || r > '9' {
			return fmt.Errorf("invalid snapshot date %q (expected YYYYMMDD)", date)
		}
	}
	return nil
}

// Save writes the snapshot for date. The write goes through a temp file and
// rename so a crashed run never leaves a truncated snapshot behind.
func (s *Store) Save(ctx context.Context, snap *models.Snapshot, date string) (string, error) {
	if err := validDate(date); err != nil {
		return "", err
	}

	out := *snap
	out.Date = date

	data, err := json.MarshalIndent(&out, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode snapshot: %w", err)
	}

	path := s.path(date)
	tmp, err := os.CreateTemp(s.dir, "eod_holdings_*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to close snapshot: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to finalize snapshot: %w", err)
	}

	s.logger.Info().
		Str("date", date).
		Str("path", path).
		Int("holdings", out.TotalHoldings).
		Msg("saved EOD snapshot")

	return path, nil
}

// Load reads the snapshot for date.
func (s *Store) Load(ctx context.Context, date string) (*models.Snapshot, error) {
	if err := validDate(date); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path(date))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no snapshot for %s", date)
		}
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var snap models.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot for %s: %w", date, err)
	}
	if snap.Date == "" {
		snap.Date = date
	}
	return &snap, nil
}

// List returns the stored snapshot dates, ascending.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}

	var dates []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if m := fileRegexp.FindStringSubmatch(e.Name()); m != nil {
			dates = append(dates, m[1])
		}
	}
	sort.Strings(dates)
	return dates, nil
}

var _ interfaces.SnapshotStore = (*Store)(nil)
