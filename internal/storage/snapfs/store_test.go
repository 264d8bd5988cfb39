package snapfs

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanketp/holdwatch/internal/common"
	"github.com/sanketp/holdwatch/internal/models"
)

func testSnapshot() *models.Snapshot {
	return models.NewSnapshot([]models.Holding{
		{Symbol: "TCS", Quantity: models.Float64Ptr(10), Price: models.Float64Ptr(3500), Value: models.Float64Ptr(35000)},
		{Symbol: "INFY", Quantity: models.Float64Ptr(25), Price: models.Float64Ptr(1450), Value: models.Float64Ptr(36250)},
	}, "Kite API (1 accounts)")
}

func TestSaveAndLoad(t *testing.T) {
	store, err := NewStore(t.TempDir(), common.NewSilentLogger())
	require.NoError(t, err)
	ctx := context.Background()

	path, err := store.Save(ctx, testSnapshot(), "20260831")
	require.NoError(t, err)
	assert.Equal(t, "eod_holdings_20260831.json", filepath.Base(path))

	loaded, err := store.Load(ctx, "20260831")
	require.NoError(t, err)
	assert.Equal(t, "20260831", loaded.Date)
	assert.Equal(t, 2, loaded.TotalHoldings)
	assert.InDelta(t, 71250, loaded.TotalValue, 0.001)
	require.Len(t, loaded.Holdings, 2)
	assert.Equal(t, "TCS", loaded.Holdings[0].Symbol)
	assert.InDelta(t, 3500, loaded.Holdings[0].PriceOrZero(), 0.001)
}

func TestSaveOverwrites(t *testing.T) {
	store, err := NewStore(t.TempDir(), common.NewSilentLogger())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = store.Save(ctx, testSnapshot(), "20260831")
	require.NoError(t, err)

	later := models.NewSnapshot([]models.Holding{
		{Symbol: "TCS", Price: models.Float64Ptr(3600), Value: models.Float64Ptr(36000)},
	}, "Kite API (1 accounts)")
	_, err = store.Save(ctx, later, "20260831")
	require.NoError(t, err)

	loaded, err := store.Load(ctx, "20260831")
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.TotalHoldings)
}

func TestList(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir, common.NewSilentLogger())
	require.NoError(t, err)
	ctx := context.Background()

	for _, date := range []string{"20260830", "20260828", "20260829"} {
		_, err := store.Save(ctx, testSnapshot(), date)
		require.NoError(t, err)
	}
	// non-snapshot files are ignored
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	dates, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"20260828", "20260829", "20260830"}, dates)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir, common.NewSilentLogger())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = store.Load(ctx, "20260831")
	assert.ErrorContains(t, err, "no snapshot for 20260831")

	_, err = store.Load(ctx, "2026-08-31")
	assert.ErrorContains(t, err, "invalid snapshot date")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "eod_holdings_20260831.json"), []byte("{broken"), 0644))
	_, err = store.Load(ctx, "20260831")
	assert.ErrorContains(t, err, "failed to decode")
}

func TestSavedFileIsValidJSON(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir, common.NewSilentLogger())
	require.NoError(t, err)

	path, err := store.Save(context.Background(), testSnapshot(), "20260831")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "20260831", raw["date"])
	assert.Contains(t, raw, "holdings")
	assert.Contains(t, raw, "total_value")
}
