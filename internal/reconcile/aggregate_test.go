package reconcile

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanketp/holdwatch/internal/models"
)

func TestAggregate_MergesDuplicatesWithWeightedPrice(t *testing.T) {
	merged, err := Aggregate([]models.Holding{
		holding("TCS", 10, 3500),
		holding("TCS", 30, 3400),
	})
	require.NoError(t, err)
	require.Len(t, merged, 1)

	h := merged[0]
	assert.Equal(t, 40.0, h.QuantityOrZero())
	assert.Equal(t, 10*3500.0+30*3400.0, h.ValueOrZero())
	// (3500*10 + 3400*30) / 40 = 3425
	assert.InDelta(t, 3425.0, h.PriceOrZero(), 1e-9)
}

func TestAggregate_Commutativity(t *testing.T) {
	a := holding("TCS", 10, 3500)
	b := holding("TCS", 30, 3400)
	c := holding("TCS", 5, 3600)

	permutations := [][]models.Holding{
		{a, b, c}, {a, c, b}, {b, a, c}, {b, c, a}, {c, a, b}, {c, b, a},
	}

	first, err := Aggregate(permutations[0])
	require.NoError(t, err)
	require.Len(t, first, 1)

	for _, perm := range permutations[1:] {
		got, err := Aggregate(perm)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.InDelta(t, first[0].QuantityOrZero(), got[0].QuantityOrZero(), 1e-9)
		assert.InDelta(t, first[0].ValueOrZero(), got[0].ValueOrZero(), 1e-9)
		assert.InDelta(t, first[0].PriceOrZero(), got[0].PriceOrZero(), 1e-9)
	}
}

func TestAggregate_DuplicateFreeListUnchanged(t *testing.T) {
	in := []models.Holding{
		holding("TCS", 10, 3500),
		{Symbol: "GOLDBEES", Value: models.Float64Ptr(5000)},
		{Symbol: "INFY", Exchange: "NSE", Quantity: models.Float64Ptr(5)},
	}

	out, err := Aggregate(in)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestAggregate_ZeroMergedQuantityKeepsExplicitPrice(t *testing.T) {
	merged, err := Aggregate([]models.Holding{
		{Symbol: "WIPRO", Quantity: models.Float64Ptr(10), Price: models.Float64Ptr(400)},
		{Symbol: "WIPRO", Quantity: models.Float64Ptr(-10), Price: models.Float64Ptr(405)},
	})
	require.NoError(t, err)
	require.Len(t, merged, 1)

	h := merged[0]
	assert.Equal(t, 0.0, h.QuantityOrZero())
	require.NotNil(t, h.Price)
	assert.Equal(t, 400.0, *h.Price)
}

func TestAggregate_BackDerivesPriceFromValue(t *testing.T) {
	merged, err := Aggregate([]models.Holding{
		{Symbol: "SGB", Quantity: models.Float64Ptr(4), Value: models.Float64Ptr(24000)},
		{Symbol: "SGB", Quantity: models.Float64Ptr(2), Value: models.Float64Ptr(12000)},
	})
	require.NoError(t, err)
	require.Len(t, merged, 1)

	h := merged[0]
	require.NotNil(t, h.Price)
	assert.InDelta(t, 6000.0, *h.Price, 1e-9)
}

func TestAggregate_NoPriceAnywhereLeavesPriceAbsent(t *testing.T) {
	merged, err := Aggregate([]models.Holding{
		{Symbol: "SUSPENDED", Quantity: models.Float64Ptr(0)},
		{Symbol: "SUSPENDED", Quantity: models.Float64Ptr(0)},
	})
	require.NoError(t, err)
	require.Len(t, merged, 1)
	assert.Nil(t, merged[0].Price)
}

func TestAggregate_AbsentValueCountsAsZero(t *testing.T) {
	merged, err := Aggregate([]models.Holding{
		{Symbol: "TCS", Quantity: models.Float64Ptr(10), Value: models.Float64Ptr(35000)},
		{Symbol: "TCS", Quantity: models.Float64Ptr(5)},
	})
	require.NoError(t, err)
	require.Len(t, merged, 1)
	assert.Equal(t, 35000.0, merged[0].ValueOrZero())
	assert.Equal(t, 15.0, merged[0].QuantityOrZero())
}

func TestAggregate_MetadataFirstNonAbsentWins(t *testing.T) {
	earlier := time.Date(2025, 11, 24, 15, 30, 0, 0, time.UTC)
	later := time.Date(2025, 11, 24, 16, 0, 0, 0, time.UTC)

	merged, err := Aggregate([]models.Holding{
		{Symbol: "TCS", Quantity: models.Float64Ptr(10), Sector: "", Currency: "INR", CapturedAt: earlier},
		{Symbol: "TCS", Quantity: models.Float64Ptr(5), Sector: "IT", CompanyName: "Tata Consultancy Services", CapturedAt: later},
	})
	require.NoError(t, err)
	require.Len(t, merged, 1)

	h := merged[0]
	assert.Equal(t, "IT", h.Sector)
	assert.Equal(t, "Tata Consultancy Services", h.CompanyName)
	assert.Equal(t, "INR", h.Currency)
	assert.True(t, h.CapturedAt.Equal(later))
}

func TestAggregate_MalformedHolding(t *testing.T) {
	_, err := Aggregate([]models.Holding{{}})
	require.Error(t, err)

	var malformed *models.MalformedHoldingError
	assert.True(t, errors.As(err, &malformed))
}
