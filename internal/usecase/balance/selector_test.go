package balance

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/ledgerline-backend/internal/domain"
)

func snapshotAt(id string, asOf, created time.Time, value int64) *domain.AccountBalance {
	return &domain.AccountBalance{
		ID:      id,
		Value:   decimal.NewFromInt(value),
		AsOf:    asOf,
		Created: created,
	}
}

func TestLatestAccountBalance_Empty(t *testing.T) {
	assert.Nil(t, LatestAccountBalance(nil))
	assert.Nil(t, LatestAccountBalance([]*domain.AccountBalance{}))
}

func TestLatestAccountBalance_OrdersByAsOf(t *testing.T) {
	now := time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC)
	snapshots := []*domain.AccountBalance{
		snapshotAt("a", now.AddDate(0, 0, -2), now, 100),
		snapshotAt("b", now, now.AddDate(0, 0, -5), 200),
		snapshotAt("c", now.AddDate(0, 0, -1), now, 300),
	}

	latest := LatestAccountBalance(snapshots)

	require.NotNil(t, latest)
	// asOf wins even though "b" was inserted earliest
	assert.Equal(t, "b", latest.ID)
}

func TestLatestAccountBalance_CreatedBreaksAsOfTie(t *testing.T) {
	asOf := time.Date(2025, time.May, 1, 12, 0, 0, 0, time.UTC)
	snapshots := []*domain.AccountBalance{
		snapshotAt("a", asOf, asOf.Add(1*time.Hour), 100),
		snapshotAt("b", asOf, asOf.Add(2*time.Hour), 200),
	}

	latest := LatestAccountBalance(snapshots)

	require.NotNil(t, latest)
	assert.Equal(t, "b", latest.ID)
}

func TestLatestAccountBalance_IDBreaksFullTie(t *testing.T) {
	// Bulk imports can produce identical asOf and created stamps; the id
	// tie-break keeps selection deterministic, most recent id winning.
	asOf := time.Date(2025, time.May, 1, 12, 0, 0, 0, time.UTC)
	snapshots := []*domain.AccountBalance{
		snapshotAt("aaa", asOf, asOf, 100),
		snapshotAt("zzz", asOf, asOf, 200),
		snapshotAt("mmm", asOf, asOf, 300),
	}

	first := LatestAccountBalance(snapshots)
	second := LatestAccountBalance(snapshots)

	require.NotNil(t, first)
	assert.Equal(t, "zzz", first.ID)
	assert.Same(t, first, second)
}

func TestLatestAssetBalance_PrefersMarketValue(t *testing.T) {
	asOf := time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC)
	latest := LatestAssetBalance([]*domain.AssetBalance{
		{
			ID:   "a",
			AsOf: asOf,
			Detail: domain.DetailedBalance{
				BookValue:   decimal.NewFromInt(900),
				MarketValue: decimal.NewFromInt(1100),
			},
		},
	})

	require.NotNil(t, latest)
	assert.True(t, latest.CurrentValue().Equal(decimal.NewFromInt(1100)))
}

func TestLatestAssetBalance_SimpleShapeFallsBackToValue(t *testing.T) {
	asOf := time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC)
	latest := LatestAssetBalance([]*domain.AssetBalance{
		{ID: "a", AsOf: asOf, Detail: domain.SimpleBalance{Value: decimal.NewFromInt(750)}},
	})

	require.NotNil(t, latest)
	assert.True(t, latest.CurrentValue().Equal(decimal.NewFromInt(750)))
}
