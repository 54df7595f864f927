package balance

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/ledgerline/ledgerline-backend/internal/domain"
)

var rollupNow = time.Date(2025, time.August, 29, 12, 0, 0, 0, time.UTC)

func assertDecimal(t *testing.T, expected int64, actual decimal.Decimal) {
	t.Helper()
	assert.True(t, actual.Equal(decimal.NewFromInt(expected)),
		"expected %d, got %s", expected, actual.String())
}

func TestRollup_CategoryTotalsAndNetWorth(t *testing.T) {
	types := []*domain.BalanceType{
		{ID: "bt-checking", Name: "Checking"},
		{ID: "bt-credit", Name: "Credit card"},
		{ID: "bt-brokerage", Name: "Brokerage"},
		{ID: "bt-paintings", Name: "Paintings"},
	}
	accounts := []*domain.Account{
		{ID: "cash", Name: "Willow Everyday", Category: domain.CategoryCash, BalanceTypeID: "bt-checking"},
		{ID: "card", Name: "Crescent Classic", Category: domain.CategoryDebt, BalanceTypeID: "bt-credit"},
		{ID: "invest", Name: "Orchard Growth", Category: domain.CategoryInvestment, BalanceTypeID: "bt-brokerage"},
	}
	assets := []*domain.Asset{
		{ID: "painting", Name: "Las Meninas", Category: domain.CategoryOther, BalanceTypeID: "bt-paintings", Type: domain.AssetTypeWhole},
	}
	accountBalances := []*domain.AccountBalance{
		{ID: "b1", AccountID: "cash", Value: decimal.NewFromInt(500), AsOf: rollupNow},
		{ID: "b2", AccountID: "card", Value: decimal.NewFromInt(-1000), AsOf: rollupNow},
		{ID: "b3", AccountID: "invest", Value: decimal.NewFromInt(1000), AsOf: rollupNow},
	}
	assetBalances := []*domain.AssetBalance{
		{ID: "b4", AssetID: "painting", AsOf: rollupNow, Detail: domain.SimpleBalance{Value: decimal.NewFromInt(1000)}},
	}

	sheet := Rollup(NewBook(accounts, assets, accountBalances, assetBalances, nil, types), ScopeOpen)

	assertDecimal(t, 500, sheet.TotalsByCategory[domain.CategoryCash])
	assertDecimal(t, -1000, sheet.TotalsByCategory[domain.CategoryDebt])
	assertDecimal(t, 1000, sheet.TotalsByCategory[domain.CategoryInvestment])
	assertDecimal(t, 1000, sheet.TotalsByCategory[domain.CategoryOther])
	assertDecimal(t, 1500, sheet.NetWorth)
}

func TestRollup_ExcludesClosedExcludedSoldEntities(t *testing.T) {
	flagged := rollupNow
	accounts := []*domain.Account{
		{ID: "open", Category: domain.CategoryCash},
		{ID: "closed", Category: domain.CategoryCash, ClosedAt: &flagged},
		{ID: "excluded", Category: domain.CategoryCash, ExcludedAt: &flagged},
	}
	assets := []*domain.Asset{
		{ID: "sold", Category: domain.CategoryOther, Type: domain.AssetTypeWhole, SoldAt: &flagged},
		{ID: "excluded-asset", Category: domain.CategoryOther, Type: domain.AssetTypeWhole, ExcludedAt: &flagged},
	}
	accountBalances := []*domain.AccountBalance{
		{ID: "b1", AccountID: "open", Value: decimal.NewFromInt(2500), AsOf: rollupNow},
		{ID: "b2", AccountID: "closed", Value: decimal.NewFromInt(1234), AsOf: rollupNow},
		{ID: "b3", AccountID: "excluded", Value: decimal.NewFromInt(1234), AsOf: rollupNow},
	}
	assetBalances := []*domain.AssetBalance{
		{ID: "b4", AssetID: "sold", AsOf: rollupNow, Detail: domain.SimpleBalance{Value: decimal.NewFromInt(1234)}},
		{ID: "b5", AssetID: "excluded-asset", AsOf: rollupNow, Detail: domain.SimpleBalance{Value: decimal.NewFromInt(1234)}},
	}

	sheet := Rollup(NewBook(accounts, assets, accountBalances, assetBalances, nil, nil), ScopeOpen)

	assertDecimal(t, 2500, sheet.TotalsByCategory[domain.CategoryCash])
	assertDecimal(t, 0, sheet.TotalsByCategory[domain.CategoryOther])
	assertDecimal(t, 2500, sheet.NetWorth)
}

func TestRollup_ScopesChangeTheAggregate(t *testing.T) {
	flagged := rollupNow
	accounts := []*domain.Account{
		{ID: "open", Category: domain.CategoryCash},
		{ID: "excluded", Category: domain.CategoryCash, ExcludedAt: &flagged},
	}
	accountBalances := []*domain.AccountBalance{
		{ID: "b1", AccountID: "open", Value: decimal.NewFromInt(2500), AsOf: rollupNow},
		{ID: "b2", AccountID: "excluded", Value: decimal.NewFromInt(1000), AsOf: rollupNow},
	}
	book := NewBook(accounts, nil, accountBalances, nil, nil, nil)

	open := Rollup(book, ScopeOpen)
	all := Rollup(book, ScopeAll)
	closed := Rollup(book, ScopeClosed)

	assertDecimal(t, 2500, open.TotalsByCategory[domain.CategoryCash])
	assertDecimal(t, 3500, all.TotalsByCategory[domain.CategoryCash])
	assertDecimal(t, 0, closed.TotalsByCategory[domain.CategoryCash])
}

func TestAccountValue_AutoCalculatedSumsHistoryIgnoringExcluded(t *testing.T) {
	flagged := rollupNow.AddDate(0, -1, 0)
	account := &domain.Account{ID: "maple", Category: domain.CategoryCash, AutoCalculatedAt: &flagged}

	excludedAt := rollupNow
	txns := []*domain.Transaction{
		{ID: "t1", AccountID: "maple", Date: rollupNow.AddDate(0, -2, 0), Value: decimal.NewFromInt(2000)},
		{ID: "t2", AccountID: "maple", Date: rollupNow, Value: decimal.NewFromInt(-500)},
		// excluded transactions never contribute, regardless of whether
		// they predate or postdate the autoCalculated timestamp
		{ID: "t3", AccountID: "maple", Date: rollupNow, Value: decimal.NewFromInt(1234), ExcludedAt: &excludedAt},
		{ID: "t4", AccountID: "maple", Date: rollupNow.AddDate(0, -3, 0), Value: decimal.NewFromInt(999), ExcludedAt: &excludedAt},
	}

	book := NewBook([]*domain.Account{account}, nil, nil, nil, txns, nil)

	assertDecimal(t, 1500, AccountValue(book, account))
}

func TestAccountValue_PendingTreatedLikeExcluded(t *testing.T) {
	account := &domain.Account{ID: "a", Category: domain.CategoryCash}
	pendingAt := rollupNow
	txns := []*domain.Transaction{
		{ID: "t1", AccountID: "a", Date: rollupNow, Value: decimal.NewFromInt(300)},
		{ID: "t2", AccountID: "a", Date: rollupNow, Value: decimal.NewFromInt(50), PendingAt: &pendingAt},
	}

	// no snapshots, so the mode is inferred as transaction-sum
	book := NewBook([]*domain.Account{account}, nil, nil, nil, txns, nil)

	assertDecimal(t, 300, AccountValue(book, account))
}

func TestAccountValue_SnapshotModeUsesLatestSnapshot(t *testing.T) {
	account := &domain.Account{ID: "a", Category: domain.CategoryCash}
	accountBalances := []*domain.AccountBalance{
		{ID: "b1", AccountID: "a", Value: decimal.NewFromInt(100), AsOf: rollupNow.AddDate(0, 0, -2)},
		{ID: "b2", AccountID: "a", Value: decimal.NewFromInt(250), AsOf: rollupNow},
	}
	txns := []*domain.Transaction{
		// a snapshot history plus transactions stays in snapshot mode
		{ID: "t1", AccountID: "a", Date: rollupNow, Value: decimal.NewFromInt(9999)},
	}

	book := NewBook([]*domain.Account{account}, nil, accountBalances, nil, txns, nil)

	assertDecimal(t, 250, AccountValue(book, account))
}

func TestRollup_BreaksDownByBalanceTypeName(t *testing.T) {
	flagged := rollupNow
	types := []*domain.BalanceType{
		{ID: "bt-checking", Name: "Checking"},
		{ID: "bt-savings", Name: "Savings"},
	}
	accounts := []*domain.Account{
		{ID: "maple", Category: domain.CategoryCash, BalanceTypeID: "bt-checking", AutoCalculatedAt: &flagged},
		{ID: "willow", Category: domain.CategoryCash, BalanceTypeID: "bt-savings"},
	}
	accountBalances := []*domain.AccountBalance{
		{ID: "b1", AccountID: "willow", Value: decimal.NewFromInt(500), AsOf: rollupNow},
	}
	txns := []*domain.Transaction{
		{ID: "t1", AccountID: "maple", Date: rollupNow, Value: decimal.NewFromInt(1500)},
	}

	sheet := Rollup(NewBook(accounts, nil, accountBalances, nil, txns, types), ScopeOpen)

	assertDecimal(t, 2000, sheet.TotalsByCategory[domain.CategoryCash])
	assertDecimal(t, 1500, sheet.ByType[domain.CategoryCash]["Checking"])
	assertDecimal(t, 500, sheet.ByType[domain.CategoryCash]["Savings"])
}

func TestNewBook_DropsOrphanedRecords(t *testing.T) {
	accounts := []*domain.Account{{ID: "a", Category: domain.CategoryCash}}
	accountBalances := []*domain.AccountBalance{
		{ID: "b1", AccountID: "a", Value: decimal.NewFromInt(100), AsOf: rollupNow},
		{ID: "b2", AccountID: "deleted", Value: decimal.NewFromInt(9999), AsOf: rollupNow},
	}
	txns := []*domain.Transaction{
		{ID: "t1", AccountID: "deleted", Date: rollupNow, Value: decimal.NewFromInt(9999)},
	}

	book := NewBook(accounts, nil, accountBalances, nil, txns, nil)

	assert.Equal(t, 2, book.OrphanedRecords)
	sheet := Rollup(book, ScopeOpen)
	assertDecimal(t, 100, sheet.NetWorth)
}
