package performance

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/ledgerline-backend/internal/domain"
	"github.com/ledgerline/ledgerline-backend/internal/usecase/balance"
)

var ref = time.Date(2025, time.August, 29, 12, 0, 0, 0, time.UTC)

func snapshot(id, accountID string, asOf time.Time, value int64) *domain.AccountBalance {
	return &domain.AccountBalance{ID: id, AccountID: accountID, Value: decimal.NewFromInt(value), AsOf: asOf}
}

func TestCompute_AnchorsAgainstSnapshotHistory(t *testing.T) {
	account := &domain.Account{ID: "a", Category: domain.CategoryCash}
	history := []*domain.AccountBalance{
		snapshot("b1", "a", time.Date(2020, time.January, 15, 0, 0, 0, 0, time.UTC), 1000),
		snapshot("b2", "a", time.Date(2020, time.June, 1, 0, 0, 0, 0, time.UTC), 2000),
		snapshot("b3", "a", time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC), 3000),
		snapshot("b4", "a", time.Date(2024, time.December, 15, 0, 0, 0, 0, time.UTC), 4000),
		snapshot("b5", "a", time.Date(2025, time.February, 10, 0, 0, 0, 0, time.UTC), 5000),
		snapshot("b6", "a", time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC), 6000),
		snapshot("b7", "a", time.Date(2025, time.August, 10, 0, 0, 0, 0, time.UTC), 7000),
		snapshot("b8", "a", time.Date(2025, time.August, 28, 0, 0, 0, 0, time.UTC), 8000),
	}
	book := balance.NewBook([]*domain.Account{account}, nil, history, nil, nil, nil)

	table := Compute(book, ref)

	row := table.ByCategory[domain.CategoryCash]
	assert.True(t, row.Current.Equal(decimal.NewFromInt(8000)))

	expected := map[Anchor]string{
		AnchorOneWeek:   "+14.3%",
		AnchorOneMonth:  "+33.3%",
		AnchorSixMonths: "+60%",
		AnchorYearStart: "+100%",
		AnchorOneYear:   "+166.7%",
		AnchorFiveYears: "+300%",
		AnchorEarliest:  "+700%",
	}
	for anchor, want := range expected {
		assert.Equal(t, want, FormatPercent(row.Cells[anchor]), anchor)
	}
	// a single cash account: net worth mirrors the category row
	for anchor, want := range expected {
		assert.Equal(t, want, FormatPercent(table.NetWorth.Cells[anchor]), anchor)
	}
}

func TestCompute_AnchorDayIsInclusive(t *testing.T) {
	// a snapshot taken late on the anchor's calendar day still counts as
	// the baseline for that anchor
	account := &domain.Account{ID: "a", Category: domain.CategoryCash}
	anchorDay := ref.AddDate(0, 0, -7)
	history := []*domain.AccountBalance{
		snapshot("b1", "a", time.Date(anchorDay.Year(), anchorDay.Month(), anchorDay.Day(), 23, 0, 0, 0, time.UTC), 4000),
		snapshot("b2", "a", ref.AddDate(0, 0, -1), 5000),
	}
	book := balance.NewBook([]*domain.Account{account}, nil, history, nil, nil, nil)

	table := Compute(book, ref)

	assert.Equal(t, "+25%", FormatPercent(table.ByCategory[domain.CategoryCash].Cells[AnchorOneWeek]))
}

func TestCompute_DebtUsesAbsoluteDenominator(t *testing.T) {
	// a shrinking debt is an improvement and must read as a positive change
	account := &domain.Account{ID: "card", Category: domain.CategoryDebt}
	history := []*domain.AccountBalance{
		snapshot("b1", "card", ref.AddDate(0, 0, -40), -3100),
		snapshot("b2", "card", ref.AddDate(0, 0, -1), -3000),
	}
	book := balance.NewBook([]*domain.Account{account}, nil, history, nil, nil, nil)

	table := Compute(book, ref)

	cell := table.ByCategory[domain.CategoryDebt].Cells[AnchorOneMonth]
	require.True(t, cell.Applicable)
	assert.Equal(t, "+3.2%", FormatPercent(cell))
}

func TestCompute_ZeroBaselines(t *testing.T) {
	account := &domain.Account{ID: "a", Category: domain.CategoryCash}
	history := []*domain.AccountBalance{
		// the only snapshot is recent, so every anchor before it sees 0
		snapshot("b1", "a", ref.AddDate(0, 0, -1), 500),
	}
	book := balance.NewBook([]*domain.Account{account}, nil, history, nil, nil, nil)

	table := Compute(book, ref)

	cashCell := table.ByCategory[domain.CategoryCash].Cells[AnchorOneYear]
	assert.False(t, cashCell.Applicable)
	assert.Equal(t, "~", FormatPercent(cashCell))

	// a category with no entities at all is flat, not undefined
	debtCell := table.ByCategory[domain.CategoryDebt].Cells[AnchorOneYear]
	require.True(t, debtCell.Applicable)
	assert.Equal(t, "0%", FormatPercent(debtCell))
}

func TestCompute_EarliestAnchorUsesOldestSnapshot(t *testing.T) {
	flagged := ref
	kept := &domain.Account{ID: "kept", Category: domain.CategoryCash}
	excluded := &domain.Account{ID: "noise", Category: domain.CategoryCash, ExcludedAt: &flagged}
	history := []*domain.AccountBalance{
		// the excluded account's older history must not move the earliest
		// anchor back
		snapshot("b1", "noise", ref.AddDate(-10, 0, 0), 1),
		snapshot("b2", "kept", ref.AddDate(-2, 0, 0), 1000),
		snapshot("b3", "kept", ref.AddDate(0, 0, -1), 1500),
	}
	book := balance.NewBook([]*domain.Account{kept, excluded}, nil, history, nil, nil, nil)

	table := Compute(book, ref)

	assert.Equal(t, "+50%", FormatPercent(table.ByCategory[domain.CategoryCash].Cells[AnchorEarliest]))
}

func TestCompute_NetWorthAggregatesCategories(t *testing.T) {
	cash := &domain.Account{ID: "cash", Category: domain.CategoryCash}
	card := &domain.Account{ID: "card", Category: domain.CategoryDebt}
	history := []*domain.AccountBalance{
		snapshot("b1", "cash", ref.AddDate(0, -2, 0), 4000),
		snapshot("b2", "cash", ref.AddDate(0, 0, -1), 5000),
		snapshot("b3", "card", ref.AddDate(0, -2, 0), -2000),
		snapshot("b4", "card", ref.AddDate(0, 0, -1), -2500),
	}
	book := balance.NewBook([]*domain.Account{cash, card}, nil, history, nil, nil, nil)

	table := Compute(book, ref)

	// 2500 now against 2000 a month ago
	assert.True(t, table.NetWorth.Current.Equal(decimal.NewFromInt(2500)))
	assert.Equal(t, "+25%", FormatPercent(table.NetWorth.Cells[AnchorOneMonth]))
}

func TestCompute_AssetsUseMarketValueHistory(t *testing.T) {
	asset := &domain.Asset{ID: "fund", Category: domain.CategoryInvestment, Type: domain.AssetTypeShares}
	history := []*domain.AssetBalance{
		{
			ID: "b1", AssetID: "fund", AsOf: ref.AddDate(0, -2, 0),
			Detail: domain.DetailedBalance{BookValue: decimal.NewFromInt(4000), MarketValue: decimal.NewFromInt(4000)},
		},
		{
			ID: "b2", AssetID: "fund", AsOf: ref.AddDate(0, 0, -1),
			Detail: domain.DetailedBalance{BookValue: decimal.NewFromInt(4000), MarketValue: decimal.NewFromInt(4400)},
		},
	}
	book := balance.NewBook(nil, []*domain.Asset{asset}, nil, history, nil, nil)

	table := Compute(book, ref)

	row := table.ByCategory[domain.CategoryInvestment]
	assert.True(t, row.Current.Equal(decimal.NewFromInt(4400)))
	assert.Equal(t, "+10%", FormatPercent(row.Cells[AnchorOneMonth]))
}

func TestCompute_AutoCalculatedCurrentUsesTransactionSum(t *testing.T) {
	flagged := ref
	account := &domain.Account{ID: "wallet", Category: domain.CategoryCash, AutoCalculatedAt: &flagged}
	txns := []*domain.Transaction{
		{ID: "t1", AccountID: "wallet", Date: ref.AddDate(0, -3, 0), Value: decimal.NewFromInt(900)},
		{ID: "t2", AccountID: "wallet", Date: ref.AddDate(0, 0, -1), Value: decimal.NewFromInt(-150)},
	}
	book := balance.NewBook([]*domain.Account{account}, nil, nil, nil, txns, nil)

	table := Compute(book, ref)

	assert.True(t, table.ByCategory[domain.CategoryCash].Current.Equal(decimal.NewFromInt(750)))
	// no snapshot history, so every anchor comparison is undefined
	assert.Equal(t, "~", FormatPercent(table.ByCategory[domain.CategoryCash].Cells[AnchorOneMonth]))
}
