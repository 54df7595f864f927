package balance

import (
	"github.com/shopspring/decimal"

	"github.com/ledgerline/ledgerline-backend/internal/domain"
)

// Scope selects which entities a rollup covers. The balance-sheet tabs each
// map to one scope, so the aggregate row semantics are an explicit caller
// decision instead of an implicit display rule.
type Scope string

const (
	// ScopeOpen covers active entities only: no closed or excluded
	// accounts, no sold or excluded assets. Net worth always uses this.
	ScopeOpen Scope = "open"
	// ScopeAll covers every entity, including closed, sold and excluded.
	ScopeAll Scope = "all"
	// ScopeClosed covers closed accounts and sold assets only.
	ScopeClosed Scope = "closed"
)

// BalanceSheet is the aggregated result of one rollup pass.
type BalanceSheet struct {
	TotalsByCategory map[domain.Category]decimal.Decimal

	// ByType breaks each category total down by balance-type name for
	// drill-down display, e.g. CASH -> {"Checking": 1500, "Savings": 500}.
	ByType map[domain.Category]map[string]decimal.Decimal

	// NetWorth is the sum of all four category totals. Debt totals are
	// negative by convention, so they net out naturally.
	NetWorth decimal.Decimal
}

func accountInScope(a *domain.Account, scope Scope) bool {
	switch scope {
	case ScopeAll:
		return true
	case ScopeClosed:
		return a.IsClosed()
	default:
		return !a.IsClosed() && !a.IsExcluded()
	}
}

func assetInScope(a *domain.Asset, scope Scope) bool {
	switch scope {
	case ScopeAll:
		return true
	case ScopeClosed:
		return a.IsSold()
	default:
		return !a.IsSold() && !a.IsExcluded()
	}
}

// AccountValue computes one account's current value: the transaction sum when
// the resolved mode is auto-calculated, otherwise the latest snapshot value
// (0 when no snapshot exists). Transaction sums cover the full non-excluded,
// non-pending history with no date cutoff.
func AccountValue(book *Book, account *domain.Account) decimal.Decimal {
	snapshots := book.AccountBalances[account.ID]
	txns := book.Transactions[account.ID]

	mode := ResolveMode(account, book.TypeName(account.BalanceTypeID), len(snapshots), len(txns))
	if mode == ModeTransactionSum {
		sum := decimal.Zero
		for _, t := range txns {
			if !t.CountsTowardSums() {
				continue
			}
			sum = sum.Add(t.Value)
		}
		return sum
	}

	if latest := LatestAccountBalance(snapshots); latest != nil {
		return latest.Value
	}
	return decimal.Zero
}

// AssetValue computes one asset's current value from its latest snapshot:
// market value when the detailed shape is present, the plain value otherwise.
func AssetValue(book *Book, asset *domain.Asset) decimal.Decimal {
	if latest := LatestAssetBalance(book.AssetBalances[asset.ID]); latest != nil {
		return latest.CurrentValue()
	}
	return decimal.Zero
}

// Rollup accumulates per-category totals, per-balance-type breakdowns and net
// worth over every in-scope entity.
func Rollup(book *Book, scope Scope) *BalanceSheet {
	sheet := &BalanceSheet{
		TotalsByCategory: make(map[domain.Category]decimal.Decimal, 4),
		ByType:           make(map[domain.Category]map[string]decimal.Decimal, 4),
		NetWorth:         decimal.Zero,
	}
	for _, c := range domain.Categories() {
		sheet.TotalsByCategory[c] = decimal.Zero
		sheet.ByType[c] = make(map[string]decimal.Decimal)
	}

	add := func(category domain.Category, typeName string, value decimal.Decimal) {
		sheet.TotalsByCategory[category] = sheet.TotalsByCategory[category].Add(value)
		sheet.ByType[category][typeName] = sheet.ByType[category][typeName].Add(value)
	}

	for _, asset := range book.Assets {
		if !assetInScope(asset, scope) {
			continue
		}
		add(asset.Category, book.TypeName(asset.BalanceTypeID), AssetValue(book, asset))
	}
	for _, account := range book.Accounts {
		if !accountInScope(account, scope) {
			continue
		}
		add(account.Category, book.TypeName(account.BalanceTypeID), AccountValue(book, account))
	}

	for _, c := range domain.Categories() {
		sheet.NetWorth = sheet.NetWorth.Add(sheet.TotalsByCategory[c])
	}
	return sheet
}
