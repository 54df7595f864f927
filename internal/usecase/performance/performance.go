// Package performance computes historical value changes per category and in
// aggregate, comparing current totals against fixed anchor points in the
// past.
package performance

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerline/ledgerline-backend/internal/domain"
	"github.com/ledgerline/ledgerline-backend/internal/usecase/balance"
	"github.com/ledgerline/ledgerline-backend/internal/usecase/period"
)

// Anchor is a fixed historical baseline for a percentage calculation.
type Anchor string

const (
	AnchorOneWeek   Anchor = "1w"
	AnchorOneMonth  Anchor = "1m"
	AnchorSixMonths Anchor = "6m"
	AnchorYearStart Anchor = "ytd"
	AnchorOneYear   Anchor = "1y"
	AnchorFiveYears Anchor = "5y"
	AnchorEarliest  Anchor = "max"
)

// Anchors returns all anchor points in display order.
func Anchors() []Anchor {
	return []Anchor{
		AnchorOneWeek, AnchorOneMonth, AnchorSixMonths, AnchorYearStart,
		AnchorOneYear, AnchorFiveYears, AnchorEarliest,
	}
}

// Cell is one percentage result. Applicable is false when the anchor total is
// zero while the current total is not: the change is undefined and must never
// be rendered as a division by zero.
type Cell struct {
	Percent    decimal.Decimal
	Applicable bool
}

// Row is the performance of one category (or of net worth) across all
// anchors.
type Row struct {
	Current decimal.Decimal
	Cells   map[Anchor]Cell
}

// Table is the full performance breakdown.
type Table struct {
	ByCategory map[domain.Category]Row
	NetWorth   Row
}

// anchorInstant places an anchor on the timeline relative to ref. The
// earliest anchor is data-driven and handled separately.
func anchorInstant(a Anchor, ref time.Time) time.Time {
	switch a {
	case AnchorOneWeek:
		return ref.AddDate(0, 0, -7)
	case AnchorOneMonth:
		return ref.AddDate(0, -1, 0)
	case AnchorSixMonths:
		return ref.AddDate(0, -6, 0)
	case AnchorYearStart:
		return period.YearStart(ref)
	case AnchorOneYear:
		return ref.AddDate(-1, 0, 0)
	case AnchorFiveYears:
		return ref.AddDate(-5, 0, 0)
	default:
		return ref
	}
}

// earliestAsOf finds the oldest snapshot date across the included entities'
// histories. Returns ref when no snapshot exists at all.
func earliestAsOf(book *balance.Book, ref time.Time) time.Time {
	earliest := time.Time{}
	consider := func(asOf time.Time) {
		if earliest.IsZero() || asOf.Before(earliest) {
			earliest = asOf
		}
	}
	for _, account := range book.Accounts {
		if account.IsClosed() || account.IsExcluded() {
			continue
		}
		for _, b := range book.AccountBalances[account.ID] {
			consider(b.AsOf)
		}
	}
	for _, asset := range book.Assets {
		if asset.IsSold() || asset.IsExcluded() {
			continue
		}
		for _, b := range book.AssetBalances[asset.ID] {
			consider(b.AsOf)
		}
	}
	if earliest.IsZero() {
		return ref
	}
	return earliest
}

// accountValueAt returns the account's value at the latest snapshot dated
// at-or-before the cutoff, 0 when none qualifies.
func accountValueAt(book *balance.Book, accountID string, cutoff time.Time) decimal.Decimal {
	var qualifying []*domain.AccountBalance
	for _, b := range book.AccountBalances[accountID] {
		if !b.AsOf.After(cutoff) {
			qualifying = append(qualifying, b)
		}
	}
	if latest := balance.LatestAccountBalance(qualifying); latest != nil {
		return latest.Value
	}
	return decimal.Zero
}

func assetValueAt(book *balance.Book, assetID string, cutoff time.Time) decimal.Decimal {
	var qualifying []*domain.AssetBalance
	for _, b := range book.AssetBalances[assetID] {
		if !b.AsOf.After(cutoff) {
			qualifying = append(qualifying, b)
		}
	}
	if latest := balance.LatestAssetBalance(qualifying); latest != nil {
		return latest.CurrentValue()
	}
	return decimal.Zero
}

func percentChange(current, anchor decimal.Decimal) Cell {
	if anchor.IsZero() {
		if current.IsZero() {
			return Cell{Percent: decimal.Zero, Applicable: true}
		}
		return Cell{Percent: decimal.Zero, Applicable: false}
	}
	pct := current.Sub(anchor).Div(anchor.Abs()).Mul(decimal.NewFromInt(100))
	return Cell{Percent: pct, Applicable: true}
}

// Compute builds the performance table against the reference instant. Current
// totals reuse the rollup's per-entity value logic, so the trends figures and
// the balance sheet always agree. A snapshot dated anywhere on an anchor's
// UTC calendar day counts as at-or-before that anchor.
func Compute(book *balance.Book, ref time.Time) *Table {
	table := &Table{ByCategory: make(map[domain.Category]Row, 4)}

	current := make(map[domain.Category]decimal.Decimal, 4)
	anchorTotals := make(map[Anchor]map[domain.Category]decimal.Decimal, len(Anchors()))
	for _, c := range domain.Categories() {
		current[c] = decimal.Zero
	}
	for _, a := range Anchors() {
		anchorTotals[a] = make(map[domain.Category]decimal.Decimal, 4)
		for _, c := range domain.Categories() {
			anchorTotals[a][c] = decimal.Zero
		}
	}

	cutoffs := make(map[Anchor]time.Time, len(Anchors()))
	for _, a := range Anchors() {
		instant := anchorInstant(a, ref)
		if a == AnchorEarliest {
			instant = earliestAsOf(book, ref)
		}
		cutoffs[a] = period.EndOfDay(instant)
	}

	for _, account := range book.Accounts {
		if account.IsClosed() || account.IsExcluded() {
			continue
		}
		current[account.Category] = current[account.Category].Add(balance.AccountValue(book, account))
		for _, a := range Anchors() {
			v := accountValueAt(book, account.ID, cutoffs[a])
			anchorTotals[a][account.Category] = anchorTotals[a][account.Category].Add(v)
		}
	}
	for _, asset := range book.Assets {
		if asset.IsSold() || asset.IsExcluded() {
			continue
		}
		current[asset.Category] = current[asset.Category].Add(balance.AssetValue(book, asset))
		for _, a := range Anchors() {
			v := assetValueAt(book, asset.ID, cutoffs[a])
			anchorTotals[a][asset.Category] = anchorTotals[a][asset.Category].Add(v)
		}
	}

	netCurrent := decimal.Zero
	netAnchors := make(map[Anchor]decimal.Decimal, len(Anchors()))
	for _, a := range Anchors() {
		netAnchors[a] = decimal.Zero
	}

	for _, c := range domain.Categories() {
		row := Row{Current: current[c], Cells: make(map[Anchor]Cell, len(Anchors()))}
		for _, a := range Anchors() {
			row.Cells[a] = percentChange(current[c], anchorTotals[a][c])
			netAnchors[a] = netAnchors[a].Add(anchorTotals[a][c])
		}
		table.ByCategory[c] = row
		netCurrent = netCurrent.Add(current[c])
	}

	net := Row{Current: netCurrent, Cells: make(map[Anchor]Cell, len(Anchors()))}
	for _, a := range Anchors() {
		net.Cells[a] = percentChange(netCurrent, netAnchors[a])
	}
	table.NetWorth = net

	return table
}
