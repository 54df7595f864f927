package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction represents a single dated movement on an account. Positive
// values are credits (income), negative values debits (expenses); zero is
// allowed.
type Transaction struct {
	ID          string
	AccountID   string
	Date        time.Time
	Value       decimal.Decimal
	Description string
	LabelIDs    []string

	ExcludedAt *time.Time
	PendingAt  *time.Time
}

// IsExcluded reports whether the transaction is excluded from sums. Excluded
// transactions stay visible in listings.
func (t *Transaction) IsExcluded() bool { return t.ExcludedAt != nil }

// IsPending reports whether the transaction has not settled yet.
func (t *Transaction) IsPending() bool { return t.PendingAt != nil }

// CountsTowardSums reports whether the transaction contributes to balance and
// cash-flow sums. Pending transactions are skipped identically to excluded
// ones.
func (t *Transaction) CountsTowardSums() bool {
	return t.ExcludedAt == nil && t.PendingAt == nil
}

// SortForListing orders transactions for display: date descending, then value
// descending, then id ascending. This is intentionally not the snapshot
// selection order, which breaks id ties in the opposite direction.
func SortForListing(txns []*Transaction) {
	sort.SliceStable(txns, func(i, j int) bool {
		a, b := txns[i], txns[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		if !a.Value.Equal(b.Value) {
			return a.Value.GreaterThan(b.Value)
		}
		return a.ID < b.ID
	})
}
