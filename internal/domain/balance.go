package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// AccountBalance is a point-in-time snapshot of an account's value. Snapshots
// are immutable in the normal flow: a value change is a new snapshot, never an
// in-place edit.
type AccountBalance struct {
	ID        string
	AccountID string
	Value     decimal.Decimal
	AsOf      time.Time // the point in time the value represents
	Created   time.Time // insertion time, used as a selection tie-break
}

// AssetBalance is a point-in-time snapshot of an asset's value. The store
// serves two snapshot shapes, resolved once at read time into Detail: a plain
// value, or a book/market pair with optional share data.
type AssetBalance struct {
	ID      string
	AssetID string
	AsOf    time.Time
	Created time.Time
	Detail  BalanceDetail
}

// CurrentValue returns the snapshot's authoritative value, or zero when the
// detail payload is missing.
func (b *AssetBalance) CurrentValue() decimal.Decimal {
	if b.Detail == nil {
		return decimal.Zero
	}
	return b.Detail.CurrentValue()
}

// BalanceDetail is the value payload of an asset snapshot.
type BalanceDetail interface {
	CurrentValue() decimal.Decimal
}

// SimpleBalance is the single-value snapshot shape.
type SimpleBalance struct {
	Value decimal.Decimal
}

// CurrentValue returns the plain snapshot value.
func (d SimpleBalance) CurrentValue() decimal.Decimal { return d.Value }

// DetailedBalance is the book/market snapshot shape. Quantity and the prices
// are only present for SHARES assets.
type DetailedBalance struct {
	BookValue   decimal.Decimal
	MarketValue decimal.Decimal
	Quantity    *decimal.Decimal
	BookPrice   *decimal.Decimal
	MarketPrice *decimal.Decimal
}

// CurrentValue returns the market value, which takes precedence over the book
// value when both shapes are available.
func (d DetailedBalance) CurrentValue() decimal.Decimal { return d.MarketValue }

// Validate ensures the derived values agree with the share data when present:
// marketValue must equal quantity x marketPrice, bookValue quantity x bookPrice.
func (d DetailedBalance) Validate() error {
	if d.Quantity != nil && d.MarketPrice != nil {
		if !d.MarketValue.Equal(d.Quantity.Mul(*d.MarketPrice)) {
			return errors.New("market value must equal quantity times market price")
		}
	}
	if d.Quantity != nil && d.BookPrice != nil {
		if !d.BookValue.Equal(d.Quantity.Mul(*d.BookPrice)) {
			return errors.New("book value must equal quantity times book price")
		}
	}
	return nil
}
