package domain

import (
	"errors"
	"time"
)

// AssetType discriminates how an asset's value is tracked
type AssetType string

const (
	// AssetTypeWhole tracks the asset by book/market value directly
	AssetTypeWhole AssetType = "WHOLE"
	// AssetTypeShares tracks the asset by quantity times book/market price
	AssetTypeShares AssetType = "SHARES"
)

// Asset represents a tracked non-account holding (property, vehicle,
// collectible, security position, ...).
type Asset struct {
	ID            string
	Name          string
	Symbol        string
	Category      Category
	BalanceTypeID string
	Type          AssetType

	SoldAt     *time.Time
	ExcludedAt *time.Time
}

// IsSold reports whether the asset has been sold.
func (a *Asset) IsSold() bool { return a.SoldAt != nil }

// IsExcluded reports whether the asset is excluded from rollups.
func (a *Asset) IsExcluded() bool { return a.ExcludedAt != nil }

// Validate ensures the asset adheres to domain rules
func (a *Asset) Validate() error {
	if a.Name == "" {
		return errors.New("asset name cannot be empty")
	}
	switch a.Category {
	case CategoryCash, CategoryDebt, CategoryInvestment, CategoryOther:
	default:
		return errors.New("asset category must be CASH, DEBT, INVESTMENT or OTHER")
	}
	if a.Type != AssetTypeWhole && a.Type != AssetTypeShares {
		return errors.New("asset type must be WHOLE or SHARES")
	}
	return nil
}
