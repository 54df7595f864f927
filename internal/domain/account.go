package domain

import (
	"errors"
	"time"
)

// Account represents a tracked financial account (bank account, credit card,
// brokerage account, ...). The soft flags are nullable timestamps: presence
// means the flag is set, the value records when it was set.
type Account struct {
	ID            string
	Name          string
	Category      Category
	BalanceTypeID string

	ClosedAt         *time.Time
	ExcludedAt       *time.Time
	AutoCalculatedAt *time.Time
}

// IsClosed reports whether the account has been closed by the user.
func (a *Account) IsClosed() bool { return a.ClosedAt != nil }

// IsExcluded reports whether the account is excluded from rollups.
func (a *Account) IsExcluded() bool { return a.ExcludedAt != nil }

// HasAutoCalculatedFlag reports whether the explicit auto-calculation flag is
// set. The timestamp itself is never used as a cutoff, only its presence.
func (a *Account) HasAutoCalculatedFlag() bool { return a.AutoCalculatedAt != nil }

// Validate ensures the account adheres to domain rules
func (a *Account) Validate() error {
	if a.Name == "" {
		return errors.New("account name cannot be empty")
	}
	switch a.Category {
	case CategoryCash, CategoryDebt, CategoryInvestment, CategoryOther:
	default:
		return errors.New("account category must be CASH, DEBT, INVESTMENT or OTHER")
	}
	return nil
}
