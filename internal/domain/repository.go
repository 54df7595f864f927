package domain

import "context"

// ChangeAction is the kind of mutation a change notification describes.
type ChangeAction string

const (
	ActionCreate ChangeAction = "create"
	ActionUpdate ChangeAction = "update"
	ActionDelete ChangeAction = "delete"
)

// ChangeEvent is a single create/update/delete notification from the record
// store. Delivery is at-least-once; ordering is only guaranteed per entity,
// never across different entities.
type ChangeEvent[R any] struct {
	Action ChangeAction
	Record R
}

// Unsubscribe tears down a change subscription.
type Unsubscribe func()

// AccountRepository defines read and subscription access to accounts
type AccountRepository interface {
	// List retrieves all accounts owned by the session user
	List(ctx context.Context) ([]*Account, error)

	// Subscribe registers a handler for account change notifications
	Subscribe(handler func(ChangeEvent[*Account])) (Unsubscribe, error)
}

// AssetRepository defines read and subscription access to assets
type AssetRepository interface {
	List(ctx context.Context) ([]*Asset, error)
	Subscribe(handler func(ChangeEvent[*Asset])) (Unsubscribe, error)
}

// AccountBalanceRepository defines read and subscription access to account
// balance snapshots
type AccountBalanceRepository interface {
	List(ctx context.Context) ([]*AccountBalance, error)

	// ListByAccount retrieves the full snapshot history of one account
	ListByAccount(ctx context.Context, accountID string) ([]*AccountBalance, error)

	// GetLatest retrieves the newest snapshot for an account using the
	// asOf desc, created desc, id desc order. Returns nil when the account
	// has no snapshots.
	GetLatest(ctx context.Context, accountID string) (*AccountBalance, error)

	Subscribe(handler func(ChangeEvent[*AccountBalance])) (Unsubscribe, error)
}

// AssetBalanceRepository defines read and subscription access to asset
// balance snapshots
type AssetBalanceRepository interface {
	List(ctx context.Context) ([]*AssetBalance, error)
	ListByAsset(ctx context.Context, assetID string) ([]*AssetBalance, error)
	GetLatest(ctx context.Context, assetID string) (*AssetBalance, error)
	Subscribe(handler func(ChangeEvent[*AssetBalance])) (Unsubscribe, error)
}

// TransactionRepository defines read and subscription access to transactions
type TransactionRepository interface {
	List(ctx context.Context) ([]*Transaction, error)
	ListByAccount(ctx context.Context, accountID string) ([]*Transaction, error)
	Subscribe(handler func(ChangeEvent[*Transaction])) (Unsubscribe, error)
}

// BalanceTypeRepository defines read and subscription access to balance types
type BalanceTypeRepository interface {
	List(ctx context.Context) ([]*BalanceType, error)
	GetByID(ctx context.Context, id string) (*BalanceType, error)
	Subscribe(handler func(ChangeEvent[*BalanceType])) (Unsubscribe, error)
}
