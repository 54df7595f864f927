package memory

import (
	"context"

	"github.com/ledgerline/ledgerline-backend/internal/domain"
)

// Repository adapters over the shared Store. Each implements the matching
// domain interface; constructors mirror how a networked adapter would wrap a
// client connection.

// AccountRepository adapts the store to domain.AccountRepository.
type AccountRepository struct{ s *Store }

// NewAccountRepository creates an account repository over the store.
func NewAccountRepository(s *Store) *AccountRepository { return &AccountRepository{s: s} }

func (r *AccountRepository) List(ctx context.Context) ([]*domain.Account, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if r.s.readErr != nil {
		return nil, r.s.readErr
	}
	out := make([]*domain.Account, 0, len(r.s.accounts))
	for _, a := range r.s.accounts {
		out = append(out, a)
	}
	return out, nil
}

func (r *AccountRepository) Subscribe(handler func(domain.ChangeEvent[*domain.Account])) (domain.Unsubscribe, error) {
	r.s.subMu.Lock()
	defer r.s.subMu.Unlock()
	if r.s.subscribeErr != nil {
		return nil, r.s.subscribeErr
	}
	id := r.s.nextSub
	r.s.nextSub++
	r.s.accountSubs[id] = handler
	return func() {
		r.s.subMu.Lock()
		defer r.s.subMu.Unlock()
		delete(r.s.accountSubs, id)
	}, nil
}

// AssetRepository adapts the store to domain.AssetRepository.
type AssetRepository struct{ s *Store }

// NewAssetRepository creates an asset repository over the store.
func NewAssetRepository(s *Store) *AssetRepository { return &AssetRepository{s: s} }

func (r *AssetRepository) List(ctx context.Context) ([]*domain.Asset, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if r.s.readErr != nil {
		return nil, r.s.readErr
	}
	out := make([]*domain.Asset, 0, len(r.s.assets))
	for _, a := range r.s.assets {
		out = append(out, a)
	}
	return out, nil
}

func (r *AssetRepository) Subscribe(handler func(domain.ChangeEvent[*domain.Asset])) (domain.Unsubscribe, error) {
	r.s.subMu.Lock()
	defer r.s.subMu.Unlock()
	if r.s.subscribeErr != nil {
		return nil, r.s.subscribeErr
	}
	id := r.s.nextSub
	r.s.nextSub++
	r.s.assetSubs[id] = handler
	return func() {
		r.s.subMu.Lock()
		defer r.s.subMu.Unlock()
		delete(r.s.assetSubs, id)
	}, nil
}

// AccountBalanceRepository adapts the store to
// domain.AccountBalanceRepository.
type AccountBalanceRepository struct{ s *Store }

// NewAccountBalanceRepository creates an account-balance repository over the
// store.
func NewAccountBalanceRepository(s *Store) *AccountBalanceRepository {
	return &AccountBalanceRepository{s: s}
}

func (r *AccountBalanceRepository) List(ctx context.Context) ([]*domain.AccountBalance, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if r.s.readErr != nil {
		return nil, r.s.readErr
	}
	out := make([]*domain.AccountBalance, 0, len(r.s.accountBalances))
	for _, b := range r.s.accountBalances {
		out = append(out, b)
	}
	return out, nil
}

func (r *AccountBalanceRepository) ListByAccount(ctx context.Context, accountID string) ([]*domain.AccountBalance, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if r.s.readErr != nil {
		return nil, r.s.readErr
	}
	var out []*domain.AccountBalance
	for _, b := range r.s.accountBalances {
		if b.AccountID == accountID {
			out = append(out, b)
		}
	}
	return out, nil
}

// GetLatest scans for the newest snapshot by asOf desc, created desc, id
// desc. Returns nil when the account has no snapshots.
func (r *AccountBalanceRepository) GetLatest(ctx context.Context, accountID string) (*domain.AccountBalance, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if r.s.readErr != nil {
		return nil, r.s.readErr
	}
	var best *domain.AccountBalance
	for _, b := range r.s.accountBalances {
		if b.AccountID != accountID {
			continue
		}
		if best == nil || snapshotAfter(b.AsOf, b.Created, b.ID, best.AsOf, best.Created, best.ID) {
			best = b
		}
	}
	return best, nil
}

func (r *AccountBalanceRepository) Subscribe(handler func(domain.ChangeEvent[*domain.AccountBalance])) (domain.Unsubscribe, error) {
	r.s.subMu.Lock()
	defer r.s.subMu.Unlock()
	if r.s.subscribeErr != nil {
		return nil, r.s.subscribeErr
	}
	id := r.s.nextSub
	r.s.nextSub++
	r.s.accountBalanceSubs[id] = handler
	return func() {
		r.s.subMu.Lock()
		defer r.s.subMu.Unlock()
		delete(r.s.accountBalanceSubs, id)
	}, nil
}

// AssetBalanceRepository adapts the store to domain.AssetBalanceRepository.
type AssetBalanceRepository struct{ s *Store }

// NewAssetBalanceRepository creates an asset-balance repository over the
// store.
func NewAssetBalanceRepository(s *Store) *AssetBalanceRepository {
	return &AssetBalanceRepository{s: s}
}

func (r *AssetBalanceRepository) List(ctx context.Context) ([]*domain.AssetBalance, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if r.s.readErr != nil {
		return nil, r.s.readErr
	}
	out := make([]*domain.AssetBalance, 0, len(r.s.assetBalances))
	for _, b := range r.s.assetBalances {
		out = append(out, b)
	}
	return out, nil
}

func (r *AssetBalanceRepository) ListByAsset(ctx context.Context, assetID string) ([]*domain.AssetBalance, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if r.s.readErr != nil {
		return nil, r.s.readErr
	}
	var out []*domain.AssetBalance
	for _, b := range r.s.assetBalances {
		if b.AssetID == assetID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *AssetBalanceRepository) GetLatest(ctx context.Context, assetID string) (*domain.AssetBalance, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if r.s.readErr != nil {
		return nil, r.s.readErr
	}
	var best *domain.AssetBalance
	for _, b := range r.s.assetBalances {
		if b.AssetID != assetID {
			continue
		}
		if best == nil || snapshotAfter(b.AsOf, b.Created, b.ID, best.AsOf, best.Created, best.ID) {
			best = b
		}
	}
	return best, nil
}

func (r *AssetBalanceRepository) Subscribe(handler func(domain.ChangeEvent[*domain.AssetBalance])) (domain.Unsubscribe, error) {
	r.s.subMu.Lock()
	defer r.s.subMu.Unlock()
	if r.s.subscribeErr != nil {
		return nil, r.s.subscribeErr
	}
	id := r.s.nextSub
	r.s.nextSub++
	r.s.assetBalanceSubs[id] = handler
	return func() {
		r.s.subMu.Lock()
		defer r.s.subMu.Unlock()
		delete(r.s.assetBalanceSubs, id)
	}, nil
}

// TransactionRepository adapts the store to domain.TransactionRepository.
type TransactionRepository struct{ s *Store }

// NewTransactionRepository creates a transaction repository over the store.
func NewTransactionRepository(s *Store) *TransactionRepository {
	return &TransactionRepository{s: s}
}

func (r *TransactionRepository) List(ctx context.Context) ([]*domain.Transaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if r.s.readErr != nil {
		return nil, r.s.readErr
	}
	out := make([]*domain.Transaction, 0, len(r.s.transactions))
	for _, t := range r.s.transactions {
		out = append(out, t)
	}
	return out, nil
}

func (r *TransactionRepository) ListByAccount(ctx context.Context, accountID string) ([]*domain.Transaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if r.s.readErr != nil {
		return nil, r.s.readErr
	}
	var out []*domain.Transaction
	for _, t := range r.s.transactions {
		if t.AccountID == accountID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *TransactionRepository) Subscribe(handler func(domain.ChangeEvent[*domain.Transaction])) (domain.Unsubscribe, error) {
	r.s.subMu.Lock()
	defer r.s.subMu.Unlock()
	if r.s.subscribeErr != nil {
		return nil, r.s.subscribeErr
	}
	id := r.s.nextSub
	r.s.nextSub++
	r.s.transactionSubs[id] = handler
	return func() {
		r.s.subMu.Lock()
		defer r.s.subMu.Unlock()
		delete(r.s.transactionSubs, id)
	}, nil
}

// BalanceTypeRepository adapts the store to domain.BalanceTypeRepository.
type BalanceTypeRepository struct{ s *Store }

// NewBalanceTypeRepository creates a balance-type repository over the store.
func NewBalanceTypeRepository(s *Store) *BalanceTypeRepository {
	return &BalanceTypeRepository{s: s}
}

func (r *BalanceTypeRepository) List(ctx context.Context) ([]*domain.BalanceType, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if r.s.readErr != nil {
		return nil, r.s.readErr
	}
	out := make([]*domain.BalanceType, 0, len(r.s.balanceTypes))
	for _, bt := range r.s.balanceTypes {
		out = append(out, bt)
	}
	return out, nil
}

func (r *BalanceTypeRepository) GetByID(ctx context.Context, id string) (*domain.BalanceType, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if r.s.readErr != nil {
		return nil, r.s.readErr
	}
	bt, ok := r.s.balanceTypes[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return bt, nil
}

func (r *BalanceTypeRepository) Subscribe(handler func(domain.ChangeEvent[*domain.BalanceType])) (domain.Unsubscribe, error) {
	r.s.subMu.Lock()
	defer r.s.subMu.Unlock()
	if r.s.subscribeErr != nil {
		return nil, r.s.subscribeErr
	}
	id := r.s.nextSub
	r.s.nextSub++
	r.s.balanceTypeSubs[id] = handler
	return func() {
		r.s.subMu.Lock()
		defer r.s.subMu.Unlock()
		delete(r.s.balanceTypeSubs, id)
	}, nil
}
