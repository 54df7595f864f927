// Package memory is an in-process record store: mutex-guarded maps per
// collection with change-notification fan-out to subscribers. It backs the
// demo binary and the session tests; a networked store implements the same
// domain interfaces.
package memory

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerline/ledgerline-backend/internal/domain"
)

// Store holds every collection for a single user.
type Store struct {
	mu sync.RWMutex

	accounts        map[string]*domain.Account
	assets          map[string]*domain.Asset
	accountBalances map[string]*domain.AccountBalance
	assetBalances   map[string]*domain.AssetBalance
	transactions    map[string]*domain.Transaction
	balanceTypes    map[string]*domain.BalanceType

	subMu              sync.RWMutex
	nextSub            int
	accountSubs        map[int]func(domain.ChangeEvent[*domain.Account])
	assetSubs          map[int]func(domain.ChangeEvent[*domain.Asset])
	accountBalanceSubs map[int]func(domain.ChangeEvent[*domain.AccountBalance])
	assetBalanceSubs   map[int]func(domain.ChangeEvent[*domain.AssetBalance])
	transactionSubs    map[int]func(domain.ChangeEvent[*domain.Transaction])
	balanceTypeSubs    map[int]func(domain.ChangeEvent[*domain.BalanceType])

	readErr      error
	subscribeErr error

	now func() time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		accounts:           make(map[string]*domain.Account),
		assets:             make(map[string]*domain.Asset),
		accountBalances:    make(map[string]*domain.AccountBalance),
		assetBalances:      make(map[string]*domain.AssetBalance),
		transactions:       make(map[string]*domain.Transaction),
		balanceTypes:       make(map[string]*domain.BalanceType),
		accountSubs:        make(map[int]func(domain.ChangeEvent[*domain.Account])),
		assetSubs:          make(map[int]func(domain.ChangeEvent[*domain.Asset])),
		accountBalanceSubs: make(map[int]func(domain.ChangeEvent[*domain.AccountBalance])),
		assetBalanceSubs:   make(map[int]func(domain.ChangeEvent[*domain.AssetBalance])),
		transactionSubs:    make(map[int]func(domain.ChangeEvent[*domain.Transaction])),
		balanceTypeSubs:    make(map[int]func(domain.ChangeEvent[*domain.BalanceType])),
		now:                time.Now,
	}
}

// SetReadError makes every subsequent list call fail with err, for driving
// the degraded paths in tests. Pass nil to recover.
func (s *Store) SetReadError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readErr = err
}

// SetSubscribeError makes every subsequent subscribe call fail with err.
func (s *Store) SetSubscribeError(err error) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.subscribeErr = err
}

func newID() string { return uuid.NewString() }

// snapshotAfter reports whether snapshot (aAsOf, aCreated, aID) sorts after
// (bAsOf, bCreated, bID) under the selection order: asOf descending, created
// descending, id descending.
func snapshotAfter(aAsOf, aCreated time.Time, aID string, bAsOf, bCreated time.Time, bID string) bool {
	if !aAsOf.Equal(bAsOf) {
		return aAsOf.After(bAsOf)
	}
	if !aCreated.Equal(bCreated) {
		return aCreated.After(bCreated)
	}
	return aID > bID
}

// CreateAccount inserts an account, assigning an id when missing.
func (s *Store) CreateAccount(a *domain.Account) *domain.Account {
	s.mu.Lock()
	if a.ID == "" {
		a.ID = newID()
	}
	s.accounts[a.ID] = a
	s.mu.Unlock()
	s.notifyAccount(domain.ChangeEvent[*domain.Account]{Action: domain.ActionCreate, Record: a})
	return a
}

// UpdateAccount replaces an account record.
func (s *Store) UpdateAccount(a *domain.Account) {
	s.mu.Lock()
	s.accounts[a.ID] = a
	s.mu.Unlock()
	s.notifyAccount(domain.ChangeEvent[*domain.Account]{Action: domain.ActionUpdate, Record: a})
}

// DeleteAccount removes an account and cascades to its snapshots and
// transactions, emitting a delete notification for every removed record.
func (s *Store) DeleteAccount(id string) {
	s.mu.Lock()
	account, ok := s.accounts[id]
	if !ok {
		s.mu.Unlock()
		return
	}
	delete(s.accounts, id)
	var balances []*domain.AccountBalance
	for bid, b := range s.accountBalances {
		if b.AccountID == id {
			delete(s.accountBalances, bid)
			balances = append(balances, b)
		}
	}
	var txns []*domain.Transaction
	for tid, t := range s.transactions {
		if t.AccountID == id {
			delete(s.transactions, tid)
			txns = append(txns, t)
		}
	}
	s.mu.Unlock()

	for _, b := range balances {
		s.notifyAccountBalance(domain.ChangeEvent[*domain.AccountBalance]{Action: domain.ActionDelete, Record: b})
	}
	for _, t := range txns {
		s.notifyTransaction(domain.ChangeEvent[*domain.Transaction]{Action: domain.ActionDelete, Record: t})
	}
	s.notifyAccount(domain.ChangeEvent[*domain.Account]{Action: domain.ActionDelete, Record: account})
}

// CreateAsset inserts an asset, assigning an id when missing.
func (s *Store) CreateAsset(a *domain.Asset) *domain.Asset {
	s.mu.Lock()
	if a.ID == "" {
		a.ID = newID()
	}
	s.assets[a.ID] = a
	s.mu.Unlock()
	s.notifyAsset(domain.ChangeEvent[*domain.Asset]{Action: domain.ActionCreate, Record: a})
	return a
}

// UpdateAsset replaces an asset record.
func (s *Store) UpdateAsset(a *domain.Asset) {
	s.mu.Lock()
	s.assets[a.ID] = a
	s.mu.Unlock()
	s.notifyAsset(domain.ChangeEvent[*domain.Asset]{Action: domain.ActionUpdate, Record: a})
}

// DeleteAsset removes an asset and cascades to its snapshots.
func (s *Store) DeleteAsset(id string) {
	s.mu.Lock()
	asset, ok := s.assets[id]
	if !ok {
		s.mu.Unlock()
		return
	}
	delete(s.assets, id)
	var balances []*domain.AssetBalance
	for bid, b := range s.assetBalances {
		if b.AssetID == id {
			delete(s.assetBalances, bid)
			balances = append(balances, b)
		}
	}
	s.mu.Unlock()

	for _, b := range balances {
		s.notifyAssetBalance(domain.ChangeEvent[*domain.AssetBalance]{Action: domain.ActionDelete, Record: b})
	}
	s.notifyAsset(domain.ChangeEvent[*domain.Asset]{Action: domain.ActionDelete, Record: asset})
}

// CreateAccountBalance inserts a snapshot, stamping id and created time.
func (s *Store) CreateAccountBalance(b *domain.AccountBalance) *domain.AccountBalance {
	s.mu.Lock()
	if b.ID == "" {
		b.ID = newID()
	}
	if b.Created.IsZero() {
		b.Created = s.now()
	}
	s.accountBalances[b.ID] = b
	s.mu.Unlock()
	s.notifyAccountBalance(domain.ChangeEvent[*domain.AccountBalance]{Action: domain.ActionCreate, Record: b})
	return b
}

// CreateAssetBalance inserts a snapshot, stamping id and created time.
func (s *Store) CreateAssetBalance(b *domain.AssetBalance) *domain.AssetBalance {
	s.mu.Lock()
	if b.ID == "" {
		b.ID = newID()
	}
	if b.Created.IsZero() {
		b.Created = s.now()
	}
	s.assetBalances[b.ID] = b
	s.mu.Unlock()
	s.notifyAssetBalance(domain.ChangeEvent[*domain.AssetBalance]{Action: domain.ActionCreate, Record: b})
	return b
}

// CreateTransaction inserts a transaction, assigning an id when missing.
func (s *Store) CreateTransaction(t *domain.Transaction) *domain.Transaction {
	s.mu.Lock()
	if t.ID == "" {
		t.ID = newID()
	}
	s.transactions[t.ID] = t
	s.mu.Unlock()
	s.notifyTransaction(domain.ChangeEvent[*domain.Transaction]{Action: domain.ActionCreate, Record: t})
	return t
}

// UpdateTransaction replaces a transaction record.
func (s *Store) UpdateTransaction(t *domain.Transaction) {
	s.mu.Lock()
	s.transactions[t.ID] = t
	s.mu.Unlock()
	s.notifyTransaction(domain.ChangeEvent[*domain.Transaction]{Action: domain.ActionUpdate, Record: t})
}

// DeleteTransaction removes a transaction.
func (s *Store) DeleteTransaction(id string) {
	s.mu.Lock()
	t, ok := s.transactions[id]
	if !ok {
		s.mu.Unlock()
		return
	}
	delete(s.transactions, id)
	s.mu.Unlock()
	s.notifyTransaction(domain.ChangeEvent[*domain.Transaction]{Action: domain.ActionDelete, Record: t})
}

// EnsureBalanceType returns the owner's balance type with the given name,
// creating it when missing. Names are deduplicated per owner using the
// normalized comparison, so "Credit card" and "credit card" share a record.
func (s *Store) EnsureBalanceType(owner, name string) *domain.BalanceType {
	s.mu.Lock()
	normalized := domain.NormalizeTypeName(name)
	for _, bt := range s.balanceTypes {
		if bt.Owner == owner && domain.NormalizeTypeName(bt.Name) == normalized {
			s.mu.Unlock()
			return bt
		}
	}
	bt := &domain.BalanceType{ID: newID(), Owner: owner, Name: name}
	s.balanceTypes[bt.ID] = bt
	s.mu.Unlock()
	s.notifyBalanceType(domain.ChangeEvent[*domain.BalanceType]{Action: domain.ActionCreate, Record: bt})
	return bt
}

func (s *Store) notifyAccount(e domain.ChangeEvent[*domain.Account]) {
	s.subMu.RLock()
	handlers := make([]func(domain.ChangeEvent[*domain.Account]), 0, len(s.accountSubs))
	for _, h := range s.accountSubs {
		handlers = append(handlers, h)
	}
	s.subMu.RUnlock()
	for _, h := range handlers {
		h(e)
	}
}

func (s *Store) notifyAsset(e domain.ChangeEvent[*domain.Asset]) {
	s.subMu.RLock()
	handlers := make([]func(domain.ChangeEvent[*domain.Asset]), 0, len(s.assetSubs))
	for _, h := range s.assetSubs {
		handlers = append(handlers, h)
	}
	s.subMu.RUnlock()
	for _, h := range handlers {
		h(e)
	}
}

func (s *Store) notifyAccountBalance(e domain.ChangeEvent[*domain.AccountBalance]) {
	s.subMu.RLock()
	handlers := make([]func(domain.ChangeEvent[*domain.AccountBalance]), 0, len(s.accountBalanceSubs))
	for _, h := range s.accountBalanceSubs {
		handlers = append(handlers, h)
	}
	s.subMu.RUnlock()
	for _, h := range handlers {
		h(e)
	}
}

func (s *Store) notifyAssetBalance(e domain.ChangeEvent[*domain.AssetBalance]) {
	s.subMu.RLock()
	handlers := make([]func(domain.ChangeEvent[*domain.AssetBalance]), 0, len(s.assetBalanceSubs))
	for _, h := range s.assetBalanceSubs {
		handlers = append(handlers, h)
	}
	s.subMu.RUnlock()
	for _, h := range handlers {
		h(e)
	}
}

func (s *Store) notifyTransaction(e domain.ChangeEvent[*domain.Transaction]) {
	s.subMu.RLock()
	handlers := make([]func(domain.ChangeEvent[*domain.Transaction]), 0, len(s.transactionSubs))
	for _, h := range s.transactionSubs {
		handlers = append(handlers, h)
	}
	s.subMu.RUnlock()
	for _, h := range handlers {
		h(e)
	}
}

func (s *Store) notifyBalanceType(e domain.ChangeEvent[*domain.BalanceType]) {
	s.subMu.RLock()
	handlers := make([]func(domain.ChangeEvent[*domain.BalanceType]), 0, len(s.balanceTypeSubs))
	for _, h := range s.balanceTypeSubs {
		handlers = append(handlers, h)
	}
	s.subMu.RUnlock()
	for _, h := range handlers {
		h(e)
	}
}
