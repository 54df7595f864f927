// Package session owns the in-memory record caches for one client session
// and keeps the derived aggregates (balance sheet, trailing cash flow,
// historical performance) live as change notifications arrive.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/ledgerline/ledgerline-backend/internal/domain"
	"github.com/ledgerline/ledgerline-backend/internal/usecase/balance"
	"github.com/ledgerline/ledgerline-backend/internal/usecase/cashflow"
	"github.com/ledgerline/ledgerline-backend/internal/usecase/performance"
	"github.com/ledgerline/ledgerline-backend/internal/usecase/period"
)

// Status is the session's health as seen by display layers.
type Status string

const (
	// StatusOK means aggregates are current and live updates flow.
	StatusOK Status = "ok"
	// StatusConnectionError means a read failed; the last-known-good
	// aggregates stay visible but are stale.
	StatusConnectionError Status = "connection-error"
	// StatusSubscriptionError means live updates are unavailable;
	// aggregates remain computable from the last successful load.
	StatusSubscriptionError Status = "subscription-error"
	// StatusUnauthorized means the store rejected the credential. Fatal
	// for the session; the cached credential has been cleared.
	StatusUnauthorized Status = "unauthorized"
)

// CredentialStore holds the session credential. It is cleared when the store
// rejects a read with an authorization failure, forcing re-authentication.
type CredentialStore interface {
	Clear()
}

// Repositories bundles the per-collection store access the session needs.
type Repositories struct {
	Accounts        domain.AccountRepository
	Assets          domain.AssetRepository
	AccountBalances domain.AccountBalanceRepository
	AssetBalances   domain.AssetBalanceRepository
	Transactions    domain.TransactionRepository
	BalanceTypes    domain.BalanceTypeRepository
}

// Session is the single owner of one user's loaded records. All cache
// mutations happen through Load and the subscription handlers; reads are
// snapshot reads of the current state.
type Session struct {
	repos Repositories
	creds CredentialStore
	log   zerolog.Logger

	mu              sync.RWMutex
	accounts        map[string]*domain.Account
	assets          map[string]*domain.Asset
	accountBalances map[string]*domain.AccountBalance
	assetBalances   map[string]*domain.AssetBalance
	transactions    map[string]*domain.Transaction
	balanceTypes    map[string]*domain.BalanceType

	sheet    *balance.BalanceSheet
	averages cashflow.Averages
	perf     *performance.Table
	status   Status

	events       chan changeKey
	stop         chan struct{}
	stopOnce     sync.Once
	unsubscribes []domain.Unsubscribe

	now            func() time.Time
	afterRecompute func()
}

// New creates a session around the given repositories. Nothing is loaded
// until Load is called.
func New(repos Repositories, logger zerolog.Logger) *Session {
	s := &Session{
		repos:           repos,
		log:             logger,
		accounts:        make(map[string]*domain.Account),
		assets:          make(map[string]*domain.Asset),
		accountBalances: make(map[string]*domain.AccountBalance),
		assetBalances:   make(map[string]*domain.AssetBalance),
		transactions:    make(map[string]*domain.Transaction),
		balanceTypes:    make(map[string]*domain.BalanceType),
		averages:        cashflow.ZeroAverages(),
		status:          StatusOK,
		events:          make(chan changeKey, 256),
		stop:            make(chan struct{}),
		now:             time.Now,
	}
	s.sheet = balance.Rollup(s.bookLocked(), balance.ScopeOpen)
	s.perf = performance.Compute(s.bookLocked(), s.now())
	return s
}

// SetCredentialStore attaches the credential holder cleared on auth failures.
func (s *Session) SetCredentialStore(creds CredentialStore) { s.creds = creds }

// Load performs the initial bulk read, one call per collection, all
// concurrent. Any failure leaves the previous caches untouched: a partial
// load never replaces a complete one.
func (s *Session) Load(ctx context.Context) error {
	var (
		accounts        []*domain.Account
		assets          []*domain.Asset
		accountBalances []*domain.AccountBalance
		assetBalances   []*domain.AssetBalance
		transactions    []*domain.Transaction
		balanceTypes    []*domain.BalanceType
	)

	reads := []struct {
		collection string
		run        func() error
	}{
		{"accounts", func() (err error) { accounts, err = s.repos.Accounts.List(ctx); return }},
		{"assets", func() (err error) { assets, err = s.repos.Assets.List(ctx); return }},
		{"accountBalances", func() (err error) { accountBalances, err = s.repos.AccountBalances.List(ctx); return }},
		{"assetBalances", func() (err error) { assetBalances, err = s.repos.AssetBalances.List(ctx); return }},
		{"transactions", func() (err error) { transactions, err = s.repos.Transactions.List(ctx); return }},
		{"balanceTypes", func() (err error) { balanceTypes, err = s.repos.BalanceTypes.List(ctx); return }},
	}

	errs := make([]error, len(reads))
	var wg sync.WaitGroup
	for i, read := range reads {
		i, read := i, read
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = read.run()
		}()
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return s.failLoad(reads[i].collection, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts = keyByID(accounts, func(a *domain.Account) string { return a.ID })
	s.assets = keyByID(assets, func(a *domain.Asset) string { return a.ID })
	s.accountBalances = keyByID(accountBalances, func(b *domain.AccountBalance) string { return b.ID })
	s.assetBalances = keyByID(assetBalances, func(b *domain.AssetBalance) string { return b.ID })
	s.transactions = keyByID(transactions, func(t *domain.Transaction) string { return t.ID })
	s.balanceTypes = keyByID(balanceTypes, func(bt *domain.BalanceType) string { return bt.ID })
	s.status = StatusOK
	s.recomputeLocked(aggregateAll)
	return nil
}

func keyByID[R any](records []R, id func(R) string) map[string]R {
	m := make(map[string]R, len(records))
	for _, r := range records {
		m[id(r)] = r
	}
	return m
}

func (s *Session) failLoad(collection string, err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if errors.Is(err, domain.ErrUnauthorized) {
		s.status = StatusUnauthorized
		if s.creds != nil {
			s.creds.Clear()
		}
		s.log.Error().Err(err).Str("collection", collection).Str("operation", "list").
			Msg("store rejected credentials, session requires re-authentication")
		return err
	}
	s.status = StatusConnectionError
	s.log.Error().Err(err).Str("collection", collection).Str("operation", "list").
		Msg("bulk load failed, keeping last-known-good aggregates")
	return err
}

// Reconnect runs a full reload after a dropped connection. Missed events
// cannot be replayed, so an incremental patch is never attempted.
func (s *Session) Reconnect(ctx context.Context) error {
	return s.Load(ctx)
}

// bookLocked builds the aggregation view from the caches. Callers must hold
// at least a read lock.
func (s *Session) bookLocked() *balance.Book {
	accounts := make([]*domain.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		accounts = append(accounts, a)
	}
	assets := make([]*domain.Asset, 0, len(s.assets))
	for _, a := range s.assets {
		assets = append(assets, a)
	}
	accountBalances := make([]*domain.AccountBalance, 0, len(s.accountBalances))
	for _, b := range s.accountBalances {
		accountBalances = append(accountBalances, b)
	}
	assetBalances := make([]*domain.AssetBalance, 0, len(s.assetBalances))
	for _, b := range s.assetBalances {
		assetBalances = append(assetBalances, b)
	}
	transactions := make([]*domain.Transaction, 0, len(s.transactions))
	for _, t := range s.transactions {
		transactions = append(transactions, t)
	}
	types := make([]*domain.BalanceType, 0, len(s.balanceTypes))
	for _, bt := range s.balanceTypes {
		types = append(types, bt)
	}
	book := balance.NewBook(accounts, assets, accountBalances, assetBalances, transactions, types)
	if book.OrphanedRecords > 0 {
		s.log.Warn().Int("count", book.OrphanedRecords).
			Msg("skipping records that reference a missing owner")
	}
	return book
}

// Status returns the session health.
func (s *Session) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// BalanceSheet returns the current open-scope rollup. The returned value is
// rebuilt on every recomputation and never mutated afterwards.
func (s *Session) BalanceSheet() *balance.BalanceSheet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sheet
}

// RollupScoped computes a rollup for one balance-sheet tab on demand.
func (s *Session) RollupScoped(scope balance.Scope) *balance.BalanceSheet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return balance.Rollup(s.bookLocked(), scope)
}

// Cashflow returns the current trailing averages.
func (s *Session) Cashflow() cashflow.Averages {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.averages
}

// Performance returns the current historical performance table.
func (s *Session) Performance() *performance.Table {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.perf
}

// TransactionKind filters the transaction feed.
type TransactionKind string

const (
	KindAll      TransactionKind = "all"
	KindCredits  TransactionKind = "credits"
	KindDebits   TransactionKind = "debits"
	KindExcluded TransactionKind = "excluded"
)

// TransactionRow is one denormalized feed entry.
type TransactionRow struct {
	ID          string
	Date        time.Time
	Description string
	AccountID   string
	AccountName string
	Value       decimal.Decimal
	Excluded    bool
}

// PageSize is the transaction feed page length.
const PageSize = 50

// TransactionRows returns the filtered, sorted transaction feed. Period
// membership is tested on the UTC calendar day of the transaction date, and
// excluded transactions stay visible under KindAll.
func (s *Session) TransactionRows(p period.Period, kind TransactionKind) []TransactionRow {
	s.mu.RLock()
	defer s.mu.RUnlock()

	window := period.Resolve(p, s.now())

	filtered := make([]*domain.Transaction, 0, len(s.transactions))
	for _, t := range s.transactions {
		day := t.Date.UTC()
		day = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
		if !window.Contains(day) {
			continue
		}
		switch kind {
		case KindCredits:
			if t.Value.Sign() <= 0 {
				continue
			}
		case KindDebits:
			if t.Value.Sign() >= 0 {
				continue
			}
		case KindExcluded:
			if !t.IsExcluded() {
				continue
			}
		}
		filtered = append(filtered, t)
	}
	domain.SortForListing(filtered)

	rows := make([]TransactionRow, 0, len(filtered))
	for _, t := range filtered {
		name := ""
		if account, ok := s.accounts[t.AccountID]; ok {
			name = account.Name
		}
		rows = append(rows, TransactionRow{
			ID:          t.ID,
			Date:        t.Date,
			Description: t.Description,
			AccountID:   t.AccountID,
			AccountName: name,
			Value:       t.Value,
			Excluded:    t.IsExcluded(),
		})
	}
	return rows
}

// TransactionPage slices the feed into pages of PageSize rows. Page numbers
// are 1-based; an empty feed still has one page.
func (s *Session) TransactionPage(p period.Period, kind TransactionKind, page int) ([]TransactionRow, int) {
	rows := s.TransactionRows(p, kind)
	totalPages := (len(rows) + PageSize - 1) / PageSize
	if totalPages == 0 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * PageSize
	if start >= len(rows) {
		return nil, totalPages
	}
	end := start + PageSize
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end], totalPages
}
