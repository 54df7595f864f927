package session

import (
	"github.com/ledgerline/ledgerline-backend/internal/domain"
	"github.com/ledgerline/ledgerline-backend/internal/usecase/balance"
	"github.com/ledgerline/ledgerline-backend/internal/usecase/cashflow"
	"github.com/ledgerline/ledgerline-backend/internal/usecase/performance"
)

// collection names as delivered by the store.
const (
	collAccounts        = "accounts"
	collAssets          = "assets"
	collAccountBalances = "accountBalances"
	collAssetBalances   = "assetBalances"
	collTransactions    = "transactions"
	collBalanceTypes    = "balanceTypes"
)

// changeKey identifies the entity a change notification affects. A burst of
// events for the same key coalesces into a single recomputation pass.
type changeKey struct {
	collection string
	id         string
}

// aggregates flags which derived results a batch of changes invalidates.
type aggregates struct {
	sheet    bool
	cashflow bool
	perf     bool
}

var aggregateAll = aggregates{sheet: true, cashflow: true, perf: true}

func (a aggregates) merge(other aggregates) aggregates {
	return aggregates{
		sheet:    a.sheet || other.sheet,
		cashflow: a.cashflow || other.cashflow,
		perf:     a.perf || other.perf,
	}
}

// affectedBy maps a change to the aggregates it can move. Transactions feed
// the cash-flow averages and auto-calculated account values; everything else
// moves the balance sheet and the performance table.
func affectedBy(key changeKey) aggregates {
	if key.collection == collTransactions {
		return aggregates{sheet: true, cashflow: true}
	}
	return aggregates{sheet: true, perf: true}
}

// Start subscribes to change notifications on all collections and launches
// the consumer loop. On subscription failure the session stays usable with
// the aggregates from the last load, flagged StatusSubscriptionError.
func (s *Session) Start() error {
	var firstErr error
	record := func(collection string, unsub domain.Unsubscribe, err error) {
		if err != nil {
			s.log.Error().Err(err).Str("collection", collection).Str("operation", "subscribe").
				Msg("live updates unavailable")
			if firstErr == nil {
				firstErr = err
			}
			return
		}
		s.unsubscribes = append(s.unsubscribes, unsub)
	}

	unsub, err := s.repos.Accounts.Subscribe(func(e domain.ChangeEvent[*domain.Account]) {
		s.applyAccount(e)
		s.enqueue(changeKey{collAccounts, e.Record.ID})
	})
	record(collAccounts, unsub, err)

	unsub, err = s.repos.Assets.Subscribe(func(e domain.ChangeEvent[*domain.Asset]) {
		s.applyAsset(e)
		s.enqueue(changeKey{collAssets, e.Record.ID})
	})
	record(collAssets, unsub, err)

	unsub, err = s.repos.AccountBalances.Subscribe(func(e domain.ChangeEvent[*domain.AccountBalance]) {
		s.applyAccountBalance(e)
		// key on the owning account so a burst of snapshot writes for one
		// account triggers a single recomputation
		s.enqueue(changeKey{collAccountBalances, e.Record.AccountID})
	})
	record(collAccountBalances, unsub, err)

	unsub, err = s.repos.AssetBalances.Subscribe(func(e domain.ChangeEvent[*domain.AssetBalance]) {
		s.applyAssetBalance(e)
		s.enqueue(changeKey{collAssetBalances, e.Record.AssetID})
	})
	record(collAssetBalances, unsub, err)

	unsub, err = s.repos.Transactions.Subscribe(func(e domain.ChangeEvent[*domain.Transaction]) {
		s.applyTransaction(e)
		s.enqueue(changeKey{collTransactions, e.Record.AccountID})
	})
	record(collTransactions, unsub, err)

	unsub, err = s.repos.BalanceTypes.Subscribe(func(e domain.ChangeEvent[*domain.BalanceType]) {
		s.applyBalanceType(e)
		s.enqueue(changeKey{collBalanceTypes, e.Record.ID})
	})
	record(collBalanceTypes, unsub, err)

	go s.run()

	if firstErr != nil {
		s.mu.Lock()
		s.status = StatusSubscriptionError
		s.mu.Unlock()
		return domain.ErrSubscription
	}
	return nil
}

// Stop tears down the subscriptions and the consumer loop.
func (s *Session) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)
		for _, unsub := range s.unsubscribes {
			unsub()
		}
	})
}

// Cache mutations are atomic replace-by-id: an event either installs the full
// record or removes it, never a partial merge.

func (s *Session) applyAccount(e domain.ChangeEvent[*domain.Account]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.Action == domain.ActionDelete {
		delete(s.accounts, e.Record.ID)
		return
	}
	s.accounts[e.Record.ID] = e.Record
}

func (s *Session) applyAsset(e domain.ChangeEvent[*domain.Asset]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.Action == domain.ActionDelete {
		delete(s.assets, e.Record.ID)
		return
	}
	s.assets[e.Record.ID] = e.Record
}

func (s *Session) applyAccountBalance(e domain.ChangeEvent[*domain.AccountBalance]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.Action == domain.ActionDelete {
		delete(s.accountBalances, e.Record.ID)
		return
	}
	s.accountBalances[e.Record.ID] = e.Record
}

func (s *Session) applyAssetBalance(e domain.ChangeEvent[*domain.AssetBalance]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.Action == domain.ActionDelete {
		delete(s.assetBalances, e.Record.ID)
		return
	}
	s.assetBalances[e.Record.ID] = e.Record
}

func (s *Session) applyTransaction(e domain.ChangeEvent[*domain.Transaction]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.Action == domain.ActionDelete {
		delete(s.transactions, e.Record.ID)
		return
	}
	s.transactions[e.Record.ID] = e.Record
}

func (s *Session) applyBalanceType(e domain.ChangeEvent[*domain.BalanceType]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.Action == domain.ActionDelete {
		delete(s.balanceTypes, e.Record.ID)
		return
	}
	s.balanceTypes[e.Record.ID] = e.Record
}

func (s *Session) enqueue(key changeKey) {
	select {
	case <-s.stop:
	case s.events <- key:
	}
}

// run is the single consumer: it waits for a change, drains whatever burst
// followed it, deduplicates the keys, and recomputes the affected aggregates
// once. Excess recomputation would only cost time, never correctness, but
// the coalescing keeps bursts cheap.
func (s *Session) run() {
	for {
		select {
		case <-s.stop:
			return
		case key := <-s.events:
			pending := map[changeKey]struct{}{key: {}}
		drain:
			for {
				select {
				case <-s.stop:
					return
				case next := <-s.events:
					pending[next] = struct{}{}
				default:
					break drain
				}
			}
			s.recomputeBatch(pending)
		}
	}
}

func (s *Session) recomputeBatch(pending map[changeKey]struct{}) {
	var affected aggregates
	for key := range pending {
		affected = affected.merge(affectedBy(key))
	}

	s.mu.Lock()
	if s.status != StatusUnauthorized {
		s.recomputeLocked(affected)
	}
	s.mu.Unlock()

	if s.afterRecompute != nil {
		s.afterRecompute()
	}
}

// recomputeLocked re-runs the affected pure aggregations over the current
// caches. Callers must hold the write lock.
func (s *Session) recomputeLocked(affected aggregates) {
	book := s.bookLocked()
	if affected.sheet {
		s.sheet = balance.Rollup(book, balance.ScopeOpen)
	}
	if affected.cashflow {
		txns := make([]*domain.Transaction, 0, len(s.transactions))
		for _, t := range s.transactions {
			txns = append(txns, t)
		}
		s.averages = cashflow.TrailingAverages(txns, s.now())
	}
	if affected.perf {
		s.perf = performance.Compute(book, s.now())
	}
}
