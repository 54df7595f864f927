package balance

import "github.com/ledgerline/ledgerline-backend/internal/domain"

// Book is an immutable view over one user's loaded records, prepared for
// aggregation: snapshot histories and transactions are grouped by owner and
// balance-type names are resolved. Aggregation functions take a Book and are
// pure; the session rebuilds the Book whenever the underlying caches change.
type Book struct {
	Accounts []*domain.Account
	Assets   []*domain.Asset

	AccountBalances map[string][]*domain.AccountBalance // keyed by account id
	AssetBalances   map[string][]*domain.AssetBalance   // keyed by asset id
	Transactions    map[string][]*domain.Transaction    // keyed by account id
	TypeNames       map[string]string                   // balance-type id -> name

	// OrphanedRecords counts snapshots and transactions that reference an
	// owner that is not loaded. They contribute nothing to any aggregate;
	// the session logs the count so the anomaly is diagnosable.
	OrphanedRecords int
}

// NewBook groups raw records by owner. Snapshots and transactions whose owner
// is missing are dropped rather than aborting the whole rollup.
func NewBook(
	accounts []*domain.Account,
	assets []*domain.Asset,
	accountBalances []*domain.AccountBalance,
	assetBalances []*domain.AssetBalance,
	transactions []*domain.Transaction,
	types []*domain.BalanceType,
) *Book {
	book := &Book{
		Accounts:        accounts,
		Assets:          assets,
		AccountBalances: make(map[string][]*domain.AccountBalance),
		AssetBalances:   make(map[string][]*domain.AssetBalance),
		Transactions:    make(map[string][]*domain.Transaction),
		TypeNames:       make(map[string]string, len(types)),
	}

	accountIDs := make(map[string]struct{}, len(accounts))
	for _, a := range accounts {
		accountIDs[a.ID] = struct{}{}
	}
	assetIDs := make(map[string]struct{}, len(assets))
	for _, a := range assets {
		assetIDs[a.ID] = struct{}{}
	}

	for _, b := range accountBalances {
		if _, ok := accountIDs[b.AccountID]; !ok {
			book.OrphanedRecords++
			continue
		}
		book.AccountBalances[b.AccountID] = append(book.AccountBalances[b.AccountID], b)
	}
	for _, b := range assetBalances {
		if _, ok := assetIDs[b.AssetID]; !ok {
			book.OrphanedRecords++
			continue
		}
		book.AssetBalances[b.AssetID] = append(book.AssetBalances[b.AssetID], b)
	}
	for _, t := range transactions {
		if _, ok := accountIDs[t.AccountID]; !ok {
			book.OrphanedRecords++
			continue
		}
		book.Transactions[t.AccountID] = append(book.Transactions[t.AccountID], t)
	}
	for _, bt := range types {
		book.TypeNames[bt.ID] = bt.Name
	}

	return book
}

// TypeName resolves a balance-type reference to its display name.
func (b *Book) TypeName(id string) string {
	if name, ok := b.TypeNames[id]; ok {
		return name
	}
	return domain.UnknownTypeName
}
