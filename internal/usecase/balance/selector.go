package balance

import (
	"time"

	"github.com/ledgerline/ledgerline-backend/internal/domain"
)

// snapshotKey is the total selection order shared by both snapshot kinds:
// asOf descending, then created descending, then id descending. The id leg
// makes selection deterministic even for bulk-imported data where asOf and
// created collide.
type snapshotKey struct {
	asOf    time.Time
	created time.Time
	id      string
}

func (k snapshotKey) moreRecent(other snapshotKey) bool {
	if !k.asOf.Equal(other.asOf) {
		return k.asOf.After(other.asOf)
	}
	if !k.created.Equal(other.created) {
		return k.created.After(other.created)
	}
	return k.id > other.id
}

// LatestAccountBalance selects the snapshot representing an account's current
// value. Returns nil on an empty history; callers treat that as value 0.
func LatestAccountBalance(balances []*domain.AccountBalance) *domain.AccountBalance {
	var best *domain.AccountBalance
	var bestKey snapshotKey
	for _, b := range balances {
		key := snapshotKey{asOf: b.AsOf, created: b.Created, id: b.ID}
		if best == nil || key.moreRecent(bestKey) {
			best, bestKey = b, key
		}
	}
	return best
}

// LatestAssetBalance selects the snapshot representing an asset's current
// value, under the same total order as LatestAccountBalance.
func LatestAssetBalance(balances []*domain.AssetBalance) *domain.AssetBalance {
	var best *domain.AssetBalance
	var bestKey snapshotKey
	for _, b := range balances {
		key := snapshotKey{asOf: b.AsOf, created: b.Created, id: b.ID}
		if best == nil || key.moreRecent(bestKey) {
			best, bestKey = b, key
		}
	}
	return best
}
