package balance

import "github.com/ledgerline/ledgerline-backend/internal/domain"

// Mode says where an account's current value comes from. Exactly one source
// applies to an account at any time.
type Mode string

const (
	// ModeSnapshot reads the latest balance snapshot.
	ModeSnapshot Mode = "snapshot"
	// ModeTransactionSum sums the account's full transaction history.
	ModeTransactionSum Mode = "transaction-sum"
)

// ResolveMode decides an account's balance mode. Decision order, first match
// wins:
//  1. the explicit autoCalculated flag
//  2. the balance-type name normalizes to the "autocalculated" sentinel
//  3. structural inference: no snapshots but at least one transaction
//
// Everything else is snapshot mode.
func ResolveMode(account *domain.Account, typeName string, snapshotCount, transactionCount int) Mode {
	if account.HasAutoCalculatedFlag() {
		return ModeTransactionSum
	}
	if domain.IsAutoCalculatedName(typeName) {
		return ModeTransactionSum
	}
	if snapshotCount == 0 && transactionCount > 0 {
		return ModeTransactionSum
	}
	return ModeSnapshot
}
