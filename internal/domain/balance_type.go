package domain

import "strings"

// UnknownTypeName is the display fallback when a balance type reference
// cannot be resolved.
const UnknownTypeName = "(Unknown)"

// BalanceType is a per-user deduplicated free-text label grouping accounts
// and assets within a category (e.g. "Checking", "Brokerage").
type BalanceType struct {
	ID    string
	Owner string
	Name  string
}

// NormalizeTypeName lowercases a balance-type name and strips everything but
// letters, so "Auto-calculated", "auto calculated" and "AUTOCALCULATED" all
// compare equal.
func NormalizeTypeName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsAutoCalculatedName reports whether a balance-type name is the sentinel
// that forces auto-calculation mode on an account.
func IsAutoCalculatedName(name string) bool {
	return NormalizeTypeName(name) == "autocalculated"
}
