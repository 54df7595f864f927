package domain

// Category is the top-level balance-sheet grouping for accounts and assets
type Category string

const (
	CategoryCash       Category = "CASH"
	CategoryDebt       Category = "DEBT"
	CategoryInvestment Category = "INVESTMENT"
	CategoryOther      Category = "OTHER"
)

// Categories returns all balance groups in display order
func Categories() []Category {
	return []Category{CategoryCash, CategoryDebt, CategoryInvestment, CategoryOther}
}
