package models

// CategoryAppliesTo restricts which transaction kinds a category can label.
type CategoryAppliesTo string

const (
	CategoryAppliesToIncome  CategoryAppliesTo = "income"
	CategoryAppliesToExpense CategoryAppliesTo = "expense"
	CategoryAppliesToBoth    CategoryAppliesTo = "both"
)

// Category represents a transaction category
type Category struct {
	Base
	UserID    string            `gorm:"type:uuid;not null;index" json:"user_id"`
	Name      string            `gorm:"not null" json:"name"`
	Icon      string            `json:"icon"`
	Color     string            `json:"color"`
	AppliesTo CategoryAppliesTo `gorm:"not null;default:'both'" json:"applies_to"`

	// Relationships
	Transactions []Transaction `gorm:"foreignKey:CategoryID" json:"transactions,omitempty"`
	Budgets      []Budget      `gorm:"foreignKey:CategoryID" json:"budgets,omitempty"`
}

// Accepts reports whether the category can label a transaction of the given kind.
func (c *Category) Accepts(kind TransactionKind) bool {
	switch c.AppliesTo {
	case CategoryAppliesToBoth:
		return kind == TransactionKindIncome || kind == TransactionKindExpense
	case CategoryAppliesToIncome:
		return kind == TransactionKindIncome
	case CategoryAppliesToExpense:
		return kind == TransactionKindExpense
	}
	return false
}
