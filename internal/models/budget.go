package models

// Budget represents a monthly spending ceiling for one category.
// Spent is never stored; it is derived from expense transactions in the
// category within the budget's month.
type Budget struct {
	Base
	UserID     string `gorm:"type:uuid;not null;index" json:"user_id"`
	CategoryID string `gorm:"type:uuid;not null;uniqueIndex:idx_budget_category_month" json:"category_id"`
	MonthLimit int64  `gorm:"type:bigint;not null" json:"month_limit"`
	Month      int    `gorm:"not null;uniqueIndex:idx_budget_category_month" json:"month"`
	Year       int    `gorm:"not null;uniqueIndex:idx_budget_category_month" json:"year"`

	// Relationships
	Category Category `gorm:"foreignKey:CategoryID" json:"category"`
}
