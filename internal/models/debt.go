package models

import "time"

// DebtKind distinguishes money the user owes from money owed to the user.
type DebtKind string

const (
	DebtKindOwedByMe DebtKind = "owed_by_me"
	DebtKindOwedToMe DebtKind = "owed_to_me"
)

// Debt tracks an amount owed with partial-payment progress. PaidAmount is
// a single mutable field; no per-payment log is kept.
type Debt struct {
	Base
	UserID      string     `gorm:"type:uuid;not null;index" json:"user_id"`
	Name        string     `gorm:"not null" json:"name"`
	Kind        DebtKind   `gorm:"not null" json:"kind"`
	TotalAmount int64      `gorm:"type:bigint;not null" json:"total_amount"`
	PaidAmount  int64      `gorm:"type:bigint;not null;default:0" json:"paid_amount"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Completed   bool       `gorm:"default:false" json:"completed"`
}
