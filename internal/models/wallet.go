package models

// WalletKind represents the kind of money container a wallet is.
type WalletKind string

const (
	WalletKindCash       WalletKind = "cash"
	WalletKindDebit      WalletKind = "debit"
	WalletKindSavings    WalletKind = "savings"
	WalletKindCredit     WalletKind = "credit"
	WalletKindInvestment WalletKind = "investment"
)

// Wallet represents a named money container. Its balance is never stored:
// it is always derived as initial balance plus the wallet's transaction
// log (see the reports package), so the displayed balance cannot drift
// from the ledger.
type Wallet struct {
	Base
	UserID         string     `gorm:"type:uuid;not null;index" json:"user_id"`
	Name           string     `gorm:"not null" json:"name"`
	Kind           WalletKind `gorm:"not null" json:"kind"`
	InitialBalance int64      `gorm:"type:bigint;not null;default:0" json:"initial_balance"`
	Currency       string     `gorm:"not null;default:'HNL'" json:"currency"`
	IsActive       bool       `gorm:"default:true" json:"is_active"`

	// Credit wallets only
	CreditLimit *int64 `gorm:"type:bigint" json:"credit_limit,omitempty"`

	// Relationships
	Transactions []Transaction `gorm:"foreignKey:WalletID" json:"transactions,omitempty"`
}

// CountsTowardTotal reports whether this wallet participates in the
// total-balance aggregate. Credit wallets are liabilities and are shown
// separately, never summed into available funds.
func (w *Wallet) CountsTowardTotal() bool {
	return w.Kind != WalletKindCredit
}
