package models

import "time"

// TransactionKind represents the kind of transaction
type TransactionKind string

const (
	TransactionKindIncome   TransactionKind = "income"
	TransactionKindExpense  TransactionKind = "expense"
	TransactionKindTransfer TransactionKind = "transfer"
)

// Transaction represents a single dated money movement. Amount is a
// non-negative magnitude in minor units; direction is carried by Kind.
//
// A transfer between two owned wallets is ONE row carrying both the
// source (WalletID) and destination (ToWalletID), inserted atomically.
// Its two ledger legs (expense on the source, income on the destination)
// are derived at read time, so a half-written transfer cannot exist.
//
// Transactions are immutable once written: the API offers insert and
// delete, never update.
type Transaction struct {
	Base
	UserID      string          `gorm:"type:uuid;not null;index" json:"user_id"`
	WalletID    string          `gorm:"type:uuid;not null;index" json:"wallet_id"`
	CategoryID  *string         `gorm:"type:uuid" json:"category_id,omitempty"`
	Kind        TransactionKind `gorm:"not null" json:"kind"`
	Amount      int64           `gorm:"type:bigint;not null" json:"amount"`
	Description string          `json:"description"`
	Date        time.Time       `gorm:"not null" json:"date"`

	// Transfers only
	ToWalletID *string `gorm:"type:uuid" json:"to_wallet_id,omitempty"`

	// Relationships
	Wallet   Wallet    `gorm:"foreignKey:WalletID" json:"wallet"`
	ToWallet *Wallet   `gorm:"foreignKey:ToWalletID" json:"to_wallet,omitempty"`
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// CreditsWallet reports whether the transaction adds funds to the given wallet.
func (t *Transaction) CreditsWallet(walletID string) bool {
	if t.Kind == TransactionKindIncome && t.WalletID == walletID {
		return true
	}
	return t.Kind == TransactionKindTransfer && t.ToWalletID != nil && *t.ToWalletID == walletID
}

// DebitsWallet reports whether the transaction removes funds from the given wallet.
func (t *Transaction) DebitsWallet(walletID string) bool {
	if t.Kind == TransactionKindExpense && t.WalletID == walletID {
		return true
	}
	return t.Kind == TransactionKindTransfer && t.WalletID == walletID
}
