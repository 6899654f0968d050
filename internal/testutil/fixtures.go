package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"lempira/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestWallet creates a cash wallet with zero initial balance.
func CreateTestWallet(t *testing.T, db *gorm.DB, userID string) *models.Wallet {
	t.Helper()
	return CreateTestWalletWithBalance(t, db, userID, 0)
}

// CreateTestWalletWithBalance creates a cash wallet with the given initial balance (in cents).
func CreateTestWalletWithBalance(t *testing.T, db *gorm.DB, userID string, initialBalance int64) *models.Wallet {
	t.Helper()

	wallet := &models.Wallet{
		UserID:         userID,
		Name:           fmt.Sprintf("Test Wallet %d", nextID()),
		Kind:           models.WalletKindCash,
		InitialBalance: initialBalance,
		Currency:       "HNL",
		IsActive:       true,
	}
	if err := db.Create(wallet).Error; err != nil {
		t.Fatalf("failed to create test wallet: %v", err)
	}
	return wallet
}

// CreateTestCreditWallet creates a credit wallet with the given limit (in cents).
func CreateTestCreditWallet(t *testing.T, db *gorm.DB, userID string, creditLimit int64) *models.Wallet {
	t.Helper()

	wallet := &models.Wallet{
		UserID:      userID,
		Name:        fmt.Sprintf("Test Credit Wallet %d", nextID()),
		Kind:        models.WalletKindCredit,
		Currency:    "HNL",
		IsActive:    true,
		CreditLimit: &creditLimit,
	}
	if err := db.Create(wallet).Error; err != nil {
		t.Fatalf("failed to create test credit wallet: %v", err)
	}
	return wallet
}

// CreateTestCategory creates an expense category with a unique name.
func CreateTestCategory(t *testing.T, db *gorm.DB, userID string) *models.Category {
	t.Helper()
	return CreateTestCategoryWithName(t, db, userID, fmt.Sprintf("Test Category %d", nextID()))
}

// CreateTestCategoryWithName creates a category with the given name,
// applicable to both kinds.
func CreateTestCategoryWithName(t *testing.T, db *gorm.DB, userID, name string) *models.Category {
	t.Helper()

	category := &models.Category{
		UserID:    userID,
		Name:      name,
		Icon:      "🍔",
		Color:     "#EF4444",
		AppliesTo: models.CategoryAppliesToBoth,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestTransaction creates a transaction of the given kind and
// amount (in cents) dated at the given day.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID, walletID string, categoryID *string, kind models.TransactionKind, amount int64, date time.Time) *models.Transaction {
	t.Helper()

	transaction := &models.Transaction{
		UserID:     userID,
		WalletID:   walletID,
		CategoryID: categoryID,
		Kind:       kind,
		Amount:     amount,
		Date:       date,
	}
	if err := db.Create(transaction).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return transaction
}

// CreateTestTransfer creates a single transfer row between two wallets.
func CreateTestTransfer(t *testing.T, db *gorm.DB, userID, fromWalletID, toWalletID string, amount int64, date time.Time) *models.Transaction {
	t.Helper()

	transfer := &models.Transaction{
		UserID:     userID,
		WalletID:   fromWalletID,
		ToWalletID: &toWalletID,
		Kind:       models.TransactionKindTransfer,
		Amount:     amount,
		Date:       date,
	}
	if err := db.Create(transfer).Error; err != nil {
		t.Fatalf("failed to create test transfer: %v", err)
	}
	return transfer
}

// CreateTestBudget creates a budget for the given category and month.
func CreateTestBudget(t *testing.T, db *gorm.DB, userID, categoryID string, monthLimit int64, month, year int) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		UserID:     userID,
		CategoryID: categoryID,
		MonthLimit: monthLimit,
		Month:      month,
		Year:       year,
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// CreateTestDebt creates an open debt owed by the user.
func CreateTestDebt(t *testing.T, db *gorm.DB, userID string, totalAmount int64) *models.Debt {
	t.Helper()

	debt := &models.Debt{
		UserID:      userID,
		Name:        fmt.Sprintf("Test Debt %d", nextID()),
		Kind:        models.DebtKindOwedByMe,
		TotalAmount: totalAmount,
	}
	if err := db.Create(debt).Error; err != nil {
		t.Fatalf("failed to create test debt: %v", err)
	}
	return debt
}
