package services

import (
	"context"
	"time"

	"lempira/internal/models"
	"lempira/internal/pagination"
	"lempira/internal/reports"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(ctx context.Context, email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	AttemptLogin(ctx context.Context, email, password string) (*models.User, error)
	StoreRefreshTokenHash(ctx context.Context, userID, tokenHash string) error
	GetRefreshTokenHash(ctx context.Context, userID string) (string, error)
}

// WalletWithBalance pairs a wallet with its derived balance.
type WalletWithBalance struct {
	models.Wallet
	Balance int64 `json:"balance"`
}

// WalletUpdateFields holds optional wallet updates; nil means unchanged.
type WalletUpdateFields struct {
	Name        *string
	IsActive    *bool
	CreditLimit *int64
}

// WalletServicer defines the contract for wallet-related business logic.
// Balances are always derived from the transaction log, never stored.
type WalletServicer interface {
	CreateWallet(ctx context.Context, userID, name string, kind models.WalletKind, initialBalance int64, creditLimit *int64, currency string) (*models.Wallet, error)
	GetUserWallets(ctx context.Context, userID string) ([]WalletWithBalance, int64, error)
	GetWalletByID(ctx context.Context, userID, walletID string) (*models.Wallet, error)
	UpdateWallet(ctx context.Context, userID, walletID string, fields WalletUpdateFields) (*models.Wallet, error)
	WalletBalance(ctx context.Context, userID, walletID string) (int64, error)
	InvalidateBalance(walletID string)
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(ctx context.Context, userID, name string, appliesTo models.CategoryAppliesTo, icon, color string) (*models.Category, error)
	GetUserCategories(ctx context.Context, userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error)
	GetCategoryByID(ctx context.Context, userID, categoryID string) (*models.Category, error)
	UpdateCategory(ctx context.Context, userID, categoryID string, name, icon, color string, appliesTo *models.CategoryAppliesTo) (*models.Category, error)
	DeleteCategory(ctx context.Context, userID, categoryID string) error
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	FromDate   *time.Time
	ToDate     *time.Time
	Kind       *models.TransactionKind
	CategoryID *string
}

// TransactionServicer defines the contract for transaction-related
// business logic. Transactions are immutable: insert and delete only.
type TransactionServicer interface {
	CreateTransaction(ctx context.Context, userID, walletID string, categoryID *string, kind models.TransactionKind, amount int64, description string, date time.Time) (*models.Transaction, error)
	CreateTransfer(ctx context.Context, userID, fromWalletID, toWalletID string, amount int64, description string, date time.Time) (*models.Transaction, error)
	GetUserTransactions(ctx context.Context, userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetWalletTransactions(ctx context.Context, userID, walletID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(ctx context.Context, userID, transactionID string) (*models.Transaction, error)
	DeleteTransaction(ctx context.Context, userID, transactionID string) error
}

// BudgetWithStatus pairs a budget with its derived consumption.
type BudgetWithStatus struct {
	models.Budget
	Status reports.BudgetStatus `json:"status"`
}

// BudgetListing is one month's budgets with the screen-level aggregates.
type BudgetListing struct {
	Budgets        []BudgetWithStatus `json:"budgets"`
	TotalLimit     int64              `json:"total_limit"`
	TotalSpent     int64              `json:"total_spent"`
	OverallPercent float64            `json:"overall_percent"`
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	CreateBudget(ctx context.Context, userID, categoryID string, monthLimit int64, month, year int) (*models.Budget, error)
	GetMonthBudgets(ctx context.Context, userID string, month, year int, activeOnly bool) (*BudgetListing, error)
	GetBudgetStatus(ctx context.Context, userID, budgetID string) (*BudgetWithStatus, error)
	UpdateBudget(ctx context.Context, userID, budgetID string, monthLimit *int64) (*models.Budget, error)
	DeleteBudget(ctx context.Context, userID, budgetID string) error
}

// DebtWithStatus pairs a debt with its derived progress.
type DebtWithStatus struct {
	models.Debt
	Status reports.DebtStatus `json:"status"`
}

// DebtListing is the user's debts with the screen-level aggregates:
// total remaining owed by the user and total remaining owed to them.
type DebtListing struct {
	Debts         []DebtWithStatus `json:"debts"`
	TotalOwedByMe int64            `json:"total_owed_by_me"`
	TotalOwedToMe int64            `json:"total_owed_to_me"`
}

// DebtUpdateFields holds optional debt updates; nil means unchanged.
type DebtUpdateFields struct {
	Name      *string
	DueDate   *time.Time
	Completed *bool
}

// DebtServicer defines the contract for debt-related business logic.
type DebtServicer interface {
	CreateDebt(ctx context.Context, userID, name string, kind models.DebtKind, totalAmount, paidAmount int64, dueDate *time.Time) (*models.Debt, error)
	GetUserDebts(ctx context.Context, userID string) (*DebtListing, error)
	GetDebtByID(ctx context.Context, userID, debtID string) (*models.Debt, error)
	RecordPayment(ctx context.Context, userID, debtID string, amount int64) (*models.Debt, error)
	UpdateDebt(ctx context.Context, userID, debtID string, fields DebtUpdateFields) (*models.Debt, error)
	DeleteDebt(ctx context.Context, userID, debtID string) error
}

// MonthSummaryReport is the dashboard summary for one navigated month.
type MonthSummaryReport struct {
	Year    int                    `json:"year"`
	Month   time.Month             `json:"month"`
	Offset  int                    `json:"offset"`
	Summary reports.MonthlySummary `json:"summary"`
}

// ReportServicer defines the contract for the aggregation reports.
type ReportServicer interface {
	Calendar(ctx context.Context, userID string, month time.Month, year int) (*reports.CalendarMonth, error)
	CategoryBreakdown(ctx context.Context, userID string, kind models.TransactionKind, month time.Month, year int) ([]reports.CategoryGroup, error)
	MonthlySummary(ctx context.Context, userID string, offset int) (*MonthSummaryReport, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
