package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "lempira/internal/errors"
	"lempira/internal/models"
	"lempira/internal/pagination"
)

// transactionService handles transaction-related business logic.
type transactionService struct {
	db              *gorm.DB
	walletService   WalletServicer
	categoryService CategoryServicer
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, walletService WalletServicer, categoryService CategoryServicer) TransactionServicer {
	return &transactionService{
		db:              db,
		walletService:   walletService,
		categoryService: categoryService,
	}
}

// CreateTransaction creates a new income or expense transaction against a
// user's wallet. Transfers go through CreateTransfer.
func (s *transactionService) CreateTransaction(
	ctx context.Context,
	userID, walletID string,
	categoryID *string,
	kind models.TransactionKind,
	amount int64,
	description string,
	date time.Time,
) (*models.Transaction, error) {
	if kind != models.TransactionKindIncome && kind != models.TransactionKindExpense {
		return nil, apperrors.ErrInvalidTransactionKind
	}
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if date.IsZero() {
		date = time.Now()
	}

	wallet, err := s.walletService.GetWalletByID(ctx, userID, walletID)
	if err != nil {
		return nil, err
	}
	if !wallet.IsActive {
		return nil, apperrors.ErrWalletInactive
	}

	if categoryID != nil {
		category, err := s.categoryService.GetCategoryByID(ctx, userID, *categoryID)
		if err != nil {
			return nil, err
		}
		if !category.Accepts(kind) {
			return nil, apperrors.ErrCategoryKindMismatch
		}
	}

	transaction := &models.Transaction{
		UserID:      userID,
		WalletID:    wallet.ID,
		CategoryID:  categoryID,
		Kind:        kind,
		Amount:      amount,
		Description: description,
		Date:        date,
	}

	if err := s.db.WithContext(ctx).Create(transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.walletService.InvalidateBalance(wallet.ID)
	return transaction, nil
}

// CreateTransfer moves funds between two owned wallets as ONE atomically
// inserted row carrying both legs. There is no second insert to fail, so
// a dangling single-sided transfer cannot exist.
func (s *transactionService) CreateTransfer(
	ctx context.Context,
	userID, fromWalletID, toWalletID string,
	amount int64,
	description string,
	date time.Time,
) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if toWalletID == "" {
		return nil, apperrors.ErrMissingTransferWallet
	}
	if fromWalletID == toWalletID {
		return nil, apperrors.ErrSameWalletTransfer
	}
	if date.IsZero() {
		date = time.Now()
	}

	from, err := s.walletService.GetWalletByID(ctx, userID, fromWalletID)
	if err != nil {
		return nil, err
	}
	to, err := s.walletService.GetWalletByID(ctx, userID, toWalletID)
	if err != nil {
		return nil, err
	}
	if !from.IsActive || !to.IsActive {
		return nil, apperrors.ErrWalletInactive
	}

	transfer := &models.Transaction{
		UserID:      userID,
		WalletID:    from.ID,
		ToWalletID:  &to.ID,
		Kind:        models.TransactionKindTransfer,
		Amount:      amount,
		Description: description,
		Date:        date,
	}

	if err := s.db.WithContext(ctx).Create(transfer).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.walletService.InvalidateBalance(from.ID)
	s.walletService.InvalidateBalance(to.ID)
	return transfer, nil
}

// GetUserTransactions retrieves a paginated, filtered list of the user's
// transactions, newest first.
func (s *transactionService) GetUserTransactions(ctx context.Context, userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	base := s.db.WithContext(ctx).Model(&models.Transaction{}).Where("user_id = ?", userID)
	base = applyTransactionFilters(base, filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Preload("Category").Preload("Wallet").Preload("ToWallet").
		Scopes(pagination.Paginate(page)).
		Order("date DESC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetWalletTransactions retrieves a paginated, filtered list of
// transactions touching one wallet, either leg of a transfer included.
func (s *transactionService) GetWalletTransactions(ctx context.Context, userID, walletID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	// First verify the wallet belongs to the user
	if _, err := s.walletService.GetWalletByID(ctx, userID, walletID); err != nil {
		return nil, err
	}

	page.Defaults()

	base := s.db.WithContext(ctx).Model(&models.Transaction{}).
		Where("user_id = ? AND (wallet_id = ? OR to_wallet_id = ?)", userID, walletID, walletID)
	base = applyTransactionFilters(base, filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Preload("Category").Preload("Wallet").Preload("ToWallet").
		Scopes(pagination.Paginate(page)).
		Order("date DESC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.FromDate != nil {
		q = q.Where("date >= ?", *f.FromDate)
	}
	if f.ToDate != nil {
		q = q.Where("date <= ?", *f.ToDate)
	}
	if f.Kind != nil {
		q = q.Where("kind = ?", *f.Kind)
	}
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	return q
}

// GetTransactionByID retrieves a transaction by ID for a specific user.
func (s *transactionService) GetTransactionByID(ctx context.Context, userID, transactionID string) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.WithContext(ctx).
		Preload("Category").Preload("Wallet").Preload("ToWallet").
		Where("id = ? AND user_id = ?", transactionID, userID).
		First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// DeleteTransaction deletes a transaction and invalidates the derived
// balances of every wallet it touched. Balances are never stored, so
// there is no counter to reverse.
func (s *transactionService) DeleteTransaction(ctx context.Context, userID, transactionID string) error {
	transaction, err := s.GetTransactionByID(ctx, userID, transactionID)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(transaction).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.walletService.InvalidateBalance(transaction.WalletID)
	if transaction.ToWalletID != nil {
		s.walletService.InvalidateBalance(*transaction.ToWalletID)
	}
	return nil
}
