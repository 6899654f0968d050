package services

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"lempira/internal/cache"
	apperrors "lempira/internal/errors"
	"lempira/internal/models"
	"lempira/internal/reports"
)

// balanceTTL bounds staleness if an invalidation is ever missed; writes
// invalidate eagerly so the TTL is a backstop, not the mechanism.
const balanceTTL = 5 * time.Minute

// balanceConcurrency caps the per-wallet balance queries run in parallel
// when listing wallets.
const balanceConcurrency = 8

// walletService handles wallet-related business logic. Balances are a
// pure function of initial balance plus the transaction log, memoized per
// wallet id and invalidated on every transaction write.
type walletService struct {
	db       *gorm.DB
	balances *cache.TTLCache[int64]
}

// NewWalletService creates a new WalletServicer.
func NewWalletService(db *gorm.DB) WalletServicer {
	return &walletService{
		db:       db,
		balances: cache.NewTTL[int64](balanceTTL),
	}
}

// CreateWallet creates a new wallet for a user.
func (s *walletService) CreateWallet(ctx context.Context, userID, name string, kind models.WalletKind, initialBalance int64, creditLimit *int64, currency string) (*models.Wallet, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "wallet name is required")
	}
	if initialBalance < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "initial balance must not be negative")
	}
	if currency == "" {
		currency = "HNL"
	}
	if kind != models.WalletKindCredit {
		creditLimit = nil
	}

	wallet := &models.Wallet{
		UserID:         userID,
		Name:           name,
		Kind:           kind,
		InitialBalance: initialBalance,
		CreditLimit:    creditLimit,
		Currency:       currency,
		IsActive:       true,
	}

	if err := s.db.WithContext(ctx).Create(wallet).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return wallet, nil
}

// GetUserWallets retrieves the user's active wallets with derived
// balances, plus the total balance. The per-wallet derivations run as a
// bounded concurrent batch and are joined before the total is produced;
// order of completion cannot change the result since the total is a
// commutative sum. Credit wallets are listed but excluded from the total.
func (s *walletService) GetUserWallets(ctx context.Context, userID string) ([]WalletWithBalance, int64, error) {
	var wallets []models.Wallet
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("created_at ASC").
		Find(&wallets).Error; err != nil {
		return nil, 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := make([]WalletWithBalance, len(wallets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(balanceConcurrency)
	for i := range wallets {
		g.Go(func() error {
			balance, err := s.deriveBalance(gctx, &wallets[i])
			if err != nil {
				return err
			}
			result[i] = WalletWithBalance{Wallet: wallets[i], Balance: balance}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	var total int64
	for i := range result {
		if result[i].CountsTowardTotal() {
			total += result[i].Balance
		}
	}
	return result, total, nil
}

// GetWalletByID retrieves a wallet by ID for a specific user.
func (s *walletService) GetWalletByID(ctx context.Context, userID, walletID string) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", walletID, userID).
		First(&wallet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrWalletNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &wallet, nil
}

// UpdateWallet updates an existing wallet's mutable fields.
func (s *walletService) UpdateWallet(ctx context.Context, userID, walletID string, fields WalletUpdateFields) (*models.Wallet, error) {
	wallet, err := s.GetWalletByID(ctx, userID, walletID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if fields.Name != nil && *fields.Name != "" {
		updates["name"] = *fields.Name
	}
	if fields.IsActive != nil {
		updates["is_active"] = *fields.IsActive
	}
	if fields.CreditLimit != nil && wallet.Kind == models.WalletKindCredit {
		updates["credit_limit"] = *fields.CreditLimit
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(wallet).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := s.db.WithContext(ctx).Where("id = ?", wallet.ID).First(wallet).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return wallet, nil
}

// WalletBalance returns the derived balance of one wallet.
func (s *walletService) WalletBalance(ctx context.Context, userID, walletID string) (int64, error) {
	wallet, err := s.GetWalletByID(ctx, userID, walletID)
	if err != nil {
		return 0, err
	}
	return s.deriveBalance(ctx, wallet)
}

// InvalidateBalance drops the memoized balance for a wallet. Called by
// the transaction service on every insert and delete touching the wallet.
func (s *walletService) InvalidateBalance(walletID string) {
	s.balances.Invalidate(walletID)
}

// deriveBalance replays the wallet's transaction log over its initial
// balance, consulting the memoization cache first. Transfer rows are
// matched on either leg.
func (s *walletService) deriveBalance(ctx context.Context, wallet *models.Wallet) (int64, error) {
	if balance, ok := s.balances.Get(wallet.ID); ok {
		return balance, nil
	}

	var txs []models.Transaction
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND (wallet_id = ? OR to_wallet_id = ?)", wallet.UserID, wallet.ID, wallet.ID).
		Find(&txs).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	balance := reports.WalletBalance(wallet.InitialBalance, wallet.ID, txs)
	s.balances.Set(wallet.ID, balance)
	return balance, nil
}
