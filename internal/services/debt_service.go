package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "lempira/internal/errors"
	"lempira/internal/models"
	"lempira/internal/reports"
)

// debtService handles debt-related business logic.
type debtService struct {
	db *gorm.DB
}

// NewDebtService creates a new DebtServicer.
func NewDebtService(db *gorm.DB) DebtServicer {
	return &debtService{db: db}
}

// CreateDebt creates a new debt, optionally with an initial paid amount.
func (s *debtService) CreateDebt(ctx context.Context, userID, name string, kind models.DebtKind, totalAmount, paidAmount int64, dueDate *time.Time) (*models.Debt, error) {
	if totalAmount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "total amount must be greater than zero")
	}
	if paidAmount < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "paid amount cannot be negative")
	}

	debt := &models.Debt{
		UserID:      userID,
		Name:        name,
		Kind:        kind,
		TotalAmount: totalAmount,
		PaidAmount:  paidAmount,
		DueDate:     dueDate,
		Completed:   paidAmount >= totalAmount,
	}
	if err := s.db.WithContext(ctx).Create(debt).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return debt, nil
}

// GetUserDebts retrieves all of the user's debts with derived progress
// and the screen-level aggregates. Each aggregate sums the remaining
// amount of the open debts on its side; completed debts contribute
// nothing.
func (s *debtService) GetUserDebts(ctx context.Context, userID string) (*DebtListing, error) {
	var debts []models.Debt
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&debts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	now := time.Now()
	listing := &DebtListing{Debts: make([]DebtWithStatus, 0, len(debts))}
	for i := range debts {
		status := reports.ComputeDebtStatus(debts[i], now)
		listing.Debts = append(listing.Debts, DebtWithStatus{Debt: debts[i], Status: status})
		if debts[i].Completed || status.Remaining <= 0 {
			continue
		}
		switch debts[i].Kind {
		case models.DebtKindOwedByMe:
			listing.TotalOwedByMe += status.Remaining
		case models.DebtKindOwedToMe:
			listing.TotalOwedToMe += status.Remaining
		}
	}
	return listing, nil
}

// GetDebtByID retrieves a debt by ID for a specific user.
func (s *debtService) GetDebtByID(ctx context.Context, userID, debtID string) (*models.Debt, error) {
	var debt models.Debt
	if err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", debtID, userID).
		First(&debt).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrDebtNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &debt, nil
}

// RecordPayment adds a partial payment to a debt. Paying the total or
// more marks the debt completed; the stored PaidAmount keeps the real
// figure and display clamping happens in the derived status.
func (s *debtService) RecordPayment(ctx context.Context, userID, debtID string, amount int64) (*models.Debt, error) {
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "payment amount must be greater than zero")
	}

	debt, err := s.GetDebtByID(ctx, userID, debtID)
	if err != nil {
		return nil, err
	}
	if debt.Completed {
		return nil, apperrors.ErrDebtCompleted
	}

	debt.PaidAmount += amount
	if debt.PaidAmount >= debt.TotalAmount {
		debt.Completed = true
	}
	if err := s.db.WithContext(ctx).Model(debt).
		Updates(map[string]interface{}{
			"paid_amount": debt.PaidAmount,
			"completed":   debt.Completed,
		}).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return debt, nil
}

// UpdateDebt updates a debt's mutable fields. Amounts change only
// through RecordPayment.
func (s *debtService) UpdateDebt(ctx context.Context, userID, debtID string, fields DebtUpdateFields) (*models.Debt, error) {
	debt, err := s.GetDebtByID(ctx, userID, debtID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if fields.Name != nil {
		updates["name"] = *fields.Name
	}
	if fields.DueDate != nil {
		updates["due_date"] = *fields.DueDate
	}
	if fields.Completed != nil {
		updates["completed"] = *fields.Completed
	}
	if len(updates) == 0 {
		return debt, nil
	}

	if err := s.db.WithContext(ctx).Model(debt).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return s.GetDebtByID(ctx, userID, debtID)
}

// DeleteDebt deletes a debt.
func (s *debtService) DeleteDebt(ctx context.Context, userID, debtID string) error {
	debt, err := s.GetDebtByID(ctx, userID, debtID)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(debt).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
