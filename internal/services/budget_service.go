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

// budgetService handles budget-related business logic. Consumption is
// never stored: it is derived on read by summing the month's expense
// transactions in the budget's category.
type budgetService struct {
	db              *gorm.DB
	categoryService CategoryServicer
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB, categoryService CategoryServicer) BudgetServicer {
	return &budgetService{db: db, categoryService: categoryService}
}

// CreateBudget creates a monthly spending ceiling for one category. At
// most one budget may exist per (category, month, year).
func (s *budgetService) CreateBudget(ctx context.Context, userID, categoryID string, monthLimit int64, month, year int) (*models.Budget, error) {
	if monthLimit <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "month limit must be greater than zero")
	}
	if month < 1 || month > 12 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "month must be between 1 and 12")
	}

	category, err := s.categoryService.GetCategoryByID(ctx, userID, categoryID)
	if err != nil {
		return nil, err
	}
	if category.AppliesTo == models.CategoryAppliesToIncome {
		return nil, apperrors.WithMessage(apperrors.ErrCategoryKindMismatch, "budgets track spending; category applies to income only")
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Budget{}).
		Where("user_id = ? AND category_id = ? AND month = ? AND year = ?", userID, categoryID, month, year).
		Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateBudget
	}

	budget := &models.Budget{
		UserID:     userID,
		CategoryID: category.ID,
		MonthLimit: monthLimit,
		Month:      month,
		Year:       year,
	}
	if err := s.db.WithContext(ctx).Create(budget).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	budget.Category = *category
	return budget, nil
}

// GetMonthBudgets retrieves one month's budgets with derived consumption
// and the screen-level totals. When activeOnly is set, budgets that have
// reached 100% are filtered out; the totals still cover every budget of
// the month.
func (s *budgetService) GetMonthBudgets(ctx context.Context, userID string, month, year int, activeOnly bool) (*BudgetListing, error) {
	if month < 1 || month > 12 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "month must be between 1 and 12")
	}

	var budgets []models.Budget
	if err := s.db.WithContext(ctx).
		Preload("Category").
		Where("user_id = ? AND month = ? AND year = ?", userID, month, year).
		Order("created_at ASC").
		Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	listing := &BudgetListing{Budgets: []BudgetWithStatus{}}
	for i := range budgets {
		spent, err := s.categorySpent(ctx, userID, budgets[i].CategoryID, month, year)
		if err != nil {
			return nil, err
		}
		status := reports.ComputeBudgetStatus(budgets[i].MonthLimit, spent)
		listing.TotalLimit += budgets[i].MonthLimit
		listing.TotalSpent += spent
		if activeOnly && !status.Active() {
			continue
		}
		listing.Budgets = append(listing.Budgets, BudgetWithStatus{Budget: budgets[i], Status: status})
	}
	listing.OverallPercent = reports.ComputeBudgetStatus(listing.TotalLimit, listing.TotalSpent).Percent
	return listing, nil
}

// GetBudgetStatus retrieves one budget with its derived consumption.
func (s *budgetService) GetBudgetStatus(ctx context.Context, userID, budgetID string) (*BudgetWithStatus, error) {
	budget, err := s.getBudget(ctx, userID, budgetID)
	if err != nil {
		return nil, err
	}
	spent, err := s.categorySpent(ctx, userID, budget.CategoryID, budget.Month, budget.Year)
	if err != nil {
		return nil, err
	}
	return &BudgetWithStatus{
		Budget: *budget,
		Status: reports.ComputeBudgetStatus(budget.MonthLimit, spent),
	}, nil
}

// UpdateBudget changes a budget's limit. Category, month, and year are
// fixed at creation; delete and recreate to move a budget.
func (s *budgetService) UpdateBudget(ctx context.Context, userID, budgetID string, monthLimit *int64) (*models.Budget, error) {
	budget, err := s.getBudget(ctx, userID, budgetID)
	if err != nil {
		return nil, err
	}
	if monthLimit == nil {
		return budget, nil
	}
	if *monthLimit <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "month limit must be greater than zero")
	}
	if err := s.db.WithContext(ctx).Model(budget).Update("month_limit", *monthLimit).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	budget.MonthLimit = *monthLimit
	return budget, nil
}

// DeleteBudget deletes a budget. The category and its transactions are
// untouched. The row is removed outright rather than soft-deleted: no
// budget history is kept, and a lingering row would hold the
// (category, month, year) slot against recreation.
func (s *budgetService) DeleteBudget(ctx context.Context, userID, budgetID string) error {
	budget, err := s.getBudget(ctx, userID, budgetID)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Unscoped().Delete(budget).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

func (s *budgetService) getBudget(ctx context.Context, userID, budgetID string) (*models.Budget, error) {
	var budget models.Budget
	if err := s.db.WithContext(ctx).
		Preload("Category").
		Where("id = ? AND user_id = ?", budgetID, userID).
		First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// categorySpent sums the month's expense transactions in one category.
func (s *budgetService) categorySpent(ctx context.Context, userID, categoryID string, month, year int) (int64, error) {
	anchor := time.Date(year, time.Month(month), 1, 12, 0, 0, 0, time.UTC)
	start, end := reports.MonthWindow(anchor, 0)

	var spent int64
	if err := s.db.WithContext(ctx).Model(&models.Transaction{}).
		Where("user_id = ? AND category_id = ? AND kind = ? AND date >= ? AND date <= ?",
			userID, categoryID, models.TransactionKindExpense, start, end).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&spent).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return spent, nil
}
