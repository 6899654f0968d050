package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	apperrors "lempira/internal/errors"
	"lempira/internal/models"
	"lempira/internal/reports"
)

// reportService runs the aggregation reports: it fetches the relevant
// transaction window and hands the arithmetic to the reports package.
type reportService struct {
	db *gorm.DB
}

// NewReportService creates a new ReportServicer.
func NewReportService(db *gorm.DB) ReportServicer {
	return &reportService{db: db}
}

// Calendar builds the heat-map grid for one month.
func (s *reportService) Calendar(ctx context.Context, userID string, month time.Month, year int) (*reports.CalendarMonth, error) {
	if month < time.January || month > time.December {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "month must be between 1 and 12")
	}

	txs, err := s.monthTransactions(ctx, userID, month, year, false)
	if err != nil {
		return nil, err
	}
	calendar := reports.BuildCalendar(txs, month, year)
	return &calendar, nil
}

// CategoryBreakdown builds the pie-chart grouping for one month and kind.
func (s *reportService) CategoryBreakdown(ctx context.Context, userID string, kind models.TransactionKind, month time.Month, year int) ([]reports.CategoryGroup, error) {
	if kind != models.TransactionKindIncome && kind != models.TransactionKindExpense {
		return nil, apperrors.ErrInvalidTransactionKind
	}
	if month < time.January || month > time.December {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "month must be between 1 and 12")
	}

	txs, err := s.monthTransactions(ctx, userID, month, year, true)
	if err != nil {
		return nil, err
	}
	return reports.CategoryBreakdown(txs, kind), nil
}

// MonthlySummary totals the month at the given whole-month offset from
// now. Offset 0 is the current month and negative offsets move back;
// the dashboard never navigates into the future, so positive offsets
// are rejected.
func (s *reportService) MonthlySummary(ctx context.Context, userID string, offset int) (*MonthSummaryReport, error) {
	if offset > 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "offset must be zero or negative")
	}

	start, end := reports.MonthWindow(time.Now(), offset)

	var txs []models.Transaction
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date <= ?", userID, start, end).
		Find(&txs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &MonthSummaryReport{
		Year:    start.Year(),
		Month:   start.Month(),
		Offset:  offset,
		Summary: reports.Summarize(txs),
	}, nil
}

func (s *reportService) monthTransactions(ctx context.Context, userID string, month time.Month, year int, withCategory bool) ([]models.Transaction, error) {
	anchor := time.Date(year, month, 1, 12, 0, 0, 0, time.UTC)
	start, end := reports.MonthWindow(anchor, 0)

	q := s.db.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date <= ?", userID, start, end)
	if withCategory {
		q = q.Preload("Category")
	}

	var txs []models.Transaction
	if err := q.Find(&txs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return txs, nil
}
