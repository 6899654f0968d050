package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "lempira/internal/errors"
	"lempira/internal/models"
	"lempira/internal/services"
)

// ReportHandler serves the aggregation reports: calendar heat-map,
// category breakdown, and the monthly summary.
type ReportHandler struct {
	reportService services.ReportServicer
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService services.ReportServicer) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// monthYearParams reads the month/year query pair, defaulting to the
// current month.
func monthYearParams(c *gin.Context) (time.Month, int, error) {
	now := time.Now()
	month := int(now.Month())
	year := now.Year()

	if v := c.Query("month"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil {
			return 0, 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid month")
		}
		month = m
	}
	if v := c.Query("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			return 0, 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid year")
		}
		year = y
	}
	return time.Month(month), year, nil
}

// GetCalendar handles the calendar heat-map report
// @Summary     Calendar heat-map
// @Description Month grid of per-day income/expense totals with heat tiers, Monday first
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       month query int false "Month (1-12, defaults to current)"
// @Param       year query int false "Year (defaults to current)"
// @Success     200 {object} reports.CalendarMonth "Calendar grid"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/calendar [get]
func (h *ReportHandler) GetCalendar(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	month, year, err := monthYearParams(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	calendar, err := h.reportService.Calendar(c.Request.Context(), userID, month, year)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, calendar)
}

// GetCategoryBreakdown handles the category breakdown report
// @Summary     Category breakdown
// @Description Month totals grouped by category for one kind, long tail folded into "Other"
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       kind query string true "Transaction kind (income or expense)"
// @Param       month query int false "Month (1-12, defaults to current)"
// @Param       year query int false "Year (defaults to current)"
// @Success     200 {array} reports.CategoryGroup "Category groups"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/categories [get]
func (h *ReportHandler) GetCategoryBreakdown(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	kind := models.TransactionKind(c.DefaultQuery("kind", string(models.TransactionKindExpense)))

	month, year, err := monthYearParams(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	groups, err := h.reportService.CategoryBreakdown(c.Request.Context(), userID, kind, month, year)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

// GetMonthlySummary handles the monthly summary report
// @Summary     Monthly summary
// @Description Income, expense, and net for the month at the given offset; 0 is the current month, negative moves back
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       offset query int false "Whole-month offset, zero or negative"
// @Success     200 {object} services.MonthSummaryReport "Summary"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/summary [get]
func (h *ReportHandler) GetMonthlySummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	offset := 0
	if v := c.Query("offset"); v != "" {
		offset, err = strconv.Atoi(v)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid offset"))
			return
		}
	}

	summary, err := h.reportService.MonthlySummary(c.Request.Context(), userID, offset)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
