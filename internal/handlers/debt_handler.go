package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "lempira/internal/errors"
	"lempira/internal/models"
	"lempira/internal/money"
	"lempira/internal/reports"
	"lempira/internal/services"
)

// DebtHandler handles debt-related requests
type DebtHandler struct {
	debtService  services.DebtServicer
	auditService services.AuditServicer
}

// NewDebtHandler creates a new DebtHandler
func NewDebtHandler(debtService services.DebtServicer, auditService services.AuditServicer) *DebtHandler {
	return &DebtHandler{debtService: debtService, auditService: auditService}
}

// CreateDebtRequest represents the debt creation request payload.
// Amounts are decimal strings parsed into minor units.
type CreateDebtRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Kind        string `json:"kind" binding:"required,debt_kind"`
	TotalAmount string `json:"total_amount" binding:"required"`
	PaidAmount  string `json:"paid_amount" binding:"omitempty"`
	DueDate     string `json:"due_date" binding:"omitempty"`
}

// UpdateDebtRequest represents the debt update request payload
type UpdateDebtRequest struct {
	Name      *string `json:"name" binding:"omitempty,max=100"`
	DueDate   *string `json:"due_date" binding:"omitempty"`
	Completed *bool   `json:"completed"`
}

// RecordPaymentRequest represents the partial payment request payload
type RecordPaymentRequest struct {
	Amount string `json:"amount" binding:"required"`
}

// CreateDebt handles debt creation
// @Summary     Create a debt
// @Description Track an amount owed by or to the user, optionally with an initial paid amount and due date
// @Tags        debts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateDebtRequest true "Debt data"
// @Success     201 {object} models.Debt "Debt created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /debts [post]
func (h *DebtHandler) CreateDebt(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateDebtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	totalAmount, err := money.Parse(req.TotalAmount)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid total_amount: "+err.Error()))
		return
	}

	var paidAmount int64
	if req.PaidAmount != "" {
		paidAmount, err = money.Parse(req.PaidAmount)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid paid_amount: "+err.Error()))
			return
		}
	}

	var dueDate *time.Time
	if req.DueDate != "" {
		due, err := reports.ParseDay(req.DueDate)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
			return
		}
		dueDate = &due
	}

	debt, err := h.debtService.CreateDebt(c.Request.Context(), userID, req.Name, models.DebtKind(req.Kind), totalAmount, paidAmount, dueDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "create", "debt", debt.ID, c.ClientIP(), map[string]interface{}{
		"name": debt.Name,
		"kind": debt.Kind,
	})

	c.JSON(http.StatusCreated, debt)
}

// GetDebts handles listing the user's debts
// @Summary     List debts
// @Description List the user's debts with derived progress and the owed-by-me / owed-to-me totals
// @Tags        debts
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.DebtListing "Debts with totals"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /debts [get]
func (h *DebtHandler) GetDebts(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	listing, err := h.debtService.GetUserDebts(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, listing)
}

// GetDebt handles retrieving a single debt
// @Summary     Get a debt
// @Description Get one debt by ID
// @Tags        debts
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Debt ID"
// @Success     200 {object} models.Debt "Debt"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Debt not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /debts/{id} [get]
func (h *DebtHandler) GetDebt(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	debtID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	debt, err := h.debtService.GetDebtByID(c.Request.Context(), userID, debtID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, debt)
}

// RecordPayment handles partial payments against a debt
// @Summary     Record a debt payment
// @Description Add a partial payment; paying the total or more marks the debt completed
// @Tags        debts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Debt ID"
// @Param       request body RecordPaymentRequest true "Payment amount"
// @Success     200 {object} models.Debt "Updated debt"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Debt not found"
// @Failure     409 {object} ErrorResponse "Debt already completed"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /debts/{id}/payment [put]
func (h *DebtHandler) RecordPayment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	debtID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	amount, err := money.Parse(req.Amount)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid amount: "+err.Error()))
		return
	}

	debt, err := h.debtService.RecordPayment(c.Request.Context(), userID, debtID, amount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "payment", "debt", debt.ID, c.ClientIP(), map[string]interface{}{
		"amount":      amount,
		"paid_amount": debt.PaidAmount,
		"completed":   debt.Completed,
	})

	c.JSON(http.StatusOK, debt)
}

// UpdateDebt handles debt updates
// @Summary     Update a debt
// @Description Update a debt's name, due date, or completed flag
// @Tags        debts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Debt ID"
// @Param       request body UpdateDebtRequest true "Fields to update"
// @Success     200 {object} models.Debt "Updated debt"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Debt not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /debts/{id} [put]
func (h *DebtHandler) UpdateDebt(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	debtID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateDebtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	fields := services.DebtUpdateFields{Name: req.Name, Completed: req.Completed}
	if req.DueDate != nil && *req.DueDate != "" {
		due, err := reports.ParseDay(*req.DueDate)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
			return
		}
		fields.DueDate = &due
	}

	debt, err := h.debtService.UpdateDebt(c.Request.Context(), userID, debtID, fields)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "update", "debt", debt.ID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, debt)
}

// DeleteDebt handles debt deletion
// @Summary     Delete a debt
// @Description Delete a debt
// @Tags        debts
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Debt ID"
// @Success     204 "Debt deleted"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Debt not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /debts/{id} [delete]
func (h *DebtHandler) DeleteDebt(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	debtID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.debtService.DeleteDebt(c.Request.Context(), userID, debtID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "delete", "debt", debtID, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}
