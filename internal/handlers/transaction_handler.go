package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "lempira/internal/errors"
	"lempira/internal/models"
	"lempira/internal/money"
	"lempira/internal/pagination"
	"lempira/internal/reports"
	"lempira/internal/services"
)

// TransactionHandler handles transaction-related requests
type TransactionHandler struct {
	transactionService services.TransactionServicer
	auditService       services.AuditServicer
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService services.TransactionServicer, auditService services.AuditServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService, auditService: auditService}
}

// CreateTransactionRequest represents the transaction creation request
// payload. Amount is a decimal string ("125.50") parsed into minor
// units; transfers carry to_wallet_id and no category.
type CreateTransactionRequest struct {
	WalletID    string  `json:"wallet_id" binding:"required,uuid"`
	ToWalletID  *string `json:"to_wallet_id" binding:"omitempty,uuid"`
	CategoryID  *string `json:"category_id" binding:"omitempty,uuid"`
	Kind        string  `json:"kind" binding:"required,transaction_kind"`
	Amount      string  `json:"amount" binding:"required"`
	Description string  `json:"description" binding:"max=500"`
	Date        string  `json:"date" binding:"omitempty"`
}

// CreateTransaction handles transaction creation
// @Summary     Create a transaction
// @Description Record an income, expense, or transfer. Transfers are a single row carrying both wallets.
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateTransactionRequest true "Transaction data"
// @Success     201 {object} models.Transaction "Transaction created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Wallet or category not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	amount, err := money.Parse(req.Amount)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid amount: "+err.Error()))
		return
	}

	var date time.Time
	if req.Date != "" {
		date, err = reports.ParseDay(req.Date)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
			return
		}
	}

	kind := models.TransactionKind(req.Kind)

	var transaction *models.Transaction
	if kind == models.TransactionKindTransfer {
		if req.ToWalletID == nil {
			respondWithError(c, apperrors.ErrMissingTransferWallet)
			return
		}
		transaction, err = h.transactionService.CreateTransfer(c.Request.Context(), userID, req.WalletID, *req.ToWalletID, amount, req.Description, date)
	} else {
		transaction, err = h.transactionService.CreateTransaction(c.Request.Context(), userID, req.WalletID, req.CategoryID, kind, amount, req.Description, date)
	}
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "create", "transaction", transaction.ID, c.ClientIP(), map[string]interface{}{
		"kind":   transaction.Kind,
		"amount": transaction.Amount,
	})

	c.JSON(http.StatusCreated, transaction)
}

// GetTransactions handles listing the user's transactions
// @Summary     List transactions
// @Description List the user's transactions, newest first, with optional kind/category/date filters
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Param       kind query string false "Filter by kind (income, expense, transfer)"
// @Param       category_id query string false "Filter by category"
// @Param       from query string false "Inclusive start date (YYYY-MM-DD)"
// @Param       to query string false "Inclusive end date (YYYY-MM-DD)"
// @Success     200 {object} pagination.PageResponse[models.Transaction] "Transactions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [get]
func (h *TransactionHandler) GetTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter, err := parseTransactionFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.transactionService.GetUserTransactions(c.Request.Context(), userID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetTransaction handles retrieving a single transaction
// @Summary     Get a transaction
// @Description Get one transaction by ID
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     200 {object} models.Transaction "Transaction"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.GetTransactionByID(c.Request.Context(), userID, transactionID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, transaction)
}

// DeleteTransaction handles transaction deletion
// @Summary     Delete a transaction
// @Description Delete a transaction; the wallet balances it touched are re-derived
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     204 "Transaction deleted"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.transactionService.DeleteTransaction(c.Request.Context(), userID, transactionID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "delete", "transaction", transactionID, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}

// parseTransactionFilter reads the optional list filters from the query
// string.
func parseTransactionFilter(c *gin.Context) (services.TransactionFilter, error) {
	var filter services.TransactionFilter

	if v := c.Query("kind"); v != "" {
		kind := models.TransactionKind(v)
		switch kind {
		case models.TransactionKindIncome, models.TransactionKindExpense, models.TransactionKindTransfer:
			filter.Kind = &kind
		default:
			return filter, apperrors.ErrInvalidTransactionKind
		}
	}
	if v := c.Query("category_id"); v != "" {
		categoryID := v
		filter.CategoryID = &categoryID
	}
	if v := c.Query("from"); v != "" {
		from, err := reports.ParseDay(v)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
		}
		// Widen the noon anchor back to the start of the day.
		from = time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
		filter.FromDate = &from
	}
	if v := c.Query("to"); v != "" {
		to, err := reports.ParseDay(v)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
		}
		to = time.Date(to.Year(), to.Month(), to.Day(), 23, 59, 59, 999999999, to.Location())
		filter.ToDate = &to
	}
	return filter, nil
}
