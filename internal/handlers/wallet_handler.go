package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "lempira/internal/errors"
	"lempira/internal/models"
	"lempira/internal/money"
	"lempira/internal/pagination"
	"lempira/internal/services"
)

// WalletHandler handles wallet-related requests
type WalletHandler struct {
	walletService      services.WalletServicer
	transactionService services.TransactionServicer
	auditService       services.AuditServicer
}

// NewWalletHandler creates a new WalletHandler
func NewWalletHandler(walletService services.WalletServicer, transactionService services.TransactionServicer, auditService services.AuditServicer) *WalletHandler {
	return &WalletHandler{
		walletService:      walletService,
		transactionService: transactionService,
		auditService:       auditService,
	}
}

// CreateWalletRequest represents the wallet creation request payload
type CreateWalletRequest struct {
	Name           string `json:"name" binding:"required,max=100"`
	Kind           string `json:"kind" binding:"required,wallet_kind"`
	InitialBalance string `json:"initial_balance" binding:"omitempty"`
	CreditLimit    string `json:"credit_limit" binding:"omitempty"`
	Currency       string `json:"currency" binding:"omitempty,iso4217"`
}

// UpdateWalletRequest represents the wallet update request payload
type UpdateWalletRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=100"`
	IsActive    *bool   `json:"is_active"`
	CreditLimit *string `json:"credit_limit" binding:"omitempty"`
}

// WalletGroup is one wallet-kind section of the list response.
type WalletGroup struct {
	Kind     models.WalletKind            `json:"kind"`
	Wallets  []services.WalletWithBalance `json:"wallets"`
	Subtotal int64                        `json:"subtotal"`
}

// CreateWallet handles wallet creation
// @Summary     Create a wallet
// @Description Create a new wallet for the authenticated user
// @Tags        wallets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateWalletRequest true "Wallet data"
// @Success     201 {object} models.Wallet "Wallet created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /wallets [post]
func (h *WalletHandler) CreateWallet(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var initialBalance int64
	if req.InitialBalance != "" {
		initialBalance, err = money.Parse(req.InitialBalance)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid initial_balance: "+err.Error()))
			return
		}
	}

	var creditLimit *int64
	if req.CreditLimit != "" {
		limit, err := money.Parse(req.CreditLimit)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid credit_limit: "+err.Error()))
			return
		}
		creditLimit = &limit
	}

	wallet, err := h.walletService.CreateWallet(c.Request.Context(), userID, req.Name, models.WalletKind(req.Kind), initialBalance, creditLimit, req.Currency)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "create", "wallet", wallet.ID, c.ClientIP(), map[string]interface{}{
		"name": wallet.Name,
		"kind": wallet.Kind,
	})

	c.JSON(http.StatusCreated, wallet)
}

// GetWallets handles listing the user's wallets
// @Summary     List wallets
// @Description List the user's active wallets with derived balances, grouped by kind, with the overall total
// @Tags        wallets
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]interface{} "Wallet groups and total"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /wallets [get]
func (h *WalletHandler) GetWallets(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	wallets, total, err := h.walletService.GetUserWallets(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	// Group by kind in first-seen order; credit wallets show their
	// balance but stay out of the overall total.
	index := make(map[models.WalletKind]int)
	groups := []WalletGroup{}
	for _, w := range wallets {
		i, ok := index[w.Kind]
		if !ok {
			i = len(groups)
			index[w.Kind] = i
			groups = append(groups, WalletGroup{Kind: w.Kind, Wallets: []services.WalletWithBalance{}})
		}
		groups[i].Wallets = append(groups[i].Wallets, w)
		if w.CountsTowardTotal() {
			groups[i].Subtotal += w.Balance
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"groups":          groups,
		"total":           total,
		"total_formatted": money.Format(total),
	})
}

// GetWallet handles retrieving a single wallet with its balance
// @Summary     Get a wallet
// @Description Get one wallet with its derived balance
// @Tags        wallets
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Wallet ID"
// @Success     200 {object} services.WalletWithBalance "Wallet"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Wallet not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /wallets/{id} [get]
func (h *WalletHandler) GetWallet(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	walletID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	wallet, err := h.walletService.GetWalletByID(c.Request.Context(), userID, walletID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	balance, err := h.walletService.WalletBalance(c.Request.Context(), userID, walletID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, services.WalletWithBalance{Wallet: *wallet, Balance: balance})
}

// UpdateWallet handles wallet updates
// @Summary     Update a wallet
// @Description Update a wallet's name, active flag, or credit limit
// @Tags        wallets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Wallet ID"
// @Param       request body UpdateWalletRequest true "Fields to update"
// @Success     200 {object} models.Wallet "Updated wallet"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Wallet not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /wallets/{id} [put]
func (h *WalletHandler) UpdateWallet(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	walletID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	fields := services.WalletUpdateFields{Name: req.Name, IsActive: req.IsActive}
	if req.CreditLimit != nil {
		limit, err := money.Parse(*req.CreditLimit)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid credit_limit: "+err.Error()))
			return
		}
		fields.CreditLimit = &limit
	}

	wallet, err := h.walletService.UpdateWallet(c.Request.Context(), userID, walletID, fields)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "update", "wallet", wallet.ID, c.ClientIP(), map[string]interface{}{
		"name":      wallet.Name,
		"is_active": wallet.IsActive,
	})

	c.JSON(http.StatusOK, wallet)
}

// GetWalletTransactions handles listing one wallet's transactions
// @Summary     List wallet transactions
// @Description List a wallet's transactions, both legs of transfers included, newest first
// @Tags        wallets
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Wallet ID"
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} pagination.PageResponse[models.Transaction] "Transactions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Wallet not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /wallets/{id}/transactions [get]
func (h *WalletHandler) GetWalletTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	walletID, err := parsePathID(c, "id")
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

	result, err := h.transactionService.GetWalletTransactions(c.Request.Context(), userID, walletID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
