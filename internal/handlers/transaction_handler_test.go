package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "lempira/internal/errors"
	"lempira/internal/models"
	"lempira/internal/pagination"
	"lempira/internal/services"
	"lempira/internal/uuid"
)

// --- mock transaction service ---

type mockTransactionService struct {
	createTransactionFn     func(userID, walletID string, categoryID *string, kind models.TransactionKind, amount int64, description string, date time.Time) (*models.Transaction, error)
	createTransferFn        func(userID, fromWalletID, toWalletID string, amount int64, description string, date time.Time) (*models.Transaction, error)
	getUserTransactionsFn   func(userID string, page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	getWalletTransactionsFn func(userID, walletID string, page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	getTransactionByIDFn    func(userID, transactionID string) (*models.Transaction, error)
	deleteTransactionFn     func(userID, transactionID string) error
}

func (m *mockTransactionService) CreateTransaction(_ context.Context, userID, walletID string, categoryID *string, kind models.TransactionKind, amount int64, description string, date time.Time) (*models.Transaction, error) {
	if m.createTransactionFn != nil {
		return m.createTransactionFn(userID, walletID, categoryID, kind, amount, description, date)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) CreateTransfer(_ context.Context, userID, fromWalletID, toWalletID string, amount int64, description string, date time.Time) (*models.Transaction, error) {
	if m.createTransferFn != nil {
		return m.createTransferFn(userID, fromWalletID, toWalletID, amount, description, date)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) GetUserTransactions(_ context.Context, userID string, page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	if m.getUserTransactionsFn != nil {
		return m.getUserTransactionsFn(userID, page, filter)
	}
	resp := pagination.NewPageResponse([]models.Transaction{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockTransactionService) GetWalletTransactions(_ context.Context, userID, walletID string, page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	if m.getWalletTransactionsFn != nil {
		return m.getWalletTransactionsFn(userID, walletID, page, filter)
	}
	resp := pagination.NewPageResponse([]models.Transaction{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockTransactionService) GetTransactionByID(_ context.Context, userID, transactionID string) (*models.Transaction, error) {
	if m.getTransactionByIDFn != nil {
		return m.getTransactionByIDFn(userID, transactionID)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) DeleteTransaction(_ context.Context, userID, transactionID string) error {
	if m.deleteTransactionFn != nil {
		return m.deleteTransactionFn(userID, transactionID)
	}
	return nil
}

var _ services.TransactionServicer = (*mockTransactionService)(nil)

func setupTransactionRouter(handler *TransactionHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID("user-1"))
	auth.POST("/transactions", handler.CreateTransaction)
	auth.GET("/transactions", handler.GetTransactions)
	auth.GET("/transactions/:id", handler.GetTransaction)
	auth.DELETE("/transactions/:id", handler.DeleteTransaction)
	return r
}

func TestTransactionHandler_CreateTransaction(t *testing.T) {
	t.Run("returns 201 and parses amount and date", func(t *testing.T) {
		var gotAmount int64
		var gotDate time.Time
		txSvc := &mockTransactionService{
			createTransactionFn: func(_, walletID string, _ *string, kind models.TransactionKind, amount int64, _ string, date time.Time) (*models.Transaction, error) {
				gotAmount = amount
				gotDate = date
				tx := &models.Transaction{WalletID: walletID, Kind: kind, Amount: amount}
				tx.ID = uuid.New()
				return tx, nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(txSvc, &mockAuditService{}))

		rec := doRequest(r, http.MethodPost, "/transactions",
			`{"wallet_id":"`+uuid.New()+`","kind":"expense","amount":"125.50","description":"Groceries","date":"2026-08-15"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotAmount != 12550 {
			t.Errorf("expected amount 12550 cents, got %d", gotAmount)
		}
		if gotDate.Year() != 2026 || gotDate.Month() != time.August || gotDate.Day() != 15 {
			t.Errorf("unexpected date %v", gotDate)
		}
	})

	t.Run("routes transfers to CreateTransfer", func(t *testing.T) {
		from := uuid.New()
		to := uuid.New()
		var gotFrom, gotTo string
		txSvc := &mockTransactionService{
			createTransferFn: func(_, fromWalletID, toWalletID string, amount int64, _ string, _ time.Time) (*models.Transaction, error) {
				gotFrom = fromWalletID
				gotTo = toWalletID
				tx := &models.Transaction{WalletID: fromWalletID, ToWalletID: &toWalletID, Kind: models.TransactionKindTransfer, Amount: amount}
				tx.ID = uuid.New()
				return tx, nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(txSvc, &mockAuditService{}))

		rec := doRequest(r, http.MethodPost, "/transactions",
			`{"wallet_id":"`+from+`","to_wallet_id":"`+to+`","kind":"transfer","amount":"300"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotFrom != from || gotTo != to {
			t.Errorf("expected transfer %s -> %s, got %s -> %s", from, to, gotFrom, gotTo)
		}
	})

	t.Run("returns 400 on transfer without destination", func(t *testing.T) {
		r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}, &mockAuditService{}))

		rec := doRequest(r, http.MethodPost, "/transactions",
			`{"wallet_id":"`+uuid.New()+`","kind":"transfer","amount":"300"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		if errorCode(t, rec) != "MISSING_TRANSFER_WALLET" {
			t.Errorf("unexpected error code %s", errorCode(t, rec))
		}
	})

	t.Run("returns 400 on unknown kind", func(t *testing.T) {
		r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}, &mockAuditService{}))

		rec := doRequest(r, http.MethodPost, "/transactions",
			`{"wallet_id":"`+uuid.New()+`","kind":"refund","amount":"10"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on negative amount", func(t *testing.T) {
		r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}, &mockAuditService{}))

		rec := doRequest(r, http.MethodPost, "/transactions",
			`{"wallet_id":"`+uuid.New()+`","kind":"expense","amount":"-5.00"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestTransactionHandler_GetTransactions(t *testing.T) {
	t.Run("passes filters through", func(t *testing.T) {
		var gotFilter services.TransactionFilter
		txSvc := &mockTransactionService{
			getUserTransactionsFn: func(_ string, page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
				gotFilter = filter
				resp := pagination.NewPageResponse([]models.Transaction{}, page.Page, page.PageSize, 0)
				return &resp, nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(txSvc, &mockAuditService{}))

		rec := doRequest(r, http.MethodGet, "/transactions?kind=expense&from=2026-08-01&to=2026-08-31", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotFilter.Kind == nil || *gotFilter.Kind != models.TransactionKindExpense {
			t.Errorf("expected expense kind filter, got %v", gotFilter.Kind)
		}
		if gotFilter.FromDate == nil || gotFilter.FromDate.Hour() != 0 {
			t.Errorf("expected from widened to start of day, got %v", gotFilter.FromDate)
		}
		if gotFilter.ToDate == nil || gotFilter.ToDate.Hour() != 23 {
			t.Errorf("expected to widened to end of day, got %v", gotFilter.ToDate)
		}
	})

	t.Run("returns 400 on unknown kind filter", func(t *testing.T) {
		r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}, &mockAuditService{}))

		rec := doRequest(r, http.MethodGet, "/transactions?kind=refund", "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestTransactionHandler_DeleteTransaction(t *testing.T) {
	t.Run("returns 204 on success", func(t *testing.T) {
		deleted := false
		txSvc := &mockTransactionService{
			deleteTransactionFn: func(_, _ string) error {
				deleted = true
				return nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(txSvc, &mockAuditService{}))

		rec := doRequest(r, http.MethodDelete, "/transactions/"+uuid.New(), "")
		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
		if !deleted {
			t.Error("expected delete to reach the service")
		}
	})

	t.Run("returns 404 when transaction is missing", func(t *testing.T) {
		txSvc := &mockTransactionService{
			deleteTransactionFn: func(_, _ string) error {
				return apperrors.ErrTransactionNotFound
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(txSvc, &mockAuditService{}))

		rec := doRequest(r, http.MethodDelete, "/transactions/"+uuid.New(), "")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}
