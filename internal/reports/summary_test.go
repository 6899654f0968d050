package reports

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"lempira/internal/models"
)

func TestSummarize(t *testing.T) {
	t.Run("income_expense_net", func(t *testing.T) {
		txs := []models.Transaction{
			tx(models.TransactionKindIncome, 150000, day(2026, time.April, 1)),
			tx(models.TransactionKindExpense, 40000, day(2026, time.April, 5)),
			tx(models.TransactionKindExpense, 10000, day(2026, time.April, 9)),
		}
		s := Summarize(txs)

		assert.Equal(t, int64(150000), s.Income)
		assert.Equal(t, int64(50000), s.Expense)
		assert.Equal(t, int64(100000), s.Net)
	})

	t.Run("transfer_cancels_in_net", func(t *testing.T) {
		txs := []models.Transaction{
			tx(models.TransactionKindTransfer, 30000, day(2026, time.April, 2)),
		}
		s := Summarize(txs)

		assert.Equal(t, int64(30000), s.Income)
		assert.Equal(t, int64(30000), s.Expense)
		assert.Zero(t, s.Net)
	})

	t.Run("empty", func(t *testing.T) {
		s := Summarize(nil)
		assert.Zero(t, s.Income)
		assert.Zero(t, s.Expense)
		assert.Zero(t, s.Net)
	})
}

func TestWalletBalance(t *testing.T) {
	const walletID = "wallet-a"
	const otherID = "wallet-b"

	walletTx := func(kind models.TransactionKind, amount int64) models.Transaction {
		return models.Transaction{WalletID: walletID, Kind: kind, Amount: amount}
	}

	t.Run("replay_over_initial", func(t *testing.T) {
		txs := []models.Transaction{
			walletTx(models.TransactionKindIncome, 2000),
			walletTx(models.TransactionKindExpense, 1500),
		}
		assert.Equal(t, int64(5500), WalletBalance(5000, walletID, txs))
	})

	t.Run("order_never_matters", func(t *testing.T) {
		txs := []models.Transaction{
			walletTx(models.TransactionKindIncome, 2000),
			walletTx(models.TransactionKindExpense, 1500),
			walletTx(models.TransactionKindIncome, 700),
			walletTx(models.TransactionKindExpense, 300),
		}
		want := WalletBalance(5000, walletID, txs)

		r := rand.New(rand.NewSource(1))
		for i := 0; i < 20; i++ {
			r.Shuffle(len(txs), func(a, b int) { txs[a], txs[b] = txs[b], txs[a] })
			assert.Equal(t, want, WalletBalance(5000, walletID, txs))
		}
	})

	t.Run("transfer_legs", func(t *testing.T) {
		to := otherID
		out := models.Transaction{WalletID: walletID, ToWalletID: &to, Kind: models.TransactionKindTransfer, Amount: 1000}

		assert.Equal(t, int64(4000), WalletBalance(5000, walletID, []models.Transaction{out}))
		assert.Equal(t, int64(1000), WalletBalance(0, otherID, []models.Transaction{out}))
	})

	t.Run("unrelated_wallet_ignored", func(t *testing.T) {
		txs := []models.Transaction{
			{WalletID: otherID, Kind: models.TransactionKindExpense, Amount: 9999},
		}
		assert.Equal(t, int64(5000), WalletBalance(5000, walletID, txs))
	})
}

func TestComputeBudgetStatus(t *testing.T) {
	t.Run("under_limit", func(t *testing.T) {
		st := ComputeBudgetStatus(100000, 40000)
		assert.Equal(t, float64(40), st.Percent)
		assert.Equal(t, int64(60000), st.Remaining)
		assert.Zero(t, st.ExceededBy)
		assert.True(t, st.Active())
	})

	t.Run("exceeded_clamps_at_hundred", func(t *testing.T) {
		st := ComputeBudgetStatus(100000, 120000)
		assert.Equal(t, float64(100), st.Percent)
		assert.Equal(t, int64(20000), st.ExceededBy)
		assert.Zero(t, st.Remaining)
		assert.False(t, st.Active())
	})

	t.Run("exactly_at_limit", func(t *testing.T) {
		st := ComputeBudgetStatus(100000, 100000)
		assert.Equal(t, float64(100), st.Percent)
		assert.Zero(t, st.Remaining)
		assert.Zero(t, st.ExceededBy)
		assert.False(t, st.Active())
	})

	t.Run("percent_is_monotone_then_flat", func(t *testing.T) {
		prev := float64(-1)
		for spent := int64(0); spent <= 200000; spent += 10000 {
			st := ComputeBudgetStatus(100000, spent)
			assert.GreaterOrEqual(t, st.Percent, prev)
			assert.LessOrEqual(t, st.Percent, float64(100))
			prev = st.Percent
		}
	})
}

func TestComputeDebtStatus(t *testing.T) {
	today := time.Date(2026, time.April, 15, 12, 0, 0, 0, time.UTC)

	t.Run("partial_progress", func(t *testing.T) {
		st := ComputeDebtStatus(models.Debt{TotalAmount: 100000, PaidAmount: 25000}, today)
		assert.Equal(t, int64(75000), st.Remaining)
		assert.Equal(t, float64(25), st.PercentPaid)
		assert.False(t, st.Overdue)
	})

	t.Run("overpayment_clamps", func(t *testing.T) {
		st := ComputeDebtStatus(models.Debt{TotalAmount: 100000, PaidAmount: 130000}, today)
		assert.Equal(t, float64(100), st.PercentPaid)
		assert.Equal(t, int64(-30000), st.Remaining)
	})

	t.Run("overdue_when_past_due_and_open", func(t *testing.T) {
		due := today.AddDate(0, 0, -1)
		st := ComputeDebtStatus(models.Debt{TotalAmount: 100000, DueDate: &due}, today)
		assert.True(t, st.Overdue)
	})

	t.Run("completed_never_overdue", func(t *testing.T) {
		due := today.AddDate(0, 0, -30)
		st := ComputeDebtStatus(models.Debt{TotalAmount: 100000, PaidAmount: 100000, DueDate: &due, Completed: true}, today)
		assert.False(t, st.Overdue)
	})

	t.Run("future_due_date_not_overdue", func(t *testing.T) {
		due := today.AddDate(0, 1, 0)
		st := ComputeDebtStatus(models.Debt{TotalAmount: 100000, DueDate: &due}, today)
		assert.False(t, st.Overdue)
	})
}
