package reports

import (
	"time"

	"lempira/internal/models"
)

// MonthlySummary is the dashboard header for one month window.
type MonthlySummary struct {
	Income  int64 `json:"income"`
	Expense int64 `json:"expense"`
	Net     int64 `json:"net"`
}

// Summarize totals the given (already month-windowed) transactions.
// A transfer contributes its amount to both sides and so cancels in Net.
func Summarize(txs []models.Transaction) MonthlySummary {
	var s MonthlySummary
	for _, t := range txs {
		switch t.Kind {
		case models.TransactionKindIncome:
			s.Income += t.Amount
		case models.TransactionKindExpense:
			s.Expense += t.Amount
		case models.TransactionKindTransfer:
			s.Income += t.Amount
			s.Expense += t.Amount
		}
	}
	s.Net = s.Income - s.Expense
	return s
}

// WalletBalance derives a wallet's balance by replaying its transaction
// log over the initial balance. The reduction is a commutative int64 sum,
// so transaction order never changes the result. Transfer rows count as
// the expense leg when the wallet is the source and the income leg when
// it is the destination.
func WalletBalance(initial int64, walletID string, txs []models.Transaction) int64 {
	balance := initial
	for i := range txs {
		t := &txs[i]
		if t.CreditsWallet(walletID) {
			balance += t.Amount
		} else if t.DebitsWallet(walletID) {
			balance -= t.Amount
		}
	}
	return balance
}

// BudgetStatus is the derived consumption of one budget.
type BudgetStatus struct {
	Limit      int64   `json:"limit"`
	Spent      int64   `json:"spent"`
	Remaining  int64   `json:"remaining"`
	ExceededBy int64   `json:"exceeded_by"`
	Percent    float64 `json:"percent"`
}

// ComputeBudgetStatus clamps percent at 100: an exceeded budget shows
// 100% with the overrun reported separately in ExceededBy.
func ComputeBudgetStatus(limit, spent int64) BudgetStatus {
	st := BudgetStatus{Limit: limit, Spent: spent}
	if limit > 0 {
		st.Percent = float64(spent) / float64(limit) * 100
		if st.Percent > 100 {
			st.Percent = 100
		}
	}
	if spent > limit {
		st.ExceededBy = spent - limit
	} else {
		st.Remaining = limit - spent
	}
	return st
}

// Active reports whether the budget still has headroom. The budget list
// partitions on this: "active" keeps percent < 100, "all" keeps everything.
func (s BudgetStatus) Active() bool {
	return s.Percent < 100
}

// DebtStatus is the derived progress of one debt.
type DebtStatus struct {
	Remaining   int64   `json:"remaining"`
	PercentPaid float64 `json:"percent_paid"`
	Overdue     bool    `json:"overdue"`
}

// ComputeDebtStatus derives remaining and clamped percent-paid; a debt
// is overdue when its due date has passed and it is not completed.
// Over-payment never pushes PercentPaid past 100.
func ComputeDebtStatus(d models.Debt, today time.Time) DebtStatus {
	st := DebtStatus{Remaining: d.TotalAmount - d.PaidAmount}
	if d.TotalAmount > 0 {
		st.PercentPaid = float64(d.PaidAmount) / float64(d.TotalAmount) * 100
		if st.PercentPaid > 100 {
			st.PercentPaid = 100
		}
	}
	if d.DueDate != nil && d.DueDate.Before(today) && !d.Completed {
		st.Overdue = true
	}
	return st
}
