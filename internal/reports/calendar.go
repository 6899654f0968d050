// Package reports contains the client-facing financial aggregation
// arithmetic: calendar heat-map totals, category breakdowns, wallet
// balance derivation, budget consumption, and debt progress. Everything
// here is a pure function over fetched records; persistence and HTTP live
// elsewhere.
package reports

import (
	"time"

	"lempira/internal/models"
	"lempira/internal/money"
)

// DayTotals holds the income and expense sums for one calendar day.
type DayTotals struct {
	Income  int64 `json:"income"`
	Expense int64 `json:"expense"`
}

// Tier classifies a calendar day cell for heat-map rendering. Expense
// days are bucketed by their share of the month's busiest expense day;
// a day with income and no expense is always the income tier, whatever
// the amount.
type Tier string

const (
	TierNoActivity Tier = "none"
	TierIncome     Tier = "income"
	TierFaint      Tier = "faint"
	TierLow        Tier = "low"
	TierMedium     Tier = "medium"
	TierHigh       Tier = "high"
)

// DailyTotals groups transactions of the target month into per-day
// income/expense totals. Days without transactions are absent from the
// map; callers treat absence as zero. Future days are included — visual
// suppression of days past today is the caller's concern, not this
// function's.
//
// A transfer contributes its amount to both buckets: the expense leg on
// the source wallet and the income leg on the destination are the same
// row.
func DailyTotals(txs []models.Transaction, month time.Month, year int) map[int]DayTotals {
	byDay := make(map[int]DayTotals)
	for _, t := range txs {
		if t.Date.Month() != month || t.Date.Year() != year {
			continue
		}
		d := byDay[t.Date.Day()]
		switch t.Kind {
		case models.TransactionKindIncome:
			d.Income += t.Amount
		case models.TransactionKindExpense:
			d.Expense += t.Amount
		case models.TransactionKindTransfer:
			d.Income += t.Amount
			d.Expense += t.Amount
		}
		byDay[t.Date.Day()] = d
	}
	return byDay
}

// MaxExpense returns the largest per-day expense total, floored at 1 so
// intensity division is always defined.
func MaxExpense(byDay map[int]DayTotals) int64 {
	max := int64(1)
	for _, d := range byDay {
		if d.Expense > max {
			max = d.Expense
		}
	}
	return max
}

// DayTier classifies one day against the month's expense maximum.
func DayTier(d DayTotals, maxExpense int64) Tier {
	if d.Income == 0 && d.Expense == 0 {
		return TierNoActivity
	}
	if d.Income > 0 && d.Expense == 0 {
		return TierIncome
	}
	if maxExpense < 1 {
		maxExpense = 1
	}
	intensity := float64(d.Expense) / float64(maxExpense)
	if intensity > 1 {
		intensity = 1
	}
	switch {
	case intensity > 0.7:
		return TierHigh
	case intensity > 0.4:
		return TierMedium
	case intensity > 0.1:
		return TierLow
	default:
		return TierFaint
	}
}

// CalendarCell is one grid cell. Day 0 marks a padding blank.
type CalendarCell struct {
	Day          int    `json:"day"`
	Income       int64  `json:"income"`
	Expense      int64  `json:"expense"`
	Tier         Tier   `json:"tier"`
	IncomeLabel  string `json:"income_label,omitempty"`
	ExpenseLabel string `json:"expense_label,omitempty"`
}

// CalendarMonth is the full heat-map grid for one month: weeks of seven
// cells, Monday first, leading and trailing blanks padding the month to
// whole weeks.
type CalendarMonth struct {
	Year       int            `json:"year"`
	Month      time.Month     `json:"month"`
	Weeks      [][7]CalendarCell `json:"weeks"`
	MaxExpense int64          `json:"max_expense"`
}

// BuildCalendar lays out the month's transactions as a heat-map grid.
func BuildCalendar(txs []models.Transaction, month time.Month, year int) CalendarMonth {
	byDay := DailyTotals(txs, month, year)
	maxExpense := MaxExpense(byDay)

	firstWeekday := time.Date(year, month, 1, 12, 0, 0, 0, time.UTC).Weekday()
	// Monday-start offset: Monday contributes no blanks, Sunday six.
	leading := (int(firstWeekday) + 6) % 7
	days := DaysIn(month, year)

	total := leading + days
	if total%7 != 0 {
		total += 7 - total%7
	}

	weeks := make([][7]CalendarCell, 0, total/7)
	var week [7]CalendarCell
	for i := 0; i < total; i++ {
		day := i - leading + 1
		cell := CalendarCell{}
		if day >= 1 && day <= days {
			d := byDay[day]
			cell = CalendarCell{
				Day:          day,
				Income:       d.Income,
				Expense:      d.Expense,
				Tier:         DayTier(d, maxExpense),
				ExpenseLabel: money.Abbreviate(d.Expense),
			}
			if d.Income > 0 {
				cell.IncomeLabel = "+" + money.Abbreviate(d.Income)
			}
		}
		week[i%7] = cell
		if i%7 == 6 {
			weeks = append(weeks, week)
			week = [7]CalendarCell{}
		}
	}

	return CalendarMonth{
		Year:       year,
		Month:      month,
		Weeks:      weeks,
		MaxExpense: maxExpense,
	}
}
