package reports

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lempira/internal/models"
)

func catTx(kind models.TransactionKind, amount int64, category *models.Category) models.Transaction {
	return models.Transaction{
		Kind:     kind,
		Amount:   amount,
		Date:     time.Date(2026, time.April, 10, 12, 0, 0, 0, time.UTC),
		Category: category,
	}
}

func TestCategoryBreakdown(t *testing.T) {
	food := &models.Category{Name: "Food", Icon: "🍔"}
	rent := &models.Category{Name: "Rent", Icon: "🏠"}
	coffee := &models.Category{Name: "Coffee", Icon: "☕"}

	t.Run("groups_and_sorts_descending", func(t *testing.T) {
		txs := []models.Transaction{
			catTx(models.TransactionKindExpense, 3000, food),
			catTx(models.TransactionKindExpense, 7000, rent),
			catTx(models.TransactionKindExpense, 2000, food),
		}
		groups := CategoryBreakdown(txs, models.TransactionKindExpense)

		require.Len(t, groups, 2)
		assert.Equal(t, "Rent", groups[0].Name)
		assert.Equal(t, int64(7000), groups[0].Amount)
		assert.Equal(t, "Food", groups[1].Name)
		assert.Equal(t, int64(5000), groups[1].Amount)
	})

	t.Run("amounts_partition_the_total", func(t *testing.T) {
		txs := []models.Transaction{
			catTx(models.TransactionKindExpense, 9000, rent),
			catTx(models.TransactionKindExpense, 500, food),
			catTx(models.TransactionKindExpense, 300, coffee),
			catTx(models.TransactionKindExpense, 200, nil),
		}
		groups := CategoryBreakdown(txs, models.TransactionKindExpense)

		var sum int64
		for _, g := range groups {
			sum += g.Amount
		}
		assert.Equal(t, int64(10000), sum)
	})

	t.Run("long_tail_folds_into_other", func(t *testing.T) {
		// Total 10000: 5% threshold is 500. Coffee (300) and the
		// uncategorized row (200) are strictly below and fold.
		txs := []models.Transaction{
			catTx(models.TransactionKindExpense, 9000, rent),
			catTx(models.TransactionKindExpense, 500, food),
			catTx(models.TransactionKindExpense, 300, coffee),
			catTx(models.TransactionKindExpense, 200, nil),
		}
		groups := CategoryBreakdown(txs, models.TransactionKindExpense)

		require.Len(t, groups, 3)
		last := groups[len(groups)-1]
		assert.Equal(t, OtherLabel, last.Name)
		assert.Equal(t, int64(500), last.Amount)

		// Food sits exactly at 5% and is NOT folded.
		assert.Equal(t, "Food", groups[1].Name)
	})

	t.Run("no_other_when_nothing_below_threshold", func(t *testing.T) {
		txs := []models.Transaction{
			catTx(models.TransactionKindExpense, 5000, food),
			catTx(models.TransactionKindExpense, 5000, rent),
		}
		groups := CategoryBreakdown(txs, models.TransactionKindExpense)

		require.Len(t, groups, 2)
		for _, g := range groups {
			assert.NotEqual(t, OtherLabel, g.Name)
		}
	})

	t.Run("uncategorized_bucket", func(t *testing.T) {
		txs := []models.Transaction{
			catTx(models.TransactionKindExpense, 4000, nil),
			catTx(models.TransactionKindExpense, 6000, food),
		}
		groups := CategoryBreakdown(txs, models.TransactionKindExpense)

		require.Len(t, groups, 2)
		assert.Equal(t, UncategorizedLabel, groups[1].Name)
	})

	t.Run("transfers_participate_in_both_kinds", func(t *testing.T) {
		transfer := models.Transaction{
			Kind:   models.TransactionKindTransfer,
			Amount: 5000,
			Date:   time.Date(2026, time.April, 10, 12, 0, 0, 0, time.UTC),
		}
		txs := []models.Transaction{
			transfer,
			catTx(models.TransactionKindExpense, 5000, food),
		}

		expense := CategoryBreakdown(txs, models.TransactionKindExpense)
		require.Len(t, expense, 2)

		income := CategoryBreakdown(txs, models.TransactionKindIncome)
		require.Len(t, income, 1)
		assert.Equal(t, UncategorizedLabel, income[0].Name)
	})

	t.Run("opposite_kind_excluded", func(t *testing.T) {
		txs := []models.Transaction{
			catTx(models.TransactionKindIncome, 5000, food),
		}
		groups := CategoryBreakdown(txs, models.TransactionKindExpense)
		assert.Empty(t, groups)
	})

	t.Run("colors_cycle_the_palette", func(t *testing.T) {
		var txs []models.Transaction
		categories := []string{"A", "B", "C", "D", "E"}
		for _, name := range categories {
			txs = append(txs, catTx(models.TransactionKindExpense, 10000, &models.Category{Name: name}))
		}
		groups := CategoryBreakdown(txs, models.TransactionKindExpense)

		require.Len(t, groups, 5)
		for i, g := range groups {
			assert.Equal(t, Palette[i%len(Palette)], g.Color)
		}
	})

	t.Run("percent_rounds_independently", func(t *testing.T) {
		txs := []models.Transaction{
			catTx(models.TransactionKindExpense, 1000, food),
			catTx(models.TransactionKindExpense, 1000, rent),
			catTx(models.TransactionKindExpense, 1000, coffee),
		}
		groups := CategoryBreakdown(txs, models.TransactionKindExpense)

		require.Len(t, groups, 3)
		for _, g := range groups {
			assert.Equal(t, 33, g.Percent)
		}
	})
}
