package reports

import (
	"sort"

	"lempira/internal/models"
	"lempira/internal/money"
)

// Palette is the fixed chart palette; groups take colors cycled by
// position index.
var Palette = []string{
	"#0EA5E9", "#8B5CF6", "#F59E0B", "#EF4444",
	"#10B981", "#EC4899", "#6366F1", "#14B8A6",
	"#F97316", "#A855F7", "#EAB308", "#3B82F6",
}

const (
	// UncategorizedLabel names the bucket for transactions with no category.
	UncategorizedLabel = "Uncategorized"
	// OtherLabel names the synthetic long-tail bucket.
	OtherLabel = "Other"

	uncategorizedIcon = "💸"
	otherIcon         = "📦"
)

// CategoryGroup is one slice of the category breakdown chart.
type CategoryGroup struct {
	Name    string `json:"name"`
	Icon    string `json:"icon"`
	Color   string `json:"color"`
	Amount  int64  `json:"amount"`
	Percent int    `json:"percent"`
}

// CategoryBreakdown groups one kind's transactions by category name,
// sorted descending by total. Groups whose total is strictly below 5% of
// the overall total fold into a single trailing "Other" group, which only
// exists when at least one group falls below the threshold. Percent
// shares are rounded independently and therefore may not sum to exactly
// 100.
//
// Transfer rows participate in both kinds — the expense leg for
// kind=expense, the income leg for kind=income — and carry no category,
// so they land in the uncategorized bucket.
func CategoryBreakdown(txs []models.Transaction, kind models.TransactionKind) []CategoryGroup {
	type bucket struct {
		name   string
		icon   string
		amount int64
	}

	index := make(map[string]int)
	var buckets []bucket
	for _, t := range txs {
		if t.Kind != kind && t.Kind != models.TransactionKindTransfer {
			continue
		}
		name, icon := UncategorizedLabel, uncategorizedIcon
		if t.Category != nil {
			name = t.Category.Name
			if t.Category.Icon != "" {
				icon = t.Category.Icon
			}
		}
		i, ok := index[name]
		if !ok {
			i = len(buckets)
			index[name] = i
			buckets = append(buckets, bucket{name: name, icon: icon})
		}
		buckets[i].amount += t.Amount
	}

	if len(buckets) == 0 {
		return nil
	}

	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].amount > buckets[j].amount
	})

	var total int64
	for _, b := range buckets {
		total += b.amount
	}

	// Long-tail fold: strictly below total×0.05, in exact integer form.
	var kept []bucket
	var otherSum int64
	folded := 0
	for _, b := range buckets {
		if b.amount*20 < total {
			otherSum += b.amount
			folded++
		} else {
			kept = append(kept, b)
		}
	}
	if folded > 0 {
		kept = append(kept, bucket{name: OtherLabel, icon: otherIcon, amount: otherSum})
	}

	groups := make([]CategoryGroup, len(kept))
	for i, b := range kept {
		groups[i] = CategoryGroup{
			Name:    b.name,
			Icon:    b.icon,
			Color:   Palette[i%len(Palette)],
			Amount:  b.amount,
			Percent: money.Percent(b.amount, total),
		}
	}
	return groups
}
