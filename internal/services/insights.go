package services

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/ledger-backend/internal/dto"
	"github.com/GregMSThompson/ledger-backend/internal/models"
)

const (
	insightSpendingTrend  = "spending_trend"
	insightTopCategory    = "top_category"
	insightTopSubcategory = "top_subcategory"
)

// ComputeInsights compares this month's expenses with last month's. The trend
// is omitted when last month had no spending; the subcategory statement looks
// only inside the top category.
func ComputeInsights(thisMonth, lastMonth []*models.Expense) []dto.Insight {
	insights := []dto.Insight{}

	thisTotal := sumExpenses(thisMonth)
	lastTotal := sumExpenses(lastMonth)
	if lastTotal.IsPositive() {
		diff, _ := thisTotal.Sub(lastTotal).Div(lastTotal).Mul(decimal.NewFromInt(100)).Float64()
		if diff > 0 {
			insights = append(insights, dto.Insight{
				Type:     insightSpendingTrend,
				Message:  fmt.Sprintf("Your expenses increased by %.1f%% compared to last month.", diff),
				Severity: "warning",
			})
		} else {
			insights = append(insights, dto.Insight{
				Type:     insightSpendingTrend,
				Message:  fmt.Sprintf("Your expenses decreased by %.1f%% compared to last month.", -diff),
				Severity: "success",
			})
		}
	}

	byCategory := make(map[string]decimal.Decimal)
	for _, e := range thisMonth {
		byCategory[e.Category] = byCategory[e.Category].Add(decimal.NewFromFloat(e.Amount))
	}
	top, topAmount, ok := largest(byCategory)
	if !ok {
		return insights
	}
	insights = append(insights, dto.Insight{
		Type:     insightTopCategory,
		Message:  fmt.Sprintf("Most of your spending this month was on %s ($%s).", top, topAmount.StringFixed(2)),
		Severity: "info",
	})

	bySub := make(map[string]decimal.Decimal)
	for _, e := range thisMonth {
		if e.Category == top && e.Subcategory != "" {
			bySub[e.Subcategory] = bySub[e.Subcategory].Add(decimal.NewFromFloat(e.Amount))
		}
	}
	if sub, subAmount, ok := largest(bySub); ok {
		insights = append(insights, dto.Insight{
			Type:     insightTopSubcategory,
			Message:  fmt.Sprintf("Within %s, most was spent on %s ($%s).", top, sub, subAmount.StringFixed(2)),
			Severity: "info",
		})
	}
	return insights
}

func sumExpenses(list []*models.Expense) decimal.Decimal {
	total := decimal.Zero
	for _, e := range list {
		total = total.Add(decimal.NewFromFloat(e.Amount))
	}
	return total
}

// largest picks the biggest total; ties go to the alphabetically first key.
func largest(totals map[string]decimal.Decimal) (string, decimal.Decimal, bool) {
	keys := make([]string, 0, len(totals))
	for k := range totals {
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return "", decimal.Zero, false
	}
	sort.Strings(keys)
	best := keys[0]
	for _, k := range keys[1:] {
		if totals[k].GreaterThan(totals[best]) {
			best = k
		}
	}
	return best, totals[best], true
}
