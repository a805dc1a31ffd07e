package accounting

import (
	"sort"

	"github.com/SscSPs/cash_register_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// MonthTotals is the income and expense of one calendar month.
type MonthTotals struct {
	Month    string          `json:"month"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Net      decimal.Decimal `json:"net"`
}

// CategoryTotal is the expense total of one category.
type CategoryTotal struct {
	Category domain.Category `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

// MonthlyTotals returns the last months calendar months ending with the month
// of today, oldest first. Months without entries are reported with zeros.
func MonthlyTotals(entries []domain.LedgerEntry, today domain.Date, months int) []MonthTotals {
	if months <= 0 {
		return []MonthTotals{}
	}
	out := make([]MonthTotals, months)
	index := make(map[string]int, months)
	start := today.StartOfMonth()
	for i := 0; i < months; i++ {
		m := domain.DateOf(start.Time().AddDate(0, -(months - 1 - i), 0))
		out[i] = MonthTotals{Month: m.MonthKey(), Income: decimal.Zero, Expenses: decimal.Zero}
		index[m.MonthKey()] = i
	}
	for _, e := range entries {
		i, ok := index[e.Date.MonthKey()]
		if !ok {
			continue
		}
		if e.IsIncome() {
			out[i].Income = out[i].Income.Add(e.Amount)
		} else {
			out[i].Expenses = out[i].Expenses.Add(e.Amount.Abs())
		}
	}
	for i := range out {
		out[i].Income = domain.Round2(out[i].Income)
		out[i].Expenses = domain.Round2(out[i].Expenses)
		out[i].Net = domain.Round2(out[i].Income.Sub(out[i].Expenses))
	}
	return out
}

// ExpenseBreakdown totals expenses per category for the month containing day,
// largest first.
func ExpenseBreakdown(entries []domain.LedgerEntry, day domain.Date) []CategoryTotal {
	totals := map[domain.Category]decimal.Decimal{}
	for _, e := range entries {
		if e.IsIncome() || !e.Date.SameMonth(day) {
			continue
		}
		totals[e.Category] = totals[e.Category].Add(e.Amount.Abs())
	}
	out := make([]CategoryTotal, 0, len(totals))
	for c, t := range totals {
		out = append(out, CategoryTotal{Category: c, Total: domain.Round2(t)})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Total.Cmp(out[j].Total); c != 0 {
			return c > 0
		}
		return out[i].Category < out[j].Category
	})
	return out
}
