package accounting

import (
	"github.com/SscSPs/cash_register_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// OpeningBase returns the balance before any ledger entry was applied.
func OpeningBase(current decimal.Decimal, entries []domain.LedgerEntry) decimal.Decimal {
	sum := decimal.Zero
	for _, e := range entries {
		sum = sum.Add(e.Amount)
	}
	return domain.Round2(current.Sub(sum))
}

// BalanceAtDate reconstructs the balance at the end of day from the current
// balance and the full ledger. Entries dated on day are included. An empty
// ledger yields current for every day.
func BalanceAtDate(current decimal.Decimal, entries []domain.LedgerEntry, day domain.Date) decimal.Decimal {
	if len(entries) == 0 {
		return current
	}
	balance := OpeningBase(current, entries)
	for _, e := range entries {
		if !e.Date.After(day) {
			balance = balance.Add(e.Amount)
		}
	}
	return domain.Round2(balance)
}

// DaySummary describes the cash movement of one calendar day.
type DaySummary struct {
	Date           domain.Date          `json:"date"`
	OpeningBalance decimal.Decimal      `json:"openingBalance"`
	ClosingBalance decimal.Decimal      `json:"closingBalance"`
	Income         decimal.Decimal      `json:"income"`
	Expenses       decimal.Decimal      `json:"expenses"`
	Entries        []domain.LedgerEntry `json:"entries"`
}

// SummarizeDay collects the entries of day together with the balances at
// the end of the previous day and at the end of day.
func SummarizeDay(current decimal.Decimal, entries []domain.LedgerEntry, day domain.Date) DaySummary {
	summary := DaySummary{
		Date:           day,
		OpeningBalance: BalanceAtDate(current, entries, day.AddDays(-1)),
		ClosingBalance: BalanceAtDate(current, entries, day),
		Income:         decimal.Zero,
		Expenses:       decimal.Zero,
		Entries:        []domain.LedgerEntry{},
	}
	for _, e := range entries {
		if !e.Date.Equal(day) {
			continue
		}
		summary.Entries = append(summary.Entries, e)
		if e.IsIncome() {
			summary.Income = summary.Income.Add(e.Amount)
		} else {
			summary.Expenses = summary.Expenses.Add(e.Amount.Abs())
		}
	}
	summary.Income = domain.Round2(summary.Income)
	summary.Expenses = domain.Round2(summary.Expenses)
	return summary
}
