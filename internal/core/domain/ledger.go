package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category classifies a ledger entry at the time it is created.
type Category string

const (
	CategoryTill             Category = "till"
	CategorySupplier         Category = "supplier"
	CategorySalary           Category = "salary"
	CategoryRecurring        Category = "recurring"
	CategoryGeneric          Category = "generic"
	CategoryAdvance          Category = "advance"
	CategoryAdvanceRepayment Category = "advance_repayment"
	CategoryDeposit          Category = "deposit"
	CategoryRefund           Category = "refund"
	CategoryImported         Category = "imported"
)

var knownCategories = map[Category]struct{}{
	CategoryTill: {}, CategorySupplier: {}, CategorySalary: {}, CategoryRecurring: {},
	CategoryGeneric: {}, CategoryAdvance: {}, CategoryAdvanceRepayment: {},
	CategoryDeposit: {}, CategoryRefund: {}, CategoryImported: {},
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	_, ok := knownCategories[c]
	return ok
}

// IsExpenseKind reports whether c can be used for a pending expense row.
func (c Category) IsExpenseKind() bool {
	switch c {
	case CategorySupplier, CategorySalary, CategoryRecurring, CategoryGeneric, CategoryAdvance:
		return true
	}
	return false
}

// LedgerEntry is one committed cash movement. Amount is positive for income
// and negative for expenses.
type LedgerEntry struct {
	ID          string          `json:"id"`
	Seq         int64           `json:"seq"`
	Date        Date            `json:"date"`
	Category    Category        `json:"category"`
	Payee       string          `json:"payee,omitempty"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	InvoiceRef  string          `json:"invoiceRef,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// IsIncome reports whether the entry increased the balance.
func (e LedgerEntry) IsIncome() bool {
	return e.Amount.IsPositive()
}
