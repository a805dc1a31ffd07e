package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceSchema discriminates the two invoice shapes.
type InvoiceSchema string

const (
	// SchemaCurrent invoices carry only the Paid flag.
	SchemaCurrent InvoiceSchema = "current"
	// SchemaLegacy invoices track split cash/wire payments and are reconciled
	// against the ledger until migrated.
	SchemaLegacy InvoiceSchema = "legacy"
)

// DefaultDueSoonDays is the window in which an unpaid invoice counts as due soon.
const DefaultDueSoonDays = 7

// InvoiceStatus is derived from invoice data and the current day; it is never stored.
type InvoiceStatus string

const (
	InvoiceStatusPaid    InvoiceStatus = "paid"
	InvoiceStatusOverdue InvoiceStatus = "overdue"
	InvoiceStatusDueSoon InvoiceStatus = "due_soon"
	InvoiceStatusOpen    InvoiceStatus = "open"
)

// LegacyPayments holds the payment split of a legacy invoice.
type LegacyPayments struct {
	CashAllocated decimal.Decimal `json:"cashAllocated"`
	WireAllocated decimal.Decimal `json:"wireAllocated"`
	PaidTotal     decimal.Decimal `json:"paidTotal"`
	UnpaidTotal   decimal.Decimal `json:"unpaidTotal"`
}

// Invoice is a supplier bill. Legacy is set if and only if Schema is SchemaLegacy.
type Invoice struct {
	ID           int64           `json:"id"`
	Supplier     string          `json:"supplier"`
	Number       string          `json:"number,omitempty"`
	Total        decimal.Decimal `json:"total"`
	ArrivalDate  Date            `json:"arrivalDate"`
	DueDate      *Date           `json:"dueDate,omitempty"`
	PaymentCycle string          `json:"paymentCycle,omitempty"`
	Notes        string          `json:"notes,omitempty"`
	Schema       InvoiceSchema   `json:"schema"`
	Paid         bool            `json:"paid"`
	Legacy       *LegacyPayments `json:"legacy,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// IsLegacy reports whether the invoice still uses the split payment schema.
func (i Invoice) IsLegacy() bool {
	return i.Schema == SchemaLegacy && i.Legacy != nil
}

// IsPaid reports whether nothing is left to pay.
func (i Invoice) IsPaid() bool {
	if i.IsLegacy() {
		return !i.Legacy.UnpaidTotal.IsPositive()
	}
	return i.Paid
}

// Outstanding returns the amount still owed on the invoice.
func (i Invoice) Outstanding() decimal.Decimal {
	if i.IsLegacy() {
		return i.Legacy.UnpaidTotal
	}
	if i.Paid {
		return decimal.Zero
	}
	return i.Total
}

// Status classifies the invoice relative to today.
func (i Invoice) Status(today Date, dueSoonDays int) InvoiceStatus {
	if i.IsPaid() {
		return InvoiceStatusPaid
	}
	if i.DueDate == nil || i.DueDate.IsZero() {
		return InvoiceStatusOpen
	}
	days := today.DaysUntil(*i.DueDate)
	if days < 0 {
		return InvoiceStatusOverdue
	}
	if days <= dueSoonDays {
		return InvoiceStatusDueSoon
	}
	return InvoiceStatusOpen
}

// RecomputeLegacyTotals refreshes PaidTotal and UnpaidTotal from the allocations.
func (p *LegacyPayments) RecomputeLegacyTotals(total decimal.Decimal) {
	p.PaidTotal = Round2(p.CashAllocated.Add(p.WireAllocated))
	unpaid := Round2(total.Sub(p.PaidTotal))
	if unpaid.IsNegative() {
		unpaid = decimal.Zero
	}
	p.UnpaidTotal = unpaid
}

// MigrateToCurrent converts a legacy invoice into the current schema, keeping
// its paid status. Current invoices are left unchanged.
func (i *Invoice) MigrateToCurrent() bool {
	if !i.IsLegacy() {
		if i.Schema == "" {
			i.Schema = SchemaCurrent
		}
		return false
	}
	i.Paid = !i.Legacy.UnpaidTotal.IsPositive()
	i.Legacy = nil
	i.Schema = SchemaCurrent
	return true
}
