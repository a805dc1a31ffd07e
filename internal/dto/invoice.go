package dto

import (
	"github.com/SscSPs/cash_register_app/internal/core/domain"
	"github.com/SscSPs/cash_register_app/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// CreateInvoiceRequest defines the payload for a new invoice.
type CreateInvoiceRequest struct {
	Supplier     string          `json:"supplier" binding:"required,max=120"`
	Number       string          `json:"number" binding:"max=60"`
	Total        decimal.Decimal `json:"total"`
	ArrivalDate  *domain.Date    `json:"arrivalDate"`
	DueDate      *domain.Date    `json:"dueDate"`
	PaymentCycle string          `json:"paymentCycle" binding:"max=20"`
	Notes        string          `json:"notes" binding:"max=1000"`
	Paid         bool            `json:"paid"`
}

// UpdateInvoiceRequest changes invoice fields; nil fields are left unchanged.
type UpdateInvoiceRequest struct {
	Supplier     *string          `json:"supplier" binding:"omitempty,min=1,max=120"`
	Number       *string          `json:"number" binding:"omitempty,max=60"`
	Total        *decimal.Decimal `json:"total"`
	ArrivalDate  *domain.Date     `json:"arrivalDate"`
	DueDate      *domain.Date     `json:"dueDate"`
	ClearDueDate bool             `json:"clearDueDate"`
	PaymentCycle *string          `json:"paymentCycle" binding:"omitempty,max=20"`
	Notes        *string          `json:"notes" binding:"omitempty,max=1000"`
}

// InvoiceFilter selects invoices in a listing.
type InvoiceFilter string

const (
	InvoiceFilterAll     InvoiceFilter = "all"
	InvoiceFilterOpen    InvoiceFilter = "open"
	InvoiceFilterPaid    InvoiceFilter = "paid"
	InvoiceFilterOverdue InvoiceFilter = "overdue"
)

// ListInvoicesParams defines the query parameters for listing invoices.
type ListInvoicesParams struct {
	Filter   InvoiceFilter `form:"filter" binding:"omitempty,oneof=all open paid overdue"`
	Supplier string        `form:"supplier"`
}

// InvoiceResponse is an invoice with its derived fields.
type InvoiceResponse struct {
	domain.Invoice
	Status      domain.InvoiceStatus `json:"status"`
	Outstanding decimal.Decimal      `json:"outstanding"`
}

// ToInvoiceResponse converts a domain.Invoice to an InvoiceResponse.
func ToInvoiceResponse(inv domain.Invoice, today domain.Date, dueSoonDays int) InvoiceResponse {
	return InvoiceResponse{
		Invoice:     inv,
		Status:      inv.Status(today, dueSoonDays),
		Outstanding: inv.Outstanding(),
	}
}

// InvoiceSummary aggregates the open invoices.
type InvoiceSummary struct {
	TotalUnpaid  decimal.Decimal `json:"totalUnpaid"`
	UnpaidCount  int             `json:"unpaidCount"`
	OverdueCount int             `json:"overdueCount"`
	DueSoonCount int             `json:"dueSoonCount"`
	LegacyCount  int             `json:"legacyCount"`
}

// ListInvoicesResponse is the filtered invoice list with its summary.
type ListInvoicesResponse struct {
	Invoices []InvoiceResponse `json:"invoices"`
	Summary  InvoiceSummary    `json:"summary"`
}

// WirePaymentRequest records a bank transfer or cheque against a legacy invoice.
type WirePaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// SetPaidRequest sets the paid flag of a current invoice.
type SetPaidRequest struct {
	Paid bool `json:"paid"`
}

// MigrationResult reports a legacy invoice migration.
type MigrationResult struct {
	Migrated  int                        `json:"migrated"`
	Reconcile accounting.ReconcileResult `json:"reconcile"`
}
