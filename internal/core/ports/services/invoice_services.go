package services

import (
	"context"

	"github.com/SscSPs/cash_register_app/internal/core/domain"
	"github.com/SscSPs/cash_register_app/internal/dto"
	"github.com/SscSPs/cash_register_app/internal/utils/accounting"
)

// InvoiceReaderSvc defines read operations for invoices
type InvoiceReaderSvc interface {
	GetInvoice(ctx context.Context, ownerID string, invoiceID int64) (*dto.InvoiceResponse, error)
	ListInvoices(ctx context.Context, ownerID string, params dto.ListInvoicesParams) (*dto.ListInvoicesResponse, error)
}

// InvoiceWriterSvc defines write operations for invoices
type InvoiceWriterSvc interface {
	CreateInvoice(ctx context.Context, ownerID string, req dto.CreateInvoiceRequest) (*domain.Invoice, error)
	UpdateInvoice(ctx context.Context, ownerID string, invoiceID int64, req dto.UpdateInvoiceRequest) (*domain.Invoice, error)
	DeleteInvoice(ctx context.Context, ownerID string, invoiceID int64) error

	// SetPaid sets the paid flag. Legacy invoices must be migrated first.
	SetPaid(ctx context.Context, ownerID string, invoiceID int64, paid bool) (*domain.Invoice, error)

	// RegisterWirePayment adds a bank transfer or cheque to a legacy invoice.
	RegisterWirePayment(ctx context.Context, ownerID string, invoiceID int64, req dto.WirePaymentRequest) (*domain.Invoice, error)
}

// InvoiceReconcilerSvc defines the legacy invoice operations
type InvoiceReconcilerSvc interface {
	// Reconcile runs the cash allocator over the legacy invoices and stores the result.
	Reconcile(ctx context.Context, ownerID string) (*accounting.ReconcileResult, error)

	// MigrateLegacy reconciles one last time and converts every legacy invoice
	// to the current schema.
	MigrateLegacy(ctx context.Context, ownerID string) (*dto.MigrationResult, error)
}

// InvoiceSvcFacade combines all invoice service interfaces
type InvoiceSvcFacade interface {
	InvoiceReaderSvc
	InvoiceWriterSvc
	InvoiceReconcilerSvc
}
