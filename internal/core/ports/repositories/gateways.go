package repositories

import (
	"context"

	"github.com/SscSPs/cash_register_app/internal/core/domain"
)

// EventPublisher delivers register events to a message broker.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.RegisterEvent) error
	Close() error
}

// InvoiceScanner extracts invoice fields from a photographed or scanned document.
type InvoiceScanner interface {
	Name() string
	ExtractInvoice(ctx context.Context, content []byte, mimeType string) (*domain.InvoiceDraft, error)
}
