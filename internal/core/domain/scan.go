package domain

import "github.com/shopspring/decimal"

// InvoiceDraft holds the fields recognized on a scanned invoice. Drafts only
// prefill forms; nothing is stored until the user creates the invoice.
type InvoiceDraft struct {
	Supplier   string           `json:"supplier,omitempty"`
	Number     string           `json:"number,omitempty"`
	Total      *decimal.Decimal `json:"total,omitempty"`
	Date       *Date            `json:"date,omitempty"`
	DueDate    *Date            `json:"dueDate,omitempty"`
	Confidence float64          `json:"confidence"`
	Provider   string           `json:"provider"`
	RawText    string           `json:"rawText,omitempty"`
}
