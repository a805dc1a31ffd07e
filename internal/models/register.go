package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Register is the header row of one owner's register.
type Register struct {
	OwnerID          string          `json:"ownerID"`
	Balance          decimal.Decimal `json:"balance"`
	Suppliers        []string        `json:"suppliers"`
	Salaries         []string        `json:"salaries"`
	Recurring        []string        `json:"recurring"`
	CustomCategories []string        `json:"customCategories"`
	NextSeq          int64           `json:"nextSeq"`
	NextAdvanceID    int64           `json:"nextAdvanceID"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// LedgerEntry is a row of the ledger_entries table.
type LedgerEntry struct {
	EntryID     string          `json:"entryID"`
	OwnerID     string          `json:"ownerID"`
	Seq         int64           `json:"seq"`
	EntryDate   time.Time       `json:"entryDate"`
	Category    string          `json:"category"`
	Payee       string          `json:"payee"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	InvoiceRef  string          `json:"invoiceRef"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// Invoice is a row of the invoices table. The cash and wire columns are only
// set for legacy invoices.
type Invoice struct {
	InvoiceID     int64            `json:"invoiceID"`
	OwnerID       string           `json:"ownerID"`
	Supplier      string           `json:"supplier"`
	Number        string           `json:"number"`
	Total         decimal.Decimal  `json:"total"`
	ArrivalDate   time.Time        `json:"arrivalDate"`
	DueDate       *time.Time       `json:"dueDate"`
	PaymentCycle  string           `json:"paymentCycle"`
	Notes         string           `json:"notes"`
	Schema        string           `json:"schema"`
	Paid          bool             `json:"paid"`
	CashAllocated *decimal.Decimal `json:"cashAllocated"`
	WireAllocated *decimal.Decimal `json:"wireAllocated"`
	CreatedAt     time.Time        `json:"createdAt"`
}

// CashAdvance is a row of the cash_advances table.
type CashAdvance struct {
	AdvanceID   int64           `json:"advanceID"`
	OwnerID     string          `json:"ownerID"`
	PersonName  string          `json:"personName"`
	Amount      decimal.Decimal `json:"amount"`
	AdvanceDate time.Time       `json:"advanceDate"`
	Note        string          `json:"note"`
	Repaid      bool            `json:"repaid"`
	RepaidOn    *time.Time      `json:"repaidOn"`
}
