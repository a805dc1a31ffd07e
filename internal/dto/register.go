package dto

import (
	"github.com/SscSPs/cash_register_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TillRow is one point-of-sale session reading.
type TillRow struct {
	Label        string          `json:"label"`
	ReceiptTotal decimal.Decimal `json:"receiptTotal"`
	CardTotal    decimal.Decimal `json:"cardTotal"`
}

// ExpenseRow is one pending cash expense.
type ExpenseRow struct {
	Category      domain.Category `json:"category" binding:"required,expense_category"`
	Payee         string          `json:"payee" binding:"max=120"`
	Amount        decimal.Decimal `json:"amount"`
	InvoiceNumber string          `json:"invoiceNumber" binding:"max=60"`
	Note          string          `json:"note" binding:"max=500"`
}

// RegistrationRequest carries everything committed by one "register" action.
type RegistrationRequest struct {
	Date     *domain.Date `json:"date"`
	Tills    []TillRow    `json:"tills" binding:"dive"`
	Expenses []ExpenseRow `json:"expenses" binding:"dive"`
}

// RegistrationResult describes what a commit changed.
type RegistrationResult struct {
	Balance         decimal.Decimal      `json:"balance"`
	CashCollected   decimal.Decimal      `json:"cashCollected"`
	ExpenseTotal    decimal.Decimal      `json:"expenseTotal"`
	Entries         []domain.LedgerEntry `json:"entries"`
	CreatedInvoices []domain.Invoice     `json:"createdInvoices"`
	CreatedAdvances []domain.CashAdvance `json:"createdAdvances"`
}

// SetBalanceRequest overrides the current cash balance.
type SetBalanceRequest struct {
	Balance decimal.Decimal `json:"balance"`
}

// BalanceResponse reports a balance, optionally at a past day.
type BalanceResponse struct {
	Balance decimal.Decimal `json:"balance"`
	AsOf    *domain.Date    `json:"asOf,omitempty"`
}

// DeleteEntryResponse reports the removed entry and the new balance.
type DeleteEntryResponse struct {
	Entry   domain.LedgerEntry `json:"entry"`
	Balance decimal.Decimal    `json:"balance"`
}

// DirectoryNameRequest adds a name to a directory.
type DirectoryNameRequest struct {
	Name string `json:"name" binding:"required,max=120"`
}

// RenameDirectoryRequest renames an existing directory entry.
type RenameDirectoryRequest struct {
	NewName string `json:"newName" binding:"required,max=120"`
}

// DirectoryResponse lists the names of one directory.
type DirectoryResponse struct {
	Kind  domain.DirectoryKind `json:"kind"`
	Names []string             `json:"names"`
}
