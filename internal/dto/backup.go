package dto

import (
	"encoding/json"
	"time"

	"github.com/SscSPs/cash_register_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

const (
	// BackupAppSignature identifies documents produced by this application.
	BackupAppSignature = "CassaSmartPro"
	// BackupVersion is the schema version written by Export.
	BackupVersion = 7
)

// BackupHeader is the part common to every backup version.
type BackupHeader struct {
	App     string    `json:"_app"`
	Version int       `json:"_version"`
	Date    time.Time `json:"_date"`
}

// BackupDocument is the current backup format: the register plus the header.
type BackupDocument struct {
	BackupHeader
	domain.Register
}

// LegacyLogEntry is a ledger row of a version 6 or older document.
type LegacyLogEntry struct {
	Date        string          `json:"d"`
	Description string          `json:"v"`
	Amount      decimal.Decimal `json:"a"`
	Invoice     string          `json:"fatt,omitempty"`
}

// LegacyInvoice is an invoice of a version 6 or older document.
type LegacyInvoice struct {
	ID          json.Number     `json:"id"`
	ArrivalDate string          `json:"dataArrivo"`
	Supplier    string          `json:"azienda"`
	Number      string          `json:"numero"`
	Total       decimal.Decimal `json:"importo"`
	Cash        decimal.Decimal `json:"pagCash"`
	Wire        decimal.Decimal `json:"pagBonifico"`
	Paid        decimal.Decimal `json:"pagato"`
	Unpaid      decimal.Decimal `json:"nonPagato"`
	Cycle       string          `json:"ciclo"`
	DueDate     string          `json:"scadenza"`
	Notes       string          `json:"note"`
}

// LegacyAdvance is a cash advance of a version 6 or older document.
type LegacyAdvance struct {
	ID     json.Number     `json:"id"`
	Name   string          `json:"nome"`
	Amount decimal.Decimal `json:"importo"`
	Date   string          `json:"data"`
	Note   string          `json:"note"`
	Repaid bool            `json:"restituito"`
}

// LegacyBackupDocument is the Italian-keyed format of version 6 and older.
type LegacyBackupDocument struct {
	BackupHeader
	Balance   decimal.Decimal  `json:"saldo"`
	Suppliers []string         `json:"fornitori"`
	Salaries  []string         `json:"stipendi"`
	Recurring []string         `json:"abit"`
	Log       []LegacyLogEntry `json:"log"`
	Invoices  []LegacyInvoice  `json:"fatture"`
	Advances  []LegacyAdvance  `json:"anticipi"`
}

// RestoreResult reports what a restore loaded.
type RestoreResult struct {
	SourceVersion  int             `json:"sourceVersion"`
	BackupDate     time.Time       `json:"backupDate"`
	Entries        int             `json:"entries"`
	Invoices       int             `json:"invoices"`
	LegacyInvoices int             `json:"legacyInvoices"`
	Advances       int             `json:"advances"`
	SkippedRows    int             `json:"skippedRows"`
	Balance        decimal.Decimal `json:"balance"`
}
