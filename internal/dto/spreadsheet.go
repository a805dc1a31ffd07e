package dto

import (
	"github.com/SscSPs/cash_register_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ImportFormat names the detected spreadsheet layout.
type ImportFormat string

const (
	// ImportFormatRegister is the eight-column daily register template.
	ImportFormatRegister ImportFormat = "register"
	// ImportFormatSimple is a plain date / description / amount sheet.
	ImportFormatSimple ImportFormat = "simple"
)

// ImportRow is one ledger movement parsed from a spreadsheet.
type ImportRow struct {
	Row         int             `json:"row"`
	Date        domain.Date     `json:"date"`
	Category    domain.Category `json:"category"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

// SkippedRow explains why a spreadsheet row was ignored.
type SkippedRow struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ImportPreview is the parse result shown before anything is applied.
type ImportPreview struct {
	Format     ImportFormat    `json:"format"`
	Sheet      string          `json:"sheet"`
	Rows       []ImportRow     `json:"rows"`
	Skipped    []SkippedRow    `json:"skipped"`
	TotalIn    decimal.Decimal `json:"totalIn"`
	TotalOut   decimal.Decimal `json:"totalOut"`
	NetBalance decimal.Decimal `json:"netBalance"`
}

// ImportResult reports an applied import.
type ImportResult struct {
	Imported int             `json:"imported"`
	Skipped  []SkippedRow    `json:"skipped"`
	Balance  decimal.Decimal `json:"balance"`
}
