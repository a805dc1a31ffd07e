package domain

import "github.com/shopspring/decimal"

// CashAdvance is cash lent to a person and tracked until it is repaid in full.
type CashAdvance struct {
	ID         int64           `json:"id"`
	PersonName string          `json:"personName"`
	Amount     decimal.Decimal `json:"amount"`
	Date       Date            `json:"date"`
	Note       string          `json:"note,omitempty"`
	Repaid     bool            `json:"repaid"`
	RepaidOn   *Date           `json:"repaidOn,omitempty"`
}
