package dto

import (
	"github.com/SscSPs/cash_register_app/internal/core/domain"
	"github.com/SscSPs/cash_register_app/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// ListEntriesParams defines the query parameters for listing ledger entries.
type ListEntriesParams struct {
	Limit     int             `form:"limit" binding:"omitempty,min=1,max=500"`
	NextToken *string         `form:"nextToken"`
	Category  domain.Category `form:"category" binding:"omitempty,ledger_category"`
	From      string          `form:"from"`
	To        string          `form:"to"`
}

// ListEntriesResponse is a page of ledger entries, newest first.
type ListEntriesResponse struct {
	Entries   []domain.LedgerEntry `json:"entries"`
	NextToken *string              `json:"nextToken,omitempty"`
}

// StatisticsResponse holds the dashboard figures.
type StatisticsResponse struct {
	Balance        decimal.Decimal            `json:"balance"`
	Months         []accounting.MonthTotals   `json:"months"`
	MonthBreakdown []accounting.CategoryTotal `json:"monthBreakdown"`
	OpenAdvances   decimal.Decimal            `json:"openAdvances"`
	UnpaidInvoices decimal.Decimal            `json:"unpaidInvoices"`
}

// SearchHitKind tells which collection a search hit came from.
type SearchHitKind string

const (
	SearchHitEntry   SearchHitKind = "entry"
	SearchHitInvoice SearchHitKind = "invoice"
	SearchHitAdvance SearchHitKind = "advance"
)

// SearchHit is one match of a global search.
type SearchHit struct {
	Kind     SearchHitKind    `json:"kind"`
	ID       string           `json:"id"`
	Title    string           `json:"title"`
	Subtitle string           `json:"subtitle"`
	Amount   decimal.Decimal  `json:"amount"`
	Date     domain.Date      `json:"date"`
}

// SearchResponse lists global search hits.
type SearchResponse struct {
	Query string      `json:"query"`
	Hits  []SearchHit `json:"hits"`
}
