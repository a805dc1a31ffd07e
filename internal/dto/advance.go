package dto

import (
	"github.com/SscSPs/cash_register_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ListAdvancesParams defines the query parameters for listing cash advances.
type ListAdvancesParams struct {
	Filter string `form:"filter" binding:"omitempty,oneof=open repaid all"`
	Person string `form:"person"`
}

// ListAdvancesResponse lists advances together with the open total.
type ListAdvancesResponse struct {
	Advances  []domain.CashAdvance `json:"advances"`
	OpenTotal decimal.Decimal      `json:"openTotal"`
}

// RepayAdvanceResponse reports an advance repayment. Entry is nil when the
// advance had already been repaid.
type RepayAdvanceResponse struct {
	Advance       domain.CashAdvance  `json:"advance"`
	Entry         *domain.LedgerEntry `json:"entry,omitempty"`
	Balance       decimal.Decimal     `json:"balance"`
	AlreadyRepaid bool                `json:"alreadyRepaid"`
}
