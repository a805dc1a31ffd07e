package services

import (
	"context"

	"github.com/SscSPs/cash_register_app/internal/dto"
)

// AdvanceSvcFacade defines the cash advance operations
type AdvanceSvcFacade interface {
	ListAdvances(ctx context.Context, ownerID string, params dto.ListAdvancesParams) (*dto.ListAdvancesResponse, error)

	// RepayAdvance returns the advanced amount to the till exactly once.
	// Repaying an already repaid advance changes nothing.
	RepayAdvance(ctx context.Context, ownerID string, advanceID int64) (*dto.RepayAdvanceResponse, error)
}
