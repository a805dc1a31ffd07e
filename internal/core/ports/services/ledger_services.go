package services

import (
	"context"

	"github.com/SscSPs/cash_register_app/internal/core/domain"
	"github.com/SscSPs/cash_register_app/internal/dto"
	"github.com/SscSPs/cash_register_app/internal/utils/accounting"
)

// LedgerReaderSvc defines read operations over the ledger
type LedgerReaderSvc interface {
	// GetBalance returns the current balance.
	GetBalance(ctx context.Context, ownerID string) (*dto.BalanceResponse, error)

	// BalanceAtDate reconstructs the balance at the end of day.
	BalanceAtDate(ctx context.Context, ownerID string, day domain.Date) (*dto.BalanceResponse, error)

	// ListEntries returns ledger entries newest first using token-based pagination.
	ListEntries(ctx context.Context, ownerID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error)

	// DaySummary returns the entries and balances of one day.
	DaySummary(ctx context.Context, ownerID string, day domain.Date) (*accounting.DaySummary, error)
}

// LedgerReportingSvc defines dashboard and search operations
type LedgerReportingSvc interface {
	Statistics(ctx context.Context, ownerID string, months int) (*dto.StatisticsResponse, error)
	Search(ctx context.Context, ownerID string, query string, limit int) (*dto.SearchResponse, error)
}

// LedgerSvcFacade combines all ledger service interfaces
type LedgerSvcFacade interface {
	LedgerReaderSvc
	LedgerReportingSvc
}
