package services

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/SscSPs/cash_register_app/internal/apperrors"
	"github.com/SscSPs/cash_register_app/internal/core/domain"
	portssvc "github.com/SscSPs/cash_register_app/internal/core/ports/services"
	"github.com/SscSPs/cash_register_app/internal/dto"
	"github.com/SscSPs/cash_register_app/internal/utils/accounting"
	"github.com/SscSPs/cash_register_app/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

const (
	defaultEntriesLimit = 50
	defaultStatsMonths  = 6
	maxStatsMonths      = 24
	defaultSearchLimit  = 50
)

type ledgerService struct {
	BaseService
	store *RegisterStore
}

// NewLedgerService creates the read side of the ledger.
func NewLedgerService(store *RegisterStore, opts ...ServiceOption) portssvc.LedgerSvcFacade {
	s := &ledgerService{store: store}
	s.apply(opts)
	return s
}

func (s *ledgerService) GetBalance(ctx context.Context, ownerID string) (*dto.BalanceResponse, error) {
	reg, err := s.store.Read(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return &dto.BalanceResponse{Balance: reg.Balance}, nil
}

func (s *ledgerService) BalanceAtDate(ctx context.Context, ownerID string, day domain.Date) (*dto.BalanceResponse, error) {
	if day.IsZero() {
		return nil, apperrors.Validationf("date is required")
	}
	reg, err := s.store.Read(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	balance := accounting.BalanceAtDate(reg.Balance, reg.Ledger, day)
	return &dto.BalanceResponse{Balance: balance, AsOf: &day}, nil
}

// newestFirst orders entries by date, then by insertion order, both descending.
func newestFirst(a, b domain.LedgerEntry) int {
	if c := b.Date.Compare(a.Date); c != 0 {
		return c
	}
	switch {
	case a.Seq > b.Seq:
		return -1
	case a.Seq < b.Seq:
		return 1
	}
	return 0
}

func (s *ledgerService) ListEntries(ctx context.Context, ownerID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultEntriesLimit
	}

	var from, to domain.Date
	var err error
	if params.From != "" {
		if from, err = domain.ParseFlexDate(params.From); err != nil {
			return nil, fmt.Errorf("%w: from: %v", apperrors.ErrValidation, err)
		}
	}
	if params.To != "" {
		if to, err = domain.ParseFlexDate(params.To); err != nil {
			return nil, fmt.Errorf("%w: to: %v", apperrors.ErrValidation, err)
		}
	}
	if params.Category != "" && !params.Category.Valid() {
		return nil, apperrors.Validationf("unknown category %q", params.Category)
	}

	hasCursor := false
	var cursorDate domain.Date
	var cursorSeq int64
	if params.NextToken != nil && *params.NextToken != "" {
		t, seq, err := pagination.DecodeToken(*params.NextToken)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		hasCursor, cursorDate, cursorSeq = true, domain.DateOf(t), seq
	}

	reg, err := s.store.Read(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	entries := slices.Clone(reg.Ledger)
	slices.SortFunc(entries, newestFirst)

	page := make([]domain.LedgerEntry, 0, limit)
	var next *string
	for _, e := range entries {
		if params.Category != "" && e.Category != params.Category {
			continue
		}
		if !from.IsZero() && e.Date.Before(from) {
			continue
		}
		if !to.IsZero() && e.Date.After(to) {
			continue
		}
		if hasCursor {
			c := e.Date.Compare(cursorDate)
			if c > 0 || (c == 0 && e.Seq >= cursorSeq) {
				continue
			}
		}
		if len(page) == limit {
			last := page[len(page)-1]
			token := pagination.EncodeToken(last.Date.Time(), last.Seq)
			next = &token
			break
		}
		page = append(page, e)
	}

	return &dto.ListEntriesResponse{Entries: page, NextToken: next}, nil
}

func (s *ledgerService) DaySummary(ctx context.Context, ownerID string, day domain.Date) (*accounting.DaySummary, error) {
	if day.IsZero() {
		day = s.Today()
	}
	reg, err := s.store.Read(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	summary := accounting.SummarizeDay(reg.Balance, reg.Ledger, day)
	slices.SortFunc(summary.Entries, func(a, b domain.LedgerEntry) int { return -newestFirst(a, b) })
	return &summary, nil
}

func (s *ledgerService) Statistics(ctx context.Context, ownerID string, months int) (*dto.StatisticsResponse, error) {
	if months <= 0 {
		months = defaultStatsMonths
	}
	if months > maxStatsMonths {
		months = maxStatsMonths
	}
	reg, err := s.store.Read(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	today := s.Today()

	openAdvances := decimal.Zero
	for _, a := range reg.Advances {
		if !a.Repaid {
			openAdvances = openAdvances.Add(a.Amount)
		}
	}
	unpaid := decimal.Zero
	for _, inv := range reg.Invoices {
		unpaid = unpaid.Add(inv.Outstanding())
	}

	return &dto.StatisticsResponse{
		Balance:        reg.Balance,
		Months:         accounting.MonthlyTotals(reg.Ledger, today, months),
		MonthBreakdown: accounting.ExpenseBreakdown(reg.Ledger, today),
		OpenAdvances:   domain.Round2(openAdvances),
		UnpaidInvoices: domain.Round2(unpaid),
	}, nil
}

func matchesAny(needle string, fields ...string) bool {
	for _, f := range fields {
		if f != "" && strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

func (s *ledgerService) Search(ctx context.Context, ownerID string, query string, limit int) (*dto.SearchResponse, error) {
	needle := domain.NormalizeKey(query)
	if len(needle) < 2 {
		return nil, apperrors.Validationf("search query must have at least 2 characters")
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	reg, err := s.store.Read(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	hits := []dto.SearchHit{}
	entries := slices.Clone(reg.Ledger)
	slices.SortFunc(entries, newestFirst)
	for _, e := range entries {
		if matchesAny(needle, e.Description, e.Payee, e.InvoiceRef) {
			hits = append(hits, dto.SearchHit{
				Kind:     dto.SearchHitEntry,
				ID:       e.ID,
				Title:    e.Description,
				Subtitle: string(e.Category),
				Amount:   e.Amount,
				Date:     e.Date,
			})
		}
	}
	for _, inv := range reg.Invoices {
		if matchesAny(needle, inv.Supplier, inv.Number, inv.Notes) {
			hits = append(hits, dto.SearchHit{
				Kind:     dto.SearchHitInvoice,
				ID:       strconv.FormatInt(inv.ID, 10),
				Title:    inv.Supplier,
				Subtitle: inv.Number,
				Amount:   inv.Total,
				Date:     inv.ArrivalDate,
			})
		}
	}
	for _, a := range reg.Advances {
		if matchesAny(needle, a.PersonName, a.Note) {
			hits = append(hits, dto.SearchHit{
				Kind:     dto.SearchHitAdvance,
				ID:       strconv.FormatInt(a.ID, 10),
				Title:    a.PersonName,
				Subtitle: a.Note,
				Amount:   a.Amount,
				Date:     a.Date,
			})
		}
	}
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return &dto.SearchResponse{Query: query, Hits: hits}, nil
}
