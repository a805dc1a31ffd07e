package services

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/SscSPs/cash_register_app/internal/apperrors"
	"github.com/SscSPs/cash_register_app/internal/core/domain"
	portssvc "github.com/SscSPs/cash_register_app/internal/core/ports/services"
	"github.com/SscSPs/cash_register_app/internal/dto"
	"github.com/shopspring/decimal"
)

type advanceService struct {
	BaseService
	store *RegisterStore
}

// NewAdvanceService creates the cash advance service.
func NewAdvanceService(store *RegisterStore, opts ...ServiceOption) portssvc.AdvanceSvcFacade {
	s := &advanceService{store: store}
	s.apply(opts)
	return s
}

func (s *advanceService) ListAdvances(ctx context.Context, ownerID string, params dto.ListAdvancesParams) (*dto.ListAdvancesResponse, error) {
	reg, err := s.store.Read(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	person := domain.NormalizeKey(params.Person)

	out := []domain.CashAdvance{}
	openTotal := decimal.Zero
	for _, a := range reg.Advances {
		if person != "" && domain.NormalizeKey(a.PersonName) != person {
			continue
		}
		if !a.Repaid {
			openTotal = openTotal.Add(a.Amount)
		}
		switch params.Filter {
		case "", "open":
			if a.Repaid {
				continue
			}
		case "repaid":
			if !a.Repaid {
				continue
			}
		}
		out = append(out, a)
	}
	slices.SortFunc(out, func(a, b domain.CashAdvance) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}
		return strings.Compare(a.PersonName, b.PersonName)
	})
	return &dto.ListAdvancesResponse{Advances: out, OpenTotal: domain.Round2(openTotal)}, nil
}

func (s *advanceService) RepayAdvance(ctx context.Context, ownerID string, advanceID int64) (*dto.RepayAdvanceResponse, error) {
	resp := &dto.RepayAdvanceResponse{}
	day := s.Today()

	reg, err := s.store.Mutate(ctx, ownerID, ActionRepayAdvance, func(reg *domain.Register) error {
		adv, ok := reg.AdvanceByID(advanceID)
		if !ok {
			return fmt.Errorf("advance %d: %w", advanceID, apperrors.ErrNotFound)
		}
		if adv.Repaid {
			resp.Advance = *adv
			resp.AlreadyRepaid = true
			return errNoChange
		}
		adv.Repaid = true
		adv.RepaidOn = &day
		entry := reg.ApplyEntry(domain.LedgerEntry{
			Date:        day,
			Category:    domain.CategoryAdvanceRepayment,
			Payee:       adv.PersonName,
			Description: "Advance repaid: " + adv.PersonName,
			Amount:      adv.Amount,
			CreatedAt:   s.CurrentTime().UTC(),
		})
		resp.Advance = *adv
		resp.Entry = &entry
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp.Balance = reg.Balance
	if !resp.AlreadyRepaid {
		s.LogInfo(ctx, "Cash advance repaid", slog.String("owner_id", ownerID), slog.Int64("advance_id", advanceID))
	}
	return resp, nil
}
