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
	"github.com/SscSPs/cash_register_app/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

type invoiceService struct {
	BaseService
	store       *RegisterStore
	dueSoonDays int
}

// NewInvoiceService creates the invoice service. dueSoonDays is the window in
// which an unpaid invoice is reported as due soon.
func NewInvoiceService(store *RegisterStore, dueSoonDays int, opts ...ServiceOption) portssvc.InvoiceSvcFacade {
	if dueSoonDays <= 0 {
		dueSoonDays = domain.DefaultDueSoonDays
	}
	s := &invoiceService{store: store, dueSoonDays: dueSoonDays}
	s.apply(opts)
	return s
}

func (s *invoiceService) GetInvoice(ctx context.Context, ownerID string, invoiceID int64) (*dto.InvoiceResponse, error) {
	reg, err := s.store.Read(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	inv, ok := reg.InvoiceByID(invoiceID)
	if !ok {
		return nil, fmt.Errorf("invoice %d: %w", invoiceID, apperrors.ErrNotFound)
	}
	resp := dto.ToInvoiceResponse(*inv, s.Today(), s.dueSoonDays)
	return &resp, nil
}

// dueDateOrder sorts by due date with undated invoices last, then by newest arrival.
func dueDateOrder(a, b dto.InvoiceResponse) int {
	switch {
	case a.DueDate != nil && b.DueDate == nil:
		return -1
	case a.DueDate == nil && b.DueDate != nil:
		return 1
	case a.DueDate != nil && b.DueDate != nil:
		if c := a.DueDate.Compare(*b.DueDate); c != 0 {
			return c
		}
	}
	if c := b.ArrivalDate.Compare(a.ArrivalDate); c != 0 {
		return c
	}
	switch {
	case a.ID > b.ID:
		return -1
	case a.ID < b.ID:
		return 1
	}
	return 0
}

func (s *invoiceService) ListInvoices(ctx context.Context, ownerID string, params dto.ListInvoicesParams) (*dto.ListInvoicesResponse, error) {
	reg, err := s.store.Read(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	today := s.Today()
	supplier := domain.NormalizeKey(params.Supplier)

	summary := dto.InvoiceSummary{TotalUnpaid: decimal.Zero}
	out := []dto.InvoiceResponse{}
	for _, inv := range reg.Invoices {
		resp := dto.ToInvoiceResponse(inv, today, s.dueSoonDays)

		if inv.IsLegacy() {
			summary.LegacyCount++
		}
		if resp.Status != domain.InvoiceStatusPaid {
			summary.UnpaidCount++
			summary.TotalUnpaid = summary.TotalUnpaid.Add(resp.Outstanding)
		}
		switch resp.Status {
		case domain.InvoiceStatusOverdue:
			summary.OverdueCount++
		case domain.InvoiceStatusDueSoon:
			summary.DueSoonCount++
		}

		if supplier != "" && !strings.Contains(domain.NormalizeKey(inv.Supplier), supplier) {
			continue
		}
		switch params.Filter {
		case dto.InvoiceFilterOpen:
			if resp.Status == domain.InvoiceStatusPaid {
				continue
			}
		case dto.InvoiceFilterPaid:
			if resp.Status != domain.InvoiceStatusPaid {
				continue
			}
		case dto.InvoiceFilterOverdue:
			if resp.Status != domain.InvoiceStatusOverdue {
				continue
			}
		}
		out = append(out, resp)
	}
	summary.TotalUnpaid = domain.Round2(summary.TotalUnpaid)
	slices.SortFunc(out, dueDateOrder)

	return &dto.ListInvoicesResponse{Invoices: out, Summary: summary}, nil
}

func checkUniqueNumber(reg *domain.Register, number string, selfID int64) error {
	if strings.TrimSpace(number) == "" {
		return nil
	}
	if existing, found := reg.FindInvoiceByNumber(number); found && existing.ID != selfID {
		return fmt.Errorf("invoice number %q: %w", number, apperrors.ErrDuplicate)
	}
	return nil
}

func (s *invoiceService) CreateInvoice(ctx context.Context, ownerID string, req dto.CreateInvoiceRequest) (*domain.Invoice, error) {
	supplier := strings.TrimSpace(req.Supplier)
	if supplier == "" {
		return nil, apperrors.Validationf("supplier is required")
	}
	if !req.Total.IsPositive() {
		return nil, apperrors.Validationf("total must be greater than zero")
	}
	now := s.CurrentTime().UTC()
	arrival := s.Today()
	if req.ArrivalDate != nil && !req.ArrivalDate.IsZero() {
		arrival = *req.ArrivalDate
	}
	var due *domain.Date
	if req.DueDate != nil && !req.DueDate.IsZero() {
		d := *req.DueDate
		due = &d
	}

	var created domain.Invoice
	_, err := s.store.Mutate(ctx, ownerID, ActionInvoice, func(reg *domain.Register) error {
		if err := checkUniqueNumber(reg, req.Number, 0); err != nil {
			return err
		}
		created = domain.Invoice{
			ID:           reg.NextInvoiceID(now),
			Supplier:     supplier,
			Number:       strings.TrimSpace(req.Number),
			Total:        domain.Round2(req.Total),
			ArrivalDate:  arrival,
			DueDate:      due,
			PaymentCycle: strings.TrimSpace(req.PaymentCycle),
			Notes:        strings.TrimSpace(req.Notes),
			Schema:       domain.SchemaCurrent,
			Paid:         req.Paid,
			CreatedAt:    now,
		}
		reg.Invoices = append(reg.Invoices, created)
		reg.RememberName(domain.DirectorySuppliers, supplier)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Invoice created", slog.String("owner_id", ownerID), slog.Int64("invoice_id", created.ID))
	return &created, nil
}

func (s *invoiceService) UpdateInvoice(ctx context.Context, ownerID string, invoiceID int64, req dto.UpdateInvoiceRequest) (*domain.Invoice, error) {
	if req.Total != nil && !req.Total.IsPositive() {
		return nil, apperrors.Validationf("total must be greater than zero")
	}
	if req.Supplier != nil && strings.TrimSpace(*req.Supplier) == "" {
		return nil, apperrors.Validationf("supplier cannot be empty")
	}

	var updated domain.Invoice
	_, err := s.store.Mutate(ctx, ownerID, ActionInvoice, func(reg *domain.Register) error {
		inv, ok := reg.InvoiceByID(invoiceID)
		if !ok {
			return fmt.Errorf("invoice %d: %w", invoiceID, apperrors.ErrNotFound)
		}
		if req.Number != nil {
			if err := checkUniqueNumber(reg, *req.Number, invoiceID); err != nil {
				return err
			}
			inv.Number = strings.TrimSpace(*req.Number)
		}
		if req.Supplier != nil {
			inv.Supplier = strings.TrimSpace(*req.Supplier)
			reg.RememberName(domain.DirectorySuppliers, inv.Supplier)
		}
		if req.Total != nil {
			inv.Total = domain.Round2(*req.Total)
		}
		if req.ArrivalDate != nil && !req.ArrivalDate.IsZero() {
			inv.ArrivalDate = *req.ArrivalDate
		}
		if req.ClearDueDate {
			inv.DueDate = nil
		} else if req.DueDate != nil && !req.DueDate.IsZero() {
			d := *req.DueDate
			inv.DueDate = &d
		}
		if req.PaymentCycle != nil {
			inv.PaymentCycle = strings.TrimSpace(*req.PaymentCycle)
		}
		if req.Notes != nil {
			inv.Notes = strings.TrimSpace(*req.Notes)
		}
		if inv.IsLegacy() {
			// totals, numbers and suppliers all feed the allocation
			accounting.ReconcileLegacyInvoices(reg.Ledger, reg.Invoices)
			inv, _ = reg.InvoiceByID(invoiceID)
		}
		updated = *inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *invoiceService) DeleteInvoice(ctx context.Context, ownerID string, invoiceID int64) error {
	_, err := s.store.Mutate(ctx, ownerID, ActionInvoice, func(reg *domain.Register) error {
		if !reg.RemoveInvoice(invoiceID) {
			return fmt.Errorf("invoice %d: %w", invoiceID, apperrors.ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.LogInfo(ctx, "Invoice deleted", slog.String("owner_id", ownerID), slog.Int64("invoice_id", invoiceID))
	return nil
}

func (s *invoiceService) SetPaid(ctx context.Context, ownerID string, invoiceID int64, paid bool) (*domain.Invoice, error) {
	var updated domain.Invoice
	_, err := s.store.Mutate(ctx, ownerID, ActionInvoice, func(reg *domain.Register) error {
		inv, ok := reg.InvoiceByID(invoiceID)
		if !ok {
			return fmt.Errorf("invoice %d: %w", invoiceID, apperrors.ErrNotFound)
		}
		if inv.IsLegacy() {
			return apperrors.Validationf("invoice %d uses split payments; migrate legacy invoices first", invoiceID)
		}
		updated = *inv
		if inv.Paid == paid {
			return errNoChange
		}
		inv.Paid = paid
		updated = *inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *invoiceService) RegisterWirePayment(ctx context.Context, ownerID string, invoiceID int64, req dto.WirePaymentRequest) (*domain.Invoice, error) {
	if !req.Amount.IsPositive() {
		return nil, apperrors.Validationf("amount must be greater than zero")
	}
	amount := domain.Round2(req.Amount)

	var updated domain.Invoice
	_, err := s.store.Mutate(ctx, ownerID, ActionInvoice, func(reg *domain.Register) error {
		inv, ok := reg.InvoiceByID(invoiceID)
		if !ok {
			return fmt.Errorf("invoice %d: %w", invoiceID, apperrors.ErrNotFound)
		}
		if !inv.IsLegacy() {
			return apperrors.Validationf("invoice %d has no split payments; use the paid flag", invoiceID)
		}
		room := inv.Total.Sub(inv.Legacy.WireAllocated)
		if amount.GreaterThan(room) {
			return apperrors.Validationf("payment of %s exceeds the remaining %s", amount.StringFixed(2), room.StringFixed(2))
		}
		inv.Legacy.WireAllocated = domain.Round2(inv.Legacy.WireAllocated.Add(amount))
		accounting.ReconcileLegacyInvoices(reg.Ledger, reg.Invoices)
		inv, _ = reg.InvoiceByID(invoiceID)
		updated = *inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Wire payment registered", slog.String("owner_id", ownerID), slog.Int64("invoice_id", invoiceID), slog.String("amount", amount.StringFixed(2)))
	return &updated, nil
}

func (s *invoiceService) Reconcile(ctx context.Context, ownerID string) (*accounting.ReconcileResult, error) {
	var result accounting.ReconcileResult
	_, err := s.store.Mutate(ctx, ownerID, ActionReconcile, func(reg *domain.Register) error {
		result = accounting.ReconcileLegacyInvoices(reg.Ledger, reg.Invoices)
		if result.LegacyInvoices == 0 {
			return errNoChange
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Legacy invoices reconciled",
		slog.String("owner_id", ownerID),
		slog.Int("legacy_invoices", result.LegacyInvoices),
		slog.String("cash_allocated", result.CashAllocated.StringFixed(2)),
		slog.String("unattributed", result.Unattributed.StringFixed(2)))
	return &result, nil
}

func (s *invoiceService) MigrateLegacy(ctx context.Context, ownerID string) (*dto.MigrationResult, error) {
	result := &dto.MigrationResult{}
	_, err := s.store.Mutate(ctx, ownerID, ActionMigrate, func(reg *domain.Register) error {
		result.Reconcile = accounting.ReconcileLegacyInvoices(reg.Ledger, reg.Invoices)
		for i := range reg.Invoices {
			if reg.Invoices[i].MigrateToCurrent() {
				result.Migrated++
			}
		}
		if result.Migrated == 0 {
			return errNoChange
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Legacy invoices migrated", slog.String("owner_id", ownerID), slog.Int("migrated", result.Migrated))
	return result, nil
}
