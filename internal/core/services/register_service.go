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
	"github.com/SscSPs/cash_register_app/internal/utils"
	"github.com/shopspring/decimal"
)

const (
	genericExpensePayee = "Generic expense"
	autoInvoiceNote     = "Created automatically"
)

type registerService struct {
	BaseService
	store *RegisterStore
}

// NewRegisterService creates the service committing registrations and
// managing the balance and directories.
func NewRegisterService(store *RegisterStore, opts ...ServiceOption) portssvc.RegisterSvcFacade {
	s := &registerService{store: store}
	s.apply(opts)
	return s
}

func (s *registerService) GetRegister(ctx context.Context, ownerID string) (*domain.Register, error) {
	return s.store.Read(ctx, ownerID)
}

// pendingExpense is an expense row that passed validation.
type pendingExpense struct {
	category domain.Category
	payee    string
	amount   decimal.Decimal
	number   string
	note     string
}

func prepareTills(rows []dto.TillRow) ([]dto.TillRow, error) {
	out := make([]dto.TillRow, 0, len(rows))
	for i, row := range rows {
		if !row.ReceiptTotal.IsPositive() {
			continue
		}
		if row.CardTotal.IsNegative() {
			return nil, apperrors.Validationf("till %d: card total cannot be negative", i+1)
		}
		if row.CardTotal.GreaterThan(row.ReceiptTotal) {
			return nil, apperrors.Validationf("till %d: card total exceeds receipt total", i+1)
		}
		row.Label = strings.TrimSpace(row.Label)
		out = append(out, row)
	}
	return out, nil
}

func prepareExpenses(rows []dto.ExpenseRow) ([]pendingExpense, error) {
	out := make([]pendingExpense, 0, len(rows))
	for i, row := range rows {
		n := i + 1
		if !row.Category.IsExpenseKind() {
			return nil, apperrors.Validationf("expense %d: unsupported category %q", n, row.Category)
		}
		if !row.Amount.IsPositive() {
			return nil, apperrors.Validationf("expense %d: amount must be greater than zero", n)
		}
		e := pendingExpense{
			category: row.Category,
			payee:    strings.TrimSpace(row.Payee),
			amount:   domain.Round2(row.Amount),
			number:   strings.TrimSpace(row.InvoiceNumber),
			note:     strings.TrimSpace(row.Note),
		}
		switch e.category {
		case domain.CategorySupplier:
			if e.payee == "" {
				return nil, apperrors.Validationf("expense %d: supplier is required", n)
			}
			if e.number == "" {
				return nil, apperrors.Validationf("expense %d: invoice number is required for supplier payments", n)
			}
		case domain.CategorySalary, domain.CategoryRecurring, domain.CategoryAdvance:
			if e.payee == "" {
				return nil, apperrors.Validationf("expense %d: payee is required", n)
			}
		case domain.CategoryGeneric:
			if e.payee == "" {
				e.payee = genericExpensePayee
			}
		}
		out = append(out, e)
	}
	return out, nil
}

func tillDescription(row dto.TillRow, labelled bool) string {
	desc := fmt.Sprintf("Cash takings (Z: %s POS: %s)", utils.FormatEuro(row.ReceiptTotal), utils.FormatEuro(row.CardTotal))
	if labelled && row.Label != "" {
		return row.Label + " " + desc
	}
	return desc
}

func expenseDescription(e pendingExpense) string {
	var prefix string
	switch e.category {
	case domain.CategorySupplier:
		prefix = "Supplier"
	case domain.CategorySalary:
		prefix = "Salary"
	case domain.CategoryRecurring:
		prefix = "Recurring"
	case domain.CategoryAdvance:
		prefix = "Advance"
	default:
		prefix = "Expense"
	}
	desc := prefix + ": " + e.payee
	if e.note != "" {
		desc += " (" + e.note + ")"
	}
	return desc
}

func (s *registerService) CommitRegistration(ctx context.Context, ownerID string, req dto.RegistrationRequest) (*dto.RegistrationResult, error) {
	day := s.Today()
	if req.Date != nil && !req.Date.IsZero() {
		day = *req.Date
	}

	tills, err := prepareTills(req.Tills)
	if err != nil {
		return nil, err
	}
	expenses, err := prepareExpenses(req.Expenses)
	if err != nil {
		return nil, err
	}
	if len(tills) == 0 && len(expenses) == 0 {
		s.LogInfo(ctx, "Registration without tills or expenses", slog.String("owner_id", ownerID))
		return nil, apperrors.ErrNothingToCommit
	}

	result := &dto.RegistrationResult{
		CashCollected:   decimal.Zero,
		ExpenseTotal:    decimal.Zero,
		Entries:         []domain.LedgerEntry{},
		CreatedInvoices: []domain.Invoice{},
		CreatedAdvances: []domain.CashAdvance{},
	}
	now := s.CurrentTime().UTC()

	reg, err := s.store.Mutate(ctx, ownerID, ActionCommit, func(reg *domain.Register) error {
		labelled := len(tills) > 1
		for _, t := range tills {
			cash := domain.Round2(t.ReceiptTotal.Sub(t.CardTotal))
			entry := reg.ApplyEntry(domain.LedgerEntry{
				Date:        day,
				Category:    domain.CategoryTill,
				Payee:       t.Label,
				Description: tillDescription(t, labelled),
				Amount:      cash,
				CreatedAt:   now,
			})
			result.CashCollected = result.CashCollected.Add(cash)
			result.Entries = append(result.Entries, entry)
		}

		for _, e := range expenses {
			entry := reg.ApplyEntry(domain.LedgerEntry{
				Date:        day,
				Category:    e.category,
				Payee:       e.payee,
				Description: expenseDescription(e),
				Amount:      e.amount.Neg(),
				InvoiceRef:  e.number,
				CreatedAt:   now,
			})
			result.ExpenseTotal = result.ExpenseTotal.Add(e.amount)
			result.Entries = append(result.Entries, entry)

			if kind, ok := domain.ExpenseDirectory(e.category); ok {
				reg.RememberName(kind, e.payee)
			}

			switch e.category {
			case domain.CategorySupplier:
				if _, found := reg.FindInvoiceByNumber(e.number); found {
					continue
				}
				inv := domain.Invoice{
					ID:          reg.NextInvoiceID(now),
					Supplier:    e.payee,
					Number:      e.number,
					Total:       e.amount,
					ArrivalDate: day,
					Notes:       autoInvoiceNote,
					Schema:      domain.SchemaCurrent,
					Paid:        true,
					CreatedAt:   now,
				}
				reg.Invoices = append(reg.Invoices, inv)
				result.CreatedInvoices = append(result.CreatedInvoices, inv)
			case domain.CategoryAdvance:
				adv := reg.AddAdvance(domain.CashAdvance{
					PersonName: e.payee,
					Amount:     e.amount,
					Date:       day,
					Note:       e.note,
				})
				result.CreatedAdvances = append(result.CreatedAdvances, adv)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.Balance = reg.Balance
	result.CashCollected = domain.Round2(result.CashCollected)
	result.ExpenseTotal = domain.Round2(result.ExpenseTotal)
	s.LogInfo(ctx, "Registration committed",
		slog.String("owner_id", ownerID),
		slog.Int("entries", len(result.Entries)),
		slog.String("balance", reg.Balance.StringFixed(2)))
	return result, nil
}

func (s *registerService) DeleteEntry(ctx context.Context, ownerID string, entryID string) (*dto.DeleteEntryResponse, error) {
	var removed domain.LedgerEntry
	reg, err := s.store.Mutate(ctx, ownerID, ActionDeleteEntry, func(reg *domain.Register) error {
		entry, ok := reg.RemoveEntry(entryID)
		if !ok {
			return fmt.Errorf("ledger entry %s: %w", entryID, apperrors.ErrNotFound)
		}
		removed = entry
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Ledger entry deleted", slog.String("owner_id", ownerID), slog.String("entry_id", entryID))
	return &dto.DeleteEntryResponse{Entry: removed, Balance: reg.Balance}, nil
}

func (s *registerService) SetBalance(ctx context.Context, ownerID string, balance decimal.Decimal) (decimal.Decimal, error) {
	balance = domain.Round2(balance)
	reg, err := s.store.Mutate(ctx, ownerID, ActionSetBalance, func(reg *domain.Register) error {
		if reg.Balance.Equal(balance) {
			return errNoChange
		}
		reg.Balance = balance
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}
	return reg.Balance, nil
}

func (s *registerService) Reset(ctx context.Context, ownerID string) error {
	_, err := s.store.Mutate(ctx, ownerID, ActionReset, func(reg *domain.Register) error {
		reg.Reset()
		return nil
	})
	if err != nil {
		return err
	}
	s.LogInfo(ctx, "Register reset", slog.String("owner_id", ownerID))
	return nil
}

func (s *registerService) ListDirectory(ctx context.Context, ownerID string, kind domain.DirectoryKind) ([]string, error) {
	reg, err := s.store.Read(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	list, err := reg.Directory(kind)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	return sortedNames(*list), nil
}

func (s *registerService) AddDirectoryName(ctx context.Context, ownerID string, kind domain.DirectoryKind, name string) ([]string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.Validationf("name is required")
	}
	return s.mutateDirectory(ctx, ownerID, kind, func(list *[]string) error {
		if domain.ContainsName(*list, name) {
			return fmt.Errorf("%q: %w", name, apperrors.ErrDuplicate)
		}
		*list = append(*list, name)
		return nil
	})
}

func (s *registerService) RenameDirectoryName(ctx context.Context, ownerID string, kind domain.DirectoryKind, oldName, newName string) ([]string, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return nil, apperrors.Validationf("new name is required")
	}
	return s.mutateDirectory(ctx, ownerID, kind, func(list *[]string) error {
		idx := indexName(*list, oldName)
		if idx < 0 {
			return fmt.Errorf("%q: %w", oldName, apperrors.ErrNotFound)
		}
		if other := indexName(*list, newName); other >= 0 && other != idx {
			return fmt.Errorf("%q: %w", newName, apperrors.ErrDuplicate)
		}
		(*list)[idx] = newName
		return nil
	})
}

func (s *registerService) DeleteDirectoryName(ctx context.Context, ownerID string, kind domain.DirectoryKind, name string) ([]string, error) {
	return s.mutateDirectory(ctx, ownerID, kind, func(list *[]string) error {
		idx := indexName(*list, name)
		if idx < 0 {
			return fmt.Errorf("%q: %w", name, apperrors.ErrNotFound)
		}
		*list = slices.Delete(*list, idx, idx+1)
		return nil
	})
}

func (s *registerService) mutateDirectory(ctx context.Context, ownerID string, kind domain.DirectoryKind, fn func(list *[]string) error) ([]string, error) {
	var names []string
	_, err := s.store.Mutate(ctx, ownerID, ActionDirectory, func(reg *domain.Register) error {
		list, err := reg.Directory(kind)
		if err != nil {
			return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		if err := fn(list); err != nil {
			return err
		}
		names = sortedNames(*list)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return names, nil
}

func indexName(list []string, name string) int {
	key := domain.NormalizeKey(name)
	return slices.IndexFunc(list, func(s string) bool { return domain.NormalizeKey(s) == key })
}

func sortedNames(list []string) []string {
	out := slices.Clone(list)
	slices.SortFunc(out, func(a, b string) int {
		return strings.Compare(strings.ToLower(a), strings.ToLower(b))
	})
	if out == nil {
		out = []string{}
	}
	return out
}
