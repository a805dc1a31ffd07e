package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/cash_register_app/internal/apperrors"
	"github.com/SscSPs/cash_register_app/internal/core/domain"
	portssvc "github.com/SscSPs/cash_register_app/internal/core/ports/services"
	"github.com/SscSPs/cash_register_app/internal/dto"
	"github.com/SscSPs/cash_register_app/internal/utils/accounting"
)

type backupService struct {
	BaseService
	store *RegisterStore
}

// NewBackupService creates the backup export and restore service.
func NewBackupService(store *RegisterStore, opts ...ServiceOption) portssvc.BackupSvcFacade {
	s := &backupService{store: store}
	s.apply(opts)
	return s
}

func (s *backupService) Export(ctx context.Context, ownerID string) (*dto.BackupDocument, error) {
	reg, err := s.store.Read(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return &dto.BackupDocument{
		BackupHeader: dto.BackupHeader{
			App:     dto.BackupAppSignature,
			Version: dto.BackupVersion,
			Date:    s.CurrentTime().UTC(),
		},
		Register: *reg,
	}, nil
}

func (s *backupService) Restore(ctx context.Context, ownerID string, raw []byte) (*dto.RestoreResult, error) {
	var header dto.BackupHeader
	if err := json.Unmarshal(raw, &header); err != nil {
		return nil, apperrors.Validationf("backup is not valid JSON: %v", err)
	}
	if header.App != dto.BackupAppSignature {
		return nil, apperrors.Validationf("file is not a %s backup", dto.BackupAppSignature)
	}
	if header.Version > dto.BackupVersion {
		return nil, apperrors.Validationf("backup version %d is newer than supported version %d", header.Version, dto.BackupVersion)
	}

	var (
		restored *domain.Register
		result   *dto.RestoreResult
		err      error
	)
	if header.Version >= dto.BackupVersion {
		restored, result, err = decodeCurrentBackup(raw)
	} else {
		restored, result, err = decodeLegacyBackup(raw, s.CurrentTime())
	}
	if err != nil {
		return nil, err
	}
	result.SourceVersion = header.Version
	result.BackupDate = header.Date

	reg, err := s.store.Mutate(ctx, ownerID, ActionRestore, func(reg *domain.Register) error {
		*reg = *restored
		reg.OwnerID = ownerID
		reg.Normalize()
		return nil
	})
	if err != nil {
		return nil, err
	}
	result.Balance = reg.Balance
	s.LogInfo(ctx, "Backup restored",
		slog.String("owner_id", ownerID),
		slog.Int("version", header.Version),
		slog.Int("entries", result.Entries),
		slog.Int("skipped", result.SkippedRows))
	return result, nil
}

func decodeCurrentBackup(raw []byte) (*domain.Register, *dto.RestoreResult, error) {
	var doc dto.BackupDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, nil, apperrors.Validationf("backup cannot be read: %v", err)
	}
	reg := doc.Register
	reg.Normalize()

	result := &dto.RestoreResult{}
	for i := range reg.Ledger {
		if !reg.Ledger[i].Category.Valid() {
			reg.Ledger[i].Category = domain.CategoryImported
		}
	}
	for i := range reg.Invoices {
		inv := &reg.Invoices[i]
		switch {
		case inv.Schema == domain.SchemaLegacy && inv.Legacy != nil:
			inv.Legacy.RecomputeLegacyTotals(inv.Total)
			result.LegacyInvoices++
		default:
			inv.Schema = domain.SchemaCurrent
			inv.Legacy = nil
		}
	}
	result.Entries = len(reg.Ledger)
	result.Invoices = len(reg.Invoices)
	result.Advances = len(reg.Advances)
	return &reg, result, nil
}

// parseLegacyID reads ids written as integers or as millisecond floats.
func parseLegacyID(n json.Number) (int64, bool) {
	if n == "" {
		return 0, false
	}
	if id, err := n.Int64(); err == nil {
		return id, true
	}
	f, err := strconv.ParseFloat(string(n), 64)
	if err != nil {
		return 0, false
	}
	return int64(f), true
}

func decodeLegacyBackup(raw []byte, now time.Time) (*domain.Register, *dto.RestoreResult, error) {
	var doc dto.LegacyBackupDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, nil, apperrors.Validationf("legacy backup cannot be read: %v", err)
	}

	reg := domain.NewRegister("")
	reg.Balance = domain.Round2(doc.Balance)
	for _, n := range doc.Suppliers {
		reg.RememberName(domain.DirectorySuppliers, n)
	}
	for _, n := range doc.Salaries {
		reg.RememberName(domain.DirectorySalaries, n)
	}
	for _, n := range doc.Recurring {
		reg.RememberName(domain.DirectoryRecurring, n)
	}

	result := &dto.RestoreResult{}
	created := now.UTC()
	for _, row := range doc.Log {
		day, err := domain.ParseFlexDate(row.Date)
		if err != nil {
			result.SkippedRows++
			continue
		}
		class := accounting.ClassifyDescription(row.Description, row.Amount, reg.Recurring)
		reg.AppendEntry(domain.LedgerEntry{
			Date:        day,
			Category:    class.Category,
			Payee:       class.Payee,
			Description: strings.TrimSpace(row.Description),
			Amount:      row.Amount,
			InvoiceRef:  strings.TrimSpace(row.Invoice),
			CreatedAt:   created,
		})
	}

	for _, li := range doc.Invoices {
		id, ok := parseLegacyID(li.ID)
		if !ok {
			id = reg.NextInvoiceID(created)
		}
		arrival, err := domain.ParseFlexDate(li.ArrivalDate)
		if err != nil {
			arrival = domain.DateOf(created)
		}
		inv := domain.Invoice{
			ID:           id,
			Supplier:     strings.TrimSpace(li.Supplier),
			Number:       strings.TrimSpace(li.Number),
			Total:        domain.Round2(li.Total),
			ArrivalDate:  arrival,
			PaymentCycle: strings.TrimSpace(li.Cycle),
			Notes:        strings.TrimSpace(li.Notes),
			Schema:       domain.SchemaLegacy,
			Legacy: &domain.LegacyPayments{
				CashAllocated: domain.Round2(li.Cash),
				WireAllocated: domain.Round2(li.Wire),
			},
			CreatedAt: created,
		}
		if due, err := domain.ParseFlexDate(li.DueDate); err == nil {
			inv.DueDate = &due
		}
		inv.Legacy.RecomputeLegacyTotals(inv.Total)
		reg.Invoices = append(reg.Invoices, inv)
		reg.RememberName(domain.DirectorySuppliers, inv.Supplier)
	}

	for _, la := range doc.Advances {
		day, err := domain.ParseFlexDate(la.Date)
		if err != nil {
			day = domain.DateOf(created)
		}
		reg.AddAdvance(domain.CashAdvance{
			PersonName: strings.TrimSpace(la.Name),
			Amount:     la.Amount,
			Date:       day,
			Note:       strings.TrimSpace(la.Note),
			Repaid:     la.Repaid,
		})
		if id, ok := parseLegacyID(la.ID); ok && id > 0 {
			reg.Advances[len(reg.Advances)-1].ID = id
		}
	}
	reg.Normalize()

	reconcile := accounting.ReconcileLegacyInvoices(reg.Ledger, reg.Invoices)
	result.LegacyInvoices = reconcile.LegacyInvoices
	result.Entries = len(reg.Ledger)
	result.Invoices = len(reg.Invoices)
	result.Advances = len(reg.Advances)
	if result.Entries == 0 && len(doc.Log) > 0 {
		return nil, nil, fmt.Errorf("%w: no ledger row of the backup could be read", apperrors.ErrValidation)
	}
	return reg, result, nil
}
