package pgsql

import (
	"context"
	"errors"

	"github.com/SscSPs/cash_register_app/internal/apperrors"
	"github.com/SscSPs/cash_register_app/internal/core/domain"
	portsrepo "github.com/SscSPs/cash_register_app/internal/core/ports/repositories"
	"github.com/SscSPs/cash_register_app/internal/models"
	"github.com/SscSPs/cash_register_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxRegisterRepository stores registers in normalized tables. A register is
// always written as a whole inside one transaction.
type PgxRegisterRepository struct {
	BaseRepository
}

func newPgxRegisterRepository(pool *pgxpool.Pool) *PgxRegisterRepository {
	return &PgxRegisterRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxRegisterRepository implements the repository and transaction interfaces
var (
	_ portsrepo.RegisterRepositoryFacade = (*PgxRegisterRepository)(nil)
	_ portsrepo.RepositoryWithTx         = (*PgxRegisterRepository)(nil)
)

// LoadRegister reads the header row and all child rows of the owner.
func (r *PgxRegisterRepository) LoadRegister(ctx context.Context, ownerID string) (*domain.Register, error) {
	headerQuery := `
		SELECT owner_id, balance, suppliers, salaries, recurring, custom_categories,
		       next_seq, next_advance_id, updated_at
		FROM registers
		WHERE owner_id = $1;
	`
	var header models.Register
	err := r.Pool.QueryRow(ctx, headerQuery, ownerID).Scan(
		&header.OwnerID,
		&header.Balance,
		&header.Suppliers,
		&header.Salaries,
		&header.Recurring,
		&header.CustomCategories,
		&header.NextSeq,
		&header.NextAdvanceID,
		&header.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to load register "+ownerID, err)
	}

	entries, err := r.findLedgerEntries(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	invoices, err := r.findInvoices(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	advances, err := r.findAdvances(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainRegister(header, entries, invoices, advances), nil
}

func (r *PgxRegisterRepository) findLedgerEntries(ctx context.Context, ownerID string) ([]models.LedgerEntry, error) {
	query := `
		SELECT entry_id, owner_id, seq, entry_date, category, payee, description, amount, invoice_ref, created_at
		FROM ledger_entries
		WHERE owner_id = $1
		ORDER BY seq;
	`
	rows, err := r.Pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query ledger entries", err)
	}
	defer rows.Close()

	var entries []models.LedgerEntry
	for rows.Next() {
		var e models.LedgerEntry
		if err := rows.Scan(
			&e.EntryID, &e.OwnerID, &e.Seq, &e.EntryDate, &e.Category,
			&e.Payee, &e.Description, &e.Amount, &e.InvoiceRef, &e.CreatedAt,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan ledger entry", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating ledger entries", err)
	}
	return entries, nil
}

func (r *PgxRegisterRepository) findInvoices(ctx context.Context, ownerID string) ([]models.Invoice, error) {
	query := `
		SELECT invoice_id, owner_id, supplier, number, total, arrival_date, due_date, payment_cycle,
		       notes, schema, paid, cash_allocated, wire_allocated, created_at
		FROM invoices
		WHERE owner_id = $1
		ORDER BY invoice_id;
	`
	rows, err := r.Pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query invoices", err)
	}
	defer rows.Close()

	var invoices []models.Invoice
	for rows.Next() {
		var i models.Invoice
		if err := rows.Scan(
			&i.InvoiceID, &i.OwnerID, &i.Supplier, &i.Number, &i.Total, &i.ArrivalDate, &i.DueDate,
			&i.PaymentCycle, &i.Notes, &i.Schema, &i.Paid, &i.CashAllocated, &i.WireAllocated, &i.CreatedAt,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan invoice", err)
		}
		invoices = append(invoices, i)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating invoices", err)
	}
	return invoices, nil
}

func (r *PgxRegisterRepository) findAdvances(ctx context.Context, ownerID string) ([]models.CashAdvance, error) {
	query := `
		SELECT advance_id, owner_id, person_name, amount, advance_date, note, repaid, repaid_on
		FROM cash_advances
		WHERE owner_id = $1
		ORDER BY advance_id;
	`
	rows, err := r.Pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query cash advances", err)
	}
	defer rows.Close()

	var advances []models.CashAdvance
	for rows.Next() {
		var a models.CashAdvance
		if err := rows.Scan(
			&a.AdvanceID, &a.OwnerID, &a.PersonName, &a.Amount, &a.AdvanceDate, &a.Note, &a.Repaid, &a.RepaidOn,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan cash advance", err)
		}
		advances = append(advances, a)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating cash advances", err)
	}
	return advances, nil
}

// SaveRegister replaces the owner's rows with the given register.
func (r *PgxRegisterRepository) SaveRegister(ctx context.Context, reg *domain.Register) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	// Will be ignored if transaction is committed successfully
	defer r.Rollback(ctx, tx)

	header := mapping.ToModelRegister(*reg)
	upsert := `
		INSERT INTO registers (owner_id, balance, suppliers, salaries, recurring, custom_categories,
		                       next_seq, next_advance_id, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (owner_id) DO UPDATE SET
			balance = EXCLUDED.balance,
			suppliers = EXCLUDED.suppliers,
			salaries = EXCLUDED.salaries,
			recurring = EXCLUDED.recurring,
			custom_categories = EXCLUDED.custom_categories,
			next_seq = EXCLUDED.next_seq,
			next_advance_id = EXCLUDED.next_advance_id,
			updated_at = EXCLUDED.updated_at;
	`
	if _, err := tx.Exec(ctx, upsert,
		header.OwnerID,
		header.Balance,
		header.Suppliers,
		header.Salaries,
		header.Recurring,
		header.CustomCategories,
		header.NextSeq,
		header.NextAdvanceID,
		header.UpdatedAt,
	); err != nil {
		return apperrors.NewAppError(500, "failed to upsert register "+reg.OwnerID, err)
	}

	batch := &pgx.Batch{}
	batch.Queue(`DELETE FROM ledger_entries WHERE owner_id = $1;`, reg.OwnerID)
	batch.Queue(`DELETE FROM invoices WHERE owner_id = $1;`, reg.OwnerID)
	batch.Queue(`DELETE FROM cash_advances WHERE owner_id = $1;`, reg.OwnerID)

	entryQuery := `
		INSERT INTO ledger_entries (entry_id, owner_id, seq, entry_date, category, payee, description, amount, invoice_ref, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	for _, e := range reg.Ledger {
		m := mapping.ToModelLedgerEntry(reg.OwnerID, e)
		batch.Queue(entryQuery, m.EntryID, m.OwnerID, m.Seq, m.EntryDate, m.Category,
			m.Payee, m.Description, m.Amount, m.InvoiceRef, m.CreatedAt)
	}

	invoiceQuery := `
		INSERT INTO invoices (invoice_id, owner_id, supplier, number, total, arrival_date, due_date, payment_cycle,
		                      notes, schema, paid, cash_allocated, wire_allocated, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	for _, i := range reg.Invoices {
		m := mapping.ToModelInvoice(reg.OwnerID, i)
		batch.Queue(invoiceQuery, m.InvoiceID, m.OwnerID, m.Supplier, m.Number, m.Total, m.ArrivalDate, m.DueDate,
			m.PaymentCycle, m.Notes, m.Schema, m.Paid, m.CashAllocated, m.WireAllocated, m.CreatedAt)
	}

	advanceQuery := `
		INSERT INTO cash_advances (advance_id, owner_id, person_name, amount, advance_date, note, repaid, repaid_on)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	for _, a := range reg.Advances {
		m := mapping.ToModelCashAdvance(reg.OwnerID, a)
		batch.Queue(advanceQuery, m.AdvanceID, m.OwnerID, m.PersonName, m.Amount, m.AdvanceDate, m.Note, m.Repaid, m.RepaidOn)
	}

	// Close the batch results to check for errors in each command
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return apperrors.NewAppError(500, "failed to write register rows for "+reg.OwnerID, err)
	}

	return r.Commit(ctx, tx)
}
