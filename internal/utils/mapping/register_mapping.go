package mapping

import (
	"time"

	"github.com/SscSPs/cash_register_app/internal/core/domain"
	"github.com/SscSPs/cash_register_app/internal/models"
)

func dateTime(d domain.Date) time.Time {
	return d.Time()
}

func datePtrTime(d *domain.Date) *time.Time {
	if d == nil || d.IsZero() {
		return nil
	}
	t := d.Time()
	return &t
}

func timePtrDate(t *time.Time) *domain.Date {
	if t == nil || t.IsZero() {
		return nil
	}
	d := domain.DateOf(*t)
	return &d
}

// ToModelRegister converts the header fields of a domain Register.
func ToModelRegister(r domain.Register) models.Register {
	return models.Register{
		OwnerID:          r.OwnerID,
		Balance:          r.Balance,
		Suppliers:        r.Suppliers,
		Salaries:         r.Salaries,
		Recurring:        r.Recurring,
		CustomCategories: r.CustomCategories,
		NextSeq:          r.NextSeq,
		NextAdvanceID:    r.NextAdvanceID,
		UpdatedAt:        r.UpdatedAt,
	}
}

// ToDomainRegister builds a domain Register from its header and child rows.
func ToDomainRegister(m models.Register, entries []models.LedgerEntry, invoices []models.Invoice, advances []models.CashAdvance) *domain.Register {
	reg := &domain.Register{
		OwnerID:          m.OwnerID,
		Balance:          m.Balance,
		Suppliers:        m.Suppliers,
		Salaries:         m.Salaries,
		Recurring:        m.Recurring,
		CustomCategories: m.CustomCategories,
		NextSeq:          m.NextSeq,
		NextAdvanceID:    m.NextAdvanceID,
		UpdatedAt:        m.UpdatedAt,
		Ledger:           make([]domain.LedgerEntry, 0, len(entries)),
		Invoices:         make([]domain.Invoice, 0, len(invoices)),
		Advances:         make([]domain.CashAdvance, 0, len(advances)),
	}
	for _, e := range entries {
		reg.Ledger = append(reg.Ledger, ToDomainLedgerEntry(e))
	}
	for _, i := range invoices {
		reg.Invoices = append(reg.Invoices, ToDomainInvoice(i))
	}
	for _, a := range advances {
		reg.Advances = append(reg.Advances, ToDomainCashAdvance(a))
	}
	reg.Normalize()
	return reg
}

// ToModelLedgerEntry converts a domain LedgerEntry to a model LedgerEntry
func ToModelLedgerEntry(ownerID string, e domain.LedgerEntry) models.LedgerEntry {
	return models.LedgerEntry{
		EntryID:     e.ID,
		OwnerID:     ownerID,
		Seq:         e.Seq,
		EntryDate:   dateTime(e.Date),
		Category:    string(e.Category),
		Payee:       e.Payee,
		Description: e.Description,
		Amount:      e.Amount,
		InvoiceRef:  e.InvoiceRef,
		CreatedAt:   e.CreatedAt,
	}
}

// ToDomainLedgerEntry converts a model LedgerEntry to a domain LedgerEntry
func ToDomainLedgerEntry(m models.LedgerEntry) domain.LedgerEntry {
	category := domain.Category(m.Category)
	if !category.Valid() {
		category = domain.CategoryImported
	}
	return domain.LedgerEntry{
		ID:          m.EntryID,
		Seq:         m.Seq,
		Date:        domain.DateOf(m.EntryDate),
		Category:    category,
		Payee:       m.Payee,
		Description: m.Description,
		Amount:      m.Amount,
		InvoiceRef:  m.InvoiceRef,
		CreatedAt:   m.CreatedAt,
	}
}

// ToModelInvoice converts a domain Invoice to a model Invoice
func ToModelInvoice(ownerID string, i domain.Invoice) models.Invoice {
	m := models.Invoice{
		InvoiceID:    i.ID,
		OwnerID:      ownerID,
		Supplier:     i.Supplier,
		Number:       i.Number,
		Total:        i.Total,
		ArrivalDate:  dateTime(i.ArrivalDate),
		DueDate:      datePtrTime(i.DueDate),
		PaymentCycle: i.PaymentCycle,
		Notes:        i.Notes,
		Schema:       string(i.Schema),
		Paid:         i.Paid,
		CreatedAt:    i.CreatedAt,
	}
	if i.IsLegacy() {
		cash := i.Legacy.CashAllocated
		wire := i.Legacy.WireAllocated
		m.CashAllocated = &cash
		m.WireAllocated = &wire
	}
	return m
}

// ToDomainInvoice converts a model Invoice to a domain Invoice. Paid and
// unpaid totals of legacy invoices are derived, not stored.
func ToDomainInvoice(m models.Invoice) domain.Invoice {
	inv := domain.Invoice{
		ID:           m.InvoiceID,
		Supplier:     m.Supplier,
		Number:       m.Number,
		Total:        m.Total,
		ArrivalDate:  domain.DateOf(m.ArrivalDate),
		DueDate:      timePtrDate(m.DueDate),
		PaymentCycle: m.PaymentCycle,
		Notes:        m.Notes,
		Schema:       domain.SchemaCurrent,
		Paid:         m.Paid,
		CreatedAt:    m.CreatedAt,
	}
	if domain.InvoiceSchema(m.Schema) == domain.SchemaLegacy {
		inv.Schema = domain.SchemaLegacy
		inv.Legacy = &domain.LegacyPayments{}
		if m.CashAllocated != nil {
			inv.Legacy.CashAllocated = *m.CashAllocated
		}
		if m.WireAllocated != nil {
			inv.Legacy.WireAllocated = *m.WireAllocated
		}
		inv.Legacy.RecomputeLegacyTotals(inv.Total)
	}
	return inv
}

// ToModelCashAdvance converts a domain CashAdvance to a model CashAdvance
func ToModelCashAdvance(ownerID string, a domain.CashAdvance) models.CashAdvance {
	return models.CashAdvance{
		AdvanceID:   a.ID,
		OwnerID:     ownerID,
		PersonName:  a.PersonName,
		Amount:      a.Amount,
		AdvanceDate: dateTime(a.Date),
		Note:        a.Note,
		Repaid:      a.Repaid,
		RepaidOn:    datePtrTime(a.RepaidOn),
	}
}

// ToDomainCashAdvance converts a model CashAdvance to a domain CashAdvance
func ToDomainCashAdvance(m models.CashAdvance) domain.CashAdvance {
	return domain.CashAdvance{
		ID:         m.AdvanceID,
		PersonName: m.PersonName,
		Amount:     m.Amount,
		Date:       domain.DateOf(m.AdvanceDate),
		Note:       m.Note,
		Repaid:     m.Repaid,
		RepaidOn:   timePtrDate(m.RepaidOn),
	}
}
