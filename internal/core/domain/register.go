package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DirectoryKind names one of the lists of known payees.
type DirectoryKind string

const (
	DirectorySuppliers DirectoryKind = "suppliers"
	DirectorySalaries  DirectoryKind = "salaries"
	DirectoryRecurring DirectoryKind = "recurring"
	DirectoryCustom    DirectoryKind = "custom"
)

// Register is the whole state of one shop's cash register. It is loaded and
// saved as a unit.
type Register struct {
	OwnerID          string          `json:"ownerId"`
	Balance          decimal.Decimal `json:"balance"`
	Suppliers        []string        `json:"suppliers"`
	Salaries         []string        `json:"salaries"`
	Recurring        []string        `json:"recurring"`
	CustomCategories []string        `json:"customCategories"`
	Ledger           []LedgerEntry   `json:"ledger"`
	Invoices         []Invoice       `json:"invoices"`
	Advances         []CashAdvance   `json:"advances"`
	NextSeq          int64           `json:"nextSeq"`
	NextAdvanceID    int64           `json:"nextAdvanceId"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// NewRegister returns an empty register for the owner.
func NewRegister(ownerID string) *Register {
	return &Register{
		OwnerID:          ownerID,
		Balance:          decimal.Zero,
		Suppliers:        []string{},
		Salaries:         []string{},
		Recurring:        []string{},
		CustomCategories: []string{},
		Ledger:           []LedgerEntry{},
		Invoices:         []Invoice{},
		Advances:         []CashAdvance{},
		NextSeq:          1,
		NextAdvanceID:    1,
	}
}

// Normalize fills nil collections and counters after decoding.
func (r *Register) Normalize() {
	if r.Suppliers == nil {
		r.Suppliers = []string{}
	}
	if r.Salaries == nil {
		r.Salaries = []string{}
	}
	if r.Recurring == nil {
		r.Recurring = []string{}
	}
	if r.CustomCategories == nil {
		r.CustomCategories = []string{}
	}
	if r.Ledger == nil {
		r.Ledger = []LedgerEntry{}
	}
	if r.Invoices == nil {
		r.Invoices = []Invoice{}
	}
	if r.Advances == nil {
		r.Advances = []CashAdvance{}
	}
	for _, e := range r.Ledger {
		if e.Seq >= r.NextSeq {
			r.NextSeq = e.Seq + 1
		}
	}
	for _, a := range r.Advances {
		if a.ID >= r.NextAdvanceID {
			r.NextAdvanceID = a.ID + 1
		}
	}
	if r.NextSeq < 1 {
		r.NextSeq = 1
	}
	if r.NextAdvanceID < 1 {
		r.NextAdvanceID = 1
	}
}

// AppendEntry adds an entry to the ledger, assigning its id and sequence. It
// does not touch the balance.
func (r *Register) AppendEntry(e LedgerEntry) LedgerEntry {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	e.Amount = Round2(e.Amount)
	e.Seq = r.NextSeq
	r.NextSeq++
	r.Ledger = append(r.Ledger, e)
	return e
}

// ApplyEntry appends the entry and moves the balance by its amount.
func (r *Register) ApplyEntry(e LedgerEntry) LedgerEntry {
	added := r.AppendEntry(e)
	r.Balance = Round2(r.Balance.Add(added.Amount))
	return added
}

// RemoveEntry deletes the entry and reverses its effect on the balance.
func (r *Register) RemoveEntry(id string) (LedgerEntry, bool) {
	idx := slices.IndexFunc(r.Ledger, func(e LedgerEntry) bool { return e.ID == id })
	if idx < 0 {
		return LedgerEntry{}, false
	}
	removed := r.Ledger[idx]
	r.Ledger = slices.Delete(r.Ledger, idx, idx+1)
	r.Balance = Round2(r.Balance.Sub(removed.Amount))
	return removed, true
}

// FindEntry returns the ledger entry with the given id.
func (r *Register) FindEntry(id string) (LedgerEntry, bool) {
	idx := slices.IndexFunc(r.Ledger, func(e LedgerEntry) bool { return e.ID == id })
	if idx < 0 {
		return LedgerEntry{}, false
	}
	return r.Ledger[idx], true
}

// FindInvoiceByNumber matches invoice numbers case-insensitively.
func (r *Register) FindInvoiceByNumber(number string) (*Invoice, bool) {
	key := NormalizeKey(number)
	if key == "" {
		return nil, false
	}
	for i := range r.Invoices {
		if NormalizeKey(r.Invoices[i].Number) == key {
			return &r.Invoices[i], true
		}
	}
	return nil, false
}

// InvoiceByID returns a pointer into the invoice slice.
func (r *Register) InvoiceByID(id int64) (*Invoice, bool) {
	for i := range r.Invoices {
		if r.Invoices[i].ID == id {
			return &r.Invoices[i], true
		}
	}
	return nil, false
}

// RemoveInvoice deletes an invoice by id.
func (r *Register) RemoveInvoice(id int64) bool {
	idx := slices.IndexFunc(r.Invoices, func(i Invoice) bool { return i.ID == id })
	if idx < 0 {
		return false
	}
	r.Invoices = slices.Delete(r.Invoices, idx, idx+1)
	return true
}

// NextInvoiceID derives an id from the creation time in milliseconds, bumped
// past the largest existing id so ids stay strictly increasing.
func (r *Register) NextInvoiceID(now time.Time) int64 {
	id := now.UnixMilli()
	for _, inv := range r.Invoices {
		if inv.ID >= id {
			id = inv.ID + 1
		}
	}
	return id
}

// AddAdvance records a new cash advance.
func (r *Register) AddAdvance(a CashAdvance) CashAdvance {
	a.ID = r.NextAdvanceID
	r.NextAdvanceID++
	a.Amount = Round2(a.Amount)
	r.Advances = append(r.Advances, a)
	return a
}

// AdvanceByID returns a pointer into the advances slice.
func (r *Register) AdvanceByID(id int64) (*CashAdvance, bool) {
	for i := range r.Advances {
		if r.Advances[i].ID == id {
			return &r.Advances[i], true
		}
	}
	return nil, false
}

// Directory returns the name list for a kind.
func (r *Register) Directory(kind DirectoryKind) (*[]string, error) {
	switch kind {
	case DirectorySuppliers:
		return &r.Suppliers, nil
	case DirectorySalaries:
		return &r.Salaries, nil
	case DirectoryRecurring:
		return &r.Recurring, nil
	case DirectoryCustom:
		return &r.CustomCategories, nil
	}
	return nil, fmt.Errorf("unknown directory %q", kind)
}

// RememberName adds name to the directory unless an equal name is present.
func (r *Register) RememberName(kind DirectoryKind, name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	list, err := r.Directory(kind)
	if err != nil {
		return
	}
	if ContainsName(*list, name) {
		return
	}
	*list = append(*list, name)
}

// ContainsName matches names case-insensitively.
func ContainsName(list []string, name string) bool {
	key := NormalizeKey(name)
	return slices.ContainsFunc(list, func(s string) bool { return NormalizeKey(s) == key })
}

// ExpenseDirectory maps an expense category to the directory its payees live in.
func ExpenseDirectory(c Category) (DirectoryKind, bool) {
	switch c {
	case CategorySupplier:
		return DirectorySuppliers, true
	case CategorySalary:
		return DirectorySalaries, true
	case CategoryRecurring:
		return DirectoryRecurring, true
	}
	return "", false
}

// Reset wipes the register back to an empty state for the same owner.
func (r *Register) Reset() {
	*r = *NewRegister(r.OwnerID)
}
