package accounting

import (
	"sort"

	"github.com/SscSPs/cash_register_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ReconcileResult summarizes one allocator run.
type ReconcileResult struct {
	LegacyInvoices int             `json:"legacyInvoices"`
	CashAllocated  decimal.Decimal `json:"cashAllocated"`
	Unattributed   decimal.Decimal `json:"unattributed"`
}

type cashBuckets struct {
	byNumber map[string]decimal.Decimal
	byName   map[string]decimal.Decimal
}

// collectSupplierCash sums supplier payments from the ledger. A payment tied to
// an invoice number goes to the number bucket, any other to its payee's bucket.
func collectSupplierCash(entries []domain.LedgerEntry) cashBuckets {
	b := cashBuckets{
		byNumber: map[string]decimal.Decimal{},
		byName:   map[string]decimal.Decimal{},
	}
	for _, e := range entries {
		if e.Category != domain.CategorySupplier || !e.Amount.IsNegative() {
			continue
		}
		amount := e.Amount.Abs()
		if ref := domain.NormalizeKey(e.InvoiceRef); ref != "" {
			b.byNumber[ref] = b.byNumber[ref].Add(amount)
			continue
		}
		if name := domain.NormalizeKey(e.Payee); name != "" {
			b.byName[name] = b.byName[name].Add(amount)
		}
	}
	return b
}

func remainingCapacity(inv *domain.Invoice) decimal.Decimal {
	capacity := inv.Total.Sub(inv.Legacy.WireAllocated).Sub(inv.Legacy.CashAllocated)
	if capacity.IsNegative() {
		return decimal.Zero
	}
	return capacity
}

// ReconcileLegacyInvoices attributes supplier cash recorded in the ledger to
// legacy invoices, first by invoice number and then by supplier name with the
// oldest arrival first. Only the Legacy payments of legacy invoices are
// modified. Cash allocations are recomputed from scratch on every run, so
// running it twice on the same data gives the same result.
func ReconcileLegacyInvoices(entries []domain.LedgerEntry, invoices []domain.Invoice) ReconcileResult {
	buckets := collectSupplierCash(entries)
	result := ReconcileResult{CashAllocated: decimal.Zero, Unattributed: decimal.Zero}

	legacy := make([]*domain.Invoice, 0, len(invoices))
	for i := range invoices {
		if invoices[i].IsLegacy() {
			invoices[i].Legacy.CashAllocated = decimal.Zero
			legacy = append(legacy, &invoices[i])
		}
	}
	result.LegacyInvoices = len(legacy)

	for _, inv := range legacy {
		key := domain.NormalizeKey(inv.Number)
		if key == "" {
			continue
		}
		available, ok := buckets.byNumber[key]
		if !ok || !available.IsPositive() {
			continue
		}
		alloc := domain.Round2(decimal.Min(available, remainingCapacity(inv)))
		inv.Legacy.CashAllocated = alloc
		buckets.byNumber[key] = available.Sub(alloc)
	}

	groups := map[string][]*domain.Invoice{}
	for _, inv := range legacy {
		if remainingCapacity(inv).IsPositive() {
			key := domain.NormalizeKey(inv.Supplier)
			groups[key] = append(groups[key], inv)
		}
	}
	for supplier, group := range groups {
		available := buckets.byName[supplier]
		if !available.IsPositive() {
			continue
		}
		sort.SliceStable(group, func(i, j int) bool {
			if c := group[i].ArrivalDate.Compare(group[j].ArrivalDate); c != 0 {
				return c < 0
			}
			return group[i].ID < group[j].ID
		})
		for _, inv := range group {
			if !available.IsPositive() {
				break
			}
			alloc := domain.Round2(decimal.Min(available, remainingCapacity(inv)))
			inv.Legacy.CashAllocated = domain.Round2(inv.Legacy.CashAllocated.Add(alloc))
			available = available.Sub(alloc)
		}
		buckets.byName[supplier] = available
	}

	for _, inv := range legacy {
		inv.Legacy.RecomputeLegacyTotals(inv.Total)
		result.CashAllocated = result.CashAllocated.Add(inv.Legacy.CashAllocated)
	}
	for _, v := range buckets.byNumber {
		result.Unattributed = result.Unattributed.Add(v)
	}
	for _, v := range buckets.byName {
		result.Unattributed = result.Unattributed.Add(v)
	}
	result.CashAllocated = domain.Round2(result.CashAllocated)
	result.Unattributed = domain.Round2(result.Unattributed)
	return result
}
