package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/cash_register_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func datePtr(d domain.Date) *domain.Date { return &d }

func TestInvoice_Status(t *testing.T) {
	today := domain.NewDate(2025, time.March, 10)

	tests := []struct {
		name    string
		invoice domain.Invoice
		want    domain.InvoiceStatus
	}{
		{
			name:    "paid current invoice ignores due date",
			invoice: domain.Invoice{Schema: domain.SchemaCurrent, Paid: true, DueDate: datePtr(today.AddDays(-30))},
			want:    domain.InvoiceStatusPaid,
		},
		{
			name: "legacy invoice with nothing unpaid",
			invoice: domain.Invoice{Schema: domain.SchemaLegacy, Legacy: &domain.LegacyPayments{
				UnpaidTotal: decimal.Zero,
			}, DueDate: datePtr(today.AddDays(-3))},
			want: domain.InvoiceStatusPaid,
		},
		{
			name:    "due yesterday is overdue",
			invoice: domain.Invoice{Schema: domain.SchemaCurrent, DueDate: datePtr(today.AddDays(-1))},
			want:    domain.InvoiceStatusOverdue,
		},
		{
			name:    "due today is due soon",
			invoice: domain.Invoice{Schema: domain.SchemaCurrent, DueDate: datePtr(today)},
			want:    domain.InvoiceStatusDueSoon,
		},
		{
			name:    "due in seven days is due soon",
			invoice: domain.Invoice{Schema: domain.SchemaCurrent, DueDate: datePtr(today.AddDays(7))},
			want:    domain.InvoiceStatusDueSoon,
		},
		{
			name:    "due in eight days is open",
			invoice: domain.Invoice{Schema: domain.SchemaCurrent, DueDate: datePtr(today.AddDays(8))},
			want:    domain.InvoiceStatusOpen,
		},
		{
			name:    "no due date is open",
			invoice: domain.Invoice{Schema: domain.SchemaCurrent},
			want:    domain.InvoiceStatusOpen,
		},
		{
			name: "legacy invoice with unpaid remainder is overdue",
			invoice: domain.Invoice{Schema: domain.SchemaLegacy, Legacy: &domain.LegacyPayments{
				UnpaidTotal: decimal.NewFromInt(10),
			}, DueDate: datePtr(today.AddDays(-2))},
			want: domain.InvoiceStatusOverdue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.invoice.Status(today, domain.DefaultDueSoonDays))
		})
	}
}

func TestInvoice_MigrateToCurrent(t *testing.T) {
	inv := domain.Invoice{
		Schema: domain.SchemaLegacy,
		Total:  decimal.NewFromInt(100),
		Legacy: &domain.LegacyPayments{UnpaidTotal: decimal.Zero},
	}
	require.True(t, inv.MigrateToCurrent())
	assert.Equal(t, domain.SchemaCurrent, inv.Schema)
	assert.True(t, inv.Paid)
	assert.Nil(t, inv.Legacy)

	open := domain.Invoice{
		Schema: domain.SchemaLegacy,
		Total:  decimal.NewFromInt(100),
		Legacy: &domain.LegacyPayments{UnpaidTotal: decimal.NewFromInt(40)},
	}
	require.True(t, open.MigrateToCurrent())
	assert.False(t, open.Paid)
	assert.False(t, open.MigrateToCurrent(), "second migration is a no-op")
}

func TestLegacyPayments_RecomputeClampsAtZero(t *testing.T) {
	p := domain.LegacyPayments{
		CashAllocated: decimal.RequireFromString("30.005"),
		WireAllocated: decimal.NewFromInt(80),
	}
	p.RecomputeLegacyTotals(decimal.NewFromInt(100))
	assert.True(t, p.UnpaidTotal.IsZero())
	assert.Equal(t, "110.01", p.PaidTotal.StringFixed(2))
}

func TestRegister_NextInvoiceIDIsMonotonic(t *testing.T) {
	reg := domain.NewRegister("shop")
	now := time.UnixMilli(1_700_000_000_000)
	first := reg.NextInvoiceID(now)
	reg.Invoices = append(reg.Invoices, domain.Invoice{ID: first})
	second := reg.NextInvoiceID(now)
	assert.Greater(t, second, first)
}
