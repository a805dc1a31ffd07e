package services

import (
	"testing"
	"time"

	"github.com/SscSPs/cash_register_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestChooseSide(t *testing.T) {
	base := time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)
	build := func(entries int, balance int64, updated time.Time) *domain.Register {
		reg := domain.NewRegister("owner")
		reg.Ledger = make([]domain.LedgerEntry, entries)
		reg.Balance = decimal.NewFromInt(balance)
		reg.UpdatedAt = updated
		return reg
	}

	testCases := []struct {
		name   string
		local  *domain.Register
		remote *domain.Register
		want   domain.SyncDirection
	}{
		{"remote has more entries", build(1, 10, base.Add(time.Hour)), build(2, 5, base), domain.SyncTookRemote},
		{"local has more entries", build(3, 10, base), build(2, 50, base.Add(time.Hour)), domain.SyncPushed},
		{"same entries and balance", build(2, 10, base), build(2, 10, base.Add(time.Hour)), domain.SyncNoChange},
		{"balance differs, local newer", build(2, 10, base.Add(time.Minute)), build(2, 20, base), domain.SyncPushed},
		{"balance differs, remote newer", build(2, 10, base), build(2, 20, base.Add(time.Minute)), domain.SyncTookRemote},
		{"balance differs, same timestamp", build(2, 10, base), build(2, 20, base), domain.SyncTookRemote},
		{"empty on both sides", build(0, 0, time.Time{}), build(0, 0, time.Time{}), domain.SyncNoChange},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, chooseSide(tc.local, tc.remote))
		})
	}
}
