package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/cash_register_app/internal/apperrors"
	"github.com/SscSPs/cash_register_app/internal/core/domain"
	"github.com/SscSPs/cash_register_app/internal/core/services"
	"github.com/SscSPs/cash_register_app/internal/dto"
	"github.com/SscSPs/cash_register_app/internal/repositories/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdvanceService_ListAndRepay(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewRegisterRepository()
	observer := &recordingObserver{}
	store := services.NewRegisterStore(repo, observer)
	store.Now = fixedClock
	register := services.NewRegisterService(store, services.WithClock(fixedClock))
	advances := services.NewAdvanceService(store, services.WithClock(fixedClock))

	earlier := domain.NewDate(2024, time.March, 1)
	_, err := register.CommitRegistration(ctx, testOwner, dto.RegistrationRequest{
		Date:  &earlier,
		Tills: []dto.TillRow{{ReceiptTotal: dec("500")}},
		Expenses: []dto.ExpenseRow{
			{Category: domain.CategoryAdvance, Payee: "Luca", Amount: dec("50")},
			{Category: domain.CategoryAdvance, Payee: "Anna", Amount: dec("20")},
		},
	})
	require.NoError(t, err)
	_, err = register.CommitRegistration(ctx, testOwner, dto.RegistrationRequest{
		Expenses: []dto.ExpenseRow{{Category: domain.CategoryAdvance, Payee: "luca", Amount: dec("15")}},
	})
	require.NoError(t, err)

	open, err := advances.ListAdvances(ctx, testOwner, dto.ListAdvancesParams{})
	require.NoError(t, err)
	require.Len(t, open.Advances, 3)
	assert.True(t, dec("85").Equal(open.OpenTotal))
	assert.Equal(t, domain.NewDate(2024, time.March, 15), open.Advances[0].Date, "newest first")
	assert.Equal(t, "Anna", open.Advances[1].PersonName, "same day sorted by name")

	luca, err := advances.ListAdvances(ctx, testOwner, dto.ListAdvancesParams{Person: "LUCA", Filter: "all"})
	require.NoError(t, err)
	assert.Len(t, luca.Advances, 2)
	assert.True(t, dec("65").Equal(luca.OpenTotal))

	var lucaFirst domain.CashAdvance
	for _, a := range luca.Advances {
		if a.Date.Equal(earlier) {
			lucaFirst = a
		}
	}
	require.NotZero(t, lucaFirst.ID)

	resp, err := advances.RepayAdvance(ctx, testOwner, lucaFirst.ID)
	require.NoError(t, err)
	assert.False(t, resp.AlreadyRepaid)
	assert.True(t, resp.Advance.Repaid)
	require.NotNil(t, resp.Advance.RepaidOn)
	assert.Equal(t, domain.NewDate(2024, time.March, 15), *resp.Advance.RepaidOn)
	require.NotNil(t, resp.Entry)
	assert.Equal(t, domain.CategoryAdvanceRepayment, resp.Entry.Category)
	assert.True(t, dec("50").Equal(resp.Entry.Amount), "the cash comes back into the register")
	assert.True(t, dec("465").Equal(resp.Balance))

	actions := len(observer.Actions())
	again, err := advances.RepayAdvance(ctx, testOwner, lucaFirst.ID)
	require.NoError(t, err)
	assert.True(t, again.AlreadyRepaid)
	assert.Nil(t, again.Entry)
	assert.True(t, dec("465").Equal(again.Balance), "a second repayment changes nothing")
	assert.Len(t, observer.Actions(), actions)

	repaid, err := advances.ListAdvances(ctx, testOwner, dto.ListAdvancesParams{Filter: "repaid"})
	require.NoError(t, err)
	require.Len(t, repaid.Advances, 1)
	assert.Equal(t, lucaFirst.ID, repaid.Advances[0].ID)
	assert.True(t, dec("35").Equal(repaid.OpenTotal))

	_, err = advances.RepayAdvance(ctx, testOwner, 999)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
