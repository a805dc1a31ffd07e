package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/cash_register_app/internal/apperrors"
	"github.com/SscSPs/cash_register_app/internal/core/domain"
	portssvc "github.com/SscSPs/cash_register_app/internal/core/ports/services"
	"github.com/SscSPs/cash_register_app/internal/core/services"
	"github.com/SscSPs/cash_register_app/internal/dto"
	"github.com/SscSPs/cash_register_app/internal/repositories/memory"
	"github.com/stretchr/testify/suite"
)

type LedgerServiceTestSuite struct {
	suite.Suite
	repo    *memory.RegisterRepository
	service portssvc.LedgerSvcFacade
	ctx     context.Context
	entries []domain.LedgerEntry
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}

func (suite *LedgerServiceTestSuite) SetupTest() {
	suite.repo = memory.NewRegisterRepository()
	store := services.NewRegisterStore(suite.repo)
	suite.service = services.NewLedgerService(store, services.WithClock(fixedClock))
	suite.ctx = context.Background()

	reg := domain.NewRegister(testOwner)
	reg.Balance = dec("100")
	suite.entries = []domain.LedgerEntry{
		reg.ApplyEntry(domain.LedgerEntry{Date: domain.NewDate(2024, time.January, 20), Category: domain.CategoryTill, Description: "Cash takings", Amount: dec("200")}),
		reg.ApplyEntry(domain.LedgerEntry{Date: domain.NewDate(2024, time.March, 14), Category: domain.CategoryTill, Description: "Cash takings", Amount: dec("300")}),
		reg.ApplyEntry(domain.LedgerEntry{Date: domain.NewDate(2024, time.March, 14), Category: domain.CategorySupplier, Payee: "Rossi", Description: "Supplier: Rossi", Amount: dec("-50"), InvoiceRef: "F-9"}),
		reg.ApplyEntry(domain.LedgerEntry{Date: domain.NewDate(2024, time.March, 15), Category: domain.CategoryGeneric, Payee: "Pulizie", Description: "Expense: Pulizie", Amount: dec("-20")}),
	}
	reg.Invoices = append(reg.Invoices, domain.Invoice{
		ID: 7, Supplier: "Rossi", Number: "F-10", Total: dec("75"),
		ArrivalDate: domain.NewDate(2024, time.March, 1), Schema: domain.SchemaCurrent,
	})
	reg.AddAdvance(domain.CashAdvance{PersonName: "Luca", Amount: dec("40"), Date: domain.NewDate(2024, time.March, 2)})
	suite.Require().NoError(suite.repo.SaveRegister(suite.ctx, reg))
}

func (suite *LedgerServiceTestSuite) TestBalances() {
	current, err := suite.service.GetBalance(suite.ctx, testOwner)
	suite.Require().NoError(err)
	suite.True(dec("530").Equal(current.Balance))
	suite.Nil(current.AsOf)

	testCases := []struct {
		day  domain.Date
		want string
	}{
		{domain.NewDate(2023, time.December, 31), "100"},
		{domain.NewDate(2024, time.March, 13), "300"},
		{domain.NewDate(2024, time.March, 14), "550"},
		{domain.NewDate(2024, time.March, 20), "530"},
	}
	for _, tc := range testCases {
		suite.Run(tc.day.String(), func() {
			got, err := suite.service.BalanceAtDate(suite.ctx, testOwner, tc.day)
			suite.Require().NoError(err)
			suite.True(dec(tc.want).Equal(got.Balance), "got %s", got.Balance)
			suite.Equal(tc.day, *got.AsOf)
		})
	}

	_, err = suite.service.BalanceAtDate(suite.ctx, testOwner, domain.Date{})
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *LedgerServiceTestSuite) TestBalanceOfUnknownOwnerIsZero() {
	got, err := suite.service.GetBalance(suite.ctx, "someone-else")
	suite.Require().NoError(err)
	suite.True(got.Balance.IsZero())
}

func (suite *LedgerServiceTestSuite) TestDaySummary() {
	summary, err := suite.service.DaySummary(suite.ctx, testOwner, domain.NewDate(2024, time.March, 14))
	suite.Require().NoError(err)
	suite.True(dec("300").Equal(summary.OpeningBalance))
	suite.True(dec("550").Equal(summary.ClosingBalance))
	suite.True(dec("300").Equal(summary.Income))
	suite.True(dec("50").Equal(summary.Expenses))
	suite.Require().Len(summary.Entries, 2)
	suite.Equal(suite.entries[1].ID, summary.Entries[0].ID, "entries of a day are in insertion order")

	today, err := suite.service.DaySummary(suite.ctx, testOwner, domain.Date{})
	suite.Require().NoError(err)
	suite.Equal(domain.NewDate(2024, time.March, 15), today.Date)
	suite.Len(today.Entries, 1)
}

func (suite *LedgerServiceTestSuite) TestListEntries_Paginates() {
	page1, err := suite.service.ListEntries(suite.ctx, testOwner, dto.ListEntriesParams{Limit: 2})
	suite.Require().NoError(err)
	suite.Require().Len(page1.Entries, 2)
	suite.Equal(suite.entries[3].ID, page1.Entries[0].ID)
	suite.Equal(suite.entries[2].ID, page1.Entries[1].ID, "same day entries newest first")
	suite.Require().NotNil(page1.NextToken)

	page2, err := suite.service.ListEntries(suite.ctx, testOwner, dto.ListEntriesParams{Limit: 2, NextToken: page1.NextToken})
	suite.Require().NoError(err)
	suite.Require().Len(page2.Entries, 2)
	suite.Equal(suite.entries[1].ID, page2.Entries[0].ID)
	suite.Equal(suite.entries[0].ID, page2.Entries[1].ID)
	suite.Nil(page2.NextToken)
}

func (suite *LedgerServiceTestSuite) TestListEntries_Filters() {
	tills, err := suite.service.ListEntries(suite.ctx, testOwner, dto.ListEntriesParams{Category: domain.CategoryTill})
	suite.Require().NoError(err)
	suite.Len(tills.Entries, 2)

	recent, err := suite.service.ListEntries(suite.ctx, testOwner, dto.ListEntriesParams{From: "2024-03-14"})
	suite.Require().NoError(err)
	suite.Len(recent.Entries, 3)

	window, err := suite.service.ListEntries(suite.ctx, testOwner, dto.ListEntriesParams{From: "2024-01-01", To: "2024-02-29"})
	suite.Require().NoError(err)
	suite.Require().Len(window.Entries, 1)
	suite.Equal(suite.entries[0].ID, window.Entries[0].ID)

	_, err = suite.service.ListEntries(suite.ctx, testOwner, dto.ListEntriesParams{Category: "bogus"})
	suite.ErrorIs(err, apperrors.ErrValidation)

	badToken := "not-a-token"
	_, err = suite.service.ListEntries(suite.ctx, testOwner, dto.ListEntriesParams{NextToken: &badToken})
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.service.ListEntries(suite.ctx, testOwner, dto.ListEntriesParams{From: "yesterday"})
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *LedgerServiceTestSuite) TestStatistics() {
	stats, err := suite.service.Statistics(suite.ctx, testOwner, 3)
	suite.Require().NoError(err)
	suite.True(dec("530").Equal(stats.Balance))
	suite.Require().Len(stats.Months, 3)
	suite.Equal("2024-01", stats.Months[0].Month)
	suite.True(dec("200").Equal(stats.Months[0].Income))
	suite.Equal("2024-02", stats.Months[1].Month)
	suite.True(stats.Months[1].Net.IsZero())
	suite.Equal("2024-03", stats.Months[2].Month)
	suite.True(dec("300").Equal(stats.Months[2].Income))
	suite.True(dec("70").Equal(stats.Months[2].Expenses))
	suite.True(dec("230").Equal(stats.Months[2].Net))

	suite.Require().Len(stats.MonthBreakdown, 2)
	suite.Equal(domain.CategorySupplier, stats.MonthBreakdown[0].Category)
	suite.Equal(domain.CategoryGeneric, stats.MonthBreakdown[1].Category)

	suite.True(dec("40").Equal(stats.OpenAdvances))
	suite.True(dec("75").Equal(stats.UnpaidInvoices))

	defaults, err := suite.service.Statistics(suite.ctx, testOwner, 0)
	suite.Require().NoError(err)
	suite.Len(defaults.Months, 6)

	capped, err := suite.service.Statistics(suite.ctx, testOwner, 120)
	suite.Require().NoError(err)
	suite.Len(capped.Months, 24)
}

func (suite *LedgerServiceTestSuite) TestSearch() {
	res, err := suite.service.Search(suite.ctx, testOwner, "ROSS", 0)
	suite.Require().NoError(err)
	suite.Require().Len(res.Hits, 2)
	suite.Equal(dto.SearchHitEntry, res.Hits[0].Kind)
	suite.Equal(suite.entries[2].ID, res.Hits[0].ID)
	suite.Equal(dto.SearchHitInvoice, res.Hits[1].Kind)
	suite.Equal("7", res.Hits[1].ID)

	res, err = suite.service.Search(suite.ctx, testOwner, "luca", 0)
	suite.Require().NoError(err)
	suite.Require().Len(res.Hits, 1)
	suite.Equal(dto.SearchHitAdvance, res.Hits[0].Kind)

	res, err = suite.service.Search(suite.ctx, testOwner, "cash", 1)
	suite.Require().NoError(err)
	suite.Len(res.Hits, 1, "hits are capped at the limit")

	_, err = suite.service.Search(suite.ctx, testOwner, " a ", 0)
	suite.ErrorIs(err, apperrors.ErrValidation)
}
