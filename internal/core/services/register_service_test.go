package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/cash_register_app/internal/apperrors"
	"github.com/SscSPs/cash_register_app/internal/core/domain"
	portssvc "github.com/SscSPs/cash_register_app/internal/core/ports/services"
	"github.com/SscSPs/cash_register_app/internal/core/services"
	"github.com/SscSPs/cash_register_app/internal/dto"
	"github.com/SscSPs/cash_register_app/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const testOwner = "shop-1"

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type RegisterServiceTestSuite struct {
	suite.Suite
	repo     *memory.RegisterRepository
	store    *services.RegisterStore
	observer *recordingObserver
	service  portssvc.RegisterSvcFacade
	ctx      context.Context
}

func TestRegisterServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RegisterServiceTestSuite))
}

func (suite *RegisterServiceTestSuite) SetupTest() {
	suite.repo = memory.NewRegisterRepository()
	suite.observer = &recordingObserver{}
	suite.store = services.NewRegisterStore(suite.repo, suite.observer)
	suite.store.Now = fixedClock
	suite.service = services.NewRegisterService(suite.store, services.WithClock(fixedClock))
	suite.ctx = context.Background()
}

func (suite *RegisterServiceTestSuite) TestCommitRegistration_TillsAndExpenses() {
	req := dto.RegistrationRequest{
		Tills: []dto.TillRow{
			{ReceiptTotal: dec("1000"), CardTotal: dec("400")},
		},
		Expenses: []dto.ExpenseRow{
			{Category: domain.CategorySupplier, Payee: "Rossi SRL", Amount: dec("120"), InvoiceNumber: "F-1"},
			{Category: domain.CategorySalary, Payee: "Mario", Amount: dec("200")},
			{Category: domain.CategoryAdvance, Payee: "Luca", Amount: dec("50"), Note: "weekend"},
		},
	}

	result, err := suite.service.CommitRegistration(suite.ctx, testOwner, req)
	suite.Require().NoError(err)

	suite.True(dec("600").Equal(result.CashCollected), "cash is receipt minus card")
	suite.True(dec("370").Equal(result.ExpenseTotal))
	suite.True(dec("230").Equal(result.Balance))
	suite.Len(result.Entries, 4)
	suite.Len(result.CreatedInvoices, 1)
	suite.Len(result.CreatedAdvances, 1)

	till := result.Entries[0]
	suite.Equal(domain.CategoryTill, till.Category)
	suite.Equal(domain.NewDate(2024, time.March, 15), till.Date)
	suite.Contains(till.Description, "Cash takings")
	suite.NotContains(till.Description, "Till", "a single till is not labelled")

	supplier := result.Entries[1]
	suite.True(dec("-120").Equal(supplier.Amount))
	suite.Equal("F-1", supplier.InvoiceRef)
	suite.Equal("Supplier: Rossi SRL", supplier.Description)

	inv := result.CreatedInvoices[0]
	suite.True(inv.Paid, "invoices created from a cash payment are paid")
	suite.Equal(domain.SchemaCurrent, inv.Schema)
	suite.Equal("F-1", inv.Number)
	suite.Equal(fixedNow.UnixMilli(), inv.ID)

	adv := result.CreatedAdvances[0]
	suite.Equal("Luca", adv.PersonName)
	suite.False(adv.Repaid)
	suite.Equal("Advance: Luca (weekend)", result.Entries[3].Description)

	reg, err := suite.service.GetRegister(suite.ctx, testOwner)
	suite.Require().NoError(err)
	suite.Equal([]string{"Rossi SRL"}, reg.Suppliers)
	suite.Equal([]string{"Mario"}, reg.Salaries)
	suite.Empty(reg.Recurring)
	suite.True(fixedNow.Equal(reg.UpdatedAt))
	suite.Equal([]string{services.ActionCommit}, suite.observer.Actions())
}

func (suite *RegisterServiceTestSuite) TestCommitRegistration_LabelsMultipleTills() {
	req := dto.RegistrationRequest{
		Tills: []dto.TillRow{
			{Label: "Bar", ReceiptTotal: dec("100"), CardTotal: dec("0")},
			{Label: "Sala", ReceiptTotal: dec("250.50"), CardTotal: dec("50.25")},
			{Label: "Empty", ReceiptTotal: dec("0")},
		},
	}
	result, err := suite.service.CommitRegistration(suite.ctx, testOwner, req)
	suite.Require().NoError(err)
	suite.Len(result.Entries, 2, "zero receipt rows are skipped")
	suite.Contains(result.Entries[0].Description, "Bar ")
	suite.Contains(result.Entries[1].Description, "Sala ")
	suite.True(dec("300.25").Equal(result.Balance))
}

func (suite *RegisterServiceTestSuite) TestCommitRegistration_UsesRequestDate() {
	day := domain.NewDate(2024, time.March, 1)
	result, err := suite.service.CommitRegistration(suite.ctx, testOwner, dto.RegistrationRequest{
		Date:  &day,
		Tills: []dto.TillRow{{ReceiptTotal: dec("10")}},
	})
	suite.Require().NoError(err)
	suite.Equal(day, result.Entries[0].Date)
}

func (suite *RegisterServiceTestSuite) TestCommitRegistration_NothingToCommit() {
	_, err := suite.service.CommitRegistration(suite.ctx, testOwner, dto.RegistrationRequest{
		Tills: []dto.TillRow{{ReceiptTotal: dec("0"), CardTotal: dec("0")}},
	})
	suite.ErrorIs(err, apperrors.ErrNothingToCommit)
	suite.Empty(suite.repo.Owners())
}

func (suite *RegisterServiceTestSuite) TestCommitRegistration_ValidationLeavesRegisterUntouched() {
	testCases := []struct {
		name string
		req  dto.RegistrationRequest
	}{
		{
			name: "card exceeds receipt",
			req:  dto.RegistrationRequest{Tills: []dto.TillRow{{ReceiptTotal: dec("100"), CardTotal: dec("150")}}},
		},
		{
			name: "supplier without invoice number",
			req: dto.RegistrationRequest{
				Tills:    []dto.TillRow{{ReceiptTotal: dec("100")}},
				Expenses: []dto.ExpenseRow{{Category: domain.CategorySupplier, Payee: "Rossi", Amount: dec("10")}},
			},
		},
		{
			name: "salary without payee",
			req:  dto.RegistrationRequest{Expenses: []dto.ExpenseRow{{Category: domain.CategorySalary, Amount: dec("10")}}},
		},
		{
			name: "non positive expense",
			req:  dto.RegistrationRequest{Expenses: []dto.ExpenseRow{{Category: domain.CategoryGeneric, Amount: dec("-5")}}},
		},
		{
			name: "till category is not an expense",
			req:  dto.RegistrationRequest{Expenses: []dto.ExpenseRow{{Category: domain.CategoryTill, Amount: dec("5")}}},
		},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			_, err := suite.service.CommitRegistration(suite.ctx, testOwner, tc.req)
			suite.ErrorIs(err, apperrors.ErrValidation)
			suite.Empty(suite.repo.Owners(), "nothing is saved on a rejected registration")
		})
	}
}

func (suite *RegisterServiceTestSuite) TestCommitRegistration_GenericExpenseDefaultsPayee() {
	result, err := suite.service.CommitRegistration(suite.ctx, testOwner, dto.RegistrationRequest{
		Expenses: []dto.ExpenseRow{{Category: domain.CategoryGeneric, Amount: dec("12.345")}},
	})
	suite.Require().NoError(err)
	suite.Equal("Generic expense", result.Entries[0].Payee)
	suite.True(dec("-12.35").Equal(result.Entries[0].Amount), "amounts are rounded to cents")
	suite.True(dec("-12.35").Equal(result.Balance))
}

func (suite *RegisterServiceTestSuite) TestCommitRegistration_KnownInvoiceNumberIsNotDuplicated() {
	first := dto.RegistrationRequest{Expenses: []dto.ExpenseRow{
		{Category: domain.CategorySupplier, Payee: "Rossi", Amount: dec("50"), InvoiceNumber: "A-7"},
	}}
	_, err := suite.service.CommitRegistration(suite.ctx, testOwner, first)
	suite.Require().NoError(err)

	second := dto.RegistrationRequest{Expenses: []dto.ExpenseRow{
		{Category: domain.CategorySupplier, Payee: "rossi", Amount: dec("25"), InvoiceNumber: "a-7"},
	}}
	result, err := suite.service.CommitRegistration(suite.ctx, testOwner, second)
	suite.Require().NoError(err)
	suite.Empty(result.CreatedInvoices)

	reg, err := suite.service.GetRegister(suite.ctx, testOwner)
	suite.Require().NoError(err)
	suite.Len(reg.Invoices, 1)
	suite.Equal([]string{"Rossi"}, reg.Suppliers, "directory names are matched case-insensitively")
}

func (suite *RegisterServiceTestSuite) TestDeleteEntry() {
	result, err := suite.service.CommitRegistration(suite.ctx, testOwner, dto.RegistrationRequest{
		Tills:    []dto.TillRow{{ReceiptTotal: dec("300")}},
		Expenses: []dto.ExpenseRow{{Category: domain.CategoryGeneric, Payee: "Pulizie", Amount: dec("40")}},
	})
	suite.Require().NoError(err)
	suite.True(dec("260").Equal(result.Balance))

	resp, err := suite.service.DeleteEntry(suite.ctx, testOwner, result.Entries[1].ID)
	suite.Require().NoError(err)
	suite.Equal(result.Entries[1].ID, resp.Entry.ID)
	suite.True(dec("300").Equal(resp.Balance), "removing an expense gives the cash back")

	_, err = suite.service.DeleteEntry(suite.ctx, testOwner, "missing")
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *RegisterServiceTestSuite) TestSetBalance() {
	balance, err := suite.service.SetBalance(suite.ctx, testOwner, dec("99.999"))
	suite.Require().NoError(err)
	suite.True(dec("100").Equal(balance))

	_, err = suite.service.SetBalance(suite.ctx, testOwner, dec("100"))
	suite.Require().NoError(err)
	suite.Equal([]string{services.ActionSetBalance}, suite.observer.Actions(), "an unchanged balance is not saved")
}

func (suite *RegisterServiceTestSuite) TestReset() {
	_, err := suite.service.CommitRegistration(suite.ctx, testOwner, dto.RegistrationRequest{
		Tills: []dto.TillRow{{ReceiptTotal: dec("10")}},
	})
	suite.Require().NoError(err)

	suite.Require().NoError(suite.service.Reset(suite.ctx, testOwner))
	reg, err := suite.service.GetRegister(suite.ctx, testOwner)
	suite.Require().NoError(err)
	suite.True(reg.Balance.IsZero())
	suite.Empty(reg.Ledger)
	suite.Equal(testOwner, reg.OwnerID)
}

func (suite *RegisterServiceTestSuite) TestDirectories() {
	names, err := suite.service.AddDirectoryName(suite.ctx, testOwner, domain.DirectorySuppliers, "  Verdi ")
	suite.Require().NoError(err)
	suite.Equal([]string{"Verdi"}, names)

	names, err = suite.service.AddDirectoryName(suite.ctx, testOwner, domain.DirectorySuppliers, "bianchi")
	suite.Require().NoError(err)
	suite.Equal([]string{"bianchi", "Verdi"}, names, "names are sorted case-insensitively")

	_, err = suite.service.AddDirectoryName(suite.ctx, testOwner, domain.DirectorySuppliers, "VERDI")
	suite.ErrorIs(err, apperrors.ErrDuplicate)

	names, err = suite.service.RenameDirectoryName(suite.ctx, testOwner, domain.DirectorySuppliers, "verdi", "Verdi & Figli")
	suite.Require().NoError(err)
	suite.Equal([]string{"bianchi", "Verdi & Figli"}, names)

	_, err = suite.service.RenameDirectoryName(suite.ctx, testOwner, domain.DirectorySuppliers, "bianchi", "verdi & figli")
	suite.ErrorIs(err, apperrors.ErrDuplicate)

	_, err = suite.service.DeleteDirectoryName(suite.ctx, testOwner, domain.DirectorySuppliers, "nobody")
	suite.ErrorIs(err, apperrors.ErrNotFound)

	names, err = suite.service.DeleteDirectoryName(suite.ctx, testOwner, domain.DirectorySuppliers, "BIANCHI")
	suite.Require().NoError(err)
	suite.Equal([]string{"Verdi & Figli"}, names)

	listed, err := suite.service.ListDirectory(suite.ctx, testOwner, domain.DirectorySalaries)
	suite.Require().NoError(err)
	suite.NotNil(listed)
	suite.Empty(listed)

	_, err = suite.service.ListDirectory(suite.ctx, testOwner, domain.DirectoryKind("bogus"))
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.service.AddDirectoryName(suite.ctx, testOwner, domain.DirectoryRecurring, "   ")
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func TestRegisterStore_SaveFailureIsNotObserved(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRegisterRepository)
	observer := &recordingObserver{}
	store := services.NewRegisterStore(repo, observer)
	svc := services.NewRegisterService(store, services.WithClock(fixedClock))

	repo.On("LoadRegister", ctx, testOwner).Return(nil, apperrors.ErrNotFound).Once()
	repo.On("SaveRegister", ctx, mock.AnythingOfType("*domain.Register")).Return(errors.New("disk full")).Once()

	_, err := svc.SetBalance(ctx, testOwner, dec("10"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Empty(t, observer.Actions())
	repo.AssertExpectations(t)
}

func TestRegisterStore_LoadFailure(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRegisterRepository)
	store := services.NewRegisterStore(repo)

	repo.On("LoadRegister", ctx, testOwner).Return(nil, errors.New("connection refused")).Once()

	_, err := store.Read(ctx, testOwner)
	require.Error(t, err)
	assert.NotErrorIs(t, err, apperrors.ErrNotFound)
	repo.AssertNotCalled(t, "SaveRegister", mock.Anything, mock.Anything)
}

func TestRegisterStore_RequiresOwner(t *testing.T) {
	store := services.NewRegisterStore(memory.NewRegisterRepository())
	_, err := store.Read(context.Background(), "")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
