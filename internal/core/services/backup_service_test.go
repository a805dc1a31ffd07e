package services_test

import (
	"context"
	"encoding/json"
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

const legacyBackup = `{
	"_app": "CassaSmartPro",
	"_version": 6,
	"_date": "2024-03-14T18:00:00Z",
	"saldo": 250,
	"fornitori": ["Rossi"],
	"stipendi": ["Mario"],
	"abit": ["Affitto"],
	"log": [
		{"d": "14/03/2024", "v": "Incasso giornaliero", "a": 300},
		{"d": "14/03/2024", "v": "Fornitore: Rossi", "a": -50, "fatt": "F-1"},
		{"d": "not a date", "v": "Broken", "a": 5}
	],
	"fatture": [
		{"id": 1710000000000, "dataArrivo": "01/03/2024", "azienda": "Rossi", "numero": "F-1",
		 "importo": 80, "pagCash": 0, "pagBonifico": 10, "scadenza": "31/03/2024", "ciclo": "30gg"}
	],
	"anticipi": [
		{"id": 3, "nome": "Luca", "importo": 40, "data": "02/03/2024", "note": "", "restituito": false}
	]
}`

type BackupServiceTestSuite struct {
	suite.Suite
	store    *services.RegisterStore
	register portssvc.RegisterSvcFacade
	service  portssvc.BackupSvcFacade
	ctx      context.Context
}

func TestBackupServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BackupServiceTestSuite))
}

func (suite *BackupServiceTestSuite) SetupTest() {
	suite.store = services.NewRegisterStore(memory.NewRegisterRepository())
	suite.store.Now = fixedClock
	suite.register = services.NewRegisterService(suite.store, services.WithClock(fixedClock))
	suite.service = services.NewBackupService(suite.store, services.WithClock(fixedClock))
	suite.ctx = context.Background()
}

func (suite *BackupServiceTestSuite) TestExportRestoreRoundTrip() {
	_, err := suite.register.CommitRegistration(suite.ctx, testOwner, dto.RegistrationRequest{
		Tills: []dto.TillRow{{ReceiptTotal: dec("400"), CardTotal: dec("100")}},
		Expenses: []dto.ExpenseRow{
			{Category: domain.CategorySupplier, Payee: "Rossi", Amount: dec("80"), InvoiceNumber: "F-2"},
			{Category: domain.CategoryAdvance, Payee: "Luca", Amount: dec("20")},
		},
	})
	suite.Require().NoError(err)

	doc, err := suite.service.Export(suite.ctx, testOwner)
	suite.Require().NoError(err)
	suite.Equal(dto.BackupAppSignature, doc.App)
	suite.Equal(dto.BackupVersion, doc.Version)
	suite.True(fixedNow.Equal(doc.Date))

	raw, err := json.Marshal(doc)
	suite.Require().NoError(err)

	result, err := suite.service.Restore(suite.ctx, "other-shop", raw)
	suite.Require().NoError(err)
	suite.Equal(dto.BackupVersion, result.SourceVersion)
	suite.Equal(3, result.Entries)
	suite.Equal(1, result.Invoices)
	suite.Equal(1, result.Advances)
	suite.Equal(0, result.SkippedRows)
	suite.True(dec("200").Equal(result.Balance))

	restored, err := suite.register.GetRegister(suite.ctx, "other-shop")
	suite.Require().NoError(err)
	suite.Equal("other-shop", restored.OwnerID)
	suite.Len(restored.Ledger, 3)
	suite.Equal([]string{"Rossi"}, restored.Suppliers)
	suite.Require().Len(restored.Invoices, 1)
	suite.True(restored.Invoices[0].Paid)
}

func (suite *BackupServiceTestSuite) TestRestoreLegacyBackup() {
	result, err := suite.service.Restore(suite.ctx, testOwner, []byte(legacyBackup))
	suite.Require().NoError(err)
	suite.Equal(6, result.SourceVersion)
	suite.Equal(2, result.Entries)
	suite.Equal(1, result.SkippedRows)
	suite.Equal(1, result.Invoices)
	suite.Equal(1, result.LegacyInvoices)
	suite.Equal(1, result.Advances)
	suite.True(dec("250").Equal(result.Balance))

	reg, err := suite.register.GetRegister(suite.ctx, testOwner)
	suite.Require().NoError(err)
	suite.Equal([]string{"Affitto"}, reg.Recurring)
	suite.Require().Len(reg.Ledger, 2)
	suite.Equal(domain.CategoryTill, reg.Ledger[0].Category)
	suite.Equal(domain.NewDate(2024, time.March, 14), reg.Ledger[0].Date)
	suite.Equal(domain.CategorySupplier, reg.Ledger[1].Category)
	suite.Equal("Rossi", reg.Ledger[1].Payee)
	suite.Equal("F-1", reg.Ledger[1].InvoiceRef)

	suite.Require().Len(reg.Invoices, 1)
	inv := reg.Invoices[0]
	suite.Equal(int64(1710000000000), inv.ID)
	suite.True(inv.IsLegacy())
	suite.True(dec("50").Equal(inv.Legacy.CashAllocated), "supplier cash is attributed by invoice number")
	suite.True(dec("10").Equal(inv.Legacy.WireAllocated))
	suite.True(dec("20").Equal(inv.Legacy.UnpaidTotal))
	suite.Require().NotNil(inv.DueDate)
	suite.Equal(domain.NewDate(2024, time.March, 31), *inv.DueDate)

	suite.Require().Len(reg.Advances, 1)
	suite.Equal(int64(3), reg.Advances[0].ID)
	suite.Equal(int64(4), reg.NextAdvanceID)
}

func (suite *BackupServiceTestSuite) TestRestoreRejectsForeignDocuments() {
	testCases := []struct {
		name string
		raw  string
	}{
		{"not json", `{"_app": `},
		{"wrong signature", `{"_app": "SomethingElse", "_version": 7}`},
		{"newer version", `{"_app": "CassaSmartPro", "_version": 99}`},
		{"legacy without readable rows", `{"_app": "CassaSmartPro", "_version": 5, "log": [{"d": "??", "v": "x", "a": 1}]}`},
	}
	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			_, err := suite.service.Restore(suite.ctx, testOwner, []byte(tc.raw))
			suite.ErrorIs(err, apperrors.ErrValidation)
		})
	}

	reg, err := suite.register.GetRegister(suite.ctx, testOwner)
	suite.Require().NoError(err)
	suite.Empty(reg.Ledger, "a rejected backup leaves the register untouched")
}
