package handlers_test

import (
	"context"
	"io"

	"github.com/SscSPs/cash_register_app/internal/core/domain"
	portssvc "github.com/SscSPs/cash_register_app/internal/core/ports/services"
	"github.com/SscSPs/cash_register_app/internal/dto"
	"github.com/SscSPs/cash_register_app/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock RegisterService ---
type MockRegisterService struct {
	mock.Mock
}

func (m *MockRegisterService) GetRegister(ctx context.Context, ownerID string) (*domain.Register, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Register), args.Error(1)
}
func (m *MockRegisterService) CommitRegistration(ctx context.Context, ownerID string, req dto.RegistrationRequest) (*dto.RegistrationResult, error) {
	args := m.Called(ctx, ownerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.RegistrationResult), args.Error(1)
}
func (m *MockRegisterService) DeleteEntry(ctx context.Context, ownerID string, entryID string) (*dto.DeleteEntryResponse, error) {
	args := m.Called(ctx, ownerID, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.DeleteEntryResponse), args.Error(1)
}
func (m *MockRegisterService) SetBalance(ctx context.Context, ownerID string, balance decimal.Decimal) (decimal.Decimal, error) {
	args := m.Called(ctx, ownerID, balance)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}
func (m *MockRegisterService) Reset(ctx context.Context, ownerID string) error {
	return m.Called(ctx, ownerID).Error(0)
}
func (m *MockRegisterService) ListDirectory(ctx context.Context, ownerID string, kind domain.DirectoryKind) ([]string, error) {
	args := m.Called(ctx, ownerID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
func (m *MockRegisterService) AddDirectoryName(ctx context.Context, ownerID string, kind domain.DirectoryKind, name string) ([]string, error) {
	args := m.Called(ctx, ownerID, kind, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
func (m *MockRegisterService) RenameDirectoryName(ctx context.Context, ownerID string, kind domain.DirectoryKind, oldName, newName string) ([]string, error) {
	args := m.Called(ctx, ownerID, kind, oldName, newName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
func (m *MockRegisterService) DeleteDirectoryName(ctx context.Context, ownerID string, kind domain.DirectoryKind, name string) ([]string, error) {
	args := m.Called(ctx, ownerID, kind, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

var _ portssvc.RegisterSvcFacade = (*MockRegisterService)(nil)

// --- Mock LedgerService ---
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) GetBalance(ctx context.Context, ownerID string) (*dto.BalanceResponse, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.BalanceResponse), args.Error(1)
}
func (m *MockLedgerService) BalanceAtDate(ctx context.Context, ownerID string, day domain.Date) (*dto.BalanceResponse, error) {
	args := m.Called(ctx, ownerID, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.BalanceResponse), args.Error(1)
}
func (m *MockLedgerService) ListEntries(ctx context.Context, ownerID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	args := m.Called(ctx, ownerID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListEntriesResponse), args.Error(1)
}
func (m *MockLedgerService) DaySummary(ctx context.Context, ownerID string, day domain.Date) (*accounting.DaySummary, error) {
	args := m.Called(ctx, ownerID, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounting.DaySummary), args.Error(1)
}
func (m *MockLedgerService) Statistics(ctx context.Context, ownerID string, months int) (*dto.StatisticsResponse, error) {
	args := m.Called(ctx, ownerID, months)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.StatisticsResponse), args.Error(1)
}
func (m *MockLedgerService) Search(ctx context.Context, ownerID string, query string, limit int) (*dto.SearchResponse, error) {
	args := m.Called(ctx, ownerID, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.SearchResponse), args.Error(1)
}

var _ portssvc.LedgerSvcFacade = (*MockLedgerService)(nil)

// --- Mock InvoiceService ---
type MockInvoiceService struct {
	mock.Mock
}

func (m *MockInvoiceService) GetInvoice(ctx context.Context, ownerID string, invoiceID int64) (*dto.InvoiceResponse, error) {
	args := m.Called(ctx, ownerID, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.InvoiceResponse), args.Error(1)
}
func (m *MockInvoiceService) ListInvoices(ctx context.Context, ownerID string, params dto.ListInvoicesParams) (*dto.ListInvoicesResponse, error) {
	args := m.Called(ctx, ownerID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListInvoicesResponse), args.Error(1)
}
func (m *MockInvoiceService) CreateInvoice(ctx context.Context, ownerID string, req dto.CreateInvoiceRequest) (*domain.Invoice, error) {
	args := m.Called(ctx, ownerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}
func (m *MockInvoiceService) UpdateInvoice(ctx context.Context, ownerID string, invoiceID int64, req dto.UpdateInvoiceRequest) (*domain.Invoice, error) {
	args := m.Called(ctx, ownerID, invoiceID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}
func (m *MockInvoiceService) DeleteInvoice(ctx context.Context, ownerID string, invoiceID int64) error {
	return m.Called(ctx, ownerID, invoiceID).Error(0)
}
func (m *MockInvoiceService) SetPaid(ctx context.Context, ownerID string, invoiceID int64, paid bool) (*domain.Invoice, error) {
	args := m.Called(ctx, ownerID, invoiceID, paid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}
func (m *MockInvoiceService) RegisterWirePayment(ctx context.Context, ownerID string, invoiceID int64, req dto.WirePaymentRequest) (*domain.Invoice, error) {
	args := m.Called(ctx, ownerID, invoiceID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}
func (m *MockInvoiceService) Reconcile(ctx context.Context, ownerID string) (*accounting.ReconcileResult, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounting.ReconcileResult), args.Error(1)
}
func (m *MockInvoiceService) MigrateLegacy(ctx context.Context, ownerID string) (*dto.MigrationResult, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.MigrationResult), args.Error(1)
}

var _ portssvc.InvoiceSvcFacade = (*MockInvoiceService)(nil)

// --- Mock AdvanceService ---
type MockAdvanceService struct {
	mock.Mock
}

func (m *MockAdvanceService) ListAdvances(ctx context.Context, ownerID string, params dto.ListAdvancesParams) (*dto.ListAdvancesResponse, error) {
	args := m.Called(ctx, ownerID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListAdvancesResponse), args.Error(1)
}
func (m *MockAdvanceService) RepayAdvance(ctx context.Context, ownerID string, advanceID int64) (*dto.RepayAdvanceResponse, error) {
	args := m.Called(ctx, ownerID, advanceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.RepayAdvanceResponse), args.Error(1)
}

var _ portssvc.AdvanceSvcFacade = (*MockAdvanceService)(nil)

// --- Mock SyncService ---
type MockSyncService struct {
	mock.Mock
}

func (m *MockSyncService) RegisterCommitted(ctx context.Context, reg *domain.Register, action string) {
	m.Called(ctx, reg, action)
}
func (m *MockSyncService) Push(ctx context.Context, ownerID string) error {
	return m.Called(ctx, ownerID).Error(0)
}
func (m *MockSyncService) Pull(ctx context.Context, ownerID string) (*dto.SyncResult, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.SyncResult), args.Error(1)
}
func (m *MockSyncService) ForcePull(ctx context.Context, ownerID string) (*dto.SyncResult, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.SyncResult), args.Error(1)
}
func (m *MockSyncService) Status(ownerID string) domain.SyncStatus {
	return m.Called(ownerID).Get(0).(domain.SyncStatus)
}
func (m *MockSyncService) Close(ctx context.Context) {
	m.Called(ctx)
}

var _ portssvc.SyncSvcFacade = (*MockSyncService)(nil)

// --- Mock BackupService ---
type MockBackupService struct {
	mock.Mock
}

func (m *MockBackupService) Export(ctx context.Context, ownerID string) (*dto.BackupDocument, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.BackupDocument), args.Error(1)
}
func (m *MockBackupService) Restore(ctx context.Context, ownerID string, raw []byte) (*dto.RestoreResult, error) {
	args := m.Called(ctx, ownerID, raw)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.RestoreResult), args.Error(1)
}

var _ portssvc.BackupSvcFacade = (*MockBackupService)(nil)

// --- Mock SpreadsheetService ---
type MockSpreadsheetService struct {
	mock.Mock
}

func (m *MockSpreadsheetService) Template(ctx context.Context) ([]byte, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
func (m *MockSpreadsheetService) Preview(ctx context.Context, r io.Reader) (*dto.ImportPreview, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ImportPreview), args.Error(1)
}
func (m *MockSpreadsheetService) Import(ctx context.Context, ownerID string, r io.Reader) (*dto.ImportResult, error) {
	args := m.Called(ctx, ownerID, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ImportResult), args.Error(1)
}
func (m *MockSpreadsheetService) ExportLedger(ctx context.Context, ownerID string) ([]byte, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

var _ portssvc.SpreadsheetSvcFacade = (*MockSpreadsheetService)(nil)

// --- Mock ScanService ---
type MockScanService struct {
	mock.Mock
}

func (m *MockScanService) Enabled() bool {
	return m.Called().Bool(0)
}
func (m *MockScanService) ScanInvoice(ctx context.Context, content []byte, mimeType string) (*domain.InvoiceDraft, error) {
	args := m.Called(ctx, content, mimeType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InvoiceDraft), args.Error(1)
}

var _ portssvc.ScanSvcFacade = (*MockScanService)(nil)

// --- Mock AuthService ---
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Unlock(ctx context.Context, pin string) (*dto.UnlockResponse, error) {
	args := m.Called(ctx, pin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.UnlockResponse), args.Error(1)
}
func (m *MockAuthService) Status(ctx context.Context) dto.LockStatus {
	return m.Called(ctx).Get(0).(dto.LockStatus)
}
func (m *MockAuthService) ResetLock(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

var _ portssvc.AuthSvcFacade = (*MockAuthService)(nil)
