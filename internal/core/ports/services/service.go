package services

import "context"

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used throughout the application, particularly in the handlers.
type ServiceContainer struct {
	Register    RegisterSvcFacade
	Ledger      LedgerSvcFacade
	Invoice     InvoiceSvcFacade
	Advance     AdvanceSvcFacade
	Sync        SyncSvcFacade
	Backup      BackupSvcFacade
	Spreadsheet SpreadsheetSvcFacade
	Scan        ScanSvcFacade
	Auth        AuthSvcFacade

	// Shutdown flushes pending syncs and event publishes.
	Shutdown func(ctx context.Context)
}
