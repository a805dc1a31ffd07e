package services

import (
	"context"
	"fmt"
	"log/slog"

	portsrepo "github.com/SscSPs/cash_register_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/cash_register_app/internal/core/ports/services"
	"github.com/SscSPs/cash_register_app/internal/platform/config"
	"github.com/SscSPs/cash_register_app/internal/platform/metrics"
	"github.com/SscSPs/cash_register_app/internal/utils"
	"github.com/prometheus/client_golang/prometheus"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// promReg may be nil, in which case no metrics are recorded.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, promReg prometheus.Registerer) (*portssvc.ServiceContainer, error) {
	pinHash := cfg.PINHash
	if pinHash == "" && cfg.PINCode != "" {
		hash, err := utils.HashPIN(cfg.PINCode)
		if err != nil {
			return nil, fmt.Errorf("failed to hash PIN: %w", err)
		}
		pinHash = hash
	}

	// The store is shared: every service mutates registers through it
	store := NewRegisterStore(repos.RegisterRepo)

	container := &portssvc.ServiceContainer{}
	container.Register = NewRegisterService(store)
	container.Ledger = NewLedgerService(store)
	container.Invoice = NewInvoiceService(store, cfg.DueSoonDays)
	container.Advance = NewAdvanceService(store)
	container.Backup = NewBackupService(store)
	container.Spreadsheet = NewSpreadsheetService(store)
	container.Scan = NewScanService(repos.Scanner)
	container.Auth = NewAuthService(AuthSettings{
		OwnerID:     cfg.OwnerID,
		PINHash:     pinHash,
		MaxAttempts: cfg.PINMaxAttempts,
		JWTSecret:   cfg.JWTSecret,
		JWTExpiry:   cfg.JWTExpiryDuration,
		JWTIssuer:   cfg.JWTIssuer,
	}, repos.LockState)
	container.Sync = NewSyncService(store, repos.Snapshots, cfg.SyncDebounce, metrics.NewSyncMetrics(promReg))

	// Observers run after every saved mutation
	store.AddObserver(metrics.NewRegisterMetrics(promReg))
	store.AddObserver(container.Sync)
	var notifier *EventNotifier
	if repos.Events != nil {
		notifier = NewEventNotifier(repos.Events)
		store.AddObserver(notifier)
	}

	container.Shutdown = func(ctx context.Context) {
		container.Sync.Close(ctx)
		if err := notifier.Close(); err != nil {
			slog.Default().Warn("Failed to close event publisher", slog.String("error", err.Error()))
		}
	}

	return container, nil
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.RegisterSvcFacade    = (*registerService)(nil)
	_ portssvc.LedgerSvcFacade      = (*ledgerService)(nil)
	_ portssvc.InvoiceSvcFacade     = (*invoiceService)(nil)
	_ portssvc.AdvanceSvcFacade     = (*advanceService)(nil)
	_ portssvc.SyncSvcFacade        = (*syncService)(nil)
	_ portssvc.BackupSvcFacade      = (*backupService)(nil)
	_ portssvc.SpreadsheetSvcFacade = (*spreadsheetService)(nil)
	_ portssvc.ScanSvcFacade        = (*scanService)(nil)
	_ portssvc.AuthSvcFacade        = (*authService)(nil)
	_ portssvc.CommitObserver       = (*EventNotifier)(nil)
	_ portssvc.CommitObserver       = (*metrics.RegisterMetrics)(nil)
)
