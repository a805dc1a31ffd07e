package services

import (
	"context"
	"io"

	"github.com/SscSPs/cash_register_app/internal/core/domain"
	"github.com/SscSPs/cash_register_app/internal/dto"
)

// SyncSvcFacade mirrors registers to the remote snapshot store
type SyncSvcFacade interface {
	CommitObserver

	// Push writes the local register to the remote store right away.
	Push(ctx context.Context, ownerID string) error

	// Pull merges the remote snapshot with the local register.
	Pull(ctx context.Context, ownerID string) (*dto.SyncResult, error)

	// ForcePull replaces the local register with the remote one.
	ForcePull(ctx context.Context, ownerID string) (*dto.SyncResult, error)

	Status(ownerID string) domain.SyncStatus

	// Close flushes pending pushes and stops the scheduler.
	Close(ctx context.Context)
}

// BackupSvcFacade exports and restores whole registers
type BackupSvcFacade interface {
	Export(ctx context.Context, ownerID string) (*dto.BackupDocument, error)
	Restore(ctx context.Context, ownerID string, raw []byte) (*dto.RestoreResult, error)
}

// SpreadsheetSvcFacade handles the xlsx interchange
type SpreadsheetSvcFacade interface {
	Template(ctx context.Context) ([]byte, error)
	Preview(ctx context.Context, r io.Reader) (*dto.ImportPreview, error)
	Import(ctx context.Context, ownerID string, r io.Reader) (*dto.ImportResult, error)
	ExportLedger(ctx context.Context, ownerID string) ([]byte, error)
}

// ScanSvcFacade reads invoice drafts from documents
type ScanSvcFacade interface {
	Enabled() bool
	ScanInvoice(ctx context.Context, content []byte, mimeType string) (*domain.InvoiceDraft, error)
}

// AuthSvcFacade guards the API with the PIN lock
type AuthSvcFacade interface {
	Unlock(ctx context.Context, pin string) (*dto.UnlockResponse, error)
	Status(ctx context.Context) dto.LockStatus
	ResetLock(ctx context.Context) error
}
