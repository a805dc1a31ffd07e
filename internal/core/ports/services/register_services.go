package services

import (
	"context"

	"github.com/SscSPs/cash_register_app/internal/core/domain"
	"github.com/SscSPs/cash_register_app/internal/dto"
	"github.com/shopspring/decimal"
)

// RegisterReaderSvc defines read operations for the register aggregate
type RegisterReaderSvc interface {
	// GetRegister returns the owner's register, empty if nothing was saved yet.
	GetRegister(ctx context.Context, ownerID string) (*domain.Register, error)
}

// RegisterWriterSvc defines the mutating register operations
type RegisterWriterSvc interface {
	// CommitRegistration applies till readings and pending expenses in one step.
	// Either every row is applied or none is.
	CommitRegistration(ctx context.Context, ownerID string, req dto.RegistrationRequest) (*dto.RegistrationResult, error)

	// DeleteEntry removes a ledger entry and reverses its effect on the balance.
	DeleteEntry(ctx context.Context, ownerID string, entryID string) (*dto.DeleteEntryResponse, error)

	// SetBalance overrides the cash balance without adding a ledger entry.
	SetBalance(ctx context.Context, ownerID string, balance decimal.Decimal) (decimal.Decimal, error)

	// Reset wipes the register.
	Reset(ctx context.Context, ownerID string) error
}

// DirectorySvc manages the lists of known suppliers, employees and recurring costs
type DirectorySvc interface {
	ListDirectory(ctx context.Context, ownerID string, kind domain.DirectoryKind) ([]string, error)
	AddDirectoryName(ctx context.Context, ownerID string, kind domain.DirectoryKind, name string) ([]string, error)
	RenameDirectoryName(ctx context.Context, ownerID string, kind domain.DirectoryKind, oldName, newName string) ([]string, error)
	DeleteDirectoryName(ctx context.Context, ownerID string, kind domain.DirectoryKind, name string) ([]string, error)
}

// RegisterSvcFacade combines all register service interfaces
type RegisterSvcFacade interface {
	RegisterReaderSvc
	RegisterWriterSvc
	DirectorySvc
}

// CommitObserver is notified after every saved mutation of a register.
type CommitObserver interface {
	RegisterCommitted(ctx context.Context, reg *domain.Register, action string)
}
