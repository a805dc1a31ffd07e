package repositories

import (
	"context"

	"github.com/SscSPs/cash_register_app/internal/core/domain"
)

// RegisterReader defines read operations for register data
type RegisterReader interface {
	// LoadRegister returns a fresh copy of the owner's register, or
	// apperrors.ErrNotFound when nothing has been saved yet.
	LoadRegister(ctx context.Context, ownerID string) (*domain.Register, error)
}

// RegisterWriter defines write operations for register data
type RegisterWriter interface {
	// SaveRegister replaces the stored register of reg.OwnerID as a whole.
	SaveRegister(ctx context.Context, reg *domain.Register) error
}

// RegisterRepositoryFacade combines all register repository interfaces
type RegisterRepositoryFacade interface {
	RegisterReader
	RegisterWriter
}

// SnapshotStore is the remote mirror holding one register document per owner.
type SnapshotStore interface {
	// FetchSnapshot returns apperrors.ErrNotFound when the owner has no remote document.
	FetchSnapshot(ctx context.Context, ownerID string) (*domain.Register, error)
	// PutSnapshot overwrites the owner's remote document.
	PutSnapshot(ctx context.Context, reg *domain.Register) error
}
