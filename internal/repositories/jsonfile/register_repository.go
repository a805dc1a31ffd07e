package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/SscSPs/cash_register_app/internal/apperrors"
	"github.com/SscSPs/cash_register_app/internal/core/domain"
	portsrepo "github.com/SscSPs/cash_register_app/internal/core/ports/repositories"
)

var ownerPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// RegisterRepository stores one JSON document per owner under a directory.
// Writes go to a temporary file that is renamed over the old document, so a
// crash never leaves a half written register behind.
type RegisterRepository struct {
	dir string
	mu  sync.RWMutex
}

// NewRegisterRepository creates the data directory if needed.
func NewRegisterRepository(dir string) (*RegisterRepository, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create data dir %s: %w", dir, err)
	}
	return &RegisterRepository{dir: dir}, nil
}

var _ portsrepo.RegisterRepositoryFacade = (*RegisterRepository)(nil)

func (r *RegisterRepository) path(ownerID string) (string, error) {
	return r.ownerFile("register", ownerID)
}

func (r *RegisterRepository) ownerFile(kind, ownerID string) (string, error) {
	if !ownerPattern.MatchString(ownerID) {
		return "", apperrors.Validationf("invalid owner id %q", ownerID)
	}
	return filepath.Join(r.dir, kind+"-"+ownerID+".json"), nil
}

func (r *RegisterRepository) LoadRegister(_ context.Context, ownerID string) (*domain.Register, error) {
	p, err := r.path(ownerID)
	if err != nil {
		return nil, err
	}
	r.mu.RLock()
	raw, err := os.ReadFile(p)
	r.mu.RUnlock()
	if errors.Is(err, fs.ErrNotExist) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to read register "+ownerID, err)
	}
	var reg domain.Register
	if err := json.Unmarshal(raw, &reg); err != nil {
		return nil, apperrors.NewAppError(500, "register document is corrupt: "+p, err)
	}
	reg.Normalize()
	return &reg, nil
}

func (r *RegisterRepository) SaveRegister(_ context.Context, reg *domain.Register) error {
	p, err := r.path(reg.OwnerID)
	if err != nil {
		return err
	}
	raw, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode register %s: %w", reg.OwnerID, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.replaceFile(p, raw)
}

// replaceFile writes raw next to p and renames it over p. Must be called
// with r.mu held.
func (r *RegisterRepository) replaceFile(p string, raw []byte) error {
	tmp, err := os.CreateTemp(r.dir, ".cassa-*.tmp")
	if err != nil {
		return apperrors.NewAppError(500, "failed to create temp file", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return apperrors.NewAppError(500, "failed to write "+filepath.Base(p), err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return apperrors.NewAppError(500, "failed to sync "+filepath.Base(p), err)
	}
	if err := tmp.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to close "+filepath.Base(p), err)
	}
	if err := os.Rename(tmpName, p); err != nil {
		return apperrors.NewAppError(500, "failed to replace "+p, err)
	}
	return nil
}
