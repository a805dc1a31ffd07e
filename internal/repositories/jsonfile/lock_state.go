package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/SscSPs/cash_register_app/internal/apperrors"
	portsrepo "github.com/SscSPs/cash_register_app/internal/core/ports/repositories"
)

// lockDocument is stored apart from the register so that backups and remote
// snapshots never carry it.
type lockDocument struct {
	FailedAttempts int       `json:"failedAttempts"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

var _ portsrepo.LockStateRepository = (*RegisterRepository)(nil)

func (r *RegisterRepository) LoadFailedAttempts(_ context.Context, ownerID string) (int, error) {
	p, err := r.ownerFile("lock", ownerID)
	if err != nil {
		return 0, err
	}
	r.mu.RLock()
	raw, err := os.ReadFile(p)
	r.mu.RUnlock()
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, apperrors.NewAppError(500, "failed to read lock state "+ownerID, err)
	}
	var doc lockDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return 0, apperrors.NewAppError(500, "lock state is corrupt: "+p, err)
	}
	return doc.FailedAttempts, nil
}

func (r *RegisterRepository) SaveFailedAttempts(_ context.Context, ownerID string, failed int) error {
	p, err := r.ownerFile("lock", ownerID)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(lockDocument{FailedAttempts: failed, UpdatedAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("encode lock state %s: %w", ownerID, err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.replaceFile(p, raw)
}
