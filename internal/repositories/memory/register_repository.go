package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/SscSPs/cash_register_app/internal/apperrors"
	"github.com/SscSPs/cash_register_app/internal/core/domain"
	portsrepo "github.com/SscSPs/cash_register_app/internal/core/ports/repositories"
)

// RegisterRepository keeps registers in memory. Registers are stored encoded
// so callers never share state with the store.
type RegisterRepository struct {
	mu        sync.RWMutex
	documents map[string][]byte
	failed    map[string]int
}

// NewRegisterRepository creates an empty in-memory register repository.
func NewRegisterRepository() *RegisterRepository {
	return &RegisterRepository{documents: make(map[string][]byte), failed: make(map[string]int)}
}

var (
	_ portsrepo.RegisterRepositoryFacade = (*RegisterRepository)(nil)
	_ portsrepo.LockStateRepository      = (*RegisterRepository)(nil)
)

func (m *RegisterRepository) LoadRegister(_ context.Context, ownerID string) (*domain.Register, error) {
	m.mu.RLock()
	raw, ok := m.documents[ownerID]
	m.mu.RUnlock()
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	var reg domain.Register
	if err := json.Unmarshal(raw, &reg); err != nil {
		return nil, fmt.Errorf("decode register %s: %w", ownerID, err)
	}
	reg.Normalize()
	return &reg, nil
}

func (m *RegisterRepository) SaveRegister(_ context.Context, reg *domain.Register) error {
	raw, err := json.Marshal(reg)
	if err != nil {
		return fmt.Errorf("encode register %s: %w", reg.OwnerID, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.documents[reg.OwnerID] = raw
	return nil
}

// Owners lists the owners with a saved register.
func (m *RegisterRepository) Owners() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	owners := make([]string, 0, len(m.documents))
	for id := range m.documents {
		owners = append(owners, id)
	}
	return owners
}

func (m *RegisterRepository) LoadFailedAttempts(_ context.Context, ownerID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.failed[ownerID], nil
}

func (m *RegisterRepository) SaveFailedAttempts(_ context.Context, ownerID string, failed int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failed[ownerID] = failed
	return nil
}
