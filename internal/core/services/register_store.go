package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/SscSPs/cash_register_app/internal/apperrors"
	"github.com/SscSPs/cash_register_app/internal/core/domain"
	portsrepo "github.com/SscSPs/cash_register_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/cash_register_app/internal/core/ports/services"
	"github.com/SscSPs/cash_register_app/internal/utils/accounting"
)

// Actions reported to commit observers.
const (
	ActionCommit       = "commit"
	ActionDeleteEntry  = "delete_entry"
	ActionSetBalance   = "set_balance"
	ActionReset        = "reset"
	ActionDirectory    = "directory"
	ActionInvoice      = "invoice"
	ActionReconcile    = "reconcile"
	ActionMigrate      = "migrate_invoices"
	ActionRepayAdvance = "repay_advance"
	ActionRestore      = "restore"
	ActionImport       = "import"
	ActionSyncPull     = "sync_pull"
)

// errNoChange lets a mutation finish without saving.
var errNoChange = errors.New("no change")

// RegisterStore owns the load and save of register aggregates. Mutations of
// one owner are serialized so that load, apply and save never interleave.
type RegisterStore struct {
	BaseService
	repo portsrepo.RegisterRepositoryFacade

	mapMu sync.Mutex
	muMap map[string]*sync.Mutex

	obsMu     sync.RWMutex
	observers []portssvc.CommitObserver
}

// NewRegisterStore creates a RegisterStore on top of a register repository.
func NewRegisterStore(repo portsrepo.RegisterRepositoryFacade, observers ...portssvc.CommitObserver) *RegisterStore {
	return &RegisterStore{
		repo:      repo,
		muMap:     make(map[string]*sync.Mutex),
		observers: observers,
	}
}

// AddObserver registers an observer notified after every saved mutation.
func (s *RegisterStore) AddObserver(o portssvc.CommitObserver) {
	if o == nil {
		return
	}
	s.obsMu.Lock()
	defer s.obsMu.Unlock()
	s.observers = append(s.observers, o)
}

func (s *RegisterStore) ownerLock(ownerID string) *sync.Mutex {
	s.mapMu.Lock()
	defer s.mapMu.Unlock()

	if _, exists := s.muMap[ownerID]; !exists {
		s.muMap[ownerID] = &sync.Mutex{}
	}
	return s.muMap[ownerID]
}

// Read loads the owner's register. An owner with nothing saved gets an empty one.
func (s *RegisterStore) Read(ctx context.Context, ownerID string) (*domain.Register, error) {
	if ownerID == "" {
		return nil, apperrors.Validationf("owner id is required")
	}
	reg, err := s.repo.LoadRegister(ctx, ownerID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return domain.NewRegister(ownerID), nil
	}
	if err != nil {
		s.LogError(ctx, err, "Failed to load register", slog.String("owner_id", ownerID))
		return nil, fmt.Errorf("failed to load register: %w", err)
	}
	reg.OwnerID = ownerID
	reg.Normalize()
	refreshLegacyPayments(reg)
	return reg, nil
}

// refreshLegacyPayments recomputes the cash attributed to legacy invoices.
// Their status depends on the whole ledger, so it is derived again whenever
// the register is loaded or changed.
func refreshLegacyPayments(reg *domain.Register) {
	for i := range reg.Invoices {
		if reg.Invoices[i].IsLegacy() {
			accounting.ReconcileLegacyInvoices(reg.Ledger, reg.Invoices)
			return
		}
	}
}

// Mutate loads the register, applies fn and saves the result. When fn returns
// an error nothing is saved, so a mutation is never applied halfway.
func (s *RegisterStore) Mutate(ctx context.Context, ownerID, action string, fn func(reg *domain.Register) error) (*domain.Register, error) {
	mu := s.ownerLock(ownerID)
	mu.Lock()
	defer mu.Unlock()

	reg, err := s.Read(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	if err := fn(reg); err != nil {
		if errors.Is(err, errNoChange) {
			return reg, nil
		}
		return nil, err
	}

	reg.OwnerID = ownerID
	refreshLegacyPayments(reg)
	if action != ActionSyncPull {
		// pulled snapshots keep the remote timestamp for later merges
		reg.UpdatedAt = s.CurrentTime().UTC()
	}
	if err := s.repo.SaveRegister(ctx, reg); err != nil {
		s.LogError(ctx, err, "Failed to save register", slog.String("owner_id", ownerID), slog.String("action", action))
		return nil, fmt.Errorf("failed to save register: %w", err)
	}
	s.LogDebug(ctx, "Register saved", slog.String("owner_id", ownerID), slog.String("action", action), slog.Int("entries", len(reg.Ledger)))

	s.obsMu.RLock()
	observers := append([]portssvc.CommitObserver(nil), s.observers...)
	s.obsMu.RUnlock()
	for _, o := range observers {
		o.RegisterCommitted(ctx, reg, action)
	}
	return reg, nil
}
