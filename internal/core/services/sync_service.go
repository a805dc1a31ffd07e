package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SscSPs/cash_register_app/internal/apperrors"
	"github.com/SscSPs/cash_register_app/internal/core/domain"
	portsrepo "github.com/SscSPs/cash_register_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/cash_register_app/internal/core/ports/services"
	"github.com/SscSPs/cash_register_app/internal/dto"
	"github.com/SscSPs/cash_register_app/internal/platform/metrics"
)

// DefaultSyncDebounce coalesces bursts of saves into one remote write.
const DefaultSyncDebounce = 500 * time.Millisecond

const syncTimeout = 15 * time.Second

type syncService struct {
	BaseService
	store    *RegisterStore
	remote   portsrepo.SnapshotStore
	debounce time.Duration
	metrics  *metrics.SyncMetrics

	mu     sync.Mutex
	timers map[string]*time.Timer
	status map[string]domain.SyncStatus
	closed bool
	wg     sync.WaitGroup
}

// NewSyncService creates the remote mirror scheduler. remote may be nil, in
// which case every owner reports the disconnected state.
func NewSyncService(store *RegisterStore, remote portsrepo.SnapshotStore, debounce time.Duration, m *metrics.SyncMetrics, opts ...ServiceOption) portssvc.SyncSvcFacade {
	if debounce <= 0 {
		debounce = DefaultSyncDebounce
	}
	s := &syncService{
		store:    store,
		remote:   remote,
		debounce: debounce,
		metrics:  m,
		timers:   make(map[string]*time.Timer),
		status:   make(map[string]domain.SyncStatus),
	}
	s.apply(opts)
	return s
}

// RegisterCommitted schedules a debounced push after every local save.
func (s *syncService) RegisterCommitted(ctx context.Context, reg *domain.Register, action string) {
	if s.remote == nil || reg == nil || action == ActionSyncPull {
		return
	}
	ownerID := reg.OwnerID

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if t, ok := s.timers[ownerID]; ok {
		t.Stop()
	}
	s.timers[ownerID] = time.AfterFunc(s.debounce, func() { s.flush(ownerID) })
}

func (s *syncService) flush(ownerID string) {
	s.mu.Lock()
	if _, pending := s.timers[ownerID]; !pending || s.closed {
		s.mu.Unlock()
		return
	}
	delete(s.timers, ownerID)
	s.wg.Add(1)
	s.mu.Unlock()
	defer s.wg.Done()

	ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
	defer cancel()
	// failures only change the status
	_ = s.Push(ctx, ownerID)
}

func (s *syncService) setStatus(ownerID string, state domain.SyncState, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.status[ownerID]
	st.State = state
	switch state {
	case domain.SyncSynced:
		now := s.CurrentTime().UTC()
		st.LastSync = &now
		st.LastError = ""
	case domain.SyncError:
		if err != nil {
			st.LastError = err.Error()
		}
	}
	s.status[ownerID] = st
}

func (s *syncService) Status(ownerID string) domain.SyncStatus {
	if s.remote == nil {
		return domain.SyncStatus{State: domain.SyncDisconnected}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.status[ownerID]
	if !ok {
		return domain.SyncStatus{State: domain.SyncDisconnected}
	}
	return st
}

func (s *syncService) Push(ctx context.Context, ownerID string) error {
	if s.remote == nil {
		return apperrors.ErrRemoteUnavailable
	}
	start := time.Now()
	s.setStatus(ownerID, domain.SyncSyncing, nil)

	reg, err := s.store.Read(ctx, ownerID)
	if err == nil {
		err = s.remote.PutSnapshot(ctx, reg)
	}
	s.metrics.Observe("push", time.Since(start), err)
	if err != nil {
		s.setStatus(ownerID, domain.SyncError, err)
		s.LogError(ctx, err, "Remote push failed", slog.String("owner_id", ownerID))
		return fmt.Errorf("%w: %v", apperrors.ErrRemoteUnavailable, err)
	}
	s.setStatus(ownerID, domain.SyncSynced, nil)
	s.LogDebug(ctx, "Remote push completed", slog.String("owner_id", ownerID), slog.Int("entries", len(reg.Ledger)))
	return nil
}

// chooseSide applies the merge heuristic: more ledger entries wins, and on
// equal counts with different balances the newer save wins, remote on a tie.
func chooseSide(local, remote *domain.Register) domain.SyncDirection {
	ll, rl := len(local.Ledger), len(remote.Ledger)
	switch {
	case rl > ll:
		return domain.SyncTookRemote
	case ll > rl:
		return domain.SyncPushed
	}
	if local.Balance.Equal(remote.Balance) {
		return domain.SyncNoChange
	}
	if local.UpdatedAt.After(remote.UpdatedAt) {
		return domain.SyncPushed
	}
	return domain.SyncTookRemote
}

func (s *syncService) fetchRemote(ctx context.Context, ownerID string) (*domain.Register, error) {
	start := time.Now()
	remote, err := s.remote.FetchSnapshot(ctx, ownerID)
	if errors.Is(err, apperrors.ErrNotFound) {
		s.metrics.Observe("pull", time.Since(start), nil)
		return nil, err
	}
	s.metrics.Observe("pull", time.Since(start), err)
	if err != nil {
		s.setStatus(ownerID, domain.SyncError, err)
		s.LogError(ctx, err, "Remote fetch failed", slog.String("owner_id", ownerID))
		return nil, fmt.Errorf("%w: %v", apperrors.ErrRemoteUnavailable, err)
	}
	remote.Normalize()
	return remote, nil
}

func (s *syncService) replaceLocal(ctx context.Context, ownerID string, remote *domain.Register) (*domain.Register, error) {
	return s.store.Mutate(ctx, ownerID, ActionSyncPull, func(reg *domain.Register) error {
		*reg = *remote
		reg.OwnerID = ownerID
		return nil
	})
}

func (s *syncService) Pull(ctx context.Context, ownerID string) (*dto.SyncResult, error) {
	if s.remote == nil {
		return nil, apperrors.ErrRemoteUnavailable
	}
	s.setStatus(ownerID, domain.SyncSyncing, nil)

	local, err := s.store.Read(ctx, ownerID)
	if err != nil {
		s.setStatus(ownerID, domain.SyncError, err)
		return nil, err
	}
	result := &dto.SyncResult{LocalEntries: len(local.Ledger), Balance: local.Balance}

	remote, err := s.fetchRemote(ctx, ownerID)
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		if err := s.Push(ctx, ownerID); err != nil {
			return nil, err
		}
		result.Direction = domain.SyncPushed
		result.Status = s.Status(ownerID)
		return result, nil
	case err != nil:
		return nil, err
	}
	result.RemoteEntries = len(remote.Ledger)

	result.Direction = chooseSide(local, remote)
	switch result.Direction {
	case domain.SyncTookRemote:
		reg, err := s.replaceLocal(ctx, ownerID, remote)
		if err != nil {
			s.setStatus(ownerID, domain.SyncError, err)
			return nil, err
		}
		result.Balance = reg.Balance
		s.setStatus(ownerID, domain.SyncSynced, nil)
	case domain.SyncPushed:
		if err := s.Push(ctx, ownerID); err != nil {
			return nil, err
		}
	default:
		s.setStatus(ownerID, domain.SyncSynced, nil)
	}

	s.LogInfo(ctx, "Remote pull completed",
		slog.String("owner_id", ownerID),
		slog.String("direction", string(result.Direction)),
		slog.Int("local_entries", result.LocalEntries),
		slog.Int("remote_entries", result.RemoteEntries))
	result.Status = s.Status(ownerID)
	return result, nil
}

func (s *syncService) ForcePull(ctx context.Context, ownerID string) (*dto.SyncResult, error) {
	if s.remote == nil {
		return nil, apperrors.ErrRemoteUnavailable
	}
	s.setStatus(ownerID, domain.SyncSyncing, nil)

	local, err := s.store.Read(ctx, ownerID)
	if err != nil {
		s.setStatus(ownerID, domain.SyncError, err)
		return nil, err
	}
	remote, err := s.fetchRemote(ctx, ownerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.setStatus(ownerID, domain.SyncError, err)
			return nil, fmt.Errorf("remote register for %s: %w", ownerID, apperrors.ErrNotFound)
		}
		return nil, err
	}
	reg, err := s.replaceLocal(ctx, ownerID, remote)
	if err != nil {
		s.setStatus(ownerID, domain.SyncError, err)
		return nil, err
	}
	s.setStatus(ownerID, domain.SyncSynced, nil)
	s.LogInfo(ctx, "Local register replaced by remote", slog.String("owner_id", ownerID))
	return &dto.SyncResult{
		Direction:     domain.SyncTookRemote,
		LocalEntries:  len(local.Ledger),
		RemoteEntries: len(remote.Ledger),
		Balance:       reg.Balance,
		Status:        s.Status(ownerID),
	}, nil
}

// Close pushes every pending owner once and stops further scheduling.
func (s *syncService) Close(ctx context.Context) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	pending := make([]string, 0, len(s.timers))
	for ownerID, t := range s.timers {
		t.Stop()
		pending = append(pending, ownerID)
	}
	s.timers = make(map[string]*time.Timer)
	s.mu.Unlock()

	s.wg.Wait()
	for _, ownerID := range pending {
		_ = s.Push(ctx, ownerID)
	}
}
