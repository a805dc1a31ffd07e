package services_test

import (
	"context"
	"sync"
	"time"

	"github.com/SscSPs/cash_register_app/internal/core/domain"
	portsrepo "github.com/SscSPs/cash_register_app/internal/core/ports/repositories"
	"github.com/stretchr/testify/mock"
)

// --- Mock RegisterRepository ---
type MockRegisterRepository struct {
	mock.Mock
}

var _ portsrepo.RegisterRepositoryFacade = (*MockRegisterRepository)(nil)

func (m *MockRegisterRepository) LoadRegister(ctx context.Context, ownerID string) (*domain.Register, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Register), args.Error(1)
}

func (m *MockRegisterRepository) SaveRegister(ctx context.Context, reg *domain.Register) error {
	args := m.Called(ctx, reg)
	return args.Error(0)
}

// --- Mock SnapshotStore ---
type MockSnapshotStore struct {
	mock.Mock
}

var _ portsrepo.SnapshotStore = (*MockSnapshotStore)(nil)

func (m *MockSnapshotStore) FetchSnapshot(ctx context.Context, ownerID string) (*domain.Register, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Register), args.Error(1)
}

func (m *MockSnapshotStore) PutSnapshot(ctx context.Context, reg *domain.Register) error {
	args := m.Called(ctx, reg)
	return args.Error(0)
}

// --- Mock EventPublisher ---
type MockEventPublisher struct {
	mock.Mock
}

var _ portsrepo.EventPublisher = (*MockEventPublisher)(nil)

func (m *MockEventPublisher) Publish(ctx context.Context, event domain.RegisterEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

// recordingObserver collects the actions reported by the store.
type recordingObserver struct {
	mu      sync.Mutex
	actions []string
}

func (o *recordingObserver) RegisterCommitted(_ context.Context, _ *domain.Register, action string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.actions = append(o.actions, action)
}

func (o *recordingObserver) Actions() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.actions...)
}

// fixedNow pins every service to 15 March 2024, 10:30 UTC.
var fixedNow = time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }
