package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/cash_register_app/internal/apperrors"
	"github.com/SscSPs/cash_register_app/internal/core/domain"
	portssvc "github.com/SscSPs/cash_register_app/internal/core/ports/services"
	"github.com/SscSPs/cash_register_app/internal/core/services"
	"github.com/SscSPs/cash_register_app/internal/dto"
	"github.com/SscSPs/cash_register_app/internal/repositories/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type SyncServiceTestSuite struct {
	suite.Suite
	repo     *memory.RegisterRepository
	store    *services.RegisterStore
	remote   *MockSnapshotStore
	observer *recordingObserver
	service  portssvc.SyncSvcFacade
	ctx      context.Context
}

func TestSyncServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SyncServiceTestSuite))
}

func (suite *SyncServiceTestSuite) SetupTest() {
	suite.repo = memory.NewRegisterRepository()
	suite.observer = &recordingObserver{}
	suite.store = services.NewRegisterStore(suite.repo, suite.observer)
	suite.store.Now = fixedClock
	suite.remote = new(MockSnapshotStore)
	// a long debounce keeps background pushes out of these tests
	suite.service = services.NewSyncService(suite.store, suite.remote, time.Hour, nil, services.WithClock(fixedClock))
	suite.ctx = context.Background()
}

func (suite *SyncServiceTestSuite) TearDownTest() {
	suite.service.Close(context.Background())
}

func registerWith(entries int, balance string, updatedAt time.Time) *domain.Register {
	reg := domain.NewRegister(testOwner)
	for i := 0; i < entries; i++ {
		reg.AppendEntry(domain.LedgerEntry{Date: domain.NewDate(2024, time.March, 1), Category: domain.CategoryTill, Description: "Cash takings", Amount: dec("10")})
	}
	reg.Balance = dec(balance)
	reg.UpdatedAt = updatedAt
	return reg
}

func (suite *SyncServiceTestSuite) saveLocal(reg *domain.Register) {
	suite.Require().NoError(suite.repo.SaveRegister(suite.ctx, reg))
}

func (suite *SyncServiceTestSuite) TestStatusBeforeAnySync() {
	suite.Equal(domain.SyncDisconnected, suite.service.Status(testOwner).State)
}

func (suite *SyncServiceTestSuite) TestPull_RemoteMissingPushesLocal() {
	suite.saveLocal(registerWith(2, "20", fixedNow))
	suite.remote.On("FetchSnapshot", suite.ctx, testOwner).Return(nil, apperrors.ErrNotFound).Once()
	suite.remote.On("PutSnapshot", suite.ctx, mock.MatchedBy(func(r *domain.Register) bool {
		return r.OwnerID == testOwner && len(r.Ledger) == 2
	})).Return(nil).Once()

	result, err := suite.service.Pull(suite.ctx, testOwner)
	suite.Require().NoError(err)
	suite.Equal(domain.SyncPushed, result.Direction)
	suite.Equal(domain.SyncSynced, result.Status.State)
	suite.Require().NotNil(result.Status.LastSync)
	suite.True(fixedNow.Equal(*result.Status.LastSync))
	suite.remote.AssertExpectations(suite.T())
}

func (suite *SyncServiceTestSuite) TestPull_TakesRemoteWithMoreEntries() {
	suite.saveLocal(registerWith(1, "10", fixedNow))
	remoteUpdated := fixedNow.Add(-time.Hour)
	suite.remote.On("FetchSnapshot", suite.ctx, testOwner).Return(registerWith(3, "30", remoteUpdated), nil).Once()

	result, err := suite.service.Pull(suite.ctx, testOwner)
	suite.Require().NoError(err)
	suite.Equal(domain.SyncTookRemote, result.Direction)
	suite.Equal(1, result.LocalEntries)
	suite.Equal(3, result.RemoteEntries)
	suite.True(dec("30").Equal(result.Balance))

	local, err := suite.store.Read(suite.ctx, testOwner)
	suite.Require().NoError(err)
	suite.Len(local.Ledger, 3)
	suite.True(remoteUpdated.Equal(local.UpdatedAt), "a pulled snapshot keeps its timestamp")
	suite.Equal([]string{services.ActionSyncPull}, suite.observer.Actions())
	suite.remote.AssertNotCalled(suite.T(), "PutSnapshot", mock.Anything, mock.Anything)
}

func (suite *SyncServiceTestSuite) TestPull_LocalWithMoreEntriesIsPushed() {
	suite.saveLocal(registerWith(4, "40", fixedNow))
	suite.remote.On("FetchSnapshot", suite.ctx, testOwner).Return(registerWith(2, "20", fixedNow.Add(time.Hour)), nil).Once()
	suite.remote.On("PutSnapshot", suite.ctx, mock.AnythingOfType("*domain.Register")).Return(nil).Once()

	result, err := suite.service.Pull(suite.ctx, testOwner)
	suite.Require().NoError(err)
	suite.Equal(domain.SyncPushed, result.Direction)
	suite.remote.AssertExpectations(suite.T())
}

func (suite *SyncServiceTestSuite) TestPull_EqualRegistersChangeNothing() {
	suite.saveLocal(registerWith(2, "20", fixedNow))
	suite.remote.On("FetchSnapshot", suite.ctx, testOwner).Return(registerWith(2, "20", fixedNow.Add(-time.Hour)), nil).Once()

	result, err := suite.service.Pull(suite.ctx, testOwner)
	suite.Require().NoError(err)
	suite.Equal(domain.SyncNoChange, result.Direction)
	suite.Equal(domain.SyncSynced, result.Status.State)
	suite.Empty(suite.observer.Actions())
}

func (suite *SyncServiceTestSuite) TestPull_FetchFailureSetsErrorStatus() {
	suite.saveLocal(registerWith(1, "10", fixedNow))
	suite.remote.On("FetchSnapshot", suite.ctx, testOwner).Return(nil, errors.New("dial tcp: refused")).Once()

	_, err := suite.service.Pull(suite.ctx, testOwner)
	suite.ErrorIs(err, apperrors.ErrRemoteUnavailable)
	status := suite.service.Status(testOwner)
	suite.Equal(domain.SyncError, status.State)
	suite.Contains(status.LastError, "refused")
}

func (suite *SyncServiceTestSuite) TestForcePull() {
	suite.saveLocal(registerWith(5, "50", fixedNow))
	suite.remote.On("FetchSnapshot", suite.ctx, testOwner).Return(registerWith(1, "10", fixedNow.Add(-time.Hour)), nil).Once()

	result, err := suite.service.ForcePull(suite.ctx, testOwner)
	suite.Require().NoError(err)
	suite.Equal(domain.SyncTookRemote, result.Direction)
	suite.Equal(5, result.LocalEntries)
	suite.True(dec("10").Equal(result.Balance), "remote replaces local even with fewer entries")

	suite.remote.On("FetchSnapshot", suite.ctx, "empty").Return(nil, apperrors.ErrNotFound).Once()
	_, err = suite.service.ForcePull(suite.ctx, "empty")
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *SyncServiceTestSuite) TestPush_FailureSetsErrorStatus() {
	suite.remote.On("PutSnapshot", suite.ctx, mock.Anything).Return(errors.New("timeout")).Once()

	err := suite.service.Push(suite.ctx, testOwner)
	suite.ErrorIs(err, apperrors.ErrRemoteUnavailable)
	suite.Equal(domain.SyncError, suite.service.Status(testOwner).State)
}

func TestSyncService_WithoutRemote(t *testing.T) {
	store := services.NewRegisterStore(memory.NewRegisterRepository())
	svc := services.NewSyncService(store, nil, 0, nil)
	ctx := context.Background()

	assert.ErrorIs(t, svc.Push(ctx, testOwner), apperrors.ErrRemoteUnavailable)
	_, err := svc.Pull(ctx, testOwner)
	assert.ErrorIs(t, err, apperrors.ErrRemoteUnavailable)
	_, err = svc.ForcePull(ctx, testOwner)
	assert.ErrorIs(t, err, apperrors.ErrRemoteUnavailable)
	assert.Equal(t, domain.SyncDisconnected, svc.Status(testOwner).State)

	// commits must not panic without a remote
	svc.RegisterCommitted(ctx, domain.NewRegister(testOwner), services.ActionCommit)
	svc.Close(ctx)
}

func TestSyncService_DebouncesCommits(t *testing.T) {
	ctx := context.Background()
	store := services.NewRegisterStore(memory.NewRegisterRepository())
	remote := new(MockSnapshotStore)
	pushed := make(chan int, 4)
	remote.On("PutSnapshot", mock.Anything, mock.AnythingOfType("*domain.Register")).
		Run(func(args mock.Arguments) {
			pushed <- len(args.Get(1).(*domain.Register).Ledger)
		}).
		Return(nil)

	svc := services.NewSyncService(store, remote, 30*time.Millisecond, nil)
	store.AddObserver(svc)
	register := services.NewRegisterService(store, services.WithClock(fixedClock))

	for i := 0; i < 3; i++ {
		_, err := register.CommitRegistration(ctx, testOwner, dto.RegistrationRequest{
			Tills: []dto.TillRow{{ReceiptTotal: dec("10")}},
		})
		require.NoError(t, err)
	}

	select {
	case n := <-pushed:
		assert.Equal(t, 3, n, "one push carries every commit")
	case <-time.After(2 * time.Second):
		t.Fatal("debounced push did not happen")
	}
	select {
	case <-pushed:
		t.Fatal("commits in one burst must be pushed once")
	case <-time.After(150 * time.Millisecond):
	}
	assert.Eventually(t, func() bool {
		return svc.Status(testOwner).State == domain.SyncSynced
	}, time.Second, 10*time.Millisecond)
	svc.Close(ctx)
}

func TestSyncService_CloseFlushesPendingPush(t *testing.T) {
	ctx := context.Background()
	store := services.NewRegisterStore(memory.NewRegisterRepository())
	remote := new(MockSnapshotStore)
	remote.On("PutSnapshot", ctx, mock.AnythingOfType("*domain.Register")).Return(nil).Once()

	svc := services.NewSyncService(store, remote, time.Hour, nil)
	store.AddObserver(svc)
	register := services.NewRegisterService(store)

	_, err := register.SetBalance(ctx, testOwner, dec("12"))
	require.NoError(t, err)

	svc.Close(ctx)
	remote.AssertExpectations(t)

	// no scheduling after close
	_, err = register.SetBalance(ctx, testOwner, dec("13"))
	require.NoError(t, err)
	remote.AssertNumberOfCalls(t, "PutSnapshot", 1)
}
