package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SscSPs/cash_register_app/internal/apperrors"
	portsrepo "github.com/SscSPs/cash_register_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/cash_register_app/internal/core/ports/services"
	"github.com/SscSPs/cash_register_app/internal/dto"
	"github.com/SscSPs/cash_register_app/internal/utils"
)

// DefaultPINMaxAttempts is the number of wrong PINs tolerated before the lock blocks.
const DefaultPINMaxAttempts = 5

// AuthSettings configures the PIN lock.
type AuthSettings struct {
	OwnerID     string
	PINHash     string // bcrypt hash; empty disables the PIN check
	MaxAttempts int
	JWTSecret   string
	JWTExpiry   time.Duration
	JWTIssuer   string
}

// authService guards the API with a PIN and issues access tokens on unlock.
// The failed attempt counter is kept in lockRepo when one is given, so a
// blocked lock stays blocked across restarts.
type authService struct {
	BaseService
	settings AuthSettings
	lockRepo portsrepo.LockStateRepository

	mu     sync.Mutex
	loaded bool
	failed int
}

// NewAuthService creates the PIN lock service. lockRepo may be nil, in which
// case the counter only lives in memory.
func NewAuthService(settings AuthSettings, lockRepo portsrepo.LockStateRepository, opts ...ServiceOption) portssvc.AuthSvcFacade {
	if settings.MaxAttempts <= 0 {
		settings.MaxAttempts = DefaultPINMaxAttempts
	}
	s := &authService{settings: settings, lockRepo: lockRepo}
	s.apply(opts)
	return s
}

// loadLocked reads the stored counter once. Must be called with s.mu held.
func (s *authService) loadLocked(ctx context.Context) {
	if s.loaded || s.lockRepo == nil {
		return
	}
	failed, err := s.lockRepo.LoadFailedAttempts(ctx, s.settings.OwnerID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load PIN lock state", slog.String("owner_id", s.settings.OwnerID))
		return
	}
	s.failed = failed
	s.loaded = true
}

// storeLocked persists the counter. Must be called with s.mu held.
func (s *authService) storeLocked(ctx context.Context) error {
	if s.lockRepo == nil {
		return nil
	}
	if err := s.lockRepo.SaveFailedAttempts(ctx, s.settings.OwnerID, s.failed); err != nil {
		s.LogError(ctx, err, "Failed to save PIN lock state", slog.String("owner_id", s.settings.OwnerID))
		return fmt.Errorf("failed to save lock state: %w", err)
	}
	s.loaded = true
	return nil
}

func (s *authService) Unlock(ctx context.Context, pin string) (*dto.UnlockResponse, error) {
	if s.settings.PINHash != "" {
		s.mu.Lock()
		s.loadLocked(ctx)
		if s.failed >= s.settings.MaxAttempts {
			s.mu.Unlock()
			s.LogInfo(ctx, "Unlock attempted while blocked")
			return nil, apperrors.ErrLocked
		}
		if !utils.CheckPINHash(pin, s.settings.PINHash) {
			s.failed++
			failed := s.failed
			// a failed save still counts the attempt in memory
			_ = s.storeLocked(ctx)
			s.mu.Unlock()
			s.GetLogger(ctx).Warn("Wrong PIN", slog.Int("failed_attempts", failed), slog.Int("max_attempts", s.settings.MaxAttempts))
			if failed >= s.settings.MaxAttempts {
				return nil, apperrors.ErrLocked
			}
			return nil, fmt.Errorf("wrong PIN: %w", apperrors.ErrUnauthorized)
		}
		if s.failed > 0 {
			s.failed = 0
			_ = s.storeLocked(ctx)
		}
		s.mu.Unlock()
	}

	token, expiresAt, err := utils.GenerateJWT(s.settings.OwnerID, s.settings.JWTSecret, s.settings.JWTExpiry, s.settings.JWTIssuer)
	if err != nil {
		s.LogError(ctx, err, "Failed to generate access token")
		return nil, apperrors.NewAppError(500, "failed to generate access token", err)
	}
	s.LogInfo(ctx, "Register unlocked", slog.String("owner_id", s.settings.OwnerID))
	return &dto.UnlockResponse{AccessToken: token, TokenType: "Bearer", ExpiresAt: expiresAt}, nil
}

func (s *authService) Status(ctx context.Context) dto.LockStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked(ctx)
	return dto.LockStatus{
		Enabled:       s.settings.PINHash != "",
		FailedAttempt: s.failed,
		MaxAttempts:   s.settings.MaxAttempts,
		Blocked:       s.settings.PINHash != "" && s.failed >= s.settings.MaxAttempts,
	}
}

// ResetLock clears the failed attempt counter.
func (s *authService) ResetLock(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failed = 0
	return s.storeLocked(ctx)
}
