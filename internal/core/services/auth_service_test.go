package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/cash_register_app/internal/apperrors"
	"github.com/SscSPs/cash_register_app/internal/core/services"
	"github.com/SscSPs/cash_register_app/internal/repositories/memory"
	"github.com/SscSPs/cash_register_app/internal/utils"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-secret"

func authSettings(t *testing.T, pin string, maxAttempts int) services.AuthSettings {
	t.Helper()
	settings := services.AuthSettings{
		OwnerID:     testOwner,
		MaxAttempts: maxAttempts,
		JWTSecret:   testJWTSecret,
		JWTExpiry:   time.Hour,
		JWTIssuer:   "cassa-test",
	}
	if pin != "" {
		hash, err := utils.HashPIN(pin)
		require.NoError(t, err)
		settings.PINHash = hash
	}
	return settings
}

func TestAuthService_UnlockIssuesToken(t *testing.T) {
	svc := services.NewAuthService(authSettings(t, "123456", 3), nil)

	resp, err := svc.Unlock(context.Background(), "123456")
	require.NoError(t, err)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.True(t, resp.ExpiresAt.After(time.Now()))

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(resp.AccessToken, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	assert.True(t, token.Valid)
	sub, err := claims.GetSubject()
	require.NoError(t, err)
	assert.Equal(t, testOwner, sub)
}

func TestAuthService_BlocksAfterMaxAttempts(t *testing.T) {
	ctx := context.Background()
	svc := services.NewAuthService(authSettings(t, "123456", 3), nil)

	_, err := svc.Unlock(ctx, "000000")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	_, err = svc.Unlock(ctx, "111111")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	assert.Equal(t, 2, svc.Status(ctx).FailedAttempt)
	assert.False(t, svc.Status(ctx).Blocked)

	_, err = svc.Unlock(ctx, "222222")
	assert.ErrorIs(t, err, apperrors.ErrLocked, "the last allowed failure blocks the lock")

	_, err = svc.Unlock(ctx, "123456")
	assert.ErrorIs(t, err, apperrors.ErrLocked, "the right PIN is refused while blocked")
	assert.True(t, svc.Status(ctx).Blocked)

	require.NoError(t, svc.ResetLock(ctx))
	_, err = svc.Unlock(ctx, "123456")
	require.NoError(t, err)
	assert.Equal(t, 0, svc.Status(ctx).FailedAttempt)
}

func TestAuthService_SuccessResetsCounter(t *testing.T) {
	ctx := context.Background()
	svc := services.NewAuthService(authSettings(t, "654321", 0), nil)
	assert.Equal(t, services.DefaultPINMaxAttempts, svc.Status(ctx).MaxAttempts)

	_, err := svc.Unlock(ctx, "000000")
	require.Error(t, err)
	_, err = svc.Unlock(ctx, "654321")
	require.NoError(t, err)
	assert.Equal(t, 0, svc.Status(ctx).FailedAttempt)
}

func TestAuthService_DisabledWithoutPIN(t *testing.T) {
	ctx := context.Background()
	svc := services.NewAuthService(authSettings(t, "", 3), nil)
	assert.False(t, svc.Status(ctx).Enabled)

	resp, err := svc.Unlock(ctx, "anything")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
}

func TestAuthService_BlockSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	lockRepo := memory.NewRegisterRepository()
	settings := authSettings(t, "123456", 2)

	svc := services.NewAuthService(settings, lockRepo)
	_, err := svc.Unlock(ctx, "000000")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	_, err = svc.Unlock(ctx, "111111")
	assert.ErrorIs(t, err, apperrors.ErrLocked)

	restarted := services.NewAuthService(settings, lockRepo)
	assert.True(t, restarted.Status(ctx).Blocked, "the counter is read back from storage")
	_, err = restarted.Unlock(ctx, "123456")
	assert.ErrorIs(t, err, apperrors.ErrLocked)

	require.NoError(t, restarted.ResetLock(ctx))
	failed, err := lockRepo.LoadFailedAttempts(ctx, testOwner)
	require.NoError(t, err)
	assert.Zero(t, failed)

	_, err = services.NewAuthService(settings, lockRepo).Unlock(ctx, "123456")
	require.NoError(t, err)
}

func TestAuthService_SuccessClearsStoredCounter(t *testing.T) {
	ctx := context.Background()
	lockRepo := memory.NewRegisterRepository()
	require.NoError(t, lockRepo.SaveFailedAttempts(ctx, testOwner, 1))

	svc := services.NewAuthService(authSettings(t, "123456", 3), lockRepo)
	assert.Equal(t, 1, svc.Status(ctx).FailedAttempt)
	_, err := svc.Unlock(ctx, "123456")
	require.NoError(t, err)

	failed, err := lockRepo.LoadFailedAttempts(ctx, testOwner)
	require.NoError(t, err)
	assert.Zero(t, failed)
}
