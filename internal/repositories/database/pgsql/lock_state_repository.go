package pgsql

import (
	"context"
	"errors"

	"github.com/SscSPs/cash_register_app/internal/apperrors"
	portsrepo "github.com/SscSPs/cash_register_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxLockStateRepository keeps the failed PIN attempt counter per owner.
type PgxLockStateRepository struct {
	BaseRepository
}

func newPgxLockStateRepository(pool *pgxpool.Pool) *PgxLockStateRepository {
	return &PgxLockStateRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.LockStateRepository = (*PgxLockStateRepository)(nil)

func (r *PgxLockStateRepository) LoadFailedAttempts(ctx context.Context, ownerID string) (int, error) {
	var failed int
	err := r.Pool.QueryRow(ctx, `SELECT failed_attempts FROM pin_lock_state WHERE owner_id = $1;`, ownerID).Scan(&failed)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, apperrors.NewAppError(500, "failed to load lock state "+ownerID, err)
	}
	return failed, nil
}

func (r *PgxLockStateRepository) SaveFailedAttempts(ctx context.Context, ownerID string, failed int) error {
	query := `
		INSERT INTO pin_lock_state (owner_id, failed_attempts, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (owner_id) DO UPDATE SET
			failed_attempts = EXCLUDED.failed_attempts,
			updated_at = EXCLUDED.updated_at;
	`
	if _, err := r.Pool.Exec(ctx, query, ownerID, failed); err != nil {
		return apperrors.NewAppError(500, "failed to save lock state "+ownerID, err)
	}
	return nil
}
