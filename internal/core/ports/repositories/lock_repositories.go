package repositories

import "context"

// LockStateRepository keeps the failed PIN attempt counter of an installation.
// The counter is local state: it is never part of backups or remote snapshots.
type LockStateRepository interface {
	// LoadFailedAttempts returns 0 when nothing has been stored for the owner.
	LoadFailedAttempts(ctx context.Context, ownerID string) (int, error)
	SaveFailedAttempts(ctx context.Context, ownerID string, failed int) error
}
