package pgsql

import (
	portsrepo "github.com/SscSPs/cash_register_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider builds the repositories backed by PostgreSQL. Remote
// integrations are attached by the caller.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		RegisterRepo: newPgxRegisterRepository(dbPool),
		LockState:    newPgxLockStateRepository(dbPool),
	}
}
