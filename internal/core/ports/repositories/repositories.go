package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
// Optional integrations are nil when not configured.
type RepositoryProvider struct {
	RegisterRepo RegisterRepositoryFacade
	LockState    LockStateRepository
	Snapshots    SnapshotStore
	Events       EventPublisher
	Scanner      InvoiceScanner
}
