package main

import (
	"context"
	"fmt"

	portsrepo "github.com/SscSPs/cash_register_app/internal/core/ports/repositories"
	"github.com/SscSPs/cash_register_app/internal/core/services"
	"github.com/SscSPs/cash_register_app/internal/platform/config"
	"github.com/SscSPs/cash_register_app/internal/repositories/database/pgsql"
	"github.com/SscSPs/cash_register_app/internal/repositories/jsonfile"
	"github.com/SscSPs/cash_register_app/pkg/database"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cassactl",
	Short: "Maintenance commands for the cassa backend",
	Long: `cassactl works directly on the register storage configured for the
backend (PGSQL_URL or DATA_DIR). Stop the server before restoring or importing,
the running server does not see changes made behind its back until restart.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("owner", "", "Register owner (default: OWNER_ID from the environment)")
}

// session is an opened register store plus the config it came from.
type session struct {
	cfg   *config.Config
	owner string
	store *services.RegisterStore
	lock  portsrepo.LockStateRepository
	close func()
}

// openSession loads the config and opens the register storage the server uses.
func openSession(ctx context.Context, cmd *cobra.Command) (*session, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	owner, _ := cmd.Flags().GetString("owner")
	if owner == "" {
		owner = cfg.OwnerID
	}

	var (
		repo    portsrepo.RegisterRepositoryFacade
		lock    portsrepo.LockStateRepository
		closeFn = func() {}
	)
	if cfg.DatabaseURL != "" {
		pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, true)
		if err != nil {
			return nil, err
		}
		provider := pgsql.NewRepositoryProvider(pool)
		repo, lock = provider.RegisterRepo, provider.LockState
		closeFn = func() { database.ClosePgxPool(pool) }
	} else {
		fileRepo, err := jsonfile.NewRegisterRepository(cfg.DataDir)
		if err != nil {
			return nil, err
		}
		repo, lock = fileRepo, fileRepo
	}

	return &session{
		cfg:   cfg,
		owner: owner,
		store: services.NewRegisterStore(repo),
		lock:  lock,
		close: closeFn,
	}, nil
}
