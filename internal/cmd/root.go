package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iliyamo/clothing-store/internal/config"
	"github.com/iliyamo/clothing-store/internal/database"
	"github.com/iliyamo/clothing-store/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "clothing-store",
	Short: "Clothing Store - catalog, orders and accounts over HTTP",
	Long: `Clothing Store serves a small shop API: a public catalog, customer
registration and login with JWT access tokens, transactional order placement
and admin-only sales statistics.

Configuration comes from the environment (an optional .env file is loaded
first). Run "serve" to start the API, "seed" to load a sample catalog and
"create-admin" to grant admin rights.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runtime is the shared state every database-backed command starts from.
type runtime struct {
	cfg config.Config
	log *zap.Logger
	db  *sql.DB
}

// bootstrap loads configuration, builds the logger, opens the database and
// makes sure the schema exists.  The caller closes the runtime.
func bootstrap(ctx context.Context) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	log, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	dsn, err := cfg.DSN()
	if err != nil {
		return nil, err
	}
	db, err := database.Open(cfg.DBDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.EnsureSchema(ctx, db, cfg.DBDriver); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &runtime{cfg: cfg, log: log, db: db}, nil
}

func (r *runtime) Close() {
	_ = r.db.Close()
	_ = r.log.Sync()
}
