// Command electionctl loads election data and maintains the report cache.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/vncsmyrnk/swingmap/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/swingmap/internal/config"
	"github.com/vncsmyrnk/swingmap/internal/logger"
	"go.uber.org/zap"
)

// env holds what every subcommand needs once the root has run.
type env struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *sql.DB
}

var app env

var rootCmd = &cobra.Command{
	Use:           "electionctl",
	Short:         "Import county election data and manage cached swing reports",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		zl, err := logger.New(cfg.ServerEnv, cfg.LogLevel)
		if err != nil {
			return err
		}
		db, err := postgres.Open(cmd.Context(), cfg.DatabaseURL)
		if err != nil {
			return err
		}
		app = env{cfg: cfg, logger: zl, db: db}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if app.db != nil {
			app.db.Close()
		}
		if app.logger != nil {
			_ = app.logger.Sync()
		}
	},
}

func init() {
	rootCmd.AddCommand(importCmd, warmCacheCmd, cacheCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "electionctl:", err)
		os.Exit(1)
	}
}
