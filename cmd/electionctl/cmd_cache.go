package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/vncsmyrnk/swingmap/internal/adapters/cache"
	"github.com/vncsmyrnk/swingmap/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/swingmap/internal/config"
	"github.com/vncsmyrnk/swingmap/internal/core/services"
	"go.uber.org/zap"
)

var (
	warmStates       []string
	warmConcurrency  int
	warmTimeout      time.Duration
	invalidatePrefix string
)

var warmCacheCmd = &cobra.Command{
	Use:   "warm-cache",
	Short: "Precompute swing reports for every consecutive election pair",
	Long: `Computes and caches swing reports for each pair of consecutive modern
elections. Without --state only the nationwide reports are warmed.

Only the postgres cache backend is shared with the server; warming the
memory backend from here has no effect on a running server.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if app.cfg.CacheBackend != config.CacheBackendPostgres {
			app.logger.Warn("warming a process-local cache", zap.String("backend", app.cfg.CacheBackend))
		}

		reportCache, err := cache.New(app.cfg, app.db, nil)
		if err != nil {
			return err
		}

		warmer := services.NewCacheWarmer(
			postgres.NewElectionResultRepository(app.db),
			reportCache,
			app.cfg.CacheTTL,
			warmConcurrency,
			app.logger,
		)

		// Use a timeout for the job execution to prevent it from hanging indefinitely
		ctx, cancel := context.WithTimeout(cmd.Context(), warmTimeout)
		defer cancel()

		app.logger.Info("starting swing cache warm-up", zap.Strings("states", warmStates))
		warmed, err := warmer.WarmSwingCache(ctx, warmStates)
		if err != nil {
			return fmt.Errorf("warm-up stopped after %d reports: %w", warmed, err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "warmed=%d\n", warmed)
		return nil
	},
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Maintain the postgres report cache",
}

var cachePurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete expired cache entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := postgres.NewCacheRepository(app.db).Purge(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "purged=%d\n", n)
		return nil
	},
}

var cacheInvalidateCmd = &cobra.Command{
	Use:   "invalidate",
	Short: "Delete cached reports whose key starts with --prefix",
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := postgres.NewCacheRepository(app.db).DeletePrefix(cmd.Context(), invalidatePrefix)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted=%d\n", n)
		return nil
	},
}

func init() {
	warmCacheCmd.Flags().StringSliceVar(&warmStates, "state", nil, "state codes to warm (repeatable)")
	warmCacheCmd.Flags().IntVar(&warmConcurrency, "concurrency", 4, "states processed in parallel")
	warmCacheCmd.Flags().DurationVar(&warmTimeout, "timeout", 5*time.Minute, "overall time limit")

	cacheInvalidateCmd.Flags().StringVar(&invalidatePrefix, "prefix", services.SwingKeyPrefix, "key prefix to delete")

	cacheCmd.AddCommand(cachePurgeCmd, cacheInvalidateCmd)
}
