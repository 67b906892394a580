// Package cache selects the cache backend used by the services.
package cache

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/vncsmyrnk/swingmap/internal/adapters/cache/instrumented"
	"github.com/vncsmyrnk/swingmap/internal/adapters/cache/memory"
	"github.com/vncsmyrnk/swingmap/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/swingmap/internal/config"
	"github.com/vncsmyrnk/swingmap/internal/core/ports"
)

// New builds the configured backend and wraps it with hit/miss metrics when
// a registerer is given.
func New(cfg *config.Config, db *sql.DB, reg prometheus.Registerer) (ports.Cache, error) {
	var backend ports.Cache
	switch cfg.CacheBackend {
	case config.CacheBackendMemory:
		// Entries carry their own TTL; the LRU bound only needs to be no shorter.
		backend = memory.New(cfg.CacheMaxEntries, cfg.CacheTTL+time.Minute)
	case config.CacheBackendPostgres:
		if db == nil {
			return nil, fmt.Errorf("cache: postgres backend needs a database")
		}
		backend = postgres.NewCacheRepository(db)
	default:
		return nil, fmt.Errorf("cache: unknown backend %q", cfg.CacheBackend)
	}

	if reg == nil {
		return backend, nil
	}
	return instrumented.Wrap(backend, instrumented.NewMetrics(reg)), nil
}
