package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/vncsmyrnk/swingmap/internal/core/domain"
	"github.com/vncsmyrnk/swingmap/internal/core/ports"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultWarmConcurrency = 4

type cacheWarmer struct {
	repo        ports.ElectionResultRepository
	cache       ports.Cache
	ttl         time.Duration
	concurrency int
	logger      *zap.Logger
}

func NewCacheWarmer(repo ports.ElectionResultRepository, cache ports.Cache, ttl time.Duration, concurrency int, logger *zap.Logger) ports.CacheWarmer {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if concurrency <= 0 {
		concurrency = defaultWarmConcurrency
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &cacheWarmer{
		repo:        repo,
		cache:       cache,
		ttl:         ttl,
		concurrency: concurrency,
		logger:      logger.Named("warmer"),
	}
}

// WarmSwingCache precomputes every consecutive modern election pair for each
// state, plus the nationwide view when states is empty or contains "".
// Results for a state are loaded once and reused for all pairs.
func (w *cacheWarmer) WarmSwingCache(ctx context.Context, states []string) (int, error) {
	if len(states) == 0 {
		states = []string{""}
	}

	normalized := make([]string, 0, len(states))
	for _, st := range states {
		state, err := domain.NormalizeState(st)
		if err != nil {
			return 0, err
		}
		normalized = append(normalized, state)
	}

	years := domain.ModernElectionYears()
	var warmed atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(w.concurrency)

	for _, state := range normalized {
		g.Go(func() error {
			records, err := w.repo.ListCountyResults(ctx, state)
			if err != nil {
				return fmt.Errorf("failed to load results for %q: %w", stateKeyPart(state), err)
			}

			for i := 1; i < len(years); i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				from, to := years[i-1], years[i]
				payload, err := json.Marshal(domain.BuildSwingReport(records, from, to))
				if err != nil {
					return fmt.Errorf("failed to encode swing report: %w", err)
				}
				key := swingCacheKey(from, to, state)
				if err := w.cache.Set(ctx, key, payload, w.ttl); err != nil {
					w.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
					continue
				}
				warmed.Add(1)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return int(warmed.Load()), err
	}
	return int(warmed.Load()), nil
}
