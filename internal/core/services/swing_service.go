package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/vncsmyrnk/swingmap/internal/core/domain"
	"github.com/vncsmyrnk/swingmap/internal/core/ports"
	"go.uber.org/zap"
)

type swingService struct {
	repo   ports.ElectionResultRepository
	cache  ports.Cache
	ttl    time.Duration
	logger *zap.Logger
}

func NewSwingService(repo ports.ElectionResultRepository, cache ports.Cache, ttl time.Duration, logger *zap.Logger) ports.SwingService {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &swingService{
		repo:   repo,
		cache:  cache,
		ttl:    ttl,
		logger: logger.Named("swing"),
	}
}

func (s *swingService) GetSwing(ctx context.Context, query ports.SwingQuery) ([]byte, error) {
	if err := domain.ValidateSwingYears(query.FromYear, query.ToYear); err != nil {
		return nil, err
	}
	state, err := domain.NormalizeState(query.State)
	if err != nil {
		return nil, err
	}

	key := swingCacheKey(query.FromYear, query.ToYear, state)
	if payload, ok := cachedPayload(ctx, s.cache, key, s.logger); ok {
		return payload, nil
	}

	records, err := s.repo.ListCountyResults(ctx, state)
	if err != nil {
		return nil, fmt.Errorf("failed to load county results: %w", err)
	}

	report := domain.BuildSwingReport(records, query.FromYear, query.ToYear)
	payload, err := json.Marshal(report)
	if err != nil {
		return nil, fmt.Errorf("failed to encode swing report: %w", err)
	}

	storePayload(ctx, s.cache, key, payload, s.ttl, s.logger)
	return payload, nil
}

// cachedPayload treats every cache failure as a miss.
func cachedPayload(ctx context.Context, cache ports.Cache, key string, logger *zap.Logger) ([]byte, bool) {
	if cache == nil {
		return nil, false
	}
	payload, err := cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	return payload, true
}

// storePayload never fails the caller; the computed payload is returned
// whether or not it could be cached.
func storePayload(ctx context.Context, cache ports.Cache, key string, payload []byte, ttl time.Duration, logger *zap.Logger) {
	if cache == nil {
		return
	}
	if err := cache.Set(ctx, key, payload, ttl); err != nil {
		logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}
