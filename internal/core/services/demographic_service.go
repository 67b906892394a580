package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/vncsmyrnk/swingmap/internal/core/domain"
	"github.com/vncsmyrnk/swingmap/internal/core/ports"
	"go.uber.org/zap"
)

// Census snapshots are not tied to election cycles, but they must fall in a
// plausible range.
const (
	minDemographicYear = 1900
	maxDemographicYear = 2100
)

type demographicService struct {
	repo   ports.DemographicRepository
	cache  ports.Cache
	ttl    time.Duration
	logger *zap.Logger
}

func NewDemographicService(repo ports.DemographicRepository, cache ports.Cache, ttl time.Duration, logger *zap.Logger) ports.DemographicService {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &demographicService{
		repo:   repo,
		cache:  cache,
		ttl:    ttl,
		logger: logger.Named("demographics"),
	}
}

func (s *demographicService) GetDemographics(ctx context.Context, query ports.DemographicQuery) ([]byte, error) {
	if query.Year < minDemographicYear || query.Year > maxDemographicYear {
		return nil, fmt.Errorf("%w: data year %d out of range", domain.ErrInvalidYear, query.Year)
	}
	state, err := domain.NormalizeState(query.State)
	if err != nil {
		return nil, err
	}

	key := demographicCacheKey(query.Year, state)
	if payload, ok := cachedPayload(ctx, s.cache, key, s.logger); ok {
		return payload, nil
	}

	rows, err := s.repo.ListCountyDemographics(ctx, query.Year, state)
	if err != nil {
		return nil, fmt.Errorf("failed to load county demographics: %w", err)
	}
	if rows == nil {
		rows = []domain.CountyDemographicRow{}
	}

	report := domain.DemographicReport{
		Year:     query.Year,
		Counties: rows,
		Summary:  domain.SummarizeDemographics(rows),
	}
	payload, err := json.Marshal(report)
	if err != nil {
		return nil, fmt.Errorf("failed to encode demographic report: %w", err)
	}

	storePayload(ctx, s.cache, key, payload, s.ttl, s.logger)
	return payload, nil
}
