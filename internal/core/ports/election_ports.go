package ports

import (
	"context"

	"github.com/vncsmyrnk/swingmap/internal/core/domain"
)

type ElectionResultRepository interface {
	// ListCountyResults returns every county with its full year map. An empty
	// state returns all states.
	ListCountyResults(ctx context.Context, state string) ([]domain.CountyElectionResult, error)
	UpsertCounties(ctx context.Context, counties []domain.County) error
	UpsertResults(ctx context.Context, year int, results map[string]domain.ElectionResult) error
}

type DemographicRepository interface {
	ListCountyDemographics(ctx context.Context, year int, state string) ([]domain.CountyDemographicRow, error)
	UpsertDemographics(ctx context.Context, rows []domain.CountyDemographic) error
}

type SwingQuery struct {
	FromYear int
	ToYear   int
	State    string
}

type DemographicQuery struct {
	Year  int
	State string
}

// SwingService returns serialized report payloads so that cached and freshly
// computed responses are byte-identical.
type SwingService interface {
	GetSwing(ctx context.Context, query SwingQuery) ([]byte, error)
}

type DemographicService interface {
	GetDemographics(ctx context.Context, query DemographicQuery) ([]byte, error)
}

type CacheWarmer interface {
	WarmSwingCache(ctx context.Context, states []string) (int, error)
}
