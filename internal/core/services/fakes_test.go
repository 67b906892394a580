package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/swingmap/internal/core/domain"
)

type fakeResultRepo struct {
	mu       sync.Mutex
	records  []domain.CountyElectionResult
	err      error
	calls    int
	states   []string
	counties []domain.County
	results  map[int]map[string]domain.ElectionResult
}

func (r *fakeResultRepo) ListCountyResults(_ context.Context, state string) ([]domain.CountyElectionResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	r.states = append(r.states, state)
	if r.err != nil {
		return nil, r.err
	}
	if state == "" {
		return r.records, nil
	}
	var filtered []domain.CountyElectionResult
	for _, rec := range r.records {
		if rec.StateAbbr == state {
			filtered = append(filtered, rec)
		}
	}
	return filtered, nil
}

func (r *fakeResultRepo) UpsertCounties(_ context.Context, counties []domain.County) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counties = append(r.counties, counties...)
	return r.err
}

func (r *fakeResultRepo) UpsertResults(_ context.Context, year int, results map[string]domain.ElectionResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.results == nil {
		r.results = make(map[int]map[string]domain.ElectionResult)
	}
	r.results[year] = results
	return r.err
}

type fakeDemographicRepo struct {
	rows     []domain.CountyDemographicRow
	err      error
	calls    int
	upserted []domain.CountyDemographic
}

func (r *fakeDemographicRepo) ListCountyDemographics(_ context.Context, year int, state string) ([]domain.CountyDemographicRow, error) {
	r.calls++
	return r.rows, r.err
}

func (r *fakeDemographicRepo) UpsertDemographics(_ context.Context, rows []domain.CountyDemographic) error {
	r.upserted = append(r.upserted, rows...)
	return r.err
}

type fakeCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	ttls    map[string]time.Duration
	getErr  error
	setErr  error
	sets    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (c *fakeCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, c.getErr
	}
	v, ok := c.entries[key]
	if !ok {
		return nil, domain.ErrCacheMiss
	}
	return v, nil
}

func (c *fakeCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	if c.setErr != nil {
		return c.setErr
	}
	c.entries[key] = value
	c.ttls[key] = ttl
	return nil
}

func (c *fakeCache) DeletePrefix(_ context.Context, prefix string) (int, error) {
	return 0, errors.New("not implemented")
}

type fakeMessageRepo struct {
	messages map[uuid.UUID]*domain.Message
	saveErr  error
	// afterGet runs once the copy for GetByID has been taken, to model a
	// concurrent writer committing in between.
	afterGet func()
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{messages: map[uuid.UUID]*domain.Message{}}
}

func (r *fakeMessageRepo) Save(_ context.Context, m *domain.Message) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	copied := *m
	r.messages[m.ID] = &copied
	return nil
}

func (r *fakeMessageRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Message, error) {
	m, ok := r.messages[id]
	if !ok {
		return nil, domain.ErrMessageNotFound
	}
	copied := *m
	if r.afterGet != nil {
		hook := r.afterGet
		r.afterGet = nil
		hook()
	}
	return &copied, nil
}

func (r *fakeMessageRepo) UpdateStatus(_ context.Context, m *domain.Message, from domain.MessageStatus) error {
	stored, ok := r.messages[m.ID]
	if !ok {
		return domain.ErrMessageNotFound
	}
	if stored.Status != from {
		return domain.ErrInvalidTransition
	}
	copied := *m
	r.messages[m.ID] = &copied
	return nil
}
