package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/swingmap/internal/core/domain"
	"github.com/vncsmyrnk/swingmap/internal/core/ports"
)

func sampleRecords() []domain.CountyElectionResult {
	return []domain.CountyElectionResult{
		{
			County: domain.County{FIPS: "42001", Name: "Adams", StateAbbr: "PA", StateName: "Pennsylvania"},
			Results: map[int]domain.ElectionResult{
				2020: {D: 40000, R: 60000, T: 100000},
				2024: {D: 55000, R: 45000, T: 100000},
			},
		},
		{
			County: domain.County{FIPS: "42003", Name: "Allegheny", StateAbbr: "PA", StateName: "Pennsylvania"},
			Results: map[int]domain.ElectionResult{
				2020: {D: 600, R: 400, T: 1000},
				2024: {D: 500, R: 500, T: 1000},
			},
		},
		{
			County: domain.County{FIPS: "39001", Name: "Adams", StateAbbr: "OH", StateName: "Ohio"},
			Results: map[int]domain.ElectionResult{
				2020: {D: 0, R: 0, T: 0},
				2024: {D: 10, R: 20, T: 30},
			},
		},
	}
}

func decodeReport(t *testing.T, payload []byte) domain.SwingReport {
	t.Helper()
	var report domain.SwingReport
	require.NoError(t, json.Unmarshal(payload, &report))
	return report
}

func TestSwingService_GetSwing(t *testing.T) {
	ctx := context.Background()

	t.Run("computes and caches on miss", func(t *testing.T) {
		repo := &fakeResultRepo{records: sampleRecords()}
		cache := newFakeCache()
		svc := NewSwingService(repo, cache, 0, nil)

		payload, err := svc.GetSwing(ctx, ports.SwingQuery{FromYear: 2020, ToYear: 2024})
		require.NoError(t, err)

		report := decodeReport(t, payload)
		require.Len(t, report.Counties, 2)
		assert.Equal(t, 2, report.Summary.TotalCounties)
		assert.Equal(t, 1, report.Summary.DemocraticGains)
		assert.Equal(t, 1, report.Summary.RepublicanGains)
		assert.InDelta(t, (30.0-20.0)/2, report.Summary.AverageSwing, 1e-9)

		assert.Equal(t, payload, cache.entries["swing:2020:2024:all"])
		assert.Equal(t, DefaultCacheTTL, cache.ttls["swing:2020:2024:all"])
	})

	t.Run("second call is served from cache byte for byte", func(t *testing.T) {
		repo := &fakeResultRepo{records: sampleRecords()}
		svc := NewSwingService(repo, newFakeCache(), 15*time.Minute, nil)

		first, err := svc.GetSwing(ctx, ports.SwingQuery{FromYear: 2020, ToYear: 2024, State: "pa"})
		require.NoError(t, err)

		// Changing the store must not affect a cached answer.
		repo.records = nil

		second, err := svc.GetSwing(ctx, ports.SwingQuery{FromYear: 2020, ToYear: 2024, State: "PA"})
		require.NoError(t, err)

		assert.Equal(t, 1, repo.calls)
		if diff := cmp.Diff(string(first), string(second)); diff != "" {
			t.Errorf("cached payload differs (-first +second):\n%s", diff)
		}
	})

	t.Run("state filter is passed to the loader", func(t *testing.T) {
		repo := &fakeResultRepo{records: sampleRecords()}
		cache := newFakeCache()
		svc := NewSwingService(repo, cache, 0, nil)

		payload, err := svc.GetSwing(ctx, ports.SwingQuery{FromYear: 2020, ToYear: 2024, State: "oh"})
		require.NoError(t, err)

		assert.Equal(t, []string{"OH"}, repo.states)
		report := decodeReport(t, payload)
		assert.Empty(t, report.Counties)
		assert.Equal(t, domain.SwingSummary{}, report.Summary)
		assert.Contains(t, cache.entries, "swing:2020:2024:OH")
	})

	t.Run("invalid years fail before any fetch", func(t *testing.T) {
		repo := &fakeResultRepo{records: sampleRecords()}
		cache := newFakeCache()
		svc := NewSwingService(repo, cache, 0, nil)

		for _, q := range []ports.SwingQuery{
			{FromYear: 1961, ToYear: 2024},
			{FromYear: 2020, ToYear: 2025},
		} {
			_, err := svc.GetSwing(ctx, q)
			assert.ErrorIs(t, err, domain.ErrInvalidYear)
		}
		assert.Zero(t, repo.calls)
		assert.Zero(t, cache.sets)
	})

	t.Run("invalid state fails before any fetch", func(t *testing.T) {
		repo := &fakeResultRepo{records: sampleRecords()}
		svc := NewSwingService(repo, newFakeCache(), 0, nil)

		_, err := svc.GetSwing(ctx, ports.SwingQuery{FromYear: 2020, ToYear: 2024, State: "ZZ"})
		assert.ErrorIs(t, err, domain.ErrInvalidState)
		assert.Zero(t, repo.calls)
	})

	t.Run("store failure propagates", func(t *testing.T) {
		storeErr := errors.New("connection refused")
		repo := &fakeResultRepo{err: storeErr}
		cache := newFakeCache()
		svc := NewSwingService(repo, cache, 0, nil)

		_, err := svc.GetSwing(ctx, ports.SwingQuery{FromYear: 2020, ToYear: 2024})
		assert.ErrorIs(t, err, storeErr)
		assert.NotErrorIs(t, err, domain.ErrValidation)
		assert.Zero(t, cache.sets)
	})

	t.Run("cache failures do not fail the request", func(t *testing.T) {
		repo := &fakeResultRepo{records: sampleRecords()}
		cache := newFakeCache()
		cache.getErr = errors.New("cache unreachable")
		cache.setErr = errors.New("cache unreachable")
		svc := NewSwingService(repo, cache, 0, nil)

		payload, err := svc.GetSwing(ctx, ports.SwingQuery{FromYear: 2020, ToYear: 2024})
		require.NoError(t, err)
		assert.Len(t, decodeReport(t, payload).Counties, 2)
		assert.Equal(t, 1, cache.sets)
	})

	t.Run("works without a cache", func(t *testing.T) {
		repo := &fakeResultRepo{records: sampleRecords()}
		svc := NewSwingService(repo, nil, 0, nil)

		_, err := svc.GetSwing(ctx, ports.SwingQuery{FromYear: 2020, ToYear: 2024})
		require.NoError(t, err)
		_, err = svc.GetSwing(ctx, ports.SwingQuery{FromYear: 2020, ToYear: 2024})
		require.NoError(t, err)
		assert.Equal(t, 2, repo.calls)
	})
}

func TestCacheKeys(t *testing.T) {
	assert.Equal(t, "swing:2016:2020:all", swingCacheKey(2016, 2020, ""))
	assert.Equal(t, "swing:2016:2020:TX", swingCacheKey(2016, 2020, "TX"))
	assert.Equal(t, "demographics:2022:all", demographicCacheKey(2022, ""))
	assert.NotEqual(t, swingCacheKey(2016, 2020, ""), swingCacheKey(2020, 2016, ""))
}
