package domain

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func county(fips string, results map[int]ElectionResult) CountyElectionResult {
	return CountyElectionResult{
		County: County{
			FIPS:      fips,
			Name:      "County " + fips,
			StateAbbr: "PA",
			StateName: "Pennsylvania",
		},
		Results: results,
	}
}

func TestCalculateSwing(t *testing.T) {
	t.Run("democratic gain example", func(t *testing.T) {
		record := county("42001", map[int]ElectionResult{
			2020: {D: 40000, R: 60000, O: 0, T: 100000},
			2024: {D: 55000, R: 45000, O: 0, T: 100000},
		})

		swing, ok := CalculateSwing(record, 2020, 2024)
		require.True(t, ok)
		assert.InDelta(t, 30.0, swing.Swing, 1e-9)
		assert.Equal(t, "42001", swing.FIPS)
		assert.Equal(t, int64(40000), swing.FromResult.D)
		assert.Equal(t, int64(55000), swing.ToResult.D)
	})

	t.Run("republican gain is negative", func(t *testing.T) {
		record := county("42003", map[int]ElectionResult{
			2016: {D: 500, R: 400, O: 100, T: 1000},
			2020: {D: 400, R: 550, O: 50, T: 1000},
		})

		swing, ok := CalculateSwing(record, 2016, 2020)
		require.True(t, ok)
		assert.InDelta(t, -25.0, swing.Swing, 1e-9)
	})

	t.Run("matches the margin formula for uneven totals", func(t *testing.T) {
		from := ElectionResult{D: 1234, R: 2345, O: 111, T: 3700}
		to := ElectionResult{D: 3456, R: 2100, O: 300, T: 5900}
		record := county("42005", map[int]ElectionResult{1992: from, 1996: to})

		swing, ok := CalculateSwing(record, 1992, 1996)
		require.True(t, ok)

		want := ((3456.0/5900 - 2100.0/5900) - (1234.0/3700 - 2345.0/3700)) * 100
		assert.InDelta(t, want, swing.Swing, 1e-9)
		assert.False(t, math.IsNaN(swing.Swing) || math.IsInf(swing.Swing, 0))
	})

	t.Run("missing year is skipped", func(t *testing.T) {
		record := county("42007", map[int]ElectionResult{
			2020: {D: 10, R: 10, T: 20},
		})

		_, ok := CalculateSwing(record, 2020, 2024)
		assert.False(t, ok)
		_, ok = CalculateSwing(record, 2016, 2020)
		assert.False(t, ok)
	})

	t.Run("zero total is skipped", func(t *testing.T) {
		record := county("42009", map[int]ElectionResult{
			2020: {},
			2024: {D: 10, R: 5, T: 15},
		})

		_, ok := CalculateSwing(record, 2020, 2024)
		assert.False(t, ok)
		_, ok = CalculateSwing(record, 2024, 2020)
		assert.False(t, ok)
	})

	t.Run("state name falls back to abbreviation lookup", func(t *testing.T) {
		record := county("06001", map[int]ElectionResult{
			2020: {D: 10, R: 5, T: 15},
			2024: {D: 9, R: 6, T: 15},
		})
		record.StateAbbr = "CA"
		record.StateName = ""

		swing, ok := CalculateSwing(record, 2020, 2024)
		require.True(t, ok)
		assert.Equal(t, "California", swing.StateName)
	})
}

func TestSummarize(t *testing.T) {
	t.Run("empty set averages to zero", func(t *testing.T) {
		summary := Summarize(nil)
		assert.Equal(t, SwingSummary{}, summary)
		assert.False(t, math.IsNaN(summary.AverageSwing))
	})

	t.Run("zero swing counts toward average only", func(t *testing.T) {
		summary := Summarize([]CountySwing{
			{Swing: 10},
			{Swing: -4},
			{Swing: 0},
		})

		assert.Equal(t, 3, summary.TotalCounties)
		assert.Equal(t, 1, summary.DemocraticGains)
		assert.Equal(t, 1, summary.RepublicanGains)
		assert.InDelta(t, 2.0, summary.AverageSwing, 1e-9)
		assert.LessOrEqual(t, summary.DemocraticGains+summary.RepublicanGains, summary.TotalCounties)
	})
}

func TestBuildSwingReport(t *testing.T) {
	records := []CountyElectionResult{
		county("42001", map[int]ElectionResult{
			2020: {D: 40000, R: 60000, T: 100000},
			2024: {D: 55000, R: 45000, T: 100000},
		}),
		county("42003", map[int]ElectionResult{
			2020: {D: 0, R: 0, T: 0},
			2024: {D: 10, R: 10, T: 20},
		}),
		county("42005", map[int]ElectionResult{
			2024: {D: 10, R: 10, T: 20},
		}),
	}
	records[0].Centroid = &LatLng{Lat: 39.87, Lng: -77.22}

	report := BuildSwingReport(records, 2020, 2024)

	require.Len(t, report.Counties, 1)
	assert.Equal(t, "42001", report.Counties[0].FIPS)
	assert.Equal(t, len(report.Counties), report.Summary.TotalCounties)
	assert.Equal(t, 1, report.Summary.DemocraticGains)
	assert.InDelta(t, 30.0, report.Summary.AverageSwing, 1e-9)

	var geo struct {
		Type string `json:"type"`
		Features []struct {
			Geometry struct {
				Coordinates []float64 `json:"coordinates"`
			} `json:"geometry"`
			Properties map[string]any `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(report.GeoJSON, &geo))
	assert.Equal(t, "FeatureCollection", geo.Type)
	require.Len(t, geo.Features, 1)
	assert.Equal(t, []float64{-77.22, 39.87}, geo.Features[0].Geometry.Coordinates)
	assert.Equal(t, "42001", geo.Features[0].Properties["fipsCode"])
}

func TestSwingReportJSONShape(t *testing.T) {
	report := BuildSwingReport([]CountyElectionResult{
		county("42001", map[int]ElectionResult{
			2020: {D: 40000, R: 60000, T: 100000},
			2024: {D: 55000, R: 45000, T: 100000},
		}),
	}, 2020, 2024)

	raw, err := json.Marshal(report)
	require.NoError(t, err)

	var payload map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &payload))
	assert.Contains(t, payload, "counties")
	assert.Contains(t, payload, "geoJson")
	assert.Contains(t, payload, "summary")

	var counties []map[string]any
	require.NoError(t, json.Unmarshal(payload["counties"], &counties))
	require.Len(t, counties, 1)
	for _, field := range []string{"fipsCode", "countyName", "stateAbbr", "stateName", "fromYear", "toYear", "swing"} {
		assert.Contains(t, counties[0], field)
	}
	assert.NotContains(t, counties[0], "Centroid")
}
