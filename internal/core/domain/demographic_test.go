package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarizeDemographics(t *testing.T) {
	t.Run("population weighted", func(t *testing.T) {
		summary := SummarizeDemographics([]CountyDemographicRow{
			{Demographic: CountyDemographic{Population: 1000, MedianIncome: 50000, PovertyRate: 10, TurnoutRate: 60}},
			{Demographic: CountyDemographic{Population: 3000, MedianIncome: 70000, PovertyRate: 20, TurnoutRate: 40}},
		})

		assert.Equal(t, 2, summary.TotalCounties)
		assert.Equal(t, int64(4000), summary.TotalPopulation)
		assert.InDelta(t, 65000.0, summary.AverageMedianIncome, 1e-9)
		assert.InDelta(t, 17.5, summary.AveragePovertyRate, 1e-9)
		assert.InDelta(t, 45.0, summary.AverageTurnoutRate, 1e-9)
	})

	t.Run("no population leaves averages at zero", func(t *testing.T) {
		summary := SummarizeDemographics([]CountyDemographicRow{
			{Demographic: CountyDemographic{MedianIncome: 50000}},
		})

		assert.Equal(t, 1, summary.TotalCounties)
		assert.Zero(t, summary.TotalPopulation)
		assert.Zero(t, summary.AverageMedianIncome)
	})

	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, DemographicSummary{}, SummarizeDemographics(nil))
	})
}
