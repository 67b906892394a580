package domain

type DemographicSummary struct {
	TotalCounties       int     `json:"totalCounties"`
	TotalPopulation     int64   `json:"totalPopulation"`
	AverageMedianIncome float64 `json:"averageMedianIncome"`
	AveragePovertyRate  float64 `json:"averagePovertyRate"`
	AverageTurnoutRate  float64 `json:"averageTurnoutRate"`
}

type DemographicReport struct {
	Year     int                    `json:"year"`
	Counties []CountyDemographicRow `json:"counties"`
	Summary  DemographicSummary     `json:"summary"`
}

// SummarizeDemographics weights each county's rates by its population.
// Counties with no population do not contribute to the averages.
func SummarizeDemographics(rows []CountyDemographicRow) DemographicSummary {
	summary := DemographicSummary{TotalCounties: len(rows)}

	var income, poverty, turnout float64
	for _, row := range rows {
		pop := row.Demographic.Population
		if pop <= 0 {
			continue
		}
		summary.TotalPopulation += pop
		weight := float64(pop)
		income += row.Demographic.MedianIncome * weight
		poverty += row.Demographic.PovertyRate * weight
		turnout += row.Demographic.TurnoutRate * weight
	}

	if summary.TotalPopulation == 0 {
		return summary
	}
	total := float64(summary.TotalPopulation)
	summary.AverageMedianIncome = income / total
	summary.AveragePovertyRate = poverty / total
	summary.AverageTurnoutRate = turnout / total
	return summary
}
