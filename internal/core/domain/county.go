package domain

import "time"

type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type County struct {
	FIPS      string  `json:"fipsCode"`
	Name      string  `json:"countyName"`
	StateName string  `json:"stateName"`
	StateAbbr string  `json:"stateAbbr"`
	Centroid  *LatLng `json:"centroid,omitempty"`
	Region    string  `json:"region,omitempty"`
}

// ElectionResult holds raw vote counts for one county in one year.
// T is expected to be at least D+R; O carries the remainder.
type ElectionResult struct {
	D int64 `json:"D"`
	R int64 `json:"R"`
	O int64 `json:"O"`
	T int64 `json:"T"`
}

// Margin returns the Democratic share minus the Republican share.
// ok is false when the total is zero.
func (r ElectionResult) Margin() (margin float64, ok bool) {
	if r.T <= 0 {
		return 0, false
	}
	total := float64(r.T)
	return float64(r.D)/total - float64(r.R)/total, true
}

type CountyElectionResult struct {
	County
	Results map[int]ElectionResult `json:"results"`
}

type CountyDemographic struct {
	CountyFIPS        string    `json:"countyFips"`
	DataYear          int       `json:"dataYear"`
	Population        int64     `json:"population"`
	MedianAge         float64   `json:"medianAge"`
	MedianIncome      float64   `json:"medianIncome"`
	PovertyRate       float64   `json:"povertyRate"`
	WhitePct          float64   `json:"whitePct"`
	BlackPct          float64   `json:"blackPct"`
	HispanicPct       float64   `json:"hispanicPct"`
	AsianPct          float64   `json:"asianPct"`
	NativePct         float64   `json:"nativePct"`
	PopulationDensity float64   `json:"populationDensity"`
	UrbanizationRate  float64   `json:"urbanizationRate"`
	EnglishOnlyPct    float64   `json:"englishOnlyPct"`
	SpanishAtHomePct  float64   `json:"spanishAtHomePct"`
	TurnoutRate       float64   `json:"turnoutRate"`
	UpdatedAt         time.Time `json:"-"`
}

// CountyDemographicRow is a county joined with one of its demographic snapshots.
type CountyDemographicRow struct {
	County
	Demographic CountyDemographic `json:"demographic"`
}
