package domain

import "encoding/json"

type CountySwing struct {
	FIPS       string         `json:"fipsCode"`
	CountyName string         `json:"countyName"`
	StateAbbr  string         `json:"stateAbbr"`
	StateName  string         `json:"stateName"`
	FromResult ElectionResult `json:"fromYear"`
	ToResult   ElectionResult `json:"toYear"`
	Swing      float64        `json:"swing"`
	Centroid   *LatLng        `json:"-"`
}

type SwingSummary struct {
	TotalCounties   int     `json:"totalCounties"`
	DemocraticGains int     `json:"democraticGains"`
	RepublicanGains int     `json:"republicanGains"`
	AverageSwing    float64 `json:"averageSwing"`
}

// SwingReport is the payload served for a swing query.
type SwingReport struct {
	Counties []CountySwing   `json:"counties"`
	GeoJSON  json.RawMessage `json:"geoJson"`
	Summary  SwingSummary    `json:"summary"`
}

// CalculateSwing computes the margin change of a county between two years,
// in percentage points. Positive values are Democratic gains. ok is false
// when either year is missing or has a zero total; the county is then
// skipped rather than reported.
func CalculateSwing(record CountyElectionResult, fromYear, toYear int) (CountySwing, bool) {
	from, ok := record.Results[fromYear]
	if !ok {
		return CountySwing{}, false
	}
	to, ok := record.Results[toYear]
	if !ok {
		return CountySwing{}, false
	}

	marginFrom, ok := from.Margin()
	if !ok {
		return CountySwing{}, false
	}
	marginTo, ok := to.Margin()
	if !ok {
		return CountySwing{}, false
	}

	stateName := record.StateName
	if stateName == "" {
		stateName = StateName(record.StateAbbr)
	}

	return CountySwing{
		FIPS:       record.FIPS,
		CountyName: record.Name,
		StateAbbr:  record.StateAbbr,
		StateName:  stateName,
		FromResult: from,
		ToResult:   to,
		Swing:      (marginTo - marginFrom) * 100,
		Centroid:   record.Centroid,
	}, true
}

// Summarize rolls county swings up. A swing of exactly zero counts toward
// the average but toward neither gain column.
func Summarize(swings []CountySwing) SwingSummary {
	summary := SwingSummary{TotalCounties: len(swings)}
	if len(swings) == 0 {
		return summary
	}

	var total float64
	for _, s := range swings {
		total += s.Swing
		switch {
		case s.Swing > 0:
			summary.DemocraticGains++
		case s.Swing < 0:
			summary.RepublicanGains++
		}
	}
	summary.AverageSwing = total / float64(len(swings))
	return summary
}

// BuildSwingReport runs the calculator over every record and summarizes
// the counties that produced a swing.
func BuildSwingReport(records []CountyElectionResult, fromYear, toYear int) SwingReport {
	swings := make([]CountySwing, 0, len(records))
	for _, record := range records {
		if s, ok := CalculateSwing(record, fromYear, toYear); ok {
			swings = append(swings, s)
		}
	}

	return SwingReport{
		Counties: swings,
		GeoJSON:  swingFeatures(swings),
		Summary:  Summarize(swings),
	}
}

type featureCollection struct {
	Type     string    `json:"type"`
	Features []feature `json:"features"`
}

type feature struct {
	Type       string         `json:"type"`
	Geometry   pointGeometry  `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

type pointGeometry struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

// swingFeatures renders counties with a known centroid as GeoJSON points.
// County polygons are not stored, so this is the only geometry available.
func swingFeatures(swings []CountySwing) json.RawMessage {
	fc := featureCollection{Type: "FeatureCollection", Features: []feature{}}
	for _, s := range swings {
		if s.Centroid == nil {
			continue
		}
		fc.Features = append(fc.Features, feature{
			Type: "Feature",
			Geometry: pointGeometry{
				Type:        "Point",
				Coordinates: [2]float64{s.Centroid.Lng, s.Centroid.Lat},
			},
			Properties: map[string]any{
				"fipsCode": s.FIPS,
				"swing":    s.Swing,
			},
		})
	}

	raw, err := json.Marshal(fc)
	if err != nil {
		return json.RawMessage(`{"type":"FeatureCollection","features":[]}`)
	}
	return raw
}
