package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/vncsmyrnk/swingmap/internal/core/domain"
	"github.com/vncsmyrnk/swingmap/internal/core/ports"
	"go.uber.org/zap"
)

type importService struct {
	results      ports.ElectionResultRepository
	demographics ports.DemographicRepository
	logger       *zap.Logger
}

func NewImportService(results ports.ElectionResultRepository, demographics ports.DemographicRepository, logger *zap.Logger) ports.ImportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &importService{
		results:      results,
		demographics: demographics,
		logger:       logger.Named("import"),
	}
}

// csvTable gives header-name access to the rows of a CSV file.
type csvTable struct {
	reader  *csv.Reader
	columns map[string]int
	line    int
}

func newCSVTable(r io.Reader, required ...string) (*csvTable, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range required {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("%w: csv is missing column %q", domain.ErrValidation, name)
		}
	}

	return &csvTable{reader: reader, columns: columns, line: 1}, nil
}

type csvRow struct {
	table  *csvTable
	record []string
}

// next returns io.EOF after the last row.
func (t *csvTable) next() (csvRow, error) {
	record, err := t.reader.Read()
	if err != nil {
		return csvRow{}, err
	}
	t.line++
	return csvRow{table: t, record: record}, nil
}

func (r csvRow) str(name string) string {
	i, ok := r.table.columns[name]
	if !ok || i >= len(r.record) {
		return ""
	}
	return strings.TrimSpace(r.record[i])
}

// integer parses a non-negative count. Whole-number floats are accepted
// since some exports write counts that way.
func (r csvRow) integer(name string) (int64, error) {
	v := r.str(name)
	if v == "" || strings.EqualFold(v, "NA") {
		return 0, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(v, 64)
		if ferr != nil {
			return 0, r.invalid(name, v)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || f >= math.MaxInt64 || f < 0 {
			return 0, r.invalid(name, v)
		}
		n = int64(f)
	}
	if n < 0 {
		return 0, r.invalid(name, v)
	}
	return n, nil
}

func (r csvRow) decimal(name string) (float64, error) {
	v := r.str(name)
	if v == "" || strings.EqualFold(v, "NA") {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, r.invalid(name, v)
	}
	return f, nil
}

func (r csvRow) invalid(name, value string) error {
	return fmt.Errorf("%w: line %d: column %s: bad value %q", domain.ErrValidation, r.table.line, name, value)
}

// NormalizeFIPS left-pads numeric county codes to five digits.
func NormalizeFIPS(fips string) (string, bool) {
	fips = strings.TrimSpace(fips)
	if i := strings.IndexByte(fips, '.'); i >= 0 {
		fips = fips[:i]
	}
	if fips == "" || len(fips) > 5 {
		return "", false
	}
	for _, c := range fips {
		if c < '0' || c > '9' {
			return "", false
		}
	}
	return strings.Repeat("0", 5-len(fips)) + fips, true
}

func (s *importService) ImportCounties(ctx context.Context, r io.Reader) (ports.ImportReport, error) {
	table, err := newCSVTable(r, "fips", "name", "state_abbr")
	if err != nil {
		return ports.ImportReport{}, err
	}

	var report ports.ImportReport
	var counties []domain.County
	for {
		row, err := table.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return report, fmt.Errorf("failed to read counties csv: %w", err)
		}
		report.Rows++

		fips, ok := NormalizeFIPS(row.str("fips"))
		if !ok {
			report.Skipped++
			continue
		}
		state, err := domain.NormalizeState(row.str("state_abbr"))
		if err != nil || state == "" {
			report.Skipped++
			continue
		}

		county := domain.County{
			FIPS:      fips,
			Name:      row.str("name"),
			StateAbbr: state,
			StateName: row.str("state_name"),
			Region:    row.str("region"),
		}
		if county.StateName == "" {
			county.StateName = domain.StateName(state)
		}
		if row.str("lat") != "" && row.str("lng") != "" {
			lat, err := row.decimal("lat")
			if err != nil {
				return report, err
			}
			lng, err := row.decimal("lng")
			if err != nil {
				return report, err
			}
			county.Centroid = &domain.LatLng{Lat: lat, Lng: lng}
		}
		counties = append(counties, county)
	}

	if err := s.results.UpsertCounties(ctx, counties); err != nil {
		return report, err
	}
	report.Imported = len(counties)
	s.logger.Info("counties imported", zap.Int("rows", report.Rows), zap.Int("imported", report.Imported), zap.Int("skipped", report.Skipped))
	return report, nil
}

// ImportResults reads county presidential returns with one row per
// candidate (and optionally per voting mode), as published by the MIT
// Election Data and Science Lab.
func (s *importService) ImportResults(ctx context.Context, r io.Reader) (ports.ImportReport, error) {
	table, err := newCSVTable(r, "year", "state_po", "county_fips", "party", "candidatevotes", "totalvotes")
	if err != nil {
		return ports.ImportReport{}, err
	}

	var report ports.ImportReport
	byYear := make(map[int]map[string]domain.ElectionResult)
	for {
		row, err := table.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return report, fmt.Errorf("failed to read results csv: %w", err)
		}
		report.Rows++

		year, err := row.integer("year")
		if err != nil {
			return report, err
		}
		if !domain.HasStateData(row.str("state_po"), int(year)) {
			report.Skipped++
			continue
		}
		fips, ok := NormalizeFIPS(row.str("county_fips"))
		if !ok {
			report.Skipped++
			continue
		}
		if office := row.str("office"); office != "" && !strings.EqualFold(office, "US PRESIDENT") {
			report.Skipped++
			continue
		}

		votes, err := row.integer("candidatevotes")
		if err != nil {
			return report, err
		}
		total, err := row.integer("totalvotes")
		if err != nil {
			return report, err
		}

		results, ok := byYear[int(year)]
		if !ok {
			results = make(map[string]domain.ElectionResult)
			byYear[int(year)] = results
		}
		result := results[fips]
		switch strings.ToUpper(row.str("party")) {
		case "DEMOCRAT", "DEMOCRATIC", "DEM":
			result.D += votes
		case "REPUBLICAN", "REP":
			result.R += votes
		default:
			result.O += votes
		}
		// totalvotes repeats the county total on every row.
		if total > result.T {
			result.T = total
		}
		results[fips] = result
	}

	for year, results := range byYear {
		for fips, result := range results {
			if result.T < result.D+result.R {
				s.logger.Warn("total below two-party votes, raising total",
					zap.Int("year", year), zap.String("fips", fips))
				result.T = result.D + result.R + result.O
				results[fips] = result
			}
		}
		if err := s.results.UpsertResults(ctx, year, results); err != nil {
			return report, err
		}
		report.Imported += len(results)
	}

	s.logger.Info("results imported", zap.Int("rows", report.Rows), zap.Int("imported", report.Imported), zap.Int("skipped", report.Skipped))
	return report, nil
}

func (s *importService) ImportDemographics(ctx context.Context, r io.Reader) (ports.ImportReport, error) {
	table, err := newCSVTable(r, "county_fips", "data_year", "population")
	if err != nil {
		return ports.ImportReport{}, err
	}

	var report ports.ImportReport
	var rows []domain.CountyDemographic
	for {
		row, err := table.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return report, fmt.Errorf("failed to read demographics csv: %w", err)
		}
		report.Rows++

		fips, ok := NormalizeFIPS(row.str("county_fips"))
		if !ok {
			report.Skipped++
			continue
		}
		demographic, err := parseDemographic(row)
		if err != nil {
			return report, err
		}
		// Rows outside this range carry no usable data_year; an empty or NA year
		// parses as zero.
		if demographic.DataYear < minDemographicYear || demographic.DataYear > maxDemographicYear {
			report.Skipped++
			continue
		}
		demographic.CountyFIPS = fips
		rows = append(rows, demographic)
	}

	if err := s.demographics.UpsertDemographics(ctx, rows); err != nil {
		return report, err
	}
	report.Imported = len(rows)
	s.logger.Info("demographics imported", zap.Int("rows", report.Rows), zap.Int("imported", report.Imported), zap.Int("skipped", report.Skipped))
	return report, nil
}

func parseDemographic(row csvRow) (domain.CountyDemographic, error) {
	var d domain.CountyDemographic

	year, err := row.integer("data_year")
	if err != nil {
		return d, err
	}
	d.DataYear = int(year)
	if d.Population, err = row.integer("population"); err != nil {
		return d, err
	}

	floats := []struct {
		column string
		dst    *float64
	}{
		{"median_age", &d.MedianAge},
		{"median_income", &d.MedianIncome},
		{"poverty_rate", &d.PovertyRate},
		{"white_pct", &d.WhitePct},
		{"black_pct", &d.BlackPct},
		{"hispanic_pct", &d.HispanicPct},
		{"asian_pct", &d.AsianPct},
		{"native_pct", &d.NativePct},
		{"population_density", &d.PopulationDensity},
		{"urbanization_rate", &d.UrbanizationRate},
		{"english_only_pct", &d.EnglishOnlyPct},
		{"spanish_at_home_pct", &d.SpanishAtHomePct},
		{"turnout_rate", &d.TurnoutRate},
	}
	for _, f := range floats {
		if *f.dst, err = row.decimal(f.column); err != nil {
			return d, err
		}
	}
	return d, nil
}
