package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vncsmyrnk/swingmap/internal/core/domain"
	"github.com/vncsmyrnk/swingmap/internal/core/ports"
)

type demographicRepository struct {
	db *sql.DB
}

func NewDemographicRepository(db *sql.DB) ports.DemographicRepository {
	return &demographicRepository{
		db: db,
	}
}

const demographicColumns = `
	d.county_fips, d.data_year, d.population, d.median_age, d.median_income, d.poverty_rate,
	d.white_pct, d.black_pct, d.hispanic_pct, d.asian_pct, d.native_pct,
	d.population_density, d.urbanization_rate, d.english_only_pct, d.spanish_at_home_pct,
	d.turnout_rate, d.updated_at
`

func (r *demographicRepository) ListCountyDemographics(ctx context.Context, year int, state string) ([]domain.CountyDemographicRow, error) {
	query := `
		SELECT c.fips_code, c.name, c.state_abbr, c.state_name, c.latitude, c.longitude, c.region,` + demographicColumns + `
		FROM counties c
		JOIN county_demographics d ON d.county_fips = c.fips_code
		WHERE d.data_year = $1 AND ($2::text = '' OR c.state_abbr = $2::text)
		ORDER BY c.fips_code
	`
	rows, err := r.db.QueryContext(ctx, query, year, state)
	if err != nil {
		return nil, fmt.Errorf("failed to query county demographics: %w", err)
	}
	defer rows.Close()

	var result []domain.CountyDemographicRow
	for rows.Next() {
		var (
			row      domain.CountyDemographicRow
			lat, lng sql.NullFloat64
			d        = &row.Demographic
		)
		if err := rows.Scan(
			&row.FIPS, &row.Name, &row.StateAbbr, &row.StateName, &lat, &lng, &row.Region,
			&d.CountyFIPS, &d.DataYear, &d.Population, &d.MedianAge, &d.MedianIncome, &d.PovertyRate,
			&d.WhitePct, &d.BlackPct, &d.HispanicPct, &d.AsianPct, &d.NativePct,
			&d.PopulationDensity, &d.UrbanizationRate, &d.EnglishOnlyPct, &d.SpanishAtHomePct,
			&d.TurnoutRate, &d.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan county demographic: %w", err)
		}
		row.Centroid = centroid(lat, lng)
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating county demographics: %w", err)
	}
	return result, nil
}

func (r *demographicRepository) UpsertDemographics(ctx context.Context, rows []domain.CountyDemographic) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO county_demographics (
			county_fips, data_year, population, median_age, median_income, poverty_rate,
			white_pct, black_pct, hispanic_pct, asian_pct, native_pct,
			population_density, urbanization_rate, english_only_pct, spanish_at_home_pct, turnout_rate
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (county_fips, data_year) DO UPDATE
		SET population = EXCLUDED.population,
		    median_age = EXCLUDED.median_age,
		    median_income = EXCLUDED.median_income,
		    poverty_rate = EXCLUDED.poverty_rate,
		    white_pct = EXCLUDED.white_pct,
		    black_pct = EXCLUDED.black_pct,
		    hispanic_pct = EXCLUDED.hispanic_pct,
		    asian_pct = EXCLUDED.asian_pct,
		    native_pct = EXCLUDED.native_pct,
		    population_density = EXCLUDED.population_density,
		    urbanization_rate = EXCLUDED.urbanization_rate,
		    english_only_pct = EXCLUDED.english_only_pct,
		    spanish_at_home_pct = EXCLUDED.spanish_at_home_pct,
		    turnout_rate = EXCLUDED.turnout_rate,
		    updated_at = NOW()
	`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare demographic statement: %w", err)
	}
	defer stmt.Close()

	for _, d := range rows {
		_, err := stmt.ExecContext(ctx,
			d.CountyFIPS, d.DataYear, d.Population, d.MedianAge, d.MedianIncome, d.PovertyRate,
			d.WhitePct, d.BlackPct, d.HispanicPct, d.AsianPct, d.NativePct,
			d.PopulationDensity, d.UrbanizationRate, d.EnglishOnlyPct, d.SpanishAtHomePct, d.TurnoutRate,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert demographics for county %s: %w", d.CountyFIPS, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
