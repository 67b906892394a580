package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/vncsmyrnk/swingmap/internal/core/domain"
	"github.com/vncsmyrnk/swingmap/internal/core/ports"
)

type electionResultRepository struct {
	db *sql.DB
}

func NewElectionResultRepository(db *sql.DB) ports.ElectionResultRepository {
	return &electionResultRepository{
		db: db,
	}
}

// ListCountyResults loads counties and their result maps in a single query.
func (r *electionResultRepository) ListCountyResults(ctx context.Context, state string) ([]domain.CountyElectionResult, error) {
	query := `
		SELECT c.fips_code, c.name, c.state_abbr, c.state_name, c.latitude, c.longitude, c.region, r.results
		FROM counties c
		JOIN county_election_results r ON r.county_fips = c.fips_code
		WHERE ($1::text = '' OR c.state_abbr = $1::text)
		ORDER BY c.fips_code
	`
	rows, err := r.db.QueryContext(ctx, query, state)
	if err != nil {
		return nil, fmt.Errorf("failed to query county results: %w", err)
	}
	defer rows.Close()

	var records []domain.CountyElectionResult
	for rows.Next() {
		var (
			record   domain.CountyElectionResult
			lat, lng sql.NullFloat64
			raw      []byte
		)
		if err := rows.Scan(
			&record.FIPS, &record.Name, &record.StateAbbr, &record.StateName,
			&lat, &lng, &record.Region, &raw,
		); err != nil {
			return nil, fmt.Errorf("failed to scan county result: %w", err)
		}
		record.Centroid = centroid(lat, lng)

		results, err := decodeResults(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to decode results for county %s: %w", record.FIPS, err)
		}
		record.Results = results

		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating county results: %w", err)
	}
	return records, nil
}

func (r *electionResultRepository) UpsertCounties(ctx context.Context, counties []domain.County) error {
	if len(counties) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO counties (fips_code, name, state_abbr, state_name, latitude, longitude, region)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (fips_code) DO UPDATE
		SET name = EXCLUDED.name,
		    state_abbr = EXCLUDED.state_abbr,
		    state_name = EXCLUDED.state_name,
		    latitude = EXCLUDED.latitude,
		    longitude = EXCLUDED.longitude,
		    region = EXCLUDED.region,
		    updated_at = NOW()
	`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare county statement: %w", err)
	}
	defer stmt.Close()

	for _, c := range counties {
		var lat, lng sql.NullFloat64
		if c.Centroid != nil {
			lat = sql.NullFloat64{Float64: c.Centroid.Lat, Valid: true}
			lng = sql.NullFloat64{Float64: c.Centroid.Lng, Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, c.FIPS, c.Name, c.StateAbbr, c.StateName, lat, lng, c.Region); err != nil {
			return fmt.Errorf("failed to upsert county %s: %w", c.FIPS, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// UpsertResults merges one election year into each county's result map,
// leaving other years untouched.
func (r *electionResultRepository) UpsertResults(ctx context.Context, year int, results map[string]domain.ElectionResult) error {
	if len(results) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO county_election_results (county_fips, results)
		VALUES ($1, jsonb_build_object($2::text, $3::jsonb))
		ON CONFLICT (county_fips) DO UPDATE
		SET results = county_election_results.results || EXCLUDED.results,
		    updated_at = NOW()
	`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare result statement: %w", err)
	}
	defer stmt.Close()

	yearKey := strconv.Itoa(year)
	for fips, result := range results {
		payload, err := json.Marshal(result)
		if err != nil {
			return fmt.Errorf("failed to encode result for county %s: %w", fips, err)
		}
		if _, err := stmt.ExecContext(ctx, fips, yearKey, string(payload)); err != nil {
			return fmt.Errorf("failed to upsert result for county %s: %w", fips, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func decodeResults(raw []byte) (map[int]domain.ElectionResult, error) {
	results := make(map[int]domain.ElectionResult)
	if len(raw) == 0 {
		return results, nil
	}
	if err := json.Unmarshal(raw, &results); err != nil {
		return nil, err
	}
	return results, nil
}

func centroid(lat, lng sql.NullFloat64) *domain.LatLng {
	if !lat.Valid || !lng.Valid {
		return nil
	}
	return &domain.LatLng{Lat: lat.Float64, Lng: lng.Float64}
}
