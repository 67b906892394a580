package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vncsmyrnk/swingmap/internal/core/domain"
)

// CacheRepository is a shared cache backed by the cache_entries table.
// Expired rows are ignored on read and removed by Purge.
type CacheRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewCacheRepository(db *sql.DB) *CacheRepository {
	return &CacheRepository{db: db, now: time.Now}
}

func (r *CacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	query := `SELECT value FROM cache_entries WHERE key = $1 AND expires_at > $2`

	var value []byte
	err := r.db.QueryRowContext(ctx, query, key, r.now()).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to read cache entry: %w", err)
	}
	return value, nil
}

func (r *CacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	query := `
		INSERT INTO cache_entries (key, value, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value,
		    expires_at = EXCLUDED.expires_at,
		    created_at = NOW()
	`
	_, err := r.db.ExecContext(ctx, query, key, value, r.now().Add(ttl))
	if err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}

func (r *CacheRepository) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	query := `DELETE FROM cache_entries WHERE key LIKE $1 ESCAPE '\'`
	res, err := r.db.ExecContext(ctx, query, escapeLike(prefix)+"%")
	if err != nil {
		return 0, fmt.Errorf("failed to delete cache entries: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return int(n), nil
}

// Purge removes expired entries and reports how many were deleted.
func (r *CacheRepository) Purge(ctx context.Context) (int, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cache_entries WHERE expires_at <= $1`, r.now())
	if err != nil {
		return 0, fmt.Errorf("failed to purge cache entries: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return int(n), nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
