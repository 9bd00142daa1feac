package lookuplog

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/weather-explorer/internal/domain/weather"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS weather_lookups (
	id            BIGSERIAL PRIMARY KEY,
	endpoint      TEXT NOT NULL,
	city          TEXT NOT NULL,
	resolved_name TEXT NOT NULL,
	duration_ms   BIGINT NOT NULL DEFAULT 0,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS weather_lookups_created_at_idx ON weather_lookups (created_at DESC);
`

// PostgresRepository persists lookups in Postgres.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// EnsureSchema creates the lookup table when missing.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, postgresSchema)
	return err
}

// Record inserts a lookup row.
func (r *PostgresRepository) Record(ctx context.Context, lookup weather.Lookup) (weather.Lookup, error) {
	created := lookup.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO weather_lookups (endpoint, city, resolved_name, duration_ms, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, endpoint, city, resolved_name, duration_ms, created_at
	`, string(lookup.Endpoint), lookup.City, lookup.ResolvedName, lookup.DurationMs, created)
	return scanLookup(row)
}

// Recent lists the newest lookups.
func (r *PostgresRepository) Recent(ctx context.Context, limit int) ([]weather.Lookup, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, endpoint, city, resolved_name, duration_ms, created_at
		FROM weather_lookups
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []weather.Lookup
	for rows.Next() {
		lookup, err := scanLookup(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, lookup)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLookup(row rowScanner) (weather.Lookup, error) {
	var (
		lookup   weather.Lookup
		endpoint string
		created  time.Time
	)
	if err := row.Scan(&lookup.ID, &endpoint, &lookup.City, &lookup.ResolvedName, &lookup.DurationMs, &created); err != nil {
		return weather.Lookup{}, err
	}
	lookup.Endpoint = weather.Endpoint(endpoint)
	lookup.CreatedAt = created.UTC()
	return lookup, nil
}

var _ weather.LookupLog = (*PostgresRepository)(nil)
