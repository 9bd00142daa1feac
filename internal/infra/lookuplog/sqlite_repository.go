package lookuplog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/yanqian/weather-explorer/internal/domain/weather"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS weather_lookups (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	endpoint      TEXT NOT NULL,
	city          TEXT NOT NULL,
	resolved_name TEXT NOT NULL,
	duration_ms   INTEGER NOT NULL DEFAULT 0,
	created_at    DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS weather_lookups_created_at_idx ON weather_lookups (created_at DESC);
`

// SQLiteRepository persists lookups in a local SQLite file.
type SQLiteRepository struct {
	db *sql.DB
}

// OpenSQLite opens the database at path and applies the schema. Creates the file if missing.
func OpenSQLite(ctx context.Context, path string) (*SQLiteRepository, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply sqlite schema: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

// Close releases the underlying database handle.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// Record inserts a lookup row.
func (r *SQLiteRepository) Record(ctx context.Context, lookup weather.Lookup) (weather.Lookup, error) {
	if lookup.CreatedAt.IsZero() {
		lookup.CreatedAt = time.Now().UTC()
	}
	lookup.CreatedAt = lookup.CreatedAt.UTC()
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO weather_lookups (endpoint, city, resolved_name, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, string(lookup.Endpoint), lookup.City, lookup.ResolvedName, lookup.DurationMs, lookup.CreatedAt)
	if err != nil {
		return weather.Lookup{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return weather.Lookup{}, err
	}
	lookup.ID = id
	return lookup, nil
}

// Recent lists the newest lookups.
func (r *SQLiteRepository) Recent(ctx context.Context, limit int) ([]weather.Lookup, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, endpoint, city, resolved_name, duration_ms, created_at
		FROM weather_lookups
		ORDER BY created_at DESC, id DESC
		LIMIT ?
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

var _ weather.LookupLog = (*SQLiteRepository)(nil)
