// Package postgres persists normalized events with upsert-if-absent
// semantics: the identity key is the table's uniqueness constraint and
// conflicts keep the existing row.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quakewatch/quake-data-etl/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS quake_events (
	identity_key   TEXT PRIMARY KEY,
	occurred_date  DATE NOT NULL,
	occurred_time  TIME,
	latitude       DOUBLE PRECISION NOT NULL,
	longitude      DOUBLE PRECISION NOT NULL,
	depth_km       DOUBLE PRECISION NOT NULL,
	magnitude      DOUBLE PRECISION,
	magnitude_type TEXT,
	place          TEXT NOT NULL,
	area           TEXT,
	event_type     TEXT,
	source_id      TEXT,
	variant        TEXT NOT NULL,
	ingested_at    TIMESTAMPTZ NOT NULL
);`

const upsertSQL = `
INSERT INTO quake_events (
	identity_key, occurred_date, occurred_time, latitude, longitude,
	depth_km, magnitude, magnitude_type, place, area, event_type,
	source_id, variant, ingested_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
ON CONFLICT (identity_key) DO NOTHING`

// Store implements pipeline.Store on a pgx connection pool.
type Store struct {
	pool *pgxpool.Pool
}

// Connect opens a pool against the given DSN.
func Connect(ctx context.Context, dsn string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("pgxpool: %w", err)
	}
	return &Store{pool: pool}, nil
}

// EnsureSchema creates the events table if it does not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// UpsertIfAbsent inserts one event keyed by its identity key. A conflict is
// not an error: the existing row wins and the candidate is reported as a
// duplicate.
func (s *Store) UpsertIfAbsent(ctx context.Context, key string, ev domain.QuakeEvent) (domain.UpsertOutcome, error) {
	ct, err := s.pool.Exec(ctx, upsertSQL,
		key,
		ev.Date,
		nullIfEmpty(ev.Time),
		ev.Lat,
		ev.Lon,
		ev.DepthKm,
		ev.Magnitude,
		nullIfEmpty(ev.MagnitudeType),
		ev.Place,
		nullIfEmpty(ev.Area),
		nullIfEmpty(ev.EventType),
		nullIfEmpty(ev.SourceID),
		ev.Variant,
		ev.IngestedAt,
	)
	if err != nil {
		return domain.OutcomeDuplicate, fmt.Errorf("upsert event %s: %w", key, err)
	}
	if ct.RowsAffected() == 0 {
		return domain.OutcomeDuplicate, nil
	}
	return domain.OutcomeInserted, nil
}

// Ready pings the pool for the readiness probe.
func (s *Store) Ready(ctx context.Context) error {
	var one int
	return s.pool.QueryRow(ctx, "select 1").Scan(&one)
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// nullIfEmpty maps the domain's empty-string optionals to SQL NULL.
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
