package database

import (
	"context"
	"fmt"
)

// tables lists what Migrate creates and HealthCheck expects.
var tables = []string{"courses", "plan_events"}

// schema is applied idempotently at startup.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS courses (
		code       TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		units      TEXT[] NOT NULL DEFAULT '{}',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS plan_events (
		id          UUID PRIMARY KEY,
		event_type  TEXT NOT NULL,
		course_code TEXT NOT NULL,
		data        JSONB NOT NULL DEFAULT '{}'::jsonb,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS plan_events_created_at_idx ON plan_events (created_at)`,
}

// Migrate creates the tables the service needs if they do not exist.
func (db *DB) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := db.Pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("applying schema: %w", err)
		}
	}
	return nil
}
