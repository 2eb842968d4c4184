package gateway

import (
	"context"
	"fmt"

	"github.com/2beens/runcal/internal/telemetry/tracing"
)

const Schema = `
CREATE TABLE IF NOT EXISTS user_profiles (
    id            TEXT PRIMARY KEY,
    email         TEXT NOT NULL UNIQUE,
    role          TEXT NOT NULL DEFAULT 'runner',
    password_hash TEXT NOT NULL DEFAULT '',
    created_at    TIMESTAMP NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS completed_workouts (
    user_id    TEXT NOT NULL,
    date_key   TEXT NOT NULL,
    completed  BOOLEAN NOT NULL,
    updated_at TIMESTAMP NOT NULL DEFAULT now(),
    PRIMARY KEY (user_id, date_key)
);

CREATE TABLE IF NOT EXISTS actual_distances (
    user_id    TEXT NOT NULL,
    date_key   TEXT NOT NULL,
    distance   DOUBLE PRECISION NOT NULL,
    updated_at TIMESTAMP NOT NULL DEFAULT now(),
    PRIMARY KEY (user_id, date_key)
);

CREATE TABLE IF NOT EXISTS blank_week_goals (
    user_id    TEXT NOT NULL,
    week_key   TEXT NOT NULL,
    goal_miles DOUBLE PRECISION NOT NULL,
    updated_at TIMESTAMP NOT NULL DEFAULT now(),
    PRIMARY KEY (user_id, week_key)
);

-- keyed by date key, the column name is historical
CREATE TABLE IF NOT EXISTS blank_week_workouts (
    user_id             TEXT NOT NULL,
    week_key            TEXT NOT NULL,
    workout_description TEXT NOT NULL,
    updated_at          TIMESTAMP NOT NULL DEFAULT now(),
    PRIMARY KEY (user_id, week_key)
);

CREATE TABLE IF NOT EXISTS swapped_workouts (
    user_id     TEXT NOT NULL,
    swap_key    TEXT NOT NULL,
    new_workout TEXT NOT NULL,
    updated_at  TIMESTAMP NOT NULL DEFAULT now(),
    PRIMARY KEY (user_id, swap_key)
);

CREATE TABLE IF NOT EXISTS training_schedules (
    coach_id      TEXT NOT NULL,
    year          INTEGER NOT NULL,
    schedule_json JSONB NOT NULL,
    updated_at    TIMESTAMP NOT NULL DEFAULT now(),
    PRIMARY KEY (coach_id, year)
);
`

// Migrate creates the tables if they don't exist yet.
func (r *Repo) Migrate(ctx context.Context) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gateway.migrate")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if _, err := r.db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
