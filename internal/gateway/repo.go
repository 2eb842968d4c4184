package gateway

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/runcal/internal/overlay"
	"github.com/2beens/runcal/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var _ overlay.Gateway = (*Repo)(nil)

type collectionTable struct {
	table     string
	keyColumn string
}

var collectionTables = map[overlay.Collection]collectionTable{
	overlay.Swaps:             {table: "swapped_workouts", keyColumn: "swap_key"},
	overlay.Completions:       {table: "completed_workouts", keyColumn: "date_key"},
	overlay.Distances:         {table: "actual_distances", keyColumn: "date_key"},
	overlay.BlankWeekGoals:    {table: "blank_week_goals", keyColumn: "week_key"},
	overlay.BlankWeekWorkouts: {table: "blank_week_workouts", keyColumn: "week_key"},
}

// Repo persists overlays, schedules and profiles in PostgreSQL. All saves
// are upserts on (user, key), so repeating a save is harmless.
type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func loadKeyValues[V any](ctx context.Context, db *pgxpool.Pool, query, userID string) (map[string]V, error) {
	rows, err := db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := map[string]V{}
	for rows.Next() {
		var (
			key   string
			value V
		)
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		entries[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *Repo) LoadSwaps(ctx context.Context, userID string) (_ map[string]string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gateway.swaps.load")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return loadKeyValues[string](ctx, r.db, `
		SELECT swap_key, new_workout
		FROM swapped_workouts
		WHERE user_id = $1
	`, userID)
}

func (r *Repo) LoadCompletions(ctx context.Context, userID string) (_ map[string]bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gateway.completions.load")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return loadKeyValues[bool](ctx, r.db, `
		SELECT date_key, completed
		FROM completed_workouts
		WHERE user_id = $1
	`, userID)
}

func (r *Repo) LoadDistances(ctx context.Context, userID string) (_ map[string]float64, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gateway.distances.load")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return loadKeyValues[float64](ctx, r.db, `
		SELECT date_key, distance
		FROM actual_distances
		WHERE user_id = $1
	`, userID)
}

func (r *Repo) LoadBlankWeekGoals(ctx context.Context, userID string) (_ map[string]float64, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gateway.blankweekgoals.load")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return loadKeyValues[float64](ctx, r.db, `
		SELECT week_key, goal_miles
		FROM blank_week_goals
		WHERE user_id = $1
	`, userID)
}

func (r *Repo) LoadBlankWeekWorkouts(ctx context.Context, userID string) (_ map[string]string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gateway.blankweekworkouts.load")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return loadKeyValues[string](ctx, r.db, `
		SELECT week_key, workout_description
		FROM blank_week_workouts
		WHERE user_id = $1
	`, userID)
}

func (r *Repo) SaveSwap(ctx context.Context, userID, key, workout string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gateway.swaps.save")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("key", key))

	_, err = r.db.Exec(ctx, `
		INSERT INTO swapped_workouts (user_id, swap_key, new_workout, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (user_id, swap_key)
		DO UPDATE SET new_workout = EXCLUDED.new_workout, updated_at = now()
	`, userID, key, workout)
	return err
}

func (r *Repo) SaveCompletion(ctx context.Context, userID, key string, completed bool) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gateway.completions.save")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("key", key), attribute.Bool("completed", completed))

	_, err = r.db.Exec(ctx, `
		INSERT INTO completed_workouts (user_id, date_key, completed, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (user_id, date_key)
		DO UPDATE SET completed = EXCLUDED.completed, updated_at = now()
	`, userID, key, completed)
	return err
}

func (r *Repo) SaveDistance(ctx context.Context, userID, key string, miles float64) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gateway.distances.save")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("key", key), attribute.Float64("miles", miles))

	_, err = r.db.Exec(ctx, `
		INSERT INTO actual_distances (user_id, date_key, distance, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (user_id, date_key)
		DO UPDATE SET distance = EXCLUDED.distance, updated_at = now()
	`, userID, key, miles)
	return err
}

func (r *Repo) SaveBlankWeekGoal(ctx context.Context, userID, key string, miles float64) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gateway.blankweekgoals.save")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("key", key), attribute.Float64("miles", miles))

	_, err = r.db.Exec(ctx, `
		INSERT INTO blank_week_goals (user_id, week_key, goal_miles, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (user_id, week_key)
		DO UPDATE SET goal_miles = EXCLUDED.goal_miles, updated_at = now()
	`, userID, key, miles)
	return err
}

func (r *Repo) SaveBlankWeekWorkout(ctx context.Context, userID, key, workout string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gateway.blankweekworkouts.save")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("key", key))

	_, err = r.db.Exec(ctx, `
		INSERT INTO blank_week_workouts (user_id, week_key, workout_description, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (user_id, week_key)
		DO UPDATE SET workout_description = EXCLUDED.workout_description, updated_at = now()
	`, userID, key, workout)
	return err
}

func (r *Repo) Delete(ctx context.Context, collection overlay.Collection, userID, key string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gateway.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("collection", string(collection)), attribute.String("key", key))

	ct, ok := collectionTables[collection]
	if !ok {
		return fmt.Errorf("unknown collection: %s", collection)
	}

	_, err = r.db.Exec(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE user_id = $1 AND %s = $2`, ct.table, ct.keyColumn),
		userID, key,
	)
	return err
}

// LoadSchedule returns the stored schedule document of a user for a year.
func (r *Repo) LoadSchedule(ctx context.Context, userID string, year int) (_ []byte, _ bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gateway.schedules.load")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("year", year))

	var doc []byte
	err = r.db.QueryRow(ctx, `
		SELECT schedule_json
		FROM training_schedules
		WHERE coach_id = $1 AND year = $2
	`, userID, year).Scan(&doc)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return doc, true, nil
}

func (r *Repo) SaveSchedule(ctx context.Context, userID string, year int, doc []byte) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gateway.schedules.save")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("year", year))

	_, err = r.db.Exec(ctx, `
		INSERT INTO training_schedules (coach_id, year, schedule_json, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (coach_id, year)
		DO UPDATE SET schedule_json = EXCLUDED.schedule_json, updated_at = now()
	`, userID, year, doc)
	return err
}
