package overlay

import "context"

type Collection string

const (
	Swaps             Collection = "swapped_workouts"
	Completions       Collection = "completed_workouts"
	Distances         Collection = "actual_distances"
	BlankWeekGoals    Collection = "blank_week_goals"
	BlankWeekWorkouts Collection = "blank_week_workouts"
)

//go:generate mockgen -source=$GOFILE -destination=gateway_mocks_test.go -package=overlay_test

// Gateway is the remote persistence of the overlays. Saves are upserts
// keyed by (user, key).
type Gateway interface {
	LoadSwaps(ctx context.Context, userID string) (map[string]string, error)
	LoadCompletions(ctx context.Context, userID string) (map[string]bool, error)
	LoadDistances(ctx context.Context, userID string) (map[string]float64, error)
	LoadBlankWeekGoals(ctx context.Context, userID string) (map[string]float64, error)
	LoadBlankWeekWorkouts(ctx context.Context, userID string) (map[string]string, error)

	SaveSwap(ctx context.Context, userID, key, workout string) error
	SaveCompletion(ctx context.Context, userID, key string, completed bool) error
	SaveDistance(ctx context.Context, userID, key string, miles float64) error
	SaveBlankWeekGoal(ctx context.Context, userID, key string, miles float64) error
	SaveBlankWeekWorkout(ctx context.Context, userID, key, workout string) error

	Delete(ctx context.Context, collection Collection, userID, key string) error
}
