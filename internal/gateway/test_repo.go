package gateway

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/2beens/runcal/internal/overlay"
	"github.com/2beens/runcal/internal/profiles"
)

var _ overlay.Gateway = (*TestRepo)(nil)

// TestRepo is an in-memory stand-in for Repo, used in tests and local runs
// without a database.
type TestRepo struct {
	mutex sync.Mutex
	err   error

	swaps             map[string]map[string]string
	completions       map[string]map[string]bool
	distances         map[string]map[string]float64
	blankWeekGoals    map[string]map[string]float64
	blankWeekWorkouts map[string]map[string]string
	schedules         map[string][]byte
	profiles          map[string]profiles.Profile
}

func NewTestRepo() *TestRepo {
	return &TestRepo{
		swaps:             map[string]map[string]string{},
		completions:       map[string]map[string]bool{},
		distances:         map[string]map[string]float64{},
		blankWeekGoals:    map[string]map[string]float64{},
		blankWeekWorkouts: map[string]map[string]string{},
		schedules:         map[string][]byte{},
		profiles:          map[string]profiles.Profile{},
	}
}

// FailWith makes every following call return err, nil resets it.
func (r *TestRepo) FailWith(err error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.err = err
}

func loadFrom[V any](r *TestRepo, collection map[string]map[string]V, userID string) (map[string]V, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	entries := maps.Clone(collection[userID])
	if entries == nil {
		entries = map[string]V{}
	}
	return entries, nil
}

func saveTo[V any](r *TestRepo, collection map[string]map[string]V, userID, key string, value V) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if r.err != nil {
		return r.err
	}
	if collection[userID] == nil {
		collection[userID] = map[string]V{}
	}
	collection[userID][key] = value
	return nil
}

func (r *TestRepo) LoadSwaps(_ context.Context, userID string) (map[string]string, error) {
	return loadFrom(r, r.swaps, userID)
}

func (r *TestRepo) LoadCompletions(_ context.Context, userID string) (map[string]bool, error) {
	return loadFrom(r, r.completions, userID)
}

func (r *TestRepo) LoadDistances(_ context.Context, userID string) (map[string]float64, error) {
	return loadFrom(r, r.distances, userID)
}

func (r *TestRepo) LoadBlankWeekGoals(_ context.Context, userID string) (map[string]float64, error) {
	return loadFrom(r, r.blankWeekGoals, userID)
}

func (r *TestRepo) LoadBlankWeekWorkouts(_ context.Context, userID string) (map[string]string, error) {
	return loadFrom(r, r.blankWeekWorkouts, userID)
}

func (r *TestRepo) SaveSwap(_ context.Context, userID, key, workout string) error {
	return saveTo(r, r.swaps, userID, key, workout)
}

func (r *TestRepo) SaveCompletion(_ context.Context, userID, key string, completed bool) error {
	return saveTo(r, r.completions, userID, key, completed)
}

func (r *TestRepo) SaveDistance(_ context.Context, userID, key string, miles float64) error {
	return saveTo(r, r.distances, userID, key, miles)
}

func (r *TestRepo) SaveBlankWeekGoal(_ context.Context, userID, key string, miles float64) error {
	return saveTo(r, r.blankWeekGoals, userID, key, miles)
}

func (r *TestRepo) SaveBlankWeekWorkout(_ context.Context, userID, key, workout string) error {
	return saveTo(r, r.blankWeekWorkouts, userID, key, workout)
}

func (r *TestRepo) Delete(_ context.Context, collection overlay.Collection, userID, key string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if r.err != nil {
		return r.err
	}

	switch collection {
	case overlay.Swaps:
		delete(r.swaps[userID], key)
	case overlay.Completions:
		delete(r.completions[userID], key)
	case overlay.Distances:
		delete(r.distances[userID], key)
	case overlay.BlankWeekGoals:
		delete(r.blankWeekGoals[userID], key)
	case overlay.BlankWeekWorkouts:
		delete(r.blankWeekWorkouts[userID], key)
	default:
		return fmt.Errorf("unknown collection: %s", collection)
	}
	return nil
}

func scheduleKey(userID string, year int) string {
	return fmt.Sprintf("%s::%d", userID, year)
}

func (r *TestRepo) LoadSchedule(_ context.Context, userID string, year int) ([]byte, bool, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if r.err != nil {
		return nil, false, r.err
	}
	doc, ok := r.schedules[scheduleKey(userID, year)]
	return slices.Clone(doc), ok, nil
}

func (r *TestRepo) SaveSchedule(_ context.Context, userID string, year int, doc []byte) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if r.err != nil {
		return r.err
	}
	r.schedules[scheduleKey(userID, year)] = slices.Clone(doc)
	return nil
}

func (r *TestRepo) GetProfile(_ context.Context, id string) (*profiles.Profile, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	p, ok := r.profiles[id]
	if !ok {
		return nil, profiles.ErrProfileNotFound
	}
	return &p, nil
}

func (r *TestRepo) GetProfileByEmail(_ context.Context, email string) (*profiles.Profile, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, p := range r.profiles {
		if p.Email == email {
			return &p, nil
		}
	}
	return nil, profiles.ErrProfileNotFound
}

func (r *TestRepo) AddProfile(_ context.Context, profile profiles.Profile) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if r.err != nil {
		return r.err
	}
	for _, p := range r.profiles {
		if p.ID == profile.ID || p.Email == profile.Email {
			return profiles.ErrProfileExists
		}
	}
	r.profiles[profile.ID] = profile
	return nil
}

func (r *TestRepo) UpdateRole(_ context.Context, id string, role profiles.Role) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if r.err != nil {
		return r.err
	}
	p, ok := r.profiles[id]
	if !ok {
		return profiles.ErrProfileNotFound
	}
	p.Role = role
	r.profiles[id] = p
	return nil
}

func (r *TestRepo) ListProfilesByRole(_ context.Context, role profiles.Role) ([]profiles.Profile, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	var result []profiles.Profile
	for _, p := range r.profiles {
		if p.Role == role {
			p.PasswordHash = ""
			result = append(result, p)
		}
	}
	slices.SortFunc(result, func(a, b profiles.Profile) int {
		return strings.Compare(a.Email, b.Email)
	})
	return result, nil
}
