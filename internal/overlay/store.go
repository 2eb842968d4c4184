package overlay

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"github.com/2beens/runcal/internal/telemetry/metrics"
	"github.com/2beens/runcal/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/multierr"
)

// Store keeps the five overlays of one user in memory. Every mutation is
// applied in memory first and then written through to the gateway in the
// background; the in-memory value stays authoritative even if the save
// fails. All sessions showing the same user share one Store.
type Store struct {
	userID         string
	gateway        Gateway
	metricsManager *metrics.Manager

	mutex   sync.RWMutex
	pending sync.WaitGroup

	// saves run one at a time in the order they were issued
	persistMutex sync.Mutex
	lastPersist  chan struct{}

	swaps             *Overlay[string]
	completions       *Overlay[bool]
	distances         *Overlay[float64]
	blankWeekGoals    *Overlay[float64]
	blankWeekWorkouts *Overlay[string]
}

// Snapshot is a deep copy of all overlays.
type Snapshot struct {
	Swaps             map[string]string  `json:"swaps"`
	Completions       map[string]bool    `json:"completions"`
	Distances         map[string]float64 `json:"distances"`
	BlankWeekGoals    map[string]float64 `json:"blankWeekGoals"`
	BlankWeekWorkouts map[string]string  `json:"blankWeekWorkouts"`
}

func newStore(userID string, gateway Gateway, metricsManager *metrics.Manager) *Store {
	s := &Store{
		userID:         userID,
		gateway:        gateway,
		metricsManager: metricsManager,
	}

	s.swaps = &Overlay[string]{
		store:      s,
		collection: Swaps,
		entries:    map[string]string{},
		save:       gateway.SaveSwap,
	}
	s.completions = &Overlay[bool]{
		store:      s,
		collection: Completions,
		entries:    map[string]bool{},
		save:       gateway.SaveCompletion,
		// not completed is the default, only true is kept
		keep: func(completed bool) bool { return completed },
		unset: func(ctx context.Context, userID, key string) error {
			return gateway.SaveCompletion(ctx, userID, key, false)
		},
	}
	s.distances = &Overlay[float64]{
		store:      s,
		collection: Distances,
		entries:    map[string]float64{},
		save:       gateway.SaveDistance,
	}
	s.blankWeekGoals = &Overlay[float64]{
		store:      s,
		collection: BlankWeekGoals,
		entries:    map[string]float64{},
		save:       gateway.SaveBlankWeekGoal,
	}
	s.blankWeekWorkouts = &Overlay[string]{
		store:      s,
		collection: BlankWeekWorkouts,
		entries:    map[string]string{},
		save:       gateway.SaveBlankWeekWorkout,
	}

	return s
}

// Load creates the store of a user and fills it from the gateway. A
// collection that fails to load starts out empty.
func Load(ctx context.Context, gateway Gateway, userID string, metricsManager *metrics.Manager) *Store {
	s := newStore(userID, gateway, metricsManager)
	_ = s.load(ctx)

	log.Debugf("overlay store loaded for user %s: %d swaps, %d completions, %d distances",
		userID, s.swaps.Len(), s.completions.Len(), s.distances.Len())

	return s
}

// Reload waits for the pending saves and then replaces every overlay with
// what the gateway holds. A collection that fails to load keeps its
// current entries.
func (s *Store) Reload(ctx context.Context) error {
	s.Wait()
	return s.load(ctx)
}

func (s *Store) load(ctx context.Context) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "overlay.store.load")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user", s.userID))

	if swaps, loadErr := s.gateway.LoadSwaps(ctx, s.userID); loadErr != nil {
		err = multierr.Append(err, s.loadFailed(Swaps, loadErr))
	} else {
		s.swaps.fill(swaps)
	}
	if completions, loadErr := s.gateway.LoadCompletions(ctx, s.userID); loadErr != nil {
		err = multierr.Append(err, s.loadFailed(Completions, loadErr))
	} else {
		s.completions.fill(completions)
	}
	if distances, loadErr := s.gateway.LoadDistances(ctx, s.userID); loadErr != nil {
		err = multierr.Append(err, s.loadFailed(Distances, loadErr))
	} else {
		s.distances.fill(distances)
	}
	if goals, loadErr := s.gateway.LoadBlankWeekGoals(ctx, s.userID); loadErr != nil {
		err = multierr.Append(err, s.loadFailed(BlankWeekGoals, loadErr))
	} else {
		s.blankWeekGoals.fill(goals)
	}
	if workouts, loadErr := s.gateway.LoadBlankWeekWorkouts(ctx, s.userID); loadErr != nil {
		err = multierr.Append(err, s.loadFailed(BlankWeekWorkouts, loadErr))
	} else {
		s.blankWeekWorkouts.fill(workouts)
	}

	return err
}

func (s *Store) loadFailed(collection Collection, err error) error {
	log.Errorf("overlay store, load %s for user %s: %s", collection, s.userID, err)
	if s.metricsManager != nil {
		s.metricsManager.CounterPersistenceFailures.WithLabelValues(string(collection), "load").Inc()
	}
	return fmt.Errorf("load %s: %w", collection, err)
}

func (s *Store) UserID() string {
	return s.userID
}

func (s *Store) Swaps() *Overlay[string] {
	return s.swaps
}

func (s *Store) Completions() *Overlay[bool] {
	return s.completions
}

func (s *Store) Distances() *Overlay[float64] {
	return s.distances
}

func (s *Store) BlankWeekGoals() *Overlay[float64] {
	return s.blankWeekGoals
}

func (s *Store) BlankWeekWorkouts() *Overlay[string] {
	return s.blankWeekWorkouts
}

func (s *Store) Swap(slotKey string) (string, bool) {
	return s.swaps.Get(slotKey)
}

func (s *Store) Completed(dateKey string) bool {
	completed, _ := s.completions.Get(dateKey)
	return completed
}

func (s *Store) Distance(dateKey string) (float64, bool) {
	return s.distances.Get(dateKey)
}

func (s *Store) BlankWeekGoal(weekKey string) (float64, bool) {
	return s.blankWeekGoals.Get(weekKey)
}

func (s *Store) BlankWeekWorkout(dateKey string) (string, bool) {
	return s.blankWeekWorkouts.Get(dateKey)
}

// Wait blocks until all background saves issued so far are done.
func (s *Store) Wait() {
	s.pending.Wait()
}

func (s *Store) Snapshot() Snapshot {
	return Snapshot{
		Swaps:             s.swaps.Entries(),
		Completions:       s.completions.Entries(),
		Distances:         s.distances.Entries(),
		BlankWeekGoals:    s.blankWeekGoals.Entries(),
		BlankWeekWorkouts: s.blankWeekWorkouts.Entries(),
	}
}

// persist runs fn in the background, after every save issued before it.
// Failures are logged and counted, never retried and never reported back
// to the caller.
func (s *Store) persist(ctx context.Context, collection Collection, op, key string, fn func(ctx context.Context) error) {
	// detached from the request, keeps the trace
	ctx = context.WithoutCancel(ctx)

	s.persistMutex.Lock()
	previous := s.lastPersist
	done := make(chan struct{})
	s.lastPersist = done
	s.persistMutex.Unlock()

	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		defer close(done)
		if previous != nil {
			<-previous
		}

		ctx, span := tracing.GlobalTracer.Start(ctx, "overlay.store.persist")
		span.SetAttributes(
			attribute.String("collection", string(collection)),
			attribute.String("op", op),
		)

		err := fn(ctx)
		tracing.EndSpanWithErrCheck(span, err)
		if err != nil {
			log.Errorf("overlay store, %s %s [%s] for user %s: %s", op, collection, key, s.userID, err)
			if s.metricsManager != nil {
				s.metricsManager.CounterPersistenceFailures.WithLabelValues(string(collection), op).Inc()
			}
		}
	}()
}

// Overlay is a string keyed layer of state on top of the schedule. A missing
// key means the schedule default applies.
type Overlay[V any] struct {
	store      *Store
	collection Collection
	entries    map[string]V

	save  func(ctx context.Context, userID, key string, value V) error
	unset func(ctx context.Context, userID, key string) error
	keep  func(value V) bool
}

// fill replaces all entries.
func (o *Overlay[V]) fill(entries map[string]V) {
	filled := make(map[string]V, len(entries))
	for key, value := range entries {
		if o.keep != nil && !o.keep(value) {
			continue
		}
		filled[key] = value
	}

	o.store.mutex.Lock()
	defer o.store.mutex.Unlock()
	o.entries = filled
}

func (o *Overlay[V]) Get(key string) (V, bool) {
	o.store.mutex.RLock()
	defer o.store.mutex.RUnlock()
	value, ok := o.entries[key]
	return value, ok
}

// Set stores the value and writes it through to the gateway.
func (o *Overlay[V]) Set(ctx context.Context, key string, value V) {
	o.store.mutex.Lock()
	if o.keep != nil && !o.keep(value) {
		delete(o.entries, key)
	} else {
		o.entries[key] = value
	}
	o.store.mutex.Unlock()

	userID := o.store.userID
	o.store.persist(ctx, o.collection, "save", key, func(ctx context.Context) error {
		return o.save(ctx, userID, key, value)
	})
}

// Unset reverts the key to the schedule default.
func (o *Overlay[V]) Unset(ctx context.Context, key string) {
	o.store.mutex.Lock()
	delete(o.entries, key)
	o.store.mutex.Unlock()

	userID := o.store.userID
	collection := o.collection
	gateway := o.store.gateway
	o.store.persist(ctx, collection, "unset", key, func(ctx context.Context) error {
		if o.unset != nil {
			return o.unset(ctx, userID, key)
		}
		return gateway.Delete(ctx, collection, userID, key)
	})
}

func (o *Overlay[V]) Len() int {
	o.store.mutex.RLock()
	defer o.store.mutex.RUnlock()
	return len(o.entries)
}

// Entries returns a copy of all entries.
func (o *Overlay[V]) Entries() map[string]V {
	o.store.mutex.RLock()
	defer o.store.mutex.RUnlock()
	return maps.Clone(o.entries)
}
