package calendar

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/2beens/runcal/internal/overlay"
	"github.com/2beens/runcal/internal/schedule"
	"github.com/2beens/runcal/internal/telemetry/metrics"
	"github.com/2beens/runcal/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

// scheduleSource resolves the schedule a subject trains on.
type scheduleSource interface {
	ForUser(ctx context.Context, userID string, year int) (schedule.Index, error)
}

type sessionKey struct {
	viewerID  string
	subjectID string
}

// subjectStore is the overlay store of one subject, shared by every session
// showing that subject.
type subjectStore struct {
	store    *overlay.Store
	sessions int
}

// Manager keeps one session per (viewer, subject) pair. A coach looking at
// a runner never shares navigation or swap selection with the runner, but
// both sessions work on the runner's single overlay store.
type Manager struct {
	gateway        overlay.Gateway
	schedules      scheduleSource
	metricsManager *metrics.Manager
	year           int

	// Now is the clock sessions use to find today, injectable for tests.
	Now func() time.Time

	mutex    sync.Mutex
	sessions map[sessionKey]*Session
	stores   map[string]*subjectStore
}

func NewManager(
	gateway overlay.Gateway,
	schedules scheduleSource,
	metricsManager *metrics.Manager,
	year int,
) *Manager {
	return &Manager{
		gateway:        gateway,
		schedules:      schedules,
		metricsManager: metricsManager,
		year:           year,
		Now:            time.Now,
		sessions:       map[sessionKey]*Session{},
		stores:         map[string]*subjectStore{},
	}
}

// Open returns the session of the viewer on the subject's calendar,
// loading the subject's schedule and overlays on first use.
func (m *Manager) Open(ctx context.Context, viewerID, subjectID string) (_ *Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "calendar.manager.open")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("viewer", viewerID),
		attribute.String("subject", subjectID),
	)

	key := sessionKey{viewerID: viewerID, subjectID: subjectID}

	m.mutex.Lock()
	session, ok := m.sessions[key]
	_, hasStore := m.stores[subjectID]
	m.mutex.Unlock()
	if ok {
		return session, nil
	}

	index, err := m.schedules.ForUser(ctx, subjectID, m.year)
	if err != nil {
		return nil, fmt.Errorf("resolve schedule of %s: %w", subjectID, err)
	}
	var loaded *overlay.Store
	if !hasStore {
		loaded = overlay.Load(ctx, m.gateway, subjectID, m.metricsManager)
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()
	// another request may have opened it meanwhile
	if existing, ok := m.sessions[key]; ok {
		return existing, nil
	}

	shared, ok := m.stores[subjectID]
	if !ok {
		if loaded == nil {
			// the last session of the subject was closed meanwhile
			loaded = overlay.Load(ctx, m.gateway, subjectID, m.metricsManager)
		}
		shared = &subjectStore{store: loaded}
		m.stores[subjectID] = shared
	}
	shared.sessions++

	session = newSession(viewerID, subjectID, m.year, index, shared.store, m.metricsManager, m.Now)
	m.sessions[key] = session
	if m.metricsManager != nil {
		m.metricsManager.GaugeActiveSessions.Inc()
	}

	log.Debugf("calendar session opened: viewer %s, subject %s", viewerID, subjectID)
	return session, nil
}

// Close drops every session of the viewer. A subject store nobody shows
// anymore is dropped too, after its pending saves are done.
func (m *Manager) Close(viewerID string) {
	m.mutex.Lock()
	closed := 0
	var dropped []*overlay.Store
	for key := range m.sessions {
		if key.viewerID != viewerID {
			continue
		}
		delete(m.sessions, key)
		closed++

		shared := m.stores[key.subjectID]
		shared.sessions--
		if shared.sessions == 0 {
			delete(m.stores, key.subjectID)
			dropped = append(dropped, shared.store)
		}
	}
	m.mutex.Unlock()

	for _, store := range dropped {
		store.Wait()
	}
	if m.metricsManager != nil {
		m.metricsManager.GaugeActiveSessions.Sub(float64(closed))
	}
	log.Debugf("calendar sessions closed for viewer %s: %d", viewerID, closed)
}

// Reload refills the subject's overlays from the gateway, for writes that
// did not go through a session, like a legacy migration. Without an open
// session there is nothing to reload.
func (m *Manager) Reload(ctx context.Context, subjectID string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "calendar.manager.reload")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	m.mutex.Lock()
	shared, ok := m.stores[subjectID]
	m.mutex.Unlock()
	if !ok {
		return nil
	}

	if err := shared.store.Reload(ctx); err != nil {
		return fmt.Errorf("reload overlays of %s: %w", subjectID, err)
	}
	return nil
}

// RefreshSchedule reloads the subject's schedule into every open session
// showing that subject.
func (m *Manager) RefreshSchedule(ctx context.Context, subjectID string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "calendar.manager.refreshschedule")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	index, err := m.schedules.ForUser(ctx, subjectID, m.year)
	if err != nil {
		return fmt.Errorf("resolve schedule of %s: %w", subjectID, err)
	}

	for _, session := range m.sessionsOf(subjectID) {
		session.ReplaceSchedule(index)
	}
	return nil
}

func (m *Manager) sessionsOf(subjectID string) []*Session {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	var result []*Session
	for key, session := range m.sessions {
		if key.subjectID == subjectID {
			result = append(result, session)
		}
	}
	return result
}

// Shutdown waits for the background saves of every subject store. Every
// mutation is already written through, so nothing is saved again.
func (m *Manager) Shutdown(ctx context.Context) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "calendar.manager.shutdown")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	m.mutex.Lock()
	stores := make([]*overlay.Store, 0, len(m.stores))
	for _, shared := range m.stores {
		stores = append(stores, shared.store)
	}
	m.mutex.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for _, store := range stores {
			store.Wait()
		}
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("wait for pending saves: %w", ctx.Err())
	}
}

func (m *Manager) Len() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return len(m.sessions)
}
