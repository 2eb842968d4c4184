package calendar

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/2beens/runcal/internal/auth"
	"github.com/2beens/runcal/internal/profiles"
	"github.com/2beens/runcal/internal/stats"
	"github.com/2beens/runcal/internal/swap"
	"github.com/2beens/runcal/internal/telemetry/tracing"
	"github.com/2beens/runcal/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

type roleResolver interface {
	Role(ctx context.Context, userID string) profiles.Role
}

type Handler struct {
	manager *Manager
	roles   roleResolver
}

func NewHandler(manager *Manager, roles roleResolver) *Handler {
	return &Handler{
		manager: manager,
		roles:   roles,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	calendarRouter := router.PathPrefix("/calendar").Subrouter()
	calendarRouter.HandleFunc("/week", handler.handleCurrentWeek).Methods("GET", "OPTIONS").Name("calendar-week-current")
	calendarRouter.HandleFunc("/week/{week:[0-9]+}", handler.handleWeek).Methods("GET", "OPTIONS").Name("calendar-week")
	calendarRouter.HandleFunc("/week/{week:[0-9]+}/stats", handler.handleWeekStats).Methods("GET", "OPTIONS").Name("calendar-week-stats")
	calendarRouter.HandleFunc("/nav/next", handler.handleNext).Methods("POST", "OPTIONS").Name("calendar-nav-next")
	calendarRouter.HandleFunc("/nav/prev", handler.handlePrev).Methods("POST", "OPTIONS").Name("calendar-nav-prev")
	calendarRouter.HandleFunc("/nav/month/{month:[0-9]+}", handler.handleMonth).Methods("POST", "OPTIONS").Name("calendar-nav-month")
	calendarRouter.HandleFunc("/week/{week:[0-9]+}/day/{day:[0-9]+}/complete", handler.handleToggleCompletion).Methods("POST", "OPTIONS").Name("calendar-complete")
	calendarRouter.HandleFunc("/week/{week:[0-9]+}/day/{day:[0-9]+}/distance", handler.handleLogDistance).Methods("PUT", "OPTIONS").Name("calendar-distance")
	calendarRouter.HandleFunc("/week/{week:[0-9]+}/day/{day:[0-9]+}/swap", handler.handleSwap).Methods("POST", "OPTIONS").Name("calendar-swap")
	calendarRouter.HandleFunc("/week/{week:[0-9]+}/goal", handler.handleSetGoal).Methods("PUT", "OPTIONS").Name("calendar-goal")
	calendarRouter.HandleFunc("/mileage", handler.handleMileage).Methods("GET", "OPTIONS").Name("calendar-mileage")
}

// openSession opens the session for the logged user. Coaches may look at
// another runner's calendar with the runner query parameter.
func (handler *Handler) openSession(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	ctx := r.Context()

	viewerID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return nil, false
	}

	subjectID := viewerID
	if runnerID := r.URL.Query().Get("runner"); runnerID != "" && runnerID != viewerID {
		if handler.roles.Role(ctx, viewerID) != profiles.RoleCoach {
			log.Warnf("user %s tried to open the calendar of %s", viewerID, runnerID)
			http.Error(w, "only coaches can view other runners", http.StatusForbidden)
			return nil, false
		}
		subjectID = runnerID
	}

	session, err := handler.manager.Open(ctx, viewerID, subjectID)
	if err != nil {
		log.Errorf("open calendar session [%s -> %s]: %s", viewerID, subjectID, err)
		http.Error(w, "failed to open calendar", http.StatusInternalServerError)
		return nil, false
	}
	return session, true
}

func pathInt(r *http.Request, name string) (int, bool) {
	value, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil {
		return 0, false
	}
	return value, true
}

func weekAndDay(w http.ResponseWriter, r *http.Request) (int, int, bool) {
	week, ok := pathInt(r, "week")
	if !ok {
		http.Error(w, "error, week invalid", http.StatusBadRequest)
		return 0, 0, false
	}
	day, ok := pathInt(r, "day")
	if !ok {
		http.Error(w, "error, day invalid", http.StatusBadRequest)
		return 0, 0, false
	}
	return week, day, true
}

func writeSessionError(w http.ResponseWriter, operation string, err error) {
	switch {
	case errors.Is(err, ErrInvalidDistance),
		errors.Is(err, ErrInvalidGoal),
		errors.Is(err, ErrInvalidWeek),
		errors.Is(err, ErrInvalidDay),
		errors.Is(err, ErrInvalidMonth):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, swap.ErrSwapUnavailable),
		errors.Is(err, ErrScheduledWeek):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, swap.ErrSlotNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		log.Errorf("calendar %s: %s", operation, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func (handler *Handler) handleCurrentWeek(w http.ResponseWriter, r *http.Request) {
	session, ok := handler.openSession(w, r)
	if !ok {
		return
	}
	pkg.WriteJSON(w, session.View(), http.StatusOK)
}

func (handler *Handler) handleWeek(w http.ResponseWriter, r *http.Request) {
	week, ok := pathInt(r, "week")
	if !ok {
		http.Error(w, "error, week invalid", http.StatusBadRequest)
		return
	}
	session, ok := handler.openSession(w, r)
	if !ok {
		return
	}
	pkg.WriteJSON(w, session.GoToWeek(week), http.StatusOK)
}

func (handler *Handler) handleWeekStats(w http.ResponseWriter, r *http.Request) {
	week, ok := pathInt(r, "week")
	if !ok {
		http.Error(w, "error, week invalid", http.StatusBadRequest)
		return
	}
	session, ok := handler.openSession(w, r)
	if !ok {
		return
	}

	weekStats := session.WeeklyStats(week)
	pkg.WriteJSON(w, struct {
		Stats    stats.WeekStats `json:"stats"`
		Progress stats.Progress  `json:"progress"`
	}{
		Stats:    weekStats,
		Progress: stats.ProgressOf(weekStats),
	}, http.StatusOK)
}

func (handler *Handler) handleNext(w http.ResponseWriter, r *http.Request) {
	session, ok := handler.openSession(w, r)
	if !ok {
		return
	}
	pkg.WriteJSON(w, session.Next(), http.StatusOK)
}

func (handler *Handler) handlePrev(w http.ResponseWriter, r *http.Request) {
	session, ok := handler.openSession(w, r)
	if !ok {
		return
	}
	pkg.WriteJSON(w, session.Prev(), http.StatusOK)
}

func (handler *Handler) handleMonth(w http.ResponseWriter, r *http.Request) {
	month, ok := pathInt(r, "month")
	if !ok {
		http.Error(w, "error, month invalid", http.StatusBadRequest)
		return
	}
	session, ok := handler.openSession(w, r)
	if !ok {
		return
	}

	view, err := session.GoToMonth(month)
	if err != nil {
		writeSessionError(w, "go to month", err)
		return
	}
	pkg.WriteJSON(w, view, http.StatusOK)
}

func (handler *Handler) handleToggleCompletion(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "calendarHandler.toggleCompletion")
	defer span.End()

	week, day, ok := weekAndDay(w, r)
	if !ok {
		return
	}
	session, ok := handler.openSession(w, r)
	if !ok {
		return
	}

	view, err := session.ToggleCompletion(ctx, week, day)
	if err != nil {
		writeSessionError(w, "toggle completion", err)
		return
	}
	pkg.WriteJSON(w, view, http.StatusOK)
}

type milesRequest struct {
	Miles *float64 `json:"miles"`
	Note  string   `json:"note"`
}

// readMiles reads the miles from a JSON body or from form values. A
// missing or unparsable value is reported as invalid.
func readMiles(r *http.Request) (milesRequest, bool) {
	var req milesRequest
	if r.Header.Get("Content-Type") == pkg.ContentType.JSON {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Tracef("decode miles request: %s", err)
			return milesRequest{}, false
		}
		return req, req.Miles != nil
	}

	if err := r.ParseForm(); err != nil {
		log.Tracef("parse miles form: %s", err)
		return milesRequest{}, false
	}
	miles, err := strconv.ParseFloat(r.Form.Get("miles"), 64)
	if err != nil {
		return milesRequest{}, false
	}
	req.Miles = &miles
	req.Note = r.Form.Get("note")
	return req, true
}

func (handler *Handler) handleLogDistance(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "calendarHandler.logDistance")
	defer span.End()

	week, day, ok := weekAndDay(w, r)
	if !ok {
		return
	}
	req, ok := readMiles(r)
	if !ok {
		http.Error(w, ErrInvalidDistance.Error(), http.StatusBadRequest)
		return
	}
	session, ok := handler.openSession(w, r)
	if !ok {
		return
	}

	view, err := session.LogDistance(ctx, week, day, *req.Miles, req.Note)
	if err != nil {
		writeSessionError(w, "log distance", err)
		return
	}
	pkg.WriteJSON(w, view, http.StatusOK)
}

func (handler *Handler) handleSetGoal(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "calendarHandler.setGoal")
	defer span.End()

	week, ok := pathInt(r, "week")
	if !ok {
		http.Error(w, "error, week invalid", http.StatusBadRequest)
		return
	}
	req, ok := readMiles(r)
	if !ok {
		http.Error(w, ErrInvalidGoal.Error(), http.StatusBadRequest)
		return
	}
	session, ok := handler.openSession(w, r)
	if !ok {
		return
	}

	view, err := session.SetBlankWeekGoal(ctx, week, *req.Miles)
	if err != nil {
		writeSessionError(w, "set goal", err)
		return
	}
	pkg.WriteJSON(w, view, http.StatusOK)
}

func (handler *Handler) handleSwap(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "calendarHandler.swap")
	defer span.End()

	week, day, ok := weekAndDay(w, r)
	if !ok {
		return
	}
	session, ok := handler.openSession(w, r)
	if !ok {
		return
	}

	result, view, err := session.SelectSwap(ctx, week, day)
	if err != nil {
		writeSessionError(w, "swap", err)
		return
	}
	span.SetAttributes(attribute.String("swap.action", string(result.Action)))

	pkg.WriteJSON(w, struct {
		Result swap.Result `json:"result"`
		View   WeekView    `json:"view"`
	}{
		Result: result,
		View:   view,
	}, http.StatusOK)
}

func (handler *Handler) handleMileage(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	endWeek := 0
	if endStr := query.Get("end"); endStr != "" {
		end, err := strconv.Atoi(endStr)
		if err != nil {
			http.Error(w, "error, end week invalid", http.StatusBadRequest)
			return
		}
		endWeek = end
	}
	window := stats.DefaultWindow
	if windowStr := query.Get("window"); windowStr != "" {
		wnd, err := strconv.Atoi(windowStr)
		if err != nil || wnd <= 0 {
			http.Error(w, "error, window invalid", http.StatusBadRequest)
			return
		}
		window = wnd
	}

	session, ok := handler.openSession(w, r)
	if !ok {
		return
	}

	series := session.Mileage(endWeek, window)
	pkg.WriteJSON(w, struct {
		Weeks []stats.WeekMileage `json:"weeks"`
	}{
		Weeks: series,
	}, http.StatusOK)
}
