package coach

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/2beens/runcal/internal/auth"
	"github.com/2beens/runcal/internal/profiles"
	"github.com/2beens/runcal/internal/schedule"
	"github.com/2beens/runcal/internal/telemetry/tracing"
	"github.com/2beens/runcal/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

const maxScheduleSize = 2 << 20

type profileService interface {
	Role(ctx context.Context, userID string) profiles.Role
	ListRunners(ctx context.Context) ([]profiles.Profile, error)
	SetRole(ctx context.Context, userID string, role profiles.Role) error
}

type Handler struct {
	uploader *Uploader
	profiles profileService
}

func NewHandler(uploader *Uploader, profiles profileService) *Handler {
	return &Handler{
		uploader: uploader,
		profiles: profiles,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/role", handler.handleRole).Methods("GET", "OPTIONS").Name("role")

	coachRouter := router.PathPrefix("/coach").Subrouter()
	coachRouter.HandleFunc("/runners", handler.handleListRunners).Methods("GET", "OPTIONS").Name("coach-runners")
	coachRouter.HandleFunc("/runners/{id}/role", handler.handleSetRole).Methods("PUT", "OPTIONS").Name("coach-set-role")
	coachRouter.HandleFunc("/schedules/{year:[0-9]+}", handler.handleUpload).Methods("POST", "OPTIONS").Name("coach-upload")
}

func (handler *Handler) handleRole(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	pkg.WriteJSON(w, struct {
		Role profiles.Role `json:"role"`
	}{
		Role: handler.profiles.Role(ctx, userID),
	}, http.StatusOK)
}

// requireCoach writes the error response and returns false unless the
// logged user is a coach.
func (handler *Handler) requireCoach(w http.ResponseWriter, r *http.Request) (string, bool) {
	ctx := r.Context()
	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return "", false
	}
	if handler.profiles.Role(ctx, userID) != profiles.RoleCoach {
		log.Warnf("non-coach user %s tried to use coach route %s", userID, r.URL.Path)
		http.Error(w, "only coaches can do that", http.StatusForbidden)
		return "", false
	}
	return userID, true
}

func (handler *Handler) handleListRunners(w http.ResponseWriter, r *http.Request) {
	if _, ok := handler.requireCoach(w, r); !ok {
		return
	}

	runners, err := handler.profiles.ListRunners(r.Context())
	if err != nil {
		log.Errorf("list runners: %s", err)
		http.Error(w, "failed to get runners", http.StatusInternalServerError)
		return
	}
	if runners == nil {
		runners = []profiles.Profile{}
	}

	pkg.WriteJSON(w, struct {
		Runners []profiles.Profile `json:"runners"`
	}{
		Runners: runners,
	}, http.StatusOK)
}

func (handler *Handler) handleSetRole(w http.ResponseWriter, r *http.Request) {
	if _, ok := handler.requireCoach(w, r); !ok {
		return
	}

	var req struct {
		Role string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "error, invalid request", http.StatusBadRequest)
		return
	}
	role, err := profiles.ParseRole(req.Role)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	userID := mux.Vars(r)["id"]
	if err := handler.profiles.SetRole(r.Context(), userID, role); err != nil {
		if errors.Is(err, profiles.ErrProfileNotFound) {
			http.Error(w, "error, user not found", http.StatusNotFound)
			return
		}
		log.Errorf("set role of %s: %s", userID, err)
		http.Error(w, "failed to set role", http.StatusInternalServerError)
		return
	}

	pkg.WriteTextResponseOK(w, "updated")
}

func (handler *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "coachHandler.upload")
	defer span.End()

	if _, ok := handler.requireCoach(w, r); !ok {
		return
	}

	year, err := strconv.Atoi(mux.Vars(r)["year"])
	if err != nil {
		http.Error(w, "error, year invalid", http.StatusBadRequest)
		return
	}
	runnerID := r.URL.Query().Get("runner")
	if runnerID == "" {
		http.Error(w, "please select a runner first", http.StatusBadRequest)
		return
	}

	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxScheduleSize))
	if err != nil {
		http.Error(w, "error, schedule too large or unreadable", http.StatusBadRequest)
		return
	}

	merged, err := handler.uploader.Upload(ctx, runnerID, year, raw)
	if err != nil {
		if errors.Is(err, schedule.ErrInvalidJSON) ||
			errors.Is(err, schedule.ErrMissingYear) ||
			errors.Is(err, schedule.ErrInvalidSchedule) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Errorf("upload schedule for %s: %s", runnerID, err)
		http.Error(w, "failed to save schedule", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, struct {
		Runner string `json:"runner"`
		Year   int    `json:"year"`
		Months []int  `json:"months"`
	}{
		Runner: runnerID,
		Year:   year,
		Months: merged.Months(),
	}, http.StatusOK)
}
