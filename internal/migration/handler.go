package migration

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/2beens/runcal/internal/auth"
	"github.com/2beens/runcal/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type overlayReloader interface {
	Reload(ctx context.Context, subjectID string) error
}

type Handler struct {
	migrator *Migrator
	sessions overlayReloader
}

func NewHandler(migrator *Migrator, sessions overlayReloader) *Handler {
	return &Handler{
		migrator: migrator,
		sessions: sessions,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/migration/legacy", handler.handleImportLegacy).Methods("POST", "OPTIONS").Name("migration-legacy")
}

// handleImportLegacy takes the local-only blobs of an old client, keyed by
// their storage names, and migrates them right away.
func (handler *Handler) handleImportLegacy(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	var blobs map[string]string
	if err := json.NewDecoder(r.Body).Decode(&blobs); err != nil {
		http.Error(w, "error, invalid legacy data", http.StatusBadRequest)
		return
	}

	if err := handler.migrator.Stash(ctx, userID, blobs); err != nil {
		if errors.Is(err, ErrUnknownBlob) || errors.Is(err, ErrInvalidBlob) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Errorf("stash legacy data of %s: %s", userID, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	migrated, err := handler.migrator.Migrate(ctx, userID)
	if err != nil {
		log.Errorf("migrate legacy data of %s: %s", userID, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if migrated > 0 {
		if err := handler.sessions.Reload(ctx, userID); err != nil {
			log.Errorf("reload calendar of %s after legacy import: %s", userID, err)
		}
	}

	pkg.WriteJSON(w, struct {
		Migrated int `json:"migrated"`
	}{
		Migrated: migrated,
	}, http.StatusOK)
}
