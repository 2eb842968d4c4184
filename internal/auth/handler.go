package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/2beens/runcal/internal/telemetry/tracing"
	"github.com/2beens/runcal/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

const TokenHeader = "X-RUNCAL-TOKEN"

type profileEnsurer interface {
	EnsureExists(ctx context.Context, userID, email string)
}

type legacyMigrator interface {
	Migrate(ctx context.Context, userID string) (int, error)
}

type calendarSessions interface {
	Close(viewerID string)
	Reload(ctx context.Context, subjectID string) error
}

type Handler struct {
	authService *Service
	profiles    profileEnsurer
	migrator    legacyMigrator
	sessions    calendarSessions
}

func NewHandler(
	authService *Service,
	profiles profileEnsurer,
	migrator legacyMigrator,
	sessions calendarSessions,
) *Handler {
	return &Handler{
		authService: authService,
		profiles:    profiles,
		migrator:    migrator,
		sessions:    sessions,
	}
}

// SetupRoutes registers the account routes under /a. The given middlewares
// (rate limiting) apply to these routes only.
func (handler *Handler) SetupRoutes(mainRouter *mux.Router, middlewares ...mux.MiddlewareFunc) {
	loginSubrouter := mainRouter.PathPrefix("/a").Subrouter()
	loginSubrouter.
		HandleFunc("/signup", handler.handleSignUp).
		Methods("POST", "OPTIONS").Name("signup")
	loginSubrouter.
		HandleFunc("/login", handler.handleLogin).
		Methods("POST", "OPTIONS").Name("login")
	loginSubrouter.
		HandleFunc("/logout", handler.handleLogout).
		Methods("GET", "OPTIONS").Name("logout")

	loginSubrouter.Use(middlewares...)
}

func readCredentials(r *http.Request) (Credentials, error) {
	var credentials Credentials
	if r.Header.Get("Content-Type") == pkg.ContentType.JSON {
		if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
			return Credentials{}, err
		}
		return credentials, nil
	}

	if err := r.ParseForm(); err != nil {
		return Credentials{}, err
	}
	return Credentials{
		Email:    r.Form.Get("email"),
		Password: r.Form.Get("password"),
	}, nil
}

func (handler *Handler) handleSignUp(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "authHandler.signup")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	credentials, err := readCredentials(r)
	if err != nil {
		log.Errorf("signup, read credentials: %s", err)
		http.Error(w, "signup failed", http.StatusBadRequest)
		return
	}

	userID, err := handler.authService.SignUp(ctx, credentials)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidEmail), errors.Is(err, ErrWeakPassword):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, ErrEmailTaken):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			log.Errorf("signup failed: %s", err)
			http.Error(w, "signup failed", http.StatusInternalServerError)
		}
		return
	}

	log.Printf("new user signed up: %s", userID)
	pkg.WriteJSON(w, struct {
		ID string `json:"id"`
	}{
		ID: userID,
	}, http.StatusCreated)
}

func (handler *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "authHandler.login")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	credentials, err := readCredentials(r)
	if err != nil {
		log.Errorf("login, read credentials: %s", err)
		http.Error(w, "login failed", http.StatusBadRequest)
		return
	}
	if credentials.Email == "" {
		http.Error(w, "error, email empty", http.StatusBadRequest)
		return
	}
	if credentials.Password == "" {
		http.Error(w, "error, password empty", http.StatusBadRequest)
		return
	}

	token, userID, err := handler.authService.Login(ctx, credentials, time.Now())
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			log.Tracef("failed login attempt for: %s", credentials.Email)
			http.Error(w, "error, wrong credentials", http.StatusBadRequest)
			return
		}
		log.Errorf("login failed: %s", err)
		http.Error(w, "login failed", http.StatusInternalServerError)
		return
	}

	// a new login starts from fresh calendar sessions
	handler.sessions.Close(userID)

	handler.profiles.EnsureExists(ctx, userID, credentials.Email)
	if migrated, err := handler.migrator.Migrate(ctx, userID); err != nil {
		log.Errorf("login of %s, legacy migration: %s", userID, err)
	} else if migrated > 0 {
		log.Printf("login of %s, migrated %d legacy entries", userID, migrated)
		// a coach may still have the calendar open
		if err := handler.sessions.Reload(ctx, userID); err != nil {
			log.Errorf("login of %s, reload calendar: %s", userID, err)
		}
	}

	log.Trace("new login success")
	pkg.WriteJSON(w, struct {
		Token  string `json:"token"`
		UserID string `json:"userId"`
	}{
		Token:  token,
		UserID: userID,
	}, http.StatusOK)
}

func (handler *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "authHandler.logout")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "GET, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	authToken := r.Header.Get(TokenHeader)
	if authToken == "" {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	userID, err := handler.authService.Logout(ctx, authToken)
	if err != nil {
		log.Tracef("[failed logout] => %s: %s", r.URL.Path, err)
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}
	handler.sessions.Close(userID)

	log.Printf("logout for user [%s] success", userID)
	pkg.WriteTextResponseOK(w, "logged-out")
}
