package auth

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/2beens/runcal/internal/profiles"
	"github.com/2beens/runcal/internal/telemetry/tracing"
	"github.com/2beens/runcal/pkg"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultTTL        = 24 * 7 * time.Hour
	sessionKeyPrefix  = "runcal-session||"
	tokensSetKey      = "runcal-sessions"
	minPasswordLength = 6
)

var (
	ErrInvalidCredentials = errors.New("wrong credentials")
	ErrInvalidEmail       = errors.New("please enter a valid email")
	ErrWeakPassword       = fmt.Errorf("password must have at least %d characters", minPasswordLength)
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidSession     = errors.New("invalid session value")
)

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// accounts is the part of the profile storage used for sign up and login.
type accounts interface {
	GetProfileByEmail(ctx context.Context, email string) (*profiles.Profile, error)
	AddProfile(ctx context.Context, profile profiles.Profile) error
}

type Service struct {
	redisClient *redis.Client
	accounts    accounts
	ttl         time.Duration
	// ability to inject random string generator func for tokens (for unit and dev testing)
	RandStringFunc func(s int) (string, error)
	NewUserIDFunc  func() string
}

func NewAuthService(
	ttl time.Duration,
	redisClient *redis.Client,
	accounts accounts,
) *Service {
	return &Service{
		ttl:            ttl,
		redisClient:    redisClient,
		accounts:       accounts,
		RandStringFunc: pkg.GenerateRandomString,
		NewUserIDFunc:  uuid.NewString,
	}
}

// sessionValue is what is kept under a session key: when the session was
// created and whose it is.
func sessionValue(createdAt time.Time, userID string) string {
	return fmt.Sprintf("%d|%s", createdAt.Unix(), userID)
}

func parseSessionValue(value string) (time.Time, string, error) {
	createdAtStr, userID, found := strings.Cut(value, "|")
	if !found || userID == "" {
		return time.Time{}, "", ErrInvalidSession
	}
	createdAtUnix, err := strconv.ParseInt(createdAtStr, 10, 64)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("%w: %s", ErrInvalidSession, err)
	}
	return time.Unix(createdAtUnix, 0), userID, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignUp registers a new runner account and returns the new user's id.
func (as *Service) SignUp(ctx context.Context, credentials Credentials) (_ string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.auth.signup")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	email := normalizeEmail(credentials.Email)
	if email == "" || !strings.Contains(email, "@") {
		return "", ErrInvalidEmail
	}
	if len(credentials.Password) < minPasswordLength {
		return "", ErrWeakPassword
	}

	passwordHash, err := pkg.HashPassword(credentials.Password)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	userID := as.NewUserIDFunc()
	err = as.accounts.AddProfile(ctx, profiles.Profile{
		ID:           userID,
		Email:        email,
		Role:         profiles.RoleRunner,
		PasswordHash: passwordHash,
	})
	if err != nil {
		if errors.Is(err, profiles.ErrProfileExists) {
			return "", ErrEmailTaken
		}
		return "", fmt.Errorf("add profile: %w", err)
	}

	return userID, nil
}

// Login checks the credentials and opens a new session. It returns the
// session token and the id of the logged user.
func (as *Service) Login(ctx context.Context, credentials Credentials, createdAt time.Time) (_ string, _ string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.auth.login")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	profile, err := as.accounts.GetProfileByEmail(ctx, normalizeEmail(credentials.Email))
	if err != nil {
		if errors.Is(err, profiles.ErrProfileNotFound) {
			return "", "", ErrInvalidCredentials
		}
		return "", "", fmt.Errorf("get profile: %w", err)
	}
	if profile.PasswordHash == "" || !pkg.CheckPasswordHash(credentials.Password, profile.PasswordHash) {
		return "", "", ErrInvalidCredentials
	}

	token, err := as.RandStringFunc(35)
	if err != nil {
		return "", "", err
	}

	sessionKey := sessionKeyPrefix + token
	cmdSet := as.redisClient.Set(ctx, sessionKey, sessionValue(createdAt, profile.ID), 0)
	if err := cmdSet.Err(); err != nil {
		return "", "", err
	}

	// add token to list of sessions
	cmdSAdd := as.redisClient.SAdd(ctx, tokensSetKey, token)
	if err := cmdSAdd.Err(); err != nil {
		return "", "", err
	}

	return token, profile.ID, nil
}

// Logout ends the session of the token. It returns the id of the user the
// session belonged to.
func (as *Service) Logout(ctx context.Context, token string) (string, error) {
	sessionKey := sessionKeyPrefix + token
	cmd := as.redisClient.Get(ctx, sessionKey)
	if err := cmd.Err(); err != nil {
		return "", err
	}

	_, userID, err := parseSessionValue(cmd.Val())
	if err != nil {
		return "", err
	}

	cmdDel := as.redisClient.Del(ctx, sessionKey)
	if err := cmdDel.Err(); err != nil {
		return "", err
	}

	// remove token from the list of sessions
	cmdSRem := as.redisClient.SRem(ctx, tokensSetKey, token)
	if err := cmdSRem.Err(); err != nil {
		return "", err
	}

	return userID, nil
}

// ScanAndClean will run through all sessions, check the TTL, and clean them if old.
// It returns the ids of the users whose sessions expired.
func (as *Service) ScanAndClean(ctx context.Context) []string {
	cmd := as.redisClient.SMembers(ctx, tokensSetKey)
	if err := cmd.Err(); err != nil {
		log.Errorf("!!! auth service, scan and clean, get sessions: %s", err)
		return nil
	}

	sessionTokens := cmd.Val()
	if len(sessionTokens) == 0 {
		log.Debugln("=> auth service, scan and clean abort, no sessions")
		return nil
	}

	log.Warnf("=> auth service, scan and clean [%d sessions] start ...", len(sessionTokens))
	var toRemove []string
	// token -> user, for expired sessions only
	expiredOwners := map[string]string{}
	for _, token := range sessionTokens {
		sessionKey := sessionKeyPrefix + token
		cmd := as.redisClient.Get(ctx, sessionKey)
		if err := cmd.Err(); err != nil {
			if errors.Is(err, redis.Nil) {
				// dangling token, its session is already gone
				toRemove = append(toRemove, token)
				continue
			}
			log.Errorf("=> auth service, scan and clean token %s: %s", token, err)
			continue
		}

		createdAt, userID, err := parseSessionValue(cmd.Val())
		if err != nil {
			log.Errorf("=> auth service, scan and clean token %s: %s", token, err)
			continue
		}

		sessionDuration := time.Since(createdAt)
		if sessionDuration > as.ttl {
			log.Warnf("=>\twill clean the session with token: %s", token)
			toRemove = append(toRemove, token)
			expiredOwners[token] = userID
		}
	}

	var expiredUsers []string
	for _, token := range toRemove {
		sessionKey := sessionKeyPrefix + token
		cmdDel := as.redisClient.Del(ctx, sessionKey)
		if err := cmdDel.Err(); err != nil {
			log.Errorf("=> auth service, clean token %s: %s", token, err)
			continue
		}

		// remove token from the list of sessions
		cmdSRem := as.redisClient.SRem(ctx, tokensSetKey, token)
		if err := cmdSRem.Err(); err != nil {
			log.Errorf("=> auth service, clean token %s: %s", token, err)
			continue
		}

		if userID, ok := expiredOwners[token]; ok && !slices.Contains(expiredUsers, userID) {
			expiredUsers = append(expiredUsers, userID)
		}
	}

	return expiredUsers
}
