package profiles

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/runcal/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
)

type Role string

const (
	RoleRunner Role = "runner"
	RoleCoach  Role = "coach"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrProfileExists   = errors.New("profile already exists")
	ErrInvalidRole     = errors.New("invalid role")
)

type Profile struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Role         Role   `json:"role"`
	PasswordHash string `json:"-"`
}

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleRunner, RoleCoach:
		return Role(s), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidRole, s)
	}
}

//go:generate mockgen -source=$GOFILE -destination=repo_mocks_test.go -package=profiles_test

type repo interface {
	GetProfile(ctx context.Context, id string) (*Profile, error)
	AddProfile(ctx context.Context, profile Profile) error
	UpdateRole(ctx context.Context, id string, role Role) error
	ListProfilesByRole(ctx context.Context, role Role) ([]Profile, error)
}

type Service struct {
	repo repo
}

func NewService(repo repo) *Service {
	return &Service{
		repo: repo,
	}
}

// Role returns the role of a user. Any failure to read the profile,
// including a missing one, degrades to the runner role.
func (s *Service) Role(ctx context.Context, userID string) Role {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.profiles.role")
	defer span.End()

	profile, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		log.Warnf("get role of user %s, defaulting to runner: %s", userID, err)
		return RoleRunner
	}
	if profile.Role == "" {
		return RoleRunner
	}
	return profile.Role
}

// EnsureExists creates a runner profile for the user if there is none.
// Failures are logged only, a user without a profile still gets the runner
// role.
func (s *Service) EnsureExists(ctx context.Context, userID, email string) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.profiles.ensure")
	defer span.End()

	_, err := s.repo.GetProfile(ctx, userID)
	if err == nil {
		return
	}
	if !errors.Is(err, ErrProfileNotFound) {
		log.Errorf("ensure profile of user %s, get profile: %s", userID, err)
		return
	}

	err = s.repo.AddProfile(ctx, Profile{
		ID:    userID,
		Email: email,
		Role:  RoleRunner,
	})
	if err != nil && !errors.Is(err, ErrProfileExists) {
		log.Errorf("ensure profile of user %s, add profile: %s", userID, err)
		return
	}
	log.Debugf("profile ensured for user %s", userID)
}

func (s *Service) SetRole(ctx context.Context, userID string, role Role) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.profiles.setrole")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if _, err := ParseRole(string(role)); err != nil {
		return err
	}
	if err := s.repo.UpdateRole(ctx, userID, role); err != nil {
		return fmt.Errorf("update role: %w", err)
	}
	return nil
}

func (s *Service) ListRunners(ctx context.Context) (_ []Profile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.profiles.listrunners")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	runners, err := s.repo.ListProfilesByRole(ctx, RoleRunner)
	if err != nil {
		return nil, fmt.Errorf("list runners: %w", err)
	}
	return runners, nil
}
