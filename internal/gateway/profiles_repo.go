package gateway

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/runcal/internal/profiles"
	"github.com/2beens/runcal/internal/telemetry/tracing"
	"github.com/2beens/runcal/pkg"

	"github.com/jackc/pgx/v5"
)

func (r *Repo) GetProfile(ctx context.Context, id string) (_ *profiles.Profile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gateway.profiles.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return r.queryProfile(ctx, `
		SELECT id, email, role, password_hash
		FROM user_profiles
		WHERE id = $1
	`, id)
}

func (r *Repo) GetProfileByEmail(ctx context.Context, email string) (_ *profiles.Profile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gateway.profiles.getbyemail")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return r.queryProfile(ctx, `
		SELECT id, email, role, password_hash
		FROM user_profiles
		WHERE email = $1
	`, email)
}

func (r *Repo) queryProfile(ctx context.Context, query string, arg string) (*profiles.Profile, error) {
	var (
		p    profiles.Profile
		role string
	)
	if err := r.db.QueryRow(ctx, query, arg).Scan(&p.ID, &p.Email, &role, &p.PasswordHash); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, profiles.ErrProfileNotFound
		}
		return nil, err
	}
	p.Role = profiles.Role(role)
	return &p, nil
}

func (r *Repo) AddProfile(ctx context.Context, profile profiles.Profile) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gateway.profiles.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	_, err = r.db.Exec(ctx, `
		INSERT INTO user_profiles (id, email, role, password_hash, created_at)
		VALUES ($1, $2, $3, $4, now())
	`, profile.ID, profile.Email, string(profile.Role), profile.PasswordHash)
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return profiles.ErrProfileExists
		}
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

func (r *Repo) UpdateRole(ctx context.Context, id string, role profiles.Role) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gateway.profiles.updaterole")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tag, err := r.db.Exec(ctx, `
		UPDATE user_profiles SET role = $2 WHERE id = $1
	`, id, string(role))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return profiles.ErrProfileNotFound
	}
	return nil
}

func (r *Repo) ListProfilesByRole(ctx context.Context, role profiles.Role) (_ []profiles.Profile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gateway.profiles.listbyrole")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx, `
		SELECT id, email, role
		FROM user_profiles
		WHERE role = $1
		ORDER BY email
	`, string(role))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []profiles.Profile
	for rows.Next() {
		var (
			p        profiles.Profile
			roleText string
		)
		if err := rows.Scan(&p.ID, &p.Email, &roleText); err != nil {
			return nil, err
		}
		p.Role = profiles.Role(roleText)
		result = append(result, p)
	}

	return result, rows.Err()
}
