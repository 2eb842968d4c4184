package auth

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

type LoginChecker struct {
	ttl         time.Duration
	redisClient *redis.Client
	now         func() time.Time
}

func NewLoginChecker(ttl time.Duration, redisClient *redis.Client) *LoginChecker {
	return &LoginChecker{
		ttl:         ttl,
		redisClient: redisClient,
		now:         time.Now,
	}
}

// SessionUser returns the user of a live session. An unknown or expired
// token is not an error, it just has no user.
func (lc *LoginChecker) SessionUser(ctx context.Context, token string) (string, bool, error) {
	sessionKey := sessionKeyPrefix + token
	cmd := lc.redisClient.Get(ctx, sessionKey)
	if err := cmd.Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, err
	}

	createdAt, userID, err := parseSessionValue(cmd.Val())
	if err != nil {
		return "", false, err
	}

	if lc.now().Sub(createdAt) > lc.ttl {
		return "", false, nil
	}

	return userID, true, nil
}
