package auth

import "context"

// LoginTestChecker maps tokens to user ids, for tests of the routes behind
// the auth middleware.
type LoginTestChecker struct {
	Sessions map[string]string
}

func NewLoginTestChecker() *LoginTestChecker {
	return &LoginTestChecker{
		Sessions: map[string]string{},
	}
}

func (c *LoginTestChecker) SessionUser(_ context.Context, token string) (string, bool, error) {
	userID, ok := c.Sessions[token]
	if !ok || userID == "" {
		return "", false, nil
	}
	return userID, true, nil
}
