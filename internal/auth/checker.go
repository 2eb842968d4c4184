package auth

import "context"

var _ Checker = (*LoginChecker)(nil)
var _ Checker = (*LoginTestChecker)(nil)

// Checker resolves a session token to the id of its logged user.
type Checker interface {
	SessionUser(ctx context.Context, token string) (string, bool, error)
}
