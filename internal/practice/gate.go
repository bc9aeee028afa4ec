package practice

import (
	"context"
	"errors"
)

// ErrNotAllowed is returned by a Gate that refuses to start a session.
var ErrNotAllowed = errors.New("practice session not allowed")

// Gate decides whether a user may start a new practice session.
// The engine itself enforces no quota; callers consult the gate first.
type Gate interface {
	AllowStart(ctx context.Context, userID string) error
}

// AllowAll admits every request.
type AllowAll struct{}

// AllowStart implements Gate.
func (AllowAll) AllowStart(context.Context, string) error { return nil }
