// Package domain contains core domain types for the practice service.
package domain

import (
	"strings"
	"time"
)

// User represents an (anonymous) account that owns practice history.
type User struct {
	UserID     string    `json:"user_id"`
	Username   string    `json:"username"`
	LastSeenAt time.Time `json:"last_seen_at"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// IsAnonymous returns true if the user was minted by the anonymous identity middleware.
func (u *User) IsAnonymous() bool {
	return strings.HasPrefix(u.UserID, "anon_")
}

// IdleFor returns how long the user has been inactive relative to now.
// Returns 0 if the user was seen in the future (clock skew).
func (u *User) IdleFor(now time.Time) time.Duration {
	d := now.Sub(u.LastSeenAt)
	if d < 0 {
		return 0
	}
	return d
}
