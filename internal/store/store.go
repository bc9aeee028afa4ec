// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
	"time"

	"github.com/ashureev/practice-coach/internal/domain"
)

// Repository defines the interface for persisting users and their practice history.
type Repository interface {
	// GetUser retrieves a user by their user ID. It returns nil, nil when absent.
	GetUser(ctx context.Context, userID string) (*domain.User, error)

	// UpsertUser creates or updates a user record.
	UpsertUser(ctx context.Context, user *domain.User) error

	// UpdateLastSeen updates the last_seen_at timestamp for a user.
	UpdateLastSeen(ctx context.Context, userID string, lastSeen time.Time) error

	// LoadHistory returns the archived sessions of a user, most recent first.
	LoadHistory(ctx context.Context, userID string) ([]domain.Session, error)

	// SaveHistory replaces the archived sessions of a user.
	SaveHistory(ctx context.Context, userID string, sessions []domain.Session) error

	// CleanupStaleHistory removes histories not written within ttl.
	CleanupStaleHistory(ctx context.Context, ttl time.Duration) (int64, error)

	// Ping verifies database connectivity and returns an error if the database is unreachable.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
