// Package history keeps the most recent practice sessions of a user.
package history

import (
	"context"
	"fmt"
	"sync"

	"github.com/ashureev/practice-coach/internal/domain"
)

// Limit is the number of sessions retained per user.
const Limit = 10

// Persistence stores a user's archived sessions, most recent first.
type Persistence interface {
	LoadHistory(ctx context.Context, userID string) ([]domain.Session, error)
	SaveHistory(ctx context.Context, userID string, sessions []domain.Session) error
}

// Store is a capped, most-recent-first session list for one user.
type Store struct {
	mu       sync.RWMutex
	userID   string
	persist  Persistence
	sessions []domain.Session
}

// NewStore creates an empty store. persist may be nil.
func NewStore(userID string, persist Persistence) *Store {
	return &Store{userID: userID, persist: persist}
}

// Load creates a store seeded from persistence.
func Load(ctx context.Context, userID string, persist Persistence) (*Store, error) {
	s := NewStore(userID, persist)
	if persist == nil {
		return s, nil
	}
	sessions, err := persist.LoadHistory(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load history for %s: %w", userID, err)
	}
	if len(sessions) > Limit {
		sessions = sessions[:Limit]
	}
	s.sessions = sessions
	return s, nil
}

// Archive prepends a session, evicting the oldest beyond Limit, and writes
// the list through to persistence. The in-memory list is updated even when
// the write fails.
func (s *Store) Archive(ctx context.Context, session domain.Session) error {
	s.mu.Lock()
	next := make([]domain.Session, 0, Limit)
	next = append(next, session.Clone())
	for _, old := range s.sessions {
		if len(next) == Limit {
			break
		}
		next = append(next, old)
	}
	s.sessions = next
	snapshot := cloneAll(next)
	s.mu.Unlock()

	if s.persist == nil {
		return nil
	}
	if err := s.persist.SaveHistory(ctx, s.userID, snapshot); err != nil {
		return fmt.Errorf("save history for %s: %w", s.userID, err)
	}
	return nil
}

// List returns copies of the archived sessions, most recent first.
func (s *Store) List() []domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.sessions)
}

// Len returns the number of archived sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func cloneAll(in []domain.Session) []domain.Session {
	out := make([]domain.Session, len(in))
	for i, s := range in {
		out[i] = s.Clone()
	}
	return out
}
