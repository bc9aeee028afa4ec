package history

import (
	"context"
	"sync"

	"github.com/ashureev/practice-coach/internal/domain"
)

// MemoryPersistence keeps histories in process memory.
type MemoryPersistence struct {
	mu   sync.Mutex
	data map[string][]domain.Session
}

// NewMemoryPersistence creates an empty in-memory persistence.
func NewMemoryPersistence() *MemoryPersistence {
	return &MemoryPersistence{data: make(map[string][]domain.Session)}
}

// LoadHistory implements Persistence.
func (m *MemoryPersistence) LoadHistory(_ context.Context, userID string) ([]domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneAll(m.data[userID]), nil
}

// SaveHistory implements Persistence.
func (m *MemoryPersistence) SaveHistory(_ context.Context, userID string, sessions []domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[userID] = cloneAll(sessions)
	return nil
}
