package practice

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ashureev/practice-coach/internal/catalog"
	"github.com/ashureev/practice-coach/internal/history"
	"github.com/ashureev/practice-coach/internal/persona"
)

// RegistryOptions configures the engines a Registry creates.
type RegistryOptions struct {
	Catalog     *catalog.Catalog
	Generator   *persona.Generator
	Persistence history.Persistence
	Listener    Listener
	Logger      *slog.Logger
	ReplyDelay  time.Duration
	ReplyJitter time.Duration
	Now         func() time.Time
}

// Registry holds one engine per user, created on first use.
type Registry struct {
	opts    RegistryOptions
	logger  *slog.Logger
	mu      sync.RWMutex
	engines map[string]*Engine
}

// NewRegistry creates an empty registry.
func NewRegistry(opts RegistryOptions) *Registry {
	if opts.Catalog == nil {
		opts.Catalog = catalog.Default()
	}
	if opts.Generator == nil {
		opts.Generator = persona.NewGenerator(nil)
	}
	if opts.Persistence == nil {
		opts.Persistence = history.NewMemoryPersistence()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		opts:    opts,
		logger:  logger,
		engines: make(map[string]*Engine),
	}
}

// Catalog returns the catalog shared by every engine.
func (r *Registry) Catalog() *catalog.Catalog { return r.opts.Catalog }

// Engine returns the user's engine, loading its history on first access.
// Every call marks the engine as used so EvictIdle keeps it.
func (r *Registry) Engine(ctx context.Context, userID string) (*Engine, error) {
	r.mu.RLock()
	e, ok := r.engines[userID]
	if ok {
		e.touch()
	}
	r.mu.RUnlock()
	if ok {
		return e, nil
	}

	store, err := history.Load(ctx, userID, r.opts.Persistence)
	if err != nil {
		return nil, fmt.Errorf("create engine: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.engines[userID]; ok {
		e.touch()
		return e, nil
	}
	e = NewEngine(userID, Options{
		Catalog:     r.opts.Catalog,
		Generator:   r.opts.Generator,
		History:     store,
		Listener:    r.opts.Listener,
		Logger:      r.logger,
		ReplyDelay:  r.opts.ReplyDelay,
		ReplyJitter: r.opts.ReplyJitter,
		Now:         r.opts.Now,
	})
	r.engines[userID] = e
	r.logger.Debug("Practice engine created", "user_id", userID, "history", store.Len())
	return e, nil
}

// Lookup returns an existing engine without creating one.
func (r *Registry) Lookup(userID string) (*Engine, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.engines[userID]
	return e, ok
}

// Engines returns a snapshot of all engines.
func (r *Registry) Engines() []*Engine {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Engine, 0, len(r.engines))
	for _, e := range r.engines {
		out = append(out, e)
	}
	return out
}

// ActiveCount returns how many engines have an active session.
func (r *Registry) ActiveCount() int {
	n := 0
	for _, e := range r.Engines() {
		if e.State() == StateActive {
			n++
		}
	}
	return n
}

// EvictIdle drops engines with no active session that have not been used
// since before cutoff. Their history stays in persistence and is reloaded
// on the next access. It returns the number of engines removed.
func (r *Registry) EvictIdle(cutoff time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for userID, e := range r.engines {
		if e.evictable(cutoff) {
			delete(r.engines, userID)
			n++
		}
	}
	return n
}

// Shutdown ends every active session so it is archived before exit.
func (r *Registry) Shutdown(ctx context.Context) {
	for _, e := range r.Engines() {
		if err := e.Close(ctx); err != nil {
			r.logger.Warn("Failed to close practice engine", "user_id", e.UserID(), "error", err)
		}
	}
}
