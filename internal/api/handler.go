// Package api provides HTTP handlers for the practice API.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/ashureev/practice-coach/internal/domain"
	"github.com/ashureev/practice-coach/internal/metrics"
	"github.com/ashureev/practice-coach/internal/practice"
)

const maxRequestBodySize = 64 << 10

// UserStore is the subset of the repository the handlers need.
type UserStore interface {
	GetUser(ctx context.Context, userID string) (*domain.User, error)
	UpdateLastSeen(ctx context.Context, userID string, lastSeen time.Time) error
	Ping(ctx context.Context) error
}

// Limiter throttles message sends per user.
type Limiter interface {
	Allow(key string) bool
}

// Handler serves the catalog and practice endpoints.
type Handler struct {
	users    UserStore
	registry *practice.Registry
	gate     practice.Gate
	limiter  Limiter
}

// NewHandler creates a Handler. gate and limiter may be nil.
func NewHandler(users UserStore, registry *practice.Registry, gate practice.Gate, limiter Limiter) *Handler {
	if gate == nil {
		gate = practice.AllowAll{}
	}
	return &Handler{
		users:    users,
		registry: registry,
		gate:     gate,
		limiter:  limiter,
	}
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, practice.ErrNotAllowed):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		slog.Error("Request failed", "error", err)
		Error(w, status, "internal error")
		return
	}
	Error(w, status, err.Error())
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			Error(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		Error(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func (h *Handler) engine(w http.ResponseWriter, r *http.Request, userID string) (*practice.Engine, bool) {
	e, err := h.registry.Engine(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	return e, true
}

func (h *Handler) allow(w http.ResponseWriter, userID string) bool {
	if h.limiter == nil || h.limiter.Allow(userID) {
		return true
	}
	metrics.RateLimited.Inc()
	Error(w, http.StatusTooManyRequests, "rate limit exceeded")
	return false
}

// touch updates last seen asynchronously with timeout.
func (h *Handler) touch(userID string) {
	if h.users == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := h.users.UpdateLastSeen(ctx, userID, time.Now()); err != nil {
			slog.Warn("Failed to update last seen", "user_id", userID, "error", err)
		}
	}()
}
