package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/ashureev/practice-coach/internal/domain"
	"github.com/ashureev/practice-coach/internal/identity"
	"github.com/ashureev/practice-coach/internal/metrics"
	"github.com/ashureev/practice-coach/internal/practice"
)

const writeTimeout = 10 * time.Second

// Limiter throttles inbound messages per user.
type Limiter interface {
	Allow(key string) bool
}

// inbound is a client frame.
type inbound struct {
	Type    string `json:"type"`
	Content string `json:"content,omitempty"`
}

// Handler upgrades /ws/practice requests and serves the live feed.
type Handler struct {
	hub           *Hub
	registry      *practice.Registry
	limiter       Limiter
	allowedOrigin string
	isDev         bool
}

// NewHandler creates a websocket handler. limiter may be nil.
func NewHandler(hub *Hub, registry *practice.Registry, limiter Limiter, allowedOrigin string, isDev bool) *Handler {
	return &Handler{
		hub:           hub,
		registry:      registry,
		limiter:       limiter,
		allowedOrigin: allowedOrigin,
		isDev:         isDev,
	}
}

// ServeHTTP implements http.Handler for WebSocket upgrade.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID := identity.UserIDFromContext(r.Context())
	if userID == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	if !h.checkOrigin(r) {
		http.Error(w, "origin not allowed", http.StatusForbidden)
		return
	}

	engine, err := h.registry.Engine(r.Context(), userID)
	if err != nil {
		slog.Error("Failed to load practice engine", "user_id", userID, "error", err)
		http.Error(w, "engine unavailable", http.StatusInternalServerError)
		return
	}

	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		slog.Error("Failed to accept WebSocket", "error", err, "user_id", userID)
		return
	}
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "feed closed"); closeErr != nil {
			slog.Debug("Failed to close websocket", "error", closeErr, "user_id", userID)
		}
	}()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	c := h.hub.register(userID)
	defer h.hub.unregister(c)

	if s, ok := engine.Active(); ok {
		h.hub.sendTo(c, Event{Type: EventSession, SessionID: s.ID, Session: &s})
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer cancel()
		h.writeLoop(ctx, ws, c)
	}()

	h.readLoop(ctx, ws, c)
	cancel()
	wg.Wait()
	slog.Info("Practice feed ended", "user_id", userID)
}

func (h *Handler) checkOrigin(r *http.Request) bool {
	if h.isDev {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" || h.allowedOrigin == "*" || origin == h.allowedOrigin {
		return true
	}
	slog.Warn("WebSocket origin rejected", "origin", origin, "allowed", h.allowedOrigin)
	return false
}

// readLoop resolves the engine per frame; an idle engine may be evicted
// while the connection stays open.
func (h *Handler) readLoop(ctx context.Context, ws *websocket.Conn, c *client) {
	for {
		_, data, err := ws.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) != -1 || ctx.Err() != nil {
				slog.Debug("WebSocket closed by client", "user_id", c.userID)
			} else {
				slog.Warn("WebSocket read error", "error", err, "user_id", c.userID)
			}
			return
		}

		var msg inbound
		if err := json.Unmarshal(data, &msg); err != nil {
			h.hub.sendTo(c, Event{Type: EventError, Error: "invalid frame", Code: "bad_request"})
			continue
		}

		switch msg.Type {
		case "ping":
			h.hub.sendTo(c, Event{Type: EventPong})
		case "message":
			if h.limiter != nil && !h.limiter.Allow(c.userID) {
				metrics.RateLimited.Inc()
				h.hub.sendTo(c, Event{Type: EventError, Error: "rate limit exceeded", Code: "rate_limited"})
				continue
			}
			engine, err := h.registry.Engine(ctx, c.userID)
			if err != nil {
				h.hub.sendTo(c, errorEvent(err))
				continue
			}
			// The appended message reaches this connection through the hub.
			if _, err := engine.SendUserMessage(ctx, msg.Content); err != nil {
				h.hub.sendTo(c, errorEvent(err))
			}
		case "end":
			engine, err := h.registry.Engine(ctx, c.userID)
			if err != nil {
				h.hub.sendTo(c, errorEvent(err))
				continue
			}
			if _, err := engine.End(ctx); err != nil {
				h.hub.sendTo(c, errorEvent(err))
			}
		default:
			h.hub.sendTo(c, Event{Type: EventError, Error: "unknown frame type", Code: "bad_request"})
		}
	}
}

func (h *Handler) writeLoop(ctx context.Context, ws *websocket.Conn, c *client) {
	for {
		select {
		case <-ctx.Done():
			return
		case data, ok := <-c.send:
			if !ok {
				return
			}
			writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := ws.Write(writeCtx, websocket.MessageText, data)
			cancel()
			if err != nil {
				if ctx.Err() == nil {
					slog.Debug("WebSocket write error", "error", err, "user_id", c.userID)
				}
				return
			}
		}
	}
}

func errorEvent(err error) Event {
	ev := Event{Type: EventError, Error: err.Error(), Code: "internal"}
	switch {
	case errors.Is(err, domain.ErrInvalidState):
		ev.Code = "invalid_state"
	case errors.Is(err, domain.ErrValidation):
		ev.Code = "validation"
	case errors.Is(err, domain.ErrNotFound):
		ev.Code = "not_found"
	}
	return ev
}
