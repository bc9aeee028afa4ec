// Package realtime pushes practice events to browser websocket connections.
package realtime

import (
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/ashureev/practice-coach/internal/domain"
	"github.com/ashureev/practice-coach/internal/metrics"
)

// Outbound event types.
const (
	EventTyping       = "typing"
	EventMessage      = "message"
	EventSessionEnded = "session_ended"
	EventSession      = "session"
	EventPong         = "pong"
	EventError        = "error"
)

const clientBuffer = 64

// Event is an outbound websocket frame.
type Event struct {
	Type      string                 `json:"type"`
	SessionID string                 `json:"session_id,omitempty"`
	Typing    *bool                  `json:"typing,omitempty"`
	Message   *domain.Message        `json:"message,omitempty"`
	Summary   *domain.SessionSummary `json:"summary,omitempty"`
	Session   *domain.Session        `json:"session,omitempty"`
	Error     string                 `json:"error,omitempty"`
	Code      string                 `json:"code,omitempty"`
}

type client struct {
	id     uint64
	userID string
	send   chan []byte
}

// Hub fans engine events out to every connection of a user.
type Hub struct {
	logger  *slog.Logger
	nextID  atomic.Uint64
	mu      sync.RWMutex
	clients map[string]map[uint64]*client
}

// NewHub creates an empty hub.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		logger:  logger,
		clients: make(map[string]map[uint64]*client),
	}
}

func (h *Hub) register(userID string) *client {
	c := &client{
		id:     h.nextID.Add(1),
		userID: userID,
		send:   make(chan []byte, clientBuffer),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[userID]; !ok {
		h.clients[userID] = make(map[uint64]*client)
	}
	h.clients[userID][c.id] = c
	metrics.WebsocketConnections.Inc()
	h.logger.Info("Practice feed registered", "user_id", userID, "conn_id", c.id)
	return c
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.clients[c.userID]
	if !ok {
		return
	}
	if _, exists := conns[c.id]; !exists {
		return
	}
	delete(conns, c.id)
	if len(conns) == 0 {
		delete(h.clients, c.userID)
	}
	close(c.send)
	metrics.WebsocketConnections.Dec()
	h.logger.Info("Practice feed unregistered", "user_id", c.userID, "conn_id", c.id)
}

// Connections returns the number of open connections for a user.
func (h *Hub) Connections(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// Publish sends ev to every connection of userID. Slow connections drop events.
func (h *Hub) Publish(userID string, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		h.logger.Warn("Failed to marshal practice event", "type", ev.Type, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients[userID] {
		h.enqueue(c, data)
	}
}

// enqueue performs a non-blocking send. Caller holds h.mu.
func (h *Hub) enqueue(c *client, data []byte) {
	select {
	case c.send <- data:
	default:
		h.logger.Warn("Practice feed buffer full, dropping event", "user_id", c.userID, "conn_id", c.id)
	}
}

// sendTo delivers ev to a single connection.
func (h *Hub) sendTo(c *client, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, ok := h.clients[c.userID][c.id]; ok {
		h.enqueue(c, data)
	}
}

// PartnerTyping implements practice.Listener.
func (h *Hub) PartnerTyping(userID, sessionID string, typing bool) {
	h.Publish(userID, Event{Type: EventTyping, SessionID: sessionID, Typing: &typing})
}

// MessageAppended implements practice.Listener.
func (h *Hub) MessageAppended(userID, sessionID string, msg domain.Message) {
	h.Publish(userID, Event{Type: EventMessage, SessionID: sessionID, Message: &msg})
}

// SessionEnded implements practice.Listener.
func (h *Hub) SessionEnded(userID string, summary domain.SessionSummary) {
	h.Publish(userID, Event{Type: EventSessionEnded, SessionID: summary.SessionID, Summary: &summary})
}
