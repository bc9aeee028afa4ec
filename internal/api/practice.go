package api

import (
	"log/slog"
	"net/http"

	"github.com/ashureev/practice-coach/internal/domain"
	"github.com/ashureev/practice-coach/internal/feedback"
	"github.com/ashureev/practice-coach/internal/identity"
)

type startRequest struct {
	ScenarioID string `json:"scenario_id"`
	PersonaID  string `json:"persona_id"`
}

type messageRequest struct {
	Content string `json:"content"`
}

type analyzeRequest struct {
	Content    string `json:"content"`
	ScenarioID string `json:"scenario_id"`
	PersonaID  string `json:"persona_id"`
}

// StartSession handles POST /api/practice/sessions.
func (h *Handler) StartSession(w http.ResponseWriter, r *http.Request) {
	userID := identity.UserIDFromContext(r.Context())
	var req startRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ScenarioID == "" || req.PersonaID == "" {
		Error(w, http.StatusBadRequest, "scenario_id and persona_id are required")
		return
	}

	if err := h.gate.AllowStart(r.Context(), userID); err != nil {
		slog.Info("Practice start refused by gate", "user_id", userID, "error", err)
		writeError(w, err)
		return
	}

	e, ok := h.engine(w, r, userID)
	if !ok {
		return
	}
	s, err := e.Start(r.Context(), req.ScenarioID, req.PersonaID)
	if err != nil {
		writeError(w, err)
		return
	}
	h.touch(userID)
	JSON(w, http.StatusCreated, s)
}

// GetSession handles GET /api/practice/session.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	e, ok := h.engine(w, r, identity.UserIDFromContext(r.Context()))
	if !ok {
		return
	}
	s, active := e.Active()
	if !active {
		Error(w, http.StatusNotFound, "no active session")
		return
	}
	JSON(w, http.StatusOK, s)
}

// SendMessage handles POST /api/practice/session/messages.
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	userID := identity.UserIDFromContext(r.Context())
	if !h.allow(w, userID) {
		return
	}
	var req messageRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	e, ok := h.engine(w, r, userID)
	if !ok {
		return
	}
	msg, err := e.SendUserMessage(r.Context(), req.Content)
	if err != nil {
		writeError(w, err)
		return
	}
	h.touch(userID)
	JSON(w, http.StatusCreated, msg)
}

// EndSession handles POST /api/practice/session/end.
func (h *Handler) EndSession(w http.ResponseWriter, r *http.Request) {
	e, ok := h.engine(w, r, identity.UserIDFromContext(r.Context()))
	if !ok {
		return
	}
	sum, err := e.End(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	JSON(w, http.StatusOK, sum)
}

// GetHistory handles GET /api/practice/history.
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	e, ok := h.engine(w, r, identity.UserIDFromContext(r.Context()))
	if !ok {
		return
	}
	JSON(w, http.StatusOK, e.History())
}

// Analyze handles POST /api/analyze, scoring a draft without a session.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Content == "" {
		Error(w, http.StatusBadRequest, "content is required")
		return
	}

	cat := h.registry.Catalog()
	var (
		scenario domain.Scenario
		p        domain.Persona
		err      error
	)
	if req.ScenarioID != "" {
		if scenario, err = cat.Scenario(req.ScenarioID); err != nil {
			writeError(w, err)
			return
		}
	}
	if req.PersonaID != "" {
		if p, err = cat.Persona(req.PersonaID); err != nil {
			writeError(w, err)
			return
		}
	}
	JSON(w, http.StatusOK, feedback.Analyze(req.Content, scenario, p))
}
