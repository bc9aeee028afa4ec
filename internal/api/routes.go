package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ashureev/practice-coach/internal/identity"
)

// RegisterRoutes registers the catalog, practice and analysis routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/me", h.GetMe)

		r.Route("/catalog", func(r chi.Router) {
			r.Get("/scenarios", h.ListScenarios)
			r.Get("/scenarios/{id}", h.GetScenario)
			r.Get("/personas", h.ListPersonas)
			r.Get("/personas/{id}", h.GetPersona)
		})

		r.Route("/practice", func(r chi.Router) {
			r.Post("/sessions", h.StartSession)
			r.Get("/session", h.GetSession)
			r.Post("/session/messages", h.SendMessage)
			r.Post("/session/end", h.EndSession)
			r.Get("/history", h.GetHistory)
		})

		r.Post("/analyze", h.Analyze)
	})
}

// GetMe returns the current user's information.
func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID := identity.UserIDFromContext(r.Context())
	if userID == "" {
		Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	resp := map[string]interface{}{
		"user_id":  userID,
		"username": identity.UsernameFromContext(r.Context()),
	}
	if h.users != nil {
		user, err := h.users.GetUser(r.Context(), userID)
		if err != nil || user == nil {
			Error(w, http.StatusUnauthorized, "user not found")
			return
		}
		resp["username"] = user.Username
		resp["created_at"] = user.CreatedAt
	}

	e, ok := h.engine(w, r, userID)
	if !ok {
		return
	}
	resp["state"] = e.State()
	resp["history_count"] = len(e.History())
	JSON(w, http.StatusOK, resp)
}
