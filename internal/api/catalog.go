package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// ListScenarios returns every practice scenario.
func (h *Handler) ListScenarios(w http.ResponseWriter, _ *http.Request) {
	JSON(w, http.StatusOK, h.registry.Catalog().Scenarios())
}

// GetScenario returns one scenario by id.
func (h *Handler) GetScenario(w http.ResponseWriter, r *http.Request) {
	s, err := h.registry.Catalog().Scenario(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	JSON(w, http.StatusOK, s)
}

// ListPersonas returns every persona.
func (h *Handler) ListPersonas(w http.ResponseWriter, _ *http.Request) {
	JSON(w, http.StatusOK, h.registry.Catalog().Personas())
}

// GetPersona returns one persona by id.
func (h *Handler) GetPersona(w http.ResponseWriter, r *http.Request) {
	p, err := h.registry.Catalog().Persona(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	JSON(w, http.StatusOK, p)
}
