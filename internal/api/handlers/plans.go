package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/apeksha07/insurance-advisor/internal/api/middleware"
	"github.com/apeksha07/insurance-advisor/internal/plans"
)

// PlansHandler handles insurance plan recommendation endpoints.
type PlansHandler struct {
	scorer plans.Scorer
	log    zerolog.Logger
}

// NewPlansHandler creates a new plans handler.
func NewPlansHandler(scorer plans.Scorer, log zerolog.Logger) *PlansHandler {
	return &PlansHandler{scorer: scorer, log: log}
}

// RegisterRoutes sets up the plan recommendation routes.
func (h *PlansHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/recommendations", h.Recommend)
}

// Recommend handles POST /api/recommendations: score an applicant profile
// against the plan predictor and enrich the results from the plan catalog.
func (h *PlansHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	var profile plans.Profile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if profile.Age <= 0 {
		middleware.WriteError(w, http.StatusBadRequest, "Age must be a positive integer")
		return
	}

	scores, err := h.scorer.Score(r.Context(), profile)
	if err != nil {
		h.log.Error().Err(err).Msg("Plan scoring failed")
		middleware.WriteError(w, http.StatusBadGateway, "Plan predictor is unavailable")
		return
	}

	recs := plans.Recommend(scores, profile.Age)
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"recommendations": recs,
		"count":           len(recs),
	})
}
