package handlers

import (
	"net/http"

	"clipforge-backend/internal/models"
	"clipforge-backend/internal/services"
)

const defaultNicheLimit = 10

type NicheHandler struct {
	nicheService *services.NicheService
}

func NewNicheHandler(nicheService *services.NicheService) *NicheHandler {
	return &NicheHandler{nicheService: nicheService}
}

// List returns every scored niche.
func (h *NicheHandler) List(w http.ResponseWriter, r *http.Request) {
	niches, err := h.nicheService.List(r.Context(), queryLimit(r, defaultListLimit))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	if niches == nil {
		niches = []*models.NicheScore{}
	}

	writeJSON(w, http.StatusOK, niches)
}

// Recommended serves the cached profitability ranking.
func (h *NicheHandler) Recommended(w http.ResponseWriter, r *http.Request) {
	niches, err := h.nicheService.Recommended(r.Context(), queryLimit(r, defaultNicheLimit))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	if niches == nil {
		niches = []*models.NicheScore{}
	}

	writeJSON(w, http.StatusOK, niches)
}

// Recompute forces a fresh aggregation pass.
func (h *NicheHandler) Recompute(w http.ResponseWriter, r *http.Request) {
	scores, err := h.nicheService.Recompute(r.Context())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":        "Niche scores recomputed",
		"niches_updated": len(scores),
	})
}
