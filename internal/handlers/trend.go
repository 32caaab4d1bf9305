package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"clipforge-backend/internal/models"
	"clipforge-backend/internal/services"
)

const defaultListLimit = 50

type TrendHandler struct {
	nicheService *services.NicheService
}

func NewTrendHandler(nicheService *services.NicheService) *TrendHandler {
	return &TrendHandler{nicheService: nicheService}
}

func (h *TrendHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTrendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	trend, err := h.nicheService.AddTrend(r.Context(), &req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, trend)
}

func (h *TrendHandler) List(w http.ResponseWriter, r *http.Request) {
	niche := r.URL.Query().Get("niche")
	limit := queryLimit(r, defaultListLimit)

	trends, err := h.nicheService.ViralTrends(r.Context(), niche, limit)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	if trends == nil {
		trends = []*models.Trend{}
	}

	writeJSON(w, http.StatusOK, trends)
}

func (h *TrendHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid trend ID", r))
		return
	}

	if err := h.nicheService.DeleteTrend(r.Context(), id); err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Trend deleted"})
}

// queryLimit parses ?limit= with a default and a sane ceiling.
func queryLimit(r *http.Request, def int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return def
	}
	if limit > 500 {
		return 500
	}
	return limit
}
