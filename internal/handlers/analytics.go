package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"clipforge-backend/internal/models"
	"clipforge-backend/internal/services"
)

type AnalyticsHandler struct {
	analyticsService *services.AnalyticsService
}

func NewAnalyticsHandler(analyticsService *services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

func (h *AnalyticsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateAnalyticsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	rec, err := h.analyticsService.Record(r.Context(), &req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, rec)
}

func (h *AnalyticsHandler) List(w http.ResponseWriter, r *http.Request) {
	var videoID *uuid.UUID
	if raw := r.URL.Query().Get("video_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid video_id", r))
			return
		}
		videoID = &id
	}

	records, err := h.analyticsService.List(r.Context(), videoID, queryLimit(r, defaultListLimit))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	if records == nil {
		records = []*models.AnalyticsRecord{}
	}

	writeJSON(w, http.StatusOK, records)
}
