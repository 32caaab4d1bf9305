package handlers

import (
	"encoding/json"
	"net/http"

	"clipforge-backend/internal/models"
	"clipforge-backend/internal/services"
)

type LearningHandler struct {
	learningService  *services.LearningService
	analyticsService *services.AnalyticsService
}

func NewLearningHandler(learningService *services.LearningService, analyticsService *services.AnalyticsService) *LearningHandler {
	return &LearningHandler{learningService: learningService, analyticsService: analyticsService}
}

// Insights reports optimal script parameters mined from the last month
// of performance data, optionally scoped with ?niche=.
func (h *LearningHandler) Insights(w http.ResponseWriter, r *http.Request) {
	insights, err := h.learningService.Insights(r.Context(), r.URL.Query().Get("niche"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, insights)
}

// Feedback records observed performance for a video directly into the
// learning loop.
func (h *LearningHandler) Feedback(w http.ResponseWriter, r *http.Request) {
	var req models.FeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if err := h.analyticsService.Feedback(r.Context(), &req); err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Feedback recorded"})
}
