package handlers

import (
	"net/http"

	"clipforge-backend/internal/services"
)

type DashboardHandler struct {
	analyticsService *services.AnalyticsService
}

func NewDashboardHandler(analyticsService *services.AnalyticsService) *DashboardHandler {
	return &DashboardHandler{analyticsService: analyticsService}
}

func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.analyticsService.Dashboard(r.Context())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
