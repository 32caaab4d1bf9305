package handlers

import (
	"encoding/json"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"clipforge-backend/internal/models"
	"clipforge-backend/internal/services"
)

type VideoHandler struct {
	videoService *services.VideoService
}

func NewVideoHandler(videoService *services.VideoService) *VideoHandler {
	return &VideoHandler{videoService: videoService}
}

// Generate runs the whole pipeline synchronously. Clients that want
// progress subscribe to /ws?video_id=... after the first status event.
func (h *VideoHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateVideoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	resp, err := h.videoService.Generate(r.Context(), &req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

func (h *VideoHandler) List(w http.ResponseWriter, r *http.Request) {
	niche := r.URL.Query().Get("niche")

	videos, err := h.videoService.List(r.Context(), niche, queryLimit(r, defaultListLimit))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	if videos == nil {
		videos = []*models.Video{}
	}

	writeJSON(w, http.StatusOK, videos)
}

func (h *VideoHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid video ID", r))
		return
	}

	video, err := h.videoService.Get(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, video)
}

// Download streams the rendered MP4 from disk.
func (h *VideoHandler) Download(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid video ID", r))
		return
	}

	video, err := h.videoService.Get(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	if _, err := os.Stat(video.VideoPath); err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Video file is no longer available", r))
		return
	}

	w.Header().Set("Content-Type", "video/mp4")
	w.Header().Set("Content-Disposition", `attachment; filename="`+id.String()+`.mp4"`)
	http.ServeFile(w, r, video.VideoPath)
}

func (h *VideoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid video ID", r))
		return
	}

	if err := h.videoService.Delete(r.Context(), id); err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Video deleted"})
}
