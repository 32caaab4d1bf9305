package handlers

import (
	"encoding/json"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"clipforge-backend/internal/middleware"
	"clipforge-backend/internal/models"
	"clipforge-backend/internal/services"
)

type AuthHandler struct {
	jwtAuth      *middleware.JWTAuth
	adminKeyHash string
}

func NewAuthHandler(jwtAuth *middleware.JWTAuth, adminKeyHash string) *AuthHandler {
	return &AuthHandler{jwtAuth: jwtAuth, adminKeyHash: adminKeyHash}
}

// Token exchanges the admin API key for a short-lived JWT.
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	var req models.TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if req.APIKey == "" {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
			map[string]string{"api_key": "api_key is required"}, r))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(h.adminKeyHash), []byte(req.APIKey)); err != nil {
		writeJSON(w, http.StatusUnauthorized, errorResp("UNAUTHORIZED", "Invalid API key", r))
		return
	}

	token, expiresIn, err := h.jwtAuth.GenerateToken()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to issue token", r))
		return
	}

	writeJSON(w, http.StatusOK, models.TokenResponse{Token: token, ExpiresIn: int(expiresIn)})
}

// Shared helpers

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func errorResp(code, message string, r *http.Request) models.ErrorResponse {
	return models.ErrorResponse{
		Error: models.APIError{
			Code:      code,
			Message:   message,
			RequestID: r.Header.Get("X-Request-ID"),
		},
	}
}

func errorRespWithFields(code, message string, fields map[string]string, r *http.Request) models.ErrorResponse {
	return models.ErrorResponse{
		Error: models.APIError{
			Code:      code,
			Message:   message,
			Fields:    fields,
			RequestID: r.Header.Get("X-Request-ID"),
		},
	}
}

func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch e := err.(type) {
	case *services.ValidationError:
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", e.Fields, r))
	case *services.NotFoundError:
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", e.Error(), r))
	case *services.ProviderError:
		writeJSON(w, http.StatusBadGateway, errorResp("PROVIDER_ERROR", e.Error(), r))
	case *services.MediaError:
		writeJSON(w, http.StatusInternalServerError, errorResp("MEDIA_ERROR", e.Error(), r))
	default:
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "An unexpected error occurred", r))
	}
}
