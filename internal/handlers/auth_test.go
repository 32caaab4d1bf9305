package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"clipforge-backend/internal/middleware"
	"clipforge-backend/internal/models"
	"clipforge-backend/internal/services"
)

func newTestAuthHandler(t *testing.T, apiKey string) *AuthHandler {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(apiKey), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	return NewAuthHandler(middleware.NewJWTAuth("test-secret"), string(hash))
}

func TestTokenExchange(t *testing.T) {
	h := newTestAuthHandler(t, "correct-key")

	req := httptest.NewRequest("POST", "/api/v1/auth/token", strings.NewReader(`{"api_key":"correct-key"}`))
	rec := httptest.NewRecorder()
	h.Token(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", rec.Code, rec.Body.String())
	}

	var resp models.TokenResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Token == "" {
		t.Error("empty token in response")
	}
	if resp.ExpiresIn != 12*60*60 {
		t.Errorf("expires_in = %d, want 43200", resp.ExpiresIn)
	}
}

func TestTokenExchangeRejections(t *testing.T) {
	h := newTestAuthHandler(t, "correct-key")

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{"wrong key", `{"api_key":"wrong-key"}`, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"missing key", `{}`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"malformed body", `not json`, http.StatusBadRequest, "VALIDATION_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/v1/auth/token", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.Token(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			var resp models.ErrorResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("decode error response: %v", err)
			}
			if resp.Error.Code != tt.wantCode {
				t.Errorf("error code = %q, want %q", resp.Error.Code, tt.wantCode)
			}
		})
	}
}

func TestHandleServiceError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", services.NewValidationError(map[string]string{"niche": "required"}), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"not found", &services.NotFoundError{Resource: "video"}, http.StatusNotFound, "NOT_FOUND"},
		{"provider", &services.ProviderError{Provider: "gemini"}, http.StatusBadGateway, "PROVIDER_ERROR"},
		{"media", &services.MediaError{Stage: "mux"}, http.StatusInternalServerError, "MEDIA_ERROR"},
		{"unknown", http.ErrBodyNotAllowed, http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.Header.Set("X-Request-ID", "req-42")
			rec := httptest.NewRecorder()

			handleServiceError(rec, req, tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			var resp models.ErrorResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("decode error response: %v", err)
			}
			if resp.Error.Code != tt.wantCode {
				t.Errorf("error code = %q, want %q", resp.Error.Code, tt.wantCode)
			}
			if resp.Error.RequestID != "req-42" {
				t.Errorf("request_id = %q, want req-42", resp.Error.RequestID)
			}
		})
	}
}

func TestQueryLimit(t *testing.T) {
	tests := []struct {
		query string
		want  int
	}{
		{"", 50},
		{"limit=20", 20},
		{"limit=0", 50},
		{"limit=-5", 50},
		{"limit=junk", 50},
		{"limit=9999", 500},
	}

	for _, tt := range tests {
		req := httptest.NewRequest("GET", "/?"+tt.query, nil)
		if got := queryLimit(req, 50); got != tt.want {
			t.Errorf("queryLimit(%q) = %d, want %d", tt.query, got, tt.want)
		}
	}
}
