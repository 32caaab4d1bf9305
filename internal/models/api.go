package models

import "github.com/google/uuid"

// API Error response
type APIError struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id"`
}

type ErrorResponse struct {
	Error APIError `json:"error"`
}

type TokenRequest struct {
	APIKey string `json:"api_key"`
}

type TokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}

// WebSocket message types
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type StatusUpdate struct {
	VideoID                   uuid.UUID `json:"video_id"`
	Step                      int       `json:"step"`
	StepName                  string    `json:"step_name"`
	EstimatedSecondsRemaining int       `json:"estimated_seconds_remaining"`
}

type CompletedEvent struct {
	VideoID  uuid.UUID `json:"video_id"`
	VideoURL string    `json:"video_url"`
}

type ErrorEvent struct {
	VideoID      uuid.UUID `json:"video_id"`
	ErrorCode    string    `json:"error_code"`
	ErrorMessage string    `json:"error_message"`
}
