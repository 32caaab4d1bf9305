package services

import "fmt"

// ValidationError reports bad request input, field by field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %v", e.Fields)
}

func NewValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

// NotFoundError reports a missing resource.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

// ProviderError reports a failure in an upstream AI provider.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s provider error: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// MediaError reports an ffmpeg/ffprobe assembly failure.
type MediaError struct {
	Stage string
	Err   error
}

func (e *MediaError) Error() string {
	return fmt.Sprintf("media assembly failed at %s: %v", e.Stage, e.Err)
}

func (e *MediaError) Unwrap() error {
	return e.Err
}
