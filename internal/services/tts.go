package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"clipforge-backend/internal/models"
)

const openAISpeechURL = "https://api.openai.com/v1/audio/speech"

// TTSService synthesizes narration audio via the OpenAI speech API.
// Unlike images, a TTS failure is fatal: a short without narration is
// not worth assembling.
type TTSService struct {
	apiKey     string
	voice      string
	speed      float64
	httpClient *http.Client
}

func NewTTSService(apiKey, voice string, speed float64) *TTSService {
	return &TTSService{
		apiKey:     apiKey,
		voice:      voice,
		speed:      speed,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

// Synthesize renders narration. An empty voice falls back to the
// configured default.
func (s *TTSService) Synthesize(ctx context.Context, text, voice string) (*models.AudioTrack, error) {
	if voice == "" {
		voice = s.voice
	}

	payload := map[string]interface{}{
		"model":           "tts-1",
		"input":           text,
		"voice":           voice,
		"speed":           s.speed,
		"response_format": "mp3",
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal TTS request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, openAISpeechURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, &ProviderError{Provider: "openai-tts", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &ProviderError{
			Provider: "openai-tts",
			Err:      fmt.Errorf("status %d: %s", resp.StatusCode, string(errBody)),
		}
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ProviderError{Provider: "openai-tts", Err: fmt.Errorf("failed to read audio body: %w", err)}
	}
	if len(audio) == 0 {
		return nil, &ProviderError{Provider: "openai-tts", Err: fmt.Errorf("empty audio response")}
	}

	return &models.AudioTrack{Data: audio, Speed: s.speed}, nil
}
