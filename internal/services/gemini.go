package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"clipforge-backend/internal/models"
)

const (
	defaultViralityScore  = 50
	degradedHookLength    = 100
	degradedDurationSecs  = 45
	minScriptDurationSecs = 15
	maxScriptDurationSecs = 90
)

type GeminiService struct {
	client   *genai.Client
	model    *genai.GenerativeModel
	rateChan chan struct{} // Token bucket
}

func NewGeminiService(apiKey string, concurrentReqs int) (*GeminiService, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel("gemini-3-flash-preview")
	model.SetTemperature(0.8)
	model.SetTopP(0.95)

	// Token bucket for rate limiting
	rateChan := make(chan struct{}, concurrentReqs)
	for i := 0; i < concurrentReqs; i++ {
		rateChan <- struct{}{}
	}

	return &GeminiService{
		client:   client,
		model:    model,
		rateChan: rateChan,
	}, nil
}

func (s *GeminiService) Close() {
	s.client.Close()
}

// acquireRate blocks until a rate slot is available
func (s *GeminiService) acquireRate(ctx context.Context) error {
	select {
	case <-s.rateChan:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(5 * time.Minute):
		return fmt.Errorf("timeout waiting for Gemini rate slot")
	}
}

func (s *GeminiService) releaseRate() {
	s.rateChan <- struct{}{}
}

// GenerateScript produces a structured short-form video script. When the
// model response cannot be parsed as JSON the raw text is kept and the
// script is tagged degraded instead of failing the run.
func (s *GeminiService) GenerateScript(ctx context.Context, niche, tone, reference string) (*models.Script, bool, error) {
	if err := s.acquireRate(ctx); err != nil {
		return nil, false, err
	}
	defer s.releaseRate()

	prompt := buildScriptPrompt(niche, tone, reference)

	resp, err := s.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, false, &ProviderError{Provider: "gemini", Err: err}
	}

	rawText := strings.TrimSpace(extractText(resp))
	if rawText == "" {
		return nil, false, &ProviderError{Provider: "gemini", Err: fmt.Errorf("empty script response")}
	}

	cleaned := stripJSONFences(rawText)

	var script models.Script
	if err := json.Unmarshal([]byte(cleaned), &script); err != nil {
		// Try to extract a JSON object from surrounding prose
		start := strings.Index(cleaned, "{")
		end := strings.LastIndex(cleaned, "}")
		if start >= 0 && end > start {
			err = json.Unmarshal([]byte(cleaned[start:end+1]), &script)
		}
		if err != nil || script.Script == "" {
			log.Printf("script response was not valid JSON, keeping raw text (niche=%s)", niche)
			return degradedScript(rawText, niche), true, nil
		}
	}

	if script.Title == "" {
		script.Title = fmt.Sprintf("%s short", niche)
	}
	if script.Hook == "" {
		script.Hook = firstN(script.Script, degradedHookLength)
	}
	if script.DurationSeconds < minScriptDurationSecs || script.DurationSeconds > maxScriptDurationSecs {
		script.DurationSeconds = degradedDurationSecs
	}
	if len(script.Hashtags) == 0 {
		script.Hashtags = []string{"#fyp", "#viral"}
	}

	return &script, false, nil
}

// ImagePrompts asks the model for n visual scene prompts. On any failure
// it falls back to prompts derived from the script itself so image
// generation can still proceed.
func (s *GeminiService) ImagePrompts(ctx context.Context, script *models.Script, n int) []string {
	if err := s.acquireRate(ctx); err != nil {
		return fallbackImagePrompts(script, n)
	}
	defer s.releaseRate()

	prompt := fmt.Sprintf(`You are a visual director for short vertical videos.
Given the script below, return ONLY a valid JSON array of exactly %d strings.
Each string is a vivid, concrete image generation prompt for one scene, in
chronological order. No preamble, no markdown, no backticks.

Title: %s
Script:
%s`, n, script.Title, script.Script)

	resp, err := s.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		log.Printf("image prompt generation failed, using fallback prompts: %v", err)
		return fallbackImagePrompts(script, n)
	}

	rawText := stripJSONFences(extractText(resp))

	var prompts []string
	if err := json.Unmarshal([]byte(rawText), &prompts); err != nil {
		start := strings.Index(rawText, "[")
		end := strings.LastIndex(rawText, "]")
		if start >= 0 && end > start {
			json.Unmarshal([]byte(rawText[start:end+1]), &prompts)
		}
	}

	// Pad or trim to exactly n
	if len(prompts) == 0 {
		return fallbackImagePrompts(script, n)
	}
	for len(prompts) < n {
		prompts = append(prompts, prompts[len(prompts)-1])
	}
	return prompts[:n]
}

// ScoreVirality rates a script 0-100. Failures return the neutral default
// rather than an error since scoring never blocks generation.
func (s *GeminiService) ScoreVirality(ctx context.Context, script *models.Script) float64 {
	if err := s.acquireRate(ctx); err != nil {
		return defaultViralityScore
	}
	defer s.releaseRate()

	prompt := fmt.Sprintf(`Rate the viral potential of this short-form video script from 0 to 100.
Consider hook strength, pacing, emotional pull, and shareability.
Return ONLY a valid JSON object: {"score": <number>}

Title: %s
Hook: %s
Script:
%s`, script.Title, script.Hook, script.Script)

	resp, err := s.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		log.Printf("virality scoring failed, using default: %v", err)
		return defaultViralityScore
	}

	rawText := stripJSONFences(extractText(resp))

	var result struct {
		Score float64 `json:"score"`
	}
	if err := json.Unmarshal([]byte(rawText), &result); err != nil {
		start := strings.Index(rawText, "{")
		end := strings.LastIndex(rawText, "}")
		if start >= 0 && end > start {
			json.Unmarshal([]byte(rawText[start:end+1]), &result)
		}
	}

	if result.Score <= 0 {
		return defaultViralityScore
	}
	if result.Score > 100 {
		return 100
	}
	return result.Score
}

// TranscribeAudio uses the Gemini File API to transcribe audio bytes.
func (s *GeminiService) TranscribeAudio(ctx context.Context, audio []byte, mimeType string) (string, error) {
	if err := s.acquireRate(ctx); err != nil {
		return "", err
	}
	defer s.releaseRate()

	if len(audio) == 0 {
		return "", fmt.Errorf("audio payload is empty")
	}

	file, err := s.client.UploadFile(ctx, "", bytes.NewReader(audio), &genai.UploadFileOptions{
		DisplayName: "reference-audio",
		MIMEType:    mimeType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload audio to Gemini: %w", err)
	}

	// Ensure remote file is cleaned up
	defer s.client.DeleteFile(context.Background(), file.Name)

	// Wait until file is active
	for i := 0; i < 20; i++ {
		current, getErr := s.client.GetFile(ctx, file.Name)
		if getErr != nil {
			return "", fmt.Errorf("failed to get uploaded file status: %w", getErr)
		}

		if current.State == genai.FileStateActive {
			file = current
			break
		}
		if current.State == genai.FileStateFailed {
			return "", fmt.Errorf("Gemini failed to process uploaded audio file")
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(2 * time.Second):
		}
	}

	if file.State != genai.FileStateActive {
		return "", fmt.Errorf("audio file did not become active in time")
	}

	prompt := "Transcribe the provided audio verbatim. Return plain text only, without markdown, headers, or explanations."

	resp, err := s.model.GenerateContent(ctx,
		genai.Text(prompt),
		genai.FileData{MIMEType: mimeType, URI: file.URI},
	)
	if err != nil {
		return "", fmt.Errorf("Gemini transcription error: %w", err)
	}

	text := strings.TrimSpace(extractText(resp))
	if text == "" {
		return "", fmt.Errorf("Gemini returned empty transcription")
	}

	return text, nil
}

// Helper functions

func extractText(resp *genai.GenerateContentResponse) string {
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}

func stripJSONFences(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

// degradedScript wraps unparseable model output so the pipeline can
// continue with a best-effort script.
func degradedScript(rawText, niche string) *models.Script {
	return &models.Script{
		Title:           fmt.Sprintf("%s short", niche),
		Script:          rawText,
		Hook:            firstN(rawText, degradedHookLength),
		DurationSeconds: degradedDurationSecs,
		Hashtags:        []string{"#fyp", "#viral"},
	}
}

func firstN(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func fallbackImagePrompts(script *models.Script, n int) []string {
	prompts := make([]string, n)
	for i := 0; i < n; i++ {
		prompts[i] = fmt.Sprintf("%s, cinematic vertical scene %d of %d, dramatic lighting, photorealistic", script.Title, i+1, n)
	}
	return prompts
}

func buildScriptPrompt(niche, tone, reference string) string {
	var b strings.Builder

	b.WriteString("You are an expert short-form video scriptwriter. Write a script for a vertical video under 60 seconds.\n\n")
	b.WriteString("CRITICAL: Return ONLY a valid JSON object. No preamble, no markdown, no backticks.\n\n")
	b.WriteString(fmt.Sprintf("Niche: %s\n", niche))

	if tone != "" {
		b.WriteString(fmt.Sprintf("Tone: %s\n", tone))
	}

	b.WriteString(`
JSON schema:
{"title": "string under 60 chars", "script": "full narration text", "hook": "first 3 seconds, must grab attention", "duration_seconds": int, "hashtags": ["#tag1", "#tag2"], "description": "string", "call_to_action": "string"}

Rules:
- The hook must create curiosity or tension in the first sentence
- Narration should read naturally aloud at a brisk pace
- duration_seconds between 30 and 60
- 3 to 6 hashtags, first two broad, rest niche-specific
`)

	if reference != "" {
		b.WriteString("\nUse this reference content for inspiration (do not copy it verbatim):\n---REFERENCE START---\n")
		b.WriteString(reference)
		b.WriteString("\n---REFERENCE END---\n")
	}

	return b.String()
}
