package models

import (
	"time"

	"github.com/google/uuid"
)

// Script is the structured output of one script-generation call. It is
// produced once per video and immutable afterwards; DurationSeconds is the
// provider's estimate, not measured from the rendered audio.
type Script struct {
	Title           string   `json:"title"`
	Script          string   `json:"script"`
	Hook            string   `json:"hook"`
	DurationSeconds int      `json:"duration_seconds"`
	Hashtags        []string `json:"hashtags"`
	Description     string   `json:"description"`
	CallToAction    string   `json:"call_to_action"`
}

type Video struct {
	ID             uuid.UUID `json:"id"`
	Title          string    `json:"title"`
	Niche          string    `json:"niche"`
	Script         Script    `json:"script"`
	ScriptDegraded bool      `json:"script_degraded"`
	ViralityScore  float64   `json:"virality_score"`
	VideoPath      string    `json:"-"`
	VideoURL       string    `json:"video_url"`
	Status         string    `json:"status"` // "completed" | "failed"
	CreatedAt      time.Time `json:"created_at"`
}

type GenerateVideoRequest struct {
	Niche          string `json:"niche"`
	InspirationURL string `json:"inspiration_url"`
	Tone           string `json:"tone"`
	Voice          string `json:"voice"`
}

type GenerateVideoResponse struct {
	VideoID        uuid.UUID `json:"video_id"`
	Script         Script    `json:"script"`
	ScriptDegraded bool      `json:"script_degraded"`
	ViralityScore  float64   `json:"virality_score"`
	VideoURL       string    `json:"video_url"`
	ImagesDropped  int       `json:"images_dropped"`
	Suggestions    []string  `json:"suggestions"`
}

// ImageAsset is one generated still, kept in memory until the assembler
// writes it into the render workspace.
type ImageAsset struct {
	Data     []byte
	MimeType string
	Prompt   string
}

// AudioTrack is the narrated voiceover for a whole script.
type AudioTrack struct {
	Data  []byte
	Speed float64
}
