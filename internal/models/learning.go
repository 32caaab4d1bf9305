package models

import (
	"time"

	"github.com/google/uuid"
)

// ScriptFeatures are the attributes of a video that the learning service
// correlates with its measured performance.
type ScriptFeatures struct {
	Niche           string  `json:"niche"`
	ViralityScore   float64 `json:"virality_score"`
	DurationSeconds int     `json:"duration_seconds"`
	HookLength      int     `json:"hook_length"`
	HashtagCount    int     `json:"hashtag_count"`
	HasCTA          bool    `json:"has_cta"`
}

type Performance struct {
	Views    int64   `json:"views"`
	Likes    int64   `json:"likes"`
	Shares   int64   `json:"shares"`
	Comments int64   `json:"comments"`
	Revenue  float64 `json:"revenue"`
}

type LearningRecord struct {
	ID          uuid.UUID      `json:"id"`
	VideoID     uuid.UUID      `json:"video_id"`
	Features    ScriptFeatures `json:"features"`
	Performance Performance    `json:"performance"`
	RecordedAt  time.Time      `json:"recorded_at"`
}

// Insights summarises recent learning records. Insufficient is set when the
// sample is too small so callers can tell "no data" from real zeros.
type Insights struct {
	Insufficient      bool     `json:"insufficient_data"`
	TotalVideos       int      `json:"total_videos"`
	HighPerformers    int      `json:"high_performers"`
	LowPerformers     int      `json:"low_performers"`
	OptimalDuration   *float64 `json:"optimal_duration,omitempty"`
	ViralityThreshold *float64 `json:"virality_threshold,omitempty"`
	OptimalHashtags   *int     `json:"optimal_hashtags,omitempty"`
	Recommendations   []string `json:"recommendations"`
}
