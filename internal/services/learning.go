package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"clipforge-backend/internal/models"
	"clipforge-backend/internal/repository"
)

const (
	learningWindow     = 30 * 24 * time.Hour
	highPerformerViews = 10000
	lowPerformerViews  = 1000
	durationBandLow    = 0.8
	durationBandHigh   = 1.2
)

// LearningService records how published videos performed and mines the
// records for script-level patterns.
type LearningService struct {
	learningRepo *repository.LearningRepo
}

func NewLearningService(learningRepo *repository.LearningRepo) *LearningService {
	return &LearningService{learningRepo: learningRepo}
}

// RecordPerformance captures the script features of a video alongside
// its observed performance.
func (s *LearningService) RecordPerformance(ctx context.Context, video *models.Video, perf models.Performance) error {
	features := models.ScriptFeatures{
		Niche:           video.Niche,
		ViralityScore:   video.ViralityScore,
		DurationSeconds: video.Script.DurationSeconds,
		HookLength:      len([]rune(video.Script.Hook)),
		HashtagCount:    len(video.Script.Hashtags),
		HasCTA:          video.Script.CallToAction != "",
	}

	rec := &models.LearningRecord{
		VideoID:     video.ID,
		Features:    features,
		Performance: perf,
	}

	return s.learningRepo.Create(ctx, rec)
}

// Insights aggregates the last 30 days of records into optimal script
// parameters. With no records at all it reports insufficient data.
func (s *LearningService) Insights(ctx context.Context, niche string) (*models.Insights, error) {
	since := time.Now().UTC().Add(-learningWindow)
	records, err := s.learningRepo.ListSince(ctx, since, niche)
	if err != nil {
		return nil, fmt.Errorf("failed to load learning records: %w", err)
	}

	return computeInsights(records), nil
}

// SuggestImprovements compares a script against current insights and
// returns concrete adjustments.
func (s *LearningService) SuggestImprovements(ctx context.Context, script *models.Script, viralityScore float64, niche string) ([]string, error) {
	insights, err := s.Insights(ctx, niche)
	if err != nil {
		return nil, err
	}

	return suggestFromInsights(insights, script, viralityScore), nil
}

// computeInsights splits records into high and low performers and
// averages the winning features.
func computeInsights(records []*models.LearningRecord) *models.Insights {
	insights := &models.Insights{TotalVideos: len(records)}

	if len(records) == 0 {
		insights.Insufficient = true
		return insights
	}

	var high, low []*models.LearningRecord
	for _, rec := range records {
		switch {
		case rec.Performance.Views > highPerformerViews:
			high = append(high, rec)
		case rec.Performance.Views < lowPerformerViews:
			low = append(low, rec)
		}
	}
	insights.HighPerformers = len(high)
	insights.LowPerformers = len(low)

	if len(high) > 0 {
		var durationSum, viralitySum float64
		var hashtagSum int
		for _, rec := range high {
			durationSum += float64(rec.Features.DurationSeconds)
			viralitySum += rec.Features.ViralityScore
			hashtagSum += rec.Features.HashtagCount
		}

		optimalDuration := durationSum / float64(len(high))
		viralityThreshold := viralitySum / float64(len(high))
		optimalHashtags := int(math.Round(float64(hashtagSum) / float64(len(high))))

		insights.OptimalDuration = &optimalDuration
		insights.ViralityThreshold = &viralityThreshold
		insights.OptimalHashtags = &optimalHashtags

		insights.Recommendations = append(insights.Recommendations,
			fmt.Sprintf("Target a duration around %.0f seconds", optimalDuration),
			fmt.Sprintf("Scripts scoring above %.0f virality performed best", viralityThreshold),
			fmt.Sprintf("Use about %d hashtags", optimalHashtags),
		)
	}

	return insights
}

func suggestFromInsights(insights *models.Insights, script *models.Script, viralityScore float64) []string {
	if insights.Insufficient || insights.HighPerformers == 0 {
		return []string{"Not enough performance data yet. Publish more videos to unlock suggestions."}
	}

	var suggestions []string

	if insights.OptimalDuration != nil {
		duration := float64(script.DurationSeconds)
		optimal := *insights.OptimalDuration
		if duration < optimal*durationBandLow {
			suggestions = append(suggestions,
				fmt.Sprintf("Script is short at %ds. Top performers run around %.0fs.", script.DurationSeconds, optimal))
		} else if duration > optimal*durationBandHigh {
			suggestions = append(suggestions,
				fmt.Sprintf("Script is long at %ds. Top performers run around %.0fs.", script.DurationSeconds, optimal))
		}
	}

	if insights.ViralityThreshold != nil && viralityScore < *insights.ViralityThreshold {
		suggestions = append(suggestions,
			fmt.Sprintf("Virality score %.0f is below the %.0f threshold of recent winners. Strengthen the hook.", viralityScore, *insights.ViralityThreshold))
	}

	if insights.OptimalHashtags != nil && len(script.Hashtags) < *insights.OptimalHashtags {
		suggestions = append(suggestions,
			fmt.Sprintf("Only %d hashtags. Recent winners averaged %d: %s", len(script.Hashtags), *insights.OptimalHashtags, exampleHashtags(script.Hashtags)))
	}

	if len(suggestions) == 0 {
		suggestions = append(suggestions, "Script is well optimized against recent performance data.")
	}

	return suggestions
}

func exampleHashtags(tags []string) string {
	if len(tags) == 0 {
		return "#fyp #viral"
	}
	return strings.Join(tags, " ")
}
