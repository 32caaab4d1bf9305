package services

import (
	"strings"
	"testing"

	"clipforge-backend/internal/models"
)

func record(views int64, duration int, virality float64, hashtags int) *models.LearningRecord {
	return &models.LearningRecord{
		Features: models.ScriptFeatures{
			DurationSeconds: duration,
			ViralityScore:   virality,
			HashtagCount:    hashtags,
		},
		Performance: models.Performance{Views: views},
	}
}

func TestComputeInsightsInsufficientData(t *testing.T) {
	insights := computeInsights(nil)

	if !insights.Insufficient {
		t.Fatal("expected insufficient data flag with no records")
	}
	if insights.TotalVideos != 0 {
		t.Errorf("total videos = %d, want 0", insights.TotalVideos)
	}
	if insights.OptimalDuration != nil {
		t.Error("expected no optimal duration with no records")
	}
}

func TestComputeInsightsSmallSample(t *testing.T) {
	// Even a two-record sample with one high performer yields exact
	// averages, not an insufficient-data report.
	records := []*models.LearningRecord{
		record(50000, 40, 80, 4),
		record(200, 30, 40, 2),
	}

	insights := computeInsights(records)

	if insights.Insufficient {
		t.Fatal("did not expect insufficient data flag for a non-empty sample")
	}
	if insights.TotalVideos != 2 {
		t.Errorf("total videos = %d, want 2", insights.TotalVideos)
	}
	if insights.HighPerformers != 1 {
		t.Errorf("high performers = %d, want 1", insights.HighPerformers)
	}
	if insights.OptimalDuration == nil || *insights.OptimalDuration != 40 {
		t.Errorf("optimal duration = %v, want 40", insights.OptimalDuration)
	}
}

func TestComputeInsightsAveragesHighPerformers(t *testing.T) {
	records := []*models.LearningRecord{
		record(50000, 40, 80, 4),
		record(20000, 60, 70, 6),
		record(500, 90, 20, 1),
		record(5000, 45, 50, 3), // mid-band: neither high nor low
		record(800, 20, 30, 2),
	}

	insights := computeInsights(records)

	if insights.Insufficient {
		t.Fatal("did not expect insufficient data flag")
	}
	if insights.HighPerformers != 2 {
		t.Errorf("high performers = %d, want 2", insights.HighPerformers)
	}
	if insights.LowPerformers != 2 {
		t.Errorf("low performers = %d, want 2", insights.LowPerformers)
	}
	if insights.OptimalDuration == nil || *insights.OptimalDuration != 50 {
		t.Errorf("optimal duration = %v, want 50", insights.OptimalDuration)
	}
	if insights.ViralityThreshold == nil || *insights.ViralityThreshold != 75 {
		t.Errorf("virality threshold = %v, want 75", insights.ViralityThreshold)
	}
	if insights.OptimalHashtags == nil || *insights.OptimalHashtags != 5 {
		t.Errorf("optimal hashtags = %v, want 5", insights.OptimalHashtags)
	}
	if len(insights.Recommendations) != 3 {
		t.Errorf("recommendations = %d, want 3", len(insights.Recommendations))
	}
}

func TestSuggestFromInsights(t *testing.T) {
	optimalDuration := 50.0
	threshold := 75.0
	hashtags := 5
	insights := &models.Insights{
		HighPerformers:    2,
		OptimalDuration:   &optimalDuration,
		ViralityThreshold: &threshold,
		OptimalHashtags:   &hashtags,
	}

	tests := []struct {
		name     string
		script   models.Script
		virality float64
		wantSubs []string
	}{
		{
			name:     "short low-virality script gets multiple suggestions",
			script:   models.Script{DurationSeconds: 30, Hashtags: []string{"#a", "#b"}},
			virality: 60,
			wantSubs: []string{"short at 30s", "below the 75 threshold", "Only 2 hashtags"},
		},
		{
			name:     "overlong script flagged",
			script:   models.Script{DurationSeconds: 70, Hashtags: []string{"#a", "#b", "#c", "#d", "#e"}},
			virality: 80,
			wantSubs: []string{"long at 70s"},
		},
		{
			name:     "well optimized script gets single confirmation",
			script:   models.Script{DurationSeconds: 50, Hashtags: []string{"#a", "#b", "#c", "#d", "#e"}},
			virality: 80,
			wantSubs: []string{"well optimized"},
		},
		{
			name:     "extra hashtags do not trigger a suggestion",
			script:   models.Script{DurationSeconds: 50, Hashtags: []string{"#a", "#b", "#c", "#d", "#e", "#f", "#g"}},
			virality: 80,
			wantSubs: []string{"well optimized"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := suggestFromInsights(insights, &tt.script, tt.virality)

			joined := strings.Join(got, "\n")
			for _, sub := range tt.wantSubs {
				if !strings.Contains(joined, sub) {
					t.Errorf("suggestions missing %q, got:\n%s", sub, joined)
				}
			}
			if tt.name == "well optimized script gets single confirmation" && len(got) != 1 {
				t.Errorf("expected exactly one suggestion, got %d", len(got))
			}
		})
	}
}

func TestSuggestFromInsightsWithoutData(t *testing.T) {
	got := suggestFromInsights(&models.Insights{Insufficient: true}, &models.Script{}, 50)
	if len(got) != 1 || !strings.Contains(got[0], "Not enough performance data") {
		t.Errorf("unexpected suggestions: %v", got)
	}
}
