package services

import (
	"testing"

	"clipforge-backend/internal/models"
	"clipforge-backend/internal/repository"
)

func TestScoreNiche(t *testing.T) {
	tests := []struct {
		name         string
		niche        models.NicheScore
		wantScore    float64
		wantTrending bool
		wantAvgViews float64
		wantAvgRev   float64
	}{
		{
			name: "maxed out trending niche",
			niche: models.NicheScore{
				TrendCount:      4,
				TotalViews:      800000, // avg 200k, capped at 50
				TotalEngagement: 80000,  // avg 20k, capped at 20
				VideoCount:      2,
				TotalRevenue:    400, // avg 200, capped at 20
			},
			wantScore:    100,
			wantTrending: true,
			wantAvgViews: 200000,
			wantAvgRev:   200,
		},
		{
			name: "sparse niche gets baseline bonus only",
			niche: models.NicheScore{
				TrendCount: 1,
			},
			wantScore:    5,
			wantTrending: false,
		},
		{
			name: "no trends no videos divides to zero",
			niche: models.NicheScore{
				TotalRevenue: 500,
			},
			wantScore:    5,
			wantTrending: false,
			wantAvgRev:   0,
		},
		{
			name: "partial contributions sum linearly",
			niche: models.NicheScore{
				TrendCount:      2,
				TotalViews:      100000, // avg 50k -> 25
				TotalEngagement: 10000,  // avg 5k -> 10
				VideoCount:      1,
				TotalRevenue:    50, // avg 50 -> 10
			},
			wantScore:    50, // 25 + 10 + 10 + 5 baseline
			wantTrending: false,
			wantAvgViews: 50000,
			wantAvgRev:   50,
		},
		{
			name: "three trends flips trending",
			niche: models.NicheScore{
				TrendCount: 3,
			},
			wantScore:    10,
			wantTrending: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := tt.niche
			scoreNiche(&n)

			if n.ProfitabilityScore != tt.wantScore {
				t.Errorf("score = %.2f, want %.2f", n.ProfitabilityScore, tt.wantScore)
			}
			if n.Trending != tt.wantTrending {
				t.Errorf("trending = %v, want %v", n.Trending, tt.wantTrending)
			}
			if tt.wantAvgViews != 0 && n.AvgViews != tt.wantAvgViews {
				t.Errorf("avg views = %.2f, want %.2f", n.AvgViews, tt.wantAvgViews)
			}
			if n.AvgRevenue != tt.wantAvgRev {
				t.Errorf("avg revenue = %.2f, want %.2f", n.AvgRevenue, tt.wantAvgRev)
			}
		})
	}
}

func TestAggregateNichesCountsMeasuredVideos(t *testing.T) {
	trends := []*models.Trend{
		{Niche: "tech", Views: 100000, Engagement: 5000},
		{Niche: "tech", Views: 50000, Engagement: 3000},
	}
	// One analytics row of 100 revenue: the average must stay 100, no
	// matter how many unmeasured videos exist in the niche.
	linked := map[string]repository.NicheRevenue{
		"tech": {LinkedCount: 1, TotalRevenue: 100},
	}

	byName := aggregateNiches(trends, linked)

	tech, ok := byName["tech"]
	if !ok {
		t.Fatal("tech niche missing from aggregation")
	}
	if tech.VideoCount != 1 {
		t.Errorf("video count = %d, want 1", tech.VideoCount)
	}
	if tech.AvgRevenue != 100 {
		t.Errorf("avg revenue = %.2f, want 100", tech.AvgRevenue)
	}
	if tech.TrendCount != 2 {
		t.Errorf("trend count = %d, want 2", tech.TrendCount)
	}
}

func TestAggregateNichesSeedsRevenueOnlyNiches(t *testing.T) {
	linked := map[string]repository.NicheRevenue{
		"cooking": {LinkedCount: 2, TotalRevenue: 80},
	}

	byName := aggregateNiches(nil, linked)

	cooking, ok := byName["cooking"]
	if !ok {
		t.Fatal("expected a row for a niche with revenue but no trends")
	}
	if cooking.TrendCount != 0 || cooking.AvgViews != 0 {
		t.Errorf("trend stats = (%d, %.2f), want zeros", cooking.TrendCount, cooking.AvgViews)
	}
	if cooking.AvgRevenue != 40 {
		t.Errorf("avg revenue = %.2f, want 40", cooking.AvgRevenue)
	}
}

func TestCappedAt(t *testing.T) {
	if got := cappedAt(75, 50); got != 50 {
		t.Errorf("cappedAt(75, 50) = %.2f, want 50", got)
	}
	if got := cappedAt(25, 50); got != 25 {
		t.Errorf("cappedAt(25, 50) = %.2f, want 25", got)
	}
}
