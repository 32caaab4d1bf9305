package models

import (
	"time"

	"github.com/google/uuid"
)

// NicheScore is the recomputed-from-scratch profitability snapshot for one
// niche. Rows are upserted by Name on every recompute.
type NicheScore struct {
	ID                 uuid.UUID `json:"id"`
	Name               string    `json:"name"`
	TrendCount         int64     `json:"trend_count"`
	TotalViews         int64     `json:"total_views"`
	TotalEngagement    int64     `json:"total_engagement"`
	VideoCount         int64     `json:"video_count"`
	TotalRevenue       float64   `json:"total_revenue"`
	AvgViews           float64   `json:"avg_views"`
	AvgEngagement      float64   `json:"avg_engagement"`
	AvgRevenue         float64   `json:"avg_revenue"`
	ProfitabilityScore float64   `json:"profitability_score"`
	Trending           bool      `json:"trending"`
	LastUpdated        time.Time `json:"last_updated"`
}
