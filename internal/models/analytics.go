package models

import (
	"time"

	"github.com/google/uuid"
)

// AnalyticsRecord holds published-video performance numbers. VideoID is a
// best-effort reference: a record may outlive its video, and joins skip
// records whose video no longer exists.
type AnalyticsRecord struct {
	ID       uuid.UUID `json:"id"`
	VideoID  uuid.UUID `json:"video_id"`
	Views    int64     `json:"views"`
	Likes    int64     `json:"likes"`
	Shares   int64     `json:"shares"`
	Comments int64     `json:"comments"`
	Revenue  float64   `json:"revenue"`
	Date     time.Time `json:"date"`
}

type CreateAnalyticsRequest struct {
	VideoID  uuid.UUID  `json:"video_id"`
	Views    int64      `json:"views"`
	Likes    int64      `json:"likes"`
	Shares   int64      `json:"shares"`
	Comments int64      `json:"comments"`
	Revenue  float64    `json:"revenue"`
	Date     *time.Time `json:"date"`
}

// DashboardStats is the aggregate view served to the dashboard.
type DashboardStats struct {
	TotalTrends    int64      `json:"total_trends"`
	TotalVideos    int64      `json:"total_videos"`
	TotalNiches    int64      `json:"total_niches"`
	TotalAnalytics int64      `json:"total_analytics"`
	RecentViews    int64      `json:"recent_views"`
	RecentLikes    int64      `json:"recent_likes"`
	RecentShares   int64      `json:"recent_shares"`
	RecentComments int64      `json:"recent_comments"`
	RecentRevenue  float64    `json:"recent_revenue"`
	TopVideos      []TopVideo `json:"top_videos"`
}

// TopVideo joins a high-performing analytics record with its video.
// Records whose video has been deleted are skipped.
type TopVideo struct {
	VideoID uuid.UUID `json:"video_id"`
	Title   string    `json:"title"`
	Niche   string    `json:"niche"`
	Views   int64     `json:"views"`
	Revenue float64   `json:"revenue"`
}

type FeedbackRequest struct {
	VideoID  uuid.UUID `json:"video_id"`
	Views    int64     `json:"views"`
	Likes    int64     `json:"likes"`
	Shares   int64     `json:"shares"`
	Comments int64     `json:"comments"`
	Revenue  float64   `json:"revenue"`
}
