package services

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"clipforge-backend/internal/models"
	"clipforge-backend/internal/repository"
)

const (
	recentAnalyticsWindow = 100
	topVideosLimit        = 5
)

// AnalyticsService records published performance and feeds it into the
// learning loop.
type AnalyticsService struct {
	analyticsRepo *repository.AnalyticsRepo
	videoRepo     *repository.VideoRepo
	trendRepo     *repository.TrendRepo
	nicheRepo     *repository.NicheRepo
	learning      *LearningService
}

func NewAnalyticsService(
	analyticsRepo *repository.AnalyticsRepo,
	videoRepo *repository.VideoRepo,
	trendRepo *repository.TrendRepo,
	nicheRepo *repository.NicheRepo,
	learning *LearningService,
) *AnalyticsService {
	return &AnalyticsService{
		analyticsRepo: analyticsRepo,
		videoRepo:     videoRepo,
		trendRepo:     trendRepo,
		nicheRepo:     nicheRepo,
		learning:      learning,
	}
}

// Record stores an analytics row. When the video still exists a learning
// record is captured alongside; a dangling video_id keeps the analytics
// but skips learning.
func (s *AnalyticsService) Record(ctx context.Context, req *models.CreateAnalyticsRequest) (*models.AnalyticsRecord, error) {
	if req.VideoID == uuid.Nil {
		return nil, NewValidationError(map[string]string{"video_id": "video_id is required"})
	}
	if req.Views < 0 || req.Likes < 0 || req.Shares < 0 || req.Comments < 0 {
		return nil, NewValidationError(map[string]string{"counts": "counts must be non-negative"})
	}

	rec := &models.AnalyticsRecord{
		VideoID:  req.VideoID,
		Views:    req.Views,
		Likes:    req.Likes,
		Shares:   req.Shares,
		Comments: req.Comments,
		Revenue:  req.Revenue,
	}
	if req.Date != nil {
		rec.Date = *req.Date
	}

	if err := s.analyticsRepo.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to store analytics: %w", err)
	}

	video, err := s.videoRepo.GetByID(ctx, req.VideoID)
	if err != nil {
		log.Printf("learning capture skipped, video lookup failed: %v", err)
		return rec, nil
	}
	if video == nil {
		return rec, nil
	}

	perf := models.Performance{
		Views:    req.Views,
		Likes:    req.Likes,
		Shares:   req.Shares,
		Comments: req.Comments,
		Revenue:  req.Revenue,
	}
	if err := s.learning.RecordPerformance(ctx, video, perf); err != nil {
		log.Printf("failed to capture learning record for %s: %v", video.ID, err)
	}

	return rec, nil
}

// Feedback feeds observed performance straight into the learning loop
// without storing an analytics row. Unlike Record, the video must still
// exist: feedback about a deleted video has nothing to learn from.
func (s *AnalyticsService) Feedback(ctx context.Context, req *models.FeedbackRequest) error {
	if req.VideoID == uuid.Nil {
		return NewValidationError(map[string]string{"video_id": "video_id is required"})
	}
	if req.Views < 0 || req.Likes < 0 || req.Shares < 0 || req.Comments < 0 {
		return NewValidationError(map[string]string{"counts": "counts must be non-negative"})
	}

	video, err := s.videoRepo.GetByID(ctx, req.VideoID)
	if err != nil {
		return fmt.Errorf("failed to load video: %w", err)
	}
	if video == nil {
		return &NotFoundError{Resource: "video"}
	}

	perf := models.Performance{
		Views:    req.Views,
		Likes:    req.Likes,
		Shares:   req.Shares,
		Comments: req.Comments,
		Revenue:  req.Revenue,
	}
	return s.learning.RecordPerformance(ctx, video, perf)
}

func (s *AnalyticsService) List(ctx context.Context, videoID *uuid.UUID, limit int) ([]*models.AnalyticsRecord, error) {
	return s.analyticsRepo.List(ctx, videoID, limit)
}

// Dashboard aggregates counts, recent totals, and the best performers.
func (s *AnalyticsService) Dashboard(ctx context.Context) (*models.DashboardStats, error) {
	stats := &models.DashboardStats{}

	var err error
	if stats.TotalTrends, err = s.trendRepo.Count(ctx); err != nil {
		return nil, fmt.Errorf("failed to count trends: %w", err)
	}
	if stats.TotalVideos, err = s.videoRepo.Count(ctx); err != nil {
		return nil, fmt.Errorf("failed to count videos: %w", err)
	}
	if stats.TotalNiches, err = s.nicheRepo.Count(ctx); err != nil {
		return nil, fmt.Errorf("failed to count niches: %w", err)
	}
	if stats.TotalAnalytics, err = s.analyticsRepo.Count(ctx); err != nil {
		return nil, fmt.Errorf("failed to count analytics: %w", err)
	}

	recent, err := s.analyticsRepo.List(ctx, nil, recentAnalyticsWindow)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent analytics: %w", err)
	}
	for _, rec := range recent {
		stats.RecentViews += rec.Views
		stats.RecentLikes += rec.Likes
		stats.RecentShares += rec.Shares
		stats.RecentComments += rec.Comments
		stats.RecentRevenue += rec.Revenue
	}

	top, err := s.analyticsRepo.TopByViews(ctx, topVideosLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load top analytics: %w", err)
	}
	for _, rec := range top {
		video, err := s.videoRepo.GetByID(ctx, rec.VideoID)
		if err != nil {
			return nil, err
		}
		if video == nil {
			// Dangling record: the video was deleted after publishing.
			continue
		}
		stats.TopVideos = append(stats.TopVideos, models.TopVideo{
			VideoID: video.ID,
			Title:   video.Title,
			Niche:   video.Niche,
			Views:   rec.Views,
			Revenue: rec.Revenue,
		})
	}

	return stats, nil
}
