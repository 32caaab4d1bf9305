package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"clipforge-backend/internal/models"
	"clipforge-backend/internal/repository"
)

const (
	trendingMinTrends     = 3
	viewsScoreCap         = 50.0
	engagementScoreCap    = 20.0
	revenueScoreCap       = 20.0
	trendingBonus         = 10.0
	baselineBonus         = 5.0
	recommendCacheKey     = "niches:recommended"
	recommendCacheTTL     = 60 * time.Second
	recomputePollInterval = 1 * time.Hour
)

// NicheService aggregates trends, videos, and analytics into per-niche
// profitability scores.
type NicheService struct {
	trendRepo     *repository.TrendRepo
	analyticsRepo *repository.AnalyticsRepo
	nicheRepo     *repository.NicheRepo
	cache         *redis.Client
	stopChan      chan struct{}
}

func NewNicheService(
	trendRepo *repository.TrendRepo,
	analyticsRepo *repository.AnalyticsRepo,
	nicheRepo *repository.NicheRepo,
	cache *redis.Client,
) *NicheService {
	return &NicheService{
		trendRepo:     trendRepo,
		analyticsRepo: analyticsRepo,
		nicheRepo:     nicheRepo,
		cache:         cache,
		stopChan:      make(chan struct{}),
	}
}

// Recompute rebuilds every niche score from current trends and measured
// analytics, and persists the results.
func (s *NicheService) Recompute(ctx context.Context) ([]*models.NicheScore, error) {
	trends, err := s.trendRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load trends: %w", err)
	}

	linked, err := s.analyticsRepo.RevenueByNiche(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate analytics: %w", err)
	}

	var scores []*models.NicheScore
	for name, n := range aggregateNiches(trends, linked) {
		if err := s.nicheRepo.Upsert(ctx, n); err != nil {
			return nil, fmt.Errorf("failed to persist niche %s: %w", name, err)
		}
		scores = append(scores, n)
	}

	// Drop the recommendation cache so the next read sees fresh scores.
	if s.cache != nil {
		s.cache.Del(ctx, recommendCacheKey)
	}

	return scores, nil
}

// Recommended returns the top niches by profitability, cached briefly
// since the dashboard polls this.
func (s *NicheService) Recommended(ctx context.Context, limit int) ([]*models.NicheScore, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, recommendCacheKey).Result(); err == nil {
			var niches []*models.NicheScore
			if json.Unmarshal([]byte(cached), &niches) == nil && len(niches) >= limit {
				return niches[:limit], nil
			}
		}
	}

	niches, err := s.nicheRepo.List(ctx, limit)
	if err != nil {
		return nil, err
	}

	if s.cache != nil && len(niches) > 0 {
		if data, err := json.Marshal(niches); err == nil {
			s.cache.Set(ctx, recommendCacheKey, data, recommendCacheTTL)
		}
	}

	return niches, nil
}

// List returns every scored niche ranked by profitability.
func (s *NicheService) List(ctx context.Context, limit int) ([]*models.NicheScore, error) {
	return s.nicheRepo.List(ctx, limit)
}

// ViralTrends returns the highest-view trends, optionally scoped to a
// niche.
func (s *NicheService) ViralTrends(ctx context.Context, niche string, limit int) ([]*models.Trend, error) {
	return s.trendRepo.List(ctx, niche, limit)
}

// AddTrend validates and stores a spotted trend.
func (s *NicheService) AddTrend(ctx context.Context, req *models.CreateTrendRequest) (*models.Trend, error) {
	fields := map[string]string{}
	if req.Title == "" {
		fields["title"] = "title is required"
	}
	if req.Niche == "" {
		fields["niche"] = "niche is required"
	}
	if req.Views < 0 {
		fields["views"] = "views must be non-negative"
	}
	if req.Engagement < 0 {
		fields["engagement"] = "engagement must be non-negative"
	}
	if len(fields) > 0 {
		return nil, NewValidationError(fields)
	}

	trend := &models.Trend{
		Title:      req.Title,
		URL:        req.URL,
		Views:      req.Views,
		Engagement: req.Engagement,
		Niche:      req.Niche,
	}
	if req.DateAdded != nil {
		trend.DateAdded = *req.DateAdded
	}

	if err := s.trendRepo.Create(ctx, trend); err != nil {
		return nil, fmt.Errorf("failed to store trend: %w", err)
	}

	return trend, nil
}

// DeleteTrend removes a trend by ID.
func (s *NicheService) DeleteTrend(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.trendRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return &NotFoundError{Resource: "trend"}
	}
	return nil
}

// Start launches the periodic recompute loop.
func (s *NicheService) Start() {
	go s.loop()
	log.Printf("Niche recompute scheduler started")
}

func (s *NicheService) Stop() {
	select {
	case <-s.stopChan:
		return
	default:
		close(s.stopChan)
	}
}

func (s *NicheService) loop() {
	// Run on startup as well as by interval.
	if _, err := s.Recompute(context.Background()); err != nil {
		log.Printf("niche recompute failed: %v", err)
	}

	ticker := time.NewTicker(recomputePollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			if _, err := s.Recompute(context.Background()); err != nil {
				log.Printf("niche recompute failed: %v", err)
			}
		}
	}
}

// aggregateNiches folds trends and analytics-linked revenue into scored
// niche rows. Niches with revenue but no current trends still get a row.
// VideoCount is the number of analytics records whose video resolved to
// the niche, so revenue averages over measured videos only.
func aggregateNiches(trends []*models.Trend, linked map[string]repository.NicheRevenue) map[string]*models.NicheScore {
	byName := make(map[string]*models.NicheScore)
	for _, t := range trends {
		n, ok := byName[t.Niche]
		if !ok {
			n = &models.NicheScore{Name: t.Niche}
			byName[t.Niche] = n
		}
		n.TrendCount++
		n.TotalViews += t.Views
		n.TotalEngagement += t.Engagement
	}

	for name := range linked {
		if _, ok := byName[name]; !ok {
			byName[name] = &models.NicheScore{Name: name}
		}
	}

	for name, n := range byName {
		n.VideoCount = linked[name].LinkedCount
		n.TotalRevenue = linked[name].TotalRevenue
		scoreNiche(n)
	}

	return byName
}

// scoreNiche fills the derived fields. Averages fall back to zero when
// there is nothing to divide by.
func scoreNiche(n *models.NicheScore) {
	if n.TrendCount > 0 {
		n.AvgViews = float64(n.TotalViews) / float64(n.TrendCount)
		n.AvgEngagement = float64(n.TotalEngagement) / float64(n.TrendCount)
	} else {
		n.AvgViews = 0
		n.AvgEngagement = 0
	}

	if n.VideoCount > 0 {
		n.AvgRevenue = n.TotalRevenue / float64(n.VideoCount)
	} else {
		n.AvgRevenue = 0
	}

	score := cappedAt(n.AvgViews/100000*viewsScoreCap, viewsScoreCap) +
		cappedAt(n.AvgEngagement/10000*engagementScoreCap, engagementScoreCap) +
		cappedAt(n.AvgRevenue/100*revenueScoreCap, revenueScoreCap)

	n.Trending = n.TrendCount >= trendingMinTrends
	if n.Trending {
		score += trendingBonus
	} else {
		score += baselineBonus
	}

	n.ProfitabilityScore = score
}

func cappedAt(v, limit float64) float64 {
	if v > limit {
		return limit
	}
	return v
}
