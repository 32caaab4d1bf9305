package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"clipforge-backend/internal/models"
)

type AnalyticsRepo struct {
	pool *pgxpool.Pool
}

func NewAnalyticsRepo(pool *pgxpool.Pool) *AnalyticsRepo {
	return &AnalyticsRepo{pool: pool}
}

func (r *AnalyticsRepo) Create(ctx context.Context, a *models.AnalyticsRecord) error {
	a.ID = uuid.New()
	if a.Date.IsZero() {
		a.Date = time.Now().UTC()
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO analytics (id, video_id, views, likes, shares, comments, revenue, date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		a.ID, a.VideoID, a.Views, a.Likes, a.Shares, a.Comments, a.Revenue, a.Date,
	)
	return err
}

// List returns records newest first, optionally filtered to one video.
func (r *AnalyticsRepo) List(ctx context.Context, videoID *uuid.UUID, limit int) ([]*models.AnalyticsRecord, error) {
	query := `SELECT id, video_id, views, likes, shares, comments, revenue, date FROM analytics`
	args := []interface{}{}
	if videoID != nil {
		query += ` WHERE video_id = $1 ORDER BY date DESC LIMIT $2`
		args = append(args, *videoID, limit)
	} else {
		query += ` ORDER BY date DESC LIMIT $1`
		args = append(args, limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAnalytics(rows)
}

// TopByViews returns the best performing records for the dashboard.
func (r *AnalyticsRepo) TopByViews(ctx context.Context, limit int) ([]*models.AnalyticsRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, video_id, views, likes, shares, comments, revenue, date
		 FROM analytics ORDER BY views DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAnalytics(rows)
}

// NicheRevenue aggregates the analytics rows whose video resolves to a
// niche. Dangling records fall out of the join.
type NicheRevenue struct {
	LinkedCount  int64
	TotalRevenue float64
}

// RevenueByNiche counts and sums analytics records per niche, joined
// through the owning video.
func (r *AnalyticsRepo) RevenueByNiche(ctx context.Context) (map[string]NicheRevenue, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT v.niche, COUNT(*), COALESCE(SUM(a.revenue), 0)
		 FROM analytics a JOIN videos v ON v.id = a.video_id
		 GROUP BY v.niche`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	revenue := make(map[string]NicheRevenue)
	for rows.Next() {
		var niche string
		var agg NicheRevenue
		if err := rows.Scan(&niche, &agg.LinkedCount, &agg.TotalRevenue); err != nil {
			return nil, err
		}
		revenue[niche] = agg
	}

	return revenue, rows.Err()
}

func (r *AnalyticsRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM analytics").Scan(&count)
	return count, err
}

func scanAnalytics(rows pgx.Rows) ([]*models.AnalyticsRecord, error) {
	var records []*models.AnalyticsRecord
	for rows.Next() {
		a := &models.AnalyticsRecord{}
		if err := rows.Scan(&a.ID, &a.VideoID, &a.Views, &a.Likes, &a.Shares, &a.Comments, &a.Revenue, &a.Date); err != nil {
			return nil, err
		}
		records = append(records, a)
	}
	return records, rows.Err()
}
