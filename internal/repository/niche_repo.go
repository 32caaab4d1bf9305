package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"clipforge-backend/internal/models"
)

type NicheRepo struct {
	pool *pgxpool.Pool
}

func NewNicheRepo(pool *pgxpool.Pool) *NicheRepo {
	return &NicheRepo{pool: pool}
}

// Upsert writes a recomputed score, keyed by niche name.
func (r *NicheRepo) Upsert(ctx context.Context, n *models.NicheScore) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	n.LastUpdated = time.Now().UTC()

	_, err := r.pool.Exec(ctx,
		`INSERT INTO niches (id, name, trend_count, total_views, total_engagement, video_count,
		                     total_revenue, avg_views, avg_engagement, avg_revenue,
		                     profitability_score, trending, last_updated)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 ON CONFLICT (name) DO UPDATE SET
		     trend_count = EXCLUDED.trend_count,
		     total_views = EXCLUDED.total_views,
		     total_engagement = EXCLUDED.total_engagement,
		     video_count = EXCLUDED.video_count,
		     total_revenue = EXCLUDED.total_revenue,
		     avg_views = EXCLUDED.avg_views,
		     avg_engagement = EXCLUDED.avg_engagement,
		     avg_revenue = EXCLUDED.avg_revenue,
		     profitability_score = EXCLUDED.profitability_score,
		     trending = EXCLUDED.trending,
		     last_updated = EXCLUDED.last_updated`,
		n.ID, n.Name, n.TrendCount, n.TotalViews, n.TotalEngagement, n.VideoCount,
		n.TotalRevenue, n.AvgViews, n.AvgEngagement, n.AvgRevenue,
		n.ProfitabilityScore, n.Trending, n.LastUpdated,
	)
	return err
}

// List returns niches ranked by profitability.
func (r *NicheRepo) List(ctx context.Context, limit int) ([]*models.NicheScore, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, trend_count, total_views, total_engagement, video_count,
		        total_revenue, avg_views, avg_engagement, avg_revenue,
		        profitability_score, trending, last_updated
		 FROM niches ORDER BY profitability_score DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var niches []*models.NicheScore
	for rows.Next() {
		n := &models.NicheScore{}
		if err := rows.Scan(&n.ID, &n.Name, &n.TrendCount, &n.TotalViews, &n.TotalEngagement, &n.VideoCount,
			&n.TotalRevenue, &n.AvgViews, &n.AvgEngagement, &n.AvgRevenue,
			&n.ProfitabilityScore, &n.Trending, &n.LastUpdated); err != nil {
			return nil, err
		}
		niches = append(niches, n)
	}

	return niches, rows.Err()
}

func (r *NicheRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM niches").Scan(&count)
	return count, err
}
