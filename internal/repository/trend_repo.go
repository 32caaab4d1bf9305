package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"clipforge-backend/internal/models"
)

type TrendRepo struct {
	pool *pgxpool.Pool
}

func NewTrendRepo(pool *pgxpool.Pool) *TrendRepo {
	return &TrendRepo{pool: pool}
}

func (r *TrendRepo) Create(ctx context.Context, t *models.Trend) error {
	t.ID = uuid.New()
	if t.DateAdded.IsZero() {
		t.DateAdded = time.Now().UTC()
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO trends (id, title, url, views, engagement, niche, date_added)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		t.ID, t.Title, t.URL, t.Views, t.Engagement, t.Niche, t.DateAdded,
	)
	return err
}

// List returns trends sorted by views, optionally filtered to one niche.
func (r *TrendRepo) List(ctx context.Context, niche string, limit int) ([]*models.Trend, error) {
	query := `SELECT id, title, url, views, engagement, niche, date_added FROM trends`
	args := []interface{}{}
	if niche != "" {
		query += ` WHERE niche = $1 ORDER BY views DESC LIMIT $2`
		args = append(args, niche, limit)
	} else {
		query += ` ORDER BY views DESC LIMIT $1`
		args = append(args, limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trends []*models.Trend
	for rows.Next() {
		t := &models.Trend{}
		if err := rows.Scan(&t.ID, &t.Title, &t.URL, &t.Views, &t.Engagement, &t.Niche, &t.DateAdded); err != nil {
			return nil, err
		}
		trends = append(trends, t)
	}

	return trends, rows.Err()
}

// ListAll returns every trend; the niche analyzer aggregates over the full set.
func (r *TrendRepo) ListAll(ctx context.Context) ([]*models.Trend, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, title, url, views, engagement, niche, date_added FROM trends`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trends []*models.Trend
	for rows.Next() {
		t := &models.Trend{}
		if err := rows.Scan(&t.ID, &t.Title, &t.URL, &t.Views, &t.Engagement, &t.Niche, &t.DateAdded); err != nil {
			return nil, err
		}
		trends = append(trends, t)
	}

	return trends, rows.Err()
}

// Delete removes a trend and reports whether a row existed.
func (r *TrendRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, "DELETE FROM trends WHERE id = $1", id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *TrendRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM trends").Scan(&count)
	return count, err
}
