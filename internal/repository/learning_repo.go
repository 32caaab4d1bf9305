package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"clipforge-backend/internal/models"
)

type LearningRepo struct {
	pool *pgxpool.Pool
}

func NewLearningRepo(pool *pgxpool.Pool) *LearningRepo {
	return &LearningRepo{pool: pool}
}

func (r *LearningRepo) Create(ctx context.Context, rec *models.LearningRecord) error {
	rec.ID = uuid.New()
	if rec.RecordedAt.IsZero() {
		rec.RecordedAt = time.Now().UTC()
	}

	featuresJSON, err := json.Marshal(rec.Features)
	if err != nil {
		return fmt.Errorf("failed to marshal features: %w", err)
	}
	performanceJSON, err := json.Marshal(rec.Performance)
	if err != nil {
		return fmt.Errorf("failed to marshal performance: %w", err)
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO learning_records (id, video_id, features, performance, recorded_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		rec.ID, rec.VideoID, featuresJSON, performanceJSON, rec.RecordedAt,
	)
	return err
}

// ListSince returns records newer than the cutoff, optionally filtered to
// one niche via the features payload.
func (r *LearningRepo) ListSince(ctx context.Context, since time.Time, niche string) ([]*models.LearningRecord, error) {
	query := `SELECT id, video_id, features, performance, recorded_at
	          FROM learning_records WHERE recorded_at >= $1`
	args := []interface{}{since}
	if niche != "" {
		query += ` AND features->>'niche' = $2`
		args = append(args, niche)
	}
	query += ` ORDER BY recorded_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*models.LearningRecord
	for rows.Next() {
		rec := &models.LearningRecord{}
		var featuresJSON, performanceJSON []byte
		if err := rows.Scan(&rec.ID, &rec.VideoID, &featuresJSON, &performanceJSON, &rec.RecordedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(featuresJSON, &rec.Features); err != nil {
			return nil, fmt.Errorf("failed to unmarshal features: %w", err)
		}
		if err := json.Unmarshal(performanceJSON, &rec.Performance); err != nil {
			return nil, fmt.Errorf("failed to unmarshal performance: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

func (r *LearningRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM learning_records").Scan(&count)
	return count, err
}
