package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"clipforge-backend/internal/models"
)

type VideoRepo struct {
	pool *pgxpool.Pool
}

func NewVideoRepo(pool *pgxpool.Pool) *VideoRepo {
	return &VideoRepo{pool: pool}
}

func (r *VideoRepo) Create(ctx context.Context, v *models.Video) error {
	// The generator assigns the ID up front so progress events can be
	// published before the row exists.
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now().UTC()
	}

	scriptJSON, err := json.Marshal(v.Script)
	if err != nil {
		return fmt.Errorf("failed to marshal script: %w", err)
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO videos (id, title, niche, script, script_degraded, virality_score, video_path, video_url, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		v.ID, v.Title, v.Niche, scriptJSON, v.ScriptDegraded, v.ViralityScore, v.VideoPath, v.VideoURL, v.Status, v.CreatedAt,
	)
	return err
}

func (r *VideoRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Video, error) {
	v := &models.Video{}
	var scriptJSON []byte

	err := r.pool.QueryRow(ctx,
		`SELECT id, title, niche, script, script_degraded, virality_score, video_path, video_url, status, created_at
		 FROM videos WHERE id = $1`, id,
	).Scan(&v.ID, &v.Title, &v.Niche, &scriptJSON, &v.ScriptDegraded, &v.ViralityScore, &v.VideoPath, &v.VideoURL, &v.Status, &v.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(scriptJSON, &v.Script); err != nil {
		return nil, fmt.Errorf("failed to unmarshal script: %w", err)
	}

	return v, nil
}

// List returns videos newest first, optionally filtered to one niche.
func (r *VideoRepo) List(ctx context.Context, niche string, limit int) ([]*models.Video, error) {
	query := `SELECT id, title, niche, script, script_degraded, virality_score, video_path, video_url, status, created_at FROM videos`
	args := []interface{}{}
	if niche != "" {
		query += ` WHERE niche = $1 ORDER BY created_at DESC LIMIT $2`
		args = append(args, niche, limit)
	} else {
		query += ` ORDER BY created_at DESC LIMIT $1`
		args = append(args, limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var videos []*models.Video
	for rows.Next() {
		v := &models.Video{}
		var scriptJSON []byte
		if err := rows.Scan(&v.ID, &v.Title, &v.Niche, &scriptJSON, &v.ScriptDegraded, &v.ViralityScore, &v.VideoPath, &v.VideoURL, &v.Status, &v.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(scriptJSON, &v.Script); err != nil {
			return nil, fmt.Errorf("failed to unmarshal script: %w", err)
		}
		videos = append(videos, v)
	}

	return videos, rows.Err()
}

// Delete removes a video row and reports whether it existed.
func (r *VideoRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, "DELETE FROM videos WHERE id = $1", id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *VideoRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM videos").Scan(&count)
	return count, err
}
