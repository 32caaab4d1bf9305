package models

import (
	"time"

	"github.com/google/uuid"
)

type Trend struct {
	ID         uuid.UUID `json:"id"`
	Title      string    `json:"title"`
	URL        *string   `json:"url"`
	Views      int64     `json:"views"`
	Engagement int64     `json:"engagement"`
	Niche      string    `json:"niche"`
	DateAdded  time.Time `json:"date_added"`
}

type CreateTrendRequest struct {
	Title      string     `json:"title"`
	URL        *string    `json:"url"`
	Views      int64      `json:"views"`
	Engagement int64      `json:"engagement"`
	Niche      string     `json:"niche"`
	DateAdded  *time.Time `json:"date_added"`
}
