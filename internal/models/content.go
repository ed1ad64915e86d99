package models

import "time"

// ContentStatus tracks a marketing draft through its lifecycle.
type ContentStatus string

const (
	ContentStatusDraft     ContentStatus = "draft"
	ContentStatusScheduled ContentStatus = "scheduled"
	ContentStatusPublished ContentStatus = "published"
)

// ContentPost is an LLM-generated marketing draft for one platform.
type ContentPost struct {
	ID          int64         `json:"id" db:"id"`
	Platform    Platform      `json:"platform" db:"platform"`
	Topic       string        `json:"topic" db:"topic"`
	Body        string        `json:"body" db:"body"`
	Status      ContentStatus `json:"status" db:"status"`
	ScheduleAt  *time.Time    `json:"scheduleAt,omitempty" db:"schedule_at"`
	PublishedAt *time.Time    `json:"publishedAt,omitempty" db:"published_at"`
	CreatedAt   time.Time     `json:"createdAt" db:"created_at"`
}

// GenerateContentRequest is the body of POST /api/content/generate.
type GenerateContentRequest struct {
	Platform   Platform `json:"platform" validate:"required"`
	Topic      string   `json:"topic" validate:"required"`
	ScheduleAt string   `json:"scheduleAt,omitempty"`
}
