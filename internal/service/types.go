package service

import (
	"context"
	"time"

	"smiledesk/internal/models"
)

// MessageSource is a platform channel the sync pipeline can pull from and
// send through. Implementations wrap one Graph API client with the page
// credentials it acts for and hand back canonical records.
type MessageSource interface {
	Platform() models.Platform
	Credentials() models.PlatformCredentials
	FetchMessages(ctx context.Context, limit int) ([]models.NormalizedMessage, error)
	SendText(ctx context.Context, recipientID, text string) (string, error)
	MarkAsRead(ctx context.Context, senderID string) error
}

// MessageStore is the persistence surface the service layer depends on.
type MessageStore interface {
	UpsertMessage(ctx context.Context, msg *models.NormalizedMessage) error
	QueryRecent(ctx context.Context, platform models.Platform, limit int, filter models.MessageFilter) ([]models.NormalizedMessage, error)
	GetMessage(ctx context.Context, platform models.Platform, messageID string) (*models.NormalizedMessage, error)
	MarkConversationReplied(ctx context.Context, platform models.Platform, conversationID string, repliedBy models.RepliedBy, replyMessageID string) (int64, error)
	CountUnreplied(ctx context.Context) (int, error)
	CleanupOldMessages(ctx context.Context, retentionDays int) error
}

// AnalyticsStore is the persistence surface for the practice dashboard.
type AnalyticsStore interface {
	SaveAppointment(ctx context.Context, appt *models.Appointment) (int64, error)
	ListAppointments(ctx context.Context, limit int) ([]models.Appointment, error)
	CountUpcomingAppointments(ctx context.Context, from time.Time) (int, error)
	SaveTask(ctx context.Context, task *models.Task) (int64, error)
	ListTasks(ctx context.Context, limit int) ([]models.Task, error)
	SetTaskDone(ctx context.Context, id int64, done bool) error
	CountOpenTasks(ctx context.Context) (int, error)
	UpsertCallLog(ctx context.Context, call *models.CallLog) error
	CountCallsSince(ctx context.Context, since time.Time) (int, error)
}

// ContentStore is the persistence surface for generated posts.
type ContentStore interface {
	SaveContentPost(ctx context.Context, post *models.ContentPost) (int64, error)
	ListContentPosts(ctx context.Context, limit int) ([]models.ContentPost, error)
	DueContentPosts(ctx context.Context, now time.Time) ([]models.ContentPost, error)
	MarkContentPublished(ctx context.Context, id int64, publishedAt time.Time) error
}

// Publisher receives every message the pipeline persists, for live fan-out.
type Publisher interface {
	Publish(msg models.NormalizedMessage)
}
