package service

import (
	"context"
	"time"

	"smiledesk/internal/content"
	sderrors "smiledesk/internal/errors"
	"smiledesk/internal/models"

	"github.com/sirupsen/logrus"
)

// ContentService drives LLM draft generation and the scheduled publish
// queue.
type ContentService struct {
	store     ContentStore
	generator content.Generator
	logger    *logrus.Logger
}

// NewContentService wires content generation over the store. generator may
// be nil when content generation is disabled; Generate then fails with a
// config error while listing keeps working.
func NewContentService(store ContentStore, generator content.Generator, logger *logrus.Logger) *ContentService {
	return &ContentService{
		store:     store,
		generator: generator,
		logger:    logger,
	}
}

// Generate produces one draft for the requested platform and topic. When
// scheduleAt parses as RFC 3339 the draft enters the publish queue,
// otherwise it stays a draft for manual review.
func (s *ContentService) Generate(ctx context.Context, req *models.GenerateContentRequest) (*models.ContentPost, error) {
	if s.generator == nil {
		return nil, sderrors.New(sderrors.ErrCodeMissingConfig, "content generation is not configured")
	}
	if !req.Platform.Valid() {
		return nil, sderrors.New(sderrors.ErrCodeInvalidInput, "unknown platform")
	}

	body, err := s.generator.GeneratePost(ctx, req.Platform, req.Topic)
	if err != nil {
		return nil, err
	}

	post := &models.ContentPost{
		Platform: req.Platform,
		Topic:    req.Topic,
		Body:     body,
		Status:   models.ContentStatusDraft,
	}
	if req.ScheduleAt != "" {
		at, err := time.Parse(time.RFC3339, req.ScheduleAt)
		if err != nil {
			return nil, sderrors.New(sderrors.ErrCodeInvalidInput, "scheduleAt must be RFC 3339")
		}
		post.ScheduleAt = &at
		post.Status = models.ContentStatusScheduled
	}

	id, err := s.store.SaveContentPost(ctx, post)
	if err != nil {
		return nil, sderrors.Wrap(err, sderrors.ErrCodeDatabaseQuery, "failed to save content post")
	}
	post.ID = id
	post.CreatedAt = time.Now()

	return post, nil
}

// List returns recent drafts, newest first.
func (s *ContentService) List(ctx context.Context, limit int) ([]models.ContentPost, error) {
	if limit <= 0 {
		limit = 50
	}
	posts, err := s.store.ListContentPosts(ctx, limit)
	if err != nil {
		return nil, sderrors.Wrap(err, sderrors.ErrCodeDatabaseQuery, "failed to list content posts")
	}
	return posts, nil
}

// PublishDue flips every scheduled post whose time has come to published.
// The dashboard surfaces published posts for staff to copy into the page;
// direct Graph publishing needs page feed permissions this deployment does
// not request.
func (s *ContentService) PublishDue(ctx context.Context) error {
	now := time.Now()
	due, err := s.store.DueContentPosts(ctx, now)
	if err != nil {
		return sderrors.Wrap(err, sderrors.ErrCodeDatabaseQuery, "failed to load due content posts")
	}

	for _, post := range due {
		if err := s.store.MarkContentPublished(ctx, post.ID, now); err != nil {
			return sderrors.Wrap(err, sderrors.ErrCodeDatabaseQuery, "failed to mark content post published")
		}
		s.logger.WithFields(logrus.Fields{
			"id":       post.ID,
			"platform": post.Platform,
			"topic":    post.Topic,
		}).Info("Content post published")
	}

	return nil
}
