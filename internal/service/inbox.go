package service

import (
	"context"
	"fmt"
	"time"

	"smiledesk/internal/constants"
	sderrors "smiledesk/internal/errors"
	"smiledesk/internal/models"

	"github.com/sirupsen/logrus"
)

// InboxService is the read/write surface of the unified inbox: threaded
// conversation listing, outbound replies, and webhook ingestion.
type InboxService struct {
	sources    map[models.Platform]MessageSource
	store      MessageStore
	background *BackgroundSync
	stream     Publisher
	logger     *logrus.Logger
}

// NewInboxService wires the inbox over the configured platform sources.
// background and stream may be nil.
func NewInboxService(sources map[models.Platform]MessageSource, store MessageStore, background *BackgroundSync, stream Publisher, logger *logrus.Logger) *InboxService {
	return &InboxService{
		sources:    sources,
		store:      store,
		background: background,
		stream:     stream,
		logger:     logger,
	}
}

// ListConversations returns the threaded view of recent messages for one
// platform. It also kicks a background refresh so the next read sees
// fresher data; the response itself is served from the store without
// waiting.
func (s *InboxService) ListConversations(ctx context.Context, platform models.Platform, limit int, filter models.MessageFilter) (*models.ConversationsResponse, error) {
	if !platform.Valid() {
		return nil, sderrors.New(sderrors.ErrCodeInvalidInput, fmt.Sprintf("unknown platform %q", platform))
	}
	if limit <= 0 {
		limit = constants.DefaultMessageQueryLimit
	}
	if limit > constants.MaxMessageQueryLimit {
		limit = constants.MaxMessageQueryLimit
	}

	if s.background != nil {
		s.background.Kick(platform)
	}

	messages, err := s.store.QueryRecent(ctx, platform, limit, filter)
	if err != nil {
		return nil, sderrors.Wrap(err, sderrors.ErrCodeDatabaseQuery, "failed to query messages")
	}

	return &models.ConversationsResponse{
		Conversations: AggregateConversations(messages),
		TotalMessages: len(messages),
	}, nil
}

// SendReply sends an outbound message through the platform, persists the
// sent copy, and marks the thread's pending messages replied. Persistence
// failures after a successful send are logged rather than surfaced: the
// message is already on its way and the next sync pass reconciles the
// store.
func (s *InboxService) SendReply(ctx context.Context, req *models.SendReplyRequest) (*models.SendReplyResponse, error) {
	source, ok := s.sources[req.Platform]
	if !ok {
		return nil, sderrors.New(sderrors.ErrCodeMissingConfig, fmt.Sprintf("platform %q is not configured", req.Platform))
	}

	messageID, err := source.SendText(ctx, req.RecipientID, req.Message)
	if err != nil {
		return nil, sderrors.Wrap(err, classifyRemoteError(err), fmt.Sprintf("failed to send %s message", req.Platform))
	}

	repliedBy := req.RepliedBy
	if repliedBy == "" || repliedBy == models.RepliedByNone {
		repliedBy = models.RepliedByHuman
	}
	conversationID := req.ConversationID
	if conversationID == "" {
		conversationID = req.RecipientID
	}

	creds := source.Credentials()
	outbound := &models.NormalizedMessage{
		MessageID:      messageID,
		ConversationID: conversationID,
		Platform:       req.Platform,
		SenderID:       creds.PageID,
		SenderName:     creds.PageName,
		Text:           req.Message,
		Attachments:    []models.Attachment{},
		Timestamp:      time.Now().UnixMilli(),
		PageID:         creds.PageID,
		PageName:       creds.PageName,
		IsReplied:      true,
		RepliedBy:      repliedBy,
	}

	if err := s.store.UpsertMessage(ctx, outbound); err != nil {
		s.logger.WithFields(logrus.Fields{
			"platform":  req.Platform,
			"messageId": messageID,
			"error":     err,
		}).Error("Failed to persist outbound message")
	} else if s.stream != nil {
		s.stream.Publish(*outbound)
	}

	if _, err := s.store.MarkConversationReplied(ctx, req.Platform, conversationID, repliedBy, messageID); err != nil {
		s.logger.WithFields(logrus.Fields{
			"platform":       req.Platform,
			"conversationId": conversationID,
			"error":          err,
		}).Error("Failed to mark conversation replied")
	}

	if err := source.MarkAsRead(ctx, req.RecipientID); err != nil {
		s.logger.WithFields(logrus.Fields{
			"platform": req.Platform,
			"error":    err,
		}).Debug("Failed to mark conversation as seen")
	}

	return &models.SendReplyResponse{MessageID: messageID}, nil
}

// IngestWebhook persists every message event in a pushed payload and
// returns how many were stored. Events without a message body (delivery
// receipts, read receipts) are skipped.
func (s *InboxService) IngestWebhook(ctx context.Context, platform models.Platform, payload *models.WebhookPayload) (int, error) {
	source, ok := s.sources[platform]
	if !ok {
		return 0, sderrors.New(sderrors.ErrCodeMissingConfig, fmt.Sprintf("platform %q is not configured", platform))
	}
	creds := source.Credentials()

	stored := 0
	for _, entry := range payload.Entry {
		for _, event := range entry.Messaging {
			msg := NormalizeWebhookEvent(platform, event, creds)
			if msg == nil {
				continue
			}
			if err := s.store.UpsertMessage(ctx, msg); err != nil {
				return stored, sderrors.Wrap(err, sderrors.ErrCodeDatabaseQuery, "failed to persist webhook message")
			}
			if s.stream != nil {
				s.stream.Publish(*msg)
			}
			stored++
		}
	}

	return stored, nil
}
