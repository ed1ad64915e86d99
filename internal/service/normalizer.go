package service

import (
	"time"

	"smiledesk/internal/models"
	"smiledesk/pkg/facebook"
	"smiledesk/pkg/instagram"
)

// graphTimeLayouts are the timestamp formats the Graph API has been seen
// to emit. Anything unparseable normalizes to 0 rather than failing the
// message; chronological ordering of such messages is undefined.
var graphTimeLayouts = []string{
	"2006-01-02T15:04:05-0700",
	time.RFC3339,
}

// ParseGraphTime converts a Graph API created_time into Unix milliseconds.
func ParseGraphTime(value string) int64 {
	for _, layout := range graphTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UnixMilli()
		}
	}
	return 0
}

// NormalizeFacebookMessage maps one raw Messenger message into the
// canonical record. Missing text becomes the empty string, missing
// attachments an empty list.
func NormalizeFacebookMessage(raw facebook.Message, conversationID string, creds models.PlatformCredentials) models.NormalizedMessage {
	attachments := make([]models.Attachment, 0, len(raw.Attachments.Data))
	for _, att := range raw.Attachments.Data {
		url := att.FileURL
		if url == "" {
			url = att.ImageData.URL
		}
		attachments = append(attachments, models.Attachment{
			Type: att.MimeType,
			URL:  url,
			Name: att.Name,
		})
	}

	msg := models.NormalizedMessage{
		MessageID:      raw.ID,
		ConversationID: conversationID,
		Platform:       models.PlatformFacebook,
		SenderID:       raw.From.ID,
		SenderName:     raw.From.Name,
		Text:           raw.Message,
		Attachments:    attachments,
		Timestamp:      ParseGraphTime(raw.CreatedTime),
		PageID:         creds.PageID,
		PageName:       creds.PageName,
		RepliedBy:      models.RepliedByNone,
	}

	// A message the page itself sent is by definition not awaiting a reply.
	if raw.From.ID == creds.PageID {
		msg.IsReplied = true
		msg.RepliedBy = models.RepliedByHuman
	}

	return msg
}

// NormalizeInstagramMessage maps one raw Instagram DM into the canonical
// record.
func NormalizeInstagramMessage(raw instagram.Message, conversationID string, creds models.PlatformCredentials) models.NormalizedMessage {
	attachments := make([]models.Attachment, 0, len(raw.Attachments.Data))
	for _, att := range raw.Attachments.Data {
		if att.ImageData.URL != "" {
			attachments = append(attachments, models.Attachment{Type: "image", URL: att.ImageData.URL})
		}
		if att.VideoData.URL != "" {
			attachments = append(attachments, models.Attachment{Type: "video", URL: att.VideoData.URL})
		}
	}

	msg := models.NormalizedMessage{
		MessageID:      raw.ID,
		ConversationID: conversationID,
		Platform:       models.PlatformInstagram,
		SenderID:       raw.From.ID,
		SenderName:     raw.From.Username,
		Text:           raw.Message,
		Attachments:    attachments,
		Timestamp:      ParseGraphTime(raw.CreatedTime),
		PageID:         creds.PageID,
		PageName:       creds.PageName,
		RepliedBy:      models.RepliedByNone,
	}

	if raw.From.ID == creds.PageID {
		msg.IsReplied = true
		msg.RepliedBy = models.RepliedByHuman
	}

	return msg
}

// NormalizeWebhookEvent maps a pushed messaging event into the canonical
// record. The conversation is keyed by the non-page party so pushed and
// synced copies of a message land in the same thread.
func NormalizeWebhookEvent(platform models.Platform, event models.MessagingEvent, creds models.PlatformCredentials) *models.NormalizedMessage {
	if event.Message == nil {
		return nil
	}

	conversationID := event.Sender.ID
	fromPage := event.Sender.ID == creds.PageID
	if fromPage {
		conversationID = event.Recipient.ID
	}

	attachments := make([]models.Attachment, 0, len(event.Message.Attachments))
	for _, att := range event.Message.Attachments {
		attachments = append(attachments, models.Attachment{
			Type: att.Type,
			URL:  att.Payload.URL,
		})
	}

	msg := &models.NormalizedMessage{
		MessageID:      event.Message.MID,
		ConversationID: conversationID,
		Platform:       platform,
		SenderID:       event.Sender.ID,
		Text:           event.Message.Text,
		Attachments:    attachments,
		Timestamp:      event.Timestamp,
		PageID:         creds.PageID,
		PageName:       creds.PageName,
		RepliedBy:      models.RepliedByNone,
	}

	if fromPage {
		msg.IsReplied = true
		msg.RepliedBy = models.RepliedByHuman
	}

	return msg
}
