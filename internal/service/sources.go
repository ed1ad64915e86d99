package service

import (
	"context"

	"smiledesk/internal/models"
	"smiledesk/pkg/facebook"
	"smiledesk/pkg/instagram"
)

// FacebookSource adapts the Messenger Graph client to the MessageSource
// surface, flattening conversation pages into canonical records.
type FacebookSource struct {
	client facebook.Client
	creds  models.PlatformCredentials
}

func NewFacebookSource(client facebook.Client, creds models.PlatformCredentials) *FacebookSource {
	return &FacebookSource{client: client, creds: creds}
}

func (s *FacebookSource) Platform() models.Platform {
	return models.PlatformFacebook
}

func (s *FacebookSource) Credentials() models.PlatformCredentials {
	return s.creds
}

func (s *FacebookSource) FetchMessages(ctx context.Context, limit int) ([]models.NormalizedMessage, error) {
	conversations, err := s.client.ListConversations(ctx, limit)
	if err != nil {
		return nil, err
	}

	var messages []models.NormalizedMessage
	for _, conv := range conversations {
		for _, raw := range conv.Messages.Data {
			messages = append(messages, NormalizeFacebookMessage(raw, conv.ID, s.creds))
		}
	}
	return messages, nil
}

func (s *FacebookSource) SendText(ctx context.Context, recipientID, text string) (string, error) {
	resp, err := s.client.SendMessage(ctx, recipientID, text)
	if err != nil {
		return "", err
	}
	return resp.MessageID, nil
}

func (s *FacebookSource) MarkAsRead(ctx context.Context, senderID string) error {
	return s.client.MarkAsRead(ctx, senderID)
}

// InstagramSource adapts the Instagram Graph client to the MessageSource
// surface.
type InstagramSource struct {
	client instagram.Client
	creds  models.PlatformCredentials
}

func NewInstagramSource(client instagram.Client, creds models.PlatformCredentials) *InstagramSource {
	return &InstagramSource{client: client, creds: creds}
}

func (s *InstagramSource) Platform() models.Platform {
	return models.PlatformInstagram
}

func (s *InstagramSource) Credentials() models.PlatformCredentials {
	return s.creds
}

func (s *InstagramSource) FetchMessages(ctx context.Context, limit int) ([]models.NormalizedMessage, error) {
	conversations, err := s.client.ListConversations(ctx, limit)
	if err != nil {
		return nil, err
	}

	var messages []models.NormalizedMessage
	for _, conv := range conversations {
		for _, raw := range conv.Messages.Data {
			messages = append(messages, NormalizeInstagramMessage(raw, conv.ID, s.creds))
		}
	}
	return messages, nil
}

func (s *InstagramSource) SendText(ctx context.Context, recipientID, text string) (string, error) {
	resp, err := s.client.SendMessage(ctx, recipientID, text)
	if err != nil {
		return "", err
	}
	return resp.MessageID, nil
}

func (s *InstagramSource) MarkAsRead(ctx context.Context, senderID string) error {
	return s.client.MarkAsRead(ctx, senderID)
}
