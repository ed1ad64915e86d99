package facebook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	// DefaultBaseURL is the Graph API root used when none is configured.
	DefaultBaseURL = "https://graph.facebook.com/v19.0"

	messageFields = "id,message,from,created_time,attachments"
)

// Client wraps the Messenger Platform endpoints this service needs. Every
// call is a single HTTP attempt; failures surface as *APIError and the
// caller decides how to degrade.
type Client interface {
	ListConversations(ctx context.Context, limit int) ([]Conversation, error)
	SendMessage(ctx context.Context, recipientID, text string) (*SendMessageResponse, error)
	MarkAsRead(ctx context.Context, senderID string) error
}

type graphClient struct {
	baseURL     string
	accessToken string
	pageID      string
	client      *http.Client
}

// NewClient creates a Messenger Platform client for one page.
func NewClient(cfg ClientConfig) Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &graphClient{
		baseURL:     baseURL,
		accessToken: cfg.AccessToken,
		pageID:      cfg.PageID,
		client:      &http.Client{Timeout: timeout},
	}
}

func (c *graphClient) ListConversations(ctx context.Context, limit int) ([]Conversation, error) {
	query := url.Values{}
	query.Set("fields", fmt.Sprintf("id,updated_time,participants,messages{%s}", messageFields))
	query.Set("limit", strconv.Itoa(limit))
	query.Set("access_token", c.accessToken)

	endpoint := fmt.Sprintf("%s/%s/conversations?%s", c.baseURL, c.pageID, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeAPIError(resp)
	}

	var result conversationsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode conversations: %w", err)
	}

	return result.Data, nil
}

func (c *graphClient) SendMessage(ctx context.Context, recipientID, text string) (*SendMessageResponse, error) {
	payload := map[string]any{
		"recipient":      map[string]string{"id": recipientID},
		"message":        map[string]string{"text": text},
		"messaging_type": "RESPONSE",
	}

	var result SendMessageResponse
	if err := c.post(ctx, "/me/messages", payload, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

func (c *graphClient) MarkAsRead(ctx context.Context, senderID string) error {
	payload := map[string]any{
		"recipient":     map[string]string{"id": senderID},
		"sender_action": "mark_seen",
	}

	return c.post(ctx, "/me/messages", payload, nil)
}

func (c *graphClient) post(ctx context.Context, path string, payload any, result any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	endpoint := fmt.Sprintf("%s%s?access_token=%s", c.baseURL, path, url.QueryEscape(c.accessToken))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeAPIError(resp)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var graphErr graphErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&graphErr); err == nil {
		apiErr.Code = graphErr.Error.Code
		apiErr.Message = graphErr.Error.Message
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}

	return apiErr
}
