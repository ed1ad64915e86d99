package instagram

import (
	"fmt"
	"time"
)

// ClientConfig carries what the client needs to call the Graph API on
// behalf of one Instagram professional account (via its linked page).
type ClientConfig struct {
	BaseURL     string
	AccessToken string
	PageID      string
	AccountName string
	Timeout     time.Duration
}

// APIError is a non-2xx response from the Graph API.
type APIError struct {
	StatusCode int
	Code       int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("instagram API error (status %d, code %d): %s", e.StatusCode, e.Code, e.Message)
}

// IsAuthError reports whether the failure looks like a bad or expired token.
func (e *APIError) IsAuthError() bool {
	return e.StatusCode == 401 || e.StatusCode == 403 || e.Code == 190
}

type graphErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// Participant is one party in an Instagram conversation. Instagram
// exposes usernames rather than display names.
type Participant struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Message is the raw Graph API message shape for Instagram DMs.
type Message struct {
	ID          string      `json:"id"`
	Message     string      `json:"message"`
	From        Participant `json:"from"`
	CreatedTime string      `json:"created_time"`
	Attachments struct {
		Data []Attachment `json:"data"`
	} `json:"attachments"`
}

// Attachment is the raw Graph API attachment shape for Instagram DMs.
type Attachment struct {
	ID        string `json:"id"`
	ImageData struct {
		URL string `json:"url"`
	} `json:"image_data"`
	VideoData struct {
		URL string `json:"url"`
	} `json:"video_data"`
}

// Conversation is the raw Graph API conversation shape.
type Conversation struct {
	ID           string `json:"id"`
	UpdatedTime  string `json:"updated_time"`
	Participants struct {
		Data []Participant `json:"data"`
	} `json:"participants"`
	Messages struct {
		Data []Message `json:"data"`
	} `json:"messages"`
}

type conversationsResponse struct {
	Data []Conversation `json:"data"`
}

// SendMessageResponse is returned by the Send API on success.
type SendMessageResponse struct {
	RecipientID string `json:"recipient_id"`
	MessageID   string `json:"message_id"`
}
