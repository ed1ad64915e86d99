package facebook

import (
	"fmt"
	"time"
)

// ClientConfig carries what the client needs to call the Graph API on
// behalf of one page.
type ClientConfig struct {
	BaseURL     string
	AccessToken string
	PageID      string
	PageName    string
	Timeout     time.Duration
}

// APIError is a non-2xx response from the Graph API.
type APIError struct {
	StatusCode int
	Code       int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("facebook API error (status %d, code %d): %s", e.StatusCode, e.Code, e.Message)
}

// IsAuthError reports whether the failure looks like a bad or expired token.
func (e *APIError) IsAuthError() bool {
	return e.StatusCode == 401 || e.StatusCode == 403 || e.Code == 190
}

// graphErrorResponse is the Graph API error envelope.
type graphErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// Participant is one party in a conversation.
type Participant struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// Message is the raw Graph API message shape.
type Message struct {
	ID          string      `json:"id"`
	Message     string      `json:"message"`
	From        Participant `json:"from"`
	CreatedTime string      `json:"created_time"`
	Attachments struct {
		Data []Attachment `json:"data"`
	} `json:"attachments"`
}

// Attachment is the raw Graph API attachment shape.
type Attachment struct {
	ID        string `json:"id"`
	MimeType  string `json:"mime_type"`
	Name      string `json:"name"`
	ImageData struct {
		URL string `json:"url"`
	} `json:"image_data"`
	FileURL string `json:"file_url"`
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

// conversationsResponse is the paged list envelope.
type conversationsResponse struct {
	Data []Conversation `json:"data"`
}

// SendMessageResponse is returned by the Send API on success.
type SendMessageResponse struct {
	RecipientID string `json:"recipient_id"`
	MessageID   string `json:"message_id"`
}
