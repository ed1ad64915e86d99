package models

import "time"

// Platform identifies the messaging provider a message came from.
type Platform string

const (
	PlatformFacebook  Platform = "facebook"
	PlatformInstagram Platform = "instagram"
)

// Valid reports whether p is a platform this service syncs.
func (p Platform) Valid() bool {
	return p == PlatformFacebook || p == PlatformInstagram
}

// RepliedBy records which actor answered a message.
type RepliedBy string

const (
	RepliedByNone  RepliedBy = "none"
	RepliedByAI    RepliedBy = "ai"
	RepliedByHuman RepliedBy = "human"
)

// Attachment is a media item carried by a message.
type Attachment struct {
	Type string `json:"type"`
	URL  string `json:"url"`
	Name string `json:"name,omitempty"`
}

// NormalizedMessage is the canonical internal representation of a message
// from any platform. Identity is (Platform, MessageID). Rows are immutable
// once stored except for the reply bookkeeping fields, which move from
// unset to set exactly once.
type NormalizedMessage struct {
	ID             int64        `json:"-" db:"id"`
	MessageID      string       `json:"id" db:"message_id"`
	ConversationID string       `json:"conversationId" db:"conversation_id"`
	Platform       Platform     `json:"platform" db:"platform"`
	SenderID       string       `json:"senderId" db:"sender_id"`
	SenderName     string       `json:"senderName" db:"sender_name"`
	Text           string       `json:"text" db:"text"`
	Attachments    []Attachment `json:"attachments" db:"-"`
	Timestamp      int64        `json:"timestamp" db:"timestamp_ms"`
	PageID         string       `json:"pageId" db:"page_id"`
	PageName       string       `json:"pageName,omitempty" db:"page_name"`
	IsReplied      bool         `json:"isReplied" db:"is_replied"`
	RepliedBy      RepliedBy    `json:"repliedBy" db:"replied_by"`
	ReplyMessageID *string      `json:"replyMessageId,omitempty" db:"reply_message_id"`
	CreatedAt      time.Time    `json:"-" db:"created_at"`
	UpdatedAt      time.Time    `json:"-" db:"updated_at"`
}

// MessageFilter narrows QueryRecent results.
type MessageFilter struct {
	ConversationID string
	UnrepliedOnly  bool
	Since          int64
}
