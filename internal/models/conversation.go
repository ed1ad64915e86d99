package models

// Conversation is a derived grouping of messages sharing a conversation ID.
// It is recomputed from the message table on every read and never persisted.
type Conversation struct {
	ConversationID string              `json:"conversationId"`
	Platform       Platform            `json:"platform"`
	Messages       []NormalizedMessage `json:"messages"`
	LastMessage    *NormalizedMessage  `json:"lastMessage"`
	UnreadCount    int                 `json:"unreadCount"`
	IsReplied      bool                `json:"isReplied"`
	Participants   []string            `json:"participants"`
	PageID         string              `json:"pageId"`
	PageName       string              `json:"pageName,omitempty"`
}
