package models

// APIResponse is the uniform JSON envelope returned by every endpoint.
// Handlers build typed results; serialization happens at a single boundary
// in the server package.
type APIResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
}

// APIError is the wire form of a failed request.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ConversationsResponse is the data payload of GET /api/messages.
type ConversationsResponse struct {
	Conversations []Conversation `json:"conversations"`
	TotalMessages int            `json:"totalMessages"`
}

// SendReplyRequest is the body of POST /api/messages.
type SendReplyRequest struct {
	Platform       Platform  `json:"platform" validate:"required"`
	RecipientID    string    `json:"recipientId" validate:"required"`
	Message        string    `json:"message" validate:"required"`
	ConversationID string    `json:"conversationId"`
	RepliedBy      RepliedBy `json:"repliedBy"`
}

// SendReplyResponse is the data payload of a successful reply.
type SendReplyResponse struct {
	MessageID string `json:"messageId"`
}
