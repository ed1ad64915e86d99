package models

// WebhookPayload is the envelope Meta posts to a subscribed webhook for
// both Messenger ("page") and Instagram ("instagram") objects.
type WebhookPayload struct {
	Object string         `json:"object"`
	Entry  []WebhookEntry `json:"entry"`
}

// WebhookEntry is one page/account worth of events in a webhook delivery.
type WebhookEntry struct {
	ID        string           `json:"id"`
	Time      int64            `json:"time"`
	Messaging []MessagingEvent `json:"messaging"`
}

// MessagingEvent is a single messaging event inside a webhook entry.
type MessagingEvent struct {
	Sender    WebhookParty    `json:"sender"`
	Recipient WebhookParty    `json:"recipient"`
	Timestamp int64           `json:"timestamp"`
	Message   *WebhookMessage `json:"message,omitempty"`
}

// WebhookParty identifies a sender or recipient by platform-scoped ID.
type WebhookParty struct {
	ID string `json:"id"`
}

// WebhookMessage is the message body of a messaging event.
type WebhookMessage struct {
	MID         string              `json:"mid"`
	Text        string              `json:"text"`
	Attachments []WebhookAttachment `json:"attachments,omitempty"`
}

// WebhookAttachment mirrors the Graph API attachment shape.
type WebhookAttachment struct {
	Type    string `json:"type"`
	Payload struct {
		URL string `json:"url"`
	} `json:"payload"`
}
