package service

import (
	"context"
	"fmt"
	"sync"

	"smiledesk/internal/models"
)

// fakeStore is an in-memory MessageStore keyed the same way the real one
// is, on (platform, message ID).
type fakeStore struct {
	mu        sync.Mutex
	messages  map[string]models.NormalizedMessage
	order     []string
	upsertErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{messages: make(map[string]models.NormalizedMessage)}
}

func storeKey(platform models.Platform, messageID string) string {
	return string(platform) + "/" + messageID
}

func (f *fakeStore) UpsertMessage(ctx context.Context, msg *models.NormalizedMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.upsertErr != nil {
		return f.upsertErr
	}
	key := storeKey(msg.Platform, msg.MessageID)
	if _, exists := f.messages[key]; !exists {
		f.order = append(f.order, key)
	}
	f.messages[key] = *msg
	return nil
}

func (f *fakeStore) QueryRecent(ctx context.Context, platform models.Platform, limit int, filter models.MessageFilter) ([]models.NormalizedMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []models.NormalizedMessage
	for _, key := range f.order {
		msg := f.messages[key]
		if msg.Platform != platform {
			continue
		}
		if filter.ConversationID != "" && msg.ConversationID != filter.ConversationID {
			continue
		}
		if filter.UnrepliedOnly && msg.IsReplied {
			continue
		}
		out = append(out, msg)
	}
	return out, nil
}

func (f *fakeStore) GetMessage(ctx context.Context, platform models.Platform, messageID string) (*models.NormalizedMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	msg, ok := f.messages[storeKey(platform, messageID)]
	if !ok {
		return nil, nil
	}
	return &msg, nil
}

func (f *fakeStore) MarkConversationReplied(ctx context.Context, platform models.Platform, conversationID string, repliedBy models.RepliedBy, replyMessageID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var updated int64
	for key, msg := range f.messages {
		if msg.Platform == platform && msg.ConversationID == conversationID && !msg.IsReplied {
			msg.IsReplied = true
			msg.RepliedBy = repliedBy
			if replyMessageID != "" {
				id := replyMessageID
				msg.ReplyMessageID = &id
			}
			f.messages[key] = msg
			updated++
		}
	}
	return updated, nil
}

func (f *fakeStore) CountUnreplied(ctx context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	count := 0
	for _, msg := range f.messages {
		if !msg.IsReplied {
			count++
		}
	}
	return count, nil
}

func (f *fakeStore) CleanupOldMessages(ctx context.Context, retentionDays int) error {
	return nil
}

func (f *fakeStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.messages)
}

// fakeSource is a scripted MessageSource.
type fakeSource struct {
	platform models.Platform
	creds    models.PlatformCredentials

	mu       sync.Mutex
	batches  [][]models.NormalizedMessage
	fetchErr error
	fetches  int

	sentID  string
	sendErr error
	sent    []string
}

func newFakeSource(platform models.Platform, batch []models.NormalizedMessage) *fakeSource {
	return &fakeSource{
		platform: platform,
		creds: models.PlatformCredentials{
			AccessToken: "token",
			PageID:      "page-1",
			PageName:    "Bright Smiles Dental",
		},
		batches: [][]models.NormalizedMessage{batch},
		sentID:  "mid.sent.1",
	}
}

func (f *fakeSource) Platform() models.Platform                 { return f.platform }
func (f *fakeSource) Credentials() models.PlatformCredentials   { return f.creds }

func (f *fakeSource) FetchMessages(ctx context.Context, limit int) ([]models.NormalizedMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.fetches++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	if len(f.batches) == 0 {
		return nil, nil
	}
	batch := f.batches[0]
	if len(f.batches) > 1 {
		f.batches = f.batches[1:]
	}
	return batch, nil
}

func (f *fakeSource) SendText(ctx context.Context, recipientID, text string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.sendErr != nil {
		return "", f.sendErr
	}
	f.sent = append(f.sent, fmt.Sprintf("%s:%s", recipientID, text))
	return f.sentID, nil
}

func (f *fakeSource) MarkAsRead(ctx context.Context, senderID string) error {
	return nil
}
