package service

import (
	"testing"

	"smiledesk/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func msg(id, convID, senderID, senderName string, ts int64, replied bool) models.NormalizedMessage {
	return models.NormalizedMessage{
		MessageID:      id,
		ConversationID: convID,
		Platform:       models.PlatformFacebook,
		SenderID:       senderID,
		SenderName:     senderName,
		Timestamp:      ts,
		PageID:         "page-1",
		PageName:       "Bright Smiles Dental",
		IsReplied:      replied,
		RepliedBy:      models.RepliedByNone,
	}
}

func TestAggregateConversationsEmpty(t *testing.T) {
	conversations := AggregateConversations(nil)
	assert.Empty(t, conversations)
}

func TestAggregateConversationsGroupsByConversation(t *testing.T) {
	messages := []models.NormalizedMessage{
		msg("m1", "c1", "u1", "Alice", 100, false),
		msg("m2", "c2", "u2", "Bob", 200, false),
		msg("m3", "c1", "u1", "Alice", 300, false),
	}

	conversations := AggregateConversations(messages)
	require.Len(t, conversations, 2)

	// c1's last message (ts 300) is newer than c2's (ts 200).
	assert.Equal(t, "c1", conversations[0].ConversationID)
	assert.Equal(t, "c2", conversations[1].ConversationID)

	require.Len(t, conversations[0].Messages, 2)
	assert.Equal(t, "m1", conversations[0].Messages[0].MessageID)
	assert.Equal(t, "m3", conversations[0].Messages[1].MessageID)
	require.NotNil(t, conversations[0].LastMessage)
	assert.Equal(t, "m3", conversations[0].LastMessage.MessageID)
}

func TestAggregateConversationsLastMessageTieBreak(t *testing.T) {
	messages := []models.NormalizedMessage{
		msg("first-seen", "c1", "u1", "Alice", 500, false),
		msg("second-seen", "c1", "u1", "Alice", 500, false),
	}

	conversations := AggregateConversations(messages)
	require.Len(t, conversations, 1)
	// Equal timestamps keep the earlier-seen message stable across runs.
	assert.Equal(t, "first-seen", conversations[0].LastMessage.MessageID)
}

func TestAggregateConversationsUnreadCount(t *testing.T) {
	pageMsg := msg("m3", "c1", "page-1", "Bright Smiles Dental", 300, true)
	pageMsg.RepliedBy = models.RepliedByHuman

	messages := []models.NormalizedMessage{
		msg("m1", "c1", "u1", "Alice", 100, false),
		msg("m2", "c1", "u1", "Alice", 200, true),
		pageMsg,
	}

	conversations := AggregateConversations(messages)
	require.Len(t, conversations, 1)

	conv := conversations[0]
	// Only m1 counts: m2 is replied, m3 is from the page.
	assert.Equal(t, 1, conv.UnreadCount)
	assert.True(t, conv.IsReplied)
}

func TestAggregateConversationsParticipants(t *testing.T) {
	messages := []models.NormalizedMessage{
		msg("m1", "c1", "u1", "Alice", 100, false),
		msg("m2", "c1", "u1", "Alice", 200, false),
		msg("m3", "c1", "u2", "Bob", 300, false),
		msg("m4", "c1", "u3", "", 400, false),
	}

	conversations := AggregateConversations(messages)
	require.Len(t, conversations, 1)
	assert.Equal(t, []string{"Alice", "Bob"}, conversations[0].Participants)
}

func TestAggregateConversationsSortedNewestFirst(t *testing.T) {
	messages := []models.NormalizedMessage{
		msg("m1", "old", "u1", "Alice", 100, false),
		msg("m2", "new", "u2", "Bob", 900, false),
		msg("m3", "mid", "u3", "Cara", 500, false),
	}

	conversations := AggregateConversations(messages)
	require.Len(t, conversations, 3)
	assert.Equal(t, "new", conversations[0].ConversationID)
	assert.Equal(t, "mid", conversations[1].ConversationID)
	assert.Equal(t, "old", conversations[2].ConversationID)
}
