package service

import (
	"sort"

	"smiledesk/internal/models"
)

// AggregateConversations groups a flat message list into conversation
// threads. Grouping keys on conversation ID; messages inside a thread are
// ordered oldest first. The thread's last message is the one with the
// highest timestamp, keeping the earlier-seen message on ties so repeated
// aggregation over the same input is stable. Unread counts only messages
// that are not replied and were not sent by the page itself. Threads come
// back newest first.
func AggregateConversations(messages []models.NormalizedMessage) []models.Conversation {
	grouped := make(map[string]*models.Conversation)
	order := make([]string, 0)

	for i := range messages {
		msg := messages[i]
		conv, ok := grouped[msg.ConversationID]
		if !ok {
			conv = &models.Conversation{
				ConversationID: msg.ConversationID,
				Platform:       msg.Platform,
				PageID:         msg.PageID,
				PageName:       msg.PageName,
				Participants:   make([]string, 0, 2),
			}
			grouped[msg.ConversationID] = conv
			order = append(order, msg.ConversationID)
		}

		conv.Messages = append(conv.Messages, msg)

		if conv.LastMessage == nil || msg.Timestamp > conv.LastMessage.Timestamp {
			last := msg
			conv.LastMessage = &last
		}
		if !msg.IsReplied && msg.SenderID != msg.PageID {
			conv.UnreadCount++
		}
		if msg.IsReplied {
			conv.IsReplied = true
		}
		if msg.SenderName != "" && !contains(conv.Participants, msg.SenderName) {
			conv.Participants = append(conv.Participants, msg.SenderName)
		}
	}

	conversations := make([]models.Conversation, 0, len(order))
	for _, id := range order {
		conv := grouped[id]
		sort.SliceStable(conv.Messages, func(i, j int) bool {
			return conv.Messages[i].Timestamp < conv.Messages[j].Timestamp
		})
		conversations = append(conversations, *conv)
	}

	sort.SliceStable(conversations, func(i, j int) bool {
		return conversations[i].LastMessage.Timestamp > conversations[j].LastMessage.Timestamp
	})

	return conversations
}

func contains(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}
