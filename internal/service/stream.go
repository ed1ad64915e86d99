package service

import (
	"sync"

	"smiledesk/internal/constants"
	"smiledesk/internal/models"
)

// Stream fans persisted messages out to live subscribers. Each subscriber
// gets a bounded buffer; a slow consumer loses events rather than stalling
// the sync pipeline, since the store remains the source of truth.
type Stream struct {
	mu          sync.RWMutex
	subscribers map[chan models.NormalizedMessage]struct{}
}

func NewStream() *Stream {
	return &Stream{
		subscribers: make(map[chan models.NormalizedMessage]struct{}),
	}
}

// Subscribe registers a new listener. The returned cancel function must be
// called when the listener goes away; it closes the channel.
func (s *Stream) Subscribe() (<-chan models.NormalizedMessage, func()) {
	ch := make(chan models.NormalizedMessage, constants.StreamSubscriberBuffer)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers a message to every subscriber without blocking.
func (s *Stream) Publish(msg models.NormalizedMessage) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for ch := range s.subscribers {
		select {
		case ch <- msg:
		default:
		}
	}
}

// SubscriberCount reports how many listeners are attached.
func (s *Stream) SubscriberCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subscribers)
}
