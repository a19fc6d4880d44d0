package memcache

import (
	"sync"
	"time"
)

type WebhookEventStore interface {
	// MarkProcessed records the event id; returns false if it was already
	// recorded and not yet expired (a gateway retry of the same delivery).
	MarkProcessed(eventID string, ttl time.Duration) bool

	Seen(eventID string) bool
}

type WebhookEvents struct {
	mu   sync.Mutex
	data map[string]time.Time
}

func NewWebhookEvents() *WebhookEvents {
	return &WebhookEvents{
		data: make(map[string]time.Time),
	}
}

func (s *WebhookEvents) MarkProcessed(eventID string, ttl time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if exp, ok := s.data[eventID]; ok && time.Now().Before(exp) {
		return false
	}
	s.data[eventID] = time.Now().Add(ttl)

	// Opportunistic cleanup so the map does not grow without bound.
	if len(s.data) > 4096 {
		now := time.Now()
		for id, exp := range s.data {
			if now.After(exp) {
				delete(s.data, id)
			}
		}
	}
	return true
}

func (s *WebhookEvents) Seen(eventID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	exp, ok := s.data[eventID]
	return ok && time.Now().Before(exp)
}
