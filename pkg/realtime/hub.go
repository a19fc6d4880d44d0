package realtime

import (
	"sync"
)

// Event is what admin observers receive over the stream.
type Event struct {
	Name    string      `json:"event"`
	Payload interface{} `json:"payload"`
}

// Hub fans order and account events out to connected admin sessions. Publish
// is strictly fire-and-forget: a subscriber whose buffer is full misses the
// event rather than blocking the publisher.
type Hub struct {
	mu   sync.RWMutex
	subs map[chan Event]struct{}
}

func NewHub() *Hub {
	return &Hub{
		subs: make(map[chan Event]struct{}),
	}
}

// Subscribe registers an observer and returns its channel plus an
// unsubscribe func. The buffer absorbs short bursts; beyond that events drop.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 16)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if _, ok := h.subs[ch]; ok {
			delete(h.subs, ch)
			close(ch)
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

func (h *Hub) Publish(name string, payload interface{}) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subs {
		select {
		case ch <- Event{Name: name, Payload: payload}:
		default:
			// slow consumer, drop
		}
	}
}

func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
