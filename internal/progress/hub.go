package progress

import (
	"context"
	"sync"

	"chartsnap-backend/internal/domain"
)

// Hub fans progress lines out to live subscribers (the websocket feed).
// Slow subscribers lose lines rather than stalling the pipeline; the file
// logger keeps the authoritative record.
type Hub struct {
	mu   sync.RWMutex
	subs map[chan string]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[chan string]struct{})}
}

// Subscribe registers a listener. The returned cancel func must be called
// when the listener goes away.
func (h *Hub) Subscribe() (<-chan string, func()) {
	ch := make(chan string, 64)

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

func (h *Hub) Log(_ context.Context, message string) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subs {
		select {
		case ch <- message:
		default: // subscriber too slow, drop
		}
	}
	return nil
}

var _ domain.ProgressLogger = (*Hub)(nil)
