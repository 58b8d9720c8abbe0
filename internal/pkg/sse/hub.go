package sse

import (
	"log/slog"
	"sync"
)

// Event is one server-sent event queued for a connection.
type Event struct {
	Event string
	Data  interface{}
}

// Hub fans attendance events out to the open realtime connections.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]chan Event
	bufferSize  int
}

// NewHub creates a new SSE Hub instance
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]chan Event),
		bufferSize:  16,
	}
}

// Subscribe registers a connection and returns its event channel and cleanup function.
// Subscribing an id twice replaces the previous channel.
func (h *Hub) Subscribe(connectionID string) (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if old, ok := h.subscribers[connectionID]; ok {
		close(old)
	}
	ch := make(chan Event, h.bufferSize)
	h.subscribers[connectionID] = ch

	cleanup := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if current, ok := h.subscribers[connectionID]; ok && current == ch {
			delete(h.subscribers, connectionID)
			close(ch)
		}
	}

	return ch, cleanup
}

// SendTo queues an event for a single connection.
func (h *Hub) SendTo(connectionID string, event string, payload interface{}) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if ch, ok := h.subscribers[connectionID]; ok {
		h.deliver(connectionID, ch, Event{Event: event, Data: payload})
	}
}

// Broadcast queues an event for every connection.
func (h *Hub) Broadcast(event string, payload interface{}) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	e := Event{Event: event, Data: payload}
	for id, ch := range h.subscribers {
		h.deliver(id, ch, e)
	}
}

// deliver never blocks; a slow client loses events rather than stalling the engine.
func (h *Hub) deliver(connectionID string, ch chan Event, e Event) {
	select {
	case ch <- e:
	default:
		slog.Warn("Dropping SSE event for slow connection", "connection_id", connectionID, "event", e.Event)
	}
}

// TotalSubscribers returns the number of open connections.
func (h *Hub) TotalSubscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}
