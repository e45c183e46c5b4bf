// Package events fans monitor events out to the consumers of a session: the
// NDJSON stream on stdout and, when enabled, the terminal UI.
package events

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/mattjoyce/prmon/internal/event"
)

// Envelope wraps a monitor event with its publication order and time.
type Envelope struct {
	ID    int64
	At    time.Time
	Event event.Event
}

// Hub is an in-memory pub/sub with a small ring buffer for late subscribers.
type Hub struct {
	nextID atomic.Int64

	mu    sync.Mutex
	ring  []Envelope
	start int
	size  int

	subs      map[int]chan Envelope
	nextSubID int
}

func NewHub(capacity int) *Hub {
	if capacity <= 0 {
		capacity = 100
	}
	return &Hub{
		ring: make([]Envelope, capacity),
		subs: make(map[int]chan Envelope),
	}
}

func (h *Hub) Publish(ev event.Event) {
	env := Envelope{
		ID:    h.nextID.Add(1),
		At:    time.Now().UTC(),
		Event: ev,
	}

	h.mu.Lock()
	h.pushLocked(env)
	for _, ch := range h.subs {
		// Don't let slow clients block the webhook handler.
		select {
		case ch <- env:
		default:
		}
	}
	h.mu.Unlock()
}

func (h *Hub) Subscribe() (<-chan Envelope, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextSubID
	h.nextSubID++
	ch := make(chan Envelope, 128)
	h.subs[id] = ch

	cancel := func() {
		h.mu.Lock()
		if c, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(c)
		}
		h.mu.Unlock()
	}

	return ch, cancel
}

// SnapshotSince returns buffered envelopes with ID > lastID, oldest-first.
// If lastID is 0, the full ring buffer snapshot is returned.
func (h *Hub) SnapshotSince(lastID int64) []Envelope {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]Envelope, 0, h.size)
	for i := 0; i < h.size; i++ {
		env := h.ring[(h.start+i)%len(h.ring)]
		if lastID == 0 || env.ID > lastID {
			out = append(out, env)
		}
	}
	return out
}

func (h *Hub) pushLocked(env Envelope) {
	capacity := len(h.ring)
	if capacity == 0 {
		return
	}

	if h.size < capacity {
		idx := (h.start + h.size) % capacity
		h.ring[idx] = env
		h.size++
		return
	}

	// Overwrite oldest.
	h.ring[h.start] = env
	h.start = (h.start + 1) % capacity
}
