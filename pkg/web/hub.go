package web

import (
	"sync"

	"github.com/go-go-golems/alin-dash/pkg/bus"
)

// Hub fans dashboard views out to SSE clients. Slow clients miss updates
// instead of blocking the bus.
type Hub struct {
	mu      sync.Mutex
	clients map[chan bus.View]struct{}
	last    bus.View
	hasLast bool
}

func NewHub() *Hub {
	return &Hub{clients: map[chan bus.View]struct{}{}}
}

// Subscribe registers a client. The latest view, if any, is delivered first.
func (h *Hub) Subscribe() chan bus.View {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan bus.View, 16)
	if h.hasLast {
		ch <- h.last
	}
	h.clients[ch] = struct{}{}
	return ch
}

func (h *Hub) Unsubscribe(ch chan bus.View) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[ch]; !ok {
		return
	}
	delete(h.clients, ch)
	close(ch)
}

func (h *Hub) Broadcast(v bus.View) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.last = v
	h.hasLast = true
	for ch := range h.clients {
		select {
		case ch <- v:
		default:
		}
	}
}

func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// RegisterHubForwarder feeds every UI snapshot on the bus into h.
func RegisterHubForwarder(b *bus.Bus, h *Hub) {
	bus.OnUI(b, "alin-web-hub", h.Broadcast, nil)
}
