package dashboard

import "github.com/go-go-golems/alin-dash/pkg/event"

// History is a fixed-capacity ring of events. Once full, each push overwrites
// the oldest entry.
type History struct {
	items []event.Event
	start int
	size  int
}

func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = 1
	}
	return &History{items: make([]event.Event, capacity)}
}

func (h *History) Push(ev event.Event) {
	idx := (h.start + h.size) % len(h.items)
	h.items[idx] = ev
	if h.size < len(h.items) {
		h.size++
		return
	}
	h.start = (h.start + 1) % len(h.items)
}

// Newest returns up to limit events, most recent first, that satisfy keep.
// A limit <= 0 means no limit; a nil keep accepts everything.
func (h *History) Newest(limit int, keep func(event.Event) bool) []event.Event {
	out := make([]event.Event, 0, h.size)
	for i := h.size - 1; i >= 0; i-- {
		ev := h.items[(h.start+i)%len(h.items)]
		if keep != nil && !keep(ev) {
			continue
		}
		out = append(out, ev)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}

func (h *History) Len() int { return h.size }

func (h *History) Cap() int { return len(h.items) }

func (h *History) Clear() {
	clear(h.items)
	h.start = 0
	h.size = 0
}
