package daemon

import (
	"sync"

	"adminnotes/internal/types"
)

type noteSubscriber struct {
	player string
	ch     chan types.NoteEvent
}

// noteHub fans note events out to stream subscribers. Slow subscribers drop
// events rather than block publishers; any event only means "refetch".
type noteHub struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]*noteSubscriber
}

func newNoteHub() *noteHub {
	return &noteHub{
		subs: make(map[int]*noteSubscriber),
	}
}

// Add subscribes to events for player, or to all events when player is empty.
func (h *noteHub) Add(player string) (<-chan types.NoteEvent, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	id := h.nextID
	ch := make(chan types.NoteEvent, 64)
	h.subs[id] = &noteSubscriber{player: player, ch: ch}
	cancel := func() {
		h.mu.Lock()
		sub, ok := h.subs[id]
		if ok {
			delete(h.subs, id)
		}
		h.mu.Unlock()
		if ok {
			close(sub.ch)
		}
	}
	return ch, cancel
}

func (h *noteHub) Broadcast(event types.NoteEvent) {
	if h == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, sub := range h.subs {
		if sub.player != "" && sub.player != event.Player {
			continue
		}
		select {
		case sub.ch <- event:
		default:
		}
	}
}

func (h *noteHub) Len() int {
	if h == nil {
		return 0
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
