package app

import "adminnotes/internal/types"

// WatchController drains note change events on the UI tick so a burst of
// events turns into a single refetch.
type WatchController struct {
	events           <-chan types.NoteEvent
	cancel           func()
	maxEventsPerTick int
}

func NewWatchController(maxEventsPerTick int) *WatchController {
	if maxEventsPerTick <= 0 {
		maxEventsPerTick = 1
	}
	return &WatchController{maxEventsPerTick: maxEventsPerTick}
}

func (w *WatchController) Reset() {
	if w == nil {
		return
	}
	if w.cancel != nil {
		w.cancel()
	}
	w.cancel = nil
	w.events = nil
}

func (w *WatchController) SetStream(ch <-chan types.NoteEvent, cancel func()) {
	if w == nil {
		return
	}
	w.Reset()
	w.events = ch
	w.cancel = cancel
}

func (w *WatchController) Active() bool {
	return w != nil && w.events != nil
}

func (w *WatchController) ConsumeTick() (events []types.NoteEvent, changed bool, closed bool) {
	if w == nil || w.events == nil {
		return nil, false, false
	}
	for i := 0; i < w.maxEventsPerTick; i++ {
		select {
		case event, ok := <-w.events:
			if !ok {
				if w.cancel != nil {
					w.cancel()
				}
				w.events = nil
				w.cancel = nil
				return events, len(events) > 0, true
			}
			events = append(events, event)
			continue
		default:
		}
		break
	}
	return events, len(events) > 0, false
}
