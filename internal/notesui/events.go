package notesui

import "sort"

// Listener receives the panel's outbound events. Implementations persist the
// change and later push a fresh snapshot through Control.SetNotes.
type Listener interface {
	NoteChanged(id int, text string)
	NewNoteEntered(text string)
	NoteDeleted(id int)
}

// CopyListener is an optional extension of Listener for the popup's copy item.
type CopyListener interface {
	NoteCopyRequested(id int, message string)
}

// ListenerFuncs adapts plain functions to Listener and CopyListener. Nil
// fields are skipped.
type ListenerFuncs struct {
	OnNoteChanged       func(id int, text string)
	OnNewNoteEntered    func(text string)
	OnNoteDeleted       func(id int)
	OnNoteCopyRequested func(id int, message string)
}

func (f ListenerFuncs) NoteChanged(id int, text string) {
	if f.OnNoteChanged != nil {
		f.OnNoteChanged(id, text)
	}
}

func (f ListenerFuncs) NewNoteEntered(text string) {
	if f.OnNewNoteEntered != nil {
		f.OnNewNoteEntered(text)
	}
}

func (f ListenerFuncs) NoteDeleted(id int) {
	if f.OnNoteDeleted != nil {
		f.OnNoteDeleted(id)
	}
}

func (f ListenerFuncs) NoteCopyRequested(id int, message string) {
	if f.OnNoteCopyRequested != nil {
		f.OnNoteCopyRequested(id, message)
	}
}

// Subscribe registers l and returns a function that removes it again. The
// returned function may be called any number of times.
func (c *Control) Subscribe(l Listener) func() {
	if c == nil || l == nil || c.closed {
		return func() {}
	}
	c.nextListenerID++
	id := c.nextListenerID
	c.listeners[id] = l
	return func() {
		if c.listeners == nil {
			return
		}
		delete(c.listeners, id)
	}
}

// subscribers returns listeners in subscription order so delivery is stable.
func (c *Control) subscribers() []Listener {
	if c == nil || c.closed || len(c.listeners) == 0 {
		return nil
	}
	ids := make([]int, 0, len(c.listeners))
	for id := range c.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]Listener, 0, len(ids))
	for _, id := range ids {
		out = append(out, c.listeners[id])
	}
	return out
}

func (c *Control) emitNoteChanged(id int, text string) {
	for _, l := range c.subscribers() {
		l.NoteChanged(id, text)
	}
}

func (c *Control) emitNewNoteEntered(text string) {
	for _, l := range c.subscribers() {
		l.NewNoteEntered(text)
	}
}

func (c *Control) emitNoteDeleted(id int) {
	for _, l := range c.subscribers() {
		l.NoteDeleted(id)
	}
}

func (c *Control) emitNoteCopyRequested(id int, message string) {
	for _, l := range c.subscribers() {
		if cl, ok := l.(CopyListener); ok {
			cl.NoteCopyRequested(id, message)
		}
	}
}
