package notesui

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"adminnotes/internal/types"
)

// NoteLine is the displayed entry for one note. The input buffer always holds
// the line's text; OriginalMessage is the last text known to be saved.
type NoteLine struct {
	note            *types.Note
	OriginalMessage string
	input           textinput.Model
	editing         bool

	onSubmitted func(*NoteLine)
	onClicked   func(line *NoteLine, x, y int)
}

func newNoteLine(note *types.Note) *NoteLine {
	input := textinput.New()
	input.Prompt = ""
	input.CharLimit = noteCharLimit
	line := &NoteLine{input: input}
	line.UpdateNote(note)
	return line
}

func (l *NoteLine) ID() int {
	if l == nil || l.note == nil {
		return 0
	}
	return l.note.ID
}

// Note returns a copy of the note the line currently shows.
func (l *NoteLine) Note() *types.Note {
	if l == nil {
		return nil
	}
	return types.CloneNote(l.note)
}

func (l *NoteLine) Editing() bool {
	return l != nil && l.editing
}

// EditText is the current content of the line's buffer.
func (l *NoteLine) EditText() string {
	if l == nil {
		return ""
	}
	return l.input.Value()
}

// UpdateNote refreshes the line from an authoritative note. A line in edit
// mode keeps the user's buffer.
func (l *NoteLine) UpdateNote(note *types.Note) {
	if l == nil || note == nil {
		return
	}
	l.note = types.CloneNote(note)
	l.OriginalMessage = note.Message
	if !l.editing {
		l.input.SetValue(note.Message)
	}
}

// SetEditable switches the line in or out of edit mode. Leaving edit mode
// this way keeps whatever the buffer holds.
func (l *NoteLine) SetEditable(editable bool) tea.Cmd {
	if l == nil || l.editing == editable {
		return nil
	}
	l.editing = editable
	if !editable {
		l.input.Blur()
		return nil
	}
	l.input.CursorEnd()
	return l.input.Focus()
}

// CancelEdit leaves edit mode and restores the last saved text.
func (l *NoteLine) CancelEdit() {
	if l == nil {
		return
	}
	l.editing = false
	l.input.Blur()
	l.input.SetValue(l.OriginalMessage)
}

func (l *NoteLine) attach(onSubmitted func(*NoteLine), onClicked func(*NoteLine, int, int)) {
	l.onSubmitted = onSubmitted
	l.onClicked = onClicked
}

func (l *NoteLine) detach() {
	l.onSubmitted = nil
	l.onClicked = nil
}

func (l *NoteLine) submit() {
	if l == nil {
		return
	}
	l.editing = false
	l.input.Blur()
	if l.onSubmitted != nil {
		l.onSubmitted(l)
	}
}

func (l *NoteLine) click(x, y int) bool {
	if l == nil || l.onClicked == nil {
		return false
	}
	l.onClicked(l, x, y)
	return true
}

// handleKey routes keys while the line is in edit mode.
func (l *NoteLine) handleKey(msg tea.KeyPressMsg) (bool, tea.Cmd) {
	if l == nil || !l.editing {
		return false, nil
	}
	switch msg.String() {
	case "enter":
		l.submit()
		return true, nil
	case "esc":
		l.CancelEdit()
		return true, nil
	}
	var cmd tea.Cmd
	l.input, cmd = l.input.Update(msg)
	return true, cmd
}

func (l *NoteLine) render(width int, selected bool) string {
	if l == nil || l.note == nil {
		return ""
	}
	prefix := fmt.Sprintf("#%d ", l.note.ID)
	bodyWidth := max(1, width-len(prefix))
	if l.editing {
		l.input.SetWidth(max(1, bodyWidth-1))
		return noteIDStyle.Render(prefix) + editingStyle.Render(truncateToWidth(l.input.View(), bodyWidth))
	}
	body := strings.ReplaceAll(l.input.Value(), "\n", " ")
	if meta := l.metaLabel(); meta != "" {
		body = body + "  " + meta
	}
	body = truncateToWidth(body, bodyWidth)
	if selected {
		return selectedStyle.Render(padToWidth(prefix+body, width))
	}
	return noteIDStyle.Render(prefix) + noteTextStyle.Render(body)
}

func (l *NoteLine) metaLabel() string {
	if l == nil || l.note == nil {
		return ""
	}
	author := strings.TrimSpace(l.note.CreatedBy)
	if author == "" {
		return ""
	}
	label := "by " + author
	if l.note.Edited() {
		editor := strings.TrimSpace(l.note.LastEditedBy)
		if editor != "" && editor != author {
			label += ", edited by " + editor
		} else {
			label += ", edited"
		}
	}
	return "(" + label + ")"
}
