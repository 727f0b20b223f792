package notesui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	xansi "github.com/charmbracelet/x/ansi"

	"adminnotes/internal/types"
)

type PopupAction int

const (
	PopupNone PopupAction = iota
	PopupEdit
	PopupDelete
	PopupCopy
)

const (
	popupMinWidth     = 24
	popupMaxWidth     = 48
	popupPreviewLines = 3
)

type popupItem struct {
	Label  string
	Action PopupAction
}

// NotePopup is the context menu for a single note. Once closed it ignores
// all input and cannot be reopened.
type NotePopup struct {
	active   bool
	noteID   int
	message  string
	author   string
	items    []popupItem
	selected int
	x        int
	y        int
	markdown bool
}

func newNotePopup(note *types.Note, canDelete, canEdit, markdown bool) *NotePopup {
	p := &NotePopup{markdown: markdown}
	if note != nil {
		p.noteID = note.ID
		p.message = note.Message
		p.author = strings.TrimSpace(note.CreatedBy)
	}
	if canEdit {
		p.items = append(p.items, popupItem{Label: "Edit Note", Action: PopupEdit})
	}
	if canDelete {
		p.items = append(p.items, popupItem{Label: "Delete Note", Action: PopupDelete})
	}
	p.items = append(p.items, popupItem{Label: "Copy Note", Action: PopupCopy})
	return p
}

// Open shows the popup with its top-left corner at x, y.
func (p *NotePopup) Open(x, y int) {
	if p == nil {
		return
	}
	p.active = true
	p.selected = 0
	p.x = x
	p.y = y
}

func (p *NotePopup) Close() {
	if p == nil {
		return
	}
	p.active = false
	p.items = nil
	p.selected = 0
}

func (p *NotePopup) IsOpen() bool {
	return p != nil && p.active
}

func (p *NotePopup) NoteID() int {
	if p == nil {
		return 0
	}
	return p.noteID
}

// Position is the requested anchor, before clamping to the viewport.
func (p *NotePopup) Position() (int, int) {
	if p == nil {
		return 0, 0
	}
	return p.x, p.y
}

func (p *NotePopup) Labels() []string {
	if p == nil {
		return nil
	}
	out := make([]string, 0, len(p.items))
	for _, item := range p.items {
		out = append(out, item.Label)
	}
	return out
}

func (p *NotePopup) HandleKey(msg tea.KeyPressMsg) (bool, PopupAction) {
	if p == nil || !p.active {
		return false, PopupNone
	}
	switch msg.String() {
	case "esc":
		p.Close()
		return true, PopupNone
	case "up", "k":
		if p.selected > 0 {
			p.selected--
		}
		return true, PopupNone
	case "down", "j":
		if p.selected < len(p.items)-1 {
			p.selected++
		}
		return true, PopupNone
	case "enter", "space":
		if p.selected < 0 || p.selected >= len(p.items) {
			return true, PopupNone
		}
		return true, p.items[p.selected].Action
	}
	// The popup is modal for the keyboard.
	return true, PopupNone
}

// HandleClick reports whether x, y lies inside the popup and which item, if
// any, was hit.
func (p *NotePopup) HandleClick(x, y, maxWidth, maxHeight int) (bool, PopupAction) {
	if p == nil || !p.active {
		return false, PopupNone
	}
	bx, by, width, height := p.layout(maxWidth, maxHeight)
	if x < bx || x >= bx+width || y < by || y >= by+height {
		return false, PopupNone
	}
	idx := y - by - 1 - len(p.preview(width))
	if idx < 0 || idx >= len(p.items) {
		return true, PopupNone
	}
	p.selected = idx
	return true, p.items[idx].Action
}

func (p *NotePopup) Contains(x, y, maxWidth, maxHeight int) bool {
	if p == nil || !p.active {
		return false
	}
	bx, by, bw, bh := p.layout(maxWidth, maxHeight)
	return x >= bx && x < bx+bw && y >= by && y < by+bh
}

// View renders the popup block and the row it belongs on. The block is
// indented to its column so it can replace whole lines of the base view.
func (p *NotePopup) View(maxWidth, maxHeight int) (string, int) {
	if p == nil || !p.active {
		return "", 0
	}
	x, y, width, height := p.layout(maxWidth, maxHeight)
	contentWidth := max(1, width-2)
	header := truncateToWidth(p.headerLabel(), contentWidth)
	lines := []string{popupHeaderStyle.Render(" " + padToWidth(header, contentWidth) + " ")}
	for _, line := range p.preview(width) {
		lines = append(lines, popupPreviewStyle.Render(" "+padToWidth(truncateToWidth(line, contentWidth), contentWidth)+" "))
	}
	for i, item := range p.items {
		label := truncateToWidth(item.Label, contentWidth)
		line := " " + padToWidth(label, contentWidth) + " "
		if i == p.selected {
			line = selectedStyle.Render(line)
		} else {
			line = popupItemStyle.Render(line)
		}
		lines = append(lines, line)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	block := strings.Join(lines, "\n")
	if x > 0 {
		block = indentBlock(block, x)
	}
	return block, y
}

func (p *NotePopup) headerLabel() string {
	if p.author == "" {
		return fmt.Sprintf("Note #%d", p.noteID)
	}
	return fmt.Sprintf("Note #%d by %s", p.noteID, p.author)
}

func (p *NotePopup) preview(width int) []string {
	message := strings.TrimSpace(p.message)
	if message == "" {
		return nil
	}
	contentWidth := max(1, width-2)
	var rendered string
	if p.markdown {
		rendered = renderMarkdown(message, contentWidth)
	} else {
		rendered = xansi.Hardwrap(message, contentWidth, true)
	}
	lines := make([]string, 0, popupPreviewLines)
	for _, line := range strings.Split(rendered, "\n") {
		if strings.TrimSpace(xansi.Strip(line)) == "" {
			continue
		}
		lines = append(lines, line)
		if len(lines) == popupPreviewLines {
			break
		}
	}
	return lines
}

func (p *NotePopup) layout(maxWidth, maxHeight int) (int, int, int, int) {
	width := p.popupWidth()
	if maxWidth > 0 && width > maxWidth {
		width = maxWidth
	}
	height := 1 + len(p.preview(width)) + len(p.items)
	if maxHeight > 0 && height > maxHeight {
		height = maxHeight
	}
	x, y := p.x, p.y
	if maxWidth > 0 {
		x = clamp(x, 0, max(0, maxWidth-width))
	}
	if maxHeight > 0 {
		y = clamp(y, 0, max(0, maxHeight-height))
	}
	return x, y, width, height
}

func (p *NotePopup) popupWidth() int {
	widest := xansi.StringWidth(p.headerLabel())
	if first, _, _ := strings.Cut(strings.TrimSpace(p.message), "\n"); xansi.StringWidth(first) > widest {
		widest = xansi.StringWidth(first)
	}
	for _, item := range p.items {
		if w := xansi.StringWidth(item.Label); w > widest {
			widest = w
		}
	}
	return clamp(widest+2, popupMinWidth, popupMaxWidth)
}
