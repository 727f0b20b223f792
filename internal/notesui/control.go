package notesui

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"adminnotes/internal/types"
)

const (
	noteCharLimit      = 2000
	newNoteLabel       = "New note: "
	defaultTitle       = "Admin notes"
	newNotePlaceholder = "type a note and press enter"
)

type Option func(*Control)

func WithTitle(title string) Option {
	return func(c *Control) {
		c.title = strings.TrimSpace(title)
	}
}

// WithMarkdown renders note previews in the popup as markdown.
func WithMarkdown(enabled bool) Option {
	return func(c *Control) {
		c.markdown = enabled
	}
}

// Control is the notes panel. It owns one NoteLine per displayed note, the
// new-note input and at most one popup. All methods must be called from the
// Bubble Tea update loop.
type Control struct {
	title    string
	markdown bool

	lines   []*NoteLine
	inputs  map[int]*NoteLine
	newNote textinput.Model

	canCreate bool
	canDelete bool
	canEdit   bool

	cursor       int
	offset       int
	newNoteFocus bool

	popup *NotePopup

	listeners      map[int]Listener
	nextListenerID int
	closed         bool

	width      int
	height     int
	listTop    int
	listHeight int
	newNoteRow int
}

func New(opts ...Option) *Control {
	input := textinput.New()
	input.Prompt = ""
	input.Placeholder = newNotePlaceholder
	input.CharLimit = noteCharLimit
	c := &Control{
		title:      defaultTitle,
		inputs:     map[int]*NoteLine{},
		newNote:    input,
		listeners:  map[int]Listener{},
		listTop:    1,
		newNoteRow: -1,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.title == "" {
		c.title = defaultTitle
	}
	return c
}

func (c *Control) SetTitle(title string) {
	if c == nil {
		return
	}
	title = strings.TrimSpace(title)
	if title == "" {
		title = defaultTitle
	}
	c.title = title
}

// SetNotes reconciles the displayed lines with a full snapshot. Lines whose
// note survives keep their identity and edit state.
func (c *Control) SetNotes(notes map[int]*types.Note) {
	if c == nil || c.closed {
		return
	}
	selectedID := 0
	if line := c.selectedLine(); line != nil {
		selectedID = line.ID()
	}

	plan := Diff(c.DisplayedIDs(), notes)
	for _, id := range plan.Remove {
		c.removeLine(id)
	}
	for _, id := range plan.Update {
		if line, ok := c.inputs[id]; ok {
			line.UpdateNote(notes[id])
		}
	}
	for _, ins := range plan.Insert {
		line := newNoteLine(notes[ins.ID])
		line.attach(c.noteSubmitted, c.noteClicked)
		index := clamp(ins.Index, 0, len(c.lines))
		c.lines = append(c.lines, nil)
		copy(c.lines[index+1:], c.lines[index:])
		c.lines[index] = line
		c.inputs[ins.ID] = line
	}

	if selectedID != 0 {
		for i, line := range c.lines {
			if line.ID() == selectedID {
				c.cursor = i
				break
			}
		}
	}
	c.cursor = clamp(c.cursor, 0, max(0, len(c.lines)-1))
}

func (c *Control) removeLine(id int) {
	line, ok := c.inputs[id]
	if !ok {
		return
	}
	line.detach()
	delete(c.inputs, id)
	for i, existing := range c.lines {
		if existing == line {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			break
		}
	}
}

// SetPermissions controls which affordances are shown. The new-note input is
// only visible with create; popup items follow delete and edit.
func (c *Control) SetPermissions(canCreate, canDelete, canEdit bool) {
	if c == nil {
		return
	}
	c.canCreate = canCreate
	c.canDelete = canDelete
	c.canEdit = canEdit
	if !canCreate && c.newNoteFocus {
		c.blurNewNote()
	}
}

func (c *Control) Permissions() types.NotePermissions {
	if c == nil {
		return types.NotePermissions{}
	}
	return types.NotePermissions{Create: c.canCreate, Delete: c.canDelete, Edit: c.canEdit}
}

func (c *Control) DisplayedIDs() []int {
	if c == nil {
		return nil
	}
	ids := make([]int, 0, len(c.lines))
	for _, line := range c.lines {
		ids = append(ids, line.ID())
	}
	return ids
}

func (c *Control) Line(id int) (*NoteLine, bool) {
	if c == nil {
		return nil, false
	}
	line, ok := c.inputs[id]
	return line, ok
}

func (c *Control) Popup() *NotePopup {
	if c == nil {
		return nil
	}
	return c.popup
}

// InputFocused reports whether keystrokes are currently going into a text
// field, either the new-note input or a line in edit mode.
func (c *Control) InputFocused() bool {
	if c == nil || c.closed {
		return false
	}
	if c.newNoteFocus {
		return true
	}
	line := c.selectedLine()
	return line != nil && line.Editing()
}

// EditNote puts the line for id into edit mode and selects it. Unknown IDs are
// ignored.
func (c *Control) EditNote(id int) tea.Cmd {
	if c == nil || c.closed {
		return nil
	}
	line, ok := c.inputs[id]
	if !ok {
		return nil
	}
	for i, existing := range c.lines {
		if existing == line {
			c.selectIndex(i)
			break
		}
	}
	c.blurNewNote()
	return line.SetEditable(true)
}

// FocusNewNote moves keyboard focus to the new-note input when creating notes
// is permitted.
func (c *Control) FocusNewNote() tea.Cmd {
	if c == nil || c.closed || !c.canCreate {
		return nil
	}
	c.newNoteFocus = true
	return c.newNote.Focus()
}

func (c *Control) blurNewNote() {
	c.newNoteFocus = false
	c.newNote.Blur()
}

// Close tears the panel down: line handlers are detached, the popup is closed
// and all listeners are dropped. Calling Close again is a no-op.
func (c *Control) Close() {
	if c == nil || c.closed {
		return
	}
	for _, line := range c.lines {
		line.detach()
	}
	c.lines = nil
	c.inputs = map[int]*NoteLine{}
	c.closePopup()
	c.blurNewNote()
	c.listeners = nil
	c.closed = true
}

func (c *Control) Closed() bool {
	return c == nil || c.closed
}

func (c *Control) noteSubmitted(line *NoteLine) {
	text := strings.TrimSpace(line.EditText())
	if text == "" || text == line.OriginalMessage {
		line.input.SetValue(line.OriginalMessage)
		return
	}
	line.input.SetValue(text)
	c.emitNoteChanged(line.ID(), text)
}

func (c *Control) submitNewNote() {
	text := c.newNote.Value()
	if strings.TrimSpace(text) == "" {
		return
	}
	c.newNote.Reset()
	c.emitNewNoteEntered(text)
}

func (c *Control) noteClicked(line *NoteLine, x, y int) {
	c.closePopup()
	c.popup = newNotePopup(line.note, c.canDelete, c.canEdit, c.markdown)
	c.popup.Open(x, y)
}

func (c *Control) closePopup() {
	if c.popup == nil {
		return
	}
	c.popup.Close()
	c.popup = nil
}

func (c *Control) applyPopupAction(action PopupAction) tea.Cmd {
	popup := c.popup
	if popup == nil || action == PopupNone {
		return nil
	}
	id := popup.NoteID()
	message := popup.message
	c.closePopup()
	switch action {
	case PopupEdit:
		return c.EditNote(id)
	case PopupDelete:
		c.emitNoteDeleted(id)
	case PopupCopy:
		if line, ok := c.inputs[id]; ok {
			message = line.OriginalMessage
		}
		c.emitNoteCopyRequested(id, message)
	}
	return nil
}

func (c *Control) selectedLine() *NoteLine {
	if c == nil || c.cursor < 0 || c.cursor >= len(c.lines) {
		return nil
	}
	return c.lines[c.cursor]
}

// HandleKey routes a key press. It returns false for keys the panel does not
// use so the host can act on them.
func (c *Control) HandleKey(msg tea.KeyPressMsg) (bool, tea.Cmd) {
	if c == nil || c.closed {
		return false, nil
	}
	if c.popup.IsOpen() {
		handled, action := c.popup.HandleKey(msg)
		if !c.popup.IsOpen() {
			c.popup = nil
		}
		return handled, c.applyPopupAction(action)
	}
	if line := c.selectedLine(); line != nil && line.Editing() {
		return line.handleKey(msg)
	}
	if c.newNoteFocus {
		return c.handleNewNoteKey(msg)
	}
	switch msg.String() {
	case "up", "k":
		c.moveCursor(-1)
		return true, nil
	case "down", "j":
		c.moveCursor(1)
		return true, nil
	case "home", "g":
		c.selectIndex(0)
		return true, nil
	case "end", "G":
		c.selectIndex(len(c.lines) - 1)
		return true, nil
	case "enter", "space":
		line := c.selectedLine()
		if line == nil {
			return true, nil
		}
		x, y := c.keyboardAnchor()
		line.click(x, y)
		return true, nil
	case "e":
		line := c.selectedLine()
		if line == nil || !c.canEdit {
			return false, nil
		}
		return true, c.EditNote(line.ID())
	case "n", "tab":
		if !c.canCreate {
			return false, nil
		}
		return true, c.FocusNewNote()
	}
	return false, nil
}

func (c *Control) handleNewNoteKey(msg tea.KeyPressMsg) (bool, tea.Cmd) {
	switch msg.String() {
	case "enter":
		c.submitNewNote()
		return true, nil
	case "esc", "tab":
		c.blurNewNote()
		return true, nil
	}
	var cmd tea.Cmd
	c.newNote, cmd = c.newNote.Update(msg)
	return true, cmd
}

func (c *Control) moveCursor(delta int) {
	c.selectIndex(c.cursor + delta)
}

// selectIndex moves the selection. Lines left behind in edit mode are
// cancelled, since keys only ever reach the selected line.
func (c *Control) selectIndex(idx int) {
	if len(c.lines) == 0 {
		c.cursor = 0
		return
	}
	c.cursor = clamp(idx, 0, len(c.lines)-1)
	selected := c.lines[c.cursor]
	for _, line := range c.lines {
		if line != selected && line.Editing() {
			line.CancelEdit()
		}
	}
}

// keyboardAnchor places a keyboard-opened popup on the selected line's row.
func (c *Control) keyboardAnchor() (int, int) {
	row := c.listTop + c.cursor - c.offset
	if c.listHeight > 0 {
		row = clamp(row, c.listTop, c.listTop+c.listHeight-1)
	}
	return 2, row
}

// HandleMouse routes mouse input using the geometry of the last View call.
// Coordinates are relative to the panel's top-left corner.
func (c *Control) HandleMouse(msg tea.MouseMsg) (bool, tea.Cmd) {
	if c == nil || c.closed || msg == nil {
		return false, nil
	}
	mouse := msg.Mouse()
	switch msg.(type) {
	case tea.MouseWheelMsg:
		if c.popup.IsOpen() {
			return true, nil
		}
		switch mouse.Button {
		case tea.MouseWheelUp:
			c.moveCursor(-1)
			return true, nil
		case tea.MouseWheelDown:
			c.moveCursor(1)
			return true, nil
		}
		return false, nil
	case tea.MouseClickMsg:
	default:
		return false, nil
	}
	if mouse.Button != tea.MouseLeft && mouse.Button != tea.MouseRight {
		return false, nil
	}

	consumed := false
	if c.popup.IsOpen() {
		inside, action := c.popup.HandleClick(mouse.X, mouse.Y, c.width, c.height)
		if inside {
			return true, c.applyPopupAction(action)
		}
		c.closePopup()
		consumed = true
	}

	if c.listHeight > 0 && mouse.Y >= c.listTop && mouse.Y < c.listTop+c.listHeight {
		idx := c.offset + mouse.Y - c.listTop
		if idx < 0 || idx >= len(c.lines) {
			return true, nil
		}
		c.selectIndex(idx)
		c.blurNewNote()
		line := c.lines[idx]
		if line.Editing() {
			return true, nil
		}
		line.click(mouse.X, mouse.Y)
		return true, nil
	}
	if c.canCreate && c.newNoteRow >= 0 && mouse.Y == c.newNoteRow {
		return true, c.FocusNewNote()
	}
	return consumed, nil
}

// View renders the panel into exactly height lines of width columns. The
// popup is not part of it; see PopupView.
func (c *Control) View(width, height int) string {
	if c == nil || c.closed || height <= 0 {
		return ""
	}
	c.width = width
	c.height = height

	footer := 1
	if c.canCreate {
		footer++
	}
	c.listTop = 1
	c.listHeight = max(0, height-c.listTop-footer)
	c.ensureCursorVisible()

	lines := make([]string, 0, height)
	header := fmt.Sprintf("%s (%d)", c.title, len(c.lines))
	lines = append(lines, headerStyle.Render(truncateToWidth(header, width)))

	if len(c.lines) == 0 && c.listHeight > 0 {
		lines = append(lines, emptyStyle.Render(truncateToWidth("No notes.", width)))
	}
	for i := c.offset; i < len(c.lines) && i < c.offset+c.listHeight; i++ {
		lines = append(lines, c.lines[i].render(width, i == c.cursor && !c.newNoteFocus))
	}
	for len(lines) < c.listTop+c.listHeight {
		lines = append(lines, "")
	}

	c.newNoteRow = -1
	if c.canCreate {
		c.newNoteRow = len(lines)
		c.newNote.SetWidth(max(1, width-len(newNoteLabel)-1))
		lines = append(lines, newNoteLabelStyle.Render(newNoteLabel)+c.newNote.View())
	}
	lines = append(lines, helpStyle.Render(truncateToWidth(c.helpText(), width)))
	return padLines(lines, width, height)
}

// PopupView renders the open popup, if any, and the row it starts on.
func (c *Control) PopupView(width, height int) (string, int) {
	if c == nil || c.closed || !c.popup.IsOpen() {
		return "", 0
	}
	return c.popup.View(width, height)
}

func (c *Control) ensureCursorVisible() {
	if c.listHeight <= 0 {
		c.offset = 0
		return
	}
	if c.cursor < c.offset {
		c.offset = c.cursor
	}
	if c.cursor >= c.offset+c.listHeight {
		c.offset = c.cursor - c.listHeight + 1
	}
	c.offset = clamp(c.offset, 0, max(0, len(c.lines)-c.listHeight))
}

func (c *Control) helpText() string {
	if line := c.selectedLine(); line != nil && line.Editing() {
		return "enter save • esc cancel"
	}
	if c.newNoteFocus {
		return "enter add note • esc done"
	}
	parts := []string{"↑/↓ select", "enter menu"}
	if c.canEdit {
		parts = append(parts, "e edit")
	}
	if c.canCreate {
		parts = append(parts, "n new note")
	}
	return strings.Join(parts, " • ")
}
