package app

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	xansi "github.com/charmbracelet/x/ansi"

	"adminnotes/internal/logging"
	"adminnotes/internal/notesui"
	"adminnotes/internal/types"
)

const (
	maxEventsPerTick  = 64
	tickInterval      = 100 * time.Millisecond
	statusLinePadding = 1
	defaultWidth      = 80
	defaultHeight     = 24
)

type ModelOption func(*Model)

func WithLogger(logger logging.Logger) ModelOption {
	return func(m *Model) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithAuthor sets the moderator name recorded on notes created or edited
// from this UI.
func WithAuthor(author string) ModelOption {
	return func(m *Model) {
		m.author = strings.TrimSpace(author)
	}
}

func WithPermissions(perms types.NotePermissions) ModelOption {
	return func(m *Model) {
		m.perms = perms
	}
}

func WithMarkdown(enabled bool) ModelOption {
	return func(m *Model) {
		m.markdown = enabled
	}
}

// Model hosts the notes panel for one player and keeps it in sync with a
// NotesBackend. Panel events become backend commands; every successful
// mutation and every watch event triggers a refetch.
type Model struct {
	backend NotesBackend
	player  string
	author  string
	perms   types.NotePermissions

	markdown      bool
	panel         *notesui.Control
	unsubscribe   func()
	watch         *WatchController
	layerComposer LayerComposer
	logger        logging.Logger
	now           func() time.Time

	// pending collects commands raised by panel listeners while the panel
	// handles input; they are batched into the same Update result.
	pending []tea.Cmd

	width    int
	height   int
	fetchSeq int
	loaded   bool
	closed   bool

	status      string
	statusLevel statusLevel
	statusUntil time.Time
}

func NewModel(backend NotesBackend, player string, opts ...ModelOption) *Model {
	m := &Model{
		backend:       backend,
		player:        strings.TrimSpace(player),
		perms:         types.NotePermissions{Create: true, Delete: true, Edit: true},
		watch:         NewWatchController(maxEventsPerTick),
		layerComposer: NewTextLayerComposer(),
		logger:        logging.Nop(),
		now:           time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	m.panel = notesui.New(
		notesui.WithTitle("Notes for "+m.player),
		notesui.WithMarkdown(m.markdown),
	)
	m.panel.SetPermissions(m.perms.Create, m.perms.Delete, m.perms.Edit)
	m.unsubscribe = m.panel.Subscribe(notesui.ListenerFuncs{
		OnNoteChanged:       m.onNoteChanged,
		OnNewNoteEntered:    m.onNewNoteEntered,
		OnNoteDeleted:       m.onNoteDeleted,
		OnNoteCopyRequested: m.onNoteCopyRequested,
	})
	return m
}

// Run starts the program and tears the model down once it exits.
func Run(backend NotesBackend, player string, opts ...ModelOption) error {
	model := NewModel(backend, player, opts...)
	defer model.teardown()
	_, err := tea.NewProgram(model).Run()
	return err
}

func (m *Model) Panel() *notesui.Control {
	return m.panel
}

// SetPermissions changes what the moderator may do from now on.
func (m *Model) SetPermissions(perms types.NotePermissions) {
	m.perms = perms
	m.panel.SetPermissions(perms.Create, perms.Delete, perms.Edit)
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.refreshCmd(), openWatchCmd(m.backend, m.player), tickCmd())
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.closed {
		return m, nil
	}
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyPressMsg:
		return m, m.handleKey(msg)
	case tea.MouseMsg:
		_, cmd := m.panel.HandleMouse(msg)
		return m, m.withPending(cmd)
	case notesMsg:
		m.applyNotes(msg)
		return m, nil
	case noteCreatedMsg:
		if msg.err != nil {
			m.logger.Warn("note_create_failed", logging.F("player", m.player), logging.Err(msg.err))
			m.setStatusError("add note failed: " + msg.err.Error())
			return m, nil
		}
		m.setStatusInfo(fmt.Sprintf("note %d added", msg.note.ID))
		return m, m.refreshCmd()
	case noteUpdatedMsg:
		if msg.err != nil {
			m.logger.Warn("note_update_failed", logging.F("note_id", msg.id), logging.Err(msg.err))
			m.setStatusError(fmt.Sprintf("save note %d failed: %s", msg.id, msg.err.Error()))
			return m, m.refreshCmd()
		}
		m.setStatusInfo(fmt.Sprintf("note %d saved", msg.id))
		return m, m.refreshCmd()
	case noteDeletedMsg:
		if msg.err != nil {
			m.logger.Warn("note_delete_failed", logging.F("note_id", msg.id), logging.Err(msg.err))
			m.setStatusError(fmt.Sprintf("delete note %d failed: %s", msg.id, msg.err.Error()))
			return m, nil
		}
		m.setStatusInfo(fmt.Sprintf("note %d deleted", msg.id))
		return m, m.refreshCmd()
	case noteCopiedMsg:
		if msg.err != nil {
			m.setStatusError("copy failed: " + msg.err.Error())
			return m, nil
		}
		m.setStatusInfo(fmt.Sprintf("note %d copied (%s)", msg.id, msg.method))
		return m, nil
	case watchOpenedMsg:
		if msg.err != nil {
			m.logger.Warn("note_watch_failed", logging.F("player", m.player), logging.Err(msg.err))
			m.setStatusWarning("live updates unavailable: " + msg.err.Error())
			return m, watchRetryCmd()
		}
		m.watch.SetStream(msg.events, msg.cancel)
		m.logger.Debug("note_watch_open", logging.F("player", m.player))
		return m, nil
	case watchRetryMsg:
		if m.watch.Active() {
			return m, nil
		}
		return m, openWatchCmd(m.backend, m.player)
	case tickMsg:
		return m, m.handleTick(time.Time(msg))
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}
	handled, cmd := m.panel.HandleKey(msg)
	if handled {
		return m.withPending(cmd)
	}
	switch msg.String() {
	case "q":
		return m.quit()
	case "r":
		m.setStatusInfo("refreshing")
		return m.refreshCmd()
	}
	return nil
}

func (m *Model) handleTick(at time.Time) tea.Cmd {
	m.expireStatus(at)
	events, changed, closed := m.watch.ConsumeTick()
	cmds := []tea.Cmd{tickCmd()}
	if changed {
		m.logger.Debug("note_watch_events", logging.F("count", len(events)))
		cmds = append(cmds, m.refreshCmd())
	}
	if closed {
		m.setStatusWarning("live updates interrupted; reconnecting")
		cmds = append(cmds, watchRetryCmd())
	}
	return tea.Batch(cmds...)
}

func (m *Model) applyNotes(msg notesMsg) {
	if msg.seq != m.fetchSeq {
		return
	}
	if msg.err != nil {
		m.logger.Warn("note_list_failed", logging.F("player", m.player), logging.Err(msg.err))
		m.setStatusError("load notes failed: " + msg.err.Error())
		return
	}
	snapshot := make(map[int]*types.Note, len(msg.notes))
	for _, note := range msg.notes {
		if note == nil {
			continue
		}
		snapshot[note.ID] = note
	}
	m.panel.SetNotes(snapshot)
	m.loaded = true
}

func (m *Model) refreshCmd() tea.Cmd {
	m.fetchSeq++
	return fetchNotesCmd(m.backend, m.player, m.fetchSeq)
}

func (m *Model) onNoteChanged(id int, text string) {
	m.logger.Info("note_edit_submitted", logging.F("note_id", id))
	m.setStatusInfo(fmt.Sprintf("saving note %d", id))
	m.pending = append(m.pending, updateNoteCmd(m.backend, id, text, m.author))
}

func (m *Model) onNewNoteEntered(text string) {
	m.logger.Info("note_add_submitted", logging.F("player", m.player))
	m.setStatusInfo("adding note")
	m.pending = append(m.pending, createNoteCmd(m.backend, m.player, text, m.author))
}

func (m *Model) onNoteDeleted(id int) {
	m.logger.Info("note_delete_submitted", logging.F("note_id", id))
	m.setStatusInfo(fmt.Sprintf("deleting note %d", id))
	m.pending = append(m.pending, deleteNoteCmd(m.backend, id))
}

func (m *Model) onNoteCopyRequested(id int, message string) {
	m.pending = append(m.pending, copyNoteCmd(id, message))
}

func (m *Model) withPending(cmd tea.Cmd) tea.Cmd {
	if len(m.pending) == 0 {
		return cmd
	}
	cmds := append(m.pending, cmd)
	m.pending = nil
	return tea.Batch(cmds...)
}

func (m *Model) quit() tea.Cmd {
	m.teardown()
	return tea.Quit
}

// teardown closes the panel and the watch stream. It is safe to call twice.
func (m *Model) teardown() {
	if m.closed {
		return
	}
	m.closed = true
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
	m.panel.Close()
	m.watch.Reset()
	m.pending = nil
}

func (m *Model) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	v.MouseMode = tea.MouseModeCellMotion
	return v
}

func (m *Model) render() string {
	if m.closed {
		return ""
	}
	width, height := m.width, m.height
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}
	panelHeight := max(1, height-1)
	body := m.panel.View(width, panelHeight)
	if block, row := m.panel.PopupView(width, panelHeight); block != "" {
		body = m.layerComposer.Compose(body, []LayerOverlay{{Row: row, Block: block}})
	}
	return body + "\n" + m.renderStatusLine(width)
}

func (m *Model) renderStatusLine(width int) string {
	pad := strings.Repeat(" ", statusLinePadding)
	left := statusPlayerStyle.Render(m.player)
	text := m.status
	if text == "" && !m.loaded {
		text = "loading..."
	}
	line := pad + left
	if text != "" {
		line += "  " + styleForStatus(m.statusLevel).Render(text)
	}
	if !m.watch.Active() {
		line += statusStyle.Render("  [offline]")
	}
	return xansi.Truncate(line, max(0, width), "…")
}
