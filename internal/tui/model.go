package tui

import (
	"context"
	"io"
	"sync"
	"time"

	"hackspace/internal/filetree"
	"hackspace/internal/model"
	"hackspace/internal/store"
	"hackspace/internal/workspace"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
)

type focus int

const (
	focusTree focus = iota
	focusEditor
)

func (f focus) String() string {
	if f == focusEditor {
		return "editor"
	}
	return "tree"
}

const (
	defaultSidebarWidth = 30
	minSidebarWidth     = 16
	statusTTL           = 4 * time.Second

	// Typing bursts are journaled and persisted once the editor has been idle this long.
	editDebounce = 400 * time.Millisecond

	// Screen rows above the panes: title + tab bar.
	headerRows = 2
	// Screen rows below the panes: status + help.
	footerRows = 2
)

type (
	fsChangedMsg    struct{ path string }
	persistedMsg    struct{ err error }
	clearStatusMsg  struct{ seq int }
	editIdleMsg     struct{ seq int }
	treeReloadedMsg struct {
		tree filetree.Tree
		err  error
	}
)

type appModel struct {
	opts    Options
	ctrl    *workspace.Controller
	journal workspace.Listener
	saver   *sessionSaver
	changes <-chan string

	width  int
	height int

	focus        focus
	sidebarWidth int
	rows         []filetree.Row
	cursor       int
	offset       int

	editor      textarea.Model
	editorTab   string
	editorValue string
	preview     bool

	quick *quickOpen

	keys     keyMap
	help     help.Model
	showHelp bool

	status    string
	statusErr bool
	statusSeq int

	// Last file.edited of the current typing burst, not yet journaled.
	pendingEdit *journalEntry
	editSeq     int
}

func newAppModel(opts Options, journal workspace.Listener) appModel {
	if opts.Log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		opts.Log = l
	}
	ta := textarea.New()
	ta.Placeholder = "Open a file from the tree…"
	ta.CharLimit = 0
	ta.ShowLineNumbers = true
	ta.Prompt = ""

	m := appModel{
		opts:         opts,
		ctrl:         opts.Controller,
		journal:      journal,
		saver:        &sessionSaver{store: opts.Store},
		sidebarWidth: defaultSidebarWidth,
		editor:       ta,
		preview:      opts.Preview,
		keys:         defaultKeyMap(),
		help:         help.New(),
	}

	// Best-effort: restore layout and selection for this workspace.
	var cursorPath string
	if st, err := opts.Store.LoadTUIState(); err == nil && st != nil {
		if st.SidebarWidth >= minSidebarWidth {
			m.sidebarWidth = st.SidebarWidth
		}
		m.preview = m.preview || st.ShowPreview
		if st.Focus == focusEditor.String() {
			m.focus = focusEditor
		}
		cursorPath = st.Cursor
	}

	m.refreshRows()
	if cursorPath != "" {
		if i := filetree.IndexOf(m.rows, model.ParsePath(cursorPath)); i >= 0 {
			m.cursor = i
		}
	}
	m.syncEditor(true)
	if m.focus == focusEditor && m.editorTab == "" {
		m.focus = focusTree
	}
	m.applyFocus()
	return m
}

func (m appModel) Init() tea.Cmd {
	cmds := []tea.Cmd{textarea.Blink}
	if m.changes != nil {
		cmds = append(cmds, waitForChange(m.changes))
	}
	return tea.Batch(cmds...)
}

func waitForChange(ch <-chan string) tea.Cmd {
	return func() tea.Msg {
		p, ok := <-ch
		if !ok {
			return nil
		}
		return fsChangedMsg{path: p}
	}
}

// dispatch runs one controller event and returns the command that persists the result.
// Edits are coalesced: only the last one of a burst is journaled, after editDebounce.
func (m *appModel) dispatch(ev workspace.Event) tea.Cmd {
	snap, err := m.ctrl.Dispatch(ev)
	m.refreshRows()
	m.syncEditor(false)

	if ev.Type == workspace.EventFileEdited && err == nil {
		if m.pendingEdit != nil && m.pendingEdit.ev.Name != ev.Name {
			m.flushEdit()
		}
		m.pendingEdit = &journalEntry{ev: ev, snap: snap}
		m.editSeq++
		seq := m.editSeq
		return tea.Tick(editDebounce, func(time.Time) tea.Msg { return editIdleMsg{seq: seq} })
	}

	m.flushEdit()
	if m.journal != nil {
		m.journal.Observe(ev, snap)
	}

	var cmds []tea.Cmd
	if err != nil {
		cmds = append(cmds, m.setStatus(err.Error(), true))
	} else if ev.Type == workspace.EventFileSaved {
		cmds = append(cmds, m.setStatus("saved "+ev.Name, false))
	}
	cmds = append(cmds, m.persistCmd())
	return tea.Batch(cmds...)
}

// flushEdit journals the pending edit, if any, ahead of whatever comes next.
func (m *appModel) flushEdit() {
	if m.pendingEdit == nil {
		return
	}
	if m.journal != nil {
		m.journal.Observe(m.pendingEdit.ev, m.pendingEdit.snap)
	}
	m.pendingEdit = nil
}

func (m *appModel) refreshRows() {
	m.rows = m.ctrl.Tree().Flatten()
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// syncEditor loads the active tab's buffer when the active tab changed (or force is set).
func (m *appModel) syncEditor(force bool) {
	active := m.ctrl.Session().Active()
	if !force && active == m.editorTab {
		return
	}
	m.editorTab = active
	content := ""
	if active != "" {
		c, err := m.ctrl.Buffer(active)
		if err != nil {
			m.opts.Log.WithError(err).WithField("tab", active).Warn("load buffer")
		}
		content = c
	}
	m.editor.SetValue(content)
	m.editorValue = content
	m.editor.CursorStart()
}

func (m *appModel) applyFocus() {
	if m.focus == focusEditor && m.editorTab != "" && !m.previewing() {
		m.editor.Focus()
		return
	}
	m.editor.Blur()
}

func (m appModel) previewing() bool {
	if !m.preview || m.editorTab == "" {
		return false
	}
	t, ok := m.ctrl.Session().Find(m.editorTab)
	return ok && t.Language == "markdown"
}

func (m *appModel) setStatus(msg string, isErr bool) tea.Cmd {
	m.statusSeq++
	m.status = msg
	m.statusErr = isErr
	seq := m.statusSeq
	return tea.Tick(statusTTL, func(time.Time) tea.Msg { return clearStatusMsg{seq: seq} })
}

// sessionSaver serializes session writes so a slow older write never lands after a newer one.
type sessionSaver struct {
	store store.Store

	mu      sync.Mutex
	seq     uint64
	written uint64
}

func (s *sessionSaver) save(st *store.SessionState) tea.Cmd {
	s.mu.Lock()
	s.seq++
	n := s.seq
	s.mu.Unlock()
	return func() tea.Msg {
		s.mu.Lock()
		defer s.mu.Unlock()
		if n < s.written {
			return persistedMsg{}
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.store.SaveSession(ctx, st); err != nil {
			return persistedMsg{err: err}
		}
		s.written = n
		return persistedMsg{}
	}
}

func (m appModel) persistCmd() tea.Cmd {
	if m.opts.Workspace == "" || m.opts.Store.Dir == "" {
		return nil
	}
	return m.saver.save(store.StateFrom(m.opts.Workspace, m.ctrl))
}

func (m appModel) persistNow() {
	if cmd := m.persistCmd(); cmd != nil {
		if msg, ok := cmd().(persistedMsg); ok && msg.err != nil {
			m.opts.Log.WithError(msg.err).Warn("save session")
		}
	}
}

func (m appModel) saveTUIState() {
	st := &store.TUIState{
		Version:      1,
		SidebarWidth: m.sidebarWidth,
		ShowPreview:  m.preview,
		Focus:        m.focus.String(),
	}
	if m.cursor >= 0 && m.cursor < len(m.rows) {
		st.Cursor = m.rows[m.cursor].Path.String()
	}
	if err := m.opts.Store.SaveTUIState(st); err != nil {
		m.opts.Log.WithError(err).Warn("save ui state")
	}
}

func (m appModel) reloadTreeCmd() tea.Cmd {
	if m.opts.Root == "" {
		return nil
	}
	root, lo := m.opts.Root, m.opts.Load
	return func() tea.Msg {
		t, err := filetree.LoadDir(root, lo)
		return treeReloadedMsg{tree: t, err: err}
	}
}

func (m appModel) paneHeight() int {
	h := m.height - headerRows - footerRows
	if m.showHelp {
		h -= 3
	}
	if h < 1 {
		h = 1
	}
	return h
}

func (m appModel) editorWidth() int {
	w := m.width - m.sidebarWidth - 1
	if w < 10 {
		w = 10
	}
	return w
}

func (m *appModel) resize() {
	if m.sidebarWidth > m.width/2 && m.width > 0 {
		m.sidebarWidth = max(minSidebarWidth, m.width/2)
	}
	m.editor.SetWidth(m.editorWidth())
	m.editor.SetHeight(m.paneHeight())
	m.help.Width = m.width
	m.offset = scrollOffset(m.offset, m.cursor, m.paneHeight(), len(m.rows))
}
