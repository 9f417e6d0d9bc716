package tui

import (
	"hackspace/internal/filetree"
	"hackspace/internal/model"
	"hackspace/internal/workspace"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case persistedMsg:
		if msg.err != nil {
			m.opts.Log.WithError(msg.err).Warn("save session")
			return m, m.setStatus("save session: "+msg.err.Error(), true)
		}
		return m, nil

	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
			m.statusErr = false
		}
		return m, nil

	case editIdleMsg:
		if msg.seq != m.editSeq || m.pendingEdit == nil {
			return m, nil
		}
		m.flushEdit()
		return m, m.persistCmd()

	case fsChangedMsg:
		m.opts.Log.WithField("file", msg.path).Debug("reloading tree")
		return m, tea.Batch(m.reloadTreeCmd(), waitForChange(m.changes))

	case treeReloadedMsg:
		if msg.err != nil {
			return m, m.setStatus("reload: "+msg.err.Error(), true)
		}
		m.ctrl.ReplaceTree(msg.tree)
		m.refreshRows()
		if t, ok := m.ctrl.Session().Find(m.editorTab); ok && !t.Modified {
			m.syncEditor(true)
		}
		m.offset = scrollOffset(m.offset, m.cursor, m.paneHeight(), len(m.rows))
		return m, m.persistCmd()

	case tea.MouseMsg:
		return m.updateMouse(msg)

	case tea.KeyMsg:
		return m.updateKey(msg)
	}

	if m.focus == focusEditor {
		var cmd tea.Cmd
		m.editor, cmd = m.editor.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m appModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m, tea.Quit
	}
	if m.quick != nil {
		return m.updateQuickOpen(msg)
	}

	// Bindings that work from both panes.
	switch {
	case key.Matches(msg, m.keys.Save):
		if m.editorTab == "" {
			return m, nil
		}
		return m, m.dispatch(workspace.FileSaved(m.editorTab))
	case key.Matches(msg, m.keys.CloseTab):
		if m.editorTab == "" {
			return m, nil
		}
		cmd := m.dispatch(workspace.TabClosed(m.editorTab))
		if m.editorTab == "" {
			m.focus = focusTree
		}
		m.applyFocus()
		return m, cmd
	case key.Matches(msg, m.keys.QuickOpen):
		q := newQuickOpen(m.ctrl.Tree().Files())
		m.quick = &q
		m.editor.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Preview):
		m.preview = !m.preview
		m.applyFocus()
		return m, nil
	case (key.Matches(msg, m.keys.NextTab) || key.Matches(msg, m.keys.PrevTab)) && (msg.Alt || m.focus == focusTree):
		delta := 1
		if key.Matches(msg, m.keys.PrevTab) {
			delta = -1
		}
		return m, m.cycleTab(delta)
	}

	if m.focus == focusEditor {
		return m.updateEditorKey(msg)
	}
	return m.updateTreeKey(msg)
}

func (m appModel) updateTreeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Open):
		return m.clickRow(m.cursor)
	case key.Matches(msg, m.keys.Collapse):
		if m.cursor >= len(m.rows) {
			return m, nil
		}
		r := m.rows[m.cursor]
		if r.Node.IsFolder() && r.Node.Expanded {
			return m, m.dispatch(workspace.NodeClicked(r.Path))
		}
		if len(r.Path) > 1 {
			m.revealPath(r.Path[:len(r.Path)-1])
		}
	case key.Matches(msg, m.keys.Focus):
		if m.editorTab != "" {
			m.focus = focusEditor
			m.applyFocus()
		}
	case key.Matches(msg, m.keys.Reload):
		return m, m.reloadTreeCmd()
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.resize()
	}
	return m, nil
}

func (m appModel) updateEditorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Blur) {
		m.focus = focusTree
		m.applyFocus()
		return m, nil
	}
	if m.previewing() {
		return m, nil
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	if v := m.editor.Value(); v != m.editorValue && m.editorTab != "" {
		m.editorValue = v
		return m, tea.Batch(cmd, m.dispatch(workspace.FileEdited(m.editorTab, v)))
	}
	return m, cmd
}

func (m appModel) updateQuickOpen(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.quick = nil
		m.applyFocus()
		return m, nil
	case "up", "ctrl+k":
		m.quick.move(-1)
		return m, nil
	case "down", "ctrl+j":
		m.quick.move(1)
		return m, nil
	case "enter":
		p, ok := m.quick.selected()
		m.quick = nil
		if !ok {
			m.applyFocus()
			return m, nil
		}
		cmd := m.dispatch(workspace.NodeClicked(p))
		m.revealPath(p)
		m.focus = focusEditor
		m.applyFocus()
		return m, cmd
	}

	q := *m.quick
	var cmd tea.Cmd
	q.input, cmd = q.input.Update(msg)
	q.refresh()
	m.quick = &q
	return m, cmd
}

func (m appModel) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.quick != nil {
		return m, nil
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if msg.X < m.sidebarWidth {
			m.moveCursor(-1)
			return m, nil
		}
	case tea.MouseButtonWheelDown:
		if msg.X < m.sidebarWidth {
			m.moveCursor(1)
			return m, nil
		}
	}
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		if m.focus == focusEditor {
			var cmd tea.Cmd
			m.editor, cmd = m.editor.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	switch {
	case msg.Y == 1:
		for _, seg := range tabSegments(m.ctrl.Session().Tabs()) {
			if msg.X < seg.start || msg.X >= seg.end {
				continue
			}
			if msg.X >= seg.closeAt {
				cmd := m.dispatch(workspace.TabClosed(seg.name))
				if m.editorTab == "" {
					m.focus = focusTree
				}
				m.applyFocus()
				return m, cmd
			}
			cmd := m.dispatch(workspace.TabClicked(seg.name))
			m.applyFocus()
			return m, cmd
		}
	case msg.Y >= headerRows && msg.Y < headerRows+m.paneHeight() && msg.X < m.sidebarWidth:
		idx := m.offset + msg.Y - headerRows
		if idx < len(m.rows) {
			return m.clickRow(idx)
		}
	case msg.Y >= headerRows && msg.X > m.sidebarWidth && m.editorTab != "":
		m.focus = focusEditor
		m.applyFocus()
	}
	return m, nil
}

// clickRow is a node click on a visible tree row. Opening a file moves focus to the editor.
func (m appModel) clickRow(idx int) (tea.Model, tea.Cmd) {
	if idx < 0 || idx >= len(m.rows) {
		return m, nil
	}
	r := m.rows[idx]
	m.cursor = idx
	cmd := m.dispatch(workspace.NodeClicked(r.Path))
	if r.Node.IsFile() {
		m.focus = focusEditor
	}
	m.revealPath(r.Path)
	m.applyFocus()
	return m, cmd
}

func (m *appModel) cycleTab(delta int) tea.Cmd {
	s := m.ctrl.Session()
	if s.Len() < 2 {
		return nil
	}
	next := s.Next()
	if delta < 0 {
		next = s.Prev()
	}
	cmd := m.dispatch(workspace.TabClicked(next.Active()))
	m.applyFocus()
	return cmd
}

func (m *appModel) moveCursor(delta int) {
	if len(m.rows) == 0 {
		return
	}
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	m.offset = scrollOffset(m.offset, m.cursor, m.paneHeight(), len(m.rows))
}

// revealPath moves the cursor to path when it is visible.
func (m *appModel) revealPath(p model.Path) {
	if i := filetree.IndexOf(m.rows, p); i >= 0 {
		m.cursor = i
		m.offset = scrollOffset(m.offset, m.cursor, m.paneHeight(), len(m.rows))
	}
}
