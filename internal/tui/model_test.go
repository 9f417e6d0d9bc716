package tui

import (
	"strings"
	"testing"

	"hackspace/internal/filetree"
	"hackspace/internal/model"
	"hackspace/internal/tabs"
	"hackspace/internal/workspace"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTree() filetree.Tree {
	return filetree.New(
		model.Folder("src", true,
			model.File("App.jsx", "javascript", false),
			model.File("index.css", "css", false),
		),
		model.File("README.md", "markdown", false),
	)
}

type recorder struct{ events []workspace.Event }

func (r *recorder) Observe(ev workspace.Event, _ model.Snapshot) { r.events = append(r.events, ev) }

func (r *recorder) types() []workspace.EventType {
	var out []workspace.EventType
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

func newTestModel(t *testing.T) (appModel, *recorder) {
	t.Helper()
	rec := &recorder{}
	ctrl := workspace.New(testTree(), tabs.Session{})
	m := newAppModel(Options{Controller: ctrl}, rec)
	return send(t, m, tea.WindowSizeMsg{Width: 100, Height: 30}), rec
}

func send(t *testing.T, m appModel, msgs ...tea.Msg) appModel {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(appModel)
		require.True(t, ok)
	}
	return m
}

func keyRunes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keySave  = tea.KeyMsg{Type: tea.KeyCtrlS}
	keyClose = tea.KeyMsg{Type: tea.KeyCtrlW}
	keyQuick = tea.KeyMsg{Type: tea.KeyCtrlP}
	keyPrev  = tea.KeyMsg{Type: tea.KeyCtrlO}
)

func TestTree_EnterTogglesFolder(t *testing.T) {
	m, rec := newTestModel(t)
	require.Len(t, m.rows, 4)

	m = send(t, m, keyEnter)
	assert.Len(t, m.rows, 2, "collapsed src hides its children")
	assert.Equal(t, focusTree, m.focus)

	m = send(t, m, keyEnter)
	assert.Len(t, m.rows, 4)
	assert.Equal(t, []workspace.EventType{workspace.EventNodeClicked, workspace.EventNodeClicked}, rec.types())
}

func TestOpenEditSaveClose(t *testing.T) {
	m, rec := newTestModel(t)

	// src/App.jsx
	m = send(t, m, keyDown, keyEnter)
	assert.Equal(t, "App.jsx", m.editorTab)
	assert.Equal(t, focusEditor, m.focus)

	m = send(t, m, keyRunes("h"), keyRunes("i"))
	tab, ok := m.ctrl.Session().Find("App.jsx")
	require.True(t, ok)
	assert.True(t, tab.Modified)
	buf, err := m.ctrl.Buffer("App.jsx")
	require.NoError(t, err)
	assert.Equal(t, "hi", buf)

	m = send(t, m, keySave)
	tab, _ = m.ctrl.Session().Find("App.jsx")
	assert.False(t, tab.Modified)
	assert.Contains(t, m.status, "saved App.jsx")

	// Back to the tree, open index.css, then close it.
	m = send(t, m, keyEsc, keyDown, keyEnter)
	assert.Equal(t, "index.css", m.ctrl.Session().Active())
	assert.Equal(t, "index.css", m.editorTab)

	m = send(t, m, keyClose)
	assert.Equal(t, "App.jsx", m.ctrl.Session().Active())
	assert.Equal(t, "App.jsx", m.editorTab)
	assert.Equal(t, "hi", m.editor.Value())

	m = send(t, m, keyClose)
	assert.Equal(t, "", m.editorTab)
	assert.Equal(t, focusTree, m.focus)

	assert.Equal(t, []workspace.EventType{
		workspace.EventNodeClicked,
		workspace.EventFileEdited,
		workspace.EventFileSaved,
		workspace.EventNodeClicked,
		workspace.EventTabClosed,
		workspace.EventTabClosed,
	}, rec.types())
}

func TestTyping_JournalsOnceWhenIdle(t *testing.T) {
	m, rec := newTestModel(t)
	m = send(t, m, keyDown, keyEnter)
	require.Equal(t, "App.jsx", m.editorTab)

	m = send(t, m, keyRunes("a"), keyRunes("b"), keyRunes("c"))
	assert.Equal(t, []workspace.EventType{workspace.EventNodeClicked}, rec.types(), "typing is not journaled per keystroke")
	buf, err := m.ctrl.Buffer("App.jsx")
	require.NoError(t, err)
	assert.Equal(t, "abc", buf, "the controller sees every keystroke")

	// A tick from an earlier keystroke is stale.
	m = send(t, m, editIdleMsg{seq: m.editSeq - 1})
	assert.Len(t, rec.events, 1)

	m = send(t, m, editIdleMsg{seq: m.editSeq})
	require.Len(t, rec.events, 2)
	assert.Equal(t, workspace.EventFileEdited, rec.events[1].Type)
	assert.Equal(t, "abc", rec.events[1].Content)
	assert.Nil(t, m.pendingEdit)

	// Nothing left to flush.
	m = send(t, m, editIdleMsg{seq: m.editSeq})
	assert.Len(t, rec.events, 2)
}

func TestTyping_FlushedBeforeNextEvent(t *testing.T) {
	m, rec := newTestModel(t)
	m = send(t, m, keyDown, keyEnter, keyRunes("x"), keyEsc, keyDown, keyEnter)

	assert.Equal(t, []workspace.EventType{
		workspace.EventNodeClicked,
		workspace.EventFileEdited,
		workspace.EventNodeClicked,
	}, rec.types())
}

func TestTabCycleFromTree(t *testing.T) {
	m, _ := newTestModel(t)
	m = send(t, m, keyDown, keyEnter, keyEsc, keyDown, keyEnter, keyEsc)
	require.Equal(t, "index.css", m.ctrl.Session().Active())

	m = send(t, m, keyRunes("]"))
	assert.Equal(t, "App.jsx", m.ctrl.Session().Active())
	assert.Equal(t, "App.jsx", m.editorTab)

	m = send(t, m, keyRunes("["))
	assert.Equal(t, "index.css", m.ctrl.Session().Active())
}

func TestMouse_TabBarClickAndClose(t *testing.T) {
	m, _ := newTestModel(t)
	m = send(t, m, keyDown, keyEnter, keyEsc, keyDown, keyEnter, keyEsc)
	segs := tabSegments(m.ctrl.Session().Tabs())
	require.Len(t, segs, 2)

	m = send(t, m, tea.MouseMsg{X: segs[0].start + 1, Y: 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	assert.Equal(t, "App.jsx", m.ctrl.Session().Active())

	m = send(t, m, tea.MouseMsg{X: segs[0].closeAt, Y: 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	assert.Equal(t, []string{"index.css"}, tabNames(m))
	assert.Equal(t, "index.css", m.ctrl.Session().Active())
}

func TestMouse_TreeClick(t *testing.T) {
	m, _ := newTestModel(t)
	// Row 3 (README.md) sits at screen line headerRows+3.
	m = send(t, m, tea.MouseMsg{X: 2, Y: headerRows + 3, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	assert.Equal(t, "README.md", m.ctrl.Session().Active())
	assert.Equal(t, 3, m.cursor)
}

func TestQuickOpen(t *testing.T) {
	m, _ := newTestModel(t)
	m = send(t, m, keyQuick)
	require.NotNil(t, m.quick)

	m = send(t, m, keyRunes("r"), keyRunes("e"), keyRunes("a"), keyRunes("d"))
	m = send(t, m, keyEnter)
	assert.Nil(t, m.quick)
	assert.Equal(t, "README.md", m.ctrl.Session().Active())
	assert.Equal(t, focusEditor, m.focus)
	assert.Equal(t, 3, m.cursor)
}

func TestQuickOpen_EscCancels(t *testing.T) {
	m, rec := newTestModel(t)
	m = send(t, m, keyQuick, keyEsc)
	assert.Nil(t, m.quick)
	assert.Empty(t, rec.events)
}

func TestPreview_MarkdownIgnoresTyping(t *testing.T) {
	m, _ := newTestModel(t)
	m = send(t, m, keyQuick, keyRunes("README"), keyEnter)
	require.Equal(t, "README.md", m.editorTab)

	m = send(t, m, keyPrev)
	assert.True(t, m.previewing())
	m = send(t, m, keyRunes("x"))
	tab, _ := m.ctrl.Session().Find("README.md")
	assert.False(t, tab.Modified)

	m = send(t, m, keyPrev, keyRunes("x"))
	tab, _ = m.ctrl.Session().Find("README.md")
	assert.True(t, tab.Modified)
}

func TestTreeReload_KeepsExpansion(t *testing.T) {
	m, _ := newTestModel(t)
	m = send(t, m, keyEnter) // collapse src
	fresh := filetree.New(
		model.Folder("src", true,
			model.File("App.jsx", "javascript", false),
			model.File("new.js", "javascript", false),
		),
		model.File("README.md", "markdown", false),
	)
	m = send(t, m, treeReloadedMsg{tree: fresh})
	n, ok := m.ctrl.Tree().FindNode(model.Path{"src"})
	require.True(t, ok)
	assert.False(t, n.Expanded)
	_, ok = m.ctrl.Tree().FindNode(model.Path{"src", "new.js"})
	assert.True(t, ok)
}

func TestView_Renders(t *testing.T) {
	m, _ := newTestModel(t)
	m = send(t, m, keyDown, keyEnter)
	out := m.View()
	lines := strings.Split(out, "\n")
	assert.GreaterOrEqual(t, len(lines), m.paneHeight()+headerRows)
	assert.Contains(t, out, "hackspace")
	assert.Contains(t, out, "App.jsx")
	assert.Contains(t, out, "src")
}

func tabNames(m appModel) []string {
	var out []string
	for _, t := range m.ctrl.Session().Tabs() {
		out = append(out, t.Name)
	}
	return out
}
