package tui

import (
	"strings"

	"hackspace/internal/filetree"
	"hackspace/internal/model"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// tabSegment is a tab's horizontal extent on the tab bar; closeAt is where its close glyph starts.
type tabSegment struct {
	name    string
	label   string
	start   int
	closeAt int
	end     int
}

func tabLabel(t model.TabEntry) string {
	var b strings.Builder
	b.WriteString(" ")
	if t.HasErrors {
		b.WriteString(glyphError())
		b.WriteString(" ")
	}
	b.WriteString(t.Name)
	if t.Modified {
		b.WriteString(" ")
		b.WriteString(glyphModified())
	}
	b.WriteString(" ")
	return b.String()
}

// tabSegments lays tabs out left to right with one column between them.
func tabSegments(tabs []model.TabEntry) []tabSegment {
	out := make([]tabSegment, 0, len(tabs))
	x := 0
	for _, t := range tabs {
		label := tabLabel(t)
		w := xansi.StringWidth(label)
		closeW := xansi.StringWidth(glyphClose()) + 1
		seg := tabSegment{name: t.Name, label: label, start: x, closeAt: x + w, end: x + w + closeW}
		out = append(out, seg)
		x = seg.end + 1
	}
	return out
}

func (m appModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	title := styleTitle().Render(" hackspace ")
	if m.opts.Title != "" {
		title += styleMuted().Render(" " + m.opts.Title)
	}

	parts := []string{
		fitWidth(title, m.width),
		m.viewTabBar(),
		m.viewPanes(),
		m.viewStatus(),
	}
	if m.showHelp {
		parts = append(parts, m.help.FullHelpView(m.keys.FullHelp()))
	} else {
		parts = append(parts, m.help.ShortHelpView(m.keys.ShortHelp()))
	}
	return strings.Join(parts, "\n")
}

func (m appModel) viewTabBar() string {
	s := m.ctrl.Session()
	if s.Len() == 0 {
		return fitWidth(styleMuted().Render(" no open tabs"), m.width)
	}
	var b strings.Builder
	for i, seg := range tabSegments(s.Tabs()) {
		if i > 0 {
			b.WriteString(" ")
		}
		st := styleInactiveTab()
		if seg.name == s.Active() {
			st = styleActiveTab()
		}
		label := seg.label
		if t, ok := s.Find(seg.name); ok {
			label = m.decorateLabel(t, seg.name == s.Active())
		}
		b.WriteString(label)
		b.WriteString(st.Render(glyphClose() + " "))
	}
	return fitWidth(b.String(), m.width)
}

// decorateLabel renders tabLabel with colored markers; the plain width is unchanged.
func (m appModel) decorateLabel(t model.TabEntry, active bool) string {
	st := styleInactiveTab()
	if active {
		st = styleActiveTab()
	}
	var b strings.Builder
	b.WriteString(st.Render(" "))
	if t.HasErrors {
		b.WriteString(st.Inherit(styleErrorMark()).Render(glyphError() + " "))
	}
	b.WriteString(st.Render(t.Name))
	if t.Modified {
		b.WriteString(st.Inherit(styleModifiedMark()).Render(" " + glyphModified()))
	}
	b.WriteString(st.Render(" "))
	return b.String()
}

func (m appModel) viewPanes() string {
	h := m.paneHeight()
	sidebar := normalizePane(m.viewTree(h), m.sidebarWidth, h)
	sep := stylePaneBorder(m.focus == focusTree).Height(h).Render("")
	editor := normalizePane(m.viewEditor(), m.editorWidth(), h)
	return lipgloss.JoinHorizontal(lipgloss.Top, sidebar, sep, editor)
}

func (m appModel) viewTree(height int) string {
	if len(m.rows) == 0 {
		return styleMuted().Render(" (empty project)")
	}
	end := m.offset + height
	if end > len(m.rows) {
		end = len(m.rows)
	}
	lines := make([]string, 0, end-m.offset)
	for i := m.offset; i < end; i++ {
		line := treeLine(m.rows[i])
		if i == m.cursor {
			line = styleSelectedRow(m.focus == focusTree).Render(fitWidth(line, m.sidebarWidth))
		} else if m.rows[i].Node.IsFile() && m.rows[i].Node.Name == m.editorTab {
			line = lipgloss.NewStyle().Foreground(colorAccent).Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func treeLine(r filetree.Row) string {
	var b strings.Builder
	b.WriteString(" ")
	b.WriteString(strings.Repeat("  ", r.Depth))
	switch {
	case r.Node.IsFolder() && r.Node.Expanded:
		b.WriteString(glyphTwistyExpanded() + " ")
	case r.Node.IsFolder():
		b.WriteString(glyphTwistyCollapsed() + " ")
	default:
		b.WriteString("  ")
	}
	b.WriteString(r.Node.Name)
	if r.Node.HasErrors {
		b.WriteString(" " + glyphError())
	}
	return b.String()
}

func (m appModel) viewEditor() string {
	if m.quick != nil {
		return m.quick.view(m.editorWidth())
	}
	if m.editorTab == "" {
		return styleMuted().Render(" Select a file in the tree (enter) or press ctrl+p.")
	}
	if m.previewing() {
		return renderMarkdown(m.editorValue, m.editorWidth()-2)
	}
	return m.editor.View()
}

func (m appModel) viewStatus() string {
	if m.status != "" {
		st := styleMuted()
		if m.statusErr {
			st = styleErrorMark()
		}
		return fitWidth(st.Render(" "+m.status), m.width)
	}
	var parts []string
	parts = append(parts, m.focus.String())
	if t, ok := m.ctrl.Session().Find(m.editorTab); ok {
		info := t.Name
		if t.Language != "" {
			info += " (" + t.Language + ")"
		}
		if t.Modified {
			info += " modified"
		}
		parts = append(parts, info)
	}
	if m.previewing() {
		parts = append(parts, "preview")
	}
	return fitWidth(styleMuted().Render(" "+strings.Join(parts, " "+glyphSeparator()+" ")), m.width)
}
