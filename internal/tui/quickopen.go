package tui

import (
	"strings"

	"hackspace/internal/model"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
)

const quickOpenLimit = 12

// quickOpen is the ctrl+p file finder over every file in the tree, collapsed or not.
type quickOpen struct {
	input   textinput.Model
	paths   []string
	matches []fuzzy.Match
	cursor  int
}

func newQuickOpen(files []model.Path) quickOpen {
	in := textinput.New()
	in.Prompt = "open: "
	in.Placeholder = "type to filter files"
	in.CharLimit = 256
	in.Focus()

	paths := make([]string, 0, len(files))
	for _, p := range files {
		paths = append(paths, p.String())
	}
	q := quickOpen{input: in, paths: paths}
	q.refresh()
	return q
}

// filterPaths ranks paths against query. An empty query keeps tree order.
func filterPaths(query string, paths []string, limit int) []fuzzy.Match {
	var out []fuzzy.Match
	if strings.TrimSpace(query) == "" {
		for i, p := range paths {
			out = append(out, fuzzy.Match{Str: p, Index: i})
		}
	} else {
		out = fuzzy.Find(query, paths)
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (q *quickOpen) refresh() {
	q.matches = filterPaths(q.input.Value(), q.paths, quickOpenLimit)
	if q.cursor >= len(q.matches) {
		q.cursor = len(q.matches) - 1
	}
	if q.cursor < 0 {
		q.cursor = 0
	}
}

func (q *quickOpen) move(delta int) {
	if len(q.matches) == 0 {
		return
	}
	q.cursor = (q.cursor + delta + len(q.matches)) % len(q.matches)
}

func (q quickOpen) selected() (model.Path, bool) {
	if q.cursor < 0 || q.cursor >= len(q.matches) {
		return nil, false
	}
	return model.ParsePath(q.matches[q.cursor].Str), true
}

func (q quickOpen) view(width int) string {
	var b strings.Builder
	b.WriteString(q.input.View())
	hl := lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	for i, m := range q.matches {
		b.WriteString("\n")
		line := highlightMatch(m, hl)
		if i == q.cursor {
			line = styleSelectedRow(true).Render(fitWidth("> "+m.Str, width))
		} else {
			line = "  " + line
		}
		b.WriteString(line)
	}
	if len(q.matches) == 0 {
		b.WriteString("\n")
		b.WriteString(styleMuted().Render("  no matching files"))
	}
	return b.String()
}

func highlightMatch(m fuzzy.Match, st lipgloss.Style) string {
	if len(m.MatchedIndexes) == 0 {
		return m.Str
	}
	hit := make(map[int]bool, len(m.MatchedIndexes))
	for _, i := range m.MatchedIndexes {
		hit[i] = true
	}
	var b strings.Builder
	for i, r := range m.Str {
		if hit[i] {
			b.WriteString(st.Render(string(r)))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
