package tui

import (
	"strings"

	xansi "github.com/charmbracelet/x/ansi"
)

// fitWidth truncates (with an ellipsis) or pads s to exactly width columns, ANSI-aware.
func fitWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	// Bound the work on pathological lines before measuring.
	if len(s) > 8192 {
		s = xansi.Cut(s, 0, width)
	}
	w := xansi.StringWidth(s)
	if w > width {
		if width == 1 {
			s = xansi.Cut(s, 0, 1)
		} else {
			s = xansi.Cut(s, 0, width-1) + "…"
		}
		w = xansi.StringWidth(s)
	}
	if w < width {
		s += strings.Repeat(" ", width-w)
	}
	return s
}

// normalizePane forces s to be exactly width columns wide and height lines tall, which keeps
// lipgloss.JoinHorizontal split panes stable.
func normalizePane(s string, width, height int) string {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}

	lines := strings.Split(s, "\n")
	if height > 0 {
		if len(lines) > height {
			lines = lines[:height]
		}
		for len(lines) < height {
			lines = append(lines, "")
		}
	}
	for i := range lines {
		lines[i] = fitWidth(lines[i], width)
	}
	return strings.Join(lines, "\n")
}

// scrollOffset keeps cursor within a window of height rows starting at offset.
func scrollOffset(offset, cursor, height, total int) int {
	if height <= 0 {
		return 0
	}
	if cursor < offset {
		offset = cursor
	}
	if cursor >= offset+height {
		offset = cursor - height + 1
	}
	if limit := total - height; offset > limit {
		offset = limit
	}
	if offset < 0 {
		offset = 0
	}
	return offset
}
