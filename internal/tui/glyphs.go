package tui

import (
	"strings"
	"sync"
)

// Terminal apps can't change the user's actual font. Instead, we can choose
// between Unicode and ASCII glyph sets for UI affordances (twisties, markers,
// separators). This helps on terminals/fonts that don't render some glyphs cleanly.

type glyphSet int

const (
	glyphSetUnicode glyphSet = iota
	glyphSetASCII
)

var (
	glyphsMu      sync.RWMutex
	currentGlyphs = glyphSetUnicode
)

// applyGlyphPreference takes the tui.glyphs setting. Unknown values are ignored.
func applyGlyphPreference(v string) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "unicode", "utf8":
		setGlyphs(glyphSetUnicode)
	case "ascii":
		setGlyphs(glyphSetASCII)
	}
}

func setGlyphs(gs glyphSet) {
	glyphsMu.Lock()
	currentGlyphs = gs
	glyphsMu.Unlock()
}

func glyphs() glyphSet {
	glyphsMu.RLock()
	gs := currentGlyphs
	glyphsMu.RUnlock()
	return gs
}

func glyphTwistyCollapsed() string {
	if glyphs() == glyphSetASCII {
		return ">"
	}
	return "▸"
}

func glyphTwistyExpanded() string {
	if glyphs() == glyphSetASCII {
		return "v"
	}
	return "▾"
}

func glyphModified() string {
	if glyphs() == glyphSetASCII {
		return "*"
	}
	return "●"
}

func glyphError() string {
	if glyphs() == glyphSetASCII {
		return "!"
	}
	return "✗"
}

func glyphClose() string {
	if glyphs() == glyphSetASCII {
		return "x"
	}
	return "×"
}

func glyphSeparator() string {
	if glyphs() == glyphSetASCII {
		return "|"
	}
	return "│"
}
