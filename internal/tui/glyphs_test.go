package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGlyphs_Preference(t *testing.T) {
	t.Cleanup(func() { setGlyphs(glyphSetUnicode) })

	applyGlyphPreference("")
	assert.Equal(t, glyphSetUnicode, glyphs())
	assert.Equal(t, "▾", glyphTwistyExpanded())

	applyGlyphPreference("ascii")
	assert.Equal(t, glyphSetASCII, glyphs())
	assert.Equal(t, "v", glyphTwistyExpanded())
	assert.Equal(t, "*", glyphModified())

	// Unknown values keep the current set.
	applyGlyphPreference("bogus")
	assert.Equal(t, glyphSetASCII, glyphs())

	applyGlyphPreference("unicode")
	assert.Equal(t, glyphSetUnicode, glyphs())
}
