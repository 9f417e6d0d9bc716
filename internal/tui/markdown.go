package tui

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
)

// previewRenderers holds one glamour renderer per style and wrap width. Building a renderer is
// slow (style compilation, chroma lexers) and the preview re-renders on every keystroke.
type previewRenderers struct {
	mu sync.Mutex
	m  map[string]*glamour.TermRenderer
}

var mdRenderers = &previewRenderers{m: map[string]*glamour.TermRenderer{}}

func (c *previewRenderers) get(style string, width int) (*glamour.TermRenderer, error) {
	key := fmt.Sprintf("%s:%d", style, width)

	c.mu.Lock()
	defer c.mu.Unlock()
	if r, ok := c.m[key]; ok {
		return r, nil
	}
	// A fixed style instead of WithAutoStyle: auto detection queries the terminal and can block
	// while bubbletea owns stdin.
	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(markdownStyleConfig(style)),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	c.m[key] = r
	return r, nil
}

// renderMarkdown renders a markdown buffer for the preview pane. Renderer errors fall back to
// the raw source.
func renderMarkdown(md string, width int) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	r, err := mdRenderers.get(markdownStyle(), max(width, 10))
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.Trim(out, "\n")
}

func markdownStyleConfig(style string) ansi.StyleConfig {
	cfg := styles.DarkStyleConfig
	if style == "light" {
		cfg = styles.LightStyleConfig
	}
	applyMarkdownPalette(&cfg, style)
	var zero uint
	cfg.Document.Margin = &zero
	return cfg
}

// markdownStyle picks "light" or "dark": HACKSPACE_TUI_MD_STYLE, then the configured theme,
// then the terminal background.
func markdownStyle() string {
	for _, v := range []string{os.Getenv("HACKSPACE_TUI_MD_STYLE"), themePreference} {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "light":
			return "light"
		case "dark":
			return "dark"
		}
	}
	dark, ok := darkBackgroundFromEnv()
	if !ok {
		dark = lipgloss.HasDarkBackground()
	}
	if dark {
		return "dark"
	}
	return "light"
}

// applyMarkdownPalette aligns the preview's text, headings and code with the editor pane.
func applyMarkdownPalette(cfg *ansi.StyleConfig, style string) {
	pick := func(c lipgloss.AdaptiveColor) *string {
		s := c.Dark
		if style == "light" {
			s = c.Light
		}
		return &s
	}

	fg := pick(colorSurfaceFg)
	for _, b := range []*ansi.StylePrimitive{&cfg.Text, &cfg.Heading.StylePrimitive, &cfg.H1.StylePrimitive, &cfg.H2.StylePrimitive, &cfg.H3.StylePrimitive, &cfg.Code.StylePrimitive, &cfg.CodeBlock.StylePrimitive} {
		b.Color = fg
	}
	if cfg.CodeBlock.BackgroundColor == nil {
		cfg.CodeBlock.BackgroundColor = pick(colorControlBg)
	}
	cfg.Link.Color = pick(colorAccent)
	cfg.Strong.Color = nil
	cfg.Emph.Color = nil
	notFaint := false
	cfg.BlockQuote.Faint = &notFaint
}
