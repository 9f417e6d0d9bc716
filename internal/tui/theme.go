package tui

import (
	"context"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme/palette helpers.
//
// The TUI must remain readable on both light and dark terminal backgrounds.
// We use lipgloss.AdaptiveColor where possible and only apply "faint" styling
// on dark backgrounds (faint text on light terminals often becomes illegible).

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

func faintIfDark(st lipgloss.Style) lipgloss.Style {
	if lipgloss.HasDarkBackground() {
		return st.Faint(true)
	}
	return st
}

var (
	colorMuted         = ac("240", "243")
	colorChromeMutedFg = ac("240", "245")

	colorSelectedBg = ac("#e9e9e9", "#262626")
	colorSelectedFg = ac("235", "255")

	colorSurfaceFg = ac("235", "252")
	colorControlBg = ac("252", "235")

	colorAccent   = ac("27", "62") // blue
	colorAccentFg = ac("255", "235")

	colorError    = ac("160", "203") // red
	colorModified = ac("130", "214") // amber
)

func styleMuted() lipgloss.Style {
	return faintIfDark(lipgloss.NewStyle().Foreground(colorMuted))
}

func styleTitle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(colorSurfaceFg)
}

func styleSelectedRow(focused bool) lipgloss.Style {
	st := lipgloss.NewStyle().Background(colorSelectedBg).Foreground(colorSelectedFg)
	if focused {
		st = st.Bold(true)
	}
	return st
}

func styleActiveTab() lipgloss.Style {
	return lipgloss.NewStyle().Background(colorAccent).Foreground(colorAccentFg).Bold(true)
}

func styleInactiveTab() lipgloss.Style {
	return lipgloss.NewStyle().Background(colorControlBg).Foreground(colorChromeMutedFg)
}

func styleErrorMark() lipgloss.Style    { return lipgloss.NewStyle().Foreground(colorError) }
func styleModifiedMark() lipgloss.Style { return lipgloss.NewStyle().Foreground(colorModified) }

func stylePaneBorder(focused bool) lipgloss.Style {
	c := lipgloss.TerminalColor(colorMuted)
	if focused {
		c = colorAccent
	}
	return lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, true, false, false).BorderForeground(c)
}

// applyColorProfilePreference sets Lip Gloss's color profile for the interactive TUI.
//
// Note: termenv.EnvColorProfile respects CLICOLOR/CLICOLOR_FORCE, which is useful for
// non-interactive CLI output but can accidentally disable colors in a TUI. For the TUI,
// we only honor NO_COLOR and otherwise follow the terminal's capabilities.
func applyColorProfilePreference() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}

	profile := termenv.ColorProfile()

	// Trust TERM/COLORTERM when they claim more than the detector reports
	// (macOS Terminal.app under-reports).
	term := strings.ToLower(strings.TrimSpace(os.Getenv("TERM")))
	colorterm := strings.ToLower(strings.TrimSpace(os.Getenv("COLORTERM")))
	if strings.Contains(colorterm, "truecolor") || strings.Contains(colorterm, "24bit") {
		if profile != termenv.Ascii {
			profile = termenv.TrueColor
		}
	} else if strings.Contains(term, "256color") {
		if profile == termenv.Ascii || profile == termenv.ANSI {
			profile = termenv.ANSI256
		}
	}

	lipgloss.SetColorProfile(profile)
}

// themePreference is the configured tui.theme (light|dark|auto).
var themePreference = "auto"

// applyThemePreference configures Lip Gloss's background detection.
//
// Priority:
// 1) tui.theme (config / HACKSPACE_TUI_THEME) = light|dark
// 2) HACKSPACE_TUI_DARKBG=true|false
// 3) COLORFGBG heuristic ("fg;bg")
// 4) macOS appearance
func applyThemePreference(theme string) {
	themePreference = strings.ToLower(strings.TrimSpace(theme))
	switch themePreference {
	case "light":
		lipgloss.SetHasDarkBackground(false)
		return
	case "dark":
		lipgloss.SetHasDarkBackground(true)
		return
	}

	if dark, ok := darkBackgroundFromEnv(); ok {
		lipgloss.SetHasDarkBackground(dark)
		return
	}

	if runtime.GOOS == "darwin" {
		if dark, ok := macOSHasDarkAppearance(); ok {
			lipgloss.SetHasDarkBackground(dark)
			return
		}
	}
}

func darkBackgroundFromEnv() (dark bool, ok bool) {
	if v := strings.TrimSpace(os.Getenv("HACKSPACE_TUI_DARKBG")); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b, true
		}
	}
	// COLORFGBG is often "fg;bg" (sometimes more segments). Use last segment as bg.
	// Common xterm palette: 0-6 dark colors, 7-15 light colors.
	if v := strings.TrimSpace(os.Getenv("COLORFGBG")); v != "" {
		parts := strings.Split(v, ";")
		if bg, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1])); err == nil {
			return bg < 7, true
		}
	}
	return false, false
}

func macOSHasDarkAppearance() (dark bool, ok bool) {
	// `defaults read -g AppleInterfaceStyle` prints "Dark" in dark mode and returns exit status 1
	// in light mode (key missing).
	ctx, cancel := context.WithTimeout(context.Background(), 80*time.Millisecond)
	defer cancel()

	out, err := exec.CommandContext(ctx, "defaults", "read", "-g", "AppleInterfaceStyle").CombinedOutput()
	if ctx.Err() != nil {
		return false, false
	}
	if err == nil {
		return strings.Contains(strings.ToLower(string(out)), "dark"), true
	}
	if ee, ok := err.(*exec.ExitError); ok && ee.ExitCode() == 1 {
		return false, true
	}
	return false, false
}
