package tui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// The browser must stay readable on light and dark terminals. Colors are
// adaptive and "faint" is only applied on dark backgrounds, where it reads.

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
	colorMuted          lipgloss.TerminalColor = ac("240", "243")
	colorChromeMutedFg  lipgloss.TerminalColor = ac("240", "245")
	colorSelectedBorder lipgloss.TerminalColor = ac("232", "255")
	colorCardBorder     lipgloss.TerminalColor = ac("250", "243")
	colorSurfaceFg      lipgloss.TerminalColor = ac("235", "252")
	colorAccent         lipgloss.TerminalColor = ac("27", "62")
	colorAccentFg       lipgloss.TerminalColor = ac("255", "235")
	colorRating         lipgloss.TerminalColor = ac("136", "220")
	colorFlashErrorBg   lipgloss.TerminalColor = ac("196", "160")
	colorFlashErrorFg   lipgloss.TerminalColor = ac("255", "255")
)

func styleMuted() lipgloss.Style {
	return faintIfDark(lipgloss.NewStyle().Foreground(colorMuted))
}

func styleTitle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(colorSurfaceFg)
}

func styleActive() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(colorAccentFg).Background(colorAccent).Padding(0, 1)
}

func styleInactive() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorChromeMutedFg).Padding(0, 1)
}

func styleError() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorFlashErrorFg).Background(colorFlashErrorBg).Padding(0, 1)
}

func styleCard(selected bool, width int) lipgloss.Style {
	st := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	if width > 4 {
		st = st.Width(width - 2)
	}
	if selected {
		return st.BorderForeground(colorSelectedBorder)
	}
	return st.BorderForeground(colorCardBorder)
}

// colorProfile picks the Lip Gloss profile from the environment. NO_COLOR
// wins; CLICOLOR is ignored so a full-screen board never loses its colors.
func colorProfile(getenv func(string) string, detected termenv.Profile) termenv.Profile {
	if strings.TrimSpace(getenv("NO_COLOR")) != "" {
		return termenv.Ascii
	}
	switch colorterm := strings.ToLower(getenv("COLORTERM")); {
	case detected == termenv.Ascii:
		return detected
	case strings.Contains(colorterm, "truecolor"), strings.Contains(colorterm, "24bit"):
		return termenv.TrueColor
	case detected == termenv.ANSI && strings.Contains(strings.ToLower(getenv("TERM")), "256color"):
		return termenv.ANSI256
	}
	return detected
}

func applyColorProfilePreference() {
	lipgloss.SetColorProfile(colorProfile(os.Getenv, termenv.ColorProfile()))
}

// darkBackground resolves a theme setting (light, dark or auto). For auto it
// reads COLORFGBG ("fg;bg", where bg 0-6 and 8 are dark palette slots).
// known is false when the terminal has to be asked.
func darkBackground(theme string, getenv func(string) string) (dark, known bool) {
	switch strings.ToLower(strings.TrimSpace(theme)) {
	case "light":
		return false, true
	case "dark":
		return true, true
	}
	v := strings.TrimSpace(getenv("COLORFGBG"))
	if v == "" {
		return false, false
	}
	bg, err := strconv.Atoi(v[strings.LastIndex(v, ";")+1:])
	if err != nil {
		return false, false
	}
	return bg < 7 || bg == 8, true
}

func applyThemePreference(theme string) {
	if dark, ok := darkBackground(theme, os.Getenv); ok {
		lipgloss.SetHasDarkBackground(dark)
	}
}
