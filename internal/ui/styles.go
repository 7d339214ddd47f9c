package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
// - Default (white/black): Primary text
// - Accent (soft purple #A78BFA): Highlights, paths, component kinds
// - Muted (gray): Secondary info, counts, slot numbers
// - No colored success/error/warning - use unicode symbols only

var (
	// Accent style for file paths, node paths, component kinds
	Accent = lipgloss.NewStyle().Foreground(lipgloss.Color("#A78BFA"))

	// Muted style for secondary info, hints, slot numbers
	Muted = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))

	// Bold style for emphasis
	Bold = lipgloss.NewStyle().Bold(true)

	accentColor = "#A78BFA"
	accentSet   = true
)

// ConfigureTheme applies the configured accent color to the shared styles.
// "none", "off", "default", or an unparsable value disables the accent.
func ConfigureTheme(accent string) {
	color, ok := normalizeAccentColor(accent)
	if accent == "" {
		return // keep defaults
	}
	if !ok {
		accentColor = ""
		accentSet = false
		Accent = lipgloss.NewStyle()
		return
	}
	accentColor = color
	accentSet = true
	Accent = lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

// AccentColor returns the active accent color, if any.
func AccentColor() (string, bool) {
	return accentColor, accentSet
}

// normalizeAccentColor validates an accent value: an ANSI code 0-255 or a
// hex color (#RGB is expanded to #RRGGBB).
func normalizeAccentColor(s string) (string, bool) {
	s = strings.TrimSpace(s)
	switch s {
	case "", "none", "off", "default":
		return "", false
	}
	if strings.HasPrefix(s, "#") {
		hex := s[1:]
		if len(hex) == 3 && isHex(hex) {
			var b strings.Builder
			for _, r := range hex {
				b.WriteRune(r)
				b.WriteRune(r)
			}
			return "#" + b.String(), true
		}
		if len(hex) == 6 && isHex(hex) {
			return s, true
		}
		return "", false
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 0 && n <= 255 {
		return s, true
	}
	return "", false
}

func isHex(s string) bool {
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
