package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/go-go-golems/alin-dash/pkg/event"
)

// Theme defines the color palette and base styles for the TUI.
type Theme struct {
	// Colors
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
	Info      lipgloss.Color
	Debug     lipgloss.Color
	Muted     lipgloss.Color
	Text      lipgloss.Color
	TextDim   lipgloss.Color

	// Base styles
	Border     lipgloss.Style
	Title      lipgloss.Style
	TitleMuted lipgloss.Style
	StatValue  lipgloss.Style
	Selected   lipgloss.Style
	Keybind    lipgloss.Style
	KeybindKey lipgloss.Style
	StatusOK   lipgloss.Style
	StatusBad  lipgloss.Style
}

// DefaultTheme returns the default dashboard theme.
func DefaultTheme() Theme {
	primary := lipgloss.Color("#7C3AED")   // Purple
	secondary := lipgloss.Color("#06B6D4") // Cyan
	success := lipgloss.Color("#22C55E")   // Green
	warning := lipgloss.Color("#EAB308")   // Yellow
	errorC := lipgloss.Color("#EF4444")    // Red
	info := lipgloss.Color("#60A5FA")      // Blue
	debug := lipgloss.Color("#A5B4FC")     // Lavender
	muted := lipgloss.Color("#6B7280")     // Gray
	text := lipgloss.Color("#F9FAFB")      // White
	textDim := lipgloss.Color("#9CA3AF")   // Light gray

	return Theme{
		Primary:   primary,
		Secondary: secondary,
		Success:   success,
		Warning:   warning,
		Error:     errorC,
		Info:      info,
		Debug:     debug,
		Muted:     muted,
		Text:      text,
		TextDim:   textDim,

		Border: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(muted),

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(text),

		TitleMuted: lipgloss.NewStyle().
			Foreground(textDim),

		StatValue: lipgloss.NewStyle().
			Bold(true).
			Foreground(secondary),

		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(text).
			Background(lipgloss.Color("#374151")),

		Keybind: lipgloss.NewStyle().
			Foreground(textDim),

		KeybindKey: lipgloss.NewStyle().
			Bold(true).
			Foreground(secondary),

		StatusOK: lipgloss.NewStyle().
			Foreground(success),

		StatusBad: lipgloss.NewStyle().
			Foreground(errorC),
	}
}

// LevelColor is the accent color of a log level.
func (t Theme) LevelColor(l event.Level) lipgloss.Color {
	switch l {
	case event.LevelError, event.LevelFatal:
		return t.Error
	case event.LevelWarn:
		return t.Warning
	case event.LevelInfo:
		return t.Info
	default:
		return t.Debug
	}
}

func (t Theme) Level(l event.Level) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.LevelColor(l))
}
