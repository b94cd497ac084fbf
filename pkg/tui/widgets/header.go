package widgets

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/go-go-golems/alin-dash/pkg/tui/styles"
)

// Keybind is a key hint shown in the header or footer.
type Keybind struct {
	Key   string
	Label string
}

// Header renders the title bar: title, a status, the uptime and a rule.
type Header struct {
	Title    string
	Status   string
	StatusOK bool
	Uptime   time.Duration
	Width    int
	theme    styles.Theme
}

func NewHeader(title string) Header {
	return Header{Title: title, theme: styles.DefaultTheme()}
}

func (h Header) WithStatus(status string, ok bool) Header {
	h.Status = status
	h.StatusOK = ok
	return h
}

func (h Header) WithUptime(d time.Duration) Header {
	h.Uptime = d
	return h
}

func (h Header) WithWidth(w int) Header {
	h.Width = w
	return h
}

func (h Header) Render() string {
	theme := h.theme

	left := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.Text).
		Background(theme.Primary).
		Padding(0, 1).
		Render(h.Title)

	if h.Status != "" {
		st := theme.StatusBad
		if h.StatusOK {
			st = theme.StatusOK
		}
		left = lipgloss.JoinHorizontal(lipgloss.Center, left, "  ",
			st.Render(styles.IconLive), " ", lipgloss.NewStyle().Foreground(theme.Text).Render(h.Status))
	}

	right := ""
	if h.Uptime > 0 {
		right = theme.TitleMuted.Render("Since reset: " + formatDuration(h.Uptime))
	}

	gap := h.Width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	line := lipgloss.JoinHorizontal(lipgloss.Top, left, lipgloss.NewStyle().Width(gap).Render(""), right)
	return lipgloss.JoinVertical(lipgloss.Left, line, rule(h.Width, theme))
}

func rule(width int, theme styles.Theme) string {
	if width <= 0 {
		width = 80
	}
	return lipgloss.NewStyle().Foreground(theme.Muted).Render(strings.Repeat("━", width))
}

// RenderKeybinds renders key hints as "[k] label".
func RenderKeybinds(keybinds []Keybind, theme styles.Theme) string {
	parts := make([]string, 0, len(keybinds)*2)
	for i, kb := range keybinds {
		if i > 0 {
			parts = append(parts, " ")
		}
		parts = append(parts, theme.KeybindKey.Render("["+kb.Key+"]"), theme.Keybind.Render(" "+kb.Label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, parts...)
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm %ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
