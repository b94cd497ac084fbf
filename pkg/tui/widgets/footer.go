package widgets

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/go-go-golems/alin-dash/pkg/tui/styles"
)

// Footer renders a rule followed by centered key hints.
type Footer struct {
	Keybinds []Keybind
	Width    int
	theme    styles.Theme
}

func NewFooter(keybinds []Keybind) Footer {
	return Footer{Keybinds: keybinds, theme: styles.DefaultTheme()}
}

func (f Footer) WithWidth(w int) Footer {
	f.Width = w
	return f
}

func (f Footer) Render() string {
	hints := RenderKeybinds(f.Keybinds, f.theme)
	pad := (f.Width - lipgloss.Width(hints)) / 2
	if pad < 0 {
		pad = 0
	}
	line := lipgloss.NewStyle().PaddingLeft(pad).Render(hints)
	return lipgloss.JoinVertical(lipgloss.Left, rule(f.Width, f.theme), line)
}
