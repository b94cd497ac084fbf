package widgets

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/go-go-golems/alin-dash/pkg/tui/styles"
)

// Box renders a bordered panel with a title line.
type Box struct {
	Title      string
	TitleRight string
	Content    string
	Width      int
	Height     int
	Style      lipgloss.Style
	theme      styles.Theme
}

func NewBox(title string) Box {
	theme := styles.DefaultTheme()
	return Box{
		Title: title,
		Style: theme.Border,
		theme: theme,
	}
}

func (b Box) WithContent(content string) Box {
	b.Content = content
	return b
}

// WithTitleRight sets right aligned title text such as key hints.
func (b Box) WithTitleRight(text string) Box {
	b.TitleRight = text
	return b
}

func (b Box) WithSize(width, height int) Box {
	b.Width = width
	b.Height = height
	return b
}

// WithAccent colors the border, e.g. red for the alert panel.
func (b Box) WithAccent(c lipgloss.Color) Box {
	b.Style = b.Style.BorderForeground(c)
	return b
}

func (b Box) Render() string {
	inner := b.Width - 2
	if inner < 0 {
		inner = 0
	}

	header := ""
	if b.Title != "" || b.TitleRight != "" {
		left := ""
		if b.Title != "" {
			left = b.theme.Title.Render(b.Title)
		}
		right := ""
		if b.TitleRight != "" {
			right = b.theme.TitleMuted.Render(b.TitleRight)
		}
		gap := inner - lipgloss.Width(left) - lipgloss.Width(right)
		if gap < 1 {
			gap = 1
		}
		header = lipgloss.JoinHorizontal(lipgloss.Top, left, lipgloss.NewStyle().Width(gap).Render(""), right)
	}

	body := b.Content
	if header != "" {
		body = header + "\n" + b.Content
	}

	style := b.Style
	if b.Width > 0 {
		style = style.Width(inner)
	}
	if b.Height > 0 {
		h := b.Height - 2
		if header != "" {
			h--
		}
		if h < 0 {
			h = 0
		}
		style = style.Height(h)
	}
	return style.Render(body)
}
