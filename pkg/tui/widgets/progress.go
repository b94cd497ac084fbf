package widgets

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ProgressBar renders a horizontal bar for a percentage in [0, 100].
type ProgressBar struct {
	percent    float64
	width      int
	style      lipgloss.Style
	filledChar rune
	emptyChar  rune
}

func NewProgressBar(percent float64) ProgressBar {
	if percent < 0 || math.IsNaN(percent) {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	return ProgressBar{
		percent:    percent,
		width:      20,
		filledChar: '█',
		emptyChar:  '░',
	}
}

// WithWidth sets the bar width in cells, not counting any label.
func (p ProgressBar) WithWidth(width int) ProgressBar {
	if width < 5 {
		width = 5
	}
	p.width = width
	return p
}

func (p ProgressBar) WithStyle(style lipgloss.Style) ProgressBar {
	p.style = style
	return p
}

// Filled is the number of filled cells, rounded to the nearest cell.
func (p ProgressBar) Filled() int {
	return int(math.Round(float64(p.width) * p.percent / 100))
}

func (p ProgressBar) Render() string {
	filled := p.Filled()
	return p.style.Render(strings.Repeat(string(p.filledChar), filled)) +
		strings.Repeat(string(p.emptyChar), p.width-filled)
}

// RenderLabeled renders "LABEL  bar  value".
func (p ProgressBar) RenderLabeled(label string, value string) string {
	return fmt.Sprintf("%-6s %s %6s", label, p.Render(), value)
}
