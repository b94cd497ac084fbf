package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/go-go-golems/alin-dash/pkg/tui/styles"
)

type TableColumn struct {
	Header string
	Width  int // 0 takes the remaining width
	Align  lipgloss.Position
	// Styled cells use the row style instead of the dim text color.
	Styled bool
}

type TableRow struct {
	Icon  string
	Style lipgloss.Style
	Cells []string
}

// Table renders fixed width rows. Cells that do not fit are cut with an
// ellipsis.
type Table struct {
	Columns []TableColumn
	Rows    []TableRow
	Empty   string
	Width   int
	theme   styles.Theme
}

func NewTable(cols []TableColumn) Table {
	return Table{Columns: cols, Empty: "(no data)", theme: styles.DefaultTheme()}
}

func (t Table) WithRows(rows []TableRow) Table {
	t.Rows = rows
	return t
}

func (t Table) WithEmpty(text string) Table {
	t.Empty = text
	return t
}

func (t Table) WithWidth(width int) Table {
	t.Width = width
	return t
}

func (t Table) Render() string {
	if len(t.Rows) == 0 {
		return t.theme.TitleMuted.Render(t.Empty)
	}

	lines := make([]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		parts := make([]string, 0, len(row.Cells)+1)
		used := 0
		if row.Icon != "" {
			icon := row.Style.Render(row.Icon) + " "
			parts = append(parts, icon)
			used += lipgloss.Width(icon)
		}
		for j, cell := range row.Cells {
			col := TableColumn{Width: 20}
			if j < len(t.Columns) {
				col = t.Columns[j]
			}
			width := col.Width
			if width == 0 {
				width = t.Width - used
				if width < 10 {
					width = 10
				}
			}
			cellStyle := lipgloss.NewStyle().Foreground(t.theme.TextDim)
			if col.Styled {
				cellStyle = row.Style
			}
			cellStyle = cellStyle.Width(width).Align(col.Align)
			parts = append(parts, cellStyle.Render(truncate(cell, width)))
			used += width
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, parts...))
	}
	return strings.Join(lines, "\n")
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 1 {
		return string(r[:width])
	}
	return string(r[:width-1]) + "…"
}
