package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	// chromeLines is the header, command bar and search line above the
	// content box.
	chromeLines = 3

	// boxBorderLines is the top and bottom border of a titled box.
	boxBorderLines = 2

	// LayoutCompactWidth is the width below which the category column is
	// dropped from list rows.
	LayoutCompactWidth = 80

	// categoryColumnWidth is the fixed width of the category column.
	categoryColumnWidth = 14

	// minTitleWidth is the narrowest title column; the id column is dropped
	// before the title shrinks below it.
	minTitleWidth = 10
)

// contentHeight is the height available to the titled box.
func (m Model) contentHeight() int {
	return max(m.height-chromeLines, boxBorderLines+1)
}

// rowsHeight is the number of list rows that fit in the box.
func (m Model) rowsHeight() int {
	return max(m.contentHeight()-boxBorderLines, 1)
}

// renderTitledBox renders content in a box with the title embedded in the
// top border: ┌─── Title ───┐
func (m Model) renderTitledBox(title, content string, width, height int, focused bool) string {
	borderColorStr, bgColorStr := m.theme.Border, m.theme.SurfaceAlt
	if focused {
		borderColorStr, bgColorStr = m.theme.BorderFocus, m.theme.FocusBg
	}
	bg := NewBgStyle(bgColorStr)
	borderStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(borderColorStr))
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.Text))

	innerWidth := max(width-2, 0)
	title = truncate(title, max(innerWidth-4, 1))
	titleLen := lipgloss.Width(title)
	leftPad := max((innerWidth-titleLen-2)/2, 0)
	rightPad := max(innerWidth-titleLen-2-leftPad, 0)

	topBorder := bg.Render("┌", borderStyle) +
		bg.Render(strings.Repeat("─", leftPad), borderStyle) +
		bg.Render(" "+title+" ", titleStyle) +
		bg.Render(strings.Repeat("─", rightPad), borderStyle) +
		bg.Render("┐", borderStyle)

	bottomBorder := bg.Render("└", borderStyle) +
		bg.Render(strings.Repeat("─", innerWidth), borderStyle) +
		bg.Render("┘", borderStyle)

	contentStyle := lipgloss.NewStyle().Width(innerWidth).MaxWidth(innerWidth).Background(lipgloss.Color(bgColorStr))
	contentLines := strings.Split(content, "\n")
	boxHeight := max(height-boxBorderLines, 0)

	lines := make([]string, 0, boxHeight)
	for i := 0; i < boxHeight; i++ {
		var line string
		if i < len(contentLines) {
			line = contentLines[i]
		}
		lines = append(lines,
			bg.Render("│", borderStyle)+contentStyle.Render(clipLine(line, innerWidth))+bg.Render("│", borderStyle))
	}

	return topBorder + "\n" + strings.Join(lines, "\n") + "\n" + bottomBorder
}
