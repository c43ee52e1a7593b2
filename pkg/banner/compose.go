package banner

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"gitlab.com/tinyland/lab/debt-pulse/pkg/components"
	"gitlab.com/tinyland/lab/debt-pulse/pkg/theme"
)

// bnCompose renders each placement as a box, stacks the boxes per column
// and joins the columns side by side. Short and empty columns are padded
// with blank lines so the frame is rectangular.
func bnCompose(placements []bnPlacement, colWidths []int, th theme.Theme) string {
	if len(placements) == 0 || len(colWidths) == 0 {
		return ""
	}

	cols := make([][]string, len(colWidths))
	height := 0
	colH := make([]int, len(colWidths))
	for _, p := range placements {
		cols[p.Col] = append(cols[p.Col], strings.Split(bnRenderWidgetBox(p, th), "\n")...)
		colH[p.Col] = p.Y + p.H
		height = max(height, colH[p.Col])
	}

	blocks := make([]string, len(cols))
	for i, lines := range cols {
		blocks[i] = components.FitBlock(lines, colWidths[i], height)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, blocks...)
}

// bnRenderWidgetBox draws the widget's view inside a rounded box of the
// placement's size.
func bnRenderWidgetBox(p bnPlacement, th theme.Theme) string {
	style := components.BoxStyle{
		Border:     components.BorderRounded,
		Title:      p.Widget.Title,
		TitleColor: th.Title,
		FG:         th.Border,
	}
	content := ""
	if p.Widget.View != nil {
		content = p.Widget.View(max(p.W-2, 0), max(p.H-2, 0))
	}
	return components.RenderBox(content, p.W, p.H, style)
}
