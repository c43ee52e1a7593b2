package app

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"gitlab.com/tinyland/lab/debt-pulse/pkg/components"
)

// cell is one widget's rectangle in the grid.
type cell struct {
	Widget  Widget
	X, Y    int
	W, H    int
	Focused bool
}

// computeGrid lays the visible widgets out row by row. The bottom row of
// the terminal is reserved for the status bar. Columns are as many as fit
// minW; rows shrink to fill the height but not below minH, in which case
// the grid scrolls to keep the focused widget on screen. A short last row
// stretches its cells to the full width.
func computeGrid(widgets []Widget, width, height int, visible []int, focus, minW, minH int) []cell {
	n := len(visible)
	avail := height - 1
	if n == 0 || width <= 0 || avail <= 0 {
		return nil
	}

	cols := min(max(width/max(minW, 1), 1), n)
	rows := (n + cols - 1) / cols

	rowH := avail / rows
	heights := make([]int, rows)
	if rowH >= minH {
		for r := range heights {
			heights[r] = rowH
			if r < avail-rowH*rows {
				heights[r]++
			}
		}
	} else {
		rowH = min(minH, avail)
		for r := range heights {
			heights[r] = rowH
		}
	}

	onScreen := max(avail/rowH, 1)
	focusRow := 0
	for k, idx := range visible {
		if idx == focus {
			focusRow = k / cols
		}
	}
	firstRow := 0
	if focusRow >= onScreen {
		firstRow = focusRow - onScreen + 1
	}

	var cells []cell
	y := 0
	for r := firstRow; r < rows && r < firstRow+onScreen; r++ {
		start := r * cols
		inRow := min(cols, n-start)
		x := 0
		for c := 0; c < inRow; c++ {
			w := width / inRow
			if c < width%inRow {
				w++
			}
			idx := visible[start+c]
			cells = append(cells, cell{
				Widget:  widgets[idx],
				X:       x,
				Y:       y,
				W:       w,
				H:       heights[r],
				Focused: idx == focus,
			})
			x += w
		}
		y += heights[r]
	}
	return cells
}

// renderGrid joins the cells row by row into one frame of width x height.
func (m AppModel) renderGrid(cells []cell, width, height int) string {
	if len(cells) == 0 || width <= 0 || height <= 0 {
		return components.FitBlock(nil, width, height)
	}

	var rows []string
	var row []string
	rowY := cells[0].Y
	for _, c := range cells {
		if c.Y != rowY {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row, rowY = nil, c.Y
		}
		row = append(row, m.renderCell(c.Widget, c.W, c.H, c.Focused))
	}
	rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))

	return components.FitBlock(strings.Split(lipgloss.JoinVertical(lipgloss.Left, rows...), "\n"), width, height)
}

// renderCell wraps a widget's view in its titled border.
func (m AppModel) renderCell(w Widget, width, height int, focused bool) string {
	th := m.cfg.Theme
	border := th.Border
	if focused {
		border = th.BorderFocus
	}

	content := w.View(max(width-2, 1), max(height-2, 1))
	box := components.RenderBox(content, width, height, components.BoxStyle{
		Border:     components.BorderRounded,
		Title:      w.Title(),
		TitleColor: th.Title,
		TitleAlign: components.AlignLeft,
		FG:         border,
	})
	if m.cfg.Zones != nil {
		box = m.cfg.Zones.Mark(cellZoneID(w.ID()), box)
	}
	return box
}

func cellZoneID(id string) string { return "cell:" + id }

// renderStatusBar renders the one-line key hint bar, padded or truncated to
// exactly width cells.
func (m AppModel) renderStatusBar(width int) string {
	if width <= 0 {
		return ""
	}
	line := m.help.ShortHelpView(m.keys.ShortHelp())
	if m.searchQuery != "" {
		line = components.Fg(m.cfg.Theme.Accent, "絞り込み: "+m.searchQuery) + "  " + line
	}
	return components.FitLine(line, width)
}

// renderSearchBar replaces the status bar while typing a filter.
func renderSearchBar(query string, width int) string {
	if width <= 0 {
		return ""
	}
	return components.FitLine("/"+query+"_", width)
}

// renderHelp renders the full key reference centered in width x height.
func (m AppModel) renderHelp(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	body := m.help.FullHelpView(m.keys.FullHelp())
	bodyW := 0
	for _, l := range strings.Split(body, "\n") {
		bodyW = max(bodyW, components.VisibleLen(l))
	}
	lines := strings.Count(body, "\n") + 1

	panelW := min(bodyW+4, width)
	panelH := min(lines+2, height)
	panel := components.RenderBox(body, panelW, panelH, components.BoxStyle{
		Border:     components.BorderRounded,
		Title:      "キー操作",
		TitleAlign: components.AlignCenter,
		Padding:    components.Padding{Left: 1, Right: 1},
		FG:         m.cfg.Theme.Accent,
	})
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, panel)
}

// View renders the full screen.
func (m AppModel) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	bodyH := max(m.height-1, 0)
	var body string
	switch {
	case m.helpVisible:
		body = m.renderHelp(m.width, bodyH)
	case m.expandedWidget != "":
		body = m.renderCell(m.widgets[m.expandedWidget], m.width, bodyH, true)
	default:
		widgets := m.Widgets()
		visible := filterWidgets(widgets, m.searchQuery)
		focus := indexOf(m.widgetOrder, m.focusedWidget)
		cells := computeGrid(widgets, m.width, m.height, visible, focus, m.cfg.MinCellWidth, m.cfg.MinCellHeight)
		body = m.renderGrid(cells, m.width, bodyH)
	}

	bar := m.renderStatusBar(m.width)
	if m.searchMode {
		bar = renderSearchBar(m.searchQuery, m.width)
	}

	out := body + "\n" + bar
	if m.cfg.Zones != nil {
		out = m.cfg.Zones.Scan(out)
	}
	return out
}
