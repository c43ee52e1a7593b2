package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// BorderStyle picks the lipgloss border set for a box.
type BorderStyle int

const (
	BorderNone BorderStyle = iota
	BorderSingle
	BorderDouble
	BorderRounded
	BorderHeavy
)

var borderSets = map[BorderStyle]lipgloss.Border{
	BorderSingle:  lipgloss.NormalBorder(),
	BorderDouble:  lipgloss.DoubleBorder(),
	BorderRounded: lipgloss.RoundedBorder(),
	BorderHeavy:   lipgloss.ThickBorder(),
}

// BoxStyle describes a widget frame.
type BoxStyle struct {
	Border     BorderStyle
	Title      string
	TitleColor string // hex; falls back to FG
	TitleAlign Align
	Padding    Padding
	FG         string // border color
}

// RenderBox frames content in a box of exactly width x height cells. Content
// is clipped or blank-filled to the interior. A bordered box needs at least
// 2x2 cells; anything smaller renders as "".
func RenderBox(content string, width, height int, style BoxStyle) string {
	set, bordered := borderSets[style.Border]
	if !bordered {
		if width <= 0 || height <= 0 {
			return ""
		}
		return strings.Join(paddedRows(content, width, height, style.Padding), "\n")
	}
	if width < 2 || height < 2 {
		return ""
	}

	edge := func(s string) string { return Fg(style.FG, s) }
	span := width - 2

	top := edge(strings.Repeat(set.Top, span))
	if style.Title != "" {
		color := style.TitleColor
		if color == "" {
			color = style.FG
		}
		top = titledEdge(style.Title, style.TitleAlign, span, set.Top, edge, color)
	}

	rows := make([]string, 0, height)
	rows = append(rows, edge(set.TopLeft)+top+edge(set.TopRight))
	for _, r := range paddedRows(content, span, height-2, style.Padding) {
		rows = append(rows, edge(set.Left)+r+edge(set.Right))
	}
	rows = append(rows, edge(set.BottomLeft+strings.Repeat(set.Bottom, span)+set.BottomRight))
	return strings.Join(rows, "\n")
}

// paddedRows lays content out in a w x h block after applying padding.
func paddedRows(content string, w, h int, pad Padding) []string {
	inner := max(w-pad.Left-pad.Right, 0)
	blank := strings.Repeat(" ", w)

	var lines []string
	if content != "" {
		lines = strings.Split(content, "\n")
	}

	rows := make([]string, 0, h)
	for i := 0; i < h; i++ {
		j := i - pad.Top
		if j < 0 || i >= h-pad.Bottom {
			rows = append(rows, blank)
			continue
		}
		line := ""
		if j < len(lines) {
			line = lines[j]
		}
		rows = append(rows, strings.Repeat(" ", pad.Left)+FitLine(line, inner)+strings.Repeat(" ", pad.Right))
	}
	return rows
}

// titledEdge draws a top edge of span cells with " title " set into it.
func titledEdge(title string, align Align, span int, fill string, edge func(string) string, color string) string {
	room := span - 4
	if room <= 0 {
		return edge(strings.Repeat(fill, span))
	}
	if VisibleLen(title) > room {
		title = TruncateWithTail(title, room, "…")
	}
	rest := span - VisibleLen(title) - 2

	lead := 1
	switch align {
	case AlignCenter:
		lead = rest / 2
	case AlignRight:
		lead = rest - 1
	}
	return edge(strings.Repeat(fill, lead)) + " " + BoldFg(color, title) + " " + edge(strings.Repeat(fill, rest-lead))
}
