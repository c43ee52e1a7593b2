// Package components provides the width-aware rendering primitives shared by
// the dashboard widgets: bordered boxes, gauges, bar charts, sparklines and
// number formatting. All widths are terminal cells, so CJK text counts
// double.
package components

// Align controls horizontal text alignment within a box or cell.
type Align int

const (
	// AlignLeft aligns text to the left edge (default).
	AlignLeft Align = iota
	// AlignCenter centers text horizontally.
	AlignCenter
	// AlignRight aligns text to the right edge.
	AlignRight
)

// Padding defines spacing on each side of a content area.
type Padding struct {
	Top    int
	Right  int
	Bottom int
	Left   int
}
