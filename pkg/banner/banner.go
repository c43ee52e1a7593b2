// Package banner renders the dashboard once, without the event loop, as a
// fixed-width frame of bordered widget boxes packed into columns. It backs
// the snapshot command.
package banner

import "gitlab.com/tinyland/lab/debt-pulse/pkg/theme"

// Preset is a column layout used from MinWidth upward.
type Preset struct {
	Name     string
	MinWidth int
	Columns  int
}

var (
	// Compact stacks every widget in one column.
	Compact = Preset{"compact", 0, 1}
	// Standard is two columns for typical terminals.
	Standard = Preset{"standard", 90, 2}
	// Wide is three columns.
	Wide = Preset{"wide", 140, 3}
	// UltraWide is four columns.
	UltraWide = Preset{"ultrawide", 190, 4}
)

// SelectPreset returns the widest preset that fits width.
func SelectPreset(width int) Preset {
	for _, p := range []Preset{UltraWide, Wide, Standard} {
		if width >= p.MinWidth {
			return p
		}
	}
	return Compact
}

// WidgetData is one widget to place. View is called once with the box
// interior size.
type WidgetData struct {
	ID    string
	Title string
	MinW  int
	MinH  int
	View  func(width, height int) string
}

// BannerData is everything one frame needs.
type BannerData struct {
	Widgets []WidgetData
	Theme   theme.Theme
}

// Render lays the widgets out for width and returns the frame. Every line
// is exactly width cells wide.
func Render(data BannerData, width int) string {
	colWidths := bnColumnWidths(width, SelectPreset(width).Columns)
	placements := bnArrangeWidgets(data.Widgets, colWidths)
	return bnCompose(placements, colWidths, data.Theme)
}
