package app

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"gitlab.com/tinyland/lab/debt-pulse/pkg/components"
)

// PlaceholderWidget stands in for a widget whose source is disabled in the
// config, so the grid keeps its shape. It shows a single centered notice.
type PlaceholderWidget struct {
	id      string
	title   string
	message string
}

// NewPlaceholder creates a placeholder with the given id, title and notice.
func NewPlaceholder(id, title, message string) *PlaceholderWidget {
	return &PlaceholderWidget{id: id, title: title, message: message}
}

func (w *PlaceholderWidget) ID() string                     { return w.id }
func (w *PlaceholderWidget) Title() string                  { return w.title }
func (w *PlaceholderWidget) Update(_ tea.Msg) tea.Cmd       { return nil }
func (w *PlaceholderWidget) HandleKey(_ tea.KeyMsg) tea.Cmd { return nil }
func (w *PlaceholderWidget) MinSize() (int, int)            { return 10, 3 }

// View centers the notice vertically and horizontally.
func (w *PlaceholderWidget) View(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	lines := make([]string, height)
	lines[(height-1)/2] = components.PadCenter(components.Dim(w.message), width)
	return components.FitBlock(lines, width, height)
}

// Report implements Reporter.
func (w *PlaceholderWidget) Report() map[string]any {
	return map[string]any{"status": strings.TrimSpace(w.message)}
}
