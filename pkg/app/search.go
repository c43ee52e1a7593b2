package app

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"
)

// handleSearchKey edits the filter query. Enter keeps the filter, Esc
// clears it; both leave search mode.
func (m *AppModel) handleSearchKey(msg tea.KeyMsg) {
	switch msg.Type {
	case tea.KeyEnter:
		m.searchMode = false
	case tea.KeyEscape:
		m.searchMode = false
		m.searchQuery = ""
	case tea.KeyBackspace:
		if r := []rune(m.searchQuery); len(r) > 0 {
			m.searchQuery = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		m.searchQuery += " "
	case tea.KeyRunes:
		m.searchQuery += string(msg.Runes)
	}
	m.ensureFocusVisible()
}

// visibleIDs returns the widget IDs that pass the current filter, in order.
func (m AppModel) visibleIDs() []string {
	idx := filterWidgets(m.Widgets(), m.searchQuery)
	return lo.Map(idx, func(i int, _ int) string { return m.widgetOrder[i] })
}

// filterWidgets returns the indices of widgets whose ID or Title contains
// the query, case-insensitively. An empty query returns all indices.
func filterWidgets(widgets []Widget, query string) []int {
	if query == "" {
		return lo.Range(len(widgets))
	}
	lower := strings.ToLower(query)
	var result []int
	for i, w := range widgets {
		if strings.Contains(strings.ToLower(w.ID()), lower) ||
			strings.Contains(strings.ToLower(w.Title()), lower) {
			result = append(result, i)
		}
	}
	return result
}
