package app

// CycleFocusForward moves focus to the next visible widget, wrapping around
// to the first widget after the last.
func (m *AppModel) CycleFocusForward() {
	ids := m.visibleIDs()
	if len(ids) == 0 {
		return
	}
	idx := indexOf(ids, m.focusedWidget)
	m.focusedWidget = ids[(idx+1)%len(ids)]
}

// CycleFocusBackward moves focus to the previous visible widget, wrapping
// around to the last widget before the first.
func (m *AppModel) CycleFocusBackward() {
	ids := m.visibleIDs()
	if len(ids) == 0 {
		return
	}
	idx := indexOf(ids, m.focusedWidget)
	if idx < 0 {
		idx = 0
	}
	m.focusedWidget = ids[(idx-1+len(ids))%len(ids)]
}

// FocusWidget directly sets focus to the widget with the given ID.
// If the ID is not found, focus does not change.
func (m *AppModel) FocusWidget(id string) {
	if _, ok := m.widgets[id]; ok {
		m.focusedWidget = id
	}
}

// ToggleExpand toggles the focused widget between its grid cell and the
// full screen. If a different widget is expanded, expansion moves to the
// focused one.
func (m *AppModel) ToggleExpand() {
	if m.focusedWidget == "" {
		return
	}
	if m.expandedWidget == m.focusedWidget {
		m.expandedWidget = ""
	} else {
		m.expandedWidget = m.focusedWidget
	}
}

// ensureFocusVisible moves focus to the first visible widget when the
// search filter hides the focused one.
func (m *AppModel) ensureFocusVisible() {
	ids := m.visibleIDs()
	if len(ids) == 0 {
		return
	}
	if indexOf(ids, m.focusedWidget) < 0 {
		m.focusedWidget = ids[0]
	}
}

// indexOf returns the position of id in ids, or -1.
func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}
