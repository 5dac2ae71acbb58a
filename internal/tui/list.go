package tui

import (
	"context"
)

// clampCursor keeps a row cursor inside the current page slice.
func clampCursor(idx, n int) int {
	if n == 0 {
		return 0
	}
	if idx < 0 {
		return 0
	}
	if idx >= n {
		return n - 1
	}
	return idx
}

func moveCursor(idx, delta, n int) int {
	return clampCursor(idx+delta, n)
}

// cycleFilter advances the privileged department filter through
// "all" plus every department, wrapping, and reloads the scoped
// collections. A no-op for scoped roles.
func (m *appModel) cycleFilter() {
	if m.app.Caps.Scoped {
		return
	}
	deps := m.app.Departments
	if len(deps) == 0 {
		return
	}
	next := int64(0)
	if m.app.DepartmentFilter == 0 {
		next = deps[0].ID
	} else {
		for i, d := range deps {
			if d.ID == m.app.DepartmentFilter {
				if i+1 < len(deps) {
					next = deps[i+1].ID
				}
				break
			}
		}
	}
	if err := m.app.SetDepartmentFilter(context.Background(), next); err != nil {
		m.setError(err)
		return
	}
	m.persistUIState()
}

// filterLabel names the active department narrowing for list headers.
func (m appModel) filterLabel() string {
	if m.app.Caps.Scoped {
		if m.app.Session != nil {
			return m.app.DepartmentName(m.app.Session.DepartmentID)
		}
		return ""
	}
	if m.app.DepartmentFilter == 0 {
		return "все отделы"
	}
	return m.app.DepartmentName(m.app.DepartmentFilter)
}
