package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// confirmState is the destructive-action guard: nothing is deleted on
// the first keypress. The action runs only on explicit confirmation.
type confirmState struct {
	prompt string
	action func(m *appModel) error
	// after is the view to land on when the action succeeds; the
	// current view otherwise.
	after view
}

func (m *appModel) askConfirm(prompt string, after view, action func(m *appModel) error) {
	m.confirm = &confirmState{prompt: prompt, action: action, after: after}
}

func (m appModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	c := m.confirm
	switch msg.String() {
	case "y", "enter":
		m.confirm = nil
		if err := c.action(&m); err != nil {
			m.setError(err)
			return m, nil
		}
		m.setView(c.after)
		return m, nil
	case "n", "esc":
		m.confirm = nil
		return m, nil
	}
	return m, nil
}

func (m appModel) renderConfirm() string {
	return styleError().Render(m.confirm.prompt) + "  " +
		styleMuted().Render("y/enter — подтвердить · n/esc — отмена")
}
