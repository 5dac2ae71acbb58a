package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskflow-cli/internal/state"
)

func (m appModel) updateDashboard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	groups := m.app.DashboardGroups()
	switch msg.String() {
	case "j", "down":
		m.dashIdx = moveCursor(m.dashIdx, 1, len(groups))
	case "k", "up":
		m.dashIdx = moveCursor(m.dashIdx, -1, len(groups))
	case "f":
		m.cycleFilter()
	case "enter":
		// Jump to the selected department's project list.
		if len(groups) > 0 && !m.app.Caps.Scoped {
			g := groups[clampCursor(m.dashIdx, len(groups))]
			if err := m.app.SetDepartmentFilter(context.Background(), g.Department.ID); err != nil {
				m.setError(err)
				return m, nil
			}
		}
		m.setView(viewProjects)
	}
	return m, nil
}

func (m appModel) viewDashboard() string {
	app := m.app
	groups := app.DashboardGroups()
	idx := clampCursor(m.dashIdx, len(groups))

	who := ""
	if app.Session != nil {
		who = app.Session.FullName + " · " + app.Session.Role.Label()
	}
	lines := []string{
		styleHeading().Render("Сводка") + "  " + styleMuted().Render(who),
		"",
	}

	if len(groups) == 0 {
		lines = append(lines, styleMuted().Render("Проектов и задач пока нет"))
	}
	for i, g := range groups {
		head := g.Department.Name + styleMuted().Render(
			fmt.Sprintf("  (проектов: %d, задач: %d)", g.ProjectCount, g.TaskCount))
		if i == idx {
			head = styleSelectedRow().Render(g.Department.Name) + styleMuted().Render(
				fmt.Sprintf("  (проектов: %d, задач: %d)", g.ProjectCount, g.TaskCount))
		}
		lines = append(lines, head)
		for _, p := range g.Projects {
			lines = append(lines, "  "+cell(p.Key, 10)+" "+p.Name)
		}
		if g.ProjectCount > state.DashboardPreview {
			lines = append(lines, "  "+styleMuted().Render(fmt.Sprintf("… ещё %d", g.ProjectCount-state.DashboardPreview)))
		}
		for _, t := range g.Tasks {
			lines = append(lines, "  "+cell(t.Key, 10)+" "+t.Title+"  "+styleMuted().Render(t.Status))
		}
		if g.TaskCount > state.DashboardPreview {
			lines = append(lines, "  "+styleMuted().Render(fmt.Sprintf("… ещё %d", g.TaskCount-state.DashboardPreview)))
		}
		lines = append(lines, "")
	}

	help := "enter — к проектам"
	if !app.Caps.Scoped {
		help += " · f — отдел"
	}
	lines = append(lines, styleMuted().Render(help))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
