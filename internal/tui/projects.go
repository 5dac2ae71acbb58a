package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskflow-cli/internal/model"
	"taskflow-cli/internal/state"
)

var projectColumns = []int{10, 32, 20, 12, 24}

func (m appModel) updateProjects(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	app := m.app
	_, page := state.Paginate(&app.ProjectsPager, app.Projects)

	switch msg.String() {
	case "j", "down":
		m.projectIdx = moveCursor(m.projectIdx, 1, len(page))
	case "k", "up":
		m.projectIdx = moveCursor(m.projectIdx, -1, len(page))
	case "right", "l":
		if app.ProjectsPager.Next(len(app.Projects)) {
			m.projectIdx = 0
			m.persistUIState()
		}
	case "left", "h":
		if app.ProjectsPager.Prev() {
			m.projectIdx = 0
			m.persistUIState()
		}
	case "f":
		m.cycleFilter()
	case "enter":
		if p, ok := m.selectedProject(); ok {
			if err := app.OpenProjectDetails(context.Background(), p.ID); err != nil {
				m.setError(err)
			} else {
				m.detailIdx = 0
				m.setView(viewProjectDetails)
			}
		}
	case "n":
		m.openProjectEditor(0)
	case "e":
		if p, ok := m.selectedProject(); ok {
			m.openProjectEditor(p.ID)
		}
	case "d":
		if p, ok := m.selectedProject(); ok {
			m.askConfirm(
				fmt.Sprintf("Удалить проект «%s»?", p.Name),
				viewProjects,
				func(m *appModel) error {
					return m.app.DeleteProject(context.Background(), p.ID)
				},
			)
		}
	case "c":
		if p, ok := m.selectedProject(); ok {
			m.openReportForm(model.TargetProject, p.ID, state.ReportModeClose, viewProjects)
		}
	case "i":
		if p, ok := m.selectedProject(); ok {
			m.openReportForm(model.TargetProject, p.ID, state.ReportModeInterim, viewProjects)
		}
	}
	return m, nil
}

func (m appModel) selectedProject() (model.Project, bool) {
	_, page := state.Paginate(&m.app.ProjectsPager, m.app.Projects)
	if len(page) == 0 {
		return model.Project{}, false
	}
	return page[clampCursor(m.projectIdx, len(page))], true
}

func (m appModel) viewProjects() string {
	app := m.app
	pages, page := state.Paginate(&app.ProjectsPager, app.Projects)
	idx := clampCursor(m.projectIdx, len(page))

	lines := []string{
		styleHeading().Render("Проекты") + "  " + styleMuted().Render(m.filterLabel()),
		styleColumnHeader().Render(tableRow(projectColumns, "Код", "Название", "Отдел", "Статус", "Кураторы")),
	}
	if len(page) == 0 {
		lines = append(lines, styleMuted().Render("Проектов нет"))
	}
	for i, p := range page {
		row := tableRow(projectColumns,
			p.Key, p.Name, p.DepartmentName, dash(p.Status), joinNames(userNames(p.Curators)))
		if i == idx {
			row = styleSelectedRow().Render(row)
		}
		lines = append(lines, row)
	}
	lines = append(lines, "", pagerFooter(app.ProjectsPager.Current(), pages))

	help := "enter — открыть · e — изменить · d — удалить · c — закрыть · i — пром. отчет"
	if app.Caps.CanManageWorkItems {
		help = "n — новый · " + help
	}
	if !app.Caps.Scoped {
		help += " · f — отдел"
	}
	lines = append(lines, styleMuted().Render(help))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func userNames(users []model.User) []string {
	out := make([]string, 0, len(users))
	for _, u := range users {
		out = append(out, u.FullName)
	}
	return out
}

// Project details: the read-only per-project task list.

var detailTaskColumns = []int{10, 34, 12, 10, 12}

func (m appModel) updateProjectDetails(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	tasks := m.app.ProjectDetails.Tasks
	switch msg.String() {
	case "j", "down":
		m.detailIdx = moveCursor(m.detailIdx, 1, len(tasks))
	case "k", "up":
		m.detailIdx = moveCursor(m.detailIdx, -1, len(tasks))
	case "esc":
		m.setView(viewProjects)
	}
	return m, nil
}

func (m appModel) viewProjectDetails() string {
	d := m.app.ProjectDetails
	idx := clampCursor(m.detailIdx, len(d.Tasks))

	lines := []string{
		styleHeading().Render("Проект " + d.Project.Key + " — " + d.Project.Name),
		styleMuted().Render("Отдел: " + dash(d.Project.DepartmentName) +
			" · Кураторы: " + joinNames(userNames(d.Project.Curators)) +
			" · Исполнители: " + joinNames(userNames(d.Project.Assignees))),
		"",
		styleColumnHeader().Render(tableRow(detailTaskColumns, "Код", "Название", "Статус", "Приоритет", "Срок")),
	}
	if len(d.Tasks) == 0 {
		lines = append(lines, styleMuted().Render("Задач нет"))
	}
	for i, t := range d.Tasks {
		due := "—"
		if t.DueDate != nil {
			due = *t.DueDate
		}
		row := tableRow(detailTaskColumns, t.Key, t.Title, t.Status, t.Priority, due)
		if i == idx {
			row = styleSelectedRow().Render(row)
		}
		lines = append(lines, row)
	}
	lines = append(lines, "", styleMuted().Render("esc — к списку проектов"))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// Project editor.

type projectFormModel struct {
	key   textinput.Model
	name  textinput.Model
	focus int
}

// Editor focus layout: key, name, department, then one slot per
// curator row, then one per assignee row.
const projectFixedFields = 3

func (m *appModel) openProjectEditor(id int64) {
	if !m.app.Caps.CanManageWorkItems {
		m.setError(state.ErrNoPermission)
		return
	}
	if id == 0 {
		m.app.ResetProjectDraft()
	} else if err := m.app.EditProject(id); err != nil {
		m.setError(err)
		return
	}
	d := m.app.ProjectDraft
	f := projectFormModel{
		key:  newInput("код (пусто — автоматически)", 20, 32),
		name: newInput("название", 48, 256),
	}
	f.key.SetValue(d.Key)
	f.name.SetValue(d.Name)
	f.key.Focus()
	m.projectForm = f
	m.setView(viewProjectEditor)
}

func (f *projectFormModel) fieldCount(d *state.ProjectDraft) int {
	return projectFixedFields + d.Curators.RowCount() + d.Assignees.RowCount()
}

func (f *projectFormModel) setFocus(i int) {
	f.focus = i
	f.key.Blur()
	f.name.Blur()
	switch i {
	case 0:
		f.key.Focus()
	case 1:
		f.name.Focus()
	}
}

// focusedPicker resolves the focus index to a picker and row, if the
// focus sits inside one of the two picker blocks.
func (f *projectFormModel) focusedPicker(d *state.ProjectDraft) (*state.Picker, int) {
	i := f.focus - projectFixedFields
	if i >= 0 && i < d.Curators.RowCount() {
		return d.Curators, i
	}
	i -= d.Curators.RowCount()
	if i >= 0 && i < d.Assignees.RowCount() {
		return d.Assignees, i
	}
	return nil, -1
}

func (m appModel) updateProjectEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := &m.projectForm
	d := &m.app.ProjectDraft

	switch msg.String() {
	case "esc":
		m.setView(viewProjects)
		return m, nil
	case "ctrl+s":
		m.syncProjectDraft()
		if err := m.app.SaveProject(context.Background()); err != nil {
			m.setError(err)
			return m, nil
		}
		m.setView(viewProjects)
		m.setInfo("Проект сохранен")
		return m, nil
	case "ctrl+d":
		if d.EditingID != nil {
			id := *d.EditingID
			m.askConfirm(
				fmt.Sprintf("Удалить проект «%s»?", d.Name),
				viewProjects,
				func(m *appModel) error {
					return m.app.DeleteProject(context.Background(), id)
				},
			)
		}
		return m, nil
	case "tab", "down":
		f.setFocus((f.focus + 1) % f.fieldCount(d))
		return m, nil
	case "shift+tab", "up":
		n := f.fieldCount(d)
		f.setFocus((f.focus + n - 1) % n)
		return m, nil
	case "left", "right":
		delta := 1
		if msg.String() == "left" {
			delta = -1
		}
		if f.focus == 2 {
			m.app.SetProjectDepartment(cycleDepartment(m.app.Departments, d.DepartmentID, delta))
			return m, nil
		}
		if p, row := f.focusedPicker(d); p != nil {
			cyclePickerRow(p, row, delta)
			return m, nil
		}
	case "+":
		if p, _ := f.focusedPicker(d); p != nil {
			p.AddRow()
			return m, nil
		}
	case "-":
		if p, row := f.focusedPicker(d); p != nil {
			p.RemoveRow(row)
			f.setFocus(clampCursor(f.focus, f.fieldCount(d)))
			return m, nil
		}
	}

	var cmd tea.Cmd
	switch f.focus {
	case 0:
		f.key, cmd = f.key.Update(msg)
	case 1:
		f.name, cmd = f.name.Update(msg)
	}
	return m, cmd
}

// syncProjectDraft copies the text inputs back into the draft before
// validation; select and picker fields mutate the draft directly.
func (m *appModel) syncProjectDraft() {
	m.app.ProjectDraft.Key = strings.TrimSpace(m.projectForm.key.Value())
	m.app.ProjectDraft.Name = m.projectForm.name.Value()
}

func (m appModel) viewProjectEditor() string {
	f := m.projectForm
	d := &m.app.ProjectDraft

	title := "Новый проект"
	if d.EditingID != nil {
		title = "Проект " + d.Key
	}

	lines := []string{
		styleHeading().Render(title),
		"",
		renderField("Код", f.key.View(), f.focus == 0),
		renderField("Название", f.name.View(), f.focus == 1),
		renderField("Отдел", "‹ "+departmentLabel(m.app.Departments, d.DepartmentID)+" ›", f.focus == 2),
		"",
	}
	curRow, asgRow := -1, -1
	if p, row := (&f).focusedPicker(d); p == d.Curators {
		curRow = row
	} else if p == d.Assignees {
		asgRow = row
	}
	lines = append(lines, renderPicker("Кураторы (1–5)", d.Curators, curRow)...)
	lines = append(lines, renderPicker("Исполнители (1–5)", d.Assignees, asgRow)...)
	help := "←/→ — выбрать · + / - — строка · ctrl+s — сохранить · esc — отмена"
	if d.EditingID != nil {
		help += " · ctrl+d — удалить"
	}
	lines = append(lines, "", styleMuted().Render(help))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
