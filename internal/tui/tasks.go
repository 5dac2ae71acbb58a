package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskflow-cli/internal/model"
	"taskflow-cli/internal/state"
)

// Select option lists. The wire format is free-form text, these are
// the values the UI offers.
var (
	taskTypes      = []string{"Задача", "Поручение"}
	taskStatuses   = []string{"Новая", "В работе", "Выполнено"}
	taskPriorities = []string{"Низкий", "Средний", "Высокий"}
)

var taskColumns = []int{10, 30, 16, 10, 10, 10}

func (m appModel) updateTasks(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	app := m.app
	_, page := state.Paginate(&app.TasksPager, app.Tasks)

	switch msg.String() {
	case "j", "down":
		m.taskIdx = moveCursor(m.taskIdx, 1, len(page))
	case "k", "up":
		m.taskIdx = moveCursor(m.taskIdx, -1, len(page))
	case "right", "l":
		if app.TasksPager.Next(len(app.Tasks)) {
			m.taskIdx = 0
			m.persistUIState()
		}
	case "left", "h":
		if app.TasksPager.Prev() {
			m.taskIdx = 0
			m.persistUIState()
		}
	case "f":
		m.cycleFilter()
	case "n":
		m.openTaskEditor(0)
	case "enter", "e":
		if t, ok := m.selectedTask(); ok {
			m.openTaskEditor(t.ID)
		}
	case "d":
		if t, ok := m.selectedTask(); ok {
			m.askConfirm(
				fmt.Sprintf("Удалить задачу «%s»?", t.Title),
				viewTasks,
				func(m *appModel) error {
					return m.app.DeleteTask(context.Background(), t.ID)
				},
			)
		}
	case "g":
		if t, ok := m.selectedTask(); ok {
			m.openTaskChat(t.ID)
		}
	case "c":
		if t, ok := m.selectedTask(); ok {
			m.openReportForm(model.TargetTask, t.ID, state.ReportModeClose, viewTasks)
		}
	case "i":
		if t, ok := m.selectedTask(); ok {
			m.openReportForm(model.TargetTask, t.ID, state.ReportModeInterim, viewTasks)
		}
	}
	return m, nil
}

func (m appModel) selectedTask() (model.Task, bool) {
	_, page := state.Paginate(&m.app.TasksPager, m.app.Tasks)
	if len(page) == 0 {
		return model.Task{}, false
	}
	return page[clampCursor(m.taskIdx, len(page))], true
}

func (m appModel) viewTasks() string {
	app := m.app
	pages, page := state.Paginate(&app.TasksPager, app.Tasks)
	idx := clampCursor(m.taskIdx, len(page))

	lines := []string{
		styleHeading().Render("Задачи") + "  " + styleMuted().Render(m.filterLabel()),
		styleColumnHeader().Render(tableRow(taskColumns, "Код", "Название", "Проект", "Статус", "Приоритет", "Срок")),
	}
	if len(page) == 0 {
		lines = append(lines, styleMuted().Render("Задач нет"))
	}
	for i, t := range page {
		due := "—"
		if t.DueDate != nil {
			due = *t.DueDate
		}
		row := tableRow(taskColumns, t.Key, t.Title, t.ProjectName, t.Status, t.Priority, due)
		if i == idx {
			row = styleSelectedRow().Render(row)
		}
		lines = append(lines, row)
	}
	if len(page) > 0 && page[idx].Description != "" {
		lines = append(lines, "", renderMarkdown(page[idx].Description, m.width-4))
	}
	lines = append(lines, "", pagerFooter(app.TasksPager.Current(), pages))

	help := "enter — изменить · d — удалить · g — чат · c — закрыть · i — пром. отчет"
	if app.Caps.CanManageWorkItems {
		help = "n — новая · " + help
	}
	if !app.Caps.Scoped {
		help += " · f — отдел"
	}
	lines = append(lines, styleMuted().Render(help))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// Task editor.

type taskFormModel struct {
	key         textinput.Model
	title       textinput.Model
	description textarea.Model
	due         textinput.Model
	focus       int
}

// Focus layout: key, title, description, type, status, priority,
// project, due date, then picker rows.
const (
	taskFieldKey = iota
	taskFieldTitle
	taskFieldDescription
	taskFieldType
	taskFieldStatus
	taskFieldPriority
	taskFieldProject
	taskFieldDue
	taskFixedFields
)

func (m *appModel) openTaskEditor(id int64) {
	if !m.app.Caps.CanManageWorkItems {
		m.setError(state.ErrNoPermission)
		return
	}
	if id == 0 {
		m.app.ResetTaskDraft()
	} else if err := m.app.EditTask(id); err != nil {
		m.setError(err)
		return
	}
	d := m.app.TaskDraft
	f := taskFormModel{
		key:         newInput("код (пусто — автоматически)", 20, 32),
		title:       newInput("название", 48, 256),
		description: newArea("описание", 60, 5),
		due:         newInput("ГГГГ-ММ-ДД", 12, 10),
	}
	f.key.SetValue(d.Key)
	f.title.SetValue(d.Title)
	f.description.SetValue(d.Description)
	f.due.SetValue(d.DueDate)
	f.key.Focus()
	m.taskForm = f
	m.setView(viewTaskEditor)
}

func (f *taskFormModel) fieldCount(d *state.TaskDraft) int {
	return taskFixedFields + d.Curators.RowCount() + d.Assignees.RowCount()
}

func (f *taskFormModel) setFocus(i int) {
	f.focus = i
	f.key.Blur()
	f.title.Blur()
	f.description.Blur()
	f.due.Blur()
	switch i {
	case taskFieldKey:
		f.key.Focus()
	case taskFieldTitle:
		f.title.Focus()
	case taskFieldDescription:
		f.description.Focus()
	case taskFieldDue:
		f.due.Focus()
	}
}

func (f *taskFormModel) focusedPicker(d *state.TaskDraft) (*state.Picker, int) {
	i := f.focus - taskFixedFields
	if i >= 0 && i < d.Curators.RowCount() {
		return d.Curators, i
	}
	i -= d.Curators.RowCount()
	if i >= 0 && i < d.Assignees.RowCount() {
		return d.Assignees, i
	}
	return nil, -1
}

// projectOptions are the projects a task may belong to, taken from the
// current cache slice.
func (m appModel) cycleTaskProject(delta int) {
	projects := m.app.Projects
	if len(projects) == 0 {
		return
	}
	cur := -1
	for i, p := range projects {
		if p.ID == m.app.TaskDraft.ProjectID {
			cur = i
			break
		}
	}
	var next int64
	if cur < 0 {
		next = projects[0].ID
	} else {
		next = projects[cycleOption(cur, delta, len(projects))].ID
	}
	m.app.SetTaskProject(next)
}

func (m appModel) updateTaskEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := &m.taskForm
	d := &m.app.TaskDraft
	inArea := f.focus == taskFieldDescription

	switch msg.String() {
	case "esc":
		m.setView(viewTasks)
		return m, nil
	case "ctrl+s":
		m.syncTaskDraft()
		if err := m.app.SaveTask(context.Background()); err != nil {
			m.setError(err)
			return m, nil
		}
		m.setView(viewTasks)
		m.setInfo("Задача сохранена")
		return m, nil
	case "ctrl+d":
		if d.EditingID != nil {
			id := *d.EditingID
			m.askConfirm(
				fmt.Sprintf("Удалить задачу «%s»?", d.Title),
				viewTasks,
				func(m *appModel) error {
					return m.app.DeleteTask(context.Background(), id)
				},
			)
		}
		return m, nil
	case "tab":
		f.setFocus((f.focus + 1) % f.fieldCount(d))
		return m, nil
	case "shift+tab":
		n := f.fieldCount(d)
		f.setFocus((f.focus + n - 1) % n)
		return m, nil
	case "down", "up":
		// The text area owns vertical movement while focused.
		if !inArea {
			delta := 1
			if msg.String() == "up" {
				delta = -1
			}
			n := f.fieldCount(d)
			f.setFocus((f.focus + n + delta) % n)
			return m, nil
		}
	case "left", "right":
		delta := 1
		if msg.String() == "left" {
			delta = -1
		}
		switch f.focus {
		case taskFieldType:
			d.Type = taskTypes[cycleOption(indexOfString(taskTypes, d.Type), delta, len(taskTypes))]
			return m, nil
		case taskFieldStatus:
			d.Status = taskStatuses[cycleOption(indexOfString(taskStatuses, d.Status), delta, len(taskStatuses))]
			return m, nil
		case taskFieldPriority:
			d.Priority = taskPriorities[cycleOption(indexOfString(taskPriorities, d.Priority), delta, len(taskPriorities))]
			return m, nil
		case taskFieldProject:
			m.cycleTaskProject(delta)
			return m, nil
		}
		if p, row := f.focusedPicker(d); p != nil {
			cyclePickerRow(p, row, delta)
			return m, nil
		}
	case "+":
		if p, _ := f.focusedPicker(d); p != nil && !inArea {
			p.AddRow()
			return m, nil
		}
	case "-":
		if p, row := f.focusedPicker(d); p != nil && !inArea {
			p.RemoveRow(row)
			f.setFocus(clampCursor(f.focus, f.fieldCount(d)))
			return m, nil
		}
	}

	var cmd tea.Cmd
	switch f.focus {
	case taskFieldKey:
		f.key, cmd = f.key.Update(msg)
	case taskFieldTitle:
		f.title, cmd = f.title.Update(msg)
	case taskFieldDescription:
		f.description, cmd = f.description.Update(msg)
	case taskFieldDue:
		f.due, cmd = f.due.Update(msg)
	}
	return m, cmd
}

func (m *appModel) syncTaskDraft() {
	d := &m.app.TaskDraft
	d.Key = strings.TrimSpace(m.taskForm.key.Value())
	d.Title = m.taskForm.title.Value()
	d.Description = m.taskForm.description.Value()
	d.DueDate = strings.TrimSpace(m.taskForm.due.Value())
}

func (m appModel) viewTaskEditor() string {
	f := m.taskForm
	d := &m.app.TaskDraft

	title := "Новая задача"
	if d.EditingID != nil {
		title = "Задача " + d.Key
	}
	projectName := "—"
	for _, p := range m.app.Projects {
		if p.ID == d.ProjectID {
			projectName = p.Name
			break
		}
	}

	lines := []string{
		styleHeading().Render(title),
		"",
		renderField("Код", f.key.View(), f.focus == taskFieldKey),
		renderField("Название", f.title.View(), f.focus == taskFieldTitle),
		renderField("Описание", "", f.focus == taskFieldDescription),
		f.description.View(),
		renderField("Тип", "‹ "+d.Type+" ›", f.focus == taskFieldType),
		renderField("Статус", "‹ "+d.Status+" ›", f.focus == taskFieldStatus),
		renderField("Приоритет", "‹ "+d.Priority+" ›", f.focus == taskFieldPriority),
		renderField("Проект", "‹ "+projectName+" ›", f.focus == taskFieldProject),
		renderField("Срок", f.due.View(), f.focus == taskFieldDue),
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
