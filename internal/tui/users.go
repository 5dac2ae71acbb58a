package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskflow-cli/internal/model"
	"taskflow-cli/internal/state"
)

var userColumns = []int{14, 28, 22, 22, 20}

// userFormModel is the inline user editor: the users view switches
// between the table and the form instead of a separate view constant.
type userFormModel struct {
	open     bool
	login    textinput.Model
	fullName textinput.Model
	position textinput.Model
	focus    int
}

const userFixedFields = 5 // login, full name, position, role, department

func (m appModel) updateUsers(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.userForm.open {
		return m.updateUserEditor(msg)
	}

	app := m.app
	_, page := state.Paginate(&app.UsersPager, app.Users)

	switch msg.String() {
	case "j", "down":
		m.userIdx = moveCursor(m.userIdx, 1, len(page))
	case "k", "up":
		m.userIdx = moveCursor(m.userIdx, -1, len(page))
	case "right", "l":
		if app.UsersPager.Next(len(app.Users)) {
			m.userIdx = 0
			m.persistUIState()
		}
	case "left", "h":
		if app.UsersPager.Prev() {
			m.userIdx = 0
			m.persistUIState()
		}
	case "enter", "e":
		if u, ok := m.selectedUser(); ok {
			m.openUserEditor(u.ID)
		}
	case "d":
		if u, ok := m.selectedUser(); ok {
			m.askConfirm(
				fmt.Sprintf("Удалить пользователя «%s»?", u.FullName),
				viewUsers,
				func(m *appModel) error {
					return m.app.DeleteUser(context.Background(), u.ID)
				},
			)
		}
	}
	return m, nil
}

func (m appModel) selectedUser() (model.User, bool) {
	_, page := state.Paginate(&m.app.UsersPager, m.app.Users)
	if len(page) == 0 {
		return model.User{}, false
	}
	return page[clampCursor(m.userIdx, len(page))], true
}

func (m appModel) viewUsers() string {
	if m.userForm.open {
		return m.viewUserEditor()
	}

	app := m.app
	pages, page := state.Paginate(&app.UsersPager, app.Users)
	idx := clampCursor(m.userIdx, len(page))

	lines := []string{
		styleHeading().Render("Сотрудники"),
		styleColumnHeader().Render(tableRow(userColumns, "Логин", "ФИО", "Должность", "Роль", "Отдел")),
	}
	for i, u := range page {
		row := tableRow(userColumns, u.Login, u.FullName, u.Position, u.Role.Label(), u.DepartmentName)
		if i == idx {
			row = styleSelectedRow().Render(row)
		}
		lines = append(lines, row)
	}
	lines = append(lines, "", pagerFooter(app.UsersPager.Current(), pages))
	if app.Caps.CanManageUsers {
		lines = append(lines, styleMuted().Render("enter — изменить · d — удалить"))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m *appModel) openUserEditor(id int64) {
	if !m.app.Caps.CanManageUsers {
		m.setError(state.ErrNoPermission)
		return
	}
	if err := m.app.EditUser(id); err != nil {
		m.setError(err)
		return
	}
	d := m.app.UserDraft
	f := userFormModel{
		open:     true,
		login:    newInput("логин", 32, 64),
		fullName: newInput("ФИО", 40, 128),
		position: newInput("должность", 40, 128),
	}
	f.login.SetValue(d.Login)
	f.fullName.SetValue(d.FullName)
	f.position.SetValue(d.Position)
	f.login.Focus()
	m.userForm = f
	m.message = ""
}

func (f *userFormModel) setFocus(i int) {
	f.focus = i
	f.login.Blur()
	f.fullName.Blur()
	f.position.Blur()
	switch i {
	case 0:
		f.login.Focus()
	case 1:
		f.fullName.Focus()
	case 2:
		f.position.Focus()
	}
}

func (m *appModel) cycleUserRole(delta int) {
	roles := m.app.AssignableRoles()
	if len(roles) == 0 {
		return
	}
	cur := 0
	for i, r := range roles {
		if m.app.UserDraft.Role.Is(r) {
			cur = i
			break
		}
	}
	m.app.UserDraft.Role = roles[cycleOption(cur, delta, len(roles))]
}

func (m appModel) updateUserEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := &m.userForm
	d := &m.app.UserDraft

	switch msg.String() {
	case "esc":
		f.open = false
		m.message = ""
		return m, nil
	case "ctrl+s":
		d.Login = f.login.Value()
		d.FullName = f.fullName.Value()
		d.Position = f.position.Value()
		if err := m.app.SaveUser(context.Background()); err != nil {
			m.setError(err)
			return m, nil
		}
		f.open = false
		m.setInfo("Пользователь сохранен")
		return m, nil
	case "tab", "down":
		f.setFocus((f.focus + 1) % userFixedFields)
		return m, nil
	case "shift+tab", "up":
		f.setFocus((f.focus + userFixedFields - 1) % userFixedFields)
		return m, nil
	case "left", "right":
		delta := 1
		if msg.String() == "left" {
			delta = -1
		}
		switch f.focus {
		case 3:
			m.cycleUserRole(delta)
			return m, nil
		case 4:
			if m.app.DepartmentPinned() {
				return m, nil
			}
			d.DepartmentID = cycleDepartment(m.app.Departments, d.DepartmentID, delta)
			return m, nil
		}
	}

	var cmd tea.Cmd
	switch f.focus {
	case 0:
		f.login, cmd = f.login.Update(msg)
	case 1:
		f.fullName, cmd = f.fullName.Update(msg)
	case 2:
		f.position, cmd = f.position.Update(msg)
	}
	return m, cmd
}

func (m appModel) viewUserEditor() string {
	f := m.userForm
	d := m.app.UserDraft

	depLabel := "‹ " + departmentLabel(m.app.Departments, d.DepartmentID) + " ›"
	if m.app.DepartmentPinned() {
		depLabel = departmentLabel(m.app.Departments, d.DepartmentID) + " " + styleMuted().Render("(закреплен)")
	}

	lines := []string{
		styleHeading().Render("Пользователь " + d.Login),
		"",
		renderField("Логин", f.login.View(), f.focus == 0),
		renderField("ФИО", f.fullName.View(), f.focus == 1),
		renderField("Должность", f.position.View(), f.focus == 2),
		renderField("Роль", "‹ "+d.Role.Label()+" ›", f.focus == 3),
		renderField("Отдел", depLabel, f.focus == 4),
		"",
		styleMuted().Render("ctrl+s — сохранить · esc — отмена"),
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
