package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"taskflow-cli/internal/model"
)

type loginFormModel struct {
	login    textinput.Model
	password textinput.Model
	focus    int
}

func newLoginForm() loginFormModel {
	f := loginFormModel{
		login:    newInput("логин", 32, 64),
		password: newPassword("пароль", 32),
	}
	f.login.Focus()
	return f
}

func (f *loginFormModel) setFocus(i int) {
	f.focus = i
	f.login.Blur()
	f.password.Blur()
	switch i {
	case 0:
		f.login.Focus()
	case 1:
		f.password.Focus()
	}
}

func (m appModel) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		m.loginForm.setFocus((m.loginForm.focus + 1) % 2)
		return m, nil
	case "shift+tab", "up":
		m.loginForm.setFocus((m.loginForm.focus + 1) % 2)
		return m, nil
	case "enter":
		m.doLogin()
		return m, nil
	case "ctrl+n":
		m.openRegister()
		return m, nil
	case "esc":
		return m, tea.Quit
	}
	var cmd tea.Cmd
	if m.loginForm.focus == 0 {
		m.loginForm.login, cmd = m.loginForm.login.Update(msg)
	} else {
		m.loginForm.password, cmd = m.loginForm.password.Update(msg)
	}
	return m, cmd
}

// doLogin authenticates, persists the session, switches the client
// identity and performs the initial load. Any failure keeps the login
// view with the error inline.
func (m *appModel) doLogin() {
	ctx := context.Background()
	sess, err := m.app.Login(ctx, m.loginForm.login.Value(), m.loginForm.password.Value())
	if err != nil {
		m.setError(err)
		return
	}
	m.actor.SetActor(sess.Login)
	if err := m.st.SaveSession(sess); err != nil {
		m.logger.Warn("session save failed", zap.Error(err))
	}
	if err := m.app.Bootstrap(ctx); err != nil {
		m.app.SetSession(nil)
		m.actor.SetActor("")
		m.setError(err)
		return
	}
	m.loginForm = newLoginForm()
	m.setView(viewDashboard)
}

func (m *appModel) openRegister() {
	// The department selector needs the list before authentication;
	// a failure leaves it empty and the server validates instead.
	_ = m.app.LoadDepartments(context.Background())
	m.regForm = newRegisterForm()
	m.setView(viewRegister)
}

func (m appModel) viewLogin() string {
	f := m.loginForm
	lines := []string{
		styleHeading().Render("TaskFlow — вход"),
		"",
		renderField("Логин", f.login.View(), f.focus == 0),
		renderField("Пароль", f.password.View(), f.focus == 1),
		"",
		styleMuted().Render("enter — войти · ctrl+n — регистрация · esc — выход"),
	}
	if line := messageLine(m.message, m.msgIsErr); line != "" {
		lines = append(lines, "", line)
	}
	return centered(m.width, lipgloss.JoinVertical(lipgloss.Left, lines...))
}

type registerFormModel struct {
	login        textinput.Model
	password     textinput.Model
	repeat       textinput.Model
	fullName     textinput.Model
	position     textinput.Model
	departmentID int64
	focus        int
}

const regFields = 6

func newRegisterForm() registerFormModel {
	f := registerFormModel{
		login:    newInput("логин", 32, 64),
		password: newPassword("пароль", 32),
		repeat:   newPassword("повтор пароля", 32),
		fullName: newInput("ФИО", 40, 128),
		position: newInput("должность", 40, 128),
	}
	f.login.Focus()
	return f
}

func (f *registerFormModel) inputs() []*textinput.Model {
	return []*textinput.Model{&f.login, &f.password, &f.repeat, &f.fullName, &f.position}
}

func (f *registerFormModel) setFocus(i int) {
	f.focus = i
	for j, in := range f.inputs() {
		if j == i {
			in.Focus()
		} else {
			in.Blur()
		}
	}
}

func (m appModel) updateRegister(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := &m.regForm
	switch msg.String() {
	case "tab", "down":
		f.setFocus((f.focus + 1) % regFields)
		return m, nil
	case "shift+tab", "up":
		f.setFocus((f.focus + regFields - 1) % regFields)
		return m, nil
	case "left", "right":
		if f.focus == 5 {
			delta := 1
			if msg.String() == "left" {
				delta = -1
			}
			f.departmentID = cycleDepartment(m.app.Departments, f.departmentID, delta)
			return m, nil
		}
	case "enter":
		m.doRegister()
		return m, nil
	case "esc":
		m.setView(viewLogin)
		return m, nil
	}
	if f.focus < len(f.inputs()) {
		var cmd tea.Cmd
		*f.inputs()[f.focus], cmd = f.inputs()[f.focus].Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *appModel) doRegister() {
	f := &m.regForm
	err := m.app.Register(context.Background(), model.RegisterInput{
		Login:          f.login.Value(),
		Password:       f.password.Value(),
		RepeatPassword: f.repeat.Value(),
		FullName:       f.fullName.Value(),
		Position:       f.position.Value(),
		DepartmentID:   f.departmentID,
	})
	if err != nil {
		m.setError(err)
		return
	}
	m.setView(viewLogin)
	m.setInfo("Регистрация выполнена, войдите под новым логином")
}

func (m appModel) viewRegister() string {
	f := m.regForm
	lines := []string{
		styleHeading().Render("TaskFlow — регистрация"),
		"",
		renderField("Логин", f.login.View(), f.focus == 0),
		renderField("Пароль", f.password.View(), f.focus == 1),
		renderField("Повтор пароля", f.repeat.View(), f.focus == 2),
		renderField("ФИО", f.fullName.View(), f.focus == 3),
		renderField("Должность", f.position.View(), f.focus == 4),
		renderField("Отдел", "‹ "+departmentLabel(m.app.Departments, f.departmentID)+" ›", f.focus == 5),
		"",
		styleMuted().Render("enter — зарегистрироваться · esc — назад"),
	}
	if line := messageLine(m.message, m.msgIsErr); line != "" {
		lines = append(lines, "", line)
	}
	return centered(m.width, lipgloss.JoinVertical(lipgloss.Left, lines...))
}
