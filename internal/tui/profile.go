package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskflow-cli/internal/model"
	"taskflow-cli/internal/store"
)

type profileFormModel struct {
	fullName textinput.Model
	position textinput.Model
	password textinput.Model
	avatar   textinput.Model
	focus    int
	loaded   bool
}

const profileFieldCount = 4

func (m *appModel) ensureProfileForm() {
	if m.profileForm.loaded {
		return
	}
	f := profileFormModel{
		fullName: newInput("ФИО", 40, 128),
		position: newInput("должность", 40, 128),
		password: newPassword("новый пароль (пусто — без изменений)", 40),
		avatar:   newInput("путь к файлу аватара", 48, 512),
		loaded:   true,
	}
	if s := m.app.Session; s != nil {
		f.fullName.SetValue(s.FullName)
		f.position.SetValue(s.Position)
	}
	f.fullName.Focus()
	m.profileForm = f
}

func (f *profileFormModel) setFocus(i int) {
	f.focus = i
	f.fullName.Blur()
	f.position.Blur()
	f.password.Blur()
	f.avatar.Blur()
	switch i {
	case 0:
		f.fullName.Focus()
	case 1:
		f.position.Focus()
	case 2:
		f.password.Focus()
	case 3:
		f.avatar.Focus()
	}
}

func (m appModel) updateProfile(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.ensureProfileForm()
	f := &m.profileForm

	switch msg.String() {
	case "esc":
		m.profileForm.loaded = false
		m.setView(viewDashboard)
		return m, nil
	case "tab", "down":
		f.setFocus((f.focus + 1) % profileFieldCount)
		return m, nil
	case "shift+tab", "up":
		f.setFocus((f.focus + profileFieldCount - 1) % profileFieldCount)
		return m, nil
	case "ctrl+s":
		err := m.app.UpdateProfile(context.Background(), model.ProfileInput{
			FullName: f.fullName.Value(),
			Position: f.position.Value(),
			Password: f.password.Value(),
		})
		if err != nil {
			m.setError(err)
			return m, nil
		}
		// The session changed; keep the stored copy in sync.
		_ = m.st.SaveSession(m.app.Session)
		f.password.SetValue("")
		m.setInfo("Профиль сохранен")
		return m, nil
	case "ctrl+a":
		if err := m.app.UploadAvatar(context.Background(), f.avatar.Value()); err != nil {
			m.setError(err)
			return m, nil
		}
		_ = m.st.SaveSession(m.app.Session)
		f.avatar.SetValue("")
		m.setInfo("Аватар обновлен")
		return m, nil
	}

	var cmd tea.Cmd
	switch f.focus {
	case 0:
		f.fullName, cmd = f.fullName.Update(msg)
	case 1:
		f.position, cmd = f.position.Update(msg)
	case 2:
		f.password, cmd = f.password.Update(msg)
	case 3:
		f.avatar, cmd = f.avatar.Update(msg)
	}
	return m, cmd
}

func (m appModel) viewProfile() string {
	(&m).ensureProfileForm()
	f := m.profileForm
	s := m.app.Session

	lines := []string{styleHeading().Render("Профиль"), ""}
	if s != nil {
		lines = append(lines,
			styleMuted().Render("Логин: "+s.Login+" · Роль: "+s.Role.Label()+" · Отдел: "+dash(s.DepartmentName)))
		lines = append(lines, "")
	}
	lines = append(lines,
		renderField("ФИО", f.fullName.View(), f.focus == 0),
		renderField("Должность", f.position.View(), f.focus == 1),
		renderField("Пароль", f.password.View(), f.focus == 2),
		renderField("Аватар", f.avatar.View(), f.focus == 3),
		"",
		styleMuted().Render("ctrl+s — сохранить · ctrl+a — загрузить аватар · esc — назад"),
	)
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// Settings: local preferences plus logout.

var settingsLocales = []string{"ru", "en"}

const settingsRows = 4 // locale, chat notifications, report notifications, logout

func (m appModel) updateSettings(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.prefs == nil {
		m.prefs = store.DefaultPrefs()
	}
	switch msg.String() {
	case "j", "down":
		m.settingsIdx = moveCursor(m.settingsIdx, 1, settingsRows)
	case "k", "up":
		m.settingsIdx = moveCursor(m.settingsIdx, -1, settingsRows)
	case "left", "right", "enter", " ":
		switch m.settingsIdx {
		case 0:
			delta := 1
			if msg.String() == "left" {
				delta = -1
			}
			i := cycleOption(indexOfString(settingsLocales, m.prefs.Locale), delta, len(settingsLocales))
			m.prefs.Locale = settingsLocales[i]
		case 1:
			m.prefs.NotifyChat = !m.prefs.NotifyChat
		case 2:
			m.prefs.NotifyReports = !m.prefs.NotifyReports
		case 3:
			if msg.String() == "enter" {
				m.askConfirm("Выйти из учетной записи?", viewLogin, func(m *appModel) error {
					return m.logout()
				})
			}
			return m, nil
		}
		if err := m.st.SavePrefs(m.prefs); err != nil {
			m.setError(err)
		}
	}
	return m, nil
}

// logout clears the stored session and resets the in-memory state.
func (m *appModel) logout() error {
	if err := m.st.ClearSession(); err != nil {
		return err
	}
	m.app.SetSession(nil)
	m.actor.SetActor("")
	m.loginForm = newLoginForm()
	return nil
}

func onOff(v bool) string {
	if v {
		return "вкл"
	}
	return "выкл"
}

func (m appModel) viewSettings() string {
	p := m.prefs
	if p == nil {
		p = store.DefaultPrefs()
	}

	rows := []string{
		"Язык интерфейса: ‹ " + p.Locale + " ›",
		"Уведомления чата: " + onOff(p.NotifyChat),
		"Уведомления об отчетах: " + onOff(p.NotifyReports),
		"Выйти из учетной записи",
	}
	lines := []string{styleHeading().Render("Настройки"), ""}
	for i, r := range rows {
		if i == m.settingsIdx {
			lines = append(lines, styleSelectedRow().Render(r))
		} else {
			lines = append(lines, r)
		}
	}
	lines = append(lines, "",
		styleMuted().Render("←/→/enter — изменить · enter на «Выйти» — выход"))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
