package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"taskflow-cli/internal/state"
	"taskflow-cli/internal/store"
)

type view int

const (
	viewLogin view = iota
	viewRegister
	viewDashboard
	viewProjects
	viewProjectEditor
	viewProjectDetails
	viewTasks
	viewTaskEditor
	viewTaskChat
	viewUsers
	viewReports
	viewCloseReport
	viewCalendar
	viewProfile
	viewSettings
	viewMessenger
)

var viewNames = map[view]string{
	viewDashboard:      "dashboard",
	viewProjects:       "projects",
	viewProjectEditor:  "project-editor",
	viewProjectDetails: "project-details",
	viewTasks:          "tasks",
	viewTaskEditor:     "task-editor",
	viewTaskChat:       "task-chat",
	viewUsers:          "users",
	viewReports:        "reports",
	viewCloseReport:    "close-report",
	viewCalendar:       "calendar",
	viewProfile:        "profile",
	viewSettings:       "settings",
	viewMessenger:      "messenger",
}

func viewByName(name string) (view, bool) {
	for v, n := range viewNames {
		if n == name {
			return v, true
		}
	}
	return viewDashboard, false
}

// actorSetter is the slice of the REST client the TUI needs after a
// login: switching the identity header.
type actorSetter interface {
	SetActor(login string)
}

type appModel struct {
	app    *state.App
	st     store.Store
	actor  actorSetter
	logger *zap.Logger

	width  int
	height int

	view view

	// message is the per-view inline slot shared by validation and
	// server errors.
	message  string
	msgIsErr bool

	loginForm loginFormModel
	regForm   registerFormModel

	projectIdx int
	taskIdx    int
	userIdx    int
	reportIdx  int
	detailIdx  int
	dashIdx    int

	projectForm projectFormModel
	taskForm    taskFormModel
	userForm    userFormModel
	reportForm  reportFormModel
	profileForm profileFormModel

	chat chatModel

	calMode   state.CalendarMode
	calCursor time.Time

	prefs       *store.Prefs
	settingsIdx int

	confirm *confirmState
}

func newAppModel(app *state.App, st store.Store, actor actorSetter, logger *zap.Logger) appModel {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := appModel{
		app:       app,
		st:        st,
		actor:     actor,
		logger:    logger,
		view:      viewLogin,
		calMode:   state.CalendarWeekMode,
		calCursor: time.Now(),
	}
	m.loginForm = newLoginForm()
	m.regForm = newRegisterForm()
	m.chat = newChatModel()
	m.prefs, _ = st.LoadPrefs()

	if app.LoggedIn() {
		// Restoring the saved filter first so the bootstrap loads the
		// same slice the user last looked at.
		m.view = viewDashboard
		m.restoreUIState()
		// A stored session is trusted indefinitely; a failed bootstrap
		// is the blocking first-load error.
		if err := app.Bootstrap(context.Background()); err != nil {
			app.SetSession(nil)
			m.view = viewLogin
			m.setError(err)
			return m
		}
	}
	return m
}

func (m appModel) Init() tea.Cmd { return nil }

func (m *appModel) setError(err error) {
	if err == nil {
		return
	}
	m.message = err.Error()
	m.msgIsErr = true
	m.logger.Debug("handler error", zap.String("view", viewNames[m.view]), zap.Error(err))
}

func (m *appModel) setInfo(msg string) {
	m.message = msg
	m.msgIsErr = false
}

// setView is the single-active-view switch. The inline message resets
// so stale errors never leak across views.
func (m *appModel) setView(v view) {
	m.view = v
	m.message = ""
	m.msgIsErr = false
	m.persistUIState()
}

func (m *appModel) restoreUIState() {
	ust, err := m.st.LoadUIState(context.Background())
	if err != nil || ust == nil {
		return
	}
	if v, ok := viewByName(ust.View); ok && isRestorableView(v) {
		m.view = v
	}
	if !m.app.Caps.Scoped {
		m.app.DepartmentFilter = ust.DepartmentFilter
	}
	// The bootstrap loads run after restore; their Clamp pulls a
	// remembered page back in range when the collection shrank.
	if ust.Page != nil {
		m.app.ProjectsPager.SetPage(ust.Page["projects"])
		m.app.TasksPager.SetPage(ust.Page["tasks"])
		m.app.UsersPager.SetPage(ust.Page["users"])
		m.app.ReportsPager.SetPage(ust.Page["reports"])
	}
	if ust.CalendarMode != "" {
		m.calMode = state.CalendarMode(ust.CalendarMode)
	}
	if ust.CalendarCursor != "" {
		if t, err := time.Parse("2006-01-02", ust.CalendarCursor); err == nil {
			m.calCursor = t
		}
	}
}

// Editors, modals and chat views are not restored: they hold
// transient drafts or an open thread that no longer exists.
func isRestorableView(v view) bool {
	switch v {
	case viewDashboard, viewProjects, viewTasks, viewUsers, viewReports, viewCalendar, viewProfile, viewSettings:
		return true
	}
	return false
}

func (m *appModel) persistUIState() {
	if !m.app.LoggedIn() {
		return
	}
	name := viewNames[m.view]
	if _, ok := viewByName(name); !ok {
		return
	}
	_ = m.st.SaveUIState(context.Background(), &store.UIState{
		View:             name,
		DepartmentFilter: m.app.DepartmentFilter,
		Page: map[string]int{
			"projects": m.app.ProjectsPager.Current(),
			"tasks":    m.app.TasksPager.Current(),
			"users":    m.app.UsersPager.Current(),
			"reports":  m.app.ReportsPager.Current(),
		},
		CalendarMode:   string(m.calMode),
		CalendarCursor: m.calCursor.Format("2006-01-02"),
	})
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.chat.resize(msg.Width)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.confirm != nil {
			return m.updateConfirm(msg)
		}
		if !m.app.LoggedIn() {
			if m.view == viewRegister {
				return m.updateRegister(msg)
			}
			return m.updateLogin(msg)
		}
		return m.updateApp(msg)
	}
	return m, nil
}

// updateApp dispatches keys inside the authenticated shell. Global
// navigation digits work on every non-typing view.
func (m appModel) updateApp(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !m.typingView() {
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "1":
			m.setView(viewDashboard)
			return m, nil
		case "2":
			m.setView(viewProjects)
			return m, nil
		case "3":
			m.setView(viewTasks)
			return m, nil
		case "4":
			m.setView(viewUsers)
			return m, nil
		case "5":
			m.setView(viewReports)
			return m, nil
		case "6":
			m.setView(viewCalendar)
			return m, nil
		case "7":
			m.openMessenger()
			return m, nil
		case "8":
			m.setView(viewProfile)
			return m, nil
		case "9":
			m.setView(viewSettings)
			return m, nil
		case "r":
			m.reloadCurrent()
			return m, nil
		}
	}

	switch m.view {
	case viewDashboard:
		return m.updateDashboard(msg)
	case viewProjects:
		return m.updateProjects(msg)
	case viewProjectDetails:
		return m.updateProjectDetails(msg)
	case viewProjectEditor:
		return m.updateProjectEditor(msg)
	case viewTasks:
		return m.updateTasks(msg)
	case viewTaskEditor:
		return m.updateTaskEditor(msg)
	case viewTaskChat, viewMessenger:
		return m.updateChat(msg)
	case viewUsers:
		return m.updateUsers(msg)
	case viewReports:
		return m.updateReports(msg)
	case viewCloseReport:
		return m.updateCloseReport(msg)
	case viewCalendar:
		return m.updateCalendar(msg)
	case viewProfile:
		return m.updateProfile(msg)
	case viewSettings:
		return m.updateSettings(msg)
	}
	return m, nil
}

// typingView reports whether the current view owns the keyboard for
// text entry (so digits must not navigate).
func (m appModel) typingView() bool {
	switch m.view {
	case viewProjectEditor, viewTaskEditor, viewCloseReport, viewProfile, viewTaskChat, viewMessenger, viewUsers:
		// Users view only types while the editor form is open.
		return m.view != viewUsers || m.userForm.open
	}
	return false
}

// reloadCurrent re-fetches the collection behind the active view.
func (m *appModel) reloadCurrent() {
	ctx := context.Background()
	var err error
	switch m.view {
	case viewDashboard:
		err = firstErr(m.app.LoadProjects(ctx), m.app.LoadTasks(ctx))
	case viewProjects, viewProjectDetails:
		err = m.app.LoadProjects(ctx)
	case viewTasks, viewCalendar:
		err = m.app.LoadTasks(ctx)
	case viewUsers:
		err = m.app.LoadUsers(ctx)
	case viewReports:
		err = m.app.LoadReports(ctx)
	}
	m.setError(err)
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func (m appModel) View() string {
	if m.width == 0 {
		return ""
	}

	var body string
	switch {
	case !m.app.LoggedIn() && m.view == viewRegister:
		body = m.viewRegister()
	case !m.app.LoggedIn():
		body = m.viewLogin()
	default:
		body = m.viewApp()
	}

	if m.confirm != nil {
		return lipgloss.JoinVertical(lipgloss.Left, body, m.renderConfirm())
	}
	return body
}

func (m appModel) viewApp() string {
	var body string
	switch m.view {
	case viewDashboard:
		body = m.viewDashboard()
	case viewProjects:
		body = m.viewProjects()
	case viewProjectDetails:
		body = m.viewProjectDetails()
	case viewProjectEditor:
		body = m.viewProjectEditor()
	case viewTasks:
		body = m.viewTasks()
	case viewTaskEditor:
		body = m.viewTaskEditor()
	case viewTaskChat, viewMessenger:
		body = m.viewChat()
	case viewUsers:
		body = m.viewUsers()
	case viewReports:
		body = m.viewReports()
	case viewCloseReport:
		body = m.viewCloseReport()
	case viewCalendar:
		body = m.viewCalendar()
	case viewProfile:
		body = m.viewProfile()
	case viewSettings:
		body = m.viewSettings()
	}

	parts := []string{m.renderNav(), "", body}
	if line := messageLine(m.message, m.msgIsErr); line != "" {
		parts = append(parts, "", line)
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

var navItems = []struct {
	key   string
	label string
	views []view
}{
	{"1", "Сводка", []view{viewDashboard}},
	{"2", "Проекты", []view{viewProjects, viewProjectEditor, viewProjectDetails}},
	{"3", "Задачи", []view{viewTasks, viewTaskEditor, viewTaskChat}},
	{"4", "Сотрудники", []view{viewUsers}},
	{"5", "Отчеты", []view{viewReports, viewCloseReport}},
	{"6", "Календарь", []view{viewCalendar}},
	{"7", "Чат", []view{viewMessenger}},
	{"8", "Профиль", []view{viewProfile}},
	{"9", "Настройки", []view{viewSettings}},
}

// renderNav marks the menu entry matching the active view, including
// its editors/sub-views.
func (m appModel) renderNav() string {
	parts := make([]string, 0, len(navItems))
	for _, item := range navItems {
		label := item.key + " " + item.label
		active := false
		for _, v := range item.views {
			if v == m.view {
				active = true
				break
			}
		}
		if active {
			parts = append(parts, styleNavActive().Render(label))
		} else {
			parts = append(parts, styleMuted().Render(label))
		}
	}
	line := ""
	for i, p := range parts {
		if i > 0 {
			line += styleMuted().Render("  │  ")
		}
		line += p
	}
	return line
}

// Run starts the interactive TUI.
func Run(app *state.App, st store.Store, actor actorSetter, logger *zap.Logger) error {
	m := newAppModel(app, st, actor, logger)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
