package tui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskflow-cli/internal/state"
)

// chatFocus zones: the message list, the body input, the file input.
type chatFocus int

const (
	chatFocusInput chatFocus = iota
	chatFocusFile
	chatFocusList
)

// chatModel drives both chat screens: the department messenger and a
// task's thread. thread points at the active state.ChatThread.
type chatModel struct {
	thread *state.ChatThread
	input  textinput.Model
	file   textinput.Model
	focus  chatFocus
	msgIdx int
}

func newChatModel() chatModel {
	c := chatModel{
		input: newInput("сообщение", 60, 2000),
		file:  newInput("файл (необязательно)", 48, 512),
	}
	c.input.Focus()
	return c
}

func (c *chatModel) resize(width int) {
	if width > 20 {
		c.input.Width = width - 20
	}
}

func (c *chatModel) setFocus(f chatFocus) {
	c.focus = f
	c.input.Blur()
	c.file.Blur()
	switch f {
	case chatFocusInput:
		c.input.Focus()
	case chatFocusFile:
		c.file.Focus()
	}
}

func (c *chatModel) reset(thread *state.ChatThread) {
	c.thread = thread
	c.input.SetValue("")
	c.file.SetValue("")
	c.msgIdx = len(thread.Messages) - 1
	c.setFocus(chatFocusInput)
}

// openMessenger opens the department chat: scoped roles land in their
// own department, privileged roles in the first one (and cycle with
// [ and ] from the list).
func (m *appModel) openMessenger() {
	depID := int64(0)
	if m.app.Caps.Scoped && m.app.Session != nil {
		depID = m.app.Session.DepartmentID
	} else if m.app.DeptChat.ScopeID != 0 {
		depID = m.app.DeptChat.ScopeID
	} else if len(m.app.Departments) > 0 {
		depID = m.app.Departments[0].ID
	}
	if depID == 0 {
		m.setError(errNoDepartments)
		return
	}
	if err := m.app.OpenDepartmentChat(context.Background(), depID); err != nil {
		m.setError(err)
		return
	}
	m.chat.reset(&m.app.DeptChat)
	m.setView(viewMessenger)
}

var errNoDepartments = errors.New("Отделы не загружены")

func (m *appModel) openTaskChat(taskID int64) {
	if err := m.app.OpenTaskChat(context.Background(), taskID); err != nil {
		m.setError(err)
		return
	}
	m.chat.reset(&m.app.TaskChat)
	m.setView(viewTaskChat)
}

// cycleMessengerDept switches the open department thread (privileged
// roles only).
func (m *appModel) cycleMessengerDept(delta int) {
	if m.app.Caps.Scoped {
		return
	}
	next := cycleDepartment(m.app.Departments, m.app.DeptChat.ScopeID, delta)
	if next == m.app.DeptChat.ScopeID {
		return
	}
	if err := m.app.OpenDepartmentChat(context.Background(), next); err != nil {
		m.setError(err)
		return
	}
	m.chat.reset(&m.app.DeptChat)
}

func (m appModel) updateChat(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	c := &m.chat
	if c.thread == nil {
		m.setView(viewDashboard)
		return m, nil
	}

	switch msg.String() {
	case "esc":
		if m.view == viewTaskChat {
			m.setView(viewTasks)
		} else {
			m.setView(viewDashboard)
		}
		return m, nil
	case "tab":
		c.setFocus((c.focus + 1) % 3)
		return m, nil
	case "shift+tab":
		c.setFocus((c.focus + 2) % 3)
		return m, nil
	case "enter":
		if c.focus != chatFocusList {
			m.sendChatMessage()
			return m, nil
		}
	}

	if c.focus == chatFocusList {
		switch msg.String() {
		case "j", "down":
			c.msgIdx = moveCursor(c.msgIdx, 1, len(c.thread.Messages))
		case "k", "up":
			c.msgIdx = moveCursor(c.msgIdx, -1, len(c.thread.Messages))
		case "[":
			if m.view == viewMessenger {
				m.cycleMessengerDept(-1)
			}
		case "]":
			if m.view == viewMessenger {
				m.cycleMessengerDept(1)
			}
		case "r":
			m.reloadChat()
		case "d":
			msgs := c.thread.Messages
			if len(msgs) == 0 {
				return m, nil
			}
			target := msgs[clampCursor(c.msgIdx, len(msgs))]
			if !m.app.CanDeleteMessage(target) {
				m.setError(state.ErrNoPermission)
				return m, nil
			}
			thread := c.thread
			m.askConfirm("Удалить сообщение?", m.view, func(m *appModel) error {
				return m.app.DeleteMessage(context.Background(), thread, target.ID)
			})
		}
		return m, nil
	}

	var cmd tea.Cmd
	if c.focus == chatFocusInput {
		c.input, cmd = c.input.Update(msg)
	} else {
		c.file, cmd = c.file.Update(msg)
	}
	return m, cmd
}

func (m *appModel) reloadChat() {
	c := &m.chat
	var err error
	if c.thread == &m.app.DeptChat {
		err = m.app.OpenDepartmentChat(context.Background(), c.thread.ScopeID)
	} else {
		err = m.app.OpenTaskChat(context.Background(), c.thread.ScopeID)
	}
	if err != nil {
		m.setError(err)
		return
	}
	c.msgIdx = len(c.thread.Messages) - 1
}

func (m *appModel) sendChatMessage() {
	c := &m.chat
	err := m.app.PostMessage(context.Background(), c.thread, c.input.Value(), c.file.Value())
	if err != nil {
		m.setError(err)
		return
	}
	c.input.SetValue("")
	c.file.SetValue("")
	c.msgIdx = len(c.thread.Messages) - 1
	m.message = ""
}

func (m appModel) viewChat() string {
	c := m.chat
	t := c.thread
	if t == nil {
		return ""
	}

	title := "Чат задачи: " + t.Label
	if m.view == viewMessenger {
		title = "Чат отдела: " + t.Label
	}
	lines := []string{styleHeading().Render(title), ""}

	if len(t.Messages) == 0 {
		lines = append(lines, styleMuted().Render("Сообщений нет"))
	}
	idx := clampCursor(c.msgIdx, len(t.Messages))
	for i, msg := range t.Messages {
		head := styleColumnHeader().Render(msg.AuthorName) + " " + styleMuted().Render(msg.CreatedAt)
		body := msg.Body
		if msg.FileName != "" {
			body += "  " + styleMuted().Render("📎 "+msg.FileName)
		}
		line := head + "\n  " + body
		if c.focus == chatFocusList && i == idx {
			line = styleSelectedRow().Render(head) + "\n  " + body
		}
		lines = append(lines, line)
	}

	lines = append(lines, "",
		renderField("Сообщение", c.input.View(), c.focus == chatFocusInput),
		renderField("Файл", c.file.View(), c.focus == chatFocusFile),
		"")
	help := "enter — отправить · tab — фокус · esc — назад"
	if c.focus == chatFocusList {
		help = "j/k — по сообщениям · d — удалить · r — обновить · esc — назад"
		if m.view == viewMessenger && !m.app.Caps.Scoped {
			help = "[ / ] — отдел · " + help
		}
	}
	lines = append(lines, styleMuted().Render(help))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
