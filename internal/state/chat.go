package state

import (
	"context"
	"errors"
	"strings"

	"taskflow-cli/internal/model"
)

// ChatThread is one scoped message list (a department's chat or a
// task's chat). Replaced wholesale on every load, like the other
// collections.
type ChatThread struct {
	Scope    model.ScopeType
	ScopeID  int64
	Label    string
	Messages []model.ChatMessage
	version  uint64
}

func (t *ChatThread) Version() uint64 { return t.version }

// OpenDepartmentChat loads the department thread. Scoped roles may
// only open their own department's thread.
func (a *App) OpenDepartmentChat(ctx context.Context, departmentID int64) error {
	if a.Session == nil {
		return ErrNoPermission
	}
	if a.Caps.Scoped && departmentID != a.Session.DepartmentID {
		return ErrNoPermission
	}
	msgs, err := a.gw.DepartmentMessages(ctx, departmentID)
	if err != nil {
		return err
	}
	a.DeptChat = ChatThread{
		Scope:    model.ScopeDepartment,
		ScopeID:  departmentID,
		Label:    a.DepartmentName(departmentID),
		Messages: msgs,
		version:  a.DeptChat.version + 1,
	}
	return nil
}

// CanOpenTaskChat: a task's thread is visible to its curators and
// assignees, and to roles that manage work items.
func (a *App) CanOpenTaskChat(t model.Task) bool {
	if a.Session == nil {
		return false
	}
	if a.Caps.CanManageWorkItems {
		return true
	}
	for _, u := range t.Curators {
		if u.ID == a.Session.ID {
			return true
		}
	}
	for _, u := range t.Assignees {
		if u.ID == a.Session.ID {
			return true
		}
	}
	return false
}

func (a *App) OpenTaskChat(ctx context.Context, taskID int64) error {
	t, ok := a.taskByID(taskID)
	if !ok {
		return errors.New("Задача не найдена")
	}
	if !a.CanOpenTaskChat(t) {
		return ErrNoPermission
	}
	msgs, err := a.gw.TaskMessages(ctx, taskID)
	if err != nil {
		return err
	}
	a.TaskChat = ChatThread{
		Scope:    model.ScopeTask,
		ScopeID:  taskID,
		Label:    t.Title,
		Messages: msgs,
		version:  a.TaskChat.version + 1,
	}
	return nil
}

// PostMessage sends to whichever thread is passed and reloads it. At
// least one of body/file must be present.
func (a *App) PostMessage(ctx context.Context, thread *ChatThread, body, filePath string) error {
	if strings.TrimSpace(body) == "" && strings.TrimSpace(filePath) == "" {
		return errors.New("Введите сообщение или приложите файл")
	}
	in := model.MessageInput{ScopeID: thread.ScopeID, Body: strings.TrimSpace(body), FilePath: filePath}
	var err error
	switch thread.Scope {
	case model.ScopeDepartment:
		err = a.gw.PostDepartmentMessage(ctx, in)
	case model.ScopeTask:
		err = a.gw.PostTaskMessage(ctx, in)
	default:
		err = errors.New("Чат не открыт")
	}
	if err != nil {
		return err
	}
	return a.reloadThread(ctx, thread)
}

// CanDeleteMessage: author identity match or privileged role.
func (a *App) CanDeleteMessage(m model.ChatMessage) bool {
	if a.Session == nil {
		return false
	}
	return m.AuthorID == a.Session.ID || a.Caps.CanDeleteReports
}

// DeleteMessage removes one message; the reload is scoped to the
// thread the message belonged to.
func (a *App) DeleteMessage(ctx context.Context, thread *ChatThread, messageID int64) error {
	var target *model.ChatMessage
	for i := range thread.Messages {
		if thread.Messages[i].ID == messageID {
			target = &thread.Messages[i]
			break
		}
	}
	if target == nil {
		return errors.New("Сообщение не найдено")
	}
	if !a.CanDeleteMessage(*target) {
		return ErrNoPermission
	}
	var err error
	switch thread.Scope {
	case model.ScopeDepartment:
		err = a.gw.DeleteDepartmentMessage(ctx, thread.ScopeID, messageID)
	case model.ScopeTask:
		err = a.gw.DeleteTaskMessage(ctx, thread.ScopeID, messageID)
	default:
		err = errors.New("Чат не открыт")
	}
	if err != nil {
		return err
	}
	return a.reloadThread(ctx, thread)
}

func (a *App) reloadThread(ctx context.Context, thread *ChatThread) error {
	var msgs []model.ChatMessage
	var err error
	switch thread.Scope {
	case model.ScopeDepartment:
		msgs, err = a.gw.DepartmentMessages(ctx, thread.ScopeID)
	case model.ScopeTask:
		msgs, err = a.gw.TaskMessages(ctx, thread.ScopeID)
	}
	if err != nil {
		return err
	}
	thread.Messages = msgs
	thread.version++
	return nil
}
