package state

import (
	"context"
	"testing"

	"taskflow-cli/internal/model"
)

func TestTaskChatAccess(t *testing.T) {
	gw := &fakeGateway{
		tasks: []model.Task{{
			ID:        4,
			Title:     "Задача",
			Assignees: []model.User{{ID: 2}},
		}},
	}
	a := newTestApp(gw, model.RoleMember) // session id 2
	a.Tasks = gw.tasks

	if err := a.OpenTaskChat(context.Background(), 4); err != nil {
		t.Fatalf("assignee denied own task chat: %v", err)
	}

	// A member outside the participant set is refused before any call.
	outsider := NewApp(gw)
	outsider.SetSession(&model.Session{ID: 99, Login: "x", Role: model.RoleGuest, DepartmentID: 1})
	outsider.Tasks = gw.tasks
	gw.calls = nil
	if err := outsider.OpenTaskChat(context.Background(), 4); err != ErrNoPermission {
		t.Fatalf("outsider allowed: %v", err)
	}
	if len(gw.calls) != 0 {
		t.Fatalf("refused open still called the network: %v", gw.calls)
	}
}

func TestDepartmentChatScopedToOwnDepartment(t *testing.T) {
	gw := &fakeGateway{}
	a := newTestApp(gw, model.RoleMember) // department 1

	if err := a.OpenDepartmentChat(context.Background(), 2); err != ErrNoPermission {
		t.Fatalf("foreign department chat allowed: %v", err)
	}
	if err := a.OpenDepartmentChat(context.Background(), 1); err != nil {
		t.Fatalf("own department chat refused: %v", err)
	}
}

func TestPostMessageRequiresBodyOrFile(t *testing.T) {
	gw := &fakeGateway{}
	a := newTestApp(gw, model.RoleOwner)
	_ = a.OpenDepartmentChat(context.Background(), 1)
	gw.calls = nil

	if err := a.PostMessage(context.Background(), &a.DeptChat, "  ", ""); err == nil {
		t.Fatalf("empty message accepted")
	}
	if len(gw.calls) != 0 {
		t.Fatalf("empty message reached the network: %v", gw.calls)
	}

	if err := a.PostMessage(context.Background(), &a.DeptChat, "привет", ""); err != nil {
		t.Fatalf("post: %v", err)
	}
	want := []string{
		"POST /api/v1/messages/department dep=1",
		"GET /api/v1/messages/department dep=1",
	}
	for i := range want {
		if gw.calls[i] != want[i] {
			t.Fatalf("calls = %v, want %v", gw.calls, want)
		}
	}
}

func TestDeleteMessagePermissionAndScopedReload(t *testing.T) {
	gw := &fakeGateway{
		deptMsgs: []model.ChatMessage{
			{ID: 1, ScopeType: model.ScopeDepartment, ScopeID: 1, AuthorID: 2},
			{ID: 2, ScopeType: model.ScopeDepartment, ScopeID: 1, AuthorID: 50},
		},
	}
	a := newTestApp(gw, model.RoleMember) // session id 2, no privileged caps
	if err := a.OpenDepartmentChat(context.Background(), 1); err != nil {
		t.Fatalf("open: %v", err)
	}
	gw.calls = nil

	// Not the author, not privileged.
	if err := a.DeleteMessage(context.Background(), &a.DeptChat, 2); err != ErrNoPermission {
		t.Fatalf("foreign message delete allowed: %v", err)
	}
	if len(gw.calls) != 0 {
		t.Fatalf("refused delete reached the network: %v", gw.calls)
	}

	// Own message: delete then reload that thread only.
	if err := a.DeleteMessage(context.Background(), &a.DeptChat, 1); err != nil {
		t.Fatalf("delete own: %v", err)
	}
	want := []string{
		"DELETE /api/v1/messages/department dep=1 msg=1",
		"GET /api/v1/messages/department dep=1",
	}
	for i := range want {
		if gw.calls[i] != want[i] {
			t.Fatalf("calls = %v, want %v", gw.calls, want)
		}
	}
}
