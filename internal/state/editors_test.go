package state

import (
	"context"
	"strings"
	"testing"

	"taskflow-cli/internal/model"
)

func sessionWith(role model.Role) *model.Session {
	return &model.Session{ID: 2, Login: "pm", FullName: "PM", Role: role, DepartmentID: 1}
}

func newTestApp(gw *fakeGateway, role model.Role) *App {
	a := NewApp(gw)
	a.SetSession(sessionWith(role))
	return a
}

func TestSaveTaskRejectsSixAssigneesBeforeNetwork(t *testing.T) {
	gw := &fakeGateway{
		users:    pickerUsers(1, 2, 3, 4, 5, 6),
		projects: []model.Project{{ID: 1, Name: "P", DepartmentID: 1}},
	}
	a := newTestApp(gw, model.RoleProjectManager)
	a.Users = gw.users
	a.Projects = gw.projects

	a.ResetTaskDraft()
	a.TaskDraft.Title = "Задача"
	a.SetTaskProject(1)
	a.TaskDraft.Curators.Select(0, 1)

	// Six distinct assignees: rows cap at 5, so emulate the raw form
	// by loading six ids directly.
	a.TaskDraft.Assignees.rows = []int64{1, 2, 3, 4, 5, 6}

	err := a.SaveTask(context.Background())
	if err == nil {
		t.Fatalf("expected cardinality rejection")
	}
	if err.Error() != "Выберите от 1 до 5 исполнителей" {
		t.Fatalf("error = %q", err.Error())
	}
	for _, c := range gw.calls {
		if strings.HasPrefix(c, "POST /api/v1/tasks") {
			t.Fatalf("task POST reached the network: %v", gw.calls)
		}
	}
}

func TestSaveTaskZeroAssigneesRejected(t *testing.T) {
	gw := &fakeGateway{users: pickerUsers(1), projects: []model.Project{{ID: 1, DepartmentID: 1}}}
	a := newTestApp(gw, model.RoleOwner)
	a.Users = gw.users
	a.Projects = gw.projects

	a.ResetTaskDraft()
	a.TaskDraft.Title = "x"
	a.SetTaskProject(1)
	a.TaskDraft.Curators.Select(0, 1)

	if err := a.SaveTask(context.Background()); err == nil {
		t.Fatalf("expected rejection with no assignees selected")
	}
	if len(gw.calls) != 0 {
		t.Fatalf("unexpected network calls: %v", gw.calls)
	}
}

func TestMemberDeleteShortCircuits(t *testing.T) {
	gw := &fakeGateway{}
	for _, role := range []model.Role{model.RoleMember, model.RoleGuest} {
		a := newTestApp(gw, role)
		if err := a.DeleteProject(context.Background(), 7); err != ErrNoPermission {
			t.Fatalf("%s: err = %v, want ErrNoPermission", role, err)
		}
		if err := a.DeleteTask(context.Background(), 7); err != ErrNoPermission {
			t.Fatalf("%s: err = %v, want ErrNoPermission", role, err)
		}
		if err := a.DeleteUser(context.Background(), 7); err != ErrNoPermission {
			t.Fatalf("%s: err = %v, want ErrNoPermission", role, err)
		}
	}
	if len(gw.calls) != 0 {
		t.Fatalf("delete reached the network for a scoped role: %v", gw.calls)
	}
}

func TestDeleteProjectFromEditorReloadsProjectsAndTasks(t *testing.T) {
	gw := &fakeGateway{
		projects: []model.Project{{ID: 7, Name: "Seven", DepartmentID: 1, Curators: pickerUsers(1), Assignees: pickerUsers(2)}},
	}
	a := newTestApp(gw, model.RoleAdmin)
	a.Projects = gw.projects

	if err := a.EditProject(7); err != nil {
		t.Fatalf("edit: %v", err)
	}
	gw.calls = nil

	gw.projects = nil // server no longer has it
	if err := a.DeleteProject(context.Background(), 7); err != nil {
		t.Fatalf("delete: %v", err)
	}

	want := []string{
		"DELETE /api/v1/projects/7",
		"GET /api/v1/projects dep=0",
		"GET /api/v1/tasks dep=0",
	}
	if len(gw.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", gw.calls, want)
	}
	for i := range want {
		if gw.calls[i] != want[i] {
			t.Fatalf("call %d = %q, want %q", i, gw.calls[i], want[i])
		}
	}
	if a.ProjectDraft.EditingID != nil {
		t.Fatalf("draft still targets the deleted project")
	}
}

func TestIdempotentReload(t *testing.T) {
	gw := &fakeGateway{projects: []model.Project{{ID: 1}, {ID: 2}}}
	a := newTestApp(gw, model.RoleOwner)

	ctx := context.Background()
	if err := a.LoadProjects(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	first := append([]model.Project(nil), a.Projects...)
	v1 := a.Version("projects")

	if err := a.LoadProjects(ctx); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(a.Projects) != len(first) {
		t.Fatalf("reload changed length: %d -> %d", len(first), len(a.Projects))
	}
	for i := range first {
		if a.Projects[i].ID != first[i].ID {
			t.Fatalf("reload changed row %d", i)
		}
	}
	if a.Version("projects") != v1+1 {
		t.Fatalf("version = %d, want %d", a.Version("projects"), v1+1)
	}
}

func TestScopedRoleLoadsOwnDepartment(t *testing.T) {
	gw := &fakeGateway{}
	a := newTestApp(gw, model.RoleMember)

	_ = a.LoadProjects(context.Background())
	_ = a.LoadTasks(context.Background())
	if gw.calls[0] != "GET /api/v1/projects dep=1" || gw.calls[1] != "GET /api/v1/tasks dep=1" {
		t.Fatalf("calls = %v, want department 1 scoping", gw.calls)
	}

	// An explicit filter must not widen a scoped role's view.
	if err := a.SetDepartmentFilter(context.Background(), 99); err != nil {
		t.Fatalf("filter: %v", err)
	}
	if a.DepartmentFilter != 0 {
		t.Fatalf("filter stored for scoped role")
	}
}

func TestPrivilegedDepartmentFilterReloads(t *testing.T) {
	gw := &fakeGateway{}
	a := newTestApp(gw, model.RoleOwner)

	if err := a.SetDepartmentFilter(context.Background(), 3); err != nil {
		t.Fatalf("filter: %v", err)
	}
	want := []string{"GET /api/v1/projects dep=3", "GET /api/v1/tasks dep=3"}
	for i := range want {
		if gw.calls[i] != want[i] {
			t.Fatalf("calls = %v, want %v", gw.calls, want)
		}
	}
}

func TestSaveProjectCreateVsUpdate(t *testing.T) {
	gw := &fakeGateway{users: pickerUsers(1, 2)}
	a := newTestApp(gw, model.RoleOwner)
	a.Users = gw.users
	a.Departments = []model.Department{{ID: 1, Name: "Отдел"}}

	a.ResetProjectDraft()
	a.ProjectDraft.Name = "Новый"
	a.SetProjectDepartment(1)
	a.ProjectDraft.Curators.Select(0, 1)
	a.ProjectDraft.Assignees.Select(0, 2)
	if err := a.SaveProject(context.Background()); err != nil {
		t.Fatalf("create: %v", err)
	}
	if gw.calls[0] != "POST /api/v1/projects name=Новый" {
		t.Fatalf("calls = %v", gw.calls)
	}

	// Update path keys off EditingID.
	gw.calls = nil
	a.Projects = []model.Project{{ID: 9, Name: "Старый", DepartmentID: 1, Curators: pickerUsers(1), Assignees: pickerUsers(2)}}
	if err := a.EditProject(9); err != nil {
		t.Fatalf("edit: %v", err)
	}
	if err := a.SaveProject(context.Background()); err != nil {
		t.Fatalf("update: %v", err)
	}
	if gw.calls[0] != "PUT /api/v1/projects/9" {
		t.Fatalf("calls = %v", gw.calls)
	}
}

func TestUserEditorRestrictionsForProjectManager(t *testing.T) {
	gw := &fakeGateway{}
	a := newTestApp(gw, model.RoleProjectManager)

	roles := a.AssignableRoles()
	if len(roles) != 2 || !roles[0].Is(model.RoleMember) || !roles[1].Is(model.RoleGuest) {
		t.Fatalf("assignable roles = %v", roles)
	}
	if !a.DepartmentPinned() {
		t.Fatalf("department selector not pinned for project manager")
	}

	a.Users = []model.User{{ID: 5, Login: "u", FullName: "U", Position: "p", Role: model.RoleMember, DepartmentID: 1}}
	if err := a.EditUser(5); err != nil {
		t.Fatalf("edit: %v", err)
	}
	a.UserDraft.Role = model.RoleAdmin
	if err := a.SaveUser(context.Background()); err != ErrNoPermission {
		t.Fatalf("privileged role assignment allowed: %v", err)
	}
	a.UserDraft.Role = model.RoleMember
	a.UserDraft.DepartmentID = 2
	if err := a.SaveUser(context.Background()); err != ErrNoPermission {
		t.Fatalf("foreign department allowed: %v", err)
	}
	if len(gw.calls) != 0 {
		t.Fatalf("restricted save reached the network: %v", gw.calls)
	}
}
