// Package state is the client application state model: the
// reference-data cache and everything derived from it (pagination,
// pickers, drafts, calendar buckets, chat threads).
//
// All collections are replaced wholesale on load; there is no partial
// patching. A version counter per collection lets the view layer
// detect stale renders.
package state

import (
	"context"
	"errors"

	"taskflow-cli/internal/model"
)

// Russian user-facing messages. Validation failures and server errors
// share one display channel, so these read like server errors do.
var (
	ErrNoPermission = errors.New("Недостаточно прав")
)

type App struct {
	gw Gateway

	Session *model.Session
	Caps    model.Capabilities

	Departments []model.Department
	Users       []model.User
	Projects    []model.Project
	Tasks       []model.Task
	Reports     []model.Report

	// DepartmentFilter narrows project/task loads for privileged
	// roles; 0 means "all departments". Scoped roles ignore it — their
	// own department always wins.
	DepartmentFilter int64

	ProjectsPager Pager
	TasksPager    Pager
	UsersPager    Pager
	ReportsPager  Pager

	ProjectDraft ProjectDraft
	TaskDraft    TaskDraft
	UserDraft    UserDraft
	ReportDraft  ReportDraft

	DeptChat ChatThread
	TaskChat ChatThread

	// ProjectDetails backs the read-only per-project task list.
	ProjectDetails struct {
		Project model.Project
		Tasks   []model.Task
	}

	versions map[string]uint64
}

func NewApp(gw Gateway) *App {
	a := &App{gw: gw, versions: map[string]uint64{}}
	a.ResetProjectDraft()
	a.ResetTaskDraft()
	a.ResetUserDraft()
	return a
}

// SetSession installs the authenticated actor and computes its
// capability set once. Passing nil logs out.
func (a *App) SetSession(sess *model.Session) {
	a.Session = sess
	if sess == nil {
		a.Caps = model.Capabilities{}
		return
	}
	a.Caps = sess.Role.Capabilities()
}

func (a *App) LoggedIn() bool { return a.Session != nil }

// Version reports how many times the named collection has been
// replaced. Renderers compare it to the version they last drew.
func (a *App) Version(collection string) uint64 { return a.versions[collection] }

func (a *App) bump(collection string) { a.versions[collection]++ }

// scopeDepartment is the department_id attached to project/task loads.
func (a *App) scopeDepartment() int64 {
	if a.Caps.Scoped && a.Session != nil {
		return a.Session.DepartmentID
	}
	return a.DepartmentFilter
}

func (a *App) LoadDepartments(ctx context.Context) error {
	items, err := a.gw.Departments(ctx)
	if err != nil {
		return err
	}
	a.Departments = items
	a.bump("departments")
	return nil
}

func (a *App) LoadUsers(ctx context.Context) error {
	items, err := a.gw.Users(ctx)
	if err != nil {
		return err
	}
	a.Users = items
	a.bump("users")
	a.UsersPager.Clamp(len(items))
	return nil
}

func (a *App) LoadProjects(ctx context.Context) error {
	items, err := a.gw.Projects(ctx, a.scopeDepartment())
	if err != nil {
		return err
	}
	a.Projects = items
	a.bump("projects")
	a.ProjectsPager.Clamp(len(items))
	return nil
}

func (a *App) LoadTasks(ctx context.Context) error {
	items, err := a.gw.Tasks(ctx, a.scopeDepartment())
	if err != nil {
		return err
	}
	a.Tasks = items
	a.bump("tasks")
	a.TasksPager.Clamp(len(items))
	return nil
}

func (a *App) LoadReports(ctx context.Context) error {
	items, err := a.gw.Reports(ctx)
	if err != nil {
		return err
	}
	a.Reports = items
	a.bump("reports")
	a.ReportsPager.Clamp(len(items))
	return nil
}

// Bootstrap performs the initial load after login, in a fixed order.
func (a *App) Bootstrap(ctx context.Context) error {
	if err := a.LoadDepartments(ctx); err != nil {
		return err
	}
	if err := a.LoadUsers(ctx); err != nil {
		return err
	}
	if err := a.LoadProjects(ctx); err != nil {
		return err
	}
	if err := a.LoadTasks(ctx); err != nil {
		return err
	}
	return a.LoadReports(ctx)
}

// SetDepartmentFilter applies an explicit department narrowing and
// reloads the scoped collections. Scoped roles cannot widen their view
// this way, so for them it is a no-op.
func (a *App) SetDepartmentFilter(ctx context.Context, departmentID int64) error {
	if a.Caps.Scoped {
		return nil
	}
	a.DepartmentFilter = departmentID
	if err := a.LoadProjects(ctx); err != nil {
		return err
	}
	return a.LoadTasks(ctx)
}

// OpenProjectDetails loads the task list of one project.
func (a *App) OpenProjectDetails(ctx context.Context, projectID int64) error {
	p, ok := a.projectByID(projectID)
	if !ok {
		return errors.New("Проект не найден")
	}
	tasks, err := a.gw.ProjectTasks(ctx, projectID)
	if err != nil {
		return err
	}
	a.ProjectDetails.Project = p
	a.ProjectDetails.Tasks = tasks
	return nil
}

func (a *App) projectByID(id int64) (model.Project, bool) {
	for _, p := range a.Projects {
		if p.ID == id {
			return p, true
		}
	}
	return model.Project{}, false
}

func (a *App) taskByID(id int64) (model.Task, bool) {
	for _, t := range a.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return model.Task{}, false
}

func (a *App) userByID(id int64) (model.User, bool) {
	for _, u := range a.Users {
		if u.ID == id {
			return u, true
		}
	}
	return model.User{}, false
}

func (a *App) DepartmentName(id int64) string {
	for _, d := range a.Departments {
		if d.ID == id {
			return d.Name
		}
	}
	return ""
}

// DepartmentUsers lists users eligible for picker rows: the given
// department's members, or everyone when departmentID is 0.
func (a *App) DepartmentUsers(departmentID int64) []model.User {
	if departmentID <= 0 {
		return a.Users
	}
	out := make([]model.User, 0, len(a.Users))
	for _, u := range a.Users {
		if u.DepartmentID == departmentID {
			out = append(out, u)
		}
	}
	return out
}
