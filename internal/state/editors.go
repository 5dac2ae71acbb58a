package state

import (
	"context"
	"errors"
	"strings"

	"taskflow-cli/internal/model"
)

// ProjectDraft backs the project create-or-update form. EditingID nil
// means "create".
type ProjectDraft struct {
	EditingID    *int64
	Key          string
	Name         string
	DepartmentID int64
	Curators     *Picker
	Assignees    *Picker
}

type TaskDraft struct {
	EditingID   *int64
	Key         string
	Title       string
	Description string
	Type        string
	Status      string
	Priority    string
	ProjectID   int64
	DueDate     string // YYYY-MM-DD, empty = none
	Curators    *Picker
	Assignees   *Picker
}

type UserDraft struct {
	EditingID    *int64
	Login        string
	FullName     string
	Position     string
	Role         model.Role
	DepartmentID int64
}

func (a *App) ResetProjectDraft() {
	a.ProjectDraft = ProjectDraft{
		Curators:  NewPicker(),
		Assignees: NewPicker(),
	}
	a.syncProjectPickers()
}

// SetProjectDepartment re-scopes the draft and its pickers; stale
// selections from the previous department are dropped by the pickers.
func (a *App) SetProjectDepartment(id int64) {
	a.ProjectDraft.DepartmentID = id
	a.syncProjectPickers()
}

func (a *App) syncProjectPickers() {
	eligible := a.DepartmentUsers(a.ProjectDraft.DepartmentID)
	a.ProjectDraft.Curators.SetEligible(eligible)
	a.ProjectDraft.Assignees.SetEligible(eligible)
}

// EditProject populates the draft from the cached project. The caller
// routes to the editor view on success.
func (a *App) EditProject(id int64) error {
	p, ok := a.projectByID(id)
	if !ok {
		return errors.New("Проект не найден")
	}
	d := ProjectDraft{
		EditingID:    &p.ID,
		Key:          p.Key,
		Name:         p.Name,
		DepartmentID: p.DepartmentID,
		Curators:     NewPicker(),
		Assignees:    NewPicker(),
	}
	d.Curators.Load(userIDs(p.Curators))
	d.Assignees.Load(userIDs(p.Assignees))
	a.ProjectDraft = d
	a.syncProjectPickers()
	return nil
}

// SaveProject validates, then creates or updates depending on
// EditingID, then reloads projects. Validation failures happen before
// any network call and share the server-error display channel.
func (a *App) SaveProject(ctx context.Context) error {
	if !a.Caps.CanManageWorkItems {
		return ErrNoPermission
	}
	d := &a.ProjectDraft
	if strings.TrimSpace(d.Name) == "" {
		return errors.New("Укажите название проекта")
	}
	if d.DepartmentID <= 0 {
		return errors.New("Выберите отдел")
	}
	curators := d.Curators.IDs()
	if len(curators) < PickerMinRows || len(curators) > PickerMaxRows {
		return errors.New("Выберите от 1 до 5 кураторов")
	}
	assignees := d.Assignees.IDs()
	if len(assignees) < PickerMinRows || len(assignees) > PickerMaxRows {
		return errors.New("Выберите от 1 до 5 исполнителей")
	}

	in := model.ProjectInput{
		Key:          strings.TrimSpace(d.Key),
		Name:         strings.TrimSpace(d.Name),
		DepartmentID: d.DepartmentID,
		CuratorIDs:   curators,
		AssigneeIDs:  assignees,
	}
	var err error
	if d.EditingID != nil {
		err = a.gw.UpdateProject(ctx, *d.EditingID, in)
	} else {
		err = a.gw.CreateProject(ctx, in)
	}
	if err != nil {
		return err
	}
	a.ResetProjectDraft()
	return a.LoadProjects(ctx)
}

// DeleteProject removes the project and reloads projects and tasks
// (task deletion cascades server-side). The permission check
// short-circuits before any network call.
func (a *App) DeleteProject(ctx context.Context, id int64) error {
	if !a.Caps.CanManageWorkItems {
		return ErrNoPermission
	}
	if err := a.gw.DeleteProject(ctx, id); err != nil {
		return err
	}
	if a.ProjectDraft.EditingID != nil && *a.ProjectDraft.EditingID == id {
		a.ResetProjectDraft()
	}
	if err := a.LoadProjects(ctx); err != nil {
		return err
	}
	return a.LoadTasks(ctx)
}

func (a *App) ResetTaskDraft() {
	a.TaskDraft = TaskDraft{
		Type:      "Задача",
		Status:    "Новая",
		Priority:  "Средний",
		Curators:  NewPicker(),
		Assignees: NewPicker(),
	}
	a.syncTaskPickers()
}

// SetTaskProject re-scopes the draft to the project's department.
func (a *App) SetTaskProject(projectID int64) {
	a.TaskDraft.ProjectID = projectID
	a.syncTaskPickers()
}

func (a *App) taskDraftDepartment() int64 {
	if p, ok := a.projectByID(a.TaskDraft.ProjectID); ok {
		return p.DepartmentID
	}
	return 0
}

func (a *App) syncTaskPickers() {
	eligible := a.DepartmentUsers(a.taskDraftDepartment())
	a.TaskDraft.Curators.SetEligible(eligible)
	a.TaskDraft.Assignees.SetEligible(eligible)
}

func (a *App) EditTask(id int64) error {
	t, ok := a.taskByID(id)
	if !ok {
		return errors.New("Задача не найдена")
	}
	d := TaskDraft{
		EditingID:   &t.ID,
		Key:         t.Key,
		Title:       t.Title,
		Description: t.Description,
		Type:        t.Type,
		Status:      t.Status,
		Priority:    t.Priority,
		ProjectID:   t.ProjectID,
		Curators:    NewPicker(),
		Assignees:   NewPicker(),
	}
	if t.DueDate != nil {
		d.DueDate = *t.DueDate
	}
	d.Curators.Load(userIDs(t.Curators))
	d.Assignees.Load(userIDs(t.Assignees))
	a.TaskDraft = d
	a.syncTaskPickers()
	return nil
}

func (a *App) SaveTask(ctx context.Context) error {
	if !a.Caps.CanManageWorkItems {
		return ErrNoPermission
	}
	d := &a.TaskDraft
	if strings.TrimSpace(d.Title) == "" {
		return errors.New("Укажите название задачи")
	}
	if d.ProjectID <= 0 {
		return errors.New("Выберите проект")
	}
	curators := d.Curators.IDs()
	if len(curators) < PickerMinRows || len(curators) > PickerMaxRows {
		return errors.New("Выберите от 1 до 5 кураторов")
	}
	assignees := d.Assignees.IDs()
	if len(assignees) < PickerMinRows || len(assignees) > PickerMaxRows {
		return errors.New("Выберите от 1 до 5 исполнителей")
	}

	in := model.TaskInput{
		Key:         strings.TrimSpace(d.Key),
		Title:       strings.TrimSpace(d.Title),
		Description: d.Description,
		Type:        d.Type,
		Status:      d.Status,
		Priority:    d.Priority,
		ProjectID:   d.ProjectID,
		CuratorIDs:  curators,
		AssigneeIDs: assignees,
	}
	if due := strings.TrimSpace(d.DueDate); due != "" {
		in.DueDate = &due
	}
	var err error
	if d.EditingID != nil {
		err = a.gw.UpdateTask(ctx, *d.EditingID, in)
	} else {
		err = a.gw.CreateTask(ctx, in)
	}
	if err != nil {
		return err
	}
	a.ResetTaskDraft()
	return a.LoadTasks(ctx)
}

func (a *App) DeleteTask(ctx context.Context, id int64) error {
	if !a.Caps.CanManageWorkItems {
		return ErrNoPermission
	}
	if err := a.gw.DeleteTask(ctx, id); err != nil {
		return err
	}
	if a.TaskDraft.EditingID != nil && *a.TaskDraft.EditingID == id {
		a.ResetTaskDraft()
	}
	return a.LoadTasks(ctx)
}

func (a *App) ResetUserDraft() {
	d := UserDraft{Role: model.RoleMember}
	// Project Managers only manage their own department; pin it.
	if a.Caps.Scoped && a.Session != nil {
		d.DepartmentID = a.Session.DepartmentID
	}
	a.UserDraft = d
}

func (a *App) EditUser(id int64) error {
	u, ok := a.userByID(id)
	if !ok {
		return errors.New("Пользователь не найден")
	}
	a.UserDraft = UserDraft{
		EditingID:    &u.ID,
		Login:        u.Login,
		FullName:     u.FullName,
		Position:     u.Position,
		Role:         u.Role,
		DepartmentID: u.DepartmentID,
	}
	return nil
}

// AssignableRoles are the role options the user editor may offer the
// current actor. The restriction is enforced here, not merely omitted
// from the payload.
func (a *App) AssignableRoles() []model.Role {
	if a.Session == nil {
		return nil
	}
	return model.AssignableRoles(a.Session.Role)
}

// DepartmentPinned reports whether the user editor's department
// selector is locked to the actor's own department.
func (a *App) DepartmentPinned() bool {
	return a.Session != nil && a.Session.Role.Is(model.RoleProjectManager)
}

func (a *App) SaveUser(ctx context.Context) error {
	if !a.Caps.CanManageUsers {
		return ErrNoPermission
	}
	d := &a.UserDraft
	if strings.TrimSpace(d.Login) == "" || strings.TrimSpace(d.FullName) == "" ||
		strings.TrimSpace(d.Position) == "" || d.DepartmentID <= 0 {
		return errors.New("Заполните все обязательные поля")
	}
	if !roleAllowed(a.AssignableRoles(), d.Role) {
		return ErrNoPermission
	}
	if a.DepartmentPinned() && a.Session != nil && d.DepartmentID != a.Session.DepartmentID {
		return ErrNoPermission
	}
	if d.EditingID == nil {
		return errors.New("Новые пользователи регистрируются самостоятельно")
	}
	in := model.UserInput{
		Login:        strings.TrimSpace(d.Login),
		FullName:     strings.TrimSpace(d.FullName),
		Position:     strings.TrimSpace(d.Position),
		Role:         d.Role,
		DepartmentID: d.DepartmentID,
	}
	if err := a.gw.UpdateUser(ctx, *d.EditingID, in); err != nil {
		return err
	}
	a.ResetUserDraft()
	return a.LoadUsers(ctx)
}

func (a *App) DeleteUser(ctx context.Context, id int64) error {
	if !a.Caps.CanManageUsers {
		return ErrNoPermission
	}
	if err := a.gw.DeleteUser(ctx, id); err != nil {
		return err
	}
	if a.UserDraft.EditingID != nil && *a.UserDraft.EditingID == id {
		a.ResetUserDraft()
	}
	return a.LoadUsers(ctx)
}

func roleAllowed(allowed []model.Role, r model.Role) bool {
	for _, x := range allowed {
		if r.Is(x) {
			return true
		}
	}
	return false
}
