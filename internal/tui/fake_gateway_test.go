package tui

import (
	"context"
	"fmt"
	"io"

	"taskflow-cli/internal/model"
)

// fakeGateway records every call and serves canned data, so TUI tests
// run without a backend.
type fakeGateway struct {
	calls []string

	session     *model.Session
	departments []model.Department
	users       []model.User
	projects    []model.Project
	tasks       []model.Task
	reports     []model.Report
	deptMsgs    []model.ChatMessage
	taskMsgs    []model.ChatMessage

	err error
}

func (f *fakeGateway) record(format string, args ...any) {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func (f *fakeGateway) Login(_ context.Context, in model.LoginInput) (*model.Session, error) {
	f.record("POST /api/v1/auth/login login=%s", in.Login)
	if f.err != nil {
		return nil, f.err
	}
	return f.session, nil
}

func (f *fakeGateway) Register(_ context.Context, in model.RegisterInput) error {
	f.record("POST /api/v1/auth/register login=%s", in.Login)
	return f.err
}

func (f *fakeGateway) Departments(context.Context) ([]model.Department, error) {
	f.record("GET /api/v1/departments")
	return f.departments, f.err
}

func (f *fakeGateway) Users(context.Context) ([]model.User, error) {
	f.record("GET /api/v1/users")
	return f.users, f.err
}

func (f *fakeGateway) UpdateUser(_ context.Context, id int64, _ model.UserInput) error {
	f.record("PUT /api/v1/users/%d", id)
	return f.err
}

func (f *fakeGateway) DeleteUser(_ context.Context, id int64) error {
	f.record("DELETE /api/v1/users/%d", id)
	return f.err
}

func (f *fakeGateway) Projects(_ context.Context, departmentID int64) ([]model.Project, error) {
	f.record("GET /api/v1/projects dep=%d", departmentID)
	return f.projects, f.err
}

func (f *fakeGateway) CreateProject(_ context.Context, in model.ProjectInput) error {
	f.record("POST /api/v1/projects name=%s", in.Name)
	return f.err
}

func (f *fakeGateway) UpdateProject(_ context.Context, id int64, _ model.ProjectInput) error {
	f.record("PUT /api/v1/projects/%d", id)
	return f.err
}

func (f *fakeGateway) DeleteProject(_ context.Context, id int64) error {
	f.record("DELETE /api/v1/projects/%d", id)
	return f.err
}

func (f *fakeGateway) ProjectTasks(_ context.Context, projectID int64) ([]model.Task, error) {
	f.record("GET /api/v1/projects/%d/tasks", projectID)
	return f.tasks, f.err
}

func (f *fakeGateway) Tasks(_ context.Context, departmentID int64) ([]model.Task, error) {
	f.record("GET /api/v1/tasks dep=%d", departmentID)
	return f.tasks, f.err
}

func (f *fakeGateway) CreateTask(_ context.Context, in model.TaskInput) error {
	f.record("POST /api/v1/tasks title=%s", in.Title)
	return f.err
}

func (f *fakeGateway) UpdateTask(_ context.Context, id int64, _ model.TaskInput) error {
	f.record("PUT /api/v1/tasks/%d", id)
	return f.err
}

func (f *fakeGateway) DeleteTask(_ context.Context, id int64) error {
	f.record("DELETE /api/v1/tasks/%d", id)
	return f.err
}

func (f *fakeGateway) Reports(context.Context) ([]model.Report, error) {
	f.record("GET /api/v1/reports")
	return f.reports, f.err
}

func (f *fakeGateway) CreateReport(_ context.Context, in model.ReportInput) error {
	f.record("POST /api/v1/reports target=%s/%d close=%v", in.TargetType, in.TargetID, in.CloseItem)
	return f.err
}

func (f *fakeGateway) DeleteReport(_ context.Context, id int64) error {
	f.record("DELETE /api/v1/reports/%d", id)
	return f.err
}

func (f *fakeGateway) DownloadReportFile(_ context.Context, id int64, _ io.Writer) error {
	f.record("GET /api/v1/reports/%d/file", id)
	return f.err
}

func (f *fakeGateway) Profile(context.Context) (*model.User, error) {
	f.record("GET /api/v1/profile")
	return f.session, f.err
}

func (f *fakeGateway) UpdateProfile(_ context.Context, _ model.ProfileInput) (*model.User, error) {
	f.record("PUT /api/v1/profile")
	return f.session, f.err
}

func (f *fakeGateway) UploadAvatar(_ context.Context, _ string) (*model.User, error) {
	f.record("POST /api/v1/profile/avatar")
	return f.session, f.err
}

func (f *fakeGateway) DepartmentMessages(_ context.Context, departmentID int64) ([]model.ChatMessage, error) {
	f.record("GET /api/v1/messages/department dep=%d", departmentID)
	return f.deptMsgs, f.err
}

func (f *fakeGateway) PostDepartmentMessage(_ context.Context, in model.MessageInput) error {
	f.record("POST /api/v1/messages/department dep=%d", in.ScopeID)
	return f.err
}

func (f *fakeGateway) DeleteDepartmentMessage(_ context.Context, departmentID, messageID int64) error {
	f.record("DELETE /api/v1/messages/department dep=%d msg=%d", departmentID, messageID)
	return f.err
}

func (f *fakeGateway) TaskMessages(_ context.Context, taskID int64) ([]model.ChatMessage, error) {
	f.record("GET /api/v1/messages/task task=%d", taskID)
	return f.taskMsgs, f.err
}

func (f *fakeGateway) PostTaskMessage(_ context.Context, in model.MessageInput) error {
	f.record("POST /api/v1/messages/task task=%d", in.ScopeID)
	return f.err
}

func (f *fakeGateway) DeleteTaskMessage(_ context.Context, taskID, messageID int64) error {
	f.record("DELETE /api/v1/messages/task task=%d msg=%d", taskID, messageID)
	return f.err
}
