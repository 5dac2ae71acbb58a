package state

import (
	"context"
	"io"

	"taskflow-cli/internal/model"
)

// Gateway is the slice of the REST client the state model depends on.
// *api.Client satisfies it; tests substitute a recording fake.
type Gateway interface {
	Login(ctx context.Context, in model.LoginInput) (*model.Session, error)
	Register(ctx context.Context, in model.RegisterInput) error

	Departments(ctx context.Context) ([]model.Department, error)

	Users(ctx context.Context) ([]model.User, error)
	UpdateUser(ctx context.Context, id int64, in model.UserInput) error
	DeleteUser(ctx context.Context, id int64) error

	Projects(ctx context.Context, departmentID int64) ([]model.Project, error)
	CreateProject(ctx context.Context, in model.ProjectInput) error
	UpdateProject(ctx context.Context, id int64, in model.ProjectInput) error
	DeleteProject(ctx context.Context, id int64) error
	ProjectTasks(ctx context.Context, projectID int64) ([]model.Task, error)

	Tasks(ctx context.Context, departmentID int64) ([]model.Task, error)
	CreateTask(ctx context.Context, in model.TaskInput) error
	UpdateTask(ctx context.Context, id int64, in model.TaskInput) error
	DeleteTask(ctx context.Context, id int64) error

	Reports(ctx context.Context) ([]model.Report, error)
	CreateReport(ctx context.Context, in model.ReportInput) error
	DeleteReport(ctx context.Context, id int64) error
	DownloadReportFile(ctx context.Context, id int64, dest io.Writer) error

	Profile(ctx context.Context) (*model.User, error)
	UpdateProfile(ctx context.Context, in model.ProfileInput) (*model.User, error)
	UploadAvatar(ctx context.Context, filePath string) (*model.User, error)

	DepartmentMessages(ctx context.Context, departmentID int64) ([]model.ChatMessage, error)
	PostDepartmentMessage(ctx context.Context, in model.MessageInput) error
	DeleteDepartmentMessage(ctx context.Context, departmentID, messageID int64) error

	TaskMessages(ctx context.Context, taskID int64) ([]model.ChatMessage, error)
	PostTaskMessage(ctx context.Context, in model.MessageInput) error
	DeleteTaskMessage(ctx context.Context, taskID, messageID int64) error
}
