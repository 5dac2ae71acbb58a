package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"taskflow-cli/internal/model"
)

type itemsOf[T any] struct {
	Items []T `json:"items"`
}

type itemOf[T any] struct {
	Item T `json:"item"`
}

// Login authenticates and returns the session user. No actor header:
// there is no actor yet.
func (c *Client) Login(ctx context.Context, in model.LoginInput) (*model.Session, error) {
	var resp struct {
		User model.Session `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", in, &resp, callOpts{noAuth: true}); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

func (c *Client) Register(ctx context.Context, in model.RegisterInput) error {
	return c.do(ctx, http.MethodPost, "/api/v1/auth/register", in, nil, callOpts{noAuth: true})
}

func (c *Client) Departments(ctx context.Context) ([]model.Department, error) {
	var resp itemsOf[model.Department]
	err := c.do(ctx, http.MethodGet, "/api/v1/departments", nil, &resp, callOpts{})
	return resp.Items, err
}

func (c *Client) Users(ctx context.Context) ([]model.User, error) {
	var resp itemsOf[model.User]
	err := c.do(ctx, http.MethodGet, "/api/v1/users", nil, &resp, callOpts{})
	return resp.Items, err
}

func (c *Client) UpdateUser(ctx context.Context, id int64, in model.UserInput) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/api/v1/users/%d", id), in, nil, callOpts{})
}

func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/v1/users/%d", id), nil, nil, callOpts{})
}

// Projects lists projects, optionally narrowed to one department.
// departmentID == 0 means "whatever the actor's role allows".
func (c *Client) Projects(ctx context.Context, departmentID int64) ([]model.Project, error) {
	var resp itemsOf[model.Project]
	err := c.do(ctx, http.MethodGet, "/api/v1/projects", nil, &resp, callOpts{query: departmentQuery(departmentID)})
	return resp.Items, err
}

func (c *Client) CreateProject(ctx context.Context, in model.ProjectInput) error {
	return c.do(ctx, http.MethodPost, "/api/v1/projects", in, nil, callOpts{})
}

func (c *Client) UpdateProject(ctx context.Context, id int64, in model.ProjectInput) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/api/v1/projects/%d", id), in, nil, callOpts{})
}

func (c *Client) DeleteProject(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/v1/projects/%d", id), nil, nil, callOpts{})
}

// ProjectTasks lists the tasks of one project (the project-details view).
func (c *Client) ProjectTasks(ctx context.Context, projectID int64) ([]model.Task, error) {
	var resp itemsOf[model.Task]
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/v1/projects/%d/tasks", projectID), nil, &resp, callOpts{})
	return resp.Items, err
}

func (c *Client) Tasks(ctx context.Context, departmentID int64) ([]model.Task, error) {
	var resp itemsOf[model.Task]
	err := c.do(ctx, http.MethodGet, "/api/v1/tasks", nil, &resp, callOpts{query: departmentQuery(departmentID)})
	return resp.Items, err
}

func (c *Client) CreateTask(ctx context.Context, in model.TaskInput) error {
	return c.do(ctx, http.MethodPost, "/api/v1/tasks", in, nil, callOpts{})
}

func (c *Client) UpdateTask(ctx context.Context, id int64, in model.TaskInput) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/api/v1/tasks/%d", id), in, nil, callOpts{})
}

func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/v1/tasks/%d", id), nil, nil, callOpts{})
}

func (c *Client) Reports(ctx context.Context) ([]model.Report, error) {
	var resp itemsOf[model.Report]
	err := c.do(ctx, http.MethodGet, "/api/v1/reports", nil, &resp, callOpts{})
	return resp.Items, err
}

func (c *Client) CreateReport(ctx context.Context, in model.ReportInput) error {
	fields := map[string]string{
		"target_type":   string(in.TargetType),
		"target_id":     strconv.FormatInt(in.TargetID, 10),
		"result_status": in.ResultStatus,
		"title":         in.Title,
		"resolution":    in.Resolution,
		"close_item":    strconv.FormatBool(in.CloseItem),
	}
	return c.upload(ctx, "/api/v1/reports", fields, "file", in.FilePath, nil, callOpts{})
}

func (c *Client) DeleteReport(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/v1/reports/%d", id), nil, nil, callOpts{})
}

func (c *Client) DownloadReportFile(ctx context.Context, id int64, dest io.Writer) error {
	return c.download(ctx, fmt.Sprintf("/api/v1/reports/%d/file", id), dest)
}

func (c *Client) Profile(ctx context.Context) (*model.User, error) {
	var resp itemOf[model.User]
	if err := c.do(ctx, http.MethodGet, "/api/v1/profile", nil, &resp, callOpts{}); err != nil {
		return nil, err
	}
	return &resp.Item, nil
}

func (c *Client) UpdateProfile(ctx context.Context, in model.ProfileInput) (*model.User, error) {
	var resp itemOf[model.User]
	if err := c.do(ctx, http.MethodPut, "/api/v1/profile", in, &resp, callOpts{}); err != nil {
		return nil, err
	}
	return &resp.Item, nil
}

func (c *Client) UploadAvatar(ctx context.Context, filePath string) (*model.User, error) {
	var resp itemOf[model.User]
	if err := c.upload(ctx, "/api/v1/profile/avatar", nil, "avatar", filePath, &resp, callOpts{}); err != nil {
		return nil, err
	}
	return &resp.Item, nil
}

func (c *Client) DepartmentMessages(ctx context.Context, departmentID int64) ([]model.ChatMessage, error) {
	var resp itemsOf[model.ChatMessage]
	q := url.Values{"department_id": {strconv.FormatInt(departmentID, 10)}}
	err := c.do(ctx, http.MethodGet, "/api/v1/messages/department", nil, &resp, callOpts{query: q})
	return resp.Items, err
}

func (c *Client) PostDepartmentMessage(ctx context.Context, in model.MessageInput) error {
	return c.postMessage(ctx, "/api/v1/messages/department", "department_id", in)
}

func (c *Client) DeleteDepartmentMessage(ctx context.Context, departmentID, messageID int64) error {
	q := url.Values{
		"department_id": {strconv.FormatInt(departmentID, 10)},
		"message_id":    {strconv.FormatInt(messageID, 10)},
	}
	return c.do(ctx, http.MethodDelete, "/api/v1/messages/department", nil, nil, callOpts{query: q})
}

func (c *Client) TaskMessages(ctx context.Context, taskID int64) ([]model.ChatMessage, error) {
	var resp itemsOf[model.ChatMessage]
	q := url.Values{"task_id": {strconv.FormatInt(taskID, 10)}}
	err := c.do(ctx, http.MethodGet, "/api/v1/messages/task", nil, &resp, callOpts{query: q})
	return resp.Items, err
}

func (c *Client) PostTaskMessage(ctx context.Context, in model.MessageInput) error {
	return c.postMessage(ctx, "/api/v1/messages/task", "task_id", in)
}

func (c *Client) DeleteTaskMessage(ctx context.Context, taskID, messageID int64) error {
	q := url.Values{
		"task_id":    {strconv.FormatInt(taskID, 10)},
		"message_id": {strconv.FormatInt(messageID, 10)},
	}
	return c.do(ctx, http.MethodDelete, "/api/v1/messages/task", nil, nil, callOpts{query: q})
}

// postMessage sends plain text as JSON and switches to multipart when
// an attachment is present.
func (c *Client) postMessage(ctx context.Context, path, scopeField string, in model.MessageInput) error {
	if in.FilePath == "" {
		body := map[string]any{scopeField: in.ScopeID, "body": in.Body}
		return c.do(ctx, http.MethodPost, path, body, nil, callOpts{})
	}
	fields := map[string]string{
		scopeField: strconv.FormatInt(in.ScopeID, 10),
		"body":     in.Body,
	}
	return c.upload(ctx, path, fields, "file", in.FilePath, nil, callOpts{})
}

func departmentQuery(departmentID int64) url.Values {
	if departmentID <= 0 {
		return nil
	}
	return url.Values{"department_id": {strconv.FormatInt(departmentID, 10)}}
}
