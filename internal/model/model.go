package model

type User struct {
	ID             int64  `json:"id"`
	Login          string `json:"login"`
	FullName       string `json:"full_name"`
	Position       string `json:"position"`
	Role           Role   `json:"role"`
	DepartmentID   int64  `json:"department_id"`
	DepartmentName string `json:"department_name,omitempty"`
	AvatarURL      string `json:"avatar_url,omitempty"`
}

// Session is the authenticated actor as returned by the login endpoint.
// It is persisted client-side verbatim and replayed as the X-Actor-Login header.
type Session = User

type Department struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Project struct {
	ID             int64  `json:"id"`
	Key            string `json:"key"`
	Name           string `json:"name"`
	Status         string `json:"status"`
	DepartmentID   int64  `json:"department_id"`
	DepartmentName string `json:"department_name"`
	Curators       []User `json:"curators"`
	Assignees      []User `json:"assignees"`
}

type Task struct {
	ID             int64   `json:"id"`
	Key            string  `json:"key"`
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	Type           string  `json:"type"`
	Status         string  `json:"status"`
	Priority       string  `json:"priority"`
	ProjectID      int64   `json:"project_id"`
	ProjectKey     string  `json:"project_key,omitempty"`
	ProjectName    string  `json:"project_name"`
	DepartmentID   int64   `json:"department_id"`
	DepartmentName string  `json:"department_name"`
	Curators       []User  `json:"curators"`
	Assignees      []User  `json:"assignees"`
	DueDate        *string `json:"due_date,omitempty"` // YYYY-MM-DD
}

type TargetType string

const (
	TargetProject TargetType = "project"
	TargetTask    TargetType = "task"
)

type Report struct {
	ID           int64      `json:"id"`
	TargetType   TargetType `json:"target_type"`
	TargetID     int64      `json:"target_id"`
	TargetLabel  string     `json:"target_label"`
	ResultStatus string     `json:"result_status"`
	AuthorID     int64      `json:"author_id"`
	AuthorName   string     `json:"author_name"`
	Title        string     `json:"title"`
	Resolution   string     `json:"resolution"`
	FileName     string     `json:"file_name,omitempty"`
	FileSize     int64      `json:"file_size,omitempty"`
	CreatedAt    string     `json:"created_at"`
}

type ScopeType string

const (
	ScopeDepartment ScopeType = "department"
	ScopeTask       ScopeType = "task"
)

type ChatMessage struct {
	ID         int64     `json:"id"`
	ScopeType  ScopeType `json:"scope_type"`
	ScopeID    int64     `json:"scope_id"`
	AuthorID   int64     `json:"author_id"`
	AuthorName string    `json:"author_name"`
	Body       string    `json:"body"`
	FileURL    string    `json:"file_url,omitempty"`
	FileName   string    `json:"file_name,omitempty"`
	CreatedAt  string    `json:"created_at"`
}

type LoginInput struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type RegisterInput struct {
	Login          string `json:"login"`
	Password       string `json:"password"`
	RepeatPassword string `json:"repeat_password"`
	FullName       string `json:"full_name"`
	Position       string `json:"position"`
	DepartmentID   int64  `json:"department_id"`
}

type ProjectInput struct {
	Key          string  `json:"key"`
	Name         string  `json:"name"`
	DepartmentID int64   `json:"department_id"`
	CuratorIDs   []int64 `json:"curator_ids"`
	AssigneeIDs  []int64 `json:"assignee_ids"`
}

type TaskInput struct {
	Key         string  `json:"key"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Type        string  `json:"type"`
	Status      string  `json:"status"`
	Priority    string  `json:"priority"`
	ProjectID   int64   `json:"project_id"`
	CuratorIDs  []int64 `json:"curator_ids"`
	AssigneeIDs []int64 `json:"assignee_ids"`
	DueDate     *string `json:"due_date"`
}

type UserInput struct {
	Login        string `json:"login"`
	FullName     string `json:"full_name"`
	Position     string `json:"position"`
	Role         Role   `json:"role"`
	DepartmentID int64  `json:"department_id"`
}

type ProfileInput struct {
	FullName string `json:"full_name"`
	Position string `json:"position"`
	Password string `json:"password,omitempty"`
}

// ReportInput is sent as multipart/form-data, not JSON.
type ReportInput struct {
	TargetType   TargetType
	TargetID     int64
	ResultStatus string
	Title        string
	Resolution   string
	CloseItem    bool
	FilePath     string // local path, empty for no attachment
}

// MessageInput is sent as JSON when FilePath is empty, multipart otherwise.
type MessageInput struct {
	ScopeID  int64
	Body     string
	FilePath string
}
