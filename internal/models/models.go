package models

import "time"

// Effort levels a task can be tagged with
const (
	EffortLow    = "low"
	EffortMedium = "medium"
	EffortHigh   = "high"
)

// Permission levels for shared tasks
const (
	PermissionOwner = "owner"
	PermissionEdit  = "edit"
	PermissionView  = "view"
)

// Task represents a single task
type Task struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	Deadline  *time.Time `json:"deadline"`
	Effort    string     `json:"effort"`
	Completed bool       `json:"completed"`
}

// TaskNote is the freeform notes document of a task's workspace.
// At most one note exists per task; it is created implicitly on first save.
type TaskNote struct {
	ID        int64     `json:"id"`
	TaskID    int64     `json:"task_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TaskAttachment is an uploaded file attached to a task. The binary
// payload lives on the server; only metadata is held client-side.
type TaskAttachment struct {
	ID          int64     `json:"id"`
	TaskID      int64     `json:"task_id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	FileSize    int64     `json:"file_size"`
	CreatedAt   time.Time `json:"created_at"`
}

// AISummary is the generated study guide for a task. A summary whose
// Error flag is set carries its failure message in the Summary field.
type AISummary struct {
	Summary     string   `json:"summary"`
	KeyPoints   []string `json:"key_points"`
	Concepts    []string `json:"concepts"`
	ActionItems []string `json:"action_items"`
	StudyTips   []string `json:"study_tips"`
	Error       bool     `json:"error"`
}

// TaskResource is a suggested external study resource
type TaskResource struct {
	ID          int64     `json:"id"`
	TaskID      int64     `json:"task_id"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Description string    `json:"description,omitempty"`
	Source      string    `json:"source,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ResourceBatch is the generate-resources response. Error is set when
// generation failed semantically; Resources is the full replacement set.
type ResourceBatch struct {
	Resources []TaskResource `json:"resources"`
	Error     string         `json:"error,omitempty"`
}

// QuestionSolution is one question's solution within an assignment
type QuestionSolution struct {
	QuestionNumber string   `json:"question_number"`
	QuestionText   string   `json:"question_text"`
	Approach       string   `json:"approach"`
	KeyConcepts    []string `json:"key_concepts"`
	SolutionSteps  []string `json:"solution_steps"`
	Tips           string   `json:"tips"`
}

// AssignmentSolution is the result of solving one uploaded assignment
// file. The solve endpoint may instead return a record whose Error
// field is set and whose other fields are empty.
type AssignmentSolution struct {
	ID                 int64              `json:"id"`
	TaskID             int64              `json:"task_id"`
	AssignmentFilename string             `json:"assignment_filename"`
	Questions          []QuestionSolution `json:"questions"`
	CreatedAt          time.Time          `json:"created_at"`
	Error              string             `json:"error,omitempty"`
}

// TaskShare is a grant from a task's owner to another account
type TaskShare struct {
	ID              int64     `json:"id"`
	TaskID          int64     `json:"task_id"`
	SharedWithEmail string    `json:"shared_with_email"`
	Permission      string    `json:"permission"`
	SharedAt        time.Time `json:"shared_at"`
}

// SharedTask is the read model for the shared-with-me listing
type SharedTask struct {
	ID         int64      `json:"id"`
	Title      string     `json:"title"`
	Deadline   *time.Time `json:"deadline"`
	Effort     string     `json:"effort"`
	Completed  bool       `json:"completed"`
	OwnerEmail string     `json:"owner_email"`
	Permission string     `json:"permission"`
	SharedAt   time.Time  `json:"shared_at"`
}

// TaskPermission is the caller's effective permission on a task
type TaskPermission struct {
	Permission string `json:"permission"`
	OwnerEmail string `json:"owner_email"`
	IsOwner    bool   `json:"is_owner"`
}
