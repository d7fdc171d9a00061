// Package workspace implements the client-side state core for a
// task's workspace: debounced note autosave, content-derived AI
// artifact caches (study guide, resources), the assignment solver
// workflow, sharing, and the effective-permission gate that every
// mutating action consults.
//
// Components are safe for concurrent use: methods may be called from
// the UI event loop while timers and network completions finish on
// other goroutines. UI-facing state is exposed through snapshot
// accessors; an optional notify callback signals that a re-render is
// worthwhile.
package workspace

import (
	"context"
	"io"

	"github.com/tgienger/taskdesk/internal/models"
)

// TaskService fetches the task a workspace belongs to
type TaskService interface {
	GetTask(ctx context.Context, taskID int64) (*models.Task, error)
}

// NotesService reads and commits the workspace notes document
type NotesService interface {
	GetNotes(ctx context.Context, taskID int64) (*models.TaskNote, error)
	UpdateNotes(ctx context.Context, taskID int64, content string) (*models.TaskNote, error)
}

// AttachmentService manages the workspace's uploaded files
type AttachmentService interface {
	ListAttachments(ctx context.Context, taskID int64) ([]models.TaskAttachment, error)
	UploadAttachment(ctx context.Context, taskID int64, filename string, r io.Reader) (*models.TaskAttachment, error)
	DeleteAttachment(ctx context.Context, taskID, attachmentID int64) error
}

// PermissionService resolves the caller's effective permission
type PermissionService interface {
	MyPermission(ctx context.Context, taskID int64) (*models.TaskPermission, error)
}

// SummaryService manages the AI study guide artifact
type SummaryService interface {
	GetSummary(ctx context.Context, taskID int64) (*models.AISummary, error)
	GenerateSummary(ctx context.Context, taskID int64) (*models.AISummary, error)
	DeleteSummary(ctx context.Context, taskID int64) error
}

// ResourceService manages the suggested-resources artifact
type ResourceService interface {
	GetResources(ctx context.Context, taskID int64) ([]models.TaskResource, error)
	GenerateResources(ctx context.Context, taskID int64) (*models.ResourceBatch, error)
	DeleteResources(ctx context.Context, taskID int64) error
}

// AssignmentService manages assignment solutions
type AssignmentService interface {
	ListSolutions(ctx context.Context, taskID int64) ([]models.AssignmentSolution, error)
	SolveAssignment(ctx context.Context, taskID int64, filename string, r io.Reader) (*models.AssignmentSolution, error)
	DeleteSolution(ctx context.Context, taskID, solutionID int64) error
}

// ShareService manages share grants
type ShareService interface {
	ShareTask(ctx context.Context, taskID int64, email, permission string) (*models.TaskShare, error)
	ListShares(ctx context.Context, taskID int64) ([]models.TaskShare, error)
	RevokeShare(ctx context.Context, taskID, shareID int64) error
}

// Backend is the full REST surface a workspace consumes.
// *api.Client satisfies it.
type Backend interface {
	TaskService
	NotesService
	AttachmentService
	PermissionService
	SummaryService
	ResourceService
	AssignmentService
	ShareService
}
