package workspace

import (
	"context"
	"io"

	"github.com/tgienger/taskdesk/internal/models"
)

// fakeBackend implements Backend with overridable function fields.
// Unset fields return benign empty results.
type fakeBackend struct {
	getTask          func(ctx context.Context, taskID int64) (*models.Task, error)
	getNotes         func(ctx context.Context, taskID int64) (*models.TaskNote, error)
	updateNotes      func(ctx context.Context, taskID int64, content string) (*models.TaskNote, error)
	listAttachments  func(ctx context.Context, taskID int64) ([]models.TaskAttachment, error)
	uploadAttachment func(ctx context.Context, taskID int64, filename string, r io.Reader) (*models.TaskAttachment, error)
	deleteAttachment func(ctx context.Context, taskID, attachmentID int64) error
	myPermission     func(ctx context.Context, taskID int64) (*models.TaskPermission, error)
	getSummary       func(ctx context.Context, taskID int64) (*models.AISummary, error)
	generateSummary  func(ctx context.Context, taskID int64) (*models.AISummary, error)
	deleteSummary    func(ctx context.Context, taskID int64) error
	getResources     func(ctx context.Context, taskID int64) ([]models.TaskResource, error)
	genResources     func(ctx context.Context, taskID int64) (*models.ResourceBatch, error)
	deleteResources  func(ctx context.Context, taskID int64) error
	listSolutions    func(ctx context.Context, taskID int64) ([]models.AssignmentSolution, error)
	solveAssignment  func(ctx context.Context, taskID int64, filename string, r io.Reader) (*models.AssignmentSolution, error)
	deleteSolution   func(ctx context.Context, taskID, solutionID int64) error
	shareTask        func(ctx context.Context, taskID int64, email, permission string) (*models.TaskShare, error)
	listShares       func(ctx context.Context, taskID int64) ([]models.TaskShare, error)
	revokeShare      func(ctx context.Context, taskID, shareID int64) error
}

func (f *fakeBackend) GetTask(ctx context.Context, taskID int64) (*models.Task, error) {
	if f.getTask != nil {
		return f.getTask(ctx, taskID)
	}
	return &models.Task{ID: taskID, Title: "test task"}, nil
}

func (f *fakeBackend) GetNotes(ctx context.Context, taskID int64) (*models.TaskNote, error) {
	if f.getNotes != nil {
		return f.getNotes(ctx, taskID)
	}
	return nil, nil
}

func (f *fakeBackend) UpdateNotes(ctx context.Context, taskID int64, content string) (*models.TaskNote, error) {
	if f.updateNotes != nil {
		return f.updateNotes(ctx, taskID, content)
	}
	return &models.TaskNote{TaskID: taskID, Content: content}, nil
}

func (f *fakeBackend) ListAttachments(ctx context.Context, taskID int64) ([]models.TaskAttachment, error) {
	if f.listAttachments != nil {
		return f.listAttachments(ctx, taskID)
	}
	return nil, nil
}

func (f *fakeBackend) UploadAttachment(ctx context.Context, taskID int64, filename string, r io.Reader) (*models.TaskAttachment, error) {
	if f.uploadAttachment != nil {
		return f.uploadAttachment(ctx, taskID, filename, r)
	}
	return &models.TaskAttachment{TaskID: taskID, Filename: filename}, nil
}

func (f *fakeBackend) DeleteAttachment(ctx context.Context, taskID, attachmentID int64) error {
	if f.deleteAttachment != nil {
		return f.deleteAttachment(ctx, taskID, attachmentID)
	}
	return nil
}

func (f *fakeBackend) MyPermission(ctx context.Context, taskID int64) (*models.TaskPermission, error) {
	if f.myPermission != nil {
		return f.myPermission(ctx, taskID)
	}
	return &models.TaskPermission{Permission: models.PermissionOwner, IsOwner: true}, nil
}

func (f *fakeBackend) GetSummary(ctx context.Context, taskID int64) (*models.AISummary, error) {
	if f.getSummary != nil {
		return f.getSummary(ctx, taskID)
	}
	return nil, nil
}

func (f *fakeBackend) GenerateSummary(ctx context.Context, taskID int64) (*models.AISummary, error) {
	if f.generateSummary != nil {
		return f.generateSummary(ctx, taskID)
	}
	return &models.AISummary{Summary: "generated"}, nil
}

func (f *fakeBackend) DeleteSummary(ctx context.Context, taskID int64) error {
	if f.deleteSummary != nil {
		return f.deleteSummary(ctx, taskID)
	}
	return nil
}

func (f *fakeBackend) GetResources(ctx context.Context, taskID int64) ([]models.TaskResource, error) {
	if f.getResources != nil {
		return f.getResources(ctx, taskID)
	}
	return nil, nil
}

func (f *fakeBackend) GenerateResources(ctx context.Context, taskID int64) (*models.ResourceBatch, error) {
	if f.genResources != nil {
		return f.genResources(ctx, taskID)
	}
	return &models.ResourceBatch{}, nil
}

func (f *fakeBackend) DeleteResources(ctx context.Context, taskID int64) error {
	if f.deleteResources != nil {
		return f.deleteResources(ctx, taskID)
	}
	return nil
}

func (f *fakeBackend) ListSolutions(ctx context.Context, taskID int64) ([]models.AssignmentSolution, error) {
	if f.listSolutions != nil {
		return f.listSolutions(ctx, taskID)
	}
	return nil, nil
}

func (f *fakeBackend) SolveAssignment(ctx context.Context, taskID int64, filename string, r io.Reader) (*models.AssignmentSolution, error) {
	if f.solveAssignment != nil {
		return f.solveAssignment(ctx, taskID, filename, r)
	}
	return &models.AssignmentSolution{TaskID: taskID, AssignmentFilename: filename}, nil
}

func (f *fakeBackend) DeleteSolution(ctx context.Context, taskID, solutionID int64) error {
	if f.deleteSolution != nil {
		return f.deleteSolution(ctx, taskID, solutionID)
	}
	return nil
}

func (f *fakeBackend) ShareTask(ctx context.Context, taskID int64, email, permission string) (*models.TaskShare, error) {
	if f.shareTask != nil {
		return f.shareTask(ctx, taskID, email, permission)
	}
	return &models.TaskShare{TaskID: taskID, SharedWithEmail: email, Permission: permission}, nil
}

func (f *fakeBackend) ListShares(ctx context.Context, taskID int64) ([]models.TaskShare, error) {
	if f.listShares != nil {
		return f.listShares(ctx, taskID)
	}
	return nil, nil
}

func (f *fakeBackend) RevokeShare(ctx context.Context, taskID, shareID int64) error {
	if f.revokeShare != nil {
		return f.revokeShare(ctx, taskID, shareID)
	}
	return nil
}
