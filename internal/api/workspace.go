package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/tgienger/taskdesk/internal/models"
)

// GetNotes returns the task's notes, or nil when none exist yet
func (c *Client) GetNotes(ctx context.Context, taskID int64) (*models.TaskNote, error) {
	var note *models.TaskNote
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/tasks/%d/workspace/notes", taskID), nil, &note); err != nil {
		return nil, err
	}
	return note, nil
}

type notesUpdate struct {
	Content string `json:"content"`
}

// UpdateNotes commits the full notes content, creating the note on first save
func (c *Client) UpdateNotes(ctx context.Context, taskID int64, content string) (*models.TaskNote, error) {
	var note models.TaskNote
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/tasks/%d/workspace/notes", taskID), notesUpdate{Content: content}, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

// ListAttachments returns the task's attachment metadata
func (c *Client) ListAttachments(ctx context.Context, taskID int64) ([]models.TaskAttachment, error) {
	var attachments []models.TaskAttachment
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/tasks/%d/workspace/attachments", taskID), nil, &attachments); err != nil {
		return nil, err
	}
	return attachments, nil
}

// UploadAttachment uploads a file as a multipart form
func (c *Client) UploadAttachment(ctx context.Context, taskID int64, filename string, r io.Reader) (*models.TaskAttachment, error) {
	var attachment models.TaskAttachment
	path := fmt.Sprintf("/tasks/%d/workspace/attachments", taskID)
	if err := c.postMultipart(ctx, path, filename, r, &attachment); err != nil {
		return nil, err
	}
	return &attachment, nil
}

// DownloadAttachment streams an attachment's binary payload. The
// caller must close the returned reader.
func (c *Client) DownloadAttachment(ctx context.Context, taskID, attachmentID int64) (io.ReadCloser, error) {
	path := fmt.Sprintf("/tasks/%d/workspace/attachments/%d/download", taskID, attachmentID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer func() { _ = resp.Body.Close() }()
		return nil, &Error{StatusCode: resp.StatusCode}
	}
	return resp.Body, nil
}

// DeleteAttachment removes an attachment
func (c *Client) DeleteAttachment(ctx context.Context, taskID, attachmentID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/tasks/%d/workspace/attachments/%d", taskID, attachmentID), nil, nil)
}

// GetSummary returns the saved study guide, or nil when none exists
func (c *Client) GetSummary(ctx context.Context, taskID int64) (*models.AISummary, error) {
	var summary *models.AISummary
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/tasks/%d/workspace/summary", taskID), nil, &summary); err != nil {
		return nil, err
	}
	return summary, nil
}

// GenerateSummary generates and saves a new study guide
func (c *Client) GenerateSummary(ctx context.Context, taskID int64) (*models.AISummary, error) {
	var summary models.AISummary
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/tasks/%d/workspace/summary/generate", taskID), nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// DeleteSummary removes the saved study guide
func (c *Client) DeleteSummary(ctx context.Context, taskID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/tasks/%d/workspace/summary", taskID), nil, nil)
}

// GetResources returns the saved resource suggestions
func (c *Client) GetResources(ctx context.Context, taskID int64) ([]models.TaskResource, error) {
	var resources []models.TaskResource
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/tasks/%d/workspace/resources", taskID), nil, &resources); err != nil {
		return nil, err
	}
	return resources, nil
}

// GenerateResources replaces the resource set with freshly generated
// suggestions. The batch may carry a semantic error instead of results.
func (c *Client) GenerateResources(ctx context.Context, taskID int64) (*models.ResourceBatch, error) {
	var batch models.ResourceBatch
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/tasks/%d/workspace/resources/generate", taskID), nil, &batch); err != nil {
		return nil, err
	}
	return &batch, nil
}

// DeleteResources removes all saved resource suggestions
func (c *Client) DeleteResources(ctx context.Context, taskID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/tasks/%d/workspace/resources", taskID), nil, nil)
}

// ListSolutions returns the task's assignment solutions
func (c *Client) ListSolutions(ctx context.Context, taskID int64) ([]models.AssignmentSolution, error) {
	var solutions []models.AssignmentSolution
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/tasks/%d/workspace/assignments", taskID), nil, &solutions); err != nil {
		return nil, err
	}
	return solutions, nil
}

// SolveAssignment uploads an assignment file and returns the generated
// solution. The result may carry an Error field instead of questions.
func (c *Client) SolveAssignment(ctx context.Context, taskID int64, filename string, r io.Reader) (*models.AssignmentSolution, error) {
	var solution models.AssignmentSolution
	path := fmt.Sprintf("/tasks/%d/workspace/assignments/solve", taskID)
	if err := c.postMultipart(ctx, path, filename, r, &solution); err != nil {
		return nil, err
	}
	return &solution, nil
}

// DeleteSolution removes one assignment solution
func (c *Client) DeleteSolution(ctx context.Context, taskID, solutionID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/tasks/%d/workspace/assignments/%d", taskID, solutionID), nil, nil)
}

// postMultipart uploads a single file under the "file" form field
func (c *Client) postMultipart(ctx context.Context, path, filename string, r io.Reader, out any) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return fmt.Errorf("copy file: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	return c.send(req, out)
}
