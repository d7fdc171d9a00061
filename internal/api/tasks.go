package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/tgienger/taskdesk/internal/models"
)

// TaskCreate is the payload for creating a task
type TaskCreate struct {
	Title    string     `json:"title"`
	Deadline *time.Time `json:"deadline,omitempty"`
	Effort   string     `json:"effort,omitempty"`
}

// TaskUpdate is the payload for updating a task; nil fields are left unchanged
type TaskUpdate struct {
	Title     *string    `json:"title,omitempty"`
	Deadline  *time.Time `json:"deadline,omitempty"`
	Effort    *string    `json:"effort,omitempty"`
	Completed *bool      `json:"completed,omitempty"`
}

// ListTasks returns the caller's own tasks
func (c *Client) ListTasks(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task
	if err := c.do(ctx, http.MethodGet, "/tasks/", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// GetTask returns a single task by ID
func (c *Client) GetTask(ctx context.Context, taskID int64) (*models.Task, error) {
	var task models.Task
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/tasks/%d", taskID), nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// CreateTask creates a new task
func (c *Client) CreateTask(ctx context.Context, create TaskCreate) (*models.Task, error) {
	var task models.Task
	if err := c.do(ctx, http.MethodPost, "/tasks/", create, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateTask updates a task
func (c *Client) UpdateTask(ctx context.Context, taskID int64, update TaskUpdate) (*models.Task, error) {
	var task models.Task
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/tasks/%d", taskID), update, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// DeleteTask deletes a task and all its workspace children
func (c *Client) DeleteTask(ctx context.Context, taskID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/tasks/%d", taskID), nil, nil)
}
