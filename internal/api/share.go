package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/tgienger/taskdesk/internal/models"
)

type shareCreate struct {
	Email      string `json:"email"`
	Permission string `json:"permission"`
}

// ShareTask grants another account access to a task. Sharing again
// with the same email updates the existing grant.
func (c *Client) ShareTask(ctx context.Context, taskID int64, email, permission string) (*models.TaskShare, error) {
	var share models.TaskShare
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/tasks/%d/share", taskID), shareCreate{Email: email, Permission: permission}, &share); err != nil {
		return nil, err
	}
	return &share, nil
}

// ListShares returns the task's share grants
func (c *Client) ListShares(ctx context.Context, taskID int64) ([]models.TaskShare, error) {
	var shares []models.TaskShare
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/tasks/%d/shares", taskID), nil, &shares); err != nil {
		return nil, err
	}
	return shares, nil
}

// RevokeShare removes a share grant
func (c *Client) RevokeShare(ctx context.Context, taskID, shareID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/tasks/%d/share/%d", taskID, shareID), nil, nil)
}

// MyPermission returns the caller's effective permission on a task
func (c *Client) MyPermission(ctx context.Context, taskID int64) (*models.TaskPermission, error) {
	var perm models.TaskPermission
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/tasks/%d/my-permission", taskID), nil, &perm); err != nil {
		return nil, err
	}
	return &perm, nil
}

// SharedWithMe returns tasks other accounts have shared with the caller
func (c *Client) SharedWithMe(ctx context.Context) ([]models.SharedTask, error) {
	var tasks []models.SharedTask
	if err := c.do(ctx, http.MethodGet, "/shared-with-me", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}
