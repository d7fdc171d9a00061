package workspace

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/asaskevich/govalidator"

	"github.com/tgienger/taskdesk/internal/api"
	"github.com/tgienger/taskdesk/internal/logging"
	"github.com/tgienger/taskdesk/internal/models"
)

// ShareManager manages a task's share grants. All three operations
// are owner-only at the UI boundary: non-owners never see the sharing
// affordance. True enforcement lives in the backend.
type ShareManager struct {
	svc    ShareService
	log    *logging.Logger
	taskID int64
	notify func()

	mu      sync.Mutex
	shares  []models.TaskShare
	busy    bool
	errMsg  string
	success string
}

// NewShareManager creates the share manager for a task
func NewShareManager(svc ShareService, taskID int64, log *logging.Logger, notify func()) *ShareManager {
	return &ShareManager{
		svc:    svc,
		log:    log.WithTask(taskID),
		taskID: taskID,
		notify: notify,
	}
}

// Load refreshes the grant list. Failures are logged, not fatal.
func (m *ShareManager) Load(ctx context.Context) {
	shares, err := m.svc.ListShares(ctx, m.taskID)
	if err != nil {
		m.log.Warn("shares fetch failed", "error", err)
		return
	}

	m.mu.Lock()
	m.shares = shares
	m.mu.Unlock()
	m.emit()
}

// Share creates or updates a grant for email. Validation problems
// (malformed email, duplicate grant) surface inline via Err.
func (m *ShareManager) Share(ctx context.Context, email, permission string) {
	m.mu.Lock()
	if m.busy {
		m.mu.Unlock()
		return
	}
	if !govalidator.IsEmail(email) {
		m.errMsg = "Enter a valid email address"
		m.success = ""
		m.mu.Unlock()
		m.emit()
		return
	}
	m.busy = true
	m.errMsg = ""
	m.success = ""
	m.mu.Unlock()
	m.emit()

	_, err := m.svc.ShareTask(ctx, m.taskID, email, permission)

	m.mu.Lock()
	m.busy = false
	if err != nil {
		m.errMsg = shareErrorMessage(err)
		m.mu.Unlock()
		m.emit()
		return
	}
	m.success = fmt.Sprintf("Task shared with %s", email)
	m.mu.Unlock()

	m.Load(ctx)
}

// Revoke removes a grant
func (m *ShareManager) Revoke(ctx context.Context, shareID int64, email string) {
	if err := m.svc.RevokeShare(ctx, m.taskID, shareID); err != nil {
		m.log.Warn("revoke failed", "share_id", shareID, "error", err)
		m.mu.Lock()
		m.errMsg = "Failed to revoke access"
		m.mu.Unlock()
		m.emit()
		return
	}

	m.mu.Lock()
	m.success = fmt.Sprintf("Access revoked for %s", email)
	m.errMsg = ""
	m.mu.Unlock()

	m.Load(ctx)
}

// shareErrorMessage prefers the backend's validation detail when present
func shareErrorMessage(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return "Failed to share task"
}

// Shares returns a snapshot of the grant list
func (m *ShareManager) Shares() []models.TaskShare {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.TaskShare, len(m.shares))
	copy(out, m.shares)
	return out
}

// Busy reports whether a share request is in flight
func (m *ShareManager) Busy() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.busy
}

// Err returns the inline error message, if any
func (m *ShareManager) Err() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.errMsg
}

// Success returns the inline success message, if any
func (m *ShareManager) Success() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.success
}

// ClearMessages resets the inline messages, e.g. when reopening the modal
func (m *ShareManager) ClearMessages() {
	m.mu.Lock()
	m.errMsg = ""
	m.success = ""
	m.mu.Unlock()
}

func (m *ShareManager) emit() {
	if m.notify != nil {
		m.notify()
	}
}
