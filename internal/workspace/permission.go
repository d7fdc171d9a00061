package workspace

import (
	"context"

	"github.com/tgienger/taskdesk/internal/logging"
	"github.com/tgienger/taskdesk/internal/models"
)

// Capability is the caller's resolved capability on a task. The zero
// value is the unknown capability and denies every mutation: a failed
// permission fetch degrades to view-only, never to edit.
type Capability struct {
	perm *models.TaskPermission
}

// Known reports whether the permission fetch succeeded
func (c Capability) Known() bool { return c.perm != nil }

// IsOwner reports whether the caller owns the task
func (c Capability) IsOwner() bool { return c.perm != nil && c.perm.IsOwner }

// CanEdit reports whether the caller may mutate the workspace
func (c Capability) CanEdit() bool {
	if c.perm == nil {
		return false
	}
	return c.perm.IsOwner || c.perm.Permission == models.PermissionEdit
}

// Permission returns the granted permission string, or empty when unknown
func (c Capability) Permission() string {
	if c.perm == nil {
		return ""
	}
	return c.perm.Permission
}

// OwnerEmail returns the task owner's email, or empty when unknown
func (c Capability) OwnerEmail() string {
	if c.perm == nil {
		return ""
	}
	return c.perm.OwnerEmail
}

// Resolver derives a Capability from the backend, once per workspace
// load. There is no push invalidation: a revoked grant is observed on
// the next load.
type Resolver struct {
	svc PermissionService
	log *logging.Logger
}

// NewResolver creates a permission resolver
func NewResolver(svc PermissionService, log *logging.Logger) *Resolver {
	return &Resolver{svc: svc, log: log}
}

// Resolve fetches the caller's permission for a task. On any failure
// it returns the unknown Capability so dependents fail closed.
func (r *Resolver) Resolve(ctx context.Context, taskID int64) Capability {
	perm, err := r.svc.MyPermission(ctx, taskID)
	if err != nil {
		r.log.Warn("permission fetch failed, treating as view-only", "task_id", taskID, "error", err)
		return Capability{}
	}
	return Capability{perm: perm}
}
