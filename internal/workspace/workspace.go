package workspace

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tgienger/taskdesk/internal/logging"
	"github.com/tgienger/taskdesk/internal/models"
)

// Workspace composes the per-task workspace state: task, notes
// autosave, attachments, the two derived-artifact stores, the
// assignment solver, and sharing. It owns the content signals and
// propagates signal changes into the artifact stores.
//
// The permission object and content signals are computed here once
// per load and read-only for children; children receive the
// capability through explicit gates rather than re-deriving it.
type Workspace struct {
	svc    Backend
	log    *logging.Logger
	taskID int64
	notify func()

	mu             sync.Mutex
	task           *models.Task
	attachments    []models.TaskAttachment
	capability     Capability
	hasNotes       bool
	hasAttachments bool
	ready          bool
	fatalErr       error

	Notes     *AutosaveController
	Summary   *Store[models.AISummary]
	Resources *Store[[]models.TaskResource]
	Solver    *SolverWorkflow
	Shares    *ShareManager
}

// New wires a workspace for one task. notify is invoked whenever any
// component's observable state changes; pass nil outside a UI.
func New(svc Backend, taskID int64, autosaveDelay time.Duration, log *logging.Logger, notify func()) *Workspace {
	w := &Workspace{
		svc:    svc,
		log:    log.WithTask(taskID),
		taskID: taskID,
		notify: notify,
	}

	w.Notes = NewAutosave(svc, taskID, autosaveDelay, w.log)
	w.Notes.OnChange(w.emit)
	w.Notes.OnSaved(w.noteSaved)

	// Generation requires edit capability and non-empty content
	gate := func() bool {
		w.mu.Lock()
		defer w.mu.Unlock()
		return w.capability.CanEdit() && (w.hasNotes || w.hasAttachments)
	}

	w.Summary = NewSummaryStore(svc, taskID, w.log, gate, w.emit)
	w.Resources = NewResourceStore(svc, taskID, w.log, gate, w.emit)
	w.Solver = NewSolver(svc, taskID, w.log, gate, w.emit)
	w.Shares = NewShareManager(svc, taskID, w.log, w.emit)

	return w
}

// Load performs the initial workspace load: task, notes, attachments
// and permission are fetched concurrently. Only the task fetch is
// fatal; the other three degrade to empty defaults with a warning.
// Once those four resolve, the saved artifacts and solutions load as
// well, and the capability is applied to every child.
func (w *Workspace) Load(ctx context.Context) error {
	var capability Capability

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		task, err := w.svc.GetTask(gctx, w.taskID)
		if err != nil {
			return fmt.Errorf("load task %d: %w", w.taskID, err)
		}
		w.mu.Lock()
		w.task = task
		w.mu.Unlock()
		return nil
	})
	g.Go(func() error {
		content, err := w.Notes.Load(gctx)
		if err == nil {
			w.mu.Lock()
			w.hasNotes = strings.TrimSpace(content) != ""
			w.mu.Unlock()
		}
		return nil
	})
	g.Go(func() error {
		attachments, err := w.svc.ListAttachments(gctx, w.taskID)
		if err != nil {
			w.log.Warn("attachments fetch failed", "error", err)
			return nil
		}
		w.mu.Lock()
		w.attachments = attachments
		w.hasAttachments = len(attachments) > 0
		w.mu.Unlock()
		return nil
	})
	g.Go(func() error {
		capability = NewResolver(w.svc, w.log).Resolve(gctx, w.taskID)
		return nil
	})

	if err := g.Wait(); err != nil {
		w.mu.Lock()
		w.fatalErr = err
		w.mu.Unlock()
		w.emit()
		return err
	}

	w.mu.Lock()
	w.capability = capability
	w.ready = true
	w.mu.Unlock()
	w.Notes.SetCanEdit(capability.CanEdit())
	w.emit()

	// Derived artifacts and solutions; all failures degrade
	var loads errgroup.Group
	loads.Go(func() error { w.Summary.LoadSaved(ctx); return nil })
	loads.Go(func() error { w.Resources.LoadSaved(ctx); return nil })
	loads.Go(func() error { w.Solver.Load(ctx); return nil })
	if capability.IsOwner() {
		loads.Go(func() error { w.Shares.Load(ctx); return nil })
	}
	_ = loads.Wait()

	return nil
}

// noteSaved is the autosave commit listener. A commit that flips the
// hasNotes signal invalidates both artifact stores.
func (w *Workspace) noteSaved(content string) {
	has := strings.TrimSpace(content) != ""

	w.mu.Lock()
	changed := has != w.hasNotes
	w.hasNotes = has
	w.mu.Unlock()

	if changed {
		w.invalidateArtifacts()
	}
}

// invalidateArtifacts drops both derived artifacts and refetches them.
// Each store clears synchronously before its refetch, so stale
// artifacts disappear immediately.
func (w *Workspace) invalidateArtifacts() {
	go w.Summary.Invalidate(context.Background())
	go w.Resources.Invalidate(context.Background())
}

// UploadAttachment uploads a file into the workspace. Rejected when
// the capability does not allow edits.
func (w *Workspace) UploadAttachment(ctx context.Context, filename string, r io.Reader) error {
	if !w.CanEdit() {
		return fmt.Errorf("upload attachment: read-only workspace")
	}
	if _, err := w.svc.UploadAttachment(ctx, w.taskID, filename, r); err != nil {
		return err
	}
	w.refreshAttachments(ctx)
	return nil
}

// DeleteAttachment removes an attachment. Rejected when the
// capability does not allow edits.
func (w *Workspace) DeleteAttachment(ctx context.Context, attachmentID int64) error {
	if !w.CanEdit() {
		return fmt.Errorf("delete attachment: read-only workspace")
	}
	if err := w.svc.DeleteAttachment(ctx, w.taskID, attachmentID); err != nil {
		return err
	}
	w.refreshAttachments(ctx)
	return nil
}

// refreshAttachments reloads the attachment list and, when the
// hasAttachments signal flips, invalidates the artifact stores.
func (w *Workspace) refreshAttachments(ctx context.Context) {
	attachments, err := w.svc.ListAttachments(ctx, w.taskID)
	if err != nil {
		w.log.Warn("attachments refresh failed", "error", err)
		return
	}

	has := len(attachments) > 0
	w.mu.Lock()
	changed := has != w.hasAttachments
	w.attachments = attachments
	w.hasAttachments = has
	w.mu.Unlock()
	w.emit()

	if changed {
		w.invalidateArtifacts()
	}
}

// Close cancels pending work; no autosave fires for a workspace the
// user has left.
func (w *Workspace) Close() {
	w.Notes.Close()
}

// Task returns the loaded task, or nil before Load resolves
func (w *Workspace) Task() *models.Task {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.task
}

// Attachments returns a snapshot of the attachment list
func (w *Workspace) Attachments() []models.TaskAttachment {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]models.TaskAttachment, len(w.attachments))
	copy(out, w.attachments)
	return out
}

// Capability returns the resolved capability for this load
func (w *Workspace) Capability() Capability {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.capability
}

// CanEdit reports whether the caller may mutate this workspace
func (w *Workspace) CanEdit() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.capability.CanEdit()
}

// HasNotes reports the notes content signal
func (w *Workspace) HasNotes() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.hasNotes
}

// HasAttachments reports the attachments content signal
func (w *Workspace) HasAttachments() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.hasAttachments
}

// HasContent reports the disjunction gating AI generation
func (w *Workspace) HasContent() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.hasNotes || w.hasAttachments
}

// Ready reports whether the initial load resolved
func (w *Workspace) Ready() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.ready
}

// Err returns the fatal load error, if any
func (w *Workspace) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.fatalErr
}

func (w *Workspace) emit() {
	if w.notify != nil {
		w.notify()
	}
}
