package workspace

import (
	"context"
	"sync"
	"time"

	"github.com/tgienger/taskdesk/internal/logging"
)

// SaveStatus is the autosave state machine's state
type SaveStatus int

const (
	StatusIdle SaveStatus = iota
	StatusSaving
	StatusSaved
	StatusError
)

// String returns the status label shown next to the editor
func (s SaveStatus) String() string {
	switch s {
	case StatusSaving:
		return "saving"
	case StatusSaved:
		return "saved"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

// AutosaveController debounces note edits into whole-content commits.
//
// State machine: idle → saving → saved | error. Each content change
// cancels any pending commit timer and arms a fresh one, so a later
// keystroke always supersedes an earlier pending commit and at most
// one commit is initiated per debounce window, carrying the final
// content. The generation counter makes cancellation exact: a timer
// whose generation is stale by the time it fires commits nothing.
type AutosaveController struct {
	svc    NotesService
	log    *logging.Logger
	taskID int64
	delay  time.Duration

	mu        sync.Mutex
	content   string
	canEdit   bool
	loaded    bool // initial load finished; edits before that never save
	closed    bool
	status    SaveStatus
	lastSaved time.Time
	timer     *time.Timer
	gen       uint64

	onSaved  func(content string)
	onChange func()
}

// NewAutosave creates a controller for one task's notes. The
// controller starts read-only and not loaded; call Load then
// SetCanEdit before accepting edits.
func NewAutosave(svc NotesService, taskID int64, delay time.Duration, log *logging.Logger) *AutosaveController {
	return &AutosaveController{
		svc:    svc,
		log:    log,
		taskID: taskID,
		delay:  delay,
		status: StatusIdle,
	}
}

// OnSaved registers a listener invoked after each successful commit
// with the committed content. Artifact stores use it as their
// content-changed signal.
func (a *AutosaveController) OnSaved(fn func(content string)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onSaved = fn
}

// OnChange registers a listener invoked whenever observable state
// changes, typically to trigger a UI refresh.
func (a *AutosaveController) OnChange(fn func()) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onChange = fn
}

// Load fetches the existing note content. Loading never arms the
// commit timer regardless of content length. A missing note is not an
// error. Load marks the controller loaded even on failure so the
// editor stays usable.
func (a *AutosaveController) Load(ctx context.Context) (string, error) {
	note, err := a.svc.GetNotes(ctx, a.taskID)

	a.mu.Lock()
	a.loaded = true
	if err == nil && note != nil {
		a.content = note.Content
	}
	content := a.content
	a.mu.Unlock()

	if err != nil {
		a.log.Warn("notes fetch failed", "task_id", a.taskID, "error", err)
		return "", err
	}
	return content, nil
}

// SetCanEdit sets the mutation gate. When false, SetContent rejects
// all edits and no timer is ever armed.
func (a *AutosaveController) SetCanEdit(canEdit bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.canEdit = canEdit
}

// SetContent records an edit and restarts the debounce window.
// Returns false when the edit is rejected: read-only, not yet loaded,
// or closed. A rejected edit arms no timer.
func (a *AutosaveController) SetContent(content string) bool {
	a.mu.Lock()
	if a.closed || !a.loaded || !a.canEdit {
		a.mu.Unlock()
		return false
	}

	a.content = content
	a.status = StatusIdle
	if a.timer != nil {
		a.timer.Stop()
	}
	a.gen++
	gen := a.gen
	a.timer = time.AfterFunc(a.delay, func() { a.commit(gen) })
	notify := a.onChange
	a.mu.Unlock()

	if notify != nil {
		notify()
	}
	return true
}

// commit is the timer body. It transitions to saving and issues the
// PUT unless a later edit (or Close) superseded this generation.
func (a *AutosaveController) commit(gen uint64) {
	a.mu.Lock()
	if a.closed || gen != a.gen {
		a.mu.Unlock()
		return
	}
	a.status = StatusSaving
	content := a.content
	notify := a.onChange
	a.mu.Unlock()

	if notify != nil {
		notify()
	}

	_, err := a.svc.UpdateNotes(context.Background(), a.taskID, content)

	a.mu.Lock()
	var saved func(string)
	if gen == a.gen && !a.closed {
		if err != nil {
			// No automatic retry: the next keystroke restarts the cycle
			a.status = StatusError
		} else {
			a.status = StatusSaved
			a.lastSaved = time.Now()
			saved = a.onSaved
		}
	}
	notify = a.onChange
	a.mu.Unlock()

	if err != nil {
		a.log.Warn("notes save failed", "task_id", a.taskID, "error", err)
	} else if saved != nil {
		saved(content)
	}
	if notify != nil {
		notify()
	}
}

// Content returns the current editor content
func (a *AutosaveController) Content() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.content
}

// Status returns the current save status
func (a *AutosaveController) Status() SaveStatus {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.status
}

// LastSaved returns when the last successful commit finished
func (a *AutosaveController) LastSaved() time.Time {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastSaved
}

// CanEdit reports whether edits are currently accepted
func (a *AutosaveController) CanEdit() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.canEdit && a.loaded && !a.closed
}

// Close cancels any pending commit. No save fires for a workspace the
// user has navigated away from.
func (a *AutosaveController) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closed = true
	a.gen++
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}
