package workspace

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/tgienger/taskdesk/internal/logging"
	"github.com/tgienger/taskdesk/internal/models"
)

// SolverWorkflow manages the upload-driven assignment solving flow:
// an ordered list of per-file solutions (most recent first, preserved
// by prepending) plus the ephemeral per-question expand/collapse set.
//
// Expansion state is keyed by "(solutionID)-(questionIndex)" and lives
// outside the solution data; toggling never mutates solutions, and
// deleting a solution leaves its keys behind harmlessly.
type SolverWorkflow struct {
	svc    AssignmentService
	log    *logging.Logger
	taskID int64

	// gate reports whether uploads are permitted (capability allows
	// edits and the content signal is non-empty)
	gate   func() bool
	notify func()

	mu        sync.Mutex
	solutions []models.AssignmentSolution
	expanded  map[string]struct{}
	uploading bool
	errMsg    string
}

// NewSolver creates the assignment solver workflow for a task
func NewSolver(svc AssignmentService, taskID int64, log *logging.Logger, gate func() bool, notify func()) *SolverWorkflow {
	return &SolverWorkflow{
		svc:      svc,
		log:      log.WithTask(taskID),
		taskID:   taskID,
		gate:     gate,
		notify:   notify,
		expanded: make(map[string]struct{}),
	}
}

func questionKey(solutionID int64, questionIdx int) string {
	return fmt.Sprintf("%d-%d", solutionID, questionIdx)
}

// Load populates the solutions list. A failure is logged and leaves
// the list empty.
func (w *SolverWorkflow) Load(ctx context.Context) {
	solutions, err := w.svc.ListSolutions(ctx, w.taskID)
	if err != nil {
		w.log.Warn("solutions fetch failed", "error", err)
		return
	}

	w.mu.Lock()
	w.solutions = solutions
	w.mu.Unlock()
	w.emit()
}

// UploadAndSolve submits an assignment file. It returns false when
// the upload is not permitted: gate denied or another upload is still
// in flight. A result carrying an error field surfaces the message
// and adds no record; a transport failure surfaces a generic message.
// On success the new solution is prepended and all of its questions
// are auto-expanded.
func (w *SolverWorkflow) UploadAndSolve(ctx context.Context, filename string, r io.Reader) bool {
	if w.gate != nil && !w.gate() {
		return false
	}

	w.mu.Lock()
	if w.uploading {
		w.mu.Unlock()
		return false
	}
	w.uploading = true
	w.errMsg = ""
	w.mu.Unlock()
	w.emit()

	solution, err := w.svc.SolveAssignment(ctx, w.taskID, filename, r)

	w.mu.Lock()
	w.uploading = false
	switch {
	case err != nil:
		w.errMsg = "Failed to analyze assignment. Please try again."
	case solution.Error != "":
		w.errMsg = solution.Error
	default:
		w.solutions = append([]models.AssignmentSolution{*solution}, w.solutions...)
		for idx := range solution.Questions {
			w.expanded[questionKey(solution.ID, idx)] = struct{}{}
		}
	}
	w.mu.Unlock()

	if err != nil {
		w.log.Warn("assignment solve failed", "filename", filename, "error", err)
	}
	w.emit()
	return true
}

// DeleteSolution removes one solution from the backend and the local
// list. Its stale expansion keys are never referenced again.
func (w *SolverWorkflow) DeleteSolution(ctx context.Context, solutionID int64) error {
	if err := w.svc.DeleteSolution(ctx, w.taskID, solutionID); err != nil {
		w.log.Warn("solution delete failed", "solution_id", solutionID, "error", err)
		return err
	}

	w.mu.Lock()
	kept := w.solutions[:0]
	for _, s := range w.solutions {
		if s.ID != solutionID {
			kept = append(kept, s)
		}
	}
	w.solutions = kept
	w.mu.Unlock()
	w.emit()
	return nil
}

// ToggleQuestion flips one question's expansion state
func (w *SolverWorkflow) ToggleQuestion(solutionID int64, questionIdx int) {
	key := questionKey(solutionID, questionIdx)

	w.mu.Lock()
	if _, ok := w.expanded[key]; ok {
		delete(w.expanded, key)
	} else {
		w.expanded[key] = struct{}{}
	}
	w.mu.Unlock()
	w.emit()
}

// IsExpanded reports one question's expansion state
func (w *SolverWorkflow) IsExpanded(solutionID int64, questionIdx int) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.expanded[questionKey(solutionID, questionIdx)]
	return ok
}

// Solutions returns a snapshot of the solutions list, newest first
func (w *SolverWorkflow) Solutions() []models.AssignmentSolution {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]models.AssignmentSolution, len(w.solutions))
	copy(out, w.solutions)
	return out
}

// Uploading reports whether an upload is in flight; further uploads
// are rejected until it resolves.
func (w *SolverWorkflow) Uploading() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.uploading
}

// Err returns the error message shown near the upload control, if any
func (w *SolverWorkflow) Err() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.errMsg
}

func (w *SolverWorkflow) emit() {
	if w.notify != nil {
		w.notify()
	}
}
