package workspace

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/tgienger/taskdesk/internal/logging"
	"github.com/tgienger/taskdesk/internal/models"
)

func TestSolver_SuccessPrependsAndAutoExpands(t *testing.T) {
	svc := &fakeBackend{
		solveAssignment: func(_ context.Context, _ int64, filename string, _ io.Reader) (*models.AssignmentSolution, error) {
			return &models.AssignmentSolution{
				ID:                 7,
				AssignmentFilename: filename,
				Questions: []models.QuestionSolution{
					{QuestionNumber: "1"},
					{QuestionNumber: "2"},
				},
			}, nil
		},
	}
	w := NewSolver(svc, 1, logging.Nop(), alwaysAllow, nil)
	w.solutions = []models.AssignmentSolution{{ID: 3, AssignmentFilename: "older.pdf"}}

	if !w.UploadAndSolve(context.Background(), "hw2.pdf", strings.NewReader("pdf")) {
		t.Fatal("upload rejected")
	}

	solutions := w.Solutions()
	if len(solutions) != 2 {
		t.Fatalf("got %d solutions, want 2", len(solutions))
	}
	if solutions[0].ID != 7 {
		t.Fatalf("newest solution not first: got ID %d", solutions[0].ID)
	}
	if solutions[1].ID != 3 {
		t.Fatalf("older solution displaced: got ID %d", solutions[1].ID)
	}

	for idx := range solutions[0].Questions {
		if !w.IsExpanded(7, idx) {
			t.Errorf("question %d of new solution not expanded", idx)
		}
	}
	if w.IsExpanded(3, 0) {
		t.Error("unrelated solution's question expanded")
	}
	if w.Err() != "" {
		t.Errorf("Err() = %q, want empty", w.Err())
	}
}

func TestSolver_SemanticErrorAddsNoRecord(t *testing.T) {
	svc := &fakeBackend{
		solveAssignment: func(context.Context, int64, string, io.Reader) (*models.AssignmentSolution, error) {
			return &models.AssignmentSolution{Error: "could not read the document"}, nil
		},
	}
	w := NewSolver(svc, 1, logging.Nop(), alwaysAllow, nil)

	if !w.UploadAndSolve(context.Background(), "blurry.pdf", strings.NewReader("x")) {
		t.Fatal("upload rejected")
	}
	if len(w.Solutions()) != 0 {
		t.Fatalf("error result added %d records", len(w.Solutions()))
	}
	if w.Err() != "could not read the document" {
		t.Fatalf("Err() = %q", w.Err())
	}
}

func TestSolver_TransportFailureGenericMessage(t *testing.T) {
	svc := &fakeBackend{
		solveAssignment: func(context.Context, int64, string, io.Reader) (*models.AssignmentSolution, error) {
			return nil, errors.New("502")
		},
	}
	w := NewSolver(svc, 1, logging.Nop(), alwaysAllow, nil)

	w.UploadAndSolve(context.Background(), "hw.pdf", strings.NewReader("x"))
	if w.Err() != "Failed to analyze assignment. Please try again." {
		t.Fatalf("Err() = %q", w.Err())
	}
	if w.Uploading() {
		t.Fatal("still uploading after failure")
	}
}

func TestSolver_GateDeniesUpload(t *testing.T) {
	called := false
	svc := &fakeBackend{
		solveAssignment: func(context.Context, int64, string, io.Reader) (*models.AssignmentSolution, error) {
			called = true
			return &models.AssignmentSolution{ID: 1}, nil
		},
	}
	w := NewSolver(svc, 1, logging.Nop(), alwaysDeny, nil)

	if w.UploadAndSolve(context.Background(), "hw.pdf", strings.NewReader("x")) {
		t.Fatal("gate-denied upload accepted")
	}
	if called {
		t.Fatal("gate-denied upload reached the backend")
	}
}

func TestSolver_BusyRejectsConcurrentUpload(t *testing.T) {
	release := make(chan struct{})
	svc := &fakeBackend{
		solveAssignment: func(context.Context, int64, string, io.Reader) (*models.AssignmentSolution, error) {
			<-release
			return &models.AssignmentSolution{ID: 1}, nil
		},
	}
	w := NewSolver(svc, 1, logging.Nop(), alwaysAllow, nil)

	done := make(chan bool)
	go func() { done <- w.UploadAndSolve(context.Background(), "a.pdf", strings.NewReader("x")) }()

	for !w.Uploading() {
		time.Sleep(time.Millisecond)
	}
	if w.UploadAndSolve(context.Background(), "b.pdf", strings.NewReader("y")) {
		t.Fatal("second upload accepted while first in flight")
	}

	close(release)
	if !<-done {
		t.Fatal("first upload rejected")
	}
}

func TestSolver_DeleteRemovesOnlyTarget(t *testing.T) {
	w := NewSolver(&fakeBackend{}, 1, logging.Nop(), alwaysAllow, nil)
	w.solutions = []models.AssignmentSolution{{ID: 5}, {ID: 6}, {ID: 7}}

	if err := w.DeleteSolution(context.Background(), 6); err != nil {
		t.Fatalf("DeleteSolution: %v", err)
	}

	solutions := w.Solutions()
	if len(solutions) != 2 || solutions[0].ID != 5 || solutions[1].ID != 7 {
		t.Fatalf("Solutions() = %v, want [5 7]", solutions)
	}
}

func TestSolver_DeleteFailureKeepsList(t *testing.T) {
	svc := &fakeBackend{
		deleteSolution: func(context.Context, int64, int64) error { return errors.New("forbidden") },
	}
	w := NewSolver(svc, 1, logging.Nop(), alwaysAllow, nil)
	w.solutions = []models.AssignmentSolution{{ID: 5}}

	if err := w.DeleteSolution(context.Background(), 5); err == nil {
		t.Fatal("expected delete error")
	}
	if len(w.Solutions()) != 1 {
		t.Fatal("failed delete mutated the list")
	}
}

func TestSolver_ToggleQuestionIsIndependent(t *testing.T) {
	w := NewSolver(&fakeBackend{}, 1, logging.Nop(), alwaysAllow, nil)

	w.ToggleQuestion(5, 0)
	if !w.IsExpanded(5, 0) {
		t.Fatal("toggle did not expand")
	}
	if w.IsExpanded(5, 1) || w.IsExpanded(6, 0) {
		t.Fatal("toggle leaked to other keys")
	}

	w.ToggleQuestion(5, 0)
	if w.IsExpanded(5, 0) {
		t.Fatal("second toggle did not collapse")
	}
}
