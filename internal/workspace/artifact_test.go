package workspace

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/tgienger/taskdesk/internal/logging"
	"github.com/tgienger/taskdesk/internal/models"
)

func alwaysAllow() bool { return true }
func alwaysDeny() bool  { return false }

func TestSummaryStore_LoadSavedAbsenceIsEmpty(t *testing.T) {
	s := NewSummaryStore(&fakeBackend{}, 1, logging.Nop(), alwaysAllow, nil)

	s.LoadSaved(context.Background())
	if s.State() != StateEmpty {
		t.Fatalf("state = %v, want empty", s.State())
	}
	if s.Err() != "" {
		t.Fatalf("Err() = %q, want empty", s.Err())
	}
}

func TestSummaryStore_LoadSavedTransportFailureDegradesToEmpty(t *testing.T) {
	svc := &fakeBackend{
		getSummary: func(context.Context, int64) (*models.AISummary, error) {
			return nil, errors.New("connection refused")
		},
	}
	s := NewSummaryStore(svc, 1, logging.Nop(), alwaysAllow, nil)

	s.LoadSaved(context.Background())
	if s.State() != StateEmpty {
		t.Fatalf("state = %v, want empty", s.State())
	}
}

func TestSummaryStore_GenerateSuccess(t *testing.T) {
	svc := &fakeBackend{
		generateSummary: func(context.Context, int64) (*models.AISummary, error) {
			return &models.AISummary{Summary: "study this", KeyPoints: []string{"one"}}, nil
		},
	}
	s := NewSummaryStore(svc, 1, logging.Nop(), alwaysAllow, nil)

	if !s.Generate(context.Background()) {
		t.Fatal("generate denied")
	}
	if s.State() != StateReady {
		t.Fatalf("state = %v, want ready", s.State())
	}
	if got := s.Data().Summary; got != "study this" {
		t.Fatalf("Data().Summary = %q, want %q", got, "study this")
	}
}

func TestSummaryStore_GenerateTransportFailure(t *testing.T) {
	svc := &fakeBackend{
		generateSummary: func(context.Context, int64) (*models.AISummary, error) {
			return nil, errors.New("timeout")
		},
	}
	s := NewSummaryStore(svc, 1, logging.Nop(), alwaysAllow, nil)

	if !s.Generate(context.Background()) {
		t.Fatal("generate denied")
	}
	if s.State() != StateError {
		t.Fatalf("state = %v, want error", s.State())
	}
	if s.Err() != "Failed to generate. Please try again." {
		t.Fatalf("Err() = %q", s.Err())
	}
	if s.Data().Summary != "" {
		t.Fatalf("transport failure kept payload %q", s.Data().Summary)
	}
}

func TestSummaryStore_SemanticFailureKeepsPayload(t *testing.T) {
	svc := &fakeBackend{
		generateSummary: func(context.Context, int64) (*models.AISummary, error) {
			return &models.AISummary{Summary: "AI service unavailable", Error: true}, nil
		},
	}
	s := NewSummaryStore(svc, 1, logging.Nop(), alwaysAllow, nil)

	s.Generate(context.Background())
	if s.State() != StateError {
		t.Fatalf("state = %v, want error", s.State())
	}
	if s.Err() != "AI service unavailable" {
		t.Fatalf("Err() = %q, want the embedded message", s.Err())
	}
	if s.Data().Summary != "AI service unavailable" {
		t.Fatal("semantic failure payload dropped")
	}
}

func TestResourceStore_SemanticFailureDropsPayload(t *testing.T) {
	svc := &fakeBackend{
		genResources: func(context.Context, int64) (*models.ResourceBatch, error) {
			return &models.ResourceBatch{Error: "quota exceeded"}, nil
		},
	}
	s := NewResourceStore(svc, 1, logging.Nop(), alwaysAllow, nil)

	s.Generate(context.Background())
	if s.State() != StateError {
		t.Fatalf("state = %v, want error", s.State())
	}
	if s.Err() != "quota exceeded" {
		t.Fatalf("Err() = %q, want %q", s.Err(), "quota exceeded")
	}
	if len(s.Data()) != 0 {
		t.Fatalf("semantic failure kept %d resources", len(s.Data()))
	}
}

func TestResourceStore_GenerateReplacesBatch(t *testing.T) {
	svc := &fakeBackend{
		getResources: func(context.Context, int64) ([]models.TaskResource, error) {
			return []models.TaskResource{{ID: 1, Title: "old"}}, nil
		},
		genResources: func(context.Context, int64) (*models.ResourceBatch, error) {
			return &models.ResourceBatch{Resources: []models.TaskResource{
				{ID: 2, Title: "new a"},
				{ID: 3, Title: "new b"},
			}}, nil
		},
	}
	s := NewResourceStore(svc, 1, logging.Nop(), alwaysAllow, nil)

	s.LoadSaved(context.Background())
	if s.State() != StateReady || len(s.Data()) != 1 {
		t.Fatalf("after load: state %v, %d resources", s.State(), len(s.Data()))
	}

	s.Generate(context.Background())
	if s.State() != StateReady {
		t.Fatalf("state = %v, want ready", s.State())
	}
	got := s.Data()
	if len(got) != 2 || got[0].Title != "new a" {
		t.Fatalf("Data() = %v, want the replacement batch", got)
	}
}

func TestStore_GateDeniesGenerateWithoutSideEffects(t *testing.T) {
	called := false
	svc := &fakeBackend{
		generateSummary: func(context.Context, int64) (*models.AISummary, error) {
			called = true
			return &models.AISummary{Summary: "x"}, nil
		},
	}
	s := NewSummaryStore(svc, 1, logging.Nop(), alwaysDeny, nil)

	if s.Generate(context.Background()) {
		t.Fatal("gate-denied generate reported accepted")
	}
	if called {
		t.Fatal("gate-denied generate reached the backend")
	}
	if s.State() != StateEmpty {
		t.Fatalf("state = %v, want empty", s.State())
	}
}

func TestStore_InvalidateClearsBeforeRefetchResolves(t *testing.T) {
	release := make(chan struct{})
	svc := &fakeBackend{
		getSummary: func(context.Context, int64) (*models.AISummary, error) {
			<-release
			return &models.AISummary{Summary: "fresh"}, nil
		},
	}
	s := NewSummaryStore(svc, 1, logging.Nop(), alwaysAllow, nil)

	// Seed a ready artifact directly
	s.mu.Lock()
	s.state = StateReady
	s.data = models.AISummary{Summary: "stale"}
	s.mu.Unlock()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.Invalidate(context.Background())
	}()

	// The stale artifact must be gone while the refetch is in flight
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if s.State() == StateLoading {
			break
		}
		time.Sleep(time.Millisecond)
	}
	if s.State() != StateLoading {
		t.Fatalf("state = %v, want loading during refetch", s.State())
	}
	if s.Data().Summary != "" {
		t.Fatalf("stale artifact still visible: %q", s.Data().Summary)
	}

	close(release)
	wg.Wait()
	if s.State() != StateReady || s.Data().Summary != "fresh" {
		t.Fatalf("after refetch: state %v, summary %q", s.State(), s.Data().Summary)
	}
}

func TestStore_StaleCompletionDiscarded(t *testing.T) {
	release := make(chan struct{})
	svc := &fakeBackend{
		generateSummary: func(context.Context, int64) (*models.AISummary, error) {
			<-release
			return &models.AISummary{Summary: "slow result"}, nil
		},
		getSummary: func(context.Context, int64) (*models.AISummary, error) {
			return &models.AISummary{Summary: "saved"}, nil
		},
	}
	s := NewSummaryStore(svc, 1, logging.Nop(), alwaysAllow, nil)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.Generate(context.Background())
	}()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if s.State() == StateLoading {
			break
		}
		time.Sleep(time.Millisecond)
	}

	// A newer operation supersedes the in-flight generate
	s.LoadSaved(context.Background())
	if s.Data().Summary != "saved" {
		t.Fatalf("Data().Summary = %q, want %q", s.Data().Summary, "saved")
	}

	close(release)
	wg.Wait()

	// The slow generate completed against a stale sequence; discarded
	if s.Data().Summary != "saved" {
		t.Fatalf("stale completion applied: %q", s.Data().Summary)
	}
	if s.State() != StateReady {
		t.Fatalf("state = %v, want ready", s.State())
	}
}

func TestStore_DeleteClearsState(t *testing.T) {
	svc := &fakeBackend{
		getSummary: func(context.Context, int64) (*models.AISummary, error) {
			return &models.AISummary{Summary: "keep me"}, nil
		},
	}
	s := NewSummaryStore(svc, 1, logging.Nop(), alwaysAllow, nil)

	s.LoadSaved(context.Background())
	if s.State() != StateReady {
		t.Fatalf("state = %v, want ready", s.State())
	}

	if err := s.Delete(context.Background()); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if s.State() != StateEmpty {
		t.Fatalf("state after delete = %v, want empty", s.State())
	}
	if s.Data().Summary != "" {
		t.Fatalf("payload survived delete: %q", s.Data().Summary)
	}
}

func TestStore_DeleteFailureKeepsState(t *testing.T) {
	svc := &fakeBackend{
		getSummary: func(context.Context, int64) (*models.AISummary, error) {
			return &models.AISummary{Summary: "keep me"}, nil
		},
		deleteSummary: func(context.Context, int64) error {
			return errors.New("forbidden")
		},
	}
	s := NewSummaryStore(svc, 1, logging.Nop(), alwaysAllow, nil)

	s.LoadSaved(context.Background())
	if err := s.Delete(context.Background()); err == nil {
		t.Fatal("expected delete error")
	}
	if s.State() != StateReady || s.Data().Summary != "keep me" {
		t.Fatalf("failed delete mutated state: %v %q", s.State(), s.Data().Summary)
	}
}
