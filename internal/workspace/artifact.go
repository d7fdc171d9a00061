package workspace

import (
	"context"
	"sync"

	"github.com/tgienger/taskdesk/internal/logging"
)

// ArtifactState is the derived-artifact state machine's state
type ArtifactState int

const (
	StateEmpty ArtifactState = iota
	StateLoading
	StateReady
	StateError
)

// FetchFunc loads the saved artifact. ok is false when none exists,
// which is the empty state, not an error.
type FetchFunc[T any] func(ctx context.Context) (data T, ok bool, err error)

// GenerateFunc creates a new artifact. semantic carries a generation
// failure reported inside a successful response; err is a transport
// failure.
type GenerateFunc[T any] func(ctx context.Context) (data T, semantic string, err error)

// DeleteFunc removes the artifact server-side
type DeleteFunc func(ctx context.Context) error

// Store manages one AI-generated artifact whose relevance depends on
// the task's content signal. It is instantiated for the study guide
// (a singleton object) and for the resource list (replaced as a batch).
//
// Every state-initiating operation takes a fresh sequence number;
// a completion whose sequence is no longer current is discarded, so
// the displayed artifact always corresponds to the most recently
// initiated call.
type Store[T any] struct {
	name     string
	log      *logging.Logger
	fetch    FetchFunc[T]
	generate GenerateFunc[T]
	remove   DeleteFunc

	// gate reports whether generation is currently permitted
	// (capability allows edits and the content signal is non-empty)
	gate func() bool
	// semanticOf classifies a fetched artifact that embeds its own
	// failure flag; a non-empty result renders as an error
	semanticOf func(T) string
	// keepErrorPayload retains the artifact alongside a semantic
	// error so its message can be shown; transport failures always
	// clear the artifact
	keepErrorPayload bool

	notify func()

	mu     sync.Mutex
	state  ArtifactState
	data   T
	errMsg string
	seq    uint64
}

// StoreOption configures a Store
type StoreOption[T any] func(*Store[T])

// WithGate sets the generation gate
func WithGate[T any](gate func() bool) StoreOption[T] {
	return func(s *Store[T]) { s.gate = gate }
}

// WithSemantic sets the embedded-failure classifier and whether the
// failing payload is kept for display.
func WithSemantic[T any](classify func(T) string, keepPayload bool) StoreOption[T] {
	return func(s *Store[T]) {
		s.semanticOf = classify
		s.keepErrorPayload = keepPayload
	}
}

// WithNotify sets the re-render callback
func WithNotify[T any](fn func()) StoreOption[T] {
	return func(s *Store[T]) { s.notify = fn }
}

// NewStore creates a derived-artifact store
func NewStore[T any](name string, log *logging.Logger, fetch FetchFunc[T], generate GenerateFunc[T], remove DeleteFunc, opts ...StoreOption[T]) *Store[T] {
	s := &Store[T]{
		name:     name,
		log:      log,
		fetch:    fetch,
		generate: generate,
		remove:   remove,
		state:    StateEmpty,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// begin starts a new operation: it supersedes all outstanding
// completions and returns the sequence the new operation must present
// to apply its result.
func (s *Store[T]) begin(state ArtifactState, clear bool) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.state = state
	s.errMsg = ""
	if clear {
		var zero T
		s.data = zero
	}
	return s.seq
}

// current reports whether seq is still the latest operation
func (s *Store[T]) current(seq uint64) bool {
	return seq == s.seq
}

// LoadSaved fetches the previously generated artifact. Absence means
// the empty state; a transport failure also degrades to empty (logged,
// never fatal).
func (s *Store[T]) LoadSaved(ctx context.Context) {
	seq := s.begin(StateLoading, true)
	s.emit()

	data, ok, err := s.fetch(ctx)

	s.mu.Lock()
	if s.current(seq) {
		switch {
		case err != nil:
			var zero T
			s.data = zero
			s.state = StateEmpty
		case !ok:
			s.state = StateEmpty
		default:
			s.apply(data)
		}
	}
	s.mu.Unlock()

	if err != nil {
		s.log.Warn("artifact fetch failed", "artifact", s.name, "error", err)
	}
	s.emit()
}

// Invalidate clears the artifact immediately and re-issues the saved
// fetch. A stale artifact is never shown against new content, even
// before the refetch resolves.
func (s *Store[T]) Invalidate(ctx context.Context) {
	s.LoadSaved(ctx)
}

// Generate discards the current artifact and requests a fresh one.
// It returns false without side effects when the gate denies it.
func (s *Store[T]) Generate(ctx context.Context) bool {
	if s.gate != nil && !s.gate() {
		return false
	}

	seq := s.begin(StateLoading, true)
	s.emit()

	data, semantic, err := s.generate(ctx)

	s.mu.Lock()
	if s.current(seq) {
		switch {
		case err != nil:
			var zero T
			s.data = zero
			s.state = StateError
			s.errMsg = "Failed to generate. Please try again."
		case semantic != "":
			s.state = StateError
			s.errMsg = semantic
			if s.keepErrorPayload {
				s.data = data
			} else {
				var zero T
				s.data = zero
			}
		default:
			s.apply(data)
		}
	}
	s.mu.Unlock()

	if err != nil {
		s.log.Warn("artifact generation failed", "artifact", s.name, "error", err)
	}
	s.emit()
	return true
}

// Delete removes the artifact server-side and clears local state
func (s *Store[T]) Delete(ctx context.Context) error {
	if err := s.remove(ctx); err != nil {
		s.log.Warn("artifact delete failed", "artifact", s.name, "error", err)
		return err
	}

	s.begin(StateEmpty, true)
	s.emit()
	return nil
}

// apply installs fetched or generated data, classifying embedded
// failures. Caller holds the lock.
func (s *Store[T]) apply(data T) {
	if s.semanticOf != nil {
		if sem := s.semanticOf(data); sem != "" {
			s.errMsg = sem
			s.state = StateError
			if s.keepErrorPayload {
				s.data = data
			}
			return
		}
	}
	s.data = data
	s.state = StateReady
}

func (s *Store[T]) emit() {
	if s.notify != nil {
		s.notify()
	}
}

// State returns the current artifact state
func (s *Store[T]) State() ArtifactState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Data returns the current artifact value; meaningful in StateReady,
// and in StateError when the error payload is kept.
func (s *Store[T]) Data() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data
}

// Err returns the error message shown near the artifact, if any
func (s *Store[T]) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}
