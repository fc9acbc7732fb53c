// Package favorites holds the per-visitor favorites store and the registry
// that hands every consumer the same instance.
package favorites

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"academy/internal/domain/favorite"
)

// Repository is the durable mirror of a visitor's favorites.
type Repository interface {
	Load(ctx context.Context) (favorite.Set, error)
	Save(ctx context.Context, set favorite.Set) error
}

// PersistenceWriteError reports a failed Save. The store logs it and keeps
// its in-memory state.
type PersistenceWriteError struct {
	Err error
}

// Error implements error.
func (e *PersistenceWriteError) Error() string {
	return fmt.Sprintf("persist favorites: %v", e.Err)
}

// Unwrap returns the storage error.
func (e *PersistenceWriteError) Unwrap() error {
	return e.Err
}

// Store holds one visitor's favorite course IDs.
// In-memory state is authoritative; the repository is a best-effort mirror
// written after every membership change. Until a Load succeeds the store
// never writes, so an unreadable value is not overwritten.
type Store struct {
	mu      sync.Mutex
	repo    Repository
	set     favorite.Set
	loaded  bool
	pending []change
	logger  *slog.Logger
}

// change is a membership edit made before storage could be read.
type change struct {
	id  string
	add bool
}

// NewStore creates an uninitialized store. Call Initialize before use;
// Registry does this for you.
func NewStore(repo Repository, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{repo: repo, logger: logger}
}

// Initialize hydrates the store from the repository.
// Corrupt persisted state is logged, overwritten with an empty set and never
// returned. A failed read is logged and retried on the next call; edits made
// meanwhile are kept in memory and replayed over the stored set once a read
// succeeds.
// PRE: none
// POST: after a successful read, later calls are no-ops
func (s *Store) Initialize(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return
	}

	set, err := s.repo.Load(ctx)
	switch {
	case err == nil:
		s.loaded = true
		s.set = set
		if s.replayLocked() {
			s.persistLocked(ctx)
		}
	case errors.Is(err, favorite.ErrCorruptState):
		s.logger.Error("favorites_event", "event", "corrupt_state_discarded", "error", err)
		s.loaded = true
		s.set = favorite.Set{}
		s.replayLocked()
		s.persistLocked(ctx)
	default:
		s.logger.Error("favorites_event", "event", "load_failed", "error", err, "pending", len(s.pending))
	}
}

// replayLocked applies pending edits to the loaded set.
// PRE: s.mu is held
// POST: pending is empty; returns true if the set changed
func (s *Store) replayLocked() bool {
	changed := false
	for _, c := range s.pending {
		if c.add {
			changed = s.set.Add(c.id) || changed
		} else {
			changed = s.set.Remove(c.id) || changed
		}
	}
	s.pending = nil
	return changed
}

// Add inserts id if absent and persists the new set.
// PRE: Initialize has been called
// POST: Contains(id); returns true if membership changed
func (s *Store) Add(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyLocked(ctx, id, true)
}

// Remove deletes id if present and persists the new set.
// PRE: Initialize has been called
// POST: !Contains(id); returns true if membership changed
func (s *Store) Remove(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyLocked(ctx, id, false)
}

// Toggle flips membership of id in one critical section.
// PRE: Initialize has been called
// POST: returns the new membership
func (s *Store) Toggle(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	add := !s.set.Contains(id)
	s.applyLocked(ctx, id, add)
	return add
}

// applyLocked edits the set and mirrors it, or queues the edit while
// storage is unread.
// PRE: s.mu is held
func (s *Store) applyLocked(ctx context.Context, id string, add bool) bool {
	var changed bool
	if add {
		changed = s.set.Add(id)
	} else {
		changed = s.set.Remove(id)
	}
	if !changed {
		return false
	}
	event := "removed"
	if add {
		event = "added"
	}
	s.logger.Debug("favorites_event", "event", event, "course_id", id)
	if !s.loaded {
		s.pending = append(s.pending, change{id: id, add: add})
		return true
	}
	s.persistLocked(ctx)
	return true
}

// Contains reports whether id is a favorite.
// INVARIANT: Store state is not mutated
func (s *Store) Contains(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.set.Contains(id)
}

// List returns the favorite IDs in insertion order. Never nil.
// INVARIANT: Store state is not mutated
func (s *Store) List() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.set.IDs()
}

// Len returns the number of favorites.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.set.Len()
}

// persistLocked mirrors the set to the repository. Failures are logged only.
// PRE: s.mu is held
func (s *Store) persistLocked(ctx context.Context) {
	if err := s.repo.Save(ctx, s.set.Clone()); err != nil {
		werr := &PersistenceWriteError{Err: err}
		s.logger.Error("favorites_event", "event", "persist_failed", "error", werr, "count", s.set.Len())
	}
}
