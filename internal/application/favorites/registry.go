package favorites

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultIdleTimeout is how long a visitor's store stays cached without use.
const DefaultIdleTimeout = 30 * time.Minute

// RepositoryFactory returns the repository for a visitor.
type RepositoryFactory func(visitorID string) Repository

type cachedStore struct {
	store    *Store
	lastUsed time.Time
}

// Registry owns one Store per active visitor. Stores idle for longer than
// the idle timeout are evicted; the next Get re-reads durable storage.
type Registry struct {
	mu        sync.Mutex
	factory   RepositoryFactory
	logger    *slog.Logger
	stores    map[string]*cachedStore
	idle      time.Duration
	lastSweep time.Time
	now       func() time.Time
}

// NewRegistry creates a registry with DefaultIdleTimeout. logger may be nil.
// PRE: factory is non-nil
func NewRegistry(factory RepositoryFactory, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		factory: factory,
		logger:  logger,
		stores:  make(map[string]*cachedStore),
		idle:    DefaultIdleTimeout,
		now:     time.Now,
	}
}

// Get returns the visitor's shared, initialized store.
// PRE: visitorID is non-empty
// POST: repeated calls with the same visitorID within the idle timeout
// return the same *Store
func (r *Registry) Get(ctx context.Context, visitorID string) *Store {
	r.mu.Lock()
	now := r.now()
	r.sweepLocked(now)
	c, ok := r.stores[visitorID]
	if !ok {
		c = &cachedStore{store: NewStore(r.factory(visitorID), r.logger.With("visitor_id", visitorID))}
		r.stores[visitorID] = c
	}
	c.lastUsed = now
	s := c.store
	r.mu.Unlock()

	s.Initialize(ctx)
	return s
}

// sweepLocked evicts idle stores, at most once per idle period.
// PRE: r.mu is held
func (r *Registry) sweepLocked(now time.Time) {
	if now.Sub(r.lastSweep) < r.idle {
		return
	}
	r.lastSweep = now
	evicted := 0
	for id, c := range r.stores {
		if now.Sub(c.lastUsed) > r.idle {
			delete(r.stores, id)
			evicted++
		}
	}
	if evicted > 0 {
		r.logger.Debug("favorites_event", "event", "stores_evicted", "count", evicted, "remaining", len(r.stores))
	}
}

// Forget drops the cached store so the next Get re-reads durable storage.
// PRE: none
// POST: visitorID has no cached store
func (r *Registry) Forget(visitorID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.stores, visitorID)
}

// Len returns the number of cached stores.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stores)
}
