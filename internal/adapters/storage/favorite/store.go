package favorite

import (
	"context"
	"fmt"

	"academy/internal/adapters/storage/localstorage"
	domain "academy/internal/domain/favorite"
)

// Repository loads and saves one visitor's favorites under domain.StorageKey.
type Repository struct {
	kv    localstorage.Store
	scope string
}

// NewRepository binds a repository to a visitor scope.
// PRE: kv is non-nil, scope is non-empty
func NewRepository(kv localstorage.Store, scope string) *Repository {
	return &Repository{kv: kv, scope: scope}
}

// Scope returns the visitor scope this repository reads and writes.
func (r *Repository) Scope() string {
	return r.scope
}

// Load reads the persisted favorites.
// PRE: none
// POST: Returns an empty set if nothing is stored; a *domain.CorruptStateError
// if the stored value is not a JSON array of strings
// INVARIANT: storage is not mutated
func (r *Repository) Load(ctx context.Context) (domain.Set, error) {
	raw, ok, err := r.kv.GetItem(ctx, r.scope, domain.StorageKey)
	if err != nil {
		return domain.Set{}, fmt.Errorf("load favorites: %w", err)
	}
	if !ok {
		return domain.Set{}, nil
	}
	return domain.Decode(raw)
}

// Save persists the complete set as a JSON array.
// PRE: none
// POST: the stored value decodes to an equal ordered set
func (r *Repository) Save(ctx context.Context, set domain.Set) error {
	if err := r.kv.SetItem(ctx, r.scope, domain.StorageKey, set.Encode()); err != nil {
		return fmt.Errorf("save favorites: %w", err)
	}
	return nil
}
