package localstorage

import (
	"context"
	"errors"
)

// ErrQuotaExceeded is returned when a value is larger than MaxValueBytes.
var ErrQuotaExceeded = errors.New("local storage quota exceeded")

// MaxValueBytes bounds a single stored value, like a browser's per-origin quota.
const MaxValueBytes = 64 * 1024

// Store is durable key-value storage scoped per visitor.
// Missing items are reported with ok == false, never as an error.
type Store interface {
	GetItem(ctx context.Context, scope, key string) (value string, ok bool, err error)
	SetItem(ctx context.Context, scope, key, value string) error
	RemoveItem(ctx context.Context, scope, key string) error
	Clear(ctx context.Context, scope string) error
}
