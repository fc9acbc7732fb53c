package localstorage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"academy/internal/adapters/storage"
)

const timeLayout = "2006-01-02T15:04:05Z07:00"

// SQLiteStore implements Store using the local_storage table.
type SQLiteStore struct {
	db  storage.SQLDB
	now func() time.Time
}

// NewSQLiteStore creates a new SQLiteStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db, now: time.Now}
}

// GetItem reads one value.
// PRE: scope and key are non-empty
// POST: Returns (value, true, nil) if present, ("", false, nil) if absent
// INVARIANT: Store state is not mutated
func (s *SQLiteStore) GetItem(ctx context.Context, scope, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM local_storage WHERE scope = ? AND key = ?`, scope, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get local_storage %s/%s: %w", scope, key, err)
	}
	return value, true, nil
}

// SetItem upserts one value.
// PRE: scope and key are non-empty
// POST: value is persisted, or ErrQuotaExceeded if it is too large
func (s *SQLiteStore) SetItem(ctx context.Context, scope, key, value string) error {
	if len(value) > MaxValueBytes {
		return fmt.Errorf("set local_storage %s/%s: %w", scope, key, ErrQuotaExceeded)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO local_storage (scope, key, value, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(scope, key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at`,
		scope, key, value, s.now().UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("set local_storage %s/%s: %w", scope, key, err)
	}
	return nil
}

// RemoveItem deletes one value; removing an absent key is not an error.
// PRE: scope and key are non-empty
// POST: no row exists for (scope, key)
func (s *SQLiteStore) RemoveItem(ctx context.Context, scope, key string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM local_storage WHERE scope = ? AND key = ?`, scope, key); err != nil {
		return fmt.Errorf("remove local_storage %s/%s: %w", scope, key, err)
	}
	return nil
}

// Clear deletes every value in scope.
// PRE: scope is non-empty
// POST: no rows exist for scope; other scopes untouched
func (s *SQLiteStore) Clear(ctx context.Context, scope string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM local_storage WHERE scope = ?`, scope); err != nil {
		return fmt.Errorf("clear local_storage %s: %w", scope, err)
	}
	return nil
}
