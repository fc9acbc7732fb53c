package favorite

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// StorageKey is the durable storage key holding a visitor's favorites.
const StorageKey = "htacademy-favorites"

// ErrCorruptState is returned when a persisted favorites value cannot be decoded.
var ErrCorruptState = errors.New("corrupt persisted favorites")

// CorruptStateError carries the raw value that failed to decode.
type CorruptStateError struct {
	Raw string
	Err error
}

// Error implements error.
func (e *CorruptStateError) Error() string {
	return fmt.Sprintf("%s: %v", ErrCorruptState, e.Err)
}

// Unwrap lets errors.Is match ErrCorruptState and the underlying cause.
func (e *CorruptStateError) Unwrap() []error {
	return []error{ErrCorruptState, e.Err}
}

// Set is an ordered, duplicate-free list of course IDs.
// The zero value is an empty set ready to use.
type Set struct {
	ids   []string
	index map[string]struct{}
}

// NewSet builds a Set from ids, keeping the first occurrence of each.
// PRE: none
// POST: Returns a set with unique ids in first-seen order
func NewSet(ids ...string) Set {
	var s Set
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add appends id if it is not already present.
// PRE: none
// POST: Returns true if the set changed
func (s *Set) Add(id string) bool {
	if s.Contains(id) {
		return false
	}
	if s.index == nil {
		s.index = make(map[string]struct{})
	}
	s.index[id] = struct{}{}
	s.ids = append(s.ids, id)
	return true
}

// Remove deletes id if present.
// PRE: none
// POST: Returns true if the set changed; remaining order is preserved
func (s *Set) Remove(id string) bool {
	if !s.Contains(id) {
		return false
	}
	delete(s.index, id)
	out := make([]string, 0, len(s.ids)-1)
	for _, v := range s.ids {
		if v != id {
			out = append(out, v)
		}
	}
	s.ids = out
	return true
}

// Contains reports membership.
// INVARIANT: Set is not mutated
func (s Set) Contains(id string) bool {
	_, ok := s.index[id]
	return ok
}

// Len returns the number of ids.
func (s Set) Len() int {
	return len(s.ids)
}

// IDs returns a copy of the ids in insertion order. Never nil.
func (s Set) IDs() []string {
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}

// Clone returns an independent copy.
func (s Set) Clone() Set {
	return NewSet(s.ids...)
}

// Encode serializes the set as a JSON array of strings.
// PRE: none
// POST: Returns "[]" for an empty set
func (s Set) Encode() string {
	data, err := json.Marshal(s.IDs())
	if err != nil {
		// []string always marshals
		panic(err)
	}
	return string(data)
}

// Decode parses a persisted favorites value.
// A blank value decodes to an empty set. Anything other than a JSON array
// of non-empty strings yields a *CorruptStateError.
// PRE: none
// POST: Returns the decoded set or a CorruptStateError
func Decode(raw string) (Set, error) {
	if strings.TrimSpace(raw) == "" {
		return Set{}, nil
	}
	var elems []*string
	if err := json.Unmarshal([]byte(raw), &elems); err != nil {
		return Set{}, &CorruptStateError{Raw: raw, Err: err}
	}
	if elems == nil {
		return Set{}, &CorruptStateError{Raw: raw, Err: errors.New("value is null")}
	}
	var s Set
	for i, id := range elems {
		if id == nil || *id == "" {
			return Set{}, &CorruptStateError{Raw: raw, Err: fmt.Errorf("element %d is not a course ID", i)}
		}
		s.Add(*id)
	}
	return s, nil
}
