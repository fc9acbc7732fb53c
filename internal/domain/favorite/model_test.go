package favorite_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"academy/internal/domain/favorite"
)

// TestSet_AddContains verifies add-then-contains for a range of ids.
func TestSet_AddContains(t *testing.T) {
	for _, id := range []string{"course_001", "", "with space", "ünïcode"} {
		var s favorite.Set
		s.Add(id)
		if !s.Contains(id) {
			t.Errorf("Contains(%q) = false after Add", id)
		}
	}
}

// TestSet_RemoveContains verifies remove-then-contains is false, even for absent ids.
func TestSet_RemoveContains(t *testing.T) {
	s := favorite.NewSet("course_001", "course_002")
	for _, id := range []string{"course_001", "never_added"} {
		s.Remove(id)
		if s.Contains(id) {
			t.Errorf("Contains(%q) = true after Remove", id)
		}
	}
	if diff := cmp.Diff([]string{"course_002"}, s.IDs()); diff != "" {
		t.Errorf("IDs mismatch (-want +got):\n%s", diff)
	}
}

// TestSet_AddIdempotent verifies no duplicates result from repeated adds.
func TestSet_AddIdempotent(t *testing.T) {
	var s favorite.Set
	if !s.Add("course_001") {
		t.Error("first Add reported no change")
	}
	if s.Add("course_001") {
		t.Error("second Add reported a change")
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}
}

// TestSet_PreservesInsertionOrder verifies ordering across add/remove.
func TestSet_PreservesInsertionOrder(t *testing.T) {
	s := favorite.NewSet("c", "a", "b", "a")
	s.Remove("a")
	s.Add("a")
	if diff := cmp.Diff([]string{"c", "b", "a"}, s.IDs()); diff != "" {
		t.Errorf("IDs mismatch (-want +got):\n%s", diff)
	}
}

// TestSet_IDsIsCopy verifies callers cannot mutate the set through IDs.
func TestSet_IDsIsCopy(t *testing.T) {
	s := favorite.NewSet("a", "b")
	ids := s.IDs()
	ids[0] = "zzz"
	if !s.Contains("a") || s.IDs()[0] != "a" {
		t.Error("mutating IDs() result changed the set")
	}
	if got := (favorite.Set{}).IDs(); got == nil {
		t.Error("IDs() on empty set returned nil")
	}
}

// TestEncodeDecode_RoundTrip verifies an encoded set decodes to an equal ordered set.
func TestEncodeDecode_RoundTrip(t *testing.T) {
	tests := [][]string{
		{},
		{"course_001"},
		{"course_003", "course_001", "stale_id"},
	}
	for _, ids := range tests {
		s := favorite.NewSet(ids...)
		got, err := favorite.Decode(s.Encode())
		if err != nil {
			t.Fatalf("Decode(%q): %v", s.Encode(), err)
		}
		if diff := cmp.Diff(s.IDs(), got.IDs()); diff != "" {
			t.Errorf("round trip mismatch (-want +got):\n%s", diff)
		}
	}
	if enc := (favorite.Set{}).Encode(); enc != "[]" {
		t.Errorf("empty Encode = %q, want []", enc)
	}
}

// TestDecode tests decoding of persisted values.
func TestDecode(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		want        []string
		wantCorrupt bool
	}{
		{name: "absent", raw: "", want: []string{}},
		{name: "whitespace", raw: "  ", want: []string{}},
		{name: "empty array", raw: "[]", want: []string{}},
		{name: "ids", raw: `["course_001","course_003"]`, want: []string{"course_001", "course_003"}},
		{name: "duplicates dropped", raw: `["a","b","a"]`, want: []string{"a", "b"}},
		{name: "invalid json", raw: "invalid json", wantCorrupt: true},
		{name: "null", raw: "null", wantCorrupt: true},
		{name: "object", raw: `{"a":1}`, wantCorrupt: true},
		{name: "numbers", raw: `[1,2]`, wantCorrupt: true},
		{name: "bare string", raw: `"course_001"`, wantCorrupt: true},
		{name: "null element", raw: `[null]`, wantCorrupt: true},
		{name: "trailing null element", raw: `["course_001",null]`, wantCorrupt: true},
		{name: "empty id", raw: `["course_001",""]`, wantCorrupt: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := favorite.Decode(tt.raw)
			if tt.wantCorrupt {
				if !errors.Is(err, favorite.ErrCorruptState) {
					t.Fatalf("Decode(%q) error = %v, want ErrCorruptState", tt.raw, err)
				}
				var cse *favorite.CorruptStateError
				if !errors.As(err, &cse) || cse.Raw != tt.raw {
					t.Errorf("expected CorruptStateError carrying raw value, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Decode(%q): %v", tt.raw, err)
			}
			if diff := cmp.Diff(tt.want, got.IDs()); diff != "" {
				t.Errorf("IDs mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
