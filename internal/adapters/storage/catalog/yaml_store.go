package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	domain "academy/internal/domain/course"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// ErrDuplicateID is returned when two fixture entries share an ID.
var ErrDuplicateID = errors.New("duplicate course ID")

// ErrEmptyCatalog is returned when a fixture contains no courses.
var ErrEmptyCatalog = errors.New("catalog contains no courses")

type fixture struct {
	Courses []domain.Course `yaml:"courses"`
}

// YAMLStore implements Store over a fixture loaded once at startup.
// INVARIANT: courses is never mutated after construction
type YAMLStore struct {
	courses []domain.Course
	byID    map[string]int
}

// Default returns the embedded catalog.
// PRE: none
// POST: Returns the five-course fixture; panics only if the embedded file is broken
func Default() *YAMLStore {
	s, err := LoadYAML(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog: %v", err))
	}
	return s
}

// LoadFile reads a catalog from path.
// PRE: path points at a YAML fixture
// POST: Returns a validated store or an error
func LoadFile(path string) (*YAMLStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return LoadYAML(data)
}

// LoadYAML parses and validates a catalog fixture.
// PRE: none
// POST: Returns a store whose courses are valid with unique IDs, or an error
func LoadYAML(data []byte) (*YAMLStore, error) {
	var f fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(f.Courses) == 0 {
		return nil, ErrEmptyCatalog
	}
	byID := make(map[string]int, len(f.Courses))
	for i := range f.Courses {
		c := f.Courses[i]
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("course %d (%q): %w", i, c.ID, err)
		}
		if _, dup := byID[c.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, c.ID)
		}
		byID[c.ID] = i
	}
	return &YAMLStore{courses: f.Courses, byID: byID}, nil
}

// All returns every course in fixture order.
// POST: Returns a copy; callers may modify it freely
func (s *YAMLStore) All() []domain.Course {
	out := make([]domain.Course, len(s.courses))
	copy(out, s.courses)
	return out
}

// GetByID looks up a course. A missing ID is a normal result, not an error.
func (s *YAMLStore) GetByID(id string) (domain.Course, bool) {
	i, ok := s.byID[id]
	if !ok {
		return domain.Course{}, false
	}
	return s.courses[i], true
}

// Topics returns the distinct topics in first-appearance order.
func (s *YAMLStore) Topics() []string {
	return distinct(s.courses, func(c domain.Course) string { return c.Topic })
}

// Difficulties returns the distinct difficulties in first-appearance order.
func (s *YAMLStore) Difficulties() []string {
	return distinct(s.courses, func(c domain.Course) string { return c.Difficulty })
}

func distinct(courses []domain.Course, field func(domain.Course) string) []string {
	seen := make(map[string]struct{}, len(courses))
	out := make([]string, 0, len(courses))
	for _, c := range courses {
		v := field(c)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
