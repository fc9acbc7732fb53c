package course

import (
	"errors"
	"strings"
)

// Difficulty constants
const (
	DifficultyBeginner     = "Beginner"
	DifficultyIntermediate = "Intermediate"
	DifficultyAdvanced     = "Advanced"
)

// ValidDifficulties contains all valid course difficulties, easiest first.
var ValidDifficulties = []string{DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced}

// Any is the filter value that matches every topic or difficulty.
const Any = "all"

// Domain errors
var (
	ErrEmptyID           = errors.New("course ID cannot be empty")
	ErrEmptyName         = errors.New("course name cannot be empty")
	ErrEmptyTopic        = errors.New("course topic cannot be empty")
	ErrNegativePrice     = errors.New("course price cannot be negative")
	ErrInvalidDifficulty = errors.New("course difficulty must be Beginner, Intermediate or Advanced")
)

// Course is a static catalog entry.
type Course struct {
	ID          string  `yaml:"id" json:"id"`
	Name        string  `yaml:"name" json:"name"`
	Description string  `yaml:"description" json:"description"`
	Duration    string  `yaml:"duration" json:"duration"` // e.g. "8 weeks"
	Price       float64 `yaml:"price" json:"price"`
	Topic       string  `yaml:"topic" json:"topic"`
	Difficulty  string  `yaml:"difficulty" json:"difficulty"`
}

// Validate checks if the Course has valid data.
// PRE: Course struct is populated
// POST: Returns nil if valid, error otherwise
func (c *Course) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return ErrEmptyID
	}
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(c.Topic) == "" {
		return ErrEmptyTopic
	}
	if c.Price < 0 {
		return ErrNegativePrice
	}
	if !IsValidDifficulty(c.Difficulty) {
		return ErrInvalidDifficulty
	}
	return nil
}

// IsValidDifficulty reports whether d is one of ValidDifficulties.
func IsValidDifficulty(d string) bool {
	for _, v := range ValidDifficulties {
		if v == d {
			return true
		}
	}
	return false
}

// Filter selects courses by topic and difficulty. Either field may be Any.
type Filter struct {
	Topic      string
	Difficulty string
}

// ParseFilter builds a Filter from raw query values; blanks become Any.
// PRE: none
// POST: Returns a Filter with no empty fields
func ParseFilter(topic, difficulty string) Filter {
	topic = strings.TrimSpace(topic)
	difficulty = strings.TrimSpace(difficulty)
	if topic == "" {
		topic = Any
	}
	if difficulty == "" {
		difficulty = Any
	}
	return Filter{Topic: topic, Difficulty: difficulty}
}

// Matches reports whether c satisfies the filter.
// Zero-value fields behave like Any.
// INVARIANT: Filter and Course are not mutated
func (f Filter) Matches(c Course) bool {
	topicMatch := f.Topic == "" || f.Topic == Any || c.Topic == f.Topic
	difficultyMatch := f.Difficulty == "" || f.Difficulty == Any || c.Difficulty == f.Difficulty
	return topicMatch && difficultyMatch
}

// IsAny reports whether the filter matches everything.
func (f Filter) IsAny() bool {
	return (f.Topic == "" || f.Topic == Any) && (f.Difficulty == "" || f.Difficulty == Any)
}

// Apply returns the courses matching the filter, preserving order.
// PRE: none
// POST: Returns a new slice (never nil)
func (f Filter) Apply(courses []Course) []Course {
	out := make([]Course, 0, len(courses))
	for _, c := range courses {
		if f.Matches(c) {
			out = append(out, c)
		}
	}
	return out
}
