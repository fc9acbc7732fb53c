package catalog

import (
	domain "academy/internal/domain/course"
)

// Store is the read-only course catalog.
type Store interface {
	All() []domain.Course
	GetByID(id string) (domain.Course, bool)
	Topics() []string
	Difficulties() []string
}
