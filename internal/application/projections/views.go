package projections

import (
	domain "academy/internal/domain/course"
)

// CourseCatalog is the read side of the course catalog.
type CourseCatalog interface {
	All() []domain.Course
	GetByID(id string) (domain.Course, bool)
	Topics() []string
	Difficulties() []string
}

// FavoritesView is the read side of a visitor's favorites store.
type FavoritesView interface {
	Contains(id string) bool
	List() []string
	Len() int
}

// CourseCard is a course as rendered on list pages.
type CourseCard struct {
	domain.Course
	Favorite bool `json:"favorite"`
}

func cardsFor(courses []domain.Course, favs FavoritesView) []CourseCard {
	cards := make([]CourseCard, 0, len(courses))
	for _, c := range courses {
		cards = append(cards, CourseCard{Course: c, Favorite: favs.Contains(c.ID)})
	}
	return cards
}
