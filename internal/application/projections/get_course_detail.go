package projections

import (
	domain "academy/internal/domain/course"
)

// CourseDetailQuery carries query parameters.
type CourseDetailQuery struct {
	ID string
}

// CourseDetailResult carries the query result. A missing course is reported
// through Found, never as an error.
type CourseDetailResult struct {
	Found    bool
	Course   domain.Course
	Favorite bool
}

// CourseDetailDeps holds dependencies for QueryCourseDetail.
type CourseDetailDeps struct {
	Catalog   CourseCatalog
	Favorites FavoritesView
}

// QueryCourseDetail looks up one course and its favorite flag.
// PRE: deps fields are non-nil
// POST: Found is false for unknown or empty IDs
func QueryCourseDetail(query CourseDetailQuery, deps CourseDetailDeps) CourseDetailResult {
	c, ok := deps.Catalog.GetByID(query.ID)
	if !ok {
		return CourseDetailResult{}
	}
	return CourseDetailResult{
		Found:    true,
		Course:   c,
		Favorite: deps.Favorites.Contains(c.ID),
	}
}
