package projections

// FavoriteCoursesResult carries the query result.
type FavoriteCoursesResult struct {
	Courses []CourseCard `json:"courses"`
	IDs     []string     `json:"ids"`   // Raw stored IDs, insertion order, stale ones included
	Stale   int          `json:"stale"` // IDs with no matching catalog entry
}

// FavoriteCoursesDeps holds dependencies for QueryFavoriteCourses.
type FavoriteCoursesDeps struct {
	Catalog   CourseCatalog
	Favorites FavoritesView
}

// QueryFavoriteCourses returns the catalog courses the visitor has favorited.
// PRE: deps fields are non-nil
// POST: Courses are in catalog order; IDs without a catalog entry are skipped and counted in Stale
func QueryFavoriteCourses(deps FavoriteCoursesDeps) FavoriteCoursesResult {
	ids := deps.Favorites.List()
	var courses []CourseCard
	for _, c := range deps.Catalog.All() {
		if deps.Favorites.Contains(c.ID) {
			courses = append(courses, CourseCard{Course: c, Favorite: true})
		}
	}
	if courses == nil {
		courses = []CourseCard{}
	}
	return FavoriteCoursesResult{
		Courses: courses,
		IDs:     ids,
		Stale:   len(ids) - len(courses),
	}
}
