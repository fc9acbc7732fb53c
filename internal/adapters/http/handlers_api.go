package web

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"academy/internal/application/listutil"
	"academy/internal/application/orchestrators"
	"academy/internal/application/projections"
	"academy/internal/domain/course"
)

// courseListResponse is the JSON shape of GET /api/courses.
type courseListResponse struct {
	projections.CourseListResult
	Topic      string `json:"topic"`
	Difficulty string `json:"difficulty"`
}

// handleAPICourses handles GET /api/courses?topic=&difficulty=&sort=&dir=&page=&per_page=
func (s *Server) handleAPICourses(w http.ResponseWriter, r *http.Request) {
	store, err := s.favoritesFor(r)
	if err != nil {
		internalError(w, err)
		return
	}
	q := r.URL.Query()
	query := projections.CourseListQuery{
		Filter: course.ParseFilter(q.Get("topic"), q.Get("difficulty")),
		Sort:   listutil.ParseSortParams(q, projections.CourseSortColumns),
	}
	if page, ok := listutil.ParsePageParams(q); ok {
		query.Page = &page
	}
	result := projections.QueryCourseList(query, projections.CourseListDeps{Catalog: s.deps.Catalog, Favorites: store})

	writeJSON(w, http.StatusOK, courseListResponse{
		CourseListResult: result,
		Topic:            result.Selected.Topic,
		Difficulty:       result.Selected.Difficulty,
	})
}

// handleAPICourse handles GET /api/courses/{id}
func (s *Server) handleAPICourse(w http.ResponseWriter, r *http.Request) {
	store, err := s.favoritesFor(r)
	if err != nil {
		internalError(w, err)
		return
	}
	result := projections.QueryCourseDetail(projections.CourseDetailQuery{ID: r.PathValue("id")},
		projections.CourseDetailDeps{Catalog: s.deps.Catalog, Favorites: store})
	if !result.Found {
		writeJSONError(w, http.StatusNotFound, "course not found")
		return
	}
	writeJSON(w, http.StatusOK, projections.CourseCard{Course: result.Course, Favorite: result.Favorite})
}

// handleAPIFavorites handles GET /api/favorites
func (s *Server) handleAPIFavorites(w http.ResponseWriter, r *http.Request) {
	store, err := s.favoritesFor(r)
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, projections.QueryFavoriteCourses(projections.FavoriteCoursesDeps{
		Catalog:   s.deps.Catalog,
		Favorites: store,
	}))
}

// handleAPISetFavorite handles PUT and DELETE /api/favorites/{id}
func (s *Server) handleAPISetFavorite(want bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := s.favoritesFor(r)
		if err != nil {
			internalError(w, err)
			return
		}
		result, err := orchestrators.ExecuteSetFavorite(r.Context(),
			orchestrators.SetFavoriteInput{CourseID: r.PathValue("id"), Favorite: want},
			orchestrators.FavoriteDeps{Favorites: store, Catalog: s.deps.Catalog})
		switch {
		case errors.Is(err, orchestrators.ErrUnknownCourse):
			writeJSONError(w, http.StatusNotFound, "course not found")
			return
		case errors.Is(err, orchestrators.ErrEmptyCourseID):
			writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		case err != nil:
			internalError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

// handleAPIPerf handles GET /api/perf?minutes=15&top=10
func (s *Server) handleAPIPerf(w http.ResponseWriter, r *http.Request) {
	if s.deps.Perf == nil {
		writeJSONError(w, http.StatusNotFound, "perf collection disabled")
		return
	}
	minutes := queryInt(r, "minutes", 15)
	top := queryInt(r, "top", 10)
	writeJSON(w, http.StatusOK, s.deps.Perf.Snapshot(time.Now().Add(-time.Duration(minutes)*time.Minute), top))
}

func queryInt(r *http.Request, name string, fallback int) int {
	n, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
