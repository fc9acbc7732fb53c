package web

import (
	"errors"
	"log/slog"
	"net/http"

	"academy/internal/adapters/http/middleware"
	"academy/internal/application/favorites"
	"academy/internal/application/orchestrators"
	"academy/internal/application/projections"
	"academy/internal/domain/course"
)

var errNoVisitor = errors.New("request has no visitor ID")

// favoritesFor returns the shared favorites store of the requesting visitor.
func (s *Server) favoritesFor(r *http.Request) (*favorites.Store, error) {
	id, ok := middleware.VisitorFromContext(r.Context())
	if !ok {
		return nil, errNoVisitor
	}
	return s.deps.Favorites.Get(r.Context(), id), nil
}

// handleCourseList handles GET /
func (s *Server) handleCourseList(w http.ResponseWriter, r *http.Request) {
	store, err := s.favoritesFor(r)
	if err != nil {
		internalError(w, err)
		return
	}
	q := r.URL.Query()
	result := projections.QueryCourseList(projections.CourseListQuery{
		Filter: course.ParseFilter(q.Get("topic"), q.Get("difficulty")),
	}, projections.CourseListDeps{Catalog: s.deps.Catalog, Favorites: store})

	s.renderPage(w, r, http.StatusOK, "index.html", "Our Courses", result)
}

// handleCourseDetail handles GET /course/{id}
func (s *Server) handleCourseDetail(w http.ResponseWriter, r *http.Request) {
	store, err := s.favoritesFor(r)
	if err != nil {
		internalError(w, err)
		return
	}
	result := projections.QueryCourseDetail(projections.CourseDetailQuery{ID: r.PathValue("id")},
		projections.CourseDetailDeps{Catalog: s.deps.Catalog, Favorites: store})
	if !result.Found {
		s.renderPage(w, r, http.StatusNotFound, "not_found.html", "Course not found", nil)
		return
	}
	s.renderPage(w, r, http.StatusOK, "course.html", result.Course.Name, result)
}

// favoritesPage is the data for favorites.html.
type favoritesPage struct {
	projections.FavoriteCoursesResult
	CanShare   bool
	Shared     bool
	ShareError string
	ShareTo    string
}

// handleFavorites handles GET /favorites
func (s *Server) handleFavorites(w http.ResponseWriter, r *http.Request) {
	s.renderFavorites(w, r, http.StatusOK, favoritesPage{Shared: r.URL.Query().Get("shared") == "1"})
}

func (s *Server) renderFavorites(w http.ResponseWriter, r *http.Request, status int, data favoritesPage) {
	store, err := s.favoritesFor(r)
	if err != nil {
		internalError(w, err)
		return
	}
	data.FavoriteCoursesResult = projections.QueryFavoriteCourses(projections.FavoriteCoursesDeps{
		Catalog:   s.deps.Catalog,
		Favorites: store,
	})
	if data.Stale > 0 {
		slog.Debug("favorites_event", "event", "stale_ids_skipped", "count", data.Stale)
	}
	data.CanShare = s.deps.Sender != nil && len(data.Courses) > 0
	s.renderPage(w, r, status, "favorites.html", "My Favorite Courses", data)
}

// handleToggleFavorite handles POST /favorites/{id}/toggle
func (s *Server) handleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	store, err := s.favoritesFor(r)
	if err != nil {
		internalError(w, err)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	_, err = orchestrators.ExecuteToggleFavorite(r.Context(),
		orchestrators.ToggleFavoriteInput{CourseID: r.PathValue("id")},
		orchestrators.FavoriteDeps{Favorites: store, Catalog: s.deps.Catalog})
	switch {
	case errors.Is(err, orchestrators.ErrUnknownCourse):
		s.renderPage(w, r, http.StatusNotFound, "not_found.html", "Course not found", nil)
		return
	case errors.Is(err, orchestrators.ErrEmptyCourseID):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		internalError(w, err)
		return
	}

	http.Redirect(w, r, safeReturn(r.FormValue("return"), "/"), http.StatusSeeOther)
}

// handleShareFavorites handles POST /favorites/share
func (s *Server) handleShareFavorites(w http.ResponseWriter, r *http.Request) {
	if s.deps.Sender == nil {
		http.Error(w, "Sharing is not configured", http.StatusNotFound)
		return
	}
	store, err := s.favoritesFor(r)
	if err != nil {
		internalError(w, err)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	to := r.FormValue("email")
	_, err = orchestrators.ExecuteShareFavorites(r.Context(),
		orchestrators.ShareFavoritesInput{To: to, BaseURL: s.deps.BaseURL},
		orchestrators.ShareFavoritesDeps{
			Favorites: store,
			Catalog:   s.deps.Catalog,
			Sender:    s.deps.Sender,
			From:      s.deps.EmailFrom,
		})
	switch {
	case errors.Is(err, orchestrators.ErrInvalidEmail), errors.Is(err, orchestrators.ErrNoFavorites):
		s.renderFavorites(w, r, http.StatusUnprocessableEntity, favoritesPage{ShareError: err.Error(), ShareTo: to})
		return
	case err != nil:
		slog.Error("favorites_event", "event", "share_failed", "error", err)
		s.renderFavorites(w, r, http.StatusBadGateway, favoritesPage{ShareError: "The email could not be sent. Please try again later.", ShareTo: to})
		return
	}

	http.Redirect(w, r, "/favorites?shared=1", http.StatusSeeOther)
}

// handleNotFound renders the 404 page for any unmatched path.
func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, http.StatusNotFound, "not_found.html", "Page not found", nil)
}
