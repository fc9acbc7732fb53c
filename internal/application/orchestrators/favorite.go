package orchestrators

import (
	"context"
	"errors"
	"strings"

	domain "academy/internal/domain/course"
)

// ErrEmptyCourseID is returned when no course ID is supplied.
var ErrEmptyCourseID = errors.New("course ID is required")

// ErrUnknownCourse is returned when the course ID is not in the catalog.
var ErrUnknownCourse = errors.New("course not found")

// FavoritesMutator is the write side of a visitor's favorites store.
type FavoritesMutator interface {
	Add(ctx context.Context, id string) bool
	Remove(ctx context.Context, id string) bool
	Toggle(ctx context.Context, id string) bool
}

// CourseLookup resolves course IDs against the catalog.
type CourseLookup interface {
	GetByID(id string) (domain.Course, bool)
}

// FavoriteDeps holds dependencies for the favorite orchestrators.
type FavoriteDeps struct {
	Favorites FavoritesMutator
	Catalog   CourseLookup
}

// FavoriteResult reports membership after the operation.
type FavoriteResult struct {
	CourseID string `json:"id"`
	Favorite bool   `json:"favorite"`
	Changed  bool   `json:"changed"`
}

// --- Toggle Favorite ---

// ToggleFavoriteInput carries input for the toggle orchestrator.
type ToggleFavoriteInput struct {
	CourseID string
}

// ExecuteToggleFavorite adds the course if absent and removes it if present.
// An ID missing from the catalog can only be toggled off.
// PRE: CourseID is non-empty
// POST: membership is flipped and mirrored to durable storage
func ExecuteToggleFavorite(ctx context.Context, input ToggleFavoriteInput, deps FavoriteDeps) (FavoriteResult, error) {
	id, err := checkCourseID(input.CourseID)
	if err != nil {
		return FavoriteResult{}, err
	}
	if !inCatalog(id, deps.Catalog) {
		if !deps.Favorites.Remove(ctx, id) {
			return FavoriteResult{}, ErrUnknownCourse
		}
		return FavoriteResult{CourseID: id, Favorite: false, Changed: true}, nil
	}
	now := deps.Favorites.Toggle(ctx, id)
	return FavoriteResult{CourseID: id, Favorite: now, Changed: true}, nil
}

// --- Set Favorite ---

// SetFavoriteInput carries input for the idempotent set orchestrator.
type SetFavoriteInput struct {
	CourseID string
	Favorite bool
}

// ExecuteSetFavorite makes membership match input.Favorite.
// Adding requires a catalog course; removing accepts any ID.
// PRE: CourseID is non-empty
// POST: Contains(CourseID) == input.Favorite; storage is written only if membership changed
func ExecuteSetFavorite(ctx context.Context, input SetFavoriteInput, deps FavoriteDeps) (FavoriteResult, error) {
	id, err := checkCourseID(input.CourseID)
	if err != nil {
		return FavoriteResult{}, err
	}
	var changed bool
	if input.Favorite {
		if !inCatalog(id, deps.Catalog) {
			return FavoriteResult{}, ErrUnknownCourse
		}
		changed = deps.Favorites.Add(ctx, id)
	} else {
		changed = deps.Favorites.Remove(ctx, id)
	}
	return FavoriteResult{CourseID: id, Favorite: input.Favorite, Changed: changed}, nil
}

func checkCourseID(raw string) (string, error) {
	id := strings.TrimSpace(raw)
	if id == "" {
		return "", ErrEmptyCourseID
	}
	return id, nil
}

// inCatalog reports whether id names a course. A nil lookup accepts every ID.
func inCatalog(id string, lookup CourseLookup) bool {
	if lookup == nil {
		return true
	}
	_, ok := lookup.GetByID(id)
	return ok
}
