package projections

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"academy/internal/adapters/storage/catalog"
	"academy/internal/application/listutil"
	domain "academy/internal/domain/course"
)

// mockFavoritesView is an ordered in-memory favorites list.
type mockFavoritesView struct {
	ids []string
}

// Contains implements FavoritesView.
// PRE: none
// POST: reports membership of id
func (m *mockFavoritesView) Contains(id string) bool {
	for _, v := range m.ids {
		if v == id {
			return true
		}
	}
	return false
}

// List implements FavoritesView.
// PRE: none
// POST: returns a copy of the seeded IDs
func (m *mockFavoritesView) List() []string {
	return append([]string{}, m.ids...)
}

// Len implements FavoritesView.
// PRE: none
// POST: returns the number of seeded IDs
func (m *mockFavoritesView) Len() int {
	return len(m.ids)
}

func cardIDs(cards []CourseCard) []string {
	out := make([]string, 0, len(cards))
	for _, c := range cards {
		out = append(out, c.ID)
	}
	return out
}

// TestQueryCourseList_Filters covers topic and difficulty filtering over the fixture.
func TestQueryCourseList_Filters(t *testing.T) {
	tests := []struct {
		name      string
		filter    domain.Filter
		want      []string
		wantEmpty bool
	}{
		{"zero filter", domain.Filter{}, []string{"course_001", "course_002", "course_003", "course_004", "course_005"}, false},
		{"data science", domain.Filter{Topic: "Data Science", Difficulty: domain.Any}, []string{"course_003"}, false},
		{"web beginner", domain.Filter{Topic: "Web Development", Difficulty: "Beginner"}, []string{"course_001"}, false},
		{"no match", domain.Filter{Topic: "Cybersecurity", Difficulty: "Advanced"}, []string{}, true},
		{"unknown topic", domain.Filter{Topic: "Cooking"}, []string{}, true},
	}

	deps := CourseListDeps{Catalog: catalog.Default(), Favorites: &mockFavoritesView{}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := QueryCourseList(CourseListQuery{Filter: tt.filter}, deps)
			if diff := cmp.Diff(tt.want, cardIDs(got.Courses)); diff != "" {
				t.Errorf("courses mismatch (-want +got):\n%s", diff)
			}
			if got.Empty != tt.wantEmpty {
				t.Errorf("Empty = %v, want %v", got.Empty, tt.wantEmpty)
			}
		})
	}
}

// TestQueryCourseList_Options prefixes both option lists with the all sentinel.
func TestQueryCourseList_Options(t *testing.T) {
	got := QueryCourseList(CourseListQuery{Filter: domain.Filter{Topic: "Data Science"}}, CourseListDeps{
		Catalog:   catalog.Default(),
		Favorites: &mockFavoritesView{},
	})

	if diff := cmp.Diff([]string{"all", "Web Development", "Data Science", "Cybersecurity"}, got.Topics); diff != "" {
		t.Errorf("Topics mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"all", "Beginner", "Intermediate", "Advanced"}, got.Difficulties); diff != "" {
		t.Errorf("Difficulties mismatch (-want +got):\n%s", diff)
	}
	if got.Selected != (domain.Filter{Topic: "Data Science", Difficulty: domain.Any}) {
		t.Errorf("Selected = %+v", got.Selected)
	}
}

// TestQueryCourseList_FavoriteFlags marks favorited cards.
func TestQueryCourseList_FavoriteFlags(t *testing.T) {
	got := QueryCourseList(CourseListQuery{}, CourseListDeps{
		Catalog:   catalog.Default(),
		Favorites: &mockFavoritesView{ids: []string{"course_004", "course_002"}},
	})

	var flagged []string
	for _, c := range got.Courses {
		if c.Favorite {
			flagged = append(flagged, c.ID)
		}
	}
	if diff := cmp.Diff([]string{"course_002", "course_004"}, flagged); diff != "" {
		t.Errorf("favorite flags mismatch (-want +got):\n%s", diff)
	}
}

// TestQueryCourseList_SortAndPage sorts the filtered list, then pages it.
func TestQueryCourseList_SortAndPage(t *testing.T) {
	deps := CourseListDeps{Catalog: catalog.Default(), Favorites: &mockFavoritesView{}}
	tests := []struct {
		name string
		sort listutil.SortParams
		want []string
	}{
		{"catalog order", listutil.SortParams{}, []string{"course_001", "course_002", "course_003", "course_004", "course_005"}},
		{"name asc", listutil.SortParams{Sort: "name", Dir: "asc"}, []string{"course_002", "course_004", "course_001", "course_005", "course_003"}},
		{"difficulty keeps ties in catalog order", listutil.SortParams{Sort: "difficulty", Dir: "asc"}, []string{"course_001", "course_004", "course_002", "course_003", "course_005"}},
		{"difficulty desc", listutil.SortParams{Sort: "difficulty", Dir: "desc"}, []string{"course_005", "course_002", "course_003", "course_001", "course_004"}},
		{"unknown column", listutil.SortParams{Sort: "rating", Dir: "desc"}, []string{"course_001", "course_002", "course_003", "course_004", "course_005"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := QueryCourseList(CourseListQuery{Sort: tt.sort}, deps)
			if diff := cmp.Diff(tt.want, cardIDs(got.Courses)); diff != "" {
				t.Errorf("order mismatch (-want +got):\n%s", diff)
			}
			if got.Page != nil {
				t.Errorf("Page = %+v, want nil without paging", got.Page)
			}
		})
	}

	got := QueryCourseList(CourseListQuery{
		Filter: domain.Filter{Topic: "Web Development"},
		Sort:   listutil.SortParams{Sort: "price", Dir: "desc"},
		Page:   &listutil.PageParams{Page: 2, PerPage: 2},
	}, deps)
	if diff := cmp.Diff([]string{"course_001"}, cardIDs(got.Courses)); diff != "" {
		t.Errorf("page 2 mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(&listutil.PageInfo{Page: 2, PerPage: 2, Total: 3, TotalPages: 2}, got.Page); diff != "" {
		t.Errorf("PageInfo mismatch (-want +got):\n%s", diff)
	}
	if got.Empty {
		t.Error("Empty should reflect the filter, not the page")
	}
}

// TestQueryCourseDetail covers found, favorite and not-found states.
func TestQueryCourseDetail(t *testing.T) {
	deps := CourseDetailDeps{Catalog: catalog.Default(), Favorites: &mockFavoritesView{ids: []string{"course_003"}}}

	got := QueryCourseDetail(CourseDetailQuery{ID: "course_003"}, deps)
	if !got.Found || got.Course.Name != "Python for Data Science" || !got.Favorite {
		t.Errorf("course_003 detail = %+v", got)
	}

	got = QueryCourseDetail(CourseDetailQuery{ID: "course_001"}, deps)
	if !got.Found || got.Favorite {
		t.Errorf("course_001 detail = %+v", got)
	}

	for _, id := range []string{"does_not_exist", ""} {
		if got := QueryCourseDetail(CourseDetailQuery{ID: id}, deps); got.Found {
			t.Errorf("QueryCourseDetail(%q).Found = true", id)
		}
	}
}

// TestQueryFavoriteCourses_SkipsStale keeps catalog order and drops unknown IDs.
func TestQueryFavoriteCourses_SkipsStale(t *testing.T) {
	got := QueryFavoriteCourses(FavoriteCoursesDeps{
		Catalog:   catalog.Default(),
		Favorites: &mockFavoritesView{ids: []string{"course_005", "retired_course", "course_001"}},
	})

	if diff := cmp.Diff([]string{"course_001", "course_005"}, cardIDs(got.Courses)); diff != "" {
		t.Errorf("courses mismatch (-want +got):\n%s", diff)
	}
	if got.Stale != 1 {
		t.Errorf("Stale = %d, want 1", got.Stale)
	}
	for _, c := range got.Courses {
		if !c.Favorite {
			t.Errorf("%s not flagged favorite", c.ID)
		}
	}
}

// TestQueryFavoriteCourses_Empty returns a non-nil empty list.
func TestQueryFavoriteCourses_Empty(t *testing.T) {
	got := QueryFavoriteCourses(FavoriteCoursesDeps{Catalog: catalog.Default(), Favorites: &mockFavoritesView{}})
	if got.Courses == nil || len(got.Courses) != 0 {
		t.Errorf("Courses = %#v, want empty non-nil", got.Courses)
	}
}

// TestQueryHeader counts stored IDs, stale ones included.
func TestQueryHeader(t *testing.T) {
	got := QueryHeader(&mockFavoritesView{ids: []string{"course_001", "gone"}})
	if got.FavoriteCount != 2 {
		t.Errorf("FavoriteCount = %d, want 2", got.FavoriteCount)
	}
}
