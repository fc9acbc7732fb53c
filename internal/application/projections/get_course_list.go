package projections

import (
	"cmp"
	"math"
	"slices"
	"strconv"
	"strings"

	"academy/internal/application/listutil"
	domain "academy/internal/domain/course"
)

// CourseSortColumns are the columns QueryCourseList can sort by.
var CourseSortColumns = []string{"name", "price", "duration", "difficulty"}

// CourseListQuery carries query parameters.
type CourseListQuery struct {
	Filter domain.Filter
	Sort   listutil.SortParams  // zero value keeps catalog order
	Page   *listutil.PageParams // nil returns every match
}

// CourseListResult carries the query result.
type CourseListResult struct {
	Courses      []CourseCard        `json:"courses"`
	Topics       []string            `json:"topics"`       // Options, starting with domain.Any
	Difficulties []string            `json:"difficulties"` // Options, starting with domain.Any
	Selected     domain.Filter       `json:"-"`
	Sort         listutil.SortParams `json:"sort"`
	Page         *listutil.PageInfo  `json:"page,omitempty"`
	Empty        bool                `json:"empty"`
}

// CourseListDeps holds dependencies for QueryCourseList.
type CourseListDeps struct {
	Catalog   CourseCatalog
	Favorites FavoritesView
}

// QueryCourseList returns the filtered catalog with favorite flags and filter options.
// PRE: deps fields are non-nil
// POST: Courses keep catalog order unless a sort column is given; Empty is true
// iff no course matches the filter, whatever page was requested
// INVARIANT: option lists are derived from the full catalog, not the filtered one
func QueryCourseList(query CourseListQuery, deps CourseListDeps) CourseListResult {
	filter := domain.ParseFilter(query.Filter.Topic, query.Filter.Difficulty)
	courses := filter.Apply(deps.Catalog.All())

	if by, ok := courseComparators[query.Sort.Sort]; ok {
		listutil.SortStable(courses, query.Sort, by)
	}

	result := CourseListResult{
		Topics:       withAny(deps.Catalog.Topics()),
		Difficulties: withAny(deps.Catalog.Difficulties()),
		Selected:     filter,
		Sort:         query.Sort,
		Empty:        len(courses) == 0,
	}
	if query.Page != nil {
		info := listutil.NewPageInfo(*query.Page, len(courses))
		courses = listutil.Paginate(courses, info)
		result.Page = &info
	}
	result.Courses = cardsFor(courses, deps.Favorites)
	return result
}

var courseComparators = map[string]func(a, b domain.Course) int{
	"name": func(a, b domain.Course) int {
		return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	},
	"price": func(a, b domain.Course) int {
		return cmp.Compare(a.Price, b.Price)
	},
	"duration": func(a, b domain.Course) int {
		return cmp.Compare(durationWeeks(a.Duration), durationWeeks(b.Duration))
	},
	"difficulty": func(a, b domain.Course) int {
		return cmp.Compare(difficultyRank(a.Difficulty), difficultyRank(b.Difficulty))
	},
}

// durationWeeks reads the leading number of "8 weeks". Unparseable values sort last.
func durationWeeks(d string) int {
	n, err := strconv.Atoi(strings.TrimSpace(strings.SplitN(strings.TrimSpace(d), " ", 2)[0]))
	if err != nil {
		return math.MaxInt
	}
	return n
}

func difficultyRank(d string) int {
	return slices.Index(domain.ValidDifficulties, d)
}

func withAny(values []string) []string {
	return append([]string{domain.Any}, values...)
}
