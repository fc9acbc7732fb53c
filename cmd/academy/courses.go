package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"academy/internal/application/projections"
	domain "academy/internal/domain/course"
)

var coursesCmd = &cobra.Command{
	Use:   "courses",
	Short: "Browse the course catalog",
}

var coursesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List courses",
	Long: `List catalog courses in catalog order.

Filter flags:
  --topic        Show only courses with this topic ("all" for any)
  --difficulty   Show only courses at this difficulty ("all" for any)
  --visitor      Mark the favorites of this visitor with *`,
	Args: cobra.NoArgs,
	RunE: runCoursesList,
}

var coursesShowCmd = &cobra.Command{
	Use:   "show <course-id>",
	Short: "Show one course",
	Args:  cobra.ExactArgs(1),
	RunE:  runCoursesShow,
}

var (
	coursesTopic      string
	coursesDifficulty string
	coursesVisitor    string
)

func init() {
	coursesListCmd.Flags().StringVar(&coursesTopic, "topic", domain.Any, "filter by topic")
	coursesListCmd.Flags().StringVar(&coursesDifficulty, "difficulty", domain.Any, "filter by difficulty")
	coursesListCmd.Flags().StringVar(&coursesVisitor, "visitor", "", "visitor ID whose favorites are marked")
	coursesShowCmd.Flags().StringVar(&coursesVisitor, "visitor", "", "visitor ID whose favorite flag is shown")

	coursesCmd.AddCommand(coursesListCmd, coursesShowCmd)
	rootCmd.AddCommand(coursesCmd)
}

// noFavorites is the view used when no visitor is given.
type noFavorites struct{}

func (noFavorites) Contains(string) bool { return false }
func (noFavorites) List() []string       { return []string{} }
func (noFavorites) Len() int             { return 0 }

// withFavorites runs fn with the catalog and, if a visitor was given, that
// visitor's favorites. The database is only opened for a visitor.
func withFavorites(cmd *cobra.Command, visitor string, fn func(projections.CourseCatalog, projections.FavoritesView) error) error {
	if visitor == "" {
		courses, err := loadCatalog(cfg.CatalogPath)
		if err != nil {
			return err
		}
		return fn(courses, noFavorites{})
	}

	id, err := parseVisitor(visitor)
	if err != nil {
		return err
	}
	a, err := openApp(cfg)
	if err != nil {
		return err
	}
	defer a.close()
	return fn(a.catalog, a.registry.Get(cmd.Context(), id))
}

func runCoursesList(cmd *cobra.Command, args []string) error {
	return withFavorites(cmd, coursesVisitor, func(catalog projections.CourseCatalog, favs projections.FavoritesView) error {
		result := projections.QueryCourseList(
			projections.CourseListQuery{Filter: domain.Filter{Topic: coursesTopic, Difficulty: coursesDifficulty}},
			projections.CourseListDeps{Catalog: catalog, Favorites: favs},
		)
		p := newPrinter(cmd.OutOrStdout())
		if result.Empty {
			p.Info("No courses match the selected filters.")
			return nil
		}
		p.Courses(result.Courses)
		return nil
	})
}

func runCoursesShow(cmd *cobra.Command, args []string) error {
	return withFavorites(cmd, coursesVisitor, func(catalog projections.CourseCatalog, favs projections.FavoritesView) error {
		result := projections.QueryCourseDetail(
			projections.CourseDetailQuery{ID: args[0]},
			projections.CourseDetailDeps{Catalog: catalog, Favorites: favs},
		)
		if !result.Found {
			return fmt.Errorf("course not found: %s", args[0])
		}
		newPrinter(cmd.OutOrStdout()).Course(projections.CourseCard{Course: result.Course, Favorite: result.Favorite})
		return nil
	})
}
