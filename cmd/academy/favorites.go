package main

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"academy/internal/application/orchestrators"
	"academy/internal/application/projections"
	domain "academy/internal/domain/favorite"
)

var favoritesCmd = &cobra.Command{
	Use:   "favorites",
	Short: "Inspect and edit a visitor's favorites",
	Long: `Inspect and edit the favorites stored for one visitor.

The visitor ID is the value of the academy_visitor cookie.`,
}

var favoritesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List favorite courses in catalog order",
	Args:  cobra.NoArgs,
	RunE:  runFavoritesList,
}

var favoritesAddCmd = &cobra.Command{
	Use:   "add <course-id>...",
	Short: "Add courses to favorites",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFavoritesSet(cmd, args, true)
	},
}

var favoritesRemoveCmd = &cobra.Command{
	Use:     "remove <course-id>...",
	Aliases: []string{"rm"},
	Short:   "Remove courses from favorites",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFavoritesSet(cmd, args, false)
	},
}

var favoritesClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the stored favorites, including unreadable values",
	Args:  cobra.NoArgs,
	RunE:  runFavoritesClear,
}

var favoritesVisitor string

func init() {
	favoritesCmd.PersistentFlags().StringVar(&favoritesVisitor, "visitor", "", "visitor ID (academy_visitor cookie value)")
	favoritesCmd.MarkPersistentFlagRequired("visitor")

	favoritesCmd.AddCommand(favoritesListCmd, favoritesAddCmd, favoritesRemoveCmd, favoritesClearCmd)
	rootCmd.AddCommand(favoritesCmd)
}

// parseVisitor accepts the same IDs the visitor cookie middleware issues.
func parseVisitor(s string) (string, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return "", fmt.Errorf("invalid visitor ID %q: must be a UUID", s)
	}
	return id.String(), nil
}

func runFavoritesList(cmd *cobra.Command, args []string) error {
	visitor, err := parseVisitor(favoritesVisitor)
	if err != nil {
		return err
	}
	a, err := openApp(cfg)
	if err != nil {
		return err
	}
	defer a.close()

	result := projections.QueryFavoriteCourses(projections.FavoriteCoursesDeps{
		Catalog:   a.catalog,
		Favorites: a.registry.Get(cmd.Context(), visitor),
	})

	p := newPrinter(cmd.OutOrStdout())
	if len(result.Courses) == 0 {
		p.Info("You haven't added any courses to your favorites yet.")
	} else {
		p.Courses(result.Courses)
	}
	if result.Stale > 0 {
		p.Info("%d stored ID(s) no longer match a course", result.Stale)
	}
	return nil
}

func runFavoritesSet(cmd *cobra.Command, args []string, want bool) error {
	visitor, err := parseVisitor(favoritesVisitor)
	if err != nil {
		return err
	}
	a, err := openApp(cfg)
	if err != nil {
		return err
	}
	defer a.close()

	deps := orchestrators.FavoriteDeps{
		Favorites: a.registry.Get(cmd.Context(), visitor),
		Catalog:   a.catalog,
	}
	p := newPrinter(cmd.OutOrStdout())
	for _, id := range args {
		res, err := orchestrators.ExecuteSetFavorite(cmd.Context(), orchestrators.SetFavoriteInput{CourseID: id, Favorite: want}, deps)
		if errors.Is(err, orchestrators.ErrUnknownCourse) {
			return fmt.Errorf("course not found: %s", id)
		}
		if err != nil {
			return err
		}
		switch {
		case !res.Changed && want:
			p.Info("%s is already a favorite", res.CourseID)
		case !res.Changed:
			p.Info("%s is not a favorite", res.CourseID)
		case want:
			p.Info("added %s", res.CourseID)
		default:
			p.Info("removed %s", res.CourseID)
		}
	}
	return nil
}

func runFavoritesClear(cmd *cobra.Command, args []string) error {
	visitor, err := parseVisitor(favoritesVisitor)
	if err != nil {
		return err
	}
	a, err := openApp(cfg)
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.kv.RemoveItem(cmd.Context(), visitor, domain.StorageKey); err != nil {
		return fmt.Errorf("clear favorites: %w", err)
	}
	a.registry.Forget(visitor)
	newPrinter(cmd.OutOrStdout()).Info("cleared favorites for %s", visitor)
	return nil
}
