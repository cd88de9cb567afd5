package unitconv

import (
	"database/sql"
	"fmt"
	"io"
	"strings"

	"github.com/saadjs/unitconv/internal/service"
	"github.com/saadjs/unitconv/internal/units"
	"github.com/spf13/cobra"
)

var favoritesCmd = &cobra.Command{
	Use:     "favorites",
	Aliases: []string{"fav"},
	Short:   "Manage the display order of units per category",
}

var favoritesShowCmd = &cobra.Command{
	Use:   "show [category]",
	Short: "Show the unit order of one or every category",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		names := make([]string, 0)
		if len(args) == 1 {
			names = append(names, args[0])
		} else {
			for _, c := range units.Categories() {
				names = append(names, c.String())
			}
		}
		return withDB(func(sqldb *sql.DB) error {
			for _, name := range names {
				order, stored, err := service.FavoriteUnits(sqldb, name)
				if err != nil {
					return err
				}
				printOrder(cmd.OutOrStdout(), strings.ToLower(strings.TrimSpace(name)), order, stored)
			}
			return nil
		})
	},
}

var favoritesSetCmd = &cobra.Command{
	Use:   "set <category> <unit>...",
	Short: "Put units first, in the given order",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		codes := make([]string, 0, len(args)-1)
		for _, a := range args[1:] {
			codes = append(codes, splitList(a)...)
		}
		return withDB(func(sqldb *sql.DB) error {
			order, err := service.SetFavoriteUnits(sqldb, args[0], codes)
			if err != nil {
				return err
			}
			printOrder(cmd.OutOrStdout(), strings.ToLower(args[0]), order, true)
			return nil
		})
	},
}

var favoritesMoveCmd = &cobra.Command{
	Use:   "move <category> <unit> <up|down>",
	Short: "Move a unit one place up or down",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := service.MoveDirection(strings.ToLower(strings.TrimSpace(args[2])))
		return withDB(func(sqldb *sql.DB) error {
			order, err := service.MoveFavoriteUnit(sqldb, args[0], args[1], dir)
			if err != nil {
				return err
			}
			printOrder(cmd.OutOrStdout(), strings.ToLower(args[0]), order, true)
			return nil
		})
	},
}

var favoritesResetCmd = &cobra.Command{
	Use:   "reset [category]",
	Short: "Go back to the built-in order for one or every category",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		category := ""
		if len(args) == 1 {
			category = args[0]
		}
		return withDB(func(sqldb *sql.DB) error {
			if _, err := service.ResetFavoriteUnits(sqldb, category); err != nil {
				return err
			}
			if category == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "Reset unit order for all categories")
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Reset unit order for %s\n", strings.ToLower(category))
			}
			return nil
		})
	},
}

func printOrder(w io.Writer, category string, order []string, stored bool) {
	source := "default"
	if stored {
		source = "custom"
	}
	fmt.Fprintf(w, "%s (%s): %s\n", category, source, strings.Join(order, ", "))
}

func init() {
	rootCmd.AddCommand(favoritesCmd)
	favoritesCmd.AddCommand(favoritesShowCmd, favoritesSetCmd, favoritesMoveCmd, favoritesResetCmd)
}
