package unitconv

import (
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/saadjs/unitconv/internal/service"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect and purge recorded lookups",
}

var (
	historyCategory string
	historyLimit    int
	historyPurgeAll bool
)

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent lookups, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			items, err := service.ListHistory(sqldb, service.HistoryFilter{Category: historyCategory, Limit: historyLimit})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(items) == 0 {
				fmt.Fprintln(out, "No history")
				return nil
			}
			fmt.Fprintln(out, "WHEN\tVALUE\tUNIT\tCATEGORY\tINPUT\tID")
			for _, it := range items {
				fmt.Fprintf(out, "%s\t%s\t%s\t%s\t%s\t%s\n",
					it.CreatedAt.Local().Format(time.DateTime), strconv.FormatFloat(it.Value, 'g', -1, 64),
					it.UnitCode, it.Category, it.Input, it.ID)
			}
			return nil
		})
	},
}

var historyPurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete recorded lookups",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			n, err := service.PurgeHistory(sqldb, historyCategory, historyPurgeAll)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Purged %d history entr%s\n", n, pluralY(n))
			return nil
		})
	},
}

func pluralY(n int64) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd, historyPurgeCmd)

	historyListCmd.Flags().StringVar(&historyCategory, "category", "", "Only this category")
	historyListCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum entries to show")
	historyPurgeCmd.Flags().StringVar(&historyCategory, "category", "", "Purge only this category")
	historyPurgeCmd.Flags().BoolVar(&historyPurgeAll, "all", false, "Purge every entry")
}
