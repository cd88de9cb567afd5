package unitconv

import (
	"database/sql"
	"fmt"

	"github.com/saadjs/unitconv/internal/service"
	"github.com/spf13/cobra"
)

var doctorFix bool

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check stored favourites and history against the unit tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			report, err := service.RunDoctor(sqldb, doctorFix)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Unknown favourite rows: %d\n", report.UnknownFavoriteRows)
			fmt.Fprintf(out, "Incomplete unit orders: %d\n", report.IncompleteCategories)
			fmt.Fprintf(out, "Unknown history rows: %d\n", report.UnknownHistoryRows)
			if doctorFix {
				fmt.Fprintf(out, "Fixed rows: %d\n", report.FixedRows)
				// Re-check so the exit status reflects the final state.
				report, err = service.RunDoctor(sqldb, false)
				if err != nil {
					return err
				}
			}
			if !report.Healthy() {
				return fmt.Errorf("doctor found integrity issues")
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "Reset broken unit orders and drop unknown history rows")
}
