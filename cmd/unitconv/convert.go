package unitconv

import (
	"database/sql"
	"fmt"

	"github.com/saadjs/unitconv/internal/service"
	"github.com/saadjs/unitconv/internal/units"
	"github.com/spf13/cobra"
)

var (
	convertCategory string
	convertPlaces   int
)

var convertCmd = &cobra.Command{
	Use:   "convert <value> <from> <to>",
	Short: "Convert a value between two units of one category",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := parseValueArg(args[0])
		if err != nil {
			return err
		}
		from, to := args[1], args[2]
		c, err := resolveCategory(convertCategory, from)
		if err != nil {
			return err
		}
		converted, err := units.Convert(value, from, to, c)
		if err != nil {
			return err
		}

		places := convertPlaces
		if !cmd.Flags().Changed("places") {
			if err := withDB(func(sqldb *sql.DB) error {
				p, err := service.GetPreferences(sqldb)
				if err != nil {
					return err
				}
				places = p.DecimalPlaces
				return nil
			}); err != nil {
				return err
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s = %s %s\n",
			units.FormatNumber(value, places), unitLabel(c, from),
			units.FormatNumber(converted, places), unitLabel(c, to))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)
	convertCmd.Flags().StringVar(&convertCategory, "category", "", "Category of the units (inferred from <from> when omitted)")
	convertCmd.Flags().IntVar(&convertPlaces, "places", units.DefaultDecimalPlaces, "Decimal places (default from preferences)")
}
