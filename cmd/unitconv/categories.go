package unitconv

import (
	"fmt"

	"github.com/saadjs/unitconv/internal/units"
	"github.com/spf13/cobra"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List unit categories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "CATEGORY\tBASE\tUNITS")
		for _, c := range units.Categories() {
			fmt.Fprintf(out, "%s\t%s\t%d\n", c, c.BaseUnit(), len(units.UnitCodes(c)))
		}
		return nil
	},
}

var unitsCmd = &cobra.Command{
	Use:   "units <category>",
	Short: "List the units of a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := units.ParseCategory(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "CODE\tLABEL\tNAME\tPRIORITY")
		for _, u := range units.UnitsOf(c) {
			fmt.Fprintf(out, "%s\t%s\t%s\t%d\n", u.Code, u.Label, u.Name, units.Priority(c, u.Code))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(categoriesCmd, unitsCmd)
}
