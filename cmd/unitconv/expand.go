package unitconv

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/saadjs/unitconv/internal/detect"
	"github.com/saadjs/unitconv/internal/service"
	"github.com/saadjs/unitconv/internal/units"
	"github.com/spf13/cobra"
)

var (
	expandCategory  string
	expandAll       bool
	expandJSON      bool
	expandNoHistory bool
)

type expansion struct {
	Input       string                   `json:"input"`
	Value       float64                  `json:"value"`
	UnitCode    string                   `json:"unitCode"`
	Category    units.Category           `json:"category"`
	Conversions []units.ConversionResult `json:"conversions"`
}

var expandCmd = &cobra.Command{
	Use:   "expand <value> <unit> | expand <text>",
	Short: "Show a quantity in every other unit of its category",
	Long: "expand takes either a value and a unit code (\"expand 5 km\") or free text (\"expand '5km run'\").\n" +
		"For free text the first detected quantity is expanded.",
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		q, err := resolveQuantity(args)
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			p, err := service.GetPreferences(sqldb)
			if err != nil {
				return err
			}
			if expandAll {
				p.ShowAllConversions = true
			}
			q.Conversions, err = service.Present(p, q.Value, q.UnitCode, q.Category)
			if err != nil {
				return err
			}
			if !expandNoHistory {
				if _, err := service.RecordConversion(sqldb, q.Input, q.Value, q.UnitCode, q.Category); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			if expandJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				enc.SetEscapeHTML(false)
				return enc.Encode(q)
			}
			fmt.Fprintf(out, "%s %s (%s)\n", units.FormatNumber(q.Value, p.DecimalPlaces), unitLabel(q.Category, q.UnitCode), q.Category)
			for _, r := range q.Conversions {
				fmt.Fprintf(out, "  %s %s\n", r.FormattedValue, r.UnitLabel)
			}
			return nil
		})
	},
}

// resolveQuantity reads "<value> <unit>" when the first argument is a number
// and the second a known unit code, and otherwise detects the first quantity
// in the joined arguments.
func resolveQuantity(args []string) (expansion, error) {
	if len(args) == 2 {
		v, err := strconv.ParseFloat(strings.TrimSpace(args[0]), 64)
		code := strings.TrimSpace(args[1])
		_, known := units.CategoryOf(code)
		if err == nil && (known || expandCategory != "") {
			c, err := resolveCategory(expandCategory, code)
			if err != nil {
				return expansion{}, err
			}
			if _, err := units.Lookup(c, code); err != nil {
				return expansion{}, err
			}
			if err := units.CheckFinite(v); err != nil {
				return expansion{}, err
			}
			return expansion{Input: strings.Join(args, " "), Value: v, UnitCode: code, Category: c}, nil
		}
	}
	text := strings.Join(args, " ")
	d, ok := detect.First(text)
	if !ok {
		return expansion{}, fmt.Errorf("no quantity found in %q", text)
	}
	return expansion{Input: d.FullMatch, Value: d.Value, UnitCode: d.UnitCode, Category: d.Category}, nil
}

func init() {
	rootCmd.AddCommand(expandCmd)
	expandCmd.Flags().StringVar(&expandCategory, "category", "", "Category of <unit> (inferred when omitted)")
	expandCmd.Flags().BoolVar(&expandAll, "all", false, "Show every conversion even when preferences limit them")
	expandCmd.Flags().BoolVar(&expandJSON, "json", false, "Print the expansion as JSON")
	expandCmd.Flags().BoolVar(&expandNoHistory, "no-history", false, "Do not record this lookup in history")
}
