package unitconv

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/saadjs/unitconv/internal/detect"
	"github.com/saadjs/unitconv/internal/service"
	"github.com/saadjs/unitconv/internal/units"
	"github.com/spf13/cobra"
)

var (
	detectJSON      bool
	detectSelection bool
)

var detectCmd = &cobra.Command{
	Use:   "detect [text...]",
	Short: "List the quantities found in text (reads stdin when no text is given)",
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := inputText(cmd, args)
		if err != nil {
			return err
		}
		found := []detect.Detection{}
		if !detectSelection || !service.SelectionTooLong(text) {
			found = detect.Detect(text)
		}

		out := cmd.OutOrStdout()
		if detectJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			enc.SetEscapeHTML(false)
			return enc.Encode(found)
		}
		if len(found) == 0 {
			fmt.Fprintln(out, "No quantities found")
			return nil
		}
		fmt.Fprintln(out, "VALUE\tUNIT\tCATEGORY\tMATCH\tOFFSET")
		for _, d := range found {
			fmt.Fprintf(out, "%s\t%s\t%s\t%s\t%d-%d\n",
				strconv.FormatFloat(d.Value, 'g', -1, 64), d.UnitCode, d.Category, d.FullMatch, d.Start, d.End)
		}
		return nil
	},
}

// inputText joins args, or reads all of stdin when there are none.
func inputText(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	b, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(b), nil
}

func unitLabel(c units.Category, code string) string {
	u, err := units.Lookup(c, code)
	if err != nil {
		return code
	}
	return u.Label
}

func init() {
	rootCmd.AddCommand(detectCmd)
	detectCmd.Flags().BoolVar(&detectJSON, "json", false, "Print detections as JSON")
	detectCmd.Flags().BoolVar(&detectSelection, "selection", false, "Treat the input as a selection and ignore it when it is too long")
}
