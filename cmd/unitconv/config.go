package unitconv

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/saadjs/unitconv/internal/service"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage unitconv preferences",
}

var (
	cfgDecimalPlaces int
	cfgShowAll       bool
	cfgTop           int
	cfgTheme         string

	cfgFormat  string
	cfgOut     string
	cfgIn      string
	cfgHistory bool
	cfgMode    string
	cfgDryRun  bool
)

var configSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set preference values",
	RunE: func(cmd *cobra.Command, args []string) error {
		updates := map[string]string{}
		if cmd.Flags().Changed("decimal-places") {
			updates[service.ConfigDecimalPlaces] = strconv.Itoa(cfgDecimalPlaces)
		}
		if cmd.Flags().Changed("show-all") {
			updates[service.ConfigShowAllConversions] = strconv.FormatBool(cfgShowAll)
		}
		if cmd.Flags().Changed("top") {
			updates[service.ConfigTopConversions] = strconv.Itoa(cfgTop)
		}
		if cmd.Flags().Changed("theme") {
			updates[service.ConfigTheme] = cfgTheme
		}
		if len(updates) == 0 {
			return fmt.Errorf("set at least one flag")
		}
		return withDB(func(sqldb *sql.DB) error {
			for key, value := range updates {
				if err := service.SetConfig(sqldb, key, value); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %d config value(s)\n", len(updates))
			return nil
		})
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Show current configuration",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			if len(args) == 1 {
				value, ok, err := service.GetConfig(sqldb, args[0])
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("config key %q is not set", args[0])
				}
				fmt.Fprintln(cmd.OutOrStdout(), value)
				return nil
			}
			cfg, err := service.ListConfig(sqldb)
			if err != nil {
				return err
			}
			keys := make([]string, 0, len(cfg))
			for k := range cfg {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintln(cmd.OutOrStdout(), "KEY\tVALUE")
			for _, k := range keys {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", k, cfg[k])
			}
			return nil
		})
	},
}

var configExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export preferences (and optionally history) as json or yaml",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := service.ParseExportFormat(cfgFormat)
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			snap, err := service.ExportSnapshot(sqldb, cfgHistory)
			if err != nil {
				return err
			}
			if strings.TrimSpace(cfgOut) == "" || cfgOut == "-" {
				return service.EncodeSnapshot(cmd.OutOrStdout(), snap, format)
			}
			f, err := os.Create(cfgOut)
			if err != nil {
				return fmt.Errorf("create export file: %w", err)
			}
			if err := service.EncodeSnapshot(f, snap, format); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("close export file: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported preferences to %s\n", cfgOut)
			return nil
		})
	},
}

var configImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import preferences (and history) from json or yaml",
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(cfgIn) == "" {
			return fmt.Errorf("--in is required")
		}
		format, err := service.ParseExportFormat(cfgFormat)
		if err != nil {
			return err
		}
		var r io.Reader = cmd.InOrStdin()
		if cfgIn != "-" {
			f, err := os.Open(cfgIn)
			if err != nil {
				return fmt.Errorf("read import file: %w", err)
			}
			defer f.Close()
			r = f
		}
		snap, err := service.DecodeSnapshot(r, format)
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			report, err := service.ImportSnapshot(sqldb, snap, service.ImportOptions{
				Mode:   service.ImportMode(cfgMode),
				DryRun: cfgDryRun,
			})
			if err != nil {
				return err
			}
			prefix := "Imported"
			if cfgDryRun {
				prefix = "Dry run"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: inserted=%d updated=%d skipped=%d conflicts=%d\n",
				prefix, report.Inserted, report.Updated, report.Skipped, report.Conflicts)
			for _, w := range report.Warnings {
				fmt.Fprintf(cmd.OutOrStdout(), "warning: %s\n", w)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configSetCmd, configGetCmd, configExportCmd, configImportCmd)

	configSetCmd.Flags().IntVar(&cfgDecimalPlaces, "decimal-places", 2, "Decimal places for small values")
	configSetCmd.Flags().BoolVar(&cfgShowAll, "show-all", true, "Show every conversion instead of the top N")
	configSetCmd.Flags().IntVar(&cfgTop, "top", service.DefaultTopConversions, "Number of conversions shown when --show-all=false")
	configSetCmd.Flags().StringVar(&cfgTheme, "theme", service.DefaultTheme, "Theme hint for clients (auto, light, dark)")

	for _, c := range []*cobra.Command{configExportCmd, configImportCmd} {
		c.Flags().StringVar(&cfgFormat, "format", "json", "File format (json or yaml)")
	}
	configExportCmd.Flags().StringVar(&cfgOut, "out", "", "Output file (default stdout)")
	configExportCmd.Flags().BoolVar(&cfgHistory, "history", false, "Include conversion history")
	configImportCmd.Flags().StringVar(&cfgIn, "in", "", "Input file (- for stdin)")
	configImportCmd.Flags().StringVar(&cfgMode, "mode", string(service.ImportModeFail), "Conflict mode for history: fail, skip, merge, replace")
	configImportCmd.Flags().BoolVar(&cfgDryRun, "dry-run", false, "Validate without writing")
}
