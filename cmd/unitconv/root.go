package unitconv

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var dbPath string

var rootCmd = &cobra.Command{
	Use:   "unitconv",
	Short: "unitconv finds quantities in text and converts them between units",
	Long: "unitconv detects measurements such as \"5 km\" or \"98.6°F\" in free text and expands them into every other unit of their category.\n" +
		"It can also run as a newline-delimited JSON message host (bridge) or an HTTP API (serve).",
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to SQLite database (default $UNITCONV_DB or the user config dir)")
}
