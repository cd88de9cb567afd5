package unitconv

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/saadjs/unitconv/internal/message"
	"github.com/saadjs/unitconv/internal/service"
	"github.com/spf13/cobra"
)

var bridgeQuiet bool

var bridgeCmd = &cobra.Command{
	Use:   "bridge",
	Short: "Answer newline-delimited JSON messages on stdin/stdout",
	Long: "bridge reads one JSON message per line (CONVERT_UNITS, DETECT_UNITS, GET_PREFERENCES, SET_PREFERENCES)\n" +
		"and writes one JSON response per line. Diagnostics go to stderr.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger := log.New(cmd.ErrOrStderr(), "unitconv-bridge: ", log.LstdFlags)
		if bridgeQuiet {
			logger = nil
		}
		return withDB(func(sqldb *sql.DB) error {
			h := message.NewHandler(service.NewStore(sqldb))
			err := message.ServeLines(ctx, h, cmd.InOrStdin(), cmd.OutOrStdout(), logger)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	},
}

func init() {
	rootCmd.AddCommand(bridgeCmd)
	bridgeCmd.Flags().BoolVar(&bridgeQuiet, "quiet", false, "Do not log to stderr")
}
