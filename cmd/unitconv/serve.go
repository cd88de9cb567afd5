package unitconv

import (
	"database/sql"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/saadjs/unitconv/internal/message"
	"github.com/saadjs/unitconv/internal/server"
	"github.com/saadjs/unitconv/internal/service"
	"github.com/spf13/cobra"
)

const defaultAddr = "127.0.0.1:8059"

var (
	serveAddr    string
	serveOrigins string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the conversion API over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := serveAddr
		if !cmd.Flags().Changed("addr") {
			addr = getEnv("UNITCONV_ADDR", defaultAddr)
		}
		origins := serveOrigins
		if !cmd.Flags().Changed("allowed-origins") {
			origins = getEnv("UNITCONV_ALLOWED_ORIGINS", "")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger := log.New(cmd.ErrOrStderr(), "unitconv: ", log.LstdFlags)
		return withDB(func(sqldb *sql.DB) error {
			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return fmt.Errorf("listen on %s: %w", addr, err)
			}
			router := server.NewRouter(message.NewHandler(service.NewStore(sqldb)), server.Options{
				AllowedOrigins: splitList(origins),
				Version:        version,
				Logger:         logger,
			})
			return server.Run(ctx, ln, router, logger)
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", defaultAddr, "Listen address (default $UNITCONV_ADDR or "+defaultAddr+")")
	serveCmd.Flags().StringVar(&serveOrigins, "allowed-origins", "", "Comma-separated CORS origins (default $UNITCONV_ALLOWED_ORIGINS)")
}
