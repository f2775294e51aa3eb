package main

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"slosweep/internal/leaveapi"
	"slosweep/internal/logging"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the chaos-capable target endpoint",
	Long:  "serve starts the toy leave API whose responses can be delayed, failed, or made CPU-expensive via a chaos directive.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := logging.NewContext(cmd.Context(), newLogger())
		ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := leaveapi.NewServer()
		if err := srv.Start(ctx, serveAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Listen address for the leave API")
}
