package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/intervista/internal/cli"
	httpAdapter "github.com/aretw0/intervista/pkg/adapters/http"
)

// listen runs srv until ctx is cancelled, then shuts it down gracefully.
func listen(ctx context.Context, srv *http.Server) error {
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		// Give outstanding requests a deadline for completion.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			_ = srv.Close()
			return fmt.Errorf("graceful shutdown did not complete in %v: %w", 5*time.Second, err)
		}
		return nil
	}
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Expose a practice session over HTTP",
	Long: `Serves one practice session as a JSON API with a Server-Sent Events stream
of session changes, for browser or editor front ends.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")

		app, err := loadApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()
		app.ServeMetrics()

		ctrl := app.Controller(nil)
		defer ctrl.Close()

		srv := &http.Server{
			Addr:    addr,
			Handler: httpAdapter.NewHandler(ctrl, app.Logger),
		}

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		app.Logger.Info("practice server listening", "addr", addr, "backend", app.Config.API.BaseURL)
		fmt.Fprintf(cmd.OutOrStdout(), "Starting Intervista Server on %s\n", addr)
		if err := listen(sigCtx, srv); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Intervista Server stopped gracefully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":8080", "Address to listen on")
}
