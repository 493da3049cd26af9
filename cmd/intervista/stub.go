package main

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/aretw0/intervista/internal/cli"
	"github.com/aretw0/intervista/internal/logging"
	"github.com/aretw0/intervista/internal/stub"
)

var stubCmd = &cobra.Command{
	Use:   "stub",
	Short: "Run the development backend",
	Long: `Serves the practice API from a fixed question bank under /api/, plus
/openapi.yaml and /metrics. Useful for local development and demos.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Stub.Addr = addr
		}
		tokens, _ := cmd.Flags().GetStringSlice("token")

		level, err := logging.ParseLevel(cfg.Log.Level)
		if err != nil {
			return err
		}
		if debug, _ := cmd.Flags().GetBool("debug"); debug {
			level = slog.LevelDebug
		}
		logger := logging.New(level)

		opts := []stub.Option{stub.WithLogger(logger), stub.WithTokens(tokens...)}
		if cfg.Stub.Bank != "" {
			bank, err := stub.LoadBank(cfg.Stub.Bank)
			if err != nil {
				return err
			}
			opts = append(opts, stub.WithBank(bank))
		}

		srv := &http.Server{
			Addr:    cfg.Stub.Addr,
			Handler: stub.New(opts...).Handler(),
		}

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		fmt.Fprintf(cmd.OutOrStdout(), "Stub backend on http://localhost%s/api/\n", cfg.Stub.Addr)
		return listen(sigCtx, srv)
	},
}

func init() {
	rootCmd.AddCommand(stubCmd)
	stubCmd.Flags().String("addr", "", "Address to listen on (overrides stub.addr)")
	stubCmd.Flags().StringSlice("token", nil, "Accept only these bearer tokens on sessions/")
}
