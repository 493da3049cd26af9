package main

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/intervista"
	"github.com/aretw0/intervista/internal/cli"
	"github.com/aretw0/intervista/internal/presentation/tui"
	"github.com/aretw0/intervista/pkg/domain"
)

var practiceCmd = &cobra.Command{
	Use:   "practice [role]",
	Short: "Start an interactive practice session",
	Long: `Runs the practice loop on stdin/stdout.

Commands: /start, /new, /reset, /save, /role <title>, /quit.
Any other line is submitted as the answer to the current question.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()
		app.ServeMetrics()

		var role *domain.JobRole
		if len(args) == 1 {
			role = &domain.JobRole{Title: args[0]}
		}
		ctrl := app.Controller(role)
		defer ctrl.Close()

		in, out := cmd.InOrStdin(), cmd.OutOrStdout()
		opts := cli.PracticeOptions{In: in, Out: out, Render: tui.PlainRenderer}
		if isTerminal(in) && isTerminal(out) {
			tui.PrintBanner(out, intervista.Version)
			opts.Render = tui.NewRenderer()
			opts.Prompt = "> "
		}

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		err = cli.RunPractice(sigCtx, ctrl, opts)
		if sigCtx.Signal() != nil && errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && cli.IsInteractive(f)
}

func init() {
	rootCmd.AddCommand(practiceCmd)
}
