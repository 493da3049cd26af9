package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/intervista/internal/cli"
	"github.com/aretw0/intervista/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "intervista",
	Short: "Intervista is an interview practice client",
	Long: `Intervista lets you practice job interviews: pick a role, answer
generated questions, and read feedback on your answers.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().String("env-file", ".env", "Path to a .env file (ignored when missing)")
	rootCmd.PersistentFlags().String("api", "", "Backend base URL (overrides api.base_url)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging to stderr")
}

// loadConfig resolves the layered configuration plus command-line overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	file, _ := cmd.Flags().GetString("config")
	envFile, _ := cmd.Flags().GetString("env-file")

	cfg, err := config.Load(config.Options{File: file, EnvFile: envFile})
	if err != nil {
		return cfg, err
	}
	if apiURL, _ := cmd.Flags().GetString("api"); apiURL != "" {
		cfg.API.BaseURL = apiURL
	}
	return cfg, nil
}

// loadApp builds the shared collaborators for commands talking to the backend.
func loadApp(cmd *cobra.Command) (*cli.App, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	debug, _ := cmd.Flags().GetBool("debug")
	return cli.NewApp(cfg, debug)
}
