package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage the stored bearer token",
	Long: `Writes the token used for the sessions endpoint to the configured store
(auth.token_file or auth.redis_addr). With auth.token_key set, the token is
stored encrypted.`,
}

var tokenSetCmd = &cobra.Command{
	Use:   "set <token>",
	Short: "Store a bearer token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		token := strings.TrimSpace(args[0])
		if token == "" {
			return fmt.Errorf("token must not be blank")
		}
		return storeToken(cmd, token)
	},
}

var tokenClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the stored bearer token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return storeToken(cmd, "")
	},
}

func storeToken(cmd *cobra.Command, token string) error {
	app, err := loadApp(cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	store, err := app.TokenStore()
	if err != nil {
		return err
	}
	if err := store.Store(cmd.Context(), token); err != nil {
		return err
	}
	if token == "" {
		fmt.Fprintln(cmd.OutOrStdout(), "Token cleared.")
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), "Token stored.")
	}
	return nil
}

func init() {
	rootCmd.AddCommand(tokenCmd)
	tokenCmd.AddCommand(tokenSetCmd)
	tokenCmd.AddCommand(tokenClearCmd)
}
