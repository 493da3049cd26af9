package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/intervista"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of intervista",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "intervista version %s\n", strings.TrimSpace(intervista.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
