package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/intervista/internal/presentation/graph"
	"github.com/aretw0/intervista/pkg/practice"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the practice state machine as a diagram",
	Long:  `Outputs a Mermaid diagram (graph TD) of the practice session transitions.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(practice.Transitions(), nil))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
