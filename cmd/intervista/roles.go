package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var rolesCmd = &cobra.Command{
	Use:   "roles",
	Short: "List the job roles offered by the backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		roles, err := app.API.ListJobRoles(cmd.Context())
		if err != nil {
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(roles)
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTITLE\tDESCRIPTION")
		for _, r := range roles {
			fmt.Fprintf(w, "%d\t%s\t%s\n", r.ID, r.Title, r.Description)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(rolesCmd)
	rolesCmd.Flags().Bool("json", false, "Print roles as JSON")
}
