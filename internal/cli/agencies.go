package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var agenciesCmd = &cobra.Command{
	Use:   "agencies",
	Short: "List every known agency",
	RunE: func(cmd *cobra.Command, args []string) error {
		an, client, _, _, err := newEngine()
		if err != nil {
			return err
		}
		defer client.Close()

		names, err := an.AgencyNames(cmd.Context())
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(agenciesCmd)
}
