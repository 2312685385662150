package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iliyamo/clothing-store/internal/database"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the sample catalog into an empty store",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.Close()

		inserted, err := database.Seed(cmd.Context(), rt.db)
		if err != nil {
			return err
		}
		if !inserted {
			fmt.Fprintln(cmd.OutOrStdout(), "catalog already has categories, nothing to do")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), "sample catalog inserted")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
