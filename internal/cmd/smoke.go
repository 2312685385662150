package cmd

import (
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/iliyamo/clothing-store/internal/smoke"
)

var smokeBaseURL string

var smokeCmd = &cobra.Command{
	Use:   "smoke",
	Short: "Exercise a running store over HTTP",
	Long: `Register a throwaway customer, log in, list products, place an order,
read the order history and check that an admin route answers 403. The store
must already have a catalog (see "seed"). Exits non-zero on the first failure.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := &smoke.Client{
			BaseURL: smokeBaseURL,
			HTTP:    &http.Client{Timeout: 10 * time.Second},
			Out:     cmd.OutOrStdout(),
		}
		return c.Run(cmd.Context())
	},
}

func init() {
	smokeCmd.Flags().StringVar(&smokeBaseURL, "base-url", "http://localhost:8080", "store base URL")
	rootCmd.AddCommand(smokeCmd)
}
