package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iliyamo/clothing-store/internal/repository"
	"github.com/iliyamo/clothing-store/internal/service"
)

var adminFlags service.Registration

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an admin account or promote an existing customer",
	Long: `Create an admin account with the given email and password. If a
customer with that email already exists it is promoted to admin and its
password is left unchanged. The HTTP API never grants the admin role.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.Close()

		customers := repository.NewCustomerRepo(rt.db)
		auth := service.NewAuthService(customers, rt.cfg)
		id, created, err := service.NewCustomerService(customers, auth, rt.log).EnsureAdmin(cmd.Context(), adminFlags)
		if err != nil {
			return err
		}
		if created {
			fmt.Fprintf(cmd.OutOrStdout(), "admin %s created (id %d)\n", adminFlags.Email, id)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "customer %d promoted to admin\n", id)
		}
		return nil
	},
}

func init() {
	f := createAdminCmd.Flags()
	f.StringVar(&adminFlags.Email, "email", "", "admin email address")
	f.StringVar(&adminFlags.Password, "password", "", "password for a new account")
	f.StringVar(&adminFlags.FirstName, "first-name", "Store", "first name for a new account")
	f.StringVar(&adminFlags.LastName, "last-name", "Admin", "last name for a new account")
	_ = createAdminCmd.MarkFlagRequired("email")
	rootCmd.AddCommand(createAdminCmd)
}
