package cmd

import (
	"github.com/hindiconfession/cli/pkg/adminsession"
	"github.com/hindiconfession/cli/pkg/service"
	"github.com/spf13/cobra"
)

var (
	adminUsername string
	adminPassword string
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Admin panel session",
	Long:  "Manage the admin panel session. It is kept apart from your user session.",
}

var adminLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the admin panel",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := appDeps(cmd)
		if err != nil {
			return err
		}
		return service.NewAdminService(d).Login(cmd.Context(), adminUsername, adminPassword)
	},
}

var adminLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out of the admin panel",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := appDeps(cmd)
		if err != nil {
			return err
		}
		return service.NewAdminService(d).Logout()
	},
}

var adminStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the admin session and its permissions",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := appDeps(cmd)
		if err != nil {
			return err
		}
		return service.NewAdminService(d).Status()
	},
}

var adminCheckCmd = &cobra.Command{
	Use:   "check <permission>",
	Short: "Check whether the admin session holds a permission",
	Args:  cobra.ExactArgs(1),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		names := make([]string, 0, len(adminsession.AllPermissions))
		for _, p := range adminsession.AllPermissions {
			names = append(names, string(p))
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := appDeps(cmd)
		if err != nil {
			return err
		}
		return service.NewAdminService(d).Check(args[0])
	},
}

func init() {
	adminLoginCmd.Flags().StringVarP(&adminUsername, "username", "u", "", "Admin username (prompted when omitted)")
	adminLoginCmd.Flags().StringVarP(&adminPassword, "password", "p", "", "Password (prompted when omitted)")

	adminCmd.AddCommand(adminLoginCmd)
	adminCmd.AddCommand(adminLogoutCmd)
	adminCmd.AddCommand(adminStatusCmd)
	adminCmd.AddCommand(adminCheckCmd)
}
