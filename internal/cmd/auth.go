package cmd

import (
	"github.com/hindiconfession/cli/pkg/service"
	"github.com/hindiconfession/cli/pkg/session"
	"github.com/spf13/cobra"
)

var (
	loginUsername string
	loginPassword string
	prefTheme     string
	prefShowNsfw  bool
	ageYes        bool
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authentication commands",
	Long:  "Log in and out of Hindi Confession and manage your preferences",
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to Hindi Confession",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := appDeps(cmd)
		if err != nil {
			return err
		}
		return service.NewAuthService(d).Login(cmd.Context(), loginUsername, loginPassword)
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := appDeps(cmd)
		if err != nil {
			return err
		}
		return service.NewAuthService(d).Logout()
	},
}

var statusCmd = &cobra.Command{
	Use:     "status",
	Aliases: []string{"whoami", "me"},
	Short:   "Show the current session",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := appDeps(cmd)
		if err != nil {
			return err
		}
		return service.NewAuthService(d).Status(cmd.Context())
	},
}

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Update your theme and adult content preference",
	Example: `  confession-cli auth prefs --theme dark
  confession-cli auth prefs --show-nsfw=false`,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := appDeps(cmd)
		if err != nil {
			return err
		}

		var update session.UserUpdate
		if cmd.Flags().Changed("theme") {
			theme := session.Theme(prefTheme)
			update.Theme = &theme
		}
		if cmd.Flags().Changed("show-nsfw") {
			update.ShowNsfw = &prefShowNsfw
		}
		return service.NewAuthService(d).UpdatePreferences(update)
	},
}

var ageCmd = &cobra.Command{
	Use:   "age",
	Short: "Age verification",
}

var ageVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Confirm you are 18 or older to see adult confessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := appDeps(cmd)
		if err != nil {
			return err
		}
		return service.NewAuthService(d).VerifyAge(ageYes)
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "Username (prompted when omitted)")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Password (prompted when omitted)")

	prefsCmd.Flags().StringVar(&prefTheme, "theme", "", "Theme: light or dark")
	prefsCmd.Flags().BoolVar(&prefShowNsfw, "show-nsfw", false, "Show adult confessions once age is verified")
	_ = prefsCmd.RegisterFlagCompletionFunc("theme", cobra.FixedCompletions(
		[]string{string(session.ThemeLight), string(session.ThemeDark)}, cobra.ShellCompDirectiveNoFileComp))

	ageVerifyCmd.Flags().BoolVarP(&ageYes, "yes", "y", false, "Confirm without prompting")

	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(statusCmd)
	authCmd.AddCommand(prefsCmd)

	ageCmd.AddCommand(ageVerifyCmd)
}
