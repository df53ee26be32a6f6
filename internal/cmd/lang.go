package cmd

import (
	"github.com/hindiconfession/cli/pkg/locale"
	"github.com/hindiconfession/cli/pkg/service"
	"github.com/spf13/cobra"
)

var langReset bool

var langCmd = &cobra.Command{
	Use:   "lang [hindi|english|punjabi]",
	Short: "Show or change the interface language",
	Long: `Without an argument, show the language in use. With one, change it:
logged-in users update their account, guests their local preference.`,
	Args: cobra.MaximumNArgs(1),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		names := make([]string, 0, len(locale.Languages))
		for _, l := range locale.Languages {
			names = append(names, string(l))
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := appDeps(cmd)
		if err != nil {
			return err
		}
		ls := service.NewLanguageService(d)
		if langReset {
			return ls.Reset(cmd.Context())
		}
		if len(args) == 0 {
			return ls.Show(cmd.Context())
		}
		return ls.Set(cmd.Context(), args[0])
	},
}

func init() {
	langCmd.Flags().BoolVar(&langReset, "reset", false, "Forget the guest language preference")
}
