package cmd

import (
	"github.com/hindiconfession/cli/pkg/locale"
	"github.com/hindiconfession/cli/pkg/service"
	"github.com/spf13/cobra"
)

var reactCmd = &cobra.Command{
	Use:   "react <post-id> <reaction>",
	Short: "React to a confession",
	Long: `React to a confession. Reacting again with the same reaction removes it.
Run 'confession-cli reactions' to list the reactions.`,
	Args: cobra.ExactArgs(2),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) == 1 {
			return locale.ReactionTypes, cobra.ShellCompDirectiveNoFileComp
		}
		return nil, cobra.ShellCompDirectiveNoFileComp
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := appDeps(cmd)
		if err != nil {
			return err
		}
		return service.NewReactionService(d).React(cmd.Context(), args[0], args[1])
	},
}

var unreactCmd = &cobra.Command{
	Use:   "unreact <post-id>",
	Short: "Remove your reaction from a confession",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := appDeps(cmd)
		if err != nil {
			return err
		}
		return service.NewReactionService(d).Unreact(cmd.Context(), args[0])
	},
}

var reactionsCmd = &cobra.Command{
	Use:   "reactions",
	Short: "List the available reactions",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := appDeps(cmd)
		if err != nil {
			return err
		}
		service.NewReactionService(d).Legend(cmd.Context())
		return nil
	},
}
