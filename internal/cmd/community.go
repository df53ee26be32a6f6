package cmd

import (
	"github.com/hindiconfession/cli/pkg/service"
	"github.com/spf13/cobra"
)

var (
	communityPage        int
	communityInteractive bool
)

var communityCmd = &cobra.Command{
	Use:     "community",
	Aliases: []string{"communities"},
	Short:   "Browse communities",
}

var communityListCmd = &cobra.Command{
	Use:   "list",
	Short: "List communities",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := appDeps(cmd)
		if err != nil {
			return err
		}
		return service.NewCommunityService(d).ListCommunities(cmd.Context())
	},
}

var communityShowCmd = &cobra.Command{
	Use:   "show <slug>",
	Short: "Show a community and its confessions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := appDeps(cmd)
		if err != nil {
			return err
		}
		opts := service.BrowseOptions{Page: communityPage, Interactive: communityInteractive}
		return service.NewCommunityService(d).ViewCommunity(cmd.Context(), args[0], opts)
	},
}

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "List tags",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := appDeps(cmd)
		if err != nil {
			return err
		}
		return service.NewCommunityService(d).ListTags(cmd.Context())
	},
}

func init() {
	communityShowCmd.Flags().IntVar(&communityPage, "page", 1, "Page number")
	communityShowCmd.Flags().BoolVarP(&communityInteractive, "interactive", "i", false, "Keep paging interactively")

	communityCmd.AddCommand(communityListCmd)
	communityCmd.AddCommand(communityShowCmd)
}
