package cmd

import (
	"github.com/hindiconfession/cli/pkg/api"
	"github.com/hindiconfession/cli/pkg/config"
	"github.com/hindiconfession/cli/pkg/service"
	"github.com/spf13/cobra"
)

var (
	feedPage        int
	feedPageSize    int
	feedInteractive bool
	tagSort         string
	kahaniyaSort    string
)

func browseOptions() service.BrowseOptions {
	return service.BrowseOptions{Page: feedPage, Interactive: feedInteractive}
}

func feedService(cmd *cobra.Command) (*service.FeedService, error) {
	if feedPageSize > 0 {
		config.Set("feed.page_size", feedPageSize)
	}
	d, err := appDeps(cmd)
	if err != nil {
		return nil, err
	}
	return service.NewFeedService(d), nil
}

var feedCmd = &cobra.Command{
	Use:       "feed [latest|trending|relatable|commented|night]",
	Short:     "Browse confessions",
	Long:      "Browse the confession feed. Without a filter the default feed is shown.",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: api.FeedFilters,
	RunE: func(cmd *cobra.Command, args []string) error {
		fs, err := feedService(cmd)
		if err != nil {
			return err
		}
		filter := api.FilterDefault
		if len(args) == 1 {
			filter = args[0]
		}
		return fs.ViewFeed(cmd.Context(), filter, browseOptions())
	},
}

var feedTagCmd = &cobra.Command{
	Use:   "tag <tag>",
	Short: "Browse confessions with a tag",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fs, err := feedService(cmd)
		if err != nil {
			return err
		}
		return fs.ViewTag(cmd.Context(), args[0], tagSort, browseOptions())
	},
}

var feedKahaniyaCmd = &cobra.Command{
	Use:   "kahaniya",
	Short: "Browse long-form stories",
	RunE: func(cmd *cobra.Command, args []string) error {
		fs, err := feedService(cmd)
		if err != nil {
			return err
		}
		return fs.ViewKahaniya(cmd.Context(), kahaniyaSort, browseOptions())
	},
}

func init() {
	feedCmd.PersistentFlags().IntVar(&feedPage, "page", 1, "Page number")
	feedCmd.PersistentFlags().IntVar(&feedPageSize, "page-size", 0, "Posts per page (default from config)")
	feedCmd.PersistentFlags().BoolVarP(&feedInteractive, "interactive", "i", false, "Keep paging interactively")

	feedTagCmd.Flags().StringVar(&tagSort, "sort", "latest", "Sort: latest, trending, top")
	feedKahaniyaCmd.Flags().StringVar(&kahaniyaSort, "sort", "trending", "Sort: trending, latest, relatable, hot")

	feedCmd.AddCommand(feedTagCmd)
	feedCmd.AddCommand(feedKahaniyaCmd)
}
