package cmd

import (
	"github.com/hindiconfession/cli/pkg/compose"
	"github.com/hindiconfession/cli/pkg/service"
	"github.com/spf13/cobra"
)

var (
	commentsPage    int
	postForm        compose.Form
	postImages      []string
	postInteractive bool
)

var postCmd = &cobra.Command{
	Use:   "post",
	Short: "Read and write confessions",
}

var postShowCmd = &cobra.Command{
	Use:   "show <post-id>",
	Short: "Show a confession with its comments",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := appDeps(cmd)
		if err != nil {
			return err
		}
		return service.NewPostService(d).ViewPost(cmd.Context(), args[0])
	},
}

var postCommentsCmd = &cobra.Command{
	Use:   "comments <post-id>",
	Short: "List the comments of a confession",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := appDeps(cmd)
		if err != nil {
			return err
		}
		return service.NewPostService(d).BrowseComments(cmd.Context(), args[0], commentsPage)
	},
}

var postCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Post a new confession",
	Long: `Post a new confession. Missing required fields are prompted for with
--interactive. Everything is validated before anything is sent, and you
are asked to log in first if needed.`,
	Example: `  confession-cli post create -i
  confession-cli post create --title "Ek raaz" --content "..." --tag pyaar --tag dosti`,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := appDeps(cmd)
		if err != nil {
			return err
		}
		ps := service.NewPostService(d)

		form := postForm
		for _, path := range postImages {
			img, err := compose.LoadImage(path)
			if err != nil {
				return err
			}
			form.Images = append(form.Images, img)
		}
		if postInteractive {
			if err := ps.ComposeInteractive(&form); err != nil {
				return err
			}
		}
		return ps.CreatePost(cmd.Context(), form)
	},
}

func init() {
	postCommentsCmd.Flags().IntVar(&commentsPage, "page", 1, "Page number")

	f := postCreateCmd.Flags()
	f.StringVar(&postForm.Title, "title", "", "Title")
	f.StringVar(&postForm.Content, "content", "", "Confession text")
	f.StringSliceVar(&postForm.Tags, "tag", nil, "Tag (1 to 3, repeatable)")
	f.StringVar(&postForm.NsfwLevel, "nsfw", "", "Content level: normal, spicy, explicit")
	f.StringVar(&postForm.AdviceMode, "advice", "", "just-sharing or want-advice")
	f.StringVar(&postForm.ExpiryOption, "expiry", "", "Expiry: never, 24h, 7d, 30d")
	f.StringVar(&postForm.Mood, "mood", "", "Mood: horny, lonely, guilty, curious, happy")
	f.StringVar(&postForm.AuthorAlias, "alias", "", "Name to show instead of Anonymous")
	f.StringVar(&postForm.CommunityID, "community", "", "Community id")
	f.StringSliceVar(&postImages, "image", nil, "Image file to attach (up to 4, repeatable)")
	f.BoolVarP(&postInteractive, "interactive", "i", false, "Prompt for missing fields")

	_ = postCreateCmd.RegisterFlagCompletionFunc("nsfw", cobra.FixedCompletions(compose.NsfwLevels, cobra.ShellCompDirectiveNoFileComp))
	_ = postCreateCmd.RegisterFlagCompletionFunc("advice", cobra.FixedCompletions(compose.AdviceModes, cobra.ShellCompDirectiveNoFileComp))
	_ = postCreateCmd.RegisterFlagCompletionFunc("expiry", cobra.FixedCompletions(compose.ExpiryOptions, cobra.ShellCompDirectiveNoFileComp))
	_ = postCreateCmd.RegisterFlagCompletionFunc("mood", cobra.FixedCompletions(compose.Moods, cobra.ShellCompDirectiveNoFileComp))

	postCmd.AddCommand(postShowCmd)
	postCmd.AddCommand(postCommentsCmd)
	postCmd.AddCommand(postCreateCmd)
}
