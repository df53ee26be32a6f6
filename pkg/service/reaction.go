package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	clierrors "github.com/hindiconfession/cli/pkg/errors"
	"github.com/hindiconfession/cli/pkg/formatter"
	"github.com/hindiconfession/cli/pkg/locale"
	"github.com/hindiconfession/cli/pkg/model"
	"github.com/hindiconfession/cli/pkg/output"
	"github.com/hindiconfession/cli/pkg/reaction"
)

// ReactionService reacts to posts
type ReactionService struct {
	deps  *Deps
	auth  *AuthService
	posts *PostService
}

// NewReactionService creates a new reaction service
func NewReactionService(deps *Deps) *ReactionService {
	return &ReactionService{
		deps:  deps,
		auth:  NewAuthService(deps),
		posts: NewPostService(deps),
	}
}

// reactionResult is the JSON shape of a reaction change
type reactionResult struct {
	PostID    string         `json:"postId"`
	Selected  string         `json:"selected"`
	Counts    map[string]int `json:"reactionCounts"`
	Committed bool           `json:"committed"`
}

// React toggles reactionType on a post: the same reaction again removes it.
func (rs *ReactionService) React(ctx context.Context, postID, reactionType string) error {
	reactionType = strings.TrimSpace(reactionType)
	if !locale.IsReactionType(reactionType) {
		return clierrors.ValidationError("reaction",
			fmt.Sprintf("unknown reaction %q, expected one of %s", reactionType, strings.Join(locale.ReactionTypes, ", ")))
	}

	return rs.auth.Gate(ctx, func() error {
		post, err := rs.posts.fetchPost(ctx, postID)
		if err != nil {
			return err
		}
		return rs.apply(ctx, post, reactionType)
	})
}

// Unreact clears the current reaction on a post, if any
func (rs *ReactionService) Unreact(ctx context.Context, postID string) error {
	return rs.auth.Gate(ctx, func() error {
		post, err := rs.posts.fetchPost(ctx, postID)
		if err != nil {
			return err
		}
		if post.UserReaction == "" {
			formatter.PrintWarning("You have not reacted to this post")
			return nil
		}
		return rs.apply(ctx, post, post.UserReaction)
	})
}

// apply runs one toggle through a tracker and renders the settled state.
// A rejected change has already been rolled back when it is rendered.
func (rs *ReactionService) apply(ctx context.Context, post model.Post, reactionType string) error {
	tracker := reaction.ForPost(post, rs.deps.API)
	view, err := tracker.Apply(ctx, reactionType)
	lang := rs.deps.Locale.Current(ctx)

	result := reactionResult{
		PostID:    post.ID,
		Selected:  view.Selected,
		Counts:    view.Counts.Map(),
		Committed: view.Phase == reaction.Committed,
	}
	if renderErr := output.Render(result, func(w io.Writer) {
		formatter.Reactions(w, view.Counts, view.Selected, lang)
	}); renderErr != nil {
		return renderErr
	}

	if err != nil {
		formatter.PrintError("✗ Reaction reverted: %s", clierrors.UserMessage(err))
		return err
	}
	if view.Selected == "" {
		formatter.PrintSuccess("✓ Reaction removed")
	} else {
		formatter.PrintSuccess("✓ %s %s", locale.ReactionEmoji[view.Selected], locale.ReactionLabel(lang, view.Selected))
	}
	return nil
}

// Legend prints the accepted reaction names
func (rs *ReactionService) Legend(ctx context.Context) {
	formatter.ReactionLegend(output.Writer(), rs.deps.Locale.Current(ctx))
}
