package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/hindiconfession/cli/pkg/logger"
)

func reactionPath(postID string) string {
	return "/reactions/post/" + url.PathEscape(postID)
}

// React sets the caller's reaction on a post, replacing any previous one
func (a *API) React(ctx context.Context, postID, reactionType string) error {
	logger.Debug("Reacting to post", "post_id", postID, "reaction", reactionType)

	resp, err := a.request(ctx).
		SetBody(ReactRequest{ReactionType: reactionType}).
		SetResult(&ReactResponse{}).
		Post(reactionPath(postID))
	if err := CheckResponse(resp, err); err != nil {
		return fmt.Errorf("failed to react: %w", err)
	}
	return nil
}

// Unreact removes the caller's reaction from a post
func (a *API) Unreact(ctx context.Context, postID string) error {
	logger.Debug("Removing reaction", "post_id", postID)

	resp, err := a.request(ctx).
		Delete(reactionPath(postID))
	if err := CheckResponse(resp, err); err != nil {
		return fmt.Errorf("failed to remove reaction: %w", err)
	}
	return nil
}
