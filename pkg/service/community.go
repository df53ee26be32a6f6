package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/hindiconfession/cli/pkg/api"
	clierrors "github.com/hindiconfession/cli/pkg/errors"
	"github.com/hindiconfession/cli/pkg/formatter"
	"github.com/hindiconfession/cli/pkg/logger"
	"github.com/hindiconfession/cli/pkg/model"
	"github.com/hindiconfession/cli/pkg/output"
	"github.com/hindiconfession/cli/pkg/transform"
)

// CommunityService lists communities and tags
type CommunityService struct {
	deps *Deps
	feed *FeedService
}

// NewCommunityService creates a new community service
func NewCommunityService(deps *Deps) *CommunityService {
	return &CommunityService{deps: deps, feed: NewFeedService(deps)}
}

// ListCommunities prints every community
func (cs *CommunityService) ListCommunities(ctx context.Context) error {
	records, err := cs.deps.API.GetCommunities(ctx)
	if err != nil {
		return err
	}
	communities := transform.Communities(records)

	rows := make([][]string, 0, len(communities))
	for _, c := range communities {
		name := c.Name
		if c.IsNsfw {
			name += " (18+)"
		}
		rows = append(rows, []string{
			c.Slug,
			name,
			fmt.Sprintf("%d", c.PostCount),
			fmt.Sprintf("%d", c.MemberCount),
			formatter.Truncate(c.Description, 50),
		})
	}
	if len(rows) == 0 && output.GetOutputFormat() != output.FormatJSON {
		fmt.Fprintln(output.Writer(), "No communities found.")
		return nil
	}
	return output.PrintList(communities, []string{"SLUG", "NAME", "POSTS", "MEMBERS", "ABOUT"}, rows)
}

// ViewCommunity shows a community and lists its posts. An unknown
// community falls back to the default feed.
func (cs *CommunityService) ViewCommunity(ctx context.Context, slug string, opts BrowseOptions) error {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return clierrors.ValidationError("community", "slug is required")
	}

	record, err := cs.deps.API.GetCommunity(ctx, slug)
	if err != nil {
		if clierrors.IsType(err, clierrors.ErrorTypeNotFound) {
			logger.Warn("Community not found, showing default feed", "slug", slug)
			formatter.PrintWarning("Community %q not found, showing the main feed instead", slug)
			return cs.feed.ViewFeed(ctx, api.FilterDefault, opts)
		}
		return err
	}

	community := transform.Community(*record)
	if community.IsNsfw {
		if err := NewAuthService(cs.deps).RequireAge(); err != nil {
			return err
		}
	}
	if output.GetOutputFormat() != output.FormatJSON {
		writeCommunity(output.Writer(), community)
	}

	return cs.feed.Browse(ctx, community.Name, api.CommunityPostsEndpoint(community.Slug), opts)
}

func writeCommunity(w io.Writer, c model.Community) {
	formatter.Bold.Fprintf(w, "%s", c.Name)
	formatter.Faint.Fprintf(w, "  /%s\n", c.Slug)
	if c.Description != "" {
		fmt.Fprintln(w, c.Description)
	}
	formatter.Faint.Fprintf(w, "%d posts · %d members\n", c.PostCount, c.MemberCount)
}

// ListTags prints the tags offered by the backend
func (cs *CommunityService) ListTags(ctx context.Context) error {
	tags, err := cs.deps.API.GetTags(ctx)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(tags))
	for _, t := range tags {
		rows = append(rows, []string{"#" + t.Slug, t.Name, fmt.Sprintf("%.0f", t.Count)})
	}
	return output.PrintList(tags, []string{"TAG", "NAME", "POSTS"}, rows)
}
