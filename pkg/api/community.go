package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/hindiconfession/cli/pkg/logger"
)

// GetCommunities lists every community
func (a *API) GetCommunities(ctx context.Context) ([]CommunityRecord, error) {
	logger.Debug("Fetching communities")

	var response CommunitiesResponse
	resp, err := a.request(ctx).
		SetResult(&response).
		Get("/communities")
	if err := CheckResponse(resp, err); err != nil {
		return nil, fmt.Errorf("failed to fetch communities: %w", err)
	}

	return response.Communities, nil
}

// GetCommunity fetches a single community by slug
func (a *API) GetCommunity(ctx context.Context, slug string) (*CommunityRecord, error) {
	logger.Debug("Fetching community", "slug", slug)

	var response CommunityResponse
	resp, err := a.request(ctx).
		SetResult(&response).
		Get("/communities/" + url.PathEscape(slug))
	if err := CheckResponse(resp, err); err != nil {
		return nil, fmt.Errorf("failed to fetch community %s: %w", slug, err)
	}

	return &response.Community, nil
}

// GetTags lists the tags offered in the feed and the create form
func (a *API) GetTags(ctx context.Context) ([]TagRecord, error) {
	logger.Debug("Fetching tags")

	var response TagsResponse
	resp, err := a.request(ctx).
		SetResult(&response).
		Get("/feed/tags")
	if err := CheckResponse(resp, err); err != nil {
		return nil, fmt.Errorf("failed to fetch tags: %w", err)
	}

	return response.Tags, nil
}
