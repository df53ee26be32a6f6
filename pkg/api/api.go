// Package api wraps the backend HTTP endpoints. Methods return backend
// records; mapping them to view models is left to package transform.
package api

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-resty/resty/v2"
	"github.com/hindiconfession/cli/pkg/logger"
	json "github.com/json-iterator/go"
)

// listKeys are the envelope fields that may hold the items of a list.
var listKeys = []string{"posts", "comments", "communities", "items", "data"}

// API is a thin client over the backend.
type API struct {
	http *resty.Client
}

// New wraps an HTTP client created by package client.
func New(c *resty.Client) *API {
	return &API{http: c}
}

func (a *API) request(ctx context.Context) *resty.Request {
	return a.http.R().SetContext(ctx)
}

// FetchList fetches one page of any list endpoint. endpoint may already
// carry query parameters such as a sort order.
func (a *API) FetchList(ctx context.Context, endpoint string, page, limit int) (RawList, error) {
	logger.Debug("Fetching list", "endpoint", endpoint, "page", page, "limit", limit)

	resp, err := a.request(ctx).
		SetQueryParams(map[string]string{
			"page":  strconv.Itoa(page),
			"limit": strconv.Itoa(limit),
		}).
		Get(endpoint)
	if err := CheckResponse(resp, err); err != nil {
		return RawList{}, err
	}

	return decodeList(resp.Body())
}

func decodeList(body []byte) (RawList, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return RawList{}, fmt.Errorf("failed to decode list: %w", err)
	}

	var out RawList
	if raw, ok := envelope["pagination"]; ok {
		if err := json.Unmarshal(raw, &out.Pagination); err != nil {
			return RawList{}, fmt.Errorf("failed to decode pagination: %w", err)
		}
	}

	for _, key := range listKeys {
		raw, ok := envelope[key]
		if !ok {
			continue
		}
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			continue
		}
		out.Items = items
		break
	}
	if out.Items == nil {
		out.Items = []json.RawMessage{}
	}

	if out.Pagination.Limit == 0 {
		out.Pagination.Limit = len(out.Items)
	}
	return out, nil
}
