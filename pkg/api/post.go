package api

import (
	"bytes"
	"context"
	"fmt"
	"net/url"

	"github.com/hindiconfession/cli/pkg/logger"
)

// ImageUpload is one image attached to a new post
type ImageUpload struct {
	FileName    string
	ContentType string
	Data        []byte
}

// CreatePostRequest holds the multipart fields of POST /posts
type CreatePostRequest struct {
	Title        string
	Content      string
	Tags         []string
	NsfwLevel    string
	AdviceMode   string
	ExpiryOption string
	Mood         string
	AuthorAlias  string
	CommunityID  string
	Images       []ImageUpload
}

// GetPost fetches a single post
func (a *API) GetPost(ctx context.Context, id string) (*PostRecord, error) {
	logger.Debug("Fetching post", "post_id", id)

	var response PostResponse
	resp, err := a.request(ctx).
		SetResult(&response).
		Get("/posts/" + url.PathEscape(id))
	if err := CheckResponse(resp, err); err != nil {
		return nil, fmt.Errorf("failed to fetch post %s: %w", id, err)
	}

	return &response.Post, nil
}

// GetComments fetches one page of comments under a post
func (a *API) GetComments(ctx context.Context, postID string, page, limit int) (*CommentsResponse, error) {
	logger.Debug("Fetching comments", "post_id", postID, "page", page)

	var response CommentsResponse
	resp, err := a.request(ctx).
		SetQueryParams(map[string]string{
			"page":  fmt.Sprintf("%d", page),
			"limit": fmt.Sprintf("%d", limit),
		}).
		SetResult(&response).
		Get(CommentsEndpoint(postID))
	if err := CheckResponse(resp, err); err != nil {
		return nil, fmt.Errorf("failed to fetch comments: %w", err)
	}

	return &response, nil
}

// CreatePost submits a new post as multipart form data and returns its id
func (a *API) CreatePost(ctx context.Context, req CreatePostRequest) (string, error) {
	logger.Debug("Creating post", "tags", req.Tags, "images", len(req.Images))

	fields := map[string]string{
		"title":        req.Title,
		"content":      req.Content,
		"nsfwLevel":    req.NsfwLevel,
		"adviceMode":   req.AdviceMode,
		"expiryOption": req.ExpiryOption,
	}
	if req.Mood != "" {
		fields["mood"] = req.Mood
	}
	if req.AuthorAlias != "" {
		fields["authorAlias"] = req.AuthorAlias
	}
	if req.CommunityID != "" {
		fields["communityId"] = req.CommunityID
	}

	var response CreatePostResponse
	r := a.request(ctx).
		SetMultipartFormData(fields).
		SetFormDataFromValues(url.Values{"tags[]": req.Tags}).
		SetResult(&response)
	for _, img := range req.Images {
		r.SetMultipartField("images", img.FileName, img.ContentType, bytes.NewReader(img.Data))
	}

	resp, err := r.Post("/posts")
	if err := CheckResponse(resp, err); err != nil {
		return "", fmt.Errorf("failed to create post: %w", err)
	}

	id := response.Post.ID
	if id == "" {
		id = response.Post.MongoID
	}
	return id, nil
}
