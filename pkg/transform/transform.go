// Package transform maps backend records to view models. Every function is
// total: any record that decoded successfully maps to a value, with missing
// optional fields replaced by their zero defaults.
package transform

import (
	"bytes"
	"math"
	"strings"
	"time"

	"github.com/hindiconfession/cli/pkg/api"
	"github.com/hindiconfession/cli/pkg/model"
	json "github.com/json-iterator/go"
)

// AnonymousName is shown when a post has neither an alias nor an author name.
const AnonymousName = "Anonymous"

// Post maps a backend post record.
func Post(r api.PostRecord) model.Post {
	return model.Post{
		ID:           firstNonEmpty(r.ID, r.MongoID),
		Title:        r.Title,
		Content:      r.Content,
		Author:       author(r.Author, r.AuthorAlias),
		Community:    community(r.Community),
		Tags:         tags(r.Tags),
		Images:       images(r.Images),
		NsfwLevel:    firstNonEmpty(r.NsfwLevel, "normal"),
		AdviceMode:   firstNonEmpty(r.AdviceMode, "just-sharing"),
		Mood:         r.Mood,
		ExpiryOption: firstNonEmpty(r.ExpiryOption, "never"),
		ExpiresAt:    parseTime(r.ExpiresAt),
		Reactions:    reactionCounts(r.ReactionCounts),
		UserReaction: r.UserReaction,
		CommentCount: count(r.CommentCount),
		ViewCount:    count(r.ViewCount),
		CreatedAt:    parseTime(r.CreatedAt),
		UpdatedAt:    parseTime(r.UpdatedAt),
	}
}

// Posts maps a list of post records.
func Posts(rs []api.PostRecord) []model.Post {
	out := make([]model.Post, 0, len(rs))
	for _, r := range rs {
		out = append(out, Post(r))
	}
	return out
}

// Comment maps a backend comment record and its replies.
func Comment(r api.CommentRecord) model.Comment {
	c := model.Comment{
		ID:        firstNonEmpty(r.ID, r.MongoID),
		PostID:    refID(r.Post),
		ParentID:  refID(r.Parent),
		Content:   r.Content,
		Author:    author(r.Author, r.AuthorAlias),
		LikeCount: count(r.LikeCount),
		IsDeleted: r.IsDeleted,
		CreatedAt: parseTime(r.CreatedAt),
		Replies:   make([]model.Comment, 0, len(r.Replies)),
	}
	for _, reply := range r.Replies {
		c.Replies = append(c.Replies, Comment(reply))
	}
	return c
}

// Comments maps a list of comment records.
func Comments(rs []api.CommentRecord) []model.Comment {
	out := make([]model.Comment, 0, len(rs))
	for _, r := range rs {
		out = append(out, Comment(r))
	}
	return out
}

// Community maps a backend community record.
func Community(r api.CommunityRecord) model.Community {
	return model.Community{
		ID:          firstNonEmpty(r.ID, r.MongoID),
		Slug:        r.Slug,
		Name:        r.Name,
		Description: r.Description,
		PostCount:   count(r.PostCount),
		MemberCount: count(r.MemberCount),
		IsNsfw:      r.IsNsfw,
	}
}

// Communities maps a list of community records.
func Communities(rs []api.CommunityRecord) []model.Community {
	out := make([]model.Community, 0, len(rs))
	for _, r := range rs {
		out = append(out, Community(r))
	}
	return out
}

// DecodePost decodes and maps a raw list item. It is the item transform
// used when paginating post lists.
func DecodePost(raw []byte) (model.Post, error) {
	var r api.PostRecord
	if err := json.Unmarshal(raw, &r); err != nil {
		return model.Post{}, err
	}
	return Post(r), nil
}

// DecodeComment decodes and maps a raw comment list item.
func DecodeComment(raw []byte) (model.Comment, error) {
	var r api.CommentRecord
	if err := json.Unmarshal(raw, &r); err != nil {
		return model.Comment{}, err
	}
	return Comment(r), nil
}

type authorRecord struct {
	ID          string `json:"id"`
	MongoID     string `json:"_id"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	Avatar      string `json:"avatar"`
}

func author(raw json.RawMessage, alias string) model.Author {
	var a model.Author

	switch {
	case isNull(raw):
	case isString(raw):
		_ = json.Unmarshal(raw, &a.ID)
	default:
		var rec authorRecord
		if json.Unmarshal(raw, &rec) == nil {
			a.ID = firstNonEmpty(rec.ID, rec.MongoID)
			a.Username = rec.Username
			a.DisplayName = rec.DisplayName
			a.Avatar = rec.Avatar
		}
	}

	alias = strings.TrimSpace(alias)
	switch {
	case alias != "":
		a.DisplayName = alias
		a.IsAnonymous = true
	case a.DisplayName == "":
		a.DisplayName = firstNonEmpty(a.Username, AnonymousName)
	}
	if a.Username == "" {
		a.IsAnonymous = true
	}
	return a
}

type communityRecord struct {
	ID      string `json:"id"`
	MongoID string `json:"_id"`
	Slug    string `json:"slug"`
	Name    string `json:"name"`
}

func community(raw json.RawMessage) *model.CommunityRef {
	if isNull(raw) {
		return nil
	}
	if isString(raw) {
		var id string
		if json.Unmarshal(raw, &id) != nil || id == "" {
			return nil
		}
		return &model.CommunityRef{ID: id}
	}

	var rec communityRecord
	if json.Unmarshal(raw, &rec) != nil {
		return nil
	}
	id := firstNonEmpty(rec.ID, rec.MongoID)
	if id == "" && rec.Slug == "" {
		return nil
	}
	return &model.CommunityRef{ID: id, Slug: rec.Slug, Name: rec.Name}
}

// refID reads a reference that is either a bare id or a populated object.
func refID(raw json.RawMessage) string {
	if isNull(raw) {
		return ""
	}
	if isString(raw) {
		var id string
		_ = json.Unmarshal(raw, &id)
		return id
	}
	var rec communityRecord
	if json.Unmarshal(raw, &rec) != nil {
		return ""
	}
	return firstNonEmpty(rec.ID, rec.MongoID)
}

type tagRecord struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}

func tags(raws []json.RawMessage) []model.Tag {
	out := make([]model.Tag, 0, len(raws))
	for _, raw := range raws {
		switch {
		case isNull(raw):
		case isString(raw):
			var slug string
			if json.Unmarshal(raw, &slug) == nil && slug != "" {
				out = append(out, model.Tag{Slug: slug, Name: slug})
			}
		default:
			var rec tagRecord
			if json.Unmarshal(raw, &rec) == nil && (rec.Slug != "" || rec.Name != "") {
				out = append(out, model.Tag{Slug: firstNonEmpty(rec.Slug, rec.Name), Name: firstNonEmpty(rec.Name, rec.Slug)})
			}
		}
	}
	return out
}

type imageRecord struct {
	URL string `json:"url"`
}

func images(raws []json.RawMessage) []string {
	out := make([]string, 0, len(raws))
	for _, raw := range raws {
		var u string
		if isString(raw) {
			_ = json.Unmarshal(raw, &u)
		} else if !isNull(raw) {
			var rec imageRecord
			if json.Unmarshal(raw, &rec) == nil {
				u = rec.URL
			}
		}
		if u != "" {
			out = append(out, u)
		}
	}
	return out
}

func reactionCounts(m map[string]api.Number) model.ReactionCounts {
	var rc model.ReactionCounts
	for k, v := range m {
		rc = rc.With(k, count(v))
	}
	return rc
}

func count(n api.Number) int {
	v := float64(n)
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(v)
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func isString(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '"'
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
