package api

import (
	"bytes"
	"math"
	"strconv"

	"github.com/hindiconfession/cli/pkg/adminsession"
	"github.com/hindiconfession/cli/pkg/session"
	json "github.com/json-iterator/go"
)

// Error envelope
type ErrorDetail struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ErrorResponse struct {
	Success bool         `json:"success"`
	Error   *ErrorDetail `json:"error,omitempty"`
	Message string       `json:"message,omitempty"`
}

// Number is a counter field. Numeric strings are accepted and any other
// value decodes as 0, so one odd field never rejects the whole record.
type Number float64

func (n *Number) UnmarshalJSON(b []byte) error {
	f, err := strconv.ParseFloat(string(bytes.Trim(bytes.TrimSpace(b), `"`)), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		*n = 0
		return nil
	}
	*n = Number(f)
	return nil
}

// Pagination metadata returned with every list
type Pagination struct {
	Total int `json:"total"`
	Pages int `json:"pages"`
	Limit int `json:"limit"`
	Page  int `json:"page"`
}

// PostRecord is a post as the backend sends it. Author, community, tags and
// images vary in shape between endpoints and are decoded by package
// transform.
type PostRecord struct {
	ID             string             `json:"id"`
	MongoID        string             `json:"_id"`
	Title          string             `json:"title"`
	Content        string             `json:"content"`
	Author         json.RawMessage    `json:"author"`
	AuthorAlias    string             `json:"authorAlias"`
	Community      json.RawMessage    `json:"community"`
	Tags           []json.RawMessage  `json:"tags"`
	Images         []json.RawMessage  `json:"images"`
	NsfwLevel      string             `json:"nsfwLevel"`
	AdviceMode     string             `json:"adviceMode"`
	Mood           string             `json:"mood"`
	ExpiryOption   string             `json:"expiryOption"`
	ExpiresAt      string             `json:"expiresAt"`
	ReactionCounts map[string]Number  `json:"reactionCounts"`
	UserReaction   string             `json:"userReaction"`
	CommentCount   Number             `json:"commentCount"`
	ViewCount      Number             `json:"viewCount"`
	CreatedAt      string             `json:"createdAt"`
	UpdatedAt      string             `json:"updatedAt"`
}

// CommentRecord is a comment as the backend sends it
type CommentRecord struct {
	ID          string          `json:"id"`
	MongoID     string          `json:"_id"`
	Post        json.RawMessage `json:"post"`
	Parent      json.RawMessage `json:"parentComment"`
	Content     string          `json:"content"`
	Author      json.RawMessage `json:"author"`
	AuthorAlias string          `json:"authorAlias"`
	LikeCount   Number          `json:"likeCount"`
	IsDeleted   bool            `json:"isDeleted"`
	CreatedAt   string          `json:"createdAt"`
	Replies     []CommentRecord `json:"replies"`
}

// CommunityRecord is a community as the backend sends it
type CommunityRecord struct {
	ID          string  `json:"id"`
	MongoID     string  `json:"_id"`
	Slug        string  `json:"slug"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	PostCount   Number  `json:"postCount"`
	MemberCount Number  `json:"memberCount"`
	IsNsfw      bool    `json:"isNsfw"`
}

// TagRecord is an entry of the tag list
type TagRecord struct {
	Slug  string  `json:"slug"`
	Name  string  `json:"name"`
	Count Number  `json:"count"`
}

// List responses
type RawList struct {
	Items      []json.RawMessage
	Pagination Pagination
}

type CommunitiesResponse struct {
	Communities []CommunityRecord `json:"communities"`
}

type CommunityResponse struct {
	Community CommunityRecord `json:"community"`
}

type PostResponse struct {
	Post PostRecord `json:"post"`
}

type CommentsResponse struct {
	Comments   []CommentRecord `json:"comments"`
	Pagination Pagination      `json:"pagination"`
}

type TagsResponse struct {
	Tags []TagRecord `json:"tags"`
}

// Create post
type CreatedPost struct {
	ID      string `json:"id"`
	MongoID string `json:"_id"`
}

type CreatePostResponse struct {
	Success bool        `json:"success"`
	Post    CreatedPost `json:"post"`
}

// Reactions
type ReactRequest struct {
	ReactionType string `json:"reactionType"`
}

type ReactResponse struct {
	Success        bool              `json:"success"`
	ReactionCounts map[string]Number `json:"reactionCounts,omitempty"`
}

// Auth
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Success bool         `json:"success"`
	Token   string       `json:"token"`
	User    session.User `json:"user"`
}

type AdminLoginResponse struct {
	Success bool                   `json:"success"`
	Token   string                 `json:"token"`
	Admin   adminsession.AdminUser `json:"admin"`
}
