// Package model holds the view-model types rendered by the CLI. Values are
// produced by package transform from backend records and never carry
// optional pointers except where absence is meaningful.
package model

import "time"

// Author is the flattened author of a post or comment.
type Author struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	Avatar      string `json:"avatar,omitempty"`
	IsAnonymous bool   `json:"isAnonymous"`
}

// CommunityRef is the community a post belongs to.
type CommunityRef struct {
	ID   string `json:"id"`
	Slug string `json:"slug,omitempty"`
	Name string `json:"name,omitempty"`
}

// Tag is a post tag.
type Tag struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// Post is a confession as displayed.
type Post struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Content      string         `json:"content"`
	Author       Author         `json:"author"`
	Community    *CommunityRef  `json:"community"`
	Tags         []Tag          `json:"tags"`
	Images       []string       `json:"images"`
	NsfwLevel    string         `json:"nsfwLevel"`
	AdviceMode   string         `json:"adviceMode"`
	Mood         string         `json:"mood,omitempty"`
	ExpiryOption string         `json:"expiryOption"`
	ExpiresAt    time.Time      `json:"expiresAt"`
	Reactions    ReactionCounts `json:"reactionCounts"`
	UserReaction string         `json:"userReaction,omitempty"`
	CommentCount int            `json:"commentCount"`
	ViewCount    int            `json:"viewCount"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

// IsNsfw reports whether the post needs the age gate.
func (p Post) IsNsfw() bool {
	return p.NsfwLevel != "" && p.NsfwLevel != "normal"
}

// Expired reports whether the post has an expiry in the past.
func (p Post) Expired(now time.Time) bool {
	return !p.ExpiresAt.IsZero() && now.After(p.ExpiresAt)
}

// Comment is a reply under a post. Replies are nested one level deep.
type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"postId"`
	ParentID  string    `json:"parentId,omitempty"`
	Content   string    `json:"content"`
	Author    Author    `json:"author"`
	LikeCount int       `json:"likeCount"`
	IsDeleted bool      `json:"isDeleted"`
	CreatedAt time.Time `json:"createdAt"`
	Replies   []Comment `json:"replies"`
}

// Community is a topic space posts can belong to.
type Community struct {
	ID          string `json:"id"`
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Description string `json:"description"`
	PostCount   int    `json:"postCount"`
	MemberCount int    `json:"memberCount"`
	IsNsfw      bool   `json:"isNsfw"`
}
