package api

import (
	"fmt"
	"net/url"
)

// Feed filters
const (
	FilterDefault   = ""
	FilterLatest    = "latest"
	FilterTrending  = "trending"
	FilterRelatable = "relatable"
	FilterCommented = "commented"
	FilterNight     = "night"
)

// FeedFilters lists the filters accepted by FeedEndpoint.
var FeedFilters = []string{FilterLatest, FilterTrending, FilterRelatable, FilterCommented, FilterNight}

// Sort orders for tag listings
var TagSorts = []string{"latest", "trending", "top"}

// Sort orders for the kahaniya listing
var KahaniyaSorts = []string{"trending", "latest", "relatable", "hot"}

// FeedEndpoint maps a feed filter to its list endpoint. Unknown filters get
// the default feed.
func FeedEndpoint(filter string) string {
	switch filter {
	case FilterLatest:
		return "/feed/latest"
	case FilterTrending:
		return "/feed/trending"
	case FilterRelatable:
		return "/feed/most-relatable"
	case FilterCommented:
		return "/feed/most-commented"
	case FilterNight:
		return "/feed/night-mode"
	default:
		return "/feed"
	}
}

// TagFeedEndpoint lists posts carrying tag, ordered by sort.
func TagFeedEndpoint(tag, sort string) string {
	return fmt.Sprintf("/feed/tag/%s?sort=%s", url.PathEscape(tag), url.QueryEscape(orDefault(sort, TagSorts)))
}

// KahaniyaEndpoint lists the stories feed, ordered by sort.
func KahaniyaEndpoint(sort string) string {
	return "/feed/kahaniya?sort=" + url.QueryEscape(orDefault(sort, KahaniyaSorts))
}

// CommunityPostsEndpoint lists posts of a community.
func CommunityPostsEndpoint(slug string) string {
	return fmt.Sprintf("/communities/%s/posts", url.PathEscape(slug))
}

// CommentsEndpoint lists comments of a post.
func CommentsEndpoint(postID string) string {
	return fmt.Sprintf("/posts/%s/comments", url.PathEscape(postID))
}

func orDefault(v string, allowed []string) string {
	for _, a := range allowed {
		if v == a {
			return v
		}
	}
	return allowed[0]
}
