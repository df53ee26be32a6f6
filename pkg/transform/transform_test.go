package transform

import (
	"testing"
	"time"

	"github.com/hindiconfession/cli/pkg/api"
	"github.com/hindiconfession/cli/pkg/model"
	json "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodePost(t *testing.T, body string) model.Post {
	t.Helper()
	p, err := DecodePost([]byte(body))
	require.NoError(t, err)
	return p
}

func TestMissingReactionCountsDefaultToZero(t *testing.T) {
	p := decodePost(t, `{"_id":"p1","title":"t","content":"c"}`)

	assert.Equal(t, model.ReactionCounts{}, p.Reactions)
	for _, k := range []string{"relatable", "hot", "feltThis", "curious", "sad", "tooMuch"} {
		assert.Equal(t, 0, p.Reactions.Get(k), k)
	}
}

func TestPartialReactionCounts(t *testing.T) {
	p := decodePost(t, `{"_id":"p1","reactionCounts":{"hot":3,"sad":-2,"laugh":9,"feltThis":1.0}}`)

	assert.Equal(t, model.ReactionCounts{Hot: 3, FeltThis: 1}, p.Reactions)
}

func TestReactionCountsIgnoreNonNumericKeys(t *testing.T) {
	p := decodePost(t, `{"_id":"p1","reactionCounts":{"_id":"x","hot":2,"sad":{"$numberInt":"1"}}}`)

	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, model.ReactionCounts{Hot: 2}, p.Reactions)
}

func TestCountsAcceptNumericStrings(t *testing.T) {
	p := decodePost(t, `{"_id":"p1","viewCount":"12","commentCount":"3","reactionCounts":{"relatable":"4"}}`)

	assert.Equal(t, 12, p.ViewCount)
	assert.Equal(t, 3, p.CommentCount)
	assert.Equal(t, 4, p.Reactions.Relatable)

	p = decodePost(t, `{"_id":"p1","viewCount":"many","commentCount":null}`)
	assert.Equal(t, 0, p.ViewCount)
	assert.Equal(t, 0, p.CommentCount)
}

func TestCommentCountsTolerant(t *testing.T) {
	c, err := DecodeComment([]byte(`{"_id":"c1","likeCount":"7"}`))
	require.NoError(t, err)
	assert.Equal(t, 7, c.LikeCount)
}

func TestPostIDs(t *testing.T) {
	assert.Equal(t, "mongo", decodePost(t, `{"_id":"mongo"}`).ID)
	assert.Equal(t, "plain", decodePost(t, `{"id":"plain","_id":"mongo"}`).ID)
}

func TestAuthorShapes(t *testing.T) {
	testCases := []struct {
		name      string
		body      string
		id        string
		display   string
		anonymous bool
	}{
		{"object", `{"author":{"_id":"u1","username":"rahul"}}`, "u1", "rahul", false},
		{"display name", `{"author":{"id":"u1","username":"rahul","displayName":"R"}}`, "u1", "R", false},
		{"bare id", `{"author":"u2"}`, "u2", AnonymousName, true},
		{"alias wins", `{"author":{"_id":"u1","username":"rahul"},"authorAlias":"  Night Owl "}`, "u1", "Night Owl", true},
		{"missing", `{}`, "", AnonymousName, true},
		{"null", `{"author":null}`, "", AnonymousName, true},
		{"wrong type", `{"author":42}`, "", AnonymousName, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			a := decodePost(t, tc.body).Author
			assert.Equal(t, tc.id, a.ID)
			assert.Equal(t, tc.display, a.DisplayName)
			assert.Equal(t, tc.anonymous, a.IsAnonymous)
		})
	}
}

func TestCommunityShapes(t *testing.T) {
	assert.Nil(t, decodePost(t, `{}`).Community)
	assert.Nil(t, decodePost(t, `{"community":null}`).Community)
	assert.Nil(t, decodePost(t, `{"community":""}`).Community)
	assert.Nil(t, decodePost(t, `{"community":{}}`).Community)

	c := decodePost(t, `{"community":"c1"}`).Community
	require.NotNil(t, c)
	assert.Equal(t, "c1", c.ID)

	c = decodePost(t, `{"community":{"_id":"c2","slug":"kahaniya","name":"Kahaniya"}}`).Community
	require.NotNil(t, c)
	assert.Equal(t, model.CommunityRef{ID: "c2", Slug: "kahaniya", Name: "Kahaniya"}, *c)
}

func TestTagsAndImages(t *testing.T) {
	p := decodePost(t, `{
		"tags":["cheating",{"slug":"guilt-regret","name":"Guilt / Regret"},{"name":"solo"},null,""],
		"images":["https://img/1.png",{"url":"https://img/2.png"},{"nope":1},null]
	}`)

	assert.Equal(t, []model.Tag{
		{Slug: "cheating", Name: "cheating"},
		{Slug: "guilt-regret", Name: "Guilt / Regret"},
		{Slug: "solo", Name: "solo"},
	}, p.Tags)
	assert.Equal(t, []string{"https://img/1.png", "https://img/2.png"}, p.Images)
}

func TestDefaultsAndDates(t *testing.T) {
	p := decodePost(t, `{"createdAt":"2024-03-01T10:30:00.000Z","expiresAt":"not a date","commentCount":4}`)

	assert.Equal(t, time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC), p.CreatedAt.UTC())
	assert.True(t, p.ExpiresAt.IsZero())
	assert.True(t, p.UpdatedAt.IsZero())
	assert.Equal(t, "normal", p.NsfwLevel)
	assert.Equal(t, "just-sharing", p.AdviceMode)
	assert.Equal(t, "never", p.ExpiryOption)
	assert.Equal(t, 4, p.CommentCount)
	assert.NotNil(t, p.Tags)
	assert.NotNil(t, p.Images)
}

func TestComments(t *testing.T) {
	var rs []api.CommentRecord
	require.NoError(t, json.Unmarshal([]byte(`[
		{"_id":"c1","post":"p1","content":"first","author":{"_id":"u1","username":"a"},
		 "replies":[{"_id":"c2","post":{"_id":"p1"},"parentComment":"c1","content":"reply","authorAlias":"Ghost"}]},
		{"_id":"c3","post":"p1","isDeleted":true,"likeCount":-1}
	]`), &rs))

	cs := Comments(rs)
	require.Len(t, cs, 2)
	assert.Equal(t, "p1", cs[0].PostID)
	require.Len(t, cs[0].Replies, 1)
	assert.Equal(t, "c1", cs[0].Replies[0].ParentID)
	assert.Equal(t, "p1", cs[0].Replies[0].PostID)
	assert.Equal(t, "Ghost", cs[0].Replies[0].Author.DisplayName)
	assert.True(t, cs[1].IsDeleted)
	assert.Equal(t, 0, cs[1].LikeCount)
	assert.NotNil(t, cs[1].Replies)
}

func TestCommunities(t *testing.T) {
	out := Communities([]api.CommunityRecord{{MongoID: "c1", Slug: "kahaniya", Name: "Kahaniya", PostCount: 12}})
	require.Len(t, out, 1)
	assert.Equal(t, "c1", out[0].ID)
	assert.Equal(t, 12, out[0].PostCount)
	assert.Empty(t, Posts(nil))
}

func TestDecodePostRejectsMalformed(t *testing.T) {
	_, err := DecodePost([]byte(`[1,2`))
	assert.Error(t, err)
}
