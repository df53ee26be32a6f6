package service

import (
	"context"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/hindiconfession/cli/pkg/compose"
	clierrors "github.com/hindiconfession/cli/pkg/errors"
	"github.com/hindiconfession/cli/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const postBody = `{"success":true,"post":{"_id":"p1","title":"Pehli baar","content":"Kuch kehna tha","author":{"_id":"u1","username":"asha"},"authorAlias":"Koi","commentCount":1,"reactionCounts":{"hot":0,"sad":2},"userReaction":"sad"}}`

func validForm() compose.Form {
	return compose.Form{
		Title:   "Pehli baar",
		Content: "Kuch kehna tha mujhe",
		Tags:    []string{"Pyaar"},
	}
}

func TestViewPostWithComments(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /posts/p1", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, postBody)
	})
	mux.HandleFunc("GET /posts/p1/comments", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, `{"comments":[{"_id":"c1","content":"Same here","author":"u9","replies":[{"_id":"c2","content":"Me too"}]}],"pagination":{"total":1,"pages":1,"limit":2}}`)
	})
	h := newHarness(t, mux, "")

	require.NoError(t, NewPostService(h.deps).ViewPost(context.Background(), "p1"))

	out := h.out.String()
	assert.Contains(t, out, "Pehli baar")
	assert.Contains(t, out, "Koi")
	assert.Contains(t, out, "Same here")
	assert.Contains(t, out, "Me too")
}

func TestViewPostShowsCommentFailureInline(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /posts/p1", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, postBody)
	})
	mux.HandleFunc("GET /posts/p1/comments", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 503, `{"success":false,"error":{"message":"later"}}`)
	})
	h := newHarness(t, mux, "")

	require.NoError(t, NewPostService(h.deps).ViewPost(context.Background(), "p1"))
	assert.Contains(t, h.out.String(), "Pehli baar")
	assert.Contains(t, h.out.String(), "Server error")
}

func TestViewPostNotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /posts/gone", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 404, `{"success":false,"error":{"message":"Post not found"}}`)
	})
	h := newHarness(t, mux, "")

	err := NewPostService(h.deps).ViewPost(context.Background(), "gone")
	assert.True(t, clierrors.IsType(err, clierrors.ErrorTypeNotFound))
}

func TestBrowseComments(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /posts/p1/comments", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, `{"comments":[{"_id":"c3","content":"Second page comment"}],"pagination":{"total":3,"pages":2,"limit":2}}`)
	})
	h := newHarness(t, mux, "")

	require.NoError(t, NewPostService(h.deps).BrowseComments(context.Background(), "p1", 2))
	assert.Contains(t, h.out.String(), "Second page comment")
	assert.Contains(t, h.sent(), "GET /posts/p1/comments?limit=2&page=2")
}

func TestCreatePostValidatesBeforeNetwork(t *testing.T) {
	h := newHarness(t, http.NewServeMux(), "")
	h.deps.Session.Login(session.User{ID: "u1", Username: "asha"}, "tok")

	form := validForm()
	form.Tags = nil
	err := NewPostService(h.deps).CreatePost(context.Background(), form)

	var cliErr *clierrors.CLIError
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, "tags", cliErr.Field)
	assert.Empty(t, h.sent())
}

func TestCreateAdultPostNeedsAgeGate(t *testing.T) {
	h := newHarness(t, http.NewServeMux(), "")
	h.deps.Session.Login(session.User{ID: "u1", Username: "asha"}, "tok")

	form := validForm()
	form.NsfwLevel = "spicy"
	err := NewPostService(h.deps).CreatePost(context.Background(), form)

	assert.True(t, clierrors.IsType(err, clierrors.ErrorTypeAgeGate))
	assert.Empty(t, h.sent())
}

func TestCreatePostSendsMultipart(t *testing.T) {
	var gotAuth, gotTitle, gotAdvice string
	var gotTags []string
	mux := http.NewServeMux()
	mux.HandleFunc("POST /posts", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotAuth = r.Header.Get("Authorization")
		gotTitle = r.FormValue("title")
		gotAdvice = r.FormValue("adviceMode")
		gotTags = r.MultipartForm.Value["tags[]"]
		writeJSON(w, 201, `{"success":true,"post":{"_id":"new1"}}`)
	})
	h := newHarness(t, mux, "")
	h.deps.Session.Login(session.User{ID: "u1", Username: "asha"}, "tok")

	require.NoError(t, NewPostService(h.deps).CreatePost(context.Background(), validForm()))

	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, "Pehli baar", gotTitle)
	assert.Equal(t, "just-sharing", gotAdvice)
	assert.Equal(t, []string{"pyaar"}, gotTags)
	assert.Contains(t, h.out.String(), "new1")
}

func TestCreatePostWaitsBehindLogin(t *testing.T) {
	var posts int32
	var gotAuth string
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, loginOK)
	})
	mux.HandleFunc("POST /posts", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&posts, 1)
		gotAuth = r.Header.Get("Authorization")
		writeJSON(w, 201, `{"success":true,"post":{"id":"new2"}}`)
	})
	h := newHarness(t, mux, "asha\nsecret\n")

	require.NoError(t, NewPostService(h.deps).CreatePost(context.Background(), validForm()))

	assert.Equal(t, int32(1), atomic.LoadInt32(&posts))
	assert.Equal(t, "Bearer t-asha", gotAuth)
	assert.Equal(t, []string{"POST /auth/login", "POST /posts"}, h.sent())
}

func TestComposeInteractiveFillsMissingFields(t *testing.T) {
	input := strings.Join([]string{
		"Ek raaz",
		"Bahut dino se",
		"chhupa raha hoon",
		"",
		"pyaar, dosti",
		"2",
		"2",
	}, "\n") + "\n"
	h := newHarness(t, http.NewServeMux(), input)

	var form compose.Form
	require.NoError(t, NewPostService(h.deps).ComposeInteractive(&form))
	form.Normalize()

	assert.Equal(t, "Ek raaz", form.Title)
	assert.Equal(t, "Bahut dino se\nchhupa raha hoon", form.Content)
	assert.Equal(t, []string{"pyaar", "dosti"}, form.Tags)
	assert.Equal(t, "spicy", form.NsfwLevel)
	assert.Equal(t, "want-advice", form.AdviceMode)
	assert.NoError(t, form.Validate())
}
