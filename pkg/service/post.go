package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/hindiconfession/cli/pkg/api"
	"github.com/hindiconfession/cli/pkg/compose"
	clierrors "github.com/hindiconfession/cli/pkg/errors"
	"github.com/hindiconfession/cli/pkg/formatter"
	"github.com/hindiconfession/cli/pkg/logger"
	"github.com/hindiconfession/cli/pkg/model"
	"github.com/hindiconfession/cli/pkg/output"
	"github.com/hindiconfession/cli/pkg/paginate"
	"github.com/hindiconfession/cli/pkg/transform"
)

// PostService shows and creates posts
type PostService struct {
	deps *Deps
	auth *AuthService
	feed *FeedService
	now  func() time.Time
}

// NewPostService creates a new post service
func NewPostService(deps *Deps) *PostService {
	return &PostService{
		deps: deps,
		auth: NewAuthService(deps),
		feed: NewFeedService(deps),
		now:  time.Now,
	}
}

// postDetail is the JSON shape of a shown post
type postDetail struct {
	Post     model.Post      `json:"post"`
	Comments []model.Comment `json:"comments"`
}

// fetchPost loads and maps one post
func (ps *PostService) fetchPost(ctx context.Context, id string) (model.Post, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return model.Post{}, clierrors.ValidationError("post", "id is required")
	}
	record, err := ps.deps.API.GetPost(ctx, id)
	if err != nil {
		if clierrors.IsType(err, clierrors.ErrorTypeNotFound) {
			return model.Post{}, clierrors.NotFoundError("Post", id)
		}
		return model.Post{}, err
	}
	return transform.Post(*record), nil
}

// ViewPost shows a post in full together with its first page of comments
func (ps *PostService) ViewPost(ctx context.Context, id string) error {
	post, err := ps.fetchPost(ctx, id)
	if err != nil {
		return err
	}

	var comments []model.Comment
	resp, err := ps.deps.API.GetComments(ctx, post.ID, 1, ps.deps.pageSize())
	if err != nil {
		logger.Warn("Failed to load comments", "post_id", post.ID, "error", err)
	} else {
		comments = transform.Comments(resp.Comments)
	}

	lang := ps.deps.Locale.Current(ctx)
	reveal := ps.feed.revealAdult()
	now := ps.now()

	return output.Render(postDetail{Post: post, Comments: comments}, func(w io.Writer) {
		fmt.Fprintln(w)
		formatter.Post(w, post, lang, formatter.PostOptions{Full: true, RevealAdult: reveal, Now: now})
		fmt.Fprintln(w)
		if err != nil {
			formatter.Error.Fprintf(w, "✗ %s\n", clierrors.UserMessage(err))
			return
		}
		formatter.Bold.Fprintf(w, "Comments (%d)\n", post.CommentCount)
		if len(comments) == 0 {
			formatter.Faint.Fprintln(w, "No comments yet.")
			return
		}
		formatter.Comments(w, comments, now)
	})
}

// BrowseComments pages through the comments of a post
func (ps *PostService) BrowseComments(ctx context.Context, id string, page int) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return clierrors.ValidationError("post", "id is required")
	}

	engine := paginate.New[model.Comment](ctx, ps.deps.listFetcher(),
		paginate.WithPageSize[model.Comment](ps.deps.pageSize()),
		paginate.WithTransform[model.Comment](transform.DecodeComment),
	)
	defer engine.Close()

	engine.SetEndpoint(api.CommentsEndpoint(id))
	engine.Wait()
	if page > 1 {
		engine.GoToPage(page)
		engine.Wait()
	}

	s := engine.State()
	if s.Error != "" {
		return fmt.Errorf("%s", s.Error)
	}
	now := ps.now()
	return output.Render(s.Items, func(w io.Writer) {
		if len(s.Items) == 0 {
			fmt.Fprintln(w, "No comments yet.")
			return
		}
		formatter.Comments(w, s.Items, now)
		pages := s.Pagination.Pages
		if pages < 1 {
			pages = 1
		}
		formatter.Faint.Fprintf(w, "Page %d of %d (%d comments)\n", s.CurrentPage, pages, s.Pagination.Total)
	})
}

// ComposeInteractive fills the missing required fields of form by prompting
func (ps *PostService) ComposeInteractive(form *compose.Form) error {
	p := ps.deps.prompter()
	var err error

	if form.Title == "" {
		if form.Title, err = p.String("Title: "); err != nil {
			return err
		}
	}
	if form.Content == "" {
		if form.Content, err = p.Multiline("Your confession", 200); err != nil {
			return err
		}
	}
	if len(form.Tags) == 0 {
		tags, err := p.String("Tags (comma separated, up to 3): ")
		if err != nil {
			return err
		}
		form.Tags = strings.Split(tags, ",")
	}
	if form.NsfwLevel == "" {
		idx, err := p.Select("Content level:", compose.NsfwLevels)
		if err != nil {
			return err
		}
		form.NsfwLevel = compose.NsfwLevels[idx]
	}
	if form.AdviceMode == "" {
		idx, err := p.Select("What are you looking for?", compose.AdviceModes)
		if err != nil {
			return err
		}
		form.AdviceMode = compose.AdviceModes[idx]
	}
	return nil
}

// CreatePost validates form and submits it. Validation happens before
// anything touches the network; when logged out the submission waits
// behind the login prompt.
func (ps *PostService) CreatePost(ctx context.Context, form compose.Form) error {
	form.Normalize()
	if err := form.Validate(); err != nil {
		return err
	}
	if form.NsfwLevel != "normal" {
		if err := ps.auth.RequireAge(); err != nil {
			return err
		}
	}

	return ps.auth.Gate(ctx, func() error {
		formatter.PrintInfo("Posting...")
		id, err := ps.deps.API.CreatePost(ctx, form.Request())
		if err != nil {
			return err
		}
		formatter.PrintSuccess("✓ Confession posted")
		return output.PrintRecord("Post", []output.Field{
			{Key: "ID", Value: id},
			{Key: "Title", Value: form.Title},
			{Key: "Tags", Value: strings.Join(form.Tags, ", ")},
		})
	})
}
