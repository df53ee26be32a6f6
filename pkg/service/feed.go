package service

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/hindiconfession/cli/pkg/api"
	"github.com/hindiconfession/cli/pkg/formatter"
	"github.com/hindiconfession/cli/pkg/locale"
	"github.com/hindiconfession/cli/pkg/logger"
	"github.com/hindiconfession/cli/pkg/model"
	"github.com/hindiconfession/cli/pkg/output"
	"github.com/hindiconfession/cli/pkg/paginate"
	"github.com/hindiconfession/cli/pkg/transform"
)

// FeedService lists posts through the pagination engine
type FeedService struct {
	deps *Deps
	now  func() time.Time
}

// NewFeedService creates a new feed service
func NewFeedService(deps *Deps) *FeedService {
	return &FeedService{deps: deps, now: time.Now}
}

// BrowseOptions selects the starting page and whether to keep paging
// interactively.
type BrowseOptions struct {
	Page        int
	Interactive bool
}

// feedPage is the JSON shape of one listed page
type feedPage struct {
	Endpoint   string              `json:"endpoint"`
	Page       int                 `json:"page"`
	Pagination paginate.Pagination `json:"pagination"`
	Posts      []model.Post        `json:"posts"`
	Error      string              `json:"error,omitempty"`
}

// ViewFeed lists the main feed with one of the api.FeedFilters
func (fs *FeedService) ViewFeed(ctx context.Context, filter string, opts BrowseOptions) error {
	title := "Confessions"
	if filter != "" {
		title = fmt.Sprintf("Confessions (%s)", filter)
	}
	return fs.Browse(ctx, title, api.FeedEndpoint(filter), opts)
}

// ViewTag lists the posts of one tag
func (fs *FeedService) ViewTag(ctx context.Context, tag, sort string, opts BrowseOptions) error {
	tag = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(tag)), "#")
	if tag == "" {
		return fmt.Errorf("tag is required")
	}
	return fs.Browse(ctx, "#"+tag, api.TagFeedEndpoint(tag, sort), opts)
}

// ViewKahaniya lists the long-form stories feed
func (fs *FeedService) ViewKahaniya(ctx context.Context, sort string, opts BrowseOptions) error {
	return fs.Browse(ctx, "Kahaniya", api.KahaniyaEndpoint(sort), opts)
}

// newEngine builds a post list engine configured from Deps
func (fs *FeedService) newEngine(ctx context.Context, onChange func(paginate.State[model.Post])) *paginate.Engine[model.Post] {
	opts := []paginate.Option[model.Post]{
		paginate.WithPageSize[model.Post](fs.deps.pageSize()),
		paginate.WithTransform[model.Post](transform.DecodePost),
		paginate.WithPrefetch[model.Post](fs.deps.Prefetch),
	}
	if onChange != nil {
		opts = append(opts, paginate.WithOnChange[model.Post](onChange))
	}
	return paginate.New[model.Post](ctx, fs.deps.listFetcher(), opts...)
}

// Browse lists endpoint page by page. In interactive mode the user moves
// between pages until they quit; cached pages are shown at once and
// replaced when the refetch lands.
func (fs *FeedService) Browse(ctx context.Context, title, endpoint string, opts BrowseOptions) error {
	logger.Debug("Browsing list", "endpoint", endpoint, "page", opts.Page)

	engine := fs.newEngine(ctx, nil)
	defer engine.Close()

	engine.SetEndpoint(endpoint)
	engine.Wait()
	if opts.Page > 1 {
		engine.GoToPage(opts.Page)
		engine.Wait()
	}

	state := engine.State()
	if err := fs.render(ctx, title, state); err != nil {
		return err
	}
	if !opts.Interactive {
		if state.Error != "" {
			return fmt.Errorf("%s", state.Error)
		}
		return nil
	}

	p := fs.deps.prompter()
	for {
		cmd, err := p.String(pagerPrompt(engine.State()))
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}

		switch cmd = strings.ToLower(strings.TrimSpace(cmd)); cmd {
		case "q", "quit", "exit":
			return nil
		case "n", "next", "":
			engine.Next()
		case "p", "prev":
			engine.Prev()
		case "r", "refresh":
			engine.Refresh()
		default:
			n, convErr := strconv.Atoi(cmd)
			if convErr != nil {
				formatter.PrintWarning("Unknown command %q", cmd)
				continue
			}
			engine.GoToPage(n)
		}

		if s := engine.State(); s.IsStale {
			if err := fs.render(ctx, title, s); err != nil {
				return err
			}
		}
		engine.Wait()
		if err := fs.render(ctx, title, engine.State()); err != nil {
			return err
		}
	}
}

func pagerPrompt(s paginate.State[model.Post]) string {
	parts := []string{}
	if s.HasNext() {
		parts = append(parts, "[n]ext")
	}
	if s.HasPrev() {
		parts = append(parts, "[p]rev")
	}
	parts = append(parts, "[r]efresh", "[q]uit", "or page number")
	return strings.Join(parts, " ") + ": "
}

func (fs *FeedService) render(ctx context.Context, title string, s paginate.State[model.Post]) error {
	data := feedPage{
		Endpoint:   s.Endpoint,
		Page:       s.CurrentPage,
		Pagination: s.Pagination,
		Posts:      s.Items,
		Error:      s.Error,
	}
	lang := fs.deps.Locale.Current(ctx)
	reveal := fs.revealAdult()

	return output.Render(data, func(w io.Writer) {
		fs.writeList(w, title, s, lang, reveal)
	})
}

func (fs *FeedService) writeList(w io.Writer, title string, s paginate.State[model.Post], lang locale.Language, reveal bool) {
	formatter.Bold.Fprintf(w, "\n%s\n", title)
	fmt.Fprintln(w, strings.Repeat("─", len([]rune(title))))

	if s.IsStale {
		formatter.Faint.Fprintln(w, "(showing cached results, refreshing...)")
	}
	if s.Error != "" {
		formatter.Error.Fprintf(w, "✗ %s\n", s.Error)
	}
	if len(s.Items) == 0 && s.Error == "" {
		fmt.Fprintln(w, "No confessions here yet.")
		return
	}

	now := fs.now()
	for i, post := range s.Items {
		formatter.Faint.Fprintf(w, "%d. ", (s.CurrentPage-1)*s.Pagination.Limit+i+1)
		formatter.Post(w, post, lang, formatter.PostOptions{RevealAdult: reveal, Now: now})
		fmt.Fprintln(w)
	}

	pages := s.Pagination.Pages
	if pages < 1 {
		pages = 1
	}
	formatter.Faint.Fprintf(w, "Page %d of %d (%d posts)\n", s.CurrentPage, pages, s.Pagination.Total)
}

// revealAdult reports whether adult posts may be shown in full
func (fs *FeedService) revealAdult() bool {
	snap := fs.deps.Session.Snapshot()
	if !snap.AgeVerified {
		return false
	}
	if snap.User != nil {
		return snap.User.ShowNsfw
	}
	return true
}
