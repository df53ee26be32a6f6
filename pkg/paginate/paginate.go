// Package paginate fetches pages of a list endpoint with stale-while-revalidate
// semantics.
//
// An Engine serves a cached page immediately, flagged stale, while it always
// revalidates against the backend. Every navigation gets a sequence number and
// only the response to the latest one may change the visible state; responses
// that arrive for superseded requests are dropped. Optionally the next page is
// prefetched into the cache after each successful load.
package paginate

import (
	"context"
	"fmt"
	"sync"

	clierrors "github.com/hindiconfession/cli/pkg/errors"
	"github.com/hindiconfession/cli/pkg/logger"
	json "github.com/json-iterator/go"
	"golang.org/x/sync/singleflight"
)

// DefaultPageSize is used when no page size is configured.
const DefaultPageSize = 15

// Pagination is the list metadata reported by the backend.
type Pagination struct {
	Total int `json:"total"`
	Pages int `json:"pages"`
	Limit int `json:"limit"`
}

// RawPage is one undecoded page as returned by a Fetcher.
type RawPage struct {
	Items      []json.RawMessage
	Pagination Pagination
}

// Fetcher loads one page of endpoint.
type Fetcher func(ctx context.Context, endpoint string, page, limit int) (RawPage, error)

// Transform maps one raw record to the item type.
type Transform[T any] func(raw []byte) (T, error)

// State is the observable list state.
type State[T any] struct {
	Endpoint    string
	Items       []T
	CurrentPage int
	Pagination  Pagination
	IsLoading   bool
	IsStale     bool
	Error       string
}

// HasNext reports whether a later page exists.
func (s State[T]) HasNext() bool {
	return s.CurrentPage < s.Pagination.Pages
}

// HasPrev reports whether an earlier page exists.
func (s State[T]) HasPrev() bool {
	return s.CurrentPage > 1
}

type cacheKey struct {
	endpoint string
	page     int
}

func (k cacheKey) String() string {
	return fmt.Sprintf("%s#%d", k.endpoint, k.page)
}

type page[T any] struct {
	items      []T
	pagination Pagination
}

// Engine manages one paginated list.
type Engine[T any] struct {
	fetch     Fetcher
	transform Transform[T]
	limit     int
	prefetch  bool
	onChange  func(State[T])

	ctx    context.Context
	cancel context.CancelFunc
	group  singleflight.Group
	wg     sync.WaitGroup

	mu          sync.Mutex
	state       State[T]
	cache       map[cacheKey]page[T]
	prefetching map[cacheKey]bool
	seq         uint64
	gen         uint64
	pagesKnown  bool
	closed      bool
}

// Option configures an Engine.
type Option[T any] func(*Engine[T])

// WithPageSize sets the number of items requested per page.
func WithPageSize[T any](n int) Option[T] {
	return func(e *Engine[T]) {
		if n > 0 {
			e.limit = n
		}
	}
}

// WithTransform maps raw records to items. Without it records are decoded
// straight into T.
func WithTransform[T any](fn Transform[T]) Option[T] {
	return func(e *Engine[T]) {
		e.transform = fn
	}
}

// WithPrefetch enables loading page+1 into the cache after each successful load.
func WithPrefetch[T any](enabled bool) Option[T] {
	return func(e *Engine[T]) {
		e.prefetch = enabled
	}
}

// WithOnChange registers fn to receive every state transition.
func WithOnChange[T any](fn func(State[T])) Option[T] {
	return func(e *Engine[T]) {
		e.onChange = fn
	}
}

// New creates an idle engine. Requests run under ctx; Close cancels them.
func New[T any](ctx context.Context, fetch Fetcher, opts ...Option[T]) *Engine[T] {
	ctx, cancel := context.WithCancel(ctx)
	e := &Engine[T]{
		fetch:       fetch,
		transform:   decodeInto[T],
		limit:       DefaultPageSize,
		ctx:         ctx,
		cancel:      cancel,
		cache:       make(map[cacheKey]page[T]),
		prefetching: make(map[cacheKey]bool),
		state:       State[T]{CurrentPage: 1, Items: []T{}},
	}
	for _, opt := range opts {
		opt(e)
	}
	e.state.Pagination.Limit = e.limit
	return e
}

func decodeInto[T any](raw []byte) (T, error) {
	var v T
	err := json.Unmarshal(raw, &v)
	return v, err
}

// State returns a snapshot of the current state.
func (e *Engine[T]) State() State[T] {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot()
}

// snapshot must be called with e.mu held.
func (e *Engine[T]) snapshot() State[T] {
	s := e.state
	s.Items = append([]T(nil), e.state.Items...)
	if s.Items == nil {
		s.Items = []T{}
	}
	return s
}

// SetEndpoint switches the list to endpoint and loads its first page.
func (e *Engine[T]) SetEndpoint(endpoint string) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.gen++
	e.pagesKnown = false
	e.state = State[T]{
		Endpoint:    endpoint,
		Items:       []T{},
		CurrentPage: 1,
		Pagination:  Pagination{Limit: e.limit},
	}
	snap := e.load(true)
	e.mu.Unlock()

	e.notify(snap)
}

// GoToPage loads page n, clamped to [1, pages]. While the page count is
// still unknown only the lower bound applies. An empty list clamps to 1.
func (e *Engine[T]) GoToPage(n int) {
	e.mu.Lock()
	if e.closed || e.state.Endpoint == "" {
		e.mu.Unlock()
		return
	}
	if n < 1 {
		n = 1
	}
	if last := max(e.state.Pagination.Pages, 1); e.pagesKnown && n > last {
		n = last
	}
	e.state.CurrentPage = n
	snap := e.load(true)
	e.mu.Unlock()

	e.notify(snap)
}

// Next loads the following page if there is one.
func (e *Engine[T]) Next() {
	s := e.State()
	if s.HasNext() {
		e.GoToPage(s.CurrentPage + 1)
	}
}

// Prev loads the previous page if there is one.
func (e *Engine[T]) Prev() {
	s := e.State()
	if s.HasPrev() {
		e.GoToPage(s.CurrentPage - 1)
	}
}

// Refresh re-fetches the current page, ignoring the cache.
func (e *Engine[T]) Refresh() {
	e.mu.Lock()
	if e.closed || e.state.Endpoint == "" {
		e.mu.Unlock()
		return
	}
	snap := e.load(false)
	e.mu.Unlock()

	e.notify(snap)
}

// Wait blocks until every request started so far has completed.
func (e *Engine[T]) Wait() {
	e.wg.Wait()
}

// Close cancels in-flight requests. No completion changes the state
// afterwards.
func (e *Engine[T]) Close() {
	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()
	e.cancel()
}

// load starts an authoritative request for the current page. It must be
// called with e.mu held and returns the state to publish.
func (e *Engine[T]) load(useCache bool) State[T] {
	e.seq++
	seq := e.seq
	gen := e.gen
	key := cacheKey{endpoint: e.state.Endpoint, page: e.state.CurrentPage}

	if cached, ok := e.cache[key]; ok && useCache {
		e.state.Items = cached.items
		e.state.Pagination = cached.pagination
		e.pagesKnown = true
	}
	e.state.IsStale = len(e.state.Items) > 0
	e.state.IsLoading = true

	// a pending prefetch of the same page is joined, anything else is fetched anew
	if !useCache || !e.prefetching[key] {
		e.group.Forget(key.String())
	}
	ch := e.group.DoChan(key.String(), e.fetchFunc(key))

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		res := <-ch
		e.complete(seq, gen, key, res)
	}()

	return e.snapshot()
}

func (e *Engine[T]) complete(seq, gen uint64, key cacheKey, res singleflight.Result) {
	e.mu.Lock()
	if e.closed || seq != e.seq {
		e.mu.Unlock()
		logger.Debug("Discarding superseded page response", "endpoint", key.endpoint, "page", key.page)
		return
	}

	if res.Err != nil {
		e.state.IsLoading = false
		e.state.IsStale = false
		e.state.Error = clierrors.UserMessage(res.Err)
		snap := e.snapshot()
		e.mu.Unlock()

		logger.Warn("Failed to load page", "endpoint", key.endpoint, "page", key.page, "error", res.Err)
		e.notify(snap)
		return
	}

	p := res.Val.(page[T])
	e.cache[key] = p
	e.state.Items = p.items
	e.state.Pagination = p.pagination
	e.pagesKnown = true
	e.state.IsLoading = false
	e.state.IsStale = false
	e.state.Error = ""
	snap := e.snapshot()

	next := cacheKey{endpoint: key.endpoint, page: key.page + 1}
	startPrefetch := e.prefetch && next.page <= p.pagination.Pages && !e.prefetching[next]
	if _, cached := e.cache[next]; cached {
		startPrefetch = false
	}
	if startPrefetch {
		e.startPrefetch(gen, next)
	}
	e.mu.Unlock()

	e.notify(snap)
}

// startPrefetch must be called with e.mu held.
func (e *Engine[T]) startPrefetch(gen uint64, key cacheKey) {
	e.prefetching[key] = true
	ch := e.group.DoChan(key.String(), e.fetchFunc(key))

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		res := <-ch

		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.prefetching, key)
		if e.closed || gen != e.gen {
			logger.Debug("Discarding prefetch for a previous endpoint", "endpoint", key.endpoint, "page", key.page)
			return
		}
		if res.Err != nil {
			logger.Debug("Prefetch failed", "endpoint", key.endpoint, "page", key.page, "error", res.Err)
			return
		}
		if _, ok := e.cache[key]; ok {
			return
		}
		e.cache[key] = res.Val.(page[T])
	}()
}

func (e *Engine[T]) fetchFunc(key cacheKey) func() (interface{}, error) {
	return func() (interface{}, error) {
		raw, err := e.fetch(e.ctx, key.endpoint, key.page, e.limit)
		if err != nil {
			return nil, err
		}
		return e.decode(key, raw), nil
	}
}

func (e *Engine[T]) decode(key cacheKey, raw RawPage) page[T] {
	items := make([]T, 0, len(raw.Items))
	for i, r := range raw.Items {
		item, err := e.transform(r)
		if err != nil {
			logger.Warn("Skipping undecodable list item", "endpoint", key.endpoint, "page", key.page, "index", i, "error", err)
			continue
		}
		items = append(items, item)
	}

	pg := raw.Pagination
	if pg.Limit <= 0 {
		pg.Limit = e.limit
	}
	if pg.Pages <= 0 && pg.Total > 0 {
		pg.Pages = (pg.Total + pg.Limit - 1) / pg.Limit
	}
	return page[T]{items: items, pagination: pg}
}

func (e *Engine[T]) notify(s State[T]) {
	if e.onChange != nil {
		e.onChange(s)
	}
}
