// Package reaction applies reaction toggles optimistically and rolls them
// back to the exact pre-mutation snapshot when the backend rejects them.
package reaction

import (
	"context"
	"sync"

	clierrors "github.com/hindiconfession/cli/pkg/errors"
	"github.com/hindiconfession/cli/pkg/locale"
	"github.com/hindiconfession/cli/pkg/logger"
	"github.com/hindiconfession/cli/pkg/model"
)

// Reactor sends reaction changes to the backend.
type Reactor interface {
	React(ctx context.Context, postID, reactionType string) error
	Unreact(ctx context.Context, postID string) error
}

// Phase of the tracker's state machine.
type Phase int

const (
	Idle Phase = iota
	Pending
	Committed
	RolledBack
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Committed:
		return "committed"
	case RolledBack:
		return "rolled-back"
	}
	return "unknown"
}

// Snapshot is the reaction state of one post.
type Snapshot struct {
	Counts   model.ReactionCounts
	Selected string
}

// View is what a renderer needs.
type View struct {
	Snapshot
	Phase Phase
	Err   error
}

// Tracker owns the reaction state of a single post. Toggles update the
// counts at once; backend calls are sent in toggle order in the background.
type Tracker struct {
	postID   string
	reactor  Reactor
	onChange func(View)

	mu       sync.Mutex
	current  Snapshot
	phase    Phase
	snapshot Snapshot
	burst    uint64
	inflight int
	err      error
	lastDone chan struct{}
	wg       sync.WaitGroup
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithOnChange registers fn to receive every state change.
func WithOnChange(fn func(View)) Option {
	return func(t *Tracker) {
		t.onChange = fn
	}
}

// NewTracker starts idle with the given counts and selection.
func NewTracker(postID string, counts model.ReactionCounts, selected string, r Reactor, opts ...Option) *Tracker {
	done := make(chan struct{})
	close(done)
	t := &Tracker{
		postID:   postID,
		reactor:  r,
		current:  Snapshot{Counts: counts, Selected: selected},
		lastDone: done,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// ForPost creates a tracker from a post view model.
func ForPost(p model.Post, r Reactor, opts ...Option) *Tracker {
	return NewTracker(p.ID, p.Reactions, p.UserReaction, r, opts...)
}

// View returns the current state.
func (t *Tracker) View() View {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.view()
}

func (t *Tracker) view() View {
	return View{Snapshot: t.current, Phase: t.phase, Err: t.err}
}

// Toggle selects reactionType, or clears it when it is already selected.
// The counts change immediately and the backend call runs in the
// background. Only an unknown reaction type is reported here.
func (t *Tracker) Toggle(ctx context.Context, reactionType string) error {
	if !locale.IsReactionType(reactionType) {
		return clierrors.ValidationError("reaction", "unknown reaction type "+reactionType)
	}

	t.mu.Lock()
	if t.phase != Pending {
		t.burst++
		t.snapshot = t.current
		t.phase = Pending
		t.err = nil
	}
	burst := t.burst
	t.inflight++

	prev := t.current.Selected
	counts := t.current.Counts
	remove := prev == reactionType
	if remove {
		counts = counts.With(reactionType, counts.Get(reactionType)-1)
		t.current = Snapshot{Counts: counts}
	} else {
		if prev != "" {
			counts = counts.With(prev, counts.Get(prev)-1)
		}
		counts = counts.With(reactionType, counts.Get(reactionType)+1)
		t.current = Snapshot{Counts: counts, Selected: reactionType}
	}

	wait := t.lastDone
	done := make(chan struct{})
	t.lastDone = done
	v := t.view()
	t.mu.Unlock()

	t.notify(v)

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		defer close(done)
		<-wait

		var err error
		if remove {
			err = t.reactor.Unreact(ctx, t.postID)
		} else {
			err = t.reactor.React(ctx, t.postID, reactionType)
		}
		t.settle(burst, err)
	}()
	return nil
}

func (t *Tracker) settle(burst uint64, err error) {
	t.mu.Lock()
	if burst != t.burst || t.phase != Pending {
		t.mu.Unlock()
		logger.Debug("Ignoring reaction result from a finished burst", "post_id", t.postID, "error", err)
		return
	}
	t.inflight--

	if err != nil {
		t.current = t.snapshot
		t.phase = RolledBack
		t.err = err
		t.inflight = 0
		v := t.view()
		t.mu.Unlock()

		logger.Warn("Reaction failed, restoring previous counts", "post_id", t.postID, "error", err)
		t.notify(v)
		return
	}

	if t.inflight > 0 {
		t.mu.Unlock()
		return
	}
	t.phase = Committed
	v := t.view()
	t.mu.Unlock()

	t.notify(v)
}

// Wait blocks until every backend call issued so far has finished.
func (t *Tracker) Wait() {
	t.wg.Wait()
}

// Apply toggles reactionType and waits for the backend. It returns the
// backend error, if any, after the rollback has been applied.
func (t *Tracker) Apply(ctx context.Context, reactionType string) (View, error) {
	if err := t.Toggle(ctx, reactionType); err != nil {
		return t.View(), err
	}
	t.Wait()
	v := t.View()
	return v, v.Err
}

func (t *Tracker) notify(v View) {
	if t.onChange != nil {
		t.onChange(v)
	}
}
