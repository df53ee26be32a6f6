// Package persist implements an in-memory state container that writes a
// whitelisted projection of its state through to durable storage on every
// mutation and loads it back once, asynchronously, at start-up.
//
// Hydration is never automatic. The application root calls Rehydrate once
// after construction; until it completes, Hydrated reports false and callers
// that branch on persisted fields should render their neutral state.
package persist

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/hindiconfession/cli/pkg/logger"
	"github.com/hindiconfession/cli/pkg/storage"
)

const defaultTimeout = 5 * time.Second

// Store holds a state value S and persists the projection P of it.
type Store[S any, P any] struct {
	key        string
	storage    storage.Storage
	partialize func(S) P
	merge      func(S, P) S
	timeout    time.Duration

	mu         sync.Mutex
	state      S
	hydrated   bool
	hydratedCh chan struct{}
	mutated    bool
	started    bool
	listeners  map[int]func(S)
	nextID     int
}

// Option configures a Store.
type Option[S any, P any] func(*Store[S, P])

// WithTimeout bounds each storage call.
func WithTimeout[S any, P any](d time.Duration) Option[S, P] {
	return func(s *Store[S, P]) {
		s.timeout = d
	}
}

// New creates a store holding initial. partialize selects what is written;
// merge applies a loaded projection onto the current state.
func New[S any, P any](key string, initial S, st storage.Storage, partialize func(S) P, merge func(S, P) S, opts ...Option[S, P]) *Store[S, P] {
	if st == nil {
		st = storage.Noop{}
	}
	s := &Store[S, P]{
		key:        key,
		storage:    st,
		partialize: partialize,
		merge:      merge,
		timeout:    defaultTimeout,
		state:      initial,
		hydratedCh: make(chan struct{}),
		listeners:  make(map[int]func(S)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key returns the storage key of the persisted projection.
func (s *Store[S, P]) Key() string {
	return s.key
}

// Storage returns the backing storage.
func (s *Store[S, P]) Storage() storage.Storage {
	return s.storage
}

// Get returns a copy of the current state.
func (s *Store[S, P]) Get() S {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Update applies fn to the state and writes the projection before returning.
// Subscribers are notified after the lock is released.
func (s *Store[S, P]) Update(fn func(S) S) S {
	s.mu.Lock()
	s.state = fn(s.state)
	s.mutated = true
	s.write(s.partialize(s.state))
	next := s.state
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	for _, l := range listeners {
		l(next)
	}
	return next
}

// UpdateMemory applies fn without touching storage. Used for fields that are
// not part of the projection, such as prompt visibility.
func (s *Store[S, P]) UpdateMemory(fn func(S) S) S {
	s.mu.Lock()
	s.state = fn(s.state)
	next := s.state
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	for _, l := range listeners {
		l(next)
	}
	return next
}

// write must be called with s.mu held.
func (s *Store[S, P]) write(p P) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := storage.SetJSON(ctx, s.storage, s.key, p); err != nil {
		logger.Warn("Failed to persist state", "key", s.key, "error", err)
	}
}

// Rehydrate loads the persisted projection in the background and marks the
// store hydrated when the read finishes. Only the first call does anything.
// With no durable storage the store is marked hydrated immediately.
func (s *Store[S, P]) Rehydrate(ctx context.Context) {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.mu.Unlock()

	if !storage.Available(s.storage) {
		s.SetHydrated(true)
		return
	}

	go s.hydrate(ctx)
}

func (s *Store[S, P]) hydrate(ctx context.Context) {
	defer s.SetHydrated(true)

	readCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var p P
	err := storage.GetJSON(readCtx, s.storage, s.key, &p)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		logger.Debug("No persisted state", "key", s.key)
		return
	case err != nil:
		logger.Warn("Failed to load persisted state", "key", s.key, "error", err)
		return
	}

	s.mu.Lock()
	if s.mutated {
		// a mutation raced ahead of hydration and was already written through
		s.mu.Unlock()
		logger.Debug("Discarding persisted state superseded by a mutation", "key", s.key)
		return
	}
	s.state = s.merge(s.state, p)
	next := s.state
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	for _, l := range listeners {
		l(next)
	}
}

// Hydrated reports whether the persisted projection has been loaded.
func (s *Store[S, P]) Hydrated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hydrated
}

// SetHydrated overrides the hydration flag.
func (s *Store[S, P]) SetHydrated(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v == s.hydrated {
		return
	}
	s.hydrated = v
	if v {
		close(s.hydratedCh)
	} else {
		s.hydratedCh = make(chan struct{})
	}
}

// WaitHydrated blocks until the store is hydrated or ctx is done.
func (s *Store[S, P]) WaitHydrated(ctx context.Context) error {
	s.mu.Lock()
	ch := s.hydratedCh
	s.mu.Unlock()

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Subscribe registers fn to be called with the new state after every change.
// The returned function removes the subscription.
func (s *Store[S, P]) Subscribe(fn func(S)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *Store[S, P]) snapshotListeners() []func(S) {
	if len(s.listeners) == 0 {
		return nil
	}
	out := make([]func(S), 0, len(s.listeners))
	for _, l := range s.listeners {
		out = append(out, l)
	}
	return out
}
