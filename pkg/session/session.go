// Package session holds the end-user session: who is logged in, their
// preferences, whether they passed the age gate, and the single action
// deferred behind the login prompt.
package session

import (
	"context"

	"github.com/hindiconfession/cli/pkg/persist"
	"github.com/hindiconfession/cli/pkg/storage"
)

// StorageKey is where the persisted session projection lives.
const StorageKey = "hindi-confession-auth"

// Language is a UI locale code as stored on the user.
type Language string

const (
	LanguageHindi   Language = "hindi"
	LanguageEnglish Language = "english"
	LanguagePunjabi Language = "punjabi"
)

// Theme is the user's colour preference.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// User is the authenticated account as returned by the backend.
type User struct {
	ID                  string   `json:"id"`
	Username            string   `json:"username"`
	Avatar              string   `json:"avatar,omitempty"`
	Language            Language `json:"language"`
	Theme               Theme    `json:"theme"`
	ShowNsfw            bool     `json:"showNsfw"`
	UsernameChangesLeft *int     `json:"usernameChangesLeft,omitempty"`
}

// UserUpdate is a partial user; nil fields are left untouched.
type UserUpdate struct {
	Username            *string
	Avatar              *string
	Language            *Language
	Theme               *Theme
	ShowNsfw            *bool
	UsernameChangesLeft *int
}

// State is the full in-memory session.
type State struct {
	User            *User
	Token           string
	IsAuthenticated bool
	AgeVerified     bool
	ShowAuthPrompt  bool
	PendingAction   func()
}

// Persisted is the whitelisted projection written to storage.
type Persisted struct {
	User            *User  `json:"user"`
	Token           string `json:"token"`
	IsAuthenticated bool   `json:"isAuthenticated"`
	AgeVerified     bool   `json:"ageVerified"`
}

// Project returns the persisted projection of s.
func Project(s State) Persisted {
	return Persisted{
		User:            cloneUser(s.User),
		Token:           s.Token,
		IsAuthenticated: s.IsAuthenticated,
		AgeVerified:     s.AgeVerified,
	}
}

func merge(s State, p Persisted) State {
	s.User = p.User
	s.Token = p.Token
	s.IsAuthenticated = p.IsAuthenticated
	s.AgeVerified = p.AgeVerified
	return s
}

// Store is the session container. One instance is created by the
// application root and handed to everything that needs it.
type Store struct {
	inner *persist.Store[State, Persisted]
}

// NewStore creates an empty, unhydrated session backed by st.
func NewStore(st storage.Storage) *Store {
	return &Store{
		inner: persist.New(StorageKey, State{}, st, Project, merge),
	}
}

// Rehydrate starts the one-shot background load of the persisted session.
func (s *Store) Rehydrate(ctx context.Context) {
	s.inner.Rehydrate(ctx)
}

// Hydrated reports whether the persisted session has been loaded.
func (s *Store) Hydrated() bool {
	return s.inner.Hydrated()
}

// SetHasHydrated overrides the hydration flag.
func (s *Store) SetHasHydrated(v bool) {
	s.inner.SetHydrated(v)
}

// WaitHydrated blocks until hydration completes or ctx is done.
func (s *Store) WaitHydrated(ctx context.Context) error {
	return s.inner.WaitHydrated(ctx)
}

// Snapshot returns the current state. The user is a copy.
func (s *Store) Snapshot() State {
	st := s.inner.Get()
	st.User = cloneUser(st.User)
	return st
}

// Token returns the bearer token, empty when logged out.
func (s *Store) Token() string {
	return s.inner.Get().Token
}

// IsAuthenticated reports whether a user is logged in.
func (s *Store) IsAuthenticated() bool {
	return s.inner.Get().IsAuthenticated
}

// User returns a copy of the logged-in user, or nil.
func (s *Store) User() *User {
	return cloneUser(s.inner.Get().User)
}

// Subscribe registers fn for every state change.
func (s *Store) Subscribe(fn func(State)) func() {
	return s.inner.Subscribe(fn)
}

// Login records an authenticated session.
func (s *Store) Login(user User, token string) {
	s.inner.Update(func(st State) State {
		u := user
		st.User = &u
		st.Token = token
		st.IsAuthenticated = true
		return st
	})
}

// Logout clears the authenticated session. Age verification is kept.
func (s *Store) Logout() {
	s.inner.Update(func(st State) State {
		st.User = nil
		st.Token = ""
		st.IsAuthenticated = false
		return st
	})
}

// VerifyAge marks the age gate as passed.
func (s *Store) VerifyAge() {
	s.inner.Update(func(st State) State {
		st.AgeVerified = true
		return st
	})
}

// UpdateUser merges the non-nil fields of u into the current user.
func (s *Store) UpdateUser(u UserUpdate) {
	s.inner.Update(func(st State) State {
		if st.User == nil {
			return st
		}
		next := *st.User
		if u.Username != nil {
			next.Username = *u.Username
		}
		if u.Avatar != nil {
			next.Avatar = *u.Avatar
		}
		if u.Language != nil {
			next.Language = *u.Language
		}
		if u.Theme != nil {
			next.Theme = *u.Theme
		}
		if u.ShowNsfw != nil {
			next.ShowNsfw = *u.ShowNsfw
		}
		if u.UsernameChangesLeft != nil {
			n := *u.UsernameChangesLeft
			next.UsernameChangesLeft = &n
		}
		st.User = &next
		return st
	})
}

// SetLanguage changes the logged-in user's language.
func (s *Store) SetLanguage(l Language) {
	s.UpdateUser(UserUpdate{Language: &l})
}

// SetTheme changes the logged-in user's theme.
func (s *Store) SetTheme(t Theme) {
	s.UpdateUser(UserUpdate{Theme: &t})
}

// SetShowNsfw changes the logged-in user's NSFW preference.
func (s *Store) SetShowNsfw(show bool) {
	s.UpdateUser(UserUpdate{ShowNsfw: &show})
}

// SetAvatar changes the logged-in user's avatar.
func (s *Store) SetAvatar(avatar string) {
	s.UpdateUser(UserUpdate{Avatar: &avatar})
}

// OpenAuthPrompt asks for the login prompt to be shown and defers action
// until login succeeds. A previous deferred action is replaced.
func (s *Store) OpenAuthPrompt(action func()) {
	s.inner.UpdateMemory(func(st State) State {
		st.ShowAuthPrompt = true
		st.PendingAction = action
		return st
	})
}

// CloseAuthPrompt hides the prompt and drops any deferred action.
func (s *Store) CloseAuthPrompt() {
	s.inner.UpdateMemory(func(st State) State {
		st.ShowAuthPrompt = false
		st.PendingAction = nil
		return st
	})
}

// ShowAuthPrompt reports whether the login prompt was requested.
func (s *Store) ShowAuthPrompt() bool {
	return s.inner.Get().ShowAuthPrompt
}

// HasPendingAction reports whether an action is waiting for login.
func (s *Store) HasPendingAction() bool {
	return s.inner.Get().PendingAction != nil
}

// ExecutePendingAction runs the deferred action once if the user is
// authenticated. The action is cleared before it runs.
func (s *Store) ExecutePendingAction() bool {
	var action func()
	s.inner.UpdateMemory(func(st State) State {
		if !st.IsAuthenticated || st.PendingAction == nil {
			return st
		}
		action = st.PendingAction
		st.PendingAction = nil
		return st
	})
	if action == nil {
		return false
	}
	action()
	return true
}

func cloneUser(u *User) *User {
	if u == nil {
		return nil
	}
	c := *u
	if u.UsernameChangesLeft != nil {
		n := *u.UsernameChangesLeft
		c.UsernameChangesLeft = &n
	}
	return &c
}
