// Package locale resolves the UI language for both guests and logged-in
// users and carries the small label catalogue the CLI renders.
package locale

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/hindiconfession/cli/pkg/logger"
	"github.com/hindiconfession/cli/pkg/session"
	"github.com/hindiconfession/cli/pkg/storage"
)

// GuestKey is where a guest's language choice is stored.
const GuestKey = "guest-language"

// Language aliases the session language so callers only import one package.
type Language = session.Language

const (
	Hindi   = session.LanguageHindi
	English = session.LanguageEnglish
	Punjabi = session.LanguagePunjabi
)

// Default is used whenever no valid choice is available.
const Default = Hindi

// Languages lists the supported languages in menu order.
var Languages = []Language{Hindi, English, Punjabi}

// ParseLanguage validates s against the supported languages.
func ParseLanguage(s string) (Language, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, l := range Languages {
		if string(l) == s {
			return l, true
		}
	}
	return "", false
}

// Resolver answers "which language should be shown right now".
type Resolver struct {
	session *session.Store
	storage storage.Storage
	timeout time.Duration
}

// NewResolver creates a resolver reading the user's language from sess and
// the guest choice from st.
func NewResolver(sess *session.Store, st storage.Storage) *Resolver {
	if st == nil {
		st = storage.Noop{}
	}
	return &Resolver{session: sess, storage: st, timeout: 2 * time.Second}
}

// Current returns the effective language. Before the session is hydrated,
// or without durable storage, it is always Default so every first render
// agrees.
func (r *Resolver) Current(ctx context.Context) Language {
	if !storage.Available(r.storage) || !r.session.Hydrated() {
		return Default
	}

	if r.session.IsAuthenticated() {
		if u := r.session.User(); u != nil {
			if l, ok := ParseLanguage(string(u.Language)); ok {
				return l
			}
		}
		return Default
	}

	return r.guest(ctx)
}

func (r *Resolver) guest(ctx context.Context) Language {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var raw string
	err := storage.GetJSON(ctx, r.storage, GuestKey, &raw)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			logger.Debug("Unreadable guest language", "error", err)
		}
		return Default
	}
	if l, ok := ParseLanguage(raw); ok {
		return l
	}
	return Default
}

// SetGuest stores a guest's choice. Without durable storage it does nothing.
func (r *Resolver) SetGuest(ctx context.Context, lang Language) error {
	if !storage.Available(r.storage) {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return storage.SetJSON(ctx, r.storage, GuestKey, string(lang))
}

// ClearGuest forgets a guest's choice so Current falls back to Default.
func (r *Resolver) ClearGuest(ctx context.Context) error {
	if !storage.Available(r.storage) {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.storage.Remove(ctx, GuestKey)
}

// Set records lang for whoever is using the client: on the user when
// logged in, under the guest key otherwise.
func (r *Resolver) Set(ctx context.Context, lang Language) error {
	if r.session.IsAuthenticated() {
		r.session.SetLanguage(lang)
		return nil
	}
	return r.SetGuest(ctx, lang)
}
