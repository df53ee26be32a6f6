package service

import (
	"context"
	"net/http"
	"testing"

	clierrors "github.com/hindiconfession/cli/pkg/errors"
	"github.com/hindiconfession/cli/pkg/locale"
	"github.com/hindiconfession/cli/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetGuestLanguage(t *testing.T) {
	h := newHarness(t, http.NewServeMux(), "")
	ctx := context.Background()

	require.NoError(t, NewLanguageService(h.deps).Set(ctx, " Punjabi "))

	assert.Equal(t, locale.Punjabi, h.deps.Locale.Current(ctx))
	raw, err := h.store.Get(ctx, locale.GuestKey)
	require.NoError(t, err)
	assert.Equal(t, `"punjabi"`, string(raw))
}

func TestSetUserLanguage(t *testing.T) {
	h := newHarness(t, http.NewServeMux(), "")
	ctx := context.Background()
	h.deps.Session.Login(session.User{ID: "u1", Username: "asha", Language: session.LanguageHindi}, "tok")

	require.NoError(t, NewLanguageService(h.deps).Set(ctx, "english"))

	assert.Equal(t, session.LanguageEnglish, h.deps.Session.User().Language)
	_, err := h.store.Get(ctx, locale.GuestKey)
	assert.Error(t, err)
}

func TestSetLanguageRejectsUnknown(t *testing.T) {
	h := newHarness(t, http.NewServeMux(), "")

	err := NewLanguageService(h.deps).Set(context.Background(), "french")

	var cliErr *clierrors.CLIError
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, "language", cliErr.Field)
}

func TestResetGuestLanguage(t *testing.T) {
	h := newHarness(t, http.NewServeMux(), "")
	ctx := context.Background()
	ls := NewLanguageService(h.deps)

	require.NoError(t, ls.Set(ctx, "english"))
	require.NoError(t, ls.Reset(ctx))

	assert.Equal(t, locale.Default, h.deps.Locale.Current(ctx))
	_, err := h.store.Get(ctx, locale.GuestKey)
	assert.Error(t, err)
}

func TestShowLanguage(t *testing.T) {
	h := newHarness(t, http.NewServeMux(), "")

	require.NoError(t, NewLanguageService(h.deps).Show(context.Background()))
	assert.Contains(t, h.out.String(), "hindi")
	assert.Contains(t, h.out.String(), "guest preference")
}
