package locale

import (
	"context"
	"testing"
	"time"

	"github.com/hindiconfession/cli/pkg/session"
	"github.com/hindiconfession/cli/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hydrate(t *testing.T, s *session.Store) {
	t.Helper()
	s.Rehydrate(context.Background())
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.WaitHydrated(ctx))
}

func TestParseLanguage(t *testing.T) {
	testCases := []struct {
		in     string
		expect Language
		ok     bool
	}{
		{"hindi", Hindi, true},
		{"English", English, true},
		{" punjabi ", Punjabi, true},
		{"french", "", false},
		{"", "", false},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, ok := ParseLanguage(tc.in)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.expect, got)
		})
	}
}

func TestGuestLanguageBeforeAndAfterHydration(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	require.NoError(t, storage.SetJSON(ctx, mem, GuestKey, "punjabi"))

	sess := session.NewStore(mem)
	r := NewResolver(sess, mem)

	assert.Equal(t, Hindi, r.Current(ctx), "unhydrated session must render the default")

	hydrate(t, sess)
	assert.Equal(t, Punjabi, r.Current(ctx))
}

func TestGuestLanguageInvalidOrMissing(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	sess := session.NewStore(mem)
	hydrate(t, sess)
	r := NewResolver(sess, mem)

	assert.Equal(t, Default, r.Current(ctx))

	require.NoError(t, storage.SetJSON(ctx, mem, GuestKey, "klingon"))
	assert.Equal(t, Default, r.Current(ctx))

	require.NoError(t, mem.Set(ctx, GuestKey, []byte("{broken")))
	assert.Equal(t, Default, r.Current(ctx))
}

func TestAuthenticatedUserLanguageWins(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	require.NoError(t, storage.SetJSON(ctx, mem, GuestKey, "punjabi"))

	sess := session.NewStore(mem)
	hydrate(t, sess)
	sess.Login(session.User{ID: "u1", Username: "anon", Language: English}, "tok")

	r := NewResolver(sess, mem)
	assert.Equal(t, English, r.Current(ctx))

	sess.SetLanguage("gibberish")
	assert.Equal(t, Default, r.Current(ctx))
}

func TestNoopStorageAlwaysDefault(t *testing.T) {
	ctx := context.Background()
	sess := session.NewStore(storage.Noop{})
	hydrate(t, sess)
	r := NewResolver(sess, storage.Noop{})

	require.NoError(t, r.SetGuest(ctx, English))
	assert.Equal(t, Default, r.Current(ctx))
}

func TestSetRoutesByAuthentication(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	sess := session.NewStore(mem)
	hydrate(t, sess)
	r := NewResolver(sess, mem)

	require.NoError(t, r.Set(ctx, Punjabi))
	var guest string
	require.NoError(t, storage.GetJSON(ctx, mem, GuestKey, &guest))
	assert.Equal(t, "punjabi", guest)

	sess.Login(session.User{ID: "u1", Language: Hindi}, "tok")
	require.NoError(t, r.Set(ctx, English))
	assert.Equal(t, English, sess.User().Language)

	require.NoError(t, storage.GetJSON(ctx, mem, GuestKey, &guest))
	assert.Equal(t, "punjabi", guest, "guest key is untouched while logged in")
}

func TestClearGuest(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	s := session.NewStore(mem)
	hydrate(t, s)
	r := NewResolver(s, mem)

	require.NoError(t, r.SetGuest(ctx, Punjabi))
	require.Equal(t, Punjabi, r.Current(ctx))

	require.NoError(t, r.ClearGuest(ctx))
	assert.Equal(t, Default, r.Current(ctx))
	_, err := mem.Get(ctx, GuestKey)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, r.ClearGuest(ctx), "clearing twice is fine")
}

func TestReactionLabel(t *testing.T) {
	assert.Equal(t, "हॉट", ReactionLabel(Hindi, ReactionHot))
	assert.Equal(t, "ਉਦਾਸ", ReactionLabel(Punjabi, ReactionSad))
	assert.Equal(t, "Intense", ReactionLabel(English, ReactionTooMuch))
	assert.Equal(t, "Felt this", ReactionLabel("french", ReactionFeltThis))
	assert.Equal(t, "laugh", ReactionLabel(Hindi, "laugh"))
	assert.Len(t, ReactionTypes, 6)
	for _, rt := range ReactionTypes {
		assert.True(t, IsReactionType(rt))
		assert.NotEmpty(t, ReactionEmoji[rt])
	}
}

func TestNormalityHint(t *testing.T) {
	testCases := []struct {
		name   string
		counts map[string]int
		expect string
	}{
		{"too few", map[string]int{ReactionRelatable: 4}, HintNone},
		{"many relate", map[string]int{ReactionRelatable: 6, ReactionHot: 4}, HintManyRelate},
		{"exactly half is not many", map[string]int{ReactionRelatable: 5, ReactionHot: 5}, HintMixed},
		{"uncommon", map[string]int{ReactionTooMuch: 4, ReactionSad: 6}, HintUncommon},
		{"mixed", map[string]int{ReactionHot: 3, ReactionSad: 3}, HintMixed},
		{"negatives ignored in total", map[string]int{ReactionHot: -10, ReactionSad: 5}, HintMixed},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, NormalityHint(tc.counts))
		})
	}

	assert.Empty(t, HintLabel(Hindi, HintNone))
}

func TestHintLabels(t *testing.T) {
	testCases := []struct {
		lang   Language
		hint   string
		expect string
	}{
		{Hindi, HintUncommon, "⚠ असामान्य"},
		{Hindi, HintMixed, "≈ मिश्रित प्रतिक्रियाएं"},
		{Punjabi, HintManyRelate, "✓ ਬਹੁਤ ਲੋਕ ਸੰਬੰਧਤ ਹਨ"},
		{Punjabi, HintUncommon, "⚠ ਅਸਾਧਾਰਨ"},
		{Punjabi, HintMixed, "≈ ਮਿਲੀ-ਜੁਲੀ ਪ੍ਰਤੀਕ੍ਰਿਆ"},
		{English, HintMixed, "≈ Mixed reactions"},
	}

	for _, tc := range testCases {
		t.Run(string(tc.lang)+"/"+tc.hint, func(t *testing.T) {
			assert.Equal(t, tc.expect, HintLabel(tc.lang, tc.hint))
		})
	}
}
