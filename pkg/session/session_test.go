package session

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/hindiconfession/cli/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUser() User {
	return User{ID: "u1", Username: "raat_ki_baat", Language: LanguageHindi, Theme: ThemeDark}
}

func persisted(t *testing.T, st storage.Storage) Persisted {
	t.Helper()
	var p Persisted
	require.NoError(t, storage.GetJSON(context.Background(), st, StorageKey, &p))
	return p
}

func TestLoginPersistsImmediately(t *testing.T) {
	mem := storage.NewMemory()
	s := NewStore(mem)

	s.Login(testUser(), "tok-1")

	p := persisted(t, mem)
	assert.True(t, p.IsAuthenticated)
	assert.Equal(t, "tok-1", p.Token)
	require.NotNil(t, p.User)
	assert.Equal(t, "raat_ki_baat", p.User.Username)
	assert.Equal(t, "tok-1", s.Token())
}

func TestLogoutErasesPersistedSession(t *testing.T) {
	mem := storage.NewMemory()
	s := NewStore(mem)
	s.VerifyAge()
	s.Login(testUser(), "tok-1")

	s.Logout()

	p := persisted(t, mem)
	assert.False(t, p.IsAuthenticated)
	assert.Empty(t, p.Token)
	assert.Nil(t, p.User)
	assert.True(t, p.AgeVerified, "age verification is independent of authentication")
	assert.Nil(t, s.User())
}

// For any sequence of login/logout calls the stored snapshot equals the
// projection of the in-memory state.
func TestPersistedSnapshotMatchesProjection(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for run := 0; run < 25; run++ {
		mem := storage.NewMemory()
		s := NewStore(mem)
		steps := 1 + rng.Intn(12)
		for i := 0; i < steps; i++ {
			switch rng.Intn(3) {
			case 0:
				u := testUser()
				u.ID = string(rune('a' + rng.Intn(26)))
				s.Login(u, "tok-"+u.ID)
			case 1:
				s.Logout()
			case 2:
				s.VerifyAge()
			}
		}
		assert.Equal(t, Project(s.Snapshot()), persisted(t, mem), "run %d", run)
	}
}

func TestPendingActionRunsExactlyOnceAfterLogin(t *testing.T) {
	s := NewStore(storage.NewMemory())
	calls := 0

	s.OpenAuthPrompt(func() { calls++ })
	assert.True(t, s.ShowAuthPrompt())

	assert.False(t, s.ExecutePendingAction(), "not authenticated yet")
	assert.Equal(t, 0, calls)

	s.Login(testUser(), "tok")
	assert.True(t, s.ExecutePendingAction())
	assert.Equal(t, 1, calls)

	assert.False(t, s.ExecutePendingAction())
	assert.Equal(t, 1, calls)
	assert.False(t, s.HasPendingAction())
}

func TestOpenAuthPromptOverwritesPreviousAction(t *testing.T) {
	s := NewStore(storage.NewMemory())
	var ran []string

	s.OpenAuthPrompt(func() { ran = append(ran, "first") })
	s.OpenAuthPrompt(func() { ran = append(ran, "second") })
	s.Login(testUser(), "tok")
	s.ExecutePendingAction()

	assert.Equal(t, []string{"second"}, ran)
}

func TestCloseAuthPromptDiscardsAction(t *testing.T) {
	s := NewStore(storage.NewMemory())
	calls := 0
	s.OpenAuthPrompt(func() { calls++ })
	s.CloseAuthPrompt()
	s.Login(testUser(), "tok")

	assert.False(t, s.ExecutePendingAction())
	assert.Equal(t, 0, calls)
	assert.False(t, s.ShowAuthPrompt())
}

func TestPendingActionReentrantCallIsNoop(t *testing.T) {
	s := NewStore(storage.NewMemory())
	calls := 0
	s.OpenAuthPrompt(func() {
		calls++
		s.ExecutePendingAction()
	})
	s.Login(testUser(), "tok")
	s.ExecutePendingAction()
	assert.Equal(t, 1, calls)
}

func TestPendingActionIsNotPersisted(t *testing.T) {
	mem := storage.NewMemory()
	s := NewStore(mem)
	s.Login(testUser(), "tok")
	s.OpenAuthPrompt(func() {})

	restored := NewStore(mem)
	restored.Rehydrate(context.Background())
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, restored.WaitHydrated(ctx))

	assert.True(t, restored.IsAuthenticated())
	assert.False(t, restored.HasPendingAction())
	assert.False(t, restored.ShowAuthPrompt())
}

func TestUpdateUserMergesFields(t *testing.T) {
	mem := storage.NewMemory()
	s := NewStore(mem)
	s.Login(testUser(), "tok")

	left := 2
	s.UpdateUser(UserUpdate{UsernameChangesLeft: &left})
	s.SetLanguage(LanguagePunjabi)
	s.SetTheme(ThemeLight)
	s.SetShowNsfw(true)
	s.SetAvatar("https://cdn.example/a.png")

	u := s.User()
	require.NotNil(t, u)
	assert.Equal(t, "raat_ki_baat", u.Username)
	assert.Equal(t, LanguagePunjabi, u.Language)
	assert.Equal(t, ThemeLight, u.Theme)
	assert.True(t, u.ShowNsfw)
	assert.Equal(t, "https://cdn.example/a.png", u.Avatar)
	require.NotNil(t, u.UsernameChangesLeft)
	assert.Equal(t, 2, *u.UsernameChangesLeft)

	assert.Equal(t, LanguagePunjabi, persisted(t, mem).User.Language)
}

func TestUpdateUserWithoutUserIsNoop(t *testing.T) {
	s := NewStore(storage.NewMemory())
	s.SetLanguage(LanguageEnglish)
	assert.Nil(t, s.User())
	assert.False(t, s.IsAuthenticated())
}

func TestUserCopyIsIsolated(t *testing.T) {
	s := NewStore(storage.NewMemory())
	s.Login(testUser(), "tok")

	u := s.User()
	u.Username = "mutated"
	assert.Equal(t, "raat_ki_baat", s.User().Username)
}

func TestHydrationRestoresSession(t *testing.T) {
	mem := storage.NewMemory()
	first := NewStore(mem)
	first.VerifyAge()
	first.Login(testUser(), "tok-9")

	second := NewStore(mem)
	assert.False(t, second.Hydrated())
	assert.False(t, second.IsAuthenticated())

	second.Rehydrate(context.Background())
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, second.WaitHydrated(ctx))

	snap := second.Snapshot()
	assert.True(t, snap.IsAuthenticated)
	assert.True(t, snap.AgeVerified)
	assert.Equal(t, "tok-9", snap.Token)
}

func TestCorruptStorageDegradesToLoggedOut(t *testing.T) {
	mem := storage.NewMemory()
	require.NoError(t, mem.Set(context.Background(), StorageKey, []byte(`{"user": 12`)))

	s := NewStore(mem)
	s.Rehydrate(context.Background())
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.WaitHydrated(ctx))

	assert.False(t, s.IsAuthenticated())
	assert.Nil(t, s.User())
}

func TestNoopStorageHydratesImmediately(t *testing.T) {
	s := NewStore(storage.Noop{})
	s.Rehydrate(context.Background())
	assert.True(t, s.Hydrated())

	s.Login(testUser(), "tok")
	assert.True(t, s.IsAuthenticated())
}
