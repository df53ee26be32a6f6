package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sessionDoc struct {
	Token       string `json:"token"`
	AgeVerified bool   `json:"ageVerified"`
}

func exerciseStorage(t *testing.T, s Storage) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Get(ctx, "guest-language")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set(ctx, "guest-language", []byte(`"punjabi"`)))
	got, err := s.Get(ctx, "guest-language")
	require.NoError(t, err)
	assert.Equal(t, `"punjabi"`, string(got))

	require.NoError(t, s.Set(ctx, "guest-language", []byte(`"english"`)))
	got, err = s.Get(ctx, "guest-language")
	require.NoError(t, err)
	assert.Equal(t, `"english"`, string(got))

	require.NoError(t, SetJSON(ctx, s, "hindi-confession-auth", sessionDoc{Token: "t1", AgeVerified: true}))
	var doc sessionDoc
	require.NoError(t, GetJSON(ctx, s, "hindi-confession-auth", &doc))
	assert.Equal(t, sessionDoc{Token: "t1", AgeVerified: true}, doc)

	require.NoError(t, s.Remove(ctx, "guest-language"))
	_, err = s.Get(ctx, "guest-language")
	require.ErrorIs(t, err, ErrNotFound)

	// removing a missing key is not an error
	require.NoError(t, s.Remove(ctx, "never-written"))
}

func TestMemoryStorage(t *testing.T) {
	exerciseStorage(t, NewMemory())
}

func TestMemoryStorageCopiesValues(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	value := []byte("abc")
	require.NoError(t, m.Set(ctx, "k", value))
	value[0] = 'z'

	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestFileStorage(t *testing.T) {
	s, err := NewFile(filepath.Join(t.TempDir(), "storage"))
	require.NoError(t, err)
	exerciseStorage(t, s)
}

func TestFileStoragePermissionsAndNames(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFile(dir)
	require.NoError(t, err)

	require.NoError(t, s.Set(context.Background(), "a/b:c", []byte("{}")))
	info, err := os.Stat(filepath.Join(dir, "a_b_c.json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestFileStorageRequiresDir(t *testing.T) {
	_, err := NewFile("")
	assert.Error(t, err)
}

func TestNoopStorage(t *testing.T) {
	ctx := context.Background()
	var s Storage = Noop{}

	require.NoError(t, s.Set(ctx, "k", []byte("v")))
	_, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, s.Remove(ctx, "k"))
	assert.False(t, Available(s))
	assert.False(t, Available(nil))
	assert.True(t, Available(NewMemory()))
}

func TestRedisStorage(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	s, err := NewRedis(context.Background(), RedisOptions{Addr: mr.Addr(), Prefix: "hc:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	exerciseStorage(t, s)

	require.NoError(t, s.Set(context.Background(), "guest-language", []byte(`"hindi"`)))
	assert.True(t, mr.Exists("hc:guest-language"))
}

func TestRedisStorageUnreachable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	_, err = NewRedis(context.Background(), RedisOptions{Addr: addr})
	assert.Error(t, err)
}

func TestOpenDrivers(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, Options{Driver: DriverNone})
	require.NoError(t, err)
	assert.IsType(t, Noop{}, s)

	s, err = Open(ctx, Options{Driver: DriverMemory})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, s)

	s, err = Open(ctx, Options{Driver: DriverFile, Dir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &File{}, s)

	_, err = Open(ctx, Options{Driver: "etcd"})
	assert.Error(t, err)
}

func TestGetJSONCorruptValue(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.Set(ctx, "hindi-confession-auth", []byte("{not json")))

	var doc sessionDoc
	err := GetJSON(ctx, m, "hindi-confession-auth", &doc)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}
