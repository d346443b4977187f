package session

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agora/models"
)

var testUser = models.User{ID: "5d2c", Username: "alice", Role: models.RoleUser}

func TestStore_EmptyIsAbsent(t *testing.T) {
	s := New(NewMemoryStorage())

	_, ok := s.Token()
	assert.False(t, ok)
	_, ok = s.User()
	assert.False(t, ok)
	assert.False(t, s.Authenticated())
}

func TestStore_RoundTrip(t *testing.T) {
	s := New(NewMemoryStorage())

	require.NoError(t, s.SetSession(testUser, "token-1"))

	token, ok := s.Token()
	assert.True(t, ok)
	assert.Equal(t, "token-1", token)

	user, ok := s.User()
	require.True(t, ok)
	assert.Equal(t, testUser, *user)
	assert.True(t, s.Authenticated())
}

func TestStore_SetSessionOverwrites(t *testing.T) {
	s := New(NewMemoryStorage())
	require.NoError(t, s.SetSession(testUser, "token-1"))

	admin := models.User{ID: "a1", Username: "admin", Role: models.RoleAdmin}
	require.NoError(t, s.SetSession(admin, "token-2"))

	token, _ := s.Token()
	user, _ := s.User()
	assert.Equal(t, "token-2", token)
	assert.Equal(t, admin, *user)
}

func TestStore_SetSessionRejectsEmptyToken(t *testing.T) {
	s := New(NewMemoryStorage())

	assert.Error(t, s.SetSession(testUser, ""))
	_, ok := s.User()
	assert.False(t, ok)
}

func TestStore_ClearSession(t *testing.T) {
	s := New(NewMemoryStorage())
	require.NoError(t, s.SetSession(testUser, "token-1"))

	require.NoError(t, s.ClearSession())

	_, ok := s.Token()
	assert.False(t, ok)
	_, ok = s.User()
	assert.False(t, ok)

	// Clearing twice is harmless.
	assert.NoError(t, s.ClearSession())
}

func TestStore_CorruptUserIsAbsent(t *testing.T) {
	storage := NewMemoryStorage()
	require.NoError(t, storage.SetItem(CurrentUserKey, "{not json"))
	require.NoError(t, storage.SetItem(AuthTokenKey, "token-1"))
	s := New(storage)

	user, ok := s.User()
	assert.Nil(t, user)
	assert.False(t, ok)

	_, ok = s.Token()
	assert.True(t, ok)
	assert.False(t, s.Authenticated())
}

func TestFileStorage_SurvivesReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agora", "session.json")

	first := New(NewFileStorage(path))
	require.NoError(t, first.SetSession(testUser, "token-1"))

	reloaded := New(NewFileStorage(path))
	token, ok := reloaded.Token()
	assert.True(t, ok)
	assert.Equal(t, "token-1", token)
	user, ok := reloaded.User()
	require.True(t, ok)
	assert.Equal(t, testUser, *user)

	require.NoError(t, reloaded.ClearSession())
	again := New(NewFileStorage(path))
	assert.False(t, again.Authenticated())
}

func TestFileStorage_CorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o600))

	fs := NewFileStorage(path)
	_, ok := fs.GetItem(AuthTokenKey)
	assert.False(t, ok)

	require.NoError(t, fs.SetItem(AuthTokenKey, "t"))
	v, ok := NewFileStorage(path).GetItem(AuthTokenKey)
	assert.True(t, ok)
	assert.Equal(t, "t", v)
}

type failingStorage struct {
	*MemoryStorage
	failKey string
}

func (f *failingStorage) SetItem(key, value string) error {
	if key == f.failKey {
		return errors.New("disk full")
	}
	return f.MemoryStorage.SetItem(key, value)
}

func TestStore_SetSessionRollsBackOnFailure(t *testing.T) {
	s := New(&failingStorage{MemoryStorage: NewMemoryStorage(), failKey: AuthTokenKey})

	assert.Error(t, s.SetSession(testUser, "token-1"))

	_, ok := s.User()
	assert.False(t, ok)
	_, ok = s.Token()
	assert.False(t, ok)
}

func TestStore_SetSessionFailureKeepsPreviousSession(t *testing.T) {
	storage := &failingStorage{MemoryStorage: NewMemoryStorage()}
	s := New(storage)
	require.NoError(t, s.SetSession(testUser, "token-1"))

	storage.failKey = AuthTokenKey
	bob := models.User{ID: "9a41", Username: "bob", Role: models.RoleUser}
	assert.Error(t, s.SetSession(bob, "token-2"))

	user, ok := s.User()
	require.True(t, ok)
	assert.Equal(t, testUser, *user)
	token, ok := s.Token()
	require.True(t, ok)
	assert.Equal(t, "token-1", token)
	assert.True(t, s.Authenticated())
}
