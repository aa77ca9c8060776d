package securestore

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/weightkeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/weightkeeper/internal/client/storage"
	"github.com/dmitrijs2005/weightkeeper/internal/cryptox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepo(t *testing.T) *metadata.SQLiteRepository {
	t.Helper()
	db, err := storage.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "store.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return metadata.NewSQLiteRepository(db)
}

func testKey(b byte) []byte {
	return bytes.Repeat([]byte{b}, cryptox.KeySize)
}

func TestNewEncryptedStore_RejectsBadKey(t *testing.T) {
	_, err := NewEncryptedStore(newRepo(t), []byte("short"))
	require.Error(t, err)
}

func TestEncryptedStore_StringRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	s, err := NewEncryptedStore(repo, testKey(1))
	require.NoError(t, err)

	_, ok, err := s.GetString(ctx, "PASSCODE_HASH")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, s.PutString(ctx, "PASSCODE_HASH", "12345"))

	v, ok, err := s.GetString(ctx, "PASSCODE_HASH")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "12345", v)

	raw, ok, err := repo.Get(ctx, "PASSCODE_HASH")
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotContains(t, string(raw), "12345", "value must not be stored in plaintext")
}

func TestEncryptedStore_Bool(t *testing.T) {
	ctx := context.Background()
	s, err := NewEncryptedStore(newRepo(t), testKey(2))
	require.NoError(t, err)

	v, err := s.GetBool(ctx, "IS_BIOMETRIC_ENABLED", false)
	require.NoError(t, err)
	assert.False(t, v)

	v, err = s.GetBool(ctx, "IS_BIOMETRIC_ENABLED", true)
	require.NoError(t, err)
	assert.True(t, v, "default is returned for a missing key")

	require.NoError(t, s.PutBool(ctx, "IS_BIOMETRIC_ENABLED", true))
	v, err = s.GetBool(ctx, "IS_BIOMETRIC_ENABLED", false)
	require.NoError(t, err)
	assert.True(t, v)
}

func TestEncryptedStore_GetBool_NotABool(t *testing.T) {
	ctx := context.Background()
	s, err := NewEncryptedStore(newRepo(t), testKey(3))
	require.NoError(t, err)

	require.NoError(t, s.PutString(ctx, "flag", "maybe"))
	_, err = s.GetBool(ctx, "flag", false)
	require.Error(t, err)
}

func TestEncryptedStore_Remove(t *testing.T) {
	ctx := context.Background()
	s, err := NewEncryptedStore(newRepo(t), testKey(4))
	require.NoError(t, err)

	require.NoError(t, s.PutString(ctx, "k", "v"))
	require.NoError(t, s.Remove(ctx, "k"))
	require.NoError(t, s.Remove(ctx, "k"))

	_, ok, err := s.GetString(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEncryptedStore_WrongKeyFailsLoudly(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	a, err := NewEncryptedStore(repo, testKey(5))
	require.NoError(t, err)
	require.NoError(t, a.PutString(ctx, "PASSCODE_HASH", "54321"))

	b, err := NewEncryptedStore(repo, testKey(6))
	require.NoError(t, err)

	_, _, err = b.GetString(ctx, "PASSCODE_HASH")
	require.ErrorIs(t, err, ErrDecrypt)
}

func TestEncryptedStore_SwappedBlobFails(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	s, err := NewEncryptedStore(repo, testKey(7))
	require.NoError(t, err)

	require.NoError(t, s.PutBool(ctx, "IS_FIRST_AUTHORIZED", true))
	raw, _, err := repo.Get(ctx, "IS_FIRST_AUTHORIZED")
	require.NoError(t, err)
	require.NoError(t, repo.Set(ctx, "IS_BIOMETRIC_ENABLED", raw))

	_, err = s.GetBool(ctx, "IS_BIOMETRIC_ENABLED", false)
	require.ErrorIs(t, err, ErrDecrypt)
}
