package vault

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/dmitrijs2005/weightkeeper/internal/client/securestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingStore wraps a MemoryStore, records mutating calls in order and can
// fail a chosen operation.
type recordingStore struct {
	*securestore.MemoryStore
	calls  []string
	failOn string
	err    error
}

func newRecordingStore() *recordingStore {
	return &recordingStore{MemoryStore: securestore.NewMemoryStore()}
}

func (s *recordingStore) record(call string) error {
	s.calls = append(s.calls, call)
	if s.failOn == call {
		return s.err
	}
	return nil
}

func (s *recordingStore) PutString(ctx context.Context, key, value string) error {
	if err := s.record("put:" + key); err != nil {
		return err
	}
	return s.MemoryStore.PutString(ctx, key, value)
}

func (s *recordingStore) PutBool(ctx context.Context, key string, value bool) error {
	if err := s.record("put:" + key); err != nil {
		return err
	}
	return s.MemoryStore.PutBool(ctx, key, value)
}

func (s *recordingStore) Remove(ctx context.Context, key string) error {
	if err := s.record("remove:" + key); err != nil {
		return err
	}
	return s.MemoryStore.Remove(ctx, key)
}

type fakeResetter struct {
	calls int
	err   error
	store *recordingStore
}

func (f *fakeResetter) ClearAllMeasurements(context.Context) error {
	f.calls++
	if f.store != nil {
		f.store.calls = append(f.store.calls, "clear:measurements")
	}
	return f.err
}

func newVault(t *testing.T) (*Vault, *recordingStore, *fakeResetter) {
	t.Helper()
	store := newRecordingStore()
	data := &fakeResetter{store: store}
	return New(store, data, nil), store, data
}

func TestSavePasscode_OverwriteAndRead(t *testing.T) {
	ctx := context.Background()
	v, _, _ := newVault(t)

	has, err := v.HasPasscode(ctx)
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, v.SavePasscode(ctx, "12345"))
	require.NoError(t, v.SavePasscode(ctx, "54321"))

	hash, ok, err := v.PasscodeHash(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "54321", hash, "literal digits are stored as-is")
}

func TestSavePasscode_EmptyRemovesHashAndBiometricFlag(t *testing.T) {
	ctx := context.Background()
	v, store, _ := newVault(t)

	require.NoError(t, v.SavePasscode(ctx, "12345"))
	require.NoError(t, v.SetBiometricEnabled(ctx, true))

	require.NoError(t, v.SavePasscode(ctx, ""))

	has, err := v.HasPasscode(ctx)
	require.NoError(t, err)
	assert.False(t, has)

	raw, err := store.GetBool(ctx, KeyBiometricEnabled, true)
	require.NoError(t, err)
	assert.False(t, raw)
}

func TestSetBiometricEnabled_RequiresPasscode(t *testing.T) {
	ctx := context.Background()
	v, _, _ := newVault(t)

	require.ErrorIs(t, v.SetBiometricEnabled(ctx, true), ErrNoPasscode)
	require.NoError(t, v.SetBiometricEnabled(ctx, false), "disabling is always allowed")

	require.NoError(t, v.SavePasscode(ctx, "11111"))
	require.NoError(t, v.SetBiometricEnabled(ctx, true))

	on, err := v.BiometricEnabled(ctx)
	require.NoError(t, err)
	assert.True(t, on)
}

func TestBiometricEnabled_StaleFlagReadsFalse(t *testing.T) {
	ctx := context.Background()
	v, store, _ := newVault(t)

	// written behind the vault's back
	require.NoError(t, store.MemoryStore.PutBool(ctx, KeyBiometricEnabled, true))

	on, err := v.BiometricEnabled(ctx)
	require.NoError(t, err)
	assert.False(t, on)
}

func TestFirstAuthorized(t *testing.T) {
	ctx := context.Background()
	v, _, _ := newVault(t)

	done, err := v.FirstAuthorized(ctx)
	require.NoError(t, err)
	assert.False(t, done)

	require.NoError(t, v.SetFirstAuthorized(ctx, true))
	done, err = v.FirstAuthorized(ctx)
	require.NoError(t, err)
	assert.True(t, done)
}

func TestResetAll_ClearsEverythingInOrder(t *testing.T) {
	ctx := context.Background()
	v, store, data := newVault(t)

	require.NoError(t, v.SavePasscode(ctx, "12345"))
	require.NoError(t, v.SetBiometricEnabled(ctx, true))
	require.NoError(t, v.SetFirstAuthorized(ctx, true))
	store.calls = nil

	require.NoError(t, v.ResetAll(ctx))

	assert.Equal(t, []string{
		"remove:" + KeyPasscodeHash,
		"put:" + KeyBiometricEnabled,
		"put:" + KeyFirstAuthorized,
		"clear:measurements",
	}, store.calls)
	assert.Equal(t, 1, data.calls)

	has, err := v.HasPasscode(ctx)
	require.NoError(t, err)
	assert.False(t, has)

	on, err := v.BiometricEnabled(ctx)
	require.NoError(t, err)
	assert.False(t, on)

	done, err := v.FirstAuthorized(ctx)
	require.NoError(t, err)
	assert.False(t, done)
}

func TestResetAll_StopsAtFirstFailure(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("disk full")

	t.Run("store failure skips data wipe", func(t *testing.T) {
		v, store, data := newVault(t)
		store.failOn = "put:" + KeyBiometricEnabled
		store.err = boom

		err := v.ResetAll(ctx)
		require.ErrorIs(t, err, boom)
		assert.Zero(t, data.calls)
	})

	t.Run("data wipe failure is surfaced", func(t *testing.T) {
		v, _, data := newVault(t)
		data.err = boom

		err := v.ResetAll(ctx)
		require.ErrorIs(t, err, boom)
		assert.ErrorContains(t, err, "clear measurements")
		assert.Equal(t, 1, data.calls)
	})
}

func TestSavePasscode_StoreFailurePropagates(t *testing.T) {
	ctx := context.Background()
	v, store, _ := newVault(t)
	store.failOn = "put:" + KeyPasscodeHash
	store.err = errors.New("io")

	require.Error(t, v.SavePasscode(ctx, "12345"))
}

func TestInvariant_BiometricImpliesPasscode(t *testing.T) {
	ctx := context.Background()
	rng := rand.New(rand.NewSource(42))

	for run := 0; run < 50; run++ {
		v, store, _ := newVault(t)

		for step := 0; step < 40; step++ {
			switch rng.Intn(5) {
			case 0:
				_ = v.SavePasscode(ctx, "12345")
			case 1:
				_ = v.SavePasscode(ctx, "")
			case 2:
				_ = v.SetBiometricEnabled(ctx, true)
			case 3:
				_ = v.SetBiometricEnabled(ctx, false)
			case 4:
				_ = v.ResetAll(ctx)
			}

			has, err := v.HasPasscode(ctx)
			require.NoError(t, err)
			raw, err := store.MemoryStore.GetBool(ctx, KeyBiometricEnabled, false)
			require.NoError(t, err)
			if raw {
				require.True(t, has, "run %d step %d: biometric flag set without passcode", run, step)
			}
		}
	}
}
