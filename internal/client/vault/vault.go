// Package vault owns the authentication state kept in the secure store: the
// passcode hash, the biometric-enabled flag and the first-run flag. It is the
// only writer of those keys.
//
// Invariant: the biometric flag is never true while no passcode is stored.
package vault

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/weightkeeper/internal/client/securestore"
	"github.com/dmitrijs2005/weightkeeper/internal/logging"
)

// Persisted key names.
const (
	KeyPasscodeHash     = "PASSCODE_HASH"
	KeyBiometricEnabled = "IS_BIOMETRIC_ENABLED"
	KeyFirstAuthorized  = "IS_FIRST_AUTHORIZED"
)

// ErrNoPasscode is returned when enabling biometrics without a stored passcode.
var ErrNoPasscode = errors.New("no passcode configured")

// DataResetter wipes the user's recorded data. It is invoked exactly once per
// ResetAll and must fail loudly.
type DataResetter interface {
	ClearAllMeasurements(ctx context.Context) error
}

type Vault struct {
	store securestore.Store
	data  DataResetter
	log   logging.Logger
}

func New(store securestore.Store, data DataResetter, log logging.Logger) *Vault {
	if log == nil {
		log = logging.Nop{}
	}
	return &Vault{store: store, data: data, log: log.With("component", "vault")}
}

// SavePasscode stores hash, overwriting any previous one. An empty hash
// removes the passcode and, with it, the biometric flag. The hash shape is
// not validated here.
func (v *Vault) SavePasscode(ctx context.Context, hash string) error {
	if hash == "" {
		if err := v.store.Remove(ctx, KeyPasscodeHash); err != nil {
			return fmt.Errorf("remove passcode: %w", err)
		}
		if err := v.store.PutBool(ctx, KeyBiometricEnabled, false); err != nil {
			return fmt.Errorf("clear biometric flag: %w", err)
		}
		v.log.Info(ctx, "passcode removed")
		return nil
	}

	if err := v.store.PutString(ctx, KeyPasscodeHash, hash); err != nil {
		return fmt.Errorf("save passcode: %w", err)
	}
	v.log.Info(ctx, "passcode saved")
	return nil
}

// PasscodeHash returns the stored hash and whether one exists.
func (v *Vault) PasscodeHash(ctx context.Context) (string, bool, error) {
	hash, ok, err := v.store.GetString(ctx, KeyPasscodeHash)
	if err != nil {
		return "", false, fmt.Errorf("read passcode: %w", err)
	}
	if hash == "" {
		return "", false, nil
	}
	return hash, ok, nil
}

func (v *Vault) HasPasscode(ctx context.Context) (bool, error) {
	_, ok, err := v.PasscodeHash(ctx)
	return ok, err
}

// BiometricEnabled reports the stored flag. A flag left over without a
// passcode reads as false.
func (v *Vault) BiometricEnabled(ctx context.Context) (bool, error) {
	enabled, err := v.store.GetBool(ctx, KeyBiometricEnabled, false)
	if err != nil {
		return false, fmt.Errorf("read biometric flag: %w", err)
	}
	if !enabled {
		return false, nil
	}
	return v.HasPasscode(ctx)
}

func (v *Vault) SetBiometricEnabled(ctx context.Context, enabled bool) error {
	if enabled {
		has, err := v.HasPasscode(ctx)
		if err != nil {
			return err
		}
		if !has {
			return ErrNoPasscode
		}
	}

	if err := v.store.PutBool(ctx, KeyBiometricEnabled, enabled); err != nil {
		return fmt.Errorf("write biometric flag: %w", err)
	}
	v.log.Info(ctx, "biometric flag updated", "enabled", enabled)
	return nil
}

// FirstAuthorized reports whether onboarding has been completed.
func (v *Vault) FirstAuthorized(ctx context.Context) (bool, error) {
	done, err := v.store.GetBool(ctx, KeyFirstAuthorized, false)
	if err != nil {
		return false, fmt.Errorf("read first-run flag: %w", err)
	}
	return done, nil
}

func (v *Vault) SetFirstAuthorized(ctx context.Context, done bool) error {
	if err := v.store.PutBool(ctx, KeyFirstAuthorized, done); err != nil {
		return fmt.Errorf("write first-run flag: %w", err)
	}
	return nil
}

// ResetAll removes the passcode, clears the biometric and first-run flags,
// then wipes the user's measurements. Steps run in that order and stop at the
// first failure, which is returned; nothing is retried or rolled back.
func (v *Vault) ResetAll(ctx context.Context) error {
	v.log.Warn(ctx, "resetting credentials and user data")

	if err := v.store.Remove(ctx, KeyPasscodeHash); err != nil {
		return fmt.Errorf("reset: remove passcode: %w", err)
	}
	if err := v.store.PutBool(ctx, KeyBiometricEnabled, false); err != nil {
		return fmt.Errorf("reset: clear biometric flag: %w", err)
	}
	if err := v.store.PutBool(ctx, KeyFirstAuthorized, false); err != nil {
		return fmt.Errorf("reset: clear first-run flag: %w", err)
	}
	if err := v.data.ClearAllMeasurements(ctx); err != nil {
		return fmt.Errorf("reset: clear measurements: %w", err)
	}

	v.log.Info(ctx, "reset complete")
	return nil
}
