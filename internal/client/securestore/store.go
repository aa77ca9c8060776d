// Package securestore is the encrypted key/value primitive the credential
// vault is built on. Every value is sealed with AES-GCM before it reaches the
// database; there is no plaintext fallback.
package securestore

import (
	"context"
	"errors"
)

// ErrDecrypt is returned when a stored value cannot be opened with the
// current store key (tampering or a lost device key).
var ErrDecrypt = errors.New("secure value cannot be decrypted")

// Store is the contract the vault consumes. Concurrent reads are safe;
// concurrent writes to the same key are last-write-wins.
type Store interface {
	GetString(ctx context.Context, key string) (string, bool, error)
	PutString(ctx context.Context, key, value string) error
	GetBool(ctx context.Context, key string, def bool) (bool, error)
	PutBool(ctx context.Context, key string, value bool) error
	Remove(ctx context.Context, key string) error
}
