// Package metadata is the raw key/value table underneath the secure store.
// Values are opaque blobs; encryption happens one layer up.
package metadata

import (
	"context"
)

type Repository interface {
	// Get returns the value for key and whether it exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set inserts or overwrites key.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes key; deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
