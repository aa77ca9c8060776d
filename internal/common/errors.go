// Package common defines sentinel errors and small helpers shared by the
// weightkeeper client layers. Callers should use errors.Is to match errors.
package common

import "errors"

var (
	// Storage errors.
	ErrLocalDataNotAvailable = errors.New("local data unavailable")

	// Screen lifecycle errors.
	ErrScreenClosed = errors.New("screen closed")
)
