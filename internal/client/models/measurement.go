// Package models defines client-side data models used by weightkeeper.
package models

import "time"

// Measurement is one recorded body-weight value.
type Measurement struct {
	// ID is a random UUID assigned on creation.
	ID string

	// WeightKg is the recorded weight in kilograms.
	WeightKg float64

	// RecordedAt is when the weight was taken, stored with millisecond precision.
	RecordedAt time.Time
}
