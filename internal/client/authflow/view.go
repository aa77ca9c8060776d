package authflow

import (
	"github.com/dmitrijs2005/weightkeeper/internal/client/biometric"
	"github.com/dmitrijs2005/weightkeeper/internal/client/passcode"
)

type Flow int

const (
	FlowOnboarding Flow = iota
	FlowSettings
	FlowEntry
)

func (f Flow) String() string {
	switch f {
	case FlowOnboarding:
		return "onboarding"
	case FlowSettings:
		return "settings"
	default:
		return "entry"
	}
}

type Phase int

const (
	// PhaseInput accepts keypad input.
	PhaseInput Phase = iota
	// PhaseEnrolling waits for the biometric enrollment prompt after a
	// passcode was created.
	PhaseEnrolling
	// PhaseDone is reached after a callback was fired.
	PhaseDone
	// PhaseFailed is reached when storage failed; Wait returns the error.
	PhaseFailed
	// PhaseClosed is reached when the screen was closed before finishing.
	PhaseClosed
)

func (p Phase) String() string {
	switch p {
	case PhaseInput:
		return "input"
	case PhaseEnrolling:
		return "enrolling"
	case PhaseDone:
		return "done"
	case PhaseFailed:
		return "failed"
	default:
		return "closed"
	}
}

// View is everything a passcode screen renders.
type View struct {
	Flow     Flow
	Phase    Phase
	Passcode passcode.State
	// BiometricPending is true while a prompt is on screen.
	BiometricPending bool
	// BiometricOffered is true when the entry screen can show the prompt again.
	BiometricOffered bool
	BiometricKind    biometric.Kind
}

type EffectKind int

const (
	EffectInvalidPasscode EffectKind = iota
	EffectPasswordsDoNotMatch
	EffectBiometricError
	EffectStorageFailure
)

func (k EffectKind) String() string {
	switch k {
	case EffectInvalidPasscode:
		return "invalid_passcode"
	case EffectPasswordsDoNotMatch:
		return "passwords_do_not_match"
	case EffectBiometricError:
		return "biometric_error"
	default:
		return "storage_failure"
	}
}

// Effect is a transient notice, shown once.
type Effect struct {
	Kind    EffectKind
	Message string
}

func (e Effect) String() string {
	if e.Message == "" {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Message
}
