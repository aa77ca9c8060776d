// Package biometric wraps platform biometric hardware behind a single Gate
// capability. A Gate holds no state across calls; every Authenticate call is
// one ceremony yielding exactly one Outcome.
package biometric

import (
	"context"
	"fmt"
)

// Kind is the biometric modality the device offers.
type Kind int

const (
	KindNone Kind = iota
	KindFingerprint
	KindFace
)

func (k Kind) String() string {
	switch k {
	case KindFingerprint:
		return "fingerprint"
	case KindFace:
		return "face"
	default:
		return "none"
	}
}

// ParseKind maps a config value to a Kind; unknown values are KindNone.
func ParseKind(s string) Kind {
	switch s {
	case "fingerprint":
		return KindFingerprint
	case "face":
		return KindFace
	default:
		return KindNone
	}
}

// OutcomeKind classifies the result of one ceremony.
type OutcomeKind int

const (
	Success OutcomeKind = iota
	Cancelled
	NotAvailable
	NotEnrolled
	Error
)

func (k OutcomeKind) String() string {
	switch k {
	case Success:
		return "success"
	case Cancelled:
		return "cancelled"
	case NotAvailable:
		return "not_available"
	case NotEnrolled:
		return "not_enrolled"
	default:
		return "error"
	}
}

// Outcome is the result of one ceremony. Message is set only for Error.
type Outcome struct {
	Kind    OutcomeKind
	Message string
}

func (o Outcome) String() string {
	if o.Kind == Error {
		return fmt.Sprintf("error(%s)", o.Message)
	}
	return o.Kind.String()
}

func errorOutcome(format string, args ...any) Outcome {
	return Outcome{Kind: Error, Message: fmt.Sprintf(format, args...)}
}

// PromptContext is the platform presentation handle (activity, window) the
// prompt is attached to, plus user-visible copy.
type PromptContext struct {
	Handle   any
	Title    string
	Subtitle string
	// NegativeLabel is the text of the "use passcode" button.
	NegativeLabel string
}

// Gate is the capability the auth flows depend on.
type Gate interface {
	// IsAvailable is true only when the device supports biometrics and has
	// credentials enrolled.
	IsAvailable(ctx context.Context) bool
	Kind(ctx context.Context) Kind
	// Authenticate blocks until the ceremony resolves. Cancelling ctx cancels
	// the platform prompt and yields Cancelled. It never panics.
	Authenticate(ctx context.Context, prompt PromptContext, reason string) Outcome
}

// Unsupported is the Gate for devices without biometric hardware.
type Unsupported struct{}

func (Unsupported) IsAvailable(context.Context) bool { return false }
func (Unsupported) Kind(context.Context) Kind        { return KindNone }
func (Unsupported) Authenticate(context.Context, PromptContext, string) Outcome {
	return Outcome{Kind: NotAvailable}
}

// Noop is the Gate used when biometrics are switched off for the build or
// by configuration. The user dismissing the feature reads as a cancellation.
type Noop struct{}

func (Noop) IsAvailable(context.Context) bool { return false }
func (Noop) Kind(context.Context) Kind        { return KindNone }
func (Noop) Authenticate(context.Context, PromptContext, string) Outcome {
	return Outcome{Kind: Cancelled}
}
