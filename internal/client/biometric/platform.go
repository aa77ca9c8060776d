package biometric

// Capability is the answer of the platform capability check.
type Capability int

const (
	CapabilityAvailable Capability = iota
	CapabilityNoHardware
	CapabilityHardwareUnavailable
	CapabilityNoneEnrolled
	CapabilityUnknown
)

// ResultCode is what the platform reports through the ceremony callback.
type ResultCode int

const (
	ResultSucceeded ResultCode = iota
	// ResultFailedAttempt is a rejected sample (wrong finger); the prompt stays up.
	ResultFailedAttempt
	ResultUserCanceled
	ResultNegativeButton
	ResultCanceled
	ResultNoHardware
	ResultHardwareUnavailable
	ResultNoneEnrolled
	ResultLockout
	ResultLockoutPermanent
	ResultTimeout
	ResultError
)

// PlatformResult is one callback from the platform.
type PlatformResult struct {
	Code    ResultCode
	Message string
}

// Ceremony is a prompt in flight.
type Ceremony interface {
	// Cancel dismisses the prompt. The platform answers with ResultCanceled
	// or nothing at all; both are handled.
	Cancel()
}

// Platform is the boundary to the OS biometric API. Callbacks may arrive on
// any goroutine and may be delivered more than once (failed attempts).
type Platform interface {
	CanAuthenticate() Capability
	Type() Kind
	Begin(prompt PromptContext, reason string, callback func(PlatformResult)) (Ceremony, error)
}
