package passcode

// Action is user input to the machine.
type Action interface {
	isAction()
}

type (
	DigitClick       struct{ Digit int }
	DeleteClick      struct{}
	ShowSkipAlert    struct{}
	DismissAlert     struct{}
	Skip             struct{}
	ShowForgotDialog struct{}
	HideForgotDialog struct{}
	ForgotPasscode   struct{}
)

func (DigitClick) isAction()       {}
func (DeleteClick) isAction()      {}
func (ShowSkipAlert) isAction()    {}
func (DismissAlert) isAction()     {}
func (Skip) isAction()             {}
func (ShowForgotDialog) isAction() {}
func (HideForgotDialog) isAction() {}
func (ForgotPasscode) isAction()   {}

// Effect is a one-shot, user-facing notice.
type Effect int

const (
	EffectNone Effect = iota
	EffectInvalidPasscode
	EffectPasswordsDoNotMatch
)

func (e Effect) String() string {
	switch e {
	case EffectInvalidPasscode:
		return "invalid_passcode"
	case EffectPasswordsDoNotMatch:
		return "passwords_do_not_match"
	default:
		return "none"
	}
}

// EventKind is an outcome the owning flow must react to.
type EventKind int

const (
	EventNone EventKind = iota
	EventVerified
	EventCreated
	EventMismatchOnConfirm
	EventSkipped
	EventResetRequested
)

func (k EventKind) String() string {
	switch k {
	case EventVerified:
		return "verified"
	case EventCreated:
		return "created"
	case EventMismatchOnConfirm:
		return "mismatch_on_confirm"
	case EventSkipped:
		return "skipped"
	case EventResetRequested:
		return "reset_requested"
	default:
		return "none"
	}
}

// Terminal reports whether the machine is finished after this event.
func (k EventKind) Terminal() bool {
	switch k {
	case EventVerified, EventCreated, EventSkipped, EventResetRequested:
		return true
	default:
		return false
	}
}

// Event carries Hash for EventCreated.
type Event struct {
	Kind EventKind
	Hash string
}

// Transition is the result of feeding one input to the machine.
type Transition struct {
	State  State
	Effect Effect
	Event  Event
	// Settle asks the caller to wait the settle delay and then call Settle.
	Settle bool
}
