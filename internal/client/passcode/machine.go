package passcode

import "crypto/subtle"

// Machine runs one passcode screen. Create a new Machine per screen.
type Machine struct {
	state  State
	stored string
}

// NewEnter returns a machine verifying input against stored.
func NewEnter(stored string) *Machine {
	return &Machine{state: State{Step: StepEnter}, stored: stored}
}

// NewCreate returns a machine capturing a new passcode.
func NewCreate() *Machine {
	return &Machine{state: State{Step: StepCreate}}
}

// State returns a copy of the current state.
func (m *Machine) State() State {
	return m.state.clone()
}

// Handle applies one user action.
func (m *Machine) Handle(a Action) Transition {
	if m.state.Done {
		return m.unchanged()
	}

	switch a := a.(type) {
	case DigitClick:
		return m.digit(a.Digit)
	case DeleteClick:
		return m.delete()
	case ShowSkipAlert:
		if !m.creating() {
			return m.unchanged()
		}
		return m.withDialogs(Dialogs{SkipAlert: true})
	case DismissAlert:
		return m.withDialogs(Dialogs{ForgotAlert: m.state.Dialogs.ForgotAlert})
	case Skip:
		if !m.creating() {
			return m.unchanged()
		}
		return m.finish(Event{Kind: EventSkipped})
	case ShowForgotDialog:
		if m.state.Step != StepEnter {
			return m.unchanged()
		}
		return m.withDialogs(Dialogs{ForgotAlert: true})
	case HideForgotDialog:
		return m.withDialogs(Dialogs{SkipAlert: m.state.Dialogs.SkipAlert})
	case ForgotPasscode:
		if m.state.Step != StepEnter {
			return m.unchanged()
		}
		return m.finish(Event{Kind: EventResetRequested})
	default:
		return m.unchanged()
	}
}

// Settle evaluates a full buffer. It is a no-op unless the buffer is full.
func (m *Machine) Settle() Transition {
	if m.state.Done || !m.state.Full() {
		return m.unchanged()
	}

	entered := m.state.Entered()
	next := m.state.clone()
	next.Digits = nil

	switch m.state.Step {
	case StepEnter:
		if subtle.ConstantTimeCompare([]byte(entered), []byte(m.stored)) == 1 {
			m.state = next
			return m.finish(Event{Kind: EventVerified})
		}
		next.IsError = true
		m.state = next
		return Transition{State: m.State(), Effect: EffectInvalidPasscode}

	case StepCreate:
		next.SavedFirstEntry = entered
		next.Step = StepConfirm
		next.IsError = false
		m.state = next
		return Transition{State: m.State()}

	case StepConfirm:
		if subtle.ConstantTimeCompare([]byte(entered), []byte(m.state.SavedFirstEntry)) == 1 {
			hash := m.state.SavedFirstEntry
			m.state = next
			return m.finish(Event{Kind: EventCreated, Hash: hash})
		}
		// the whole creation restarts; the first entry is discarded
		m.state = State{Step: StepCreate, IsError: true}
		return Transition{
			State:  m.State(),
			Effect: EffectPasswordsDoNotMatch,
			Event:  Event{Kind: EventMismatchOnConfirm},
		}
	}

	return m.unchanged()
}

func (m *Machine) digit(d int) Transition {
	if d < 0 || d > 9 || m.state.Full() {
		return m.unchanged()
	}

	next := m.state.clone()
	next.Digits = append(next.Digits, d)
	m.state = next

	return Transition{State: m.State(), Settle: next.Full()}
}

func (m *Machine) delete() Transition {
	// a full buffer is pending evaluation and can no longer be edited
	if m.state.Full() {
		return m.unchanged()
	}

	next := m.state.clone()
	if n := len(next.Digits); n > 0 {
		next.Digits = next.Digits[:n-1]
	}
	next.IsError = false
	m.state = next

	return Transition{State: m.State()}
}

func (m *Machine) creating() bool {
	return m.state.Step == StepCreate || m.state.Step == StepConfirm
}

func (m *Machine) withDialogs(d Dialogs) Transition {
	next := m.state.clone()
	next.Dialogs = d
	m.state = next
	return Transition{State: m.State()}
}

func (m *Machine) finish(ev Event) Transition {
	next := m.state.clone()
	next.Done = true
	next.Dialogs = Dialogs{}
	m.state = next
	return Transition{State: m.State(), Event: ev}
}

func (m *Machine) unchanged() Transition {
	return Transition{State: m.State()}
}
