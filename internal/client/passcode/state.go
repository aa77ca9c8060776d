// Package passcode is the digit-buffer automaton behind the passcode screens:
// verifying an existing passcode (StepEnter) and creating a new one
// (StepCreate then StepConfirm).
//
// The Machine is pure and not safe for concurrent use. It never returns an
// error and never panics on input: anything that does not apply in the
// current state is absorbed as a no-op.
package passcode

import "strconv"

// Length is the number of digits in a passcode.
const Length = 5

type Step int

const (
	StepEnter Step = iota
	StepCreate
	StepConfirm
)

func (s Step) String() string {
	switch s {
	case StepEnter:
		return "enter"
	case StepCreate:
		return "create"
	case StepConfirm:
		return "confirm"
	default:
		return "step(" + strconv.Itoa(int(s)) + ")"
	}
}

// Dialogs holds the visibility of the confirmation dialogs.
type Dialogs struct {
	SkipAlert   bool
	ForgotAlert bool
}

// State is the value rendered by a passcode screen. Each transition produces
// a fresh State; callers never mutate one in place.
type State struct {
	Digits          []int
	SavedFirstEntry string
	Step            Step
	IsError         bool
	Dialogs         Dialogs
	// Done is set once a terminal event has been emitted.
	Done bool
}

// Full reports whether the buffer holds Length digits and awaits Settle.
func (s State) Full() bool {
	return len(s.Digits) == Length
}

// Entered returns the buffered digits joined into a string.
func (s State) Entered() string {
	return joinDigits(s.Digits)
}

func (s State) clone() State {
	c := s
	c.Digits = append([]int(nil), s.Digits...)
	return c
}

func joinDigits(digits []int) string {
	b := make([]byte, len(digits))
	for i, d := range digits {
		b[i] = byte('0' + d)
	}
	return string(b)
}
