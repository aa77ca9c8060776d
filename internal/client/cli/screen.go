package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/weightkeeper/internal/client/authflow"
	"github.com/dmitrijs2005/weightkeeper/internal/client/passcode"
	"github.com/dmitrijs2005/weightkeeper/internal/common"
)

type screenResult int

const (
	resultClosed screenResult = iota
	resultVerified
	resultCreated
	resultSkipped
	resultReset
)

type startFunc func(context.Context, authflow.Callbacks) (*authflow.Screen, error)

// runScreen shows one passcode screen until its flow finishes, the user
// quits with "q" or input ends.
func (a *App) runScreen(ctx context.Context, start startFunc) (screenResult, error) {
	result := resultClosed
	s, err := start(ctx, authflow.Callbacks{
		OnVerified:       func() { result = resultVerified },
		OnCreated:        func(string) { result = resultCreated },
		OnSkipped:        func() { result = resultSkipped },
		OnResetRequested: func() { result = resultReset },
	})
	if err != nil {
		return resultClosed, err
	}
	defer s.Close()

	for {
		a.printEffects(s)

		select {
		case <-s.Finished():
			a.printEffects(s)
			// result is written by the callback before Finished is closed
			return result, s.Wait(ctx)
		default:
		}

		view := s.State()
		if view.Phase != authflow.PhaseInput {
			if view.Phase == authflow.PhaseEnrolling {
				fmt.Fprintf(a.out, "Confirm with your %s to enable biometric unlock...\n", view.BiometricKind)
			}
			select {
			case <-s.Finished():
			case <-ctx.Done():
				return resultClosed, ctx.Err()
			}
			continue
		}

		fmt.Fprint(a.out, renderScreen(view))
		lines := a.lines.Next(true)

		select {
		case <-s.Finished():
			fmt.Fprintln(a.out)
		case <-ctx.Done():
			return resultClosed, ctx.Err()
		case r := <-lines:
			a.lines.Done()
			if r.err != nil {
				return resultClosed, r.err
			}
			quit, err := a.dispatch(ctx, s, view, r.text)
			if errors.Is(err, common.ErrScreenClosed) {
				// the flow ended on its own; the next pass waits for Finished
				continue
			}
			if err != nil || quit {
				return resultClosed, err
			}
			if err := s.Idle(ctx); err != nil && !errors.Is(err, common.ErrScreenClosed) {
				return resultClosed, err
			}
		}
	}
}

// dispatch turns one input line into screen actions.
func (a *App) dispatch(ctx context.Context, s *authflow.Screen, view authflow.View, line string) (quit bool, err error) {
	creating := view.Passcode.Step != passcode.StepEnter

	switch strings.ToLower(line) {
	case "q", "quit", "exit":
		return true, nil

	case "<", "del":
		return false, s.Send(passcode.DeleteClick{})

	case "bio":
		if !view.BiometricOffered {
			fmt.Fprintln(a.out, "Biometric unlock is not enabled.")
			return false, nil
		}
		return false, s.RetryBiometric()

	case "skip":
		if !creating {
			fmt.Fprintln(a.out, "Nothing to skip here.")
			return false, nil
		}
		if err := s.Send(passcode.ShowSkipAlert{}); err != nil {
			return false, err
		}
		ok, err := a.lines.Confirm(ctx, a.out, "Continue without a passcode? Biometric unlock stays off.")
		if err != nil {
			return false, err
		}
		if ok {
			return false, s.Send(passcode.Skip{})
		}
		return false, s.Send(passcode.DismissAlert{})

	case "forgot":
		if creating {
			fmt.Fprintln(a.out, "Nothing to recover here.")
			return false, nil
		}
		if err := s.Send(passcode.ShowForgotDialog{}); err != nil {
			return false, err
		}
		ok, err := a.lines.Confirm(ctx, a.out, "Reset the passcode? All measurements will be erased.")
		if err != nil {
			return false, err
		}
		if ok {
			return false, s.Send(passcode.ForgotPasscode{})
		}
		return false, s.Send(passcode.HideForgotDialog{})
	}

	for _, c := range line {
		if c < '0' || c > '9' {
			fmt.Fprintf(a.out, "Ignoring %q: type digits, '<', 'skip', 'forgot', 'bio' or 'q'.\n", c)
			continue
		}
		if err := s.Send(passcode.DigitClick{Digit: int(c - '0')}); err != nil {
			return false, err
		}
	}
	return false, nil
}

func (a *App) printEffects(s *authflow.Screen) {
	for {
		e, ok := s.Effects().TryNext()
		if !ok {
			return
		}
		fmt.Fprintln(a.out, effectMessage(e))
	}
}

func effectMessage(e authflow.Effect) string {
	switch e.Kind {
	case authflow.EffectInvalidPasscode:
		return "Wrong passcode."
	case authflow.EffectPasswordsDoNotMatch:
		return "Passcodes do not match. Start again."
	case authflow.EffectBiometricError:
		return "Biometric error: " + e.Message
	default:
		return "Storage failure: " + e.Message
	}
}

func renderScreen(v authflow.View) string {
	var title string
	switch {
	case v.Passcode.Step == passcode.StepCreate:
		title = "Create a 5-digit passcode ('skip' to go without)"
	case v.Passcode.Step == passcode.StepConfirm:
		title = "Repeat the passcode"
	case v.Flow == authflow.FlowSettings:
		title = "Enter your current passcode ('forgot' to reset)"
	default:
		title = "Enter passcode ('forgot' to reset)"
	}
	if v.BiometricPending {
		title += fmt.Sprintf(", or use your %s", v.BiometricKind)
	} else if v.BiometricOffered {
		title += ", 'bio' for biometrics"
	}

	dots := strings.Repeat("*", len(v.Passcode.Digits)) + strings.Repeat(".", passcode.Length-len(v.Passcode.Digits))
	mark := ""
	if v.Passcode.IsError {
		mark = " !"
	}
	return fmt.Sprintf("%s\n[%s]%s > ", title, dots, mark)
}
