package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

type replExit int

const (
	exitQuit replExit = iota
	exitSignedOut
	exitLocked
)

// execIface is the command surface of the main prompt. The real App
// satisfies it; tests can provide a lightweight stub.
type execIface interface {
	AddWeight(ctx context.Context, args []string) error
	List(ctx context.Context) error
	// ChangePasscode reports whether the user reset everything from the
	// settings screen.
	ChangePasscode(ctx context.Context) (reset bool, err error)
	Stats(ctx context.Context) error
	// SignOut reports whether the data was actually erased.
	SignOut(ctx context.Context) (bool, error)
}

// runREPL reads commands until the user quits, signs out or locks the app.
// Command errors are printed and the loop continues; only an input error
// (including io.EOF) ends it with an error.
func runREPL(ctx context.Context, a execIface, statusFn func() string, read func(context.Context) (string, error), w io.Writer) (replExit, error) {
	for {
		fmt.Fprintf(w, "wk (%s)> ", statusFn())
		line, err := read(ctx)
		if err != nil {
			return exitQuit, err
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			fmt.Fprintln(w, "Available commands: add <kg> [YYYY-MM-DD], l | list, passcode, lock, stats, signout, exit")

		case "add":
			report(w, a.AddWeight(ctx, args))

		case "l", "list":
			report(w, a.List(ctx))

		case "passcode":
			reset, err := a.ChangePasscode(ctx)
			if err != nil {
				report(w, err)
				continue
			}
			if reset {
				return exitSignedOut, nil
			}

		case "stats":
			report(w, a.Stats(ctx))

		case "lock":
			return exitLocked, nil

		case "signout":
			done, err := a.SignOut(ctx)
			if err != nil {
				report(w, err)
				continue
			}
			if done {
				return exitSignedOut, nil
			}

		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return exitQuit, nil

		default:
			fmt.Fprintln(w, "Unknown command:", cmd)
		}
	}
}

func report(w io.Writer, err error) {
	if err != nil {
		fmt.Fprintln(w, "error:", err)
	}
}

// quietEOF treats the end of input as a normal exit.
func quietEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
