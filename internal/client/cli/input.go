package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/weightkeeper/internal/common"
	"golang.org/x/term"
)

// readPassword and isTerminal are test seams for golang.org/x/term.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

func readLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

type lineResult struct {
	text string
	err  error
}

// lineReader hands out user input line by line. Reads happen on a goroutine
// so a screen can stop waiting when its flow finishes on its own (biometric
// unlock). At most one read is outstanding; a read nobody consumed is handed
// to the next caller that asks for the same echo mode. A read in the other
// mode cannot be interrupted, so its line is dropped and a new read starts
// after it.
type lineReader struct {
	reader        *bufio.Reader
	secret        func() ([]byte, error)
	pending       chan lineResult
	pendingHidden bool
}

// newLineReader reads from r. When fd is a terminal, secret reads switch
// echo off.
func newLineReader(r io.Reader, fd int) *lineReader {
	lr := &lineReader{reader: bufio.NewReader(r)}
	if fd >= 0 && isTerminal(fd) {
		lr.secret = func() ([]byte, error) { return readPassword(fd) }
	}
	return lr
}

// Next returns the channel the next line arrives on. Call Done after
// receiving from it.
func (l *lineReader) Next(secret bool) <-chan lineResult {
	hidden := secret && l.secret != nil
	if l.pending != nil && l.pendingHidden == hidden {
		return l.pending
	}

	l.pending = l.start(hidden, l.pending)
	l.pendingHidden = hidden
	return l.pending
}

// start reads one line once stale, if any, has delivered its own.
func (l *lineReader) start(hidden bool, stale <-chan lineResult) chan lineResult {
	ch := make(chan lineResult, 1)
	go func() {
		if stale != nil {
			if r := <-stale; r.err != nil {
				ch <- r
				return
			}
		}
		if hidden {
			b, err := l.secret()
			text := strings.TrimSpace(string(b))
			common.WipeByteArray(b)
			ch <- lineResult{text: text, err: err}
			return
		}
		text, err := readLine(l.reader)
		ch <- lineResult{text: text, err: err}
	}()
	return ch
}

func (l *lineReader) Done() {
	l.pending = nil
	l.pendingHidden = false
}

// ReadLine blocks for one visible line.
func (l *lineReader) ReadLine(ctx context.Context) (string, error) {
	select {
	case r := <-l.Next(false):
		l.Done()
		return r.text, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Confirm prints question and reports whether the answer starts with y.
func (l *lineReader) Confirm(ctx context.Context, w io.Writer, question string) (bool, error) {
	fmt.Fprintf(w, "%s [y/N] ", question)
	answer, err := l.ReadLine(ctx)
	if err != nil {
		return false, err
	}
	return strings.HasPrefix(strings.ToLower(answer), "y"), nil
}
