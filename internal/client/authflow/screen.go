package authflow

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/weightkeeper/internal/client/biometric"
	"github.com/dmitrijs2005/weightkeeper/internal/client/metrics"
	"github.com/dmitrijs2005/weightkeeper/internal/client/passcode"
	"github.com/dmitrijs2005/weightkeeper/internal/client/uistate"
	"github.com/dmitrijs2005/weightkeeper/internal/common"
	"github.com/dmitrijs2005/weightkeeper/internal/logging"
)

type stage int

const (
	stageVerify stage = iota
	stageCreate
)

type purpose int

const (
	purposeUnlock purpose = iota
	purposeEnroll
)

type input struct {
	action passcode.Action
	retry  bool
	idle   chan struct{}
}

type ceremonyResult struct {
	purpose purpose
	outcome biometric.Outcome
	took    time.Duration
}

// Screen is one visible passcode screen. Its goroutine is the only code that
// touches the machine; everything else talks to it through channels.
type Screen struct {
	o    *Orchestrator
	flow Flow
	cb   Callbacks
	log  logging.Logger

	ctx    context.Context
	cancel context.CancelFunc

	inputs  chan input
	results chan ceremonyResult
	view    *uistate.Store[View]
	effects *uistate.Queue[Effect]

	// done is closed once the loop and any ceremony have stopped, finished
	// after the callback (if any) returned.
	done     chan struct{}
	finished chan struct{}
	err      error

	// loop-owned
	machine        *passcode.Machine
	stage          stage
	phase          Phase
	kind           biometric.Kind
	biometricOn    bool
	autoPrompt     bool
	created        string
	settle         *time.Timer
	ceremonyCancel context.CancelFunc
	ceremonies     sync.WaitGroup
	callback       func()
	idlers         []chan struct{}
}

func (o *Orchestrator) newScreen(parent context.Context, flow Flow, m *passcode.Machine, cb Callbacks) *Screen {
	ctx, cancel := context.WithCancel(parent)
	return &Screen{
		o:        o,
		flow:     flow,
		cb:       cb,
		log:      o.log.With("flow", flow.String()),
		ctx:      ctx,
		cancel:   cancel,
		inputs:   make(chan input),
		results:  make(chan ceremonyResult, 1),
		view:     uistate.NewStore(View{Flow: flow}),
		effects:  uistate.NewQueue[Effect](uistate.DefaultQueueSize),
		done:     make(chan struct{}),
		finished: make(chan struct{}),
		machine:  m,
		kind:     o.gate.Kind(ctx),
	}
}

func (s *Screen) start() {
	s.log.Debug(s.ctx, "screen opened", "step", s.machine.State().Step.String())
	s.publish()
	go s.run()
}

// Send queues a keypad action. It fails with common.ErrScreenClosed once the
// screen has stopped.
func (s *Screen) Send(a passcode.Action) error {
	return s.enqueue(input{action: a})
}

// RetryBiometric shows the biometric prompt again on the entry screen. It is
// ignored when biometrics are off or a prompt is already showing.
func (s *Screen) RetryBiometric() error {
	return s.enqueue(input{retry: true})
}

// Idle returns once every action sent before it has been applied and no
// evaluation of a full buffer is pending. It fails with common.ErrScreenClosed
// if the screen stopped before the call; a screen that stops while Idle waits
// has applied everything queued ahead of it, so that returns nil.
func (s *Screen) Idle(ctx context.Context) error {
	idle := make(chan struct{})
	if err := s.enqueue(input{idle: idle}); err != nil {
		return err
	}
	select {
	case <-idle:
	case <-s.done:
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}

func (s *Screen) enqueue(in input) error {
	select {
	case s.inputs <- in:
		return nil
	case <-s.done:
		return common.ErrScreenClosed
	case <-s.ctx.Done():
		return common.ErrScreenClosed
	}
}

func (s *Screen) State() View {
	return s.view.Current()
}

// Subscribe calls fn with the current view and on every change. fn runs on
// the screen goroutine and must not block.
func (s *Screen) Subscribe(fn func(View)) (unsubscribe func()) {
	return s.view.Subscribe(fn)
}

// Effects is the queue of one-shot notices for this screen.
func (s *Screen) Effects() *uistate.Queue[Effect] {
	return s.effects
}

// Close tears the screen down: it cancels any pending settle, vault call or
// biometric prompt and returns once they have stopped. Safe to call more
// than once and from callbacks.
func (s *Screen) Close() {
	s.cancel()
	<-s.done
}

// Finished is closed after the screen stopped and its callback returned.
func (s *Screen) Finished() <-chan struct{} {
	return s.finished
}

// Wait blocks until the screen has stopped. It returns the storage error that
// ended the flow, or nil when the flow completed or was closed.
func (s *Screen) Wait(ctx context.Context) error {
	select {
	case <-s.finished:
		return s.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Screen) run() {
	defer func() {
		s.stopCeremony()
		s.ceremonies.Wait()
		if s.settle != nil {
			s.settle.Stop()
		}
		s.releaseIdlers()
		s.cancel()
		close(s.done)

		if s.callback != nil {
			s.callback()
		}
		close(s.finished)
	}()

	if s.autoPrompt {
		s.startCeremony(purposeUnlock)
	}

	for {
		var settleC <-chan time.Time
		if s.settle != nil {
			settleC = s.settle.C
		}

		select {
		case <-s.ctx.Done():
			s.phase = PhaseClosed
			s.publish()
			s.log.Debug(context.Background(), "screen closed")
			return
		case in := <-s.inputs:
			s.handleInput(in)
		case <-settleC:
			s.settle = nil
			s.apply(s.machine.Settle())
			s.releaseIdlers()
		case r := <-s.results:
			s.handleCeremony(r)
		}

		if s.phase == PhaseDone || s.phase == PhaseFailed {
			return
		}
	}
}

func (s *Screen) handleInput(in input) {
	if in.idle != nil {
		if s.settle == nil {
			close(in.idle)
		} else {
			s.idlers = append(s.idlers, in.idle)
		}
		return
	}
	if in.retry {
		if s.flow == FlowEntry && s.biometricOn && s.phase == PhaseInput {
			s.startCeremony(purposeUnlock)
		}
		return
	}
	if s.phase != PhaseInput || in.action == nil {
		return
	}
	s.apply(s.machine.Handle(in.action))
}

func (s *Screen) apply(tr passcode.Transition) {
	if tr.Settle {
		s.settle = time.NewTimer(s.o.settle)
	}

	switch tr.Effect {
	case passcode.EffectInvalidPasscode:
		s.o.metrics.PasscodeAttempt(s.flow.String(), metrics.ResultInvalid)
		s.effects.Push(Effect{Kind: EffectInvalidPasscode})
	case passcode.EffectPasswordsDoNotMatch:
		s.o.metrics.PasscodeAttempt(s.flow.String(), metrics.ResultMismatch)
		s.effects.Push(Effect{Kind: EffectPasswordsDoNotMatch})
	}
	s.publish()

	switch tr.Event.Kind {
	case passcode.EventVerified:
		s.o.metrics.PasscodeAttempt(s.flow.String(), metrics.ResultVerified)
		s.onVerified()
	case passcode.EventCreated:
		s.o.metrics.PasscodeAttempt(s.flow.String(), metrics.ResultCreated)
		s.onCreated(tr.Event.Hash)
	case passcode.EventSkipped:
		s.o.metrics.PasscodeAttempt(s.flow.String(), metrics.ResultSkipped)
		s.onSkipped()
	case passcode.EventResetRequested:
		s.onResetRequested()
	case passcode.EventMismatchOnConfirm:
		s.log.Debug(s.ctx, "confirmation mismatch, creation restarted")
	}
}

func (s *Screen) onVerified() {
	if s.flow == FlowSettings && s.stage == stageVerify {
		s.log.Debug(s.ctx, "current passcode verified, capturing new one")
		s.stage = stageCreate
		s.machine = passcode.NewCreate()
		s.publish()
		return
	}
	s.finish(s.cb.OnVerified)
}

func (s *Screen) onCreated(hash string) {
	if err := s.o.vault.SavePasscode(s.ctx, hash); err != nil {
		s.fail(err)
		return
	}

	enroll := s.o.gate.IsAvailable(s.ctx)
	if enroll && s.flow == FlowSettings {
		// an existing enrollment survives the passcode change
		enabled, err := s.o.vault.BiometricEnabled(s.ctx)
		if err != nil {
			s.fail(err)
			return
		}
		enroll = !enabled
	}

	if !enroll {
		s.finishCreated(hash)
		return
	}

	s.created = hash
	s.phase = PhaseEnrolling
	s.startCeremony(purposeEnroll)
}

func (s *Screen) finishCreated(hash string) {
	cb := s.cb.OnCreated
	s.finish(func() {
		if cb != nil {
			cb(hash)
		}
	})
}

func (s *Screen) onSkipped() {
	if err := s.o.vault.SavePasscode(s.ctx, ""); err != nil {
		s.fail(err)
		return
	}
	s.finish(s.cb.OnSkipped)
}

func (s *Screen) onResetRequested() {
	err := s.o.vault.ResetAll(s.ctx)
	s.o.metrics.Reset(err)
	if err != nil {
		s.fail(err)
		return
	}
	s.finish(s.cb.OnResetRequested)
}

func (s *Screen) handleCeremony(r ceremonyResult) {
	if s.ceremonyCancel != nil {
		s.ceremonyCancel()
		s.ceremonyCancel = nil
	}
	s.o.metrics.BiometricOutcome(r.outcome.Kind.String(), r.took.Seconds())
	s.log.Debug(s.ctx, "biometric outcome", "outcome", r.outcome.Kind.String())

	if r.outcome.Kind == biometric.Error {
		s.log.Warn(s.ctx, "biometric error", "message", r.outcome.Message)
		s.effects.Push(Effect{Kind: EffectBiometricError, Message: r.outcome.Message})
	}

	switch r.purpose {
	case purposeEnroll:
		if r.outcome.Kind == biometric.Success {
			if err := s.o.vault.SetBiometricEnabled(s.ctx, true); err != nil {
				s.fail(err)
				return
			}
		}
		s.finishCreated(s.created)

	case purposeUnlock:
		switch r.outcome.Kind {
		case biometric.Success:
			s.finish(s.cb.OnVerified)
			return
		case biometric.NotEnrolled:
			if err := s.o.vault.SetBiometricEnabled(s.ctx, false); err != nil {
				s.fail(err)
				return
			}
			s.biometricOn = false
		case biometric.NotAvailable:
			s.biometricOn = false
		}
		s.publish()
	}
}

func (s *Screen) startCeremony(p purpose) {
	if s.ceremonyCancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(s.ctx)
	s.ceremonyCancel = cancel
	s.ceremonies.Add(1)

	gate, prompt, reason := s.o.gate, s.o.prompt, s.o.reason
	go func() {
		defer s.ceremonies.Done()
		began := time.Now()
		out := authenticate(ctx, gate, prompt, reason)
		s.results <- ceremonyResult{purpose: p, outcome: out, took: time.Since(began)}
	}()
	s.publish()
}

func authenticate(ctx context.Context, gate biometric.Gate, prompt biometric.PromptContext, reason string) (out biometric.Outcome) {
	defer func() {
		if p := recover(); p != nil {
			out = biometric.Outcome{Kind: biometric.Error, Message: fmt.Sprintf("biometric gate failure: %v", p)}
		}
	}()
	return gate.Authenticate(ctx, prompt, reason)
}

func (s *Screen) releaseIdlers() {
	for _, c := range s.idlers {
		close(c)
	}
	s.idlers = nil
}

func (s *Screen) stopCeremony() {
	if s.ceremonyCancel != nil {
		s.ceremonyCancel()
		s.ceremonyCancel = nil
	}
}

func (s *Screen) finish(cb func()) {
	s.phase = PhaseDone
	s.callback = cb
	s.publish()
	s.log.Info(s.ctx, "flow finished")
}

func (s *Screen) fail(err error) {
	s.err = err
	s.phase = PhaseFailed
	s.effects.Push(Effect{Kind: EffectStorageFailure, Message: err.Error()})
	s.publish()
	s.log.Error(s.ctx, "flow failed", "error", err)
}

func (s *Screen) publish() {
	s.view.Set(View{
		Flow:             s.flow,
		Phase:            s.phase,
		Passcode:         s.machine.State(),
		BiometricPending: s.ceremonyCancel != nil,
		BiometricOffered: s.flow == FlowEntry && s.biometricOn,
		BiometricKind:    s.kind,
	})
}
