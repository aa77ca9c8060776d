// Package authflow runs the passcode screens: onboarding creation, changing
// the passcode from settings, and unlocking on launch. Each screen is driven
// by a single goroutine that owns its passcode.Machine; user input and
// biometric outcomes reach it through channels in arrival order.
package authflow

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/weightkeeper/internal/client/biometric"
	"github.com/dmitrijs2005/weightkeeper/internal/client/metrics"
	"github.com/dmitrijs2005/weightkeeper/internal/client/passcode"
	"github.com/dmitrijs2005/weightkeeper/internal/client/vault"
	"github.com/dmitrijs2005/weightkeeper/internal/logging"
)

// DefaultSettleDelay lets the last digit render before the buffer is evaluated.
const DefaultSettleDelay = 200 * time.Millisecond

// Vault is the credential storage the flows read and write.
type Vault interface {
	SavePasscode(ctx context.Context, hash string) error
	PasscodeHash(ctx context.Context) (string, bool, error)
	HasPasscode(ctx context.Context) (bool, error)
	BiometricEnabled(ctx context.Context) (bool, error)
	SetBiometricEnabled(ctx context.Context, enabled bool) error
	ResetAll(ctx context.Context) error
}

// Callbacks request route changes from the navigation layer. They run on the
// screen goroutine after it has stopped; they may call Close but not Wait.
type Callbacks struct {
	OnVerified       func()
	OnCreated        func(hash string)
	OnSkipped        func()
	OnResetRequested func()
}

type Orchestrator struct {
	vault   Vault
	gate    biometric.Gate
	log     logging.Logger
	metrics *metrics.Metrics
	settle  time.Duration
	prompt  biometric.PromptContext
	reason  string
}

type Option func(*Orchestrator)

func WithLogger(l logging.Logger) Option {
	return func(o *Orchestrator) { o.log = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(o *Orchestrator) { o.metrics = m }
}

// WithSettleDelay overrides DefaultSettleDelay. Zero evaluates immediately.
func WithSettleDelay(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d >= 0 {
			o.settle = d
		}
	}
}

// WithPrompt sets the presentation context biometric prompts attach to.
func WithPrompt(p biometric.PromptContext) Option {
	return func(o *Orchestrator) { o.prompt = p }
}

// WithReason sets the user-visible reason shown by the biometric prompt.
func WithReason(reason string) Option {
	return func(o *Orchestrator) { o.reason = reason }
}

func New(v Vault, gate biometric.Gate, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		vault:  v,
		gate:   gate,
		log:    logging.Nop{},
		settle: DefaultSettleDelay,
		prompt: biometric.PromptContext{
			Title:         "Unlock weightkeeper",
			NegativeLabel: "Use passcode",
		},
		reason: "Confirm it's you",
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.gate == nil {
		o.gate = biometric.Noop{}
	}
	o.log = o.log.With("component", "authflow")
	return o
}

// StartOnboarding opens the passcode creation screen shown on first launch.
func (o *Orchestrator) StartOnboarding(ctx context.Context, cb Callbacks) (*Screen, error) {
	s := o.newScreen(ctx, FlowOnboarding, passcode.NewCreate(), cb)
	s.stage = stageCreate
	s.start()
	return s, nil
}

// StartSettings opens the change-passcode screen. The current passcode is
// verified first when one exists.
func (o *Orchestrator) StartSettings(ctx context.Context, cb Callbacks) (*Screen, error) {
	hash, ok, err := o.vault.PasscodeHash(ctx)
	if err != nil {
		return nil, fmt.Errorf("start settings flow: %w", err)
	}

	if !ok {
		s := o.newScreen(ctx, FlowSettings, passcode.NewCreate(), cb)
		s.stage = stageCreate
		s.start()
		return s, nil
	}

	s := o.newScreen(ctx, FlowSettings, passcode.NewEnter(hash), cb)
	s.stage = stageVerify
	s.start()
	return s, nil
}

// StartEntry opens the unlock screen. When biometrics are enabled and usable
// the prompt is shown straight away, racing manual entry.
func (o *Orchestrator) StartEntry(ctx context.Context, cb Callbacks) (*Screen, error) {
	hash, ok, err := o.vault.PasscodeHash(ctx)
	if err != nil {
		return nil, fmt.Errorf("start entry flow: %w", err)
	}
	if !ok {
		return nil, vault.ErrNoPasscode
	}

	enabled, err := o.vault.BiometricEnabled(ctx)
	if err != nil {
		return nil, fmt.Errorf("start entry flow: %w", err)
	}

	s := o.newScreen(ctx, FlowEntry, passcode.NewEnter(hash), cb)
	s.stage = stageVerify
	s.biometricOn = enabled && o.gate.IsAvailable(ctx)
	s.autoPrompt = s.biometricOn
	s.start()
	return s, nil
}
