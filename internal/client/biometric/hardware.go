package biometric

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/weightkeeper/internal/logging"
	"github.com/google/uuid"
)

// HardwareGate drives a Platform. Platform failures, including panics, are
// converted to Error outcomes at this boundary.
type HardwareGate struct {
	platform Platform
	ui       func(func())
	log      logging.Logger
}

type Option func(*HardwareGate)

// WithUIExecutor sets where Begin and Cancel run. Prompts must be shown from
// the platform's UI thread; the default runs them inline.
func WithUIExecutor(run func(func())) Option {
	return func(g *HardwareGate) { g.ui = run }
}

func WithLogger(l logging.Logger) Option {
	return func(g *HardwareGate) { g.log = l }
}

func NewHardwareGate(p Platform, opts ...Option) *HardwareGate {
	g := &HardwareGate{
		platform: p,
		ui:       func(f func()) { f() },
		log:      logging.Nop{},
	}
	for _, opt := range opts {
		opt(g)
	}
	g.log = g.log.With("component", "biometric")
	return g
}

func (g *HardwareGate) IsAvailable(ctx context.Context) bool {
	capability, err := g.capability()
	if err != nil {
		g.log.Warn(ctx, "capability check failed", "error", err)
		return false
	}
	return capability == CapabilityAvailable
}

func (g *HardwareGate) Kind(ctx context.Context) (k Kind) {
	defer func() {
		if p := recover(); p != nil {
			g.log.Warn(ctx, "type query panicked", "panic", p)
			k = KindNone
		}
	}()
	return g.platform.Type()
}

func (g *HardwareGate) Authenticate(ctx context.Context, prompt PromptContext, reason string) (out Outcome) {
	log := g.log.With("ceremony", uuid.NewString())
	defer func() {
		if p := recover(); p != nil {
			out = errorOutcome("biometric platform failure: %v", p)
		}
		log.Debug(ctx, "ceremony resolved", "outcome", out.String())
	}()

	if ctx.Err() != nil {
		return Outcome{Kind: Cancelled}
	}

	capability, err := g.capability()
	if err != nil {
		return errorOutcome("%v", err)
	}
	switch capability {
	case CapabilityNoHardware, CapabilityHardwareUnavailable:
		return Outcome{Kind: NotAvailable}
	case CapabilityNoneEnrolled:
		return Outcome{Kind: NotEnrolled}
	}

	results := make(chan PlatformResult, 1)
	var once sync.Once
	callback := func(r PlatformResult) {
		if r.Code == ResultFailedAttempt {
			log.Debug(ctx, "sample rejected, prompt stays up")
			return
		}
		once.Do(func() { results <- r })
	}

	type begun struct {
		ceremony Ceremony
		err      error
	}
	started := make(chan begun, 1)
	g.ui(func() {
		defer func() {
			if p := recover(); p != nil {
				started <- begun{err: fmt.Errorf("begin panicked: %v", p)}
			}
		}()
		c, err := g.platform.Begin(prompt, reason, callback)
		started <- begun{ceremony: c, err: err}
	})

	var b begun
	select {
	case b = <-started:
	case <-ctx.Done():
		// Begin is still pending on the UI executor; cancel whatever it produces.
		go func() {
			if late := <-started; late.ceremony != nil {
				g.cancel(ctx, late.ceremony)
			}
		}()
		return Outcome{Kind: Cancelled}
	}
	if b.err != nil {
		return errorOutcome("start biometric prompt: %v", b.err)
	}
	if b.ceremony == nil {
		return errorOutcome("start biometric prompt: no ceremony returned")
	}

	select {
	case r := <-results:
		return mapResult(r)
	case <-ctx.Done():
		g.cancel(ctx, b.ceremony)
		return Outcome{Kind: Cancelled}
	}
}

func (g *HardwareGate) capability() (c Capability, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("capability check panicked: %v", p)
		}
	}()
	return g.platform.CanAuthenticate(), nil
}

func (g *HardwareGate) cancel(ctx context.Context, c Ceremony) {
	g.ui(func() {
		defer func() {
			if p := recover(); p != nil {
				g.log.Warn(ctx, "cancel panicked", "panic", p)
			}
		}()
		c.Cancel()
	})
}

func mapResult(r PlatformResult) Outcome {
	switch r.Code {
	case ResultSucceeded:
		return Outcome{Kind: Success}
	case ResultUserCanceled, ResultNegativeButton, ResultCanceled:
		return Outcome{Kind: Cancelled}
	case ResultNoHardware, ResultHardwareUnavailable:
		return Outcome{Kind: NotAvailable}
	case ResultNoneEnrolled:
		return Outcome{Kind: NotEnrolled}
	case ResultLockout:
		return errorOutcome("too many attempts, try again later")
	case ResultLockoutPermanent:
		return errorOutcome("biometrics locked, unlock the device with its credential first")
	case ResultTimeout:
		return errorOutcome("biometric prompt timed out")
	case ResultError:
		if r.Message != "" {
			return errorOutcome("%s", r.Message)
		}
		return errorOutcome("biometric error")
	default:
		return errorOutcome("unknown biometric result %d", r.Code)
	}
}
