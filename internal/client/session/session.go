// Package session decides which top-level route the app lands on.
package session

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/weightkeeper/internal/client/metrics"
	"github.com/dmitrijs2005/weightkeeper/internal/logging"
)

type Route int

const (
	RouteOnboarding Route = iota
	RouteEnterPasscode
	RouteMain
)

func (r Route) String() string {
	switch r {
	case RouteOnboarding:
		return "onboarding"
	case RouteEnterPasscode:
		return "enter_passcode"
	default:
		return "main"
	}
}

// Decide maps the persisted flags to a route.
func Decide(firstAuthorized, hasPasscode bool) Route {
	switch {
	case !firstAuthorized:
		return RouteOnboarding
	case hasPasscode:
		return RouteEnterPasscode
	default:
		return RouteMain
	}
}

// Vault is the subset of credential storage the gate reads and resets.
type Vault interface {
	FirstAuthorized(ctx context.Context) (bool, error)
	SetFirstAuthorized(ctx context.Context, done bool) error
	HasPasscode(ctx context.Context) (bool, error)
	ResetAll(ctx context.Context) error
}

// Gate evaluates Decide against the vault at launch and after onboarding or
// sign-out.
type Gate struct {
	vault   Vault
	log     logging.Logger
	metrics *metrics.Metrics
}

type Option func(*Gate)

// WithMetrics counts sign-out resets next to the ones the passcode screens
// record.
func WithMetrics(m *metrics.Metrics) Option {
	return func(g *Gate) { g.metrics = m }
}

func NewGate(v Vault, log logging.Logger, opts ...Option) *Gate {
	if log == nil {
		log = logging.Nop{}
	}
	g := &Gate{vault: v, log: log.With("component", "session")}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Gate) Resolve(ctx context.Context) (Route, error) {
	first, err := g.vault.FirstAuthorized(ctx)
	if err != nil {
		return RouteOnboarding, fmt.Errorf("resolve route: %w", err)
	}

	has := false
	if first {
		if has, err = g.vault.HasPasscode(ctx); err != nil {
			return RouteOnboarding, fmt.Errorf("resolve route: %w", err)
		}
	}

	route := Decide(first, has)
	g.log.Debug(ctx, "route resolved", "route", route.String())
	return route, nil
}

// CompleteOnboarding marks the first run as done and returns the route to
// continue with, which is never RouteOnboarding.
func (g *Gate) CompleteOnboarding(ctx context.Context) (Route, error) {
	if err := g.vault.SetFirstAuthorized(ctx, true); err != nil {
		return RouteOnboarding, fmt.Errorf("complete onboarding: %w", err)
	}
	return g.Resolve(ctx)
}

// SignOut wipes credentials and user data. The route is RouteOnboarding even
// when the reset fails part way; the error must still be reported.
func (g *Gate) SignOut(ctx context.Context) (Route, error) {
	err := g.vault.ResetAll(ctx)
	g.metrics.Reset(err)
	if err != nil {
		g.log.Error(ctx, "sign-out failed", "error", err)
		return RouteOnboarding, fmt.Errorf("sign out: %w", err)
	}
	g.log.Info(ctx, "signed out")
	return RouteOnboarding, nil
}
