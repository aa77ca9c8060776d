package session

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dmitrijs2005/weightkeeper/internal/client/metrics"
	"github.com/dmitrijs2005/weightkeeper/internal/client/securestore"
	"github.com/dmitrijs2005/weightkeeper/internal/client/vault"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecide_Matrix(t *testing.T) {
	tests := []struct {
		first, has bool
		want       Route
	}{
		{false, false, RouteOnboarding},
		{false, true, RouteOnboarding},
		{true, false, RouteMain},
		{true, true, RouteEnterPasscode},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Decide(tt.first, tt.has), "first=%v has=%v", tt.first, tt.has)
	}
}

type countingData struct{ calls int }

func (d *countingData) ClearAllMeasurements(context.Context) error {
	d.calls++
	return nil
}

func newGate(t *testing.T) (*Gate, *vault.Vault, *countingData) {
	t.Helper()
	data := &countingData{}
	v := vault.New(securestore.NewMemoryStore(), data, nil)
	return NewGate(v, nil), v, data
}

func TestGate_Lifecycle(t *testing.T) {
	ctx := context.Background()
	g, v, data := newGate(t)

	route, err := g.Resolve(ctx)
	require.NoError(t, err)
	assert.Equal(t, RouteOnboarding, route)

	// onboarding skipped the passcode
	route, err = g.CompleteOnboarding(ctx)
	require.NoError(t, err)
	assert.Equal(t, RouteMain, route)

	require.NoError(t, v.SavePasscode(ctx, "12345"))
	route, err = g.Resolve(ctx)
	require.NoError(t, err)
	assert.Equal(t, RouteEnterPasscode, route)

	route, err = g.SignOut(ctx)
	require.NoError(t, err)
	assert.Equal(t, RouteOnboarding, route)
	assert.Equal(t, 1, data.calls)

	route, err = g.Resolve(ctx)
	require.NoError(t, err)
	assert.Equal(t, RouteOnboarding, route)
}

func TestGate_CompleteOnboardingWithPasscode(t *testing.T) {
	ctx := context.Background()
	g, v, _ := newGate(t)
	require.NoError(t, v.SavePasscode(ctx, "12345"))

	route, err := g.CompleteOnboarding(ctx)
	require.NoError(t, err)
	assert.Equal(t, RouteEnterPasscode, route)
}

type brokenVault struct {
	readErr  error
	resetErr error
}

func (b brokenVault) FirstAuthorized(context.Context) (bool, error) { return true, b.readErr }
func (b brokenVault) SetFirstAuthorized(context.Context, bool) error { return b.readErr }
func (b brokenVault) HasPasscode(context.Context) (bool, error)     { return false, b.readErr }
func (b brokenVault) ResetAll(context.Context) error                { return b.resetErr }

func TestGate_Errors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("store locked")

	route, err := NewGate(brokenVault{readErr: boom}, nil).Resolve(ctx)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, RouteOnboarding, route)

	_, err = NewGate(brokenVault{readErr: boom}, nil).CompleteOnboarding(ctx)
	require.ErrorIs(t, err, boom)

	route, err = NewGate(brokenVault{resetErr: boom}, nil).SignOut(ctx)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, RouteOnboarding, route)
}

func TestGate_SignOutCountsResets(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	require.NoError(t, err)

	v := vault.New(securestore.NewMemoryStore(), &countingData{}, nil)
	require.NoError(t, v.SavePasscode(ctx, "12345"))

	_, err = NewGate(v, nil, WithMetrics(m)).SignOut(ctx)
	require.NoError(t, err)

	_, err = NewGate(brokenVault{resetErr: errors.New("disk full")}, nil, WithMetrics(m)).SignOut(ctx)
	require.Error(t, err)

	want := `
# HELP weightkeeper_vault_resets_total Credential resets by status.
# TYPE weightkeeper_vault_resets_total counter
weightkeeper_vault_resets_total{status="failed"} 1
weightkeeper_vault_resets_total{status="ok"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(want), "weightkeeper_vault_resets_total"))
}

func TestRouteString(t *testing.T) {
	assert.Equal(t, "enter_passcode", RouteEnterPasscode.String())
}
