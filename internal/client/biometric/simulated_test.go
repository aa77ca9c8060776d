package biometric

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulated_Capability(t *testing.T) {
	assert.Equal(t, CapabilityNoHardware, (&Simulated{}).CanAuthenticate())
	assert.Equal(t, CapabilityNoneEnrolled, (&Simulated{Modality: KindFace}).CanAuthenticate())
	assert.Equal(t, CapabilityAvailable, (&Simulated{Modality: KindFace, Enrolled: true}).CanAuthenticate())
}

func TestSimulated_DefaultSucceeds(t *testing.T) {
	sim := &Simulated{Modality: KindFingerprint, Enrolled: true}
	g := NewHardwareGate(sim)

	assert.True(t, g.IsAvailable(context.Background()))
	assert.Equal(t, KindFingerprint, g.Kind(context.Background()))
	assert.Equal(t, Success, g.Authenticate(context.Background(), PromptContext{}, "r").Kind)
	assert.Equal(t, 1, sim.Begins())
}

func TestSimulated_ScriptWithFailedAttempts(t *testing.T) {
	sim := &Simulated{
		Modality: KindFingerprint,
		Enrolled: true,
		Script: []PlatformResult{
			{Code: ResultFailedAttempt},
			{Code: ResultFailedAttempt},
			{Code: ResultLockout},
		},
	}

	out := NewHardwareGate(sim).Authenticate(context.Background(), PromptContext{}, "r")
	assert.Equal(t, Error, out.Kind)
}

func TestSimulated_CancelDismissesPrompt(t *testing.T) {
	sim := &Simulated{Modality: KindFace, Enrolled: true, Latency: time.Hour}
	g := NewHardwareGate(sim)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	assert.Equal(t, Cancelled, g.Authenticate(ctx, PromptContext{}, "r").Kind)
	assert.Equal(t, 1, sim.Cancels())
	require.Eventually(t, func() bool { return sim.Active() == 0 }, time.Second, 5*time.Millisecond)
}

func TestSimulated_BeginError(t *testing.T) {
	sim := &Simulated{Modality: KindFace, Enrolled: true, BeginErr: errors.New("no window")}
	out := NewHardwareGate(sim).Authenticate(context.Background(), PromptContext{}, "r")
	assert.Equal(t, Error, out.Kind)
}
