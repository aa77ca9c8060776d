package cli

import (
	"context"

	"github.com/dmitrijs2005/weightkeeper/internal/client/biometric"
	"github.com/dmitrijs2005/weightkeeper/internal/client/config"
	"github.com/dmitrijs2005/weightkeeper/internal/logging"
)

// newBiometricGate picks the Gate for the configured sensor. A terminal has no
// sensor, so real kinds are served by the simulated platform.
func newBiometricGate(ctx context.Context, c *config.Config, log logging.Logger) biometric.Gate {
	if log == nil {
		log = logging.Nop{}
	}
	switch c.BiometricKind {
	case "off":
		return biometric.Noop{}
	case "", "none":
		return biometric.Unsupported{}
	}

	kind := biometric.ParseKind(c.BiometricKind)
	if kind == biometric.KindNone {
		log.Warn(ctx, "unknown biometric kind, biometrics unavailable", "kind", c.BiometricKind)
		return biometric.Unsupported{}
	}

	sim := &biometric.Simulated{
		Modality: kind,
		Enrolled: c.BiometricEnrolled,
		Latency:  c.BiometricLatency,
		Script:   []biometric.PlatformResult{simulatedResult(c.BiometricResult)},
	}
	return biometric.NewHardwareGate(sim, biometric.WithLogger(log))
}

func simulatedResult(name string) biometric.PlatformResult {
	switch name {
	case "cancel":
		return biometric.PlatformResult{Code: biometric.ResultUserCanceled}
	case "not_enrolled":
		return biometric.PlatformResult{Code: biometric.ResultNoneEnrolled}
	case "lockout":
		return biometric.PlatformResult{Code: biometric.ResultLockout}
	case "timeout":
		return biometric.PlatformResult{Code: biometric.ResultTimeout}
	case "error":
		return biometric.PlatformResult{Code: biometric.ResultError, Message: "simulated sensor fault"}
	default:
		return biometric.PlatformResult{Code: biometric.ResultSucceeded}
	}
}
