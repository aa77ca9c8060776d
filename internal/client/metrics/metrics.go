// Package metrics counts authentication activity with Prometheus collectors.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "weightkeeper"

// Passcode attempt results.
const (
	ResultVerified = "verified"
	ResultInvalid  = "invalid"
	ResultCreated  = "created"
	ResultMismatch = "mismatch"
	ResultSkipped  = "skipped"
)

type Metrics struct {
	passcodeAttempts  *prometheus.CounterVec
	biometricOutcomes *prometheus.CounterVec
	ceremonySeconds   prometheus.Histogram
	resets            *prometheus.CounterVec
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		passcodeAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "passcode",
			Name:      "attempts_total",
			Help:      "Evaluated passcode entries by flow and result.",
		}, []string{"flow", "result"}),
		biometricOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "biometric",
			Name:      "outcomes_total",
			Help:      "Biometric ceremonies by outcome.",
		}, []string{"outcome"}),
		ceremonySeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "biometric",
			Name:      "ceremony_duration_seconds",
			Help:      "Time from prompt to outcome.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 30},
		}),
		resets: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "vault",
			Name:      "resets_total",
			Help:      "Credential resets by status.",
		}, []string{"status"}),
	}

	for _, c := range []prometheus.Collector{m.passcodeAttempts, m.biometricOutcomes, m.ceremonySeconds, m.resets} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) PasscodeAttempt(flow, result string) {
	if m == nil {
		return
	}
	m.passcodeAttempts.WithLabelValues(flow, result).Inc()
}

func (m *Metrics) BiometricOutcome(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.biometricOutcomes.WithLabelValues(outcome).Inc()
	m.ceremonySeconds.Observe(seconds)
}

// Reset records one ResetAll call; err decides the status label.
func (m *Metrics) Reset(err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "failed"
	}
	m.resets.WithLabelValues(status).Inc()
}
