package biometric

import (
	"errors"
	"sync"
	"time"
)

// Simulated is a Platform that plays back a scripted ceremony. It backs the
// CLI shell, where no sensor exists, and tests.
type Simulated struct {
	Modality Kind
	Enrolled bool
	// Script is delivered in order, one result per Latency tick, stopping at
	// the first terminal result. Empty means a single ResultSucceeded.
	Script  []PlatformResult
	Latency time.Duration
	// BeginErr makes Begin fail.
	BeginErr error

	mu      sync.Mutex
	begins  int
	cancels int
	active  int
}

var errSimulatedBusy = errors.New("another prompt is already showing")

func (s *Simulated) CanAuthenticate() Capability {
	switch {
	case s.Modality == KindNone:
		return CapabilityNoHardware
	case !s.Enrolled:
		return CapabilityNoneEnrolled
	default:
		return CapabilityAvailable
	}
}

func (s *Simulated) Type() Kind {
	return s.Modality
}

func (s *Simulated) Begin(_ PromptContext, _ string, callback func(PlatformResult)) (Ceremony, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.BeginErr != nil {
		return nil, s.BeginErr
	}
	if s.active > 0 {
		return nil, errSimulatedBusy
	}
	s.begins++
	s.active++

	script := s.Script
	if len(script) == 0 {
		script = []PlatformResult{{Code: ResultSucceeded}}
	}

	c := &simCeremony{owner: s, cancelCh: make(chan struct{})}
	go c.play(script, s.Latency, callback)
	return c, nil
}

// Begins reports how many prompts were shown.
func (s *Simulated) Begins() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.begins
}

// Cancels reports how many prompts were cancelled by the caller.
func (s *Simulated) Cancels() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancels
}

// Active reports how many prompts are on screen.
func (s *Simulated) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

type simCeremony struct {
	owner    *Simulated
	once     sync.Once
	doneOnce sync.Once
	cancelCh chan struct{}
}

func (c *simCeremony) Cancel() {
	c.once.Do(func() {
		c.owner.mu.Lock()
		c.owner.cancels++
		c.owner.mu.Unlock()
		close(c.cancelCh)
	})
}

func (c *simCeremony) finish() {
	c.doneOnce.Do(func() {
		c.owner.mu.Lock()
		c.owner.active--
		c.owner.mu.Unlock()
	})
}

func (c *simCeremony) play(script []PlatformResult, latency time.Duration, callback func(PlatformResult)) {
	defer c.finish()
	for _, r := range script {
		timer := time.NewTimer(latency)
		select {
		case <-c.cancelCh:
			timer.Stop()
			callback(PlatformResult{Code: ResultCanceled})
			return
		case <-timer.C:
		}
		callback(r)
		if r.Code != ResultFailedAttempt {
			return
		}
	}
	// script ran out of failed attempts without a verdict: wait for cancel
	<-c.cancelCh
	callback(PlatformResult{Code: ResultCanceled})
}
