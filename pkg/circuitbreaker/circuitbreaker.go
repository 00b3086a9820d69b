package circuitbreaker

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrOpen is returned by Execute while the breaker is rejecting calls.
var ErrOpen = errors.New("circuit breaker open")

// State of the breaker. Closed passes calls through, Open rejects them,
// HalfOpen lets a limited number of probes test the dependency.
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

type Config struct {
	FailureThreshold int           // consecutive failures that open the breaker
	SuccessThreshold int           // half-open successes needed to close it
	Cooldown         time.Duration // how long to stay open before probing
	HalfOpenProbes   int           // calls admitted while half-open
}

// DefaultConfig fits a best-effort dependency like the chat event broker:
// trip quickly, probe again after half a minute.
func DefaultConfig() Config {
	return Config{
		FailureThreshold: 5,
		SuccessThreshold: 2,
		Cooldown:         30 * time.Second,
		HalfOpenProbes:   3,
	}
}

type CircuitBreaker struct {
	cfg Config

	mu        sync.Mutex
	state     State
	failures  int
	successes int
	probes    int
	openedAt  time.Time

	onStateChange func(from, to State)
}

func New(cfg Config) *CircuitBreaker {
	return &CircuitBreaker{cfg: cfg, state: StateClosed}
}

// OnStateChange registers a callback invoked on every state transition.
// The callback runs outside the breaker's lock.
func (cb *CircuitBreaker) OnStateChange(fn func(from, to State)) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.onStateChange = fn
}

func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// Execute runs fn unless the breaker is rejecting calls. Failures returned
// by fn are passed through unwrapped and counted against the breaker.
func (cb *CircuitBreaker) Execute(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if !cb.admit() {
		return ErrOpen
	}

	if err := fn(); err != nil {
		cb.recordFailure()
		return err
	}

	cb.recordSuccess()
	return nil
}

func (cb *CircuitBreaker) admit() bool {
	cb.mu.Lock()
	notify := func() {}

	switch cb.state {
	case StateOpen:
		if time.Since(cb.openedAt) < cb.cfg.Cooldown {
			cb.mu.Unlock()
			return false
		}
		notify = cb.transition(StateHalfOpen)
		cb.probes++
		cb.mu.Unlock()
		notify()
		return true

	case StateHalfOpen:
		if cb.probes >= cb.cfg.HalfOpenProbes {
			cb.mu.Unlock()
			return false
		}
		cb.probes++
		cb.mu.Unlock()
		return true

	default:
		cb.mu.Unlock()
		return true
	}
}

func (cb *CircuitBreaker) recordFailure() {
	cb.mu.Lock()
	notify := func() {}

	cb.failures++
	cb.successes = 0

	switch {
	case cb.state == StateClosed && cb.failures >= cb.cfg.FailureThreshold:
		notify = cb.transition(StateOpen)
	case cb.state == StateHalfOpen:
		// One failed probe sends the breaker straight back to open.
		notify = cb.transition(StateOpen)
	}

	cb.mu.Unlock()
	notify()
}

func (cb *CircuitBreaker) recordSuccess() {
	cb.mu.Lock()
	notify := func() {}

	switch cb.state {
	case StateHalfOpen:
		cb.successes++
		if cb.successes >= cb.cfg.SuccessThreshold {
			notify = cb.transition(StateClosed)
		}
	case StateClosed:
		cb.failures = 0
	}

	cb.mu.Unlock()
	notify()
}

// transition switches state and returns the pending callback invocation.
// Must be called with the lock held; the returned func without it.
func (cb *CircuitBreaker) transition(to State) func() {
	from := cb.state
	if from == to {
		return func() {}
	}

	cb.state = to
	cb.failures = 0
	cb.successes = 0
	cb.probes = 0
	if to == StateOpen {
		cb.openedAt = time.Now()
	}

	fn := cb.onStateChange
	if fn == nil {
		return func() {}
	}
	return func() { fn(from, to) }
}
