package circuitbreaker

import (
	"errors"
	"sync"
	"time"
)

// ErrOpen is returned by Call while the circuit is open
var ErrOpen = errors.New("circuit breaker is open")

// State represents the circuit breaker state
type State int

const (
	// StateClosed means the circuit is closed and requests are allowed
	StateClosed State = iota
	// StateOpen means the circuit is open and requests are blocked
	StateOpen
	// StateHalfOpen means one trial request is allowed through
	StateHalfOpen
)

// String returns the string representation of the state
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

// Config holds configuration for the circuit breaker
type Config struct {
	Threshold     int                 // Consecutive failures before opening (default: 5)
	Timeout       time.Duration       // Time to stay open before a trial call (default: 30s)
	OnStateChange func(from, to State) // Called after each transition, outside the lock
	Now           func() time.Time    // Clock, for tests
}

// CircuitBreaker stops calling a failing provider for a while
type CircuitBreaker struct {
	mu sync.Mutex

	threshold     int
	timeout       time.Duration
	onStateChange func(from, to State)
	now           func() time.Time

	state               State
	trialInFlight       bool
	consecutiveFailures int
	lastFailureTime     time.Time
	lastStateChange     time.Time
}

// New creates a new circuit breaker with the given configuration
func New(config Config) *CircuitBreaker {
	if config.Threshold <= 0 {
		config.Threshold = 5
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	if config.Now == nil {
		config.Now = time.Now
	}

	return &CircuitBreaker{
		threshold:       config.Threshold,
		timeout:         config.Timeout,
		onStateChange:   config.OnStateChange,
		now:             config.Now,
		state:           StateClosed,
		lastStateChange: config.Now(),
	}
}

// Call runs fn unless the circuit is open. The result of fn is recorded and
// returned unchanged.
func (cb *CircuitBreaker) Call(fn func() error) error {
	if err := cb.beforeCall(); err != nil {
		return err
	}

	err := fn()
	cb.afterCall(err)
	return err
}

// beforeCall checks if the call should be allowed
func (cb *CircuitBreaker) beforeCall() error {
	cb.mu.Lock()

	var from State
	changed := false

	switch cb.state {
	case StateOpen:
		if cb.now().Sub(cb.lastFailureTime) < cb.timeout {
			cb.mu.Unlock()
			return ErrOpen
		}
		from, changed = cb.setState(StateHalfOpen)
		cb.trialInFlight = true

	case StateHalfOpen:
		// Only one trial at a time
		if cb.trialInFlight {
			cb.mu.Unlock()
			return ErrOpen
		}
		cb.trialInFlight = true
	}

	cb.mu.Unlock()
	if changed {
		cb.notify(from, StateHalfOpen)
	}
	return nil
}

// afterCall records the result of a call
func (cb *CircuitBreaker) afterCall(err error) {
	cb.mu.Lock()

	var from, to State
	changed := false

	if err != nil {
		cb.lastFailureTime = cb.now()
		cb.consecutiveFailures++
		if cb.state == StateHalfOpen || cb.consecutiveFailures >= cb.threshold {
			to = StateOpen
			from, changed = cb.setState(to)
		}
	} else {
		cb.consecutiveFailures = 0
		to = StateClosed
		from, changed = cb.setState(to)
	}
	cb.trialInFlight = false

	cb.mu.Unlock()
	if changed {
		cb.notify(from, to)
	}
}

// setState changes the state; the caller holds the lock
func (cb *CircuitBreaker) setState(newState State) (State, bool) {
	oldState := cb.state
	if oldState == newState {
		return oldState, false
	}
	cb.state = newState
	cb.lastStateChange = cb.now()
	return oldState, true
}

func (cb *CircuitBreaker) notify(from, to State) {
	if cb.onStateChange != nil {
		cb.onStateChange(from, to)
	}
}

// GetState returns the current state of the circuit breaker
func (cb *CircuitBreaker) GetState() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}
