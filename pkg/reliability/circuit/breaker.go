// Package circuit provides circuit breaker functionality for external
// service calls.
package circuit

import (
	"fmt"
	"sync"
	"time"
)

// State represents the current state of a circuit breaker.
type State int

// Circuit breaker states for managing service failure patterns.
const (
	Closed   State = iota // Normal operation
	Open                  // Failing, reject requests
	HalfOpen              // Testing if service recovered
)

func (s State) String() string {
	switch s {
	case Closed:
		return "CLOSED"
	case Open:
		return "OPEN"
	case HalfOpen:
		return "HALF_OPEN"
	default:
		return "UNKNOWN"
	}
}

// Config defines configuration for circuit breaker behavior.
type Config struct {
	FailureThreshold int           `yaml:"failure_threshold"` // Consecutive failures before opening
	RecoveryTimeout  time.Duration `yaml:"recovery_timeout"`  // Time to wait before trying half-open
}

// DefaultConfig provides reasonable defaults for circuit breaker behavior.
//
//nolint:gochecknoglobals // Sensible default config pattern
var DefaultConfig = Config{
	FailureThreshold: 3,
	RecoveryTimeout:  120 * time.Second,
}

// Error represents a call rejected because the circuit is not closed.
type Error struct {
	Service string
	State   State
}

func (e *Error) Error() string {
	return fmt.Sprintf("circuit breaker for %s is %s: service unavailable", e.Service, e.State)
}

// Breaker defines the interface for circuit breaker implementations.
type Breaker interface {
	// Allow checks if a request should be allowed based on current state.
	Allow() bool

	// Record records the result (success/failure) of an allowed request.
	Record(success bool)

	// GetState returns the current circuit breaker state.
	GetState() State

	// Reset manually resets the circuit breaker to closed state.
	Reset()
}

// breaker implements the Breaker interface with state management. One
// instance exists per protected service and is shared by all requests
// against that service, so every transition happens under the mutex.
type breaker struct {
	lastFailureTime time.Time
	config          Config
	mu              sync.Mutex
	state           State
	failureCount    int
	probing         bool
}

// New creates a new circuit breaker with the given configuration.
func New(config Config) Breaker {
	if config.FailureThreshold <= 0 {
		config.FailureThreshold = DefaultConfig.FailureThreshold
	}
	if config.RecoveryTimeout <= 0 {
		config.RecoveryTimeout = DefaultConfig.RecoveryTimeout
	}
	return &breaker{
		config: config,
		state:  Closed,
	}
}

// Allow checks if a request should be allowed based on current state.
func (b *breaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case Closed:
		return true

	case Open:
		if time.Since(b.lastFailureTime) >= b.config.RecoveryTimeout {
			b.state = HalfOpen
			b.probing = true
			return true
		}
		return false

	case HalfOpen:
		// Exactly one probe is allowed through; concurrent callers are
		// rejected until the probe result is recorded.
		if b.probing {
			return false
		}
		b.probing = true
		return true

	default:
		return false
	}
}

// Record records the success or failure of an allowed request.
func (b *breaker) Record(success bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if success {
		b.onSuccess()
	} else {
		b.onFailure()
	}
}

// GetState returns the current circuit breaker state.
func (b *breaker) GetState() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Reset manually resets the circuit breaker to closed state.
func (b *breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.state = Closed
	b.failureCount = 0
	b.probing = false
}

func (b *breaker) onSuccess() {
	switch b.state {
	case Closed:
		b.failureCount = 0

	case HalfOpen:
		// Probe succeeded, close the circuit.
		b.state = Closed
		b.failureCount = 0
		b.probing = false
	}
}

func (b *breaker) onFailure() {
	b.failureCount++
	b.lastFailureTime = time.Now()

	switch b.state {
	case Closed:
		if b.failureCount >= b.config.FailureThreshold {
			b.state = Open
		}

	case HalfOpen:
		// Probe failed, reopen and restart the recovery window.
		b.state = Open
		b.probing = false
	}
}
