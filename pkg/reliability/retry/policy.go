// Package retry provides bounded retry with exponential backoff and jitter
// for external service calls.
package retry

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"

	"tripplanner/pkg/reliability/circuit"
)

// Config defines configuration for retry behavior.
type Config struct {
	MaxAttempts    int           `yaml:"max_attempts"`    // Maximum number of attempts (including initial)
	AttemptTimeout time.Duration `yaml:"attempt_timeout"` // Per-attempt timeout
	InitialDelay   time.Duration `yaml:"initial_delay"`   // Delay before first retry
	MaxDelay       time.Duration `yaml:"max_delay"`       // Maximum delay between retries
	BackoffFactor  float64       `yaml:"backoff_factor"`  // Multiplier for exponential backoff
	JitterWindow   time.Duration `yaml:"jitter_window"`   // Uniform jitter added before each retry
}

// DefaultConfig provides reasonable defaults for retry behavior.
//
//nolint:gochecknoglobals // Sensible default config pattern
var DefaultConfig = Config{
	MaxAttempts:    3,
	AttemptTimeout: 5 * time.Second,
	InitialDelay:   1 * time.Second,
	MaxDelay:       10 * time.Second,
	BackoffFactor:  2.0,
	JitterWindow:   100 * time.Millisecond,
}

// Classifier determines if an error should be retried.
type Classifier func(error) bool

// ShouldRetry is the default error classifier. Every failure is eligible for
// retry up to the attempt limit, with two exceptions: caller cancellation
// (retrying cannot help) and circuit breaker rejections (the breaker owns
// recovery timing). Decode failures stay retryable here; the attempt limit
// bounds how long we spend on a payload that is unlikely to fix itself.
func ShouldRetry(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) {
		return false
	}

	var circuitErr *circuit.Error
	return !errors.As(err, &circuitErr)
}

// Policy encapsulates retry configuration and logic.
type Policy struct {
	Classifier Classifier
	Config     Config
}

// NewPolicy creates a new retry policy with the given configuration and
// classifier. A nil classifier falls back to ShouldRetry.
func NewPolicy(config Config, classifier Classifier) *Policy {
	if classifier == nil {
		classifier = ShouldRetry
	}
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = DefaultConfig.MaxAttempts
	}
	if config.BackoffFactor <= 1.0 {
		config.BackoffFactor = DefaultConfig.BackoffFactor
	}
	return &Policy{
		Config:     config,
		Classifier: classifier,
	}
}

// CalculateDelay computes the backoff delay before the given attempt number.
// Attempt 1 has no delay. The delay grows multiplicatively, is capped at
// MaxDelay, and gets uniform jitter within JitterWindow added on top so
// concurrent callers retrying at the same moment spread out.
func (p *Policy) CalculateDelay(attempt int) time.Duration {
	if attempt <= 1 {
		return 0
	}

	delay := time.Duration(float64(p.Config.InitialDelay) * math.Pow(p.Config.BackoffFactor, float64(attempt-2)))

	if p.Config.MaxDelay > 0 && delay > p.Config.MaxDelay {
		delay = p.Config.MaxDelay
	}

	if p.Config.JitterWindow > 0 {
		delay += time.Duration(rand.Int63n(int64(p.Config.JitterWindow))) //nolint:gosec // Jitter needs no crypto randomness
	}

	return delay
}

// ShouldRetry determines if an error should be retried based on the
// configured classifier.
func (p *Policy) ShouldRetry(err error) bool {
	return p.Classifier(err)
}
