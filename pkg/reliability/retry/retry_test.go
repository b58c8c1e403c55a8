package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripplanner/pkg/reliability/circuit"
	"tripplanner/pkg/svcerrors"
)

func fastConfig() Config {
	return Config{
		MaxAttempts:    3,
		AttemptTimeout: 100 * time.Millisecond,
		InitialDelay:   5 * time.Millisecond,
		MaxDelay:       20 * time.Millisecond,
		BackoffFactor:  2.0,
		JitterWindow:   time.Millisecond,
	}
}

func TestDoSucceedsAfterFailures(t *testing.T) {
	p := NewPolicy(fastConfig(), nil)

	calls := 0
	result, err := Do(context.Background(), p, "search", func(ctx context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", errors.New("transient")
		}
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 3, calls)
}

func TestDoExhaustsAttemptsAndReturnsLastError(t *testing.T) {
	p := NewPolicy(fastConfig(), nil)

	calls := 0
	_, err := Do(context.Background(), p, "search", func(ctx context.Context) (int, error) {
		calls++
		return 0, errors.New("persistent")
	})

	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.Contains(t, err.Error(), "persistent")
}

func TestDoAttemptTimeoutIsTimeoutClassAndRetried(t *testing.T) {
	cfg := fastConfig()
	cfg.AttemptTimeout = 10 * time.Millisecond
	p := NewPolicy(cfg, nil)

	calls := 0
	_, err := Do(context.Background(), p, "generation", func(ctx context.Context) (string, error) {
		calls++
		<-ctx.Done()
		return "", ctx.Err()
	})

	require.Error(t, err)
	assert.Equal(t, 3, calls, "timed-out attempts stay eligible for retry")
	assert.Equal(t, svcerrors.ErrorTypeTimeout, svcerrors.TypeOf(err))
}

func TestDoStopsOnCallerCancellation(t *testing.T) {
	p := NewPolicy(fastConfig(), nil)
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	_, err := Do(ctx, p, "search", func(ctx context.Context) (string, error) {
		calls++
		cancel()
		return "", context.Canceled
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls, "caller cancellation is not retried")
}

func TestDoStopsOnCircuitError(t *testing.T) {
	p := NewPolicy(fastConfig(), nil)

	calls := 0
	_, err := Do(context.Background(), p, "search", func(ctx context.Context) (string, error) {
		calls++
		return "", &circuit.Error{Service: "search", State: circuit.Open}
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls, "breaker rejections are not retried")
}

func TestCalculateDelayMonotonicUpToCap(t *testing.T) {
	p := NewPolicy(Config{
		MaxAttempts:   5,
		InitialDelay:  10 * time.Millisecond,
		MaxDelay:      40 * time.Millisecond,
		BackoffFactor: 2.0,
	}, nil)

	assert.Equal(t, time.Duration(0), p.CalculateDelay(1))

	prev := time.Duration(0)
	for attempt := 2; attempt <= 5; attempt++ {
		delay := p.CalculateDelay(attempt)
		assert.GreaterOrEqual(t, delay, prev, "delay must be non-decreasing")
		assert.LessOrEqual(t, delay, 40*time.Millisecond)
		prev = delay
	}
}

func TestCalculateDelayJitterBound(t *testing.T) {
	p := NewPolicy(Config{
		MaxAttempts:   3,
		InitialDelay:  10 * time.Millisecond,
		MaxDelay:      10 * time.Millisecond,
		BackoffFactor: 2.0,
		JitterWindow:  5 * time.Millisecond,
	}, nil)

	for i := 0; i < 50; i++ {
		delay := p.CalculateDelay(2)
		assert.GreaterOrEqual(t, delay, 10*time.Millisecond)
		assert.Less(t, delay, 15*time.Millisecond)
	}
}

func TestShouldRetryClassifier(t *testing.T) {
	assert.False(t, ShouldRetry(nil))
	assert.False(t, ShouldRetry(context.Canceled))
	assert.False(t, ShouldRetry(&circuit.Error{Service: "x", State: circuit.Open}))
	assert.True(t, ShouldRetry(errors.New("network down")))
	assert.True(t, ShouldRetry(svcerrors.New(svcerrors.ErrorTypeDecode, "generation", "bad payload")))
}

func TestNewPolicyDefaults(t *testing.T) {
	p := NewPolicy(Config{}, nil)
	assert.Equal(t, DefaultConfig.MaxAttempts, p.Config.MaxAttempts)
	assert.Equal(t, DefaultConfig.BackoffFactor, p.Config.BackoffFactor)
	assert.NotNil(t, p.Classifier)
}
