package fallback

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecutePrimarySucceeds(t *testing.T) {
	reg := NewRegistry()
	Register(reg, ServiceSearch, func(ctx context.Context, q string) (string, error) {
		return "fallback", nil
	})

	result, err := Execute(context.Background(), reg, ServiceSearch,
		func(ctx context.Context, q string) (string, error) {
			return "primary", nil
		}, "query")

	require.NoError(t, err)
	assert.Equal(t, "primary", result, "fallback must not run when primary succeeds")
}

func TestExecuteFallbackAnswersOnPrimaryFailure(t *testing.T) {
	reg := NewRegistry()
	Register(reg, ServiceSearch, func(ctx context.Context, q string) (string, error) {
		return "fallback:" + q, nil
	})

	result, err := Execute(context.Background(), reg, ServiceSearch,
		func(ctx context.Context, q string) (string, error) {
			return "", errors.New("primary down")
		}, "query")

	require.NoError(t, err)
	assert.Equal(t, "fallback:query", result, "fallback receives the same argument")
}

func TestExecutePropagatesWithoutFallback(t *testing.T) {
	reg := NewRegistry()

	_, err := Execute(context.Background(), reg, ServiceGeneration,
		func(ctx context.Context, q string) (string, error) {
			return "", errors.New("primary down")
		}, "query")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "primary down")
}

func TestExecuteFallbackFailureIsFinal(t *testing.T) {
	reg := NewRegistry()
	Register(reg, ServiceSearch, func(ctx context.Context, q string) (string, error) {
		return "", errors.New("fallback down too")
	})

	_, err := Execute(context.Background(), reg, ServiceSearch,
		func(ctx context.Context, q string) (string, error) {
			return "", errors.New("primary down")
		}, "query")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "fallback down too")
}

func TestRegisterReplacesPriorEntry(t *testing.T) {
	reg := NewRegistry()
	Register(reg, ServiceSearch, func(ctx context.Context, q string) (string, error) {
		return "old", nil
	})
	Register(reg, ServiceSearch, func(ctx context.Context, q string) (string, error) {
		return "new", nil
	})

	fn, ok := Lookup[string, string](reg, ServiceSearch)
	require.True(t, ok)
	result, err := fn(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, "new", result)
}

func TestLookupSignatureMismatch(t *testing.T) {
	reg := NewRegistry()
	Register(reg, ServiceSearch, func(ctx context.Context, q string) (string, error) {
		return "", nil
	})

	_, ok := Lookup[int, int](reg, ServiceSearch)
	assert.False(t, ok, "a registration under a different signature must not match")
}

func TestServiceString(t *testing.T) {
	assert.Equal(t, "search", ServiceSearch.String())
	assert.Equal(t, "generation", ServiceGeneration.String())
	assert.Equal(t, "compression", ServiceCompression.String())
	assert.Equal(t, "currency", ServiceCurrency.String())
}
