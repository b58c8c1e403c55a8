package svcerrors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMessageFormat(t *testing.T) {
	err := New(ErrorTypeProvider, "search", "connection refused")
	assert.Equal(t, "search: provider error: connection refused", err.Error())

	err = Validationf("days must be between %d and %d", 1, 7)
	assert.Equal(t, "validation error: days must be between 1 and 7", err.Error())
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := Wrap(ErrorTypeProvider, "search", cause)

	require.NotNil(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, ErrorTypeProvider, TypeOf(err))
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(ErrorTypeProvider, "search", nil))
}

func TestTypeOfClassification(t *testing.T) {
	assert.Equal(t, ErrorTypeDecode, TypeOf(New(ErrorTypeDecode, "generation", "bad payload")))
	assert.Equal(t, ErrorTypeTimeout, TypeOf(context.DeadlineExceeded))
	assert.Equal(t, ErrorTypeTimeout, TypeOf(fmt.Errorf("attempt: %w", context.DeadlineExceeded)))
	assert.Equal(t, ErrorTypeProvider, TypeOf(errors.New("anything else")))
}

func TestTypeOfWrappedChain(t *testing.T) {
	inner := New(ErrorTypeValidation, "", "bad request")
	outer := fmt.Errorf("pipeline: %w", inner)

	assert.Equal(t, ErrorTypeValidation, TypeOf(outer))
	assert.True(t, IsValidation(outer))
	assert.False(t, IsDecode(outer))
}
