// Package svcerrors provides structured error classification for calls to
// external services and for request validation.
package svcerrors

import (
	"context"
	"errors"
	"fmt"
)

// ErrorType categorizes failures so callers can pick the right recovery path.
type ErrorType int8

const (
	// ErrorTypeValidation represents a malformed request. Fatal, raised
	// before any external call is made.
	ErrorTypeValidation ErrorType = iota
	// ErrorTypeProvider represents a network, rate-limit, or server-side
	// failure from an external provider. Recoverable via retry and fallback.
	ErrorTypeProvider
	// ErrorTypeDecode represents a provider response that could not be
	// decoded into the expected schema. Treated like a provider failure for
	// fallback purposes.
	ErrorTypeDecode
	// ErrorTypeTimeout represents an attempt that exceeded its per-call
	// timeout. Counts as a failure for retry and breaker purposes.
	ErrorTypeTimeout
	// ErrorTypeUnavailable represents a call rejected by an open circuit
	// breaker or a service that exhausted its retries.
	ErrorTypeUnavailable
	// ErrorTypeConfig represents missing or invalid startup configuration.
	ErrorTypeConfig
)

func (et ErrorType) String() string {
	switch et {
	case ErrorTypeValidation:
		return "validation"
	case ErrorTypeProvider:
		return "provider"
	case ErrorTypeDecode:
		return "decode"
	case ErrorTypeTimeout:
		return "timeout"
	case ErrorTypeUnavailable:
		return "unavailable"
	case ErrorTypeConfig:
		return "config"
	default:
		return "unknown"
	}
}

// Error is the structured error carried across service boundaries.
type Error struct {
	Err     error
	Service string
	Message string
	Type    ErrorType
}

func (e *Error) Error() string {
	if e.Service != "" {
		return fmt.Sprintf("%s: %s error: %s", e.Service, e.Type, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a structured error without an underlying cause.
func New(t ErrorType, service, message string) *Error {
	return &Error{Type: t, Service: service, Message: message}
}

// Wrap creates a structured error around an underlying cause.
func Wrap(t ErrorType, service string, err error) *Error {
	if err == nil {
		return nil
	}
	return &Error{Type: t, Service: service, Message: err.Error(), Err: err}
}

// Validationf creates a validation error with a formatted message.
func Validationf(format string, args ...any) *Error {
	return &Error{Type: ErrorTypeValidation, Message: fmt.Sprintf(format, args...)}
}

// TypeOf extracts the ErrorType from err, classifying plain errors by their
// well-known sentinels. Unclassified errors report ErrorTypeProvider since
// they originate from a service call site.
func TypeOf(err error) ErrorType {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Type
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorTypeTimeout
	}
	return ErrorTypeProvider
}

// IsValidation reports whether err is a request validation error.
func IsValidation(err error) bool {
	var svcErr *Error
	return errors.As(err, &svcErr) && svcErr.Type == ErrorTypeValidation
}

// IsDecode reports whether err is a schema decode error.
func IsDecode(err error) bool {
	var svcErr *Error
	return errors.As(err, &svcErr) && svcErr.Type == ErrorTypeDecode
}
