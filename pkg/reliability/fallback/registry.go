// Package fallback provides last-line-of-defense substitution for failed
// service calls. Fallbacks are registered per service and must return fast,
// typically from static or offline data; they are never wrapped in circuit
// breaking or retry themselves.
package fallback

import (
	"context"
	"sync"
)

// Service identifies a protected external capability. Registry lookups are
// keyed by this enum rather than free-form strings so a typo cannot silently
// miss a registered fallback.
type Service int8

const (
	ServiceSearch Service = iota
	ServiceGeneration
	ServiceCompression
	ServiceCurrency
)

func (s Service) String() string {
	switch s {
	case ServiceSearch:
		return "search"
	case ServiceGeneration:
		return "generation"
	case ServiceCompression:
		return "compression"
	case ServiceCurrency:
		return "currency"
	default:
		return "unknown"
	}
}

// Func is the shape of both primary and fallback calls: one argument in,
// one result out.
type Func[A, R any] func(ctx context.Context, arg A) (R, error)

// Registry maps services to their registered fallback function. Exactly one
// fallback exists per service; re-registration replaces the prior entry.
type Registry struct {
	mu      sync.RWMutex
	entries map[Service]any
}

// NewRegistry creates an empty fallback registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[Service]any)}
}

// Register installs fn as the fallback for svc, silently replacing any
// prior registration.
func Register[A, R any](reg *Registry, svc Service, fn Func[A, R]) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.entries[svc] = fn
}

// Lookup returns the registered fallback for svc, if any. A registration
// under a different call signature does not match.
func Lookup[A, R any](reg *Registry, svc Service) (Func[A, R], bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	entry, ok := reg.entries[svc]
	if !ok {
		return nil, false
	}
	fn, ok := entry.(Func[A, R])
	return fn, ok
}

// Execute runs primary and, on failure, substitutes the registered fallback
// for svc with the same argument. The fallback's result or failure becomes
// the final outcome. With no fallback registered the primary's failure
// propagates unchanged.
func Execute[A, R any](ctx context.Context, reg *Registry, svc Service, primary Func[A, R], arg A) (R, error) {
	result, err := primary(ctx, arg)
	if err == nil {
		return result, nil
	}

	fn, ok := Lookup[A, R](reg, svc)
	if !ok {
		return result, err
	}
	return fn(ctx, arg)
}
