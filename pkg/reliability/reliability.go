// Package reliability composes the reliability primitives around a single
// service call. The composition order is load-bearing:
//
//	fallback(breaker(retry(underlying call)))
//
// Retries run inside the breaker's single permitted attempt window, so a
// burst of retries counts as one breaker outcome, and the fallback only
// triggers after the breaker+retry combination has definitively failed or
// rejected the call.
package reliability

import (
	"context"
	"time"

	"tripplanner/pkg/logx"
	"tripplanner/pkg/metrics"
	"tripplanner/pkg/reliability/circuit"
	"tripplanner/pkg/reliability/fallback"
	"tripplanner/pkg/reliability/retry"
	"tripplanner/pkg/svcerrors"
)

// Executor bundles the reliability primitives for one named service. The
// breaker instance is shared by every request against the service; the
// policy and registry are read-only after construction.
type Executor struct {
	Breaker  circuit.Breaker
	Policy   *retry.Policy
	Registry *fallback.Registry
	Metrics  metrics.Recorder
	Logger   *logx.Logger
	Service  fallback.Service
}

// NewExecutor creates an executor for svc with the given breaker and retry
// configuration. The registry may be shared across executors.
func NewExecutor(svc fallback.Service, breakerCfg circuit.Config, retryCfg retry.Config, reg *fallback.Registry, rec metrics.Recorder, logger *logx.Logger) *Executor {
	if rec == nil {
		rec = metrics.NopRecorder{}
	}
	if logger == nil {
		logger = logx.NewLogger("reliability")
	}
	if reg == nil {
		reg = fallback.NewRegistry()
	}
	return &Executor{
		Service:  svc,
		Breaker:  circuit.New(breakerCfg),
		Policy:   retry.NewPolicy(retryCfg, nil),
		Registry: reg,
		Metrics:  rec,
		Logger:   logger,
	}
}

// Do runs fn with the full reliability stack. On failure the registered
// fallback (if any) answers with the same argument; its result or failure is
// final. Absorbed failures are recorded with service name, error text, and
// timing before the fallback substitutes for them.
func Do[A, R any](ctx context.Context, ex *Executor, fn fallback.Func[A, R], arg A) (R, error) {
	primaryFailed := false
	protected := func(ctx context.Context, arg A) (R, error) {
		result, err := doProtected(ctx, ex, fn, arg)
		if err != nil {
			primaryFailed = true
		}
		return result, err
	}

	result, err := fallback.Execute(ctx, ex.Registry, ex.Service, protected, arg)
	if primaryFailed && err == nil {
		ex.Metrics.IncFallback(ex.Service.String())
		ex.Logger.Info("%s answered by fallback", ex.Service)
	}
	return result, err
}

// doProtected is the breaker(retry(fn)) core: one Allow check covers the
// whole retry loop, and one Record reflects its final outcome.
func doProtected[A, R any](ctx context.Context, ex *Executor, fn fallback.Func[A, R], arg A) (R, error) {
	start := time.Now()
	service := ex.Service.String()

	if !ex.Breaker.Allow() {
		ex.Metrics.IncRejected(service)
		ex.Metrics.SetBreakerState(service, int(ex.Breaker.GetState()))
		var zero R
		return zero, &circuit.Error{Service: service, State: ex.Breaker.GetState()}
	}

	result, err := retry.Do(ctx, ex.Policy, service, func(ctx context.Context) (R, error) {
		return fn(ctx, arg)
	})

	ex.Breaker.Record(err == nil)
	ex.Metrics.SetBreakerState(service, int(ex.Breaker.GetState()))

	duration := time.Since(start)
	errorType := ""
	if err != nil {
		errorType = svcerrors.TypeOf(err).String()
		ex.Logger.Warn("%s call failed after %s: %v", ex.Service, duration.Round(time.Millisecond), err)
	}
	ex.Metrics.ObserveCall(service, err == nil, errorType, duration)

	return result, err
}
