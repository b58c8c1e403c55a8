// Package orchestrator sequences one planning request through its stages:
// request validation, price search, plan synthesis, and plan validation,
// with an optional review step afterwards. Every external call goes through
// the reliability layer; provider failures never escape the search or
// synthesis stages.
package orchestrator

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"tripplanner/pkg/config"
	"tripplanner/pkg/gen"
	"tripplanner/pkg/itinerary"
	"tripplanner/pkg/logx"
	"tripplanner/pkg/memory"
	"tripplanner/pkg/metrics"
	"tripplanner/pkg/persistence"
	"tripplanner/pkg/reliability"
	"tripplanner/pkg/reliability/fallback"
	"tripplanner/pkg/search"
)

// Result is the outcome of one planning request.
type Result struct {
	RequestID   string
	Plan        itinerary.Plan
	Validation  Validation
	NeedsReview bool
}

// Orchestrator runs the planning pipeline. One instance serves one session:
// the breakers and conversation memory are shared across its requests.
type Orchestrator struct {
	provider       search.Provider
	generator      *gen.Generator
	searchExec     *reliability.Executor
	genExec        *reliability.Executor
	memory         *memory.ConversationMemory
	store          *persistence.Store
	logger         *logx.Logger
	resultsPerCall int
}

// New wires the pipeline from configuration. The store may be nil to
// disable persistence; rec may be nil to disable metrics.
func New(cfg config.Config, provider search.Provider, generator *gen.Generator, store *persistence.Store, rec metrics.Recorder) *Orchestrator {
	logger := logx.NewLogger("orchestrator")
	registry := fallback.NewRegistry()
	registerFallbacks(registry)

	compressExec := reliability.NewExecutor(fallback.ServiceCompression,
		cfg.Reliability.Compression.Breaker, cfg.Reliability.Compression.Retry, registry, rec, logger)

	o := &Orchestrator{
		provider:  provider,
		generator: generator,
		searchExec: reliability.NewExecutor(fallback.ServiceSearch,
			cfg.Reliability.Search.Breaker, cfg.Reliability.Search.Retry, registry, rec, logger),
		genExec: reliability.NewExecutor(fallback.ServiceGeneration,
			cfg.Reliability.Generation.Breaker, cfg.Reliability.Generation.Retry, registry, rec, logger),
		memory: memory.New(&reliableCompressor{
			exec:      compressExec,
			generator: generator,
		}, cfg.Memory.MaxTurns),
		store:          store,
		logger:         logger,
		resultsPerCall: cfg.Search.ResultsPerCall,
	}
	return o
}

// PlanTrip runs one request through the pipeline. Only request validation
// failures propagate to the caller; everything downstream is absorbed into
// the returned plan and its review flag.
func (o *Orchestrator) PlanTrip(ctx context.Context, req itinerary.TravelRequest) (Result, error) {
	requestID := uuid.NewString()
	o.logger.Trace(requestID, "trip_planning_started", map[string]any{
		"destination": req.Destination,
		"days":        req.Days,
		"budget":      fmt.Sprintf("%.2f %s", req.BudgetAmount, req.BudgetCurrency),
	})

	if err := req.Validate(); err != nil {
		o.logger.Trace(requestID, "trip_planning_failed", map[string]any{"error": err.Error()})
		return Result{}, err
	}

	results := o.runSearch(ctx, requestID, req)
	o.logger.Trace(requestID, "search_phase_completed", map[string]any{"results": len(results)})

	plan := o.synthesize(ctx, requestID, req, results)
	o.logger.Trace(requestID, "synthesis_completed", map[string]any{
		"items": len(plan.Items),
		"total": fmt.Sprintf("%.2f %s", plan.TotalEstimatedCost, plan.Currency),
	})

	validation := ValidatePlan(plan, req)
	needsReview := validation.NeedsReview()
	o.logger.Trace(requestID, "validation_completed", map[string]any{
		"needs_review":   needsReview,
		"over_budget":    validation.OverBudget,
		"low_confidence": validation.LowConfidence,
		"day_gap":        validation.DayGap,
	})

	if o.store != nil {
		if err := o.store.SavePlan(ctx, requestID, plan, needsReview); err != nil {
			o.logger.Warn("failed to persist plan %s: %v", requestID, err)
		}
	}

	o.memory.AddTurn(ctx,
		fmt.Sprintf("Plan a %d-day trip to %s with budget %.2f %s", req.Days, req.Destination, req.BudgetAmount, req.BudgetCurrency),
		fmt.Sprintf("Created a %d-day itinerary for %s with %d activities, total %.2f %s",
			plan.Days, plan.Destination, len(plan.Items), plan.TotalEstimatedCost, plan.Currency))

	o.logger.Trace(requestID, "trip_planning_completed", map[string]any{"needs_review": needsReview})
	return Result{
		RequestID:   requestID,
		Plan:        plan,
		Validation:  validation,
		NeedsReview: needsReview,
	}, nil
}

// synthesize asks the generator for a plan through the reliability stack.
// If the registered generation fallback is missing or itself fails, the
// offline plan is built directly; this stage never fails.
func (o *Orchestrator) synthesize(ctx context.Context, requestID string, req itinerary.TravelRequest, results []itinerary.SearchResult) itinerary.Plan {
	genReq := gen.Request{
		Destination:    req.Destination,
		Days:           req.Days,
		BudgetAmount:   req.BudgetAmount,
		BudgetCurrency: req.BudgetCurrency,
		SearchResults:  results,
		Context:        o.memory.Context(),
	}

	plan, err := reliability.Do(ctx, o.genExec, func(ctx context.Context, r gen.Request) (itinerary.Plan, error) {
		return o.generator.GenerateItinerary(ctx, r)
	}, genReq)
	if err != nil {
		o.logger.Trace(requestID, "synthesis_fallback", map[string]any{"error": err.Error()})
		return buildOfflinePlan(req)
	}
	return plan
}

// Memory exposes the session memory, mainly for inspection.
func (o *Orchestrator) Memory() *memory.ConversationMemory {
	return o.memory
}

// reliableCompressor wraps the generator's compression call in the
// compression service's reliability stack.
type reliableCompressor struct {
	exec      *reliability.Executor
	generator *gen.Generator
}

func (c *reliableCompressor) Compress(ctx context.Context, history string) (string, error) {
	return reliability.Do(ctx, c.exec, func(ctx context.Context, h string) (string, error) {
		return c.generator.Compress(ctx, h)
	}, history)
}
