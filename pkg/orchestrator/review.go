package orchestrator

import (
	"context"
	"fmt"
	"math"
	"sort"

	"tripplanner/pkg/itinerary"
	"tripplanner/pkg/svcerrors"
)

// Supported review actions.
const (
	ActionApprove = "approve"
	ActionReduce  = "reduce"
)

// reduceFactor sets the cost-reduction target relative to the plan's
// current total. The target is 95% of the total as it stands when review
// runs, not of the originally requested budget.
const reduceFactor = 0.95

// Review applies a human review decision to a flagged plan and returns the
// updated plan; the input plan is never mutated. Unrecognized actions fail
// with a validation error rather than silently doing nothing. requestID is
// used for the persistence audit trail and may be empty.
func (o *Orchestrator) Review(ctx context.Context, requestID string, plan itinerary.Plan, action string) (itinerary.Plan, error) {
	var updated itinerary.Plan
	var note string
	switch action {
	case ActionApprove:
		updated = plan.Clone()
		note = "Approved by user despite review issues."
		updated.Notes = appendNote(updated.Notes, note)
	case ActionReduce:
		updated = ReducePlan(plan)
		note = fmt.Sprintf("Costs reduced from %.2f to %.2f %s.",
			plan.TotalEstimatedCost, updated.TotalEstimatedCost, updated.Currency)
	default:
		return itinerary.Plan{}, svcerrors.Validationf("unsupported review action %q, expected %q or %q", action, ActionApprove, ActionReduce)
	}

	o.logger.Trace(requestID, "review_applied", map[string]any{
		"action": action,
		"total":  updated.TotalEstimatedCost,
	})

	if o.store != nil && requestID != "" {
		if err := o.store.SaveReviewAction(ctx, requestID, action, note); err != nil {
			o.logger.Warn("failed to record review action for %s: %v", requestID, err)
		}
		if err := o.store.SavePlan(ctx, requestID, updated, false); err != nil {
			o.logger.Warn("failed to persist reviewed plan %s: %v", requestID, err)
		}
	}
	return updated, nil
}

// ReducePlan shrinks a plan's total cost toward 95% of its current value
// while keeping at least one activity on every originally covered day.
// Deterministic: the same input always yields the same output.
func ReducePlan(plan itinerary.Plan) itinerary.Plan {
	return reduceToTarget(plan, plan.TotalEstimatedCost*reduceFactor)
}

// reduceToTarget is the reduction pass with an explicit fixed target.
// Running it again on its own output with the same target changes nothing.
func reduceToTarget(plan itinerary.Plan, target float64) itinerary.Plan {
	reduced := plan.Clone()

	byDay := make(map[int][]itinerary.Item)
	var days []int
	for i := range reduced.Items {
		day := reduced.Items[i].Day
		if _, ok := byDay[day]; !ok {
			days = append(days, day)
		}
		byDay[day] = append(byDay[day], reduced.Items[i])
	}
	sort.Ints(days)

	// Keep the single cheapest item per covered day unconditionally, then
	// greedily re-add the rest (cheapest first) while the fixed target
	// still has room.
	var kept, pool []itinerary.Item
	var total float64
	for _, day := range days {
		items := byDay[day]
		cheapest := 0
		for i := 1; i < len(items); i++ {
			if items[i].ApproxCost < items[cheapest].ApproxCost {
				cheapest = i
			}
		}
		kept = append(kept, items[cheapest])
		total += items[cheapest].ApproxCost
		pool = append(pool, append(items[:cheapest:cheapest], items[cheapest+1:]...)...)
	}

	sort.SliceStable(pool, func(i, j int) bool {
		return pool[i].ApproxCost < pool[j].ApproxCost
	})
	for i := range pool {
		if total+pool[i].ApproxCost <= target {
			kept = append(kept, pool[i])
			total += pool[i].ApproxCost
		}
	}

	// Days that had no items at all get a zero-cost placeholder so the
	// reduced plan still covers every day it claims.
	covered := make(map[int]bool, len(kept))
	for i := range kept {
		covered[kept[i].Day] = true
	}
	for day := 1; day <= reduced.Days; day++ {
		if !covered[day] {
			kept = append(kept, itinerary.Item{
				Day:        day,
				Activity:   fmt.Sprintf("Explore %s - Day %d", reduced.Destination, day),
				ApproxCost: 0,
				Currency:   reduced.Currency,
			})
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].Day != kept[j].Day {
			return kept[i].Day < kept[j].Day
		}
		return kept[i].ApproxCost < kept[j].ApproxCost
	})

	reduced.Items = kept
	reduced.TotalEstimatedCost = math.Round(total*100) / 100
	reduced.UnderBudget = true
	reduced.Notes = appendNote(reduced.Notes, "Costs reduced during review.")
	return reduced
}

func appendNote(notes, note string) string {
	if notes == "" {
		return note
	}
	return notes + " " + note
}
