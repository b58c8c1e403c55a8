package orchestrator

import (
	"fmt"

	"tripplanner/pkg/currency"
	"tripplanner/pkg/itinerary"
)

// budgetHeadroom is the tolerated overshoot before the budget check flags
// review: total may reach 105% of the requested budget.
const budgetHeadroom = 1.05

// minDistinctSources is the source-confidence floor; fewer distinct source
// URLs than this flags review.
const minDistinctSources = 2

// Validation is the outcome of the plan validation stage. All three checks
// always run; their individual results are kept for diagnostics even when
// one alone would flag review.
type Validation struct {
	Issues        []string
	OverBudget    bool
	LowConfidence bool
	DayGap        bool
}

// NeedsReview reports whether any check flagged the plan.
func (v *Validation) NeedsReview() bool {
	return v.OverBudget || v.LowConfidence || v.DayGap
}

// ValidatePlan runs the three independent review checks against a plan.
// It never mutates the plan.
func ValidatePlan(plan itinerary.Plan, req itinerary.TravelRequest) Validation {
	var v Validation

	total := plan.TotalEstimatedCost
	if plan.Currency != req.BudgetCurrency {
		total, _ = currency.Convert(total, plan.Currency, req.BudgetCurrency)
	}
	if total > req.BudgetAmount*budgetHeadroom {
		v.OverBudget = true
		v.Issues = append(v.Issues, fmt.Sprintf(
			"total %.2f %s exceeds budget %.2f %s with 5%% headroom",
			total, req.BudgetCurrency, req.BudgetAmount, req.BudgetCurrency))
	}

	if sources := plan.DistinctSources(); sources < minDistinctSources {
		v.LowConfidence = true
		v.Issues = append(v.Issues, fmt.Sprintf(
			"only %d distinct price sources (want at least %d)", sources, minDistinctSources))
	}

	covered := plan.CoveredDays()
	gap := len(covered) != req.Days
	for day := 1; day <= req.Days; day++ {
		if !covered[day] {
			gap = true
			break
		}
	}
	if gap {
		v.DayGap = true
		v.Issues = append(v.Issues, fmt.Sprintf(
			"item days do not cover 1..%d exactly", req.Days))
	}

	return v
}
