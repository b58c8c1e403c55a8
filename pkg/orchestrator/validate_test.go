package orchestrator

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"tripplanner/pkg/itinerary"
)

// planWith builds an N-day plan with one item per day, costing total split
// evenly, with the given number of distinct sources.
func planWith(days int, total float64, sources int) itinerary.Plan {
	plan := itinerary.Plan{
		Destination: "Dubai",
		Days:        days,
		Currency:    "USD",
	}
	for day := 1; day <= days; day++ {
		item := itinerary.Item{
			Day:        day,
			Activity:   fmt.Sprintf("Activity %d", day),
			ApproxCost: total / float64(days),
			Currency:   "USD",
		}
		if day <= sources {
			item.Source = fmt.Sprintf("https://source-%d.example", day)
		}
		plan.Items = append(plan.Items, item)
	}
	plan.TotalEstimatedCost = plan.SumCosts()
	return plan
}

func budgetRequest(days int, budget float64) itinerary.TravelRequest {
	return itinerary.TravelRequest{
		Destination:    "Dubai",
		Days:           days,
		BudgetAmount:   budget,
		BudgetCurrency: "USD",
	}
}

func TestValidatePlanCleanPlanPasses(t *testing.T) {
	v := ValidatePlan(planWith(3, 90, 2), budgetRequest(3, 100))
	assert.False(t, v.NeedsReview())
	assert.Empty(t, v.Issues)
}

func TestValidatePlanBudgetBoundary(t *testing.T) {
	atHeadroom := ValidatePlan(planWith(3, 105.00, 2), budgetRequest(3, 100))
	assert.False(t, atHeadroom.OverBudget, "exactly 105 percent of budget is still acceptable")

	overHeadroom := ValidatePlan(planWith(3, 105.01, 2), budgetRequest(3, 100))
	assert.True(t, overHeadroom.OverBudget, "a cent past the headroom flags review")
	assert.True(t, overHeadroom.NeedsReview())
}

func TestValidatePlanLowConfidence(t *testing.T) {
	v := ValidatePlan(planWith(3, 90, 1), budgetRequest(3, 100))
	assert.True(t, v.LowConfidence)
	assert.True(t, v.NeedsReview())

	v = ValidatePlan(planWith(3, 90, 0), budgetRequest(3, 100))
	assert.True(t, v.LowConfidence)
}

func TestValidatePlanDayGapMissingDay(t *testing.T) {
	plan := planWith(3, 90, 2)
	plan.Items = plan.Items[:2] // drop day 3
	plan.TotalEstimatedCost = plan.SumCosts()

	v := ValidatePlan(plan, budgetRequest(3, 100))
	assert.True(t, v.DayGap)
	assert.True(t, v.NeedsReview())
}

func TestValidatePlanDayGapUnexpectedDay(t *testing.T) {
	plan := planWith(3, 90, 2)
	plan.Items = append(plan.Items, itinerary.Item{
		Day: 5, Activity: "Stray activity", ApproxCost: 0, Currency: "USD",
	})

	v := ValidatePlan(plan, budgetRequest(3, 100))
	assert.True(t, v.DayGap, "a day outside 1..N is a coverage mismatch even with all days present")
}

func TestValidatePlanAllChecksAlwaysComputed(t *testing.T) {
	plan := planWith(2, 300, 0)
	plan.Items = plan.Items[:1]
	plan.TotalEstimatedCost = plan.SumCosts() // 150, still over 1.05*100

	v := ValidatePlan(plan, budgetRequest(2, 100))
	assert.True(t, v.OverBudget)
	assert.True(t, v.LowConfidence)
	assert.True(t, v.DayGap)
	assert.Len(t, v.Issues, 3, "each failed check records its own diagnostic")
}

func TestValidatePlanConvertsCurrencyForBudgetCheck(t *testing.T) {
	plan := planWith(2, 367, 2)
	plan.Currency = "AED"

	// 367 AED is 100 USD, well within a 200 USD budget.
	v := ValidatePlan(plan, budgetRequest(2, 200))
	assert.False(t, v.OverBudget)

	v = ValidatePlan(plan, budgetRequest(2, 90))
	assert.True(t, v.OverBudget)
}

func TestValidatePlanDoesNotMutatePlan(t *testing.T) {
	plan := planWith(3, 90, 2)
	before := plan.Clone()

	_ = ValidatePlan(plan, budgetRequest(3, 100))
	assert.Equal(t, before, plan)
}
