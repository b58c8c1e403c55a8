package itinerary

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripplanner/pkg/svcerrors"
)

func validRequest() TravelRequest {
	return TravelRequest{
		Destination:    "Dubai",
		Days:           3,
		BudgetAmount:   500,
		BudgetCurrency: "USD",
	}
}

func TestValidateAcceptsGoodRequest(t *testing.T) {
	req := validRequest()
	assert.NoError(t, req.Validate())
}

func TestValidateRejectsBadRequests(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*TravelRequest)
	}{
		{"empty destination", func(r *TravelRequest) { r.Destination = "" }},
		{"whitespace destination", func(r *TravelRequest) { r.Destination = "   " }},
		{"zero days", func(r *TravelRequest) { r.Days = 0 }},
		{"too many days", func(r *TravelRequest) { r.Days = 8 }},
		{"zero budget", func(r *TravelRequest) { r.BudgetAmount = 0 }},
		{"negative budget", func(r *TravelRequest) { r.BudgetAmount = -10 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)
			err := req.Validate()
			require.Error(t, err)
			assert.True(t, svcerrors.IsValidation(err))
		})
	}
}

func samplePlan() Plan {
	return Plan{
		Destination: "Dubai",
		Days:        2,
		Currency:    "USD",
		Items: []Item{
			{Day: 1, Activity: "Burj Khalifa", ApproxCost: 46, Currency: "USD", Source: "https://a.example"},
			{Day: 1, Activity: "Dubai Mall", ApproxCost: 0, Currency: "USD"},
			{Day: 2, Activity: "Desert safari", ApproxCost: 65, Currency: "USD", Source: "https://b.example"},
		},
		TotalEstimatedCost: 111,
		UnderBudget:        true,
	}
}

func TestCloneIsDeep(t *testing.T) {
	plan := samplePlan()
	clone := plan.Clone()

	clone.Items[0].ApproxCost = 999
	clone.Notes = "changed"

	assert.Equal(t, 46.0, plan.Items[0].ApproxCost, "mutating the clone must not touch the original")
	assert.Empty(t, plan.Notes)
}

func TestSumCosts(t *testing.T) {
	plan := samplePlan()
	assert.InDelta(t, 111.0, plan.SumCosts(), 0.001)
}

func TestCoveredDays(t *testing.T) {
	plan := samplePlan()
	covered := plan.CoveredDays()
	assert.Equal(t, map[int]bool{1: true, 2: true}, covered)
}

func TestDistinctSources(t *testing.T) {
	plan := samplePlan()
	assert.Equal(t, 2, plan.DistinctSources())

	plan.Items[2].Source = "https://a.example"
	assert.Equal(t, 1, plan.DistinctSources(), "duplicate URLs count once, empty sources not at all")
}

func TestTextReportGroupsByDay(t *testing.T) {
	plan := samplePlan()
	plan.Notes = "Check opening hours."

	report := plan.TextReport()
	assert.Contains(t, report, "Itinerary: Dubai (2 days)")
	assert.Contains(t, report, "Day 1")
	assert.Contains(t, report, "Day 2")
	assert.Contains(t, report, "Burj Khalifa")
	assert.Contains(t, report, "[https://a.example]")
	assert.Contains(t, report, "under budget")
	assert.Contains(t, report, "Notes: Check opening hours.")

	assert.Less(t, strings.Index(report, "Day 1"), strings.Index(report, "Day 2"))
}
