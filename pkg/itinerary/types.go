// Package itinerary defines the travel planning domain types: the validated
// request, search results, and the itinerary plan produced by synthesis.
package itinerary

import (
	"strings"

	"tripplanner/pkg/svcerrors"
)

// Day count bounds accepted for a trip.
const (
	MinDays = 1
	MaxDays = 7
)

// TravelRequest describes one trip to plan. It is immutable once validated.
type TravelRequest struct {
	Destination    string  `json:"destination"`
	BudgetCurrency string  `json:"budget_currency"`
	Days           int     `json:"days"`
	BudgetAmount   float64 `json:"budget_amount"`
}

// Validate checks the request shape. Violations abort the whole planning
// request before any external call is made.
func (r *TravelRequest) Validate() error {
	if strings.TrimSpace(r.Destination) == "" {
		return svcerrors.Validationf("destination cannot be empty")
	}
	if r.Days < MinDays || r.Days > MaxDays {
		return svcerrors.Validationf("days must be between %d and %d, got %d", MinDays, MaxDays, r.Days)
	}
	if r.BudgetAmount <= 0 {
		return svcerrors.Validationf("budget amount must be positive, got %.2f", r.BudgetAmount)
	}
	return nil
}

// SearchResult is one entry returned by the search adapter. Consumed
// read-only by synthesis.
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// Item is one activity within a plan. Day must not exceed the owning plan's
// day count once the plan is valid.
type Item struct {
	Activity   string  `json:"activity"`
	Currency   string  `json:"currency"`
	Source     string  `json:"source,omitempty"`
	Day        int     `json:"day"`
	ApproxCost float64 `json:"approx_cost"`
}

// Plan is the produced itinerary. TotalEstimatedCost equals the sum of item
// costs at construction; callers that mutate the item set must recompute it.
type Plan struct {
	Destination        string  `json:"destination"`
	Currency           string  `json:"currency"`
	Notes              string  `json:"notes"`
	Items              []Item  `json:"items"`
	Days               int     `json:"days"`
	TotalEstimatedCost float64 `json:"total_estimated_cost"`
	UnderBudget        bool    `json:"under_budget"`
}

// Clone returns a deep copy of the plan. Review constructs a new plan from
// the old one instead of mutating in place, so callers holding the
// pre-review plan never observe partial updates.
func (p *Plan) Clone() Plan {
	out := *p
	out.Items = make([]Item, len(p.Items))
	copy(out.Items, p.Items)
	return out
}

// SumCosts returns the sum of all item costs.
func (p *Plan) SumCosts() float64 {
	var total float64
	for i := range p.Items {
		total += p.Items[i].ApproxCost
	}
	return total
}

// CoveredDays returns the set of days present in the plan's items.
func (p *Plan) CoveredDays() map[int]bool {
	days := make(map[int]bool, p.Days)
	for i := range p.Items {
		days[p.Items[i].Day] = true
	}
	return days
}

// DistinctSources returns the count of distinct non-empty source URLs across
// the plan's items.
func (p *Plan) DistinctSources() int {
	sources := make(map[string]bool)
	for i := range p.Items {
		if p.Items[i].Source != "" {
			sources[p.Items[i].Source] = true
		}
	}
	return len(sources)
}
