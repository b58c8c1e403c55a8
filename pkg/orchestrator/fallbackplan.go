package orchestrator

import (
	"context"
	"fmt"
	"math"

	"tripplanner/pkg/currency"
	"tripplanner/pkg/gen"
	"tripplanner/pkg/itinerary"
	"tripplanner/pkg/reliability/fallback"
	"tripplanner/pkg/search"
	"tripplanner/pkg/seeds"
)

// maxSeedItemsPerDay bounds how many offline activities a fallback plan
// takes per day; the overall cap of 2×days follows from it.
const maxSeedItemsPerDay = 2

// registerFallbacks installs the offline answers for the protected
// services. Fallbacks return fast from static data and never apply retry
// or circuit breaking themselves.
func registerFallbacks(reg *fallback.Registry) {
	fallback.Register(reg, fallback.ServiceSearch, seedSearch)
	fallback.Register(reg, fallback.ServiceGeneration,
		func(ctx context.Context, r gen.Request) (itinerary.Plan, error) {
			return buildOfflinePlan(itinerary.TravelRequest{
				Destination:    r.Destination,
				Days:           r.Days,
				BudgetAmount:   r.BudgetAmount,
				BudgetCurrency: r.BudgetCurrency,
			}), nil
		})
}

// seedSearch answers a failed search query from the offline seed data. An
// empty result set is a valid answer; this never fails.
func seedSearch(_ context.Context, q search.Query) ([]itinerary.SearchResult, error) {
	set, ok := seeds.Lookup(q.Text)
	if !ok {
		return nil, nil
	}

	limit := q.Limit
	if limit <= 0 {
		limit = search.DefaultLimit
	}

	results := make([]itinerary.SearchResult, 0, limit)
	for i := range set.Items {
		if len(results) >= limit {
			break
		}
		item := &set.Items[i]
		results = append(results, itinerary.SearchResult{
			Title:   item.Activity,
			URL:     item.Source,
			Snippet: fmt.Sprintf("Cost: %v %s", item.ApproxCost, set.Currency),
		})
	}
	return results, nil
}

// buildOfflinePlan produces the deterministic fallback plan for a request.
// With seed data for the destination it selects up to two activities per
// day, converting costs into the budget currency; without seed data it
// emits one zero-cost placeholder per day. Always structurally valid,
// never fails.
func buildOfflinePlan(req itinerary.TravelRequest) itinerary.Plan {
	set, ok := seeds.Lookup(req.Destination)
	if !ok {
		return placeholderPlan(req)
	}

	perDay := make(map[int]int, req.Days)
	converted := false
	var items []itinerary.Item
	var total float64
	for day := 1; day <= req.Days; day++ {
		for i := range set.Items {
			seed := &set.Items[i]
			if seed.Day != day || perDay[day] >= maxSeedItemsPerDay {
				continue
			}
			cost := seed.ApproxCost
			cur := set.Currency
			if cur != req.BudgetCurrency {
				if c, exact := currency.Convert(cost, cur, req.BudgetCurrency); exact {
					cost = c
					converted = true
				} else {
					cost = c
				}
				cur = req.BudgetCurrency
			}
			items = append(items, itinerary.Item{
				Day:        day,
				Activity:   seed.Activity,
				ApproxCost: cost,
				Currency:   cur,
				Source:     seed.Source,
			})
			total += cost
			perDay[day]++
		}
	}
	if len(items) == 0 {
		return placeholderPlan(req)
	}

	notes := set.Notes
	if converted {
		if rate, ok := currency.Rate(set.Currency, req.BudgetCurrency); ok {
			notes += fmt.Sprintf(" Costs converted from %s at a fixed rate of %.4f.", set.Currency, rate)
		}
	}

	total = math.Round(total*100) / 100
	return itinerary.Plan{
		Destination:        req.Destination,
		Days:               req.Days,
		Items:              items,
		Currency:           req.BudgetCurrency,
		TotalEstimatedCost: total,
		UnderBudget:        total <= req.BudgetAmount,
		Notes:              notes,
	}
}

// placeholderPlan is the last-resort plan: one free exploration item per
// day and an explicit note asking the user to search manually.
func placeholderPlan(req itinerary.TravelRequest) itinerary.Plan {
	items := make([]itinerary.Item, 0, req.Days)
	for day := 1; day <= req.Days; day++ {
		items = append(items, itinerary.Item{
			Day:        day,
			Activity:   fmt.Sprintf("Explore %s - Day %d", req.Destination, day),
			ApproxCost: 0,
			Currency:   req.BudgetCurrency,
		})
	}
	return itinerary.Plan{
		Destination:        req.Destination,
		Days:               req.Days,
		Items:              items,
		Currency:           req.BudgetCurrency,
		TotalEstimatedCost: 0,
		UnderBudget:        true,
		Notes:              fmt.Sprintf("No pricing data was available for %s; please search manually to refine this plan.", req.Destination),
	}
}
