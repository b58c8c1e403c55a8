package orchestrator

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"tripplanner/pkg/itinerary"
	"tripplanner/pkg/reliability"
	"tripplanner/pkg/search"
)

// maxSearchResults caps the merged result set passed to synthesis.
const maxSearchResults = 20

// priceIndicators are the substrings that mark a result as price-bearing.
// Scoring counts how many distinct indicators appear in title+snippet.
var priceIndicators = []string{
	"$", "€", "£", "aed", "usd", "eur", "gbp",
	"price", "cost", "ticket", "booking", "fee", "charge",
	"from", "starting at", "per person", "per night",
}

// searchQueries is the fixed battery of pricing-oriented queries issued
// for every request.
func searchQueries(req itinerary.TravelRequest) []string {
	return []string{
		fmt.Sprintf("%s hotel prices %s", req.Destination, req.BudgetCurrency),
		fmt.Sprintf("%s attraction tickets cost price", req.Destination),
		fmt.Sprintf("%s restaurant meal prices", req.Destination),
		fmt.Sprintf("%s activities cost booking price", req.Destination),
		fmt.Sprintf("%s top attractions ticket price cost", req.Destination),
		fmt.Sprintf("%s day tour price cost", req.Destination),
		fmt.Sprintf("%s museum entry fee price", req.Destination),
		fmt.Sprintf("%s transport taxi metro cost", req.Destination),
	}
}

// runSearch issues the query battery concurrently, each query independently
// protected, then merges deterministically in query order. One query's
// failure never aborts the others, and a query with zero results is not an
// error.
func (o *Orchestrator) runSearch(ctx context.Context, requestID string, req itinerary.TravelRequest) []itinerary.SearchResult {
	queries := searchQueries(req)
	perQuery := make([][]itinerary.SearchResult, len(queries))

	var wg sync.WaitGroup
	for i, text := range queries {
		wg.Add(1)
		go func(i int, text string) {
			defer wg.Done()
			results, err := reliability.Do(ctx, o.searchExec, func(ctx context.Context, q search.Query) ([]itinerary.SearchResult, error) {
				return o.provider.Search(ctx, q)
			}, search.Query{Text: text, Limit: o.resultsPerCall})
			if err != nil {
				o.logger.Debug("query %q yielded nothing: %v", text, err)
				return
			}
			perQuery[i] = results
		}(i, text)
	}
	wg.Wait()

	merged := mergeResults(perQuery)
	o.logger.Trace(requestID, "search_results_merged", map[string]any{
		"queries": len(queries),
		"kept":    len(merged),
	})
	return merged
}

// mergeResults flattens per-query results in query order, deduplicates by
// URL (first occurrence wins), sorts by descending price-indicator score
// with a stable sort so query order breaks ties, and truncates to the cap.
func mergeResults(perQuery [][]itinerary.SearchResult) []itinerary.SearchResult {
	seen := make(map[string]bool)
	var merged []itinerary.SearchResult
	for _, results := range perQuery {
		for _, r := range results {
			if r.URL != "" && seen[r.URL] {
				continue
			}
			seen[r.URL] = true
			merged = append(merged, r)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return scoreResult(merged[i]) > scoreResult(merged[j])
	})

	if len(merged) > maxSearchResults {
		merged = merged[:maxSearchResults]
	}
	return merged
}

func scoreResult(r itinerary.SearchResult) int {
	text := strings.ToLower(r.Title + " " + r.Snippet)
	score := 0
	for _, indicator := range priceIndicators {
		if strings.Contains(text, indicator) {
			score++
		}
	}
	return score
}
