// Package gen provides the text-generation adapter: prompt construction,
// structured-output decoding into itinerary plans, and conversation
// compression, all on top of a provider-neutral completion client.
package gen

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"tripplanner/pkg/itinerary"
	"tripplanner/pkg/llm"
	"tripplanner/pkg/logx"
	"tripplanner/pkg/svcerrors"
)

const createItineraryTool = "create_itinerary"

// Request carries everything synthesis needs to generate a plan.
type Request struct {
	Destination    string
	BudgetCurrency string
	Context        string
	SearchResults  []itinerary.SearchResult
	Days           int
	BudgetAmount   float64
}

// Generator is the text-generation adapter. It fails with a decode error
// when the provider's response cannot be decoded into the plan schema; the
// pipeline owns the fallback plan, not this layer.
type Generator struct {
	client    llm.CompletionClient
	logger    *logx.Logger
	maxTokens int
}

// New creates a generator on top of a completion client.
func New(client llm.CompletionClient, maxTokens int) *Generator {
	return &Generator{
		client:    client,
		logger:    logx.NewLogger("gen"),
		maxTokens: maxTokens,
	}
}

// GenerateItinerary produces a syntactically valid plan or fails. The
// returned plan's total is recomputed from its items, so the construction
// invariant holds regardless of what the provider claimed.
func (g *Generator) GenerateItinerary(ctx context.Context, req Request) (itinerary.Plan, error) {
	completion, err := g.client.Complete(ctx, llm.CompletionRequest{
		Messages: []llm.Message{
			llm.NewSystemMessage(systemPrompt(req)),
			llm.NewUserMessage(userPrompt(req)),
		},
		Tools:       []llm.ToolDefinition{itineraryToolDefinition()},
		ForceTool:   createItineraryTool,
		MaxTokens:   g.maxTokens,
		Temperature: 0.7,
	})
	if err != nil {
		return itinerary.Plan{}, err
	}

	plan, err := decodePlan(completion)
	if err != nil {
		return itinerary.Plan{}, err
	}

	plan.TotalEstimatedCost = plan.SumCosts()
	plan.UnderBudget = plan.TotalEstimatedCost <= req.BudgetAmount
	g.logger.Debug("generated %d activities for %s, total %.2f %s",
		len(plan.Items), plan.Destination, plan.TotalEstimatedCost, plan.Currency)
	return plan, nil
}

// Compress summarizes conversation history into a compact memo.
func (g *Generator) Compress(ctx context.Context, history string) (string, error) {
	completion, err := g.client.Complete(ctx, llm.CompletionRequest{
		Messages: []llm.Message{
			llm.NewSystemMessage("Summarize the following conversation into a compact memo that preserves key travel preferences, constraints, and decisions. Keep it under 200 words."),
			llm.NewUserMessage(history),
		},
		MaxTokens:   250,
		Temperature: 0.3,
	})
	if err != nil {
		return "", err
	}

	memo := strings.TrimSpace(completion.Content)
	if memo == "" {
		return "", svcerrors.New(svcerrors.ErrorTypeDecode, "compression", "empty summary from provider")
	}
	return memo, nil
}

func systemPrompt(req Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are a travel planning assistant. Create a detailed %d-day itinerary for %s with a budget of %.2f %s.\n\n",
		req.Days, req.Destination, req.BudgetAmount, req.BudgetCurrency)
	fmt.Fprintf(&b, "Requirements:\n")
	fmt.Fprintf(&b, "- Create activities for ALL %d days, 2-3 activities per day\n", req.Days)
	fmt.Fprintf(&b, "- Extract actual prices from the search results provided and use the result URLs as sources\n")
	fmt.Fprintf(&b, "- If a search snippet shows a price like \"AED 169\" or \"$45\", use that exact price\n")
	fmt.Fprintf(&b, "- Budget per day is approximately %.2f %s\n", req.BudgetAmount/float64(req.Days), req.BudgetCurrency)
	fmt.Fprintf(&b, "- Total cost must not exceed %.2f %s (5%% headroom)\n", req.BudgetAmount*1.05, req.BudgetCurrency)
	fmt.Fprintf(&b, "- Include a mix of paid and free activities on each day\n")
	fmt.Fprintf(&b, "\nRespond by calling the %s function.", createItineraryTool)
	return b.String()
}

func userPrompt(req Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Plan a %d-day trip to %s with budget %.2f %s.\n",
		req.Days, req.Destination, req.BudgetAmount, req.BudgetCurrency)

	if len(req.SearchResults) > 0 {
		b.WriteString("\nPricing information from search (use these exact prices and URLs):\n")
		for i, result := range req.SearchResults {
			fmt.Fprintf(&b, "%d. TITLE: %s\n   PRICE INFO: %s\n   SOURCE URL: %s\n", i+1, result.Title, result.Snippet, result.URL)
		}
	}

	if req.Context != "" {
		fmt.Fprintf(&b, "\nAdditional context: %s\n", req.Context)
	}
	return b.String()
}

func itineraryToolDefinition() llm.ToolDefinition {
	return llm.ToolDefinition{
		Name:        createItineraryTool,
		Description: "Create a structured travel itinerary",
		InputSchema: llm.InputSchema{
			Type: "object",
			Properties: map[string]llm.Property{
				"destination":          {Type: "string"},
				"days":                 {Type: "integer"},
				"total_estimated_cost": {Type: "number"},
				"currency":             {Type: "string"},
				"items": {
					Type: "array",
					Items: &llm.Property{
						Type: "object",
						Properties: map[string]llm.Property{
							"day":         {Type: "integer"},
							"activity":    {Type: "string"},
							"approx_cost": {Type: "number"},
							"currency":    {Type: "string"},
							"source":      {Type: "string", Description: "URL source if available"},
						},
						Required: []string{"day", "activity", "approx_cost", "currency"},
					},
				},
				"under_budget": {Type: "boolean"},
				"notes":        {Type: "string"},
			},
			Required: []string{"destination", "days", "total_estimated_cost", "currency", "items", "under_budget", "notes"},
		},
	}
}

// decodePlan extracts the plan payload from a completion. Providers with
// tool calling answer through the create_itinerary call; local models
// answer with a JSON body in the content.
func decodePlan(completion llm.CompletionResponse) (itinerary.Plan, error) {
	payload := ""
	for i := range completion.ToolCalls {
		if completion.ToolCalls[i].Name == createItineraryTool {
			payload = completion.ToolCalls[i].Arguments
			break
		}
	}
	if payload == "" {
		payload = extractJSONObject(completion.Content)
	}
	if payload == "" {
		return itinerary.Plan{}, svcerrors.New(svcerrors.ErrorTypeDecode, "generation", "provider response contains no itinerary payload")
	}

	var plan itinerary.Plan
	if err := json.Unmarshal([]byte(payload), &plan); err != nil {
		return itinerary.Plan{}, svcerrors.Wrap(svcerrors.ErrorTypeDecode, "generation", err)
	}

	if err := checkPlanShape(&plan); err != nil {
		return itinerary.Plan{}, err
	}
	return plan, nil
}

// checkPlanShape rejects structurally unusable plans. No partial or
// best-effort plan escapes this layer.
func checkPlanShape(plan *itinerary.Plan) error {
	if plan.Destination == "" || plan.Days < 1 || plan.Currency == "" {
		return svcerrors.New(svcerrors.ErrorTypeDecode, "generation", "plan is missing destination, days, or currency")
	}
	if len(plan.Items) == 0 {
		return svcerrors.New(svcerrors.ErrorTypeDecode, "generation", "plan has no items")
	}
	for i := range plan.Items {
		item := &plan.Items[i]
		if item.Day < 1 || item.Activity == "" || item.ApproxCost < 0 {
			return svcerrors.New(svcerrors.ErrorTypeDecode, "generation",
				fmt.Sprintf("plan item %d is malformed (day=%d, cost=%.2f)", i, item.Day, item.ApproxCost))
		}
	}
	return nil
}

// extractJSONObject returns the first balanced top-level JSON object in
// text, or empty. Local models often wrap JSON in prose or code fences.
func extractJSONObject(text string) string {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}
	return ""
}
