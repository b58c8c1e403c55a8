package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"tripplanner/pkg/itinerary"
	"tripplanner/pkg/svcerrors"
)

// DefaultBaseURL is the Serper search endpoint.
const DefaultBaseURL = "https://google.serper.dev/search"

// DefaultLimit is the per-query result cap when a query does not set one.
const DefaultLimit = 5

// SerperClient is a typed client for the Serper search API.
type SerperClient struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
}

// NewSerperClient creates a Serper-backed search provider. Timeouts are
// governed by the caller's context, not the HTTP client.
func NewSerperClient(apiKey, baseURL string) *SerperClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &SerperClient{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: &http.Client{},
	}
}

type serperRequest struct {
	Query string `json:"q"`
	Num   int    `json:"num"`
}

type serperResponse struct {
	Organic []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"organic"`
}

// Search implements the Provider interface.
func (c *SerperClient) Search(ctx context.Context, q Query) ([]itinerary.SearchResult, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	payload, err := json.Marshal(serperRequest{Query: q.Text, Num: limit})
	if err != nil {
		return nil, svcerrors.Wrap(svcerrors.ErrorTypeProvider, "search", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, svcerrors.Wrap(svcerrors.ErrorTypeProvider, "search", err)
	}
	req.Header.Set("X-API-KEY", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, svcerrors.Wrap(svcerrors.ErrorTypeProvider, "search", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, svcerrors.New(svcerrors.ErrorTypeProvider, "search",
			fmt.Sprintf("serper returned HTTP %d: %s", resp.StatusCode, string(body)))
	}

	var decoded serperResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, svcerrors.Wrap(svcerrors.ErrorTypeDecode, "search", err)
	}

	results := make([]itinerary.SearchResult, 0, limit)
	for _, organic := range decoded.Organic {
		if len(results) >= limit {
			break
		}
		results = append(results, itinerary.SearchResult{
			Title:   organic.Title,
			URL:     organic.Link,
			Snippet: organic.Snippet,
		})
	}

	return results, nil
}
