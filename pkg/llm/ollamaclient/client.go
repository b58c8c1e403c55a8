// Package ollamaclient provides a local-model provider implementation for
// the llm.CompletionClient interface, backed by an Ollama server.
package ollamaclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/ollama/ollama/api"

	"tripplanner/pkg/llm"
	"tripplanner/pkg/svcerrors"
)

// DefaultHostURL is the conventional local Ollama endpoint.
const DefaultHostURL = "http://localhost:11434"

// Client wraps the Ollama API client to implement llm.CompletionClient.
type Client struct {
	client *api.Client
	model  string
}

// New creates an Ollama client. hostURL falls back to the local default
// when empty or invalid.
func New(hostURL, model string) *Client {
	if hostURL == "" {
		hostURL = DefaultHostURL
	}
	parsed, err := url.Parse(hostURL)
	if err != nil {
		parsed, _ = url.Parse(DefaultHostURL)
	}
	return &Client{
		client: api.NewClient(parsed, http.DefaultClient),
		model:  model,
	}
}

// Complete implements llm.CompletionClient. Local models get no tool
// definitions; structured output is requested through the prompt and
// decoded from the response content.
func (c *Client) Complete(ctx context.Context, in llm.CompletionRequest) (llm.CompletionResponse, error) {
	messages := make([]api.Message, 0, len(in.Messages))
	for i := range in.Messages {
		messages = append(messages, api.Message{
			Role:    string(in.Messages[i].Role),
			Content: in.Messages[i].Content,
		})
	}

	stream := false
	req := &api.ChatRequest{
		Model:    c.model,
		Messages: messages,
		Stream:   &stream,
		Options: map[string]any{
			"temperature": in.Temperature,
		},
	}
	if in.MaxTokens > 0 {
		req.Options["num_predict"] = in.MaxTokens
	}

	var response api.ChatResponse
	err := c.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		response = resp
		return nil
	})
	if err != nil {
		return llm.CompletionResponse{}, svcerrors.Wrap(svcerrors.ErrorTypeProvider, "generation", err)
	}

	return llm.CompletionResponse{Content: response.Message.Content}, nil
}

// ModelName returns the model identifier this client talks to.
func (c *Client) ModelName() string {
	return c.model
}
