// Package openaiclient provides the OpenAI provider implementation using
// the official OpenAI Go package.
package openaiclient

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"

	"tripplanner/pkg/llm"
	"tripplanner/pkg/svcerrors"
)

// Client wraps the official OpenAI Go client to implement llm.CompletionClient.
type Client struct {
	client openai.Client
	model  string
}

// New creates a raw OpenAI client; reliability wrapping happens at the call
// site, not here.
func New(apiKey, model string) *Client {
	return &Client{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

// Complete implements llm.CompletionClient using the Responses API.
func (c *Client) Complete(ctx context.Context, in llm.CompletionRequest) (llm.CompletionResponse, error) {
	// The Responses API takes a single input string; fold the conversation
	// into one prompt with role prefixes.
	var inputText string
	for i := range in.Messages {
		msg := &in.Messages[i]
		switch msg.Role {
		case llm.RoleSystem:
			inputText += fmt.Sprintf("System: %s\n\n", msg.Content)
		case llm.RoleAssistant:
			inputText += fmt.Sprintf("Assistant: %s\n\n", msg.Content)
		default:
			inputText += msg.Content + "\n\n"
		}
	}

	params := responses.ResponseNewParams{
		Model: c.model,
		Input: responses.ResponseNewParamsInputUnion{OfString: openai.String(inputText)},
	}
	if in.MaxTokens > 0 {
		params.MaxOutputTokens = openai.Int(int64(in.MaxTokens))
	}

	if len(in.Tools) > 0 {
		tools := make([]responses.ToolUnionParam, len(in.Tools))
		for i := range in.Tools {
			tool := &in.Tools[i]
			properties := make(map[string]any)
			for name, prop := range tool.InputSchema.Properties {
				properties[name] = propertyToSchema(prop)
			}
			tools[i] = responses.ToolUnionParam{
				OfFunction: &responses.FunctionToolParam{
					Name:        tool.Name,
					Description: openai.String(tool.Description),
					Parameters: openai.FunctionParameters(map[string]any{
						"type":       "object",
						"properties": properties,
						"required":   tool.InputSchema.Required,
					}),
				},
			}
		}
		params.Tools = tools
	}

	resp, err := c.client.Responses.New(ctx, params)
	if err != nil {
		return llm.CompletionResponse{}, svcerrors.Wrap(svcerrors.ErrorTypeProvider, "generation", err)
	}
	if resp == nil {
		return llm.CompletionResponse{}, svcerrors.New(svcerrors.ErrorTypeProvider, "generation", "empty response from OpenAI")
	}

	var toolCalls []llm.ToolCall
	for i := range resp.Output {
		item := &resp.Output[i]
		if item.Type != "function_call" {
			continue
		}
		funcItem := item.AsFunctionCall()
		toolCalls = append(toolCalls, llm.ToolCall{
			ID:        funcItem.ID,
			Name:      funcItem.Name,
			Arguments: funcItem.Arguments,
		})
	}

	return llm.CompletionResponse{
		Content:   resp.OutputText(),
		ToolCalls: toolCalls,
	}, nil
}

// ModelName returns the model identifier this client talks to.
func (c *Client) ModelName() string {
	return c.model
}

func propertyToSchema(prop llm.Property) map[string]any {
	schema := map[string]any{
		"type": prop.Type,
	}
	if prop.Description != "" {
		schema["description"] = prop.Description
	}
	if len(prop.Enum) > 0 {
		schema["enum"] = prop.Enum
	}
	if prop.Type == "array" && prop.Items != nil {
		schema["items"] = propertyToSchema(*prop.Items)
	}
	if prop.Type == "object" && prop.Properties != nil {
		properties := make(map[string]any)
		for name, child := range prop.Properties {
			properties[name] = propertyToSchema(child)
		}
		schema["properties"] = properties
		if len(prop.Required) > 0 {
			schema["required"] = prop.Required
		}
	}
	return schema
}
