// Package anthropicclient provides the Anthropic Claude provider
// implementation for the llm.CompletionClient interface.
package anthropicclient

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"tripplanner/pkg/llm"
	"tripplanner/pkg/svcerrors"
)

const defaultMaxTokens = 4096

// Client wraps the Anthropic API client to implement llm.CompletionClient.
type Client struct {
	client anthropic.Client
	model  anthropic.Model
}

// New creates a raw Claude client; reliability wrapping happens at the call
// site, not here.
func New(apiKey, model string) *Client {
	return &Client{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  anthropic.Model(model),
	}
}

// Complete implements llm.CompletionClient using the Messages API.
func (c *Client) Complete(ctx context.Context, in llm.CompletionRequest) (llm.CompletionResponse, error) {
	// Anthropic takes system prompts as a top-level parameter and requires
	// the messages array to hold only user/assistant turns.
	var systemParts []string
	var messages []anthropic.MessageParam
	for i := range in.Messages {
		msg := &in.Messages[i]
		switch msg.Role {
		case llm.RoleSystem:
			systemParts = append(systemParts, msg.Content)
		case llm.RoleAssistant:
			messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
		default:
			messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		}
	}
	if len(messages) == 0 {
		return llm.CompletionResponse{}, svcerrors.New(svcerrors.ErrorTypeProvider, "generation", "no user messages in request")
	}

	maxTokens := int64(in.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	params := anthropic.MessageNewParams{
		Model:     c.model,
		Messages:  messages,
		MaxTokens: maxTokens,
	}
	if in.Temperature > 0 {
		params.Temperature = anthropic.Float(in.Temperature)
	}
	if len(systemParts) > 0 {
		params.System = []anthropic.TextBlockParam{{
			Text: strings.Join(systemParts, "\n\n"),
			Type: "text",
		}}
	}

	if len(in.Tools) > 0 {
		tools := make([]anthropic.ToolUnionParam, 0, len(in.Tools))
		for i := range in.Tools {
			tool := &in.Tools[i]
			properties := make(map[string]any)
			for name, prop := range tool.InputSchema.Properties {
				properties[name] = propertyToSchema(prop)
			}
			schema := anthropic.ToolInputSchemaParam{
				Type:       "object",
				Properties: properties,
				Required:   tool.InputSchema.Required,
			}
			tools = append(tools, anthropic.ToolUnionParamOfTool(schema, tool.Name))
		}
		params.Tools = tools

		if in.ForceTool != "" {
			// Force at least one tool call so structured output is guaranteed.
			params.ToolChoice = anthropic.ToolChoiceUnionParam{
				OfAny: &anthropic.ToolChoiceAnyParam{},
			}
		}
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return llm.CompletionResponse{}, svcerrors.Wrap(svcerrors.ErrorTypeProvider, "generation", err)
	}
	if resp == nil || len(resp.Content) == 0 {
		return llm.CompletionResponse{}, svcerrors.New(svcerrors.ErrorTypeProvider, "generation", "empty response from Claude")
	}

	var content string
	var toolCalls []llm.ToolCall
	for i := range resp.Content {
		block := &resp.Content[i]
		switch block.Type {
		case "text":
			content += block.AsText().Text
		case "tool_use":
			toolUse := block.AsToolUse()
			toolCalls = append(toolCalls, llm.ToolCall{
				ID:        toolUse.ID,
				Name:      toolUse.Name,
				Arguments: string(toolUse.Input),
			})
		}
	}

	return llm.CompletionResponse{
		Content:   content,
		ToolCalls: toolCalls,
	}, nil
}

// ModelName returns the model identifier this client talks to.
func (c *Client) ModelName() string {
	return string(c.model)
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
