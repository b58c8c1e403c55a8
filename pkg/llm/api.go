// Package llm provides the interface and types for text-generation provider
// clients. Provider implementations live in subpackages; the itinerary
// prompting and decoding on top of them lives in pkg/gen.
package llm

import (
	"context"
)

// Role represents the role of a message in a conversation.
type Role string

const (
	// RoleSystem indicates a system message that provides instructions.
	RoleSystem Role = "system"
	// RoleUser indicates a message from the human user.
	RoleUser Role = "user"
	// RoleAssistant indicates a message from the model.
	RoleAssistant Role = "assistant"
)

// Message represents a message in a completion request.
type Message struct {
	Role    Role
	Content string
}

// Property describes one field of a tool's input schema.
type Property struct {
	Items       *Property           `json:"items,omitempty"`
	Properties  map[string]Property `json:"properties,omitempty"`
	Type        string              `json:"type"`
	Description string              `json:"description,omitempty"`
	Enum        []string            `json:"enum,omitempty"`
	Required    []string            `json:"required,omitempty"`
}

// InputSchema is the JSON-schema shaped parameter block of a tool.
type InputSchema struct {
	Properties map[string]Property `json:"properties"`
	Type       string              `json:"type"`
	Required   []string            `json:"required"`
}

// ToolDefinition describes a function the model can call. Used to force
// structured output from providers that support tool calling.
type ToolDefinition struct {
	InputSchema InputSchema
	Name        string
	Description string
}

// ToolCall represents a tool invocation returned by the model. Arguments is
// the raw JSON payload; decoding it against the expected schema is the
// caller's job.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string
}

// CompletionRequest represents a request to generate a completion.
type CompletionRequest struct {
	Messages    []Message
	Tools       []ToolDefinition
	ForceTool   string // When set, the provider must call this tool
	MaxTokens   int
	Temperature float64
}

// CompletionResponse represents a response from a completion request.
type CompletionResponse struct {
	Content   string
	ToolCalls []ToolCall
}

// CompletionClient is the narrow contract a generation provider implements.
type CompletionClient interface {
	// Complete generates a completion synchronously.
	Complete(ctx context.Context, in CompletionRequest) (CompletionResponse, error)

	// ModelName returns the model identifier this client talks to.
	ModelName() string
}

// NewSystemMessage creates a new system message.
func NewSystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// NewUserMessage creates a new user message.
func NewUserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}
