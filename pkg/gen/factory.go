package gen

import (
	"tripplanner/pkg/config"
	"tripplanner/pkg/llm"
	"tripplanner/pkg/llm/anthropicclient"
	"tripplanner/pkg/llm/ollamaclient"
	"tripplanner/pkg/llm/openaiclient"
	"tripplanner/pkg/svcerrors"
)

// NewClient builds the completion client for the configured model. The
// provider is inferred from the model name; credentials were already
// validated at config load time.
func NewClient(cfg config.Config) (llm.CompletionClient, error) {
	model := cfg.Generation.Model
	switch config.ProviderForModel(model) {
	case config.ProviderAnthropic:
		if cfg.AnthropicKey == "" {
			return nil, svcerrors.New(svcerrors.ErrorTypeConfig, "generation", "anthropic API key is not set")
		}
		return anthropicclient.New(cfg.AnthropicKey, model), nil
	case config.ProviderOpenAI:
		if cfg.OpenAIKey == "" {
			return nil, svcerrors.New(svcerrors.ErrorTypeConfig, "generation", "openai API key is not set")
		}
		return openaiclient.New(cfg.OpenAIKey, model), nil
	default:
		return ollamaclient.New(cfg.Generation.OllamaHost, model), nil
	}
}
