// Package config provides configuration loading and validation for the
// planner. Settings come from an optional YAML file layered over defaults;
// credentials come from the environment only and are never written to disk.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"tripplanner/pkg/reliability/circuit"
	"tripplanner/pkg/reliability/retry"
	"tripplanner/pkg/svcerrors"
)

// Provider identifiers for generation model selection.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderOllama    = "ollama"
)

// ServiceConfig bundles the reliability settings for one external service.
type ServiceConfig struct {
	Breaker circuit.Config `yaml:"breaker"`
	Retry   retry.Config   `yaml:"retry"`
}

// GenerationConfig selects and tunes the text-generation provider.
type GenerationConfig struct {
	Model      string `yaml:"model"`
	OllamaHost string `yaml:"ollama_host"`
	MaxTokens  int    `yaml:"max_tokens"`
}

// SearchConfig tunes the search adapter.
type SearchConfig struct {
	BaseURL        string `yaml:"base_url"`
	ResultsPerCall int    `yaml:"results_per_call"`
}

// MemoryConfig tunes conversation memory.
type MemoryConfig struct {
	MaxTurns int `yaml:"max_turns"`
}

// StorageConfig tunes the plan store. An empty path disables persistence.
type StorageConfig struct {
	DBPath string `yaml:"db_path"`
}

// Config is the full planner configuration.
type Config struct {
	Generation  GenerationConfig `yaml:"generation"`
	Search      SearchConfig     `yaml:"search"`
	Memory      MemoryConfig     `yaml:"memory"`
	Storage     StorageConfig    `yaml:"storage"`
	Reliability struct {
		Search      ServiceConfig `yaml:"search"`
		Generation  ServiceConfig `yaml:"generation"`
		Compression ServiceConfig `yaml:"compression"`
	} `yaml:"reliability"`

	// Credentials, environment-only.
	OpenAIKey    string `yaml:"-"`
	AnthropicKey string `yaml:"-"`
	SerperKey    string `yaml:"-"`
}

// Default returns the configuration used when no file overrides it.
func Default() Config {
	var cfg Config
	cfg.Generation = GenerationConfig{
		Model:      "gpt-4o-mini",
		OllamaHost: "http://localhost:11434",
		MaxTokens:  4096,
	}
	cfg.Search = SearchConfig{ResultsPerCall: 5}
	cfg.Memory = MemoryConfig{MaxTurns: 8}

	cfg.Reliability.Search = ServiceConfig{
		Breaker: circuit.DefaultConfig,
		Retry: retry.Config{
			MaxAttempts:    3,
			AttemptTimeout: 5 * time.Second,
			InitialDelay:   1 * time.Second,
			MaxDelay:       10 * time.Second,
			BackoffFactor:  2.0,
			JitterWindow:   100 * time.Millisecond,
		},
	}
	cfg.Reliability.Generation = ServiceConfig{
		Breaker: circuit.DefaultConfig,
		Retry: retry.Config{
			MaxAttempts:    3,
			AttemptTimeout: 30 * time.Second,
			InitialDelay:   1 * time.Second,
			MaxDelay:       10 * time.Second,
			BackoffFactor:  2.0,
			JitterWindow:   100 * time.Millisecond,
		},
	}
	cfg.Reliability.Compression = ServiceConfig{
		Breaker: circuit.DefaultConfig,
		Retry: retry.Config{
			MaxAttempts:    2,
			AttemptTimeout: 15 * time.Second,
			InitialDelay:   1 * time.Second,
			MaxDelay:       10 * time.Second,
			BackoffFactor:  2.0,
			JitterWindow:   100 * time.Millisecond,
		},
	}
	return cfg
}

// Load builds the configuration from defaults, an optional YAML file, and
// environment credentials, then validates it.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, svcerrors.Wrap(svcerrors.ErrorTypeConfig, "", fmt.Errorf("read config %s: %w", path, err))
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, svcerrors.Wrap(svcerrors.ErrorTypeConfig, "", fmt.Errorf("parse config %s: %w", path, err))
		}
	}

	cfg.OpenAIKey = os.Getenv("OPENAI_API_KEY")
	cfg.AnthropicKey = os.Getenv("ANTHROPIC_API_KEY")
	cfg.SerperKey = os.Getenv("SERPER_API_KEY")

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ProviderForModel infers the generation provider from the model name.
func ProviderForModel(model string) string {
	switch {
	case strings.HasPrefix(model, "claude"):
		return ProviderAnthropic
	case strings.HasPrefix(model, "gpt") || strings.HasPrefix(model, "o1") || strings.HasPrefix(model, "o3"):
		return ProviderOpenAI
	default:
		return ProviderOllama
	}
}

// Validate checks that the configuration is usable. A missing credential
// for the selected provider is fatal at startup.
func (c *Config) Validate() error {
	if c.Generation.Model == "" {
		return svcerrors.New(svcerrors.ErrorTypeConfig, "", "generation model cannot be empty")
	}
	if c.Memory.MaxTurns <= 0 {
		return svcerrors.New(svcerrors.ErrorTypeConfig, "", "memory max_turns must be positive")
	}

	switch ProviderForModel(c.Generation.Model) {
	case ProviderOpenAI:
		if c.OpenAIKey == "" {
			return svcerrors.New(svcerrors.ErrorTypeConfig, "", "OPENAI_API_KEY environment variable is required for model "+c.Generation.Model)
		}
	case ProviderAnthropic:
		if c.AnthropicKey == "" {
			return svcerrors.New(svcerrors.ErrorTypeConfig, "", "ANTHROPIC_API_KEY environment variable is required for model "+c.Generation.Model)
		}
	}

	if c.SerperKey == "" {
		return svcerrors.New(svcerrors.ErrorTypeConfig, "", "SERPER_API_KEY environment variable is required")
	}
	return nil
}
