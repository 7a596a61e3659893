package llm

import (
	"sort"
	"strings"
)

const DefaultBaseURL = "https://openrouter.ai/api/v1"

// ModelConfig describes one registry entry: the API-facing model id plus
// default sampling parameters.
type ModelConfig struct {
	ModelID     string
	BaseURL     string
	MaxTokens   int
	Temperature float64
	Description string
}

// Models maps short model names to their OpenRouter configurations.
var Models = map[string]ModelConfig{
	"gpt-4o": {
		ModelID:     "gpt-4o",
		Description: "GPT-4o via OpenRouter",
	},
	"deepseek-chat": {
		ModelID:     "deepseek/deepseek-chat",
		Description: "DeepSeek Chat model",
	},
	"mistral-7b-v02": {
		ModelID:     "mistralai/mistral-7b-instruct-v0.2",
		Description: "Mistral 7B Instruct v0.2",
	},
	"llama-3-70b": {
		ModelID:     "meta-llama/llama-3.2-70b-instruct",
		Description: "Llama 3 70B Instruct",
	},
	"qwen-72b": {
		ModelID:     "qwen/qwen-72b-instruct",
		Description: "Qwen 72B Instruct",
	},
	"sonar-medium-online": {
		ModelID:     "perplexity/llama-3.1-sonar-medium-32k-online",
		Description: "Sonar Medium with online access",
	},
	"claude-3.5-sonnet": {
		ModelID:     "anthropic/claude-3.5-sonnet:beta",
		Description: "Claude 3.5 Sonnet (self-moderated)",
	},
	"claude-3.7-sonnet": {
		ModelID:     "anthropic/claude-3.7-sonnet:beta",
		Description: "Claude 3.7 Sonnet (latest version)",
	},
}

const (
	defaultMaxTokens   = 8192
	defaultTemperature = 0.2
)

// ModelNames returns the registry keys, sorted for stable help output.
func ModelNames() []string {
	names := make([]string, 0, len(Models))
	for name := range Models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UnknownModelError is raised before any I/O when the requested model name
// is not in the registry.
type UnknownModelError struct {
	Name string
}

func (e *UnknownModelError) Error() string {
	return "unknown model: " + e.Name + " (available: " + strings.Join(ModelNames(), ", ") + ")"
}
