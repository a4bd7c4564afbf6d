package factory

import (
	"fmt"

	"sitebuilder-be/pkg/generation"
	"sitebuilder-be/pkg/generation/ollama"
	"sitebuilder-be/pkg/generation/openai"
)

func NewProvider(providerType, modelName, ollamaBaseURL, openAIBaseURL, openAIKey string) (generation.Provider, error) {
	switch providerType {
	case "ollama":
		if ollamaBaseURL == "" {
			ollamaBaseURL = "http://localhost:11434"
		}
		return ollama.NewOllamaProvider(ollamaBaseURL, modelName), nil
	case "openai":
		if openAIKey == "" {
			return nil, fmt.Errorf("openai provider requires an API key")
		}
		return openai.NewOpenAIProvider(openAIBaseURL, openAIKey, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported generation provider: %s", providerType)
	}
}
