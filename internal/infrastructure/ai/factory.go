package ai

import (
	"net/http"
	"strings"
	"time"

	"github.com/doeshing/nlsh/internal/domain"
)

type providerKind string

const (
	providerKindAnthropic providerKind = "anthropic"
	providerKindOpenAI    providerKind = "openai"
	providerKindOllama    providerKind = "ollama"
	providerKindHeuristic providerKind = "heuristic"
)

// Factory builds providers from model definitions, sharing one HTTP client.
type Factory struct {
	httpClient *http.Client
}

func NewFactory() *Factory {
	return &Factory{
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// ForModel resolves the provider kind from the endpoint and model name.
// Unknown endpoints fall back to the offline heuristic provider, so a
// missing or misconfigured model never prevents the assistant from
// answering.
func (f *Factory) ForModel(model domain.ModelDefinition) provider {
	switch inferProviderKind(model.Endpoint, model.Name) {
	case providerKindAnthropic:
		return newHTTPProvider("anthropic", model, f.httpClient, anthropicAdapter())
	case providerKindOpenAI:
		return newHTTPProvider("openai", model, f.httpClient, openaiAdapter())
	case providerKindOllama:
		return newHTTPProvider("ollama", model, f.httpClient, ollamaAdapter())
	default:
		return newHeuristicProvider(model)
	}
}

func inferProviderKind(endpoint string, name string) providerKind {
	nameLower := strings.ToLower(name)

	switch {
	case strings.Contains(endpoint, "anthropic.com"):
		return providerKindAnthropic
	case strings.Contains(endpoint, "openai.com"):
		return providerKindOpenAI
	case strings.Contains(nameLower, "ollama"), strings.Contains(endpoint, "11434"), strings.Contains(endpoint, "localhost"):
		return providerKindOllama
	default:
		return providerKindHeuristic
	}
}
