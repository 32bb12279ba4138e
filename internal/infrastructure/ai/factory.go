// Package ai contains the inference adapters: endpoint providers plus the
// classifier, synthesizer and responder built on top of them.
package ai

import (
	"net/http"
	"strings"

	"github.com/doeshing/voco/internal/domain"
	"github.com/doeshing/voco/internal/ports"
)

// Factory builds provider instances for configured model definitions.
type Factory struct {
	httpClient *http.Client
}

func NewFactory() *Factory {
	return &Factory{
		httpClient: &http.Client{Timeout: domain.DefaultRequestTimeout},
	}
}

// ForModel implements ports.ProviderFactory.
func (f *Factory) ForModel(model domain.ModelDefinition) (ports.Provider, error) {
	switch inferProviderKind(model) {
	case domain.ProviderKindOpenAI:
		return newOpenAIProvider(model), nil
	default:
		return newOllamaProvider(model, f.httpClient), nil
	}
}

// inferProviderKind picks the wire format from the endpoint shape. Local
// Ollama is the default; anything that looks like a hosted chat-completions
// endpoint goes through the OpenAI-compatible client.
func inferProviderKind(model domain.ModelDefinition) domain.ProviderKind {
	endpoint := model.Endpoint
	switch {
	case endpoint == "":
		return domain.ProviderKindOllama
	case strings.Contains(endpoint, "/api/generate"), strings.Contains(endpoint, "11434"):
		return domain.ProviderKindOllama
	default:
		return domain.ProviderKindOpenAI
	}
}

var _ ports.ProviderFactory = (*Factory)(nil)
