package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/doeshing/voco/internal/domain"
	"github.com/doeshing/voco/internal/ports"
)

const defaultOllamaEndpoint = "http://localhost:11434/api/generate"

type ollamaProvider struct {
	model      domain.ModelDefinition
	httpClient *http.Client
}

func newOllamaProvider(model domain.ModelDefinition, client *http.Client) ports.Provider {
	return &ollamaProvider{
		model:      model,
		httpClient: client,
	}
}

func (o *ollamaProvider) Name() string {
	return "ollama"
}

func (o *ollamaProvider) Model() domain.ModelDefinition {
	return o.model
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	System string `json:"system,omitempty"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// Complete sends one non-streaming generate request to the local Ollama
// endpoint and returns the raw model text.
func (o *ollamaProvider) Complete(ctx context.Context, req ports.CompletionRequest) (string, error) {
	endpoint := valueOrDefault(o.model.Endpoint, defaultOllamaEndpoint)

	payload := generateRequest{
		Model:  o.model.ModelID,
		Prompt: req.Prompt,
		System: req.System,
		Stream: false,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("content-type", "application/json")

	resp, err := o.httpClient.Do(httpReq)
	if err != nil {
		return "", &domain.EndpointError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", &domain.EndpointError{Endpoint: endpoint, Err: fmt.Errorf("ollama: %s", resp.Status)}
	}

	var decoded generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", &domain.EndpointError{Endpoint: endpoint, Err: err}
	}
	return strings.TrimSpace(decoded.Response), nil
}

func valueOrDefault(value string, def string) string {
	if value == "" {
		return def
	}
	return value
}

var _ ports.Provider = (*ollamaProvider)(nil)
