package ai

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const (
	defaultOllamaModel = "llama3:8b"
	// Ollama ignores the key, but the SDK always sends one.
	ollamaAPIKey = "ollama"
)

// OllamaProvider implements Provider for self-hosted Ollama through its
// OpenAI-compatible /v1 API.
type OllamaProvider struct {
	client     openai.Client
	baseURL    string
	model      string
	maxTokens  int
	httpClient *http.Client
}

// OllamaOption configures an OllamaProvider.
type OllamaOption func(*OllamaProvider)

// WithOllamaHTTPClient sets a custom HTTP client.
func WithOllamaHTTPClient(client *http.Client) OllamaOption {
	return func(p *OllamaProvider) {
		p.httpClient = client
	}
}

// WithOllamaModel sets the default model.
func WithOllamaModel(model string) OllamaOption {
	return func(p *OllamaProvider) {
		if model != "" {
			p.model = model
		}
	}
}

// WithOllamaMaxTokens sets the default completion limit.
func WithOllamaMaxTokens(n int) OllamaOption {
	return func(p *OllamaProvider) {
		if n > 0 {
			p.maxTokens = n
		}
	}
}

// NewOllamaProvider creates a provider for the Ollama server at baseURL,
// e.g. http://localhost:11434. Retries are disabled.
func NewOllamaProvider(baseURL string, opts ...OllamaOption) *OllamaProvider {
	p := &OllamaProvider{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      defaultOllamaModel,
		maxTokens:  defaultOpenAIMaxTokens,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(p)
	}

	p.client = openai.NewClient(
		option.WithBaseURL(p.baseURL+"/v1/"),
		option.WithAPIKey(ollamaAPIKey),
		option.WithHTTPClient(p.httpClient),
		option.WithMaxRetries(0),
	)
	return p
}

func (p *OllamaProvider) Name() string {
	return "ollama"
}

func (p *OllamaProvider) Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error) {
	return chatCompletion(ctx, &p.client, p.Name(), p.model, p.maxTokens, req)
}

// HealthCheck lists local models through Ollama's native API.
func (p *OllamaProvider) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/api/tags", nil)
	if err != nil {
		return err
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}
	return nil
}
