package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const (
	defaultOpenAIModel     = "gpt-3.5-turbo"
	defaultOpenAIMaxTokens = 800
	defaultOpenAITimeout   = 60 * time.Second
)

// OpenAIProvider implements Provider on the official OpenAI SDK.
type OpenAIProvider struct {
	client     openai.Client
	model      string
	maxTokens  int
	baseURL    string
	httpClient *http.Client
}

// OpenAIOption configures an OpenAIProvider.
type OpenAIOption func(*OpenAIProvider)

// WithBaseURL points the provider at an OpenAI-compatible endpoint.
func WithBaseURL(url string) OpenAIOption {
	return func(p *OpenAIProvider) {
		p.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) OpenAIOption {
	return func(p *OpenAIProvider) {
		p.httpClient = client
	}
}

// WithModel sets the default model used when a request names none.
func WithModel(model string) OpenAIOption {
	return func(p *OpenAIProvider) {
		if model != "" {
			p.model = model
		}
	}
}

// WithMaxTokens sets the default completion limit.
func WithMaxTokens(n int) OpenAIOption {
	return func(p *OpenAIProvider) {
		if n > 0 {
			p.maxTokens = n
		}
	}
}

// NewOpenAIProvider creates a provider for apiKey. The SDK's own retries are
// disabled: one request per call.
func NewOpenAIProvider(apiKey string, opts ...OpenAIOption) *OpenAIProvider {
	p := &OpenAIProvider{
		model:      defaultOpenAIModel,
		maxTokens:  defaultOpenAIMaxTokens,
		httpClient: &http.Client{Timeout: defaultOpenAITimeout},
	}
	for _, opt := range opts {
		opt(p)
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(p.httpClient),
		option.WithMaxRetries(0),
	}
	if p.baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(p.baseURL))
	}
	p.client = openai.NewClient(reqOpts...)
	return p
}

func (p *OpenAIProvider) Name() string {
	return "openai"
}

func (p *OpenAIProvider) Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error) {
	return chatCompletion(ctx, &p.client, p.Name(), p.model, p.maxTokens, req)
}

// chatCompletion sends req to an OpenAI-compatible chat endpoint, filling in
// model and maxTokens when the request leaves them unset.
func chatCompletion(ctx context.Context, client *openai.Client, provider, model string, maxTokens int, req CompletionRequest) (CompletionResponse, error) {
	if req.Model != "" {
		model = req.Model
	}
	if req.MaxTokens > 0 {
		maxTokens = req.MaxTokens
	}

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages))
	for _, m := range req.Messages {
		switch m.Role {
		case "system":
			messages = append(messages, openai.SystemMessage(m.Content))
		case "assistant":
			messages = append(messages, openai.AssistantMessage(m.Content))
		default:
			messages = append(messages, openai.UserMessage(m.Content))
		}
	}

	params := openai.ChatCompletionNewParams{
		Model:     openai.ChatModel(model),
		Messages:  messages,
		MaxTokens: openai.Int(int64(maxTokens)),
	}
	if req.Temperature > 0 {
		params.Temperature = openai.Float(req.Temperature)
	}

	resp, err := client.Chat.Completions.New(ctx, params)
	if err != nil {
		return CompletionResponse{}, mapAPIError(provider, err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return CompletionResponse{}, ErrEmptyResponse
	}

	return CompletionResponse{
		Content:      resp.Choices[0].Message.Content,
		Model:        resp.Model,
		InputTokens:  int(resp.Usage.PromptTokens),
		OutputTokens: int(resp.Usage.CompletionTokens),
	}, nil
}

func (p *OpenAIProvider) HealthCheck(ctx context.Context) error {
	if _, err := p.client.Models.List(ctx); err != nil {
		return fmt.Errorf("health check failed: %w", mapAPIError(p.Name(), err))
	}
	return nil
}

func mapAPIError(provider string, err error) error {
	var apiErr *openai.Error
	if !errors.As(err, &apiErr) {
		return fmt.Errorf("%s request: %w", provider, err)
	}

	switch {
	case apiErr.Code == "insufficient_quota" || strings.Contains(apiErr.Error(), "insufficient_quota"):
		return fmt.Errorf("%w: %s", ErrQuotaExceeded, apiErr.Message)
	case apiErr.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", ErrRateLimited, apiErr.Message)
	case apiErr.Message != "":
		return fmt.Errorf("%s api error (status %d): %s", provider, apiErr.StatusCode, apiErr.Message)
	default:
		return fmt.Errorf("%s api error (status %d)", provider, apiErr.StatusCode)
	}
}
