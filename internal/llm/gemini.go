package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.5-flash"

// GeminiClient generates content through the Gemini API.
type GeminiClient struct {
	apiKey  string
	model   string
	baseURL string

	once    sync.Once
	client  *genai.Client
	initErr error
}

// NewGeminiClient returns a client; the underlying SDK client is created on first use.
func NewGeminiClient(apiKey, model, baseURL string) *GeminiClient {
	if model == "" {
		model = defaultGeminiModel
	}
	return &GeminiClient{apiKey: apiKey, model: model, baseURL: baseURL}
}

func (c *GeminiClient) sdk(ctx context.Context) (*genai.Client, error) {
	c.once.Do(func() {
		cfg := &genai.ClientConfig{
			APIKey:  c.apiKey,
			Backend: genai.BackendGeminiAPI,
		}
		if c.baseURL != "" {
			cfg.HTTPOptions = genai.HTTPOptions{BaseURL: c.baseURL}
		}
		c.client, c.initErr = genai.NewClient(ctx, cfg)
	})
	return c.client, c.initErr
}

// GenerateContent sends the prompt and returns the reply text.
func (c *GeminiClient) GenerateContent(ctx context.Context, prompt Prompt) (ContentResponse, error) {
	if c.apiKey == "" {
		return ContentResponse{}, ErrMissingAPIKey
	}
	client, err := c.sdk(ctx)
	if err != nil {
		return ContentResponse{}, fmt.Errorf("create genai client: %w", err)
	}

	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(prompt.Temperature)),
		MaxOutputTokens: int32(maxTokens(prompt)),
	}
	if prompt.System != "" {
		config.SystemInstruction = genai.NewContentFromText(prompt.System, genai.RoleUser)
	}
	if prompt.JSON {
		config.ResponseMIMEType = "application/json"
	}

	resp, err := client.Models.GenerateContent(ctx, c.model, genai.Text(prompt.User), config)
	if err != nil {
		if ctx.Err() != nil {
			return ContentResponse{}, ctx.Err()
		}
		if apiErr, ok := asGeminiAPIError(err); ok {
			return ContentResponse{}, &APIError{Provider: "gemini", StatusCode: apiErr.Code, Body: apiErr.Message}
		}
		return ContentResponse{}, fmt.Errorf("%w: gemini generate: %w", ErrNetwork, err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return ContentResponse{}, ErrEmptyResponse
	}

	out := ContentResponse{Content: text, Usage: TokenUsage{Model: c.model}}
	if resp.UsageMetadata != nil {
		out.Usage.PromptTokens = int(resp.UsageMetadata.PromptTokenCount)
		out.Usage.CompletionTokens = int(resp.UsageMetadata.CandidatesTokenCount)
		out.Usage.TotalTokens = int(resp.UsageMetadata.TotalTokenCount)
	}
	return out, nil
}

// asGeminiAPIError unwraps the SDK's status error, which it returns by value.
func asGeminiAPIError(err error) (genai.APIError, bool) {
	var byValue genai.APIError
	if errors.As(err, &byValue) {
		return byValue, true
	}
	var byPointer *genai.APIError
	if errors.As(err, &byPointer) && byPointer != nil {
		return *byPointer, true
	}
	return genai.APIError{}, false
}
