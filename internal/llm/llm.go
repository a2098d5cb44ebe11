// Package llm talks to hosted language models and pulls JSON out of their replies.
package llm

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrMissingAPIKey is returned when a client is used without a configured key.
	ErrMissingAPIKey = errors.New("llm: missing api key")
	// ErrNetwork wraps transport failures talking to the provider.
	ErrNetwork = errors.New("llm: network failure")
	// ErrEmptyResponse is returned when the provider answers without text.
	ErrEmptyResponse = errors.New("llm: empty response")
	// ErrMalformedJSON is returned when no JSON document can be recovered from a reply.
	ErrMalformedJSON = errors.New("llm: malformed json")
)

// APIError carries a non-2xx provider response.
type APIError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s api error: status=%d body=%s", e.Provider, e.StatusCode, e.Body)
}

// Prompt is a single request to a model.
type Prompt struct {
	System      string
	User        string
	MaxTokens   int
	Temperature float64
	// JSON asks the provider for a JSON-only reply where it supports that.
	JSON bool
}

// TokenUsage tracks the tokens consumed by a request.
type TokenUsage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	Model            string
}

// ContentResponse contains the generated text and token usage.
type ContentResponse struct {
	Content string
	Usage   TokenUsage
}

// TextGenerator generates text from a prompt.
type TextGenerator interface {
	GenerateContent(ctx context.Context, prompt Prompt) (ContentResponse, error)
}

const defaultMaxTokens = 4096

func maxTokens(p Prompt) int {
	if p.MaxTokens > 0 {
		return p.MaxTokens
	}
	return defaultMaxTokens
}
