package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultMessagesBaseURL = "https://api.anthropic.com"
	defaultMessagesModel   = "claude-sonnet-4-5"
	messagesAPIVersion     = "2023-06-01"
)

// MessagesClient calls a messages-style completion endpoint.
type MessagesClient struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewMessagesClient builds a client. An empty key is accepted; calls then fail with ErrMissingAPIKey.
func NewMessagesClient(apiKey, model, baseURL string, timeout time.Duration) *MessagesClient {
	if model == "" {
		model = defaultMessagesModel
	}
	if baseURL == "" {
		baseURL = defaultMessagesBaseURL
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &MessagesClient{
		apiKey:     apiKey,
		model:      model,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type messagesRequest struct {
	Model       string           `json:"model"`
	MaxTokens   int              `json:"max_tokens"`
	System      string           `json:"system,omitempty"`
	Messages    []messageContent `json:"messages"`
	Temperature float64          `json:"temperature"`
}

type messageContent struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Model   string `json:"model"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// GenerateContent sends the prompt and concatenates the text blocks of the reply.
func (c *MessagesClient) GenerateContent(ctx context.Context, prompt Prompt) (ContentResponse, error) {
	if c.apiKey == "" {
		return ContentResponse{}, ErrMissingAPIKey
	}

	body, err := json.Marshal(messagesRequest{
		Model:       c.model,
		MaxTokens:   maxTokens(prompt),
		System:      prompt.System,
		Messages:    []messageContent{{Role: "user", Content: prompt.User}},
		Temperature: prompt.Temperature,
	})
	if err != nil {
		return ContentResponse{}, fmt.Errorf("marshal messages request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return ContentResponse{}, fmt.Errorf("create messages request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", messagesAPIVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ContentResponse{}, fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return ContentResponse{}, &APIError{Provider: "anthropic", StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var decoded messagesResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return ContentResponse{}, fmt.Errorf("%w: %w", ErrNetwork, err)
	}

	var text strings.Builder
	for _, block := range decoded.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if strings.TrimSpace(text.String()) == "" {
		return ContentResponse{}, ErrEmptyResponse
	}

	model := decoded.Model
	if model == "" {
		model = c.model
	}
	return ContentResponse{
		Content: text.String(),
		Usage: TokenUsage{
			PromptTokens:     decoded.Usage.InputTokens,
			CompletionTokens: decoded.Usage.OutputTokens,
			TotalTokens:      decoded.Usage.InputTokens + decoded.Usage.OutputTokens,
			Model:            model,
		},
	}, nil
}
