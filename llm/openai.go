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

	"carouselforge/config"
)

const (
	jsonResponseType   = "json_object"
	defaultHTTPTimeout = 2 * time.Minute
)

// OpenAIClient talks to the OpenAI REST API for chat and images.
type OpenAIClient struct {
	apiKey     string
	baseURL    string
	model      string
	imageModel string
	httpClient *http.Client
}

// Option customizes the client.
type Option func(*OpenAIClient)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *OpenAIClient) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL points the client at another OpenAI-compatible API root.
func WithBaseURL(baseURL string) Option {
	return func(c *OpenAIClient) {
		if baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/"); baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// WithModel overrides the chat model.
func WithModel(model string) Option {
	return func(c *OpenAIClient) {
		if model = strings.TrimSpace(model); model != "" {
			c.model = model
		}
	}
}

// NewOpenAIClient constructs a client with the given key.
func NewOpenAIClient(apiKey string, opts ...Option) *OpenAIClient {
	c := &OpenAIClient{
		apiKey:     strings.TrimSpace(apiKey),
		baseURL:    "https://api.openai.com/v1",
		model:      config.DefaultChatModel,
		imageModel: config.DefaultImageModel,
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name identifies the provider in logs.
func (c *OpenAIClient) Name() string { return "openai/" + c.model }

type chatCompletionRequest struct {
	Model          string            `json:"model"`
	Messages       []chatMessage     `json:"messages"`
	Temperature    float64           `json:"temperature"`
	MaxTokens      int               `json:"max_tokens,omitempty"`
	ResponseFormat map[string]string `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
			Refusal string `json:"refusal"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

type apiErrorBody struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    any    `json:"code"`
	} `json:"error"`
}

// Complete issues a chat completion. A "length" finish returns the partial
// content together with ErrTruncated.
func (c *OpenAIClient) Complete(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	payload := chatCompletionRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.User},
		},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	if req.JSON {
		payload.ResponseFormat = map[string]string{"type": jsonResponseType}
	}

	var completion chatCompletionResponse
	if err := c.postJSON(ctx, "/chat/completions", payload, &completion); err != nil {
		return ChatResponse{}, err
	}
	if len(completion.Choices) == 0 {
		return ChatResponse{}, fmt.Errorf("llm complete: empty choices")
	}

	choice := completion.Choices[0]
	resp := ChatResponse{Content: choice.Message.Content, FinishReason: choice.FinishReason}
	if choice.FinishReason == "length" {
		return resp, ErrTruncated
	}
	if strings.TrimSpace(resp.Content) == "" {
		return resp, fmt.Errorf("llm complete: empty content (finish_reason=%q, refusal=%q)", choice.FinishReason, choice.Message.Refusal)
	}
	return resp, nil
}

func (c *OpenAIClient) postJSON(ctx context.Context, path string, payload, out any) error {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("llm request: encode body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("llm request: new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *OpenAIClient) do(req *http.Request, out any) error {
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("llm request: http error: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("llm request: read body: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return parseStatusError(resp.StatusCode, body)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("llm request: decode response: %w", err)
	}
	return nil
}

func parseStatusError(status int, body []byte) *StatusError {
	se := &StatusError{StatusCode: status, Message: strings.TrimSpace(string(body))}
	var parsed apiErrorBody
	if json.Unmarshal(body, &parsed) == nil && parsed.Error.Message != "" {
		se.Message = parsed.Error.Message
		if code, ok := parsed.Error.Code.(string); ok {
			se.Code = code
		}
	}
	return se
}
