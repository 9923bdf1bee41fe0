package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"carouselforge/config"
)

// ErrTruncated is returned when the model stopped at its token limit.
var ErrTruncated = errors.New("response was truncated")

// ChatRequest is a single system + user prompt exchange.
type ChatRequest struct {
	System      string
	User        string
	Temperature float64
	MaxTokens   int
	// JSON asks the provider for a JSON object response.
	JSON bool
}

// ChatResponse is the model's reply.
type ChatResponse struct {
	Content      string
	FinishReason string
}

// ChatProvider completes chat prompts.
type ChatProvider interface {
	Complete(ctx context.Context, req ChatRequest) (ChatResponse, error)
	Name() string
}

// StatusError is a non-2xx response from an upstream model API.
type StatusError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *StatusError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("llm request: http %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("llm request: http %d: %s", e.StatusCode, e.Message)
}

// IsContentPolicy reports whether err is a moderation rejection.
func IsContentPolicy(err error) bool {
	var se *StatusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusBadRequest {
		return false
	}
	return se.Code == "content_policy_violation" ||
		strings.Contains(se.Message, "safety system") ||
		strings.Contains(se.Message, "content policy")
}

// IsModelUnavailable reports whether err means the requested model or one of
// its parameters is not available to this key.
func IsModelUnavailable(err error) bool {
	var se *StatusError
	if !errors.As(err, &se) {
		return false
	}
	return se.Code == "model_not_found" || strings.Contains(se.Message, "Unknown parameter")
}

// StatusCode returns the upstream status of err, or 0.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}

// NewProviderFromEnv builds the chat provider selected by LLM_PROVIDER.
func NewProviderFromEnv(ctx context.Context) (ChatProvider, error) {
	model := config.GetChatModel()
	switch provider := config.GetLLMProvider(); provider {
	case "cohere":
		key := config.GetCohereKey()
		if key == "" {
			return nil, errors.New("COHERE_API_KEY is not set")
		}
		if model == "" {
			model = config.DefaultCohereModel
		}
		return NewCohereProvider(key, model, nil), nil
	case "gemini":
		key := config.GetGeminiKey()
		if key == "" {
			return nil, errors.New("GEMINI_API_KEY is not set")
		}
		if model == "" {
			model = config.DefaultGeminiModel
		}
		return NewGeminiProvider(ctx, key, model)
	case "openai", "":
		key := config.GetOpenAIKey()
		if key == "" {
			return nil, errors.New("OpenAI API key not configured. Please add OPENAI_API_KEY to .env")
		}
		if model == "" {
			model = config.DefaultChatModel
		}
		return NewOpenAIClient(key, WithBaseURL(config.GetOpenAIBaseURL()), WithModel(model)), nil
	default:
		return nil, fmt.Errorf("unknown LLM_PROVIDER %q", provider)
	}
}
