package llm

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// GeminiProvider completes prompts with the Gemini API.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

// NewGeminiProvider creates a Gemini client for model.
func NewGeminiProvider(ctx context.Context, apiKey, model string) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GeminiProvider{client: client, model: model}, nil
}

// Name identifies the provider in logs.
func (p *GeminiProvider) Name() string { return "gemini/" + p.model }

// Complete generates a single candidate.
func (p *GeminiProvider) Complete(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(req.System, genai.RoleUser),
		Temperature:       genai.Ptr(float32(req.Temperature)),
	}
	if req.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(req.MaxTokens)
	}
	if req.JSON {
		cfg.ResponseMIMEType = "application/json"
	}

	result, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(req.User), cfg)
	if err != nil {
		return ChatResponse{}, fmt.Errorf("gemini generate: %w", err)
	}
	if result == nil || len(result.Candidates) == 0 {
		return ChatResponse{}, errors.New("gemini returned no candidates")
	}

	out := ChatResponse{
		Content:      result.Text(),
		FinishReason: string(result.Candidates[0].FinishReason),
	}
	if geminiTruncated(result.Candidates[0].FinishReason) {
		return out, ErrTruncated
	}
	return out, nil
}

func geminiTruncated(reason genai.FinishReason) bool {
	return reason == genai.FinishReasonMaxTokens
}
