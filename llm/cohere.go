package llm

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"time"

	cohere "github.com/cohere-ai/cohere-go/v2"
	cohereclient "github.com/cohere-ai/cohere-go/v2/client"
)

// CohereProvider completes prompts with the Cohere chat API.
type CohereProvider struct {
	client *cohereclient.Client
	model  string
}

// NewCohereProvider returns a provider for model. A nil httpClient gets an
// HTTP/1.1-only client.
func NewCohereProvider(apiKey, model string, httpClient *http.Client) *CohereProvider {
	if httpClient == nil {
		// HTTP/2 streams to the Cohere API reset under load
		httpClient = &http.Client{
			Timeout: defaultHTTPTimeout,
			Transport: &http.Transport{
				TLSNextProto:      make(map[string]func(authority string, c *tls.Conn) http.RoundTripper),
				ForceAttemptHTTP2: false,
			},
		}
	}
	client := cohereclient.NewClient(
		cohereclient.WithToken(apiKey),
		cohereclient.WithHTTPClient(httpClient),
	)
	return &CohereProvider{client: client, model: model}
}

// Name identifies the provider in logs.
func (p *CohereProvider) Name() string { return "cohere/" + p.model }

// Complete sends the system prompt as preamble. JSON mode is requested in
// the preamble since the chat endpoint has no portable switch for it.
func (p *CohereProvider) Complete(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	preamble := req.System
	if req.JSON {
		preamble += "\n\nRespond with a single valid JSON object and nothing else."
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	chatReq := &cohere.ChatRequest{
		Message:     req.User,
		Model:       ptr(p.model),
		Preamble:    ptr(preamble),
		Temperature: ptr(req.Temperature),
	}
	if req.MaxTokens > 0 {
		chatReq.MaxTokens = ptr(req.MaxTokens)
	}

	resp, err := p.client.Chat(ctx, chatReq)
	if err != nil {
		return ChatResponse{}, fmt.Errorf("cohere chat error: %w", err)
	}
	if resp == nil {
		return ChatResponse{}, errors.New("cohere chat returned empty response")
	}

	out := ChatResponse{Content: resp.Text}
	if resp.FinishReason != nil {
		out.FinishReason = string(*resp.FinishReason)
	}
	if cohereTruncated(out.FinishReason) {
		return out, ErrTruncated
	}
	return out, nil
}

func cohereTruncated(reason string) bool {
	return reason == string(cohere.FinishReasonMaxTokens)
}

func ptr[T any](v T) *T { return &v }
