package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func chatServer(t *testing.T, handler func(t *testing.T, req chatCompletionRequest) (int, any)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		var req chatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		status, body := handler(t, req)
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
}

func completion(content, finish string) map[string]any {
	return map[string]any{
		"choices": []any{
			map[string]any{
				"message":       map[string]any{"content": content},
				"finish_reason": finish,
			},
		},
	}
}

func TestOpenAIComplete(t *testing.T) {
	srv := chatServer(t, func(t *testing.T, req chatCompletionRequest) (int, any) {
		assert.Equal(t, "gpt-4o", req.Model)
		assert.Equal(t, 0.8, req.Temperature)
		assert.Equal(t, 4096, req.MaxTokens)
		assert.Equal(t, "json_object", req.ResponseFormat["type"])
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		return http.StatusOK, completion(`{"ok":true}`, "stop")
	})
	defer srv.Close()

	c := NewOpenAIClient("test-key", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	resp, err := c.Complete(context.Background(), ChatRequest{System: "sys", User: "hi", Temperature: 0.8, MaxTokens: 4096, JSON: true})
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, resp.Content)
	assert.Equal(t, "stop", resp.FinishReason)
}

func TestOpenAICompleteTruncated(t *testing.T) {
	srv := chatServer(t, func(t *testing.T, req chatCompletionRequest) (int, any) {
		assert.Nil(t, req.ResponseFormat)
		return http.StatusOK, completion(`{"variations":[`, "length")
	})
	defer srv.Close()

	c := NewOpenAIClient("test-key", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	_, err := c.Complete(context.Background(), ChatRequest{System: "s", User: "u"})
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestOpenAIStatusErrors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        map[string]any
		wantCode    string
		policy      bool
		unavailable bool
	}{
		{"unauthorized", 401, map[string]any{"error": map[string]any{"message": "Incorrect API key", "code": "invalid_api_key"}}, "invalid_api_key", false, false},
		{"rate limited", 429, map[string]any{"error": map[string]any{"message": "slow down", "code": nil}}, "", false, false},
		{"policy", 400, map[string]any{"error": map[string]any{"message": "Your request was rejected by our safety system"}}, "", true, false},
		{"model", 404, map[string]any{"error": map[string]any{"message": "no such model", "code": "model_not_found"}}, "model_not_found", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := chatServer(t, func(t *testing.T, _ chatCompletionRequest) (int, any) {
				return tt.status, tt.body
			})
			defer srv.Close()

			c := NewOpenAIClient("test-key", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
			_, err := c.Complete(context.Background(), ChatRequest{System: "s", User: "u"})

			var se *StatusError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tt.status, se.StatusCode)
			assert.Equal(t, tt.wantCode, se.Code)
			assert.Equal(t, tt.status, StatusCode(err))
			assert.Equal(t, tt.policy, IsContentPolicy(err))
			assert.Equal(t, tt.unavailable, IsModelUnavailable(err))
		})
	}
}

func TestGenerateImageFallsBack(t *testing.T) {
	var models []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/images/generations", r.URL.Path)
		var req imageGenerationRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		models = append(models, req.Model+":"+req.Quality)
		if req.Model == "gpt-image-1" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"error":{"message":"model missing","code":"model_not_found"}}`)
			return
		}
		_, _ = io.WriteString(w, `{"data":[{"url":"https://img.example.com/a.png"}]}`)
	}))
	defer srv.Close()

	c := NewOpenAIClient("test-key", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	img, err := c.GenerateImage(context.Background(), "a calm studio")
	require.NoError(t, err)
	assert.Equal(t, "https://img.example.com/a.png", img.Source())
	assert.Equal(t, []string{"gpt-image-1:high", "dall-e-3:hd"}, models)
}

func TestGenerateImageNoFallbackOnAuth(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":{"message":"bad key"}}`)
	}))
	defer srv.Close()

	c := NewOpenAIClient("test-key", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	_, err := c.GenerateImage(context.Background(), "x")
	assert.Equal(t, 401, StatusCode(err))
	assert.Equal(t, 1, calls)
}

func TestEditImageMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/images/edits", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "gpt-image-1", r.FormValue("model"))
		assert.Equal(t, "make it pop", r.FormValue("prompt"))
		assert.Equal(t, "1024x1024", r.FormValue("size"))
		files := r.MultipartForm.File["image[]"]
		require.Len(t, files, 2)
		assert.Equal(t, "host.png", files[0].Filename)
		_, _ = io.WriteString(w, `{"data":[{"b64_json":"aGVsbG8="}]}`)
	}))
	defer srv.Close()

	c := NewOpenAIClient("test-key", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	img, err := c.EditImage(context.Background(), "make it pop", []Reference{
		{Name: "host.png", Data: []byte("h")},
		{Name: "guest.png", Data: []byte("g")},
	})
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,aGVsbG8=", img.Source())

	_, err = c.EditImage(context.Background(), "x", nil)
	assert.Error(t, err)
}

func TestDecodeJSON(t *testing.T) {
	var out struct {
		OK bool `json:"ok"`
	}
	require.NoError(t, DecodeJSON("```json\n{\"ok\":true}\n```", &out))
	assert.True(t, out.OK)

	out.OK = false
	require.NoError(t, DecodeJSON("Sure! Here it is: {\"ok\":true} hope that helps", &out))
	assert.True(t, out.OK)

	err := DecodeJSON("no json here", &out)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "payload snippet"))

	assert.Error(t, DecodeJSON("  ", &out))
}

func TestTruncationMapping(t *testing.T) {
	assert.True(t, cohereTruncated("MAX_TOKENS"))
	assert.False(t, cohereTruncated("COMPLETE"))
	assert.True(t, geminiTruncated(genai.FinishReasonMaxTokens))
	assert.False(t, geminiTruncated(genai.FinishReasonStop))
}
