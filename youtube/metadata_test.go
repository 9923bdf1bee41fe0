package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"PT45S", 45 * time.Second},
		{"PT3M", 3 * time.Minute},
		{"PT1H2M3S", time.Hour + 2*time.Minute + 3*time.Second},
		{"P1DT1H", 25 * time.Hour},
	}
	for _, tt := range tests {
		got, err := ParseDuration(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	for _, bad := range []string{"", "PT", "1H", "PTXS"} {
		_, err := ParseDuration(bad)
		assert.Error(t, err, bad)
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *MetadataClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewMetadataClient(context.Background(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithAPIKey("test-key"),
	)
	require.NoError(t, err)
	return c
}

func TestVideo(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "abc123", r.URL.Query().Get("id"))
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"items": []map[string]any{{
				"id": "abc123",
				"snippet": map[string]any{
					"title":        "Building in public",
					"channelTitle": "Founders Talk",
					"description":  "Host Jane talks with guest Sam.",
				},
				"contentDetails": map[string]any{"duration": "PT12M30S"},
			}},
		})
	})

	v, err := c.Video(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, "Building in public", v.Title)
	assert.Equal(t, "Founders Talk", v.ChannelTitle)
	assert.Equal(t, 12*time.Minute+30*time.Second, v.Duration)
	assert.Contains(t, v.PromptText(), "Channel: Founders Talk")
}

func TestVideoNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"items": []any{}})
	})

	_, err := c.Video(context.Background(), "missing")
	assert.True(t, errors.Is(err, ErrVideoNotFound))
}

func TestFromEnvUnconfigured(t *testing.T) {
	t.Setenv("YOUTUBE_API_KEY", "")
	t.Setenv("YOUTUBE_SERVICE_ACCOUNT", "")
	c, err := NewMetadataClientFromEnv(context.Background())
	require.NoError(t, err)
	assert.Nil(t, c)
}
