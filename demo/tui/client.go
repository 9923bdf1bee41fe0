package tui

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"carouselforge/types"
)

// PreviewClient is a thin HTTP client for the carousel API
type PreviewClient struct {
	baseURL string
	client  *http.Client
}

// NewPreviewClient creates a client for the API at baseURL
func NewPreviewClient(baseURL string) *PreviewClient {
	return &PreviewClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// ListProjects fetches the most recent projects
func (c *PreviewClient) ListProjects() ([]types.Project, error) {
	var out struct {
		Projects []types.Project `json:"projects"`
	}
	if err := c.getJSON("/api/projects", &out); err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return out.Projects, nil
}

// GetProject fetches one project in the editor shape
func (c *PreviewClient) GetProject(id string) (*types.CarouselData, error) {
	var out struct {
		Project types.CarouselData `json:"project"`
	}
	if err := c.getJSON("/api/projects/"+url.PathEscape(id), &out); err != nil {
		return nil, fmt.Errorf("failed to get project %s: %w", id, err)
	}
	return &out.Project, nil
}

func (c *PreviewClient) getJSON(path string, out any) error {
	resp, err := c.client.Get(c.baseURL + path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
