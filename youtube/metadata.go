package youtube

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"carouselforge/config"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	ytapi "google.golang.org/api/youtube/v3"
)

// ErrVideoNotFound is returned when the API knows no video with the id.
var ErrVideoNotFound = errors.New("video not found")

// Video is the metadata used to tell the model who is speaking.
type Video struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	ChannelTitle string        `json:"channelTitle"`
	Description  string        `json:"description"`
	Duration     time.Duration `json:"duration"`
}

// PromptText renders the metadata for a prompt, keeping the description short.
func (v *Video) PromptText() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Title: %s\nChannel: %s", v.Title, v.ChannelTitle)
	if desc := strings.TrimSpace(v.Description); desc != "" {
		r := []rune(desc)
		if len(r) > 500 {
			desc = string(r[:500]) + "..."
		}
		fmt.Fprintf(&b, "\nDescription: %s", desc)
	}
	return b.String()
}

// MetadataClient reads video details from the YouTube Data API.
type MetadataClient struct {
	service *ytapi.Service
}

// NewMetadataClient builds a client from API options. Callers normally use
// NewMetadataClientFromEnv.
func NewMetadataClient(ctx context.Context, opts ...option.ClientOption) (*MetadataClient, error) {
	service, err := ytapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create YouTube service: %w", err)
	}
	return &MetadataClient{service: service}, nil
}

// NewMetadataClientFromEnv authenticates with YOUTUBE_SERVICE_ACCOUNT when
// set, else YOUTUBE_API_KEY. It returns nil, nil when neither is configured.
func NewMetadataClientFromEnv(ctx context.Context) (*MetadataClient, error) {
	if path := config.GetYouTubeServiceAccount(); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("unable to read service account file: %w", err)
		}
		jwt, err := google.JWTConfigFromJSON(data, ytapi.YoutubeReadonlyScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account: %w", err)
		}
		return NewMetadataClient(ctx, option.WithHTTPClient(jwt.Client(ctx)))
	}
	if key := config.GetYouTubeAPIKey(); key != "" {
		return NewMetadataClient(ctx, option.WithAPIKey(key))
	}
	return nil, nil
}

// Video fetches snippet and content details for id.
func (c *MetadataClient) Video(ctx context.Context, id string) (*Video, error) {
	resp, err := c.service.Videos.List([]string{"snippet", "contentDetails"}).Id(id).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list video %s: %w", id, err)
	}
	if len(resp.Items) == 0 || resp.Items[0].Snippet == nil {
		return nil, fmt.Errorf("%w: %s", ErrVideoNotFound, id)
	}

	item := resp.Items[0]
	v := &Video{
		ID:           item.Id,
		Title:        item.Snippet.Title,
		ChannelTitle: item.Snippet.ChannelTitle,
		Description:  item.Snippet.Description,
	}
	if item.ContentDetails != nil {
		d, err := ParseDuration(item.ContentDetails.Duration)
		if err != nil {
			log.Printf("⚠️  %v", err)
		}
		v.Duration = d
	}
	log.Printf("✓ Video metadata: %q by %s", v.Title, v.ChannelTitle)
	return v, nil
}

var isoDuration = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+(?:\.\d+)?)S)?)?$`)

// ParseDuration reads the ISO 8601 durations the API returns, e.g. PT1H2M3S.
func ParseDuration(s string) (time.Duration, error) {
	m := isoDuration.FindStringSubmatch(s)
	if m == nil || s == "P" || s == "PT" {
		return 0, fmt.Errorf("invalid ISO 8601 duration %q", s)
	}
	units := []time.Duration{24 * time.Hour, time.Hour, time.Minute}
	var total time.Duration
	for i, unit := range units {
		if m[i+1] == "" {
			continue
		}
		n, _ := strconv.Atoi(m[i+1])
		total += time.Duration(n) * unit
	}
	if m[4] != "" {
		sec, _ := strconv.ParseFloat(m[4], 64)
		total += time.Duration(sec * float64(time.Second))
	}
	return total, nil
}
