package scrapers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"

	"carouselforge/cache"
	"carouselforge/config"
)

// TranscriptSegment is one caption line with its timing in seconds.
type TranscriptSegment struct {
	Text      string  `json:"text"`
	StartTime float64 `json:"startTime"`
	Duration  float64 `json:"duration"`
}

// End returns the second the segment stops being spoken.
func (s TranscriptSegment) End() float64 {
	return s.StartTime + s.Duration
}

// Transcript is a fetched and processed video transcript.
type Transcript struct {
	VideoID  string              `json:"videoId"`
	Language string              `json:"language"`
	Text     string              `json:"text"`
	Segments []TranscriptSegment `json:"segments"`
}

// TranscriptFetcher loads the captions of a YouTube video.
type TranscriptFetcher interface {
	Fetch(ctx context.Context, videoID string) (*Transcript, error)
}

// TranscriptAPI fetches captions from transcriptapi.com.
type TranscriptAPI struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewTranscriptAPI returns a client for the transcript API at baseURL.
func NewTranscriptAPI(baseURL, apiKey string, httpClient *http.Client) *TranscriptAPI {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.FetchTimeout}
	}
	return &TranscriptAPI{baseURL: baseURL, apiKey: apiKey, httpClient: httpClient}
}

type transcriptAPIResponse struct {
	Transcript []struct {
		Text     string  `json:"text"`
		Start    float64 `json:"start"`
		Duration float64 `json:"duration"`
	} `json:"transcript"`
	Language string `json:"language"`
	Lang     string `json:"lang"`
}

// Fetch requests the video's default caption track with timestamps.
func (t *TranscriptAPI) Fetch(ctx context.Context, videoID string) (*Transcript, error) {
	if t.apiKey == "" {
		return nil, errors.New("TRANSCRIPT_API_KEY is not set")
	}

	q := url.Values{}
	q.Set("video_url", videoID)
	q.Set("format", "json")
	q.Set("include_timestamp", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build transcript request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+t.apiKey)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("transcript request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("transcript API error: %d - %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload transcriptAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode transcript: %w", err)
	}

	language := payload.Language
	if language == "" {
		language = payload.Lang
	}
	if language == "" {
		language = "en"
	}

	segments := make([]TranscriptSegment, 0, len(payload.Transcript))
	for _, item := range payload.Transcript {
		segments = append(segments, TranscriptSegment{Text: item.Text, StartTime: item.Start, Duration: item.Duration})
	}
	return BuildTranscript(videoID, language, segments)
}

// BuildTranscript cleans raw segments and joins their processed text.
func BuildTranscript(videoID, language string, raw []TranscriptSegment) (*Transcript, error) {
	if len(raw) == 0 {
		return nil, ErrNoTranscript
	}

	segments := make([]TranscriptSegment, 0, len(raw))
	parts := make([]string, 0, len(raw))
	for _, seg := range raw {
		cleaned := CleanCaption(seg.Text)
		if cleaned == "" {
			continue
		}
		seg.Text = cleaned
		segments = append(segments, seg)

		if processed := ProcessCaption(cleaned, language); processed != "" {
			parts = append(parts, processed)
		}
	}
	if len(segments) == 0 {
		return nil, ErrNoTranscript
	}

	return &Transcript{
		VideoID:  videoID,
		Language: language,
		Text:     strings.Join(parts, " "),
		Segments: segments,
	}, nil
}

// Transcript resolves the video id in videoURL and fetches its captions,
// consulting the cache first.
func (s *Scraper) Transcript(ctx context.Context, videoURL string) (*Transcript, error) {
	videoID := ExtractVideoID(videoURL)
	if videoID == "" {
		return nil, ErrInvalidVideoURL
	}
	if s.transcripts == nil {
		return nil, errors.New("no transcript fetcher configured")
	}

	key := cache.Key("transcript", videoID)
	var cachedTranscript Transcript
	if s.cached(ctx, key, &cachedTranscript) {
		return &cachedTranscript, nil
	}

	log.Printf("📥 Fetching transcript for video %s", videoID)
	t, err := s.transcripts.Fetch(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("failed to extract transcript: %w", err)
	}
	log.Printf("✅ Transcript fetched: %d segments, %d chars, language %s", len(t.Segments), len(t.Text), t.Language)

	s.store(ctx, key, t, config.TranscriptCacheTTL)
	return t, nil
}

// FormatTimestampedTranscript renders segments as "[MM:SS] text" lines.
func FormatTimestampedTranscript(segments []TranscriptSegment) string {
	lines := make([]string, len(segments))
	for i, s := range segments {
		total := int(s.StartTime)
		lines[i] = fmt.Sprintf("[%02d:%02d] %s", total/60, total%60, s.Text)
	}
	return strings.Join(lines, "\n")
}
