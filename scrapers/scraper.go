package scrapers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"carouselforge/cache"
	"carouselforge/config"
)

// UserAgent is sent with every page fetch; some sites refuse the Go default.
const UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

var (
	// ErrNoContent is returned when a page has no readable text
	ErrNoContent = errors.New("no readable content")

	// ErrNoTranscript is returned when a video has no caption segments
	ErrNoTranscript = errors.New("no transcript segments returned")

	// ErrInvalidVideoURL is returned when no video id can be found in a URL
	ErrInvalidVideoURL = errors.New("invalid YouTube URL: could not extract video ID")
)

// Scraper pulls source material for carousels from the web.
type Scraper struct {
	httpClient  *http.Client
	transcripts TranscriptFetcher
	cache       *cache.Cache
}

// Option customizes a Scraper.
type Option func(*Scraper)

// WithHTTPClient overrides the client used for page, feed and stylesheet fetches.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Scraper) {
		if c != nil {
			s.httpClient = c
		}
	}
}

// WithTranscriptFetcher sets the transcript backend.
func WithTranscriptFetcher(f TranscriptFetcher) Option {
	return func(s *Scraper) { s.transcripts = f }
}

// WithCache enables Redis caching of fetched content. A nil cache is allowed.
func WithCache(c *cache.Cache) Option {
	return func(s *Scraper) { s.cache = c }
}

// New returns a Scraper. Without a transcript fetcher, YouTube inputs fail.
func New(opts ...Option) *Scraper {
	s := &Scraper{
		httpClient: &http.Client{Timeout: config.FetchTimeout},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// fetchPage GETs url with browser-like headers and returns the body.
func (s *Scraper) fetchPage(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", url, resp.Status)
	}
	return io.ReadAll(resp.Body)
}

func (s *Scraper) cached(ctx context.Context, key string, dst any) bool {
	hit, err := s.cache.Get(ctx, key, dst)
	if err != nil {
		log.Printf("⚠️  Cache read failed for %s: %v", key, err)
		return false
	}
	return hit
}

func (s *Scraper) store(ctx context.Context, key string, v any, ttl time.Duration) {
	if err := s.cache.Set(ctx, key, v, ttl); err != nil {
		log.Printf("⚠️  Cache write failed for %s: %v", key, err)
	}
}
