// Package generation turns topics, transcripts and articles into carousel
// slides and images.
package generation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"carouselforge/cache"
	"carouselforge/config"
	"carouselforge/frames"
	"carouselforge/llm"
	"carouselforge/scrapers"
	"carouselforge/types"
	"carouselforge/uploads"
	"carouselforge/youtube"
)

// Input types accepted by GenerateVariations
const (
	InputYouTube = "youtube"
	InputLink    = "link"
	InputFeed    = "feed"
	InputText    = "text"
)

var (
	// ErrTopicRequired is returned when a request carries no topic
	ErrTopicRequired = errors.New("topic is required")

	// ErrExtractionFailed is returned when a link, feed or video could not be read
	ErrExtractionFailed = errors.New("failed to extract content")

	// ErrInsufficientContent is returned when the extracted source is too short to summarize
	ErrInsufficientContent = errors.New("insufficient source content")

	// ErrEmptyResponse is returned when the model replied with nothing
	ErrEmptyResponse = errors.New("no content generated")

	// ErrInvalidResponse is returned when the reply is JSON of the wrong shape
	ErrInvalidResponse = errors.New("invalid response structure")

	// ErrParseResponse is returned when the reply is not JSON
	ErrParseResponse = errors.New("failed to parse AI response")

	// ErrNoImageGenerator is returned when image operations are not configured
	ErrNoImageGenerator = errors.New("image generation is not configured")

	// ErrImageRequired is returned when an enhance request has no image
	ErrImageRequired = errors.New("image URL is required")

	// ErrEditUnavailable is returned when the key cannot use the edits model
	ErrEditUnavailable = errors.New("image editing is not available")
)

// FrameExtractor is the part of frames.Extractor generation needs.
type FrameExtractor interface {
	ExtractFrames(ctx context.Context, videoURL, videoID string) (*frames.Result, error)
	ExtractFromRanges(ctx context.Context, source, videoID string, ranges []frames.Range) (*frames.Result, error)
}

// MetadataFetcher looks up video titles and channels.
type MetadataFetcher interface {
	Video(ctx context.Context, id string) (*youtube.Video, error)
}

// Service generates carousel content.
type Service struct {
	chat      llm.ChatProvider
	images    llm.ImageGenerator
	scraper   *scrapers.Scraper
	frames    FrameExtractor
	metadata  MetadataFetcher
	uploads   *uploads.Store
	cache     *cache.Cache
	framesDir string
	rng       *rand.Rand
	now       func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithImages enables image generation and enhancement.
func WithImages(g llm.ImageGenerator) Option {
	return func(s *Service) { s.images = g }
}

// WithScraper sets the source content scraper.
func WithScraper(sc *scrapers.Scraper) Option {
	return func(s *Service) { s.scraper = sc }
}

// WithFrames enables video frame backgrounds for YouTube inputs.
func WithFrames(f FrameExtractor) Option {
	return func(s *Service) { s.frames = f }
}

// WithMetadata enables YouTube metadata lookups.
func WithMetadata(m MetadataFetcher) Option {
	return func(s *Service) { s.metadata = m }
}

// WithUploads sets where generated images are saved.
func WithUploads(u *uploads.Store) Option {
	return func(s *Service) { s.uploads = u }
}

// WithCache enables caching of variation results. A nil cache is allowed.
func WithCache(c *cache.Cache) Option {
	return func(s *Service) { s.cache = c }
}

// WithFramesDir sets the directory /frames/ urls resolve to.
func WithFramesDir(dir string) Option {
	return func(s *Service) { s.framesDir = dir }
}

// WithRand makes layout assignment deterministic.
func WithRand(rng *rand.Rand) Option {
	return func(s *Service) { s.rng = rng }
}

// WithClock overrides the time source used for file names and timings.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New returns a Service backed by chat.
func New(chat llm.ChatProvider, opts ...Option) *Service {
	s := &Service{
		chat:      chat,
		scraper:   scrapers.New(),
		framesDir: config.GetFramesDir(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GenerateRequest asks for a single carousel about a topic.
type GenerateRequest struct {
	Topic      string `json:"topic"`
	Tone       string `json:"tone"`
	SlideCount int    `json:"slideCount"`
	Language   string `json:"language"`
}

// Generate produces one carousel for req.Topic.
func (s *Service) Generate(ctx context.Context, req GenerateRequest) (*types.CarouselData, error) {
	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		return nil, ErrTopicRequired
	}
	count := clampSlideCount(req.SlideCount)

	log.Printf("📝 Generating %d-slide carousel about %q", count, truncate(topic, 80))
	resp, err := s.complete(ctx, llm.ChatRequest{
		System:      generateSystemPrompt(),
		User:        generateUserPrompt(topic, toneOrDefault(req.Tone), languageOrDefault(req.Language), count),
		Temperature: config.GenerateTemperature,
		JSON:        true,
	})
	if err != nil {
		return nil, err
	}

	var data types.CarouselData
	if err := llm.DecodeJSON(resp.Content, &data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseResponse, err)
	}
	if len(data.Slides) == 0 {
		return nil, ErrInvalidResponse
	}
	if data.Topic == "" {
		data.Topic = topic
	}
	data.Slides = s.finishSlides(data.Slides)

	log.Printf("✅ Generated %d slides", len(data.Slides))
	return &data, nil
}

// complete runs a chat request and maps empty replies.
func (s *Service) complete(ctx context.Context, req llm.ChatRequest) (llm.ChatResponse, error) {
	resp, err := s.chat.Complete(ctx, req)
	if err != nil {
		if errors.Is(err, llm.ErrTruncated) {
			log.Printf("❌ %s response was truncated", s.chat.Name())
		}
		return resp, err
	}
	if strings.TrimSpace(resp.Content) == "" {
		return resp, ErrEmptyResponse
	}
	return resp, nil
}

// finishSlides gives every slide an id and a known layout.
func (s *Service) finishSlides(slides []types.Slide) []types.Slide {
	for i := range slides {
		if slides[i].ID == "" {
			slides[i].ID = fmt.Sprintf("slide-%d", i+1)
		}
		if slides[i].Layout != "" && !types.IsValidLayout(slides[i].Layout) {
			log.Printf("⚠️  Replacing unknown layout %q on slide %d", slides[i].Layout, i+1)
			slides[i].Layout = ""
		}
	}
	return types.AssignSlideLayouts(slides, false, s.rng)
}

func clampSlideCount(n int) int {
	switch {
	case n <= 0:
		return config.DefaultSlideCount
	case n > config.MaxSlideCount:
		return config.MaxSlideCount
	}
	return n
}

func toneOrDefault(tone string) string {
	if strings.TrimSpace(tone) == "" {
		return "professional"
	}
	return tone
}

func languageOrDefault(lang string) string {
	if strings.TrimSpace(lang) == "" {
		return "English"
	}
	return lang
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
