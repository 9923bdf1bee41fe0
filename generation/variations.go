package generation

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"carouselforge/cache"
	"carouselforge/config"
	"carouselforge/frames"
	"carouselforge/llm"
	"carouselforge/scrapers"
	"carouselforge/types"

	"golang.org/x/sync/errgroup"
)

// VariationsRequest asks for three stylistic takes on a source.
type VariationsRequest struct {
	Topic      string `json:"topic"`
	Tone       string `json:"tone"`
	SlideCount int    `json:"slideCount"`
	InputType  string `json:"inputType"`
	Language   string `json:"language"`
	HostImage  string `json:"hostImage"`
	GuestImage string `json:"guestImage"`
}

// source is the material a variations prompt is built from.
type source struct {
	content      string
	displayTopic string
	language     string
	videoID      string
	segments     []scrapers.TranscriptSegment
	metadata     string
}

// GenerateVariations produces three variations of a carousel. YouTube
// inputs also get video frames as slide backgrounds when an extractor is set.
func (s *Service) GenerateVariations(ctx context.Context, req VariationsRequest) (*types.VariationsResult, error) {
	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		return nil, ErrTopicRequired
	}
	count := clampSlideCount(req.SlideCount)
	tone := toneOrDefault(req.Tone)

	key := cache.Key("variations", req.InputType, topic, languageOrDefault(req.Language), strconv.Itoa(count), tone)
	var cached types.VariationsResult
	if hit, err := s.cache.Get(ctx, key, &cached); err != nil {
		log.Printf("⚠️  Cache read failed for %s: %v", key, err)
	} else if hit {
		log.Printf("✓ Reusing cached variations for %q", truncate(topic, 80))
		injectImages(&cached, req)
		return &cached, nil
	}

	src, err := s.loadSource(ctx, req.InputType, topic, req.Language)
	if err != nil {
		return nil, err
	}

	prompt := variationsPrompt{
		HasSource: src.content != "",
		Metadata:  src.metadata,
		Language:  src.language,
		Count:     count,
	}
	resp, err := s.complete(ctx, llm.ChatRequest{
		System:      prompt.System(),
		User:        variationsUserPrompt(topic, scrapers.SmartTruncate(src.content, config.MaxSourceChars), tone, src.language, count),
		Temperature: config.VariationsTemperature,
		MaxTokens:   config.VariationsMaxTokens,
		JSON:        true,
	})
	if err != nil {
		return nil, err
	}

	var result types.VariationsResult
	if err := llm.DecodeJSON(resp.Content, &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseResponse, err)
	}
	if result.Variations == nil {
		return nil, ErrInvalidResponse
	}
	if e := result.ExtractedEntities; e != nil {
		log.Printf("✓ Entities: host=%q guest=%q", e.Host, e.Guest)
	}

	for i := range result.Variations {
		v := &result.Variations[i]
		applyEntityFocus(v.Data.Slides)
		v.Data.Slides = s.finishSlides(v.Data.Slides)
		if v.Data.Topic == "" {
			v.Data.Topic = src.displayTopic
		}
	}

	if req.InputType == InputYouTube && len(src.segments) > 0 && src.videoID != "" {
		s.attachFrames(ctx, topic, src.videoID, result.Variations)
	}
	if len(result.Variations) > 0 {
		log.Printf("📊 Carousel plan\n%s", frames.PlanSummary(result.Variations[0].Data.Slides))
	}

	if err := s.cache.Set(ctx, key, &result, config.GenerationCacheTTL); err != nil {
		log.Printf("⚠️  Cache write failed for %s: %v", key, err)
	}
	injectImages(&result, req)
	return &result, nil
}

// loadSource extracts the text for inputType. For videos the transcript and
// the metadata lookup run concurrently; metadata failures are only logged.
func (s *Service) loadSource(ctx context.Context, inputType, topic, language string) (*source, error) {
	src := &source{language: languageOrDefault(language)}

	switch inputType {
	case InputYouTube:
		src.displayTopic = "YouTube Video Summary"
		src.videoID = scrapers.ExtractVideoID(topic)

		var transcript *scrapers.Transcript
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			t, err := s.scraper.Transcript(gctx, topic)
			if err != nil {
				return err
			}
			transcript = t
			return nil
		})
		if s.metadata != nil && src.videoID != "" {
			g.Go(func() error {
				v, err := s.metadata.Video(gctx, src.videoID)
				if err != nil {
					log.Printf("⚠️  Video metadata unavailable: %v", err)
					return nil
				}
				src.metadata = v.PromptText()
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			log.Printf("❌ Transcript extraction failed: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
		}

		src.segments = transcript.Segments
		if len(transcript.Segments) > 0 {
			src.content = scrapers.FormatTimestampedTranscript(transcript.Segments)
		} else {
			src.content = transcript.Text
		}
		if name := scrapers.LanguageName(transcript.Language); name != "" {
			src.language = name
		}
		log.Printf("✓ Caption language %s, writing in %s", transcript.Language, src.language)

	case InputLink:
		src.displayTopic = "Article Summary"
		article, err := s.scraper.ExtractWebContent(ctx, topic)
		if err != nil {
			log.Printf("❌ Article extraction failed: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
		}
		src.content = scrapers.SourceText(article)

	case InputFeed:
		src.displayTopic = "Feed Summary"
		content, err := s.scraper.ExtractFeedContent(ctx, scrapers.ResolveFeedURL(topic), config.DefaultFeedItems)
		if err != nil {
			log.Printf("❌ Feed extraction failed: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
		}
		src.content = content

	case InputText:
		src.displayTopic = "Text Content Summary"
		src.content = topic

	default:
		src.displayTopic = topic
	}

	switch inputType {
	case InputYouTube, InputLink, InputFeed:
		if len([]rune(strings.TrimSpace(src.content))) < config.MinSourceChars {
			return nil, ErrInsufficientContent
		}
	}
	if src.content != "" {
		log.Printf("📥 Source content: %d chars", len(src.content))
	}
	return src, nil
}

// attachFrames sets video frames as slide backgrounds. Failures never fail
// the generation.
func (s *Service) attachFrames(ctx context.Context, videoURL, videoID string, variations []types.Variation) {
	if s.frames == nil {
		return
	}
	groups := make([][]types.Slide, len(variations))
	for i := range variations {
		groups[i] = variations[i].Data.Slides
	}

	ranges := frames.CollectRanges(groups...)
	if len(ranges) > 0 {
		log.Printf("🎞️  %d slides carry time segments, extracting median frames", len(ranges))
		res, err := s.frames.ExtractFromRanges(ctx, videoURL, videoID, ranges)
		if err != nil {
			log.Printf("❌ Frame extraction failed: %v", err)
			return
		}
		applied := frames.MapRangeFrames(res.Frames, groups...)
		log.Printf("✅ Applied %d/%d frames", applied, len(ranges))
		return
	}

	log.Printf("⚠️  No segments returned, distributing frames evenly")
	res, err := s.frames.ExtractFrames(ctx, videoURL, videoID)
	if err != nil {
		log.Printf("❌ Frame extraction failed: %v", err)
		return
	}
	frames.DistributeFrames(res.Frames, groups...)
}

// applyEntityFocus makes the title slide about the host and defaults the rest to none.
func applyEntityFocus(slides []types.Slide) {
	for i := range slides {
		focus := strings.ToLower(strings.TrimSpace(slides[i].EntityFocus))
		switch focus {
		case types.EntityHost, types.EntityGuest, types.EntityNone:
		default:
			focus = ""
		}
		if i == 0 && (focus == "" || focus == types.EntityNone) {
			focus = types.EntityHost
		}
		if focus == "" {
			focus = types.EntityNone
		}
		slides[i].EntityFocus = focus
	}
}

func injectImages(result *types.VariationsResult, req VariationsRequest) {
	if req.HostImage == "" && req.GuestImage == "" {
		return
	}
	if result.ExtractedEntities == nil {
		result.ExtractedEntities = &types.ExtractedEntities{}
	}
	result.ExtractedEntities.HostImage = req.HostImage
	result.ExtractedEntities.GuestImage = req.GuestImage
}
