package generation

import (
	"context"
	"encoding/base64"
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"carouselforge/frames"
	"carouselforge/llm"
	"carouselforge/scrapers"
	"carouselforge/types"
	"carouselforge/uploads"
	"carouselforge/youtube"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testVideoURL = "https://www.youtube.com/watch?v=dQw4w9WgXcQ"

var fixedNow = time.UnixMilli(1700000000000)

type fakeChat struct {
	content  string
	err      error
	requests []llm.ChatRequest
}

func (f *fakeChat) Complete(_ context.Context, req llm.ChatRequest) (llm.ChatResponse, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return llm.ChatResponse{}, f.err
	}
	return llm.ChatResponse{Content: f.content, FinishReason: "stop"}, nil
}

func (f *fakeChat) Name() string { return "fake" }

type fakeImages struct {
	editErr    error
	generated  []string
	edits      [][]llm.Reference
	editPrompt string
}

var pngData = []byte("png-bytes")

func (f *fakeImages) GenerateImage(_ context.Context, prompt string) (llm.Image, error) {
	f.generated = append(f.generated, prompt)
	return llm.Image{B64: base64.StdEncoding.EncodeToString(pngData)}, nil
}

func (f *fakeImages) EditImage(_ context.Context, prompt string, refs []llm.Reference) (llm.Image, error) {
	f.edits = append(f.edits, refs)
	f.editPrompt = prompt
	if f.editErr != nil {
		return llm.Image{}, f.editErr
	}
	return llm.Image{B64: base64.StdEncoding.EncodeToString(pngData)}, nil
}

type fakeTranscripts struct {
	transcript *scrapers.Transcript
	err        error
}

func (f *fakeTranscripts) Fetch(_ context.Context, videoID string) (*scrapers.Transcript, error) {
	if f.err != nil {
		return nil, f.err
	}
	t := *f.transcript
	t.VideoID = videoID
	return &t, nil
}

type fakeFrames struct {
	ranges      []frames.Range
	rangeResult *frames.Result
	legacy      *frames.Result
	legacyCalls int
}

func (f *fakeFrames) ExtractFrames(_ context.Context, _, _ string) (*frames.Result, error) {
	f.legacyCalls++
	return f.legacy, nil
}

func (f *fakeFrames) ExtractFromRanges(_ context.Context, _, _ string, ranges []frames.Range) (*frames.Result, error) {
	f.ranges = ranges
	return f.rangeResult, nil
}

type fakeMetadata struct{}

func (fakeMetadata) Video(_ context.Context, id string) (*youtube.Video, error) {
	return &youtube.Video{ID: id, Title: "Scaling a startup", ChannelTitle: "Founders Talk"}, nil
}

func newService(t *testing.T, chat llm.ChatProvider, opts ...Option) *Service {
	t.Helper()
	base := []Option{
		WithRand(rand.New(rand.NewSource(1))),
		WithClock(func() time.Time { return fixedNow }),
		WithUploads(uploads.New(t.TempDir(), uploads.WithClock(func() time.Time { return fixedNow }))),
		WithFramesDir(t.TempDir()),
	}
	return New(chat, append(base, opts...)...)
}

func longTranscript() *scrapers.Transcript {
	segs := []scrapers.TranscriptSegment{
		{Text: "today we talk about hiring your first engineers", StartTime: 0, Duration: 5},
		{Text: "the biggest mistake is hiring too fast before product market fit", StartTime: 65, Duration: 6},
	}
	return &scrapers.Transcript{Language: "es", Text: segs[0].Text + " " + segs[1].Text, Segments: segs}
}

func TestGenerate(t *testing.T) {
	chat := &fakeChat{content: `{"topic":"Remote work","slides":[{"heading":"Hook","body":"b1"},{"heading":"Tip","body":"b2","layout":"bogus"},{"id":"custom","heading":"CTA","body":"b3"}]}`}
	s := newService(t, chat)

	data, err := s.Generate(context.Background(), GenerateRequest{Topic: "Remote work", Tone: "casual", SlideCount: 3})
	require.NoError(t, err)
	require.Len(t, data.Slides, 3)

	assert.Equal(t, "slide-1", data.Slides[0].ID)
	assert.Equal(t, "custom", data.Slides[2].ID)
	assert.Equal(t, types.LayoutDiagonalSplit, data.Slides[0].Layout)
	for _, sl := range data.Slides {
		assert.True(t, types.IsValidLayout(sl.Layout), sl.Layout)
	}

	require.Len(t, chat.requests, 1)
	req := chat.requests[0]
	assert.Equal(t, 0.7, req.Temperature)
	assert.True(t, req.JSON)
	assert.Contains(t, req.User, "3-slide")
	assert.Contains(t, req.User, "casual")
}

func TestGenerateErrors(t *testing.T) {
	_, err := newService(t, &fakeChat{}).Generate(context.Background(), GenerateRequest{Topic: "  "})
	assert.ErrorIs(t, err, ErrTopicRequired)

	_, err = newService(t, &fakeChat{content: "  "}).Generate(context.Background(), GenerateRequest{Topic: "x"})
	assert.ErrorIs(t, err, ErrEmptyResponse)

	_, err = newService(t, &fakeChat{content: "not json"}).Generate(context.Background(), GenerateRequest{Topic: "x"})
	assert.ErrorIs(t, err, ErrParseResponse)

	_, err = newService(t, &fakeChat{err: llm.ErrTruncated}).Generate(context.Background(), GenerateRequest{Topic: "x"})
	assert.ErrorIs(t, err, llm.ErrTruncated)
}

const variationsJSON = `{
  "extracted_entities": {"host": "Jane", "guest": "Sam"},
  "variations": [
    {"id": "1", "style": "Direct & Actionable", "data": {"topic": "", "slides": [
      {"id": "s1", "heading": "Hire slow", "entityFocus": "none", "segment": {"start": 0, "end": 10}},
      {"id": "s2", "heading": "Fit first", "segment": {"start": 60, "end": 70}},
      {"id": "s3", "heading": "Act", "entityFocus": "guest"}
    ]}},
    {"id": "2", "style": "Story-driven", "data": {"topic": "Hiring", "slides": [
      {"id": "s1", "heading": "A story", "segment": {"start": 0, "end": 12}}
    ]}}
  ]
}`

func TestGenerateVariationsText(t *testing.T) {
	chat := &fakeChat{content: variationsJSON}
	s := newService(t, chat)

	res, err := s.GenerateVariations(context.Background(), VariationsRequest{
		Topic:     "A long pasted article about hiring engineers carefully and slowly.",
		InputType: InputText,
		HostImage: "/uploads/host.png",
	})
	require.NoError(t, err)
	require.Len(t, res.Variations, 2)

	first := res.Variations[0].Data
	assert.Equal(t, "Text Content Summary", first.Topic)
	assert.Equal(t, "Hiring", res.Variations[1].Data.Topic)
	assert.Equal(t, types.EntityHost, first.Slides[0].EntityFocus)
	assert.Equal(t, types.EntityNone, first.Slides[1].EntityFocus)
	assert.Equal(t, types.EntityGuest, first.Slides[2].EntityFocus)

	require.NotNil(t, res.ExtractedEntities)
	assert.Equal(t, "Jane", res.ExtractedEntities.Host)
	assert.Equal(t, "/uploads/host.png", res.ExtractedEntities.HostImage)

	req := chat.requests[0]
	assert.Equal(t, 0.8, req.Temperature)
	assert.Equal(t, 4096, req.MaxTokens)
	assert.Contains(t, req.System, "SOURCE MATERIAL")
	assert.Contains(t, req.User, "hiring engineers carefully")
}

func TestGenerateVariationsTopicOnly(t *testing.T) {
	chat := &fakeChat{content: variationsJSON}
	s := newService(t, chat)

	_, err := s.GenerateVariations(context.Background(), VariationsRequest{Topic: "5 habits of great founders", SlideCount: 4})
	require.NoError(t, err)
	req := chat.requests[0]
	assert.NotContains(t, req.System, "SOURCE MATERIAL")
	assert.Contains(t, req.User, "5 habits of great founders")
	assert.Contains(t, req.User, "professional")
	assert.Contains(t, req.User, "exactly 4 slides")
}

func TestGenerateVariationsYouTubeRangeFrames(t *testing.T) {
	chat := &fakeChat{content: variationsJSON}
	ff := &fakeFrames{rangeResult: &frames.Result{Success: true, Frames: []frames.Frame{
		{SlideIndex: 0, Timestamp: 5, Status: frames.StatusValid, URL: "/frames/f0.jpg"},
		{SlideIndex: 1, Timestamp: 65, Status: frames.StatusSkip, Reason: frames.ReasonFaceBlurry},
		{SlideIndex: 3, Timestamp: 6, Status: frames.StatusValid, URL: "/frames/f3.jpg"},
	}}}
	sc := scrapers.New(scrapers.WithTranscriptFetcher(&fakeTranscripts{transcript: longTranscript()}))
	s := newService(t, chat, WithScraper(sc), WithFrames(ff), WithMetadata(fakeMetadata{}))

	res, err := s.GenerateVariations(context.Background(), VariationsRequest{Topic: testVideoURL, InputType: InputYouTube, Language: "English"})
	require.NoError(t, err)

	req := chat.requests[0]
	assert.Contains(t, req.System, "Spanish")
	assert.Contains(t, req.System, "Channel: Founders Talk")
	assert.Contains(t, req.User, "[01:05] the biggest mistake")

	require.Len(t, ff.ranges, 3)
	assert.Equal(t, []int{0, 1, 3}, []int{ff.ranges[0].Index, ff.ranges[1].Index, ff.ranges[2].Index})

	v1 := res.Variations[0].Data.Slides
	assert.Equal(t, "/frames/f0.jpg", v1[0].BackgroundImageURL)
	require.NotNil(t, v1[1].ValidatedFrame)
	assert.Equal(t, frames.ReasonFaceBlurry, v1[1].ValidatedFrame.Reason)
	assert.Empty(t, v1[1].BackgroundImageURL)
	assert.Equal(t, "/frames/f3.jpg", res.Variations[1].Data.Slides[0].BackgroundImageURL)
	assert.Equal(t, "YouTube Video Summary", res.Variations[0].Data.Topic)
}

func TestGenerateVariationsYouTubeLegacyFrames(t *testing.T) {
	chat := &fakeChat{content: `{"variations":[{"id":"1","data":{"slides":[{"heading":"a"},{"heading":"b"}]}}]}`}
	ff := &fakeFrames{legacy: &frames.Result{Success: true, Frames: []frames.Frame{
		{URL: "/frames/1.jpg"}, {URL: "/frames/2.jpg"}, {URL: "/frames/3.jpg"}, {URL: "/frames/4.jpg"},
	}}}
	sc := scrapers.New(scrapers.WithTranscriptFetcher(&fakeTranscripts{transcript: longTranscript()}))
	s := newService(t, chat, WithScraper(sc), WithFrames(ff))

	res, err := s.GenerateVariations(context.Background(), VariationsRequest{Topic: testVideoURL, InputType: InputYouTube})
	require.NoError(t, err)
	assert.Equal(t, 1, ff.legacyCalls)

	slides := res.Variations[0].Data.Slides
	assert.Equal(t, "/frames/1.jpg", slides[0].BackgroundImageURL)
	assert.Equal(t, "/frames/3.jpg", slides[1].BackgroundImageURL)
	assert.NotNil(t, slides[1].ExtractedFrame)
}

func TestGenerateVariationsSourceErrors(t *testing.T) {
	short := &scrapers.Transcript{Language: "en", Text: "too short", Segments: []scrapers.TranscriptSegment{{Text: "too short"}}}
	sc := scrapers.New(scrapers.WithTranscriptFetcher(&fakeTranscripts{transcript: short}))
	s := newService(t, &fakeChat{content: variationsJSON}, WithScraper(sc))
	_, err := s.GenerateVariations(context.Background(), VariationsRequest{Topic: testVideoURL, InputType: InputYouTube})
	assert.ErrorIs(t, err, ErrInsufficientContent)

	sc = scrapers.New(scrapers.WithTranscriptFetcher(&fakeTranscripts{err: scrapers.ErrNoTranscript}))
	s = newService(t, &fakeChat{content: variationsJSON}, WithScraper(sc))
	_, err = s.GenerateVariations(context.Background(), VariationsRequest{Topic: testVideoURL, InputType: InputYouTube})
	assert.ErrorIs(t, err, ErrExtractionFailed)
}

func TestGenerateVariationsInvalidStructure(t *testing.T) {
	s := newService(t, &fakeChat{content: `{"slides":[]}`})
	_, err := s.GenerateVariations(context.Background(), VariationsRequest{Topic: "x"})
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestAdaptContent(t *testing.T) {
	chat := &fakeChat{content: `{"slides":[{"id":"b","body":"short b"},{"id":"a","body":"short a","bodyShort":"a!"}]}`}
	s := newService(t, chat)

	in := []types.Slide{
		{ID: "a", Heading: "A", Body: "long a", BackgroundImageURL: "/uploads/a.png"},
		{ID: "b", Heading: "B", Body: "long b"},
		{ID: "c", Heading: "C", Body: "long c"},
	}
	res, err := s.AdaptContent(context.Background(), AdaptRequest{Slides: in, Layout: types.LayoutCard, Topic: "t"})
	require.NoError(t, err)
	require.Len(t, res.Slides, 3)

	assert.Equal(t, "a", res.Slides[0].ID)
	assert.Equal(t, "short a", res.Slides[0].Body)
	assert.Equal(t, "a!", res.Slides[0].BodyShort)
	assert.Equal(t, "A", res.Slides[0].Heading)
	assert.Equal(t, "/uploads/a.png", res.Slides[0].BackgroundImageURL)
	assert.Equal(t, "short b", res.Slides[1].Body)
	assert.Equal(t, "long c", res.Slides[2].Body)

	assert.Contains(t, chat.requests[0].System, "compact")
	assert.Contains(t, chat.requests[0].User, "about 100 characters")
}

func TestAdaptContentFallsBackToCentered(t *testing.T) {
	for _, layout := range []string{"nope", ""} {
		t.Run("layout="+layout, func(t *testing.T) {
			chat := &fakeChat{content: `{"slides":[{"id":"a","body":"x"}]}`}
			s := newService(t, chat)
			slides := []types.Slide{{ID: "a", Layout: types.LayoutCard}}
			_, err := s.AdaptContent(context.Background(), AdaptRequest{Slides: slides, Layout: layout})
			require.NoError(t, err)
			assert.Contains(t, chat.requests[0].System, "centered")
		})
	}
}

func dataURI() string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngData)
}

func TestGenerateImageWithoutReferences(t *testing.T) {
	imgs := &fakeImages{}
	s := newService(t, &fakeChat{}, WithImages(imgs))

	res, err := s.GenerateImage(context.Background(), ImageRequest{Topic: "Hiring", SlideHeading: "Hire slow", SlideID: "abc"})
	require.NoError(t, err)
	assert.Equal(t, "/uploads/slide-abc-1700000000000.png", res.ImageURL)
	require.Len(t, imgs.generated, 1)
	assert.Empty(t, imgs.edits)
	assert.Contains(t, imgs.generated[0], "ENVIRONMENT")
}

func TestGenerateImageReferences(t *testing.T) {
	tests := []struct {
		name  string
		req   ImageRequest
		names []string
	}{
		{"title slide uses both", ImageRequest{SlideIndex: 0, HostImage: dataURI(), GuestImage: dataURI()}, []string{"host.png", "guest.png"}},
		{"guest focus", ImageRequest{SlideIndex: 3, EntityFocus: "guest", HostImage: dataURI(), GuestImage: dataURI()}, []string{"guest.png"}},
		{"none focus defaults to host", ImageRequest{SlideIndex: 3, EntityFocus: "none", HostImage: dataURI(), GuestImage: dataURI()}, []string{"host.png"}},
		{"only guest available", ImageRequest{SlideIndex: 2, EntityFocus: "host", GuestImage: dataURI()}, []string{"guest.png"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			imgs := &fakeImages{}
			s := newService(t, &fakeChat{}, WithImages(imgs))

			_, err := s.GenerateImage(context.Background(), tt.req)
			require.NoError(t, err)
			require.Len(t, imgs.edits, 1)
			var names []string
			for _, r := range imgs.edits[0] {
				names = append(names, r.Name)
				assert.Equal(t, pngData, r.Data)
			}
			assert.Equal(t, tt.names, names)
		})
	}
}

func TestGenerateImageEditFallback(t *testing.T) {
	imgs := &fakeImages{editErr: &llm.StatusError{StatusCode: 404, Code: "model_not_found", Message: "no"}}
	s := newService(t, &fakeChat{}, WithImages(imgs))

	res, err := s.GenerateImage(context.Background(), ImageRequest{HostImage: dataURI()})
	require.NoError(t, err)
	assert.Len(t, imgs.generated, 1)
	assert.Equal(t, "/uploads/slide-1700000000000-1700000000000.png", res.ImageURL)
}

func TestGenerateImageNotConfigured(t *testing.T) {
	s := newService(t, &fakeChat{})
	_, err := s.GenerateImage(context.Background(), ImageRequest{})
	assert.ErrorIs(t, err, ErrNoImageGenerator)
}

func TestEnhanceImage(t *testing.T) {
	imgs := &fakeImages{}
	s := newService(t, &fakeChat{}, WithImages(imgs))

	res, err := s.EnhanceImage(context.Background(), EnhanceRequest{ImageURL: dataURI(), EnhancementType: EnhanceCustom, CustomPrompt: "rooftop at dusk", SlideID: "7"})
	require.NoError(t, err)
	assert.Equal(t, "/uploads/enhanced-slide-7-1700000000000.png", res.ImageURL)
	assert.Equal(t, EnhanceCustom, res.EnhancementType)
	assert.Contains(t, imgs.editPrompt, "rooftop at dusk")
	assert.Contains(t, imgs.editPrompt, "BACKGROUND REPLACEMENT")
}

func TestEnhanceImageFromFrames(t *testing.T) {
	imgs := &fakeImages{}
	s := newService(t, &fakeChat{}, WithImages(imgs))
	require.NoError(t, os.WriteFile(filepath.Join(s.framesDir, "f1.jpg"), []byte("frame"), 0o644))

	res, err := s.EnhanceImage(context.Background(), EnhanceRequest{ImageURL: "/frames/f1.jpg"})
	require.NoError(t, err)
	assert.Equal(t, EnhanceQuality, res.EnhancementType)
	assert.Equal(t, []byte("frame"), imgs.edits[0][0].Data)
	assert.True(t, strings.HasPrefix(res.ImageURL, "/uploads/enhanced-"))
}

func TestEnhanceImageErrors(t *testing.T) {
	imgs := &fakeImages{editErr: &llm.StatusError{StatusCode: 400, Message: "Unknown parameter: 'quality'"}}
	s := newService(t, &fakeChat{}, WithImages(imgs))

	_, err := s.EnhanceImage(context.Background(), EnhanceRequest{})
	assert.ErrorIs(t, err, ErrImageRequired)

	_, err = s.EnhanceImage(context.Background(), EnhanceRequest{ImageURL: dataURI()})
	assert.ErrorIs(t, err, ErrEditUnavailable)

	_, err = s.EnhanceImage(context.Background(), EnhanceRequest{ImageURL: "/frames/../secret"})
	assert.Error(t, err)

	imgs.editErr = &llm.StatusError{StatusCode: 400, Code: "content_policy_violation", Message: "blocked"}
	_, err = s.EnhanceImage(context.Background(), EnhanceRequest{ImageURL: dataURI()})
	assert.True(t, llm.IsContentPolicy(err))
	assert.False(t, errors.Is(err, ErrEditUnavailable))
}

func TestPoseRotation(t *testing.T) {
	p := imagePrompt{SlideIndex: 11, EntityFocus: types.EntityHost, HasHost: true}
	assert.Contains(t, p.Full(), poses[1].body)
	assert.Contains(t, p.Full(), "SLIDE #12")
	assert.Contains(t, p.Summary(), "Host photo")

	assert.Equal(t, enhancementPrompts[EnhanceQuality], enhancementPrompt("unknown", ""))
	assert.Equal(t, enhancementPrompts[EnhanceQuality], enhancementPrompt(EnhanceCustom, "  "))
}
