package frames

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"
	"time"

	"carouselforge/config"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// ErrScriptFailed wraps any failure reported by the extractor script.
var ErrScriptFailed = errors.New("frame extraction failed")

// DurationProber returns the length in seconds of a local video file.
type DurationProber func(path string) (float64, error)

// Extractor drives the Python frame extraction script.
type Extractor struct {
	runner    Runner
	framesDir string
	probe     DurationProber
	timeout   time.Duration
}

// Option customizes an Extractor.
type Option func(*Extractor)

// WithRunner replaces the script runner.
func WithRunner(r Runner) Option {
	return func(e *Extractor) { e.runner = r }
}

// WithFramesDir sets the directory the script writes frames to.
func WithFramesDir(dir string) Option {
	return func(e *Extractor) { e.framesDir = dir }
}

// WithProber replaces the ffprobe based duration lookup.
func WithProber(p DurationProber) Option {
	return func(e *Extractor) { e.probe = p }
}

// WithTimeout bounds each script run.
func WithTimeout(d time.Duration) Option {
	return func(e *Extractor) { e.timeout = d }
}

// NewExtractor returns an Extractor using the local interpreter.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		runner:    NewExecRunner(),
		framesDir: config.GetFramesDir(),
		probe:     ProbeDuration,
		timeout:   config.FrameExtractionTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExtractFrames runs legacy mode: evenly spaced frames across the video.
func (e *Extractor) ExtractFrames(ctx context.Context, videoURL, videoID string) (*Result, error) {
	log.Printf("🎞️  Extracting frames for %s", videoID)
	return e.run(ctx, videoURL, videoID)
}

// ExtractQuoteFrames validates frames around each quote timestamp.
func (e *Extractor) ExtractQuoteFrames(ctx context.Context, videoURL, videoID string, timestamps []float64) (*Result, error) {
	if len(timestamps) == 0 {
		return &Result{Success: true, Mode: ModeQuote, VideoID: videoID}, nil
	}
	payload, err := json.Marshal(timestamps)
	if err != nil {
		return nil, fmt.Errorf("encode timestamps: %w", err)
	}
	log.Printf("🎞️  Extracting %d quote frames for %s", len(timestamps), videoID)
	return e.run(ctx, "--quote-mode", videoURL, videoID, "--timestamps", string(payload))
}

// ExtractFromRanges picks one validated frame per transcript range. Local
// sources are probed first and ranges past the end are skipped without
// reaching the script.
func (e *Extractor) ExtractFromRanges(ctx context.Context, source, videoID string, ranges []Range) (*Result, error) {
	if len(ranges) == 0 {
		return &Result{Success: true, Mode: ModeRange, VideoID: videoID}, nil
	}

	kept, skipped := ranges, []Frame(nil)
	if isLocalSource(source) && e.probe != nil {
		duration, err := e.probe(source)
		if err != nil {
			log.Printf("⚠️  Could not probe %s: %v", source, err)
		} else {
			kept, skipped = ClampRanges(ranges, duration)
		}
	}

	result := &Result{Success: true, Mode: ModeRange, VideoID: videoID}
	if len(kept) > 0 {
		payload, err := json.Marshal(kept)
		if err != nil {
			return nil, fmt.Errorf("encode ranges: %w", err)
		}
		log.Printf("🎞️  Extracting %d range frames for %s", len(kept), videoID)
		result, err = e.run(ctx,
			"--ranges", string(payload),
			"--video_path", source,
			"--output_dir", e.framesDir,
			"--video_id", videoID,
		)
		if err != nil {
			return nil, err
		}
	}

	if len(skipped) > 0 {
		result.Frames = append(result.Frames, skipped...)
		sort.SliceStable(result.Frames, func(i, j int) bool {
			return result.Frames[i].SlideIndex < result.Frames[j].SlideIndex
		})
	}
	result.ValidCount, result.SkipCount = result.Counts()
	result.TotalRequested = len(ranges)
	return result, nil
}

// ClampRanges trims ranges to duration. Ranges that start at or after the
// end come back as skipped frames.
func ClampRanges(ranges []Range, duration float64) (kept []Range, skipped []Frame) {
	if duration <= 0 {
		return ranges, nil
	}
	for _, r := range ranges {
		if r.Start >= duration {
			median := (r.Start + r.End) / 2
			skipped = append(skipped, Frame{
				SlideIndex:         r.Index,
				Timestamp:          Timestamp(median),
				TimestampFormatted: FormatTimestamp(median),
				StartTime:          r.Start,
				EndTime:            r.End,
				MedianTime:         median,
				Status:             StatusSkip,
				Reason:             ReasonOutOfBounds,
				Mode:               ModeRange,
			})
			continue
		}
		if r.End > duration {
			r.End = duration
		}
		kept = append(kept, r)
	}
	if len(skipped) > 0 {
		log.Printf("⚠️  %d range(s) fall outside the %.1fs video", len(skipped), duration)
	}
	return kept, skipped
}

func (e *Extractor) run(ctx context.Context, args ...string) (*Result, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	stdout, stderr, runErr := e.runner.Run(ctx, args...)
	result, parseErr := parseResult(stdout)

	if runErr != nil {
		msg := strings.TrimSpace(string(stderr))
		if parseErr == nil && result.Error != "" {
			msg = result.Error
		}
		if ctx.Err() != nil {
			msg = "timed out: " + ctx.Err().Error()
		}
		if msg == "" {
			msg = runErr.Error()
		}
		return nil, fmt.Errorf("%w: %s", ErrScriptFailed, msg)
	}
	if parseErr != nil {
		return nil, fmt.Errorf("%w: parse output: %v", ErrScriptFailed, parseErr)
	}
	if !result.Success {
		msg := result.Error
		if msg == "" {
			msg = "unknown error"
		}
		return nil, fmt.Errorf("%w: %s", ErrScriptFailed, msg)
	}
	return result, nil
}

// parseResult reads the JSON result, tolerating log lines printed before it.
func parseResult(stdout []byte) (*Result, error) {
	data := bytes.TrimSpace(stdout)
	if len(data) == 0 {
		return nil, errors.New("empty output")
	}
	var result Result
	err := json.Unmarshal(data, &result)
	if err == nil {
		return &result, nil
	}
	if i := bytes.LastIndex(data, []byte("\n{")); i >= 0 {
		if json.Unmarshal(data[i+1:], &result) == nil {
			return &result, nil
		}
	}
	return nil, err
}

func isLocalSource(source string) bool {
	return !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://")
}

// ProbeDuration reads a video's duration with ffprobe.
func ProbeDuration(path string) (float64, error) {
	out, err := ffmpeg.Probe(path)
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: %w", path, err)
	}
	var probe struct {
		Format struct {
			Duration string `json:"duration"`
		} `json:"format"`
	}
	if err := json.Unmarshal([]byte(out), &probe); err != nil {
		return 0, fmt.Errorf("decode ffprobe output: %w", err)
	}
	d, err := strconv.ParseFloat(probe.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", probe.Format.Duration, err)
	}
	return d, nil
}
