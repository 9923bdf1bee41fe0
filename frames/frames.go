package frames

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"carouselforge/types"
)

// Frame statuses reported by the extractor
const (
	StatusValid = "VALID"
	StatusSkip  = "SKIP_FRAME"
)

// Skip reasons
const (
	ReasonNoFaceDetected       = "NO_FACE_DETECTED"
	ReasonFacePartiallyBlocked = "FACE_PARTIALLY_BLOCKED"
	ReasonFaceTooSmall         = "FACE_TOO_SMALL"
	ReasonFaceBlurry           = "FACE_BLURRY"
	ReasonIdentityUnclear      = "IDENTITY_UNCLEAR"
	ReasonNoFaceInRange        = "NO_FACE_IN_RANGE"
	ReasonOutOfBounds          = "TIMESTAMP_OUT_OF_BOUNDS"
	ReasonFrameReadFailed      = "FRAME_READ_FAILED"
	ReasonQualityTooPoor       = "QUALITY_TOO_POOR"
	ReasonLowConfidenceMatch   = "LOW_CONFIDENCE_MATCH"
	ReasonUnknown              = "UNKNOWN"
)

// Extraction modes
const (
	ModeLegacy = "legacy"
	ModeQuote  = "quote"
	ModeRange  = "range"
)

// QuoteSeekOffsets are the offsets in seconds tried around a quote timestamp, in order.
var QuoteSeekOffsets = []float64{0, 0.5, 1, 1.5, 2, -0.5, -1}

// Timestamp is a position in seconds. The extractor sends either a number or
// a "MM:SS" / "HH:MM:SS" string depending on the mode.
type Timestamp float64

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*t = Timestamp(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	sec, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*t = Timestamp(sec)
	return nil
}

// Range is a transcript window a frame should be picked from.
type Range struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Index int     `json:"index"`
}

// Frame is one extracted (or skipped) frame.
type Frame struct {
	SlideIndex         int             `json:"slideIndex"`
	Timestamp          Timestamp       `json:"timestamp"`
	TimestampSeconds   *float64        `json:"timestampSeconds,omitempty"`
	TimestampFormatted string          `json:"timestampFormatted,omitempty"`
	OriginalTimestamp  *float64        `json:"originalTimestamp,omitempty"`
	Status             string          `json:"status,omitempty"`
	Reason             string          `json:"reason,omitempty"`
	Filename           string          `json:"filename,omitempty"`
	Path               string          `json:"path,omitempty"`
	URL                string          `json:"url,omitempty"`
	StartTime          float64         `json:"startTime,omitempty"`
	EndTime            float64         `json:"endTime,omitempty"`
	MedianTime         float64         `json:"medianTime,omitempty"`
	Confidence         float64         `json:"confidence,omitempty"`
	BlurScore          float64         `json:"blurScore,omitempty"`
	FaceCount          int             `json:"faceCount,omitempty"`
	FaceBox            []float64       `json:"faceBox,omitempty"`
	PersonIndex        *int            `json:"personIndex,omitempty"`
	Mode               string          `json:"mode,omitempty"`
	Details            json.RawMessage `json:"details,omitempty"`
}

// Seconds returns the frame position, preferring the explicit seconds field.
func (f Frame) Seconds() float64 {
	if f.TimestampSeconds != nil {
		return *f.TimestampSeconds
	}
	if f.Timestamp == 0 && f.MedianTime > 0 {
		return f.MedianTime
	}
	return float64(f.Timestamp)
}

// Valid reports whether the frame passed validation and has an image.
func (f Frame) Valid() bool {
	return f.Status == StatusValid && f.URL != ""
}

// Validated converts the frame to the shape stored on slides.
func (f Frame) Validated() *types.ValidatedFrame {
	sec := f.Seconds()
	formatted := f.TimestampFormatted
	if formatted == "" {
		formatted = FormatTimestamp(sec)
	}
	status := f.Status
	if status == "" && f.URL != "" {
		status = StatusValid
	}
	return &types.ValidatedFrame{
		URL:                f.URL,
		Path:               f.Path,
		Filename:           f.Filename,
		Timestamp:          sec,
		TimestampFormatted: formatted,
		SlideIndex:         f.SlideIndex,
		Status:             status,
		Reason:             f.Reason,
		StartTime:          f.StartTime,
		EndTime:            f.EndTime,
		Confidence:         f.Confidence,
		BlurScore:          f.BlurScore,
		FaceCount:          f.FaceCount,
		FaceBox:            f.FaceBox,
	}
}

// Result is the JSON document the extractor prints on stdout.
type Result struct {
	Success        bool    `json:"success"`
	Mode           string  `json:"mode,omitempty"`
	VideoID        string  `json:"videoId,omitempty"`
	FrameCount     int     `json:"frameCount,omitempty"`
	TotalRequested int     `json:"totalRequested,omitempty"`
	ValidCount     int     `json:"validCount,omitempty"`
	SkipCount      int     `json:"skipCount,omitempty"`
	Frames         []Frame `json:"frames"`
	Error          string  `json:"error,omitempty"`
}

// Counts tallies valid and skipped frames.
func (r *Result) Counts() (valid, skipped int) {
	for _, f := range r.Frames {
		if f.Status == StatusSkip {
			skipped++
		} else {
			valid++
		}
	}
	return valid, skipped
}

// FormatTimestamp renders seconds as MM:SS, or HH:MM:SS past the hour.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// ParseTimestamp reads "SS", "MM:SS" or "HH:MM:SS".
func ParseTimestamp(s string) (float64, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) == 0 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid timestamp %q", s)
	}
	var total float64
	for _, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil || v < 0 {
			return 0, fmt.Errorf("invalid timestamp %q", s)
		}
		total = total*60 + v
	}
	return total, nil
}
