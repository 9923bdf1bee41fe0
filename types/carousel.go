package types

import (
	"encoding/json"
	"time"
)

// Entity focus values tell the image generator which person a slide is about.
const (
	EntityHost  = "host"
	EntityGuest = "guest"
	EntityNone  = "none"
)

// Position is a percentage offset (0-100) of a background image.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Segment is a transcript time range in seconds.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Median returns the midpoint of the range.
func (s Segment) Median() float64 {
	return (s.Start + s.End) / 2
}

// ValidatedFrame is a video frame picked for a slide, with its validation verdict.
type ValidatedFrame struct {
	URL                string    `json:"url,omitempty"`
	Path               string    `json:"path,omitempty"`
	Filename           string    `json:"filename,omitempty"`
	Timestamp          float64   `json:"timestamp"`
	TimestampFormatted string    `json:"timestampFormatted,omitempty"`
	SlideIndex         int       `json:"slideIndex"`
	Status             string    `json:"status"`
	Reason             string    `json:"reason,omitempty"`
	StartTime          float64   `json:"startTime,omitempty"`
	EndTime            float64   `json:"endTime,omitempty"`
	Confidence         float64   `json:"confidence,omitempty"`
	BlurScore          float64   `json:"blurScore,omitempty"`
	FaceCount          int       `json:"faceCount,omitempty"`
	FaceBox            []float64 `json:"faceBox,omitempty"`
}

// Slide is one page of a carousel.
type Slide struct {
	ID             string `json:"id"`
	Heading        string `json:"heading"`
	Body           string `json:"body"`
	BodyShort      string `json:"bodyShort,omitempty"`
	BodyLong       string `json:"bodyLong,omitempty"`
	SuggestedImage string `json:"suggested_image,omitempty"`
	Tone           string `json:"tone,omitempty"`
	MinTextVersion string `json:"min_text_version,omitempty"`
	MaxTextVersion string `json:"max_text_version,omitempty"`

	BackgroundImageURL      string    `json:"backgroundImageUrl,omitempty"`
	BackgroundImagePosition *Position `json:"backgroundImagePosition,omitempty"`
	BackgroundImageScale    *float64  `json:"backgroundImageScale,omitempty"`
	BackgroundImageRotation *float64  `json:"backgroundImageRotation,omitempty"`
	Layout                  string    `json:"layout,omitempty"`

	UseExtendedDescription bool            `json:"useExtendedDescription,omitempty"`
	UseShortDescription    *bool           `json:"useShortDescription,omitempty"`
	CustomTexts            json.RawMessage `json:"customTexts,omitempty"`

	EntityFocus      string          `json:"entityFocus,omitempty"`
	Segment          *Segment        `json:"segment,omitempty"`
	TimestampSeconds *float64        `json:"timestamp_seconds,omitempty"`
	ValidatedFrame   *ValidatedFrame `json:"validatedFrame,omitempty"`
	ExtractedFrame   *ValidatedFrame `json:"extractedFrame,omitempty"`
}

// ApplyImageDefaults fills background placement fields a stored slide may
// lack. A zero scale counts as unset.
func (s *Slide) ApplyImageDefaults() {
	if s.BackgroundImagePosition == nil {
		s.BackgroundImagePosition = &Position{X: 50, Y: 50}
	}
	if s.BackgroundImageScale == nil || *s.BackgroundImageScale == 0 {
		scale := 100.0
		s.BackgroundImageScale = &scale
	}
	if s.BackgroundImageRotation == nil {
		rotation := 0.0
		s.BackgroundImageRotation = &rotation
	}
}

// ApplyImageDefaults fills placement defaults on every slide.
func (p *Project) ApplyImageDefaults() {
	for i := range p.Slides {
		p.Slides[i].ApplyImageDefaults()
	}
}

// CarouselData is the editor-facing shape of a carousel.
type CarouselData struct {
	ID          string  `json:"id,omitempty"`
	Topic       string  `json:"topic"`
	Slides      []Slide `json:"slides"`
	BrandName   string  `json:"brandName,omitempty"`
	BrandHandle string  `json:"brandHandle,omitempty"`
	BrandImage  string  `json:"brandImage,omitempty"`
	HostImage   string  `json:"hostImage,omitempty"`
	GuestImage  string  `json:"guestImage,omitempty"`
	Theme       *Theme  `json:"theme,omitempty"`
	TemplateID  string  `json:"templateId,omitempty"`
}

// Variation is one stylistic take on a generated carousel.
type Variation struct {
	ID          string       `json:"id"`
	Style       string       `json:"style"`
	Description string       `json:"description"`
	Data        CarouselData `json:"data"`
}

// ExtractedEntities names the people the model found in the source.
type ExtractedEntities struct {
	Host       string `json:"host,omitempty"`
	Guest      string `json:"guest,omitempty"`
	HostImage  string `json:"hostImage,omitempty"`
	GuestImage string `json:"guestImage,omitempty"`
}

// VariationsResult is the response of a variations generation.
type VariationsResult struct {
	ExtractedEntities *ExtractedEntities `json:"extracted_entities,omitempty"`
	Variations        []Variation        `json:"variations"`
}

// Project is a saved carousel.
type Project struct {
	ID                   string    `json:"id"`
	Topic                string    `json:"topic"`
	ThemeID              string    `json:"themeId,omitempty"`
	ThemeName            string    `json:"themeName,omitempty"`
	ThemeBackgroundColor string    `json:"themeBackgroundColor,omitempty"`
	ThemeTextColor       string    `json:"themeTextColor,omitempty"`
	ThemeAccentColor     string    `json:"themeAccentColor,omitempty"`
	ThemeHeadingColor    string    `json:"themeHeadingColor,omitempty"`
	ThemeTexture         string    `json:"themeTexture,omitempty"`
	BrandName            string    `json:"brandName,omitempty"`
	BrandHandle          string    `json:"brandHandle,omitempty"`
	BrandImage           string    `json:"brandImage,omitempty"`
	HostImage            string    `json:"hostImage,omitempty"`
	GuestImage           string    `json:"guestImage,omitempty"`
	TemplateID           string    `json:"templateId,omitempty"`
	Slides               []Slide   `json:"slides"`
	SlideCount           int       `json:"slideCount"`
	CreatedAt            time.Time `json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
}

// Theme returns the project's theme, or nil when none was saved.
func (p *Project) Theme() *Theme {
	if p.ThemeID == "" && p.ThemeBackgroundColor == "" {
		return nil
	}
	return &Theme{
		ID:              p.ThemeID,
		Name:            p.ThemeName,
		BackgroundColor: p.ThemeBackgroundColor,
		TextColor:       p.ThemeTextColor,
		AccentColor:     p.ThemeAccentColor,
		HeadingColor:    p.ThemeHeadingColor,
		Texture:         p.ThemeTexture,
	}
}

// SetTheme copies theme fields onto the project.
func (p *Project) SetTheme(t *Theme) {
	if t == nil {
		return
	}
	p.ThemeID = t.ID
	p.ThemeName = t.Name
	p.ThemeBackgroundColor = t.BackgroundColor
	p.ThemeTextColor = t.TextColor
	p.ThemeAccentColor = t.AccentColor
	p.ThemeHeadingColor = t.HeadingColor
	p.ThemeTexture = t.Texture
}

// CarouselData converts a stored project to the editor shape, with image defaults applied.
func (p *Project) CarouselData() CarouselData {
	slides := make([]Slide, len(p.Slides))
	for i, s := range p.Slides {
		s.ApplyImageDefaults()
		slides[i] = s
	}
	return CarouselData{
		ID:          p.ID,
		Topic:       p.Topic,
		Slides:      slides,
		BrandName:   p.BrandName,
		BrandHandle: p.BrandHandle,
		BrandImage:  p.BrandImage,
		HostImage:   p.HostImage,
		GuestImage:  p.GuestImage,
		Theme:       p.Theme(),
		TemplateID:  p.TemplateID,
	}
}

// BrandKit is a reusable set of brand identity settings.
type BrandKit struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Website   string          `json:"website,omitempty"`
	Handle    string          `json:"handle,omitempty"`
	ImageURL  string          `json:"imageUrl,omitempty"`
	Colors    json.RawMessage `json:"colors,omitempty"`
	Fonts     json.RawMessage `json:"fonts,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// BrandColors is the color palette of a brand kit.
type BrandColors struct {
	Background string `json:"background"`
	Text       string `json:"text"`
	Accent     string `json:"accent"`
	Heading    string `json:"heading,omitempty"`
}

// BrandFonts is the font pairing of a brand kit.
type BrandFonts struct {
	Heading string `json:"heading"`
	Body    string `json:"body"`
}
