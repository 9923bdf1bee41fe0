package types

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

// Template categories.
const (
	CategoryModern   = "modern"
	CategoryMinimal  = "minimal"
	CategoryBold     = "bold"
	CategoryCreative = "creative"
	CategoryElegant  = "elegant"
)

// TextStyle is the typography of a text layer.
type TextStyle struct {
	FontFamily    string  `json:"fontFamily"`
	Weight        string  `json:"weight"`
	FontSize      float64 `json:"fontSize"`
	Color         string  `json:"color"`
	Align         string  `json:"align"`
	FontStyle     string  `json:"fontStyle,omitempty"`
	Case          string  `json:"case,omitempty"`
	LetterSpacing string  `json:"letterSpacing,omitempty"`
	LineHeight    float64 `json:"lineHeight,omitempty"`
	Shadow        string  `json:"shadow,omitempty"`
	Background    string  `json:"background,omitempty"`
	Padding       string  `json:"padding,omitempty"`
}

// TemplateLayer is one positioned element of a template. Coordinates are percentages.
type TemplateLayer struct {
	Type         string     `json:"type"`
	ID           string     `json:"id"`
	ZIndex       int        `json:"zIndex"`
	X            float64    `json:"x"`
	Y            float64    `json:"y"`
	Width        float64    `json:"width,omitempty"`
	Height       float64    `json:"height,omitempty"`
	Rotation     float64    `json:"rotation,omitempty"`
	Opacity      float64    `json:"opacity,omitempty"`
	BlendMode    string     `json:"blendMode,omitempty"`
	ShapeType    string     `json:"shapeType,omitempty"`
	Fill         string     `json:"fill,omitempty"`
	Stroke       string     `json:"stroke,omitempty"`
	StrokeWidth  float64    `json:"strokeWidth,omitempty"`
	BorderRadius float64    `json:"borderRadius,omitempty"`
	Shadow       string     `json:"shadow,omitempty"`
	TextStyle    *TextStyle `json:"textStyle,omitempty"`
	Src          string     `json:"src,omitempty"`
	Mask         string     `json:"mask,omitempty"`
	Blur         float64    `json:"blur,omitempty"`
}

// BackgroundStyle approximates a template's background for picker previews.
type BackgroundStyle struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Template is a layered slide design. Intro and outro layers, when present,
// replace the regular layers on the first and last slide.
type Template struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Category        string          `json:"category"`
	Description     string          `json:"description"`
	Fonts           []string        `json:"fonts"`
	BackgroundStyle BackgroundStyle `json:"backgroundStyle"`
	Layers          []TemplateLayer `json:"layers"`
	IntroLayers     []TemplateLayer `json:"introLayers,omitempty"`
	OutroLayers     []TemplateLayer `json:"outroLayers,omitempty"`
}

// LayersFor returns the layers used for slide index of a deck with total slides.
func (t Template) LayersFor(index, total int) []TemplateLayer {
	if index == 0 && len(t.IntroLayers) > 0 {
		return t.IntroLayers
	}
	if index == total-1 && total > 1 && len(t.OutroLayers) > 0 {
		return t.OutroLayers
	}
	return t.Layers
}

//go:embed templates.json
var templatesJSON []byte

// Templates is the built-in template catalogue.
var Templates = mustLoadTemplates(templatesJSON)

func mustLoadTemplates(data []byte) []Template {
	var out []Template
	if err := json.Unmarshal(data, &out); err != nil {
		panic(fmt.Sprintf("parse embedded templates: %v", err))
	}
	return out
}

// TemplateByID returns the template with the given id.
func TemplateByID(id string) (Template, bool) {
	for _, t := range Templates {
		if t.ID == id {
			return t, true
		}
	}
	return Template{}, false
}

// TemplatesByCategory filters the catalogue. "all" or an empty category returns everything.
func TemplatesByCategory(category string) []Template {
	if category == "" || category == "all" {
		return Templates
	}
	out := make([]Template, 0, len(Templates))
	for _, t := range Templates {
		if t.Category == category {
			out = append(out, t)
		}
	}
	return out
}
