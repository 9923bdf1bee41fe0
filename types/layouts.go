package types

import "math/rand"

// Content sizes decide which body variant a layout shows.
const (
	ContentCompact  = "compact"
	ContentStandard = "standard"
)

// Layout ids.
const (
	LayoutCentered      = "centered"
	LayoutSplitLeft     = "split-left"
	LayoutSplitRight    = "split-right"
	LayoutArchLeft      = "arch-left"
	LayoutArchRight     = "arch-right"
	LayoutCircleFrame   = "circle-frame"
	LayoutDiagonalSplit = "diagonal-split"
	LayoutCard          = "card"
	LayoutMinimal       = "minimal"
	LayoutBold          = "bold"
	LayoutQuote         = "quote"
	LayoutNumbered      = "numbered"
	LayoutGradientText  = "gradient-text"
	LayoutSidebar       = "sidebar"
	LayoutStacked       = "stacked"
	LayoutMagazine      = "magazine"
)

// LayoutConfig describes how much text a layout can hold.
type LayoutConfig struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	ContentSize  string `json:"contentSize"`
	HasImageArea bool   `json:"hasImageArea"`
	MaxBodyChars int    `json:"maxBodyChars"`
}

// Layouts lists every slide layout in picker order.
var Layouts = []LayoutConfig{
	{LayoutCentered, "Centered", "Classic centered text layout", ContentStandard, false, 200},
	{LayoutSplitLeft, "Split Left", "Text on left, visual space on right", ContentStandard, true, 180},
	{LayoutSplitRight, "Split Right", "Visual space on left, text on right", ContentStandard, true, 180},
	{LayoutArchLeft, "Arch Left", "Image in arch frame on left", ContentStandard, true, 150},
	{LayoutArchRight, "Arch Right", "Image in arch frame on right", ContentStandard, true, 150},
	{LayoutCircleFrame, "Circle Frame", "Image in circular frame", ContentCompact, true, 80},
	{LayoutDiagonalSplit, "Diagonal Split", "Diagonal image with text overlay", ContentCompact, true, 100},
	{LayoutCard, "Card", "Content in a floating card", ContentCompact, false, 100},
	{LayoutMinimal, "Minimal", "Clean with lots of whitespace", ContentCompact, false, 80},
	{LayoutBold, "Bold", "Large impactful typography", ContentStandard, false, 250},
	{LayoutQuote, "Quote", "Quote-style with decorative marks", ContentStandard, false, 150},
	{LayoutNumbered, "Numbered", "Large slide numbers as accent", ContentCompact, false, 120},
	{LayoutGradientText, "Gradient Text", "Text with gradient effect", ContentStandard, false, 150},
	{LayoutSidebar, "Sidebar", "Accent bar on the side", ContentStandard, false, 180},
	{LayoutStacked, "Stacked", "Heading and body stacked vertically", ContentStandard, false, 220},
	{LayoutMagazine, "Magazine", "Editorial magazine style", ContentStandard, false, 280},
}

var (
	middleLayouts = []string{
		LayoutArchLeft, LayoutArchRight, LayoutCircleFrame,
		LayoutSplitLeft, LayoutSplitRight, LayoutQuote,
		LayoutNumbered, LayoutSidebar, LayoutStacked,
	}
	lastSlideLayouts = []string{LayoutCentered, LayoutCard}
)

// LayoutByID returns the layout config for id.
func LayoutByID(id string) (LayoutConfig, bool) {
	for _, l := range Layouts {
		if l.ID == id {
			return l, true
		}
	}
	return LayoutConfig{}, false
}

// IsValidLayout reports whether id names a known layout.
func IsValidLayout(id string) bool {
	_, ok := LayoutByID(id)
	return ok
}

// BodyForLayout picks the body text a slide should show in the given layout.
// An explicit short/long choice made in the editor wins over the layout's size.
func BodyForLayout(s Slide, layoutID string) string {
	layout, ok := LayoutByID(layoutID)
	if !ok {
		return s.Body
	}

	if s.UseExtendedDescription && s.UseShortDescription != nil {
		if *s.UseShortDescription {
			return firstNonEmpty(s.BodyShort, s.Body)
		}
		return firstNonEmpty(s.BodyLong, s.Body)
	}

	switch layout.ContentSize {
	case ContentCompact:
		if s.BodyShort != "" {
			return s.BodyShort
		}
		return truncateRunes(s.Body, layout.MaxBodyChars)
	case ContentStandard:
		return firstNonEmpty(s.BodyLong, s.Body)
	default:
		return s.Body
	}
}

// AssignSlideLayouts gives every slide a layout: diagonal-split first, centered
// or card last, and a random image-friendly layout in between. Slides that
// already carry a layout keep it unless forceReassign is set.
func AssignSlideLayouts(slides []Slide, forceReassign bool, rng *rand.Rand) []Slide {
	pick := rand.Intn
	if rng != nil {
		pick = rng.Intn
	}

	out := make([]Slide, len(slides))
	for i, s := range slides {
		if s.Layout != "" && !forceReassign {
			out[i] = s
			continue
		}
		switch {
		case i == 0:
			s.Layout = LayoutDiagonalSplit
		case i == len(slides)-1:
			s.Layout = lastSlideLayouts[pick(len(lastSlideLayouts))]
		default:
			s.Layout = middleLayouts[pick(len(middleLayouts))]
		}
		out[i] = s
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
