package generation

import (
	"encoding/json"
	"fmt"
	"strings"

	"carouselforge/types"
)

func generateSystemPrompt() string {
	return `You write carousel content for social media (Instagram, LinkedIn).
Reply with valid JSON only. No markdown, no commentary.

CONTENT
- Narrative flow: hook, value, details, takeaway, call to action.
- Punchy body copy, no corporate filler, no cliches, no repeated sentences.
- When the topic promises a count ("5 tips"), cover every item even if several share a slide.

SLIDES
- Slide 1 is the hook: a bold statement or question.
- Middle slides deliver the substance.
- The second to last slide is the key takeaway.
- The last slide is a call to action with three options.
- "min_text_version" stays under 50 characters; "max_text_version" may run to about 50 words.
- Suggest an image mood for every slide.

JSON SHAPE
{
  "topic": "string",
  "slides": [
    {
      "heading": "punchy headline",
      "body": "main body text",
      "suggested_image": "image mood",
      "tone": "educational" | "storytelling" | "inspirational",
      "min_text_version": "under 50 chars",
      "max_text_version": "up to 50 words"
    }
  ]
}`
}

func generateUserPrompt(topic, tone, language string, count int) string {
	return fmt.Sprintf(`Write a %d-slide carousel about: %q
TONE: %s
LANGUAGE: %s (JSON keys stay in English)

Reply with valid JSON only.`, count, topic, tone, language)
}

// variationsPrompt holds everything the variations system prompt depends on.
type variationsPrompt struct {
	HasSource bool
	Metadata  string
	Language  string
	Count     int
}

var layoutChoices = []string{
	types.LayoutCentered, types.LayoutSplitLeft, types.LayoutSplitRight, types.LayoutCard,
	types.LayoutMinimal, types.LayoutBold, types.LayoutQuote, types.LayoutNumbered,
	types.LayoutGradientText, types.LayoutSidebar, types.LayoutStacked, types.LayoutMagazine,
	types.LayoutArchLeft, types.LayoutArchRight, types.LayoutCircleFrame, types.LayoutDiagonalSplit,
}

func (p variationsPrompt) System() string {
	var b strings.Builder
	b.WriteString("You are a strict content converter and editor.\n\n")

	if p.HasSource {
		b.WriteString(`SOURCE MATERIAL
The user message contains a raw transcript or article.
- Use ONLY facts, numbers, quotes and steps that appear in it. Invent nothing.
- Skip intros, outros, "subscribe" requests and channel news.
- Drop conversational filler ("um", "like", "you know").
- Favor actionable steps, specific numbers and hard facts.
- Rephrase for clarity. Say the point directly.

`)
	}

	if p.Metadata != "" {
		fmt.Fprintf(&b, `VIDEO METADATA (use it to identify the speakers)
%s

VIDEO FRAME BACKGROUNDS
- Frames from the video become full-bleed slide backgrounds. Do not describe AI imagery.
- In "suggested_image" describe the overlay treatment instead: gradients, blur or a tinted overlay that keeps text readable.
- Square 1:1 format, one frame per slide, bold headline, minimal clutter.
- Give each slide "timestamp_seconds": the second where its quote is spoken.

`, p.Metadata)
	}

	fmt.Fprintf(&b, `SEGMENTS
- Split the content into %d sequential segments, most valuable first.
- Give each slide "segment": {"start": seconds, "end": seconds}, taken from the [MM:SS] markers.
- Each segment is one key point.

Reply with valid JSON only.

Write 3 variations:
1. "Direct & Actionable": punchy and action oriented.
2. "Story-driven": narrative, when the source allows it.
3. "Data & Authority": expert tone built on facts and steps.

COPY
- Headlines use power words. Body copy speaks to "you".
- "bodyShort" is under 140 characters for compact layouts.
- "bodyLong" expands the point in about 50 words without repeating bodyShort.
- When the topic promises more items than slides, merge items. Never drop any.

LANGUAGE
- Write every heading and body in %s.
- JSON keys stay in English.

LAYOUT
Pick "layout" for every slide from: [%s]
- diagonal-split for the first slide, card for the summary or last slide.
- quote for testimonials and strong statements, numbered for steps and lists.
- split-left / split-right when text sits beside a visual concept, bold for short high-impact lines.
- centered for anything else.

ENTITY FOCUS
Give every slide "entityFocus": "host" | "guest" | "none".
- host: the main speaker, and always the title slide of a podcast.
- guest: the slide quotes or is about the guest.
- none: general concepts. Use it when unsure.

JSON SHAPE
{
  "extracted_entities": {"host": "Name", "guest": "Name"},
  "variations": [
    {
      "id": "1",
      "style": "Direct & Actionable",
      "description": "one line",
      "data": {
        "topic": "%s",
        "slides": [
          {
            "id": "slide-1",
            "layout": "diagonal-split",
            "heading": "headline",
            "body": "body",
            "bodyShort": "short body",
            "bodyLong": "long body",
            "segment": {"start": 120.0, "end": 135.0},
            "suggested_image": "overlay treatment for video, image description otherwise",
            "entityFocus": "host"
          }
        ]
      }
    }
  ]
}`, p.Count, p.Language, strings.Join(layoutChoices, ", "), p.topicHint())

	return b.String()
}

func (p variationsPrompt) topicHint() string {
	if p.HasSource {
		return "Summary: <specific topic of the source>"
	}
	return "topic string"
}

func variationsUserPrompt(topic, source, tone, language string, count int) string {
	if source != "" {
		return fmt.Sprintf(`Create a %d-slide carousel from the source below.

SOURCE (transcript or article):
"""
%s
"""

- OUTPUT LANGUAGE: %s
- Keep only the most important lessons.
- Turn the spoken or written content into high-impact slides.`, count, source, language)
	}
	return fmt.Sprintf(`Write 3 content variations for a %d-slide carousel about: %q

TONE: %s
LANGUAGE: %s

Every variation has exactly %d slides and covers all key points, grouping them when needed.`, count, topic, tone, language, count)
}

func adaptSystemPrompt(topic string, layout types.LayoutConfig) string {
	return fmt.Sprintf(`You adapt carousel copy to fit a slide layout.
Reply with valid JSON only.

The carousel is about %q. The target layout is %s with %s space; body text should run to about %d characters.

- Compact layouts: keep the essential point, drop examples, shorten sentences.
- Standard layouts: balance insight and brevity, adding context where it helps.
- Keep meaning, tone and slide ids. Never lose the core message.

JSON SHAPE
{
  "slides": [
    {
      "id": "same id as input",
      "heading": "headline, shorter for compact layouts",
      "body": "body adapted to the layout",
      "bodyShort": "compact version",
      "bodyLong": "extended version",
      "suggested_image": "kept or improved",
      "tone": "educational" | "storytelling" | "inspirational",
      "min_text_version": "string",
      "max_text_version": "string"
    }
  ]
}`, topic, layout.ID, layout.ContentSize, layout.MaxBodyChars)
}

func adaptUserPrompt(slides []types.Slide, layout types.LayoutConfig) (string, error) {
	current, err := json.MarshalIndent(slidesForAdapt(slides), "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode slides: %w", err)
	}
	return fmt.Sprintf(`Adapt these slides for the %s layout (%s space, about %d characters per body):

%s

Rewrite the body text to fit while keeping the message. Reply with valid JSON only.`,
		layout.ID, layout.ContentSize, layout.MaxBodyChars, current), nil
}

// slidesForAdapt strips editor-only fields the model does not need.
func slidesForAdapt(slides []types.Slide) []map[string]string {
	out := make([]map[string]string, len(slides))
	for i, s := range slides {
		out[i] = map[string]string{
			"id":               s.ID,
			"heading":          s.Heading,
			"body":             s.Body,
			"bodyShort":        s.BodyShort,
			"bodyLong":         s.BodyLong,
			"suggested_image":  s.SuggestedImage,
			"tone":             s.Tone,
			"min_text_version": s.MinTextVersion,
			"max_text_version": s.MaxTextVersion,
		}
	}
	return out
}
