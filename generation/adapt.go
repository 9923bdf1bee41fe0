package generation

import (
	"context"
	"fmt"
	"log"

	"carouselforge/config"
	"carouselforge/llm"
	"carouselforge/types"
)

// AdaptRequest asks for slide copy rewritten to fit a layout.
type AdaptRequest struct {
	Slides []types.Slide `json:"slides"`
	Layout string        `json:"layout"`
	Topic  string        `json:"topic"`
}

// AdaptResult holds the rewritten slides.
type AdaptResult struct {
	Slides []types.Slide `json:"slides"`
}

// AdaptContent rewrites slide text for req.Layout, falling back to centered
// for unknown layouts. The slide count, ids and editor fields are preserved;
// only copy the model returned is replaced.
func (s *Service) AdaptContent(ctx context.Context, req AdaptRequest) (*AdaptResult, error) {
	if len(req.Slides) == 0 {
		return &AdaptResult{Slides: []types.Slide{}}, nil
	}
	layout, ok := types.LayoutByID(req.Layout)
	if !ok {
		layout, _ = types.LayoutByID(types.LayoutCentered)
	}

	user, err := adaptUserPrompt(req.Slides, layout)
	if err != nil {
		return nil, err
	}
	log.Printf("📝 Adapting %d slides for %s", len(req.Slides), layout.ID)
	resp, err := s.complete(ctx, llm.ChatRequest{
		System:      adaptSystemPrompt(req.Topic, layout),
		User:        user,
		Temperature: config.GenerateTemperature,
		JSON:        true,
	})
	if err != nil {
		return nil, err
	}

	var adapted AdaptResult
	if err := llm.DecodeJSON(resp.Content, &adapted); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseResponse, err)
	}
	if adapted.Slides == nil {
		return nil, ErrInvalidResponse
	}
	if len(adapted.Slides) != len(req.Slides) {
		log.Printf("⚠️  Model returned %d slides for %d, merging by id and position", len(adapted.Slides), len(req.Slides))
	}

	byID := make(map[string]types.Slide, len(adapted.Slides))
	for _, a := range adapted.Slides {
		if a.ID != "" {
			byID[a.ID] = a
		}
	}
	out := make([]types.Slide, len(req.Slides))
	for i, orig := range req.Slides {
		a, found := byID[orig.ID]
		if !found && i < len(adapted.Slides) {
			a, found = adapted.Slides[i], true
		}
		if found {
			orig = mergeCopy(orig, a)
		}
		out[i] = orig
	}
	return &AdaptResult{Slides: out}, nil
}

// mergeCopy overlays the text fields of adapted onto orig.
func mergeCopy(orig, adapted types.Slide) types.Slide {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&orig.Heading, adapted.Heading)
	set(&orig.Body, adapted.Body)
	set(&orig.BodyShort, adapted.BodyShort)
	set(&orig.BodyLong, adapted.BodyLong)
	set(&orig.SuggestedImage, adapted.SuggestedImage)
	set(&orig.Tone, adapted.Tone)
	set(&orig.MinTextVersion, adapted.MinTextVersion)
	set(&orig.MaxTextVersion, adapted.MaxTextVersion)
	return orig
}
