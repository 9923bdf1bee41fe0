package frames

import (
	"log"

	"carouselforge/types"
)

// CollectRanges numbers every slide across groups in order and returns a
// range for each one carrying a transcript segment.
func CollectRanges(groups ...[]types.Slide) []Range {
	var ranges []Range
	idx := 0
	for _, slides := range groups {
		for _, s := range slides {
			if s.Segment != nil {
				ranges = append(ranges, Range{Start: s.Segment.Start, End: s.Segment.End, Index: idx})
			}
			idx++
		}
	}
	return ranges
}

// MapRangeFrames applies range-mode frames to the slides they were requested
// for, using the same numbering as CollectRanges. A valid frame becomes the
// background; a skipped one clears it. Returns how many slides got an image.
func MapRangeFrames(frames []Frame, groups ...[]types.Slide) int {
	bySlide := make(map[int]Frame, len(frames))
	for _, f := range frames {
		bySlide[f.SlideIndex] = f
	}

	applied := 0
	idx := 0
	for _, slides := range groups {
		for i := range slides {
			s := &slides[i]
			f, ok := bySlide[idx]
			idx++
			if !ok || s.Segment == nil {
				continue
			}
			switch {
			case f.Valid():
				s.BackgroundImageURL = f.URL
				s.ValidatedFrame = f.Validated()
				applied++
			case f.Status == StatusSkip:
				s.BackgroundImageURL = ""
				s.ValidatedFrame = f.Validated()
				log.Printf("⚠️  Slide #%d: SKIP (%s)", f.SlideIndex+1, f.Reason)
			}
		}
	}
	return applied
}

// DistributeFrames spreads legacy frames evenly over each group of slides.
func DistributeFrames(frames []Frame, groups ...[]types.Slide) {
	if len(frames) == 0 {
		return
	}
	for _, slides := range groups {
		total := len(slides)
		for i := range slides {
			fi := i * len(frames) / total
			if fi > len(frames)-1 {
				fi = len(frames) - 1
			}
			f := frames[fi]
			slides[i].BackgroundImageURL = f.URL
			slides[i].ExtractedFrame = f.Validated()
		}
	}
}
