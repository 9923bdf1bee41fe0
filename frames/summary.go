package frames

import (
	"fmt"

	"carouselforge/types"

	"github.com/jedib0t/go-pretty/v6/table"
)

// PlanSummary renders the per-slide frame outcome as a table.
func PlanSummary(slides []types.Slide) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleDouble)
	t.SetTitle("FINAL CAROUSEL PLAN")
	t.AppendHeader(table.Row{"SLIDE", "TIME RANGE", "MEDIAN", "STATUS", "HEADLINE"})

	extracted, skipped := 0, 0
	for i, s := range slides {
		status := "❌ NO_IMAGE"
		switch {
		case s.ValidatedFrame != nil && s.ValidatedFrame.Status == StatusValid:
			status = "✅ EXTRACTED"
			extracted++
		case s.ValidatedFrame != nil:
			reason := s.ValidatedFrame.Reason
			if reason == "" {
				reason = "SKIP"
			}
			status = "⚠️ " + truncate(reason, 10)
			skipped++
		case s.BackgroundImageURL != "":
			status = "✅ LEGACY"
			extracted++
		default:
			skipped++
		}

		var start, end float64
		switch {
		case s.Segment != nil:
			start, end = s.Segment.Start, s.Segment.End
		case s.ValidatedFrame != nil:
			start, end = s.ValidatedFrame.StartTime, s.ValidatedFrame.EndTime
		}
		median := (start + end) / 2
		if s.ValidatedFrame != nil {
			median = s.ValidatedFrame.Timestamp
		}

		heading := s.Heading
		if heading == "" {
			heading = "No heading"
		}
		t.AppendRow(table.Row{
			fmt.Sprintf("#%d", i+1),
			FormatTimestamp(start) + " → " + FormatTimestamp(end),
			FormatTimestamp(median),
			status,
			truncate(heading, 20),
		})
	}
	t.AppendFooter(table.Row{
		"", fmt.Sprintf("📸 EXTRACTED: %d", extracted), "", fmt.Sprintf("⚠️ SKIPPED: %d", skipped), fmt.Sprintf("📝 TOTAL SLIDES: %d", len(slides)),
	})
	return t.Render()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
