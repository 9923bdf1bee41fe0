package tui

import (
	"fmt"
	"strings"

	"carouselforge/types"
)

// View implements tea.Model interface
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("🎠 Carousel Preview"))
	b.WriteString("\n")

	switch m.State {
	case StateLoading:
		b.WriteString(StatusStyle.Render("⏳ Loading..."))
	case StateError:
		errMsg := "Unknown error"
		if m.Err != nil {
			errMsg = m.Err.Error()
		}
		b.WriteString(ErrorStyle.Render("❌ Error: " + errMsg))
		b.WriteString("\n\n")
		b.WriteString(InfoStyle.Render("Press 'r' to retry | Press 'q' to quit"))
	case StateList:
		b.WriteString(m.listView())
		b.WriteString("\n")
		b.WriteString(InfoStyle.Render(TextFooterList))
	case StateSlides:
		b.WriteString(m.slideView())
		b.WriteString("\n\n")
		b.WriteString(InfoStyle.Render(TextFooterSlides))
	}
	return b.String()
}

func (m Model) listView() string {
	if len(m.Projects) == 0 {
		return InfoStyle.Render(TextNoProjects) + "\n"
	}
	var b strings.Builder
	for i, p := range m.Projects {
		line := fmt.Sprintf("%s  (%d slides, %s)", p.Topic, p.SlideCount, p.UpdatedAt.Format("2006-01-02 15:04"))
		if i == m.Cursor {
			b.WriteString(HighlightStyle.Render("▸ " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) slideView() string {
	if m.Current == nil || len(m.Current.Slides) == 0 {
		return InfoStyle.Render("This project has no slides.")
	}
	slide := m.Current.Slides[m.SlideIndex]
	header := fmt.Sprintf("%s · slide %d/%d", m.Current.Topic, m.SlideIndex+1, len(m.Current.Slides))
	return InfoStyle.Render(header) + "\n\n" + RenderSlide(slide, m.theme())
}

// RenderSlide draws one slide in the theme's colors with the body text its
// layout would show.
func RenderSlide(slide types.Slide, theme types.Theme) string {
	frame, heading, body := slideStyles(theme)

	var b strings.Builder
	b.WriteString(heading.Render(slide.Heading))
	if text := types.BodyForLayout(slide, slide.Layout); text != "" {
		b.WriteString("\n\n")
		b.WriteString(body.Render(text))
	}
	meta := []string{}
	if slide.Layout != "" {
		meta = append(meta, "layout: "+slide.Layout)
	}
	if slide.BackgroundImageURL != "" {
		meta = append(meta, "image: "+slide.BackgroundImageURL)
	}
	if len(meta) > 0 {
		b.WriteString("\n\n")
		b.WriteString(body.Faint(true).Render(strings.Join(meta, " | ")))
	}
	return frame.Render(b.String())
}
