package tui

import (
	"carouselforge/types"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
const (
	colorPrimary   = "#7D56F4"
	colorSuccess   = "#04B575"
	colorError     = "#FF0000"
	colorInfo      = "#626262"
	colorHighlight = "#FAFAFA"
)

const slideWidth = 54

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorPrimary)).
			MarginTop(1).
			MarginBottom(1)

	StatusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorSuccess))

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorError))

	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorInfo))

	HighlightStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorHighlight)).
			Background(lipgloss.Color(colorPrimary)).
			Padding(0, 1)
)

// slideStyles derives the frame, heading and body styles from a theme
func slideStyles(theme types.Theme) (frame, heading, body lipgloss.Style) {
	headingColor := theme.HeadingColor
	if headingColor == "" {
		headingColor = theme.TextColor
	}
	frame = lipgloss.NewStyle().
		Width(slideWidth).
		Padding(1, 2).
		Background(lipgloss.Color(theme.BackgroundColor)).
		Foreground(lipgloss.Color(theme.TextColor)).
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(lipgloss.Color(theme.AccentColor))
	heading = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(headingColor)).
		Background(lipgloss.Color(theme.BackgroundColor))
	body = lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.TextColor)).
		Background(lipgloss.Color(theme.BackgroundColor))
	return frame, heading, body
}
