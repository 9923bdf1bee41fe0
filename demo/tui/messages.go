package tui

import (
	"time"

	"carouselforge/types"
)

// ProjectsLoadedMsg carries the project list
type ProjectsLoadedMsg struct {
	Projects []types.Project
	Err      error
}

// ProjectLoadedMsg carries the project opened from the list
type ProjectLoadedMsg struct {
	Project *types.CarouselData
	Err     error
}

// TickMsg triggers a refresh of the project list
type TickMsg struct {
	Time time.Time
}
