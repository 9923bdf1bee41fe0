package tui

import (
	"carouselforge/types"

	tea "github.com/charmbracelet/bubbletea"
)

// State is the screen being shown
type State string

const (
	StateLoading State = "loading"
	StateList    State = "list"
	StateSlides  State = "slides"
	StateError   State = "error"
)

// Model is the preview's state
type Model struct {
	Client *PreviewClient

	State    State
	Projects []types.Project
	Cursor   int

	// Current is the project opened from the list
	Current    *types.CarouselData
	SlideIndex int

	Err       error
	Connected bool
}

// NewModel creates a preview for the API at apiURL
func NewModel(apiURL string) Model {
	return Model{
		Client: NewPreviewClient(apiURL),
		State:  StateLoading,
	}
}

// Init implements tea.Model interface
func (m Model) Init() tea.Cmd {
	return tea.Batch(fetchProjects(m.Client), tickCmd())
}

// theme returns the open project's theme, or the first built-in one
func (m Model) theme() types.Theme {
	if m.Current != nil && m.Current.Theme != nil && m.Current.Theme.BackgroundColor != "" {
		return *m.Current.Theme
	}
	return types.DefaultThemes[0]
}

func (m Model) selected() (types.Project, bool) {
	if m.Cursor < 0 || m.Cursor >= len(m.Projects) {
		return types.Project{}, false
	}
	return m.Projects[m.Cursor], true
}
