package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const refreshInterval = 10 * time.Second

func fetchProjects(client *PreviewClient) tea.Cmd {
	return func() tea.Msg {
		projects, err := client.ListProjects()
		return ProjectsLoadedMsg{Projects: projects, Err: err}
	}
}

func fetchProject(client *PreviewClient, id string) tea.Cmd {
	return func() tea.Msg {
		project, err := client.GetProject(id)
		return ProjectLoadedMsg{Project: project, Err: err}
	}
}

// tickCmd refreshes the list while it is on screen
func tickCmd() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}
