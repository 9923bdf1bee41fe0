package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Update implements tea.Model interface
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case ProjectsLoadedMsg:
		return m.handleProjectsLoaded(msg)
	case ProjectLoadedMsg:
		return m.handleProjectLoaded(msg)
	case TickMsg:
		if m.State == StateList {
			return m, tea.Batch(fetchProjects(m.Client), tickCmd())
		}
		return m, tickCmd()
	}
	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	}

	switch m.State {
	case StateList:
		switch msg.String() {
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Projects)-1 {
				m.Cursor++
			}
		case "r":
			return m, fetchProjects(m.Client)
		case "enter":
			if p, ok := m.selected(); ok {
				m.State = StateLoading
				return m, fetchProject(m.Client, p.ID)
			}
		}
	case StateSlides:
		switch msg.String() {
		case "left", "h":
			if m.SlideIndex > 0 {
				m.SlideIndex--
			}
		case "right", "l":
			if m.Current != nil && m.SlideIndex < len(m.Current.Slides)-1 {
				m.SlideIndex++
			}
		case "esc":
			m.State = StateList
			m.Current = nil
			m.SlideIndex = 0
		}
	case StateError:
		switch msg.String() {
		case "esc", "r":
			m.State = StateLoading
			m.Err = nil
			return m, fetchProjects(m.Client)
		}
	}
	return m, nil
}

func (m Model) handleProjectsLoaded(msg ProjectsLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.Connected = false
		if m.State != StateSlides {
			m.State = StateError
			m.Err = msg.Err
		}
		return m, nil
	}
	m.Connected = true
	m.Projects = msg.Projects
	if m.Cursor >= len(m.Projects) {
		m.Cursor = max(len(m.Projects)-1, 0)
	}
	if m.State == StateLoading || m.State == StateError {
		m.State = StateList
	}
	return m, nil
}

func (m Model) handleProjectLoaded(msg ProjectLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.State = StateError
		m.Err = msg.Err
		return m, nil
	}
	m.Current = msg.Project
	m.SlideIndex = 0
	m.State = StateSlides
	return m, nil
}
