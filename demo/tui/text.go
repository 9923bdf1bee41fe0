package tui

const (
	TextFooterList   = "↑/↓ select | enter open | r refresh | q quit"
	TextFooterSlides = "←/→ change slide | esc back | q quit"
	TextNoProjects   = "No saved projects yet. Save one from the editor."
)
