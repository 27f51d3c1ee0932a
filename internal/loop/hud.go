package loop

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/tomz197/ballpit/internal/sim"
)

const helpText = "space spawn · drag mouse · del delete · p pause · +/- zoom · wasd pan · 0 reset · i stats · q quit"

// hudStyles are the lipgloss styles of the status line, bound to one
// renderer so each SSH session gets its own color profile.
type hudStyles struct {
	status lipgloss.Style
	paused lipgloss.Style
	help   lipgloss.Style
}

func newHUDStyles(r *lipgloss.Renderer) hudStyles {
	return hudStyles{
		status: r.NewStyle().Foreground(lipgloss.Color("86")).Bold(true),
		paused: r.NewStyle().Foreground(lipgloss.Color("205")).Bold(true),
		help:   r.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

// render builds the status line, truncated to width columns.
func (h hudStyles) render(s *sim.Simulation, width int) string {
	style := h.status
	if s.Paused() {
		style = h.paused
	}
	line := style.MaxWidth(width).Render(s.StatusLine())

	remaining := width - lipgloss.Width(line) - 3
	if remaining > 10 {
		line += "   " + h.help.MaxWidth(remaining).Render(helpText)
	}
	return line
}
