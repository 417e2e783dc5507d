package views

import (
	"github.com/Cyclone1070/geoview/internal/ui/models"
	"github.com/charmbracelet/lipgloss"
)

// RenderInput renders the input bar, with the prompt title and any
// validation error when a prompt is open.
func RenderInput(s models.State) string {
	if s.Prompt == nil {
		return InputStyle.Render(s.Input.View())
	}

	lines := []string{lipgloss.NewStyle().Bold(true).Render(s.Prompt.Title)}
	lines = append(lines, InputStyle.Render(s.Input.View()))
	if s.Prompt.Error != "" {
		lines = append(lines, PromptErrorStyle.Render(s.Prompt.Error))
	}
	lines = append(lines, lipgloss.NewStyle().Faint(true).Render("Enter: Confirm  Esc: Cancel"))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
