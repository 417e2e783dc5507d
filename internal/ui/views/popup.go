package views

import (
	"fmt"
	"strings"

	"github.com/Cyclone1070/geoview/internal/ui/models"
	"github.com/charmbracelet/lipgloss"
)

// RenderPicker renders the selection popup
func RenderPicker(s models.State) string {
	if s.Picker == nil || len(s.Picker.Options) == 0 {
		return ""
	}

	var lines []string
	lines = append(lines, lipgloss.NewStyle().Bold(true).Render(s.Picker.Title))
	lines = append(lines, "")

	for i, option := range s.Picker.Options {
		if i == s.Picker.Index {
			lines = append(lines, lipgloss.NewStyle().
				Foreground(ColorPrimary).
				Bold(true).
				Render(fmt.Sprintf("▸ %s", option)))
		} else {
			lines = append(lines, fmt.Sprintf("  %s", option))
		}
	}

	lines = append(lines, "")
	lines = append(lines, lipgloss.NewStyle().Faint(true).Render("↑/↓: Navigate  Enter: Select  Esc: Cancel"))

	return PopupBoxStyle.Render(strings.Join(lines, "\n"))
}
