package views

import (
	"fmt"

	"github.com/Cyclone1070/geoview/internal/ui/models"
)

// RenderStatus renders the status bar
func RenderStatus(s models.State) string {
	var icon string
	var style = StatusDefaultStyle

	switch s.StatusPhase {
	case models.PhaseRendering:
		icon = s.Spinner.View()
		style = StatusRenderingStyle
	case models.PhaseDone:
		icon = "✔"
		style = StatusDoneStyle
	case models.PhaseError:
		icon = "✘"
		style = StatusErrorStyle
	}

	status := "Ready"
	if s.StatusMessage != "" {
		status = s.StatusMessage
		if icon != "" {
			status = fmt.Sprintf("%s %s", icon, s.StatusMessage)
		}
	} else if icon != "" {
		status = icon
	}

	left := style.Render(status)
	if s.ActiveDocument == "" {
		return left
	}
	right := StatusDefaultStyle.Foreground(ColorDim).Render(s.ActiveDocument)
	return fmt.Sprintf("%s  %s", left, right)
}
