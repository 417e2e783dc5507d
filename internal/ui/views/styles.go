package views

import "github.com/charmbracelet/lipgloss"

var (
	ColorPrimary = lipgloss.Color("63")
	ColorError   = lipgloss.Color("196")
	ColorSuccess = lipgloss.Color("42")
	ColorDim     = lipgloss.Color("241")

	UserMessageStyle  lipgloss.Style
	InfoMessageStyle  lipgloss.Style
	ErrorMessageStyle lipgloss.Style
	InputStyle        lipgloss.Style
	PromptErrorStyle  lipgloss.Style
	PopupBoxStyle     lipgloss.Style

	StatusDefaultStyle   lipgloss.Style
	StatusRenderingStyle lipgloss.Style
	StatusDoneStyle      lipgloss.Style
	StatusErrorStyle     lipgloss.Style
)

func init() {
	buildStyles()
}

// SetTheme replaces the palette. Empty values keep the current color.
// Call it before the program starts.
func SetTheme(primary, errColor, success string) {
	if primary != "" {
		ColorPrimary = lipgloss.Color(primary)
	}
	if errColor != "" {
		ColorError = lipgloss.Color(errColor)
	}
	if success != "" {
		ColorSuccess = lipgloss.Color(success)
	}
	buildStyles()
}

func buildStyles() {
	UserMessageStyle = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	InfoMessageStyle = lipgloss.NewStyle()
	ErrorMessageStyle = lipgloss.NewStyle().Foreground(ColorError)
	InputStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary).
		Padding(0, 1)
	PromptErrorStyle = lipgloss.NewStyle().Foreground(ColorError).Italic(true)
	PopupBoxStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary).
		Padding(1, 2)

	StatusDefaultStyle = lipgloss.NewStyle().Padding(0, 1)
	StatusRenderingStyle = StatusDefaultStyle.Foreground(ColorPrimary)
	StatusDoneStyle = StatusDefaultStyle.Foreground(ColorSuccess)
	StatusErrorStyle = StatusDefaultStyle.Foreground(ColorError)
}
