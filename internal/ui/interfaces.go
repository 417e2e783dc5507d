package ui

// Command types sent from the TUI to the command loop.
const (
	CommandOpen      = "open"
	CommandCmap      = "cmap"
	CommandTranspose = "transpose"
	CommandDims      = "dims"
	CommandVScale    = "vscale"
	CommandRefresh   = "refresh"
	CommandClose     = "close"
	CommandList      = "list"
	CommandUse       = "use"
)

// UICommand is a slash command typed by the user.
type UICommand struct {
	Type string
	// Arg is the rest of the line after the command word, trimmed.
	Arg string
}

// UserInterface is the output side of the TUI as seen by the command loop.
// Prompts live on the editor.Prompter side of *UI.
type UserInterface interface {
	// WriteStatus displays ephemeral status updates (e.g., "Rendering...")
	WriteStatus(phase string, message string)

	// WriteMessage appends plain text to the message log
	WriteMessage(content string)

	// WriteMarkdown appends markdown, rendered with glamour
	WriteMarkdown(content string)

	// ShowError and ShowInfo are the user-facing notifications
	ShowError(message string)
	ShowInfo(message string)

	// SetActiveDocument shows the active document in the status bar
	SetActiveDocument(title string)

	Commands() <-chan UICommand
	Ready() <-chan struct{}
}
