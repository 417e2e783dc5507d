// Package models holds the TUI state rendered by the views.
package models

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
)

// Message roles.
const (
	RoleUser  = "user"
	RoleInfo  = "info"
	RoleError = "error"
	// RoleMarkdown content is rendered through the markdown renderer.
	RoleMarkdown = "markdown"
)

// Status phases.
const (
	PhaseReady     = "ready"
	PhaseRendering = "rendering"
	PhaseDone      = "done"
	PhaseError     = "error"
)

// Message is one entry of the message log.
type Message struct {
	Role    string
	Content string
}

// Picker is an open selection popup.
type Picker struct {
	Title   string
	Options []string
	Index   int
}

// Prompt is an open free-text prompt. Validate returns "" for acceptable input.
type Prompt struct {
	Title       string
	Placeholder string
	Validate    func(string) string
	Error       string
}

// State is everything the views need to draw a frame.
type State struct {
	Width  int
	Height int

	Messages []Message
	Viewport viewport.Model
	Input    textinput.Model
	Spinner  spinner.Model

	StatusPhase   string
	StatusMessage string
	// ActiveDocument is shown on the right of the status bar.
	ActiveDocument string

	Picker *Picker
	Prompt *Prompt
}
