package editor

import (
	"context"

	"github.com/Cyclone1070/geoview/internal/config"
	"github.com/Cyclone1070/geoview/internal/render"
	"github.com/Cyclone1070/geoview/internal/settings"
)

// Panel is what the display surface needs to show one document.
type Panel struct {
	ID       string
	URI      string
	Title    string
	ImageDir string
	Image    string
}

// Display is the surface images are shown on. Show creates a panel, Update
// swaps its image, Dispose tears it down.
type Display interface {
	Show(panel Panel) error
	Update(panelID, imagePath string) error
	Dispose(panelID string)
}

// InputRequest describes a free-text prompt. Validate returns "" for
// acceptable input, otherwise the message to show.
type InputRequest struct {
	Prompt      string
	Placeholder string
	Validate    func(string) string
}

// Prompter asks the user for choices. Both methods return ErrPromptCancelled
// when the user dismisses the prompt.
type Prompter interface {
	QuickPick(ctx context.Context, placeholder string, options []string) (string, error)
	InputBox(ctx context.Context, req InputRequest) (string, error)
}

// Notifier shows user-facing messages.
type Notifier interface {
	ShowError(message string)
	ShowInfo(message string)
}

// Listener is told when documents open and close.
type Listener interface {
	DocumentOpened(doc Document)
	DocumentClosed(doc Document)
}

type renderer interface {
	Render(ctx context.Context, req render.Request) (string, error)
}

type settingsStore interface {
	Update(uri string, fn func(*settings.FileSettings)) settings.FileSettings
	Remove(uri string)
	Resolve(uri string, defaults config.Defaults) settings.Resolved
}

type workspaceResolver interface {
	Root(path string) (string, error)
	TempDir(root string) string
	Cleanup() error
}
