package ui

import (
	"context"

	"github.com/Cyclone1070/geoview/internal/config"
	"github.com/Cyclone1070/geoview/internal/editor"
	"github.com/Cyclone1070/geoview/internal/ui/models"
	"github.com/Cyclone1070/geoview/internal/ui/services"
	"github.com/Cyclone1070/geoview/internal/ui/views"
	tea "github.com/charmbracelet/bubbletea"
)

// UI implements UserInterface, editor.Prompter and editor.Notifier using Bubble Tea
type UI struct {
	program *tea.Program

	// Command loop -> UI channels
	pickReq     chan pickRequest
	promptReq   chan promptRequest
	statusChan  chan statusMsg
	messageChan chan models.Message
	activeChan  chan string

	// UI -> Command loop
	commandChan chan UICommand

	// Ready signal
	readyChan chan struct{}
}

// promptResult answers a pick or prompt request.
type promptResult struct {
	value string
	ok    bool
}

// Internal message types
type pickRequest struct {
	title   string
	options []string
	reply   chan promptResult
}

type promptRequest struct {
	title       string
	placeholder string
	validate    func(string) string
	reply       chan promptResult
}

type statusMsg struct {
	phase   string
	message string
}

// UIChannels holds the channels for UI communication
type UIChannels struct {
	PickReq     chan pickRequest
	PromptReq   chan promptRequest
	StatusChan  chan statusMsg
	MessageChan chan models.Message
	ActiveChan  chan string
	CommandChan chan UICommand
	ReadyChan   chan struct{} // Signals when UI is ready to accept requests
}

// NewUIChannels creates a new UIChannels struct and applies the configured
// colors. cfg may be nil.
func NewUIChannels(cfg *config.Config) *UIChannels {
	if cfg != nil {
		views.SetTheme(cfg.UI.ColorPrimary, cfg.UI.ColorError, cfg.UI.ColorSuccess)
	}
	return &UIChannels{
		PickReq:     make(chan pickRequest),
		PromptReq:   make(chan promptRequest),
		StatusChan:  make(chan statusMsg, 10),
		MessageChan: make(chan models.Message, 64),
		ActiveChan:  make(chan string, 10),
		CommandChan: make(chan UICommand, 10),
		ReadyChan:   make(chan struct{}),
	}
}

// NewUI creates a new Bubble Tea UI
func NewUI(
	channels *UIChannels,
	renderer services.MarkdownRenderer,
	spinnerFactory SpinnerFactory,
) *UI {
	ui := &UI{
		pickReq:     channels.PickReq,
		promptReq:   channels.PromptReq,
		statusChan:  channels.StatusChan,
		messageChan: channels.MessageChan,
		activeChan:  channels.ActiveChan,
		commandChan: channels.CommandChan,
		readyChan:   channels.ReadyChan,
	}

	model := newBubbleTeaModel(channels, renderer, spinnerFactory)
	ui.program = tea.NewProgram(model, tea.WithAltScreen())
	return ui
}

// Start runs the UI program until the user quits or ctx is cancelled
func (u *UI) Start(ctx context.Context) error {
	stop := context.AfterFunc(ctx, u.program.Quit)
	defer stop()
	_, err := u.program.Run()
	return err
}

// QuickPick shows a selection popup and waits for the choice
func (u *UI) QuickPick(ctx context.Context, placeholder string, options []string) (string, error) {
	reply := make(chan promptResult, 1)
	return await(ctx, u.pickReq, pickRequest{title: placeholder, options: options, reply: reply}, reply)
}

// InputBox shows a free-text prompt and waits for valid input
func (u *UI) InputBox(ctx context.Context, req editor.InputRequest) (string, error) {
	reply := make(chan promptResult, 1)
	return await(ctx, u.promptReq, promptRequest{
		title:       req.Prompt,
		placeholder: req.Placeholder,
		validate:    req.Validate,
		reply:       reply,
	}, reply)
}

func await[T any](ctx context.Context, ch chan<- T, req T, reply <-chan promptResult) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case ch <- req:
	}
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-reply:
		if !res.ok {
			return "", editor.ErrPromptCancelled
		}
		return res.value, nil
	}
}

// WriteStatus updates the status bar
func (u *UI) WriteStatus(phase string, message string) {
	select {
	case u.statusChan <- statusMsg{phase: phase, message: message}:
	default:
		// Drop if channel is full
	}
}

// WriteMessage sends a message to the UI
func (u *UI) WriteMessage(content string) {
	u.write(models.Message{Role: models.RoleInfo, Content: content})
}

// WriteMarkdown sends a markdown message to the UI
func (u *UI) WriteMarkdown(content string) {
	u.write(models.Message{Role: models.RoleMarkdown, Content: content})
}

// ShowError displays an error notification
func (u *UI) ShowError(message string) {
	u.write(models.Message{Role: models.RoleError, Content: message})
	u.WriteStatus(models.PhaseError, message)
}

// ShowInfo displays an information notification
func (u *UI) ShowInfo(message string) {
	u.write(models.Message{Role: models.RoleInfo, Content: message})
}

// SetActiveDocument shows title in the status bar
func (u *UI) SetActiveDocument(title string) {
	select {
	case u.activeChan <- title:
	default:
	}
}

func (u *UI) write(msg models.Message) {
	select {
	case u.messageChan <- msg:
	default:
		// Drop if channel is full
	}
}

// Commands returns the command channel
func (u *UI) Commands() <-chan UICommand {
	return u.commandChan
}

// Ready returns a channel that is closed when the UI is ready to accept requests
func (u *UI) Ready() <-chan struct{} {
	return u.readyChan
}
