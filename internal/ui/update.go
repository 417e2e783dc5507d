package ui

import (
	"strings"

	"github.com/Cyclone1070/geoview/internal/ui/models"
	"github.com/Cyclone1070/geoview/internal/ui/services"
	"github.com/Cyclone1070/geoview/internal/ui/views"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	inputPlaceholder = "Type /open <path> or /help"
	// Rows kept for the input box and status bar.
	viewportHeightReserve = 6
)

// BubbleTeaModel implements tea.Model
type BubbleTeaModel struct {
	state models.State

	// Dependencies
	renderer services.MarkdownRenderer

	// Channels for communication with the command loop
	pickReq     <-chan pickRequest
	promptReq   <-chan promptRequest
	statusChan  <-chan statusMsg
	messageChan <-chan models.Message
	activeChan  <-chan string

	// UI -> Command loop
	commandChan chan<- UICommand

	// Ready signal
	readyChan chan<- struct{}

	// Replies for the open picker and prompt
	pickReply   chan<- promptResult
	promptReply chan<- promptResult
}

// View renders the UI
func (m BubbleTeaModel) View() string {
	return views.RenderRoot(m.state)
}

// SpinnerFactory creates a new spinner
type SpinnerFactory func() spinner.Model

// newBubbleTeaModel creates a new Bubble Tea model
func newBubbleTeaModel(
	channels *UIChannels,
	renderer services.MarkdownRenderer,
	spinnerFactory SpinnerFactory,
) BubbleTeaModel {
	ti := textinput.New()
	ti.Placeholder = inputPlaceholder
	ti.Focus()

	return BubbleTeaModel{
		state: models.State{
			Input:    ti,
			Viewport: viewport.New(80, 20),
			Spinner:  spinnerFactory(),
			Messages: []models.Message{},
		},
		renderer:    renderer,
		pickReq:     channels.PickReq,
		promptReq:   channels.PromptReq,
		statusChan:  channels.StatusChan,
		messageChan: channels.MessageChan,
		activeChan:  channels.ActiveChan,
		commandChan: channels.CommandChan,
		readyChan:   channels.ReadyChan,
	}
}

// Internal messages
type pickRequestMsg pickRequest
type promptRequestMsg promptRequest
type statusUpdateMsg statusMsg
type messageReceivedMsg models.Message
type activeDocumentMsg string

// Init initializes the model
func (m BubbleTeaModel) Init() tea.Cmd {
	// Signal that UI is ready
	if m.readyChan != nil {
		close(m.readyChan)
	}

	return tea.Batch(
		textinput.Blink,
		m.state.Spinner.Tick,
		listenForPickRequests(m.pickReq),
		listenForPromptRequests(m.promptReq),
		listenForStatus(m.statusChan),
		listenForMessages(m.messageChan),
		listenForActiveDocument(m.activeChan),
	)
}

// Update handles messages
func (m BubbleTeaModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.state.Width = msg.Width
		m.state.Height = msg.Height
		m.state.Viewport.Width = msg.Width
		m.state.Viewport.Height = msg.Height - viewportHeightReserve
		m.updateViewport()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.state.Spinner, cmd = m.state.Spinner.Update(msg)
		return m, cmd

	case pickRequestMsg:
		m.cancelPicker()
		m.state.Picker = &models.Picker{Title: msg.title, Options: msg.options}
		m.pickReply = msg.reply
		return m, listenForPickRequests(m.pickReq)

	case promptRequestMsg:
		m.cancelPrompt()
		m.state.Prompt = &models.Prompt{
			Title:       msg.title,
			Placeholder: msg.placeholder,
			Validate:    msg.validate,
		}
		m.promptReply = msg.reply
		m.state.Input.SetValue("")
		m.state.Input.Placeholder = msg.placeholder
		return m, listenForPromptRequests(m.promptReq)

	case statusUpdateMsg:
		m.state.StatusPhase = msg.phase
		m.state.StatusMessage = msg.message
		return m, listenForStatus(m.statusChan)

	case messageReceivedMsg:
		m.appendMessage(models.Message(msg))
		return m, listenForMessages(m.messageChan)

	case activeDocumentMsg:
		m.state.ActiveDocument = string(msg)
		return m, listenForActiveDocument(m.activeChan)
	}

	var cmd tea.Cmd
	m.state.Input, cmd = m.state.Input.Update(msg)
	return m, cmd
}

// handleKeyPress handles keyboard input
func (m BubbleTeaModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.cancelPicker()
		m.cancelPrompt()
		return m, tea.Quit
	}

	if m.state.Picker != nil {
		return m.handlePickerKey(msg)
	}
	if m.state.Prompt != nil {
		return m.handlePromptKey(msg)
	}

	switch msg.String() {
	case "enter":
		input := strings.TrimSpace(m.state.Input.Value())
		if input == "" {
			return m, nil
		}
		m.state.Input.SetValue("")
		m.appendMessage(models.Message{Role: models.RoleUser, Content: input})
		if strings.HasPrefix(input, "/") {
			return m.handleCommand(input)
		}
		// A bare path opens the file.
		m.sendCommand(UICommand{Type: CommandOpen, Arg: input})
		return m, nil

	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.state.Viewport, cmd = m.state.Viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.state.Input, cmd = m.state.Input.Update(msg)
	return m, cmd
}

func (m BubbleTeaModel) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := m.state.Picker
	switch msg.String() {
	case "up", "k":
		if p.Index > 0 {
			p.Index--
		}
	case "down", "j":
		if p.Index < len(p.Options)-1 {
			p.Index++
		}
	case "enter":
		if p.Index < len(p.Options) {
			m.reply(&m.pickReply, promptResult{value: p.Options[p.Index], ok: true})
		} else {
			m.reply(&m.pickReply, promptResult{})
		}
		m.state.Picker = nil
	case "esc":
		m.cancelPicker()
	}
	return m, nil
}

func (m BubbleTeaModel) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		value := strings.TrimSpace(m.state.Input.Value())
		if v := m.state.Prompt.Validate; v != nil {
			if problem := v(value); problem != "" {
				m.state.Prompt.Error = problem
				return m, nil
			}
		}
		m.reply(&m.promptReply, promptResult{value: value, ok: true})
		m.closePrompt()
		return m, nil
	case "esc":
		m.cancelPrompt()
		return m, nil
	}

	var cmd tea.Cmd
	m.state.Input, cmd = m.state.Input.Update(msg)
	// Re-validate as the user types once an error is showing.
	if m.state.Prompt.Error != "" && m.state.Prompt.Validate != nil {
		m.state.Prompt.Error = m.state.Prompt.Validate(strings.TrimSpace(m.state.Input.Value()))
	}
	return m, cmd
}

// handleCommand handles slash commands
func (m BubbleTeaModel) handleCommand(input string) (tea.Model, tea.Cmd) {
	word, arg, _ := strings.Cut(input, " ")
	arg = strings.TrimSpace(arg)

	switch word {
	case "/help":
		m.appendMessage(models.Message{Role: models.RoleMarkdown, Content: services.HelpText})
	case "/quit", "/exit":
		return m, tea.Quit
	case "/open", "/use", "/vscale":
		if arg == "" {
			m.appendMessage(models.Message{Role: models.RoleError, Content: "Usage: " + word + " <value>"})
			return m, nil
		}
		m.sendCommand(UICommand{Type: strings.TrimPrefix(word, "/"), Arg: arg})
	case "/cmap", "/dims", "/transpose", "/refresh", "/close", "/list":
		m.sendCommand(UICommand{Type: strings.TrimPrefix(word, "/"), Arg: arg})
	default:
		m.appendMessage(models.Message{Role: models.RoleError, Content: "Unknown command " + word + ". Type /help."})
	}
	return m, nil
}

func (m *BubbleTeaModel) sendCommand(cmd UICommand) {
	select {
	case m.commandChan <- cmd:
	default:
		m.appendMessage(models.Message{Role: models.RoleError, Content: "Busy, try again."})
	}
}

func (m *BubbleTeaModel) reply(ch *chan<- promptResult, res promptResult) {
	if *ch != nil {
		*ch <- res
		*ch = nil
	}
}

func (m *BubbleTeaModel) cancelPicker() {
	m.reply(&m.pickReply, promptResult{})
	m.state.Picker = nil
}

func (m *BubbleTeaModel) cancelPrompt() {
	if m.state.Prompt == nil {
		return
	}
	m.reply(&m.promptReply, promptResult{})
	m.closePrompt()
}

func (m *BubbleTeaModel) closePrompt() {
	m.state.Prompt = nil
	m.state.Input.SetValue("")
	m.state.Input.Placeholder = inputPlaceholder
}

func (m *BubbleTeaModel) appendMessage(msg models.Message) {
	m.state.Messages = append(m.state.Messages, msg)
	m.updateViewport()
}

// updateViewport updates the viewport content
func (m *BubbleTeaModel) updateViewport() {
	content := views.FormatChatContent(m.state.Messages, m.state.Width-4, m.renderer)
	m.state.Viewport.SetContent(content)
	m.state.Viewport.GotoBottom()
}

// Helper commands for listening to channels
func listenForPickRequests(ch <-chan pickRequest) tea.Cmd {
	return func() tea.Msg {
		return pickRequestMsg(<-ch)
	}
}

func listenForPromptRequests(ch <-chan promptRequest) tea.Cmd {
	return func() tea.Msg {
		return promptRequestMsg(<-ch)
	}
}

func listenForStatus(ch <-chan statusMsg) tea.Cmd {
	return func() tea.Msg {
		return statusUpdateMsg(<-ch)
	}
}

func listenForMessages(ch <-chan models.Message) tea.Cmd {
	return func() tea.Msg {
		return messageReceivedMsg(<-ch)
	}
}

func listenForActiveDocument(ch <-chan string) tea.Cmd {
	return func() tea.Msg {
		return activeDocumentMsg(<-ch)
	}
}
