package ui

import (
	"testing"

	"github.com/Cyclone1070/geoview/internal/config"
	"github.com/Cyclone1070/geoview/internal/ui/models"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestModel() (BubbleTeaModel, *UIChannels) {
	channels := NewUIChannels(config.DefaultConfig())
	return newBubbleTeaModel(channels, &MockMarkdownRenderer{}, mockSpinnerFactory), channels
}

func update(t *testing.T, m BubbleTeaModel, msg tea.Msg) BubbleTeaModel {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(BubbleTeaModel)
	require.True(t, ok)
	return out
}

func typeLine(t *testing.T, m BubbleTeaModel, line string) BubbleTeaModel {
	t.Helper()
	m.state.Input.SetValue(line)
	return update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
}

func TestInit_ClosesReadyAndReturnsCommands(t *testing.T) {
	model, channels := createTestModel()

	cmd := model.Init()

	assert.NotNil(t, cmd)
	_, open := <-channels.ReadyChan
	assert.False(t, open)
}

func TestUpdate_SlashCommands(t *testing.T) {
	tests := []struct {
		line string
		want UICommand
	}{
		{"/open data/survey one.bin", UICommand{Type: CommandOpen, Arg: "data/survey one.bin"}},
		{"/cmap", UICommand{Type: CommandCmap}},
		{"/cmap seismic", UICommand{Type: CommandCmap, Arg: "seismic"}},
		{"/transpose", UICommand{Type: CommandTranspose}},
		{"/dims 10, 10", UICommand{Type: CommandDims, Arg: "10, 10"}},
		{"/vscale 2.5", UICommand{Type: CommandVScale, Arg: "2.5"}},
		{"/refresh", UICommand{Type: CommandRefresh}},
		{"/close", UICommand{Type: CommandClose}},
		{"/list", UICommand{Type: CommandList}},
		{"/use 2", UICommand{Type: CommandUse, Arg: "2"}},
		{"cube.bin", UICommand{Type: CommandOpen, Arg: "cube.bin"}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			model, channels := createTestModel()

			m := typeLine(t, model, tt.line)

			assert.Empty(t, m.state.Input.Value())
			require.Len(t, channels.CommandChan, 1)
			assert.Equal(t, tt.want, <-channels.CommandChan)
			assert.Equal(t, models.RoleUser, m.state.Messages[0].Role)
		})
	}
}

func TestUpdate_MissingArgument(t *testing.T) {
	model, channels := createTestModel()

	m := typeLine(t, model, "/vscale")

	assert.Empty(t, channels.CommandChan)
	require.Len(t, m.state.Messages, 2)
	assert.Equal(t, models.RoleError, m.state.Messages[1].Role)
	assert.Contains(t, m.state.Messages[1].Content, "Usage: /vscale")
}

func TestUpdate_UnknownCommand(t *testing.T) {
	model, channels := createTestModel()

	m := typeLine(t, model, "/explode")

	assert.Empty(t, channels.CommandChan)
	assert.Contains(t, m.state.Messages[1].Content, "Unknown command /explode")
}

func TestUpdate_HelpIsMarkdown(t *testing.T) {
	model, _ := createTestModel()

	m := typeLine(t, model, "/help")

	require.Len(t, m.state.Messages, 2)
	assert.Equal(t, models.RoleMarkdown, m.state.Messages[1].Role)
	assert.Contains(t, m.state.Messages[1].Content, "/transpose")
}

func TestUpdate_PickerFlow(t *testing.T) {
	model, _ := createTestModel()
	reply := make(chan promptResult, 1)

	m := update(t, model, pickRequestMsg{title: "cmap", options: []string{"viridis", "gray", "jet"}, reply: reply})
	require.NotNil(t, m.state.Picker)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 2, m.state.Picker.Index)
	m = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, m.state.Picker)
	assert.Equal(t, promptResult{value: "gray", ok: true}, <-reply)
}

func TestUpdate_PickerEscCancels(t *testing.T) {
	model, _ := createTestModel()
	reply := make(chan promptResult, 1)

	m := update(t, model, pickRequestMsg{title: "cmap", options: []string{"jet"}, reply: reply})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	assert.Nil(t, m.state.Picker)
	assert.Equal(t, promptResult{}, <-reply)
}

func TestUpdate_PromptValidation(t *testing.T) {
	model, _ := createTestModel()
	reply := make(chan promptResult, 1)
	validate := func(s string) string {
		if s != "10,10" {
			return "Please enter a valid dimension format: rows,columns[,depth]"
		}
		return ""
	}

	m := update(t, model, promptRequestMsg{title: "dims", placeholder: "rows,columns[,depth]", validate: validate, reply: reply})
	require.NotNil(t, m.state.Prompt)
	assert.Equal(t, "rows,columns[,depth]", m.state.Input.Placeholder)

	m = typeLine(t, m, "10")
	require.NotNil(t, m.state.Prompt)
	assert.Contains(t, m.state.Prompt.Error, "valid dimension format")
	assert.Empty(t, reply)

	m = typeLine(t, m, " 10,10 ")
	assert.Nil(t, m.state.Prompt)
	assert.Equal(t, promptResult{value: "10,10", ok: true}, <-reply)
	assert.Equal(t, inputPlaceholder, m.state.Input.Placeholder)
}

func TestUpdate_PromptEscCancels(t *testing.T) {
	model, channels := createTestModel()
	reply := make(chan promptResult, 1)

	m := update(t, model, promptRequestMsg{title: "dims", reply: reply})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	assert.Nil(t, m.state.Prompt)
	assert.Equal(t, promptResult{}, <-reply)
	assert.Empty(t, channels.CommandChan)
}

func TestUpdate_NewPickerCancelsPrevious(t *testing.T) {
	model, _ := createTestModel()
	first := make(chan promptResult, 1)
	second := make(chan promptResult, 1)

	m := update(t, model, pickRequestMsg{title: "a", options: []string{"x"}, reply: first})
	m = update(t, m, pickRequestMsg{title: "b", options: []string{"y"}, reply: second})

	assert.Equal(t, promptResult{}, <-first)
	assert.Equal(t, "b", m.state.Picker.Title)
}

func TestUpdate_CtrlCQuitsAndCancelsPrompt(t *testing.T) {
	model, _ := createTestModel()
	reply := make(chan promptResult, 1)
	m := update(t, model, promptRequestMsg{title: "dims", reply: reply})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Equal(t, promptResult{}, <-reply)
}

func TestUpdate_StatusAndActiveDocument(t *testing.T) {
	model, _ := createTestModel()

	m := update(t, model, statusUpdateMsg{phase: models.PhaseDone, message: "a.bin"})
	m = update(t, m, activeDocumentMsg("a.bin"))

	assert.Equal(t, models.PhaseDone, m.state.StatusPhase)
	assert.Equal(t, "a.bin", m.state.StatusMessage)
	assert.Equal(t, "a.bin", m.state.ActiveDocument)
	assert.Contains(t, m.View(), "a.bin")
}

func TestUpdate_WindowSize(t *testing.T) {
	model, _ := createTestModel()

	m := update(t, model, tea.WindowSizeMsg{Width: 100, Height: 40})

	assert.Equal(t, 100, m.state.Viewport.Width)
	assert.Equal(t, 40-viewportHeightReserve, m.state.Viewport.Height)
}

func TestUpdate_MessageReceived(t *testing.T) {
	model, _ := createTestModel()

	m := update(t, model, messageReceivedMsg{Role: models.RoleError, Content: "No active GeoView editor."})

	require.Len(t, m.state.Messages, 1)
	assert.Contains(t, m.View(), "No active GeoView editor.")
}
