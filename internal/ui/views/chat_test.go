package views

import (
	"errors"
	"testing"

	"github.com/Cyclone1070/geoview/internal/ui/models"
	"github.com/stretchr/testify/assert"
)

func TestRenderChat_NoMessages(t *testing.T) {
	state := models.State{Messages: []models.Message{}}
	result := RenderChat(state)
	assert.Contains(t, result, "/open")
}

func TestRenderChat_WithMessages(t *testing.T) {
	vp := createTestViewport()
	vp.SetContent("Rendered Content")
	state := models.State{
		Messages: []models.Message{{Role: models.RoleUser, Content: "/open a.bin"}},
		Viewport: vp,
	}

	result := RenderChat(state)

	assert.Contains(t, result, "Rendered Content")
}

func TestFormatChatContent_Roles(t *testing.T) {
	messages := []models.Message{
		{Role: models.RoleUser, Content: "/transpose"},
		{Role: models.RoleInfo, Content: "Visualization data 2D: d, 3D: d[:, :, idx]"},
		{Role: models.RoleError, Content: "Invalid or unsupported file format."},
		{Role: models.RoleMarkdown, Content: "## Help"},
	}
	renderer := &MockMarkdownRenderer{RenderFunc: func(s string, _ int) (string, error) {
		return "MD:" + s, nil
	}}

	result := FormatChatContent(messages, 80, renderer)

	assert.Contains(t, result, "> /transpose")
	assert.Contains(t, result, "d[:, :, idx]")
	assert.Contains(t, result, "✘ Invalid or unsupported file format.")
	assert.Contains(t, result, "MD:## Help")
}

func TestFormatChatContent_MarkdownFallback(t *testing.T) {
	renderer := &MockMarkdownRenderer{RenderFunc: func(string, int) (string, error) {
		return "", errors.New("render failed")
	}}

	result := FormatChatContent([]models.Message{{Role: models.RoleMarkdown, Content: "## Raw"}}, 80, renderer)

	assert.Contains(t, result, "## Raw")
}
