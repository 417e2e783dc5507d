package views

import (
	"strings"

	"github.com/Cyclone1070/geoview/internal/ui/models"
	"github.com/Cyclone1070/geoview/internal/ui/services"
)

// RenderChat renders the message log
func RenderChat(s models.State) string {
	if len(s.Messages) == 0 {
		return "No documents open yet. Type /open <path> or /help."
	}
	return s.Viewport.View()
}

// FormatChatContent formats the messages for the viewport
func FormatChatContent(messages []models.Message, width int, renderer services.MarkdownRenderer) string {
	var lines []string
	for _, msg := range messages {
		switch msg.Role {
		case models.RoleUser:
			lines = append(lines, UserMessageStyle.Render("> "+msg.Content))
		case models.RoleError:
			lines = append(lines, ErrorMessageStyle.Render("✘ "+msg.Content))
		case models.RoleMarkdown:
			rendered, err := services.RenderMarkdown(msg.Content, width, renderer)
			if err != nil {
				// Fallback to plain text
				rendered = msg.Content
			}
			lines = append(lines, rendered)
		default:
			lines = append(lines, InfoMessageStyle.Render(msg.Content))
		}
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}
