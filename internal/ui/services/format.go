package services

import (
	"fmt"
	"strings"
)

// HelpText is the markdown shown by /help.
const HelpText = `## GeoView commands

| Command | Action |
|---|---|
| ` + "`/open <path>`" + ` | Open and render a data file |
| ` + "`/cmap [name]`" + ` | Change the colormap (picker when no name) |
| ` + "`/transpose`" + ` | Toggle transposition |
| ` + "`/dims [r,c[,d]]`" + ` | Set data dimensions (prompt when omitted) |
| ` + "`/vscale <value>`" + ` | Set the value scale |
| ` + "`/refresh`" + ` | Render again with current settings |
| ` + "`/close`" + ` | Close the active document |
| ` + "`/list`" + ` | List open documents |
| ` + "`/use <n>`" + ` | Make document n active |
| ` + "`/help`" + ` | Show this help |

Commands act on the active document.`

// DocumentEntry is one row of the /list output.
type DocumentEntry struct {
	Title  string
	Path   string
	URL    string
	Active bool
}

// FormatDocumentList renders the open documents as a markdown list.
func FormatDocumentList(entries []DocumentEntry) string {
	if len(entries) == 0 {
		return "No open documents."
	}
	var sb strings.Builder
	sb.WriteString("## Open documents\n\n")
	for i, e := range entries {
		marker := ""
		if e.Active {
			marker = " **(active)**"
		}
		fmt.Fprintf(&sb, "%d. `%s`%s  \n   %s", i+1, e.Title, marker, e.Path)
		if e.URL != "" {
			fmt.Fprintf(&sb, "  \n   %s", e.URL)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
