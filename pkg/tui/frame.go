package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Frame lays out three horizontal bands: title+input (top), scrollable
// items (middle), help (bottom). The middle band's content area is handed
// back to the picker so content widgets render inside it without knowing
// frame chrome.
type Frame struct {
	Width, Height int
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	helpStyle  = lipgloss.NewStyle().Faint(true)
)

// ContentHeight returns how many rows are available to the middle band
// once the title/input line and help line are subtracted.
func (f Frame) ContentHeight() int {
	h := f.Height - 2
	if h < 0 {
		return 0
	}
	return h
}

// Render composes the three bands into the final screen.
func (f Frame) Render(title, input string, items []string, help string) string {
	top := titleStyle.Render(title)
	if input != "" {
		top = top + "  " + input
	}

	content := items
	maxRows := f.ContentHeight()
	if len(content) > maxRows {
		content = content[:maxRows]
	}
	middle := strings.Join(content, "\n")

	bottom := helpStyle.Render(help)

	return lipgloss.JoinVertical(lipgloss.Left, top, middle, bottom)
}
