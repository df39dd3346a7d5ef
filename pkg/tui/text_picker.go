package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// TextPicker accumulates characters at the cursor; bubbles/textinput
// already implements the documented cursor/left/right/backspace behavior,
// so TextPicker wraps it rather than re-implementing cursor math.
type TextPicker struct {
	Title string
	Help  string
	Frame Frame

	input textinput.Model

	Result    string
	Cancelled bool
	done      bool
}

func NewTextPicker(title, help, placeholder string) *TextPicker {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Focus()
	return &TextPicker{Title: title, Help: help, input: ti}
}

func (p *TextPicker) Init() tea.Cmd { return textinput.Blink }

func (p *TextPicker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsMsg, ok := msg.(tea.WindowSizeMsg); ok {
		p.Frame.Width = wsMsg.Width
		p.Frame.Height = wsMsg.Height
		return p, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}
	switch keyMsg.String() {
	case "ctrl+c", "esc":
		p.Cancelled = true
		p.done = true
		return p, tea.Quit
	case "enter":
		p.Result = p.input.Value()
		p.done = true
		return p, tea.Quit
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(keyMsg)
	return p, cmd
}

func (p *TextPicker) View() string {
	return p.Frame.Render(p.Title, p.input.View(), nil, p.Help)
}

func (p *TextPicker) Done() bool { return p.done }
