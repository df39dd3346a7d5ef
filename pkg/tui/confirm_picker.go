package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// ConfirmPicker is a two-option (Yes/No) selection, default preselected,
// arrow keys or y/n to choose.
type ConfirmPicker struct {
	Title string
	Help  string
	Frame Frame

	yesSelected bool

	Result    bool
	Cancelled bool
	done      bool
}

func NewConfirmPicker(title, help string, defaultYes bool) *ConfirmPicker {
	return &ConfirmPicker{Title: title, Help: help, yesSelected: defaultYes}
}

func (p *ConfirmPicker) Init() tea.Cmd { return nil }

func (p *ConfirmPicker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
	case "left", "right", "tab":
		p.yesSelected = !p.yesSelected
		return p, nil
	case "y":
		p.yesSelected = true
		p.Result = true
		p.done = true
		return p, tea.Quit
	case "n":
		p.yesSelected = false
		p.Result = false
		p.done = true
		return p, tea.Quit
	case "enter":
		p.Result = p.yesSelected
		p.done = true
		return p, tea.Quit
	}
	return p, nil
}

func (p *ConfirmPicker) View() string {
	yes, no := "Yes", "No"
	if p.yesSelected {
		yes = "[" + yes + "]"
	} else {
		no = "[" + no + "]"
	}
	return p.Frame.Render(p.Title, yes+"  "+no, nil, p.Help)
}

func (p *ConfirmPicker) Done() bool { return p.done }
