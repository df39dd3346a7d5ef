package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// SuggestionProvider is queried on each input change. It returns nothing
// for empty input.
type SuggestionProvider interface {
	Suggestions(input string) []string
}

// StaticSuggestions substring-matches case-insensitively against a fixed
// vocabulary.
type StaticSuggestions struct{ Vocabulary []string }

func (s StaticSuggestions) Suggestions(input string) []string {
	if input == "" {
		return nil
	}
	var out []string
	lower := strings.ToLower(input)
	for _, v := range s.Vocabulary {
		if strings.Contains(strings.ToLower(v), lower) {
			out = append(out, v)
		}
	}
	return out
}

// TagSuggestions matches against a caller-supplied list of known tags.
type TagSuggestions struct{ Tags []string }

func (s TagSuggestions) Suggestions(input string) []string {
	return StaticSuggestions{Vocabulary: s.Tags}.Suggestions(input)
}

// TextPickerWithSuggestions is a TextPicker plus a SuggestionProvider
// queried on each input change; up/down move the highlight through the
// current suggestion list (the top one after each input change), and Tab
// accepts the highlighted suggestion.
type TextPickerWithSuggestions struct {
	Title    string
	Help     string
	Frame    Frame
	Provider SuggestionProvider

	input       textinput.Model
	suggestions []string
	cursor      int

	Result    string
	Cancelled bool
	done      bool
}

func NewTextPickerWithSuggestions(title, help, placeholder string, provider SuggestionProvider) *TextPickerWithSuggestions {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Focus()
	return &TextPickerWithSuggestions{Title: title, Help: help, Provider: provider, input: ti}
}

func (p *TextPickerWithSuggestions) Init() tea.Cmd { return textinput.Blink }

func (p *TextPickerWithSuggestions) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
	case "tab":
		if len(p.suggestions) > 0 {
			p.input.SetValue(p.suggestions[p.cursor])
			p.input.CursorEnd()
		}
		return p, nil
	case "up":
		if p.cursor > 0 {
			p.cursor--
		}
		return p, nil
	case "down":
		if p.cursor < len(p.suggestions)-1 {
			p.cursor++
		}
		return p, nil
	}

	var cmd tea.Cmd
	p.input, cmd = p.input.Update(keyMsg)
	if p.Provider != nil {
		p.suggestions = p.Provider.Suggestions(p.input.Value())
		p.cursor = 0
	}
	return p, cmd
}

func (p *TextPickerWithSuggestions) View() string {
	lines := make([]string, 0, len(p.suggestions))
	for i, s := range p.suggestions {
		cursor := "  "
		if i == p.cursor {
			cursor = "> "
		}
		lines = append(lines, cursor+s)
	}
	return p.Frame.Render(p.Title, p.input.View(), lines, p.Help)
}

func (p *TextPickerWithSuggestions) Done() bool { return p.done }
