package tui

import (
	"sort"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"
)

// SelectItem is one entry offered to a SelectPicker: SearchText is matched
// against the query, Value is returned to the caller on Enter.
type SelectItem struct {
	Label      string
	SearchText string
	Value      any
}

// SelectPicker fuzzy-matches a query against items' search text, filters
// to those with a positive score, and sorts by descending score.
type SelectPicker struct {
	Title string
	Help  string
	Frame Frame

	items    []SelectItem
	filtered []SelectItem
	input    textinput.Model
	cursor   int

	Result    *SelectItem
	Cancelled bool
	done      bool
}

func NewSelectPicker(title, help string, items []SelectItem) *SelectPicker {
	ti := textinput.New()
	ti.Placeholder = "filter..."
	ti.Focus()

	p := &SelectPicker{Title: title, Help: help, items: items, input: ti}
	p.recompute()
	return p
}

func (p *SelectPicker) recompute() {
	query := p.input.Value()
	if query == "" {
		p.filtered = p.items
		p.cursor = 0
		return
	}

	sources := make([]string, len(p.items))
	for i, it := range p.items {
		sources[i] = it.SearchText
	}
	matches := fuzzy.Find(query, sources)
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })

	filtered := make([]SelectItem, 0, len(matches))
	for _, m := range matches {
		filtered = append(filtered, p.items[m.Index])
	}
	p.filtered = filtered
	if p.cursor >= len(p.filtered) {
		p.cursor = 0
	}
}

func (p *SelectPicker) Init() tea.Cmd { return textinput.Blink }

func (p *SelectPicker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
		if p.cursor >= 0 && p.cursor < len(p.filtered) {
			item := p.filtered[p.cursor]
			p.Result = &item
		}
		p.done = true
		return p, tea.Quit
	case "up":
		if p.cursor > 0 {
			p.cursor--
		}
		return p, nil
	case "down":
		if p.cursor < len(p.filtered)-1 {
			p.cursor++
		}
		return p, nil
	}

	var cmd tea.Cmd
	p.input, cmd = p.input.Update(keyMsg)
	p.recompute()
	return p, cmd
}

func (p *SelectPicker) View() string {
	lines := make([]string, 0, len(p.filtered))
	for i, it := range p.filtered {
		cursor := "  "
		if i == p.cursor {
			cursor = "> "
		}
		lines = append(lines, cursor+it.Label)
	}
	return p.Frame.Render(p.Title, p.input.View(), lines, p.Help)
}

// Done reports whether the picker has returned a result or been cancelled.
func (p *SelectPicker) Done() bool { return p.done }
