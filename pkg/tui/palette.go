package tui

import (
	"fmt"
)

// PaletteCommand is one entry of the command palette: a display name and
// the interaction sequence it runs once chosen.
type PaletteCommand struct {
	Name string
	Run  func() error
}

// ShowPalette implements the command palette's state machine:
// CommandSearch (list + filter input) -> [chosen command's own interaction
// sequence] -> Completed. Completion exits the loop and restores the
// terminal (bubbletea restores it when Run returns; Run's defer/recover
// covers a panic).
func ShowPalette(commands []PaletteCommand) error {
	items := make([]SelectItem, len(commands))
	for i, c := range commands {
		items[i] = SelectItem{Label: c.Name, SearchText: c.Name, Value: i}
	}

	picker := NewSelectPicker("command palette", "↑/↓ move · enter select · esc cancel", items)
	result, err := Run(picker)
	if err != nil {
		return fmt.Errorf("command palette: %w", err)
	}

	finished, ok := result.(*SelectPicker)
	if !ok {
		return fmt.Errorf("command palette: unexpected model type")
	}
	if finished.Cancelled || finished.Result == nil {
		return nil
	}

	idx := finished.Result.Value.(int)
	return commands[idx].Run()
}
