package tmux

import (
	"context"
	"fmt"
)

// PopupOptions configures a display-popup invocation.
type PopupOptions struct {
	Title      string
	Width      string // e.g. "80%"
	Height     string // e.g. "60%"
	Command    string // shell command run inside the popup
	Directory  string
	CloseOnExit bool
}

// PopupRepository drives tmux's display-popup subcommand.
type PopupRepository struct {
	Conn Runner
}

func NewPopupRepository(conn Runner) *PopupRepository {
	return &PopupRepository{Conn: conn}
}

// DisplayPopup builds the display-popup argv from opts and runs it,
// propagating a non-zero exit as an error rather than panicking.
func (r *PopupRepository) DisplayPopup(ctx context.Context, opts PopupOptions) error {
	args := []string{"display-popup"}
	if opts.Title != "" {
		args = append(args, "-T", opts.Title)
	}
	if opts.Width != "" {
		args = append(args, "-w", opts.Width)
	}
	if opts.Height != "" {
		args = append(args, "-h", opts.Height)
	}
	if opts.Directory != "" {
		args = append(args, "-d", opts.Directory)
	}
	if opts.CloseOnExit {
		args = append(args, "-E")
	}
	if opts.Command != "" {
		args = append(args, opts.Command)
	}

	if _, err := r.Conn.Run(ctx, args...); err != nil {
		return fmt.Errorf("display popup: %w", err)
	}
	return nil
}
