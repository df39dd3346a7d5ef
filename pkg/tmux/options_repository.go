package tmux

import (
	"context"
	"fmt"
	"strings"
)

// OptionsRepository drives tmux's global "show-options -g" / "set-option -g"
// pair. Unlike the rest of the driver this touches server-wide state, so
// callers are expected to gate it behind config.Safety.IsTmuxCommandAllowed
// before invoking it.
type OptionsRepository struct {
	Conn Runner
}

func NewOptionsRepository(conn Runner) *OptionsRepository {
	return &OptionsRepository{Conn: conn}
}

// GetGlobal returns the current value of a global tmux option, or "" if it
// is unset.
func (r *OptionsRepository) GetGlobal(ctx context.Context, name string) (string, error) {
	out, err := r.Conn.Run(ctx, "show-options", "-g", "-v", name)
	if err != nil {
		if IsListEmptyErr(err) {
			return "", nil
		}
		return "", fmt.Errorf("show global option %q: %w", name, err)
	}
	return strings.TrimSpace(out), nil
}

// SetGlobal sets a global tmux option.
func (r *OptionsRepository) SetGlobal(ctx context.Context, name, value string) error {
	if _, err := r.Conn.Run(ctx, "set-option", "-g", name, value); err != nil {
		return fmt.Errorf("set global option %q: %w", name, err)
	}
	return nil
}
