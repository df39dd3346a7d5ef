package tmux

import "context"

// Runner is the subprocess-invocation seam every repository depends on
// instead of a concrete *Connection, so tests can substitute a fake that
// returns canned tmux output without spawning a real tmux server.
type Runner interface {
	Run(ctx context.Context, args ...string) (string, error)
}

var _ Runner = (*Connection)(nil)
