// Package tmux is the typed tmux driver: a connection that knows how to
// build and run tmux subprocess invocations, and five repositories
// (Session, Window, Pane, Client, Popup) that translate domain operations
// into those invocations and parse their structured output.
package tmux

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"workbench/pkg/errkind"
)

// SocketEnvVar is the environment variable consulted, per-call, for socket
// isolation. It is never cached: Design Notes calls out the tmux socket as
// a "global singleton" that must stay an explicit per-call environment
// read so test isolation keeps working.
const SocketEnvVar = "RAFAELTAB_TMUX_SOCKET"

// InTmuxEnvVar is consulted only to detect "are we inside tmux?".
const InTmuxEnvVar = "TMUX"

// Connection owns subprocess construction for every tmux invocation. It is
// the single point configured for socket isolation.
type Connection struct {
	Bin      string
	ExtraEnv []string
	Timeout  time.Duration
	Logger   *slog.Logger
}

// NewConnection returns a Connection with defaults matching the production
// tmux binary on PATH.
func NewConnection() *Connection {
	return &Connection{Bin: "tmux", Timeout: 10 * time.Second}
}

func (c *Connection) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

func (c *Connection) bin() string {
	if strings.TrimSpace(c.Bin) != "" {
		return c.Bin
	}
	return "tmux"
}

// Args prepends "-L <socket>" when RAFAELTAB_TMUX_SOCKET is set, the single
// point at which every tmux call is subject to socket isolation.
func (c *Connection) Args(args ...string) []string {
	if sock := strings.TrimSpace(os.Getenv(SocketEnvVar)); sock != "" {
		full := make([]string, 0, len(args)+2)
		full = append(full, "-L", sock)
		full = append(full, args...)
		return full
	}
	return args
}

// InTmux reports whether the calling process is already running inside a
// tmux client.
func InTmux() bool {
	return strings.TrimSpace(os.Getenv(InTmuxEnvVar)) != ""
}

// command builds an *exec.Cmd for "tmux <args...>", preserving the active
// client's socket via the TMUX environment variable when present and no
// explicit socket override was already requested: tmux subcommands must
// talk to the same server the client is attached to, or tmux reports
// "no server running".
func (c *Connection) command(ctx context.Context, args []string) *exec.Cmd {
	full := c.Args(args...)
	cmd := exec.CommandContext(ctx, c.bin(), full...)
	cmd.Env = append(append([]string{}, os.Environ()...), c.ExtraEnv...)
	return cmd
}

// Run executes "tmux <args...>" and returns combined stdout; stderr is
// captured into the returned error on non-zero exit.
func (c *Connection) Run(ctx context.Context, args ...string) (string, error) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := c.command(runCtx, args)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	c.logger().Debug("tmux exec", "bin", c.bin(), "args", c.Args(args...))

	err := cmd.Run()
	if runCtx.Err() != nil {
		c.logger().Warn("tmux exec timed out", "args", args, "timeout", timeout)
		return "", errkind.Subprocessf(stderr.String(), fmt.Errorf("tmux %s: timed out", strings.Join(args, " ")))
	}
	if err != nil {
		c.logger().Debug("tmux exec failed", "args", args, "err", err)
		return "", errkind.Subprocessf(stderr.String(), fmt.Errorf("tmux %s: %w", strings.Join(args, " "), err))
	}
	return stdout.String(), nil
}

// IsListEmptyErr reports whether err represents tmux's "no sessions" /
// "no server running" family of errors on a list-* subcommand, which the
// repository layer treats as an empty result rather than a failure.
func IsListEmptyErr(err error) bool {
	if err == nil {
		return false
	}
	var e *errkind.Error
	detail := err.Error()
	if errors.As(err, &e) {
		detail = e.Detail + " " + e.Error()
	}
	detail = strings.ToLower(detail)
	return strings.Contains(detail, "no server running") ||
		strings.Contains(detail, "no sessions") ||
		strings.Contains(detail, "can't find")
}
