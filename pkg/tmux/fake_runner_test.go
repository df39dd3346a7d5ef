package tmux

import (
	"context"
	"fmt"
	"strings"
)

// fakeRunner is a scripted Runner for repository tests: it matches the
// leading subcommand and returns canned output, so repositories can be
// tested without a real tmux server.
type fakeRunner struct {
	handlers []fakeHandler
	calls    [][]string
}

type fakeHandler struct {
	subcommand string
	respond    func(args []string) (string, error)
}

func (f *fakeRunner) on(subcommand string, respond func(args []string) (string, error)) {
	f.handlers = append(f.handlers, fakeHandler{subcommand: subcommand, respond: respond})
}

func (f *fakeRunner) Run(_ context.Context, args ...string) (string, error) {
	f.calls = append(f.calls, append([]string{}, args...))
	if len(args) == 0 {
		return "", fmt.Errorf("empty args")
	}
	for _, h := range f.handlers {
		if h.subcommand == args[0] {
			return h.respond(args)
		}
	}
	return "", fmt.Errorf("fakeRunner: unhandled subcommand %q (%s)", args[0], strings.Join(args, " "))
}
