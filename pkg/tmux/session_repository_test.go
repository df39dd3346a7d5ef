package tmux

import (
	"context"
	"testing"
)

func TestNewSessionReturnsSessionWithPrintedID(t *testing.T) {
	fake := &fakeRunner{}
	fake.on("new-session", func(args []string) (string, error) {
		return "$7\n", nil
	})
	fake.on("list-sessions", func(args []string) (string, error) {
		return `{"id":"$7","name":"myproj","path":"/home/dev/myproj"}` + "\n", nil
	})

	panes := NewPaneRepository(fake)
	windows := NewWindowRepository(fake, panes)
	sessions := NewSessionRepository(fake, windows)

	session, err := sessions.NewSession(context.Background(), NewSessionRequest{
		ID:   "desc-1",
		Name: "myproj",
		Path: "/home/dev/myproj",
		Windows: []WindowSpec{
			{Name: "editor"},
		},
	})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if session.ID != "$7" {
		t.Fatalf("got session id %q, want $7", session.ID)
	}
	if session.Name != "myproj" {
		t.Fatalf("got session name %q", session.Name)
	}
}

func TestGetSessionsEmptyServerIsNotAnError(t *testing.T) {
	fake := &fakeRunner{}
	fake.on("list-sessions", func(args []string) (string, error) {
		return "", &listErr{msg: "no server running on /tmp/tmux-0/default"}
	})

	sessions := NewSessionRepository(fake, nil)
	got, err := sessions.GetSessions(context.Background(), nil, SessionIncludes{})
	if err != nil {
		t.Fatalf("expected nil error for empty server, got %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil slice, got %v", got)
	}
}

// listErr is a minimal error used to exercise IsListEmptyErr's text-based
// classification without going through a real exec.Cmd failure.
type listErr struct{ msg string }

func (e *listErr) Error() string { return e.msg }
