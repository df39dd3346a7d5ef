package tmux

// ClientIncludes, SessionIncludes, and WindowIncludes replace the source's
// single OO include-fields builder lattice with three small structs
// composed by nested pointers: consumers construct only the topmost level
// they care about and the nested pointer is nil unless a deeper traversal
// was requested.
type ClientIncludes struct {
	Session *SessionIncludes
}

type SessionIncludes struct {
	Windows     *WindowIncludes
	Environment bool
}

type WindowIncludes struct {
	Panes bool
}

// Session mirrors a live tmux session. It is a snapshot: the tmux server
// remains the authoritative store.
type Session struct {
	ID      string
	Name    string
	Path    string
	Windows []Window        // non-nil iff Includes.Windows != nil
	Env     *string         // non-nil iff Includes.Environment was requested
	Includes SessionIncludes
}

// Window mirrors a live tmux window, scoped to its parent session.
type Window struct {
	ID        string
	SessionID string
	Index     string
	Name      string
	Panes     []Pane // non-nil iff Includes.Panes
	Includes  WindowIncludes
}

// Pane mirrors a live tmux pane, scoped to its parent window.
type Pane struct {
	ID          string
	WindowID    string
	Index       string
	Title       string
	CurrentPath string
}

// Client mirrors a live tmux client (an attached terminal).
type Client struct {
	Name        string
	TTY         string
	SessionName string
	Session     *Session // non-nil iff Includes.Session != nil
	Includes    ClientIncludes
}
