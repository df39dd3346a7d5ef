// Package tmuxfmt is the shared leaf depended on by every tmux repository:
// the format-variable taxonomy and the filter AST that compiles to tmux's
// "#{op:lhs,rhs}" expression syntax. Keeping this as a leaf (no repository
// package imports another repository package) is what breaks the
// session/window/pane dependency cycle.
package tmuxfmt

// FormatVariable names one of tmux's "#{...}" format fields.
type FormatVariable int

const (
	SessionID FormatVariable = iota
	SessionName
	SessionPath
	WindowID
	WindowIndex
	WindowName
	PaneID
	PaneIndex
	PaneTitle
	PaneCurrentPath
	ClientName
	ClientTTY
	ClientSessionName
)

var variableNames = map[FormatVariable]string{
	SessionID:         "session_id",
	SessionName:       "session_name",
	SessionPath:       "session_path",
	WindowID:          "window_id",
	WindowIndex:       "window_index",
	WindowName:        "window_name",
	PaneID:            "pane_id",
	PaneIndex:         "pane_index",
	PaneTitle:         "pane_title",
	PaneCurrentPath:   "pane_current_path",
	ClientName:        "client_name",
	ClientTTY:         "client_tty",
	ClientSessionName: "client_session",
}

// Name returns the bare tmux format variable name, e.g. "session_id".
func (v FormatVariable) Name() string {
	if n, ok := variableNames[v]; ok {
		return n
	}
	return "unknown"
}

// Format returns the "#{name}" form used inside -F template strings.
func (v FormatVariable) Format() string {
	return "#{" + v.Name() + "}"
}
