package tmux

import (
	"context"
	"encoding/json"
	"fmt"

	"workbench/pkg/errkind"
	"workbench/pkg/tmuxfmt"
)

// TargetKind selects which entity a SwitchClient target refers to.
type TargetKind int

const (
	TargetSession TargetKind = iota
	TargetWindow
	TargetPane
)

// Target names one tmux entity by id, used to resolve switch-client's "-t".
type Target struct {
	Kind TargetKind
	ID   string
}

// ClientRepository is the typed CRUD surface over tmux clients.
type ClientRepository struct {
	Conn     Runner
	Sessions *SessionRepository
}

func NewClientRepository(conn Runner, sessions *SessionRepository) *ClientRepository {
	return &ClientRepository{Conn: conn, Sessions: sessions}
}

type clientRow struct {
	Name        string `json:"name"`
	TTY         string `json:"tty"`
	SessionName string `json:"session_name"`
}

func clientListFormat() string {
	return fmt.Sprintf(`{"name":"%s","tty":"%s","session_name":"%s"}`,
		tmuxfmt.ClientName.Format(), tmuxfmt.ClientTTY.Format(), tmuxfmt.ClientSessionName.Format())
}

// GetClients lists attached clients matching filter, attaching each
// client's session when include.Session is set.
func (r *ClientRepository) GetClients(ctx context.Context, filter tmuxfmt.Node, include ClientIncludes) ([]Client, error) {
	args := []string{"list-clients", "-F", clientListFormat()}
	if filter != nil {
		args = append(args, "-f", filter.Render())
	}

	out, err := r.Conn.Run(ctx, args...)
	if err != nil {
		if IsListEmptyErr(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list clients: %w", err)
	}

	var clients []Client
	for _, line := range splitNonEmptyLines(out) {
		var row clientRow
		if err := json.Unmarshal([]byte(line), &row); err != nil {
			return nil, errkind.New(errkind.Parse, fmt.Errorf("parse client row %q: %w", line, err))
		}
		clients = append(clients, Client{
			Name:        row.Name,
			TTY:         row.TTY,
			SessionName: row.SessionName,
			Includes:    include,
		})
	}

	if include.Session != nil {
		for i := range clients {
			sessionFilter := tmuxfmt.Eq(tmuxfmt.Var(tmuxfmt.SessionName), tmuxfmt.Const(clients[i].SessionName))
			sessions, err := r.Sessions.GetSessions(ctx, sessionFilter, *include.Session)
			if err != nil {
				return nil, fmt.Errorf("session for client %q: %w", clients[i].Name, err)
			}
			if len(sessions) > 0 {
				clients[i].Session = &sessions[0]
			}
		}
	}

	return clients, nil
}

// SwitchClient resolves target's id by variant (session/window/pane) and
// invokes switch-client. If clientName is empty the currently attached
// client is used.
func (r *ClientRepository) SwitchClient(ctx context.Context, clientName string, target Target) error {
	args := []string{"switch-client"}
	if clientName != "" {
		args = append(args, "-c", clientName)
	}
	switch target.Kind {
	case TargetSession:
		args = append(args, "-t", target.ID)
	case TargetWindow:
		args = append(args, "-t", target.ID)
	case TargetPane:
		args = append(args, "-t", target.ID)
	}
	if _, err := r.Conn.Run(ctx, args...); err != nil {
		return fmt.Errorf("switch client to %q: %w", target.ID, err)
	}
	return nil
}
