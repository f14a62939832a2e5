package view

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MrJamesThe3rd/finboard/internal/client"
)

const apiTimeout = 10 * time.Second

// View is the interface that all TUI screens implement.
type View interface {
	tea.Model
	Title() string
	ShortHelp() string
}

// CommonModel is embedded by all views.
type CommonModel struct {
	Client *client.Client
}

type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}

// SessionExpiredMsg tells the root model to show the login screen again.
type SessionExpiredMsg struct{}

// APICtx returns a context with the standard timeout for API calls.
func APICtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), apiTimeout)
}

// expired turns an unauthorized error into a SessionExpiredMsg command.
func expired(err error) tea.Cmd {
	if !errors.Is(err, client.ErrUnauthorized) {
		return nil
	}

	return func() tea.Msg { return SessionExpiredMsg{} }
}
