package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/finboard/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/finboard/internal/client"
	"github.com/MrJamesThe3rd/finboard/internal/config"
)

type model struct {
	client *client.Client
	user   *client.User

	current view.View
	status  string
}

type checkSessionMsg struct {
	user *client.User
	err  error
}

func initialModel(c *client.Client) model {
	return model{client: c}
}

func (m model) Init() tea.Cmd {
	c := m.client

	return func() tea.Msg {
		ctx, cancel := view.APICtx()
		defer cancel()

		u, err := c.CurrentUser(ctx)

		return checkSessionMsg{user: u, err: err}
	}
}

func (m model) show(v view.View) (tea.Model, tea.Cmd) {
	m.current = v
	return m, v.Init()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case checkSessionMsg:
		if msg.err != nil {
			if !errors.Is(msg.err, client.ErrUnauthorized) {
				m.status = fmt.Sprintf("API unavailable: %v", msg.err)
			}

			return m.show(view.NewLoginModel(m.client))
		}

		m.user = msg.user

		return m, nil

	case view.LoggedInMsg:
		m.user = msg.User
		m.current = nil
		m.status = ""

		return m, nil

	case view.SessionExpiredMsg:
		m.user = nil
		m.status = "Your session expired. Please log in again."

		return m.show(view.NewLoginModel(m.client))

	case view.BackMsg:
		m.current = nil
		return m, nil

	case view.OpenAccountMsg:
		acc := msg.Account
		return m.show(view.NewTransactionsModel(m.client, &acc))

	case view.ImportAccountMsg:
		return m.show(view.NewImportModel(m.client, msg.Account))

	case loggedOutMsg:
		m.user = nil
		m.status = "Logged out."

		return m.show(view.NewLoginModel(m.client))

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.current == nil && m.user != nil {
			return m.updateMenu(msg)
		}
	}

	if m.current == nil {
		return m, nil
	}

	next, cmd := m.current.Update(msg)
	if v, ok := next.(view.View); ok {
		m.current = v
	}

	return m, cmd
}

func (m model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "1":
		return m.show(view.NewAccountsModel(m.client))
	case "2":
		return m.show(view.NewTransactionsModel(m.client, nil))
	case "3":
		return m.show(view.NewSummaryModel(m.client))
	case "4":
		return m.show(view.NewExportModel(m.client))
	case "5":
		return m, m.logoutCmd()
	}

	return m, nil
}

type loggedOutMsg struct{}

func (m model) logoutCmd() tea.Cmd {
	c := m.client

	return func() tea.Msg {
		ctx, cancel := view.APICtx()
		defer cancel()

		if err := c.Logout(ctx); err != nil {
			slog.Warn("logout failed", "error", err)
		}

		return loggedOutMsg{}
	}
}

func (m model) View() string {
	status := ""
	if m.status != "" {
		status = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n"
	}

	if m.current != nil {
		help := lipgloss.NewStyle().Faint(true).Render(m.current.ShortHelp())
		return status + m.current.View() + "\n" + lipgloss.NewStyle().PaddingLeft(2).Render(help)
	}

	if m.user == nil {
		return lipgloss.NewStyle().Padding(2).Render(status + "Connecting...")
	}

	return lipgloss.NewStyle().Padding(2).Render(
		status +
			fmt.Sprintf("Finboard | %s\n\n", m.user.DisplayName()) +
			"1. Accounts\n" +
			"2. Transactions\n" +
			"3. Summary\n" +
			"4. Export Transactions\n" +
			"5. Log out\n\n" +
			"q. Quit",
	)
}

func cookieFile(cfg *config.Config) string {
	if cfg.Client.CookieFile != "" {
		return cfg.Client.CookieFile
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}

	if err := os.MkdirAll(filepath.Join(dir, "finboard"), 0o700); err != nil {
		return ""
	}

	return filepath.Join(dir, "finboard", "cookies")
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	c, err := client.New(cfg.Client.APIURL, cookieFile(cfg))
	if err != nil {
		slog.Error("failed to create API client", "error", err)
		os.Exit(1)
	}

	p := tea.NewProgram(initialModel(c), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}

	if err := c.Close(); err != nil {
		slog.Error("failed to save session", "error", err)
	}
}
