package view

import (
	"fmt"
	"net/mail"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/finboard/internal/client"
)

const (
	modeLogin    = "login"
	modeRegister = "register"
)

// LoggedInMsg is emitted once the client holds a valid session.
type LoggedInMsg struct {
	User *client.User
}

// loginFields is shared with the form, which writes through pointers.
type loginFields struct {
	mode     string
	email    string
	password string
}

type LoginModel struct {
	CommonModel

	form   *huh.Form
	fields *loginFields

	busy bool
	err  error
}

func NewLoginModel(c *client.Client) LoginModel {
	m := LoginModel{CommonModel: CommonModel{Client: c}, fields: &loginFields{mode: modeLogin}}
	m.form = m.buildForm()

	return m
}

func (m LoginModel) Title() string { return "Sign In" }

func (m LoginModel) ShortHelp() string {
	return "Enter/Tab: next field | Ctrl+C: quit"
}

func (m LoginModel) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("mode").
				Title("Welcome to Finboard").
				Options(
					huh.NewOption("Log in", modeLogin),
					huh.NewOption("Create an account", modeRegister),
				).
				Value(&m.fields.mode),

			huh.NewInput().
				Key("email").
				Title("Email").
				Value(&m.fields.email).
				Validate(func(s string) error {
					if _, err := mail.ParseAddress(strings.TrimSpace(s)); err != nil {
						return fmt.Errorf("enter a valid email")
					}
					return nil
				}),

			huh.NewInput().
				Key("password").
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.fields.password).
				Validate(func(s string) error {
					if len(s) < 8 {
						return fmt.Errorf("at least 8 characters")
					}
					return nil
				}),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m LoginModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m LoginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if res, ok := msg.(loginResultMsg); ok {
		m.busy = false

		if res.err != nil {
			m.err = res.err
			m.fields.password = ""
			m.form = m.buildForm()

			return m, m.form.Init()
		}

		return m, func() tea.Msg { return LoggedInMsg{User: res.user} }
	}

	if m.busy {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.busy = true
	m.err = nil

	return m, m.submitCmd()
}

func (m LoginModel) View() string {
	content := m.form.View()

	if m.busy {
		content = "Signing in..."
	}

	if m.err != nil {
		content = errorStyle.Render(m.err.Error()) + "\n\n" + content
	}

	return lipgloss.NewStyle().Padding(2).Render(content)
}

type loginResultMsg struct {
	user *client.User
	err  error
}

func (m LoginModel) submitCmd() tea.Cmd {
	c := m.Client
	creds := client.Credentials{Email: strings.TrimSpace(m.fields.email), Password: m.fields.password}
	register := m.fields.mode == modeRegister

	return func() tea.Msg {
		ctx, cancel := APICtx()
		defer cancel()

		var (
			u   *client.User
			err error
		)

		if register {
			u, err = c.Register(ctx, creds)
		} else {
			u, err = c.Login(ctx, creds)
		}

		return loginResultMsg{user: u, err: err}
	}
}
