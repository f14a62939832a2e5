package view

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/finboard/internal/client"
)

type accountsState int

const (
	accountsStateBrowse accountsState = iota
	accountsStateCreate
	accountsStateDelete
)

// OpenAccountMsg asks the root model to show an account's transactions.
type OpenAccountMsg struct {
	Account client.Account
}

// ImportAccountMsg asks the root model to start an import into an account.
type ImportAccountMsg struct {
	Account client.Account
}

type accountFields struct {
	name        string
	kind        string
	institution string
	number      string
	balance     string
	confirm     bool
}

type AccountsModel struct {
	CommonModel

	state    accountsState
	table    table.Model
	accounts []client.Account
	form     *huh.Form
	fields   *accountFields

	loading bool
	err     error
	status  string
}

func NewAccountsModel(c *client.Client) AccountsModel {
	columns := []table.Column{
		{Title: "Name", Width: 22},
		{Title: "Type", Width: 11},
		{Title: "Institution", Width: 22},
		{Title: "Number", Width: 10},
		{Title: "Balance", Width: 14},
		{Title: "Updated", Width: 16},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return AccountsModel{
		CommonModel: CommonModel{Client: c},
		table:       t,
		loading:     true,
		fields:      &accountFields{},
	}
}

func (m AccountsModel) Title() string { return "Accounts" }

func (m AccountsModel) ShortHelp() string {
	if m.state != accountsStateBrowse {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | Enter: transactions | n: new | i: import | x: delete | r: refresh"
}

func (m AccountsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m AccountsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadAccountsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, expired(msg.err)
		}

		m.err = nil
		m.accounts = msg.accounts
		m.refreshTable()

		return m, nil

	case accountSavedMsg:
		m.state = accountsStateBrowse
		m.form = nil
		m.table.Focus()

		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, expired(msg.err)
		}

		m.status = msg.status

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(max(msg.Height-12, 5))
		return m, nil
	}

	switch m.state {
	case accountsStateBrowse:
		return m.updateBrowse(msg)
	default:
		return m.updateForm(msg)
	}
}

func (m AccountsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "n":
			return m.startCreate()
		case "x":
			return m.startDelete()
		case "enter":
			if acc, ok := m.selected(); ok {
				return m, func() tea.Msg { return OpenAccountMsg{Account: acc} }
			}
		case "i":
			if acc, ok := m.selected(); ok {
				return m, func() tea.Msg { return ImportAccountMsg{Account: acc} }
			}
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m AccountsModel) selected() (client.Account, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.accounts) {
		return client.Account{}, false
	}

	return m.accounts[idx], true
}

func (m AccountsModel) startCreate() (tea.Model, tea.Cmd) {
	*m.fields = accountFields{kind: "checking", balance: "0"}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("name").
				Title("Name").
				Value(&m.fields.name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name cannot be empty")
					}
					return nil
				}),

			huh.NewSelect[string]().
				Key("type").
				Title("Type").
				Options(huh.NewOptions("checking", "savings", "bank", "credit", "investment")...).
				Value(&m.fields.kind),

			huh.NewInput().
				Key("institution").
				Title("Institution (optional)").
				Value(&m.fields.institution),

			huh.NewInput().
				Key("number").
				Title("Number (optional)").
				Placeholder("XXXX1234").
				Value(&m.fields.number),

			huh.NewInput().
				Key("balance").
				Title("Opening balance").
				Value(&m.fields.balance).
				Validate(func(s string) error {
					if _, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err != nil {
						return fmt.Errorf("enter a number")
					}
					return nil
				}),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = accountsStateCreate
	m.table.Blur()

	return m, m.form.Init()
}

func (m AccountsModel) startDelete() (tea.Model, tea.Cmd) {
	acc, ok := m.selected()
	if !ok {
		return m, nil
	}

	*m.fields = accountFields{}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Key("confirm").
				Title(fmt.Sprintf("Delete %q and all its transactions?", acc.Name)).
				Affirmative("Delete").
				Negative("Keep").
				Value(&m.fields.confirm),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = accountsStateDelete
	m.table.Blur()

	return m, m.form.Init()
}

func (m AccountsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = accountsStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if m.state == accountsStateDelete {
		return m, m.deleteCmd()
	}

	return m, m.createCmd()
}

func (m AccountsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading accounts...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	var total float64
	for _, acc := range m.accounts {
		total += acc.Balance
	}

	header := fmt.Sprintf("%d accounts | Net worth: %s", len(m.accounts), ColorAmount(total))

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.state != accountsStateBrowse && m.form != nil {
		title := "New Account"
		if m.state == accountsStateDelete {
			title = "Delete Account"
		}

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(title + "\n\n" + m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = faintStyle.Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *AccountsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.accounts))
	for _, acc := range m.accounts {
		rows = append(rows, table.Row{
			acc.Name,
			acc.Type,
			acc.Institution,
			acc.Number,
			FormatAmount(acc.Balance),
			FormatAgo(acc.LastUpdated),
		})
	}

	m.table.SetRows(rows)
}

// Messages

type loadAccountsMsg struct {
	accounts []client.Account
	err      error
}

func (m AccountsModel) loadCmd() tea.Cmd {
	c := m.Client

	return func() tea.Msg {
		ctx, cancel := APICtx()
		defer cancel()

		accs, err := c.Accounts(ctx)

		return loadAccountsMsg{accounts: accs, err: err}
	}
}

type accountSavedMsg struct {
	status string
	err    error
}

func (m AccountsModel) createCmd() tea.Cmd {
	c := m.Client
	f := *m.fields

	return func() tea.Msg {
		balance, err := strconv.ParseFloat(strings.TrimSpace(f.balance), 64)
		if err != nil {
			return accountSavedMsg{err: err}
		}

		ctx, cancel := APICtx()
		defer cancel()

		acc, err := c.CreateAccount(ctx, client.NewAccount{
			Name:        strings.TrimSpace(f.name),
			Type:        f.kind,
			Institution: strings.TrimSpace(f.institution),
			Number:      strings.TrimSpace(f.number),
			Balance:     balance,
		})
		if err != nil {
			return accountSavedMsg{err: err}
		}

		return accountSavedMsg{status: fmt.Sprintf("Created %s.", acc.Name)}
	}
}

func (m AccountsModel) deleteCmd() tea.Cmd {
	acc, ok := m.selected()
	if !ok || !m.fields.confirm {
		return func() tea.Msg { return accountSavedMsg{status: "Nothing deleted."} }
	}

	c := m.Client

	return func() tea.Msg {
		ctx, cancel := APICtx()
		defer cancel()

		if err := c.DeleteAccount(ctx, acc.ID); err != nil {
			return accountSavedMsg{err: err}
		}

		return accountSavedMsg{status: fmt.Sprintf("Deleted %s.", acc.Name)}
	}
}
