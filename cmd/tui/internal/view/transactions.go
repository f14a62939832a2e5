package view

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/finboard/internal/client"
)

type txState int

const (
	txStateTimeframe txState = iota
	txStateList
	txStateAdding
	txStateLearning
)

// txItem wraps a transaction to implement list.Item.
type txItem struct {
	tx      client.Transaction
	account string
}

func (i txItem) Title() string {
	category := faintStyle.Render(fmt.Sprintf("[%s]", categoryOf(i.tx.Category)))

	return fmt.Sprintf("%s  %12s  %s  %s", FormatDate(i.tx.Date), FormatAmount(i.tx.Amount), category, i.tx.Description)
}

func (i txItem) Description() string {
	return i.account
}

func (i txItem) FilterValue() string {
	return i.tx.Description + " " + categoryOf(i.tx.Category)
}

type txFields struct {
	description string
	amount      string
	date        string
	category    string
	pattern     string
}

// TransactionsModel lists transactions for one account, or across all
// accounts for a chosen timeframe.
type TransactionsModel struct {
	CommonModel

	account *client.Account
	names   map[int64]string

	state           txState
	timeframePicker TimeframePicker
	filter          client.Filter
	label           string

	list   list.Model
	form   *huh.Form
	fields *txFields
	txs    []client.Transaction

	loading bool
	status  string
}

// NewTransactionsModel shows account's transactions, or every transaction
// when account is nil.
func NewTransactionsModel(c *client.Client, account *client.Account) TransactionsModel {
	l := list.New([]list.Item{}, txItemDelegate{}, 0, 0)
	l.Title = "Transactions"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	m := TransactionsModel{
		CommonModel:     CommonModel{Client: c},
		account:         account,
		names:           map[int64]string{},
		timeframePicker: NewTimeframePicker(TimeframeThisWeek),
		list:            l,
		fields:          &txFields{},
	}

	if account != nil {
		m.state = txStateList
		m.loading = true
		m.label = account.Name
		m.list.Title = account.Name
	}

	return m
}

func (m TransactionsModel) Title() string {
	if m.account != nil {
		return "Transactions: " + m.account.Name
	}

	return "Transactions"
}

func (m TransactionsModel) ShortHelp() string {
	switch m.state {
	case txStateTimeframe:
		return "Esc: back | Enter: select"
	case txStateList:
		if m.account != nil {
			return "Esc: back | a: add | c: categorise | /: filter | r: refresh"
		}

		return "Esc: back | c: categorise | /: filter | r: refresh"
	}

	return "Esc: cancel | Enter/Tab: navigate form"
}

func (m TransactionsModel) Init() tea.Cmd {
	if m.account != nil {
		return m.loadTxsCmd()
	}

	return nil
}

func (m TransactionsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TimeframeSelectedMsg:
		m.filter = msg.Filter
		m.label = msg.Label
		m.list.Title = "Transactions: " + msg.Label
		m.loading = true
		m.state = txStateList

		return m, m.loadTxsCmd()

	case loadTxsMsg:
		m.loading = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, expired(msg.err)
		}

		m.txs = msg.txs
		for id, name := range msg.names {
			m.names[id] = name
		}

		m.refreshListItems()

		m.status = ""
		if len(msg.txs) == 0 {
			m.status = "No transactions found."
		}

		return m, nil

	case txSavedMsg:
		m.state = txStateList
		m.form = nil

		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
			return m, expired(msg.err)
		}

		m.status = msg.status

		return m, m.loadTxsCmd()

	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-4, msg.Height-8)
		return m, nil
	}

	switch m.state {
	case txStateTimeframe:
		return m.updateTimeframe(msg)
	case txStateList:
		return m.updateList(msg)
	}

	return m.updateForm(msg)
}

func (m TransactionsModel) updateTimeframe(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc && m.timeframePicker.IsSelecting() {
			return m, Back
		}
	}

	var cmd tea.Cmd
	m.timeframePicker, cmd = m.timeframePicker.Update(msg)

	return m, cmd
}

func (m TransactionsModel) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch keyMsg.String() {
		case "esc":
			if m.list.FilterState() == list.FilterApplied {
				break
			}

			if m.account == nil {
				m.state = txStateTimeframe
				m.timeframePicker.Reset()

				return m, nil
			}

			return m, Back
		case "r":
			m.loading = true
			return m, m.loadTxsCmd()
		case "a":
			if m.account != nil {
				return m.startAdding()
			}
		case "c":
			return m.startLearning()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)

	return m, cmd
}

func (m TransactionsModel) startAdding() (tea.Model, tea.Cmd) {
	*m.fields = txFields{date: FormatDate(time.Now())}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("description").
				Title("Description").
				Value(&m.fields.description).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("description cannot be empty")
					}
					return nil
				}),

			huh.NewInput().
				Key("amount").
				Title("Amount").
				Description("Negative for expenses").
				Value(&m.fields.amount).
				Validate(func(s string) error {
					if _, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err != nil {
						return fmt.Errorf("enter a number")
					}
					return nil
				}),

			huh.NewInput().
				Key("date").
				Title("Date").
				Placeholder("YYYY-MM-DD").
				Value(&m.fields.date).
				Validate(func(s string) error {
					if _, err := time.Parse(time.DateOnly, strings.TrimSpace(s)); err != nil {
						return fmt.Errorf("use YYYY-MM-DD")
					}
					return nil
				}),

			huh.NewInput().
				Key("category").
				Title("Category (optional)").
				Description("Left empty, a learned rule may fill it in").
				Value(&m.fields.category),
		),
	).WithWidth(50).WithShowHelp(false)

	m.state = txStateAdding

	return m, m.form.Init()
}

func (m TransactionsModel) startLearning() (tea.Model, tea.Cmd) {
	selected, ok := m.list.SelectedItem().(txItem)
	if !ok {
		return m, nil
	}

	*m.fields = txFields{pattern: selected.tx.Description}
	if selected.tx.Category != nil {
		m.fields.category = *selected.tx.Category
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("pattern").
				Title("When the description contains").
				Value(&m.fields.pattern).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("pattern cannot be empty")
					}
					return nil
				}),

			huh.NewInput().
				Key("category").
				Title("Use category").
				Value(&m.fields.category).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("category cannot be empty")
					}
					return nil
				}),
		),
	).WithWidth(50).WithShowHelp(false)

	m.state = txStateLearning

	return m, m.form.Init()
}

func (m TransactionsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = txStateList
		m.form = nil

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if m.state == txStateLearning {
		return m, m.learnCmd()
	}

	return m, m.addCmd()
}

func (m TransactionsModel) View() string {
	switch m.state {
	case txStateTimeframe:
		return lipgloss.NewStyle().Padding(1).Render(m.timeframePicker.View())

	case txStateList:
		if m.loading {
			return lipgloss.NewStyle().Padding(2).Render("Loading transactions...")
		}

		statusLine := ""
		if m.status != "" {
			statusLine = faintStyle.Render(m.status) + "\n"
		}

		return lipgloss.NewStyle().Padding(1).Render(statusLine + m.totalsView() + "\n" + m.list.View())
	}

	if m.form == nil {
		return ""
	}

	title := "Add Transaction"
	if m.state == txStateLearning {
		title = "Learn Category Rule"
	}

	return lipgloss.NewStyle().Padding(1).Render(headerStyle.Render(title) + "\n\n" + m.form.View())
}

func (m TransactionsModel) totalsView() string {
	var in, out float64

	for _, tx := range m.txs {
		if tx.Amount < 0 {
			out += tx.Amount
		} else {
			in += tx.Amount
		}
	}

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1).
		Render(fmt.Sprintf("%d transactions  |  In: %s  |  Out: %s  |  Net: %s",
			len(m.txs), ColorAmount(in), ColorAmount(out), ColorAmount(in+out)))
}

func (m *TransactionsModel) refreshListItems() {
	items := make([]list.Item, len(m.txs))
	for i, tx := range m.txs {
		items[i] = txItem{tx: tx, account: m.names[tx.AccountID]}
	}

	m.list.SetItems(items)
}

// Messages

type loadTxsMsg struct {
	txs   []client.Transaction
	names map[int64]string
	err   error
}

func (m TransactionsModel) loadTxsCmd() tea.Cmd {
	c := m.Client
	account := m.account
	filter := m.filter

	return func() tea.Msg {
		ctx, cancel := APICtx()
		defer cancel()

		if account != nil {
			txs, err := c.AccountTransactions(ctx, account.ID)
			return loadTxsMsg{txs: txs, names: map[int64]string{account.ID: account.Name}, err: err}
		}

		txs, err := c.Transactions(ctx, filter)
		if err != nil {
			return loadTxsMsg{err: err}
		}

		accs, err := c.Accounts(ctx)
		if err != nil {
			return loadTxsMsg{err: err}
		}

		names := make(map[int64]string, len(accs))
		for _, acc := range accs {
			names[acc.ID] = acc.Name
		}

		return loadTxsMsg{txs: txs, names: names}
	}
}

type txSavedMsg struct {
	status string
	err    error
}

func (m TransactionsModel) addCmd() tea.Cmd {
	c := m.Client
	accountID := m.account.ID
	f := *m.fields

	return func() tea.Msg {
		amount, err := strconv.ParseFloat(strings.TrimSpace(f.amount), 64)
		if err != nil {
			return txSavedMsg{err: err}
		}

		params := client.NewTransaction{
			AccountID:   accountID,
			Description: strings.TrimSpace(f.description),
			Amount:      amount,
			Date:        strings.TrimSpace(f.date),
		}

		if category := strings.TrimSpace(f.category); category != "" {
			params.Category = &category
		}

		ctx, cancel := APICtx()
		defer cancel()

		tx, err := c.CreateTransaction(ctx, params)
		if err != nil {
			return txSavedMsg{err: err}
		}

		return txSavedMsg{status: fmt.Sprintf("Added %s (%s).", tx.Description, categoryOf(tx.Category))}
	}
}

func (m TransactionsModel) learnCmd() tea.Cmd {
	c := m.Client
	f := *m.fields

	return func() tea.Msg {
		ctx, cancel := APICtx()
		defer cancel()

		rule, err := c.Learn(ctx, strings.TrimSpace(f.pattern), strings.TrimSpace(f.category))
		if err != nil {
			return txSavedMsg{err: err}
		}

		return txSavedMsg{status: fmt.Sprintf("New transactions matching %q will be filed under %s.", rule.Pattern, rule.Category)}
	}
}

// txItemDelegate renders items in the list.
type txItemDelegate struct{}

func (d txItemDelegate) Height() int                             { return 2 }
func (d txItemDelegate) Spacing() int                            { return 0 }
func (d txItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d txItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(txItem)
	if !ok {
		return
	}

	title := i.Title()
	if index == m.Index() {
		title = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true).Render("> " + title)
	}

	fmt.Fprintf(w, "  %s\n", title)
	fmt.Fprintf(w, "    %s\n", faintStyle.Render(i.Description()))
}
