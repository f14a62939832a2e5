package view

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/finboard/internal/client"
)

const importTimeout = 2 * time.Minute

type importState int

const (
	importStateFormatSelect importState = iota
	importStateFilePick
	importStateImporting
	importStateResult
)

type importFormat struct {
	value string
	label string
}

var importFormats = []importFormat{
	{value: "csv", label: "Generic CSV (Date, Description, Amount)"},
	{value: "cgd", label: "Caixa Geral de Depósitos"},
}

type ImportModel struct {
	CommonModel
	account client.Account

	state        importState
	filePicker   filepicker.Model
	formatCursor int

	result *client.ImportResult
	status string
	err    error
}

func NewImportModel(c *client.Client, account client.Account) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv", ".txt"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return ImportModel{
		CommonModel: CommonModel{Client: c},
		account:     account,
		filePicker:  fp,
	}
}

func (m ImportModel) Title() string { return "Import into " + m.account.Name }

func (m ImportModel) ShortHelp() string {
	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

		if m.state == importStateFormatSelect {
			return m.updateFormatSelect(msg)
		}

	case importResultMsg:
		m.state = importStateResult

		if msg.err != nil {
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, expired(msg.err)
		}

		m.result = msg.result
		m.status = fmt.Sprintf("Imported %d transactions (%s, %s).",
			msg.result.Imported, msg.result.Format, msg.result.Charset)

		return m, nil
	}

	if m.state != importStateFilePick {
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = importStateImporting
		m.status = fmt.Sprintf("Importing %s...", filepath.Base(path))

		return m, m.importCmd(path)
	}

	return m, cmd
}

func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case importStateFilePick:
		m.state = importStateFormatSelect
		return m, nil
	case importStateResult:
		m.state = importStateFormatSelect
		m.err = nil
		m.result = nil
		m.status = ""

		return m, nil
	}

	return m, Back
}

func (m ImportModel) updateFormatSelect(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		if m.formatCursor > 0 {
			m.formatCursor--
		}
	case tea.KeyDown:
		if m.formatCursor < len(importFormats)-1 {
			m.formatCursor++
		}
	case tea.KeyEnter:
		m.state = importStateFilePick
		return m, m.filePicker.Init()
	}

	return m, nil
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateFormatSelect:
		return m.viewFormatSelect()
	case importStateFilePick:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("Select statement to import (%s):\n\n%s",
				importFormats[m.formatCursor].label, m.filePicker.View()),
		)
	case importStateImporting:
		return lipgloss.NewStyle().Padding(2).Render(m.status)
	case importStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ImportModel) viewFormatSelect() string {
	s := fmt.Sprintf("Import into %s\n\nSelect statement format:\n\n", m.account.Name)

	for i, f := range importFormats {
		cursor := " "
		if i == m.formatCursor {
			cursor = ">"
		}

		s += fmt.Sprintf("%s %s\n", cursor, f.label)
	}

	return lipgloss.NewStyle().Padding(2).Render(s)
}

func (m ImportModel) viewResult() string {
	style := lipgloss.NewStyle().Padding(2)
	if m.err != nil {
		return style.Render(errorStyle.Render(m.status) + "\n\n(Esc to go back)")
	}

	s := incomeStyle.Render(m.status) + "\n\n"

	for i, tx := range m.result.Transactions {
		if i == 10 {
			s += faintStyle.Render(fmt.Sprintf("... and %d more", len(m.result.Transactions)-10)) + "\n"
			break
		}

		s += fmt.Sprintf("%s  %12s  %s  %s\n",
			FormatDate(tx.Date), FormatAmount(tx.Amount), faintStyle.Render(categoryOf(tx.Category)), tx.Description)
	}

	return style.Render(s + "\n(Esc to go back)")
}

// Messages

type importResultMsg struct {
	result *client.ImportResult
	err    error
}

func (m ImportModel) importCmd(path string) tea.Cmd {
	c := m.Client
	accountID := m.account.ID
	format := importFormats[m.formatCursor].value

	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return importResultMsg{err: err}
		}
		defer f.Close()

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		res, err := c.Import(ctx, accountID, format, filepath.Base(path), f)

		return importResultMsg{result: res, err: err}
	}
}
