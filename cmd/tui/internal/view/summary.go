package view

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/finboard/internal/client"
)

const barWidth = 30

type summaryState int

const (
	summaryStateTimeframe summaryState = iota
	summaryStateLoading
	summaryStateReport
)

// SummaryModel shows income, spending by category and the monthly trend.
type SummaryModel struct {
	CommonModel

	state           summaryState
	timeframePicker TimeframePicker
	label           string

	summary *client.Summary
	err     error
}

func NewSummaryModel(c *client.Client) SummaryModel {
	return SummaryModel{
		CommonModel:     CommonModel{Client: c},
		timeframePicker: NewTimeframePicker(TimeframeThisWeek),
	}
}

func (m SummaryModel) Title() string { return "Summary" }

func (m SummaryModel) ShortHelp() string {
	if m.state == summaryStateReport {
		return "Esc: change timeframe"
	}

	return "Esc: back | Enter: select"
}

func (m SummaryModel) Init() tea.Cmd {
	return nil
}

func (m SummaryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TimeframeSelectedMsg:
		m.label = msg.Label
		m.state = summaryStateLoading

		return m, m.loadCmd(msg.Filter)

	case loadSummaryMsg:
		m.state = summaryStateReport
		m.summary = msg.summary
		m.err = msg.err

		return m, expired(msg.err)

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			switch {
			case m.state == summaryStateReport:
				m.state = summaryStateTimeframe
				m.timeframePicker.Reset()

				return m, nil
			case m.state == summaryStateTimeframe && m.timeframePicker.IsSelecting():
				return m, Back
			}
		}
	}

	if m.state != summaryStateTimeframe {
		return m, nil
	}

	var cmd tea.Cmd
	m.timeframePicker, cmd = m.timeframePicker.Update(msg)

	return m, cmd
}

func (m SummaryModel) View() string {
	style := lipgloss.NewStyle().Padding(1)

	switch m.state {
	case summaryStateTimeframe:
		return style.Render(m.timeframePicker.View())
	case summaryStateLoading:
		return style.Render("Loading summary...")
	}

	if m.err != nil {
		return style.Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	s := m.summary

	totals := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1).
		Render(fmt.Sprintf(
			"Income:   %s\nExpenses: %s\nNet:      %s\nSavings:  %.1f%%  (%d transactions)",
			incomeStyle.Render(FormatAmount(s.Income)),
			expenseStyle.Render(FormatAmount(s.Expenses)),
			ColorAmount(s.Net),
			s.SavingsRate,
			s.Count,
		))

	return style.Render(lipgloss.JoinVertical(lipgloss.Left,
		headerStyle.Render("Summary: "+m.label),
		"",
		totals,
		"",
		categoriesView(s.Categories),
		monthsView(s.Months),
	))
}

func categoriesView(categories []client.CategoryTotal) string {
	if len(categories) == 0 {
		return faintStyle.Render("No spending in this period.")
	}

	var b strings.Builder

	b.WriteString("Spending by category\n\n")

	for _, c := range categories {
		filled := int(c.Percent / 100 * barWidth)

		fmt.Fprintf(&b, "%-16s %s%s %5.1f%%  %s\n",
			c.Category,
			expenseStyle.Render(strings.Repeat("█", filled)),
			faintStyle.Render(strings.Repeat("░", barWidth-filled)),
			c.Percent,
			FormatAmount(c.Amount),
		)
	}

	return b.String()
}

func monthsView(months []client.MonthTotal) string {
	if len(months) < 2 {
		return ""
	}

	var b strings.Builder

	b.WriteString("\nMonthly trend\n\n")

	for _, mo := range months {
		fmt.Fprintf(&b, "%s  in %s  out %s\n",
			mo.Month,
			incomeStyle.Render(fmt.Sprintf("%12s", FormatAmount(mo.Income))),
			expenseStyle.Render(fmt.Sprintf("%12s", FormatAmount(mo.Expenses))),
		)
	}

	return b.String()
}

type loadSummaryMsg struct {
	summary *client.Summary
	err     error
}

func (m SummaryModel) loadCmd(filter client.Filter) tea.Cmd {
	c := m.Client

	return func() tea.Msg {
		ctx, cancel := APICtx()
		defer cancel()

		s, err := c.Summary(ctx, filter)

		return loadSummaryMsg{summary: s, err: err}
	}
}
