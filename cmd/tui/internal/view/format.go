package view

import (
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

var (
	incomeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	expenseStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	faintStyle   = lipgloss.NewStyle().Faint(true)
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
)

// FormatAmount renders an amount with thousands separators and two decimals.
func FormatAmount(amount float64) string {
	return humanize.FormatFloat("#,###.##", amount)
}

// ColorAmount is FormatAmount coloured by sign.
func ColorAmount(amount float64) string {
	if amount < 0 {
		return expenseStyle.Render(FormatAmount(amount))
	}

	return incomeStyle.Render(FormatAmount(amount))
}

// FormatDate formats a time.Time into YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}

// FormatAgo renders t relative to now, e.g. "3 hours ago".
func FormatAgo(t time.Time) string {
	if t.IsZero() {
		return "never"
	}

	return humanize.Time(t)
}

func categoryOf(c *string) string {
	if c == nil || *c == "" {
		return "-"
	}

	return *c
}
