// Package report aggregates a user's transactions into income, expense and
// category figures. Negative amounts are expenses, positive ones income.
package report

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

const Uncategorized = "Uncategorized"

var hundred = decimal.NewFromInt(100)

type Summary struct {
	Income      decimal.Decimal
	Expenses    decimal.Decimal // absolute value
	Net         decimal.Decimal
	SavingsRate decimal.Decimal // percent of income kept, zero without income
	Count       int
	Categories  []CategoryTotal
	Months      []MonthTotal
}

type CategoryTotal struct {
	Category string
	Amount   decimal.Decimal
	Percent  decimal.Decimal
	Count    int
}

type MonthTotal struct {
	Month    string // YYYY-MM
	Income   decimal.Decimal
	Expenses decimal.Decimal
}

// Summarize aggregates txs. Categories are sorted by amount descending with
// ties broken by name, months chronologically.
func Summarize(txs []*transaction.Transaction) Summary {
	s := Summary{
		Income:      decimal.Zero,
		Expenses:    decimal.Zero,
		Net:         decimal.Zero,
		SavingsRate: decimal.Zero,
		Count:       len(txs),
		Categories:  []CategoryTotal{},
		Months:      []MonthTotal{},
	}

	categories := make(map[string]*CategoryTotal)
	months := make(map[string]*MonthTotal)

	for _, tx := range txs {
		key := tx.Date.Format("2006-01")

		month, ok := months[key]
		if !ok {
			month = &MonthTotal{Month: key, Income: decimal.Zero, Expenses: decimal.Zero}
			months[key] = month
		}

		if !tx.IsExpense() {
			s.Income = s.Income.Add(tx.Amount)
			month.Income = month.Income.Add(tx.Amount)

			continue
		}

		spent := tx.Amount.Abs()
		s.Expenses = s.Expenses.Add(spent)
		month.Expenses = month.Expenses.Add(spent)

		name := Uncategorized
		if tx.Category != nil && *tx.Category != "" {
			name = *tx.Category
		}

		cat, ok := categories[name]
		if !ok {
			cat = &CategoryTotal{Category: name, Amount: decimal.Zero}
			categories[name] = cat
		}

		cat.Amount = cat.Amount.Add(spent)
		cat.Count++
	}

	s.Net = s.Income.Sub(s.Expenses)

	if s.Income.IsPositive() {
		s.SavingsRate = s.Net.Div(s.Income).Mul(hundred).Round(2)
	}

	for _, cat := range categories {
		cat.Percent = cat.Amount.Div(s.Expenses).Mul(hundred).Round(2)
		s.Categories = append(s.Categories, *cat)
	}

	slices.SortFunc(s.Categories, func(a, b CategoryTotal) int {
		if c := b.Amount.Cmp(a.Amount); c != 0 {
			return c
		}

		return cmp.Compare(a.Category, b.Category)
	})

	for _, m := range months {
		s.Months = append(s.Months, *m)
	}

	slices.SortFunc(s.Months, func(a, b MonthTotal) int {
		return cmp.Compare(a.Month, b.Month)
	})

	return s
}
