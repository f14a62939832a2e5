// Package seed fills a freshly registered user's dashboard with sample
// accounts and transactions. It is demo scaffolding and only runs when
// wired in as a registration hook.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/juju/clock"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/finboard/internal/account"
	"github.com/MrJamesThe3rd/finboard/internal/transaction"
	"github.com/MrJamesThe3rd/finboard/internal/user"
)

const (
	window            = 60 * 24 * time.Hour
	minTransactions   = 20
	extraTransactions = 20
)

type Repository interface {
	CreateAccount(ctx context.Context, params account.CreateParams, ownerID int64) (*account.Account, error)
	CreateTransaction(ctx context.Context, params transaction.CreateParams) (*transaction.Transaction, error)
}

var sampleAccounts = []account.CreateParams{
	{
		Name:        "Everyday Savings",
		Type:        account.TypeSavings,
		Institution: "First National Bank",
		Number:      "XXXX4567",
		Balance:     decimal.RequireFromString("12850.75"),
	},
	{
		Name:        "Current Account",
		Type:        account.TypeChecking,
		Institution: "City Credit Union",
		Number:      "XXXX7890",
		Balance:     decimal.RequireFromString("4500.50"),
	},
	{
		Name:        "Brokerage",
		Type:        account.TypeInvestment,
		Institution: "Harbor Investments",
		Number:      "XXXX2345",
		Balance:     decimal.RequireFromString("25000.00"),
	},
}

var merchants = map[string][]string{
	"Groceries":      {"Fresh Market", "Corner Grocer", "Green Basket", "Farmers Co-op", "Daily Foods"},
	"Dining":         {"Harbor Bistro", "Noodle House", "Taco Stand", "Grill & Co", "Sunrise Cafe"},
	"Transportation": {"Metro Transit", "Uber", "City Rail", "Airline Tickets", "Fuel Station"},
	"Shopping":       {"Department Store", "Online Marketplace", "Electronics Hub", "Shoe Outlet", "Bookshop"},
	"Entertainment":  {"Cinema Plaza", "Ticket Office", "Netflix", "Music Streaming", "Theme Park"},
	"Utilities":      {"Power Company", "Mobile Recharge", "Broadband Bill", "Water Board", "Gas Utility"},
	"Medical":        {"Pharmacy", "City Hospital", "Dental Clinic", "Eye Care", "Health Lab"},
	"Education":      {"Online Course", "Tuition Fees", "Language School", "School Supplies", "Book Store"},
	"Housing":        {"Rent Payment", "Mortgage", "Property Tax", "Home Repairs", "Building Fees"},
	"Insurance":      {"Life Insurance", "Car Insurance", "Home Insurance", "Health Cover", "Travel Insurance"},
	"Investments":    {"Index Fund", "Brokerage Transfer", "Mutual Fund", "Bond Purchase", "Fixed Deposit"},
	"Salary":         {"Salary Credit", "Bonus", "Income"},
}

// categories fixes the iteration order over merchants.
var categories = []string{
	"Groceries", "Dining", "Transportation", "Shopping",
	"Entertainment", "Utilities", "Medical", "Education",
	"Housing", "Insurance", "Investments", "Salary",
}

type Seeder struct {
	repo  Repository
	clock clock.Clock
	rng   *rand.Rand
}

// New builds a Seeder. rng may be nil for a randomly seeded generator.
func New(repo Repository, clk clock.Clock, rng *rand.Rand) *Seeder {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	return &Seeder{repo: repo, clock: clk, rng: rng}
}

// Hook matches auth.RegisterHook.
func (s *Seeder) Hook(ctx context.Context, u *user.User) error {
	return s.Seed(ctx, u.ID)
}

// Seed creates the sample accounts for userID and posts 20 to 39 random
// transactions on each, dated within the last 60 days. Transactions go
// through the repository so balances stay consistent.
func (s *Seeder) Seed(ctx context.Context, userID int64) error {
	now := s.clock.Now()
	posted := 0

	for _, params := range sampleAccounts {
		acc, err := s.repo.CreateAccount(ctx, params, userID)
		if err != nil {
			return fmt.Errorf("creating sample account %q: %w", params.Name, err)
		}

		count := minTransactions + s.rng.IntN(extraTransactions)

		for range count {
			if _, err := s.repo.CreateTransaction(ctx, s.sampleTransaction(acc.ID, now)); err != nil {
				return fmt.Errorf("creating sample transaction: %w", err)
			}

			posted++
		}
	}

	slog.Info("seeded sample data", "user_id", userID, "accounts", len(sampleAccounts), "transactions", posted)

	return nil
}

func (s *Seeder) sampleTransaction(accountID int64, now time.Time) transaction.CreateParams {
	category := categories[s.rng.IntN(len(categories))]
	names := merchants[category]

	return transaction.CreateParams{
		AccountID:   accountID,
		Description: names[s.rng.IntN(len(names))],
		Amount:      s.sampleAmount(category),
		Date:        now.Add(-time.Duration(s.rng.Int64N(int64(window)))),
		Category:    &category,
	}
}

// sampleAmount follows the sign conventions: salary is income, investments
// are mostly outflows with occasional returns, everything else is spending.
func (s *Seeder) sampleAmount(category string) decimal.Decimal {
	switch category {
	case "Salary":
		return decimal.NewFromInt(3000 + s.rng.Int64N(5000))
	case "Investments":
		if s.rng.Float64() > 0.7 {
			return decimal.NewFromInt(100 + s.rng.Int64N(1000))
		}

		return decimal.NewFromInt(-100 - s.rng.Int64N(2000))
	}

	return decimal.New(-(1000 + s.rng.Int64N(50000)), -2)
}
