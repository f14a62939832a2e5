// Package export writes a user's transactions as CSV. The layout is the
// generic statement format, so an export can be imported again.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/MrJamesThe3rd/finboard/internal/account"
	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

var header = []string{"Date", "Description", "Amount", "Category", "Account"}

type Transactions interface {
	ListForUser(ctx context.Context, userID int64, filter transaction.ListFilter) ([]*transaction.Transaction, error)
}

type Accounts interface {
	List(ctx context.Context, userID int64) ([]*account.Account, error)
}

// Service handles the export of transactions.
type Service struct {
	transactions Transactions
	accounts     Accounts
}

func NewService(txs Transactions, accounts Accounts) *Service {
	return &Service{transactions: txs, accounts: accounts}
}

// Filename is the attachment name for an export produced at now.
func Filename(now time.Time) string {
	return fmt.Sprintf("transactions_%s.csv", now.Format("20060102"))
}

// Export writes the user's transactions matching filter to w, newest first,
// and returns how many rows were written.
func (s *Service) Export(ctx context.Context, userID int64, filter transaction.ListFilter, w io.Writer) (int, error) {
	txs, err := s.transactions.ListForUser(ctx, userID, filter)
	if err != nil {
		return 0, fmt.Errorf("listing transactions: %w", err)
	}

	accs, err := s.accounts.List(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("listing accounts: %w", err)
	}

	names := make(map[int64]string, len(accs))
	for _, a := range accs {
		names[a.ID] = a.Name
	}

	cw := csv.NewWriter(w)

	if err := cw.Write(header); err != nil {
		return 0, fmt.Errorf("writing header: %w", err)
	}

	for _, tx := range txs {
		category := ""
		if tx.Category != nil {
			category = *tx.Category
		}

		record := []string{
			tx.Date.Format("2006-01-02"),
			tx.Description,
			tx.Amount.StringFixed(2),
			category,
			names[tx.AccountID],
		}

		if err := cw.Write(record); err != nil {
			return 0, fmt.Errorf("writing transaction %d: %w", tx.ID, err)
		}
	}

	cw.Flush()

	if err := cw.Error(); err != nil {
		return 0, fmt.Errorf("flushing csv: %w", err)
	}

	return len(txs), nil
}
