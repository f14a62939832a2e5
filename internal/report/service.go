package report

import (
	"context"
	"fmt"

	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

type Transactions interface {
	ListForUser(ctx context.Context, userID int64, filter transaction.ListFilter) ([]*transaction.Transaction, error)
}

type Service struct {
	txs Transactions
}

func NewService(txs Transactions) *Service {
	return &Service{txs: txs}
}

// Summary aggregates the user's transactions that fall within filter.
func (s *Service) Summary(ctx context.Context, userID int64, filter transaction.ListFilter) (Summary, error) {
	txs, err := s.txs.ListForUser(ctx, userID, filter)
	if err != nil {
		return Summary{}, fmt.Errorf("listing transactions: %w", err)
	}

	return Summarize(txs), nil
}
