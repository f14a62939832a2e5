package store

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/MrJamesThe3rd/finboard/internal/account"
	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

// CreateTransaction stores the transaction and adds its amount to the owning
// account's balance under the same lock. A transaction is never stored
// against an account that does not exist.
func (s *Store) CreateTransaction(_ context.Context, params transaction.CreateParams) (*transaction.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[params.AccountID]
	if !ok {
		return nil, fmt.Errorf("creating transaction for account %d: %w", params.AccountID, account.ErrNotFound)
	}

	s.lastTransactionID++

	tx := &transaction.Transaction{
		ID:          s.lastTransactionID,
		AccountID:   params.AccountID,
		Description: params.Description,
		Amount:      params.Amount,
		Date:        params.Date,
		Category:    cloneString(params.Category),
		CreatedAt:   s.clock.Now(),
	}
	s.transactions[tx.ID] = tx

	balance := acc.Balance.Add(tx.Amount)
	if _, err := s.updateAccountLocked(acc.ID, account.UpdateParams{Balance: &balance}); err != nil {
		return nil, fmt.Errorf("moving balance: %w", err)
	}

	return cloneTransaction(tx), nil
}

func (s *Store) GetTransaction(_ context.Context, id int64) (*transaction.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tx, ok := s.transactions[id]
	if !ok {
		return nil, transaction.ErrNotFound
	}

	return cloneTransaction(tx), nil
}

// GetTransactionsByAccount returns the account's transactions, newest first.
func (s *Store) GetTransactionsByAccount(_ context.Context, accountID int64) ([]*transaction.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.collectTransactions(func(tx *transaction.Transaction) bool {
		return tx.AccountID == accountID
	}), nil
}

// GetAllTransactionsForUser returns the transactions of every account owned
// by userID, newest first.
func (s *Store) GetAllTransactionsForUser(_ context.Context, userID int64) ([]*transaction.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	owned := make(map[int64]struct{})

	for _, a := range s.accounts {
		if a.UserID == userID {
			owned[a.ID] = struct{}{}
		}
	}

	return s.collectTransactions(func(tx *transaction.Transaction) bool {
		_, ok := owned[tx.AccountID]
		return ok
	}), nil
}

// collectTransactions copies the matching transactions sorted by date
// descending. Equal dates fall back to the newer id first.
func (s *Store) collectTransactions(keep func(*transaction.Transaction) bool) []*transaction.Transaction {
	txs := make([]*transaction.Transaction, 0)

	for _, tx := range s.transactions {
		if keep(tx) {
			txs = append(txs, cloneTransaction(tx))
		}
	}

	slices.SortFunc(txs, func(a, b *transaction.Transaction) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}

		return cmp.Compare(b.ID, a.ID)
	})

	return txs
}
