package store

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/MrJamesThe3rd/finboard/internal/account"
	"github.com/MrJamesThe3rd/finboard/internal/user"
)

// CreateAccount links a new account to ownerID, which must exist.
func (s *Store) CreateAccount(_ context.Context, params account.CreateParams, ownerID int64) (*account.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[ownerID]; !ok {
		return nil, fmt.Errorf("creating account for user %d: %w", ownerID, user.ErrNotFound)
	}

	s.lastAccountID++
	now := s.clock.Now()

	a := &account.Account{
		ID:          s.lastAccountID,
		UserID:      ownerID,
		Name:        params.Name,
		Type:        params.Type,
		Institution: params.Institution,
		Number:      params.Number,
		Balance:     params.Balance,
		LastUpdated: now,
		CreatedAt:   now,
	}
	s.accounts[a.ID] = a

	return cloneAccount(a), nil
}

func (s *Store) GetAccountByID(_ context.Context, id int64) (*account.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.accounts[id]
	if !ok {
		return nil, account.ErrNotFound
	}

	return cloneAccount(a), nil
}

// GetAccountsByUser returns the user's accounts ordered by id.
func (s *Store) GetAccountsByUser(_ context.Context, userID int64) ([]*account.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	accs := make([]*account.Account, 0)

	for _, a := range s.accounts {
		if a.UserID == userID {
			accs = append(accs, cloneAccount(a))
		}
	}

	slices.SortFunc(accs, func(a, b *account.Account) int {
		return cmp.Compare(a.ID, b.ID)
	})

	return accs, nil
}

func (s *Store) UpdateAccount(_ context.Context, id int64, params account.UpdateParams) (*account.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, err := s.updateAccountLocked(id, params)
	if err != nil {
		return nil, err
	}

	return cloneAccount(a), nil
}

// DeleteAccount removes the account together with its transactions and
// reports whether the account existed.
func (s *Store) DeleteAccount(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[id]; !ok {
		return false, nil
	}

	delete(s.accounts, id)

	for txID, tx := range s.transactions {
		if tx.AccountID == id {
			delete(s.transactions, txID)
		}
	}

	return true, nil
}

// updateAccountLocked is the single mutation path for accounts. It merges
// params and re-stamps LastUpdated. s.mu must be held for writing.
func (s *Store) updateAccountLocked(id int64, params account.UpdateParams) (*account.Account, error) {
	a, ok := s.accounts[id]
	if !ok {
		return nil, account.ErrNotFound
	}

	if params.Name != nil {
		a.Name = *params.Name
	}

	if params.Institution != nil {
		a.Institution = *params.Institution
	}

	if params.Number != nil {
		a.Number = *params.Number
	}

	if params.Balance != nil {
		a.Balance = *params.Balance
	}

	a.LastUpdated = s.clock.Now()

	return a, nil
}
