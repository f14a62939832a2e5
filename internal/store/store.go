// Package store is the in-memory repository for users, accounts and
// transactions.
//
// A single Store is created at process start and shared by every service.
// All collections sit behind one mutex so that multi-collection writes, such
// as posting a transaction and moving its account balance, are atomic.
package store

import (
	"sync"

	"github.com/juju/clock"

	"github.com/MrJamesThe3rd/finboard/internal/account"
	"github.com/MrJamesThe3rd/finboard/internal/transaction"
	"github.com/MrJamesThe3rd/finboard/internal/user"
)

type Store struct {
	clock clock.Clock

	mu           sync.RWMutex
	users        map[int64]*user.User
	accounts     map[int64]*account.Account
	transactions map[int64]*transaction.Transaction

	// Counters only ever grow; ids are never reused after a delete.
	lastUserID        int64
	lastAccountID     int64
	lastTransactionID int64
}

func New(clk clock.Clock) *Store {
	return &Store{
		clock:        clk,
		users:        make(map[int64]*user.User),
		accounts:     make(map[int64]*account.Account),
		transactions: make(map[int64]*transaction.Transaction),
	}
}

// Records are copied on the way in and out so callers never hold a pointer
// into the guarded maps.

func cloneUser(u *user.User) *user.User {
	c := *u
	c.Username = cloneString(u.Username)
	c.FirstName = cloneString(u.FirstName)
	c.LastName = cloneString(u.LastName)
	c.Phone = cloneString(u.Phone)

	return &c
}

func cloneAccount(a *account.Account) *account.Account {
	c := *a
	return &c
}

func cloneTransaction(t *transaction.Transaction) *transaction.Transaction {
	c := *t
	if t.Category != nil {
		c.Category = new(*t.Category)
	}

	return &c
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}

	return new(*s)
}
