package transaction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/MrJamesThe3rd/finboard/internal/account"
	"github.com/MrJamesThe3rd/finboard/internal/validation"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	// CreateTransaction stores the transaction and moves the owning account's
	// balance by its amount in one step.
	CreateTransaction(ctx context.Context, params CreateParams) (*Transaction, error)
	GetTransaction(ctx context.Context, id int64) (*Transaction, error)
	GetTransactionsByAccount(ctx context.Context, accountID int64) ([]*Transaction, error)
	GetAllTransactionsForUser(ctx context.Context, userID int64) ([]*Transaction, error)
}

// Accounts resolves an account on behalf of a user, enforcing ownership.
type Accounts interface {
	Get(ctx context.Context, userID, id int64) (*account.Account, error)
}

// Categorizer suggests a category for a description, or "" when it has none.
type Categorizer interface {
	Suggest(ctx context.Context, userID int64, description string) (string, error)
}

type Service struct {
	repo        Repository
	accounts    Accounts
	categorizer Categorizer
}

// NewService builds a Service. categorizer may be nil.
func NewService(repo Repository, accounts Accounts, categorizer Categorizer) *Service {
	return &Service{repo: repo, accounts: accounts, categorizer: categorizer}
}

// Create posts a transaction against one of userID's accounts. A missing or
// foreign account is reported as account.ErrForbidden.
func (s *Service) Create(ctx context.Context, userID int64, params CreateParams) (*Transaction, error) {
	if err := validation.Struct(params); err != nil {
		return nil, err
	}

	if _, err := s.accounts.Get(ctx, userID, params.AccountID); err != nil {
		if errors.Is(err, account.ErrNotFound) || errors.Is(err, account.ErrForbidden) {
			return nil, account.ErrForbidden
		}

		return nil, fmt.Errorf("resolving account: %w", err)
	}

	s.categorize(ctx, userID, &params)

	return s.repo.CreateTransaction(ctx, params)
}

// CreateBatch posts params against accountID, which must belong to userID.
// All params are validated before anything is posted. On a mid-batch failure
// the transactions already posted are returned along with the error.
func (s *Service) CreateBatch(ctx context.Context, userID, accountID int64, params []CreateParams) ([]*Transaction, error) {
	if _, err := s.accounts.Get(ctx, userID, accountID); err != nil {
		return nil, err
	}

	for i := range params {
		params[i].AccountID = accountID

		if err := validation.Struct(params[i]); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
	}

	txs := make([]*Transaction, 0, len(params))

	for i := range params {
		s.categorize(ctx, userID, &params[i])

		tx, err := s.repo.CreateTransaction(ctx, params[i])
		if err != nil {
			return txs, fmt.Errorf("creating transaction %d: %w", i+1, err)
		}

		txs = append(txs, tx)
	}

	return txs, nil
}

func (s *Service) Get(ctx context.Context, userID, id int64) (*Transaction, error) {
	tx, err := s.repo.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := s.accounts.Get(ctx, userID, tx.AccountID); err != nil {
		if errors.Is(err, account.ErrNotFound) {
			slog.Error("transaction references missing account", "transaction_id", id, "account_id", tx.AccountID)
			return nil, fmt.Errorf("transaction %d references missing account %d", id, tx.AccountID)
		}

		return nil, err
	}

	return tx, nil
}

// ListForAccount returns the account's transactions, newest first.
func (s *Service) ListForAccount(ctx context.Context, userID, accountID int64) ([]*Transaction, error) {
	if _, err := s.accounts.Get(ctx, userID, accountID); err != nil {
		return nil, err
	}

	return s.repo.GetTransactionsByAccount(ctx, accountID)
}

// ListForUser returns every transaction across userID's accounts that
// matches filter, newest first.
func (s *Service) ListForUser(ctx context.Context, userID int64, filter ListFilter) ([]*Transaction, error) {
	all, err := s.repo.GetAllTransactionsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	txs := make([]*Transaction, 0, len(all))
	for _, tx := range all {
		if filter.matches(tx) {
			txs = append(txs, tx)
		}
	}

	return txs, nil
}

func (s *Service) categorize(ctx context.Context, userID int64, params *CreateParams) {
	if s.categorizer == nil {
		return
	}

	if params.Category != nil && strings.TrimSpace(*params.Category) != "" {
		return
	}

	suggested, err := s.categorizer.Suggest(ctx, userID, params.Description)
	if err != nil {
		slog.Warn("failed to suggest category", "error", err)
		return
	}

	if suggested == "" {
		return
	}

	params.Category = &suggested
}
