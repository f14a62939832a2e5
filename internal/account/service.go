package account

import (
	"context"
	"fmt"

	"github.com/MrJamesThe3rd/finboard/internal/validation"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=account
type Repository interface {
	CreateAccount(ctx context.Context, params CreateParams, ownerID int64) (*Account, error)
	GetAccountByID(ctx context.Context, id int64) (*Account, error)
	GetAccountsByUser(ctx context.Context, userID int64) ([]*Account, error)
	UpdateAccount(ctx context.Context, id int64, params UpdateParams) (*Account, error)
	DeleteAccount(ctx context.Context, id int64) (bool, error)
}

// Service exposes owner-scoped account operations. Every method that takes
// an account id fails with ErrNotFound when it does not exist and
// ErrForbidden when it belongs to someone other than userID.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, userID int64) ([]*Account, error) {
	return s.repo.GetAccountsByUser(ctx, userID)
}

func (s *Service) Get(ctx context.Context, userID, id int64) (*Account, error) {
	acc, err := s.repo.GetAccountByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if acc.UserID != userID {
		return nil, ErrForbidden
	}

	return acc, nil
}

func (s *Service) Create(ctx context.Context, userID int64, params CreateParams) (*Account, error) {
	if err := validation.Struct(params); err != nil {
		return nil, err
	}

	return s.repo.CreateAccount(ctx, params, userID)
}

func (s *Service) Update(ctx context.Context, userID, id int64, params UpdateParams) (*Account, error) {
	if err := validation.Struct(params); err != nil {
		return nil, err
	}

	if _, err := s.Get(ctx, userID, id); err != nil {
		return nil, err
	}

	return s.repo.UpdateAccount(ctx, id, params)
}

func (s *Service) Delete(ctx context.Context, userID, id int64) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}

	existed, err := s.repo.DeleteAccount(ctx, id)
	if err != nil {
		return fmt.Errorf("deleting account: %w", err)
	}

	if !existed {
		return ErrNotFound
	}

	return nil
}
