package user

import (
	"context"

	"github.com/MrJamesThe3rd/finboard/internal/validation"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=user
type Repository interface {
	CreateUser(ctx context.Context, params CreateParams) (*User, error)
	GetUserByID(ctx context.Context, id int64) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	UpdateUser(ctx context.Context, id int64, params UpdateParams) (*User, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Profile(ctx context.Context, id int64) (Profile, error) {
	u, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return Profile{}, err
	}

	return u.Profile(), nil
}

func (s *Service) UpdateProfile(ctx context.Context, id int64, params UpdateParams) (Profile, error) {
	if err := validation.Struct(params); err != nil {
		return Profile{}, err
	}

	u, err := s.repo.UpdateUser(ctx, id, params)
	if err != nil {
		return Profile{}, err
	}

	return u.Profile(), nil
}
