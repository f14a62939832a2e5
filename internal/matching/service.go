package matching

import (
	"context"
	"strings"

	"github.com/MrJamesThe3rd/finboard/internal/validation"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=matching
type Repository interface {
	// FindMatch returns the category of the best rule for description, or ""
	// when no rule applies.
	FindMatch(ctx context.Context, userID int64, description string) (string, error)
	CreateRule(ctx context.Context, userID int64, pattern, category string) (*Rule, error)
	GetRulesByUser(ctx context.Context, userID int64) ([]*Rule, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Suggest tries to find a category for the given description.
// Returns empty string if no match found.
func (s *Service) Suggest(ctx context.Context, userID int64, description string) (string, error) {
	if strings.TrimSpace(description) == "" {
		return "", nil
	}

	return s.repo.FindMatch(ctx, userID, description)
}

// Learn remembers a new mapping between a description fragment and a category.
func (s *Service) Learn(ctx context.Context, userID int64, params LearnParams) (*Rule, error) {
	params.Pattern = strings.TrimSpace(params.Pattern)
	params.Category = strings.TrimSpace(params.Category)

	if err := validation.Struct(params); err != nil {
		return nil, err
	}

	return s.repo.CreateRule(ctx, userID, params.Pattern, params.Category)
}

func (s *Service) Rules(ctx context.Context, userID int64) ([]*Rule, error) {
	return s.repo.GetRulesByUser(ctx, userID)
}
