package categories

import (
	"context"

	"github.com/stockdesk/stockdesk/internal/shared"
)

// Service wraps category persistence with validation.
type Service struct {
	repo Repository
}

// NewService constructs Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns all categories, newest first.
func (s *Service) List(ctx context.Context) ([]Category, error) {
	categories, err := s.repo.List(ctx)
	if err != nil {
		return nil, shared.Store("categories.list", err)
	}
	return categories, nil
}

// Create validates and persists a category.
func (s *Service) Create(ctx context.Context, category Category) (Category, error) {
	if err := s.validate(category); err != nil {
		return Category{}, err
	}
	created, err := s.repo.Create(ctx, category)
	if err != nil {
		return Category{}, shared.Store("categories.create", err)
	}
	return created, nil
}
