package suppliers

import (
	"context"

	"github.com/stockdesk/stockdesk/internal/shared"
)

// Service wraps supplier persistence with validation.
type Service struct {
	repo Repository
}

// NewService constructs Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns all suppliers, newest first.
func (s *Service) List(ctx context.Context) ([]Supplier, error) {
	suppliers, err := s.repo.List(ctx)
	if err != nil {
		return nil, shared.Store("suppliers.list", err)
	}
	return suppliers, nil
}

// Create validates and persists a supplier.
func (s *Service) Create(ctx context.Context, supplier Supplier) (Supplier, error) {
	if err := s.validate(supplier); err != nil {
		return Supplier{}, err
	}
	created, err := s.repo.Create(ctx, supplier)
	if err != nil {
		return Supplier{}, shared.Store("suppliers.create", err)
	}
	return created, nil
}
