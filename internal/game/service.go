package game

import (
	"context"

	"gamehub/internal/paging"
)

// Service provides catalog queries.
type Service struct {
	repo Repository
}

// NewService creates a new catalog service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Search runs a plan and wraps the window in the pagination envelope.
func (s *Service) Search(ctx context.Context, p Plan) (paging.Result[Game], error) {
	if err := p.Page.Validate(); err != nil {
		return paging.Result[Game]{}, err
	}
	items, total, err := s.repo.Search(ctx, p)
	if err != nil {
		return paging.Result[Game]{}, err
	}
	return paging.NewResult(items, p.Page, total), nil
}

// Get returns a game by id.
func (s *Service) Get(ctx context.Context, id string) (Game, error) {
	return s.repo.GetByID(ctx, id)
}
