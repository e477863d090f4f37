package library

import (
	"context"

	"gamehub/internal/authz"
	"gamehub/internal/identity"
	"gamehub/internal/paging"
	"gamehub/internal/validation"
)

// DefaultSort lists the most recently touched records first.
var DefaultSort = paging.Sort{Field: "updated_at", Desc: true}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Add creates the record for (userID, in.GameID). Only userID may add to
// their own library.
func (s *Service) Add(ctx context.Context, acting identity.Identity, userID string, in AddInput) (Record, error) {
	if err := authz.Check(acting, userID); err != nil {
		return Record{}, err
	}
	in.normalize()
	if err := validation.Struct(in); err != nil {
		return Record{}, err
	}

	return s.repo.Insert(ctx, Record{
		UserID: userID,
		GameID: in.GameID,
		Status: in.Status,
		Notes:  in.Notes,
	})
}

func (s *Service) Get(ctx context.Context, userID, gameID string) (Record, error) {
	return s.repo.Get(ctx, userID, gameID)
}

// Update applies p to the owner's record. Gate and validation run before the
// store is touched.
func (s *Service) Update(ctx context.Context, acting identity.Identity, userID, gameID string, p Patch) (Record, error) {
	p.normalize()
	if err := authz.Prepare[Record](acting, userID, p); err != nil {
		return Record{}, err
	}
	return s.repo.Update(ctx, userID, gameID, p)
}

func (s *Service) Remove(ctx context.Context, acting identity.Identity, userID, gameID string) error {
	if err := authz.Check(acting, userID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, userID, gameID)
}

func (s *Service) List(ctx context.Context, userID string, f Filter, page paging.Request, sort paging.Sort) (paging.Result[Record], error) {
	if err := page.Validate(); err != nil {
		return paging.Result[Record]{}, err
	}
	if err := f.Validate(); err != nil {
		return paging.Result[Record]{}, err
	}
	if sort.Field == "" {
		sort = DefaultSort
	}

	items, total, err := s.repo.List(ctx, userID, f, page, sort)
	if err != nil {
		return paging.Result[Record]{}, err
	}
	return paging.NewResult(items, page, total), nil
}
