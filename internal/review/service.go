package review

import (
	"context"

	"gamehub/internal/authz"
	"gamehub/internal/identity"
	"gamehub/internal/paging"
	"gamehub/internal/validation"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create posts acting's review of in.GameID. The author is always the acting
// identity.
func (s *Service) Create(ctx context.Context, acting identity.Identity, in CreateInput) (Review, error) {
	if err := authz.Authenticated(acting); err != nil {
		return Review{}, err
	}
	in.normalize()
	if err := validation.Struct(in); err != nil {
		return Review{}, err
	}

	return s.repo.Insert(ctx, Review{
		UserID: acting.ID,
		GameID: in.GameID,
		Title:  in.Title,
		Body:   in.Body,
		Rating: *in.Rating,
	})
}

func (s *Service) Get(ctx context.Context, id string) (Review, error) {
	return s.repo.Get(ctx, id)
}

// Update loads the review to learn its author, then runs the owner gate and
// patch validation before writing.
func (s *Service) Update(ctx context.Context, acting identity.Identity, id string, p Patch) (Review, error) {
	if err := authz.Authenticated(acting); err != nil {
		return Review{}, err
	}
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return Review{}, err
	}

	p.normalize()
	if err := authz.Prepare[Review](acting, existing.OwnerID(), p); err != nil {
		return Review{}, err
	}
	return s.repo.Update(ctx, id, existing.UserID, p)
}

func (s *Service) Delete(ctx context.Context, acting identity.Identity, id string) error {
	if err := authz.Authenticated(acting); err != nil {
		return err
	}
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := authz.Check(acting, existing.OwnerID()); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id, existing.UserID)
}

// ListByGame lists a game's reviews, optionally narrowed to one author.
func (s *Service) ListByGame(ctx context.Context, gameID, userID string, page paging.Request, sort paging.Sort) (paging.Result[Review], error) {
	return s.list(ctx, Filter{GameID: gameID, UserID: userID}, page, sort)
}

func (s *Service) ListByAuthor(ctx context.Context, userID string, page paging.Request, sort paging.Sort) (paging.Result[Review], error) {
	return s.list(ctx, Filter{UserID: userID}, page, sort)
}

func (s *Service) list(ctx context.Context, f Filter, page paging.Request, sort paging.Sort) (paging.Result[Review], error) {
	if f.GameID == "" && f.UserID == "" {
		return paging.Result[Review]{}, ErrNoScope
	}
	if err := page.Validate(); err != nil {
		return paging.Result[Review]{}, err
	}
	if sort.Field == "" {
		sort = DefaultSort
	}

	items, total, err := s.repo.List(ctx, f, page, sort)
	if err != nil {
		return paging.Result[Review]{}, err
	}
	return paging.NewResult(items, page, total), nil
}
