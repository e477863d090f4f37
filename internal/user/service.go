package user

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

func (s *Service) Create(ctx context.Context, in NewInput) (User, error) {
	in.normalize()
	if err := validation.Struct(in); err != nil {
		return User{}, err
	}
	u := User{Username: in.Username, Bio: in.Bio}
	if err := s.repo.Create(ctx, &u); err != nil {
		return User{}, err
	}
	return u, nil
}

// Get returns the profile, flagged when acting is looking at itself.
func (s *Service) Get(ctx context.Context, acting identity.Identity, id string) (User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return User{}, err
	}
	u.IsCurrentUser = acting.Present() && acting.ID == u.ID
	return u, nil
}

func (s *Service) List(ctx context.Context, acting identity.Identity, f Filter, page paging.Request, sort paging.Sort) (paging.Result[User], error) {
	if err := page.Validate(); err != nil {
		return paging.Result[User]{}, err
	}
	if sort.Field == "" {
		sort = DefaultSort
	}

	items, total, err := s.repo.List(ctx, f, page, sort)
	if err != nil {
		return paging.Result[User]{}, err
	}
	for i := range items {
		items[i].IsCurrentUser = acting.Present() && acting.ID == items[i].ID
	}
	return paging.NewResult(items, page, total), nil
}

func (s *Service) Update(ctx context.Context, acting identity.Identity, id string, p Patch) (User, error) {
	p.normalize()
	if err := authz.Prepare[User](acting, id, p); err != nil {
		return User{}, err
	}

	u, err := s.repo.Update(ctx, id, p)
	if err != nil {
		return User{}, err
	}
	u.IsCurrentUser = true
	return u, nil
}

// Delete removes the account. Library records and reviews go with it through
// the foreign keys.
func (s *Service) Delete(ctx context.Context, acting identity.Identity, id string) error {
	if err := authz.Check(acting, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
