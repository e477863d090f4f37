package user

import (
	"context"

	"gamehub/internal/paging"
)

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id string) (User, error)
	List(ctx context.Context, f Filter, page paging.Request, sort paging.Sort) ([]User, int, error)
	Update(ctx context.Context, id string, p Patch) (User, error)
	Delete(ctx context.Context, id string) error
}
