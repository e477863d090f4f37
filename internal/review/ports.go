package review

import (
	"context"

	"gamehub/internal/paging"
)

// Repository stores reviews. Insert must reject a second review for the same
// (user, game) atomically with ErrAlreadyReviewed. Update and Delete match on
// both id and author so a stale ownership check cannot widen the write.
type Repository interface {
	Insert(ctx context.Context, rev Review) (Review, error)
	Get(ctx context.Context, id string) (Review, error)
	Update(ctx context.Context, id, userID string, p Patch) (Review, error)
	Delete(ctx context.Context, id, userID string) error
	List(ctx context.Context, f Filter, page paging.Request, sort paging.Sort) ([]Review, int, error)
}
