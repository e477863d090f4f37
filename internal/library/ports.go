package library

import (
	"context"

	"gamehub/internal/paging"
)

// Repository stores library records. Insert must reject a second record for
// the same (user, game) atomically with ErrAlreadyAdded.
type Repository interface {
	Insert(ctx context.Context, rec Record) (Record, error)
	Get(ctx context.Context, userID, gameID string) (Record, error)
	Update(ctx context.Context, userID, gameID string, p Patch) (Record, error)
	Delete(ctx context.Context, userID, gameID string) error
	List(ctx context.Context, userID string, f Filter, page paging.Request, sort paging.Sort) ([]Record, int, error)
}
